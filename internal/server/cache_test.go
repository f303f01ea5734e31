package server

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeHTML(t *testing.T, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDocumentCache_HitWithinTTL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.html")
	writeHTML(t, path, `<div data-testid="a"></div>`)
	c := NewDocumentCache(time.Minute)
	t.Cleanup(func() { _ = c.Close() })

	first, err := c.Load(path, "data-testid")
	if err != nil {
		t.Fatal(err)
	}
	second, err := c.Load(path, "data-testid")
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Error("expected the cached document to be returned")
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}

	other, err := c.Load(path, "data-qa")
	if err != nil {
		t.Fatal(err)
	}
	if other == first {
		t.Error("a different attribute should parse separately")
	}
}

func TestDocumentCache_ReparsesChangedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.html")
	writeHTML(t, path, `<div data-testid="a"></div>`)
	c := NewDocumentCache(time.Minute)
	t.Cleanup(func() { _ = c.Close() })

	if _, err := c.Load(path, "data-testid"); err != nil {
		t.Fatal(err)
	}
	writeHTML(t, path, `<div data-testid="b"></div>`)
	later := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(path, later, later); err != nil {
		t.Fatal(err)
	}

	doc, err := c.Load(path, "data-testid")
	if err != nil {
		t.Fatal(err)
	}
	els, _ := doc.FindByTestID(context.Background(), "b")
	if len(els) != 1 {
		t.Error("expected the modified file to be parsed again")
	}
}

func TestDocumentCache_Disabled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.html")
	writeHTML(t, path, `<p></p>`)
	c := NewDocumentCache(0)

	a, _ := c.Load(path, "")
	b, _ := c.Load(path, "")
	if a == b {
		t.Error("ttl 0 should disable caching")
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0", c.Len())
	}
}

func TestDocumentCache_Invalidate(t *testing.T) {
	dir := t.TempDir()
	p1, p2 := filepath.Join(dir, "1.html"), filepath.Join(dir, "2.html")
	writeHTML(t, p1, `<p></p>`)
	writeHTML(t, p2, `<p></p>`)
	c := NewDocumentCache(time.Minute)
	t.Cleanup(func() { _ = c.Close() })
	c.Load(p1, "")
	c.Load(p2, "")

	c.Invalidate(p1)
	if c.Len() != 1 {
		t.Errorf("Len() after Invalidate = %d, want 1", c.Len())
	}
	c.InvalidateAll()
	if c.Len() != 0 {
		t.Errorf("Len() after InvalidateAll = %d, want 0", c.Len())
	}
}

func TestDocumentCache_MissingFile(t *testing.T) {
	c := NewDocumentCache(time.Minute)
	t.Cleanup(func() { _ = c.Close() })
	if _, err := c.Load(filepath.Join(t.TempDir(), "none.html"), ""); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestDocumentCache_WatchInvalidatesOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.html")
	writeHTML(t, path, `<div data-testid="a"></div>`)
	c := NewDocumentCache(time.Hour)
	t.Cleanup(func() { _ = c.Close() })
	if !c.Watching() {
		t.Skip("file watching not available here")
	}

	if _, err := c.Load(path, "data-testid"); err != nil {
		t.Fatal(err)
	}
	writeHTML(t, path, `<div data-testid="b"></div>`)

	deadline := time.Now().Add(5 * time.Second)
	for c.Len() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("entry was not invalidated after the file changed")
		}
		time.Sleep(10 * time.Millisecond)
	}

	doc, err := c.Load(path, "data-testid")
	if err != nil {
		t.Fatal(err)
	}
	if ids := doc.TestIDs(); len(ids) != 1 || ids[0] != "b" {
		t.Errorf("reloaded document has ids %v, want [b]", ids)
	}
}

func TestDocumentCache_Close(t *testing.T) {
	c := NewDocumentCache(time.Minute)
	if err := c.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}

	disabled := NewDocumentCache(0)
	if disabled.Watching() {
		t.Error("a disabled cache should not watch files")
	}
	if err := disabled.Close(); err != nil {
		t.Errorf("Close() on disabled cache error = %v", err)
	}
}
