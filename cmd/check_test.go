package cmd

import (
	"context"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/Stefan/ppm-saas-sub008/internal/config"
	"github.com/Stefan/ppm-saas-sub008/internal/manifest"
	"github.com/Stefan/ppm-saas-sub008/internal/platform"
	"github.com/Stefan/ppm-saas-sub008/internal/platform/htmldom"
	"github.com/Stefan/ppm-saas-sub008/internal/verify"
	"github.com/Stefan/ppm-saas-sub008/internal/visual"
)

func TestExecuteCheck(t *testing.T) {
	doc, err := htmldom.ParseString(`
<button data-testid="save">Save</button>
<button data-testid="icon-close"></button>
<input id="q" data-testid="search"><label for="q">Search</label>`, "")
	if err != nil {
		t.Fatal(err)
	}
	v := verify.New(doc, verify.Config{})
	ids := []string{"save", "icon-close", "search", "missing"}

	res := executeCheck(context.Background(), v, "inline", ids, false)
	if res.Passed || res.Interactive != nil {
		t.Errorf("existence only: got %+v", res)
	}
	if got := res.Existence.MissingElements; len(got) != 1 || got[0] != "missing" {
		t.Errorf("missing: got %v", got)
	}

	res = executeCheck(context.Background(), v, "inline", ids[:3], true)
	if res.Interactive == nil {
		t.Fatal("interactive result should be present")
	}
	if !res.Existence.Passed || res.Passed {
		t.Errorf("unlabelled button should fail the check: %+v", res)
	}
	if got := res.Interactive.Violations; len(got) != 1 || got[0].TestID != "icon-close" {
		t.Errorf("violations: got %+v", got)
	}
}

func TestValidateRegistry(t *testing.T) {
	res := validateRegistry(manifest.Default(), builtinSource)
	if !res.Valid {
		t.Errorf("built-in structures should validate: %+v", res.Results)
	}
	if len(res.Results) == 0 {
		t.Error("expected per-structure results")
	}
}

func TestThresholdsFromFlags(t *testing.T) {
	vc := config.DefaultProjectConfig().Visual

	cmd := &cobra.Command{}
	addThresholdFlags(cmd)
	got, diffDir, err := thresholdsFromFlags(cmd, vc)
	if err != nil {
		t.Fatal(err)
	}
	if got != vc.Thresholds() || diffDir != vc.DiffDir {
		t.Errorf("unset flags should keep project values, got %+v %q", got, diffDir)
	}

	cmd = &cobra.Command{}
	addThresholdFlags(cmd)
	_ = cmd.Flags().Set("threshold", "0.05")
	_ = cmd.Flags().Set("max-diff-pixels", "10")
	_ = cmd.Flags().Set("tolerance", "0")
	_ = cmd.Flags().Set("diff-dir", "out")
	got, diffDir, err = thresholdsFromFlags(cmd, vc)
	if err != nil {
		t.Fatal(err)
	}
	want := visual.Thresholds{Percentage: 0.05, MaxDiffPixels: 10, ChannelTolerance: 0}
	if got != want || diffDir != "out" {
		t.Errorf("got %+v %q, want %+v out", got, diffDir, want)
	}

	cmd = &cobra.Command{}
	addThresholdFlags(cmd)
	_ = cmd.Flags().Set("threshold", "1.5")
	if _, _, err := thresholdsFromFlags(cmd, vc); err == nil {
		t.Error("expected error for threshold above 1")
	}
}

func writeSolidPNG(t *testing.T, path string, c color.Color) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			img.Set(x, y, c)
		}
	}
	if err := visual.SavePNG(path, img); err != nil {
		t.Fatal(err)
	}
}

func TestCompareImages(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "base.png")
	same := filepath.Join(dir, "same.png")
	other := filepath.Join(dir, "other.png")
	writeSolidPNG(t, base, color.White)
	writeSolidPNG(t, same, color.White)
	writeSolidPNG(t, other, color.Black)

	res, err := compareImages(base, same, visual.DefaultThresholds(), filepath.Join(dir, "diffs"))
	if err != nil {
		t.Fatal(err)
	}
	if res.Comparison.Failed || res.Comparison.DiffPath != "" {
		t.Errorf("identical images should pass without a diff: %+v", res.Comparison)
	}

	res, err = compareImages(base, other, visual.DefaultThresholds(), filepath.Join(dir, "diffs"))
	if err != nil {
		t.Fatal(err)
	}
	if !res.Comparison.Failed || filepath.Ext(res.Comparison.DiffPath) != ".png" {
		t.Errorf("expected failure with a .png diff: %+v", res.Comparison)
	}

	if _, err := compareImages(filepath.Join(dir, "none.png"), same, visual.DefaultThresholds(), ""); err == nil {
		t.Error("expected error for a missing baseline")
	}
}

type fakeShooter struct {
	opts platform.ScreenshotOptions
}

func (f *fakeShooter) Capture(_ context.Context, opts platform.ScreenshotOptions) ([]byte, error) {
	f.opts = opts
	return []byte("png-bytes"), nil
}

func TestCapture(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shots", "risks.png")
	shooter := &fakeShooter{}
	p := platform.NewProvider(nil, nil, shooter, nil)
	opts := platform.ScreenshotOptions{FullPage: true, MaskSelectors: []string{`[data-testid="clock"]`}}

	if err := capture(context.Background(), p, "", opts, path); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "png-bytes" {
		t.Errorf("capture not written: %q %v", data, err)
	}
	if !shooter.opts.FullPage || len(shooter.opts.MaskSelectors) != 1 {
		t.Errorf("options not passed through: %+v", shooter.opts)
	}
}

func TestCapture_Unsupported(t *testing.T) {
	p := platform.NewProvider(nil, nil, nil, nil)
	err := capture(context.Background(), p, "", platform.ScreenshotOptions{}, filepath.Join(t.TempDir(), "x.png"))
	if !errors.Is(err, platform.ErrUnsupported) {
		t.Errorf("expected ErrUnsupported, got %v", err)
	}
}

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.png")
	dst := filepath.Join(dir, "nested", "b.png")
	if err := os.WriteFile(src, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := copyFile(src, dst); err != nil {
		t.Fatal(err)
	}
	if data, _ := os.ReadFile(dst); string(data) != "x" {
		t.Errorf("got %q", data)
	}
}
