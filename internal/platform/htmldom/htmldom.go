// Package htmldom implements the platform DOM capability over a parsed,
// in-memory HTML document. Queries are synchronous and never wait.
package htmldom

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/net/html"

	"github.com/Stefan/ppm-saas-sub008/internal/platform"
)

func init() {
	platform.Register(platform.KindHTML, open)
}

// Document is a parsed HTML document indexed by test ID.
type Document struct {
	root   *html.Node
	attr   string
	byID   map[string][]*html.Node
	labels map[string]bool
}

// Parse reads an HTML document. attr names the test-ID attribute; empty
// means data-testid.
func Parse(r io.Reader, attr string) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	if attr == "" {
		attr = platform.DefaultTestIDAttribute
	}
	d := &Document{
		root:   root,
		attr:   strings.ToLower(attr),
		byID:   make(map[string][]*html.Node),
		labels: make(map[string]bool),
	}
	d.index(root)
	return d, nil
}

// ParseString parses an HTML document held in memory.
func ParseString(s, attr string) (*Document, error) {
	return Parse(strings.NewReader(s), attr)
}

// ParseFile parses the HTML file at path. "-" reads standard input.
func ParseFile(path, attr string) (*Document, error) {
	if path == "-" {
		return Parse(os.Stdin, attr)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f, attr)
}

func (d *Document) index(n *html.Node) {
	if n.Type == html.ElementNode {
		if id, ok := attrValue(n, d.attr); ok {
			d.byID[id] = append(d.byID[id], n)
		}
		if n.Data == "label" {
			if forID, ok := attrValue(n, "for"); ok && forID != "" {
				d.labels[forID] = true
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		d.index(c)
	}
}

// FindByTestID returns the nodes carrying testID in document order.
func (d *Document) FindByTestID(ctx context.Context, testID string) ([]platform.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	nodes := d.byID[testID]
	elements := make([]platform.Element, 0, len(nodes))
	for _, n := range nodes {
		elements = append(elements, &element{node: n})
	}
	return elements, nil
}

// HasLabelFor reports whether a <label for="id"> exists.
func (d *Document) HasLabelFor(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return d.labels[id], nil
}

// TestIDs returns every distinct test ID in the document.
func (d *Document) TestIDs() []string {
	ids := make([]string, 0, len(d.byID))
	for id := range d.byID {
		ids = append(ids, id)
	}
	return ids
}

func open(ctx context.Context, target string, opts platform.OpenOptions) (*platform.Provider, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc, err := ParseFile(strings.TrimPrefix(target, "file://"), opts.TestIDAttribute)
	if err != nil {
		return nil, err
	}
	return platform.NewProvider(doc, nil, nil, nil), nil
}

func attrValue(n *html.Node, name string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}
