package htmldom

import (
	"context"
	"strings"

	"golang.org/x/net/html"
)

type element struct {
	node *html.Node
}

func (e *element) TagName(ctx context.Context) (string, error) {
	return strings.ToLower(e.node.Data), ctx.Err()
}

func (e *element) Attribute(ctx context.Context, name string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	v, ok := attrValue(e.node, strings.ToLower(name))
	return v, ok, nil
}

// Visible approximates computed style from markup: the node itself must not
// be display:none or carry the hidden attribute, and the nearest inline
// visibility declaration on it or an ancestor must not be hidden.
func (e *element) Visible(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if _, hidden := attrValue(e.node, "hidden"); hidden {
		return false, nil
	}
	if inlineStyle(e.node)["display"] == "none" {
		return false, nil
	}
	for n := e.node; n != nil; n = n.Parent {
		if n.Type != html.ElementNode {
			continue
		}
		switch inlineStyle(n)["visibility"] {
		case "hidden", "collapse":
			return false, nil
		case "visible":
			return true, nil
		}
	}
	return true, nil
}

func (e *element) Text(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var sb strings.Builder
	collectText(e.node, &sb)
	return sb.String(), nil
}

func collectText(n *html.Node, sb *strings.Builder) {
	if n.Type == html.TextNode {
		sb.WriteString(n.Data)
		return
	}
	if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, sb)
	}
}

// inlineStyle parses the style attribute into lowercase property/value pairs.
func inlineStyle(n *html.Node) map[string]string {
	raw, ok := attrValue(n, "style")
	if !ok {
		return nil
	}
	props := make(map[string]string)
	for _, decl := range strings.Split(raw, ";") {
		name, value, found := strings.Cut(decl, ":")
		if !found {
			continue
		}
		value = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(value), "!important"))
		props[strings.ToLower(strings.TrimSpace(name))] = strings.ToLower(value)
	}
	return props
}
