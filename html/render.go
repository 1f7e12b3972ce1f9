package html

import (
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// rawTextElements hold text that is serialized without escaping.
var rawTextElements = map[string]bool{
	"iframe":    true,
	"noembed":   true,
	"noframes":  true,
	"noscript":  true,
	"plaintext": true,
	"script":    true,
	"style":     true,
	"xmp":       true,
}

// Render writes the markup for n and its descendants.
func Render(w io.Writer, n *Node) error {
	return html.Render(w, toNetNode(n))
}

// RenderChildren writes the markup for the children of n, which is what
// innerHTML returns. Feeding the output back to ParseFragment with n's tag
// name and namespace as context reproduces an equivalent list of children.
func RenderChildren(w io.Writer, n *Node) error {
	raw := n.Type == ElementNode && n.Namespace == "" && rawTextElements[n.Data]
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if raw && c.Type == TextNode {
			if _, err := io.WriteString(w, c.Data); err != nil {
				return err
			}
			continue
		}
		if err := html.Render(w, toNetNode(c)); err != nil {
			return err
		}
	}
	return nil
}

// RenderChildrenString is RenderChildren into a string.
func RenderChildrenString(n *Node) (string, error) {
	var sb strings.Builder
	if err := RenderChildren(&sb, n); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func toNetNode(n *Node) *html.Node {
	out := &html.Node{
		Type:      toNetNodeType(n.Type),
		Data:      n.Data,
		DataAtom:  n.DataAtom,
		Namespace: n.Namespace,
	}
	if out.Type == html.ElementNode && out.DataAtom == 0 {
		out.DataAtom = atom.Lookup([]byte(n.Data))
	}
	for _, a := range n.Attributes {
		out.Attr = append(out.Attr, html.Attribute{Namespace: a.Namespace, Key: a.Key, Val: a.Value})
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out.AppendChild(toNetNode(c))
	}
	return out
}

func toNetNodeType(nt NodeType) html.NodeType {
	switch nt {
	case TextNode:
		return html.TextNode
	case DocumentNode:
		return html.DocumentNode
	case ElementNode:
		return html.ElementNode
	case CommentNode:
		return html.CommentNode
	case DoctypeNode:
		return html.DoctypeNode
	default:
		return html.ErrorNode
	}
}
