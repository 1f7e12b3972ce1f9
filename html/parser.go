// Package html provides HTML parsing and serialization using golang.org/x/net/html
// as the underlying implementation.
//
// Parsing is best-effort: malformed markup is repaired by the HTML5 tree
// builder and read failures produce an empty result instead of an error, so
// callers never have to propagate a parse failure.
package html

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// NodeType represents the type of an HTML node.
type NodeType int

const (
	ErrorNode NodeType = iota
	TextNode
	DocumentNode
	ElementNode
	CommentNode
	DoctypeNode
)

// Attribute represents an HTML attribute.
type Attribute struct {
	Namespace string
	Key       string
	Value     string
}

// Node represents a node in a parsed HTML tree.
type Node struct {
	Type       NodeType
	Data       string    // For elements: tag name; for text: text content
	DataAtom   atom.Atom // Atom for known HTML elements
	Namespace  string    // Namespace URI (for SVG, MathML, etc.)
	Attributes []Attribute

	Parent      *Node
	FirstChild  *Node
	LastChild   *Node
	PrevSibling *Node
	NextSibling *Node
}

// AppendChild adds a child node to the end of this node's children.
func (n *Node) AppendChild(c *Node) {
	c.Parent = n
	c.PrevSibling = n.LastChild
	c.NextSibling = nil
	if n.LastChild != nil {
		n.LastChild.NextSibling = c
	} else {
		n.FirstChild = c
	}
	n.LastChild = c
}

// HasAttribute returns true if the node has the specified attribute.
func (n *Node) HasAttribute(key string) bool {
	for _, attr := range n.Attributes {
		if attr.Key == key {
			return true
		}
	}
	return false
}

// ParseDocument parses a complete document. The HTML5 algorithm always
// produces a document with html, head and body elements, so the result is
// never nil.
func ParseDocument(markup string) *Node {
	netNode, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return &Node{Type: DocumentNode}
	}
	return convertNode(netNode)
}

// ParseFragment parses markup as the content of an element named context
// (for example "div") in the given namespace ("" for HTML, "svg" or
// "math" for foreign elements). An empty context parses in body context.
// Unparseable input yields no nodes.
func ParseFragment(markup, context, namespace string) []*Node {
	if context == "" {
		context, namespace = "body", ""
	}
	contextNode := &html.Node{
		Type:      html.ElementNode,
		Data:      context,
		DataAtom:  atom.Lookup([]byte(context)),
		Namespace: namespace,
	}
	netNodes, err := html.ParseFragment(strings.NewReader(markup), contextNode)
	if err != nil {
		return nil
	}
	nodes := make([]*Node, 0, len(netNodes))
	for _, nn := range netNodes {
		if n := convertNode(nn); n != nil {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

// convertNode converts a golang.org/x/net/html node to our Node type.
func convertNode(n *html.Node) *Node {
	if n == nil {
		return nil
	}
	node := &Node{
		Type:      convertNodeType(n.Type),
		Data:      n.Data,
		DataAtom:  n.DataAtom,
		Namespace: n.Namespace,
	}
	for _, attr := range n.Attr {
		node.Attributes = append(node.Attributes, Attribute{
			Namespace: attr.Namespace,
			Key:       attr.Key,
			Value:     attr.Val,
		})
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if child := convertNode(c); child != nil && child.Type != ErrorNode {
			node.AppendChild(child)
		}
	}
	return node
}

// convertNodeType converts golang.org/x/net/html.NodeType to our NodeType.
func convertNodeType(nt html.NodeType) NodeType {
	switch nt {
	case html.TextNode:
		return TextNode
	case html.DocumentNode:
		return DocumentNode
	case html.ElementNode:
		return ElementNode
	case html.CommentNode:
		return CommentNode
	case html.DoctypeNode:
		return DoctypeNode
	default:
		return ErrorNode
	}
}

// TextContent returns the text content of a node and its descendants.
func (n *Node) TextContent() string {
	var sb strings.Builder
	n.collectTextContent(&sb)
	return sb.String()
}

func (n *Node) collectTextContent(sb *strings.Builder) {
	if n.Type == TextNode {
		sb.WriteString(n.Data)
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		c.collectTextContent(sb)
	}
}
