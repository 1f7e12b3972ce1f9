package dom

import (
	"github.com/chrisuehlinger/scriptdom/html"
)

// InnerHTML serializes the element's children to markup.
func (t *Tree) InnerHTML(ref NodeRef) (string, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if _, err := t.element(ref); err != nil {
		return "", err
	}
	return html.RenderChildrenString(t.export(ref, nil))
}

// SetInnerHTML replaces the element's children with the result of parsing
// markup in the element's context. The new children are fully built before
// the old ones are discarded; markup that parses to nothing leaves the
// element empty. Discarded nodes become stale.
func (t *Tree) SetInnerHTML(ref NodeRef, markup string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	n, err := t.element(ref)
	if err != nil {
		return err
	}

	parsed := html.ParseFragment(markup, n.data, n.namespace)
	fresh := make([]NodeRef, 0, len(parsed))
	for _, p := range parsed {
		fresh = append(fresh, t.build(p, ref))
	}

	old := n.children
	n.children = fresh
	for _, c := range old {
		t.release(c)
	}
	return nil
}

// Export copies the subtree at ref into a detached html.Node tree that can
// be read without holding any lock.
func (t *Tree) Export(ref NodeRef) (*html.Node, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if _, err := t.lookup(ref); err != nil {
		return nil, err
	}
	return t.export(ref, nil), nil
}

func (t *Tree) export(ref NodeRef, parent *html.Node) *html.Node {
	n := t.slots[ref.Index].node
	out := &html.Node{
		Type:      exportType(n.nodeType),
		Data:      n.data,
		Namespace: n.namespace,
	}
	for _, a := range n.attrs {
		out.Attributes = append(out.Attributes, html.Attribute{Namespace: a.Namespace, Key: a.Name, Value: a.Value})
	}
	if parent != nil {
		parent.AppendChild(out)
	}
	for _, c := range n.children {
		t.export(c, out)
	}
	return out
}

func exportType(nt NodeType) html.NodeType {
	switch nt {
	case ElementNode:
		return html.ElementNode
	case TextNode:
		return html.TextNode
	case CommentNode:
		return html.CommentNode
	case DocumentTypeNode:
		return html.DoctypeNode
	default:
		return html.DocumentNode
	}
}

// TextContent returns the concatenated text of ref's descendants.
func (t *Tree) TextContent(ref NodeRef) (string, error) {
	n, err := t.Export(ref)
	if err != nil {
		return "", err
	}
	return n.TextContent(), nil
}
