package dom

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xlab/treeprint"
)

// Dump writes an indented outline of the tree to w. Whitespace-only text
// nodes are left out.
func (t *Tree) Dump(w io.Writer) error {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := treeprint.New()
	out.SetValue(t.label(t.root))
	t.dumpChildren(out, t.root)
	_, err := io.WriteString(w, out.String())
	return err
}

func (t *Tree) dumpChildren(branch treeprint.Tree, ref NodeRef) {
	for _, c := range t.slots[ref.Index].node.children {
		n := t.slots[c.Index].node
		if n.nodeType == TextNode && strings.TrimSpace(n.data) == "" {
			continue
		}
		if len(n.children) == 0 {
			branch.AddNode(t.label(c))
			continue
		}
		t.dumpChildren(branch.AddBranch(t.label(c)), c)
	}
}

func (t *Tree) label(ref NodeRef) string {
	n := t.slots[ref.Index].node
	switch n.nodeType {
	case DocumentNode:
		return "#document"
	case DocumentTypeNode:
		return "<!DOCTYPE " + n.data + ">"
	case TextNode:
		return "#text " + strconv.Quote(strings.TrimSpace(n.data))
	case CommentNode:
		return "#comment " + strconv.Quote(n.data)
	}
	var sb strings.Builder
	sb.WriteString(n.data)
	for _, a := range n.attrs {
		fmt.Fprintf(&sb, " %s=%q", a.Name, a.Value)
	}
	return sb.String()
}
