package dom

import (
	"fmt"
	"strings"
	"sync"

	"github.com/chrisuehlinger/scriptdom/html"
)

// NodeRef addresses a node in a Tree. The zero value is never valid.
type NodeRef struct {
	Index uint32
	Gen   uint32
}

// IsZero reports whether r is the zero NodeRef.
func (r NodeRef) IsZero() bool {
	return r.Index == 0
}

func (r NodeRef) String() string {
	return fmt.Sprintf("#%d@%d", r.Index, r.Gen)
}

// Attribute is a single name/value pair on an element.
type Attribute struct {
	Namespace string
	Name      string
	Value     string
}

// node is the arena payload. children own their nodes; parent is a
// back-reference used for lookups only.
type node struct {
	nodeType  NodeType
	data      string // tag name for elements, character data for text and comments
	namespace string
	attrs     []Attribute
	parent    NodeRef
	children  []NodeRef
}

type slot struct {
	gen  uint32
	node *node
}

// Tree owns every node of a document.
//
// A Tree is safe for concurrent use: reads share a lock, mutations take it
// exclusively. This lets the display goroutine paint the current state while
// the script goroutine mutates it.
type Tree struct {
	mu    sync.RWMutex
	slots []slot
	free  []uint32
	root  NodeRef
}

// NewTree parses markup into a new Tree. The root is always a Document node.
func NewTree(markup string) *Tree {
	t := &Tree{slots: make([]slot, 1, 64)}
	t.root = t.build(html.ParseDocument(markup), NodeRef{})
	return t
}

// Root returns the Document node.
func (t *Tree) Root() NodeRef {
	return t.root
}

// Len returns the number of live nodes.
func (t *Tree) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.slots) - 1 - len(t.free)
}

// Valid reports whether ref still points at a live node.
func (t *Tree) Valid(ref NodeRef) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, err := t.lookup(ref)
	return err == nil
}

// Type returns the node type of ref.
func (t *Tree) Type(ref NodeRef) (NodeType, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n, err := t.lookup(ref)
	if err != nil {
		return 0, err
	}
	return n.nodeType, nil
}

// TagName returns the element's tag name, upper-cased for HTML elements.
func (t *Tree) TagName(ref NodeRef) (string, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n, err := t.element(ref)
	if err != nil {
		return "", err
	}
	return n.tagName(), nil
}

// Data returns the character data of a text or comment node.
func (t *Tree) Data(ref NodeRef) (string, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n, err := t.lookup(ref)
	if err != nil {
		return "", err
	}
	if n.nodeType == ElementNode || n.nodeType == DocumentNode {
		return "", nil
	}
	return n.data, nil
}

// Parent returns the parent of ref. The root has no parent.
func (t *Tree) Parent(ref NodeRef) (NodeRef, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n, err := t.lookup(ref)
	if err != nil || n.parent.IsZero() {
		return NodeRef{}, false
	}
	return n.parent, true
}

// Children returns a copy of the child list of ref.
func (t *Tree) Children(ref NodeRef) ([]NodeRef, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n, err := t.lookup(ref)
	if err != nil {
		return nil, err
	}
	return append([]NodeRef(nil), n.children...), nil
}

// Attributes returns a copy of the element's attributes in source order.
// Non-element nodes have none.
func (t *Tree) Attributes(ref NodeRef) []Attribute {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n, err := t.lookup(ref)
	if err != nil || n.nodeType != ElementNode {
		return nil
	}
	return append([]Attribute(nil), n.attrs...)
}

// ID returns the value of the element's id attribute. It is read from the
// attribute list on every call.
func (t *Tree) ID(ref NodeRef) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n, err := t.lookup(ref)
	if err != nil {
		return "", false
	}
	return n.id()
}

// SetAttribute sets an attribute value, appending it if it does not exist.
func (t *Tree) SetAttribute(ref NodeRef, name, value string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	n, err := t.element(ref)
	if err != nil {
		return err
	}
	for i := range n.attrs {
		if n.attrs[i].Name == name {
			n.attrs[i].Value = value
			return nil
		}
	}
	n.attrs = append(n.attrs, Attribute{Name: name, Value: value})
	return nil
}

func (n *node) id() (string, bool) {
	if n.nodeType != ElementNode {
		return "", false
	}
	for _, a := range n.attrs {
		if a.Name == "id" && a.Namespace == "" {
			return a.Value, true
		}
	}
	return "", false
}

func (n *node) tagName() string {
	if n.namespace == "" {
		return strings.ToUpper(n.data)
	}
	return n.data
}

// lookup resolves ref. Callers must hold t.mu.
func (t *Tree) lookup(ref NodeRef) (*node, error) {
	if ref.Index == 0 || int(ref.Index) >= len(t.slots) {
		return nil, ErrInvalidRef
	}
	s := t.slots[ref.Index]
	if s.node == nil || s.gen != ref.Gen {
		return nil, fmt.Errorf("%s: %w", ref, ErrStaleNode)
	}
	return s.node, nil
}

func (t *Tree) element(ref NodeRef) (*node, error) {
	n, err := t.lookup(ref)
	if err != nil {
		return nil, err
	}
	if n.nodeType != ElementNode {
		return nil, fmt.Errorf("%s is %s: %w", ref, n.nodeType, ErrNotElement)
	}
	return n, nil
}

func (t *Tree) alloc(n *node) NodeRef {
	if k := len(t.free); k > 0 {
		idx := t.free[k-1]
		t.free = t.free[:k-1]
		t.slots[idx].node = n
		return NodeRef{Index: idx, Gen: t.slots[idx].gen}
	}
	t.slots = append(t.slots, slot{node: n})
	return NodeRef{Index: uint32(len(t.slots) - 1)}
}

// release frees ref and its whole subtree.
func (t *Tree) release(ref NodeRef) {
	s := &t.slots[ref.Index]
	if s.node == nil || s.gen != ref.Gen {
		return
	}
	for _, c := range s.node.children {
		t.release(c)
	}
	s.node = nil
	s.gen++
	t.free = append(t.free, ref.Index)
}

// build copies a parsed subtree into the arena under parent.
func (t *Tree) build(p *html.Node, parent NodeRef) NodeRef {
	n := &node{
		nodeType:  convertType(p.Type),
		data:      p.Data,
		namespace: p.Namespace,
		parent:    parent,
	}
	for _, a := range p.Attributes {
		n.attrs = append(n.attrs, Attribute{Namespace: a.Namespace, Name: a.Key, Value: a.Value})
	}
	ref := t.alloc(n)
	for c := p.FirstChild; c != nil; c = c.NextSibling {
		n.children = append(n.children, t.build(c, ref))
	}
	return ref
}

func convertType(nt html.NodeType) NodeType {
	switch nt {
	case html.ElementNode:
		return ElementNode
	case html.TextNode:
		return TextNode
	case html.CommentNode:
		return CommentNode
	case html.DoctypeNode:
		return DocumentTypeNode
	default:
		return DocumentNode
	}
}
