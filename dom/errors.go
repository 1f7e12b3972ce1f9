package dom

import "errors"

var (
	// ErrInvalidRef is returned for the zero NodeRef or an index outside the arena.
	ErrInvalidRef = errors.New("dom: invalid node reference")

	// ErrStaleNode is returned when a NodeRef points at a node that has been
	// removed from the tree.
	ErrStaleNode = errors.New("dom: node has been discarded")

	// ErrNotElement is returned when an element-only operation is applied to
	// another node type.
	ErrNotElement = errors.New("dom: node is not an element")
)
