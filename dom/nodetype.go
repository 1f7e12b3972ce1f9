// Package dom holds the in-memory document tree that scripts read and mutate.
//
// Nodes live in an arena owned by a Tree and are addressed by NodeRef, a
// slot index paired with a generation counter. Freeing a node bumps its
// slot's generation, so a NodeRef kept by a script handle after the node was
// discarded resolves to ErrStaleNode instead of to whatever reuses the slot.
package dom

// NodeType represents the type of a Node. Values match the DOM nodeType
// constants.
type NodeType uint16

const (
	// ElementNode represents an Element node.
	ElementNode NodeType = 1
	// TextNode represents a Text node.
	TextNode NodeType = 3
	// CommentNode represents a Comment node.
	CommentNode NodeType = 8
	// DocumentNode represents a Document node.
	DocumentNode NodeType = 9
	// DocumentTypeNode represents a DocumentType node.
	DocumentTypeNode NodeType = 10
)

// String returns the string representation of the NodeType.
func (nt NodeType) String() string {
	switch nt {
	case ElementNode:
		return "ELEMENT_NODE"
	case TextNode:
		return "TEXT_NODE"
	case CommentNode:
		return "COMMENT_NODE"
	case DocumentNode:
		return "DOCUMENT_NODE"
	case DocumentTypeNode:
		return "DOCUMENT_TYPE_NODE"
	default:
		return "UNKNOWN_NODE"
	}
}
