package idom

// Node is a node of the host tree being reconciled. A nil Node means "none".
//
// Implementations must return an untyped nil (not a typed nil pointer) from
// the navigation methods when there is no such node.
type Node interface {
	// OwnerDocument returns the document that created the node.
	OwnerDocument() Document

	ParentNode() Node
	FirstChild() Node
	LastChild() Node
	PreviousSibling() Node
	NextSibling() Node

	// InsertBefore inserts child as a child of the receiver before ref,
	// detaching it from its current position first. A nil ref appends.
	InsertBefore(child, ref Node)

	// RemoveChild detaches child from the receiver.
	RemoveChild(child Node)
}

// Document is the host-side collaborator the engine relies on for node
// construction, identity metadata and focus information.
type Document interface {
	// CreateElement constructs a detached element of the given identity.
	// parent is the node the element is about to be inserted into and may be
	// used to resolve a namespace. The identity must be recorded so that
	// Identity returns it for the new node.
	CreateElement(parent Node, kind Kind, key Key) Node

	// CreateText constructs a detached, empty text node.
	CreateText() Node

	// Identity returns the identity recorded when n was created.
	Identity(n Node) Identity

	// FocusedAncestors returns the focused node and its ancestors up to, but
	// excluding, boundary. It returns nil when the focused node is not inside
	// node.
	FocusedAncestors(node, boundary Node) []Node
}
