package dom

import (
	"fmt"
	"sort"

	"github.com/vango-dev/incdom/pkg/idom"
)

// NodeType is the node type discriminator.
type NodeType uint8

const (
	ElementNode NodeType = iota // <div>, <svg>, custom elements
	TextNode                    // Character data
)

// String returns the string representation of the NodeType.
func (t NodeType) String() string {
	switch t {
	case ElementNode:
		return "Element"
	case TextNode:
		return "Text"
	default:
		return "Unknown"
	}
}

// Node is a node of an in-memory host tree. It implements idom.Node.
type Node struct {
	typ   NodeType
	id    idom.Identity
	ns    string
	data  string
	attrs map[string]string
	state any

	doc    *Document
	parent *Node
	first  *Node
	last   *Node
	prev   *Node
	next   *Node
}

var _ idom.Node = (*Node)(nil)

// wrap converts a possibly nil *Node into an idom.Node without producing a
// typed nil.
func wrap(n *Node) idom.Node {
	if n == nil {
		return nil
	}
	return n
}

// unwrap converts an idom.Node created by this package back to *Node.
func unwrap(n idom.Node) *Node {
	if n == nil {
		return nil
	}
	node, ok := n.(*Node)
	if !ok {
		panic(fmt.Sprintf("dom: foreign node type %T", n))
	}
	return node
}

// Type returns the node type.
func (n *Node) Type() NodeType { return n.typ }

// IsText reports whether n is a text node.
func (n *Node) IsText() bool { return n.typ == TextNode }

// Identity returns the identity the node was created with.
func (n *Node) Identity() idom.Identity { return n.id }

// Tag returns the element's tag name, or "#text".
func (n *Node) Tag() string { return n.id.Kind.Name() }

// Key returns the node's reconciliation key.
func (n *Node) Key() idom.Key { return n.id.Key }

// Namespace returns the element namespace. HTML elements have an empty
// namespace.
func (n *Node) Namespace() string { return n.ns }

// Data returns the content of a text node.
func (n *Node) Data() string { return n.data }

// SetData sets the content of a text node. It reports whether the content
// changed; unchanged content is not written.
func (n *Node) SetData(s string) bool {
	if n.data == s {
		return false
	}
	n.data = s
	if n.doc != nil {
		n.doc.mutations.TextUpdates++
	}
	return true
}

// Attr returns the value of an attribute.
func (n *Node) Attr(name string) (string, bool) {
	v, ok := n.attrs[name]
	return v, ok
}

// SetAttr sets an attribute.
func (n *Node) SetAttr(name, value string) {
	if n.attrs == nil {
		n.attrs = make(map[string]string)
	}
	n.attrs[name] = value
}

// RemoveAttr removes an attribute.
func (n *Node) RemoveAttr(name string) {
	delete(n.attrs, name)
}

// AttrNames returns the attribute names in sorted order.
func (n *Node) AttrNames() []string {
	names := make([]string, 0, len(n.attrs))
	for name := range n.attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// State returns the per-instance state attached by a custom element's
// constructor.
func (n *Node) State() any { return n.state }

// SetState attaches per-instance state to the node.
func (n *Node) SetState(s any) { n.state = s }

// Document returns the document that created the node.
func (n *Node) Document() *Document { return n.doc }

// Parent returns the parent node, or nil.
func (n *Node) Parent() *Node { return n.parent }

// First returns the first child, or nil.
func (n *Node) First() *Node { return n.first }

// Last returns the last child, or nil.
func (n *Node) Last() *Node { return n.last }

// Next returns the next sibling, or nil.
func (n *Node) Next() *Node { return n.next }

// Prev returns the previous sibling, or nil.
func (n *Node) Prev() *Node { return n.prev }

// Children returns the child nodes in order.
func (n *Node) Children() []*Node {
	var out []*Node
	for c := n.first; c != nil; c = c.next {
		out = append(out, c)
	}
	return out
}

// ChildCount returns the number of children.
func (n *Node) ChildCount() int {
	count := 0
	for c := n.first; c != nil; c = c.next {
		count++
	}
	return count
}

// Contains reports whether other is n or a descendant of n.
func (n *Node) Contains(other *Node) bool {
	for cur := other; cur != nil; cur = cur.parent {
		if cur == n {
			return true
		}
	}
	return false
}

// AppendChild appends child, detaching it from its current parent first.
func (n *Node) AppendChild(child *Node) {
	n.insertBefore(child, nil)
}

// OwnerDocument implements idom.Node.
func (n *Node) OwnerDocument() idom.Document { return n.doc }

// ParentNode implements idom.Node.
func (n *Node) ParentNode() idom.Node { return wrap(n.parent) }

// FirstChild implements idom.Node.
func (n *Node) FirstChild() idom.Node { return wrap(n.first) }

// LastChild implements idom.Node.
func (n *Node) LastChild() idom.Node { return wrap(n.last) }

// PreviousSibling implements idom.Node.
func (n *Node) PreviousSibling() idom.Node { return wrap(n.prev) }

// NextSibling implements idom.Node.
func (n *Node) NextSibling() idom.Node { return wrap(n.next) }

// InsertBefore implements idom.Node.
func (n *Node) InsertBefore(child, ref idom.Node) {
	n.insertBefore(unwrap(child), unwrap(ref))
}

// RemoveChild implements idom.Node.
func (n *Node) RemoveChild(child idom.Node) {
	c := unwrap(child)
	if c == nil || c.parent != n {
		panic("dom: RemoveChild: node is not a child of this node")
	}
	n.detach(c)
	if n.doc != nil {
		n.doc.mutations.Removed++
	}
}

func (n *Node) insertBefore(child, ref *Node) {
	if child == nil {
		panic("dom: InsertBefore: nil child")
	}
	if ref != nil && ref.parent != n {
		panic("dom: InsertBefore: reference node is not a child of this node")
	}
	if child.Contains(n) {
		panic("dom: InsertBefore: node would become its own ancestor")
	}
	if child == ref {
		return
	}

	moved := child.parent != nil
	if moved {
		child.parent.detach(child)
	}

	child.parent = n
	child.next = ref
	if ref == nil {
		child.prev = n.last
		if n.last != nil {
			n.last.next = child
		} else {
			n.first = child
		}
		n.last = child
	} else {
		child.prev = ref.prev
		if ref.prev != nil {
			ref.prev.next = child
		} else {
			n.first = child
		}
		ref.prev = child
	}

	if n.doc != nil {
		if moved {
			n.doc.mutations.Moved++
		} else {
			n.doc.mutations.Inserted++
		}
	}
}

// detach unlinks child from n. Detaching the focused node or one of its
// ancestors blurs it, as a browser would.
func (n *Node) detach(child *Node) {
	if child.prev != nil {
		child.prev.next = child.next
	} else {
		n.first = child.next
	}
	if child.next != nil {
		child.next.prev = child.prev
	} else {
		n.last = child.prev
	}
	child.parent = nil
	child.prev = nil
	child.next = nil

	if d := n.doc; d != nil && d.focus != nil && child.Contains(d.focus) {
		d.mutations.FocusDetached++
		d.focus = nil
	}
}
