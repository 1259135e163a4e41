package dom

import "github.com/vango-dev/incdom/pkg/idom"

// Namespaces assigned to elements.
const (
	HTMLNamespace   = ""
	SVGNamespace    = "http://www.w3.org/2000/svg"
	MathMLNamespace = "http://www.w3.org/1998/Math/MathML"
)

// Mutations counts the structural writes made to a document's nodes.
type Mutations struct {
	// Inserted counts detached nodes that were attached.
	Inserted int

	// Moved counts attached nodes that were repositioned.
	Moved int

	// Removed counts nodes removed from their parent.
	Removed int

	// TextUpdates counts text content changes.
	TextUpdates int

	// FocusDetached counts how often the focused node, or one of its
	// ancestors, was detached from its parent.
	FocusDetached int
}

// Total returns the number of structural writes.
func (m Mutations) Total() int {
	return m.Inserted + m.Moved + m.Removed
}

// Document creates nodes and records their identity and focus. It implements
// idom.Document.
type Document struct {
	focus     *Node
	mutations Mutations
}

var _ idom.Document = (*Document)(nil)

// NewDocument creates an empty document.
func NewDocument() *Document {
	return &Document{}
}

// NewElement creates a detached element with no key. Use it for roots that
// are not produced by a patch.
func (d *Document) NewElement(tag string) *Node {
	return d.newElement(nil, idom.ElementKind(tag), idom.NoKey)
}

// NewKeyedElement creates a detached element with a key.
func (d *Document) NewKeyedElement(tag string, key idom.Key) *Node {
	return d.newElement(nil, idom.ElementKind(tag), key)
}

// NewText creates a detached text node with content.
func (d *Document) NewText(data string) *Node {
	return &Node{typ: TextNode, id: idom.Identity{Kind: idom.TextKind()}, data: data, doc: d}
}

// CreateElement implements idom.Document. Custom kinds are constructed with
// their handle's name as tag and the handle's New hook is run on the result.
func (d *Document) CreateElement(parent idom.Node, kind idom.Kind, key idom.Key) idom.Node {
	n := d.newElement(unwrap(parent), kind, key)
	if c := kind.Custom(); c != nil && c.New != nil {
		c.New(n)
	}
	return n
}

// CreateText implements idom.Document.
func (d *Document) CreateText() idom.Node {
	return d.NewText("")
}

// Identity implements idom.Document.
func (d *Document) Identity(n idom.Node) idom.Identity {
	return unwrap(n).id
}

// FocusedAncestors implements idom.Document. The path runs from the focused
// node upwards and stops before boundary.
func (d *Document) FocusedAncestors(node, boundary idom.Node) []idom.Node {
	root := unwrap(node)
	if d.focus == nil || root == nil || !root.Contains(d.focus) {
		return nil
	}
	stop := unwrap(boundary)
	var path []idom.Node
	for cur := d.focus; cur != nil && cur != stop; cur = cur.parent {
		path = append(path, cur)
	}
	return path
}

// Focus gives focus to n. A nil n blurs the document.
func (d *Document) Focus(n *Node) {
	d.focus = n
}

// ActiveElement returns the focused node, or nil.
func (d *Document) ActiveElement() *Node {
	return d.focus
}

// Mutations returns the writes recorded since the last reset.
func (d *Document) Mutations() Mutations {
	return d.mutations
}

// ResetMutations clears the mutation counters.
func (d *Document) ResetMutations() {
	d.mutations = Mutations{}
}

func (d *Document) newElement(parent *Node, kind idom.Kind, key idom.Key) *Node {
	return &Node{
		typ: ElementNode,
		id:  idom.Identity{Kind: kind, Key: key},
		ns:  namespaceFor(kind.Name(), parent),
		doc: d,
	}
}

// namespaceFor resolves the namespace of a new element from its tag and the
// parent it is created for.
func namespaceFor(tag string, parent *Node) string {
	switch tag {
	case "svg":
		return SVGNamespace
	case "math":
		return MathMLNamespace
	}
	if parent == nil || parent.Tag() == "foreignObject" {
		return HTMLNamespace
	}
	return parent.ns
}
