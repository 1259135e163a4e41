package idom

// KindTag is the node identity discriminator.
type KindTag uint8

const (
	kindInvalid KindTag = iota // Zero Kind; identifies nothing
	KindText                   // Text node
	KindElement                // Element identified by tag name
	KindCustom                 // Element identified by a custom handle
)

// String returns the string representation of the KindTag.
func (t KindTag) String() string {
	switch t {
	case kindInvalid:
		return "Invalid"
	case KindText:
		return "Text"
	case KindElement:
		return "Element"
	case KindCustom:
		return "Custom"
	default:
		return "Unknown"
	}
}

// Custom is a handle for a user-defined element type. Two custom kinds are
// the same kind only when they share the same *Custom.
type Custom struct {
	// Name is the tag name the document uses when constructing the element.
	Name string

	// New, if set, is called by the document after the element is created.
	// It may attach per-instance state to the node.
	New func(node Node)
}

// Kind is the declared identity of a node: text, a tagged element, or a
// custom element. Kind values are comparable with ==.
type Kind struct {
	tag    KindTag
	name   string
	custom *Custom
}

// TextKind returns the kind shared by all text nodes.
func TextKind() Kind {
	return Kind{tag: KindText, name: "#text"}
}

// ElementKind returns the kind of an element with the given tag name.
func ElementKind(name string) Kind {
	return Kind{tag: KindElement, name: name}
}

// CustomKind returns the kind of a custom element.
func CustomKind(c *Custom) Kind {
	k := Kind{tag: KindCustom, custom: c}
	if c != nil {
		k.name = c.Name
	}
	return k
}

// Tag returns the discriminator.
func (k Kind) Tag() KindTag { return k.tag }

// Name returns the tag name ("#text" for text nodes).
func (k Kind) Name() string { return k.name }

// Custom returns the custom handle, or nil for text and tagged elements.
func (k Kind) Custom() *Custom { return k.custom }

// IsText reports whether k is the text kind.
func (k Kind) IsText() bool { return k.tag == KindText }

// IsZero reports whether k is the zero Kind, which identifies nothing.
func (k Kind) IsZero() bool { return k == Kind{} }

// String returns a readable form such as "div", "#text" or "custom:x-chart".
func (k Kind) String() string {
	switch k.tag {
	case KindText:
		return "#text"
	case KindCustom:
		return "custom:" + k.name
	default:
		return k.name
	}
}

// Key is a reconciliation key. The zero value is the canonical "no key": an
// absent key and an empty one are the same value, so keys compare with ==.
type Key string

// NoKey is the canonical absent key.
const NoKey Key = ""

// IsSet reports whether the key is present.
func (k Key) IsSet() bool { return k != NoKey }

// Identity is the metadata a document records for a node when it is created.
// It never changes afterwards.
type Identity struct {
	Kind Kind
	Key  Key
}
