package dom

import (
	"bytes"
	"fmt"
	"io"
	"strings"
)

// RenderOptions configures HTML serialization.
type RenderOptions struct {
	// Pretty writes one node per line, indented by depth.
	Pretty bool

	// Indent is the string used for each indentation level in pretty mode.
	// Defaults to two spaces if not specified.
	Indent string

	// ShowKeys writes each element's key as a data-key attribute.
	ShowKeys bool
}

// HTML returns the outer HTML of n.
func (n *Node) HTML() string {
	return n.Render(RenderOptions{})
}

// InnerHTML returns the HTML of n's children.
func (n *Node) InnerHTML() string {
	var buf bytes.Buffer
	r := newRenderer(RenderOptions{})
	for c := n.first; c != nil; c = c.next {
		_ = r.renderNode(&buf, c, 0)
	}
	return buf.String()
}

// Render serializes n with the given options.
func (n *Node) Render(opts RenderOptions) string {
	var buf bytes.Buffer
	_ = WriteHTML(&buf, n, opts)
	return buf.String()
}

// WriteHTML streams the outer HTML of n to w.
func WriteHTML(w io.Writer, n *Node, opts RenderOptions) error {
	return newRenderer(opts).renderNode(w, n, 0)
}

type renderer struct {
	opts RenderOptions
}

func newRenderer(opts RenderOptions) *renderer {
	if opts.Indent == "" {
		opts.Indent = "  "
	}
	return &renderer{opts: opts}
}

func (r *renderer) renderNode(w io.Writer, n *Node, depth int) error {
	if n == nil {
		return nil
	}
	switch n.typ {
	case ElementNode:
		return r.renderElement(w, n, depth)
	case TextNode:
		return r.renderText(w, n, depth)
	default:
		return fmt.Errorf("unknown node type: %d", n.typ)
	}
}

func (r *renderer) renderElement(w io.Writer, n *Node, depth int) error {
	tag := n.Tag()
	r.writeIndent(w, depth)

	if _, err := fmt.Fprintf(w, "<%s", tag); err != nil {
		return err
	}
	if r.opts.ShowKeys && n.id.Key.IsSet() {
		if _, err := fmt.Fprintf(w, ` data-key="%s"`, escapeAttr(string(n.id.Key))); err != nil {
			return err
		}
	}
	for _, name := range n.AttrNames() {
		value := n.attrs[name]
		if isBooleanAttr(name) && value == "" {
			if _, err := fmt.Fprintf(w, " %s", name); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(w, ` %s="%s"`, name, escapeAttr(value)); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(w, ">"); err != nil {
		return err
	}

	if isVoidElement(tag) && n.first == nil {
		r.newline(w)
		return nil
	}

	if n.first != nil {
		r.newline(w)
	}
	for c := n.first; c != nil; c = c.next {
		if err := r.renderNode(w, c, depth+1); err != nil {
			return err
		}
	}
	if n.first != nil {
		r.writeIndent(w, depth)
	}

	if _, err := fmt.Fprintf(w, "</%s>", tag); err != nil {
		return err
	}
	r.newline(w)
	return nil
}

func (r *renderer) renderText(w io.Writer, n *Node, depth int) error {
	r.writeIndent(w, depth)
	if _, err := io.WriteString(w, escapeHTML(n.data)); err != nil {
		return err
	}
	r.newline(w)
	return nil
}

func (r *renderer) writeIndent(w io.Writer, depth int) {
	if r.opts.Pretty && depth > 0 {
		io.WriteString(w, strings.Repeat(r.opts.Indent, depth))
	}
}

func (r *renderer) newline(w io.Writer) {
	if r.opts.Pretty {
		io.WriteString(w, "\n")
	}
}
