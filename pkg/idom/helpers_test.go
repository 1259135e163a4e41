package idom_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/vango-dev/incdom/pkg/dom"
	"github.com/vango-dev/incdom/pkg/idom"
)

// decl is a declaration used by tests to drive the engine.
type decl struct {
	tag      string
	key      idom.Key
	text     string
	isText   bool
	skip     bool
	children []decl
}

func el(tag string, key idom.Key, children ...decl) decl {
	return decl{tag: tag, key: key, children: children}
}

func txt(s string) decl {
	return decl{isText: true, text: s}
}

func skipped(tag string, key idom.Key) decl {
	return decl{tag: tag, key: key, skip: true}
}

func declare(e *idom.Engine, ds []decl) {
	for _, d := range ds {
		if d.isText {
			e.Text().(*dom.Node).SetData(d.text)
			continue
		}
		e.OpenElement(d.tag, d.key)
		if d.skip {
			e.Skip()
		} else {
			declare(e, d.children)
		}
		e.Close()
	}
}

func render(ds ...decl) idom.RenderFunc {
	return func(e *idom.Engine, _ any) error {
		declare(e, ds)
		return nil
	}
}

// outline describes a subtree compactly, e.g. `div#a(span,"x")`.
func outline(n *dom.Node) string {
	if n.IsText() {
		return fmt.Sprintf("%q", n.Data())
	}
	s := n.Tag()
	if n.Key().IsSet() {
		s += "#" + string(n.Key())
	}
	if n.First() == nil {
		return s
	}
	parts := make([]string, 0, n.ChildCount())
	for _, c := range n.Children() {
		parts = append(parts, outline(c))
	}
	return s + "(" + strings.Join(parts, ",") + ")"
}

// childOutlines returns the outline of every child of n.
func childOutlines(n *dom.Node) []string {
	var out []string
	for _, c := range n.Children() {
		out = append(out, outline(c))
	}
	return out
}

// recorder collects listener batches and observer calls.
type recorder struct {
	created  [][]idom.Node
	deleted  [][]idom.Node
	started  []idom.PatchInfo
	finished []idom.Stats
	errs     []error
}

func (r *recorder) NodesCreated(nodes []idom.Node) {
	r.created = append(r.created, append([]idom.Node(nil), nodes...))
}

func (r *recorder) NodesDeleted(nodes []idom.Node) {
	r.deleted = append(r.deleted, append([]idom.Node(nil), nodes...))
}

func (r *recorder) PatchStarted(info idom.PatchInfo) {
	r.started = append(r.started, info)
}

func (r *recorder) PatchFinished(_ idom.PatchInfo, stats idom.Stats, err error) {
	r.finished = append(r.finished, stats)
	r.errs = append(r.errs, err)
}

func (r *recorder) last(t *testing.T) idom.Stats {
	t.Helper()
	if len(r.finished) == 0 {
		t.Fatal("no patch finished")
	}
	return r.finished[len(r.finished)-1]
}

func newEngine(opts ...idom.Option) (*idom.Engine, *recorder) {
	rec := &recorder{}
	opts = append([]idom.Option{idom.WithListener(rec), idom.WithObserver(rec), idom.WithDebug(true)}, opts...)
	return idom.New(opts...), rec
}

func mustPatchInner(t *testing.T, e *idom.Engine, root *dom.Node, fn idom.RenderFunc) {
	t.Helper()
	if _, err := e.PatchInner(root, fn, nil); err != nil {
		t.Fatalf("PatchInner() error = %v", err)
	}
}
