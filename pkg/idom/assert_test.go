package idom_test

import (
	"testing"

	ierrors "github.com/vango-dev/incdom/internal/errors"
	"github.com/vango-dev/incdom/pkg/dom"
	"github.com/vango-dev/incdom/pkg/idom"
)

func TestDebugAssertions(t *testing.T) {
	inner := func(fn idom.RenderFunc) func(*idom.Engine) {
		return func(e *idom.Engine) {
			doc := dom.NewDocument()
			_, _ = e.PatchInner(doc.NewElement("body"), fn, nil)
		}
	}
	outer := func(fn idom.RenderFunc) func(*idom.Engine) {
		return func(e *idom.Engine) {
			doc := dom.NewDocument()
			body := doc.NewElement("body")
			img := doc.NewElement("img")
			body.AppendChild(img)
			_, _ = e.PatchOuter(img, fn, nil)
		}
	}

	tests := []struct {
		name string
		code string
		run  func(*idom.Engine)
	}{
		{
			name: "unclosed element",
			code: "E001",
			run: inner(func(e *idom.Engine, _ any) error {
				e.OpenElement("div", "")
				return nil
			}),
		},
		{
			name: "close without open",
			code: "E002",
			run: inner(func(e *idom.Engine, _ any) error {
				e.Close()
				return nil
			}),
		},
		{
			name: "close kind mismatch",
			code: "E003",
			run: inner(func(e *idom.Engine, _ any) error {
				e.OpenElement("div", "")
				e.CloseKind(idom.ElementKind("span"))
				return nil
			}),
		},
		{
			name: "skip after children",
			code: "E004",
			run: inner(func(e *idom.Engine, _ any) error {
				e.OpenElement("div", "")
				e.Text()
				e.Skip()
				e.Close()
				return nil
			}),
		},
		{
			name: "declare after skip",
			code: "E005",
			run: inner(func(e *idom.Engine, _ any) error {
				e.OpenElement("div", "")
				e.Skip()
				e.Text()
				e.Close()
				return nil
			}),
		},
		{
			name: "declare outside patch",
			code: "E006",
			run: func(e *idom.Engine) {
				e.OpenElement("div", "")
			},
		},
		{
			name: "declare inside attributes",
			code: "E007",
			run: inner(func(e *idom.Engine, _ any) error {
				e.BeginAttributes()
				e.OpenElement("div", "")
				return nil
			}),
		},
		{
			name: "attributes left open",
			code: "E008",
			run: inner(func(e *idom.Engine, _ any) error {
				e.BeginAttributes()
				return nil
			}),
		},
		{
			name: "outer declares two nodes",
			code: "E009",
			run: outer(render(el("a", ""), el("b", ""))),
		},
		{
			name: "outer on detached node",
			code: "E010",
			run: func(e *idom.Engine) {
				doc := dom.NewDocument()
				_, _ = e.PatchOuter(doc.NewElement("div"), render(el("div", "")), nil)
			},
		},
		{
			name: "end attributes without begin",
			code: "E011",
			run: inner(func(e *idom.Engine, _ any) error {
				e.EndAttributes()
				return nil
			}),
		},
		{
			name: "open with zero kind",
			code: "E012",
			run: inner(func(e *idom.Engine, _ any) error {
				e.Open(idom.Kind{}, idom.NoKey)
				e.Close()
				return nil
			}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := newEngine()
			func() {
				defer func() {
					r := recover()
					err, ok := r.(*ierrors.Error)
					if !ok {
						t.Fatalf("recovered %v (%T), want *errors.Error", r, r)
					}
					if err.Code != tt.code {
						t.Errorf("Code = %s, want %s (%v)", err.Code, tt.code, err)
					}
					if err.Category != ierrors.CategoryUsage {
						t.Errorf("Category = %v, want usage", err.Category)
					}
				}()
				tt.run(e)
			}()

			if e.InPatch() || e.Depth() != 0 {
				t.Errorf("engine not restored after assertion: depth %d", e.Depth())
			}
		})
	}
}

func TestProductionModeSkipsAssertions(t *testing.T) {
	e := idom.New()
	doc := dom.NewDocument()
	root := doc.NewElement("body")

	_, err := e.PatchInner(root, func(e *idom.Engine, _ any) error {
		e.OpenElement("div", "")
		e.BeginAttributes()
		e.EndAttributes()
		e.Text()
		return nil
	}, nil)
	if err != nil {
		t.Fatalf("PatchInner() error = %v", err)
	}

	if e.Debug() {
		t.Error("Debug() = true, want false")
	}
	if root.ChildCount() != 1 || root.First().ChildCount() != 1 {
		t.Errorf("tree = %s", root.HTML())
	}
}

func TestCurrentPointerOutsidePatch(t *testing.T) {
	e := idom.New()
	if got := e.CurrentPointer(); got != nil {
		t.Errorf("CurrentPointer() = %v, want nil", got)
	}
	if got := e.CurrentChanges(); got.Changed() {
		t.Errorf("CurrentChanges() = %+v, want zero", got)
	}
}

func TestZeroKindIsNotText(t *testing.T) {
	rec := &recorder{}
	e := idom.New(idom.WithObserver(rec))
	doc := dom.NewDocument()
	root := doc.NewElement("body")
	fn := func(e *idom.Engine, _ any) error {
		e.Open(idom.Kind{}, idom.NoKey)
		e.Close()
		return nil
	}

	mustPatchInner(t, e, root, fn)
	first := rec.last(t)
	mustPatchInner(t, e, root, fn)
	second := rec.last(t)

	if root.ChildCount() != 1 || root.First().IsText() {
		t.Fatalf("tree has %d children, want one element", root.ChildCount())
	}
	if first.Created != 1 || second.Changed() {
		t.Errorf("stats = %+v then %+v, want one creation then no changes", first, second)
	}
}
