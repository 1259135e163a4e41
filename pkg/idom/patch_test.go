package idom_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/vango-dev/incdom/pkg/dom"
	"github.com/vango-dev/incdom/pkg/idom"
)

func TestPatchInnerCreatesChildren(t *testing.T) {
	e, rec := newEngine()
	doc := dom.NewDocument()
	root := doc.NewElement("body")

	got, err := e.PatchInner(root, render(el("div", "a"), el("div", "b")), nil)
	if err != nil {
		t.Fatalf("PatchInner() error = %v", err)
	}
	if got != idom.Node(root) {
		t.Error("PatchInner should return its target")
	}

	if diff := cmp.Diff([]string{"div#a", "div#b"}, childOutlines(root)); diff != "" {
		t.Errorf("children mismatch (-want +got):\n%s", diff)
	}
	stats := rec.last(t)
	if stats.Created != 2 || stats.Deleted != 0 {
		t.Errorf("stats = %+v, want 2 created", stats)
	}
	if len(rec.created) != 1 || len(rec.created[0]) != 2 {
		t.Errorf("created batches = %v, want one batch of 2", rec.created)
	}
}

func TestPatchInnerReordersKeyedChildren(t *testing.T) {
	e, rec := newEngine()
	doc := dom.NewDocument()
	root := doc.NewElement("body")
	mustPatchInner(t, e, root, render(el("div", "a"), el("div", "b")))
	a, b := root.First(), root.Last()

	mustPatchInner(t, e, root, render(el("div", "b"), el("div", "a")))

	if diff := cmp.Diff([]string{"div#b", "div#a"}, childOutlines(root)); diff != "" {
		t.Errorf("children mismatch (-want +got):\n%s", diff)
	}
	if root.First() != b || root.Last() != a {
		t.Error("keyed nodes were not reused")
	}
	stats := rec.last(t)
	if stats.Created != 0 || stats.Deleted != 0 || stats.Moved != 1 {
		t.Errorf("stats = %+v, want exactly one move", stats)
	}
}

func TestPatchInnerReusesTextNode(t *testing.T) {
	e, rec := newEngine()
	doc := dom.NewDocument()
	root := doc.NewElement("p")
	hello := doc.NewText("hello")
	root.AppendChild(hello)

	mustPatchInner(t, e, root, func(e *idom.Engine, _ any) error {
		n := e.Text().(*dom.Node)
		n.SetData("world")
		return nil
	})

	if root.First() != hello {
		t.Fatal("text node was recreated")
	}
	if hello.Data() != "world" {
		t.Errorf("Data() = %q, want world", hello.Data())
	}
	if stats := rec.last(t); stats.Changed() {
		t.Errorf("stats = %+v, want no structural change", stats)
	}
}

func TestSkipPreservesChildren(t *testing.T) {
	e, rec := newEngine()
	doc := dom.NewDocument()
	root := doc.NewElement("body")
	span := doc.NewKeyedElement("span", "x")
	first, second := doc.NewElement("b"), doc.NewText("tail")
	span.AppendChild(first)
	span.AppendChild(second)
	root.AppendChild(span)
	doc.ResetMutations()

	mustPatchInner(t, e, root, render(skipped("span", "x")))

	if diff := cmp.Diff([]string{`span#x(b,"tail")`}, childOutlines(root)); diff != "" {
		t.Errorf("children mismatch (-want +got):\n%s", diff)
	}
	if span.First() != first || span.Last() != second {
		t.Error("skipped children were replaced")
	}
	if stats := rec.last(t); stats.Changed() {
		t.Errorf("stats = %+v, want no change", stats)
	}
	if doc.Mutations().Total() != 0 {
		t.Errorf("mutations = %+v, want none", doc.Mutations())
	}
}

func TestPatchOuterReplacesNode(t *testing.T) {
	e, rec := newEngine()
	doc := dom.NewDocument()
	root := doc.NewElement("body")
	before, img, after := doc.NewElement("header"), doc.NewElement("img"), doc.NewElement("footer")
	root.AppendChild(before)
	root.AppendChild(img)
	root.AppendChild(after)

	got, err := e.PatchOuter(img, render(el("a", "")), nil)
	if err != nil {
		t.Fatalf("PatchOuter() error = %v", err)
	}

	anchor, ok := got.(*dom.Node)
	if !ok || anchor.Tag() != "a" {
		t.Fatalf("PatchOuter() = %v, want the new anchor", got)
	}
	if diff := cmp.Diff([]string{"header", "a", "footer"}, childOutlines(root)); diff != "" {
		t.Errorf("children mismatch (-want +got):\n%s", diff)
	}
	if img.Parent() != nil {
		t.Error("replaced node is still attached")
	}
	stats := rec.last(t)
	if stats.Created != 1 || stats.Deleted != 1 {
		t.Errorf("stats = %+v, want 1 created and 1 deleted", stats)
	}
	if len(rec.deleted) != 1 || rec.deleted[0][0] != idom.Node(img) {
		t.Errorf("deleted batches = %v, want [img]", rec.deleted)
	}
}

func TestPatchOuterKeepsMatchingNode(t *testing.T) {
	e, rec := newEngine()
	doc := dom.NewDocument()
	root := doc.NewElement("body")
	target := doc.NewKeyedElement("section", "main")
	root.AppendChild(target)
	root.AppendChild(doc.NewElement("footer"))

	got, err := e.PatchOuter(target, render(el("section", "main", txt("content"))), nil)
	if err != nil {
		t.Fatalf("PatchOuter() error = %v", err)
	}

	if got != idom.Node(target) {
		t.Errorf("PatchOuter() = %v, want the original target", got)
	}
	if diff := cmp.Diff([]string{`section#main("content")`, "footer"}, childOutlines(root)); diff != "" {
		t.Errorf("children mismatch (-want +got):\n%s", diff)
	}
	if stats := rec.last(t); stats.Created != 1 || stats.Deleted != 0 {
		t.Errorf("stats = %+v, want only the text created", stats)
	}
}

func TestPatchOuterRemovesWhenNothingDeclared(t *testing.T) {
	e, _ := newEngine()
	doc := dom.NewDocument()
	root := doc.NewElement("body")
	target := doc.NewElement("aside")
	keep := doc.NewElement("footer")
	root.AppendChild(target)
	root.AppendChild(keep)

	got, err := e.PatchOuter(target, render(), nil)
	if err != nil {
		t.Fatalf("PatchOuter() error = %v", err)
	}
	if got != nil {
		t.Errorf("PatchOuter() = %v, want nil", got)
	}
	if diff := cmp.Diff([]string{"footer"}, childOutlines(root)); diff != "" {
		t.Errorf("children mismatch (-want +got):\n%s", diff)
	}
}

func TestPatchOuterDetachedTargetWithoutDebug(t *testing.T) {
	e := idom.New()
	doc := dom.NewDocument()
	target := doc.NewElement("div")

	got, err := e.PatchOuter(target, render(el("div", "")), nil)
	if err != nil {
		t.Fatalf("PatchOuter() error = %v", err)
	}
	if got != idom.Node(target) {
		t.Errorf("PatchOuter() = %v, want target reused", got)
	}
}

func TestIdempotence(t *testing.T) {
	tree := []decl{
		el("header", "", txt("title")),
		el("ul", "list", el("li", "1", txt("one")), el("li", "2", txt("two"))),
		el("footer", "", el("small", "")),
	}

	e, rec := newEngine()
	doc := dom.NewDocument()
	root := doc.NewElement("body")
	mustPatchInner(t, e, root, render(tree...))
	first := childOutlines(root)
	doc.ResetMutations()

	mustPatchInner(t, e, root, render(tree...))

	if stats := rec.last(t); stats.Changed() {
		t.Errorf("second pass stats = %+v, want no changes", stats)
	}
	if m := doc.Mutations(); m.Total() != 0 || m.TextUpdates != 0 {
		t.Errorf("second pass mutations = %+v, want none", m)
	}
	if diff := cmp.Diff(first, childOutlines(root)); diff != "" {
		t.Errorf("tree changed on second pass (-first +second):\n%s", diff)
	}
}

func TestKeyedStability(t *testing.T) {
	tests := []struct {
		name      string
		from, to  []idom.Key
		wantMoves int
	}{
		{"empty", nil, nil, 0},
		{"single", []idom.Key{"a"}, []idom.Key{"a"}, 0},
		{"swap", []idom.Key{"a", "b"}, []idom.Key{"b", "a"}, 1},
		{"reverse three", []idom.Key{"a", "b", "c"}, []idom.Key{"c", "b", "a"}, 2},
		{"rotate left", []idom.Key{"a", "b", "c", "d"}, []idom.Key{"b", "c", "d", "a"}, 3},
		{"rotate right", []idom.Key{"a", "b", "c", "d"}, []idom.Key{"d", "a", "b", "c"}, 1},
		{"move middle", []idom.Key{"a", "b", "c", "d", "e"}, []idom.Key{"a", "d", "b", "c", "e"}, 1},
	}

	list := func(keys []idom.Key) idom.RenderFunc {
		ds := make([]decl, len(keys))
		for i, k := range keys {
			ds[i] = el("li", k)
		}
		return render(ds...)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, rec := newEngine()
			doc := dom.NewDocument()
			root := doc.NewElement("ul")
			mustPatchInner(t, e, root, list(tt.from))
			nodes := map[idom.Key]*dom.Node{}
			for _, c := range root.Children() {
				nodes[c.Key()] = c
			}

			mustPatchInner(t, e, root, list(tt.to))

			stats := rec.last(t)
			if stats.Created != 0 || stats.Deleted != 0 {
				t.Errorf("stats = %+v, want no creations or deletions", stats)
			}
			if stats.Moved != tt.wantMoves {
				t.Errorf("Moved = %d, want %d", stats.Moved, tt.wantMoves)
			}
			for i, c := range root.Children() {
				if c.Key() != tt.to[i] {
					t.Errorf("child %d key = %q, want %q", i, c.Key(), tt.to[i])
				}
				if nodes[c.Key()] != c {
					t.Errorf("child %q was recreated", c.Key())
				}
			}
		})
	}
}

func TestUnkeyedChildrenMatchByPosition(t *testing.T) {
	e, rec := newEngine()
	doc := dom.NewDocument()
	root := doc.NewElement("body")
	mustPatchInner(t, e, root, render(el("div", ""), el("span", "")))
	oldDiv, oldSpan := root.First(), root.Last()

	mustPatchInner(t, e, root, render(el("span", ""), el("div", "")))

	if diff := cmp.Diff([]string{"span", "div"}, childOutlines(root)); diff != "" {
		t.Errorf("children mismatch (-want +got):\n%s", diff)
	}
	if root.First() == oldSpan {
		t.Error("unkeyed span at a new position must not be reused")
	}
	if root.Last() != oldDiv {
		t.Error("div at the cursor should be reused")
	}
	if oldSpan.Parent() != nil {
		t.Error("old span should be removed")
	}
	stats := rec.last(t)
	if stats.Created != 1 || stats.Deleted != 1 || stats.Moved != 0 {
		t.Errorf("stats = %+v, want 1 created, 1 deleted, 0 moved", stats)
	}
}

func TestKeyChangeReplacesNode(t *testing.T) {
	e, _ := newEngine()
	doc := dom.NewDocument()
	root := doc.NewElement("body")
	mustPatchInner(t, e, root, render(el("div", "old")))
	old := root.First()

	mustPatchInner(t, e, root, render(el("div", "new")))

	if root.First() == old {
		t.Error("node with a different key was reused")
	}
	if root.ChildCount() != 1 || root.First().Key() != "new" {
		t.Errorf("children = %v", childOutlines(root))
	}
}

func TestCleanupRemovesUndeclaredChildren(t *testing.T) {
	e, rec := newEngine()
	doc := dom.NewDocument()
	root := doc.NewElement("body")
	mustPatchInner(t, e, root, render(
		el("p", "1", txt("a"), el("b", ""), txt("c")),
		el("p", "2"),
		el("p", "3"),
	))

	mustPatchInner(t, e, root, render(el("p", "3"), el("p", "1", txt("a"))))

	if diff := cmp.Diff([]string{"p#3", `p#1("a")`}, childOutlines(root)); diff != "" {
		t.Errorf("children mismatch (-want +got):\n%s", diff)
	}
	stats := rec.last(t)
	if stats.Deleted != 3 {
		t.Errorf("Deleted = %d, want 3 (b, \"c\", p#2)", stats.Deleted)
	}
	if len(rec.deleted) != 1 {
		t.Errorf("deleted batches = %d, want 1 per patch", len(rec.deleted))
	}
}

func TestFocusedNodeStaysAttachedDuringReorder(t *testing.T) {
	form := func(order ...idom.Key) idom.RenderFunc {
		ds := make([]decl, len(order))
		for i, k := range order {
			ds[i] = el("div", k, el("input", ""))
		}
		return render(ds...)
	}

	tests := []struct {
		name  string
		focus idom.Key
	}{
		{"focused node moves forward", "c"},
		{"focused node is displaced", "a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, rec := newEngine()
			doc := dom.NewDocument()
			root := doc.NewElement("form")
			mustPatchInner(t, e, root, form("a", "b", "c"))

			var input *dom.Node
			for _, c := range root.Children() {
				if c.Key() == tt.focus {
					input = c.First()
				}
			}
			doc.Focus(input)
			doc.ResetMutations()

			mustPatchInner(t, e, root, form("c", "a", "b"))

			if got := doc.Mutations().FocusDetached; got != 0 {
				t.Errorf("FocusDetached = %d, want 0", got)
			}
			if doc.ActiveElement() != input {
				t.Error("focus was lost")
			}
			if diff := cmp.Diff([]string{"div#c(input)", "div#a(input)", "div#b(input)"}, childOutlines(root)); diff != "" {
				t.Errorf("children mismatch (-want +got):\n%s", diff)
			}
			if stats := rec.last(t); stats.Created != 0 || stats.Deleted != 0 {
				t.Errorf("stats = %+v, want no creations or deletions", stats)
			}
		})
	}
}

func TestUnfocusedReorderUsesPlainInsert(t *testing.T) {
	e, _ := newEngine()
	doc := dom.NewDocument()
	root := doc.NewElement("ul")
	mustPatchInner(t, e, root, render(el("li", "a"), el("li", "b"), el("li", "c")))
	doc.ResetMutations()

	mustPatchInner(t, e, root, render(el("li", "c"), el("li", "a"), el("li", "b")))

	if got := doc.Mutations().Moved; got != 1 {
		t.Errorf("host moves = %d, want 1 insert-before", got)
	}
}

func TestNestedPatchKeepsOuterCursor(t *testing.T) {
	e, rec := newEngine()
	doc := dom.NewDocument()
	root := doc.NewElement("body")
	widget := doc.NewElement("div")
	mustPatchInner(t, e, root, render(el("h1", ""), el("main", ""), el("footer", "")))

	var before, after idom.Node
	var beforeElem, afterElem idom.Node
	mustPatchInner(t, e, root, func(e *idom.Engine, _ any) error {
		e.OpenElement("h1", "")
		e.Close()

		before, beforeElem = e.CurrentPointer(), e.CurrentElement()
		if _, err := e.PatchInner(widget, render(el("span", "w", txt("inner"))), nil); err != nil {
			return err
		}
		after, afterElem = e.CurrentPointer(), e.CurrentElement()

		e.OpenElement("main", "")
		e.Close()
		e.OpenElement("footer", "")
		e.Close()
		return nil
	})

	if before != after || beforeElem != afterElem {
		t.Error("nested patch moved the outer cursor")
	}
	if after != idom.Node(root.Children()[1]) {
		t.Errorf("pointer after nested patch = %v, want main", after)
	}
	if diff := cmp.Diff([]string{"h1", "main", "footer"}, childOutlines(root)); diff != "" {
		t.Errorf("outer children mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{`span#w("inner")`}, childOutlines(widget)); diff != "" {
		t.Errorf("nested children mismatch (-want +got):\n%s", diff)
	}

	// The nested patch finishes first and reports only its own changes.
	n := len(rec.finished)
	nested, outer := rec.finished[n-2], rec.finished[n-1]
	if nested.Created != 2 {
		t.Errorf("nested stats = %+v, want 2 created", nested)
	}
	if outer.Changed() {
		t.Errorf("outer stats = %+v, want no changes", outer)
	}
	if depth := rec.started[len(rec.started)-1].Depth; depth != 2 {
		t.Errorf("nested Depth = %d, want 2", depth)
	}
	if e.InPatch() || e.Depth() != 0 {
		t.Errorf("engine still in a patch after return: depth %d", e.Depth())
	}
}

func TestRenderErrorRestoresFrame(t *testing.T) {
	e, rec := newEngine()
	doc := dom.NewDocument()
	root := doc.NewElement("body")
	widget := doc.NewElement("div")
	boom := errors.New("boom")

	var nestedErr error
	mustPatchInner(t, e, root, func(e *idom.Engine, _ any) error {
		e.OpenElement("p", "")
		e.Close()
		_, nestedErr = e.PatchInner(widget, func(e *idom.Engine, _ any) error {
			e.OpenElement("span", "")
			return boom
		}, nil)
		e.OpenElement("p", "")
		e.Close()
		return nil
	})

	if !errors.Is(nestedErr, boom) {
		t.Errorf("nested error = %v, want boom", nestedErr)
	}
	if diff := cmp.Diff([]string{"p", "p"}, childOutlines(root)); diff != "" {
		t.Errorf("outer children mismatch (-want +got):\n%s", diff)
	}
	if !errors.Is(rec.errs[0], boom) {
		t.Errorf("observer error = %v, want boom", rec.errs[0])
	}
	if len(rec.created) == 0 || len(rec.created[0]) != 1 {
		t.Errorf("nested patch should still flush its created span, got %v", rec.created)
	}

	_, err := e.PatchInner(root, func(*idom.Engine, any) error { return boom }, nil)
	if !errors.Is(err, boom) {
		t.Errorf("PatchInner() error = %v, want boom", err)
	}
	if e.InPatch() {
		t.Error("engine still in a patch after a failed render")
	}
}

func TestRenderPanicRestoresFrame(t *testing.T) {
	e, rec := newEngine()
	doc := dom.NewDocument()
	root := doc.NewElement("body")

	func() {
		defer func() {
			if r := recover(); r != "render exploded" {
				t.Errorf("recovered %v, want the original panic value", r)
			}
		}()
		_, _ = e.PatchInner(root, func(e *idom.Engine, _ any) error {
			e.OpenElement("div", "")
			panic("render exploded")
		}, nil)
	}()

	if e.InPatch() || e.Depth() != 0 {
		t.Fatalf("frame not restored after panic: depth %d", e.Depth())
	}
	if !errors.Is(rec.errs[len(rec.errs)-1], idom.ErrRenderPanicked) {
		t.Errorf("observer error = %v, want ErrRenderPanicked", rec.errs[len(rec.errs)-1])
	}

	mustPatchInner(t, e, root, render(el("div", ""), el("p", "")))
	if diff := cmp.Diff([]string{"div", "p"}, childOutlines(root)); diff != "" {
		t.Errorf("children mismatch (-want +got):\n%s", diff)
	}
}

func TestNilRenderFuncClearsChildren(t *testing.T) {
	e, _ := newEngine()
	doc := dom.NewDocument()
	root := doc.NewElement("ul")
	mustPatchInner(t, e, root, render(el("li", "a"), el("li", "b")))

	mustPatchInner(t, e, root, nil)

	if root.ChildCount() != 0 {
		t.Errorf("children = %v, want none", childOutlines(root))
	}
}

func TestDataIsPassedToRender(t *testing.T) {
	e, _ := newEngine()
	doc := dom.NewDocument()
	root := doc.NewElement("ul")
	items := []string{"x", "y", "z"}

	_, err := e.PatchInner(root, func(e *idom.Engine, data any) error {
		for _, item := range data.([]string) {
			e.OpenElement("li", idom.Key(item))
			e.Text().(*dom.Node).SetData(item)
			e.Close()
		}
		return nil
	}, items)
	if err != nil {
		t.Fatalf("PatchInner() error = %v", err)
	}

	if diff := cmp.Diff([]string{`li#x("x")`, `li#y("y")`, `li#z("z")`}, childOutlines(root)); diff != "" {
		t.Errorf("children mismatch (-want +got):\n%s", diff)
	}
}
