package idom

import "github.com/vango-dev/incdom/internal/errors"

// Usage assertions. They only run when the engine was built WithDebug and
// panic with a coded *errors.Error.

func (e *Engine) fail(code, detail string) {
	err := errors.New(code)
	if detail != "" {
		err = err.WithDetail(detail)
	}
	panic(err)
}

func (e *Engine) assertInPatch(fn string) {
	if !e.frame.active {
		e.fail("E006", fn+" was called outside of a patch.")
	}
}

func (e *Engine) assertNotInAttributes(fn string) {
	if e.frame.inAttributes {
		e.fail("E007", fn+" was called between BeginAttributes and EndAttributes.")
	}
}

func (e *Engine) assertNotInSkip(fn string) {
	if e.frame.inSkip {
		e.fail("E005", fn+" was called after Skip in the same element.")
	}
}

// assertDeclarable guards Open, Text and SkipNode.
func (e *Engine) assertDeclarable(fn string) {
	e.assertInPatch(fn)
	e.assertNotInAttributes(fn)
	e.assertNotInSkip(fn)
}

func (e *Engine) assertValidKind(kind Kind) {
	if kind.IsZero() {
		e.fail("E012", "")
	}
}

func (e *Engine) assertCanClose(fn string) {
	e.assertInPatch(fn)
	e.assertNotInAttributes(fn)
	if e.frame.open == 0 {
		e.fail("E002", "")
	}
}

func (e *Engine) assertCloseMatches(kind Kind) {
	parent := e.frame.cur.parent
	got := parent.OwnerDocument().Identity(parent).Kind
	if got != kind {
		e.fail("E003", "CloseKind("+kind.String()+") was called while "+got.String()+" is open.")
	}
}

func (e *Engine) assertNoChildrenDeclared() {
	if e.frame.cur.node != nil || e.frame.inSkip {
		e.fail("E004", "")
	}
}

func (e *Engine) assertNoUnclosedTags() {
	if e.frame.open != 0 {
		parent := e.frame.cur.parent
		detail := "The patch finished with open elements."
		if parent != nil {
			detail = "The patch finished while " + parent.OwnerDocument().Identity(parent).Kind.String() + " is still open."
		}
		e.fail("E001", detail)
	}
}

func (e *Engine) assertAttributesClosed() {
	if e.frame.inAttributes {
		e.fail("E008", "")
	}
}

func (e *Engine) assertOuterHasParent() {
	if e.frame.cur.parent == nil {
		e.fail("E010", "")
	}
}

// assertSingleReplacement checks that an outer patch either kept the target
// in place, replaced it with a single node, or removed it.
func (e *Engine) assertSingleReplacement(target, wantNext, wantPrev Node) {
	node := e.frame.cur.node
	if node == nil {
		return
	}
	updated := node.NextSibling() == wantNext && node.PreviousSibling() == wantPrev
	replaced := node.NextSibling() == target && node.PreviousSibling() == wantPrev
	if !updated && !replaced {
		e.fail("E009", "")
	}
}
