package idom

// Open declares an element of the given identity at the current position
// and makes it the current parent. Every Open must be balanced by a Close.
func (e *Engine) Open(kind Kind, key Key) Node {
	if e.debug {
		e.assertDeclarable("Open")
		e.assertValidKind(kind)
	}
	e.align(kind, key)
	e.frame.cur.enterScope()
	e.frame.open++
	return e.frame.cur.parent
}

// OpenElement is Open for a tagged element.
func (e *Engine) OpenElement(name string, key Key) Node {
	return e.Open(ElementKind(name), key)
}

// Close ends the current element. Children of the element that were not
// declared since its Open are removed. Close returns the closed element.
func (e *Engine) Close() Node {
	if e.debug {
		e.assertCanClose("Close")
	}
	return e.close()
}

// CloseKind is Close with a check, in debug mode, that the element being
// closed has the given kind.
func (e *Engine) CloseKind(kind Kind) Node {
	if e.debug {
		e.assertCanClose("CloseKind")
		e.assertCloseMatches(kind)
	}
	return e.close()
}

func (e *Engine) close() Node {
	f := &e.frame
	f.inSkip = false
	if f.cur.parent == nil {
		return nil
	}
	e.exitScope()
	if f.open > 0 {
		f.open--
	}
	return f.cur.node
}

// Text declares a text node at the current position and returns it. Setting
// its content is up to the caller.
func (e *Engine) Text() Node {
	if e.debug {
		e.assertDeclarable("Text")
	}
	return e.align(TextKind(), NoKey)
}

// Skip keeps every existing child of the current element as it is. It must
// be the first call after Open, and only Close may follow it.
func (e *Engine) Skip() {
	if e.debug {
		e.assertInPatch("Skip")
		e.assertNotInAttributes("Skip")
		e.assertNoChildrenDeclared()
		e.frame.inSkip = true
	}
	f := &e.frame
	if f.cur.parent == nil {
		return
	}
	f.cur.node = f.cur.parent.LastChild()
}

// SkipNode keeps the node at the current position as it is and moves past
// it. It returns the skipped node, or nil at the end of the child list.
func (e *Engine) SkipNode() Node {
	if e.debug {
		e.assertDeclarable("SkipNode")
	}
	c := &e.frame.cur
	next := c.peekNext()
	if next == nil {
		return nil
	}
	c.node = next
	return next
}

// CurrentElement returns the element whose children are being declared.
func (e *Engine) CurrentElement() Node {
	if e.debug {
		e.assertInPatch("CurrentElement")
		e.assertNotInAttributes("CurrentElement")
	}
	return e.frame.cur.parent
}

// CurrentPointer returns the node the next declaration will be compared
// against, or nil at the end of the child list.
func (e *Engine) CurrentPointer() Node {
	if e.debug {
		e.assertInPatch("CurrentPointer")
		e.assertNotInAttributes("CurrentPointer")
	}
	if !e.frame.active {
		return nil
	}
	return e.frame.cur.peekNext()
}

// CurrentChanges returns the changes made so far by the running patch.
func (e *Engine) CurrentChanges() Stats {
	if e.frame.changes == nil {
		return Stats{}
	}
	return e.frame.changes.stats()
}

// BeginAttributes marks the start of an attribute declaration scope. It is
// called by attribute collaborators right after Open.
func (e *Engine) BeginAttributes() {
	if e.debug {
		e.assertInPatch("BeginAttributes")
		e.assertNotInAttributes("BeginAttributes")
	}
	e.frame.inAttributes = true
}

// EndAttributes closes the scope started by BeginAttributes.
func (e *Engine) EndAttributes() {
	if e.debug {
		e.assertInPatch("EndAttributes")
		if !e.frame.inAttributes {
			e.fail("E011", "")
		}
	}
	e.frame.inAttributes = false
}

// Scratch returns the active patch's scratch buffer. It is reset for every
// patch call and restored when a nested patch returns.
func (e *Engine) Scratch() *[]any {
	return &e.frame.scratch
}
