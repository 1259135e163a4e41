package idom

// cursor is the position of a walk. node is the most recently aligned node
// in the current scope, or nil when nothing has been aligned yet; parent is
// the node whose children are being declared.
//
// When anchored is set and node is nil, anchor stands in for the next
// position. Patch-outer uses it so the first declaration considers the
// patched node itself.
type cursor struct {
	node     Node
	parent   Node
	anchor   Node
	anchored bool
}

// peekNext returns the next unconsumed position without moving.
func (c *cursor) peekNext() Node {
	if c.node != nil {
		return c.node.NextSibling()
	}
	if c.anchored {
		return c.anchor
	}
	if c.parent == nil {
		return nil
	}
	return c.parent.FirstChild()
}

// advance consumes the next position.
func (c *cursor) advance() {
	c.node = c.peekNext()
}

// enterScope descends into the children of the most recently aligned node.
func (c *cursor) enterScope() {
	c.parent = c.node
	c.node = nil
	c.anchored = false
	c.anchor = nil
}

// exitScope removes the children left unvisited in the current scope and
// ascends back to the scope's element.
func (e *Engine) exitScope() {
	c := &e.frame.cur
	e.clear(c.parent, c.peekNext(), nil)
	c.node = c.parent
	c.parent = c.parent.ParentNode()
}

// clear removes every sibling in [start, end) from parent. A nil end clears
// through the end of the child list.
func (e *Engine) clear(parent, start, end Node) {
	for child := start; child != nil && child != end; {
		next := child.NextSibling()
		e.frame.changes.markDeleted(child)
		parent.RemoveChild(child)
		child = next
	}
}
