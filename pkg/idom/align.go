package idom

// align makes the next position in the current scope a node of the given
// identity, reusing a matching node when one is available. It does not look
// at the node's children.
func (e *Engine) align(kind Kind, key Key) Node {
	f := &e.frame
	f.cur.advance()
	at := f.cur.node

	node := e.findMatch(at, kind, key)
	if node == nil {
		node = e.create(kind, key)
	}

	if node == at {
		return node
	}

	parent := f.cur.parent
	if parent != nil {
		// A plain insert never detaches at, so only a focused node needs
		// the siblings moved around it instead.
		attached := node.ParentNode() == parent
		if attached && e.focused(node) {
			moveBefore(parent, node, at)
		} else {
			parent.InsertBefore(node, at)
		}
		if attached {
			f.changes.markMoved()
		}
	}
	f.cur.node = node
	return node
}

// create constructs a node through the document and records it.
func (e *Engine) create(kind Kind, key Key) Node {
	f := &e.frame
	var node Node
	if kind.IsText() {
		node = f.doc.CreateText()
	} else {
		node = f.doc.CreateElement(f.cur.parent, kind, key)
	}
	f.changes.markCreated(node)
	return node
}

// focused reports whether n is on the active focus path.
func (e *Engine) focused(n Node) bool {
	if n == nil {
		return false
	}
	for _, p := range e.frame.focusPath {
		if p == n {
			return true
		}
	}
	return false
}

// moveBefore places node before ref without detaching node: every sibling
// from ref up to node is moved after node instead.
func moveBefore(parent, node, ref Node) {
	insertRef := node.NextSibling()
	for cur := ref; cur != nil && cur != node; {
		next := cur.NextSibling()
		parent.InsertBefore(cur, insertRef)
		cur = next
	}
}
