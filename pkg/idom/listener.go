package idom

// Listener receives structural change notifications. Each patch call flushes
// its batch once, when it finishes, whether it succeeded or not.
type Listener interface {
	NodesCreated(nodes []Node)
	NodesDeleted(nodes []Node)
}

// ListenerFuncs adapts a pair of functions to the Listener interface.
// Either function may be nil.
type ListenerFuncs struct {
	Created func(nodes []Node)
	Deleted func(nodes []Node)
}

// NodesCreated implements Listener.
func (f ListenerFuncs) NodesCreated(nodes []Node) {
	if f.Created != nil {
		f.Created(nodes)
	}
}

// NodesDeleted implements Listener.
func (f ListenerFuncs) NodesDeleted(nodes []Node) {
	if f.Deleted != nil {
		f.Deleted(nodes)
	}
}

// PatchInfo describes a patch call to observers.
type PatchInfo struct {
	// Target is the node passed to the patch function.
	Target Node

	// Strategy is the name of the patch strategy ("inner" or "outer").
	Strategy string

	// Depth is 1 for a top-level patch and grows with each nested patch.
	Depth int
}

// Nested reports whether the patch was started from inside another
// patch's render function.
func (p PatchInfo) Nested() bool {
	return p.Depth > 1
}

// Observer is notified around every patch call. PatchFinished runs after the
// change listeners have been flushed and before the outer frame is restored.
type Observer interface {
	PatchStarted(info PatchInfo)
	PatchFinished(info PatchInfo, stats Stats, err error)
}
