package idom

import (
	"log/slog"
	"time"
)

// Engine owns the traversal state of every patch it runs. It is the explicit
// context handed to render functions; all declaration calls go through it.
//
// An Engine is single-threaded: exactly one frame is active at a time, and a
// patch started from inside a render function pushes a new frame that is
// popped before the outer render resumes. Use one Engine per goroutine.
type Engine struct {
	frame frame
	stack []frame

	debug     bool
	matcher   Matcher
	listeners []Listener
	observers []Observer
	logger    *slog.Logger
}

// frame is the state of one patch call.
type frame struct {
	active    bool
	doc       Document
	cur       cursor
	changes   *changeSet
	focusPath []Node
	matcher   Matcher
	scratch   []any
	strategy  string

	// Debug bookkeeping.
	open         int
	inAttributes bool
	inSkip       bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithDebug enables usage assertions. Misuse of the declaration API panics
// with a coded *errors.Error instead of silently producing a wrong tree.
func WithDebug(enabled bool) Option {
	return func(e *Engine) {
		e.debug = enabled
	}
}

// WithMatcher sets the matcher used by patchers that do not configure one.
func WithMatcher(m Matcher) Option {
	return func(e *Engine) {
		if m != nil {
			e.matcher = m
		}
	}
}

// WithListener registers a change listener. Listeners receive the nodes
// created and deleted by each patch call when it finishes.
func WithListener(l Listener) Option {
	return func(e *Engine) {
		if l != nil {
			e.listeners = append(e.listeners, l)
		}
	}
}

// WithObserver registers a patch observer.
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		if o != nil {
			e.observers = append(e.observers, o)
		}
	}
}

// WithLogger sets the logger. Patch summaries are logged at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		matcher: DefaultMatcher,
		logger:  slog.Default().With("component", "idom"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Debug reports whether usage assertions are enabled.
func (e *Engine) Debug() bool {
	return e.debug
}

// InPatch reports whether a patch is currently running.
func (e *Engine) InPatch() bool {
	return e.frame.active
}

// Depth returns the number of patch calls currently on the stack.
func (e *Engine) Depth() int {
	return len(e.stack)
}

// push saves the active frame and makes f active.
func (e *Engine) push(f frame) {
	e.stack = append(e.stack, e.frame)
	e.frame = f
}

// pop restores the frame saved by the matching push.
func (e *Engine) pop() {
	n := len(e.stack) - 1
	e.frame = e.stack[n]
	e.stack[n] = frame{}
	e.stack = e.stack[:n]
}

// Stats summarizes the structural changes made by one patch call.
type Stats struct {
	Created  int
	Deleted  int
	Moved    int
	Duration time.Duration
}

// Changed reports whether the patch mutated the host tree.
func (s Stats) Changed() bool {
	return s.Created > 0 || s.Deleted > 0 || s.Moved > 0
}

// changeSet accumulates the changes of one patch call.
type changeSet struct {
	created []Node
	deleted []Node
	moved   int
}

func (c *changeSet) markCreated(n Node) {
	c.created = append(c.created, n)
}

func (c *changeSet) markDeleted(n Node) {
	c.deleted = append(c.deleted, n)
}

func (c *changeSet) markMoved() {
	c.moved++
}

func (c *changeSet) stats() Stats {
	return Stats{Created: len(c.created), Deleted: len(c.deleted), Moved: c.moved}
}

// notify flushes the accumulated nodes to the listeners. Creations are
// reported before deletions.
func (c *changeSet) notify(listeners []Listener) {
	if len(c.created) > 0 {
		for _, l := range listeners {
			l.NodesCreated(c.created)
		}
	}
	if len(c.deleted) > 0 {
		for _, l := range listeners {
			l.NodesDeleted(c.deleted)
		}
	}
}
