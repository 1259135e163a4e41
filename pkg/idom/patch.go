package idom

import (
	"errors"
	"log/slog"
	"time"
)

// RenderFunc declares the desired shape of a subtree by calling Open, Close,
// Text and friends on the engine it receives.
type RenderFunc func(e *Engine, data any) error

// PatchFunc reconciles target against the declarations made by fn.
type PatchFunc func(target Node, fn RenderFunc, data any) (Node, error)

// Strategy is how a patch positions the cursor around its target and what it
// returns.
type Strategy struct {
	Name string
	Run  func(e *Engine, target Node, fn RenderFunc, data any) (Node, error)
}

// Inner reconciles the children of the target and returns the target.
var Inner = Strategy{Name: "inner", Run: runInner}

// Outer reconciles the target itself. The render function is expected to
// declare exactly one top-level node; the result is that node, or nil when
// nothing was declared and the target was removed.
var Outer = Strategy{Name: "outer", Run: runOuter}

// PatchConfig configures a patcher.
type PatchConfig struct {
	// Matcher overrides the engine's matcher for this patcher.
	Matcher Matcher
}

// ErrRenderPanicked is reported to observers when a render function panics.
// The panic itself propagates to the caller unchanged.
var ErrRenderPanicked = errors.New("idom: render function panicked")

// NewPatcher returns a patch function running strategy s. Patch functions
// may be called from inside another patch's render function; the outer walk
// resumes exactly where it left off once the nested patch returns.
func (e *Engine) NewPatcher(s Strategy, cfg PatchConfig) PatchFunc {
	return func(target Node, fn RenderFunc, data any) (Node, error) {
		return e.patch(s, cfg, target, fn, data)
	}
}

// PatchInner reconciles the children of target with the default config.
func (e *Engine) PatchInner(target Node, fn RenderFunc, data any) (Node, error) {
	return e.patch(Inner, PatchConfig{}, target, fn, data)
}

// PatchOuter reconciles target itself with the default config.
func (e *Engine) PatchOuter(target Node, fn RenderFunc, data any) (Node, error) {
	return e.patch(Outer, PatchConfig{}, target, fn, data)
}

func (e *Engine) patch(s Strategy, cfg PatchConfig, target Node, fn RenderFunc, data any) (result Node, err error) {
	matcher := cfg.Matcher
	if matcher == nil {
		matcher = e.matcher
	}
	doc := target.OwnerDocument()
	parent := target.ParentNode()

	e.push(frame{
		active:    true,
		doc:       doc,
		cur:       cursor{parent: parent},
		changes:   &changeSet{},
		focusPath: doc.FocusedAncestors(target, parent),
		matcher:   matcher,
		strategy:  s.Name,
	})
	defer e.pop()

	info := PatchInfo{Target: target, Strategy: s.Name, Depth: e.Depth()}
	for _, o := range e.observers {
		o.PatchStarted(info)
	}

	start := time.Now()
	returned := false
	defer func() {
		reported := err
		if !returned {
			reported = ErrRenderPanicked
		}
		e.finish(info, time.Since(start), reported)
	}()

	result, err = s.Run(e, target, fn, data)
	returned = true
	return result, err
}

// finish flushes the active frame's changes and reports them. It runs before
// the frame is popped.
func (e *Engine) finish(info PatchInfo, elapsed time.Duration, err error) {
	changes := e.frame.changes
	changes.notify(e.listeners)

	stats := changes.stats()
	stats.Duration = elapsed
	for _, o := range e.observers {
		o.PatchFinished(info, stats, err)
	}

	attrs := []any{
		slog.String("strategy", info.Strategy),
		slog.Int("depth", info.Depth),
		slog.Int("created", stats.Created),
		slog.Int("deleted", stats.Deleted),
		slog.Int("moved", stats.Moved),
		slog.Duration("duration", elapsed),
	}
	if err != nil {
		attrs = append(attrs, slog.Any("error", err))
	}
	e.logger.Debug("patch finished", attrs...)
}

func runInner(e *Engine, target Node, fn RenderFunc, data any) (Node, error) {
	f := &e.frame
	f.cur.node = target
	f.cur.enterScope()

	if fn != nil {
		if err := fn(e, data); err != nil {
			return nil, err
		}
	}

	if e.debug {
		e.assertNoUnclosedTags()
		e.assertAttributesClosed()
	}
	e.exitScope()
	return target, nil
}

func runOuter(e *Engine, target Node, fn RenderFunc, data any) (Node, error) {
	f := &e.frame
	f.cur.anchor = target
	f.cur.anchored = true

	var wantNext, wantPrev Node
	if e.debug {
		wantNext = target.NextSibling()
		wantPrev = target.PreviousSibling()
	}

	if fn != nil {
		if err := fn(e, data); err != nil {
			return nil, err
		}
	}

	if e.debug {
		e.assertNoUnclosedTags()
		e.assertAttributesClosed()
		e.assertOuterHasParent()
		e.assertSingleReplacement(target, wantNext, wantPrev)
	}

	if f.cur.parent != nil {
		e.clear(f.cur.parent, f.cur.peekNext(), target.NextSibling())
	}
	return f.cur.node, nil
}
