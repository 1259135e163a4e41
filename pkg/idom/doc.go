// Package idom reconciles a live host tree against a stream of declaration
// calls.
//
// A render function describes the desired children of a node by calling
// Open, Close and Text in document order. The engine walks the existing tree
// in lockstep with those calls: a declaration that matches the node at the
// current position reuses it, a keyed declaration may pull a later sibling
// forward, and anything else creates a node. Children that were not declared
// are removed when their parent is closed. No target tree is ever built.
//
// # Patching
//
//	e := idom.New()
//	_, err := e.PatchInner(root, func(e *idom.Engine, data any) error {
//	    for _, item := range data.([]string) {
//	        e.OpenElement("li", idom.Key(item))
//	        e.Text()
//	        e.Close()
//	    }
//	    return nil
//	}, items)
//
// PatchInner reconciles the children of a node; PatchOuter reconciles the
// node itself and returns whatever replaced it. NewPatcher builds patch
// functions with a custom Matcher.
//
// # Identity
//
// Every node is created with an Identity (a Kind and an optional Key) that
// never changes. Unkeyed declarations are matched by position only; keyed
// declarations search forward among the remaining siblings. A node whose
// kind or key no longer matches is replaced, never mutated.
//
// # Focus
//
// When the node that holds focus, or one of its ancestors, has to move, the
// engine moves its siblings around it instead so the focused node is never
// detached from the tree.
//
// # Re-entrancy
//
// A render function may start another patch on a different subtree. The
// nested patch runs in its own frame and the outer walk resumes where it
// left off, even if the nested render returns an error or panics.
//
// # Debugging
//
// WithDebug(true) turns on usage assertions: unbalanced Open/Close, children
// after Skip, introspection outside a patch and similar mistakes panic with
// a coded error. Without it, the checks cost a single branch.
package idom
