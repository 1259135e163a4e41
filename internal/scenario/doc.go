// Package scenario replays declarative YAML scenarios against the engine.
//
// A scenario is a list of passes. Each pass declares the desired children of
// a root element and is applied with a patch call on the same host tree, so
// consecutive passes exercise reuse, reordering and removal:
//
//	name: reorder
//	debug: true
//	passes:
//	  - name: initial
//	    nodes:
//	      - {open: div, key: a}
//	      - {open: div, key: b, children: [{text: hello}]}
//	  - name: swap
//	    nodes:
//	      - {open: div, key: b, skip: true}
//	      - {open: div, key: a}
//
// Node fields:
//
//	open      element tag
//	custom    custom element name; the same name is the same kind for the
//	          whole replay
//	text      text node content
//	key       reconciliation key
//	attrs     attribute map, reconciled exactly
//	skip      keep the element's existing children
//	focus     focus the element after the pass
//	children  nested declarations
//
// A pass with outer: true patches the root's first child instead of the
// root's children.
package scenario
