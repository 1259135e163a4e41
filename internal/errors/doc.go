// Package errors provides coded, actionable diagnostics for incdom.
//
// Every diagnostic has a code (e.g. "E004") that maps to a short message and
// a longer explanation. Usage errors are raised by the reconciliation engine
// when debug assertions are enabled; scenario and config errors come from the
// CLI tooling and may carry a source location inside the offending file.
//
// # Error Categories
//
//   - usage: misuse of the declaration API (unbalanced Open/Close, declaring
//     children after Skip, introspection outside a patch)
//   - scenario: malformed scenario files
//   - config: invalid incdom.json
//   - cli: command-line errors
//
// # Usage
//
//	err := errors.New("E021").
//	    WithLocation("scenarios/reorder.yaml", 12, 7).
//	    WithSuggestion("Use either 'open' or 'text' on a node, not both")
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR E021: Invalid scenario node
//	//
//	//   scenarios/reorder.yaml:12:7
//	//
//	//     11 │   nodes:
//	//   → 12 │     - {open: div, text: hi}
//	//        │       ^
//	//
//	//   Hint: Use either 'open' or 'text' on a node, not both
package errors
