// Package dom is an in-memory host tree for the idom reconciliation engine.
//
// Document implements every collaborator the engine needs: it constructs
// elements and text nodes, records their identity, resolves SVG and MathML
// namespaces from the parent, and reports the focused node's ancestry.
// Node implements idom.Node with DOM-like insertion semantics: inserting an
// attached node moves it, and detaching the focused node blurs it.
//
// Documents count every structural write, which makes them useful for
// asserting how much a patch actually changed:
//
//	doc := dom.NewDocument()
//	root := doc.NewElement("ul")
//	engine.PatchInner(root, render, items)
//	fmt.Println(doc.Mutations().Moved, root.HTML())
package dom
