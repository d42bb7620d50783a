// Package errors provides structured, actionable error messages for the vnode
// tooling.
//
// Errors carry a registered code, a category, an optional source location
// with surrounding lines and a hint. The library packages (pkg/vdom,
// pkg/render) return plain errors; the config loader, document decoder,
// publishers and CLI wrap them here so the user sees where a problem is and
// how to fix it.
//
// # Categories
//
//   - config: vnode.json / vnode.yaml problems
//   - document: malformed tree documents
//   - render: component failures during rendering
//   - publish: output targets and uploads
//   - cli: command line and preview server errors
//
// # Usage
//
//	err := errors.New("E123").
//	    WithLocation("page.yaml", 14, 7).
//	    WithSuggestion("Declare Card under components")
//
//	errors.Print(os.Stderr, err)
//	// ERROR E123: Unknown component
//	//
//	//   page.yaml:14:7
//	//
//	//     12 │     children:
//	//     13 │       - component: Header
//	//   → 14 │       - component: Card
//	//        │         ^
//	//     15 │ components:
//	//     16 │   Header:
//	//
//	//   The node refers to a component that is not declared under 'components'.
//	//
//	//   Hint: Declare Card under components
package errors
