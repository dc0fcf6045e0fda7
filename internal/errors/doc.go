// Package errors provides structured, actionable error values for weft.
//
// Every failure the engine can report carries a registered code that
// maps to a short message, a detailed explanation, and a documentation
// URL. Codes give failures a stable identity for tests and docs while
// the message text stays free to improve.
//
// # Error Categories
//
// Errors are organized into categories:
//   - compile: template compilation errors (illegal hole positions,
//     holes lost by the markup parser)
//   - runtime: render-time errors (no conversion for a value, a wired
//     node missing from a cloned skeleton)
//   - live: live preview host errors (snapshot stores, serving)
//
// # Error Codes
//
//   - E1xx compile
//   - E2xx runtime
//   - E3xx live
//
// # Usage
//
//	err := errors.New("E201").
//	    WithDetail(fmt.Sprintf("value %#v at node placement", v)).
//	    WithSuggestion("register a factory with weft.Define")
//
//	fmt.Println(err.Format())
package errors
