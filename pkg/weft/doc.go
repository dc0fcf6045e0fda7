// Package weft is an incremental HTML rendering engine. Given a
// parameterized markup template and a stream of values, it produces and
// then repeatedly updates a live document tree with minimal mutation,
// preserving node identity wherever possible.
//
// # Templates
//
// A template is declared once per call site from its literal segments,
// then bound to values per render:
//
//	var item = weft.Split("<li class=\"", "\">", "</li>")
//
//	func Item(class, label string) weft.Action {
//	    return item.Bind(class, label)
//	}
//
// Segment identity (the *Parts pointer) keys the compiled template
// cache, so re-binding the same call site reuses the same compiled
// skeleton and only re-applies the interpolated values.
//
// # Rendering
//
// A Root mounts content into a host node and reconciles on every
// Render call:
//
//	root, _ := weft.Target(node)
//	root.Render(Item("odd", "first"))
//	root.Render(Item("even", "first"))  // patches class attr in place
//
// Re-rendering the same template at the same mount patches text and
// attributes inside the existing elements; only a different template
// (or a different value shape) tears nodes down.
//
// # Lists
//
// Slices render as reconciled lists. Entries keep their identity across
// reorders when wrapped with Keyed; unkeyed entries match by their
// position among unkeyed siblings:
//
//	root.Render([]any{
//	    weft.Keyed(user.ID, UserRow(user)),
//	    ...
//	})
//
// Reordering keyed entries moves the existing nodes instead of
// rebuilding them, using a single forward scan that only moves a node
// when its relative order actually regressed.
//
// # Extension
//
// Define registers a conversion from arbitrary values to renderable
// Actions for one of the three placement kinds (element content,
// attribute value, tag property bag). Factories are tried newest-first;
// the first one that accepts the value wins.
//
// # Concurrency
//
// The engine is synchronous and call-stack based. Renders must not run
// concurrently: external producers (timers, websocket events) re-enter
// through a fresh top-level Render call, serialized by the caller. The
// pkg/live host does this serialization for its sessions.
package weft
