// Package live serves a rendered view over HTTP and pushes refreshes
// to connected browsers over WebSocket.
//
// A Server owns one mounted view. Refresh re-renders the view,
// optionally publishes the document as a snapshot, and tells every
// connected browser to reload. Renders are serialized with a mutex at
// this layer; the engine itself is single-threaded.
package live
