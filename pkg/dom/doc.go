// Package dom provides the host tree primitives the weft engine renders
// into, layered over golang.org/x/net/html.
//
// The engine never manipulates *html.Node directly; everything it needs
// is expressed through this package: node construction, deep cloning,
// sibling splicing, attribute access, and structural (child-index path)
// addressing of descendants.
//
// # Fragments
//
// A fragment is a DocumentNode used purely as a detached container for
// a run of sibling nodes. Fragments never appear inside a live tree;
// Mount-style operations splice a fragment's children out of it.
//
// # Paths
//
// A Path addresses a descendant by the index of each child hop from a
// root. Paths are stable across deep clones of the same tree, which is
// what lets a compiled template locate its wired nodes inside every
// fresh clone of its skeleton.
package dom
