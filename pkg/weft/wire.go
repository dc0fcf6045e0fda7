package weft

import "github.com/vango-go/weft/pkg/dom"

// WireKind discriminates the compiled wire descriptors.
type WireKind uint8

const (
	WireNode WireKind = iota // Hole in child content: a placeholder comment node
	WireAttr                 // Hole(s) inside one attribute's value
	WireTag                  // Hole standing for a whole attribute (property bag)
)

// String returns the string representation of the WireKind.
func (k WireKind) String() string {
	switch k {
	case WireNode:
		return "node"
	case WireAttr:
		return "attr"
	case WireTag:
		return "tag"
	default:
		return "unknown"
	}
}

// Wire is a compiled instruction binding a skeleton position to the
// interpolated values that must be re-applied there on every patch.
type Wire struct {
	// Kind selects which of the remaining fields are meaningful.
	Kind WireKind

	// Path locates the wired node inside any clone of the skeleton:
	// the placeholder comment for WireNode, the owning element for
	// WireAttr and WireTag.
	Path dom.Path

	// Index is the first interpolated value this wire consumes.
	// WireNode and WireTag consume exactly one; WireAttr consumes
	// len(Tails).
	Index int

	// Name is the attribute name (WireAttr only).
	Name string

	// Head is the literal text before the first value, and Tails the
	// literal runs following each value (WireAttr only). The patched
	// attribute is Head + v[Index] + Tails[0] + v[Index+1] + Tails[1]...
	Head  string
	Tails []string
}

// holes returns how many interpolated values the wire consumes.
func (w Wire) holes() int {
	if w.Kind == WireAttr {
		return len(w.Tails)
	}
	return 1
}
