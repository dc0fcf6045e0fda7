package weft

import (
	"strings"
	"testing"

	"golang.org/x/net/html"

	"github.com/vango-go/weft/pkg/dom"
)

// bodyText concatenates the rendered text of the whole mount.
func bodyText(r *Root) string {
	return dom.TextContent(r.Node())
}

// nodeByText finds the text node currently holding the given data.
func nodeByText(t *testing.T, r *Root, data string) *html.Node {
	t.Helper()
	for _, n := range textNodes(r.Node()) {
		if n.Data == data {
			return n
		}
	}
	t.Fatalf("no text node %q in %q", data, dom.InnerHTML(r.Node()))
	return nil
}

func TestListInitialRender(t *testing.T) {
	r := newTestRoot(t)
	mustRender(t, r, []any{"a", "b", "c"})
	if got := bodyText(r); got != "abc" {
		t.Errorf("text = %q, want abc", got)
	}
}

func TestListStabilityAcrossReorder(t *testing.T) {
	r := newTestRoot(t)
	mustRender(t, r, []any{
		Keyed("k0", "0"),
		Keyed("k1", "1"),
		"2",
		"3",
		Keyed("k4", "4"),
		Keyed("k5", "5"),
	})
	if got := bodyText(r); got != "012345" {
		t.Fatalf("text = %q, want 012345", got)
	}

	before := map[string]*html.Node{
		"k0": nodeByText(t, r, "0"),
		"k1": nodeByText(t, r, "1"),
		"k4": nodeByText(t, r, "4"),
		"k5": nodeByText(t, r, "5"),
	}

	mustRender(t, r, []any{
		"2",
		Keyed("k1", "1"),
		Keyed("k0", "0"),
		Keyed("k5", "5"),
		"3",
		Keyed("k4", "4"),
	})
	if got := bodyText(r); got != "210534" {
		t.Errorf("text = %q, want 210534", got)
	}

	after := map[string]*html.Node{
		"k0": nodeByText(t, r, "0"),
		"k1": nodeByText(t, r, "1"),
		"k4": nodeByText(t, r, "4"),
		"k5": nodeByText(t, r, "5"),
	}
	for key, node := range before {
		if after[key] != node {
			t.Errorf("node for %s replaced across reorder", key)
		}
	}
}

func TestListEmptyBoundary(t *testing.T) {
	r := newTestRoot(t)
	mustRender(t, r, []any{Keyed("a", "a")})
	node := nodeByText(t, r, "a")

	// Down to empty: item nodes go, the boundary marker stays.
	mustRender(t, r, []any{})
	if got := bodyText(r); got != "" {
		t.Errorf("text = %q, want empty", got)
	}
	if node.Parent != nil {
		t.Error("removed item node still in the tree")
	}
	if !strings.Contains(dom.InnerHTML(r.Node()), "<!--") {
		t.Error("boundary marker removed with the items")
	}

	// Back up: the item mounts after the surviving marker.
	mustRender(t, r, []any{Keyed("a", "a")})
	if got := bodyText(r); got != "a" {
		t.Errorf("text = %q, want a", got)
	}
}

func TestListSupersequenceNoMoves(t *testing.T) {
	r := newTestRoot(t)
	mustRender(t, r, []any{Keyed("b", "b"), Keyed("d", "d")})
	b := nodeByText(t, r, "b")
	d := nodeByText(t, r, "d")

	// Old relative order (b before d) is preserved; only inserts happen.
	mustRender(t, r, []any{Keyed("a", "a"), Keyed("b", "b"), Keyed("c", "c"), Keyed("d", "d"), Keyed("e", "e")})
	if got := bodyText(r); got != "abcde" {
		t.Errorf("text = %q, want abcde", got)
	}
	if nodeByText(t, r, "b") != b || nodeByText(t, r, "d") != d {
		t.Error("matched entries replaced during supersequence insert")
	}
}

func TestListRemoval(t *testing.T) {
	r := newTestRoot(t)
	mustRender(t, r, []any{Keyed("a", "a"), Keyed("b", "b"), Keyed("c", "c")})
	b := nodeByText(t, r, "b")

	mustRender(t, r, []any{Keyed("a", "a"), Keyed("c", "c")})
	if got := bodyText(r); got != "ac" {
		t.Errorf("text = %q, want ac", got)
	}
	if b.Parent != nil {
		t.Error("removed entry's node still parented")
	}
}

func TestListUnkeyedPositional(t *testing.T) {
	r := newTestRoot(t)
	mustRender(t, r, []any{"x", "y"})
	x := nodeByText(t, r, "x")
	y := nodeByText(t, r, "y")

	// Unkeyed entries match by ordinal among unkeyed siblings, so a
	// same-shape pass patches both in place.
	mustRender(t, r, []any{"x2", "y2"})
	if got := bodyText(r); got != "x2y2" {
		t.Errorf("text = %q, want x2y2", got)
	}
	if nodeByText(t, r, "x2") != x || nodeByText(t, r, "y2") != y {
		t.Error("unkeyed entries lost identity on same-shape pass")
	}
}

func TestListTypedSlice(t *testing.T) {
	r := newTestRoot(t)
	mustRender(t, r, []string{"a", "b", "c"})
	if got := bodyText(r); got != "abc" {
		t.Fatalf("text = %q, want abc", got)
	}
	a := nodeByText(t, r, "a")

	// A typed slice reconciles like []any: same-shape passes patch the
	// existing entries.
	mustRender(t, r, []string{"a", "b2", "c"})
	if got := bodyText(r); got != "ab2c" {
		t.Errorf("text = %q, want ab2c", got)
	}
	if nodeByText(t, r, "a") != a {
		t.Error("typed-slice entry lost identity on same-shape pass")
	}

	mustRender(t, r, []int{1, 2})
	if got := bodyText(r); got != "12" {
		t.Errorf("text = %q, want 12", got)
	}
}

func TestListUnkeyedOrdinalSkipsKeyed(t *testing.T) {
	r := newTestRoot(t)
	mustRender(t, r, []any{Keyed("k", "k"), "u"})
	u := nodeByText(t, r, "u")

	// Removing the keyed sibling must not disturb the unkeyed entry's
	// positional identity.
	mustRender(t, r, []any{"u2"})
	if got := bodyText(r); got != "u2" {
		t.Errorf("text = %q, want u2", got)
	}
	if nodeByText(t, r, "u2") != u {
		t.Error("unkeyed entry lost identity when keyed sibling left")
	}
}

func TestListDuplicateKeys(t *testing.T) {
	r := newTestRoot(t)
	// Repeated keys are disambiguated by occurrence: each occurrence
	// owns its own entry and keeps it across passes.
	mustRender(t, r, []any{Keyed("k", "a"), Keyed("k", "b")})
	if got := bodyText(r); got != "ab" {
		t.Errorf("text = %q, want ab", got)
	}
	a := nodeByText(t, r, "a")
	b := nodeByText(t, r, "b")

	mustRender(t, r, []any{Keyed("k", "a2"), Keyed("k", "b2")})
	if got := bodyText(r); got != "a2b2" {
		t.Errorf("text = %q, want a2b2", got)
	}
	if nodeByText(t, r, "a2") != a || nodeByText(t, r, "b2") != b {
		t.Error("duplicate-key entries lost identity")
	}
}

func TestListOfTemplates(t *testing.T) {
	r := newTestRoot(t)
	row := Split("<li>", "</li>")

	items := func(labels ...string) []any {
		out := make([]any, len(labels))
		for i, l := range labels {
			out[i] = Keyed(l, row.Bind(l))
		}
		return out
	}

	mustRender(t, r, items("a", "b", "c"))
	if got := bodyText(r); got != "abc" {
		t.Fatalf("text = %q, want abc", got)
	}
	liA := nodeByText(t, r, "a").Parent
	if liA == nil || liA.Data != "li" {
		t.Fatal("item did not render inside li")
	}

	mustRender(t, r, items("c", "a", "b"))
	if got := bodyText(r); got != "cab" {
		t.Errorf("text = %q, want cab", got)
	}
	if nodeByText(t, r, "a").Parent != liA {
		t.Error("li identity lost across reorder")
	}
}

func TestListUndoOnRemoval(t *testing.T) {
	r := newTestRoot(t)
	fired := 0
	watched := Action(func() any {
		CurrentHandle().OnUndo(func() { fired++ })
		return "w"
	})

	mustRender(t, r, []any{Keyed("w", watched), Keyed("o", "o")})
	if fired != 0 {
		t.Fatalf("undo fired during mount: %d", fired)
	}

	mustRender(t, r, []any{Keyed("o", "o")})
	if fired != 1 {
		t.Errorf("undo fired %d times on entry removal, want 1", fired)
	}
}

func TestListReplacedByText(t *testing.T) {
	r := newTestRoot(t)
	mustRender(t, r, []any{"a", "b"})
	mustRender(t, r, "flat")
	if got := bodyText(r); got != "flat" {
		t.Errorf("text = %q, want flat", got)
	}
	mustRender(t, r, []any{"a", "b"})
	if got := bodyText(r); got != "ab" {
		t.Errorf("text = %q, want ab", got)
	}
}

func TestNestedLists(t *testing.T) {
	r := newTestRoot(t)
	mustRender(t, r, []any{
		Keyed("g1", []any{"a", "b"}),
		Keyed("g2", []any{"c"}),
	})
	if got := bodyText(r); got != "abc" {
		t.Errorf("text = %q, want abc", got)
	}

	mustRender(t, r, []any{
		Keyed("g2", []any{"c", "d"}),
		Keyed("g1", []any{"a"}),
	})
	if got := bodyText(r); got != "cda" {
		t.Errorf("text = %q, want cda", got)
	}
}
