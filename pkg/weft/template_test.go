package weft

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/net/html"

	"github.com/vango-go/weft/internal/errors"
	"github.com/vango-go/weft/pkg/dom"
)

func TestFenceFor(t *testing.T) {
	tests := []struct {
		name string
		segs []string
		want string
	}{
		{"no markers", []string{"<p>", "</p>"}, "~"},
		{"single marker in literal", []string{"a~b", "c"}, "~~"},
		{"run of two", []string{"a~~b"}, "~~~"},
		{"runs split across segments", []string{"~~", "~~~"}, "~~~~"},
		{"empty", nil, "~"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fenceFor(tt.segs); got != tt.want {
				t.Errorf("fenceFor(%q) = %q, want %q", tt.segs, got, tt.want)
			}
		})
	}
}

func TestInterleave(t *testing.T) {
	got := interleave([]string{"<p>", "</p><p>", "</p>"}, "~")
	want := "<p>~0~</p><p>~1~</p>"
	if got != want {
		t.Errorf("interleave = %q, want %q", got, want)
	}
}

func TestHoles(t *testing.T) {
	if got := Split("<p>", "</p>").Holes(); got != 1 {
		t.Errorf("Holes = %d, want 1", got)
	}
	if got := Split("<p></p>").Holes(); got != 0 {
		t.Errorf("Holes = %d, want 0", got)
	}
	if got := (&Parts{}).Holes(); got != 0 {
		t.Errorf("Holes on empty Parts = %d, want 0", got)
	}
}

func TestCompileNodeWire(t *testing.T) {
	tpl, err := compile(Split("<p>before ", " after</p>"))
	if err != nil {
		t.Fatal(err)
	}
	wires := tpl.Wires()
	if len(wires) != 1 {
		t.Fatalf("len(wires) = %d, want 1", len(wires))
	}
	w := wires[0]
	if w.Kind != WireNode || w.Index != 0 {
		t.Errorf("wire = %+v, want node wire for value 0", w)
	}

	// The wire must address an empty placeholder comment between the
	// two literal text runs.
	target := dom.Query(tpl.skeleton, w.Path)
	if target == nil {
		t.Fatal("wire path does not resolve")
	}
	if target.Type != html.CommentNode || target.Data != "" {
		t.Errorf("wire target = %v %q, want empty comment", target.Type, target.Data)
	}
	if target.PrevSibling == nil || target.PrevSibling.Data != "before " {
		t.Error("literal run before the hole is missing")
	}
	if target.NextSibling == nil || target.NextSibling.Data != " after" {
		t.Error("literal run after the hole is missing")
	}
}

func TestCompileAttrWire(t *testing.T) {
	tpl, err := compile(Split(`<div class="a `, ` b" id="`, `"></div>`))
	if err != nil {
		t.Fatal(err)
	}
	wires := tpl.Wires()
	want := []Wire{
		{Kind: WireAttr, Path: dom.Path{0}, Index: 0, Name: "class", Head: "a ", Tails: []string{" b"}},
		{Kind: WireAttr, Path: dom.Path{0}, Index: 1, Name: "id", Head: "", Tails: []string{""}},
	}
	if diff := cmp.Diff(want, wires); diff != "" {
		t.Errorf("wires mismatch (-want +got):\n%s", diff)
	}

	// Hole tokens must not survive in the skeleton's attributes.
	div := dom.Query(tpl.skeleton, dom.Path{0})
	if v, _ := dom.GetAttr(div, "class"); v != "" {
		t.Errorf("skeleton class = %q, want empty", v)
	}
}

func TestCompileMultiHoleAttr(t *testing.T) {
	tpl, err := compile(Split(`<div style="top:`, `px;left:`, `px"></div>`))
	if err != nil {
		t.Fatal(err)
	}
	wires := tpl.Wires()
	if len(wires) != 1 {
		t.Fatalf("len(wires) = %d, want 1", len(wires))
	}
	w := wires[0]
	if w.Index != 0 || w.Head != "top:" {
		t.Errorf("wire head = %q index = %d, want top: 0", w.Head, w.Index)
	}
	if diff := cmp.Diff([]string{"px;left:", "px"}, w.Tails); diff != "" {
		t.Errorf("tails mismatch (-want +got):\n%s", diff)
	}
}

func TestCompileTagWire(t *testing.T) {
	tpl, err := compile(Split("<div ", "></div>"))
	if err != nil {
		t.Fatal(err)
	}
	wires := tpl.Wires()
	if len(wires) != 1 || wires[0].Kind != WireTag || wires[0].Index != 0 {
		t.Fatalf("wires = %+v, want one tag wire for value 0", wires)
	}
	div := dom.Query(tpl.skeleton, wires[0].Path)
	if div == nil || div.Data != "div" {
		t.Error("tag wire does not address the div")
	}
	if len(div.Attr) != 0 {
		t.Errorf("skeleton div still carries attrs: %+v", div.Attr)
	}
}

func TestCompileTagNameHole(t *testing.T) {
	for _, segs := range [][]string{
		{"<", ">x</div>"},
		{"<div>x</", ">"},
	} {
		if _, err := compile(Split(segs...)); !errors.IsCode(err, "E101") {
			t.Errorf("compile(%q) err = %v, want E101", segs, err)
		}
	}
}

func TestCompileUnreachableHole(t *testing.T) {
	// A hole inside a comment is swallowed by the parser and never
	// becomes a wire.
	if _, err := compile(Split("<!--", "-->")); !errors.IsCode(err, "E102") {
		t.Errorf("err = %v, want E102", err)
	}
}

func TestCompileLiteralMarkers(t *testing.T) {
	// Literal tildes must not be mistaken for hole tokens.
	tpl, err := compile(Split("<p>~0~ and ", "</p>"))
	if err != nil {
		t.Fatal(err)
	}
	if len(tpl.Wires()) != 1 {
		t.Fatalf("len(wires) = %d, want 1", len(tpl.Wires()))
	}
	w := tpl.Wires()[0]
	target := dom.Query(tpl.skeleton, w.Path)
	if target.PrevSibling == nil || target.PrevSibling.Data != "~0~ and " {
		t.Error("literal marker run was not preserved verbatim")
	}
}

func TestCompileTableContext(t *testing.T) {
	tpl, err := compile(SplitIn("table", "<tr><td>", "</td></tr>"))
	if err != nil {
		t.Fatal(err)
	}
	// The row must survive parsing; in "body" context it would be
	// hoisted out and the hole lost.
	if len(tpl.Wires()) != 1 {
		t.Fatalf("len(wires) = %d, want 1", len(tpl.Wires()))
	}
	found := false
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "td" {
			found = true
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(tpl.skeleton)
	if !found {
		t.Error("no td element in table-context skeleton")
	}
}

func TestTemplateCacheIdentity(t *testing.T) {
	p := Split("<p>", "</p>")
	t1, err := templateFor(p)
	if err != nil {
		t.Fatal(err)
	}
	t2, err := templateFor(p)
	if err != nil {
		t.Fatal(err)
	}
	if t1 != t2 {
		t.Error("same Parts compiled twice")
	}

	// Equal segments, distinct call sites: distinct templates.
	q := Split("<p>", "</p>")
	t3, err := templateFor(q)
	if err != nil {
		t.Fatal(err)
	}
	if t3 == t1 {
		t.Error("distinct Parts share a template")
	}
}

func TestResetTemplateCache(t *testing.T) {
	p := Split("<span>", "</span>")
	t1, err := templateFor(p)
	if err != nil {
		t.Fatal(err)
	}
	ResetTemplateCache()
	t2, err := templateFor(p)
	if err != nil {
		t.Fatal(err)
	}
	if t1 == t2 {
		t.Error("cache reset did not force a recompile")
	}
}

func TestBindArityMismatch(t *testing.T) {
	host := dom.NewElement("div")
	r, err := Target(host)
	if err != nil {
		t.Fatal(err)
	}
	p := Split("<p>", "</p>")
	if err := r.Render(p.Bind("a", "b")); !errors.IsCode(err, "E204") {
		t.Errorf("Render err = %v, want E204", err)
	}
}
