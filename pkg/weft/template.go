package weft

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/vango-go/weft/internal/errors"
	"github.com/vango-go/weft/pkg/dom"
)

// marker is the reserved character used to fence value holes inside the
// concatenated skeleton markup. The fence is always chosen one run
// longer than the longest marker run found in the literal segments, so
// no literal text can collide with a hole token.
const marker = '~'

// defaultContext is the parse context for templates that don't declare
// one. Context matters because the HTML parser treats fragments
// differently per insertion point (table rows, option lists, ...).
const defaultContext = "body"

// Parts is the literal-segment sequence of one template call site.
// Declare it once (package level) and Bind it per render; the pointer
// identity of the Parts value keys the compiled template cache.
type Parts struct {
	context string
	segs    []string
}

// Split declares a template from its literal segments. Values bound
// later slot between consecutive segments.
func Split(segs ...string) *Parts {
	return &Parts{context: defaultContext, segs: segs}
}

// SplitIn declares a template parsed in the given context element
// ("table", "select", ...). Templates with the same segments but
// different contexts compile to distinct skeletons.
func SplitIn(context string, segs ...string) *Parts {
	return &Parts{context: context, segs: segs}
}

// Holes returns the number of values the template binds.
func (p *Parts) Holes() int {
	if len(p.segs) == 0 {
		return 0
	}
	return len(p.segs) - 1
}

// Bind attaches interpolated values, producing a renderable Action.
// Rendering the Action against a mount holding an instance of the same
// Parts patches that instance in place.
func (p *Parts) Bind(values ...any) Action {
	return func() any {
		if len(values) != p.Holes() {
			return errors.New("E204").
				WithDetailf("template has %d holes, got %d values", p.Holes(), len(values))
		}
		tpl, err := templateFor(p)
		if err != nil {
			return err
		}
		place := activePlace()
		if place == nil {
			return errors.Newf(errors.CategoryRuntime, "template action invoked outside a render")
		}
		return &instanceContent{root: place.root, tpl: tpl, values: values}
	}
}

// Template is an immutable compiled template: a structural skeleton
// plus the ordered wires locating where values must be re-applied.
type Template struct {
	parts    *Parts
	skeleton *html.Node // detached fragment, cloned per instance
	wires    []Wire
}

// Wires returns the compiled wire descriptors, ordered by value index.
func (t *Template) Wires() []Wire {
	out := make([]Wire, len(t.wires))
	copy(out, t.wires)
	return out
}

// compile builds the skeleton and wires for one Parts value. It runs
// once per call site; results are cached by templateFor.
func compile(p *Parts) (*Template, error) {
	if len(p.segs) == 0 {
		return &Template{parts: p, skeleton: dom.NewFragment()}, nil
	}

	fence := fenceFor(p.segs)
	markup := interleave(p.segs, fence)
	holeRe := regexp.MustCompile(regexp.QuoteMeta(fence) + `([0-9]+)` + regexp.QuoteMeta(fence))

	// A hole in tag-name position would be mangled by the parser;
	// reject it up front as a contract violation.
	for _, m := range holeRe.FindAllStringIndex(markup, -1) {
		j := m[0]
		if j > 0 && markup[j-1] == '<' {
			return nil, errors.New("E101")
		}
		if j > 1 && markup[j-2] == '<' && markup[j-1] == '/' {
			return nil, errors.New("E101")
		}
	}

	context := p.context
	if context == "" {
		context = defaultContext
	}
	nodes, err := dom.ParseFragment(markup, context)
	if err != nil {
		return nil, errors.FromError(err, "E103")
	}
	if len(nodes) == 0 && strings.TrimSpace(markup) != "" {
		return nil, errors.New("E103")
	}

	skeleton := dom.NewFragment()
	for _, n := range nodes {
		skeleton.AppendChild(n)
	}

	wires, err := wireSkeleton(skeleton, holeRe)
	if err != nil {
		return nil, err
	}

	if err := checkCoverage(wires, p.Holes()); err != nil {
		return nil, err
	}

	sort.Slice(wires, func(i, j int) bool { return wires[i].Index < wires[j].Index })
	return &Template{parts: p, skeleton: skeleton, wires: wires}, nil
}

// fenceFor picks the hole fence: one marker longer than the longest
// marker run appearing in any literal segment.
func fenceFor(segs []string) string {
	longest := 0
	for _, s := range segs {
		run := 0
		for _, r := range s {
			if r == marker {
				run++
				if run > longest {
					longest = run
				}
			} else {
				run = 0
			}
		}
	}
	return strings.Repeat(string(marker), longest+1)
}

// interleave concatenates literal segments with fenced hole tokens.
func interleave(segs []string, fence string) string {
	var b strings.Builder
	for i, s := range segs {
		if i > 0 {
			b.WriteString(fence)
			b.WriteString(strconv.Itoa(i - 1))
			b.WriteString(fence)
		}
		b.WriteString(s)
	}
	return b.String()
}

// wireSkeleton walks the parsed skeleton, splits text holes into
// placeholder comments, strips attribute holes, and records a wire for
// each. Paths are computed after all structural edits so sibling
// indexes are final.
func wireSkeleton(skeleton *html.Node, holeRe *regexp.Regexp) ([]Wire, error) {
	type pending struct {
		node *html.Node
		wire Wire
	}
	var found []pending

	// Pass 1: collect, so mutation doesn't disturb the walk.
	var textNodes []*html.Node
	var elements []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			if holeRe.MatchString(n.Data) {
				textNodes = append(textNodes, n)
			}
		case html.ElementNode:
			elements = append(elements, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(skeleton)

	// Pass 2a: split text holes. Each hole becomes a dedicated empty
	// placeholder comment recorded as a node wire.
	for _, tn := range textNodes {
		data := tn.Data
		last := 0
		for _, m := range holeRe.FindAllStringSubmatchIndex(data, -1) {
			if lit := data[last:m[0]]; lit != "" {
				dom.InsertBefore(dom.NewText(lit), tn)
			}
			idx, err := strconv.Atoi(data[m[2]:m[3]])
			if err != nil {
				return nil, errors.New("E102").Wrap(err)
			}
			ph := dom.NewComment("")
			dom.InsertBefore(ph, tn)
			found = append(found, pending{node: ph, wire: Wire{Kind: WireNode, Index: idx}})
			last = m[1]
		}
		if lit := data[last:]; lit != "" {
			dom.InsertBefore(dom.NewText(lit), tn)
		}
		dom.Detach(tn)
	}

	// Pass 2b: attribute and tag holes.
	for _, el := range elements {
		kept := el.Attr[:0]
		for _, a := range el.Attr {
			if m := holeRe.FindStringSubmatchIndex(a.Key); m != nil && m[0] == 0 && m[1] == len(a.Key) {
				// The whole attribute name is a hole: a property bag.
				idx, err := strconv.Atoi(a.Key[m[2]:m[3]])
				if err != nil {
					return nil, errors.New("E102").Wrap(err)
				}
				found = append(found, pending{node: el, wire: Wire{Kind: WireTag, Index: idx}})
				continue
			}
			if holeRe.MatchString(a.Val) {
				head, tails, first, err := splitAttrValue(a.Val, holeRe)
				if err != nil {
					return nil, err
				}
				found = append(found, pending{node: el, wire: Wire{
					Kind:  WireAttr,
					Index: first,
					Name:  a.Key,
					Head:  head,
					Tails: tails,
				}})
				a.Val = ""
			}
			kept = append(kept, a)
		}
		el.Attr = kept
	}

	// Pass 3: freeze structural paths.
	wires := make([]Wire, 0, len(found))
	for _, pd := range found {
		path, ok := dom.PathOf(skeleton, pd.node)
		if !ok {
			return nil, errors.New("E102")
		}
		w := pd.wire
		w.Path = path
		wires = append(wires, w)
	}
	return wires, nil
}

// splitAttrValue decomposes one attribute value containing holes into
// its literal head, per-value literal tails, and the first value index.
// Value indexes inside one attribute are consecutive by construction;
// anything else means the parser reordered the value and the template
// is unsupported.
func splitAttrValue(val string, holeRe *regexp.Regexp) (head string, tails []string, first int, err error) {
	ms := holeRe.FindAllStringSubmatchIndex(val, -1)
	last := 0
	for i, m := range ms {
		idx, aerr := strconv.Atoi(val[m[2]:m[3]])
		if aerr != nil {
			return "", nil, 0, errors.New("E102").Wrap(aerr)
		}
		if i == 0 {
			head = val[last:m[0]]
			first = idx
		} else {
			tails = append(tails, val[last:m[0]])
			if idx != first+i {
				return "", nil, 0, errors.New("E102").
					WithDetailf("attribute holes not consecutive: %d after %d", idx, first+i-1)
			}
		}
		last = m[1]
	}
	tails = append(tails, val[last:])
	return head, tails, first, nil
}

// checkCoverage verifies every interpolated value is consumed by
// exactly one wire.
func checkCoverage(wires []Wire, holes int) error {
	seen := make([]bool, holes)
	for _, w := range wires {
		for j := 0; j < w.holes(); j++ {
			idx := w.Index + j
			if idx < 0 || idx >= holes || seen[idx] {
				return errors.New("E102").
					WithDetailf("value %d wired out of range or twice", idx)
			}
			seen[idx] = true
		}
	}
	for idx, ok := range seen {
		if !ok {
			return errors.New("E102").
				WithDetailf("value %d not reachable after parsing", idx)
		}
	}
	return nil
}
