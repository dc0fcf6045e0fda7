package weft

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/vango-go/weft/internal/errors"
	"github.com/vango-go/weft/pkg/dom"
)

// instanceContent is a mounted template instance: a skeleton clone
// bracketed by begin/end markers, with a persistent cell per node wire
// and a binding per attribute/tag wire.
//
// A fresh candidate (produced by Parts.Bind) carries only root, tpl and
// values; mount materializes the rest. Instances patch in place only
// when the candidate references the identical *Template; anything else
// is a teardown.
type instanceContent struct {
	root   *Root
	tpl    *Template
	values []any

	begin *html.Node
	end   *html.Node
	slots []*cell
	attrs []*attrBinding
	tags  []*tagBinding
}

func (i *instanceContent) Kind() ContentKind { return ContentInstance }

// Template returns the compiled template this instance was built from.
func (i *instanceContent) Template() *Template { return i.tpl }

func (i *instanceContent) compatibleWith(next Content) bool {
	ni, ok := next.(*instanceContent)
	return ok && ni.tpl == i.tpl
}

func (i *instanceContent) firstNode() *html.Node { return i.begin }
func (i *instanceContent) lastNode() *html.Node  { return i.end }

// mount clones the skeleton, resolves every wire against the clone,
// brackets the run with begin/end markers before ref, and applies the
// bound values.
func (i *instanceContent) mount(ref *html.Node) error {
	clone := dom.Clone(i.tpl.skeleton)

	// Resolve wire targets while the clone is still a coherent
	// fragment; splicing happens after.
	for _, w := range i.tpl.wires {
		target := dom.Query(clone, w.Path)
		if target == nil {
			return errors.New("E202").
				WithDetailf("%s wire for value %d", w.Kind, w.Index)
		}
		switch w.Kind {
		case WireNode:
			// The cloned placeholder comment is the slot's anchor.
			i.slots = append(i.slots, &cell{root: i.root, parent: i, anchor: target})
		case WireAttr:
			i.attrs = append(i.attrs, &attrBinding{node: target, wire: w})
		case WireTag:
			i.tags = append(i.tags, &tagBinding{node: target, wire: w})
		}
	}

	i.begin = dom.NewComment("")
	i.end = dom.NewComment("")
	dom.InsertBefore(i.begin, ref)
	for child := clone.FirstChild; child != nil; child = clone.FirstChild {
		dom.InsertBefore(child, ref)
	}
	dom.InsertBefore(i.end, ref)

	return i.apply(i.values)
}

// patch re-applies the candidate's values through the existing wires.
// Each slot reconciles independently; attributes are rewritten
// unconditionally from their literal fragments and current values.
func (i *instanceContent) patch(next Content) error {
	ni := next.(*instanceContent)
	i.values = ni.values
	return i.apply(ni.values)
}

// apply pushes values through every wire.
func (i *instanceContent) apply(values []any) error {
	slot := 0
	for _, w := range i.tpl.wires {
		if w.Kind != WireNode {
			continue
		}
		if err := i.root.renderInto(i.slots[slot], KindElement, values[w.Index]); err != nil {
			return err
		}
		slot++
	}
	for _, b := range i.attrs {
		if err := b.apply(i.root, values); err != nil {
			return err
		}
	}
	for _, b := range i.tags {
		if err := b.apply(i.root, values); err != nil {
			return err
		}
	}
	return nil
}

func (i *instanceContent) release() {
	for _, s := range i.slots {
		s.fireUndos()
		if nc, ok := s.content.(nodeContent); ok {
			nc.release()
		}
	}
}

func (i *instanceContent) detach() {
	if i.begin != nil {
		dom.RemoveRange(i.begin, i.end)
	}
}

// attrBinding patches one attribute whose value interleaves literal
// fragments with interpolated values.
type attrBinding struct {
	node *html.Node
	wire Wire
}

// apply recomputes the full attribute string and rewrites it. There is
// no dirty-check: stale concatenations from a previous pass can never
// survive.
func (b *attrBinding) apply(r *Root, values []any) error {
	var sb strings.Builder
	sb.WriteString(b.wire.Head)
	for j, tail := range b.wire.Tails {
		s, _, err := resolveAttrString(r, values[b.wire.Index+j])
		if err != nil {
			return err
		}
		sb.WriteString(s)
		sb.WriteString(tail)
	}
	dom.SetAttr(b.node, b.wire.Name, sb.String())
	return nil
}

// tagBinding patches an element-level property bag hole.
type tagBinding struct {
	node    *html.Node
	wire    Wire
	applied map[string]struct{}
}

// apply sets the bag's attributes and removes any attribute this
// binding set on a previous pass that the bag no longer names.
func (b *tagBinding) apply(r *Root, values []any) error {
	props, err := resolveTagProps(r, values[b.wire.Index])
	if err != nil {
		return err
	}
	next := make(map[string]struct{}, len(props))
	for k, v := range props {
		dom.SetAttr(b.node, k, v)
		next[k] = struct{}{}
	}
	for k := range b.applied {
		if _, ok := next[k]; !ok {
			dom.RemoveAttr(b.node, k)
		}
	}
	b.applied = next
	return nil
}
