package weft

import (
	"time"

	"golang.org/x/net/html"

	"github.com/vango-go/weft/internal/errors"
	"github.com/vango-go/weft/pkg/dom"
)

// Root is a live mount point: content rendered through it is spliced
// into the target node and reconciled on every Render call.
type Root struct {
	node *html.Node
	cell *cell
}

// Target wraps a host node as a render mount. The node must be able to
// hold children (element, document, or fragment).
func Target(node *html.Node) (*Root, error) {
	switch node.Type {
	case html.ElementNode, html.DocumentNode:
	default:
		return nil, errors.New("E203").
			WithDetailf("got node type %d", node.Type)
	}
	return &Root{node: node}, nil
}

// Node returns the host node this root renders into.
func (r *Root) Node() *html.Node {
	return r.node
}

// Render resolves value to content and reconciles it against whatever
// the previous Render left mounted. Identity is preserved wherever the
// new content is compatible with the old.
func (r *Root) Render(value any) error {
	if r.cell == nil {
		// The mount anchor outlives every render; content lives
		// immediately before it.
		anchor := dom.NewComment("")
		r.node.AppendChild(anchor)
		r.cell = &cell{root: r, anchor: anchor}
	}
	start := time.Now()
	err := r.renderInto(r.cell, KindElement, value)
	recordRender(time.Since(start), err)
	return err
}

// Clear discards the mounted content, firing undo hooks, and removes
// its nodes. The mount anchor stays, so Render can be called again.
func (r *Root) Clear() {
	if r.cell == nil {
		return
	}
	r.cell.discard()
}

// cell is the persistent half of the nested rendering protocol: an
// anchor comment that stays in the tree, the content currently mounted
// immediately before it, and that content's undo hooks.
type cell struct {
	root    *Root
	parent  Content
	anchor  *html.Node
	content Content
	undos   []func()
}

// renderInto runs one render call against a cell.
func (r *Root) renderInto(c *cell, kind Kind, value any) error {
	p := &place{
		root:   r,
		kind:   kind,
		parent: c.parent,
		prior:  func() Content { return c.content },
	}
	p.update = func(next Content) error {
		return c.commit(p, next)
	}
	return renderAt(p, value)
}

// renderAt is the resolution loop of spec'd renders: convert the value
// to an Action, evaluate it inside the place, and repeat until terminal
// Content emerges, then hand it to the place's update callback.
func renderAt(p *place, value any) error {
	for {
		if err, ok := value.(error); ok {
			return err
		}
		if content, ok := value.(Content); ok {
			return p.update(content)
		}
		act, err := toAction(p.kind, value)
		if err != nil {
			return err
		}
		h := &Handle{place: p, value: value}
		value = invoke(p, h, act)
	}
}

// commit is the sole authority for identity decisions: it patches the
// prior content in place when the candidate is compatible, and
// otherwise fires undo hooks, detaches the prior node run, and mounts
// the candidate before the anchor.
func (c *cell) commit(p *place, next Content) error {
	prev := c.content
	if prev != nil && prev.compatibleWith(next) {
		if nc, ok := prev.(nodeContent); ok {
			if err := nc.patch(next); err != nil {
				return err
			}
		}
		c.undos = append(c.undos, p.pendingUndos...)
		p.pendingUndos = nil
		return nil
	}

	c.fireUndos()
	if prev != nil {
		if nc, ok := prev.(nodeContent); ok {
			nc.release()
			nc.detach()
		}
		recordReplace()
	}
	c.content = next
	// Transfer ownership of the hooks. The place may be re-entered by
	// Handle.Repeat; hooks left behind would be attached twice.
	c.undos = p.pendingUndos
	p.pendingUndos = nil
	if nc, ok := next.(nodeContent); ok {
		return nc.mount(c.anchor)
	}
	return nil
}

// fireUndos runs each registered undo hook exactly once.
func (c *cell) fireUndos() {
	hooks := c.undos
	c.undos = nil
	for _, fn := range hooks {
		fn()
	}
}

// discard tears the cell's content down completely: undo hooks first,
// then nested releases, then node removal. The anchor survives.
func (c *cell) discard() {
	c.fireUndos()
	if nc, ok := c.content.(nodeContent); ok {
		nc.release()
		nc.detach()
	}
	c.content = nil
}

// resolveAttrString resolves one value at attribute placement down to
// its string form. present is false when the value resolved to Empty.
func resolveAttrString(r *Root, value any) (s string, present bool, err error) {
	p := &place{root: r, kind: KindAttribute}
	p.prior = func() Content { return nil }
	p.update = func(next Content) error {
		switch nc := next.(type) {
		case *attrText:
			s, present = nc.value, true
			return nil
		case emptyContent:
			return nil
		default:
			return errors.New("E201").
				WithDetailf("attribute placement resolved to %s content", next.Kind())
		}
	}
	err = renderAt(p, value)
	return s, present, err
}

// resolveTagProps resolves one value at tag placement down to its
// property bag. A nil map means the value resolved to Empty.
func resolveTagProps(r *Root, value any) (map[string]string, error) {
	var props map[string]string
	p := &place{root: r, kind: KindTag}
	p.prior = func() Content { return nil }
	p.update = func(next Content) error {
		switch nc := next.(type) {
		case *tagProps:
			props = nc.props
			return nil
		case emptyContent:
			return nil
		default:
			return errors.New("E201").
				WithDetailf("tag placement resolved to %s content", next.Kind())
		}
	}
	err := renderAt(p, value)
	return props, err
}
