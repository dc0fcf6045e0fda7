package weft

import (
	"strconv"

	"golang.org/x/net/html"

	"github.com/vango-go/weft/pkg/dom"
)

// listContent reconciles an ordered sequence of child values. It owns a
// begin boundary marker that is never removed (it anchors the insertion
// cursor for an empty list), followed by one anchor-bounded entry per
// key.
type listContent struct {
	root    *Root
	pending []any

	marker  *html.Node
	keys    []string
	entries map[string]*listEntry
}

// listEntry is one reconciled list item: a persistent cell plus the
// entry's ordinal position from the pass that produced it.
type listEntry struct {
	cell *cell
	pos  int
}

// first returns the first node of the entry's owned run; the entry's
// own anchor when its content holds no nodes.
func (e *listEntry) first() *html.Node {
	if nc, ok := e.cell.content.(nodeContent); ok {
		if f := nc.firstNode(); f != nil {
			return f
		}
	}
	return e.cell.anchor
}

func (l *listContent) Kind() ContentKind { return ContentList }

func (l *listContent) compatibleWith(next Content) bool {
	return next.Kind() == ContentList
}

func (l *listContent) firstNode() *html.Node { return l.marker }

func (l *listContent) lastNode() *html.Node {
	if len(l.keys) == 0 {
		return l.marker
	}
	return l.entries[l.keys[len(l.keys)-1]].cell.anchor
}

func (l *listContent) mount(ref *html.Node) error {
	l.marker = dom.NewComment("")
	l.entries = make(map[string]*listEntry)
	dom.InsertBefore(l.marker, ref)
	return l.reconcile(l.pending)
}

func (l *listContent) patch(next Content) error {
	nl := next.(*listContent)
	l.pending = nl.pending
	return l.reconcile(nl.pending)
}

// reconcile runs one full pass: key derivation, matching, the forward
// minimal-move scan, and cleanup of unmatched entries.
func (l *listContent) reconcile(items []any) error {
	type slot struct {
		key     string
		value   any
		entry   *listEntry
		matched bool
		oldPos  int
	}

	// Derive keys and match against the previous pass. Unkeyed entries
	// take a positional key scoped to unkeyed siblings only. Repeated
	// explicit keys are disambiguated by occurrence, so each occurrence
	// owns its own entry and nothing leaks when items collide.
	slots := make([]slot, len(items))
	unkeyed := 0
	seen := make(map[string]int, len(items))
	taken := make(map[string]bool, len(items))
	for i, item := range items {
		key, value, isKeyed := deriveKey(item, unkeyed)
		if !isKeyed {
			unkeyed++
		}
		if n := seen[key]; n > 0 {
			seen[key] = n + 1
			key += "#" + strconv.Itoa(n)
		} else {
			seen[key] = 1
		}
		s := slot{key: key, value: value}
		if e, ok := l.entries[key]; ok && !taken[key] {
			taken[key] = true
			s.entry = e
			s.matched = true
			s.oldPos = e.pos
		}
		slots[i] = s
	}

	// Re-render matched entries in place first. Compatibility decides
	// patch-vs-replace inside the entry's own cell; position is not
	// touched here.
	for i := range slots {
		if !slots[i].matched {
			continue
		}
		if err := l.root.renderInto(slots[i].entry.cell, KindElement, slots[i].value); err != nil {
			return err
		}
		recordListReuse()
	}

	// Single forward scan. An entry whose old ordinal exceeds the
	// high-water mark is already correctly ordered relative to what
	// came before it; everything else moves or inserts at the cursor.
	cursor := l.marker.NextSibling
	hwm := -1
	for i := range slots {
		s := &slots[i]
		if s.matched && s.oldPos > hwm {
			hwm = s.oldPos
			cursor = s.entry.cell.anchor.NextSibling
			continue
		}
		if s.matched {
			dom.MoveRange(s.entry.first(), s.entry.cell.anchor, cursor)
			recordListMove()
			continue
		}
		anchor := dom.NewComment("")
		dom.InsertBefore(anchor, cursor)
		s.entry = &listEntry{cell: &cell{root: l.root, parent: l, anchor: anchor}}
		if err := l.root.renderInto(s.entry.cell, KindElement, s.value); err != nil {
			return err
		}
	}

	// Remove entries the new key set never matched.
	for key, e := range l.entries {
		if !taken[key] {
			e.cell.discard()
			dom.Detach(e.cell.anchor)
		}
	}

	// Record the new order.
	l.keys = l.keys[:0]
	next := make(map[string]*listEntry, len(slots))
	for i := range slots {
		s := &slots[i]
		s.entry.pos = i
		l.keys = append(l.keys, s.key)
		next[s.key] = s.entry
	}
	l.entries = next
	return nil
}

func (l *listContent) release() {
	for _, key := range l.keys {
		e := l.entries[key]
		e.cell.fireUndos()
		if nc, ok := e.cell.content.(nodeContent); ok {
			nc.release()
		}
	}
}

func (l *listContent) detach() {
	if l.marker == nil {
		return
	}
	dom.RemoveRange(l.marker, l.lastNode())
}
