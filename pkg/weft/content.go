package weft

import (
	"golang.org/x/net/html"

	"github.com/vango-go/weft/pkg/dom"
)

// ContentKind is the content variant discriminator.
type ContentKind uint8

const (
	ContentEmpty    ContentKind = iota // Nothing rendered
	ContentText                        // Single text node
	ContentInstance                    // Template instance
	ContentList                        // Reconciled ordered list
	ContentAttrText                    // Attribute value string (owns no nodes)
	ContentTagProps                    // Element property bag (owns no nodes)
)

// String returns the string representation of the ContentKind.
func (k ContentKind) String() string {
	switch k {
	case ContentEmpty:
		return "Empty"
	case ContentText:
		return "Text"
	case ContentInstance:
		return "Instance"
	case ContentList:
		return "List"
	case ContentAttrText:
		return "AttrText"
	case ContentTagProps:
		return "TagProps"
	default:
		return "Unknown"
	}
}

// Content is the terminal result of a completed render: the unit across
// which node identity is preserved or discarded. Every node-owning
// variant controls a contiguous, marker-bounded run of host nodes;
// ownership is exclusive.
type Content interface {
	Kind() ContentKind

	// compatibleWith reports whether next (a freshly produced candidate
	// of any variant) can patch this content in place.
	compatibleWith(next Content) bool
}

// nodeContent is implemented by variants that own a run of host nodes.
type nodeContent interface {
	Content

	// firstNode and lastNode bound the owned run; nil when the content
	// currently owns no nodes.
	firstNode() *html.Node
	lastNode() *html.Node

	// mount materializes the content's nodes immediately before ref.
	mount(ref *html.Node) error

	// patch absorbs a compatible candidate in place. The receiver stays
	// the live Content object; the candidate is discarded.
	patch(next Content) error

	// release fires undo hooks of nested cells, deepest first, without
	// touching the tree.
	release()

	// detach removes the owned node run from the tree.
	detach()
}

// Empty is the Content of a render that produced nothing. It owns no
// nodes; committing it over node-owning content removes those nodes.
var Empty Content = emptyContent{}

type emptyContent struct{}

func (emptyContent) Kind() ContentKind { return ContentEmpty }

func (emptyContent) compatibleWith(next Content) bool {
	return next.Kind() == ContentEmpty
}

func (emptyContent) firstNode() *html.Node  { return nil }
func (emptyContent) lastNode() *html.Node   { return nil }
func (emptyContent) mount(*html.Node) error { return nil }
func (emptyContent) patch(Content) error    { return nil }
func (emptyContent) release()               {}
func (emptyContent) detach()                {}

// textContent owns a single text node.
type textContent struct {
	text string
	node *html.Node
}

func (t *textContent) Kind() ContentKind { return ContentText }

func (t *textContent) compatibleWith(next Content) bool {
	return next.Kind() == ContentText
}

func (t *textContent) firstNode() *html.Node { return t.node }
func (t *textContent) lastNode() *html.Node  { return t.node }

func (t *textContent) mount(ref *html.Node) error {
	t.node = dom.NewText(t.text)
	dom.InsertBefore(t.node, ref)
	return nil
}

func (t *textContent) patch(next Content) error {
	nt := next.(*textContent)
	if nt.text != t.text {
		t.text = nt.text
		t.node.Data = nt.text
	}
	return nil
}

func (t *textContent) release() {}

func (t *textContent) detach() {
	dom.Detach(t.node)
}

// attrText is the resolved form of a value at attribute placement. It
// owns no host nodes; the owning attribute wire concatenates it into
// the attribute string.
type attrText struct {
	value string
}

func (a *attrText) Kind() ContentKind { return ContentAttrText }

func (a *attrText) compatibleWith(next Content) bool {
	return next.Kind() == ContentAttrText
}

// tagProps is the resolved form of a value at tag placement: a bag of
// attributes applied to the wired element. It owns no host nodes.
type tagProps struct {
	props map[string]string
}

func (p *tagProps) Kind() ContentKind { return ContentTagProps }

func (p *tagProps) compatibleWith(next Content) bool {
	return next.Kind() == ContentTagProps
}
