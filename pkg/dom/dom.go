package dom

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// NewText creates a detached text node.
func NewText(data string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: data}
}

// NewComment creates a detached comment node.
func NewComment(data string) *html.Node {
	return &html.Node{Type: html.CommentNode, Data: data}
}

// NewFragment creates an empty detached container node.
func NewFragment() *html.Node {
	return &html.Node{Type: html.DocumentNode}
}

// NewElement creates a detached element node for the given tag.
func NewElement(tag string) *html.Node {
	a := atom.Lookup([]byte(tag))
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: tag}
}

// Clone returns a deep copy of n. The copy is detached: it has no
// parent and no siblings, but carries copies of all descendants.
func Clone(n *html.Node) *html.Node {
	c := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
	}
	if len(n.Attr) > 0 {
		c.Attr = make([]html.Attribute, len(n.Attr))
		copy(c.Attr, n.Attr)
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		c.AppendChild(Clone(child))
	}
	return c
}

// Detach removes n from its parent, if it has one. Detaching an
// already-detached node is a no-op.
func Detach(n *html.Node) {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// InsertBefore inserts n into ref's parent immediately before ref.
// n is detached from any previous parent first.
func InsertBefore(n, ref *html.Node) {
	Detach(n)
	ref.Parent.InsertBefore(n, ref)
}

// Replace swaps old for n in old's parent. n is detached first.
func Replace(n, old *html.Node) {
	Detach(n)
	old.Parent.InsertBefore(n, old)
	old.Parent.RemoveChild(old)
}

// MoveRange moves the inclusive sibling run [first, last] so it sits
// immediately before ref. first and last must share a parent.
func MoveRange(first, last, ref *html.Node) {
	for {
		next := first.NextSibling
		InsertBefore(first, ref)
		if first == last {
			return
		}
		first = next
	}
}

// RemoveRange detaches the inclusive sibling run [first, last].
func RemoveRange(first, last *html.Node) {
	for {
		next := first.NextSibling
		Detach(first)
		if first == last {
			return
		}
		first = next
	}
}

// GetAttr returns the value of the named attribute and whether it is set.
func GetAttr(n *html.Node, name string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttr sets the named attribute, overwriting any existing value.
func SetAttr(n *html.Node, name, value string) {
	for i := range n.Attr {
		if n.Attr[i].Key == name {
			n.Attr[i].Val = value
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: name, Val: value})
}

// RemoveAttr deletes the named attribute if present.
func RemoveAttr(n *html.Node, name string) {
	for i := range n.Attr {
		if n.Attr[i].Key == name {
			n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
			return
		}
	}
}

// ParseFragment parses markup as it would appear inside an element with
// the given tag ("body", "table", "select", ...) and returns the parsed
// top-level nodes, detached from their parse parent.
func ParseFragment(markup, contextTag string) ([]*html.Node, error) {
	ctx := NewElement(contextTag)
	return html.ParseFragment(strings.NewReader(markup), ctx)
}
