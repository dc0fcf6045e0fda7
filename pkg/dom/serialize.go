package dom

import (
	"strings"

	"golang.org/x/net/html"
)

// OuterHTML serializes n, including n itself.
func OuterHTML(n *html.Node) string {
	var b strings.Builder
	// html.Render only fails on writer errors; strings.Builder never errors.
	_ = html.Render(&b, n)
	return b.String()
}

// InnerHTML serializes the children of n, in order.
func InnerHTML(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		_ = html.Render(&b, c)
	}
	return b.String()
}

// TextContent returns the concatenated text of n and its descendants,
// skipping comments.
func TextContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
