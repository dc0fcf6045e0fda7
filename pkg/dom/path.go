package dom

import "golang.org/x/net/html"

// Path addresses a descendant of a root node by child indexes, one hop
// per element. An empty Path addresses the root itself.
type Path []int

// PathOf computes the Path of n relative to root. n must be root or a
// descendant of root; otherwise the second return is false.
func PathOf(root, n *html.Node) (Path, bool) {
	var rev []int
	for n != root {
		parent := n.Parent
		if parent == nil {
			return nil, false
		}
		idx := 0
		for sib := parent.FirstChild; sib != n; sib = sib.NextSibling {
			idx++
		}
		rev = append(rev, idx)
		n = parent
	}
	path := make(Path, len(rev))
	for i, idx := range rev {
		path[len(rev)-1-i] = idx
	}
	return path, true
}

// Query resolves a Path against root, returning nil if any hop is out
// of range.
func Query(root *html.Node, path Path) *html.Node {
	n := root
	for _, idx := range path {
		child := n.FirstChild
		for i := 0; i < idx && child != nil; i++ {
			child = child.NextSibling
		}
		if child == nil {
			return nil
		}
		n = child
	}
	return n
}
