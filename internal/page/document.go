package page

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Document wraps a parsed host page. The node tree is owned by a single
// engine at a time; nothing here is safe for concurrent mutation.
type Document struct {
	root *html.Node
}

// Parse reads an HTML document. Parsing is tolerant: x/net/html never fails
// on malformed markup, only on reader errors.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing page: %w", err)
	}
	return &Document{root: root}, nil
}

// ParseString parses an in-memory document, for tests and fixtures.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// Render serializes the document back to HTML.
func (d *Document) Render(w io.Writer) error {
	if err := html.Render(w, d.root); err != nil {
		return fmt.Errorf("rendering page: %w", err)
	}
	return nil
}

// Root returns the document root node.
func (d *Document) Root() *html.Node {
	return d.root
}

// Match is a predicate over a single element node. Selector lists are built
// from these so new host templates mean a new entry, not new control flow.
type Match func(n *html.Node) bool

// ByTag matches elements with the given tag name.
func ByTag(tag string) Match {
	return func(n *html.Node) bool { return n.Data == tag }
}

// ByClass matches elements carrying every listed class.
func ByClass(classes ...string) Match {
	return func(n *html.Node) bool {
		for _, c := range classes {
			if !HasClass(n, c) {
				return false
			}
		}
		return true
	}
}

// ByID matches the element with the given id attribute.
func ByID(id string) Match {
	return func(n *html.Node) bool { return Attr(n, "id") == id }
}

// ByAttrContains matches elements whose attribute value contains substr.
func ByAttrContains(name, substr string) Match {
	return func(n *html.Node) bool { return strings.Contains(Attr(n, name), substr) }
}

// All combines matchers conjunctively.
func All(ms ...Match) Match {
	return func(n *html.Node) bool {
		for _, m := range ms {
			if !m(n) {
				return false
			}
		}
		return true
	}
}

// Any combines matchers disjunctively.
func Any(ms ...Match) Match {
	return func(n *html.Node) bool {
		for _, m := range ms {
			if m(n) {
				return true
			}
		}
		return false
	}
}

// HasAncestor matches elements with some ancestor satisfying m.
func HasAncestor(m Match) Match {
	return func(n *html.Node) bool {
		for p := n.Parent; p != nil; p = p.Parent {
			if p.Type == html.ElementNode && m(p) {
				return true
			}
		}
		return false
	}
}

// ChildOf matches elements whose direct parent satisfies m.
func ChildOf(m Match) Match {
	return func(n *html.Node) bool {
		return n.Parent != nil && n.Parent.Type == html.ElementNode && m(n.Parent)
	}
}

// FindAll returns every element under root (inclusive) satisfying m, in
// document order.
func FindAll(root *html.Node, m Match) []*html.Node {
	var out []*html.Node
	var traverse func(n *html.Node)
	traverse = func(n *html.Node) {
		if n.Type == html.ElementNode && m(n) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
		}
	}
	if root != nil {
		traverse(root)
	}
	return out
}

// FindFirst returns the first element under root satisfying m, or nil.
func FindFirst(root *html.Node, m Match) *html.Node {
	var found *html.Node
	var traverse func(n *html.Node) bool
	traverse = func(n *html.Node) bool {
		if n.Type == html.ElementNode && m(n) {
			found = n
			return true
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if traverse(c) {
				return true
			}
		}
		return false
	}
	if root != nil {
		traverse(root)
	}
	return found
}

// Closest walks up from n (inclusive) to the first element satisfying m.
func Closest(n *html.Node, m Match) *html.Node {
	for p := n; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && m(p) {
			return p
		}
	}
	return nil
}

// Children returns n's element children.
func Children(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, c)
		}
	}
	return out
}

// Text returns the concatenated text content of n, trimmed.
func Text(n *html.Node) string {
	var b strings.Builder
	var traverse func(n *html.Node)
	traverse = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
		}
	}
	if n != nil {
		traverse(n)
	}
	return strings.TrimSpace(b.String())
}

// FirstLine returns the first non-empty line of s, trimmed.
func FirstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
