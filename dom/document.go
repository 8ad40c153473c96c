package dom

import (
	"io"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// Document wraps the root of an HTML parse tree and hands out stable
// node wrappers for it.
type Document struct {
	root  *html.Node
	nodes map[*html.Node]*Node
}

// FromReader parses HTML from a reader and wraps it as a Document.
func FromReader(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	return FromHTMLNode(root), nil
}

// FromHTML parses an HTML string and wraps it as a Document.
func FromHTML(src string) (*Document, error) {
	return FromReader(strings.NewReader(src))
}

// FromHTMLNode wraps an already parsed HTML tree as a Document.
func FromHTMLNode(root *html.Node) *Document {
	return &Document{
		root:  root,
		nodes: make(map[*html.Node]*Node),
	}
}

// Root returns the wrapper for the root of the parse tree.
func (d *Document) Root() *Node {
	return d.node(d.root)
}

// HTMLNode returns the underlying root HTML node.
func (d *Document) HTMLNode() *html.Node {
	return d.root
}

// node returns the wrapper for h, creating it on first use.
func (d *Document) node(h *html.Node) *Node {
	if h == nil {
		return nil
	}
	if n, ok := d.nodes[h]; ok {
		return n
	}
	n := &Node{doc: d, h: h}
	d.nodes[h] = n
	return n
}

// QuerySelectorAll returns all elements matching a CSS selector, in
// document order.
func (d *Document) QuerySelectorAll(selector string) ([]*Node, error) {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil, err
	}
	matches := sel.MatchAll(d.root)
	nodes := make([]*Node, 0, len(matches))
	for _, m := range matches {
		nodes = append(nodes, d.node(m))
	}
	tracer().Debugf("query %q matched %d node(s)", selector, len(nodes))
	return nodes, nil
}

// QuerySelector returns the first element matching a CSS selector, or
// nil if nothing matches.
func (d *Document) QuerySelector(selector string) (*Node, error) {
	nodes, err := d.QuerySelectorAll(selector)
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, nil
	}
	return nodes[0], nil
}
