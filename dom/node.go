package dom

import (
	"strings"

	"golang.org/x/net/html"
)

// Node is a stable wrapper around one HTML parse tree node. Nodes are
// handed out by a Document and memoized there; comparing two *Node
// pointers is equivalent to comparing the underlying HTML nodes.
type Node struct {
	doc       *Document
	h         *html.Node
	listeners map[string][]*ListenerHandle
}

// Document returns the document this node belongs to.
func (n *Node) Document() *Document {
	return n.doc
}

// HTMLNode returns the underlying HTML parse tree node.
func (n *Node) HTMLNode() *html.Node {
	return n.h
}

// NodeName follows W3C conventions: the tag name for element nodes,
// "#text" for text nodes, "#document" for the document node.
func (n *Node) NodeName() string {
	switch n.h.Type {
	case html.ElementNode:
		return n.h.Data
	case html.TextNode:
		return "#text"
	case html.DocumentNode:
		return "#document"
	}
	return ""
}

// TagName returns the element's tag name, or the empty string for
// non-element nodes.
func (n *Node) TagName() string {
	if n.h.Type != html.ElementNode {
		return ""
	}
	return n.h.Data
}

// ParentNode returns the node's parent, or nil for the root.
func (n *Node) ParentNode() *Node {
	if n.h.Parent == nil {
		return nil
	}
	return n.doc.node(n.h.Parent)
}

// FirstChild returns the node's first child, or nil.
func (n *Node) FirstChild() *Node {
	return n.doc.node(n.h.FirstChild)
}

// NextSibling returns the node's next sibling, or nil.
func (n *Node) NextSibling() *Node {
	return n.doc.node(n.h.NextSibling)
}

// Children returns the node's element children.
func (n *Node) Children() []*Node {
	var children []*Node
	for ch := n.h.FirstChild; ch != nil; ch = ch.NextSibling {
		if ch.Type == html.ElementNode {
			children = append(children, n.doc.node(ch))
		}
	}
	return children
}

// Attribute returns the value of an attribute and whether it is present.
func (n *Node) Attribute(key string) (string, bool) {
	for _, a := range n.h.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// HasAttribute checks for the presence of an attribute, boolean
// attributes included.
func (n *Node) HasAttribute(key string) bool {
	_, ok := n.Attribute(key)
	return ok
}

// SetAttribute sets an attribute, overwriting a present value.
func (n *Node) SetAttribute(key, value string) {
	for i, a := range n.h.Attr {
		if a.Key == key {
			n.h.Attr[i].Val = value
			return
		}
	}
	n.h.Attr = append(n.h.Attr, html.Attribute{Key: key, Val: value})
}

// SetDataset sets a data attribute: SetDataset("x", "1") results in
// an attribute data-x="1". Keys are used verbatim.
func (n *Node) SetDataset(key, value string) {
	n.SetAttribute("data-"+key, value)
}

// Dataset returns the value of a data attribute and whether it is present.
func (n *Node) Dataset(key string) (string, bool) {
	return n.Attribute("data-" + key)
}

// TextContent returns the concatenated text of the node and all its
// descendants.
func (n *Node) TextContent() string {
	var sb strings.Builder
	collectText(n.h, &sb)
	return sb.String()
}

func collectText(h *html.Node, sb *strings.Builder) {
	if h.Type == html.TextNode {
		sb.WriteString(h.Data)
		return
	}
	for ch := h.FirstChild; ch != nil; ch = ch.NextSibling {
		collectText(ch, sb)
	}
}

func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	if n.h.Type == html.ElementNode {
		return "<" + n.h.Data + ">"
	}
	return n.NodeName()
}
