/*
Package domdbg implements helpers to debug a DOM tree.

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package domdbg

import (
	"fmt"
	"strings"

	"github.com/npillmayer/stylish/dom"
	tp "github.com/xlab/treeprint"
)

// Dump returns a textual tree representation of a DOM subtree,
// starting at node n. Element nodes are shown with their attributes,
// text nodes with a shortened excerpt of their content. Intended for
// test failure output and interactive debugging.
func Dump(n *dom.Node) string {
	p := tp.New()
	dumpNode(p, n)
	return p.String()
}

func dumpNode(p tp.Tree, n *dom.Node) {
	if n == nil {
		return
	}
	label := nodeLabel(n)
	children := collect(n)
	if len(children) == 0 {
		p.AddNode(label)
		return
	}
	branch := p.AddBranch(label)
	for _, ch := range children {
		dumpNode(branch, ch)
	}
}

// collect gathers the children worth showing: elements and non-blank
// text nodes.
func collect(n *dom.Node) []*dom.Node {
	var children []*dom.Node
	for ch := n.FirstChild(); ch != nil; ch = ch.NextSibling() {
		if ch.TagName() != "" || strings.TrimSpace(ch.TextContent()) != "" {
			children = append(children, ch)
		}
	}
	return children
}

func nodeLabel(n *dom.Node) string {
	if tag := n.TagName(); tag != "" {
		attrs := ""
		h := n.HTMLNode()
		for _, a := range h.Attr {
			if a.Val == "" {
				attrs += fmt.Sprintf(" %s", a.Key)
			} else {
				attrs += fmt.Sprintf(" %s=%q", a.Key, a.Val)
			}
		}
		return "<" + tag + attrs + ">"
	}
	if n.NodeName() == "#document" {
		return "#document"
	}
	return shortText(n.TextContent())
}

func shortText(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 20 {
		s = s[:20] + "…"
	}
	return fmt.Sprintf("%q", s)
}
