/*
Package douceuradapter is a concrete implementation of interface cssom.StyleSheet.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package douceuradapter

import (
	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
	"github.com/npillmayer/stylish/cssom"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// CSSStyles is an adapter for interface cssom.StyleSheet.
// For an explanation of the motivation behind this design, please refer
// to documentation for interface cssom.StyleSheet.
type CSSStyles struct {
	css css.Stylesheet
}

// Parse parses CSS text and returns it wrapped as a cssom.StyleSheet.
func Parse(csstext string) (*CSSStyles, error) {
	sheet, err := parser.Parse(csstext)
	if err != nil {
		return nil, err
	}
	return Wrap(sheet), nil
}

// Wrap a douceur.css.Stylesheet into CSSStyles.
// The stylesheet is now managed by the wrapper.
func Wrap(css *css.Stylesheet) *CSSStyles {
	sheet := &CSSStyles{*css}
	return sheet
}

// Empty checks if this stylesheet contains any rules.
//
// Interface cssom.StyleSheet
func (sheet *CSSStyles) Empty() bool {
	return len(sheet.css.Rules) == 0
}

// AppendRules appends rules from another stylesheet. Clients may use
// it to merge stylesheets collected with ExtractStyleElements before
// walking them; the engine's own processing pass parses each <style>
// element separately and does not merge.
//
// Interface cssom.StyleSheet
func (sheet *CSSStyles) AppendRules(other cssom.StyleSheet) {
	othercss := other.(*CSSStyles)
	for _, r := range othercss.css.Rules { // append every rule from other
		sheet.css.Rules = append(sheet.css.Rules, r)
	}
}

// Rules returns all the top-level rules of a stylesheet.
//
// Interface cssom.StyleSheet
func (sheet *CSSStyles) Rules() []cssom.Rule {
	rules := make([]cssom.Rule, len(sheet.css.Rules))
	for i := range sheet.css.Rules {
		rules[i] = Rule{*sheet.css.Rules[i]}
	}
	return rules
}

var _ cssom.StyleSheet = &CSSStyles{}

// Rule is an adapter for interface cssom.Rule.
type Rule struct {
	rule css.Rule
}

// Selector returns the prelude / selectors of the rule.
func (r Rule) Selector() string {
	return r.rule.Prelude
}

// Properties returns the property keys of a rule,
// e.g. "content"
func (r Rule) Properties() []string {
	decl := r.rule.Declarations
	props := make([]string, 0, len(decl))
	for _, d := range decl {
		props = append(props, d.Property)
	}
	return props
}

// Value returns the property value for given key with this rule,
// e.g. "'stylish(…)'"
func (r Rule) Value(key string) cssom.Property {
	decl := r.rule.Declarations
	for _, d := range decl {
		if d.Property == key {
			return cssom.Property(d.Value)
		}
	}
	return cssom.NullProperty
}

// IsImportant returns true if a style key is marked as important ("!").
func (r Rule) IsImportant(key string) bool {
	decl := r.rule.Declarations
	for _, d := range decl {
		if d.Property == key {
			return d.Important
		}
	}
	return false
}

// Rules returns the nested rules of a grouping rule, e.g. the style
// rules inside a media query block. Plain style rules have none.
func (r Rule) Rules() []cssom.Rule {
	if len(r.rule.Rules) == 0 {
		return nil
	}
	rules := make([]cssom.Rule, len(r.rule.Rules))
	for i := range r.rule.Rules {
		rules[i] = Rule{*r.rule.Rules[i]}
	}
	return rules
}

var _ cssom.Rule = Rule{}

// DeclarationsRule wraps a bare declaration block, as found in an
// element's style attribute, as a cssom.Rule with an empty selector.
type DeclarationsRule struct {
	decls []*css.Declaration
}

// ParseInline parses the declarations of an inline style attribute,
// e.g. `content: 'stylish(…)'; color: red`.
func ParseInline(declarations string) (*DeclarationsRule, error) {
	decls, err := parser.ParseDeclarations(declarations)
	if err != nil {
		return nil, err
	}
	return &DeclarationsRule{decls: decls}, nil
}

// Selector returns the empty string: an inline declaration block has
// no selector, it applies to its owning element only.
func (r *DeclarationsRule) Selector() string { return "" }

// Properties returns the property keys of the declaration block.
func (r *DeclarationsRule) Properties() []string {
	props := make([]string, 0, len(r.decls))
	for _, d := range r.decls {
		props = append(props, d.Property)
	}
	return props
}

// Value returns the property value for given key.
func (r *DeclarationsRule) Value(key string) cssom.Property {
	for _, d := range r.decls {
		if d.Property == key {
			return cssom.Property(d.Value)
		}
	}
	return cssom.NullProperty
}

// IsImportant returns true if a style key is marked as important ("!").
func (r *DeclarationsRule) IsImportant(key string) bool {
	for _, d := range r.decls {
		if d.Property == key {
			return d.Important
		}
	}
	return false
}

// Rules returns nil: declaration blocks never carry nested rules.
func (r *DeclarationsRule) Rules() []cssom.Rule { return nil }

var _ cssom.Rule = &DeclarationsRule{}

// ExtractStyleElements visits <head> and <body> elements in an HTML parse
// tree and searches for embedded <style>s. It returns the content of
// style-elements as style sheets.
//
// This is a client-facing convenience for collecting stylesheets up
// front, outside the engine's processing pass: the pass itself only
// considers marker-bearing <style> elements and parses their content
// directly via Parse.
func ExtractStyleElements(htmldoc *html.Node) []*CSSStyles {
	head := findElement(atom.Head, htmldoc)
	body := findElement(atom.Body, htmldoc)
	css := extractStyles(head)
	css2 := extractStyles(body)
	css = append(css, css2...)
	return css
}

func extractStyles(h *html.Node) []*CSSStyles {
	var css []*CSSStyles
	if h == nil {
		return nil
	}
	ch := h.FirstChild
	for ch != nil {
		if ch.DataAtom == atom.Style && ch.FirstChild != nil {
			c, err := parser.Parse(ch.FirstChild.Data)
			if err != nil {
				break
			}
			css = append(css, Wrap(c))
		}
		ch = ch.NextSibling
	}
	return css
}

func findElement(a atom.Atom, h *html.Node) *html.Node {
	if h == nil {
		return nil
	}
	if h.DataAtom == a {
		return h
	}
	ch := h.FirstChild
	for ch != nil {
		r := findElement(a, ch)
		if r != nil && r.DataAtom == a {
			return r
		}
		ch = ch.NextSibling
	}
	return nil
}
