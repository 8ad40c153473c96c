package stylish

import (
	"encoding/json"
	"fmt"

	"github.com/npillmayer/stylish/cssom"
	"github.com/npillmayer/stylish/cssom/douceuradapter"
	"github.com/npillmayer/stylish/dom"
	"go.uber.org/multierr"
)

// Process runs one synchronous processing pass over the document. It
// finds all elements carrying the marker attribute; <style> elements
// have their stylesheet walked recursively, <link rel="stylesheet">
// elements are resolved through the configured loader, and any other
// element is processed for an expression in its inline style.
//
// Failures are recovered at the granularity of one style provider: a
// malformed expression or failing trigger on one rule or element does
// not prevent processing of the next one. Per-provider errors are
// returned combined, or routed to the error sink if one is configured
// (Process then returns nil for them).
func (e *Engine) Process() error {
	nodes, err := e.doc.QuerySelectorAll("[" + Marker + "]")
	if err != nil {
		return err // cannot happen with the constant marker selector
	}
	tracer().Debugf("processing %d marker-bearing node(s)", len(nodes))
	var errs error
	for _, n := range nodes {
		switch n.TagName() {
		case "style":
			errs = multierr.Append(errs, e.processStyleElement(n))
		case "link":
			errs = multierr.Append(errs, e.processLinkElement(n))
		default:
			errs = multierr.Append(errs, e.fail(e.processInline(n)))
		}
	}
	return errs
}

// processStyleElement parses the text content of a <style> element and
// walks the resulting rule tree.
func (e *Engine) processStyleElement(n *dom.Node) error {
	sheet, err := douceuradapter.Parse(n.TextContent())
	if err != nil {
		return e.fail(fmt.Errorf("cannot parse <style> content: %w", err))
	}
	return e.walkRules(sheet.Rules())
}

// processLinkElement resolves a <link rel="stylesheet"> element through
// the engine's loader and walks the resulting rule tree. Without a
// loader the element is skipped.
func (e *Engine) processLinkElement(n *dom.Node) error {
	if rel, _ := n.Attribute("rel"); rel != "stylesheet" {
		return nil
	}
	href, ok := n.Attribute("href")
	if !ok || href == "" {
		return nil
	}
	if e.loader == nil {
		tracer().Infof("no loader configured, skipping stylesheet link %q", href)
		return nil
	}
	csstext, err := e.loader(href)
	if err != nil {
		return e.fail(fmt.Errorf("cannot load stylesheet %q: %w", href, err))
	}
	sheet, err := douceuradapter.Parse(csstext)
	if err != nil {
		return e.fail(fmt.Errorf("cannot parse stylesheet %q: %w", href, err))
	}
	return e.walkRules(sheet.Rules())
}

// walkRules visits every rule of a rule tree exactly once, in
// pre-order: a grouping rule (e.g. a media query block) is processed
// before its nested rules. Each visited rule is one style provider;
// its failure is recorded and does not stop the walk.
func (e *Engine) walkRules(rules []cssom.Rule) error {
	var errs error
	for _, r := range rules {
		errs = multierr.Append(errs, e.fail(e.handleRule(r)))
		errs = multierr.Append(errs, e.walkRules(r.Rules()))
	}
	return errs
}

// handleRule processes one selector-bearing CSS rule: extract the
// marker expression from its content property, decode it, resolve the
// affected nodes from the rule's selector, and dispatch to the
// triggers. Rules without a marker expression are inert.
func (e *Engine) handleRule(r cssom.Rule) error {
	raw := ExtractExpression(r.Value("content").String())
	if raw == "" {
		return nil
	}
	var args Args
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return &MalformedExpressionError{Where: r.Selector(), Err: err}
	}
	nodes, err := e.doc.QuerySelectorAll(r.Selector())
	if err != nil {
		return &MalformedExpressionError{Where: r.Selector(), Err: err}
	}
	return e.Dispatch(nodes, args, Source{Selector: r.Selector()}, nil, nil)
}

// processInline processes one element's own inline style: the affected
// node set is the element itself. Elements without a style attribute,
// or without a marker expression in it, are inert.
func (e *Engine) processInline(n *dom.Node) error {
	styleAttr, ok := n.Attribute("style")
	if !ok || styleAttr == "" {
		return nil
	}
	where := n.String()
	rule, err := douceuradapter.ParseInline(styleAttr)
	if err != nil {
		return &MalformedExpressionError{Where: where, Err: err}
	}
	raw := ExtractExpression(rule.Value("content").String())
	if raw == "" {
		return nil
	}
	var args Args
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return &MalformedExpressionError{Where: where, Err: err}
	}
	return e.Dispatch([]*dom.Node{n}, args, Source{Node: n}, nil, nil)
}

// fail routes a per-provider error to its sink: the tracer always, and
// then either the configured error sink (err is consumed, fail returns
// nil) or the caller.
func (e *Engine) fail(err error) error {
	if err == nil {
		return nil
	}
	tracer().Errorf("%v", err)
	if e.sink != nil {
		e.sink(err)
		return nil
	}
	return err
}
