package stylish

import (
	"fmt"

	"github.com/npillmayer/stylish/dom"
)

// Args is a decoded marker expression: an arbitrary-shape JSON mapping
// whose top-level keys are interpreted structurally by triggers.
type Args map[string]interface{}

// Source identifies the style provider a dispatch originated from:
// either a selector-bearing CSS rule or an element with an inline
// style. It is threaded through trigger invocations for error context.
type Source struct {
	Selector string    // set for CSS rules
	Node     *dom.Node // set for inline styles
}

func (src Source) String() string {
	if src.Node != nil {
		return src.Node.String()
	}
	return src.Selector
}

// Trigger interprets decoded expression arguments for a set of
// affected nodes. A trigger may act immediately, or install listeners
// that later call back into the engine's handler registry using the
// trigger itself as identity key. Triggers not recognizing the shape
// of args must return nil without acting.
//
// Triggers are registered and compared by identity; implement Trigger
// on a pointer type, or wrap a plain function with TriggerOf.
type Trigger interface {
	Apply(e *Engine, nodes []*dom.Node, args Args, src Source, payload interface{}) error
}

// TriggerFunc is the signature of a plain trigger function.
type TriggerFunc func(e *Engine, nodes []*dom.Node, args Args, src Source, payload interface{}) error

// TriggerOf wraps a plain function as a Trigger. Each call returns a
// distinct identity, even for the same function.
func TriggerOf(f TriggerFunc) Trigger {
	return &funcTrigger{f: f}
}

type funcTrigger struct {
	f TriggerFunc
}

func (t *funcTrigger) Apply(e *Engine, nodes []*dom.Node, args Args, src Source, payload interface{}) error {
	return t.f(e, nodes, args, src, payload)
}

// Handler is a user-registered callback, invoked by a trigger when
// that trigger determines an event of interest occurred. Like
// triggers, handlers are compared by identity; wrap plain functions
// with HandlerOf.
type Handler interface {
	Handle(nodes []*dom.Node, payload interface{})
}

// HandlerFunc is the signature of a plain handler function.
type HandlerFunc func(nodes []*dom.Node, payload interface{})

// HandlerOf wraps a plain function as a Handler. Each call returns a
// distinct identity, even for the same function.
func HandlerOf(f HandlerFunc) Handler {
	return &funcHandler{f: f}
}

type funcHandler struct {
	f HandlerFunc
}

func (h *funcHandler) Handle(nodes []*dom.Node, payload interface{}) {
	h.f(nodes, payload)
}

type handlerEntry struct {
	trigger Trigger
	handler Handler
}

// Loader resolves the href of a <link rel="stylesheet"> element to CSS
// text. Engines without a loader skip link elements.
type Loader func(href string) (string, error)

// Engine is the facade clients instantiate. It owns an ordered list of
// triggers and an ordered list of handler registrations, and processes
// one document.
type Engine struct {
	doc      *dom.Document
	triggers []Trigger
	handlers []handlerEntry
	on       *onTrigger
	data     *dataTrigger
	sink     func(error)
	loader   Loader
}

// Option configures an Engine during construction.
type Option func(*Engine)

// WithErrorSink reroutes per-provider processing errors to fn instead
// of returning them from Process. The engine never drops an error
// silently: every error reaches either the sink or the caller, and the
// tracer in any case.
func WithErrorSink(fn func(error)) Option {
	return func(e *Engine) { e.sink = fn }
}

// WithLoader configures a loader for <link rel="stylesheet"> elements.
func WithLoader(l Loader) Option {
	return func(e *Engine) { e.loader = l }
}

// NewEngine creates an engine for a document and registers the
// built-in triggers "on" and "data".
func NewEngine(doc *dom.Document, opts ...Option) *Engine {
	e := &Engine{doc: doc}
	e.on = newOnTrigger()
	e.data = &dataTrigger{}
	e.triggers = []Trigger{e.on, e.data}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Document returns the document the engine processes.
func (e *Engine) Document() *dom.Document {
	return e.doc
}

// On returns the identity of the engine's built-in event trigger, for
// use with AddHandler and RemoveHandler.
func (e *Engine) On() Trigger {
	return e.on
}

// Data returns the identity of the engine's built-in data trigger, for
// use with AddHandler and RemoveHandler.
func (e *Engine) Data() Trigger {
	return e.data
}

// AddTrigger appends a trigger to the engine's ordered trigger list.
// Duplicates are permitted and invoked once per registration.
func (e *Engine) AddTrigger(t Trigger) *Engine {
	e.triggers = append(e.triggers, t)
	return e
}

// RemoveTrigger removes the first registration of t, compared by
// identity. Handlers registered against t stay registered; they simply
// never fire again unless t is re-added.
func (e *Engine) RemoveTrigger(t Trigger) *Engine {
	for i, reg := range e.triggers {
		if reg == t {
			e.triggers = append(e.triggers[:i], e.triggers[i+1:]...)
			break
		}
	}
	return e
}

// AddHandler registers a handler against a trigger identity.
// Duplicates are permitted and all are kept.
func (e *Engine) AddHandler(t Trigger, h Handler) *Engine {
	e.handlers = append(e.handlers, handlerEntry{trigger: t, handler: h})
	return e
}

// RemoveHandler removes all registrations matching both t and h by
// identity.
func (e *Engine) RemoveHandler(t Trigger, h Handler) *Engine {
	kept := e.handlers[:0]
	for _, reg := range e.handlers {
		if reg.trigger == t && reg.handler == h {
			continue
		}
		kept = append(kept, reg)
	}
	e.handlers = kept
	return e
}

// DispatchToHandlers invokes, in registration order, every handler
// registered under trigger identity t, passing nodes and payload.
// Unmatched identities produce zero invocations. Handlers are leaf
// callbacks: a panicking handler propagates to the caller of the
// firing trigger, aborting the remaining handlers for this dispatch.
func (e *Engine) DispatchToHandlers(nodes []*dom.Node, payload interface{}, t Trigger) {
	for _, reg := range e.handlers {
		if reg.trigger == t {
			reg.handler.Handle(nodes, payload)
		}
	}
}

// Dispatch invokes every registered trigger, in registration order,
// with the affected nodes, the decoded arguments and the originating
// style provider. exclude names one trigger to skip, preventing a
// trigger from re-processing its own re-entrant dispatch; pass nil to
// invoke all. The first failing trigger aborts the remaining triggers
// and is returned wrapped as a *TriggerError.
func (e *Engine) Dispatch(nodes []*dom.Node, args Args, src Source, payload interface{}, exclude Trigger) error {
	for _, t := range e.triggers {
		if exclude != nil && t == exclude {
			continue
		}
		if err := applyTrigger(t, e, nodes, args, src, payload); err != nil {
			return &TriggerError{Where: src.String(), Err: err}
		}
	}
	return nil
}

// applyTrigger isolates one trigger invocation, converting a panic
// into an error.
func applyTrigger(t Trigger, e *Engine, nodes []*dom.Node, args Args, src Source, payload interface{}) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("trigger panicked: %v", r)
		}
	}()
	return t.Apply(e, nodes, args, src, payload)
}
