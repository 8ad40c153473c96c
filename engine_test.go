package stylish

import (
	"errors"
	"fmt"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/stylish/dom"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func buildDoc(t *testing.T, src string) *dom.Document {
	doc, err := dom.FromHTML(src)
	if err != nil {
		t.Fatalf("cannot parse test document: %v", err)
	}
	return doc
}

const pageWithInlineData = `<html><body>
<div id="a" stylish style="content: 'stylish({&quot;data&quot;:{&quot;x&quot;:&quot;1&quot;}})'"></div>
</body></html>`

func TestProcessInlineData(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "stylish.engine")
	defer teardown()
	//
	doc := buildDoc(t, pageWithInlineData)
	engine := NewEngine(doc)
	fired := 0
	var got DataPayload
	engine.AddHandler(engine.Data(), HandlerOf(func(nodes []*dom.Node, payload interface{}) {
		fired++
		got = payload.(DataPayload)
	}))
	if err := engine.Process(); err != nil {
		t.Fatalf("expected processing to succeed, got %v", err)
	}
	a, _ := doc.QuerySelector("#a")
	if v, ok := a.Dataset("x"); !ok || v != "1" {
		t.Logf("data-x = %q (present: %v)", v, ok)
		t.Error(`expected element to carry data-x="1", doesn't`)
	}
	if fired != 1 {
		t.Errorf("expected data handler to fire once, fired %d times", fired)
	}
	if got.Data["x"] != "1" {
		t.Errorf(`expected payload data x="1", is %v`, got.Data["x"])
	}
}

func onPage(mode string) string {
	return fmt.Sprintf(`<html><head><style stylish>
div[stylish] { content: 'stylish({"on":{"events":["click"],"mode":%q})'; }
</style></head><body>
<div id="a" stylish></div>
<div id="b" stylish></div>
</body></html>`, mode)
}

func TestProcessOnLocalMode(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "stylish.engine")
	defer teardown()
	//
	doc := buildDoc(t, onPage("local"))
	engine := NewEngine(doc)
	var delivered []*dom.Node
	engine.AddHandler(engine.On(), HandlerOf(func(nodes []*dom.Node, payload interface{}) {
		delivered = nodes
	}))
	require.NoError(t, engine.Process())
	a, _ := doc.QuerySelector("#a")
	a.DispatchEvent(dom.NewEvent("click"))
	require.Len(t, delivered, 1, "local mode delivers the firing node only")
	require.Same(t, a, delivered[0])
}

func TestProcessOnGlobalMode(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "stylish.engine")
	defer teardown()
	//
	doc := buildDoc(t, onPage("global"))
	engine := NewEngine(doc)
	var delivered []*dom.Node
	engine.AddHandler(engine.On(), HandlerOf(func(nodes []*dom.Node, payload interface{}) {
		delivered = nodes
	}))
	require.NoError(t, engine.Process())
	b, _ := doc.QuerySelector("#b")
	b.DispatchEvent(dom.NewEvent("click"))
	require.Len(t, delivered, 2, "global mode delivers the whole affected node set")
}

func TestReprocessDoesNotAccumulateListeners(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "stylish.engine")
	defer teardown()
	//
	doc := buildDoc(t, onPage("local"))
	engine := NewEngine(doc)
	fired := 0
	engine.AddHandler(engine.On(), HandlerOf(func(nodes []*dom.Node, payload interface{}) {
		fired++
	}))
	if err := engine.Process(); err != nil {
		t.Fatalf("first pass failed: %v", err)
	}
	if err := engine.Process(); err != nil {
		t.Fatalf("second pass failed: %v", err)
	}
	a, _ := doc.QuerySelector("#a")
	a.DispatchEvent(dom.NewEvent("click"))
	if fired != 1 {
		t.Errorf("expected a single click to fire the handler once, fired %d times", fired)
	}
}

const pageWithBadAndGoodRule = `<html><head><style stylish>
#a { content: 'stylish({bad})'; }
#b { content: 'stylish({"data":{"ok":"1"}})'; }
</style></head><body>
<div id="a"></div>
<div id="b"></div>
</body></html>`

func TestMalformedExpressionDoesNotBlockOthers(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "stylish.engine")
	defer teardown()
	//
	doc := buildDoc(t, pageWithBadAndGoodRule)
	engine := NewEngine(doc)
	err := engine.Process()
	if err == nil {
		t.Error("expected processing to surface the malformed expression, didn't")
	}
	var malformed *MalformedExpressionError
	found := false
	for _, e := range multierr.Errors(err) {
		if errors.As(e, &malformed) {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a *MalformedExpressionError, got %v", err)
	} else if malformed.Where != "#a" {
		t.Errorf("expected error to identify selector #a, identifies %q", malformed.Where)
	}
	b, _ := doc.QuerySelector("#b")
	if v, _ := b.Dataset("ok"); v != "1" {
		t.Logf("data-ok = %q", v)
		t.Error("expected the well-formed provider to be processed regardless, wasn't")
	}
}

func TestErrorSinkConsumesErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "stylish.engine")
	defer teardown()
	//
	doc := buildDoc(t, pageWithBadAndGoodRule)
	var sunk []error
	engine := NewEngine(doc, WithErrorSink(func(err error) {
		sunk = append(sunk, err)
	}))
	if err := engine.Process(); err != nil {
		t.Errorf("expected Process to return nil with a sink configured, got %v", err)
	}
	if len(sunk) != 1 {
		t.Errorf("expected 1 error in the sink, is %d", len(sunk))
	}
}

func TestAddAndRemoveTrigger(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "stylish.engine")
	defer teardown()
	//
	doc := buildDoc(t, pageWithInlineData)
	engine := NewEngine(doc)
	calls := 0
	custom := TriggerOf(func(e *Engine, nodes []*dom.Node, args Args, src Source, payload interface{}) error {
		calls++
		return nil
	})
	engine.AddTrigger(custom)
	if err := engine.Process(); err != nil {
		t.Fatalf("processing failed: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected custom trigger to run once per marker-bearing provider, ran %d times", calls)
	}
	engine.RemoveTrigger(custom)
	if err := engine.Process(); err != nil {
		t.Fatalf("processing failed: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected removed trigger to stay out of dispatch, ran %d times", calls)
	}
}

func TestRemoveHandler(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "stylish.engine")
	defer teardown()
	//
	doc := buildDoc(t, pageWithInlineData)
	engine := NewEngine(doc)
	fired := 0
	h := HandlerOf(func(nodes []*dom.Node, payload interface{}) {
		fired++
	})
	engine.AddHandler(engine.Data(), h)
	if err := engine.Process(); err != nil {
		t.Fatalf("processing failed: %v", err)
	}
	engine.RemoveHandler(engine.Data(), h)
	if err := engine.Process(); err != nil {
		t.Fatalf("processing failed: %v", err)
	}
	if fired != 1 {
		t.Errorf("expected handler to fire only before removal, fired %d times", fired)
	}
}

func TestFailingTriggerAbortsProviderOnly(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "stylish.engine")
	defer teardown()
	//
	doc := buildDoc(t, pageWithBadAndGoodRule)
	engine := NewEngine(doc)
	failing := TriggerOf(func(e *Engine, nodes []*dom.Node, args Args, src Source, payload interface{}) error {
		panic("boom")
	})
	lateCalls := 0
	late := TriggerOf(func(e *Engine, nodes []*dom.Node, args Args, src Source, payload interface{}) error {
		lateCalls++
		return nil
	})
	engine.AddTrigger(failing).AddTrigger(late)
	err := engine.Process()
	if err == nil {
		t.Fatal("expected processing to surface the trigger failure, didn't")
	}
	// the data trigger runs before the failing one and must have acted
	b, _ := doc.QuerySelector("#b")
	if v, _ := b.Dataset("ok"); v != "1" {
		t.Error("expected triggers before the failing one to act, didn't")
	}
	if lateCalls != 0 {
		t.Errorf("expected triggers after the failing one to be skipped, ran %d times", lateCalls)
	}
}

func TestPanickingHandlerAbortsRemainingHandlers(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "stylish.engine")
	defer teardown()
	//
	doc := buildDoc(t, pageWithInlineData)
	engine := NewEngine(doc)
	secondRan := false
	engine.AddHandler(engine.Data(), HandlerOf(func(nodes []*dom.Node, payload interface{}) {
		panic("handler boom")
	}))
	engine.AddHandler(engine.Data(), HandlerOf(func(nodes []*dom.Node, payload interface{}) {
		secondRan = true
	}))
	err := engine.Process()
	if err == nil {
		t.Error("expected the handler failure to surface from Process, didn't")
	}
	var tErr *TriggerError
	if !errors.As(err, &tErr) {
		t.Errorf("expected the failure to surface as a *TriggerError, is %v", err)
	}
	if secondRan {
		t.Error("expected a failing handler to abort the remaining handlers, didn't")
	}
}

func TestPanickingHandlerPropagatesFromEventDispatch(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "stylish.engine")
	defer teardown()
	//
	doc := buildDoc(t, onPage("local"))
	engine := NewEngine(doc)
	secondRan := false
	engine.AddHandler(engine.On(), HandlerOf(func(nodes []*dom.Node, payload interface{}) {
		panic("handler boom")
	}))
	engine.AddHandler(engine.On(), HandlerOf(func(nodes []*dom.Node, payload interface{}) {
		secondRan = true
	}))
	require.NoError(t, engine.Process())
	a, _ := doc.QuerySelector("#a")
	panicked := func() (panicked bool) {
		defer func() {
			panicked = recover() != nil
		}()
		a.DispatchEvent(dom.NewEvent("click"))
		return
	}()
	if !panicked {
		t.Error("expected the handler panic to reach the event dispatcher's caller, didn't")
	}
	if secondRan {
		t.Error("expected a failing handler to abort the remaining handlers, didn't")
	}
}

func TestDuplicateRegistrationsAreKept(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "stylish.engine")
	defer teardown()
	//
	doc := buildDoc(t, pageWithInlineData)
	engine := NewEngine(doc)
	calls := 0
	custom := TriggerOf(func(e *Engine, nodes []*dom.Node, args Args, src Source, payload interface{}) error {
		calls++
		return nil
	})
	fired := 0
	h := HandlerOf(func(nodes []*dom.Node, payload interface{}) {
		fired++
	})
	engine.AddTrigger(custom).AddTrigger(custom)
	engine.AddHandler(engine.Data(), h).AddHandler(engine.Data(), h)
	if err := engine.Process(); err != nil {
		t.Fatalf("processing failed: %v", err)
	}
	if calls != 2 {
		t.Errorf("expected a twice-registered trigger to run twice, ran %d times", calls)
	}
	if fired != 2 {
		t.Errorf("expected a twice-registered handler to fire twice, fired %d times", fired)
	}
	// removal asymmetry: RemoveTrigger drops the first registration
	// only, RemoveHandler drops every matching one
	engine.RemoveTrigger(custom)
	engine.RemoveHandler(engine.Data(), h)
	calls, fired = 0, 0
	if err := engine.Process(); err != nil {
		t.Fatalf("processing failed: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected one trigger registration to survive removal, ran %d times", calls)
	}
	if fired != 0 {
		t.Errorf("expected no handler registration to survive removal, fired %d times", fired)
	}
}

const pageWithCaptureRule = `<html><head><style stylish>
#outer { content: 'stylish({"on":{"events":["click"],"capture":true}})'; }
</style></head><body>
<div id="outer"><div id="inner"></div></div>
</body></html>`

func TestOnTriggerCaptureListener(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "stylish.engine")
	defer teardown()
	//
	doc := buildDoc(t, pageWithCaptureRule)
	engine := NewEngine(doc)
	var delivered []*dom.Node
	engine.AddHandler(engine.On(), HandlerOf(func(nodes []*dom.Node, payload interface{}) {
		delivered = nodes
	}))
	require.NoError(t, engine.Process())
	// stopping propagation at the target cannot suppress a capture
	// listener further up: it has already run on the way down
	inner, _ := doc.QuerySelector("#inner")
	inner.AddEventListener("click", func(ev *dom.Event) {
		ev.StopPropagation()
	}, false)
	inner.DispatchEvent(dom.NewEvent("click"))
	outer, _ := doc.QuerySelector("#outer")
	require.Len(t, delivered, 1)
	require.Same(t, outer, delivered[0])
}

func TestOnTriggerUnrecognizedModeFallsBackToLocal(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "stylish.engine")
	defer teardown()
	//
	doc := buildDoc(t, onPage("sideways"))
	engine := NewEngine(doc)
	var delivered []*dom.Node
	engine.AddHandler(engine.On(), HandlerOf(func(nodes []*dom.Node, payload interface{}) {
		delivered = nodes
	}))
	require.NoError(t, engine.Process())
	a, _ := doc.QuerySelector("#a")
	a.DispatchEvent(dom.NewEvent("click"))
	require.Len(t, delivered, 1, "unrecognized mode behaves like local")
	require.Same(t, a, delivered[0])
}

// reentrantTrigger re-dispatches its arguments once, excluding itself.
type reentrantTrigger struct {
	calls int
}

func (t *reentrantTrigger) Apply(e *Engine, nodes []*dom.Node, args Args, src Source, payload interface{}) error {
	t.calls++
	if payload == nil {
		return e.Dispatch(nodes, args, src, "again", t)
	}
	return nil
}

func TestDispatchExcludesSender(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "stylish.engine")
	defer teardown()
	//
	doc := buildDoc(t, pageWithInlineData)
	engine := NewEngine(doc)
	reentrant := &reentrantTrigger{}
	witnessed := 0
	witness := TriggerOf(func(e *Engine, nodes []*dom.Node, args Args, src Source, payload interface{}) error {
		witnessed++
		return nil
	})
	engine.AddTrigger(reentrant).AddTrigger(witness)
	if err := engine.Process(); err != nil {
		t.Fatalf("processing failed: %v", err)
	}
	if reentrant.calls != 1 {
		t.Errorf("expected excluded trigger not to re-process its own dispatch, ran %d times", reentrant.calls)
	}
	if witnessed != 2 {
		t.Errorf("expected witness trigger to see original and re-entrant dispatch, saw %d", witnessed)
	}
}
