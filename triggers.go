package stylish

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/npillmayer/stylish/dom"
)

// EventPayload is delivered to handlers registered against the
// built-in "on" trigger whenever one of its listeners fires.
type EventPayload struct {
	Event *dom.Event
}

// DataPayload is delivered to handlers registered against the built-in
// "data" trigger, once per data key written.
type DataPayload struct {
	Data map[string]interface{}
}

// onTrigger implements the built-in "on" trigger. It recognizes
// arguments of the shape
//
//     {"on": {"events": ["click", …], "mode": "local"|"global", "capture": bool}}
//
// and binds a DOM listener for every event name on every affected
// node. When a listener fires it re-enters the handler dispatcher with
// payload EventPayload. In mode "local" (the default, also used for
// unrecognized modes) handlers receive only the node the listener is
// bound to; in mode "global" they receive the entire affected node set
// of the originating style provider.
//
// Listener bookkeeping is scoped to the trigger instance, which is
// created per engine: re-processing the same node and event replaces
// the previously installed listener instead of accumulating a second
// one.
type onTrigger struct {
	installed map[listenerKey]*dom.ListenerHandle
}

type listenerKey struct {
	node  *dom.Node
	event string
}

func newOnTrigger() *onTrigger {
	return &onTrigger{installed: make(map[listenerKey]*dom.ListenerHandle)}
}

func (t *onTrigger) Apply(e *Engine, nodes []*dom.Node, args Args, src Source, payload interface{}) error {
	onArgs, ok := args["on"].(map[string]interface{})
	if !ok || len(nodes) == 0 {
		return nil
	}
	events := stringList(onArgs["events"])
	if len(events) == 0 {
		return nil
	}
	global := false
	if mode, ok := onArgs["mode"].(string); ok && mode == "global" {
		global = true
	}
	capture, _ := onArgs["capture"].(bool)
	all := append([]*dom.Node(nil), nodes...) // snapshot for global delivery
	for _, event := range events {
		for _, node := range nodes {
			key := listenerKey{node: node, event: event}
			if prev, ok := t.installed[key]; ok {
				node.RemoveEventListener(prev)
			}
			bound := node
			h := node.AddEventListener(event, func(ev *dom.Event) {
				delivered := []*dom.Node{bound}
				if global {
					delivered = all
				}
				e.DispatchToHandlers(delivered, EventPayload{Event: ev}, t)
			}, capture)
			t.installed[key] = h
		}
	}
	return nil
}

// stringList coerces a decoded JSON value into a list of strings,
// dropping entries of other types.
func stringList(v interface{}) []string {
	list, ok := v.([]interface{})
	if !ok {
		return nil
	}
	var ss []string
	for _, item := range list {
		if s, ok := item.(string); ok {
			ss = append(ss, s)
		}
	}
	return ss
}

// dataTrigger implements the built-in "data" trigger. It recognizes
// arguments of the shape
//
//     {"data": {"key": value, …}}
//
// and writes every entry onto every affected node as a data-<key>
// attribute, then re-enters the handler dispatcher once per key with
// payload DataPayload. Keys are handled in sorted order so repeated
// passes behave deterministically.
type dataTrigger struct{}

func (t *dataTrigger) Apply(e *Engine, nodes []*dom.Node, args Args, src Source, payload interface{}) error {
	data, ok := args["data"].(map[string]interface{})
	if !ok || len(data) == 0 || len(nodes) == 0 {
		return nil
	}
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		value := stringify(data[k])
		for _, node := range nodes {
			node.SetDataset(k, value)
		}
		e.DispatchToHandlers(nodes, DataPayload{Data: data}, t)
	}
	return nil
}

// stringify renders a decoded JSON value as an attribute value:
// strings verbatim, everything else re-encoded as JSON text.
func stringify(v interface{}) string {
	switch x := v.(type) {
	case string:
		return x
	case nil:
		return ""
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprintf("%v", x)
		}
		return string(b)
	}
}
