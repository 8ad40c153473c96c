package dom

// Event is delivered to listeners during event dispatch.
type Event struct {
	Type          string // event name, e.g. "click"
	Target        *Node  // node the event was dispatched on
	CurrentTarget *Node  // node whose listener is currently running
	stopped       bool
}

// NewEvent creates an event of the given type. Target and CurrentTarget
// are filled in during dispatch.
func NewEvent(eventType string) *Event {
	return &Event{Type: eventType}
}

// StopPropagation prevents the event from reaching listeners on any
// further node. Listeners already scheduled on the current node still run.
func (ev *Event) StopPropagation() {
	ev.stopped = true
}

// Listener is a callback bound to a node for one event type.
type Listener func(*Event)

// ListenerHandle identifies one installed listener. Go functions carry
// no usable identity, so AddEventListener hands out a handle which is
// the sole way to remove the listener again.
type ListenerHandle struct {
	node    *Node
	event   string
	capture bool
	fn      Listener
	removed bool
}

// AddEventListener binds a listener to the node for one event type.
// Listeners with capture true run during the capture phase (root towards
// target), the others during the bubble phase (target towards root).
// Listeners on the target node itself run in either case.
func (n *Node) AddEventListener(eventType string, fn Listener, capture bool) *ListenerHandle {
	if n.listeners == nil {
		n.listeners = make(map[string][]*ListenerHandle)
	}
	h := &ListenerHandle{node: n, event: eventType, capture: capture, fn: fn}
	n.listeners[eventType] = append(n.listeners[eventType], h)
	tracer().Debugf("add listener for %q on %v", eventType, n)
	return h
}

// RemoveEventListener removes a previously installed listener. Removing
// a handle twice, or a nil handle, is a no-op.
func (n *Node) RemoveEventListener(h *ListenerHandle) {
	if h == nil || h.node != n || h.removed {
		return
	}
	h.removed = true
	list := n.listeners[h.event]
	for i, x := range list {
		if x == h {
			n.listeners[h.event] = append(list[:i], list[i+1:]...)
			break
		}
	}
}

// DispatchEvent delivers an event to the node and its ancestor chain:
// capture listeners from the root down, then all listeners on the
// target, then bubble listeners back up to the root.
func (n *Node) DispatchEvent(ev *Event) {
	ev.Target = n
	ev.stopped = false
	var path []*Node // ancestors, nearest first
	for p := n.ParentNode(); p != nil; p = p.ParentNode() {
		path = append(path, p)
	}
	for i := len(path) - 1; i >= 0; i-- {
		path[i].fire(ev, true, false)
		if ev.stopped {
			return
		}
	}
	n.fire(ev, true, true)
	if ev.stopped {
		return
	}
	for _, p := range path {
		p.fire(ev, false, true)
		if ev.stopped {
			return
		}
	}
}

// fire runs the node's listeners for ev, filtered by phase. The
// listener list is snapshotted first: listeners installed or removed
// while firing do not affect the current dispatch.
func (n *Node) fire(ev *Event, capture, bubble bool) {
	ev.CurrentTarget = n
	list := n.listeners[ev.Type]
	if len(list) == 0 {
		return
	}
	snapshot := append([]*ListenerHandle(nil), list...)
	for _, h := range snapshot {
		if h.removed {
			continue
		}
		if h.capture && !capture {
			continue
		}
		if !h.capture && !bubble {
			continue
		}
		h.fn(ev)
	}
}
