package stagehand

// --- Events ---

// PointerKind is the phase of a pointer event.
type PointerKind uint8

const (
	PointerBegin PointerKind = iota
	PointerMoved
	PointerEnded
)

func (k PointerKind) String() string {
	switch k {
	case PointerBegin:
		return "begin"
	case PointerMoved:
		return "moved"
	default:
		return "ended"
	}
}

// PointerEvent is a normalized mouse or touch event in visible-surface
// coordinates. ID distinguishes simultaneous touches; the mouse uses 0.
type PointerEvent struct {
	Kind     PointerKind
	Position Vec2
	ID       int
	Touch    bool
}

// KeyKind is the phase of a key event.
type KeyKind uint8

const (
	KeyDown KeyKind = iota
	KeyUp
)

// KeyEvent is a normalized keyboard event.
type KeyEvent struct {
	KeyCode int
	Kind    KeyKind
}

// PointerContext is passed to node pointer handlers.
type PointerContext struct {
	Node     *Node
	EntityID uint32
	UserData any
	Kind     PointerKind
	// Global is the position in stage coordinates; Local is in the node's box
	// space.
	Global Vec2
	Local  Vec2
	ID     int
	Touch  bool
}

// KeyContext is passed to node key handlers.
type KeyContext struct {
	Node    *Node
	KeyCode int
	Kind    KeyKind
}

// InputSource feeds platform input into a director. Attach is called by
// Director.Start and Detach by Director.Stop; Poll is called at the start of
// every tick and reports events through HandlePointer and HandleKey.
type InputSource interface {
	Attach(d *Director)
	Detach()
	Poll()
}

// --- ECS bridge ---

// EventType identifies the kind of an InteractionEvent.
type EventType uint8

const (
	EventPointerBegin EventType = iota
	EventPointerMoved
	EventPointerEnded
	EventClick
	EventKeyDown
	EventKeyUp
	EventActionDone
)

var eventTypeNames = [...]string{
	EventPointerBegin: "pointer-begin",
	EventPointerMoved: "pointer-moved",
	EventPointerEnded: "pointer-ended",
	EventClick:        "click",
	EventKeyDown:      "key-down",
	EventKeyUp:        "key-up",
	EventActionDone:   "action-done",
}

func (t EventType) String() string {
	if int(t) < len(eventTypeNames) {
		return eventTypeNames[t]
	}
	return "unknown"
}

// EntityStore is the interface for optional ECS integration. When set on a
// Director, interaction events and action completions of nodes with a
// non-zero EntityID are forwarded to it.
type EntityStore interface {
	EmitEvent(event InteractionEvent)
}

// InteractionEvent carries interaction data for the ECS bridge.
type InteractionEvent struct {
	Type      EventType
	EntityID  uint32
	GlobalX   float64
	GlobalY   float64
	LocalX    float64
	LocalY    float64
	PointerID int
	Touch     bool
	KeyCode   int
}

func (d *Director) emit(ev InteractionEvent) {
	if d.store == nil || ev.EntityID == 0 {
		return
	}
	d.store.EmitEvent(ev)
}

func (d *Director) emitActionDone(_ *ActionStep, n *Node) {
	if n != nil {
		d.emit(InteractionEvent{Type: EventActionDone, EntityID: n.EntityID})
	}
}

// --- Event intake ---

// HandlePointer queues a pointer event for the next tick. Input sources call
// this from Poll.
func (d *Director) HandlePointer(ev PointerEvent) {
	d.pointerQ = append(d.pointerQ, ev)
}

// HandleKey queues a key event for the next tick.
func (d *Director) HandleKey(ev KeyEvent) {
	d.keyQ = append(d.keyQ, ev)
}

// processInput polls the input source and dispatches every queued event,
// plus at most one injected pointer event.
func (d *Director) processInput() {
	if d.input != nil && d.running {
		d.input.Poll()
	}
	if len(d.pointerQ) > 0 {
		q := d.pointerQ
		d.pointerQ = nil
		for _, ev := range q {
			d.dispatchPointer(ev)
		}
		clear(q)
		if d.pointerQ == nil {
			d.pointerQ = q[:0]
		}
	}
	d.processInjectedInput()
	if len(d.keyQ) > 0 {
		q := d.keyQ
		d.keyQ = nil
		for _, ev := range q {
			d.dispatchKey(ev)
		}
		clear(q)
		if d.keyQ == nil {
			d.keyQ = q[:0]
		}
	}
}

// --- Hit testing ---

// collectInteractive walks the tree in painter order appending visible
// interactive nodes to buf. Children of a clipping node are skipped when the
// stage point (x, y) lies outside its box.
func collectInteractive(n *Node, x, y float64, buf []*Node) []*Node {
	if !n.Visible || n.disposed {
		return buf
	}
	if n.Interactive {
		buf = append(buf, n)
	}
	if n.Clip && !n.containsStagePoint(x, y) {
		return buf
	}
	for _, child := range n.children {
		buf = collectInteractive(child, x, y, buf)
	}
	return buf
}

func (n *Node) containsStagePoint(x, y float64) bool {
	lx, ly := n.WorldToLocal(x, y)
	return lx >= 0 && lx <= n.h.size && ly >= 0 && ly <= n.v.size
}

// hitTest returns the topmost interactive node whose box contains the stage
// point (x, y), or nil.
func (d *Director) hitTest(x, y float64) *Node {
	d.hitBuf = collectInteractive(d.root, x, y, d.hitBuf[:0])
	defer clear(d.hitBuf)
	for i := len(d.hitBuf) - 1; i >= 0; i-- {
		if n := d.hitBuf[i]; n.containsStagePoint(x, y) {
			return n
		}
	}
	return nil
}

// HitTest returns the topmost interactive node at the visible-surface point
// (x, y), or nil.
func (d *Director) HitTest(x, y float64) *Node {
	sx, sy := d.present.toStage(x, y)
	return d.hitTest(sx, sy)
}

// --- Dispatch ---

// dispatchPointer routes a pointer event. Begin goes to the hit node, which
// captures the pointer; moved and ended go to the capturing node if any.
// An ended event over the capturing node is also a click.
func (d *Director) dispatchPointer(ev PointerEvent) {
	x, y := d.present.toStage(ev.Position.X, ev.Position.Y)

	var target *Node
	click := false
	switch ev.Kind {
	case PointerBegin:
		target = d.hitTest(x, y)
		if target != nil {
			d.captured[ev.ID] = target
		}
	case PointerMoved:
		target = d.captured[ev.ID]
		if target == nil {
			target = d.hitTest(x, y)
		}
	case PointerEnded:
		captured := d.captured[ev.ID]
		delete(d.captured, ev.ID)
		hit := d.hitTest(x, y)
		if captured != nil {
			target = captured
			click = hit == captured
		} else {
			target = hit
		}
	}
	if target == nil || target.disposed || target.stage != d {
		return
	}

	lx, ly := target.WorldToLocal(x, y)
	ctx := PointerContext{
		Node: target, EntityID: target.EntityID, UserData: target.UserData,
		Kind: ev.Kind, Global: Vec2{x, y}, Local: Vec2{lx, ly},
		ID: ev.ID, Touch: ev.Touch,
	}
	if fn := target.pointerHandler(ev.Kind, ev.Touch); fn != nil {
		fn(ctx)
	}
	d.emit(InteractionEvent{
		Type: EventPointerBegin + EventType(ev.Kind), EntityID: target.EntityID,
		GlobalX: x, GlobalY: y, LocalX: lx, LocalY: ly,
		PointerID: ev.ID, Touch: ev.Touch,
	})
	if click && !target.disposed {
		if target.OnClick != nil {
			target.OnClick(ctx)
		}
		d.emit(InteractionEvent{
			Type: EventClick, EntityID: target.EntityID,
			GlobalX: x, GlobalY: y, LocalX: lx, LocalY: ly,
			PointerID: ev.ID, Touch: ev.Touch,
		})
	}
}

func (n *Node) pointerHandler(kind PointerKind, touch bool) func(PointerContext) {
	switch {
	case touch && kind == PointerBegin:
		return n.OnTouchBegin
	case touch && kind == PointerMoved:
		return n.OnTouchMoved
	case touch:
		return n.OnTouchEnded
	case kind == PointerBegin:
		return n.OnMouseBegin
	case kind == PointerMoved:
		return n.OnMouseMoved
	default:
		return n.OnMouseEnded
	}
}

// collectKeyTargets appends every visible node with a key handler in
// depth-first order.
func collectKeyTargets(n *Node, buf []*Node) []*Node {
	if !n.Visible || n.disposed {
		return buf
	}
	if n.OnKeyDown != nil || n.OnKeyUp != nil {
		buf = append(buf, n)
	}
	for _, child := range n.children {
		buf = collectKeyTargets(child, buf)
	}
	return buf
}

// dispatchKey delivers a key event to every visible node with a handler.
// Targets are collected before dispatch so handlers may change the tree.
func (d *Director) dispatchKey(ev KeyEvent) {
	d.keyBuf = collectKeyTargets(d.root, d.keyBuf[:0])
	targets := d.keyBuf
	d.keyBuf = nil
	for _, n := range targets {
		if n.disposed {
			continue
		}
		ctx := KeyContext{Node: n, KeyCode: ev.KeyCode, Kind: ev.Kind}
		typ := EventKeyDown
		fn := n.OnKeyDown
		if ev.Kind == KeyUp {
			typ, fn = EventKeyUp, n.OnKeyUp
		}
		if fn != nil {
			fn(ctx)
		}
		d.emit(InteractionEvent{Type: typ, EntityID: n.EntityID, KeyCode: ev.KeyCode})
	}
	clear(targets)
	d.keyBuf = targets[:0]
}

// releaseCaptures drops pointer captures held by n.
func (d *Director) releaseCaptures(n *Node) {
	for id, c := range d.captured {
		if c == n {
			delete(d.captured, id)
		}
	}
}
