package stagehand

// Synthetic pointer input. Coordinates are visible-surface coordinates,
// matching what a screenshot shows, and go through the same scale-mode
// mapping and dispatch as real input. Injected events are consumed one per
// tick, after the events of the input source.

// InjectPress queues a mouse press at (x, y).
func (d *Director) InjectPress(x, y float64) {
	d.injectQueue = append(d.injectQueue, PointerEvent{Kind: PointerBegin, Position: Vec2{x, y}})
}

// InjectMove queues a mouse move to (x, y). Use it between InjectPress and
// InjectRelease to simulate a drag.
func (d *Director) InjectMove(x, y float64) {
	d.injectQueue = append(d.injectQueue, PointerEvent{Kind: PointerMoved, Position: Vec2{x, y}})
}

// InjectRelease queues a mouse release at (x, y).
func (d *Director) InjectRelease(x, y float64) {
	d.injectQueue = append(d.injectQueue, PointerEvent{Kind: PointerEnded, Position: Vec2{x, y}})
}

// InjectClick queues a press followed by a release at (x, y). Consumes two
// ticks.
func (d *Director) InjectClick(x, y float64) {
	d.InjectPress(x, y)
	d.InjectRelease(x, y)
}

// InjectDrag queues a press at (fromX, fromY), frames-2 linearly
// interpolated moves and a release at (toX, toY). The sequence consumes
// frames ticks; the minimum is 2.
func (d *Director) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	d.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		d.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	d.InjectRelease(toX, toY)
}

// InjectKey queues a key event for the next tick.
func (d *Director) InjectKey(code int, kind KeyKind) {
	d.HandleKey(KeyEvent{KeyCode: code, Kind: kind})
}

// PendingInjections returns the number of queued synthetic pointer events.
func (d *Director) PendingInjections() int {
	return len(d.injectQueue)
}

// processInjectedInput dispatches the oldest injected pointer event, if any.
func (d *Director) processInjectedInput() bool {
	if len(d.injectQueue) == 0 {
		return false
	}
	ev := d.injectQueue[0]
	copy(d.injectQueue, d.injectQueue[1:])
	d.injectQueue = d.injectQueue[:len(d.injectQueue)-1]
	d.dispatchPointer(ev)
	return true
}
