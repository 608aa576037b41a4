package stagehand

import "slices"

// ActionEngine owns the active action steps and listeners of one director and
// advances them once per tick. It is not safe for concurrent use; everything
// runs on the frame loop.
type ActionEngine struct {
	active    []*ActionStep
	listeners []*ActionListener
	stepping  bool
	listenBuf []*ActionListener

	// onFinish is called when a step drains, before its node reference is
	// dropped.
	onFinish func(s *ActionStep, n *Node)
}

// NewActionEngine creates an empty engine.
func NewActionEngine() *ActionEngine {
	return &ActionEngine{}
}

// Start registers s and moves it to running. No-op if s is already running or
// done.
func (e *ActionEngine) Start(s *ActionStep) {
	if s == nil || s.state != StepIdle {
		return
	}
	s.state = StepRunning
	s.engine = e
	if !slices.Contains(e.active, s) {
		e.active = append(e.active, s)
	}
}

// Stop stops s. Equivalent to s.Stop().
func (e *ActionEngine) Stop(s *ActionStep) {
	if s != nil {
		s.Stop()
	}
}

// Active returns the number of running steps.
func (e *ActionEngine) Active() int {
	n := 0
	for _, s := range e.active {
		if s.state == StepRunning {
			n++
		}
	}
	return n
}

// Listen creates a listener over steps and registers it.
func (e *ActionEngine) Listen(steps ...*ActionStep) *ActionListener {
	l := &ActionListener{engine: e, steps: steps}
	e.listeners = append(e.listeners, l)
	return l
}

// Step advances every active step, then evaluates every listener, so a
// listener always observes the completions of the same tick.
func (e *ActionEngine) Step(dt float64) {
	e.StepActions(dt)
	e.CheckListeners()
}

// StepActions advances the queue head of every running step. Steps started
// during the loop are stepped in the same tick; steps stopped during the loop
// are skipped. Drained steps become done and are deregistered.
func (e *ActionEngine) StepActions(dt float64) {
	e.stepping = true
	for i := 0; i < len(e.active); i++ {
		s := e.active[i]
		if s.state != StepRunning {
			continue
		}
		if s.advance(dt) && s.state == StepRunning {
			n := s.node
			s.finish()
			if e.onFinish != nil {
				e.onFinish(s, n)
			}
		}
	}
	e.stepping = false
	e.compact()
}

// CheckListeners evaluates a snapshot of the listener set.
func (e *ActionEngine) CheckListeners() {
	if len(e.listeners) == 0 {
		return
	}
	snapshot := append(e.listenBuf[:0], e.listeners...)
	for _, l := range snapshot {
		l.check()
	}
	clear(snapshot)
	e.listenBuf = snapshot[:0]
}

// Reset stops every active step and drops every listener.
func (e *ActionEngine) Reset() {
	active := e.active
	e.active = nil
	for _, s := range active {
		s.engine = nil
		s.Stop()
	}
	e.listeners = nil
}

// remove deregisters s. While stepping, removal is deferred to compact so
// the index-based loop stays valid.
func (e *ActionEngine) remove(s *ActionStep) {
	if e.stepping {
		return
	}
	if i := slices.Index(e.active, s); i >= 0 {
		e.active = slices.Delete(e.active, i, i+1)
	}
}

// compact drops steps that are no longer running.
func (e *ActionEngine) compact() {
	e.active = slices.DeleteFunc(e.active, func(s *ActionStep) bool {
		return s.state != StepRunning
	})
}

func (e *ActionEngine) removeListener(l *ActionListener) {
	if i := slices.Index(e.listeners, l); i >= 0 {
		e.listeners = slices.Delete(e.listeners, i, i+1)
	}
}

// --- Listener ---

// ActionListener observes a fixed set of steps. ANY callbacks fire once when
// the first step finishes; ALL callbacks fire once when every step has
// finished, after which the listener unregisters and is resolved.
// Registrations made after the matching condition already fired run
// immediately.
type ActionListener struct {
	engine   *ActionEngine
	steps    []*ActionStep
	anyFns   []func()
	allFns   []func()
	anyFired bool
	resolved bool
}

// AnyDone registers fn to run when any tracked step has finished.
func (l *ActionListener) AnyDone(fn func()) *ActionListener {
	if l.anyFired || l.resolved {
		fn()
		return l
	}
	l.anyFns = append(l.anyFns, fn)
	return l
}

// AllDone registers fn to run when every tracked step has finished.
func (l *ActionListener) AllDone(fn func()) *ActionListener {
	if l.resolved {
		fn()
		return l
	}
	l.allFns = append(l.allFns, fn)
	return l
}

// Resolved reports whether the ALL condition has fired.
func (l *ActionListener) Resolved() bool { return l.resolved }

func (l *ActionListener) check() {
	if l.resolved {
		return
	}
	anyDone, allDone := false, true
	for _, s := range l.steps {
		if s.Done() {
			anyDone = true
		} else {
			allDone = false
		}
	}
	if anyDone && !l.anyFired {
		l.anyFired = true
		fns := l.anyFns
		l.anyFns = nil
		for _, fn := range fns {
			fn()
		}
	}
	if allDone {
		l.resolved = true
		l.engine.removeListener(l)
		fns := l.allFns
		l.allFns = nil
		for _, fn := range fns {
			fn()
		}
	}
}
