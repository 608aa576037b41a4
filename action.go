package stagehand

// Behavior is one queued unit of an ActionStep. Only the head of a queue is
// stepped. Once Done reports true the step calls End and pops it; when the
// popped behavior is Immediate the next head is stepped in the same tick.
type Behavior interface {
	Step(dt float64, n *Node)
	End(n *Node)
	Done() bool
	Immediate() bool
}

// --- Callback ---

// Callback invokes a function once. It is immediate: the queue moves on
// without waiting for another frame.
type Callback struct {
	fn   func()
	done bool
}

// NewCallback wraps fn as a Behavior.
func NewCallback(fn func()) *Callback {
	return &Callback{fn: fn}
}

func (c *Callback) Step(dt float64, n *Node) {
	if c.done {
		return
	}
	c.done = true
	if c.fn != nil {
		c.fn()
	}
}

func (c *Callback) End(n *Node)     {}
func (c *Callback) Done() bool      { return c.done }
func (c *Callback) Immediate() bool { return true }

// --- Delay ---

// Delay waits until at least Duration seconds of frame time have elapsed.
type Delay struct {
	Duration float64
	elapsed  float64
}

// NewDelay creates a Delay of d seconds.
func NewDelay(d float64) *Delay {
	return &Delay{Duration: d}
}

func (d *Delay) Step(dt float64, n *Node) { d.elapsed += dt }
func (d *Delay) End(n *Node)              {}
func (d *Delay) Done() bool               { return d.elapsed >= d.Duration }
func (d *Delay) Immediate() bool          { return false }

// --- ActionStep ---

// StepState is the lifecycle state of an ActionStep.
type StepState uint8

const (
	StepIdle    StepState = iota // built, not started
	StepRunning                  // registered with an engine
	StepDone                     // drained or stopped; terminal
)

func (s StepState) String() string {
	switch s {
	case StepIdle:
		return "idle"
	case StepRunning:
		return "running"
	default:
		return "done"
	}
}

// ActionStep is the ordered queue of behaviors driving one node. Build it with
// the chaining methods, then start it on an ActionEngine.
//
//	n.Action().
//		To(0.5, stagehand.Targets{stagehand.AttrX: {Dest: 200}}).
//		Wait(1).
//		Call(func() { n.Release(true) })
//	engine.Start(n.Action())
type ActionStep struct {
	node   *Node
	queue  []Behavior
	state  StepState
	engine *ActionEngine
}

// NewActionStep creates an idle step for n and makes it the node's action,
// stopping the step it replaces. A node runs at most one step at a time.
// Most callers use Node.Action.
func NewActionStep(n *Node) *ActionStep {
	s := &ActionStep{node: n}
	if n != nil {
		if n.action != nil {
			n.action.Stop()
		}
		n.action = s
	}
	return s
}

// Then appends a behavior.
func (s *ActionStep) Then(b Behavior) *ActionStep {
	if s.state != StepDone {
		s.queue = append(s.queue, b)
	}
	return s
}

// Call appends a Callback.
func (s *ActionStep) Call(fn func()) *ActionStep {
	return s.Then(NewCallback(fn))
}

// Wait appends a Delay of d seconds.
func (s *ActionStep) Wait(d float64) *ActionStep {
	return s.Then(NewDelay(d))
}

// To appends a Transition towards targets over d seconds.
func (s *ActionStep) To(d float64, targets Targets) *ActionStep {
	return s.Then(NewTransition(d, targets))
}

// Animate appends a FrameAnimation. repetitions <= 0 loops forever.
func (s *ActionStep) Animate(frames []Texture, frameRate float64, repetitions int) *ActionStep {
	return s.Then(NewFrameAnimation(frames, frameRate, repetitions))
}

// Node returns the node the step drives. Nil once the step is done.
func (s *ActionStep) Node() *Node { return s.node }

// State returns the step's lifecycle state.
func (s *ActionStep) State() StepState { return s.state }

// Done reports whether the step has drained or been stopped.
func (s *ActionStep) Done() bool { return s.state == StepDone }

// Len returns the number of behaviors still queued, including the head.
func (s *ActionStep) Len() int { return len(s.queue) }

// Start registers the step with e. Equivalent to e.Start(s).
func (s *ActionStep) Start(e *ActionEngine) *ActionStep {
	e.Start(s)
	return s
}

// Stop forces the step to done, discards the remaining queue and deregisters
// it from its engine. Behaviors that already completed are not rolled back.
// No-op if the step is already done.
func (s *ActionStep) Stop() {
	if s.state == StepDone {
		return
	}
	s.state = StepDone
	clear(s.queue)
	s.queue = nil
	s.node = nil
	if s.engine != nil {
		s.engine.remove(s)
	}
}

// advance steps the queue head, chaining through immediate behaviors, and
// reports whether the queue has drained.
func (s *ActionStep) advance(dt float64) bool {
	for len(s.queue) > 0 {
		head := s.queue[0]
		head.Step(dt, s.node)
		if s.state != StepRunning {
			return false
		}
		if !head.Done() {
			return false
		}
		head.End(s.node)
		if s.state != StepRunning {
			return false
		}
		s.queue[0] = nil
		s.queue = s.queue[1:]
		if !head.Immediate() {
			break
		}
	}
	return len(s.queue) == 0
}

// finish marks a drained step done and drops its node back-reference.
func (s *ActionStep) finish() {
	s.state = StepDone
	s.queue = nil
	s.node = nil
}
