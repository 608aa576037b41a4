package stagehand

// FrameAnimation swaps a node's texture through a list of frames at a fixed
// frame rate. Frame 0 is shown on the first step; each interval of frame time,
// counted from that step's dt on, advances one frame. With Repetitions > 0
// the animation is done when it would advance past the last frame of the
// final cycle; otherwise it loops forever.
type FrameAnimation struct {
	Frames      []Texture
	Interval    float64
	Repetitions int

	index   int
	cycles  int
	elapsed float64
	started bool
	done    bool
}

// NewFrameAnimation creates an animation at frameRate frames per second.
// repetitions <= 0 loops forever.
func NewFrameAnimation(frames []Texture, frameRate float64, repetitions int) *FrameAnimation {
	interval := 0.0
	if frameRate > 0 {
		interval = 1 / frameRate
	}
	return &FrameAnimation{
		Frames:      frames,
		Interval:    interval,
		Repetitions: repetitions,
		index:       -1,
		done:        len(frames) == 0,
	}
}

// Index returns the frame currently shown, or -1 before the first step.
func (f *FrameAnimation) Index() int { return f.index }

func (f *FrameAnimation) Step(dt float64, n *Node) {
	if f.done || n == nil {
		return
	}
	if !f.started {
		f.started = true
		f.show(n, 0)
	}
	if f.Interval <= 0 {
		return
	}
	f.elapsed += dt
	for f.elapsed >= f.Interval {
		f.elapsed -= f.Interval
		next := f.index + 1
		if next >= len(f.Frames) {
			f.cycles++
			if f.Repetitions > 0 && f.cycles >= f.Repetitions {
				f.done = true
				return
			}
			next = 0
		}
		f.show(n, next)
	}
}

func (f *FrameAnimation) show(n *Node, i int) {
	f.index = i
	n.setTexture(f.Frames[i])
}

func (f *FrameAnimation) End(n *Node)     {}
func (f *FrameAnimation) Done() bool      { return f.done }
func (f *FrameAnimation) Immediate() bool { return false }
