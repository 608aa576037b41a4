package stagehand

import (
	"errors"
	"math"
	"testing"
)

func runBehavior(b Behavior, n *Node, dts ...float64) {
	for _, dt := range dts {
		if b.Done() {
			return
		}
		b.Step(dt, n)
		if b.Done() {
			b.End(n)
		}
	}
}

func TestTransitionReachesTargetExactly(t *testing.T) {
	n := NewNode("pos")
	n.SetPosition(10, 20)

	tr := MoveTo(100, 200, 1.0, OutQuad)
	runBehavior(tr, n, 0.3, 0.3, 0.3, 0.3)

	if !tr.Done() {
		t.Fatal("expected Done after full duration")
	}
	if n.X() != 100 || n.Y() != 200 {
		t.Errorf("pos = (%v, %v), want exactly (100, 200)", n.X(), n.Y())
	}
}

func TestTransitionLinearMidpoint(t *testing.T) {
	n := NewNode("n")
	n.SetOpacity(0)
	tr := FadeTo(1, 2, nil)
	tr.Step(1, n)
	if math.Abs(n.Opacity()-0.5) > 1e-9 {
		t.Errorf("opacity = %v, want 0.5", n.Opacity())
	}
}

func TestTransitionCapturesStartOnFirstStep(t *testing.T) {
	n := NewNode("n")
	tr := NewTransition(1, Targets{AttrX: {Dest: 100}})

	// Moved after queueing but before the transition starts.
	n.SetX(50)
	tr.Step(0.5, n)
	if n.X() != 75 {
		t.Errorf("x = %v, want 75", n.X())
	}
}

func TestTransitionZeroDuration(t *testing.T) {
	n := NewNode("n")
	tr := RotateTo(90, 0, nil)
	runBehavior(tr, n, 0)
	if n.Rotation() != 90 {
		t.Errorf("rotation = %v, want 90", n.Rotation())
	}
}

func TestTransitionUsesSetters(t *testing.T) {
	n := NewNode("n")
	n.SetSize(10, 10)
	n.SetOrigin(0.5, 0.5)
	runBehavior(ResizeTo(40, 20, 1, nil), n, 1)
	if n.OriginPixelX() != 20 || n.OriginPixelY() != 10 {
		t.Errorf("origin px = (%v, %v), want (20, 10)", n.OriginPixelX(), n.OriginPixelY())
	}
}

func TestTransitionPerAttributeEasing(t *testing.T) {
	n := NewNode("n")
	tr := NewTransition(1, Targets{
		AttrScaleX: {Dest: 3, Easing: InQuad},
		AttrScaleY: {Dest: 3},
	})
	tr.Step(0.5, n)
	if math.Abs(n.ScaleX()-1.5) > 1e-6 {
		t.Errorf("scaleX = %v, want 1.5", n.ScaleX())
	}
	if math.Abs(n.ScaleY()-2) > 1e-9 {
		t.Errorf("scaleY = %v, want 2", n.ScaleY())
	}
}

func TestTransitionInActionStep(t *testing.T) {
	d := NewDirector(Config{Width: 100, Height: 100})
	n := NewNode("n")
	_ = d.Root().AddChild(n)
	step := n.Action().
		To(1, Targets{AttrX: {Dest: 40}}).
		Then(ScaleTo(2, 2, 1, nil))
	n.RunAction()

	d.Step(0.5)
	d.Step(0.5)
	if n.X() != 40 {
		t.Errorf("x = %v, want 40", n.X())
	}
	if n.ScaleX() != 1 {
		t.Errorf("scale should not start in the tick the move ends, got %v", n.ScaleX())
	}
	d.Step(1)
	if n.ScaleX() != 2 || !step.Done() {
		t.Errorf("scale = %v done = %v", n.ScaleX(), step.Done())
	}
}

func TestParseAttr(t *testing.T) {
	a, err := ParseAttr("ScaleX")
	if err != nil || a != AttrScaleX {
		t.Errorf("ParseAttr(ScaleX) = %v, %v", a, err)
	}
	if _, err := ParseAttr("colour"); !errors.Is(err, ErrUnknownAttr) {
		t.Errorf("err = %v, want ErrUnknownAttr", err)
	}
	if AttrOpacity.String() != "opacity" {
		t.Errorf("String = %q", AttrOpacity.String())
	}
}

// --- FrameAnimation ---

func frameTextures(n int) []Texture {
	out := make([]Texture, n)
	for i := range out {
		out[i] = NewImageTexture(newPage(i+1, 1))
	}
	return out
}

func TestFrameAnimationRepetitions(t *testing.T) {
	frames := frameTextures(3)
	n := NewNode("n")
	anim := NewFrameAnimation(frames, 1, 2)

	var shown []int
	for i := 0; i < 10 && !anim.Done(); i++ {
		dt := 1.0
		if i == 0 {
			dt = 0
		}
		anim.Step(dt, n)
		if !anim.Done() {
			shown = append(shown, anim.Index())
		}
	}
	want := []int{0, 1, 2, 0, 1, 2}
	if len(shown) != len(want) {
		t.Fatalf("shown = %v, want %v", shown, want)
	}
	for i := range want {
		if shown[i] != want[i] {
			t.Fatalf("shown = %v, want %v", shown, want)
		}
	}
	if !anim.Done() {
		t.Error("animation should be done")
	}
	if n.Texture() != frames[2] {
		t.Error("node should keep the last frame")
	}
}

func TestFrameAnimationFirstStepCountsTime(t *testing.T) {
	n := NewNode("n")
	frames := frameTextures(3)
	anim := NewFrameAnimation(frames, 1, 0)
	anim.Step(1, n)
	if anim.Index() != 1 {
		t.Errorf("index = %d, want 1", anim.Index())
	}
	if n.Texture() != frames[1] {
		t.Error("node should show frame 1")
	}
}

func TestFrameAnimationForever(t *testing.T) {
	n := NewNode("n")
	anim := NewFrameAnimation(frameTextures(2), 10, 0)
	for range 100 {
		anim.Step(0.1, n)
	}
	if anim.Done() {
		t.Error("repetitions <= 0 should never finish")
	}
}

func TestFrameAnimationSizesNode(t *testing.T) {
	n := NewNode("n")
	anim := NewFrameAnimation(frameTextures(3), 1, 1)
	anim.Step(0, n)
	anim.Step(1, n)
	if n.Width() != 2 {
		t.Errorf("width = %v, want 2", n.Width())
	}
}

func TestFrameAnimationEmpty(t *testing.T) {
	if !NewFrameAnimation(nil, 1, 1).Done() {
		t.Error("empty animation should be done")
	}
}

func TestFrameAnimationCatchesUp(t *testing.T) {
	n := NewNode("n")
	anim := NewFrameAnimation(frameTextures(4), 10, 0)
	anim.Step(0, n)
	anim.Step(0.25, n)
	if anim.Index() != 2 {
		t.Errorf("index = %d, want 2", anim.Index())
	}
}
