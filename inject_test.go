package stagehand

import "testing"

func TestInjectClick(t *testing.T) {
	d := newInputDirector()
	n := interactiveRect("n", 0, 0, 100, 100)
	_ = d.Root().AddChild(n)

	var clicked bool
	n.OnClick = func(ctx PointerContext) {
		clicked = true
		if ctx.Node != n {
			t.Error("expected the rect node")
		}
	}

	d.InjectClick(50, 50)
	if d.PendingInjections() != 2 {
		t.Fatalf("expected 2 queued events, got %d", d.PendingInjections())
	}

	// Frame 1: press
	d.processInput()
	if d.PendingInjections() != 1 {
		t.Fatalf("expected 1 remaining event after frame 1, got %d", d.PendingInjections())
	}
	if clicked {
		t.Error("click should not fire on press frame")
	}

	// Frame 2: release -> click fires
	d.processInput()
	if d.PendingInjections() != 0 {
		t.Fatalf("expected 0 remaining events after frame 2, got %d", d.PendingInjections())
	}
	if !clicked {
		t.Error("click should fire on release frame")
	}
}

func TestInjectDrag(t *testing.T) {
	d := newInputDirector()
	n := interactiveRect("n", 0, 0, 400, 400)
	_ = d.Root().AddChild(n)

	var events []string
	n.OnMouseBegin = func(PointerContext) { events = append(events, "begin") }
	n.OnMouseMoved = func(PointerContext) { events = append(events, "moved") }
	n.OnMouseEnded = func(PointerContext) { events = append(events, "ended") }

	d.InjectDrag(10, 10, 200, 200, 5)
	if d.PendingInjections() != 5 {
		t.Fatalf("expected 5 queued events, got %d", d.PendingInjections())
	}
	for range 5 {
		d.processInput()
	}

	want := []string{"begin", "moved", "moved", "moved", "ended"}
	if len(events) != len(want) {
		t.Fatalf("events = %v, want %v", events, want)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Errorf("events[%d] = %s, want %s", i, events[i], want[i])
		}
	}
}

func TestInjectDragMinFrames(t *testing.T) {
	d := newInputDirector()
	d.InjectDrag(0, 0, 10, 10, 0)
	if d.PendingInjections() != 2 {
		t.Errorf("expected press and release only, got %d", d.PendingInjections())
	}
}

func TestInjectKey(t *testing.T) {
	d := newInputDirector()
	n := NewNode("n")
	var code int
	n.OnKeyDown = func(c KeyContext) { code = c.KeyCode }
	_ = d.Root().AddChild(n)

	d.InjectKey(13, KeyDown)
	d.processInput()
	if code != 13 {
		t.Errorf("code = %d, want 13", code)
	}
}

func TestInjectUsesVisibleCoordinates(t *testing.T) {
	d := NewDirector(Config{Width: 100, Height: 100, ScaleMode: ScaleStretch})
	d.SetSurface(newRecordSurface(200, 100))
	n := interactiveRect("n", 50, 0, 10, 10)
	clicked := false
	n.OnClick = func(PointerContext) { clicked = true }
	_ = d.Root().AddChild(n)

	d.Step(0)
	d.InjectClick(110, 5)
	d.Step(0)
	d.Step(0)
	if !clicked {
		t.Error("visible (110, 5) should map to stage (55, 5)")
	}
}
