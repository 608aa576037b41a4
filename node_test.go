package stagehand

import (
	"errors"
	"testing"
)

// --- Constructor defaults ---

func TestNewNodeDefaults(t *testing.T) {
	n := NewNode("test")
	assertNodeDefaults(t, n, "test", NodeTypeContainer)
}

func TestNewRectDefaults(t *testing.T) {
	n := NewRect("r", 30, 20, ColorBlack)
	assertNodeDefaults(t, n, "r", NodeTypeContainer)
	if n.Width() != 30 || n.Height() != 20 {
		t.Errorf("size = %vx%v, want 30x20", n.Width(), n.Height())
	}
	if n.Fill != ColorBlack {
		t.Errorf("Fill = %v, want black", n.Fill)
	}
}

func assertNodeDefaults(t *testing.T, n *Node, name string, typ NodeType) {
	t.Helper()
	if n.ID == 0 {
		t.Error("ID should be non-zero")
	}
	if n.Name != name {
		t.Errorf("Name = %q, want %q", n.Name, name)
	}
	if n.Type != typ {
		t.Errorf("Type = %d, want %d", n.Type, typ)
	}
	if n.ScaleX() != 1 || n.ScaleY() != 1 {
		t.Errorf("Scale = (%v, %v), want (1, 1)", n.ScaleX(), n.ScaleY())
	}
	if n.Opacity() != 1 {
		t.Errorf("Opacity = %v, want 1", n.Opacity())
	}
	if !n.Visible {
		t.Error("Visible should be true")
	}
	if !n.AutoResize() {
		t.Error("AutoResize should be true")
	}
}

func TestUniqueIDs(t *testing.T) {
	a := NewNode("a")
	b := NewNode("b")
	if a.ID == b.ID {
		t.Errorf("IDs should differ, both %d", a.ID)
	}
}

func TestSetOpacityClamps(t *testing.T) {
	n := NewNode("n")
	n.SetOpacity(2)
	if n.Opacity() != 1 {
		t.Errorf("Opacity = %v, want 1", n.Opacity())
	}
	n.SetOpacity(-1)
	if n.Opacity() != 0 {
		t.Errorf("Opacity = %v, want 0", n.Opacity())
	}
}

// --- Tree manipulation ---

func TestAddChild(t *testing.T) {
	parent := NewNode("parent")
	child := NewNode("child")
	if err := parent.AddChild(child); err != nil {
		t.Fatalf("AddChild: %v", err)
	}
	if child.Parent() != parent {
		t.Error("child.Parent() should be parent")
	}
	if parent.NumChildren() != 1 || parent.ChildAt(0) != child {
		t.Error("child not in parent's list")
	}
}

func TestAddChildAlreadyParentedLeavesTreesUnchanged(t *testing.T) {
	p1 := NewNode("p1")
	p2 := NewNode("p2")
	child := NewNode("child")
	_ = p1.AddChild(child)

	err := p2.AddChild(child)
	if !errors.Is(err, ErrAlreadyParented) {
		t.Fatalf("err = %v, want ErrAlreadyParented", err)
	}
	if child.Parent() != p1 {
		t.Error("child should still belong to p1")
	}
	if p1.NumChildren() != 1 || p2.NumChildren() != 0 {
		t.Errorf("children = %d/%d, want 1/0", p1.NumChildren(), p2.NumChildren())
	}
}

func TestAddChildAtIndex(t *testing.T) {
	p := NewNode("p")
	a, b, c := NewNode("a"), NewNode("b"), NewNode("c")
	_ = p.AddChild(a)
	_ = p.AddChild(c)
	_ = p.AddChildAt(b, 1)
	want := []*Node{a, b, c}
	for i, w := range want {
		if p.ChildAt(i) != w {
			t.Errorf("child[%d] = %q, want %q", i, p.ChildAt(i).Name, w.Name)
		}
	}
	d := NewNode("d")
	_ = p.AddChildAt(d, 99)
	if p.ChildAt(3) != d {
		t.Error("out-of-range index should append")
	}
}

func TestAddChildNilPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on nil child")
		}
	}()
	NewNode("p").AddChild(nil)
}

func TestAddChildCyclePanics(t *testing.T) {
	a := NewNode("a")
	b := NewNode("b")
	_ = a.AddChild(b)
	defer func() {
		if recover() == nil {
			t.Error("expected panic on cycle")
		}
	}()
	b.AddChild(a)
}

func TestRemoveChild(t *testing.T) {
	p := NewNode("p")
	c := NewNode("c")
	_ = p.AddChild(c)
	p.RemoveChild(c)
	if c.Parent() != nil || p.NumChildren() != 0 {
		t.Error("child should be detached")
	}
	// Removing a non-child is a no-op.
	other := NewNode("other")
	p.RemoveChild(other)
	p.RemoveChild(nil)
}

func TestRemoveFromParent(t *testing.T) {
	p := NewNode("p")
	c := NewNode("c")
	_ = p.AddChild(c)
	c.RemoveFromParent()
	if p.NumChildren() != 0 {
		t.Error("RemoveFromParent should detach")
	}
	c.RemoveFromParent()
}

func TestRemoveAllChildrenRecursiveHaltsActions(t *testing.T) {
	d := NewDirector(Config{Width: 100, Height: 100})
	p := NewNode("p")
	c := NewNode("c")
	gc := NewNode("gc")
	_ = c.AddChild(gc)
	_ = p.AddChild(c)
	_ = d.Root().AddChild(p)

	step := gc.Action().Wait(10)
	gc.RunAction()

	p.RemoveAllChildren(true)
	if c.Parent() != nil || c.NumChildren() != 0 {
		t.Error("recursive removal should clear descendants")
	}
	if gc.Parent() != nil || gc.Stage() != nil {
		t.Error("grandchild should be detached and off stage")
	}
	if !step.Done() {
		t.Error("grandchild action should be halted")
	}
	if c.IsDisposed() || gc.IsDisposed() {
		t.Error("removed nodes must not be released")
	}
}

func TestContains(t *testing.T) {
	a, b, c := NewNode("a"), NewNode("b"), NewNode("c")
	_ = a.AddChild(b)
	_ = b.AddChild(c)
	if !a.Contains(c) {
		t.Error("a should contain c")
	}
	if c.Contains(a) || a.Contains(a) {
		t.Error("Contains should only report descendants")
	}
}

// --- Stage membership ---

func TestStagePropagationAndNotifications(t *testing.T) {
	d := NewDirector(Config{Width: 10, Height: 10})
	p := NewNode("p")
	c := NewNode("c")
	_ = p.AddChild(c)

	var log []string
	p.OnEnter = func() { log = append(log, "p enter") }
	c.OnEnter = func() { log = append(log, "c enter") }
	p.OnLeave = func() { log = append(log, "p leave") }
	c.OnLeave = func() { log = append(log, "c leave") }

	_ = d.Root().AddChild(p)
	if c.Stage() != d {
		t.Fatal("grandchild should be on stage")
	}
	p.RemoveFromParent()
	if c.Stage() != nil {
		t.Fatal("grandchild should be off stage")
	}

	want := []string{"p enter", "c enter", "p leave", "c leave"}
	if len(log) != len(want) {
		t.Fatalf("log = %v, want %v", log, want)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Errorf("log[%d] = %q, want %q", i, log[i], want[i])
		}
	}
}

// --- Release ---

func TestReleaseRecursiveHaltsActionsAndDefersDisposal(t *testing.T) {
	d := NewDirector(Config{Width: 100, Height: 100})
	p := NewNode("p")
	c := NewNode("c")
	_ = p.AddChild(c)
	_ = d.Root().AddChild(p)

	ps := p.Action().Wait(5)
	p.RunAction()
	cs := c.Action().Wait(5)
	c.RunAction()

	p.Release(true)
	if !ps.Done() || !cs.Done() {
		t.Error("released nodes' actions should be halted")
	}
	if p.Parent() != nil {
		t.Error("released node should be detached")
	}
	if p.IsDisposed() || c.IsDisposed() {
		t.Error("disposal should wait for the end of the tick")
	}
	if d.Pending() != 2 {
		t.Errorf("Pending = %d, want 2", d.Pending())
	}

	d.Step(0.016)
	if !p.IsDisposed() || !c.IsDisposed() {
		t.Error("released nodes should be disposed after the tick")
	}
	if d.Pending() != 0 {
		t.Errorf("Pending = %d, want 0", d.Pending())
	}
}

func TestReleaseHaltsDirectlyConstructedStep(t *testing.T) {
	d := NewDirector(Config{Width: 100, Height: 100})
	p := NewNode("p")
	c := NewNode("c")
	_ = p.AddChild(c)
	_ = d.Root().AddChild(p)

	step := NewActionStep(c).To(10, Targets{AttrX: {Dest: 100}})
	d.Engine().Start(step)
	d.Step(1)
	if c.X() != 10 {
		t.Fatalf("x = %v, want 10", c.X())
	}

	p.Release(true)
	d.Step(1)
	d.Step(1)
	if c.X() != 10 {
		t.Errorf("x = %v after release, want 10", c.X())
	}
	if !step.Done() {
		t.Errorf("state = %v, want done", step.State())
	}
}

func TestNewActionStepReplacesRunningStep(t *testing.T) {
	d := NewDirector(Config{Width: 10, Height: 10})
	n := NewNode("n")
	_ = d.Root().AddChild(n)
	old := n.Action().Wait(5)
	n.RunAction()

	step := NewActionStep(n)
	if !old.Done() {
		t.Error("the replaced step should be stopped")
	}
	if n.Action() != step {
		t.Error("Action should return the new step")
	}
	if d.Engine().Active() != 0 {
		t.Errorf("Active = %d, want 0", d.Engine().Active())
	}
}

func TestAddChildRejectsReleasedNode(t *testing.T) {
	d := NewDirector(Config{Width: 10, Height: 10})
	n := NewNode("n")
	_ = d.Root().AddChild(n)
	n.Release(false)

	if err := d.Root().AddChild(n); !errors.Is(err, ErrDisallowed) {
		t.Fatalf("AddChild = %v, want ErrDisallowed", err)
	}
	if d.Root().Contains(n) || n.Parent() != nil {
		t.Error("a rejected AddChild should not mutate either tree")
	}

	d.Step(0.016)
	if !n.IsDisposed() {
		t.Error("released node should be disposed after the tick")
	}
	if d.Root().NumChildren() != 0 {
		t.Errorf("root has %d children, want 0", d.Root().NumChildren())
	}
}

func TestReleaseNonRecursiveDetachesChildren(t *testing.T) {
	p := NewNode("p")
	c := NewNode("c")
	_ = p.AddChild(c)
	p.Release(false)
	if !p.IsDisposed() {
		t.Error("off-stage release should dispose immediately")
	}
	if c.IsDisposed() || c.Parent() != nil {
		t.Error("child should be detached but not disposed")
	}
}

func TestReleaseTwiceIsNoop(t *testing.T) {
	d := NewDirector(Config{Width: 10, Height: 10})
	n := NewNode("n")
	_ = d.Root().AddChild(n)
	n.Release(true)
	n.Release(true)
	if d.Pending() != 1 {
		t.Errorf("Pending = %d, want 1", d.Pending())
	}
}

// --- Update ---

func TestUpdateSafeUnderMutation(t *testing.T) {
	p := NewNode("p")
	a, b := NewNode("a"), NewNode("b")
	_ = p.AddChild(a)
	_ = p.AddChild(b)

	var visited []string
	a.OnFrame = func(float64) {
		visited = append(visited, "a")
		p.RemoveChild(b)
		_ = p.AddChild(NewNode("late"))
	}
	b.OnFrame = func(float64) { visited = append(visited, "b") }

	p.Update(0.1)
	if len(visited) != 2 || visited[1] != "b" {
		t.Errorf("visited = %v, want [a b]", visited)
	}
	if p.NumChildren() != 2 {
		t.Errorf("children = %d, want 2", p.NumChildren())
	}
}

// --- Textures ---

func TestSpriteSizesToTexture(t *testing.T) {
	tex := NewPendingTexture()
	n := NewSprite("s", tex)
	if n.Width() != 0 {
		t.Fatal("size should wait for the texture")
	}
	tex.Resolve(newPage(12, 8))
	if n.Width() != 12 || n.Height() != 8 {
		t.Errorf("size = %vx%v, want 12x8", n.Width(), n.Height())
	}
}

func TestSetTextureOnLabelDisallowed(t *testing.T) {
	glyphs := map[rune]Texture{'a': NewImageTexture(newPage(4, 4))}
	l, err := NewLabel("l", "a", glyphs)
	if err != nil {
		t.Fatal(err)
	}
	if err := l.SetTexture(NewImageTexture(newPage(1, 1))); !errors.Is(err, ErrDisallowed) {
		t.Errorf("err = %v, want ErrDisallowed", err)
	}
}
