package stagehand

import (
	"errors"
	"math"
	"testing"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestOriginPixelTracksSize(t *testing.T) {
	n := NewNode("n")
	n.SetOrigin(0.5, 0.25)
	n.SetSize(40, 80)
	if n.OriginPixelX() != 20 || n.OriginPixelY() != 20 {
		t.Errorf("origin px = (%v, %v), want (20, 20)", n.OriginPixelX(), n.OriginPixelY())
	}
	n.SetWidth(100)
	if n.OriginPixelX() != 50 {
		t.Errorf("origin px x = %v, want 50", n.OriginPixelX())
	}
}

func TestPinBothEdgesFollowsParent(t *testing.T) {
	p := NewNode("p")
	p.SetSize(200, 100)
	c := NewNode("c")
	_ = p.AddChild(c)
	if err := c.SetLeft(10); err != nil {
		t.Fatal(err)
	}
	if err := c.SetRight(20); err != nil {
		t.Fatal(err)
	}
	if c.Width() != 170 || c.X() != 10 {
		t.Errorf("width=%v x=%v, want 170 and 10", c.Width(), c.X())
	}

	p.SetWidth(300)
	if c.Width() != 270 || c.X() != 10 {
		t.Errorf("after resize width=%v x=%v, want 270 and 10", c.Width(), c.X())
	}
}

func TestPinOffsetsByOrigin(t *testing.T) {
	p := NewNode("p")
	p.SetSize(200, 100)
	c := NewNode("c")
	c.SetSize(40, 40)
	c.SetOrigin(0.5, 0.5)
	_ = p.AddChild(c)
	_ = c.SetLeft(10)
	_ = c.SetBottom(5)
	if c.X() != 30 {
		t.Errorf("x = %v, want 30", c.X())
	}
	if c.Y() != 75 {
		t.Errorf("y = %v, want 75", c.Y())
	}
}

func TestPinnedSizeClampsToZero(t *testing.T) {
	p := NewNode("p")
	p.SetSize(20, 20)
	c := NewNode("c")
	_ = p.AddChild(c)
	_ = c.SetTop(15)
	_ = c.SetBottom(15)
	if c.Height() != 0 {
		t.Errorf("height = %v, want 0", c.Height())
	}
}

func TestSetWidthIgnoredWhileConstrained(t *testing.T) {
	p := NewNode("p")
	p.SetSize(100, 100)
	c := NewNode("c")
	_ = p.AddChild(c)
	_ = c.SetPercentWidth(0.5)
	c.SetWidth(10)
	if c.Width() != 50 {
		t.Errorf("width = %v, want 50", c.Width())
	}
}

func TestPercentSize(t *testing.T) {
	p := NewNode("p")
	p.SetSize(200, 80)
	c := NewNode("c")
	_ = c.SetPercentWidth(0.25)
	_ = c.SetPercentHeight(0.5)
	_ = p.AddChild(c)
	if c.Width() != 50 || c.Height() != 40 {
		t.Errorf("size = %vx%v, want 50x40", c.Width(), c.Height())
	}
	p.SetSize(400, 40)
	if c.Width() != 100 || c.Height() != 20 {
		t.Errorf("size = %vx%v, want 100x20", c.Width(), c.Height())
	}
}

func TestAlignCenter(t *testing.T) {
	p := NewNode("p")
	p.SetSize(200, 100)
	c := NewNode("c")
	c.SetSize(50, 20)
	c.SetOrigin(0.5, 0.5)
	_ = p.AddChild(c)
	if err := c.SetAlignX(AlignCenter); err != nil {
		t.Fatal(err)
	}
	if err := c.SetAlignY(AlignCenter); err != nil {
		t.Fatal(err)
	}
	if c.X() != 100 || c.Y() != 50 {
		t.Errorf("pos = (%v, %v), want (100, 50)", c.X(), c.Y())
	}
	// The box is centred whatever the origin.
	c.SetOriginX(0)
	if c.X() != 75 {
		t.Errorf("x = %v, want 75", c.X())
	}
}

func TestAlignEdges(t *testing.T) {
	p := NewNode("p")
	p.SetSize(200, 100)
	c := NewNode("c")
	c.SetSize(50, 20)
	_ = p.AddChild(c)
	_ = c.SetAlignX(AlignRight)
	_ = c.SetAlignY(AlignBottom)
	if c.X() != 150 || c.Y() != 80 {
		t.Errorf("pos = (%v, %v), want (150, 80)", c.X(), c.Y())
	}
	_ = c.SetAlignX(AlignLeft)
	_ = c.SetAlignY(AlignTop)
	if c.X() != 0 || c.Y() != 0 {
		t.Errorf("pos = (%v, %v), want (0, 0)", c.X(), c.Y())
	}
}

func TestAlignWrongAxisIgnored(t *testing.T) {
	c := NewNode("c")
	_ = c.SetAlignX(AlignTop)
	if c.AlignX() != AlignNone {
		t.Errorf("AlignX = %v, want none", c.AlignX())
	}
}

func TestAlignFollowsParentResize(t *testing.T) {
	p := NewNode("p")
	p.SetSize(100, 100)
	c := NewNode("c")
	c.SetSize(10, 10)
	_ = p.AddChild(c)
	_ = c.SetAlignX(AlignRight)
	p.SetWidth(300)
	if c.X() != 290 {
		t.Errorf("x = %v, want 290", c.X())
	}
}

func TestLayoutConflicts(t *testing.T) {
	t.Run("pin after align", func(t *testing.T) {
		c := NewNode("c")
		_ = c.SetAlignX(AlignCenter)
		if err := c.SetLeft(5); !errors.Is(err, ErrLayoutConflict) {
			t.Errorf("err = %v, want ErrLayoutConflict", err)
		}
	})
	t.Run("align after pin", func(t *testing.T) {
		c := NewNode("c")
		_ = c.SetTop(5)
		if err := c.SetAlignY(AlignCenter); !errors.Is(err, ErrLayoutConflict) {
			t.Errorf("err = %v, want ErrLayoutConflict", err)
		}
	})
	t.Run("percent with both pins", func(t *testing.T) {
		c := NewNode("c")
		_ = c.SetLeft(1)
		_ = c.SetRight(1)
		if err := c.SetPercentWidth(0.5); !errors.Is(err, ErrLayoutConflict) {
			t.Errorf("err = %v, want ErrLayoutConflict", err)
		}
	})
	t.Run("second pin with percent", func(t *testing.T) {
		c := NewNode("c")
		_ = c.SetPercentHeight(0.5)
		_ = c.SetTop(1)
		if err := c.SetBottom(1); !errors.Is(err, ErrLayoutConflict) {
			t.Errorf("err = %v, want ErrLayoutConflict", err)
		}
		if _, ok := c.Pin(EdgeBottom); ok {
			t.Error("rejected pin must not be recorded")
		}
	})
}

func TestPinAccessor(t *testing.T) {
	c := NewNode("c")
	_ = c.SetRight(7)
	if d, ok := c.Pin(EdgeRight); !ok || d != 7 {
		t.Errorf("Pin(right) = %v, %v", d, ok)
	}
	if _, ok := c.Pin(EdgeLeft); ok {
		t.Error("left should be unpinned")
	}
	if c.AutoResize() {
		t.Error("pinning should disable auto resize")
	}
}

func TestClearLayout(t *testing.T) {
	p := NewNode("p")
	p.SetSize(100, 100)
	c := NewNode("c")
	_ = p.AddChild(c)
	_ = c.SetLeft(10)
	_ = c.SetRight(10)
	c.ClearLayout()
	p.SetWidth(50)
	if c.Width() != 80 {
		t.Errorf("width = %v, want 80 after clearing", c.Width())
	}
	if err := c.SetAlignX(AlignCenter); err != nil {
		t.Errorf("align after clear: %v", err)
	}
	if !approx(c.X(), -15) {
		t.Errorf("x = %v, want -15", c.X())
	}
}
