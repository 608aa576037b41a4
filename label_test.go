package stagehand

import (
	"errors"
	"strings"
	"testing"
)

func testGlyphs() map[rune]Texture {
	return map[rune]Texture{
		'a': NewImageTexture(newPage(5, 8)),
		'b': NewImageTexture(newPage(6, 10)),
		' ': NewImageTexture(newPage(3, 1)),
	}
}

func TestNewLabelSizesToGlyphs(t *testing.T) {
	l, err := NewLabel("l", "ab a", testGlyphs())
	if err != nil {
		t.Fatalf("NewLabel: %v", err)
	}
	if l.Type != NodeTypeLabel {
		t.Errorf("Type = %d, want label", l.Type)
	}
	if l.Width() != 19 || l.Height() != 10 {
		t.Errorf("size = %vx%v, want 19x10", l.Width(), l.Height())
	}
}

func TestNewLabelMissingGlyph(t *testing.T) {
	_, err := NewLabel("l", "abc", testGlyphs())
	if !errors.Is(err, ErrMissingGlyph) {
		t.Fatalf("err = %v, want ErrMissingGlyph", err)
	}
	if !strings.Contains(err.Error(), "'c'") {
		t.Errorf("error %q should name the rune", err)
	}
}

func TestSetTextFailureKeepsText(t *testing.T) {
	l, _ := NewLabel("l", "ab", testGlyphs())
	if err := l.SetText("zz"); !errors.Is(err, ErrMissingGlyph) {
		t.Fatalf("err = %v, want ErrMissingGlyph", err)
	}
	if l.Text() != "ab" || l.Width() != 11 {
		t.Errorf("text = %q width = %v, want unchanged", l.Text(), l.Width())
	}
}

func TestSetTextOnNonLabel(t *testing.T) {
	if err := NewNode("n").SetText("x"); !errors.Is(err, ErrDisallowed) {
		t.Errorf("err = %v, want ErrDisallowed", err)
	}
}

func TestSetTextEmpty(t *testing.T) {
	l, _ := NewLabel("l", "ab", testGlyphs())
	if err := l.SetText(""); err != nil {
		t.Fatal(err)
	}
	if l.Width() != 0 || l.Height() != 0 {
		t.Errorf("size = %vx%v, want 0x0", l.Width(), l.Height())
	}
}

func TestLabelPendingGlyphRelayout(t *testing.T) {
	pending := NewPendingTexture()
	glyphs := testGlyphs()
	glyphs['p'] = pending
	l, err := NewLabel("l", "ap", glyphs)
	if err != nil {
		t.Fatal(err)
	}
	if l.Width() != 5 {
		t.Errorf("width = %v, want 5 before the glyph loads", l.Width())
	}
	pending.Resolve(newPage(7, 12))
	if l.Width() != 12 || l.Height() != 12 {
		t.Errorf("size = %vx%v, want 12x12", l.Width(), l.Height())
	}
}

func TestLabelDrawsGlyphRow(t *testing.T) {
	l, _ := NewLabel("l", "ba", testGlyphs())
	s := newRecordSurface(50, 50)
	l.Visit(s)
	assertOps(t, s.ops(), "drawImage", "drawImage")
	if s.calls[0].rect != (Rect{0, 0, 6, 10}) || s.calls[1].rect != (Rect{6, 0, 5, 8}) {
		t.Errorf("glyph rects = %v, %v", s.calls[0].rect, s.calls[1].rect)
	}
}

func TestLabelFixedSizeWhenPinned(t *testing.T) {
	p := NewNode("p")
	p.SetSize(100, 20)
	l, _ := NewLabel("l", "a", testGlyphs())
	_ = p.AddChild(l)
	_ = l.SetLeft(0)
	_ = l.SetRight(0)
	_ = l.SetText("ab")
	if l.Width() != 100 {
		t.Errorf("width = %v, want 100 from the pins", l.Width())
	}
}
