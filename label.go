package stagehand

import (
	"fmt"
)

// NewLabel creates a node that draws text as a row of glyph textures, left to
// right, each at its natural size. Every rune of text must have a glyph.
func NewLabel(name, text string, glyphs map[rune]Texture) (*Node, error) {
	n := NewNode(name)
	n.Type = NodeTypeLabel
	n.glyphs = glyphs
	if err := n.SetText(text); err != nil {
		return nil, err
	}
	return n, nil
}

// Text returns a label's text.
func (n *Node) Text() string {
	return n.text
}

// SetText replaces a label's text and resizes it to fit. The text is left
// unchanged if a rune has no glyph.
func (n *Node) SetText(text string) error {
	if n.Type != NodeTypeLabel {
		return fmt.Errorf("stagehand: SetText on %q: %w", n.Name, ErrDisallowed)
	}
	for _, r := range text {
		if n.glyphs[r] == nil {
			return fmt.Errorf("stagehand: label %q: rune %q: %w", n.Name, r, ErrMissingGlyph)
		}
	}
	n.text = text
	n.layoutText()
	return nil
}

// layoutText sizes the label to its glyph row. Glyphs that are still loading
// trigger another layout once ready.
func (n *Node) layoutText() {
	if !n.autoResize {
		return
	}
	text := n.text
	w, h := 0.0, 0.0
	for _, r := range text {
		g := n.glyphs[r]
		if !g.Ready() {
			g.OnReady(func() {
				if !n.disposed && n.text == text {
					n.layoutText()
				}
			})
			continue
		}
		w += float64(g.Width())
		h = max(h, float64(g.Height()))
	}
	n.SetSize(w, h)
}

// drawGlyphs blits every glyph of the label's text. Returns the number of
// blits issued.
func (n *Node) drawGlyphs(s Surface) int {
	x := 0.0
	draws := 0
	for _, r := range n.text {
		g := n.glyphs[r]
		if g == nil || !g.Ready() {
			continue
		}
		w, h := float64(g.Width()), float64(g.Height())
		if img := g.Image(); img != nil {
			s.DrawImage(img, img.Bounds(), Rect{x, 0, w, h})
			draws++
		}
		x += w
	}
	return draws
}
