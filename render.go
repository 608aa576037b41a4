package stagehand

import (
	"image"
)

// visitStats counts the work done by one Visit pass. Only collected in debug
// mode.
type visitStats struct {
	nodes int
	draws int
}

// Visit draws the node and its subtree onto s, depth-first in child order.
// Invisible, fully transparent and disposed nodes are skipped along with
// their subtree.
//
// The node's transform is pushed as Translate(X, Y), Scale (sign-flipped by
// FlippedX/FlippedY), Rotate and Translate(-origin), so the node draws itself
// at (0, 0, Width, Height) and its children are positioned relative to its
// top-left corner.
func (n *Node) Visit(s Surface) {
	n.visit(s, nil)
}

func (n *Node) visit(s Surface, stats *visitStats) {
	if n.disposed || !n.Visible || n.opacity <= 0 {
		return
	}
	if stats != nil {
		stats.nodes++
	}

	s.Save()
	s.Translate(n.h.pos, n.v.pos)
	if sx, sy := n.effectiveScale(); sx != 1 || sy != 1 {
		s.Scale(sx, sy)
	}
	if r := normalizeRadians(n.radians); r != 0 {
		s.Rotate(r)
	}
	if n.opacity < 1 {
		s.SetAlpha(n.opacity)
	}
	s.Translate(-n.h.originPx, -n.v.originPx)

	if (n.h.size > 0 && n.v.size > 0) || n.Radius > 0 {
		n.drawSelf(s, stats)
	}

	if len(n.children) > 0 {
		if n.Clip {
			s.ClipRect(Rect{0, 0, n.h.size, n.v.size})
		}
		snapshot := append(n.visitBuf[:0], n.children...)
		n.visitBuf = nil
		for _, child := range snapshot {
			child.visit(s, stats)
		}
		clear(snapshot)
		n.visitBuf = snapshot[:0]
	}
	s.Restore()
}

// drawSelf draws the background fill, the border and then the texture or the
// label glyphs.
func (n *Node) drawSelf(s Surface, stats *visitStats) {
	box := Rect{0, 0, n.h.size, n.v.size}
	draws := 0
	if !n.Fill.IsZero() {
		s.SetFillColor(n.Fill)
		if n.Radius > 0 {
			s.FillCircle(n.Radius, n.Radius, n.Radius)
		} else {
			s.FillRect(box)
		}
		draws++
	}
	if n.BorderWidth > 0 && !n.BorderColor.IsZero() {
		s.SetStroke(n.BorderColor, n.BorderWidth)
		if n.Radius > 0 {
			s.StrokeCircle(n.Radius, n.Radius, n.Radius)
		} else {
			s.StrokeRect(box)
		}
		draws++
	}
	switch {
	case n.Type == NodeTypeLabel:
		draws += n.drawGlyphs(s)
	case n.texture != nil:
		draws += drawTexture(s, n.texture, n.grid, box)
	}
	if stats != nil {
		stats.draws += draws
	}
}

// drawTexture blits tex into box, as a whole image or as nine slices when a
// grid is set. Returns the number of blits issued.
func drawTexture(s Surface, tex Texture, g *Grid, box Rect) int {
	img := tex.Image()
	if img == nil || !tex.Ready() {
		return 0
	}
	b := img.Bounds()
	if g == nil {
		s.DrawImage(img, b, box)
		return 1
	}
	return drawNineSlice(s, img, b, *g, box)
}

// drawNineSlice blits the nine regions of src partitioned by the grid insets.
// Corners keep their size, edges stretch along one axis and the center
// stretches along both.
func drawNineSlice(s Surface, img image.Image, src image.Rectangle, g Grid, box Rect) int {
	sw, sh := float64(src.Dx()), float64(src.Dy())
	// Column and row boundaries in source and destination space.
	sx := [4]float64{0, g.Left, sw - g.Right, sw}
	sy := [4]float64{0, g.Top, sh - g.Bottom, sh}
	dx := [4]float64{box.X, box.X + g.Left, box.X + box.Width - g.Right, box.X + box.Width}
	dy := [4]float64{box.Y, box.Y + g.Top, box.Y + box.Height - g.Bottom, box.Y + box.Height}

	draws := 0
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			sr := image.Rect(
				src.Min.X+int(sx[col]), src.Min.Y+int(sy[row]),
				src.Min.X+int(sx[col+1]), src.Min.Y+int(sy[row+1]),
			)
			dr := Rect{dx[col], dy[row], dx[col+1] - dx[col], dy[row+1] - dy[row]}
			if sr.Empty() || dr.Width <= 0 || dr.Height <= 0 {
				continue
			}
			s.DrawImage(img, sr, dr)
			draws++
		}
	}
	return draws
}
