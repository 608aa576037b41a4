package stagehand

import "fmt"

// axis selects the horizontal or vertical layout block of a node.
type axis uint8

const (
	axisH axis = iota
	axisV
)

const (
	pinStart uint8 = 1 << iota // left or top
	pinEnd                     // right or bottom
	pinBoth = pinStart | pinEnd
)

// axisLayout holds one axis of a node's position, size and constraints.
// originPx is kept equal to origin*size at all times.
type axisLayout struct {
	pos      float64
	size     float64
	origin   float64
	originPx float64

	pins     uint8
	startPin float64
	endPin   float64

	percent    float64
	hasPercent bool

	align Align
}

func (n *Node) axis(ax axis) *axisLayout {
	if ax == axisH {
		return &n.h
	}
	return &n.v
}

// --- Size and origin ---

// X returns the node's local x position.
func (n *Node) X() float64 { return n.h.pos }

// Y returns the node's local y position.
func (n *Node) Y() float64 { return n.v.pos }

// Width returns the node's resolved width.
func (n *Node) Width() float64 { return n.h.size }

// Height returns the node's resolved height.
func (n *Node) Height() float64 { return n.v.size }

// OriginX returns the normalized horizontal origin.
func (n *Node) OriginX() float64 { return n.h.origin }

// OriginY returns the normalized vertical origin.
func (n *Node) OriginY() float64 { return n.v.origin }

// OriginPixelX returns OriginX * Width.
func (n *Node) OriginPixelX() float64 { return n.h.originPx }

// OriginPixelY returns OriginY * Height.
func (n *Node) OriginPixelY() float64 { return n.v.originPx }

// SetWidth sets the node's width. While the width is governed by edge pins
// or a percentage and the node has a parent, the constraint wins and the call
// is a no-op.
func (n *Node) SetWidth(w float64) {
	if n.sizeConstrained(axisH) {
		return
	}
	n.setSize(axisH, w)
}

// SetHeight is the vertical counterpart of SetWidth.
func (n *Node) SetHeight(h float64) {
	if n.sizeConstrained(axisV) {
		return
	}
	n.setSize(axisV, h)
}

// SetSize sets width then height.
func (n *Node) SetSize(w, h float64) {
	n.SetWidth(w)
	n.SetHeight(h)
}

// SetOriginX sets the normalized horizontal origin and re-applies the node's
// own alignment.
func (n *Node) SetOriginX(o float64) {
	a := &n.h
	a.origin = o
	a.originPx = o * a.size
	n.place(axisH)
}

// SetOriginY sets the normalized vertical origin.
func (n *Node) SetOriginY(o float64) {
	a := &n.v
	a.origin = o
	a.originPx = o * a.size
	n.place(axisV)
}

// SetOrigin sets both origins.
func (n *Node) SetOrigin(ox, oy float64) {
	n.SetOriginX(ox)
	n.SetOriginY(oy)
}

func (n *Node) sizeConstrained(ax axis) bool {
	a := n.axis(ax)
	return n.parent != nil && (a.pins == pinBoth || a.hasPercent)
}

// setSize updates the size on one axis, keeps the origin offset in sync,
// re-applies the node's own placement and re-lays out each direct child.
// Each child's own setSize recurses further when its size changes.
func (n *Node) setSize(ax axis, s float64) {
	a := n.axis(ax)
	if a.size == s {
		return
	}
	a.size = s
	a.originPx = a.origin * s
	n.place(ax)
	for _, child := range n.children {
		child.resolve(ax)
	}
}

// resolve recomputes the constrained size on one axis from the parent and
// then the node's placement. No-op without a parent.
func (n *Node) resolve(ax axis) {
	p := n.parent
	if p == nil {
		return
	}
	a := n.axis(ax)
	ps := p.axis(ax).size
	switch {
	case a.pins == pinBoth:
		n.setSize(ax, max(0, ps-a.startPin-a.endPin))
	case a.hasPercent:
		n.setSize(ax, ps*a.percent)
	}
	n.place(ax)
}

// place positions the node on one axis from its pins or alignment.
func (n *Node) place(ax axis) {
	p := n.parent
	if p == nil {
		return
	}
	a := n.axis(ax)
	ps := p.axis(ax).size
	switch {
	case a.pins&pinStart != 0:
		a.pos = a.startPin + a.originPx
	case a.pins&pinEnd != 0:
		a.pos = ps - a.endPin - (a.size - a.originPx)
	case a.align == AlignLeft || a.align == AlignTop:
		a.pos = a.originPx
	case a.align == AlignRight || a.align == AlignBottom:
		a.pos = ps - (a.size - a.originPx)
	case a.align == AlignCenter:
		a.pos = ps/2 + a.originPx - a.size/2
	}
}

// --- Edge pins ---

// SetLeft pins the node's left edge to left pixels from the parent's left edge.
func (n *Node) SetLeft(left float64) error {
	return n.setPin(axisH, pinStart, left, "left")
}

// SetRight pins the node's right edge.
func (n *Node) SetRight(right float64) error {
	return n.setPin(axisH, pinEnd, right, "right")
}

// SetTop pins the node's top edge.
func (n *Node) SetTop(top float64) error {
	return n.setPin(axisV, pinStart, top, "top")
}

// SetBottom pins the node's bottom edge.
func (n *Node) SetBottom(bottom float64) error {
	return n.setPin(axisV, pinEnd, bottom, "bottom")
}

// Edge names one side of a node for edge pinning.
type Edge uint8

const (
	EdgeTop Edge = iota
	EdgeRight
	EdgeBottom
	EdgeLeft
)

// Pin returns the pin distance for an edge and whether it is set.
func (n *Node) Pin(e Edge) (float64, bool) {
	switch e {
	case EdgeLeft:
		return n.h.startPin, n.h.pins&pinStart != 0
	case EdgeRight:
		return n.h.endPin, n.h.pins&pinEnd != 0
	case EdgeTop:
		return n.v.startPin, n.v.pins&pinStart != 0
	case EdgeBottom:
		return n.v.endPin, n.v.pins&pinEnd != 0
	}
	return 0, false
}

func (n *Node) setPin(ax axis, which uint8, d float64, edge string) error {
	a := n.axis(ax)
	if a.align != AlignNone {
		return fmt.Errorf("stagehand: %s pin on %q with align %s: %w", edge, n.Name, a.align, ErrLayoutConflict)
	}
	if a.hasPercent && a.pins|which == pinBoth {
		return fmt.Errorf("stagehand: %s pin on %q with percent size: %w", edge, n.Name, ErrLayoutConflict)
	}
	a.pins |= which
	if which == pinStart {
		a.startPin = d
	} else {
		a.endPin = d
	}
	n.autoResize = false
	n.resolve(ax)
	return nil
}

// --- Percent size ---

// SetPercentWidth sizes the node to p times its parent's width.
func (n *Node) SetPercentWidth(p float64) error {
	return n.setPercent(axisH, p, "width")
}

// SetPercentHeight sizes the node to p times its parent's height.
func (n *Node) SetPercentHeight(p float64) error {
	return n.setPercent(axisV, p, "height")
}

func (n *Node) setPercent(ax axis, p float64, dim string) error {
	a := n.axis(ax)
	if a.pins == pinBoth {
		return fmt.Errorf("stagehand: percent %s on %q with both edges pinned: %w", dim, n.Name, ErrLayoutConflict)
	}
	a.percent = p
	a.hasPercent = true
	n.autoResize = false
	n.resolve(ax)
	return nil
}

// --- Alignment ---

// AlignX returns the horizontal alignment.
func (n *Node) AlignX() Align { return n.h.align }

// AlignY returns the vertical alignment.
func (n *Node) AlignY() Align { return n.v.align }

// SetAlignX aligns the node horizontally within its parent. AlignTop and
// AlignBottom are ignored.
func (n *Node) SetAlignX(al Align) error {
	if al != AlignNone && !al.horizontal() {
		return nil
	}
	return n.setAlign(axisH, al)
}

// SetAlignY aligns the node vertically within its parent. AlignLeft and
// AlignRight are ignored.
func (n *Node) SetAlignY(al Align) error {
	if al != AlignNone && !al.vertical() {
		return nil
	}
	return n.setAlign(axisV, al)
}

func (n *Node) setAlign(ax axis, al Align) error {
	a := n.axis(ax)
	if al != AlignNone && a.pins != 0 {
		return fmt.Errorf("stagehand: align %s on pinned node %q: %w", al, n.Name, ErrLayoutConflict)
	}
	a.align = al
	n.place(ax)
	return nil
}

// ClearLayout removes all pins, percent sizes and alignments. The node keeps
// its current size and position.
func (n *Node) ClearLayout() {
	for _, a := range []*axisLayout{&n.h, &n.v} {
		a.pins = 0
		a.startPin, a.endPin = 0, 0
		a.percent, a.hasPercent = 0, false
		a.align = AlignNone
	}
}
