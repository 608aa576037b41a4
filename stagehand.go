package stagehand

import (
	"errors"
	"fmt"
	"image/color"
	"strings"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs when a surface converts it for drawing.
type Color struct {
	R, G, B, A float64
}

// ColorWhite and ColorTransparent are the common fill defaults.
var (
	ColorWhite       = Color{1, 1, 1, 1}
	ColorBlack       = Color{0, 0, 0, 1}
	ColorTransparent = Color{}
)

// RGBA converts c to a premultiplied color.RGBA.
func (c Color) RGBA() color.RGBA {
	return color.RGBA{
		R: uint8(clamp01(c.R*c.A) * 255),
		G: uint8(clamp01(c.G*c.A) * 255),
		B: uint8(clamp01(c.B*c.A) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

// IsZero reports whether c is fully transparent.
func (c Color) IsZero() bool {
	return c.A <= 0
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Vec2 is a 2D vector used for positions, offsets and sizes.
type Vec2 struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// Grid is a 9-slice inset specification in texture pixels.
type Grid struct {
	Top, Right, Bottom, Left float64
}

// NodeType distinguishes drawing behavior for a Node.
type NodeType uint8

const (
	NodeTypeContainer NodeType = iota // plain node: fill, border and optional texture
	NodeTypeLabel                     // draws glyph textures; owns its texture
)

// Align is an alignment value. Horizontal setters accept AlignLeft,
// AlignRight and AlignCenter; vertical setters accept AlignTop, AlignBottom
// and AlignCenter. Values from the other axis are ignored.
type Align uint8

const (
	AlignNone Align = iota
	AlignLeft
	AlignRight
	AlignCenter
	AlignTop
	AlignBottom
)

func (a Align) horizontal() bool {
	return a == AlignLeft || a == AlignRight || a == AlignCenter
}

func (a Align) vertical() bool {
	return a == AlignTop || a == AlignBottom || a == AlignCenter
}

func (a Align) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignRight:
		return "right"
	case AlignCenter:
		return "center"
	case AlignTop:
		return "top"
	case AlignBottom:
		return "bottom"
	default:
		return "none"
	}
}

// ParseAlign converts a configuration string to an Align.
func ParseAlign(s string) (Align, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return AlignNone, nil
	case "left":
		return AlignLeft, nil
	case "right":
		return AlignRight, nil
	case "center":
		return AlignCenter, nil
	case "top":
		return AlignTop, nil
	case "bottom":
		return AlignBottom, nil
	}
	return AlignNone, fmt.Errorf("stagehand: align %q: %w", s, ErrUnknownAlign)
}

// ScaleMode controls how the logical stage size maps onto the window.
type ScaleMode uint8

const (
	ScaleNone    ScaleMode = iota // logical size equals window size
	ScaleFit                      // letterbox, preserve aspect
	ScaleFill                     // cover, preserve aspect, crop overflow
	ScaleStretch                  // fill the window, ignore aspect
)

// ParseScaleMode converts a configuration string to a ScaleMode.
func ParseScaleMode(s string) (ScaleMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return ScaleNone, nil
	case "fit":
		return ScaleFit, nil
	case "fill":
		return ScaleFill, nil
	case "stretch":
		return ScaleStretch, nil
	}
	return ScaleNone, fmt.Errorf("stagehand: scale mode %q: %w", s, ErrUnknownScaleMode)
}

// Errors returned by stagehand operations. Callers match them with errors.Is.
var (
	ErrAlreadyParented  = errors.New("node already has a parent")
	ErrLayoutConflict   = errors.New("conflicting layout constraints")
	ErrDisallowed       = errors.New("operation not allowed on this node type")
	ErrMissingTexture   = errors.New("texture not found")
	ErrMissingGlyph     = errors.New("glyph not found")
	ErrUnknownScaleMode = errors.New("unknown scale mode")
	ErrUnknownEasing    = errors.New("unknown easing")
	ErrUnknownAttr      = errors.New("unknown attribute")
	ErrUnknownAlign     = errors.New("unknown alignment")
)
