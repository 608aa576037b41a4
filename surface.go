package stagehand

import (
	"image"
	"math"
)

// Surface is the immediate-mode 2D canvas nodes draw onto. The scene graph
// only calls these primitives and is agnostic to the backend.
//
// Transform calls post-multiply the current matrix, as a canvas context does:
// Translate then Scale then Rotate maps a point through rotate first.
type Surface interface {
	Save()
	Restore()
	Translate(x, y float64)
	Scale(sx, sy float64)
	Rotate(radians float64)
	// SetAlpha multiplies the current alpha by a.
	SetAlpha(a float64)
	SetFillColor(c Color)
	SetStroke(c Color, width float64)

	FillRect(r Rect)
	StrokeRect(r Rect)
	FillCircle(cx, cy, radius float64)
	StrokeCircle(cx, cy, radius float64)
	// ClipRect intersects the clip region with r in current coordinates.
	ClipRect(r Rect)
	// DrawImage blits the src portion of img into dst.
	DrawImage(img image.Image, src image.Rectangle, dst Rect)

	Clear()
	Size() (w, h int)
	// NewBuffer creates an off-screen surface compatible with this one.
	NewBuffer(w, h int) Surface
	// Present copies buf onto this surface 1:1, ignoring the transform state.
	Present(buf Surface)
	// Snapshot returns the surface pixels as an image usable as a DrawImage
	// source.
	Snapshot() image.Image
}

// drawState is the part of the canvas state Save/Restore push and pop.
type drawState struct {
	m       [6]float64
	alpha   float64
	fill    Color
	stroke  Color
	lineW   float64
	clip    image.Rectangle
	clipped bool
}

// transformStack implements the state half of Surface for every backend.
type transformStack struct {
	cur   drawState
	stack []drawState
}

func newTransformStack() transformStack {
	return transformStack{cur: drawState{m: identityTransform, alpha: 1, fill: ColorWhite, stroke: ColorBlack, lineW: 1}}
}

func (t *transformStack) Save() {
	t.stack = append(t.stack, t.cur)
}

func (t *transformStack) Restore() {
	if len(t.stack) == 0 {
		return
	}
	t.cur = t.stack[len(t.stack)-1]
	t.stack = t.stack[:len(t.stack)-1]
}

func (t *transformStack) Translate(x, y float64) {
	t.cur.m = multiplyAffine(t.cur.m, [6]float64{1, 0, 0, 1, x, y})
}

func (t *transformStack) Scale(sx, sy float64) {
	t.cur.m = multiplyAffine(t.cur.m, [6]float64{sx, 0, 0, sy, 0, 0})
}

func (t *transformStack) Rotate(r float64) {
	sin, cos := math.Sincos(r)
	t.cur.m = multiplyAffine(t.cur.m, [6]float64{cos, sin, -sin, cos, 0, 0})
}

func (t *transformStack) SetAlpha(a float64) {
	t.cur.alpha *= clamp01(a)
}

func (t *transformStack) SetFillColor(c Color) {
	t.cur.fill = c
}

func (t *transformStack) SetStroke(c Color, width float64) {
	t.cur.stroke = c
	t.cur.lineW = width
}

// Matrix returns the current transform.
func (t *transformStack) Matrix() [6]float64 {
	return t.cur.m
}

// Alpha returns the current accumulated alpha.
func (t *transformStack) Alpha() float64 {
	return t.cur.alpha
}

// clipTo intersects the clip with the device-space bounding box of r.
func (t *transformStack) clipTo(r Rect) {
	box := t.deviceBounds(r)
	if t.cur.clipped {
		box = box.Intersect(t.cur.clip)
	}
	t.cur.clip = box
	t.cur.clipped = true
}

// deviceBounds returns the integer bounding box of r under the current matrix.
func (t *transformStack) deviceBounds(r Rect) image.Rectangle {
	pts := t.quad(r)
	minX, minY := pts[0][0], pts[0][1]
	maxX, maxY := minX, minY
	for _, p := range pts[1:] {
		minX = math.Min(minX, p[0])
		minY = math.Min(minY, p[1])
		maxX = math.Max(maxX, p[0])
		maxY = math.Max(maxY, p[1])
	}
	return image.Rect(int(math.Floor(minX)), int(math.Floor(minY)), int(math.Ceil(maxX)), int(math.Ceil(maxY)))
}

// quad returns the four device-space corners of r, clockwise from top-left.
func (t *transformStack) quad(r Rect) [4][2]float64 {
	m := t.cur.m
	var q [4][2]float64
	q[0][0], q[0][1] = transformPoint(m, r.X, r.Y)
	q[1][0], q[1][1] = transformPoint(m, r.X+r.Width, r.Y)
	q[2][0], q[2][1] = transformPoint(m, r.X+r.Width, r.Y+r.Height)
	q[3][0], q[3][1] = transformPoint(m, r.X, r.Y+r.Height)
	return q
}

// circleSegments is the polygon resolution used for circles.
const circleSegments = 48

// circlePoints returns the device-space polygon approximating a circle.
func (t *transformStack) circlePoints(cx, cy, radius float64) [][2]float64 {
	pts := make([][2]float64, circleSegments)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / circleSegments
		pts[i][0], pts[i][1] = transformPoint(t.cur.m, cx+radius*math.Cos(a), cy+radius*math.Sin(a))
	}
	return pts
}

// withAlpha returns c with its alpha scaled by the current alpha.
func (t *transformStack) withAlpha(c Color) Color {
	c.A *= t.cur.alpha
	return c
}
