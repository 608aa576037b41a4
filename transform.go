package stagehand

import "math"

// identityTransform is the identity affine matrix.
var identityTransform = [6]float64{1, 0, 0, 1, 0, 0}

// computeLocalTransform computes the matrix mapping a node's box space (top-left
// at 0,0) into its parent's box space. Returns [a, b, c, d, tx, ty].
//
// Composition order, matching Visit:
//
//	Translate(X, Y) -> Scale (with flips) -> Rotate -> Translate(-originPx)
func computeLocalTransform(n *Node) [6]float64 {
	sx, sy := n.effectiveScale()
	sin, cos := math.Sincos(normalizeRadians(n.radians))

	// Scale * Rotate
	a := cos * sx
	b := sin * sy
	c := -sin * sx
	d := cos * sy

	// Translate(-originPx) folded in, then Translate(X, Y).
	ox, oy := n.h.originPx, n.v.originPx
	return [6]float64{a, b, c, d,
		n.h.pos - (a*ox + c*oy),
		n.v.pos - (b*ox + d*oy),
	}
}

// effectiveScale returns the scale with flips applied as sign changes.
func (n *Node) effectiveScale() (float64, float64) {
	sx, sy := n.scaleX, n.scaleY
	if n.FlippedX {
		sx = -sx
	}
	if n.FlippedY {
		sy = -sy
	}
	return sx, sy
}

// normalizeRadians reduces r into [0, 2π).
func normalizeRadians(r float64) float64 {
	r = math.Mod(r, 2*math.Pi)
	if r < 0 {
		r += 2 * math.Pi
	}
	return r
}

// multiplyAffine multiplies two 2D affine matrices: result = parent * child.
//
//	Matrix layout: [a, b, c, d, tx, ty]
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
func multiplyAffine(p, c [6]float64) [6]float64 {
	return [6]float64{
		p[0]*c[0] + p[2]*c[1],
		p[1]*c[0] + p[3]*c[1],
		p[0]*c[2] + p[2]*c[3],
		p[1]*c[2] + p[3]*c[3],
		p[0]*c[4] + p[2]*c[5] + p[4],
		p[1]*c[4] + p[3]*c[5] + p[5],
	}
}

// invertAffine computes the inverse of a 2D affine matrix.
// Returns the identity matrix if the matrix is singular (determinant ≈ 0).
func invertAffine(m [6]float64) [6]float64 {
	det := m[0]*m[3] - m[2]*m[1]
	if det > -1e-12 && det < 1e-12 {
		return identityTransform
	}
	invDet := 1.0 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	return [6]float64{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}
}

// transformPoint applies an affine matrix to a point.
func transformPoint(m [6]float64, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// worldTransform composes the local transforms from the root down to n.
// Computed on demand; nodes do not cache world state between frames.
func (n *Node) worldTransform() [6]float64 {
	if n.parent == nil {
		return computeLocalTransform(n)
	}
	return multiplyAffine(n.parent.worldTransform(), computeLocalTransform(n))
}

// --- Transform property setters ---

// SetX sets the node's local x position. Pins and alignment override it on
// the next re-layout.
func (n *Node) SetX(x float64) { n.h.pos = x }

// SetY sets the node's local y position.
func (n *Node) SetY(y float64) { n.v.pos = y }

// SetPosition sets the node's local X and Y.
func (n *Node) SetPosition(x, y float64) {
	n.h.pos = x
	n.v.pos = y
}

// ScaleX returns the horizontal scale factor.
func (n *Node) ScaleX() float64 { return n.scaleX }

// ScaleY returns the vertical scale factor.
func (n *Node) ScaleY() float64 { return n.scaleY }

// SetScale sets the node's ScaleX and ScaleY.
func (n *Node) SetScale(sx, sy float64) {
	n.scaleX = sx
	n.scaleY = sy
}

// Rotation returns the rotation in degrees.
func (n *Node) Rotation() float64 { return n.rotation }

// SetRotation sets the rotation in degrees (clockwise) and refreshes the
// cached radians.
func (n *Node) SetRotation(deg float64) {
	n.rotation = deg
	n.radians = deg * math.Pi / 180
}

// --- Coordinate conversion ---

// WorldToLocal converts a point in root space to this node's box space.
func (n *Node) WorldToLocal(wx, wy float64) (lx, ly float64) {
	return transformPoint(invertAffine(n.worldTransform()), wx, wy)
}

// LocalToWorld converts a point in this node's box space to root space.
func (n *Node) LocalToWorld(lx, ly float64) (wx, wy float64) {
	return transformPoint(n.worldTransform(), lx, ly)
}
