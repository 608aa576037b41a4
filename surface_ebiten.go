package stagehand

import (
	"image"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// whitePixel is a 1x1 white image used to draw solid shapes.
// Created lazily; ebiten images must not be created before the game starts
// on some platforms.
var whitePixel *ebiten.Image

func ensureWhitePixel() *ebiten.Image {
	if whitePixel == nil {
		whitePixel = ebiten.NewImage(1, 1)
		whitePixel.Fill(ColorWhite.RGBA())
	}
	return whitePixel
}

// EbitenSurface is a Surface over an *ebiten.Image, typically the screen or an
// off-screen buffer created with NewBuffer.
type EbitenSurface struct {
	transformStack
	img *ebiten.Image

	// converted caches ebiten copies of non-ebiten source images. Entries
	// unused for cacheTTL frames are deallocated on Clear.
	converted map[image.Image]*convertedImage
	frame     uint64
	op        ebiten.DrawImageOptions
	tri       ebiten.DrawTrianglesOptions
	verts     []ebiten.Vertex
	inds      []uint16
}

// NewEbitenSurface wraps img.
func NewEbitenSurface(img *ebiten.Image) *EbitenSurface {
	return &EbitenSurface{transformStack: newTransformStack(), img: img}
}

// Image returns the wrapped ebiten image.
func (s *EbitenSurface) Image() *ebiten.Image {
	return s.img
}

// Snapshot returns the wrapped image. Pixel reads are only valid while the
// ebiten game loop is running.
func (s *EbitenSurface) Snapshot() image.Image {
	return s.img
}

// reset rebinds the surface to a new target and clears the state stack.
// Used by the game adapter, which receives a fresh screen image every frame.
func (s *EbitenSurface) reset(img *ebiten.Image) {
	s.img = img
	s.transformStack = newTransformStack()
}

func (s *EbitenSurface) Size() (int, int) {
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

func (s *EbitenSurface) Clear() {
	s.img.Clear()
	s.frame++
	for src, c := range s.converted {
		if s.frame-c.used > cacheTTL {
			c.img.Deallocate()
			delete(s.converted, src)
		}
	}
}

func (s *EbitenSurface) NewBuffer(w, h int) Surface {
	return NewEbitenSurface(ebiten.NewImage(w, h))
}

func (s *EbitenSurface) Present(buf Surface) {
	eb, ok := buf.(*EbitenSurface)
	if !ok {
		return
	}
	s.op.GeoM.Reset()
	s.op.ColorScale.Reset()
	s.op.Blend = ebiten.BlendCopy
	s.img.DrawImage(eb.img, &s.op)
	s.op.Blend = ebiten.BlendSourceOver
}

func (s *EbitenSurface) ClipRect(r Rect) {
	s.clipTo(r)
}

// target returns the destination honoring the current clip.
func (s *EbitenSurface) target() *ebiten.Image {
	if !s.cur.clipped {
		return s.img
	}
	return s.img.SubImage(s.cur.clip).(*ebiten.Image)
}

// geoM converts an affine matrix to an ebiten.GeoM.
func geoM(m [6]float64) ebiten.GeoM {
	var g ebiten.GeoM
	g.SetElement(0, 0, m[0])
	g.SetElement(0, 1, m[2])
	g.SetElement(0, 2, m[4])
	g.SetElement(1, 0, m[1])
	g.SetElement(1, 1, m[3])
	g.SetElement(1, 2, m[5])
	return g
}

func (s *EbitenSurface) FillRect(r Rect) {
	s.solidRect(r, s.withAlpha(s.cur.fill))
}

func (s *EbitenSurface) StrokeRect(r Rect) {
	c := s.withAlpha(s.cur.stroke)
	hw := s.cur.lineW / 2
	s.solidRect(Rect{r.X - hw, r.Y - hw, r.Width + 2*hw, s.cur.lineW}, c)
	s.solidRect(Rect{r.X - hw, r.Y + r.Height - hw, r.Width + 2*hw, s.cur.lineW}, c)
	s.solidRect(Rect{r.X - hw, r.Y + hw, s.cur.lineW, r.Height - 2*hw}, c)
	s.solidRect(Rect{r.X + r.Width - hw, r.Y + hw, s.cur.lineW, r.Height - 2*hw}, c)
}

func (s *EbitenSurface) solidRect(r Rect, c Color) {
	if c.IsZero() || r.Width <= 0 || r.Height <= 0 {
		return
	}
	s.op.GeoM.Reset()
	s.op.GeoM.Scale(r.Width, r.Height)
	s.op.GeoM.Translate(r.X, r.Y)
	s.op.GeoM.Concat(geoM(s.cur.m))
	s.op.ColorScale.Reset()
	s.op.ColorScale.ScaleWithColor(c.RGBA())
	s.target().DrawImage(ensureWhitePixel(), &s.op)
}

func (s *EbitenSurface) FillCircle(cx, cy, radius float64) {
	c := s.withAlpha(s.cur.fill)
	if c.IsZero() {
		return
	}
	pts := s.circlePoints(cx, cy, radius)
	ccx, ccy := transformPoint(s.cur.m, cx, cy)
	s.verts = append(s.verts[:0], s.vertex(ccx, ccy, c))
	s.inds = s.inds[:0]
	for i, p := range pts {
		s.verts = append(s.verts, s.vertex(p[0], p[1], c))
		next := (i+1)%len(pts) + 1
		s.inds = append(s.inds, 0, uint16(i+1), uint16(next))
	}
	s.target().DrawTriangles(s.verts, s.inds, ensureWhitePixel(), &s.tri)
}

func (s *EbitenSurface) StrokeCircle(cx, cy, radius float64) {
	c := s.withAlpha(s.cur.stroke)
	if c.IsZero() {
		return
	}
	hw := s.cur.lineW / 2
	outer := s.circlePoints(cx, cy, radius+hw)
	inner := s.circlePoints(cx, cy, math.Max(0, radius-hw))
	s.verts = s.verts[:0]
	s.inds = s.inds[:0]
	for i := range outer {
		s.verts = append(s.verts, s.vertex(outer[i][0], outer[i][1], c), s.vertex(inner[i][0], inner[i][1], c))
	}
	n := uint16(len(outer))
	for i := uint16(0); i < n; i++ {
		o0, i0 := 2*i, 2*i+1
		o1, i1 := 2*((i+1)%n), 2*((i+1)%n)+1
		s.inds = append(s.inds, o0, i0, o1, o1, i0, i1)
	}
	s.target().DrawTriangles(s.verts, s.inds, ensureWhitePixel(), &s.tri)
}

func (s *EbitenSurface) vertex(x, y float64, c Color) ebiten.Vertex {
	a := float32(c.A)
	return ebiten.Vertex{
		DstX: float32(x), DstY: float32(y),
		SrcX: 0.5, SrcY: 0.5,
		ColorR: float32(c.R) * a, ColorG: float32(c.G) * a, ColorB: float32(c.B) * a, ColorA: a,
	}
}

func (s *EbitenSurface) DrawImage(img image.Image, src image.Rectangle, dst Rect) {
	if img == nil || src.Empty() || dst.Width == 0 || dst.Height == 0 {
		return
	}
	eb := s.ebitenImage(img)
	sub := eb.SubImage(src).(*ebiten.Image)
	s.op.GeoM.Reset()
	s.op.GeoM.Scale(dst.Width/float64(src.Dx()), dst.Height/float64(src.Dy()))
	s.op.GeoM.Translate(dst.X, dst.Y)
	s.op.GeoM.Concat(geoM(s.cur.m))
	s.op.ColorScale.Reset()
	s.op.ColorScale.ScaleAlpha(float32(s.cur.alpha))
	s.op.Filter = ebiten.FilterLinear
	s.target().DrawImage(sub, &s.op)
	s.op.Filter = ebiten.FilterNearest
}

// cacheTTL is the number of frames a converted image survives unused.
const cacheTTL = 60

type convertedImage struct {
	img  *ebiten.Image
	used uint64
}

// ebitenImage returns img as an *ebiten.Image, converting and caching
// non-ebiten images on first use. Pixels of a cached image are not
// re-uploaded; callers that redraw an image.Image in place must hand over a
// new image instead.
func (s *EbitenSurface) ebitenImage(img image.Image) *ebiten.Image {
	if eb, ok := img.(*ebiten.Image); ok {
		return eb
	}
	if c, ok := s.converted[img]; ok {
		c.used = s.frame
		return c.img
	}
	if s.converted == nil {
		s.converted = make(map[image.Image]*convertedImage)
	}
	eb := ebiten.NewImageFromImage(img)
	s.converted[img] = &convertedImage{img: eb, used: s.frame}
	return eb
}

// EbitenTexture is a texture over an *ebiten.Image. Always ready.
type EbitenTexture struct {
	img *ebiten.Image
}

// NewEbitenTexture wraps img.
func NewEbitenTexture(img *ebiten.Image) *EbitenTexture {
	return &EbitenTexture{img: img}
}

func (t *EbitenTexture) Width() int         { return t.img.Bounds().Dx() }
func (t *EbitenTexture) Height() int        { return t.img.Bounds().Dy() }
func (t *EbitenTexture) Ready() bool        { return true }
func (t *EbitenTexture) OnReady(fn func())  { fn() }
func (t *EbitenTexture) Image() image.Image { return t.img }
