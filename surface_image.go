package stagehand

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/vector"
)

// ImageSurface is a software Surface over an *image.RGBA pixel buffer.
// Shapes are rasterized with golang.org/x/image/vector and images are blitted
// with golang.org/x/image/draw affine transforms.
type ImageSurface struct {
	transformStack
	img *image.RGBA
	z   *vector.Rasterizer

	// Interpolator used for image blits. Defaults to draw.ApproxBiLinear.
	Interpolator draw.Interpolator
}

// NewImageSurface creates a transparent w×h surface.
func NewImageSurface(w, h int) *ImageSurface {
	return &ImageSurface{
		transformStack: newTransformStack(),
		img:            image.NewRGBA(image.Rect(0, 0, w, h)),
		z:              vector.NewRasterizer(w, h),
		Interpolator:   draw.ApproxBiLinear,
	}
}

// Image returns the backing pixel buffer.
func (s *ImageSurface) Image() *image.RGBA {
	return s.img
}

// Snapshot returns the current pixels.
func (s *ImageSurface) Snapshot() image.Image {
	return s.img
}

func (s *ImageSurface) Size() (int, int) {
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

func (s *ImageSurface) Clear() {
	draw.Draw(s.img, s.img.Bounds(), image.Transparent, image.Point{}, draw.Src)
}

func (s *ImageSurface) NewBuffer(w, h int) Surface {
	return NewImageSurface(w, h)
}

func (s *ImageSurface) Present(buf Surface) {
	src, ok := buf.(interface{ Snapshot() image.Image })
	if !ok {
		return
	}
	img := src.Snapshot()
	draw.Draw(s.img, s.img.Bounds(), img, img.Bounds().Min, draw.Src)
}

func (s *ImageSurface) ClipRect(r Rect) {
	s.clipTo(r)
}

// target returns the draw destination honoring the current clip.
func (s *ImageSurface) target() draw.Image {
	if !s.cur.clipped {
		return s.img
	}
	return &clippedRGBA{RGBA: s.img, clip: s.cur.clip}
}

func (s *ImageSurface) FillRect(r Rect) {
	q := s.quad(r)
	s.fillPolygons(s.withAlpha(s.cur.fill), q[:])
}

func (s *ImageSurface) StrokeRect(r Rect) {
	hw := s.cur.lineW / 2
	outer := s.quad(Rect{r.X - hw, r.Y - hw, r.Width + 2*hw, r.Height + 2*hw})
	inner := s.quad(Rect{r.X + hw, r.Y + hw, r.Width - 2*hw, r.Height - 2*hw})
	// Reverse the inner ring so it cuts a hole.
	inner[1], inner[3] = inner[3], inner[1]
	s.fillPolygons(s.withAlpha(s.cur.stroke), outer[:], inner[:])
}

func (s *ImageSurface) FillCircle(cx, cy, radius float64) {
	s.fillPolygons(s.withAlpha(s.cur.fill), s.circlePoints(cx, cy, radius))
}

func (s *ImageSurface) StrokeCircle(cx, cy, radius float64) {
	hw := s.cur.lineW / 2
	outer := s.circlePoints(cx, cy, radius+hw)
	inner := s.circlePoints(cx, cy, max(0, radius-hw))
	for i, j := 0, len(inner)-1; i < j; i, j = i+1, j-1 {
		inner[i], inner[j] = inner[j], inner[i]
	}
	s.fillPolygons(s.withAlpha(s.cur.stroke), outer, inner)
}

// fillPolygons rasterizes closed device-space polygons into the buffer.
func (s *ImageSurface) fillPolygons(c Color, polys ...[][2]float64) {
	if c.IsZero() {
		return
	}
	w, h := s.Size()
	s.z.Reset(w, h)
	s.z.DrawOp = draw.Over
	for _, poly := range polys {
		if len(poly) < 3 {
			continue
		}
		s.z.MoveTo(float32(poly[0][0]), float32(poly[0][1]))
		for _, p := range poly[1:] {
			s.z.LineTo(float32(p[0]), float32(p[1]))
		}
		s.z.ClosePath()
	}
	s.z.Draw(s.target(), s.img.Bounds(), image.NewUniform(c.RGBA()), image.Point{})
}

func (s *ImageSurface) DrawImage(img image.Image, src image.Rectangle, dst Rect) {
	if img == nil || src.Empty() || dst.Width == 0 || dst.Height == 0 {
		return
	}
	m := multiplyAffine(s.cur.m, [6]float64{
		dst.Width / float64(src.Dx()), 0,
		0, dst.Height / float64(src.Dy()),
		dst.X - float64(src.Min.X)*dst.Width/float64(src.Dx()),
		dst.Y - float64(src.Min.Y)*dst.Height/float64(src.Dy()),
	})
	s2d := f64.Aff3{m[0], m[2], m[4], m[1], m[3], m[5]}
	var opts *draw.Options
	if a := s.cur.alpha; a < 1 {
		opts = &draw.Options{SrcMask: image.NewUniform(color.Alpha{A: uint8(a * 255)})}
	}
	s.Interpolator.Transform(s.target(), s2d, img, src, draw.Over, opts)
}

// clippedRGBA drops writes outside clip.
type clippedRGBA struct {
	*image.RGBA
	clip image.Rectangle
}

func (c *clippedRGBA) Set(x, y int, col color.Color) {
	if image.Pt(x, y).In(c.clip) {
		c.RGBA.Set(x, y, col)
	}
}

func (c *clippedRGBA) SetRGBA(x, y int, col color.RGBA) {
	if image.Pt(x, y).In(c.clip) {
		c.RGBA.SetRGBA(x, y, col)
	}
}

func (c *clippedRGBA) SetRGBA64(x, y int, col color.RGBA64) {
	if image.Pt(x, y).In(c.clip) {
		c.RGBA.SetRGBA64(x, y, col)
	}
}
