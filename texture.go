package stagehand

import (
	"fmt"
	"image"
)

// Texture is an image source a node can draw. Loading is external: a texture
// may report Ready false and fire its OnReady callbacks once loaded.
type Texture interface {
	Width() int
	Height() int
	Ready() bool
	// OnReady registers a one-shot callback fired when the texture becomes
	// ready. Fires synchronously if it already is.
	OnReady(fn func())
	// Image returns the pixel source, or nil while not ready.
	Image() image.Image
}

// TextureSource resolves textures by name.
type TextureSource interface {
	Texture(name string) (Texture, error)
}

// ImageTexture is a texture over an already decoded image. Always ready.
type ImageTexture struct {
	img image.Image
}

// NewImageTexture wraps img.
func NewImageTexture(img image.Image) *ImageTexture {
	return &ImageTexture{img: img}
}

func (t *ImageTexture) Width() int         { return t.img.Bounds().Dx() }
func (t *ImageTexture) Height() int        { return t.img.Bounds().Dy() }
func (t *ImageTexture) Ready() bool        { return true }
func (t *ImageTexture) OnReady(fn func())  { fn() }
func (t *ImageTexture) Image() image.Image { return t.img }

// PendingTexture is a texture whose image arrives later, typically from an
// asynchronous loader. Resolve must be called on the frame loop.
type PendingTexture struct {
	img     image.Image
	waiters []func()
}

// NewPendingTexture creates a texture that is not ready yet.
func NewPendingTexture() *PendingTexture {
	return &PendingTexture{}
}

// Resolve sets the image and fires every queued OnReady callback once.
// Later calls replace the image without firing again.
func (t *PendingTexture) Resolve(img image.Image) {
	first := t.img == nil
	t.img = img
	if !first {
		return
	}
	waiters := t.waiters
	t.waiters = nil
	for _, fn := range waiters {
		fn()
	}
}

func (t *PendingTexture) Width() int {
	if t.img == nil {
		return 0
	}
	return t.img.Bounds().Dx()
}

func (t *PendingTexture) Height() int {
	if t.img == nil {
		return 0
	}
	return t.img.Bounds().Dy()
}

func (t *PendingTexture) Ready() bool        { return t.img != nil }
func (t *PendingTexture) Image() image.Image { return t.img }

func (t *PendingTexture) OnReady(fn func()) {
	if t.img != nil {
		fn()
		return
	}
	t.waiters = append(t.waiters, fn)
}

// TextureMap is a TextureSource over a plain map.
type TextureMap map[string]Texture

// Texture returns the named texture or an error wrapping ErrMissingTexture.
func (m TextureMap) Texture(name string) (Texture, error) {
	if t, ok := m[name]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("stagehand: texture %q: %w", name, ErrMissingTexture)
}

// subImager is implemented by image.RGBA, image.NRGBA, *ebiten.Image and most
// concrete image types.
type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

// subImage returns the r portion of img, sharing pixels where the image type
// allows it.
func subImage(img image.Image, r image.Rectangle) image.Image {
	if s, ok := img.(subImager); ok {
		return s.SubImage(r)
	}
	return &croppedImage{Image: img, r: r.Intersect(img.Bounds())}
}

type croppedImage struct {
	image.Image
	r image.Rectangle
}

func (c *croppedImage) Bounds() image.Rectangle { return c.r }
