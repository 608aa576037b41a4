package stagehand

import (
	"image"
)

// RenderTexture is a persistent off-screen canvas usable as a node texture.
// Draw onto it with the Surface primitives, or render a whole subtree into it
// with DrawNode to cache static content. It is owned by the caller and is not
// cleared between frames.
type RenderTexture struct {
	surface Surface
	w, h    int
}

// NewRenderTexture creates a w×h canvas compatible with proto, typically the
// visible surface. A nil proto uses a software ImageSurface.
func NewRenderTexture(proto Surface, w, h int) *RenderTexture {
	var s Surface
	if proto != nil {
		s = proto.NewBuffer(w, h)
	} else {
		s = NewImageSurface(w, h)
	}
	return &RenderTexture{surface: s, w: w, h: h}
}

// Surface returns the canvas to draw on.
func (rt *RenderTexture) Surface() Surface { return rt.surface }

func (rt *RenderTexture) Width() int         { return rt.w }
func (rt *RenderTexture) Height() int        { return rt.h }
func (rt *RenderTexture) Ready() bool        { return true }
func (rt *RenderTexture) OnReady(fn func())  { fn() }
func (rt *RenderTexture) Image() image.Image { return rt.surface.Snapshot() }

// Clear fills the texture with transparent black.
func (rt *RenderTexture) Clear() {
	rt.surface.Clear()
}

// Fill fills the entire texture with c.
func (rt *RenderTexture) Fill(c Color) {
	rt.surface.Save()
	rt.surface.SetFillColor(c)
	rt.surface.FillRect(Rect{0, 0, float64(rt.w), float64(rt.h)})
	rt.surface.Restore()
}

// DrawNode renders n and its subtree into the texture, with n's own position
// relative to the texture's top-left corner.
func (rt *RenderTexture) DrawNode(n *Node) {
	n.Visit(rt.surface)
}

// NewSpriteNode creates a node showing this texture.
func (rt *RenderTexture) NewSpriteNode(name string) *Node {
	return NewSprite(name, rt)
}

// Resize replaces the canvas with a cleared one of the new size. Nodes
// showing the texture keep their size.
func (rt *RenderTexture) Resize(w, h int) {
	if w == rt.w && h == rt.h {
		return
	}
	rt.surface = rt.surface.NewBuffer(w, h)
	rt.w, rt.h = w, h
}
