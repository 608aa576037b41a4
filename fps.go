package stagehand

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	fpsWidgetW        = 100
	fpsWidgetH        = 32
	fpsWidgetInterval = 0.5
)

// NewFPSWidget creates a node that shows the measured tick rate and node
// count, refreshed every half second. Add it last to draw it on top.
func NewFPSWidget() *Node {
	n := NewNode("fps_widget")
	var elapsed float64
	var frames int
	n.setTexture(NewImageTexture(renderFPS(0, 0)))
	n.update = func(n *Node, dt float64) {
		elapsed += dt
		frames++
		if elapsed < fpsWidgetInterval {
			return
		}
		fps := float64(frames) / elapsed
		elapsed, frames = 0, 0
		nodes := 0
		if n.stage != nil {
			nodes = CountNodes(n.stage.root)
		}
		// A new image each refresh; GPU backends cache uploads per image.
		n.setTexture(NewImageTexture(renderFPS(fps, nodes)))
	}
	return n
}

// renderFPS draws the widget text onto a semi-transparent background.
func renderFPS(fps float64, nodes int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fpsWidgetW, fpsWidgetH))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{0, 0, 0, 128}), image.Point{}, draw.Src)
	dr := &font.Drawer{
		Dst:  img,
		Src:  image.White,
		Face: basicfont.Face7x13,
	}
	lines := []string{fmt.Sprintf("FPS: %.1f", fps), fmt.Sprintf("Nodes: %d", nodes)}
	for i, line := range lines {
		dr.Dot = fixed.P(4, 13+i*14)
		dr.DrawString(line)
	}
	return img
}
