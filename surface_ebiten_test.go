package stagehand

import (
	"image"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func TestGeoMMatchesTransformPoint(t *testing.T) {
	m := [6]float64{2, 0.5, -1, 3, 10, 20}
	g := geoM(m)
	for _, pt := range [][2]float64{{0, 0}, {1, 0}, {0, 1}, {3, -2}} {
		gx, gy := g.Apply(pt[0], pt[1])
		wx, wy := transformPoint(m, pt[0], pt[1])
		if gx != wx || gy != wy {
			t.Errorf("GeoM(%v) = (%v, %v), want (%v, %v)", pt, gx, gy, wx, wy)
		}
	}
}

func TestEbitenSurfaceSizeAndBuffer(t *testing.T) {
	s := NewEbitenSurface(ebiten.NewImage(64, 32))
	if w, h := s.Size(); w != 64 || h != 32 {
		t.Errorf("size = %dx%d, want 64x32", w, h)
	}
	buf := s.NewBuffer(16, 8)
	if _, ok := buf.(*EbitenSurface); !ok {
		t.Fatalf("buffer = %T, want *EbitenSurface", buf)
	}
	if w, h := buf.Size(); w != 16 || h != 8 {
		t.Errorf("buffer size = %dx%d, want 16x8", w, h)
	}
}

func TestEbitenSurfaceCachesConversions(t *testing.T) {
	s := NewEbitenSurface(ebiten.NewImage(8, 8))
	src := image.NewRGBA(image.Rect(0, 0, 4, 4))
	a := s.ebitenImage(src)
	b := s.ebitenImage(src)
	if a != b {
		t.Error("the same source image should convert once")
	}
	eb := ebiten.NewImage(2, 2)
	if s.ebitenImage(eb) != eb {
		t.Error("ebiten images should pass through")
	}
}

func TestEbitenTexture(t *testing.T) {
	tex := NewEbitenTexture(ebiten.NewImage(12, 6))
	if tex.Width() != 12 || tex.Height() != 6 || !tex.Ready() {
		t.Error("texture should report the image size and be ready")
	}
	n := NewSprite("s", tex)
	if n.Width() != 12 {
		t.Errorf("sprite width = %v, want 12", n.Width())
	}
}

func TestGameLayout(t *testing.T) {
	g := NewGame(NewDirector(Config{Width: 320, Height: 240}))
	if w, h := g.Layout(800, 600); w != 320 || h != 240 {
		t.Errorf("layout = %dx%d, want 320x240", w, h)
	}
	g = NewGame(NewDirector(Config{Width: 320, Height: 240, ScaleMode: ScaleFit}))
	if w, h := g.Layout(800, 600); w != 800 || h != 600 {
		t.Errorf("layout = %dx%d, want 800x600", w, h)
	}
}

func TestGameUpdateTerminatesWhenStopped(t *testing.T) {
	d := NewDirector(Config{ExternalDriver: true})
	g := NewGame(d)
	if err := g.Update(); err != ebiten.Termination {
		t.Errorf("Update = %v, want ebiten.Termination", err)
	}
	d.Start()
	if err := g.Update(); err != nil {
		t.Errorf("Update = %v, want nil", err)
	}
}
