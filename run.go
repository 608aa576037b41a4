package stagehand

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Game adapts a Director to ebiten.Game. Ebiten's loop drives the director
// in external mode: Update runs the logical half of a tick and Draw the
// drawing half.
type Game struct {
	d      *Director
	screen *EbitenSurface
}

// NewGame wraps d. d should be configured with ExternalDriver.
func NewGame(d *Director) *Game {
	return &Game{d: d, screen: NewEbitenSurface(nil)}
}

// Update implements ebiten.Game. Returns ebiten.Termination once the
// director has been stopped.
func (g *Game) Update() error {
	if !g.d.running {
		return ebiten.Termination
	}
	g.d.Update(1 / float64(ebiten.TPS()))
	return nil
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	g.screen.reset(screen)
	g.d.Draw(g.screen)
}

// Layout implements ebiten.Game. With ScaleNone and a configured stage size
// the screen is the stage size; otherwise the screen follows the window and
// the stage is scaled onto it.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	cfg := g.d.cfg
	if cfg.ScaleMode == ScaleNone && cfg.Width > 0 && cfg.Height > 0 {
		return cfg.Width, cfg.Height
	}
	return outsideWidth, outsideHeight
}

// RunEbiten opens a window and runs d on ebiten's game loop until the window
// closes or d is stopped. The director is switched to external mode and gets
// an EbitenInput source unless one is already set.
func RunEbiten(d *Director) error {
	d.cfg.ExternalDriver = true
	if d.input == nil {
		d.SetInputSource(NewEbitenInput())
	}
	cfg := d.cfg
	if cfg.Title != "" {
		ebiten.SetWindowTitle(cfg.Title)
	}
	if cfg.Width > 0 && cfg.Height > 0 {
		ebiten.SetWindowSize(cfg.Width, cfg.Height)
	}
	if cfg.ScaleMode != ScaleNone {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	ebiten.SetTPS(cfg.FPS)
	d.Start()
	defer d.Stop()
	return ebiten.RunGame(NewGame(d))
}

// EbitenInput is an InputSource reading mouse, touch and keyboard state from
// ebiten. Touch IDs are reported as pointer IDs offset by one so they never
// collide with the mouse.
type EbitenInput struct {
	d        *Director
	mouseX   int
	mouseY   int
	mouseIn  bool
	touchIDs []ebiten.TouchID
	keys     []ebiten.Key
}

// NewEbitenInput creates an unattached ebiten input source.
func NewEbitenInput() *EbitenInput {
	return &EbitenInput{}
}

func (in *EbitenInput) Attach(d *Director) { in.d = d }
func (in *EbitenInput) Detach()            { in.d = nil }

// Poll reports the input transitions of the current ebiten tick.
func (in *EbitenInput) Poll() {
	if in.d == nil {
		return
	}
	in.pollMouse()
	in.pollTouches()
	in.pollKeys()
}

func (in *EbitenInput) pollMouse() {
	x, y := ebiten.CursorPosition()
	pos := Vec2{float64(x), float64(y)}
	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		in.d.HandlePointer(PointerEvent{Kind: PointerBegin, Position: pos})
	case inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft):
		in.d.HandlePointer(PointerEvent{Kind: PointerEnded, Position: pos})
	case in.mouseIn && (x != in.mouseX || y != in.mouseY):
		in.d.HandlePointer(PointerEvent{Kind: PointerMoved, Position: pos})
	}
	in.mouseX, in.mouseY, in.mouseIn = x, y, true
}

func (in *EbitenInput) pollTouches() {
	in.touchIDs = inpututil.AppendJustPressedTouchIDs(in.touchIDs[:0])
	for _, id := range in.touchIDs {
		x, y := ebiten.TouchPosition(id)
		in.d.HandlePointer(PointerEvent{Kind: PointerBegin, Position: Vec2{float64(x), float64(y)}, ID: int(id) + 1, Touch: true})
	}
	in.touchIDs = ebiten.AppendTouchIDs(in.touchIDs[:0])
	for _, id := range in.touchIDs {
		if inpututil.TouchPressDuration(id) <= 1 {
			continue
		}
		x, y := ebiten.TouchPosition(id)
		px, py := inpututil.TouchPositionInPreviousTick(id)
		if x != px || y != py {
			in.d.HandlePointer(PointerEvent{Kind: PointerMoved, Position: Vec2{float64(x), float64(y)}, ID: int(id) + 1, Touch: true})
		}
	}
	in.touchIDs = inpututil.AppendJustReleasedTouchIDs(in.touchIDs[:0])
	for _, id := range in.touchIDs {
		x, y := inpututil.TouchPositionInPreviousTick(id)
		in.d.HandlePointer(PointerEvent{Kind: PointerEnded, Position: Vec2{float64(x), float64(y)}, ID: int(id) + 1, Touch: true})
	}
}

func (in *EbitenInput) pollKeys() {
	in.keys = inpututil.AppendJustPressedKeys(in.keys[:0])
	for _, k := range in.keys {
		in.d.HandleKey(KeyEvent{KeyCode: int(k), Kind: KeyDown})
	}
	in.keys = inpututil.AppendJustReleasedKeys(in.keys[:0])
	for _, k := range in.keys {
		in.d.HandleKey(KeyEvent{KeyCode: int(k), Kind: KeyUp})
	}
}
