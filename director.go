package stagehand

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"
)

// ErrExternalDriver is returned by Director.Run when the director is
// configured to be driven externally.
var ErrExternalDriver = errors.New("director is externally driven")

// Ticker delivers timer ticks to Director.Run. *time.Ticker satisfies it
// through NewTimeTicker.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type timeTicker struct{ t *time.Ticker }

func (t timeTicker) C() <-chan time.Time { return t.t.C }
func (t timeTicker) Stop()               { t.t.Stop() }

// NewTimeTicker returns a Ticker backed by time.NewTicker.
func NewTimeTicker(d time.Duration) Ticker {
	return timeTicker{time.NewTicker(d)}
}

// Director is the frame clock that drives a scene. It owns the root node,
// the ActionEngine, the deferred release pool, the off-screen buffer and the
// input state.
//
// Each tick runs, in order: queued input, the action engine, the root
// Update, the root Visit onto the off-screen buffer, presentation onto the
// visible surface, listener checks, the release pool and queued screenshots.
//
// A Director is not safe for concurrent use. Run drives it on the calling
// goroutine; in external mode the caller calls Update and Draw (or Step).
type Director struct {
	cfg    Config
	log    *slog.Logger
	root   *Node
	engine *ActionEngine

	surface   Surface // visible surface used by Step and Run
	offscreen Surface
	present   presentTransform

	// Release pool, drained once per tick after drawing.
	pending []*Node

	// Timer
	running   bool
	ticker    Ticker
	newTicker func(time.Duration) Ticker
	now       func() time.Time
	lastTick  time.Time
	frame     uint64

	// Input
	input       InputSource
	store       EntityStore
	pointerQ    []PointerEvent
	keyQ        []KeyEvent
	injectQueue []PointerEvent
	captured    map[int]*Node
	hitBuf      []*Node
	keyBuf      []*Node

	// Diagnostics
	debug           bool
	screenshotQueue []string
	testRunner      *TestRunner
}

// NewDirector creates a director with an empty root node. The root has the
// logical stage size and is on stage.
func NewDirector(cfg Config) *Director {
	cfg = cfg.withDefaults()
	d := &Director{
		cfg:       cfg,
		log:       cfg.Logger,
		engine:    NewActionEngine(),
		newTicker: NewTimeTicker,
		now:       time.Now,
		captured:  make(map[int]*Node),
	}
	d.engine.onFinish = d.emitActionDone
	d.root = NewNode("root")
	d.root.SetSize(float64(cfg.Width), float64(cfg.Height))
	d.root.setStage(d)
	if cfg.Debug {
		d.SetDebugMode(true)
	}
	return d
}

// Root returns the root node.
func (d *Director) Root() *Node {
	return d.root
}

// Engine returns the director's action engine.
func (d *Director) Engine() *ActionEngine {
	return d.engine
}

// Config returns the effective configuration.
func (d *Director) Config() Config {
	return d.cfg
}

// Logger returns the director's logger.
func (d *Director) Logger() *slog.Logger {
	return d.log
}

// Running reports whether Start has been called without a matching Stop.
func (d *Director) Running() bool {
	return d.running
}

// Frame returns the number of completed ticks.
func (d *Director) Frame() uint64 {
	return d.frame
}

// SetSurface sets the visible surface Step and Run present onto. If the
// stage has no configured size, the root takes the surface size.
func (d *Director) SetSurface(s Surface) {
	d.surface = s
	if s != nil && (d.cfg.Width <= 0 || d.cfg.Height <= 0) {
		w, h := s.Size()
		d.root.SetSize(float64(w), float64(h))
	}
}

// SetClock replaces the time source used by Run to compute frame deltas.
func (d *Director) SetClock(now func() time.Time) {
	if now != nil {
		d.now = now
	}
}

// SetTickerFactory replaces the constructor of the Run timer.
func (d *Director) SetTickerFactory(fn func(time.Duration) Ticker) {
	if fn != nil {
		d.newTicker = fn
	}
}

// SetInputSource sets the source polled at the start of each tick. When the
// director is running, the old source is detached and the new one attached.
func (d *Director) SetInputSource(src InputSource) {
	if d.running && d.input != nil {
		d.input.Detach()
	}
	d.input = src
	if d.running && src != nil {
		src.Attach(d)
	}
}

// SetEntityStore sets the optional ECS bridge.
func (d *Director) SetEntityStore(store EntityStore) {
	d.store = store
}

// --- Lifecycle ---

// Start attaches the input source and, unless the director is externally
// driven, arms the tick timer. No-op if already running.
func (d *Director) Start() {
	if d.running {
		return
	}
	d.running = true
	if d.input != nil {
		d.input.Attach(d)
	}
	d.lastTick = d.now()
	if !d.cfg.ExternalDriver {
		d.ticker = d.newTicker(d.interval())
	}
	d.log.Debug("director started", "fps", d.cfg.FPS, "external", d.cfg.ExternalDriver)
}

// Stop cancels the timer and detaches the input source. No-op if not
// running.
func (d *Director) Stop() {
	if !d.running {
		return
	}
	d.running = false
	if d.ticker != nil {
		d.ticker.Stop()
		d.ticker = nil
	}
	if d.input != nil {
		d.input.Detach()
	}
	d.log.Debug("director stopped", "frames", d.frame)
}

func (d *Director) interval() time.Duration {
	return time.Duration(float64(time.Second) / float64(d.cfg.FPS))
}

// Run starts the director and ticks it on the calling goroutine until ctx
// is done or Stop is called. Returns ctx.Err() on cancellation and nil after
// Stop. Fails with ErrExternalDriver in external mode.
func (d *Director) Run(ctx context.Context) error {
	if d.cfg.ExternalDriver {
		return fmt.Errorf("stagehand: Run: %w", ErrExternalDriver)
	}
	d.Start()
	defer d.Stop()
	for d.running && d.ticker != nil {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-d.ticker.C():
			d.tick()
		}
	}
	return nil
}

// tick computes the elapsed time since the previous tick and steps.
func (d *Director) tick() {
	now := d.now()
	dt := now.Sub(d.lastTick).Seconds()
	d.lastTick = now
	d.Step(dt)
}

// Step runs one full tick of dt seconds and presents onto the surface set
// with SetSurface, if any.
func (d *Director) Step(dt float64) {
	d.Update(dt)
	d.Draw(d.surface)
}

// Update runs the logical half of a tick: input, the action engine and the
// root Update.
func (d *Director) Update(dt float64) {
	var t0 time.Time
	if d.debug {
		t0 = time.Now()
	}
	if d.testRunner != nil {
		d.testRunner.step(d)
	}
	d.processInput()
	d.engine.StepActions(dt)
	d.root.Update(dt)
	if d.debug {
		d.log.Debug("update", "frame", d.frame, "dt", dt, "elapsed", time.Since(t0), "actions", d.engine.Active())
	}
}

// Draw runs the drawing half of a tick: the root Visit onto the off-screen
// buffer and its presentation onto visible, then listener checks, the
// release pool and screenshots. A nil visible skips drawing.
func (d *Director) Draw(visible Surface) {
	var stats debugStats
	if visible != nil {
		d.render(visible, &stats)
	}
	d.engine.CheckListeners()
	d.drainReleased()
	d.flushScreenshots()
	d.frame++
	if d.debug && visible != nil {
		d.debugLog(stats)
	}
}

// render draws the scene onto a freshly cleared off-screen buffer and
// presents it in a single blit.
func (d *Director) render(visible Surface, stats *debugStats) {
	var t0 time.Time
	if d.debug {
		t0 = time.Now()
	}
	vw, vh := visible.Size()
	lw, lh := d.stageSize(vw, vh)
	if d.cfg.Width <= 0 || d.cfg.Height <= 0 {
		d.root.SetSize(float64(lw), float64(lh))
	}
	if d.offscreen == nil {
		d.offscreen = visible.NewBuffer(lw, lh)
	} else if w, h := d.offscreen.Size(); w != lw || h != lh {
		d.offscreen = visible.NewBuffer(lw, lh)
	}
	buf := d.offscreen
	buf.Clear()
	if !d.cfg.ClearColor.IsZero() {
		buf.SetFillColor(d.cfg.ClearColor)
		buf.FillRect(Rect{0, 0, float64(lw), float64(lh)})
	}

	var vs *visitStats
	if d.debug {
		vs = &visitStats{}
	}
	d.root.visit(buf, vs)
	if d.debug {
		stats.visitTime = time.Since(t0)
		stats.nodes, stats.draws = vs.nodes, vs.draws
		t0 = time.Now()
	}

	d.present = computePresent(d.cfg.ScaleMode, lw, lh, vw, vh)
	if d.present.identity() && lw == vw && lh == vh {
		visible.Present(buf)
	} else {
		visible.Clear()
		visible.Save()
		visible.Translate(d.present.ox, d.present.oy)
		visible.Scale(d.present.sx, d.present.sy)
		img := buf.Snapshot()
		visible.DrawImage(img, img.Bounds(), Rect{0, 0, float64(lw), float64(lh)})
		visible.Restore()
	}
	if d.debug {
		stats.presentTime = time.Since(t0)
	}
}

// stageSize returns the logical stage size for a visible surface of vw×vh.
func (d *Director) stageSize(vw, vh int) (int, int) {
	w, h := d.cfg.Width, d.cfg.Height
	if w <= 0 || h <= 0 {
		return vw, vh
	}
	return w, h
}

// presentTransform maps stage coordinates to visible-surface coordinates:
// visible = stage*s + o.
type presentTransform struct {
	sx, sy, ox, oy float64
}

func (p presentTransform) identity() bool {
	return p.sx == 1 && p.sy == 1 && p.ox == 0 && p.oy == 0
}

// toStage maps a visible-surface point to stage coordinates.
func (p presentTransform) toStage(x, y float64) (float64, float64) {
	if p.sx == 0 || p.sy == 0 {
		return x, y
	}
	return (x - p.ox) / p.sx, (y - p.oy) / p.sy
}

func computePresent(mode ScaleMode, lw, lh, vw, vh int) presentTransform {
	if lw <= 0 || lh <= 0 {
		return presentTransform{1, 1, 0, 0}
	}
	fx, fy := float64(vw)/float64(lw), float64(vh)/float64(lh)
	var s float64
	switch mode {
	case ScaleStretch:
		return presentTransform{fx, fy, 0, 0}
	case ScaleFit:
		s = math.Min(fx, fy)
	case ScaleFill:
		s = math.Max(fx, fy)
	default:
		return presentTransform{1, 1, 0, 0}
	}
	return presentTransform{s, s,
		(float64(vw) - float64(lw)*s) / 2,
		(float64(vh) - float64(lh)*s) / 2,
	}
}

// --- Release pool ---

// deferRelease queues n for disposal at the end of the current tick.
func (d *Director) deferRelease(n *Node) {
	d.pending = append(d.pending, n)
}

// Pending returns the number of released nodes awaiting disposal.
func (d *Director) Pending() int {
	return len(d.pending)
}

func (d *Director) drainReleased() {
	if len(d.pending) == 0 {
		return
	}
	pending := d.pending
	d.pending = nil
	for _, n := range pending {
		d.releaseCaptures(n)
		n.dispose()
	}
	clear(pending)
	if d.pending == nil {
		d.pending = pending[:0]
	}
}

// --- Debug ---

// SetDebugMode enables or disables debug mode. When enabled, use of disposed
// nodes in tree operations panics, deep trees and wide nodes are warned
// about, and per-frame timings are logged at debug level.
func (d *Director) SetDebugMode(enabled bool) {
	d.debug = enabled
	globalDebug = enabled
	if enabled {
		debugLogger = d.log
	}
}

// globalDebug mirrors the most recently set Director debug flag so that node
// operations, which lack a Director pointer, can check it cheaply.
var globalDebug bool
