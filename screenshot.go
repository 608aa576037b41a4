package stagehand

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/image/draw"
)

// Screenshot queues a labeled capture of the off-screen buffer. It is taken
// at the end of the current tick, after drawing, and written as a PNG to
// Config.ScreenshotDir with a timestamped file name.
func (d *Director) Screenshot(label string) {
	d.screenshotQueue = append(d.screenshotQueue, label)
}

// flushScreenshots writes every queued screenshot. Failures are logged.
func (d *Director) flushScreenshots() {
	if len(d.screenshotQueue) == 0 {
		return
	}
	defer func() { d.screenshotQueue = d.screenshotQueue[:0] }()
	if d.offscreen == nil {
		d.log.Warn("screenshot skipped: nothing drawn yet", "count", len(d.screenshotQueue))
		return
	}
	if err := os.MkdirAll(d.cfg.ScreenshotDir, 0o755); err != nil {
		d.log.Warn("screenshot: mkdir", "dir", d.cfg.ScreenshotDir, "err", err)
		return
	}

	img := snapshotRGBA(d.offscreen.Snapshot())
	stamp := d.now().Format("20060102_150405")
	for _, label := range d.screenshotQueue {
		path := filepath.Join(d.cfg.ScreenshotDir, fmt.Sprintf("%s_%s.png", stamp, sanitizeLabel(label)))
		if err := writePNG(path, img); err != nil {
			d.log.Warn("screenshot", "err", err)
			continue
		}
		d.log.Info("screenshot written", "path", path)
	}
}

// snapshotRGBA copies img into a premultiplied RGBA buffer with its origin at
// (0, 0). Ebiten images are read back with ReadPixels.
func snapshotRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	if eb, ok := img.(*ebiten.Image); ok {
		eb.ReadPixels(out.Pix)
		return out
	}
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}

// writePNG encodes an image to a PNG file at path.
func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// sanitizeLabel replaces characters that are unsafe in file names with
// underscores and falls back to "unlabeled" for empty strings.
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	var b strings.Builder
	b.Grow(len(label))
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
