package stagehand

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config configures a Director.
type Config struct {
	// Title is the window title used by RunEbiten.
	Title string `yaml:"title"`
	// Width and Height are the logical stage size. Zero uses the size of the
	// visible surface.
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	// FPS is the tick rate of the internal timer. Defaults to 60.
	FPS int `yaml:"fps"`
	// ExternalDriver disables the internal timer; the caller drives ticks
	// with Update/Draw or Step.
	ExternalDriver bool `yaml:"externalDriver"`
	// ScaleMode maps the logical stage onto the visible surface.
	ScaleMode ScaleMode `yaml:"scaleMode"`
	// ClearColor fills the off-screen buffer before each frame is drawn.
	ClearColor Color `yaml:"clearColor"`
	// Debug enables debug mode (see Director.SetDebugMode).
	Debug bool `yaml:"debug"`
	// ScreenshotDir is where Director.Screenshot writes PNG files.
	// Defaults to "screenshots".
	ScreenshotDir string `yaml:"screenshotDir"`

	// Logger receives debug and warning output. Nil discards.
	Logger *slog.Logger `yaml:"-"`
}

const (
	defaultFPS           = 60
	defaultScreenshotDir = "screenshots"
)

func (c Config) withDefaults() Config {
	if c.FPS <= 0 {
		c.FPS = defaultFPS
	}
	if c.ScreenshotDir == "" {
		c.ScreenshotDir = defaultScreenshotDir
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.DiscardHandler)
	}
	return c
}

// LoadConfig decodes a YAML director configuration. Unknown keys and unknown
// enum values fail.
func LoadConfig(data []byte) (Config, error) {
	var cfg Config
	if err := decodeYAML(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("stagehand: load config: %w", err)
	}
	return cfg, nil
}

func decodeYAML(data []byte, v any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// UnmarshalYAML decodes a scale mode name.
func (m *ScaleMode) UnmarshalYAML(value *yaml.Node) error {
	mode, err := ParseScaleMode(value.Value)
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

// UnmarshalYAML decodes an alignment name.
func (a *Align) UnmarshalYAML(value *yaml.Node) error {
	al, err := ParseAlign(value.Value)
	if err != nil {
		return err
	}
	*a = al
	return nil
}

// UnmarshalYAML accepts a hex string ("#rgb", "#rrggbb" or "#rrggbbaa") or a
// mapping with r, g, b and a in [0, 1]. Alpha defaults to 1.
func (c *Color) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		parsed, err := ParseColor(value.Value)
		if err != nil {
			return err
		}
		*c = parsed
		return nil
	}
	raw := struct {
		R float64  `yaml:"r"`
		G float64  `yaml:"g"`
		B float64  `yaml:"b"`
		A *float64 `yaml:"a"`
	}{}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	*c = Color{raw.R, raw.G, raw.B, 1}
	if raw.A != nil {
		c.A = *raw.A
	}
	return nil
}

// ParseColor parses "#rgb", "#rrggbb" or "#rrggbbaa".
func ParseColor(s string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return Color{}, fmt.Errorf("stagehand: color %q: want #rgb, #rrggbb or #rrggbbaa", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("stagehand: color %q: %w", s, err)
	}
	return Color{
		R: float64(v>>24&0xff) / 255,
		G: float64(v>>16&0xff) / 255,
		B: float64(v>>8&0xff) / 255,
		A: float64(v&0xff) / 255,
	}, nil
}

// --- Scene description ---

// NodeConfig is the declarative form of a node. Nil pointer fields keep the
// node's defaults. BuildNode applies the fields through the node's setters
// so that layout side effects run in a fixed order.
type NodeConfig struct {
	Name string `yaml:"name"`
	// Type is "node" (default) or "label".
	Type string `yaml:"type"`

	// Label text, drawn with textures named GlyphPrefix + the rune.
	Text        string `yaml:"text"`
	GlyphPrefix string `yaml:"glyphPrefix"`

	Texture string `yaml:"texture"`
	Grid    *Grid  `yaml:"grid"`

	Width   *float64 `yaml:"width"`
	Height  *float64 `yaml:"height"`
	OriginX *float64 `yaml:"originX"`
	OriginY *float64 `yaml:"originY"`

	PercentWidth  *float64 `yaml:"percentWidth"`
	PercentHeight *float64 `yaml:"percentHeight"`

	Top    *float64 `yaml:"top"`
	Right  *float64 `yaml:"right"`
	Bottom *float64 `yaml:"bottom"`
	Left   *float64 `yaml:"left"`

	AlignX Align `yaml:"alignX"`
	AlignY Align `yaml:"alignY"`

	X        *float64 `yaml:"x"`
	Y        *float64 `yaml:"y"`
	ScaleX   *float64 `yaml:"scaleX"`
	ScaleY   *float64 `yaml:"scaleY"`
	Rotation *float64 `yaml:"rotation"`
	FlippedX bool     `yaml:"flippedX"`
	FlippedY bool     `yaml:"flippedY"`

	Fill        *Color   `yaml:"fill"`
	BorderColor *Color   `yaml:"borderColor"`
	BorderWidth *float64 `yaml:"borderWidth"`
	Radius      *float64 `yaml:"radius"`
	Opacity     *float64 `yaml:"opacity"`
	Visible     *bool    `yaml:"visible"`
	Clip        bool     `yaml:"clip"`
	Interactive bool     `yaml:"interactive"`

	// Actions are queued on the node and started when it enters a stage.
	Actions []ActionConfig `yaml:"actions"`

	Children []NodeConfig `yaml:"children"`
}

// ActionConfig describes one queued behavior. Exactly one field is set.
type ActionConfig struct {
	Wait    *float64          `yaml:"wait"`
	To      *TransitionConfig `yaml:"to"`
	Animate *AnimateConfig    `yaml:"animate"`
}

func (ac ActionConfig) count() int {
	c := 0
	if ac.Wait != nil {
		c++
	}
	if ac.To != nil {
		c++
	}
	if ac.Animate != nil {
		c++
	}
	return c
}

// TransitionConfig describes a Transition. Attrs maps attribute names
// (see ParseAttr) to destinations.
type TransitionConfig struct {
	Duration float64            `yaml:"duration"`
	Easing   string             `yaml:"easing"`
	Attrs    map[string]float64 `yaml:"attrs"`
}

// AnimateConfig describes a FrameAnimation over named textures.
type AnimateConfig struct {
	Frames      []string `yaml:"frames"`
	FrameRate   float64  `yaml:"frameRate"`
	Repetitions int      `yaml:"repetitions"`
}

// LoadScene decodes a YAML node description and builds it. Textures are
// resolved through textures, which may be nil for scenes without textures.
func LoadScene(data []byte, textures TextureSource) (*Node, error) {
	var cfg NodeConfig
	if err := decodeYAML(data, &cfg); err != nil {
		return nil, fmt.Errorf("stagehand: load scene: %w", err)
	}
	return BuildNode(cfg, textures)
}

// BuildNode creates the node tree described by cfg. Fields are applied in
// dependency order: texture, size, origin, percent size, edge pins,
// alignment, transform, visuals, actions and children.
func BuildNode(cfg NodeConfig, textures TextureSource) (*Node, error) {
	n, err := newConfiguredNode(cfg, textures)
	if err != nil {
		return nil, err
	}
	fail := func(err error) (*Node, error) {
		n.Release(true)
		return nil, err
	}

	if cfg.Texture != "" {
		tex, err := lookupTexture(textures, cfg.Texture)
		if err != nil {
			return fail(fmt.Errorf("stagehand: node %q: %w", cfg.Name, err))
		}
		if err := n.SetTexture(tex); err != nil {
			return fail(err)
		}
	}
	if cfg.Grid != nil {
		g := *cfg.Grid
		n.SetGrid(&g)
	}

	if cfg.Width != nil {
		n.SetWidth(*cfg.Width)
	}
	if cfg.Height != nil {
		n.SetHeight(*cfg.Height)
	}
	if cfg.OriginX != nil {
		n.SetOriginX(*cfg.OriginX)
	}
	if cfg.OriginY != nil {
		n.SetOriginY(*cfg.OriginY)
	}

	if cfg.PercentWidth != nil {
		if err := n.SetPercentWidth(*cfg.PercentWidth); err != nil {
			return fail(err)
		}
	}
	if cfg.PercentHeight != nil {
		if err := n.SetPercentHeight(*cfg.PercentHeight); err != nil {
			return fail(err)
		}
	}

	pins := []struct {
		v   *float64
		set func(float64) error
	}{
		{cfg.Left, n.SetLeft},
		{cfg.Right, n.SetRight},
		{cfg.Top, n.SetTop},
		{cfg.Bottom, n.SetBottom},
	}
	for _, p := range pins {
		if p.v == nil {
			continue
		}
		if err := p.set(*p.v); err != nil {
			return fail(err)
		}
	}

	if err := n.SetAlignX(cfg.AlignX); err != nil {
		return fail(err)
	}
	if err := n.SetAlignY(cfg.AlignY); err != nil {
		return fail(err)
	}

	if cfg.X != nil {
		n.SetX(*cfg.X)
	}
	if cfg.Y != nil {
		n.SetY(*cfg.Y)
	}
	sx, sy := n.scaleX, n.scaleY
	if cfg.ScaleX != nil {
		sx = *cfg.ScaleX
	}
	if cfg.ScaleY != nil {
		sy = *cfg.ScaleY
	}
	n.SetScale(sx, sy)
	if cfg.Rotation != nil {
		n.SetRotation(*cfg.Rotation)
	}
	n.FlippedX = cfg.FlippedX
	n.FlippedY = cfg.FlippedY

	if cfg.Fill != nil {
		n.Fill = *cfg.Fill
	}
	if cfg.BorderColor != nil {
		n.BorderColor = *cfg.BorderColor
	}
	if cfg.BorderWidth != nil {
		n.BorderWidth = *cfg.BorderWidth
	}
	if cfg.Radius != nil {
		n.Radius = *cfg.Radius
	}
	if cfg.Opacity != nil {
		n.SetOpacity(*cfg.Opacity)
	}
	if cfg.Visible != nil {
		n.Visible = *cfg.Visible
	}
	n.Clip = cfg.Clip
	n.Interactive = cfg.Interactive

	if len(cfg.Actions) > 0 {
		if err := queueActions(n, cfg.Actions, textures); err != nil {
			return fail(fmt.Errorf("stagehand: node %q: %w", cfg.Name, err))
		}
		n.autoRun = true
	}

	for _, cc := range cfg.Children {
		child, err := BuildNode(cc, textures)
		if err != nil {
			return fail(err)
		}
		if err := n.AddChild(child); err != nil {
			child.Release(true)
			return fail(err)
		}
	}
	return n, nil
}

// newConfiguredNode creates the node of the configured type.
func newConfiguredNode(cfg NodeConfig, textures TextureSource) (*Node, error) {
	switch strings.ToLower(cfg.Type) {
	case "", "node":
		return NewNode(cfg.Name), nil
	case "label":
		glyphs := make(map[rune]Texture)
		for _, r := range cfg.Text {
			if _, ok := glyphs[r]; ok {
				continue
			}
			tex, err := lookupTexture(textures, cfg.GlyphPrefix+string(r))
			if err != nil {
				return nil, fmt.Errorf("stagehand: label %q: rune %q: %w", cfg.Name, r, ErrMissingGlyph)
			}
			glyphs[r] = tex
		}
		return NewLabel(cfg.Name, cfg.Text, glyphs)
	}
	return nil, fmt.Errorf("stagehand: node %q: unknown type %q", cfg.Name, cfg.Type)
}

func lookupTexture(textures TextureSource, name string) (Texture, error) {
	if textures == nil {
		return nil, fmt.Errorf("texture %q: %w", name, ErrMissingTexture)
	}
	return textures.Texture(name)
}

// queueActions appends the configured behaviors to n's action step.
func queueActions(n *Node, actions []ActionConfig, textures TextureSource) error {
	step := n.Action()
	for i, ac := range actions {
		if ac.count() > 1 {
			return fmt.Errorf("action %d: more than one behavior set", i)
		}
		switch {
		case ac.Wait != nil:
			step.Wait(*ac.Wait)
		case ac.To != nil:
			e, err := EasingByName(ac.To.Easing)
			if err != nil {
				return fmt.Errorf("action %d: %w", i, err)
			}
			targets := make(Targets, len(ac.To.Attrs))
			for name, dest := range ac.To.Attrs {
				a, err := ParseAttr(name)
				if err != nil {
					return fmt.Errorf("action %d: %w", i, err)
				}
				targets[a] = Target{Dest: dest, Easing: e}
			}
			step.To(ac.To.Duration, targets)
		case ac.Animate != nil:
			frames := make([]Texture, 0, len(ac.Animate.Frames))
			for _, name := range ac.Animate.Frames {
				tex, err := lookupTexture(textures, name)
				if err != nil {
					return fmt.Errorf("action %d: %w", i, err)
				}
				frames = append(frames, tex)
			}
			step.Animate(frames, ac.Animate.FrameRate, ac.Animate.Repetitions)
		default:
			return fmt.Errorf("action %d: no behavior set", i)
		}
	}
	return nil
}
