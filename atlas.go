package stagehand

import (
	"encoding/json"
	"fmt"
	"image"
	"sort"
	"strings"
)

// TextureRegion describes a sub-rectangle within an atlas page.
type TextureRegion struct {
	Page      int             // atlas page index
	Rect      image.Rectangle // sub-image rect within the page
	OriginalW int             // untrimmed sprite width as authored
	OriginalH int             // untrimmed sprite height as authored
}

// Atlas holds one or more page images and a map of named regions.
// It implements TextureSource.
type Atlas struct {
	// Pages contains the atlas page images indexed by page number.
	Pages    []image.Image
	regions  map[string]TextureRegion
	textures map[string]Texture
}

// Region returns the named region's texture, or an error wrapping
// ErrMissingTexture that names the key.
func (a *Atlas) Region(name string) (Texture, error) {
	if t, ok := a.textures[name]; ok {
		return t, nil
	}
	r, ok := a.regions[name]
	if !ok {
		return nil, fmt.Errorf("stagehand: atlas region %q: %w", name, ErrMissingTexture)
	}
	if r.Page < 0 || r.Page >= len(a.Pages) || a.Pages[r.Page] == nil {
		return nil, fmt.Errorf("stagehand: atlas region %q references page %d: %w", name, r.Page, ErrMissingTexture)
	}
	t := NewImageTexture(subImage(a.Pages[r.Page], r.Rect))
	if a.textures == nil {
		a.textures = make(map[string]Texture)
	}
	a.textures[name] = t
	return t, nil
}

// Texture implements TextureSource.
func (a *Atlas) Texture(name string) (Texture, error) {
	return a.Region(name)
}

// Frames returns the textures for names, in order. Fails on the first
// missing name.
func (a *Atlas) Frames(names ...string) ([]Texture, error) {
	frames := make([]Texture, 0, len(names))
	for _, name := range names {
		t, err := a.Region(name)
		if err != nil {
			return nil, err
		}
		frames = append(frames, t)
	}
	return frames, nil
}

// FramesWithPrefix returns every region whose name starts with prefix, sorted
// by name, for use as a frame animation ("walk_00", "walk_01", ...).
func (a *Atlas) FramesWithPrefix(prefix string) ([]Texture, error) {
	var names []string
	for name := range a.regions {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("stagehand: atlas frames with prefix %q: %w", prefix, ErrMissingTexture)
	}
	sort.Strings(names)
	return a.Frames(names...)
}

// Has reports whether the atlas defines a region called name.
func (a *Atlas) Has(name string) bool {
	_, ok := a.regions[name]
	return ok
}

// LoadAtlas parses TexturePacker JSON data and associates the given page images.
// Supports both the hash format (single "frames" object) and the array format
// ("textures" array with per-page frame lists). Rotated regions are rejected.
func LoadAtlas(jsonData []byte, pages []image.Image) (*Atlas, error) {
	// Probe top-level keys to detect format.
	var probe struct {
		Frames   json.RawMessage `json:"frames"`
		Textures json.RawMessage `json:"textures"`
	}
	if err := json.Unmarshal(jsonData, &probe); err != nil {
		return nil, fmt.Errorf("stagehand: failed to parse atlas JSON: %w", err)
	}

	atlas := &Atlas{
		Pages:   pages,
		regions: make(map[string]TextureRegion),
	}

	if probe.Textures != nil {
		if err := parseArrayFormat(probe.Textures, atlas); err != nil {
			return nil, err
		}
	} else if probe.Frames != nil {
		if err := parseHashFrames(probe.Frames, 0, atlas); err != nil {
			return nil, err
		}
	} else {
		return nil, fmt.Errorf("stagehand: atlas JSON has neither \"frames\" nor \"textures\" key")
	}

	return atlas, nil
}

// --- JSON structure types ---

type jsonRect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

type jsonSize struct {
	W int `json:"w"`
	H int `json:"h"`
}

type jsonFrame struct {
	Frame      jsonRect `json:"frame"`
	Rotated    bool     `json:"rotated"`
	SourceSize jsonSize `json:"sourceSize"`
}

type jsonTexturePage struct {
	Image  string               `json:"image"`
	Frames map[string]jsonFrame `json:"frames"`
}

// parseHashFrames parses the hash format: {"name": {frame...}, ...}
func parseHashFrames(raw json.RawMessage, page int, atlas *Atlas) error {
	var frames map[string]jsonFrame
	if err := json.Unmarshal(raw, &frames); err != nil {
		return fmt.Errorf("stagehand: failed to parse atlas frames: %w", err)
	}
	for name, f := range frames {
		if err := addFrame(atlas, name, f, page); err != nil {
			return err
		}
	}
	return nil
}

// parseArrayFormat parses the array format: [{"image":"...", "frames":{...}}, ...]
func parseArrayFormat(raw json.RawMessage, atlas *Atlas) error {
	var textures []jsonTexturePage
	if err := json.Unmarshal(raw, &textures); err != nil {
		return fmt.Errorf("stagehand: failed to parse atlas textures array: %w", err)
	}
	for i, tex := range textures {
		for name, f := range tex.Frames {
			if err := addFrame(atlas, name, f, i); err != nil {
				return err
			}
		}
	}
	return nil
}

func addFrame(atlas *Atlas, name string, f jsonFrame, page int) error {
	if f.Rotated {
		return fmt.Errorf("stagehand: atlas region %q is rotated; rotated regions are not supported", name)
	}
	atlas.regions[name] = TextureRegion{
		Page:      page,
		Rect:      image.Rect(f.Frame.X, f.Frame.Y, f.Frame.X+f.Frame.W, f.Frame.Y+f.Frame.H),
		OriginalW: f.SourceSize.W,
		OriginalH: f.SourceSize.H,
	}
	return nil
}
