package domo

import (
	"encoding/json"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// AtlasRegion describes a named sub-rectangle within an atlas page.
type AtlasRegion struct {
	Sprite    Sprite // normalized coordinates on the page texture
	Page      int    // atlas page index
	X, Y      int    // top-left corner of the packed rect, in pixels
	Width     int    // packed width (may differ from OriginalW if trimmed)
	Height    int    // packed height
	OriginalW int    // untrimmed sprite width as authored
	OriginalH int    // untrimmed sprite height as authored
	OffsetX   int    // horizontal trim offset
	OffsetY   int    // vertical trim offset
	Rotated   bool   // true if stored 90 degrees clockwise on the page
}

// Atlas holds the page textures of a TexturePacker export and its named
// regions.
type Atlas struct {
	Pages   []*Texture
	regions map[string]AtlasRegion
}

// LoadAtlas parses TexturePacker JSON and resolves regions against pages.
// Supports both the hash format (single "frames" object) and the array
// format ("textures" array with per-page frame lists).
func LoadAtlas(jsonData []byte, pages []*Texture) (*Atlas, error) {
	var head struct {
		Frames   json.RawMessage `json:"frames"`
		Textures json.RawMessage `json:"textures"`
	}
	if err := json.Unmarshal(jsonData, &head); err != nil {
		return nil, errors.Wrap(err, "domo: parse atlas JSON")
	}

	atlas := &Atlas{
		Pages:   pages,
		regions: make(map[string]AtlasRegion),
	}

	var err error
	switch {
	case head.Textures != nil:
		err = parseArrayFormat(head.Textures, atlas)
	case head.Frames != nil:
		err = parseHashFrames(head.Frames, 0, atlas)
	default:
		err = errors.New("domo: atlas JSON has neither \"frames\" nor \"textures\" key")
	}
	if err != nil {
		return nil, err
	}
	return atlas, nil
}

// Region returns the named region.
func (a *Atlas) Region(name string) (AtlasRegion, bool) {
	r, ok := a.regions[name]
	return r, ok
}

// Sprite returns the named region's sprite.
func (a *Atlas) Sprite(name string) (Sprite, bool) {
	r, ok := a.regions[name]
	return r.Sprite, ok
}

// Len returns the number of regions.
func (a *Atlas) Len() int { return len(a.regions) }

// NewRenderer returns a renderer drawing the named region. A missing region
// logs a warning and yields a flat magenta renderer.
func (a *Atlas) NewRenderer(name string) *SpriteRenderer {
	if r, ok := a.regions[name]; ok {
		return NewTextureSprite(r.Sprite)
	}
	Logger().Warn("atlas region not found, using magenta placeholder", zap.String("region", name))
	return NewColorSprite(ColorMagenta)
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
	Frame            jsonRect `json:"frame"`
	Rotated          bool     `json:"rotated"`
	Trimmed          bool     `json:"trimmed"`
	SpriteSourceSize jsonRect `json:"spriteSourceSize"`
	SourceSize       jsonSize `json:"sourceSize"`
}

type jsonTexturePage struct {
	Image  string               `json:"image"`
	Frames map[string]jsonFrame `json:"frames"`
}

// parseHashFrames parses the hash format: {"name": {frame...}, ...}
func parseHashFrames(raw json.RawMessage, page int, atlas *Atlas) error {
	var frames map[string]jsonFrame
	if err := json.Unmarshal(raw, &frames); err != nil {
		return errors.Wrap(err, "domo: parse atlas frames")
	}
	for name, f := range frames {
		r, err := atlas.frameToRegion(name, f, page)
		if err != nil {
			return err
		}
		atlas.regions[name] = r
	}
	return nil
}

// parseArrayFormat parses the array format: [{"image":"...", "frames":{...}}, ...]
func parseArrayFormat(raw json.RawMessage, atlas *Atlas) error {
	var textures []jsonTexturePage
	if err := json.Unmarshal(raw, &textures); err != nil {
		return errors.Wrap(err, "domo: parse atlas textures array")
	}
	for i, tex := range textures {
		for name, f := range tex.Frames {
			r, err := atlas.frameToRegion(name, f, i)
			if err != nil {
				return err
			}
			atlas.regions[name] = r
		}
	}
	return nil
}

// frameToRegion converts a packed pixel rect into normalized corner
// coordinates. Image rows are top-first while v grows upward, so v = 1 - y/H.
func (a *Atlas) frameToRegion(name string, f jsonFrame, page int) (AtlasRegion, error) {
	if page >= len(a.Pages) || a.Pages[page] == nil {
		return AtlasRegion{}, errors.Errorf("domo: atlas region %q references missing page %d", name, page)
	}
	tex := a.Pages[page]
	tw, th := float32(tex.Width()), float32(tex.Height())

	left := float32(f.Frame.X) / tw
	right := float32(f.Frame.X+f.Frame.W) / tw
	top := 1 - float32(f.Frame.Y)/th
	bottom := 1 - float32(f.Frame.Y+f.Frame.H)/th

	coords := [verticesPerQuad]Vec2{
		{right, top},
		{right, bottom},
		{left, bottom},
		{left, top},
	}
	if f.Rotated {
		// Sprite top-left sits at the packed rect's top-right.
		coords = [verticesPerQuad]Vec2{
			{right, bottom},
			{left, bottom},
			{left, top},
			{right, top},
		}
	}

	return AtlasRegion{
		Sprite:    Sprite{Texture: tex, TexCoords: coords},
		Page:      page,
		X:         f.Frame.X,
		Y:         f.Frame.Y,
		Width:     f.Frame.W,
		Height:    f.Frame.H,
		OriginalW: f.SourceSize.W,
		OriginalH: f.SourceSize.H,
		OffsetX:   f.SpriteSourceSize.X,
		OffsetY:   f.SpriteSourceSize.Y,
		Rotated:   f.Rotated,
	}, nil
}
