// Package level loads YAML level descriptions and builds them into a
// domo.Scene.
//
// A level file looks like:
//
//	camera: {x: 0, y: 0}
//	textures:
//	  - assets/images/testImage.png
//	sheets:
//	  - name: tiles
//	    texture: assets/images/spritesheet.png
//	    spriteWidth: 16
//	    spriteHeight: 16
//	    count: 26
//	    spacing: 0
//	entities:
//	  - name: hero
//	    z: 1
//	    position: {x: 100, y: 100}
//	    scale: {x: 64, y: 64}
//	    sprite: {sheet: tiles, index: 0}
//	tileLayers:
//	  - name: ground
//	    sheet: tiles
//	    z: 0
//	    tileWidth: 32
//	    tileHeight: 32
//	    width: 4
//	    data: [1, 1, 2, 0, 3, 3, 3, 3]
//
// Each entity draws at most one of color, sprite or texture.
package level

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/phanxgames/domo"
)

// Level is a parsed level file.
type Level struct {
	Camera   *domo.Vec2 `yaml:"camera,omitempty"`
	Textures []string   `yaml:"textures,omitempty"`
	Sheets   []Sheet    `yaml:"sheets,omitempty"`
	Entities []Entity   `yaml:"entities"`
	Tiles    []Tiles    `yaml:"tileLayers,omitempty"`

	// BaseDir resolves relative asset paths. LoadFile sets it to the
	// directory of the level file.
	BaseDir string `yaml:"-"`
}

// Sheet describes a sprite sheet cut from a texture.
type Sheet struct {
	Name         string `yaml:"name"`
	Texture      string `yaml:"texture"`
	SpriteWidth  int    `yaml:"spriteWidth"`
	SpriteHeight int    `yaml:"spriteHeight"`
	Count        int    `yaml:"count"`
	Spacing      int    `yaml:"spacing,omitempty"`
}

// SpriteRef selects one cell of a named sheet.
type SpriteRef struct {
	Sheet string `yaml:"sheet"`
	Index int    `yaml:"index"`
}

// Entity describes one entity.
type Entity struct {
	Name     string      `yaml:"name"`
	Z        int         `yaml:"z,omitempty"`
	Position domo.Vec2   `yaml:"position"`
	Scale    domo.Vec2   `yaml:"scale"`
	Color    *domo.Color `yaml:"color,omitempty"`
	Sprite   *SpriteRef  `yaml:"sprite,omitempty"`
	Texture  string      `yaml:"texture,omitempty"`
}

// Tiles describes a grid of sheet cells. Data is row-major with the top
// row first; 0 is an empty tile and n draws sheet cell n-1.
type Tiles struct {
	Name       string    `yaml:"name"`
	Sheet      string    `yaml:"sheet"`
	Z          int       `yaml:"z,omitempty"`
	Origin     domo.Vec2 `yaml:"origin,omitempty"`
	TileWidth  float32   `yaml:"tileWidth"`
	TileHeight float32   `yaml:"tileHeight"`
	Width      int       `yaml:"width"`
	Data       []uint32  `yaml:"data"`
}

// Load parses a level from r. Unknown keys are rejected.
func Load(r io.Reader) (*Level, error) {
	var l Level
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&l); err != nil {
		return nil, errors.Wrap(err, "level: decode")
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return &l, nil
}

// LoadFile parses the level file at path.
func LoadFile(path string) (*Level, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "level: open")
	}
	defer f.Close()
	l, err := Load(f)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	l.BaseDir = filepath.Dir(path)
	return l, nil
}

// Validate checks references and drawable exclusivity.
func (l *Level) Validate() error {
	sheets := make(map[string]Sheet, len(l.Sheets))
	for i, s := range l.Sheets {
		if s.Name == "" {
			return errors.Errorf("level: sheet %d has no name", i)
		}
		if _, dup := sheets[s.Name]; dup {
			return errors.Errorf("level: duplicate sheet %q", s.Name)
		}
		if s.Texture == "" {
			return errors.Errorf("level: sheet %q has no texture", s.Name)
		}
		sheets[s.Name] = s
	}
	for i, e := range l.Entities {
		n := 0
		if e.Color != nil {
			n++
		}
		if e.Sprite != nil {
			n++
		}
		if e.Texture != "" {
			n++
		}
		if n > 1 {
			return errors.Errorf("level: entity %d (%s) sets more than one of color, sprite, texture", i, e.Name)
		}
		if e.Sprite != nil {
			s, ok := sheets[e.Sprite.Sheet]
			if !ok {
				return errors.Errorf("level: entity %d (%s) references unknown sheet %q", i, e.Name, e.Sprite.Sheet)
			}
			if e.Sprite.Index < 0 || e.Sprite.Index >= s.Count {
				return errors.Errorf("level: entity %d (%s) sprite index %d out of range [0,%d)", i, e.Name, e.Sprite.Index, s.Count)
			}
		}
	}
	for i, t := range l.Tiles {
		if _, ok := sheets[t.Sheet]; !ok {
			return errors.Errorf("level: tile layer %d (%s) references unknown sheet %q", i, t.Name, t.Sheet)
		}
		if t.Width <= 0 || len(t.Data)%t.Width != 0 {
			return errors.Errorf("level: tile layer %d (%s) has %d tiles, not a multiple of width %d", i, t.Name, len(t.Data), t.Width)
		}
	}
	return nil
}

func (l *Level) resolve(path string) string {
	if l.BaseDir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(l.BaseDir, path)
}

// texturePaths lists every texture the level needs, in first-use order.
func (l *Level) texturePaths() []string {
	var paths []string
	seen := make(map[string]bool)
	add := func(p string) {
		if p != "" && !seen[p] {
			seen[p] = true
			paths = append(paths, l.resolve(p))
		}
	}
	for _, p := range l.Textures {
		add(p)
	}
	for _, s := range l.Sheets {
		add(s.Texture)
	}
	for _, e := range l.Entities {
		add(e.Texture)
	}
	return paths
}

// Build loads the level's assets into assets and adds its entities to scene.
// Textures are decoded in parallel before anything is added.
func (l *Level) Build(ctx context.Context, scene *domo.Scene, assets *domo.Assets) error {
	if err := assets.Preload(ctx, l.texturePaths()...); err != nil {
		return err
	}

	sheets := make(map[string]*domo.SpriteSheet, len(l.Sheets))
	for _, s := range l.Sheets {
		path := l.resolve(s.Texture)
		tex, err := assets.Texture(path)
		if err != nil {
			return err
		}
		sheet, err := assets.SpriteSheet(path)
		if err != nil {
			sheet, err = domo.NewSpriteSheet(tex, s.SpriteWidth, s.SpriteHeight, s.Count, s.Spacing)
			if err != nil {
				return errors.Wrapf(err, "level: sheet %q", s.Name)
			}
			if err := assets.AddSpriteSheet(path, sheet); err != nil {
				return err
			}
		}
		sheets[s.Name] = sheet
	}

	if l.Camera != nil {
		scene.Camera().Position = *l.Camera
	}

	for _, def := range l.Entities {
		e := domo.NewEntity(def.Name, domo.NewTransform(def.Position, def.Scale), def.Z)
		switch {
		case def.Color != nil:
			e.AddBehavior(domo.NewColorSprite(*def.Color))
		case def.Sprite != nil:
			sheet := sheets[def.Sprite.Sheet]
			if sheet == nil || def.Sprite.Index >= sheet.Len() {
				return errors.Errorf("level: entity %s: bad sprite reference %s[%d]", def.Name, def.Sprite.Sheet, def.Sprite.Index)
			}
			e.AddBehavior(domo.NewTextureSprite(sheet.Sprite(def.Sprite.Index)))
		case def.Texture != "":
			tex, err := assets.Texture(l.resolve(def.Texture))
			if err != nil {
				return err
			}
			e.AddBehavior(domo.NewTextureSprite(domo.NewSprite(tex)))
		}
		if err := scene.AddEntity(e); err != nil {
			return err
		}
	}

	tiles := 0
	for _, def := range l.Tiles {
		layer, err := domo.NewTileLayer(def.Name, sheets[def.Sheet], def.Width, def.Data,
			def.TileWidth, def.TileHeight, def.Origin, def.Z)
		if err != nil {
			return errors.Wrap(err, "level")
		}
		if err := layer.AddTo(scene); err != nil {
			return err
		}
		tiles += len(layer.Entities())
	}
	domo.Logger().Info("level built",
		zap.Int("entities", len(l.Entities)),
		zap.Int("tiles", tiles),
		zap.Int("sheets", len(l.Sheets)))
	return nil
}

// Hook returns a scene init hook that builds the level with the scene's
// asset cache.
func (l *Level) Hook() func(*domo.Scene) error {
	return func(s *domo.Scene) error {
		return l.Build(context.Background(), s, s.Assets())
	}
}
