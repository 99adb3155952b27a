package domo

import "github.com/pkg/errors"

// GID flag bits (same convention as Tiled TMX format).
const (
	TileFlipH    uint32 = 1 << 31 // horizontal flip
	TileFlipV    uint32 = 1 << 30 // vertical flip
	TileFlipD    uint32 = 1 << 29 // diagonal flip (transpose)
	tileFlagMask uint32 = TileFlipH | TileFlipV | TileFlipD
)

// Corner permutations over the quad corner order (TR, BR, BL, TL).
var (
	flipHOrder = [verticesPerQuad]int{3, 2, 1, 0}
	flipVOrder = [verticesPerQuad]int{1, 0, 3, 2}
	flipDOrder = [verticesPerQuad]int{2, 1, 0, 3}
)

// TileLayer is a grid of sprite sheet cells turned into one entity per
// non-empty tile. Tile data is row-major with row 0 at the top, like Tiled.
// GID 0 is empty; GID n draws sheet cell n-1. The high bits of a GID may
// carry TileFlipH, TileFlipV and TileFlipD.
type TileLayer struct {
	Name       string
	Sheet      *SpriteSheet
	Width      int // columns
	Height     int // rows
	TileWidth  float32
	TileHeight float32
	Origin     Vec2 // world position of the bottom-left corner
	ZIndex     int

	data     []uint32
	entities []*Entity
}

// NewTileLayer validates data against sheet and builds the tile entities.
func NewTileLayer(name string, sheet *SpriteSheet, width int, data []uint32, tileW, tileH float32, origin Vec2, z int) (*TileLayer, error) {
	if sheet == nil {
		return nil, errors.Errorf("domo: tile layer %q needs a sprite sheet", name)
	}
	if width <= 0 || len(data)%width != 0 {
		return nil, errors.Errorf("domo: tile layer %q: %d tiles do not fill rows of %d", name, len(data), width)
	}
	if tileW <= 0 || tileH <= 0 {
		return nil, errors.Errorf("domo: tile layer %q: invalid tile size %vx%v", name, tileW, tileH)
	}
	l := &TileLayer{
		Name:       name,
		Sheet:      sheet,
		Width:      width,
		Height:     len(data) / width,
		TileWidth:  tileW,
		TileHeight: tileH,
		Origin:     origin,
		ZIndex:     z,
		data:       append([]uint32(nil), data...),
	}
	for i, gid := range l.data {
		id := gid &^ tileFlagMask
		if id == 0 {
			continue
		}
		if int(id) > sheet.Len() {
			return nil, errors.Errorf("domo: tile layer %q: tile %d has gid %d, sheet has %d cells", name, i, id, sheet.Len())
		}
		col, row := i%width, i/width
		pos := Vec2{
			X: origin.X + float32(col)*tileW,
			Y: origin.Y + float32(l.Height-1-row)*tileH,
		}
		e := NewEntity(name, NewTransform(pos, Vec2{tileW, tileH}), z)
		e.AddBehavior(NewTextureSprite(tileSprite(sheet.Sprite(int(id)-1), gid)))
		l.entities = append(l.entities, e)
	}
	return l, nil
}

// tileSprite applies the flip flags of gid to s. The diagonal flip is
// applied first, then horizontal, then vertical.
func tileSprite(s Sprite, gid uint32) Sprite {
	if gid&TileFlipD != 0 {
		s.TexCoords = permuteCorners(s.TexCoords, flipDOrder)
	}
	if gid&TileFlipH != 0 {
		s.TexCoords = permuteCorners(s.TexCoords, flipHOrder)
	}
	if gid&TileFlipV != 0 {
		s.TexCoords = permuteCorners(s.TexCoords, flipVOrder)
	}
	return s
}

func permuteCorners(c [verticesPerQuad]Vec2, order [verticesPerQuad]int) [verticesPerQuad]Vec2 {
	var out [verticesPerQuad]Vec2
	for i, j := range order {
		out[i] = c[j]
	}
	return out
}

// GID returns the raw tile value at (col, row), or 0 outside the grid.
func (l *TileLayer) GID(col, row int) uint32 {
	if col < 0 || col >= l.Width || row < 0 || row >= l.Height {
		return 0
	}
	return l.data[row*l.Width+col]
}

// Entities returns the tile entities in row-major order.
func (l *TileLayer) Entities() []*Entity { return l.entities }

// Bounds returns the world rectangle covered by the layer.
func (l *TileLayer) Bounds() Rect {
	return Rect{
		X:      l.Origin.X,
		Y:      l.Origin.Y,
		Width:  float32(l.Width) * l.TileWidth,
		Height: float32(l.Height) * l.TileHeight,
	}
}

// AddTo adds every tile entity to scene.
func (l *TileLayer) AddTo(scene *Scene) error {
	for _, e := range l.entities {
		if err := scene.AddEntity(e); err != nil {
			return err
		}
	}
	return nil
}
