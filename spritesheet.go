package domo

import "github.com/pkg/errors"

// SpriteSheet slices a texture into equally sized cells, read left to right
// and top to bottom starting at the top-left corner.
type SpriteSheet struct {
	texture *Texture
	sprites []Sprite
}

// NewSpriteSheet cuts count cells of spriteWidth × spriteHeight pixels from
// tex, with spacing pixels between neighbouring cells on both axes.
func NewSpriteSheet(tex *Texture, spriteWidth, spriteHeight, count, spacing int) (*SpriteSheet, error) {
	if tex == nil {
		return nil, errors.New("domo: sprite sheet needs a texture")
	}
	if spriteWidth <= 0 || spriteHeight <= 0 || count < 0 || spacing < 0 {
		return nil, errors.Errorf("domo: invalid sprite sheet cell %dx%d count=%d spacing=%d",
			spriteWidth, spriteHeight, count, spacing)
	}
	tw, th := float32(tex.Width()), float32(tex.Height())

	sheet := &SpriteSheet{texture: tex, sprites: make([]Sprite, 0, count)}
	x := 0
	y := tex.Height() - spriteHeight // bottom edge of the top row
	for i := 0; i < count; i++ {
		if y < 0 || x+spriteWidth > tex.Width() {
			return nil, errors.Errorf("domo: sprite %d of %s lies outside the %dx%d texture",
				i, tex.Path(), tex.Width(), tex.Height())
		}
		top := float32(y+spriteHeight) / th
		bottom := float32(y) / th
		left := float32(x) / tw
		right := float32(x+spriteWidth) / tw
		sheet.sprites = append(sheet.sprites, Sprite{
			Texture: tex,
			TexCoords: [verticesPerQuad]Vec2{
				{right, top},
				{right, bottom},
				{left, bottom},
				{left, top},
			},
		})

		x += spriteWidth + spacing
		if x >= tex.Width() {
			x = 0
			y -= spriteHeight + spacing
		}
	}
	return sheet, nil
}

// Texture returns the sliced texture.
func (s *SpriteSheet) Texture() *Texture { return s.texture }

// Len returns the number of cells.
func (s *SpriteSheet) Len() int { return len(s.sprites) }

// Sprite returns cell i. It panics if i is out of range.
func (s *SpriteSheet) Sprite(i int) Sprite {
	if i < 0 || i >= len(s.sprites) {
		panic("domo: sprite sheet index out of range")
	}
	return s.sprites[i]
}
