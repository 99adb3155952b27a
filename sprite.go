package domo

// DefaultTexCoords covers a whole texture, one coordinate per quad corner in
// the same order as the quad corner offsets.
var DefaultTexCoords = [verticesPerQuad]Vec2{
	{1, 1},
	{1, 0},
	{0, 0},
	{0, 1},
}

// Sprite is a region of a texture in normalized coordinates. A nil Texture
// means flat color.
type Sprite struct {
	Texture   *Texture
	TexCoords [verticesPerQuad]Vec2
}

// NewSprite returns a sprite covering all of tex.
func NewSprite(tex *Texture) Sprite {
	return Sprite{Texture: tex, TexCoords: DefaultTexCoords}
}

// DrawableBehavior is implemented by behaviors that supply renderable data
// to the batching renderer.
type DrawableBehavior interface {
	Behavior
	SpriteRenderer() *SpriteRenderer
}

// SpriteRenderer is the drawable behavior: a flat color or a tinted texture
// region drawn as one quad covering the owner's transform. Any change that
// affects the emitted vertices marks it dirty so its batch rewrites the quad
// on the next render.
type SpriteRenderer struct {
	BehaviorBase

	color  Color
	sprite Sprite

	lastTransform Transform
	dirty         bool

	// placement, maintained by Batch
	batch *Batch
	quad  int
}

var _ DrawableBehavior = (*SpriteRenderer)(nil)

// NewColorSprite returns a renderer drawing a flat color.
func NewColorSprite(c Color) *SpriteRenderer {
	return &SpriteRenderer{
		color:  c,
		sprite: Sprite{TexCoords: DefaultTexCoords},
		dirty:  true,
		quad:   -1,
	}
}

// NewTextureSprite returns a renderer drawing s untinted.
func NewTextureSprite(s Sprite) *SpriteRenderer {
	return &SpriteRenderer{
		color:  ColorWhite,
		sprite: s,
		dirty:  true,
		quad:   -1,
	}
}

// SpriteRenderer implements DrawableBehavior.
func (r *SpriteRenderer) SpriteRenderer() *SpriteRenderer { return r }

// Start implements Behavior.
func (r *SpriteRenderer) Start(e *Entity) {
	if r.StartOnce() {
		r.lastTransform = e.Transform
	}
}

// Update implements Behavior. A moved or resized owner marks the quad dirty.
func (r *SpriteRenderer) Update(e *Entity, _ float64) {
	if !r.lastTransform.Equals(e.Transform) {
		r.lastTransform = e.Transform
		r.dirty = true
	}
}

// Color returns the tint (or the flat color when there is no texture).
func (r *SpriteRenderer) Color() Color { return r.color }

// SetColor changes the color. Setting the current color is a no-op.
func (r *SpriteRenderer) SetColor(c Color) {
	if r.color != c {
		r.color = c
		r.dirty = true
	}
}

// Sprite returns the current texture region.
func (r *SpriteRenderer) Sprite() Sprite { return r.sprite }

// SetSprite replaces the texture region. Passing a sprite without texture
// switches the renderer to flat color.
func (r *SpriteRenderer) SetSprite(s Sprite) {
	r.sprite = s
	r.dirty = true
}

// Texture returns the texture, or nil for flat color.
func (r *SpriteRenderer) Texture() *Texture { return r.sprite.Texture }

// TexCoords returns the per-corner texture coordinates.
func (r *SpriteRenderer) TexCoords() [verticesPerQuad]Vec2 { return r.sprite.TexCoords }

// Batch returns the batch holding this renderer's quad, or nil.
func (r *SpriteRenderer) Batch() *Batch { return r.batch }

// IsDirty reports whether the quad must be rewritten.
func (r *SpriteRenderer) IsDirty() bool { return r.dirty }

// MarkDirty forces the quad to be rewritten on the next render.
func (r *SpriteRenderer) MarkDirty() { r.dirty = true }

func (r *SpriteRenderer) clean() { r.dirty = false }

// forgetBatch clears the placement without touching the batch, for
// batches that are being thrown away. The quad is rewritten when routed
// again.
func (r *SpriteRenderer) forgetBatch() {
	r.batch = nil
	r.quad = -1
	r.dirty = true
}

// unbatch takes the quad out of its batch, if any.
func (r *SpriteRenderer) unbatch() bool {
	if r.batch == nil {
		return false
	}
	r.batch.removeAt(r.quad)
	return true
}
