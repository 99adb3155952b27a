package domo

import (
	"go.uber.org/zap"
)

// Vertex layout shared by every batch:
//
//	pos     color               uv      slot
//	x, y,   r, g, b, a,         u, v,   slot
const (
	posSize       = 2
	colorSize     = 4
	texCoordsSize = 2
	texSlotSize   = 1

	posOffset       = 0
	colorOffset     = posOffset + posSize
	texCoordsOffset = colorOffset + colorSize
	texSlotOffset   = texCoordsOffset + texCoordsSize

	floatsPerVertex = texSlotOffset + texSlotSize
	verticesPerQuad = 4
	indicesPerQuad  = 6
	floatsPerQuad   = floatsPerVertex * verticesPerQuad
)

// MaxBatchTextures is the number of distinct textures a batch can reference.
// Slot 0 is reserved for flat color, so slots run 0..MaxBatchTextures.
const MaxBatchTextures = 8

// DefaultMaxBatchSize is the quad capacity of batches created by a Renderer.
const DefaultMaxBatchSize = 1000

// BatchLayout is the vertex layout of batch vertex buffers. Attribute
// locations match the default shader.
var BatchLayout = VertexLayout{
	Stride: floatsPerVertex,
	Attribs: []VertexAttrib{
		{Location: 0, Size: posSize, Offset: posOffset},
		{Location: 1, Size: colorSize, Offset: colorOffset},
		{Location: 2, Size: texCoordsSize, Offset: texCoordsOffset},
		{Location: 3, Size: texSlotSize, Offset: texSlotOffset},
	},
}

// textureSlots maps sampler array index i to texture unit i.
var textureSlots = func() []int32 {
	s := make([]int32, MaxBatchTextures+1)
	for i := range s {
		s[i] = int32(i)
	}
	return s
}()

// BatchState is the lifecycle stage of a Batch.
type BatchState uint8

const (
	// BatchBuilding accepts quads; no device buffers exist yet.
	BatchBuilding BatchState = iota
	// BatchArmed has device buffers and the index pattern uploaded.
	BatchArmed
	// BatchRendering has been drawn at least once.
	BatchRendering
)

func (s BatchState) String() string {
	switch s {
	case BatchBuilding:
		return "building"
	case BatchArmed:
		return "armed"
	case BatchRendering:
		return "rendering"
	default:
		return "unknown"
	}
}

type batchQuad struct {
	sprite *SpriteRenderer
	entity *Entity
}

// Batch holds up to Capacity quads of one draw order and up to
// MaxBatchTextures textures, drawn with a single indexed draw call.
type Batch struct {
	capacity int
	zIndex   int
	state    BatchState

	vao      VertexArrayID
	vertices []float32
	quads    []batchQuad
	textures []*Texture

	evicted []*Entity
}

// NewBatch creates an empty batch for quads of the given draw order.
func NewBatch(capacity, zIndex int) *Batch {
	if capacity <= 0 {
		panic("domo: batch capacity must be positive")
	}
	return &Batch{
		capacity: capacity,
		zIndex:   zIndex,
		vertices: make([]float32, capacity*floatsPerQuad),
		quads:    make([]batchQuad, 0, capacity),
		textures: make([]*Texture, 0, MaxBatchTextures),
	}
}

// generateIndices builds the static index buffer: two triangles per quad
// using corners (0,1,2) and (0,2,3).
func generateIndices(capacity int) []uint32 {
	indices := make([]uint32, capacity*indicesPerQuad)
	for q := 0; q < capacity; q++ {
		i := q * indicesPerQuad
		v := uint32(q * verticesPerQuad)
		indices[i+0] = v + 0
		indices[i+1] = v + 1
		indices[i+2] = v + 2
		indices[i+3] = v + 0
		indices[i+4] = v + 2
		indices[i+5] = v + 3
	}
	return indices
}

// Start allocates the device buffers. Calling Start on an armed batch is a
// no-op.
func (b *Batch) Start(dev Device) error {
	if b.state != BatchBuilding {
		return nil
	}
	vao, err := dev.NewVertexArray(BatchLayout, len(b.vertices), generateIndices(b.capacity))
	if err != nil {
		return err
	}
	b.vao = vao
	b.state = BatchArmed
	return nil
}

// State returns the lifecycle stage.
func (b *Batch) State() BatchState { return b.state }

// VertexArray returns the device vertex array, or 0 before Start.
func (b *Batch) VertexArray() VertexArrayID { return b.vao }

// ZIndex returns the draw order shared by all quads in the batch.
func (b *Batch) ZIndex() int { return b.zIndex }

// Len returns the number of quads.
func (b *Batch) Len() int { return len(b.quads) }

// Capacity returns the maximum number of quads.
func (b *Batch) Capacity() int { return b.capacity }

// HasRoom reports whether another quad fits.
func (b *Batch) HasRoom() bool { return len(b.quads) < b.capacity }

// HasTextureRoom reports whether another distinct texture fits.
func (b *Batch) HasTextureRoom() bool { return len(b.textures) < MaxBatchTextures }

// HasTexture reports whether tex already has a slot in the batch.
func (b *Batch) HasTexture(tex *Texture) bool { return b.slotOf(tex) > 0 }

// Textures returns the referenced textures; texture i is in slot i+1.
func (b *Batch) Textures() []*Texture {
	return append([]*Texture(nil), b.textures...)
}

// Vertices returns the vertex data of the filled quads. The slice aliases
// the batch buffer and is only valid until the next mutation.
func (b *Batch) Vertices() []float32 {
	return b.vertices[:len(b.quads)*floatsPerQuad]
}

// CanAccept reports whether Add would accept a quad of entity e drawn by spr.
func (b *Batch) CanAccept(spr *SpriteRenderer, e *Entity) bool {
	if e.ZIndex() != b.zIndex || !b.HasRoom() {
		return false
	}
	tex := spr.Texture()
	return tex == nil || b.HasTexture(tex) || b.HasTextureRoom()
}

// Add appends the quad of entity e drawn by spr. The quad is written
// immediately.
func (b *Batch) Add(spr *SpriteRenderer, e *Entity) error {
	if spr.batch != nil {
		panic("domo: sprite renderer is already in a batch")
	}
	if e.ZIndex() != b.zIndex {
		return ErrZIndexMismatch
	}
	if !b.HasRoom() {
		return ErrBatchFull
	}
	if tex := spr.Texture(); tex != nil && !b.HasTexture(tex) {
		if !b.HasTextureRoom() {
			return ErrTextureSlotsFull
		}
		b.textures = append(b.textures, tex)
	}

	i := len(b.quads)
	b.quads = append(b.quads, batchQuad{sprite: spr, entity: e})
	spr.batch = b
	spr.quad = i
	b.writeQuad(i)
	return nil
}

// Remove takes the quad of the given entity out of the batch and reports
// whether it was present. The last quad moves into the freed position.
// Texture slots are kept.
func (b *Batch) Remove(id EntityID) bool {
	for i := range b.quads {
		if b.quads[i].entity.ID() == id {
			b.removeAt(i)
			return true
		}
	}
	return false
}

func (b *Batch) removeAt(i int) {
	gone := b.quads[i].sprite
	gone.batch = nil
	gone.quad = -1

	last := len(b.quads) - 1
	if i != last {
		b.quads[i] = b.quads[last]
		b.quads[i].sprite.quad = i
		copy(b.vertices[i*floatsPerQuad:(i+1)*floatsPerQuad],
			b.vertices[last*floatsPerQuad:(last+1)*floatsPerQuad])
	}
	b.quads[last] = batchQuad{}
	b.quads = b.quads[:last]
	clear(b.vertices[last*floatsPerQuad : (last+1)*floatsPerQuad])
}

// slotOf returns the texture slot of tex: 0 for nil or unknown textures,
// otherwise 1 + its position in the local texture list.
func (b *Batch) slotOf(tex *Texture) int {
	if tex == nil {
		return 0
	}
	for i, t := range b.textures {
		if t == tex {
			return i + 1
		}
	}
	return 0
}

// writeQuad fills the four vertices of quad i from its entity and sprite.
func (b *Batch) writeQuad(i int) {
	q := b.quads[i]
	spr := q.sprite
	t := q.entity.Transform
	c := spr.color
	uv := spr.sprite.TexCoords
	slot := float32(b.slotOf(spr.sprite.Texture))

	off := i * floatsPerQuad
	for v := 0; v < verticesPerQuad; v++ {
		p := t.Corner(v)
		vert := b.vertices[off : off+floatsPerVertex : off+floatsPerVertex]
		vert[posOffset+0] = p.X
		vert[posOffset+1] = p.Y
		vert[colorOffset+0] = c.R
		vert[colorOffset+1] = c.G
		vert[colorOffset+2] = c.B
		vert[colorOffset+3] = c.A
		vert[texCoordsOffset+0] = uv[v].X
		vert[texCoordsOffset+1] = uv[v].Y
		vert[texSlotOffset] = slot
		off += floatsPerVertex
	}
	spr.lastTransform = t
	spr.clean()
}

// refresh rewrites quads whose sprite is dirty or whose entity moved since
// the last write. A quad whose new texture cannot get a slot is removed and
// its entity returned so it can be routed elsewhere.
func (b *Batch) refresh() []*Entity {
	var evicted []*Entity
	for i := 0; i < len(b.quads); {
		q := b.quads[i]
		if !q.sprite.dirty && q.sprite.lastTransform.Equals(q.entity.Transform) {
			i++
			continue
		}
		if tex := q.sprite.sprite.Texture; tex != nil && !b.HasTexture(tex) {
			if !b.HasTextureRoom() {
				Logger().Debug("quad evicted, no texture slot",
					zap.Uint64("entity", uint64(q.entity.ID())),
					zap.Int("z", b.zIndex))
				b.removeAt(i)
				q.sprite.dirty = true
				evicted = append(evicted, q.entity)
				continue
			}
			b.textures = append(b.textures, tex)
		}
		b.writeQuad(i)
		i++
	}
	return evicted
}

// TakeEvicted returns and clears the entities evicted by Render because
// their new texture had no free slot. Renderer re-routes them.
func (b *Batch) TakeEvicted() []*Entity {
	ev := b.evicted
	b.evicted = nil
	return ev
}

// Render rewrites dirty quads, re-uploads the whole vertex buffer, binds the
// batch textures to units 1..N and draws every quad. The shader must be in
// use with its projection and view uniforms set.
func (b *Batch) Render(dev Device, shader *Shader) error {
	if b.state == BatchBuilding {
		return ErrBatchNotStarted
	}
	b.state = BatchRendering
	b.evicted = append(b.evicted, b.refresh()...)

	// The whole buffer goes up every frame; buffers are small.
	dev.UploadVertices(b.vao, b.vertices)

	for i, tex := range b.textures {
		dev.BindTexture(i+1, tex.Handle())
	}
	shader.UploadInts(dev, UniformTextures, textureSlots)

	if n := len(b.quads); n > 0 {
		dev.DrawElements(b.vao, n*indicesPerQuad)
	}

	for i := range b.textures {
		dev.UnbindTexture(i + 1)
	}
	return nil
}
