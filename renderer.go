package domo

import (
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// WithMaxBatchSize sets the quad capacity of new batches.
func WithMaxBatchSize(n int) RendererOption {
	return func(r *Renderer) {
		if n <= 0 {
			panic("domo: max batch size must be positive")
		}
		r.maxBatchSize = n
	}
}

// WithEntityLookup sets the resolver AddSprite uses to find a renderer's
// owner. Scene installs its registry here.
func WithEntityLookup(fn func(EntityID) *Entity) RendererOption {
	return func(r *Renderer) { r.lookup = fn }
}

// WithMigrateFunc sets a callback invoked for every quad moved to another
// batch during Render.
func WithMigrateFunc(fn func(*Entity)) RendererOption {
	return func(r *Renderer) { r.onMigrate = fn }
}

// RenderStats summarizes the last Render call.
type RenderStats struct {
	Batches   int
	Quads     int
	DrawCalls int
	Migrated  int
	Duration  time.Duration
}

// Renderer routes drawable entities into batches and flushes them in draw
// order. Batches are kept sorted by ascending z-index; batches of equal
// z-index keep their creation order.
type Renderer struct {
	dev          Device
	shader       *Shader
	maxBatchSize int
	lookup       func(EntityID) *Entity
	onMigrate    func(*Entity)

	batches []*Batch
	time    float32
	stats   RenderStats
}

// NewRenderer creates a renderer drawing with shader on dev.
func NewRenderer(dev Device, shader *Shader, opts ...RendererOption) *Renderer {
	if dev == nil || shader == nil {
		panic("domo: NewRenderer requires a device and a shader")
	}
	r := &Renderer{
		dev:          dev,
		shader:       shader,
		maxBatchSize: DefaultMaxBatchSize,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Shader returns the batch shader.
func (r *Renderer) Shader() *Shader { return r.shader }

// Batches returns the batches in flush order. The slice must not be modified.
func (r *Renderer) Batches() []*Batch { return r.batches }

// Stats returns the statistics of the last Render call.
func (r *Renderer) Stats() RenderStats { return r.stats }

// SetTime sets the value uploaded to the uTime uniform each frame.
func (r *Renderer) SetTime(seconds float32) { r.time = seconds }

// Add routes the drawable of e into a batch. Entities without a drawable
// are ignored.
func (r *Renderer) Add(e *Entity) error {
	spr := e.Drawable()
	if spr == nil {
		return nil
	}
	return r.add(spr, e)
}

// AddSprite routes spr, resolving its owner with the entity lookup.
func (r *Renderer) AddSprite(spr *SpriteRenderer) error {
	if r.lookup == nil {
		return errors.New("domo: AddSprite needs an entity lookup")
	}
	e := r.lookup(spr.Owner())
	if e == nil {
		return errors.Errorf("domo: sprite owner %d not found", spr.Owner())
	}
	return r.add(spr, e)
}

func (r *Renderer) add(spr *SpriteRenderer, e *Entity) error {
	if spr.batch != nil {
		return nil
	}
	for _, b := range r.batches {
		if b.CanAccept(spr, e) {
			return b.Add(spr, e)
		}
	}

	b := NewBatch(r.maxBatchSize, e.ZIndex())
	if err := b.Start(r.dev); err != nil {
		return errors.Wrap(err, "domo: start batch")
	}
	if err := b.Add(spr, e); err != nil {
		// A fresh batch accepts any quad of its own z-index.
		panic("domo: new batch rejected quad: " + err.Error())
	}
	r.batches = append(r.batches, b)
	sortBatches(r.batches)
	Logger().Debug("batch created",
		zap.Int("z", b.ZIndex()),
		zap.Int("batches", len(r.batches)))
	return nil
}

// sortBatches orders batches by z-index with a stable insertion sort.
// Only the newly appended batch is usually out of place.
func sortBatches(bs []*Batch) {
	for i := 1; i < len(bs); i++ {
		b := bs[i]
		j := i
		for j > 0 && bs[j-1].zIndex > b.zIndex {
			bs[j] = bs[j-1]
			j--
		}
		bs[j] = b
	}
}

func (r *Renderer) migrated(e *Entity) {
	Logger().Debug("quad migrated",
		zap.Uint64("entity", uint64(e.ID())),
		zap.Int("z", e.ZIndex()))
	if r.onMigrate != nil {
		r.onMigrate(e)
	}
}

// Remove takes e out of its batch and reports whether it was rendered.
// Empty batches are kept for reuse.
func (r *Renderer) Remove(e *Entity) bool {
	spr := e.Drawable()
	if spr == nil {
		return false
	}
	return spr.unbatch()
}

// Render flushes every batch in draw order. Projection and view are read
// from cam once and uploaded before the first batch.
func (r *Renderer) Render(cam Camera) error {
	start := time.Now()
	stats := RenderStats{}

	// Quads whose texture changed to one their batch cannot slot move
	// before anything is drawn so they still show this frame. Every quad is
	// clean afterwards, so Batch.Render evicts nothing here.
	for i := 0; i < len(r.batches); i++ {
		for _, e := range r.batches[i].refresh() {
			if err := r.Add(e); err != nil {
				return err
			}
			r.migrated(e)
			stats.Migrated++
		}
	}

	r.shader.Use(r.dev)
	r.shader.UploadMat4(r.dev, UniformProjection, cam.ProjectionMatrix())
	r.shader.UploadMat4(r.dev, UniformView, cam.ViewMatrix())
	r.shader.UploadFloat(r.dev, UniformTime, r.time)

	for _, b := range r.batches {
		if err := b.Render(r.dev, r.shader); err != nil {
			r.shader.Detach(r.dev)
			return err
		}
		stats.Batches++
		stats.Quads += b.Len()
		if b.Len() > 0 {
			stats.DrawCalls++
		}
	}
	r.shader.Detach(r.dev)

	stats.Duration = time.Since(start)
	r.stats = stats
	return nil
}
