package domo

import (
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Scene owns the entities of one level, its camera and its renderer.
//
// Entities added before Start are started and routed when the scene starts;
// entities added afterwards are started and routed immediately.
type Scene struct {
	cfg      SceneConfig
	assets   *Assets
	renderer *Renderer
	camera   *OrthoCamera

	entities []*Entity
	byID     map[EntityID]*Entity

	initFns []func(*Scene) error
	sink    EventSink
	running bool

	// removals made by behaviors while Update walks the entity list
	updating bool
	removed  []*Entity

	debug   bool
	elapsed float64
	stats   debugStats
}

// NewScene creates a scene that is not yet started.
func NewScene(cfg SceneConfig) *Scene {
	cam := NewOrthoCamera(cfg.Camera)
	if cfg.ViewWidth > 0 && cfg.ViewHeight > 0 {
		cam.SetViewSize(cfg.ViewWidth, cfg.ViewHeight)
	}
	return &Scene{
		cfg:    cfg,
		camera: cam,
		byID:   make(map[EntityID]*Entity),
	}
}

// Init registers a hook run by Start before any entity starts. Hooks load
// assets and add entities; an error aborts Start.
func (s *Scene) Init(fn func(*Scene) error) {
	s.initFns = append(s.initFns, fn)
}

// Start loads the shader, runs the init hooks, then starts and routes every
// entity. Asset failures are returned as *AssetError and leave the scene
// stopped. A failed Start discards the entities added during it, so it can
// be retried.
func (s *Scene) Start(assets *Assets) error {
	if s.running {
		return nil
	}
	if assets == nil {
		panic("domo: Scene.Start requires an asset cache")
	}
	s.assets = assets

	var (
		shader *Shader
		err    error
	)
	if s.cfg.ShaderPath != "" {
		shader, err = assets.Shader(s.cfg.ShaderPath)
	} else {
		shader, err = assets.DefaultShader()
	}
	if err != nil {
		return err
	}

	opts := []RendererOption{
		WithEntityLookup(s.Entity),
		WithMigrateFunc(func(e *Entity) { s.emit(EventQuadMigrated, e) }),
	}
	if s.cfg.MaxBatchSize > 0 {
		opts = append(opts, WithMaxBatchSize(s.cfg.MaxBatchSize))
	}
	s.renderer = NewRenderer(assets.Device(), shader, opts...)

	before := make(map[*Entity]bool, len(s.entities))
	for _, e := range s.entities {
		before[e] = true
	}

	for _, fn := range s.initFns {
		if err := fn(s); err != nil {
			s.abortStart(before)
			return errors.Wrap(err, "domo: scene init")
		}
	}

	// Starting an entity may add more (particle pools); they are routed too.
	for i := 0; i < len(s.entities); i++ {
		e := s.entities[i]
		e.Start()
		if err := s.renderer.Add(e); err != nil {
			s.abortStart(before)
			return err
		}
	}
	s.running = true
	Logger().Info("scene started", zap.Int("entities", len(s.entities)))
	return nil
}

// abortStart drops the renderer and every entity not in before, and
// detaches the surviving quads from the dropped batches.
func (s *Scene) abortStart(before map[*Entity]bool) {
	kept := s.entities[:0]
	for _, e := range s.entities {
		if spr := e.Drawable(); spr != nil {
			spr.forgetBatch()
		}
		if before[e] {
			kept = append(kept, e)
			continue
		}
		delete(s.byID, e.ID())
		e.scene = nil
		s.emit(EventEntityRemoved, e)
	}
	clear(s.entities[len(kept):])
	s.entities = kept
	s.renderer = nil
}

// Running reports whether Start completed.
func (s *Scene) Running() bool { return s.running }

// Assets returns the asset cache given to Start, or nil.
func (s *Scene) Assets() *Assets { return s.assets }

// Renderer returns the renderer, or nil before Start.
func (s *Scene) Renderer() *Renderer { return s.renderer }

// Camera returns the scene camera.
func (s *Scene) Camera() *OrthoCamera { return s.camera }

// Elapsed returns the sum of all deltas passed to Update.
func (s *Scene) Elapsed() float64 { return s.elapsed }

// SetDebugMode enables per-frame stats logging at debug level.
func (s *Scene) SetDebugMode(enabled bool) { s.debug = enabled }

// SetEventSink installs the receiver of entity lifecycle events. Pass nil
// to stop emitting.
func (s *Scene) SetEventSink(sink EventSink) { s.sink = sink }

func (s *Scene) emit(t SceneEventType, e *Entity) {
	if s.sink != nil {
		s.sink.EmitEvent(newSceneEvent(t, e))
	}
}

// AddEntity registers e with the scene. Adding an entity twice, or one that
// belongs to another scene, panics.
func (s *Scene) AddEntity(e *Entity) error {
	if e.scene != nil {
		panic("domo: entity already belongs to a scene")
	}
	e.scene = s
	if !s.cancelRemoval(e) {
		s.entities = append(s.entities, e)
	}
	s.byID[e.ID()] = e
	if s.debug {
		debugCheckEntityCount(len(s.entities))
	}
	s.emit(EventEntityAdded, e)
	if !s.running {
		return nil
	}
	e.Start()
	return s.renderer.Add(e)
}

// RemoveEntity unregisters e and takes its quad out of the renderer.
// It reports whether e belonged to the scene. During Update the entity is
// skipped at once but stays in Entities until the walk ends.
func (s *Scene) RemoveEntity(e *Entity) bool {
	if e.scene != s {
		return false
	}
	if s.updating {
		s.removed = append(s.removed, e)
	} else {
		s.dropEntity(e)
	}
	delete(s.byID, e.ID())
	if s.renderer != nil {
		s.renderer.Remove(e)
	}
	e.scene = nil
	s.emit(EventEntityRemoved, e)
	return true
}

// cancelRemoval reports whether e was removed earlier in the current
// Update walk; it is then still in the list and keeps its position.
func (s *Scene) cancelRemoval(e *Entity) bool {
	for i, x := range s.removed {
		if x == e {
			s.removed = append(s.removed[:i], s.removed[i+1:]...)
			return true
		}
	}
	return false
}

// dropEntity removes the first occurrence of e from the entity list.
func (s *Scene) dropEntity(e *Entity) {
	for i, x := range s.entities {
		if x == e {
			copy(s.entities[i:], s.entities[i+1:])
			s.entities[len(s.entities)-1] = nil
			s.entities = s.entities[:len(s.entities)-1]
			return
		}
	}
}

// Entity resolves a handle, returning nil when it is not in the scene.
func (s *Scene) Entity(id EntityID) *Entity {
	return s.byID[id]
}

// Entities returns the entities in insertion order. The slice must not be
// modified.
func (s *Scene) Entities() []*Entity { return s.entities }

// Update advances the camera and then every entity, in insertion order.
// Negative deltas (the first clock tick) are ignored. Entities added by a
// behavior are updated in the same frame; removed ones are not.
func (s *Scene) Update(dt float64) {
	if !s.running || dt < 0 {
		return
	}
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}

	s.elapsed += dt
	s.camera.Update(dt)
	s.updating = true
	for i := 0; i < len(s.entities); i++ {
		if e := s.entities[i]; e.scene == s {
			e.Update(dt)
		}
	}
	s.updating = false
	for _, e := range s.removed {
		s.dropEntity(e)
	}
	clear(s.removed)
	s.removed = s.removed[:0]

	if s.debug {
		s.stats.updateTime = time.Since(t0)
	}
}

// Draw flushes the renderer once with the scene camera.
func (s *Scene) Draw() error {
	if !s.running {
		return nil
	}
	s.renderer.SetTime(float32(s.elapsed))
	if err := s.renderer.Render(s.camera); err != nil {
		return err
	}
	if s.debug {
		rs := s.renderer.Stats()
		s.stats.renderTime = rs.Duration
		s.stats.batchCount = rs.Batches
		s.stats.quadCount = rs.Quads
		s.stats.drawCallCount = rs.DrawCalls
		s.stats.migrated = rs.Migrated
		s.debugLog(s.stats)
	}
	return nil
}
