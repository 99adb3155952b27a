package domo

import (
	"math"
	"math/rand/v2"

	"go.uber.org/zap"
)

// Range is a closed interval sampled uniformly.
type Range struct {
	Min, Max float64
}

// Random returns a random value in [Min, Max].
func (r Range) Random(rng *rand.Rand) float64 {
	if r.Min == r.Max {
		return r.Min
	}
	if rng == nil {
		return r.Min + rand.Float64()*(r.Max-r.Min)
	}
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

// particle holds per-particle simulation state. Unexported; managed by ParticleEmitter.
type particle struct {
	x, y       float64
	vx, vy     float64
	life       float64 // remaining lifetime in seconds
	maxLife    float64 // initial lifetime (for computing t)
	startScale float32
	endScale   float32
	scale      float32
	startAlpha float32
	endAlpha   float32
	alpha      float32
}

// EmitterConfig controls how particles are spawned and behave.
type EmitterConfig struct {
	// MaxParticles is the pool size. New particles are silently dropped when full.
	MaxParticles int
	// EmitRate is the number of particles spawned per second.
	EmitRate float64
	// Lifetime is the range of particle lifetimes in seconds.
	Lifetime Range
	// Speed is the range of initial particle speeds in world units per second.
	Speed Range
	// Angle is the range of emission angles in radians.
	Angle Range
	// StartScale is the range of scale factors at birth, interpolated to EndScale over lifetime.
	StartScale Range
	// EndScale is the range of scale factors at death.
	EndScale Range
	// StartAlpha is the range of alpha values at birth, interpolated to EndAlpha over lifetime.
	StartAlpha Range
	// EndAlpha is the range of alpha values at death.
	EndAlpha Range
	// Gravity is the constant acceleration applied to all particles each frame.
	Gravity Vec2
	// StartColor is the tint at birth, interpolated to EndColor over lifetime.
	StartColor Color
	// EndColor is the tint at death.
	EndColor Color
	// Size is the quad extent of a particle at scale 1.
	Size Vec2
	// Sprite is drawn by each particle. A nil Texture draws flat color.
	Sprite Sprite
	// ZIndex of the particle quads.
	ZIndex int
	// WorldSpace, when true, causes particles to keep their world position
	// once emitted rather than following the emitter entity.
	WorldSpace bool
}

// ParticleEmitter is a behavior simulating a pool of particles on the CPU.
// When its entity starts inside a scene, the emitter adds one pooled entity
// per particle slot; dead slots collapse to zero size, so the pool keeps its
// batch placement for its whole life.
type ParticleEmitter struct {
	BehaviorBase

	config    EmitterConfig
	particles []particle
	quads     []*Entity
	alive     int
	emitAccum float64
	active    bool
	rng       *rand.Rand

	// emitter position at the last update, used for world-space spawns
	originX, originY float64
}

// NewParticleEmitter creates an active emitter with a preallocated pool.
// A nil rng uses the global source.
func NewParticleEmitter(cfg EmitterConfig, rng *rand.Rand) *ParticleEmitter {
	n := cfg.MaxParticles
	if n <= 0 {
		n = 128
	}
	if cfg.Size == (Vec2{}) {
		cfg.Size = Vec2{1, 1}
	}
	if cfg.Sprite.Texture == nil {
		cfg.Sprite.TexCoords = DefaultTexCoords
	}
	return &ParticleEmitter{
		config:    cfg,
		particles: make([]particle, n),
		active:    true,
		rng:       rng,
	}
}

// Start implements Behavior. The particle pool is created in the owner's
// scene, and again if the scene dropped it (a failed Scene.Start).
func (p *ParticleEmitter) Start(e *Entity) {
	if p.StartOnce() {
		p.originX, p.originY = float64(e.Transform.Position.X), float64(e.Transform.Position.Y)
	}
	scene := e.Scene()
	if scene == nil || (len(p.quads) > 0 && p.quads[0].Scene() == scene) {
		return
	}
	p.quads = make([]*Entity, len(p.particles))
	for i := range p.quads {
		q := NewEntity(e.Name+"/particle", NewTransform(e.Transform.Position, Vec2{}), p.config.ZIndex)
		q.AddBehavior(NewTextureSprite(p.config.Sprite))
		p.quads[i] = q
		if err := scene.AddEntity(q); err != nil {
			Logger().Warn("particle pool not routed", zap.String("emitter", e.Name), zap.Error(err))
			p.quads = nil
			return
		}
	}
}

// Update implements Behavior. It advances the simulation by dt seconds and
// writes every pool slot's transform and tint.
func (p *ParticleEmitter) Update(e *Entity, dt float64) {
	p.originX, p.originY = float64(e.Transform.Position.X), float64(e.Transform.Position.Y)
	p.step(dt)
	p.sync(e)
}

// Resume begins emitting particles again after Stop or Reset.
func (p *ParticleEmitter) Resume() { p.active = true }

// Stop stops emitting new particles. Existing particles continue to live out.
func (p *ParticleEmitter) Stop() { p.active = false }

// Reset stops emitting and kills all alive particles.
func (p *ParticleEmitter) Reset() {
	p.active = false
	p.alive = 0
	p.emitAccum = 0
}

// Burst spawns up to n particles immediately.
func (p *ParticleEmitter) Burst(n int) {
	for ; n > 0 && p.alive < len(p.particles); n-- {
		p.spawn()
	}
}

// IsActive reports whether the emitter is currently emitting new particles.
func (p *ParticleEmitter) IsActive() bool { return p.active }

// AliveCount returns the number of alive particles.
func (p *ParticleEmitter) AliveCount() int { return p.alive }

// Pool returns the pooled particle entities, or nil when the emitter was
// started outside a scene.
func (p *ParticleEmitter) Pool() []*Entity { return p.quads }

// Config returns a pointer to the emitter's config for live tuning.
func (p *ParticleEmitter) Config() *EmitterConfig { return &p.config }

func (p *ParticleEmitter) step(dt float64) {
	gx := float64(p.config.Gravity.X) * dt
	gy := float64(p.config.Gravity.Y) * dt

	// Update existing particles, swap-remove dead ones.
	i := 0
	for i < p.alive {
		pt := &p.particles[i]
		pt.life -= dt
		if pt.life <= 0 {
			p.alive--
			p.particles[i] = p.particles[p.alive]
			continue
		}

		pt.vx += gx
		pt.vy += gy
		pt.x += pt.vx * dt
		pt.y += pt.vy * dt

		t := float32(1.0 - pt.life/pt.maxLife)
		pt.scale = lerp32(pt.startScale, pt.endScale, t)
		pt.alpha = lerp32(pt.startAlpha, pt.endAlpha, t)

		i++
	}

	if p.active && p.config.EmitRate > 0 {
		p.emitAccum += p.config.EmitRate * dt
		for p.emitAccum >= 1.0 {
			p.emitAccum -= 1.0
			if p.alive < len(p.particles) {
				p.spawn()
			}
		}
	}
}

// spawn initializes the particle at slot p.alive and increments alive.
func (p *ParticleEmitter) spawn() {
	pt := &p.particles[p.alive]
	cfg := &p.config

	angle := cfg.Angle.Random(p.rng)
	speed := cfg.Speed.Random(p.rng)
	pt.vx = math.Cos(angle) * speed
	pt.vy = math.Sin(angle) * speed

	if cfg.WorldSpace {
		pt.x, pt.y = p.originX, p.originY
	} else {
		pt.x, pt.y = 0, 0
	}

	pt.life = cfg.Lifetime.Random(p.rng)
	if pt.life <= 0 {
		pt.life = 1.0
	}
	pt.maxLife = pt.life

	pt.startScale = float32(cfg.StartScale.Random(p.rng))
	pt.endScale = float32(cfg.EndScale.Random(p.rng))
	pt.scale = pt.startScale

	pt.startAlpha = float32(cfg.StartAlpha.Random(p.rng))
	pt.endAlpha = float32(cfg.EndAlpha.Random(p.rng))
	pt.alpha = pt.startAlpha

	p.alive++
}

// sync centers each alive particle's quad on its position. Dead slots get
// a zero extent and draw nothing.
func (p *ParticleEmitter) sync(e *Entity) {
	for i, q := range p.quads {
		if i >= p.alive {
			q.Transform.Scale = Vec2{}
			continue
		}
		pt := &p.particles[i]
		x, y := pt.x, pt.y
		if !p.config.WorldSpace {
			x += float64(e.Transform.Position.X)
			y += float64(e.Transform.Position.Y)
		}
		size := Vec2{p.config.Size.X * pt.scale, p.config.Size.Y * pt.scale}
		q.Transform.Position = Vec2{float32(x) - size.X/2, float32(y) - size.Y/2}
		q.Transform.Scale = size

		t := float32(1.0 - pt.life/pt.maxLife)
		c := lerpColor(p.config.StartColor, p.config.EndColor, t)
		c.A = pt.alpha
		q.Drawable().SetColor(c)
	}
}

func lerp32(a, b, t float32) float32 {
	return a + (b-a)*t
}

func lerpColor(a, b Color, t float32) Color {
	return Color{
		R: lerp32(a.R, b.R, t),
		G: lerp32(a.G, b.G, t),
		B: lerp32(a.B, b.B, t),
		A: lerp32(a.A, b.A, t),
	}
}
