package domo

// EntityID is a process-unique entity handle. Zero means "no entity".
type EntityID uint64

// entityIDCounter is a plain counter (entities are created on the game goroutine).
var entityIDCounter EntityID

func nextEntityID() EntityID {
	entityIDCounter++
	return entityIDCounter
}

// Entity is a named container of behaviors with a transform and a draw-order
// index. Lower ZIndex values are drawn first. An entity belongs to at most
// one Scene.
type Entity struct {
	// Name is informational only.
	Name string
	// Transform is mutated in place by behaviors and game code.
	Transform Transform

	id        EntityID
	zIndex    int
	behaviors []Behavior
	started   bool
	scene     *Scene
}

// NewEntity creates an entity. zIndex is fixed for the entity's lifetime
// since its quad is routed into a batch of that draw order.
func NewEntity(name string, t Transform, zIndex int) *Entity {
	return &Entity{
		Name:      name,
		Transform: t,
		id:        nextEntityID(),
		zIndex:    zIndex,
	}
}

// ID returns the entity handle.
func (e *Entity) ID() EntityID { return e.id }

// ZIndex returns the draw-order index.
func (e *Entity) ZIndex() int { return e.zIndex }

// Scene returns the scene the entity was added to, or nil.
func (e *Entity) Scene() *Scene { return e.scene }

// Started reports whether Start has been called.
func (e *Entity) Started() bool { return e.started }

// Behaviors returns the attached behaviors in attachment order. The returned
// slice must not be modified.
func (e *Entity) Behaviors() []Behavior { return e.behaviors }

// AddBehavior appends b and binds it to e. If the entity is already started,
// b is started immediately.
func (e *Entity) AddBehavior(b Behavior) *Entity {
	if b == nil {
		panic("domo: AddBehavior called with nil behavior")
	}
	if ob, ok := b.(ownerBinder); ok {
		ob.bindOwner(e.id)
	}
	e.behaviors = append(e.behaviors, b)
	if e.started {
		b.Start(e)
	}
	return e
}

// GetBehavior returns the first behavior of e assignable to T. A miss is a
// normal outcome and reports false.
func GetBehavior[T any](e *Entity) (T, bool) {
	for _, b := range e.behaviors {
		if t, ok := b.(T); ok {
			return t, true
		}
	}
	var zero T
	return zero, false
}

// RemoveBehavior detaches the first behavior of e assignable to T and
// reports whether one was found. Removing the drawable also takes its quad
// out of its batch.
func RemoveBehavior[T any](e *Entity) bool {
	for i, b := range e.behaviors {
		if _, ok := b.(T); !ok {
			continue
		}
		if d, ok := b.(DrawableBehavior); ok {
			d.SpriteRenderer().unbatch()
		}
		if ob, ok := b.(ownerBinder); ok {
			ob.bindOwner(0)
		}
		copy(e.behaviors[i:], e.behaviors[i+1:])
		e.behaviors[len(e.behaviors)-1] = nil
		e.behaviors = e.behaviors[:len(e.behaviors)-1]
		return true
	}
	return false
}

// Drawable returns the behavior supplying renderable data, or nil when the
// entity draws nothing.
func (e *Entity) Drawable() *SpriteRenderer {
	for _, b := range e.behaviors {
		if d, ok := b.(DrawableBehavior); ok {
			return d.SpriteRenderer()
		}
	}
	return nil
}

// Start calls Start on every behavior in attachment order. Calling Start
// again is safe; behaviors guard their own one-time setup.
func (e *Entity) Start() {
	e.started = true
	for i := 0; i < len(e.behaviors); i++ {
		e.behaviors[i].Start(e)
	}
}

// Update calls Update on every behavior in attachment order.
func (e *Entity) Update(dt float64) {
	for i := 0; i < len(e.behaviors); i++ {
		e.behaviors[i].Update(e, dt)
	}
}
