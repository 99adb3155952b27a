package domo

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Behavior is a unit of logic attached to an Entity. The owning entity is
// passed to every call.
//
// Start runs once when the entity is activated; implementations should make
// repeated calls harmless (BehaviorBase.StartOnce does this). Update runs
// every frame with the frame delta in seconds.
type Behavior interface {
	Start(e *Entity)
	Update(e *Entity, dt float64)
}

// ownerBinder is implemented by behaviors embedding BehaviorBase.
type ownerBinder interface {
	bindOwner(id EntityID)
}

// BehaviorBase is embedded by behaviors that want to know their owner or
// guard Start against repeated calls.
type BehaviorBase struct {
	owner   EntityID
	started bool
}

func (b *BehaviorBase) bindOwner(id EntityID) { b.owner = id }

// Owner returns the handle of the entity the behavior is attached to, or 0
// when detached. Resolve it with Scene.Entity.
func (b *BehaviorBase) Owner() EntityID { return b.owner }

// Started reports whether StartOnce has been called.
func (b *BehaviorBase) Started() bool { return b.started }

// StartOnce marks the behavior started and reports whether this was the
// first call.
func (b *BehaviorBase) StartOnce() bool {
	if b.started {
		return false
	}
	b.started = true
	return true
}

// FuncBehavior adapts plain functions into a Behavior. Nil functions are
// skipped. OnStart runs at most once.
type FuncBehavior struct {
	BehaviorBase
	OnStart  func(e *Entity)
	OnUpdate func(e *Entity, dt float64)
}

// Start implements Behavior.
func (f *FuncBehavior) Start(e *Entity) {
	if f.StartOnce() && f.OnStart != nil {
		f.OnStart(e)
	}
}

// Update implements Behavior.
func (f *FuncBehavior) Update(e *Entity, dt float64) {
	if f.OnUpdate != nil {
		f.OnUpdate(e, dt)
	}
}

// TweenTarget selects which transform field a TweenBehavior animates.
type TweenTarget uint8

const (
	TweenPosition TweenTarget = iota
	TweenScale
)

// TweenBehavior animates the owner's position or scale towards To over
// Duration seconds. The start value is captured when the behavior starts.
type TweenBehavior struct {
	BehaviorBase

	Target   TweenTarget
	To       Vec2
	Duration float32
	Ease     ease.TweenFunc
	// OnDone, if set, is called once when the tween finishes.
	OnDone func(e *Entity)

	tweenX *gween.Tween
	tweenY *gween.Tween
	done   bool
}

// NewTween creates a TweenBehavior. A nil fn selects ease.Linear.
func NewTween(target TweenTarget, to Vec2, duration float32, fn ease.TweenFunc) *TweenBehavior {
	if fn == nil {
		fn = ease.Linear
	}
	return &TweenBehavior{Target: target, To: to, Duration: duration, Ease: fn}
}

// Done reports whether the tween has reached its end value.
func (t *TweenBehavior) Done() bool { return t.done }

func (t *TweenBehavior) field(e *Entity) *Vec2 {
	if t.Target == TweenScale {
		return &e.Transform.Scale
	}
	return &e.Transform.Position
}

// Start implements Behavior.
func (t *TweenBehavior) Start(e *Entity) {
	if !t.StartOnce() {
		return
	}
	fn := t.Ease
	if fn == nil {
		fn = ease.Linear
	}
	from := *t.field(e)
	t.tweenX = gween.New(from.X, t.To.X, t.Duration, fn)
	t.tweenY = gween.New(from.Y, t.To.Y, t.Duration, fn)
}

// Update implements Behavior.
func (t *TweenBehavior) Update(e *Entity, dt float64) {
	if t.done || t.tweenX == nil {
		return
	}
	x, doneX := t.tweenX.Update(float32(dt))
	y, doneY := t.tweenY.Update(float32(dt))
	*t.field(e) = Vec2{x, y}
	if doneX && doneY {
		t.done = true
		if t.OnDone != nil {
			t.OnDone(e)
		}
	}
}
