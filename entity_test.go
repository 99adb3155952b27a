package domo

import "testing"

type countingBehavior struct {
	BehaviorBase
	starts, updates int
	lastDT          float64
}

func (c *countingBehavior) Start(*Entity) {
	if c.StartOnce() {
		c.starts++
	}
}

func (c *countingBehavior) Update(_ *Entity, dt float64) {
	c.updates++
	c.lastDT = dt
}

func TestEntityIDsAreUnique(t *testing.T) {
	a := NewEntity("a", Transform{}, 0)
	b := NewEntity("b", Transform{}, 0)
	if a.ID() == 0 || a.ID() == b.ID() {
		t.Errorf("ids = %d, %d", a.ID(), b.ID())
	}
}

func TestEntityLifecycle(t *testing.T) {
	e := NewEntity("e", Transform{}, 3)
	c := &countingBehavior{}
	e.AddBehavior(c)
	if c.starts != 0 {
		t.Error("behavior started before the entity")
	}
	if c.Owner() != e.ID() {
		t.Errorf("Owner = %d, want %d", c.Owner(), e.ID())
	}

	e.Start()
	e.Start()
	if c.starts != 1 {
		t.Errorf("starts = %d, want 1", c.starts)
	}
	if !e.Started() {
		t.Error("Started should be true")
	}

	e.Update(0.25)
	e.Update(0.5)
	if c.updates != 2 || c.lastDT != 0.5 {
		t.Errorf("updates = %d, lastDT = %v", c.updates, c.lastDT)
	}
	if e.ZIndex() != 3 {
		t.Errorf("ZIndex = %d", e.ZIndex())
	}
}

func TestAddBehaviorToStartedEntity(t *testing.T) {
	e := NewEntity("e", Transform{}, 0)
	e.Start()
	c := &countingBehavior{}
	e.AddBehavior(c)
	if c.starts != 1 {
		t.Errorf("late behavior starts = %d, want 1", c.starts)
	}
}

func TestUpdateOrderFollowsAttachment(t *testing.T) {
	var order []string
	e := NewEntity("e", Transform{}, 0)
	for _, name := range []string{"first", "second", "third"} {
		name := name
		e.AddBehavior(&FuncBehavior{OnUpdate: func(*Entity, float64) { order = append(order, name) }})
	}
	e.Update(0)
	if len(order) != 3 || order[0] != "first" || order[2] != "third" {
		t.Errorf("order = %v", order)
	}
}

func TestGetBehavior(t *testing.T) {
	e := NewEntity("e", Transform{}, 0)
	c := &countingBehavior{}
	spr := NewColorSprite(ColorWhite)
	e.AddBehavior(c).AddBehavior(spr)

	got, ok := GetBehavior[*countingBehavior](e)
	if !ok || got != c {
		t.Error("GetBehavior[*countingBehavior] miss")
	}
	d, ok := GetBehavior[DrawableBehavior](e)
	if !ok || d.SpriteRenderer() != spr {
		t.Error("GetBehavior[DrawableBehavior] miss")
	}
	if _, ok := GetBehavior[*TweenBehavior](e); ok {
		t.Error("GetBehavior should report absent types")
	}
}

func TestRemoveBehavior(t *testing.T) {
	e := NewEntity("e", Transform{}, 0)
	c := &countingBehavior{}
	e.AddBehavior(c).AddBehavior(NewColorSprite(ColorWhite))

	if !RemoveBehavior[*countingBehavior](e) {
		t.Fatal("RemoveBehavior returned false")
	}
	if c.Owner() != 0 {
		t.Error("removed behavior keeps its owner")
	}
	if len(e.Behaviors()) != 1 {
		t.Errorf("behaviors = %d, want 1", len(e.Behaviors()))
	}
	if RemoveBehavior[*countingBehavior](e) {
		t.Error("second RemoveBehavior returned true")
	}
}

func TestDrawable(t *testing.T) {
	e := NewEntity("e", Transform{}, 0)
	if e.Drawable() != nil {
		t.Error("entity without sprite has a drawable")
	}
	e.AddBehavior(&countingBehavior{})
	spr := NewColorSprite(ColorMagenta)
	e.AddBehavior(spr)
	if e.Drawable() != spr {
		t.Error("Drawable should return the sprite renderer")
	}
}

func TestAddNilBehaviorPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	NewEntity("e", Transform{}, 0).AddBehavior(nil)
}
