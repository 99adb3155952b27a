package domo

import (
	"testing"

	"github.com/tanema/gween/ease"
)

func TestFuncBehaviorStartsOnce(t *testing.T) {
	starts := 0
	var got *Entity
	f := &FuncBehavior{OnStart: func(e *Entity) { starts++; got = e }}
	e := NewEntity("e", Transform{}, 0)
	e.AddBehavior(f)
	e.Start()
	e.Start()
	if starts != 1 || got != e {
		t.Errorf("starts = %d", starts)
	}
	if !f.Started() {
		t.Error("Started should be true")
	}
	// Nil hooks are skipped.
	e.Update(0.1)
}

func TestTweenBehaviorPosition(t *testing.T) {
	e := NewEntity("e", NewTransform(Vec2{0, 10}, Vec2{1, 1}), 0)
	tw := NewTween(TweenPosition, Vec2{100, 30}, 2, nil)
	done := 0
	tw.OnDone = func(*Entity) { done++ }
	e.AddBehavior(tw)
	e.Start()

	e.Update(1)
	assertVec(t, "halfway", e.Transform.Position, Vec2{50, 20})
	if tw.Done() {
		t.Error("Done before the end")
	}

	e.Update(1)
	assertVec(t, "end", e.Transform.Position, Vec2{100, 30})
	if !tw.Done() || done != 1 {
		t.Errorf("Done = %v, OnDone calls = %d", tw.Done(), done)
	}

	e.Transform.Position = Vec2{}
	e.Update(1)
	if done != 1 || e.Transform.Position != (Vec2{}) {
		t.Error("finished tween should stay idle")
	}
}

func TestTweenBehaviorScaleMarksSpriteDirty(t *testing.T) {
	e := NewEntity("e", NewTransform(Vec2{}, Vec2{10, 10}), 0)
	spr := NewColorSprite(ColorWhite)
	tw := NewTween(TweenScale, Vec2{20, 40}, 1, ease.Linear)
	e.AddBehavior(tw).AddBehavior(spr)
	e.Start()
	spr.clean()

	e.Update(0.5)
	assertVec(t, "scale", e.Transform.Scale, Vec2{15, 25})
	if !spr.IsDirty() {
		t.Error("sprite should be dirty after the scale changed")
	}
}

func TestTweenBeforeStartIsIdle(t *testing.T) {
	e := NewEntity("e", NewTransform(Vec2{1, 2}, Vec2{1, 1}), 0)
	tw := NewTween(TweenPosition, Vec2{9, 9}, 1, nil)
	tw.Update(e, 0.5)
	if e.Transform.Position != (Vec2{1, 2}) || tw.Done() {
		t.Error("tween moved before Start")
	}
}
