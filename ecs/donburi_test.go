package ecs

import (
	"testing"

	"github.com/phanxgames/domo"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

func TestNewDonburiSink(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)
	if sink == nil {
		t.Fatal("NewDonburiSink returned nil")
	}
}

func TestDonburiSink_EmitEvent(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)

	var received []domo.SceneEvent
	SceneEventType.Subscribe(world, func(w donburi.World, e domo.SceneEvent) {
		received = append(received, e)
	})

	sink.EmitEvent(domo.SceneEvent{
		Type:     domo.EventEntityAdded,
		EntityID: 42,
		Name:     "hero",
		ZIndex:   3,
	})
	sink.EmitEvent(domo.SceneEvent{
		Type:     domo.EventQuadMigrated,
		EntityID: 7,
	})

	// Events are queued; process them.
	SceneEventType.ProcessEvents(world)

	if len(received) != 2 {
		t.Fatalf("expected 2 events, got %d", len(received))
	}
	e0 := received[0]
	if e0.Type != domo.EventEntityAdded || e0.EntityID != 42 || e0.Name != "hero" || e0.ZIndex != 3 {
		t.Errorf("event 0: %+v", e0)
	}
	if received[1].Type != domo.EventQuadMigrated || received[1].EntityID != 7 {
		t.Errorf("event 1: %+v", received[1])
	}
}

func TestDonburiSink_FromScene(t *testing.T) {
	world := donburi.NewWorld()
	scene := domo.NewScene(domo.SceneConfig{})
	scene.SetEventSink(NewDonburiSink(world))

	var count1, count2 int
	SceneEventType.Subscribe(world, func(w donburi.World, e domo.SceneEvent) {
		count1++
	})
	SceneEventType.Subscribe(world, func(w donburi.World, e domo.SceneEvent) {
		count2++
	})

	e := domo.NewEntity("e", domo.Transform{}, 0)
	if err := scene.AddEntity(e); err != nil {
		t.Fatal(err)
	}
	scene.RemoveEntity(e)
	events.ProcessAllEvents(world)

	if count1 != 2 || count2 != 2 {
		t.Errorf("expected both subscribers called twice, got %d and %d", count1, count2)
	}
}

func TestMirror(t *testing.T) {
	world := donburi.NewWorld()
	e := domo.NewEntity("e", domo.NewTransform(domo.Vec2{X: 1, Y: 2}, domo.Vec2{X: 3, Y: 4}), 0)
	m := NewMirror(world)
	e.AddBehavior(m)
	e.Start()

	if !world.Valid(m.Entry()) {
		t.Fatal("mirror entry not created")
	}
	entry := world.Entry(m.Entry())
	if *EntityRef.Get(entry) != e.ID() {
		t.Error("entity ref mismatch")
	}
	if got := Transform.Get(entry).Position; got != (domo.Vec2{X: 1, Y: 2}) {
		t.Errorf("position = %v", got)
	}

	e.Transform.Position = domo.Vec2{X: 10, Y: 20}
	e.Update(0.1)
	if got := Transform.Get(entry).Position; got != (domo.Vec2{X: 10, Y: 20}) {
		t.Errorf("position after update = %v", got)
	}
	if world.Len() != 1 {
		t.Errorf("world entries = %d, want 1", world.Len())
	}
}
