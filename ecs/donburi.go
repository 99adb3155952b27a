package ecs

import (
	"github.com/phanxgames/domo"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// SceneEventType is the Donburi event type for domo scene events.
var SceneEventType = events.NewEventType[domo.SceneEvent]()

// Transform holds the mirrored transform of a domo entity.
var Transform = donburi.NewComponentType[domo.Transform]()

// EntityRef links a Donburi entry back to its domo entity.
var EntityRef = donburi.NewComponentType[domo.EntityID]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates an EventSink backed by a Donburi world. Events are
// published to SceneEventType and can be consumed with events.Subscribe and
// ProcessEvents.
func NewDonburiSink(world donburi.World) domo.EventSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) EmitEvent(event domo.SceneEvent) {
	SceneEventType.Publish(s.world, event)
}

// Mirror is a behavior that creates a Donburi entry for its owner on Start
// and copies the owner's transform into it every update.
type Mirror struct {
	domo.BehaviorBase

	world donburi.World
	entry donburi.Entity
}

// NewMirror returns a Mirror writing into world.
func NewMirror(world donburi.World) *Mirror {
	return &Mirror{world: world}
}

// Entry returns the mirrored Donburi entity. It is not valid before Start.
func (m *Mirror) Entry() donburi.Entity { return m.entry }

// Start implements domo.Behavior.
func (m *Mirror) Start(e *domo.Entity) {
	if !m.StartOnce() {
		return
	}
	m.entry = m.world.Create(Transform, EntityRef)
	entry := m.world.Entry(m.entry)
	EntityRef.SetValue(entry, e.ID())
	Transform.SetValue(entry, e.Transform)
}

// Update implements domo.Behavior.
func (m *Mirror) Update(e *domo.Entity, _ float64) {
	if !m.world.Valid(m.entry) {
		return
	}
	Transform.SetValue(m.world.Entry(m.entry), e.Transform)
}
