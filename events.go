package domo

// SceneEventType identifies a scene lifecycle event.
type SceneEventType uint8

const (
	// EventEntityAdded fires when an entity joins a scene.
	EventEntityAdded SceneEventType = iota
	// EventEntityRemoved fires when an entity leaves a scene.
	EventEntityRemoved
	// EventQuadMigrated fires when an entity's quad moves to another batch
	// because its new texture had no free slot.
	EventQuadMigrated
)

func (t SceneEventType) String() string {
	switch t {
	case EventEntityAdded:
		return "added"
	case EventEntityRemoved:
		return "removed"
	case EventQuadMigrated:
		return "migrated"
	default:
		return "unknown"
	}
}

// SceneEvent describes one lifecycle change of an entity.
type SceneEvent struct {
	Type     SceneEventType
	EntityID EntityID
	Name     string
	ZIndex   int
}

// EventSink receives scene lifecycle events. Install one with
// Scene.SetEventSink; the ecs sub-package bridges events into a Donburi
// world.
type EventSink interface {
	EmitEvent(event SceneEvent)
}

// EventSinkFunc adapts a function to EventSink.
type EventSinkFunc func(SceneEvent)

// EmitEvent implements EventSink.
func (f EventSinkFunc) EmitEvent(event SceneEvent) { f(event) }

func newSceneEvent(t SceneEventType, e *Entity) SceneEvent {
	return SceneEvent{Type: t, EntityID: e.ID(), Name: e.Name, ZIndex: e.ZIndex()}
}
