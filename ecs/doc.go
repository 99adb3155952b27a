// Package ecs provides ECS adapters for domo's scene events.
//
// The primary adapter is [NewDonburiSink], which bridges domo scene
// lifecycle events (entity added, removed, quad migrated) into a [Donburi]
// world as typed events. Subscribe to [SceneEventType] in your ECS systems
// to receive them.
//
// [Mirror] keeps a Donburi entry in step with a domo entity's transform so
// ECS systems can query positions without touching the scene.
//
// Usage:
//
//	sink := ecs.NewDonburiSink(world)
//	scene.SetEventSink(sink)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
