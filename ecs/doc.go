// Package ecs provides ECS adapters for touchframe's gesture notifications.
//
// The primary adapter is [NewDonburiSink], which bridges gesture events
// (touch down/up, tap, drag, slide, scroll) into a [Donburi] world as typed
// events. Subscribe to [GestureEventType] in your ECS systems to receive them,
// and use [Bind] and [EntryFor] to map events back to entities.
//
// Usage:
//
//	sink := ecs.NewDonburiSink(world)
//	engine.SetEventSink(sink)
//
//	// each frame, on the world's goroutine
//	sink.Flush()
//	ecs.GestureEventType.ProcessEvents(world)
//
// The package is its own module, so importing touchframe alone does not pull
// in Donburi.
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
