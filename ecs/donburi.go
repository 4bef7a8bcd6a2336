package ecs

import (
	"sync"

	"github.com/phanxgames/touchframe"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
	"github.com/yohamta/donburi/filter"
)

// GestureEventType is the Donburi event type for gesture notifications.
// Subscribe to this in your ECS systems to receive taps, drags, slides and
// scrolls.
var GestureEventType = events.NewEventType[touchframe.GestureEvent]()

// TouchTarget links an entity to the container that moves its element.
type TouchTarget struct {
	ContainerID uint32
}

// TouchTargetComponent tags entities that receive gestures.
var TouchTargetComponent = donburi.NewComponentType[TouchTarget]()

var touchTargets = donburi.NewQuery(filter.Contains(TouchTargetComponent))

// DonburiSink is an engine event sink backed by a Donburi world.
//
// Gestures arrive on the input goroutine while worlds are single-threaded,
// so EmitGesture only buffers. Call Flush from the goroutine that owns the
// world, before ProcessEvents.
type DonburiSink struct {
	world donburi.World

	mu      sync.Mutex
	pending []touchframe.GestureEvent
}

// NewDonburiSink creates a sink that publishes to GestureEventType in world.
func NewDonburiSink(world donburi.World) *DonburiSink {
	return &DonburiSink{world: world}
}

// EmitGesture implements touchframe.EventSink.
func (s *DonburiSink) EmitGesture(ev touchframe.GestureEvent) {
	s.mu.Lock()
	s.pending = append(s.pending, ev)
	s.mu.Unlock()
}

// Flush publishes buffered gestures in arrival order and returns how many
// were published.
func (s *DonburiSink) Flush() int {
	s.mu.Lock()
	evs := s.pending
	s.pending = nil
	s.mu.Unlock()
	for _, ev := range evs {
		GestureEventType.Publish(s.world, ev)
	}
	return len(evs)
}

// Bind creates an entity tagged with c's ID.
func Bind(world donburi.World, c *touchframe.Container) donburi.Entity {
	e := world.Create(TouchTargetComponent)
	TouchTargetComponent.SetValue(world.Entry(e), TouchTarget{ContainerID: c.ID()})
	return e
}

// EntryFor returns the entry bound to the event's container, if any.
func EntryFor(world donburi.World, ev touchframe.GestureEvent) (*donburi.Entry, bool) {
	var found *donburi.Entry
	touchTargets.Each(world, func(entry *donburi.Entry) {
		if found == nil && TouchTargetComponent.Get(entry).ContainerID == ev.ContainerID {
			found = entry
		}
	})
	return found, found != nil
}
