package ecs

import (
	"sync"
	"testing"
	"time"

	"github.com/phanxgames/touchframe"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

func TestNewDonburiSink(t *testing.T) {
	world := donburi.NewWorld()
	if NewDonburiSink(world) == nil {
		t.Fatal("NewDonburiSink returned nil")
	}
	var _ touchframe.EventSink = NewDonburiSink(world)
}

func TestDonburiSink_FlushPublishes(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)

	var received []touchframe.GestureEvent
	GestureEventType.Subscribe(world, func(w donburi.World, e touchframe.GestureEvent) {
		received = append(received, e)
	})

	sink.EmitGesture(touchframe.GestureEvent{
		Type:        touchframe.EventTouchDown,
		ContainerID: 42,
		Point:       touchframe.Vec2{X: 100, Y: 200},
	})
	sink.EmitGesture(touchframe.GestureEvent{
		Type:   touchframe.EventDrag,
		DeltaX: 3,
	})

	// Nothing reaches the world before Flush.
	GestureEventType.ProcessEvents(world)
	if len(received) != 0 {
		t.Fatalf("expected 0 events before Flush, got %d", len(received))
	}

	if n := sink.Flush(); n != 2 {
		t.Errorf("Flush = %d, want 2", n)
	}
	GestureEventType.ProcessEvents(world)

	if len(received) != 2 {
		t.Fatalf("expected 2 events, got %d", len(received))
	}
	e0 := received[0]
	if e0.Type != touchframe.EventTouchDown || e0.ContainerID != 42 {
		t.Errorf("event 0: %+v", e0)
	}
	if e0.Point != (touchframe.Vec2{X: 100, Y: 200}) {
		t.Errorf("event 0 point: %v", e0.Point)
	}
	if e1 := received[1]; e1.Type != touchframe.EventDrag || e1.DeltaX != 3 {
		t.Errorf("event 1: %+v", e1)
	}
	if sink.Flush() != 0 {
		t.Error("second Flush should publish nothing")
	}
}

func TestDonburiSink_MultipleSubscribers(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)

	var count1, count2 int
	GestureEventType.Subscribe(world, func(w donburi.World, e touchframe.GestureEvent) {
		count1++
	})
	GestureEventType.Subscribe(world, func(w donburi.World, e touchframe.GestureEvent) {
		count2++
	})

	sink.EmitGesture(touchframe.GestureEvent{Type: touchframe.EventTap})
	sink.Flush()
	events.ProcessAllEvents(world)

	if count1 != 1 || count2 != 1 {
		t.Errorf("expected both subscribers called once, got %d and %d", count1, count2)
	}
}

func TestDonburiSink_ConcurrentEmit(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)
	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				sink.EmitGesture(touchframe.GestureEvent{Type: touchframe.EventDrag})
			}
		}()
	}
	wg.Wait()
	if n := sink.Flush(); n != 200 {
		t.Errorf("Flush = %d, want 200", n)
	}
}

func TestEngineTapReachesEntity(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)

	engine := touchframe.NewEngine(touchframe.DefaultConfig(), nil)
	defer engine.Close()
	engine.SetEventSink(sink)

	node := touchframe.NewNode("button", 100, 40)
	c, err := engine.Add(node, "button", touchframe.Rect{}, false)
	if err != nil {
		t.Fatal(err)
	}
	entity := Bind(world, c)

	var tapped []donburi.Entity
	GestureEventType.Subscribe(world, func(w donburi.World, e touchframe.GestureEvent) {
		if e.Type != touchframe.EventTap {
			return
		}
		if entry, ok := EntryFor(w, e); ok {
			tapped = append(tapped, entry.Entity())
		}
	})

	engine.FeedScreen(0, []touchframe.ContactReport{{ID: 1, Pos: touchframe.Vec2{X: 20, Y: 20}}})
	engine.FeedScreen(16*time.Millisecond, nil)
	sink.Flush()
	GestureEventType.ProcessEvents(world)

	if len(tapped) != 1 || tapped[0] != entity {
		t.Errorf("tapped = %v, want [%v]", tapped, entity)
	}

	if _, ok := EntryFor(world, touchframe.GestureEvent{ContainerID: c.ID() + 1000}); ok {
		t.Error("EntryFor matched an unbound container")
	}
}
