package touchframe

import (
	"math"
	"sync"
)

// syntheticIDBase keeps injected contact IDs clear of device IDs.
const syntheticIDBase = 1 << 20

// Frame is one tick of contact reports.
type Frame []ContactReport

// Injector queues synthetic multi-touch gestures as frames, consumed one per
// tick by Next. Frames are in screen space, ready for Engine.FeedScreen.
// Each queued gesture uses fresh contact IDs and ends with a release frame.
type Injector struct {
	mu     sync.Mutex
	queue  []Frame
	nextID int
}

// NewInjector creates an empty injector.
func NewInjector() *Injector {
	return &Injector{nextID: syntheticIDBase}
}

func (in *Injector) ids(n int) []int {
	ids := make([]int, n)
	for i := range ids {
		ids[i] = in.nextID
		in.nextID++
	}
	return ids
}

func (in *Injector) push(frames ...Frame) {
	in.queue = append(in.queue, frames...)
}

// Tap queues a single contact at (x, y) followed by a release. Consumes two
// frames.
func (in *Injector) Tap(x, y float64) {
	in.mu.Lock()
	defer in.mu.Unlock()
	id := in.ids(1)[0]
	in.push(Frame{{ID: id, Pos: Vec2{x, y}}}, Frame{})
}

// Drag queues one contact pressed at from and moved linearly to to, then
// released. The contact is down for frames-1 frames; the minimum is 3
// frames in total.
func (in *Injector) Drag(from, to Vec2, frames int) {
	in.mu.Lock()
	defer in.mu.Unlock()
	id := in.ids(1)[0]
	in.sweep(frames, func(t float64) Frame {
		return Frame{{ID: id, Pos: lerp(from, to, t)}}
	})
}

// Pinch queues two contacts placed horizontally around center whose distance
// changes linearly from fromDist to toDist, then releases both.
func (in *Injector) Pinch(center Vec2, fromDist, toDist float64, frames int) {
	in.mu.Lock()
	defer in.mu.Unlock()
	ids := in.ids(2)
	in.sweep(frames, func(t float64) Frame {
		half := (fromDist + (toDist-fromDist)*t) / 2
		return Frame{
			{ID: ids[0], Pos: Vec2{center.X - half, center.Y}},
			{ID: ids[1], Pos: Vec2{center.X + half, center.Y}},
		}
	})
}

// Rotate queues two contacts on opposite ends of a diameter of the given
// radius around center, turning through degrees, then releases both.
// Positive degrees turn clockwise on a y-down screen.
func (in *Injector) Rotate(center Vec2, radius, degrees float64, frames int) {
	in.mu.Lock()
	defer in.mu.Unlock()
	ids := in.ids(2)
	in.sweep(frames, func(t float64) Frame {
		sin, cos := math.Sincos(degrees * t * math.Pi / 180)
		off := Vec2{radius * cos, radius * sin}
		return Frame{
			{ID: ids[0], Pos: center.Sub(off)},
			{ID: ids[1], Pos: center.Add(off)},
		}
	})
}

// Wait queues frames with no contacts.
func (in *Injector) Wait(frames int) {
	in.mu.Lock()
	defer in.mu.Unlock()
	for range frames {
		in.push(Frame{})
	}
}

// sweep queues frames-1 contact frames for t in [0, 1] and a release frame.
func (in *Injector) sweep(frames int, at func(t float64) Frame) {
	frames = max(frames, 3)
	steps := frames - 2
	for i := 0; i <= steps; i++ {
		in.push(at(float64(i) / float64(steps)))
	}
	in.push(Frame{})
}

// Next pops the next frame. It reports false when the queue is empty.
func (in *Injector) Next() (Frame, bool) {
	in.mu.Lock()
	defer in.mu.Unlock()
	if len(in.queue) == 0 {
		return nil, false
	}
	f := in.queue[0]
	copy(in.queue, in.queue[1:])
	in.queue[len(in.queue)-1] = nil
	in.queue = in.queue[:len(in.queue)-1]
	return f, true
}

// Len returns the number of queued frames.
func (in *Injector) Len() int {
	in.mu.Lock()
	defer in.mu.Unlock()
	return len(in.queue)
}

func lerp(a, b Vec2, t float64) Vec2 {
	return Vec2{a.X + (b.X-a.X)*t, a.Y + (b.Y-a.Y)*t}
}
