package touchframe

import (
	"reflect"
	"sync"
	"sync/atomic"
)

// Element is the hosting layer's visual element that a container moves.
//
// Size is read from the input context and must be safe for concurrent reads.
// Transform is read once when the container is created or reset.
// SetTransform is only called from the UI-owning context (Engine.Update).
type Element interface {
	Size() (w, h float64)
	Transform() Affine
	SetTransform(m Affine)
}

// GestureReceiver is implemented by elements that want abstract gesture
// notifications raised on them.
type GestureReceiver interface {
	ReceiveGesture(ev GestureEvent)
}

// HitTester is implemented by elements with a custom hit region in local
// coordinates. Elements without one are hit-tested against their size.
type HitTester interface {
	Contains(lx, ly float64) bool
}

// Activator is an element with a primary action, like a button.
type Activator interface {
	Activate()
}

// Toggler is a two-state element, like a check box.
type Toggler interface {
	Toggle()
}

// TextInput is an element that accepts focus at a local point.
type TextInput interface {
	Focus(at Vec2)
}

// ValueSetter is a ranged element, like a slider.
type ValueSetter interface {
	Value() float64
	SetValue(v float64)
	Range() (min, max float64)
}

// Selector is a list-like element that selects the item under a local point.
type Selector interface {
	SelectAt(at Vec2)
}

// Scroller is an embedded scrollable region scrolled by pixels.
type Scroller interface {
	ScrollOffset() Vec2
	SetScrollOffset(off Vec2)
}

// ScrollContainer exposes an embedded scrollable region. ScrollRegion may
// return nil when the element currently has nothing to scroll.
type ScrollContainer interface {
	ScrollRegion() Scroller
}

// nodeIDCounter is shared by all goroutines that create nodes.
var nodeIDCounter atomic.Uint32

func nextNodeID() uint32 {
	return nodeIDCounter.Add(1)
}

// Node is a minimal Element for hosts that keep their own drawing code, and
// for tests. Callbacks are invoked from the input context.
type Node struct {
	// Identity
	ID   uint32
	Name string

	// Size in local units. Set before registration.
	Width, Height float64

	// HitShape overrides the rectangular hit region when set.
	HitShape HitShape

	// Metadata
	UserData any

	// Gesture callbacks
	OnTouchDown func(GestureEvent)
	OnTouchUp   func(GestureEvent)
	OnTap       func(GestureEvent)
	OnDrag      func(GestureEvent)
	OnSlide     func(GestureEvent)
	OnScroll    func(GestureEvent)

	mu        sync.RWMutex
	transform Affine
	disposed  bool
}

// NewNode creates a node of the given size at the origin.
func NewNode(name string, w, h float64) *Node {
	return &Node{
		ID:        nextNodeID(),
		Name:      name,
		Width:     w,
		Height:    h,
		transform: IdentityAffine,
	}
}

// Size returns the node's local width and height.
func (n *Node) Size() (w, h float64) {
	return n.Width, n.Height
}

// Transform returns the node's current transform.
func (n *Node) Transform() Affine {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.transform
}

// SetTransform replaces the node's transform.
func (n *Node) SetTransform(m Affine) {
	n.mu.Lock()
	n.transform = m
	n.mu.Unlock()
}

// SetPosition places the node at (x, y) keeping its rotation and scale.
func (n *Node) SetPosition(x, y float64) {
	n.mu.Lock()
	n.transform[4] = x
	n.transform[5] = y
	n.mu.Unlock()
}

// Contains implements HitTester using HitShape or the node's size.
func (n *Node) Contains(lx, ly float64) bool {
	n.mu.RLock()
	shape := n.HitShape
	n.mu.RUnlock()
	if shape != nil {
		return shape.Contains(lx, ly)
	}
	if n.Width == 0 && n.Height == 0 {
		return false
	}
	return lx >= 0 && lx <= n.Width && ly >= 0 && ly <= n.Height
}

// ReceiveGesture dispatches ev to the matching callback.
func (n *Node) ReceiveGesture(ev GestureEvent) {
	var fn func(GestureEvent)
	n.mu.RLock()
	switch ev.Type {
	case EventTouchDown:
		fn = n.OnTouchDown
	case EventTouchUp:
		fn = n.OnTouchUp
	case EventTap:
		fn = n.OnTap
	case EventDrag:
		fn = n.OnDrag
	case EventSlide:
		fn = n.OnSlide
	case EventScroll:
		fn = n.OnScroll
	}
	n.mu.RUnlock()
	if fn != nil {
		fn(ev)
	}
}

// Dispose marks the node as disposed and drops its callbacks. Containers
// stop applying transforms to a disposed node.
func (n *Node) Dispose() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.disposed {
		return
	}
	n.disposed = true
	n.HitShape = nil
	n.UserData = nil
	n.OnTouchDown = nil
	n.OnTouchUp = nil
	n.OnTap = nil
	n.OnDrag = nil
	n.OnSlide = nil
	n.OnScroll = nil
}

// IsDisposed returns true if this node has been disposed.
func (n *Node) IsDisposed() bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.disposed
}

// disposable is implemented by elements that can outlive their usefulness.
type disposable interface {
	IsDisposed() bool
}

func elementDisposed(el Element) bool {
	d, ok := el.(disposable)
	return ok && d.IsDisposed()
}

// isNil reports whether el is nil or a typed nil pointer, map, slice, func
// or channel wrapped in the interface.
func isNil(el Element) bool {
	if el == nil {
		return true
	}
	switch v := reflect.ValueOf(el); v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}
