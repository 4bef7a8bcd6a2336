package touchframe

import "math"

// Vec2 is a 2D vector used for positions, offsets, sizes, and velocities
// throughout the API.
type Vec2 struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Scale returns v multiplied by s.
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Len returns the Euclidean length of v.
func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }

// IsZero reports whether both components are exactly zero.
func (v Vec2) IsZero() bool { return v.X == 0 && v.Y == 0 }

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Right returns the X coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the Y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Gesture is a bitmask of gesture capabilities an element opts into.
// Values can be combined with bitwise OR (e.g. GestureTap | GestureDrag).
type Gesture uint16

const (
	GestureTap         Gesture = 1 << iota // single short touch without travel
	GestureDrag                            // centroid motion past the drag threshold
	GestureSlide                           // local-space motion of the centroid
	GestureScrollX                         // horizontal scroll of embedded content
	GestureScrollY                         // vertical scroll of embedded content
	GestureRotate                          // two-contact rotation
	GestureTranslate                       // move the element with the contacts
	GestureResize                          // two-contact pinch scaling
	GestureFlick                           // translational inertia after release
	GestureSpin                            // angular inertia after release
	GestureBoundsCheck                     // inertia stops at the container edge

	GestureNone Gesture = 0
	GestureAll          = GestureTap | GestureDrag | GestureSlide | GestureScrollX | GestureScrollY |
		GestureRotate | GestureTranslate | GestureResize | GestureFlick | GestureSpin | GestureBoundsCheck
)

// EventType identifies a kind of gesture notification.
type EventType uint8

const (
	EventTouchDown EventType = iota // a new contact arrived on the element
	EventTouchUp                    // a contact left the element
	EventTap                        // a contact lifted within the tap window without travel
	EventDrag                       // the centroid moved past the drag threshold
	EventSlide                      // the centroid moved in element-local space
	EventScroll                     // like Slide, gated per axis by ScrollX/ScrollY

	numEventTypes
)

var eventTypeNames = [numEventTypes]string{
	"touchdown", "touchup", "tap", "drag", "slide", "scroll",
}

// String returns the lower-case event name.
func (t EventType) String() string {
	if t < numEventTypes {
		return eventTypeNames[t]
	}
	return "unknown"
}

// ElementKind selects the router used to translate gestures into an element's
// native actions. It is resolved once at registration.
type ElementKind uint8

const (
	KindGeneric   ElementKind = iota // raise abstract notifications only
	KindButton                       // Tap additionally activates the element
	KindToggle                       // Tap flips the element's state
	KindTextInput                    // Tap focuses the element at the touch point
	KindSlider                       // Tap and Slide set the element's value
	KindList                         // Tap selects, Scroll moves the content

	numElementKinds
)

var elementKindNames = [numElementKinds]string{
	"generic", "button", "toggle", "textinput", "slider", "list",
}

// String returns the lower-case kind name.
func (k ElementKind) String() string {
	if k < numElementKinds {
		return elementKindNames[k]
	}
	return "unknown"
}

// GestureEvent carries one gesture notification. Point is in element-local
// space for TouchDown, TouchUp and Tap; Center is in container space.
type GestureEvent struct {
	Type        EventType
	ContainerID uint32
	Element     Element
	Point       Vec2
	Center      Vec2
	DeltaX      float64
	DeltaY      float64
}
