package touchframe

import (
	"math"
	"sync"
	"sync/atomic"
	"time"
)

// Default extent limits for a container's projected bounding box.
const (
	DefaultMinExtent = 0.0
	DefaultMaxExtent = 2000.0
)

var containerIDCounter atomic.Uint32

// mover is the variant-specific part of a container. scaleRotateMove is the
// only step of the per-tick algorithm that differs between variants.
type mover interface {
	scaleRotateMove(c *Container, angle, scale, moveX, moveY float64, center Vec2)
	// tick runs one smoothing step and reports whether a transform was posted.
	tick(c *Container) bool
	// reset discards motion state after the transform is replaced.
	reset(c *Container)
	// pendingScale is the scale factor accepted but not yet rendered.
	pendingScale() float64
}

// host receives a registered container's output.
type host interface {
	post(c *Container, m Affine)
	deliver(c *Container, evs []GestureEvent)
}

// Container binds one element to its contacts, its policy and its cumulative
// transform. The transform maps element-local space into container space.
//
// Feed is called from the input context. Registered containers post their
// transforms to the engine, which applies them in Engine.Update.
type Container struct {
	id     uint32
	el     Element
	policy Policy
	kind   ElementKind
	router Router
	smooth bool

	mu       sync.Mutex
	host     host
	contacts *ContactSet
	mover    mover
	current  Affine
	bounds   Rect

	minExtent float64
	maxExtent float64
	scale     float64
	rotation  float64

	cumulativeDragDistance float64
	relPos                 Vec2
	oldRelPos              Vec2

	// Latched for the smoothing tick, cleared after one read.
	pendingTouch bool
	pendingLift  bool
	pendingEnded bool

	disposed atomic.Bool
}

func newContainer(el Element, policy Policy, bounds Rect, m mover, smooth bool) (*Container, error) {
	if isNil(el) {
		return nil, ErrNilElement
	}
	kind := KindOf(el)
	c := &Container{
		id:        containerIDCounter.Add(1),
		el:        el,
		policy:    policy,
		kind:      kind,
		router:    NewRouter(kind, el),
		smooth:    smooth,
		contacts:  NewContactSet(policy.TapWindow, policy.DragThresholdPixels),
		mover:     m,
		current:   el.Transform(),
		bounds:    bounds,
		minExtent: DefaultMinExtent,
		maxExtent: DefaultMaxExtent,
	}
	pose := PoseOf(c.current)
	c.scale = pose.Scale
	c.rotation = pose.Rotation
	return c, nil
}

// ID returns the container's unique identifier.
func (c *Container) ID() uint32 { return c.id }

// Element returns the element this container moves.
func (c *Container) Element() Element { return c.el }

// Policy returns the container's gesture policy.
func (c *Container) Policy() Policy { return c.policy }

// Kind returns the element kind resolved at construction.
func (c *Container) Kind() ElementKind { return c.kind }

// Smooth reports whether the container uses the filtered variant.
func (c *Container) Smooth() bool { return c.smooth }

// Disposed reports whether the container has been unregistered.
func (c *Container) Disposed() bool { return c.disposed.Load() }

// Transform returns the latest composed transform. It may be ahead of the
// element's own transform until the engine applies pending posts.
func (c *Container) Transform() Affine {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Scale returns the cumulative scale.
func (c *Container) Scale() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scale
}

// Rotation returns the cumulative rotation in degrees.
func (c *Container) Rotation() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rotation
}

// Bounds returns the container-space rectangle the element is kept inside.
func (c *Container) Bounds() Rect {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bounds
}

// SetBounds replaces the container bounds. An empty rectangle disables the
// edge clamp.
func (c *Container) SetBounds(r Rect) {
	c.mu.Lock()
	c.bounds = r
	c.mu.Unlock()
}

// SetExtents sets the smallest and largest projected width or height the
// element may be scaled to.
func (c *Container) SetExtents(minExtent, maxExtent float64) {
	c.mu.Lock()
	c.minExtent = minExtent
	c.maxExtent = maxExtent
	c.mu.Unlock()
}

// Touching returns the number of active contacts.
func (c *Container) Touching() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.contacts.Count()
}

// Feed processes one tick of contact reports in container space. Contacts
// missing from reports are lifted. Notifications are routed after the
// container lock is released.
func (c *Container) Feed(now time.Duration, reports []ContactReport) {
	if c.disposed.Load() {
		return
	}
	c.mu.Lock()
	if c.disposed.Load() {
		c.mu.Unlock()
		return
	}
	c.contacts.Update(now, reports)
	evs := c.actOnTouches()
	h := c.host
	c.mu.Unlock()

	if len(evs) == 0 {
		return
	}
	for _, ev := range evs {
		route(c.router, ev)
	}
	if h != nil {
		h.deliver(c, evs)
	}
}

// Reset replaces the transform, discards smoothing and inertia state and
// posts m.
func (c *Container) Reset(m Affine) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed.Load() {
		return
	}
	c.current = m
	pose := PoseOf(m)
	c.scale = pose.Scale
	c.rotation = pose.Rotation
	c.mover.reset(c)
	c.post(m)
}

// actOnTouches runs the shared per-tick algorithm. Must hold c.mu.
func (c *Container) actOnTouches() []GestureEvent {
	cs := c.contacts
	if !cs.CalculateChanges() {
		return nil
	}
	if cs.JustTouched() {
		c.pendingTouch = true
	}
	if cs.Lifted() {
		c.pendingLift = true
	}
	if cs.Ended() {
		c.pendingEnded = true
	}

	p := c.policy
	center := cs.MoveCenter()
	moveX, moveY := cs.MoveX(), cs.MoveY()
	dragX, dragY := moveX, moveY
	moved := math.Hypot(moveX, moveY)
	c.cumulativeDragDistance += moved

	angle, scale := 0.0, 1.0
	if p.Supports(GestureRotate) {
		angle = cs.AngleChanged()
	}
	if p.Supports(GestureResize) {
		scale = cs.DistanceChangeRatio()
	}
	if !p.Supports(GestureTranslate) {
		moveX, moveY = 0, 0
	}

	w, h := c.el.Size()
	moveX, moveY = c.clampToEdges(corners(c.current, w, h), moveX, moveY)
	scale = c.clampScale(boundsOf(c.current, w, h), c.mover.pendingScale(), scale)
	c.scale *= scale

	c.mover.scaleRotateMove(c, angle, scale, moveX, moveY, cs.ActionCenter())

	// The centroid in element-local space, measured after this tick's move
	// so an element that follows the finger sees no relative motion. A
	// change in the contact count moves the centroid without any finger
	// motion, so it restarts the tracking.
	inv := c.current.Invert()
	c.relPos = inv.Apply(center)
	if cs.JustTouched() || cs.Lifted() {
		c.oldRelPos = c.relPos
	}
	local := c.relPos.Sub(c.oldRelPos)
	c.oldRelPos = c.relPos

	var evs []GestureEvent
	ev := func(t EventType) GestureEvent {
		return GestureEvent{Type: t, ContainerID: c.id, Element: c.el, Point: c.relPos, Center: center}
	}
	if cs.JustTouched() {
		evs = append(evs, ev(EventTouchDown))
	}
	if cs.Lifted() {
		evs = append(evs, ev(EventTouchUp))
		c.cumulativeDragDistance = 0
	}
	if cs.Tapped() && p.Supports(GestureTap) {
		e := ev(EventTap)
		e.Point = inv.Apply(cs.TapPoint())
		evs = append(evs, e)
	}
	if p.Supports(GestureDrag) && moved > moveEpsilon && c.cumulativeDragDistance > p.DragThresholdPixels {
		e := ev(EventDrag)
		e.DeltaX, e.DeltaY = dragX, dragY
		evs = append(evs, e)
	}
	if local.Len() > moveEpsilon {
		if p.Supports(GestureSlide) {
			e := ev(EventSlide)
			e.DeltaX, e.DeltaY = local.X, local.Y
			evs = append(evs, e)
		}
		if p.SupportsAny(GestureScrollX | GestureScrollY) {
			e := ev(EventScroll)
			if p.Supports(GestureScrollX) {
				e.DeltaX = local.X
			}
			if p.Supports(GestureScrollY) {
				e.DeltaY = local.Y
			}
			if e.DeltaX != 0 || e.DeltaY != 0 {
				evs = append(evs, e)
			}
		}
	}
	return evs
}

// clampToEdges zeroes each axis of the move that would push a corner that is
// already outside the bounds further out. Rotation and scale are not clamped.
func (c *Container) clampToEdges(pts [4]Vec2, moveX, moveY float64) (float64, float64) {
	b := c.bounds
	if b.Width <= 0 && b.Height <= 0 {
		return moveX, moveY
	}
	for _, pt := range pts {
		if (pt.X+moveX < b.X && moveX < 0) || (pt.X+moveX > b.Right() && moveX > 0) {
			moveX = 0
		}
		if (pt.Y+moveY < b.Y && moveY < 0) || (pt.Y+moveY > b.Bottom() && moveY > 0) {
			moveY = 0
		}
	}
	return moveX, moveY
}

// clampScale cancels a scale step that would take the projected bounding box
// beyond the extent limits. box is the rendered bounding box and pending the
// scale still to be applied to it, so the test runs against the cumulative
// target rather than a lagging frame.
func (c *Container) clampScale(box Rect, pending, scale float64) float64 {
	w, h := box.Width*pending*scale, box.Height*pending*scale
	if scale > 1 && (w > c.maxExtent || h > c.maxExtent) {
		return 1
	}
	if scale < 1 && (w < c.minExtent || h < c.minExtent) {
		return 1
	}
	return scale
}

// takeFlags returns and clears the latched touch, lift and end flags.
func (c *Container) takeFlags() (touched, lifted, ended bool) {
	touched, lifted, ended = c.pendingTouch, c.pendingLift, c.pendingEnded
	c.pendingTouch, c.pendingLift, c.pendingEnded = false, false, false
	return
}

// compose applies delta on top of the current transform and posts the
// result. Must hold c.mu.
func (c *Container) compose(delta Affine) {
	c.current = delta.Mul(c.current)
	c.post(c.current)
}

// post hands m to the engine, or applies it directly when unregistered.
// Must hold c.mu.
func (c *Container) post(m Affine) {
	if c.host != nil {
		c.host.post(c, m)
		return
	}
	c.el.SetTransform(m)
}

// tick runs one smoothing step. It returns false for direct and disposed
// containers.
func (c *Container) tick() bool {
	if c.disposed.Load() {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed.Load() {
		return false
	}
	return c.mover.tick(c)
}

// attach binds the container to h. Returns ErrDisposed after dispose.
func (c *Container) attach(h host) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed.Load() {
		return ErrDisposed
	}
	if c.host != nil {
		return ErrAlreadyRegistered
	}
	c.host = h
	return nil
}

// detach disposes the container if it is attached to h. Once it returns no
// further posts are made. It reports false when c was not attached to h.
func (c *Container) detach(h host) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.host != h || c.disposed.Load() {
		return false
	}
	c.disposed.Store(true)
	c.host = nil
	return true
}
