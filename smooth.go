package touchframe

import (
	"math"
	"time"
)

// Default smoothing parameters.
const (
	DefaultTickInterval = 3 * time.Millisecond
	DefaultDelay        = 100 * time.Millisecond
	DefaultDampingDelay = 1200 * time.Millisecond
)

// maxRotateStep is the largest per-tick angle accepted as a rotation target
// change. Larger jumps are ambiguous around the ±180° wrap and are ignored.
const maxRotateStep = 170.0

// SmoothParams configures the filter bank of a smooth container.
type SmoothParams struct {
	// Interval is the smoothing tick length. It must match the scheduler.
	Interval time.Duration
	// Delay is the time constant of the tracking filters.
	Delay time.Duration
	// DampingDelay is the time constant of flick and spin decay.
	DampingDelay time.Duration
}

// DefaultSmoothParams returns the default tick, delay and damping delay.
func DefaultSmoothParams() SmoothParams {
	return SmoothParams{
		Interval:     DefaultTickInterval,
		Delay:        DefaultDelay,
		DampingDelay: DefaultDampingDelay,
	}
}

func (p SmoothParams) withDefaults() SmoothParams {
	d := DefaultSmoothParams()
	if p.Interval <= 0 {
		p.Interval = d.Interval
	}
	if p.Delay <= 0 {
		p.Delay = d.Delay
	}
	if p.DampingDelay <= 0 {
		p.DampingDelay = d.DampingDelay
	}
	return p
}

// NewSmoothContainer creates a container that feeds each tick's delta into a
// filter bank. The engine's smoothing tick steps the filters and posts the
// composed transform, producing damped motion and release inertia.
func NewSmoothContainer(el Element, policy Policy, bounds Rect, params SmoothParams) (*Container, error) {
	params = params.withDefaults()
	m := &smoothMover{}
	m.init(params)
	return newContainer(el, policy, bounds, m, true)
}

type smoothMover struct {
	params SmoothParams

	translate Filter2D
	rotate    Filter
	scale     Filter
	center    Filter2D
	fling     Filter2D // translational damping
	spin      Filter   // angular damping

	centerInit bool
}

func (m *smoothMover) init(p SmoothParams) {
	m.params = p
	for _, f := range []*Filter2D{&m.translate, &m.center} {
		f.Interval, f.Delay = p.Interval, p.Delay
	}
	for _, f := range []*Filter{&m.rotate, &m.scale} {
		f.Interval, f.Delay = p.Interval, p.Delay
	}
	m.fling.Interval, m.fling.Delay = p.Interval, p.DampingDelay
	m.spin.Interval, m.spin.Delay = p.Interval, p.DampingDelay
	m.clear()
}

func (m *smoothMover) clear() {
	m.translate.Reset(Vec2{}, Vec2{})
	m.rotate.Reset(0, 0)
	m.scale.Reset(1, 1)
	m.fling.Reset(Vec2{}, Vec2{})
	m.spin.Reset(0, 0)
	m.centerInit = false
}

// scaleRotateMove pushes the tick's delta into the filter targets.
func (m *smoothMover) scaleRotateMove(c *Container, angle, scale, moveX, moveY float64, center Vec2) {
	if c.contacts.Started() {
		// A fresh gesture must not inherit the previous release velocity.
		m.translate.Reset(m.translate.Position(), m.translate.Target())
		m.rotate.Reset(m.rotate.Position(), m.rotate.Target())
	}
	if moveX != 0 || moveY != 0 {
		m.translate.SetTarget(m.translate.Target().Add(Vec2{moveX, moveY}))
	}
	if angle != 0 && math.Abs(angle) < maxRotateStep {
		m.rotate.SetTarget(m.rotate.Target() + angle)
	}
	if scale != 0 && scale != 1 {
		m.scale.SetTarget(m.scale.Target() * scale)
	}
	if c.policy.SupportsAny(GestureRotate | GestureResize) {
		if !m.centerInit {
			w, h := c.el.Size()
			mid := c.current.Apply(Vec2{w / 2, h / 2})
			m.center.Reset(mid, mid)
			m.centerInit = true
		}
		m.center.SetTarget(center)
	}
}

// tick steps the filter bank and posts the composed delta. Must hold c.mu.
func (m *smoothMover) tick(c *Container) bool {
	p := c.policy
	touched, lifted, ended := c.takeFlags()

	if touched {
		m.fling.Stop()
	}
	if c.contacts.TwoOrMoreTouching() {
		m.spin.Stop()
	}

	if p.Supports(GestureTranslate) {
		m.translate.Step()
	}
	if p.Supports(GestureRotate) {
		m.rotate.Step()
	}
	if p.Supports(GestureResize) {
		m.scale.Step()
	}
	if p.SupportsAny(GestureRotate | GestureResize) {
		m.center.Step()
	}

	if p.Supports(GestureFlick) && !m.fling.IsFiltering() && ended {
		m.fling.Seed(m.translate.LastVelocityFromSet(), Vec2{})
	}
	if p.Supports(GestureSpin) && !m.spin.IsFiltering() && lifted {
		m.spin.Seed(m.rotate.LastVelocityFromSet(), 0)
	}
	m.fling.StepIfFiltering()
	m.spin.StepIfFiltering()

	var fling Vec2
	if m.fling.IsFiltering() {
		fling = m.fling.Position()
	}
	var spin float64
	if m.spin.IsFiltering() {
		spin = m.spin.Position()
	}

	center := m.center.Position()
	if p.Supports(GestureBoundsCheck) && (!fling.IsZero() || spin != 0) {
		w, h := c.el.Size()
		if !fling.IsZero() && c.leavesBounds(Translation(fling.X, fling.Y), w, h) {
			// Finish at the edge, then rest.
			fling = c.clampMoveToBounds(corners(c.current, w, h), fling)
			m.fling.Stop()
		}
		if spin != 0 && c.leavesBounds(RotationAbout(spin, center), w, h) {
			m.spin.Stop()
			spin = 0
		}
	}

	ds := 1.0
	if prev := m.scale.PreviousPosition(); prev != 0 {
		ds = m.scale.Position() / prev
	}
	da := m.rotate.Velocity() + spin
	move := m.translate.Velocity().Add(fling)

	delta := Translation(move.X, move.Y).
		Mul(RotationAbout(da, center)).
		Mul(ScalingAbout(ds, center))
	if delta.IsIdentity() {
		return false
	}
	c.rotation = normalizeDegrees(c.rotation + da)
	c.compose(delta)
	return true
}

func (m *smoothMover) reset(*Container) { m.clear() }

func (m *smoothMover) pendingScale() float64 {
	if pos := m.scale.Position(); pos != 0 {
		return m.scale.Target() / pos
	}
	return 1
}

// leavesBounds reports whether applying delta would carry any corner of the
// element further outside the bounds.
func (c *Container) leavesBounds(delta Affine, w, h float64) bool {
	b := c.bounds
	if b.Width <= 0 && b.Height <= 0 {
		return false
	}
	before := corners(c.current, w, h)
	after := corners(delta.Mul(c.current), w, h)
	for i, pt := range after {
		if outsideBy(b, pt) > outsideBy(b, before[i])+moveEpsilon {
			return true
		}
	}
	return false
}

// clampMoveToBounds shortens d per axis so that no corner inside the bounds
// crosses an edge and no corner already outside moves further out.
func (c *Container) clampMoveToBounds(pts [4]Vec2, d Vec2) Vec2 {
	b := c.bounds
	for _, pt := range pts {
		if d.X > 0 {
			d.X = min(d.X, max(0, b.Right()-pt.X))
		} else if d.X < 0 {
			d.X = max(d.X, min(0, b.X-pt.X))
		}
		if d.Y > 0 {
			d.Y = min(d.Y, max(0, b.Bottom()-pt.Y))
		} else if d.Y < 0 {
			d.Y = max(d.Y, min(0, b.Y-pt.Y))
		}
	}
	return d
}

// outsideBy is the Manhattan distance from pt to b, zero inside.
func outsideBy(b Rect, pt Vec2) float64 {
	return max(0, b.X-pt.X) + max(0, pt.X-b.Right()) +
		max(0, b.Y-pt.Y) + max(0, pt.Y-b.Bottom())
}
