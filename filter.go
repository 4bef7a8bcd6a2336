package touchframe

import (
	"math"
	"time"
)

const (
	// trackEpsilon snaps a filter onto its target once the remaining error is
	// imperceptible, so an idle container stops producing deltas.
	trackEpsilon = 1e-6
	// decayEpsilon ends a free-decay phase.
	decayEpsilon = 1e-3
)

// lagFactor is the fraction of the remaining error covered in one tick.
// It never exceeds 1, so a step cannot overshoot the target.
func lagFactor(interval, delay time.Duration) float64 {
	if delay <= 0 || interval <= 0 || interval >= delay {
		return 1
	}
	return float64(interval) / float64(delay)
}

// Filter is a scalar first-order lag that moves Position toward Target
// without oscillation. Interval is the fixed tick length and Delay the time
// constant; a larger Delay moves more slowly.
//
// A filter is either tracking a target that the caller keeps moving, or
// filtering: decaying freely from a seeded value toward rest.
type Filter struct {
	Interval time.Duration
	Delay    time.Duration

	position            float64
	previous            float64
	target              float64
	lastVelocityFromSet float64
	filtering           bool
}

// Reset sets position and target, clears velocity history and leaves the
// free-decay phase.
func (f *Filter) Reset(position, target float64) {
	f.position = position
	f.previous = position
	f.target = target
	f.lastVelocityFromSet = 0
	f.filtering = false
}

// Seed resets the filter and enters the free-decay phase unless position
// already equals target.
func (f *Filter) Seed(position, target float64) {
	f.Reset(position, target)
	f.filtering = math.Abs(target-position) > decayEpsilon
}

// Step advances Position one tick toward Target.
func (f *Filter) Step() {
	f.previous = f.position
	f.position += (f.target - f.position) * lagFactor(f.Interval, f.Delay)
	eps := trackEpsilon
	if f.filtering {
		eps = decayEpsilon
	}
	if math.Abs(f.target-f.position) < eps {
		f.position = f.target
		f.filtering = false
	}
}

// StepIfFiltering steps only during a free-decay phase.
func (f *Filter) StepIfFiltering() {
	if f.filtering {
		f.Step()
	}
}

// Stop halts motion: the target becomes the current position.
func (f *Filter) Stop() {
	f.target = f.position
	f.previous = f.position
	f.filtering = false
}

// SetTarget moves the target and records the velocity at this moment.
func (f *Filter) SetTarget(target float64) {
	f.target = target
	f.lastVelocityFromSet = f.Velocity()
}

// Target returns the current target.
func (f *Filter) Target() float64 { return f.target }

// Position returns the current position.
func (f *Filter) Position() float64 { return f.position }

// PreviousPosition returns the position before the last step.
func (f *Filter) PreviousPosition() float64 { return f.previous }

// Velocity is the displacement covered by the last step.
func (f *Filter) Velocity() float64 { return f.position - f.previous }

// LastVelocityFromSet is the velocity recorded by the most recent SetTarget.
func (f *Filter) LastVelocityFromSet() float64 { return f.lastVelocityFromSet }

// IsFiltering reports whether the filter is in a free-decay phase.
func (f *Filter) IsFiltering() bool { return f.filtering }

// Filter2D is the two-dimensional counterpart of Filter.
type Filter2D struct {
	Interval time.Duration
	Delay    time.Duration

	position            Vec2
	previous            Vec2
	target              Vec2
	lastVelocityFromSet Vec2
	filtering           bool
}

// Reset sets position and target, clears velocity history and leaves the
// free-decay phase.
func (f *Filter2D) Reset(position, target Vec2) {
	f.position = position
	f.previous = position
	f.target = target
	f.lastVelocityFromSet = Vec2{}
	f.filtering = false
}

// Seed resets the filter and enters the free-decay phase unless position
// already equals target.
func (f *Filter2D) Seed(position, target Vec2) {
	f.Reset(position, target)
	f.filtering = target.Sub(position).Len() > decayEpsilon
}

// Step advances Position one tick toward Target.
func (f *Filter2D) Step() {
	k := lagFactor(f.Interval, f.Delay)
	f.previous = f.position
	f.position = f.position.Add(f.target.Sub(f.position).Scale(k))
	eps := trackEpsilon
	if f.filtering {
		eps = decayEpsilon
	}
	if f.target.Sub(f.position).Len() < eps {
		f.position = f.target
		f.filtering = false
	}
}

// StepIfFiltering steps only during a free-decay phase.
func (f *Filter2D) StepIfFiltering() {
	if f.filtering {
		f.Step()
	}
}

// Stop halts motion: the target becomes the current position.
func (f *Filter2D) Stop() {
	f.target = f.position
	f.previous = f.position
	f.filtering = false
}

// SetTarget moves the target and records the velocity at this moment.
func (f *Filter2D) SetTarget(target Vec2) {
	f.target = target
	f.lastVelocityFromSet = f.Velocity()
}

// Target returns the current target.
func (f *Filter2D) Target() Vec2 { return f.target }

// Position returns the current position.
func (f *Filter2D) Position() Vec2 { return f.position }

// PreviousPosition returns the position before the last step.
func (f *Filter2D) PreviousPosition() Vec2 { return f.previous }

// Velocity is the displacement covered by the last step.
func (f *Filter2D) Velocity() Vec2 { return f.position.Sub(f.previous) }

// LastVelocityFromSet is the velocity recorded by the most recent SetTarget.
func (f *Filter2D) LastVelocityFromSet() Vec2 { return f.lastVelocityFromSet }

// IsFiltering reports whether the filter is in a free-decay phase.
func (f *Filter2D) IsFiltering() bool { return f.filtering }
