package touchframe

import (
	"sync/atomic"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// PoseTween animates a container's pose (position, scale, rotation) to a
// target. Each Update resets the container to the interpolated pose, so any
// smoothing or inertia in progress is discarded.
//
// A tween stops once its container is disposed. Tweens started with
// Engine.Animate are advanced by Engine.Update and also stop when the
// container is touched; standalone tweens are advanced by the caller.
type PoseTween struct {
	tweens [4]*gween.Tween
	target *Container
	done   atomic.Bool
}

// TweenPose creates a tween from c's current pose to to over duration
// seconds. Rotation takes the shorter way around.
func TweenPose(c *Container, to Pose, duration float32, fn ease.TweenFunc) *PoseTween {
	if fn == nil {
		fn = ease.Linear
	}
	from := PoseOf(c.Transform())
	toRot := from.Rotation + normalizeDegrees(to.Rotation-from.Rotation)
	t := &PoseTween{target: c}
	t.tweens[0] = gween.New(float32(from.X), float32(to.X), duration, fn)
	t.tweens[1] = gween.New(float32(from.Y), float32(to.Y), duration, fn)
	t.tweens[2] = gween.New(float32(from.Scale), float32(to.Scale), duration, fn)
	t.tweens[3] = gween.New(float32(from.Rotation), float32(toRot), duration, fn)
	return t
}

// Update advances the tween by dt seconds and resets the container to the
// interpolated pose.
func (t *PoseTween) Update(dt float32) {
	if t.done.Load() {
		return
	}
	if t.target.Disposed() {
		t.done.Store(true)
		return
	}

	var v [4]float64
	allDone := true
	for i, tw := range t.tweens {
		val, finished := tw.Update(dt)
		v[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	if t.done.Load() {
		return
	}
	if allDone {
		t.done.Store(true)
	}
	t.target.Reset(Pose{X: v[0], Y: v[1], Scale: v[2], Rotation: v[3]}.Affine())
}

// Cancel stops the tween where it is. It is safe to call from any goroutine.
func (t *PoseTween) Cancel() { t.done.Store(true) }

// Done reports whether the tween finished or was cancelled.
func (t *PoseTween) Done() bool { return t.done.Load() }

// Target returns the animated container.
func (t *PoseTween) Target() *Container { return t.target }
