package touchframe

// NewDirectContainer creates a container that applies each tick's delta
// immediately. It suits elements that rarely move, where per-tick cost
// matters more than smooth motion.
func NewDirectContainer(el Element, policy Policy, bounds Rect) (*Container, error) {
	return newContainer(el, policy, bounds, directMover{}, false)
}

type directMover struct{}

// scaleRotateMove composes scale and rotation about center, then the
// translation, onto the current transform.
func (directMover) scaleRotateMove(c *Container, angle, scale, moveX, moveY float64, center Vec2) {
	if angle == 0 && scale == 1 && moveX == 0 && moveY == 0 {
		return
	}
	delta := Translation(moveX, moveY).
		Mul(RotationAbout(angle, center)).
		Mul(ScalingAbout(scale, center))
	c.rotation = normalizeDegrees(c.rotation + angle)
	c.compose(delta)
}

func (directMover) tick(*Container) bool { return false }

func (directMover) reset(*Container) {}

func (directMover) pendingScale() float64 { return 1 }
