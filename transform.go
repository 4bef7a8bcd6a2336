package touchframe

import "math"

// Affine is a 2D affine matrix stored as [a, b, c, d, tx, ty].
//
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
type Affine [6]float64

// IdentityAffine is the identity matrix.
var IdentityAffine = Affine{1, 0, 0, 1, 0, 0}

// Translation returns a matrix that moves points by (dx, dy).
func Translation(dx, dy float64) Affine {
	return Affine{1, 0, 0, 1, dx, dy}
}

// RotationAbout returns a matrix rotating by deg degrees around center.
func RotationAbout(deg float64, center Vec2) Affine {
	sin, cos := math.Sincos(deg * math.Pi / 180)
	// T(center) * R * T(-center)
	return Affine{
		cos, sin, -sin, cos,
		center.X - cos*center.X + sin*center.Y,
		center.Y - sin*center.X - cos*center.Y,
	}
}

// ScalingAbout returns a matrix scaling uniformly by s around center.
func ScalingAbout(s float64, center Vec2) Affine {
	return Affine{s, 0, 0, s, center.X - s*center.X, center.Y - s*center.Y}
}

// Mul returns m * c: the result applies c first, then m.
func (m Affine) Mul(c Affine) Affine {
	return Affine{
		m[0]*c[0] + m[2]*c[1],
		m[1]*c[0] + m[3]*c[1],
		m[0]*c[2] + m[2]*c[3],
		m[1]*c[2] + m[3]*c[3],
		m[0]*c[4] + m[2]*c[5] + m[4],
		m[1]*c[4] + m[3]*c[5] + m[5],
	}
}

// Invert computes the inverse matrix.
// Returns the identity matrix if m is singular (determinant ≈ 0).
func (m Affine) Invert() Affine {
	det := m[0]*m[3] - m[2]*m[1]
	if det > -1e-12 && det < 1e-12 {
		return IdentityAffine
	}
	invDet := 1.0 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	return Affine{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}
}

// Apply transforms the point p.
func (m Affine) Apply(p Vec2) Vec2 {
	return Vec2{m[0]*p.X + m[2]*p.Y + m[4], m[1]*p.X + m[3]*p.Y + m[5]}
}

// IsIdentity reports whether m is within 1e-12 of the identity matrix.
func (m Affine) IsIdentity() bool {
	for i := range m {
		if math.Abs(m[i]-IdentityAffine[i]) > 1e-12 {
			return false
		}
	}
	return true
}

// corners returns the four corners of a w×h local rectangle mapped through m,
// in the order top-left, top-right, bottom-left, bottom-right.
func corners(m Affine, w, h float64) [4]Vec2 {
	return [4]Vec2{
		m.Apply(Vec2{0, 0}),
		m.Apply(Vec2{w, 0}),
		m.Apply(Vec2{0, h}),
		m.Apply(Vec2{w, h}),
	}
}

// boundsOf returns the axis-aligned bounding box of a w×h local rectangle
// mapped through m.
func boundsOf(m Affine, w, h float64) Rect {
	pts := corners(m, w, h)
	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := minX, minY
	for _, p := range pts[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Pose is a decomposed similarity transform: uniform scale, then rotation
// (degrees), then translation. It is what tweens interpolate.
type Pose struct {
	X, Y     float64
	Scale    float64
	Rotation float64
}

// Affine returns the matrix for the pose.
//
// Composition order:
//
//	Scale -> Rotate -> Translate(X, Y)
func (p Pose) Affine() Affine {
	sin, cos := math.Sincos(p.Rotation * math.Pi / 180)
	s := p.Scale
	return Affine{cos * s, sin * s, -sin * s, cos * s, p.X, p.Y}
}

// PoseOf decomposes a similarity matrix into a Pose. Skew and non-uniform
// scale are not represented; the X axis length is used as the scale.
func PoseOf(m Affine) Pose {
	return Pose{
		X:        m[4],
		Y:        m[5],
		Scale:    math.Hypot(m[0], m[1]),
		Rotation: math.Atan2(m[1], m[0]) * 180 / math.Pi,
	}
}
