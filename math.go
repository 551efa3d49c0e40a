package s2d

import "github.com/chewxy/math32"

// Epsilon is the relative tolerance used by the approximate equality helpers.
const Epsilon float32 = 1e-6

// DefaultSingularEpsilon is the determinant magnitude at or below which a
// matrix is treated as singular by Invert.
const DefaultSingularEpsilon float32 = 1e-10

// ApproxEqual reports whether a and b are equal within Epsilon, scaled by the
// larger magnitude: |a-b| <= Epsilon*max(1, |a|, |b|).
func ApproxEqual(a, b float32) bool {
	return math32.Abs(a-b) <= Epsilon*math32.Max(1, math32.Max(math32.Abs(a), math32.Abs(b)))
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// DegToRad converts degrees to radians.
func DegToRad(deg float32) float32 { return deg * (math32.Pi / 180) }

// RadToDeg converts radians to degrees.
func RadToDeg(rad float32) float32 { return rad * (180 / math32.Pi) }

// --- Vec2 ---

// Vec2 is a 2D vector used for positions, sizes, pivots, and UV coordinates.
type Vec2 struct {
	X, Y float32
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Mul returns the component-wise product of v and o.
func (v Vec2) Mul(o Vec2) Vec2 { return Vec2{v.X * o.X, v.Y * o.Y} }

// Scale returns v multiplied by s.
func (v Vec2) Scale(s float32) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Min returns the component-wise minimum of v and o.
func (v Vec2) Min(o Vec2) Vec2 { return Vec2{math32.Min(v.X, o.X), math32.Min(v.Y, o.Y)} }

// Max returns the component-wise maximum of v and o.
func (v Vec2) Max(o Vec2) Vec2 { return Vec2{math32.Max(v.X, o.X), math32.Max(v.Y, o.Y)} }

// Length returns the Euclidean length of v.
func (v Vec2) Length() float32 { return math32.Hypot(v.X, v.Y) }

// TransformMat2x3 returns v transformed as a point by m.
func (v Vec2) TransformMat2x3(m *Matrix2x3) Vec2 {
	return Vec2{m[0]*v.X + m[2]*v.Y + m[4], m[1]*v.X + m[3]*v.Y + m[5]}
}

// ExactEquals reports whether v and o are bitwise equal.
func (v Vec2) ExactEquals(o Vec2) bool { return v.X == o.X && v.Y == o.Y }

// Equals reports whether v and o are equal within Epsilon.
func (v Vec2) Equals(o Vec2) bool { return ApproxEqual(v.X, o.X) && ApproxEqual(v.Y, o.Y) }

// --- Matrix2x3 ---

// Matrix2x3 is a 2D affine matrix stored as [a, b, c, d, tx, ty]:
//
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
//
// All operations write to the receiver and never allocate. Operands may alias
// the receiver.
type Matrix2x3 [6]float32

// Identity2x3 is the identity affine matrix.
var Identity2x3 = Matrix2x3{1, 0, 0, 1, 0, 0}

// Identity sets m to the identity matrix.
func (m *Matrix2x3) Identity() *Matrix2x3 {
	*m = Identity2x3
	return m
}

// Copy sets m to a.
func (m *Matrix2x3) Copy(a *Matrix2x3) *Matrix2x3 {
	*m = *a
	return m
}

// Set sets all six components of m.
func (m *Matrix2x3) Set(a, b, c, d, tx, ty float32) *Matrix2x3 {
	m[0], m[1], m[2], m[3], m[4], m[5] = a, b, c, d, tx, ty
	return m
}

// Determinant returns a*d - b*c.
func (m *Matrix2x3) Determinant() float32 {
	return m[0]*m[3] - m[1]*m[2]
}

// Multiply sets m = a × b, so that b is applied first.
func (m *Matrix2x3) Multiply(a, b *Matrix2x3) *Matrix2x3 {
	a0, a1, a2, a3, a4, a5 := a[0], a[1], a[2], a[3], a[4], a[5]
	b0, b1, b2, b3, b4, b5 := b[0], b[1], b[2], b[3], b[4], b[5]
	m[0] = a0*b0 + a2*b1
	m[1] = a1*b0 + a3*b1
	m[2] = a0*b2 + a2*b3
	m[3] = a1*b2 + a3*b3
	m[4] = a0*b4 + a2*b5 + a4
	m[5] = a1*b4 + a3*b5 + a5
	return m
}

// Invert sets m to the inverse of a and reports whether a was invertible.
// When the determinant is within DefaultSingularEpsilon of zero m is left
// untouched.
func (m *Matrix2x3) Invert(a *Matrix2x3) bool {
	return m.InvertEpsilon(a, DefaultSingularEpsilon)
}

// InvertEpsilon is Invert with an explicit singularity threshold.
func (m *Matrix2x3) InvertEpsilon(a *Matrix2x3, eps float32) bool {
	a0, a1, a2, a3, a4, a5 := a[0], a[1], a[2], a[3], a[4], a[5]
	det := a0*a3 - a1*a2
	if math32.Abs(det) <= eps || math32.IsNaN(det) {
		return false
	}
	inv := 1 / det
	m[0] = a3 * inv
	m[1] = -a1 * inv
	m[2] = -a2 * inv
	m[3] = a0 * inv
	m[4] = (a2*a5 - a3*a4) * inv
	m[5] = (a1*a4 - a0*a5) * inv
	return true
}

// Translate sets m = a × T(v).
func (m *Matrix2x3) Translate(a *Matrix2x3, v Vec2) *Matrix2x3 {
	a0, a1, a2, a3, a4, a5 := a[0], a[1], a[2], a[3], a[4], a[5]
	m[0], m[1], m[2], m[3] = a0, a1, a2, a3
	m[4] = a0*v.X + a2*v.Y + a4
	m[5] = a1*v.X + a3*v.Y + a5
	return m
}

// Rotate sets m = a × R(rad).
func (m *Matrix2x3) Rotate(a *Matrix2x3, rad float32) *Matrix2x3 {
	a0, a1, a2, a3, a4, a5 := a[0], a[1], a[2], a[3], a[4], a[5]
	s, c := math32.Sincos(rad)
	m[0] = a0*c + a2*s
	m[1] = a1*c + a3*s
	m[2] = a0*-s + a2*c
	m[3] = a1*-s + a3*c
	m[4] = a4
	m[5] = a5
	return m
}

// Scale sets m = a × S(v).
func (m *Matrix2x3) Scale(a *Matrix2x3, v Vec2) *Matrix2x3 {
	a0, a1, a2, a3, a4, a5 := a[0], a[1], a[2], a[3], a[4], a[5]
	m[0] = a0 * v.X
	m[1] = a1 * v.X
	m[2] = a2 * v.Y
	m[3] = a3 * v.Y
	m[4] = a4
	m[5] = a5
	return m
}

// FromTranslation sets m to a pure translation.
func (m *Matrix2x3) FromTranslation(v Vec2) *Matrix2x3 {
	return m.Set(1, 0, 0, 1, v.X, v.Y)
}

// FromRotation sets m to a pure rotation.
func (m *Matrix2x3) FromRotation(rad float32) *Matrix2x3 {
	s, c := math32.Sincos(rad)
	return m.Set(c, s, -s, c, 0, 0)
}

// FromScaling sets m to a pure scale.
func (m *Matrix2x3) FromScaling(v Vec2) *Matrix2x3 {
	return m.Set(v.X, 0, 0, v.Y, 0, 0)
}

// TransformPoint applies m to (x, y).
func (m *Matrix2x3) TransformPoint(x, y float32) (float32, float32) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// ExactEquals reports whether every component of m and o is exactly equal.
func (m *Matrix2x3) ExactEquals(o *Matrix2x3) bool {
	return *m == *o
}

// Equals reports whether every component of m and o is equal within Epsilon.
func (m *Matrix2x3) Equals(o *Matrix2x3) bool {
	for i := range m {
		if !ApproxEqual(m[i], o[i]) {
			return false
		}
	}
	return true
}
