// Package math provides the float32 vector, quaternion and matrix types used by
// the pose deformation core.
package math

import "github.com/chewxy/math32"

// Epsilon is the float32 machine epsilon used for degeneracy checks.
const Epsilon = 1.1920929e-7

// Vec3 is a 3D vector.
type Vec3 struct {
	X, Y, Z float32
}

// V3 is shorthand for Vec3{x, y, z}.
func V3(x, y, z float32) Vec3 {
	return Vec3{x, y, z}
}

// Splat returns a vector with all components set to s.
func Splat(s float32) Vec3 {
	return Vec3{s, s, s}
}

// Add returns v + other.
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

// Sub returns v - other.
func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

// Scale returns v * scalar.
func (v Vec3) Scale(s float32) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Mul returns the component-wise product.
func (v Vec3) Mul(other Vec3) Vec3 {
	return Vec3{v.X * other.X, v.Y * other.Y, v.Z * other.Z}
}

// Negate returns -v.
func (v Vec3) Negate() Vec3 {
	return Vec3{-v.X, -v.Y, -v.Z}
}

// Dot returns the dot product.
func (v Vec3) Dot(other Vec3) float32 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// Cross returns the cross product.
func (v Vec3) Cross(other Vec3) Vec3 {
	return Vec3{
		v.Y*other.Z - v.Z*other.Y,
		v.Z*other.X - v.X*other.Z,
		v.X*other.Y - v.Y*other.X,
	}
}

// LengthSquared returns the squared magnitude.
func (v Vec3) LengthSquared() float32 {
	return v.Dot(v)
}

// Length returns the magnitude.
func (v Vec3) Length() float32 {
	return math32.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Normalize returns a unit vector, or the zero vector when v has no length.
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l == 0 {
		return Vec3{}
	}
	return Vec3{v.X / l, v.Y / l, v.Z / l}
}

// Distance returns the distance to another point.
func (v Vec3) Distance(other Vec3) float32 {
	return v.Sub(other).Length()
}

// DistanceSquared returns the squared distance to another point.
func (v Vec3) DistanceSquared(other Vec3) float32 {
	return v.Sub(other).LengthSquared()
}

// Component returns the axis component (0 = X, 1 = Y, 2 = Z).
func (v Vec3) Component(axis int) float32 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// WithComponent returns v with the given axis component replaced.
func (v Vec3) WithComponent(axis int, value float32) Vec3 {
	switch axis {
	case 0:
		v.X = value
	case 1:
		v.Y = value
	default:
		v.Z = value
	}
	return v
}

// ApproxEqual reports whether every component of v and other differs by at most tol.
func (v Vec3) ApproxEqual(other Vec3, tol float32) bool {
	return math32.Abs(v.X-other.X) <= tol &&
		math32.Abs(v.Y-other.Y) <= tol &&
		math32.Abs(v.Z-other.Z) <= tol
}

// Array returns the components as an array.
func (v Vec3) Array() [3]float32 {
	return [3]float32{v.X, v.Y, v.Z}
}

// AngleNormalized returns the angle between two unit vectors.
// It stays accurate for nearly parallel and nearly opposite inputs.
func AngleNormalized(a, b Vec3) float32 {
	if a.Dot(b) >= 0 {
		return 2 * math32.Asin(a.Distance(b)/2)
	}
	return math32.Pi - 2*math32.Asin(a.Add(b).Length()/2)
}

// Orthogonal returns a vector perpendicular to v (not normalized).
func Orthogonal(v Vec3) Vec3 {
	ax, ay, az := math32.Abs(v.X), math32.Abs(v.Y), math32.Abs(v.Z)
	switch {
	case ax >= ay && ax >= az:
		return Vec3{-v.Y - v.Z, v.X, v.X}
	case ay >= az:
		return Vec3{v.Y, -v.X - v.Z, v.Y}
	default:
		return Vec3{v.Z, v.Z, -v.X - v.Y}
	}
}

// OrthoBasis returns two unit vectors that with the unit normal n form an
// orthonormal basis.
func OrthoBasis(n Vec3) (Vec3, Vec3) {
	f := n.X*n.X + n.Y*n.Y
	if f > Epsilon {
		d := 1 / math32.Sqrt(f)
		n1 := Vec3{n.Y * d, -n.X * d, 0}
		n2 := Vec3{-n.Z * n1.Y, n.Z * n1.X, n.X*n1.Y - n.Y*n1.X}
		return n1, n2
	}
	x := float32(1)
	if n.Z < 0 {
		x = -1
	}
	return Vec3{x, 0, 0}, Vec3{0, 1, 0}
}

// Plane is a plane given by a unit normal and a point on it.
type Plane struct {
	Normal Vec3
	D      float32
}

// PlaneFromPointNormal builds a plane through point with the unit normal n.
func PlaneFromPointNormal(point, n Vec3) Plane {
	return Plane{Normal: n, D: -n.Dot(point)}
}

// SignedDistance returns the signed distance of p to the plane, positive on the
// side the normal points to.
func (pl Plane) SignedDistance(p Vec3) float32 {
	return pl.Normal.Dot(p) + pl.D
}

// Lerp returns the linear interpolation between v and other.
func (v Vec3) Lerp(other Vec3, t float32) Vec3 {
	return v.Add(other.Sub(v).Scale(t))
}

// Clamp01 clamps x to [0, 1].
func Clamp01(x float32) float32 {
	return min(max(x, 0), 1)
}
