// Package symmetry implements mirror symmetry flags, symmetry areas and the
// flips used to replicate a deformation across mirror planes.
package symmetry

import "github.com/Faultbox/posebrush/pkg/math"

// Flags is a bit set of enabled mirror axes.
type Flags uint8

const (
	X Flags = 1 << iota
	Y
	Z

	XYZ = X | Y | Z
)

// Areas is the number of symmetry areas: one per combination of flipped axes.
const Areas = 8

// Area identifies the octant a point lies in relative to the mirror planes.
// Bit i is set when the coordinate on axis i is negative.
type Area uint8

// Has reports whether every axis of o is enabled in f.
func (f Flags) Has(o Flags) bool {
	return f&o == o
}

// IterationValid reports whether symmetry pass i produces a distinct mirror
// for the enabled flags.
func IterationValid(i Flags, f Flags) bool {
	if i == 0 {
		return true
	}
	if f&i == 0 {
		return false
	}
	if f == X|Z && i == X|Y {
		return false
	}
	if f == Y|Z && (i == X|Y || i == X|Z) {
		return false
	}
	return true
}

// Passes returns every valid symmetry pass for f, starting with the identity
// pass 0.
func Passes(f Flags) []Flags {
	passes := make([]Flags, 0, Areas)
	for i := Flags(0); i <= f; i++ {
		if IterationValid(i, f) {
			passes = append(passes, i)
		}
	}
	return passes
}

// Flip mirrors v across every axis in f.
func Flip(v math.Vec3, f Flags) math.Vec3 {
	if f&X != 0 {
		v.X = -v.X
	}
	if f&Y != 0 {
		v.Y = -v.Y
	}
	if f&Z != 0 {
		v.Z = -v.Z
	}
	return v
}

// FlipQuat mirrors the rotation q across every axis in f.
func FlipQuat(q math.Quat, f Flags) math.Quat {
	if f&X != 0 {
		q.Y, q.Z = -q.Y, -q.Z
	}
	if f&Y != 0 {
		q.X, q.Z = -q.X, -q.Z
	}
	if f&Z != 0 {
		q.X, q.Y = -q.X, -q.Y
	}
	return q
}

// VertexArea returns the symmetry area containing co.
func VertexArea(co math.Vec3) Area {
	var a Area
	if co.X < 0 {
		a |= Area(X)
	}
	if co.Y < 0 {
		a |= Area(Y)
	}
	if co.Z < 0 {
		a |= Area(Z)
	}
	return a
}

// flipsFor returns the axes to flip to move a point from the side of pivot
// into the given area, restricted to the enabled flags.
func flipsFor(f Flags, area Area, pivot math.Vec3) Flags {
	var out Flags
	for axis := 0; axis < 3; axis++ {
		bit := Flags(1 << axis)
		if f&bit == 0 {
			continue
		}
		if Flags(area)&bit != 0 {
			out ^= bit
		}
		if pivot.Component(axis) < 0 {
			out ^= bit
		}
	}
	return out
}

// FlipByArea mirrors v from the side of pivot into area.
func FlipByArea(v math.Vec3, f Flags, area Area, pivot math.Vec3) math.Vec3 {
	return Flip(v, flipsFor(f, area, pivot))
}

// FlipQuatByArea mirrors q from the side of pivot into area.
func FlipQuatByArea(q math.Quat, f Flags, area Area, pivot math.Vec3) math.Quat {
	return FlipQuat(q, flipsFor(f, area, pivot))
}

// PivotSymmetric reports whether co lies on the same side of every enabled
// mirror plane as pivot. A pivot exactly on a plane accepts the negative side.
func PivotSymmetric(co, pivot math.Vec3, f Flags) bool {
	for axis := 0; axis < 3; axis++ {
		if f&Flags(1<<axis) == 0 {
			continue
		}
		c, p := co.Component(axis), pivot.Component(axis)
		if p == 0 && c > 0 {
			return false
		}
		if c*p < 0 {
			return false
		}
	}
	return true
}

// InsideRadius reports whether co lies within radius of center or of any of
// its valid mirrors.
func InsideRadius(co, center math.Vec3, radius float32, f Flags) bool {
	for i := Flags(0); i <= f; i++ {
		if !IterationValid(i, f) {
			continue
		}
		if Flip(center, i).Distance(co) < radius {
			return true
		}
	}
	return false
}
