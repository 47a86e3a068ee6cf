// Package picking casts rays against surfaces to find the stroke location
// under a cursor.
package picking

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/posebrush/internal/surface"
	"github.com/Faultbox/posebrush/pkg/math"
)

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3 // Normalized direction
}

// NewRay returns a ray from origin along dir, normalized.
func NewRay(origin, dir math.Vec3) Ray {
	return Ray{Origin: origin, Direction: dir.Normalize()}
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) math.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min math.Vec3
	Max math.Vec3
}

// ScreenToRay converts screen coordinates to a ray through the view.
// screenX, screenY are pixel coordinates, viewportW/H are viewport dimensions.
// invViewProj is the inverse of the view-projection matrix.
func ScreenToRay(screenX, screenY, viewportW, viewportH float32, invViewProj math.Mat4) Ray {
	// Normalized device coords (-1 to 1), Y flipped
	ndcX := 2*screenX/viewportW - 1
	ndcY := 1 - 2*screenY/viewportH

	near := invViewProj.TransformVec3(math.V3(ndcX, ndcY, -1))
	far := invViewProj.TransformVec3(math.V3(ndcX, ndcY, 1))
	return NewRay(near, far.Sub(near))
}

// IntersectAABB tests ray intersection with an axis-aligned bounding box.
// Returns the distance to intersection (t) and whether intersection occurred.
// If the ray starts inside the box, returns the exit distance.
func (r Ray) IntersectAABB(box AABB) (t float32, hit bool) {
	tmin, tmax := math32.Inf(-1), math32.Inf(1)

	for axis := range 3 {
		o, d := r.Origin.Component(axis), r.Direction.Component(axis)
		lo, hi := box.Min.Component(axis), box.Max.Component(axis)
		if d == 0 {
			if o < lo || o > hi {
				return 0, false
			}
			continue
		}
		t1, t2 := (lo-o)/d, (hi-o)/d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = max(tmin, t1)
		tmax = min(tmax, t2)
	}

	if tmax < tmin || tmax < 0 {
		return 0, false
	}
	// Entry point, or exit point if starting inside
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}

// IntersectTriangle returns the distance along r to triangle (a, b, c), hit
// from either side.
func (r Ray) IntersectTriangle(a, b, c math.Vec3) (t float32, hit bool) {
	e1, e2 := b.Sub(a), c.Sub(a)
	p := r.Direction.Cross(e2)
	det := e1.Dot(p)
	if math32.Abs(det) < math.Epsilon {
		return 0, false // Parallel to the triangle plane
	}
	inv := 1 / det
	s := r.Origin.Sub(a)
	u := s.Dot(p) * inv
	if u < 0 || u > 1 {
		return 0, false
	}
	q := s.Cross(e1)
	v := r.Direction.Dot(q) * inv
	if v < 0 || u+v > 1 {
		return 0, false
	}
	t = e2.Dot(q) * inv
	return t, t >= 0
}

// Bounds returns the box around the visible vertices of s.
func Bounds(s surface.Surface) (AABB, bool) {
	box := AABB{Min: math.Splat(math32.Inf(1)), Max: math.Splat(math32.Inf(-1))}
	found := false
	for v := range s.VertexCount() {
		if s.Hidden(v) {
			continue
		}
		co := s.Position(v)
		box.Min = math.V3(min(box.Min.X, co.X), min(box.Min.Y, co.Y), min(box.Min.Z, co.Z))
		box.Max = math.V3(max(box.Max.X, co.X), max(box.Max.Y, co.Y), max(box.Max.Z, co.Z))
		found = true
	}
	return box, found
}

// Hit is the closest intersection of a ray with a surface.
type Hit struct {
	Location math.Vec3
	// Vertex is the corner of the hit polygon nearest to Location.
	Vertex int
	T      float32
}

// Cast returns the closest visible polygon of s hit by r. Polygons with a
// hidden corner are skipped.
func Cast(s surface.Surface, r Ray) (Hit, bool) {
	box, ok := Bounds(s)
	if !ok {
		return Hit{}, false
	}
	if _, ok := r.IntersectAABB(box); !ok {
		return Hit{}, false
	}

	best := Hit{Vertex: -1, T: math32.Inf(1)}
	for corners := range surface.Faces(s) {
		if hidden(s, corners) {
			continue
		}
		a := s.Position(corners[0])
		for i := 1; i+1 < len(corners); i++ {
			t, ok := r.IntersectTriangle(a, s.Position(corners[i]), s.Position(corners[i+1]))
			if !ok || t >= best.T {
				continue
			}
			best.T = t
			best.Location = r.At(t)
			best.Vertex = nearestCorner(s, corners, best.Location)
		}
	}
	return best, best.Vertex >= 0
}

func hidden(s surface.Surface, corners []int) bool {
	for _, v := range corners {
		if s.Hidden(v) {
			return true
		}
	}
	return false
}

func nearestCorner(s surface.Surface, corners []int, p math.Vec3) int {
	best, bestDist := corners[0], s.Position(corners[0]).DistanceSquared(p)
	for _, v := range corners[1:] {
		if d := s.Position(v).DistanceSquared(p); d < bestDist {
			best, bestDist = v, d
		}
	}
	return best
}
