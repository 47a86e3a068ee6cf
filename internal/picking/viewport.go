package picking

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/posebrush/internal/camera"
	"github.com/Faultbox/posebrush/pkg/math"
)

// Viewport maps pixel coordinates of a camera view to object space.
type Viewport struct {
	Camera        *camera.OrbitCamera
	Width, Height float32
}

// InvViewProj returns the inverse of the view-projection matrix.
func (v *Viewport) InvViewProj() math.Mat4 {
	proj := v.Camera.Projection(v.Width / v.Height)
	return proj.Mul(v.Camera.ViewMatrix()).Inverse()
}

// Ray returns the cursor ray through pixel p.
func (v *Viewport) Ray(p [2]float32) Ray {
	return ScreenToRay(p[0], p[1], v.Width, v.Height, v.InvViewProj())
}

// GrabDelta returns how far a drag from pixel from to pixel to moves a point
// at location, on the view plane through location.
func (v *Viewport) GrabDelta(location math.Vec3, from, to [2]float32) math.Vec3 {
	n := v.Camera.Forward()
	inv := v.InvViewProj()
	a, okA := ScreenToRay(from[0], from[1], v.Width, v.Height, inv).intersectPlane(location, n)
	b, okB := ScreenToRay(to[0], to[1], v.Width, v.Height, inv).intersectPlane(location, n)
	if !okA || !okB {
		return math.Vec3{}
	}
	return b.Sub(a)
}

// intersectPlane intersects r with the plane through p with normal n.
func (r Ray) intersectPlane(p, n math.Vec3) (math.Vec3, bool) {
	denom := r.Direction.Dot(n)
	if math32.Abs(denom) < 1e-6 {
		return math.Vec3{}, false
	}
	t := p.Sub(r.Origin).Dot(n) / denom
	if t < 0 {
		return math.Vec3{}, false
	}
	return r.At(t), true
}
