// Package camera provides the orbit camera strokes are scripted against.
package camera

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/posebrush/pkg/math"
)

// OrbitCamera orbits around a center point. +Z is up.
type OrbitCamera struct {
	// Center point to orbit around
	Center math.Vec3

	// Spherical coordinates
	Distance float32 // Distance from center
	Pitch    float32 // Elevation above the XY plane (radians)
	Yaw      float32 // Rotation around +Z (radians); 0 looks along +Y

	// Projection
	FovY      float32 // Vertical field of view (radians)
	Near, Far float32

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	// Sensitivity
	DragSensitivity float32
	ZoomSensitivity float32
}

// NewOrbitCamera creates a new orbit camera with default settings.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Distance:        5,
		Pitch:           0.3,
		FovY:            math32.Pi / 4,
		Near:            0.01,
		Far:             100,
		MinDistance:     0.1,
		MaxDistance:     100,
		MinPitch:        -1.5,
		MaxPitch:        1.5,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
	}
}

// Position returns the camera position.
func (c *OrbitCamera) Position() math.Vec3 {
	sinP, cosP := math32.Sin(c.Pitch), math32.Cos(c.Pitch)
	sinY, cosY := math32.Sin(c.Yaw), math32.Cos(c.Yaw)
	return c.Center.Add(math.V3(
		c.Distance*cosP*sinY,
		-c.Distance*cosP*cosY,
		c.Distance*sinP,
	))
}

// Forward returns the unit view direction.
func (c *OrbitCamera) Forward() math.Vec3 {
	return c.Center.Sub(c.Position()).Normalize()
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position(), c.Center, math.V3(0, 0, 1))
}

// Projection returns the perspective projection for a viewport of the given
// aspect ratio (width/height).
func (c *OrbitCamera) Projection(aspect float32) math.Mat4 {
	return math.Perspective(c.FovY, aspect, c.Near, c.Far)
}

// HandleDrag updates rotation based on mouse drag delta.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.Yaw -= deltaX * c.DragSensitivity
	c.Pitch = min(max(c.Pitch+deltaY*c.DragSensitivity, c.MinPitch), c.MaxPitch)
}

// HandleZoom updates distance based on scroll wheel delta.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.Distance -= delta * c.Distance * c.ZoomSensitivity
	c.Distance = min(max(c.Distance, c.MinDistance), c.MaxDistance)
}

// FitToBounds centers the camera on the box and backs off until a sphere
// around it fills the vertical field of view.
func (c *OrbitCamera) FitToBounds(lo, hi math.Vec3) {
	c.Center = lo.Add(hi).Scale(0.5)
	radius := hi.Sub(lo).Length() / 2
	c.Distance = min(max(radius/math32.Sin(c.FovY/2), c.MinDistance), c.MaxDistance)
}
