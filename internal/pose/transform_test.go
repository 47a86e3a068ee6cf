package pose

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"

	"github.com/Faultbox/posebrush/internal/symmetry"
	"github.com/Faultbox/posebrush/pkg/math"
)

func TestBuildTransformsRestPose(t *testing.T) {
	c := straightChain(math.V3(1, 1, 3), math.V3(1, 1, 2), math.V3(1, 1, 0))
	c.buildTransforms(symmetry.XYZ, DeformRotateTwist, math.V3(1, 1, 3))

	for _, co := range []math.Vec3{{X: 0.5, Y: 1, Z: 2}, {X: -1, Y: -2, Z: 0.3}, {}} {
		for i := range c.Segments {
			for a := range symmetry.Areas {
				assertVec(t, math.Vec3{}, c.Segments[i].transformVertex(co, symmetry.Area(a)))
			}
		}
	}
}

func TestTransformRotatesAroundOrigin(t *testing.T) {
	c := straightChain(math.V3(0, 0, 2), math.V3(0, 0, 1))
	seg := &c.Segments[0]
	seg.Rot = math.QuatFromAxisAngle(math.V3(0, 1, 0), math32.Pi/2)
	c.buildTransforms(0, DeformRotateTwist, math.V3(0, 0, 2))

	// The head swings a quarter turn around the origin at z = 1.
	moved := seg.transformVertex(seg.InitialHead, 0).Add(seg.InitialHead)
	assertVec(t, math.V3(1, 0, 1), moved)
	assertVec(t, math.Vec3{}, seg.transformVertex(seg.Orig, 0))
}

func TestTransformFollowsTranslatedOrigin(t *testing.T) {
	c := straightChain(math.V3(0, 0, 2), math.V3(0, 0, 1))
	delta := math.V3(0.5, 0, -0.25)
	c.solveTranslate(delta)
	c.buildTransforms(0, DeformScaleTranslate, math.V3(0, 0, 2))

	for _, co := range []math.Vec3{{X: 1}, {Y: 2, Z: 3}} {
		assertVec(t, delta, c.Segments[0].transformVertex(co, symmetry.VertexArea(co)))
	}
}

func TestTransformMirrorsAcrossX(t *testing.T) {
	c := straightChain(math.V3(2, 0, 0), math.V3(1, 0, 0))
	seg := &c.Segments[0]
	seg.Rot = math.QuatFromAxisAngle(math.V3(0.3, 0.4, 0.866).Normalize(), 0.7)
	seg.Orig = seg.Orig.Add(math.V3(0.1, 0.2, 0))
	c.buildTransforms(symmetry.X, DeformRotateTwist, math.V3(2, 0, 0))

	for _, co := range []math.Vec3{{X: 1.5, Y: 0.3, Z: 0.1}, {X: 0.2, Y: -0.4, Z: 0.6}} {
		mirror := symmetry.Flip(co, symmetry.X)
		got := seg.transformVertex(mirror, symmetry.VertexArea(mirror))
		want := symmetry.Flip(seg.transformVertex(co, symmetry.VertexArea(co)), symmetry.X)
		assertVec(t, want, got, "vertex %v", co)
	}
}

func TestTransformSquashAlongSegment(t *testing.T) {
	c := straightChain(math.V3(0, 0, 2), math.V3(0, 0, 0))
	xy := 1 / math32.Sqrt(2)
	c.solveScale(math.V3(xy, xy, 2))
	c.buildTransforms(0, DeformSquashStretch, math.V3(0, 0, 2))

	co := math.V3(0.1, 0, 1)
	assertVec(t, math.V3(0.1*xy-0.1, 0, 1), c.Segments[0].transformVertex(co, 0))
}

func TestTransformSquashTiltedSegment(t *testing.T) {
	// Along X the stretch moves points along X only.
	c := straightChain(math.V3(2, 0, 0), math.V3(0, 0, 0))
	c.solveScale(math.V3(1, 1, 3))
	c.buildTransforms(0, DeformSquashStretch, math.V3(2, 0, 0))

	got := c.Segments[0].transformVertex(math.V3(1, 0.5, 0), 0)
	assert.InDelta(t, 2, got.X, tol)
	assert.InDelta(t, 0, got.Y, tol)
	assert.InDelta(t, 0, got.Z, tol)
}
