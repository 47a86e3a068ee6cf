package symmetry

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Faultbox/posebrush/pkg/math"
)

func TestPasses(t *testing.T) {
	assert.Equal(t, []Flags{0}, Passes(0))
	assert.Equal(t, []Flags{0, X}, Passes(X))
	assert.Equal(t, []Flags{0, X, Y, X | Y}, Passes(X|Y))
	// X|Z skips the X|Y pass.
	assert.Equal(t, []Flags{0, X, Z, X | Z}, Passes(X|Z))
	assert.Len(t, Passes(XYZ), 8)
}

func TestFlip(t *testing.T) {
	v := math.V3(1, 2, 3)
	assert.Equal(t, math.V3(-1, 2, 3), Flip(v, X))
	assert.Equal(t, math.V3(-1, -2, -3), Flip(v, XYZ))
	assert.Equal(t, v, Flip(Flip(v, X|Z), X|Z))
}

func TestFlipQuatMatchesMirroredRotation(t *testing.T) {
	q := math.QuatFromAxisAngle(math.V3(1, 1, 0).Normalize(), 0.8)
	p := math.V3(0.3, 0.4, 0.5)

	// Rotating a mirrored point by the mirrored rotation equals mirroring the
	// rotated point.
	want := Flip(q.Rotate(p), X)
	got := FlipQuat(q, X).Rotate(Flip(p, X))
	assert.True(t, want.ApproxEqual(got, 1e-5), "want %v got %v", want, got)
}

func TestVertexArea(t *testing.T) {
	assert.Equal(t, Area(0), VertexArea(math.V3(1, 1, 1)))
	assert.Equal(t, Area(X), VertexArea(math.V3(-1, 1, 1)))
	assert.Equal(t, Area(X|Z), VertexArea(math.V3(-1, 1, -1)))
}

func TestFlipByArea(t *testing.T) {
	pivot := math.V3(1, 0, 0)
	v := math.V3(2, 1, 1)
	assert.Equal(t, v, FlipByArea(v, X, 0, pivot))
	assert.Equal(t, math.V3(-2, 1, 1), FlipByArea(v, X, Area(X), pivot))

	// A pivot on the negative side flips back for area 0.
	neg := math.V3(-1, 0, 0)
	assert.Equal(t, math.V3(-2, 1, 1), FlipByArea(v, X, 0, neg))
	assert.Equal(t, v, FlipByArea(v, X, Area(X), neg))

	// Disabled axes never flip.
	assert.Equal(t, v, FlipByArea(v, Y, Area(X), neg))
}

func TestPivotSymmetric(t *testing.T) {
	assert.True(t, PivotSymmetric(math.V3(1, 0, 0), math.V3(2, 0, 0), X))
	assert.False(t, PivotSymmetric(math.V3(-1, 0, 0), math.V3(2, 0, 0), X))
	assert.False(t, PivotSymmetric(math.V3(1, 0, 0), math.V3(0, 0, 0), X))
	assert.True(t, PivotSymmetric(math.V3(-1, 0, 0), math.V3(0, 0, 0), X))
	assert.True(t, PivotSymmetric(math.V3(-1, 0, 0), math.V3(2, 0, 0), 0))
}

func TestInsideRadius(t *testing.T) {
	center := math.V3(1, 0, 0)
	assert.True(t, InsideRadius(math.V3(1.1, 0, 0), center, 0.5, 0))
	assert.False(t, InsideRadius(math.V3(-1.1, 0, 0), center, 0.5, 0))
	assert.True(t, InsideRadius(math.V3(-1.1, 0, 0), center, 0.5, X))
}
