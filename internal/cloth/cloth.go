// Package cloth holds the deformation target buffer a cloth simulation reads
// its pinned positions from.
package cloth

import (
	"errors"
	"fmt"

	"github.com/Faultbox/posebrush/pkg/math"
)

var ErrSize = errors.New("cloth: target size does not match surface")

// Target is the simulation proxy. A deforming brush writes positions here
// instead of moving the surface.
type Target struct {
	DeformationPos []math.Vec3
}

// NewTarget returns a target initialized to positions.
func NewTarget(positions []math.Vec3) *Target {
	return &Target{DeformationPos: append([]math.Vec3(nil), positions...)}
}

// Check reports whether the target covers n vertices.
func (t *Target) Check(n int) error {
	if len(t.DeformationPos) != n {
		return fmt.Errorf("%d positions for %d vertices: %w", len(t.DeformationPos), n, ErrSize)
	}
	return nil
}

// Displacement returns how far v has been pulled from rest.
func (t *Target) Displacement(v int, rest math.Vec3) math.Vec3 {
	return t.DeformationPos[v].Sub(rest)
}
