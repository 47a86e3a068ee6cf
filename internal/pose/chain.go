// Package pose implements the articulated pose deformation: it infers a chain
// of rigid segments from the surface around the stroke, solves the chain
// against the drag target every stroke step and blends the segment
// transforms onto the surface.
package pose

import (
	"github.com/Faultbox/posebrush/internal/symmetry"
	"github.com/Faultbox/posebrush/pkg/math"
)

// Segment is one rigid link. Head points toward the stroke location, Orig
// toward the root. Initial values are fixed when the chain is built.
type Segment struct {
	Orig, Head               math.Vec3
	InitialOrig, InitialHead math.Vec3
	Len                      float32

	Rot   math.Quat
	Scale math.Vec3

	// Weights holds the influence of the segment on every vertex.
	Weights []float32

	TransMat    [symmetry.Areas]math.Mat4
	PivotMat    [symmetry.Areas]math.Mat4
	PivotMatInv [symmetry.Areas]math.Mat4
}

// Chain is the ordered list of segments of one stroke. Segment 0 is under
// the cursor; segment i+1 hangs from the origin of segment i.
type Chain struct {
	Segments []Segment
	// GrabDeltaOffset is added to the drag target when the segment head is
	// not the click location.
	GrabDeltaOffset math.Vec3
}

func newChain(segments, verts int) *Chain {
	c := &Chain{Segments: make([]Segment, segments)}
	for i := range c.Segments {
		c.Segments[i].Weights = make([]float32, verts)
		c.Segments[i].Rot = math.QuatIdentity()
		c.Segments[i].Scale = math.Splat(1)
	}
	return c
}

// initOriginsHeads links each head to the previous origin, starting at
// location, and freezes the initial state.
func (c *Chain) initOriginsHeads(location math.Vec3) {
	for i := range c.Segments {
		seg := &c.Segments[i]
		head := location
		if i > 0 {
			head = c.Segments[i-1].Orig
		}
		seg.Head = head
		seg.InitialHead = head
		seg.InitialOrig = seg.Orig
		seg.Len = head.Distance(seg.Orig)
		seg.Scale = math.Splat(1)
		seg.Rot = math.QuatIdentity()
	}
}

// Preview is the chain as built, without weights, for cursor feedback.
type Preview struct {
	InitialHeads []math.Vec3
	InitialOrigs []math.Vec3
}

func (c *Chain) preview() *Preview {
	p := &Preview{
		InitialHeads: make([]math.Vec3, len(c.Segments)),
		InitialOrigs: make([]math.Vec3, len(c.Segments)),
	}
	for i := range c.Segments {
		p.InitialHeads[i] = c.Segments[i].InitialHead
		p.InitialOrigs[i] = c.Segments[i].InitialOrig
	}
	return p
}
