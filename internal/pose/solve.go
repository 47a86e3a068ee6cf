package pose

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/posebrush/internal/falloff"
	"github.com/Faultbox/posebrush/pkg/math"
)

// rollPerPixel is the twist in radians per pixel of horizontal mouse travel.
const rollPerPixel = 0.02

// solveIK points every segment at its target, starting at the head of the
// chain. The origin of each segment is pulled so its head lands on the
// target, and becomes the target of the next segment. Segment lengths never
// change.
func (c *Chain) solveIK(target math.Vec3, anchored bool) {
	segs := c.Segments
	for i := range segs {
		seg := &segs[i]
		dir := target.Sub(seg.Orig).Normalize()
		initial := seg.InitialHead.Sub(seg.InitialOrig).Normalize()
		seg.Rot = math.QuatBetween(initial, dir)

		head := seg.Orig.Add(dir.Scale(seg.Len))
		seg.Orig = seg.Orig.Add(target.Sub(head))
		seg.Head = seg.Orig.Add(dir.Scale(seg.Len))
		target = seg.Orig
	}

	if anchored && len(segs) > 0 {
		last := &segs[len(segs)-1]
		diff := last.InitialOrig.Sub(last.Orig)
		for i := range segs {
			segs[i].Orig = segs[i].Orig.Add(diff)
			segs[i].Head = segs[i].Head.Add(diff)
		}
	}
}

// solveRoll twists every segment around its initial axis. The roll fades
// along the chain following curve.
func (c *Chain) solveRoll(curve falloff.Curve, roll float32) {
	n := float32(len(c.Segments))
	for i := range c.Segments {
		seg := &c.Segments[i]
		axis := seg.InitialHead.Sub(seg.InitialOrig).Normalize()
		current := math.QuatFromAxisAngle(axis, roll*curve.Strength(float32(i), n))
		seg.Rot = current.Between(math.QuatIdentity())
	}
}

// solveTranslate moves the whole chain by delta and drops any rotation.
func (c *Chain) solveTranslate(delta math.Vec3) {
	for i := range c.Segments {
		seg := &c.Segments[i]
		seg.Head = seg.InitialHead.Add(delta)
		seg.Orig = seg.InitialOrig.Add(delta)
		seg.Rot = math.QuatIdentity()
	}
}

func (c *Chain) solveScale(scale math.Vec3) {
	for i := range c.Segments {
		c.Segments[i].Scale = scale
	}
}

// scaleFactor returns how much the first segment stretches for target to
// sit at its head: targets past the plane through the initial head, normal
// to the initial segment, lengthen it.
func (c *Chain) scaleFactor(target math.Vec3) float32 {
	seg := &c.Segments[0]
	plane := math.PlaneFromPointNormal(seg.InitialHead, seg.InitialHead.Sub(seg.InitialOrig).Normalize())
	d := seg.Len - plane.SignedDistance(target)
	if math32.Abs(d) < math.Epsilon {
		return 1
	}
	return seg.Len / d
}

// solve runs one stroke step of the brush deform mode on the chain.
func (c *Chain) solve(brush *Brush, stroke *Stroke) {
	target := stroke.Location.Add(stroke.GrabDelta)
	switch brush.Deform {
	case DeformRotateTwist:
		if stroke.Invert {
			roll := (stroke.InitialMouse[0] - stroke.Mouse[0]) * brush.Strength * rollPerPixel
			c.solveRoll(brush.Curve, roll)
			return
		}
		c.solveIK(target.Add(c.GrabDeltaOffset), brush.Anchored)
	case DeformScaleTranslate:
		if stroke.Invert {
			c.solveTranslate(stroke.GrabDelta)
			return
		}
		if !brush.LockRotation {
			c.solveIK(target, brush.Anchored)
		}
		c.solveScale(math.Splat(c.scaleFactor(target)))
	case DeformSquashStretch:
		z := c.scaleFactor(target)
		xy := float32(1)
		if z > 0 {
			xy = math32.Sqrt(1 / z)
		}
		c.solveScale(math.V3(xy, xy, z))
	}
}
