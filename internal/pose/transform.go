package pose

import (
	"github.com/Faultbox/posebrush/internal/symmetry"
	"github.com/Faultbox/posebrush/pkg/math"
)

// buildTransforms mirrors the solved chain into every symmetry area and
// stores, per segment and area, the transform around the segment origin.
// A vertex is deformed by PivotMat * TransMat * PivotMatInv.
func (c *Chain) buildTransforms(symm symmetry.Flags, deform Deform, grab math.Vec3) {
	for a := range symmetry.Areas {
		area := symmetry.Area(a)
		for i := range c.Segments {
			seg := &c.Segments[i]
			rot := symmetry.FlipQuatByArea(seg.Rot, symm, area, grab)
			orig := symmetry.FlipByArea(seg.Orig, symm, area, grab)
			initOrig := symmetry.FlipByArea(seg.InitialOrig, symm, area, grab)

			local := math.Identity()
			trans := math.Identity()
			if deform == DeformSquashStretch {
				// Squash and stretch scales along the segment axis.
				head := symmetry.FlipByArea(seg.Head, symm, area, grab)
				axis := head.Sub(orig).Normalize()
				x, y := math.OrthoBasis(axis)
				local = math.FromBasis(x, y, axis)
			} else {
				trans = rot.ToMat4()
			}
			trans = trans.ScaleAxes(seg.Scale).PostTranslate(orig.Sub(initOrig))

			seg.TransMat[a] = trans
			seg.PivotMat[a] = math.TranslateVec3(orig).Mul(local)
			seg.PivotMatInv[a] = seg.PivotMat[a].Inverse()
		}
	}
}

// transformVertex returns the translation of co by the segment in the given
// symmetry area.
func (s *Segment) transformVertex(co math.Vec3, area symmetry.Area) math.Vec3 {
	p := s.PivotMatInv[area].TransformVec3(co)
	p = s.TransMat[area].TransformVec3(p)
	p = s.PivotMat[area].TransformVec3(p)
	return p.Sub(co)
}
