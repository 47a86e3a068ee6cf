package pose

import (
	"github.com/Faultbox/posebrush/internal/floodfill"
	"github.com/Faultbox/posebrush/internal/symmetry"
	"github.com/Faultbox/posebrush/pkg/math"
)

// calcPoseData finds the rotation origin of the region under the brush: the
// centroid of the vertices just outside the brush radius around the active
// vertex, pushed away from location by radius*offset. Visited vertices are
// set to 1 in field when it is non-nil; field is then grown to follow the
// offset origin.
func (b *builder) calcPoseData(location math.Vec3, radius, offset float32, field []float32) math.Vec3 {
	fill := floodfill.New(b.topo)
	seedRadius := radius
	if field == nil {
		seedRadius = 0
	}
	fill.AddInitialWithSymmetry(b.activeVertex, seedRadius, b.symm)
	if field != nil {
		for _, v := range fill.Seeds() {
			field[v] = 1
		}
	}

	var sum math.Vec3
	count := 0
	fallback := location
	for step := range fill.Steps() {
		co := b.surf.Position(step.To)
		if field != nil {
			field[step.To] = 1
		}
		if location.DistanceSquared(fallback) < location.DistanceSquared(co) {
			fallback = co
		}
		if symmetry.InsideRadius(co, location, radius, b.symm) {
			step.Expand = true
			continue
		}
		if symmetry.PivotSymmetric(co, location, b.symm) && !step.Duplicate {
			sum = sum.Add(co)
			count++
		}
	}

	origin := fallback
	if count > 0 {
		origin = sum.Scale(1 / float32(count))
	}
	origin = origin.Add(origin.Sub(location).Normalize().Scale(radius * offset))

	if offset != 0 && field != nil {
		b.grow(field, origin, &origin, 0)
	}
	return origin
}

// topologyChain grows one segment per brush radius outward from the stroke
// location. Each segment is weighted with the growth it added.
func (b *builder) topologyChain() *Chain {
	n := b.surf.VertexCount()
	segLen := b.radius * (1 + b.brush.Offset)

	field := make([]float32, n)
	prev := make([]float32, n)
	if v, ok := nearestVertex(b.surf, b.location); ok {
		for _, d := range duplicates(b.surf, v) {
			field[d] = 1
		}
	}

	chain := newChain(b.brush.EffectiveSegments(), n)
	segs := chain.Segments
	segs[0].Orig = b.calcPoseData(b.location, b.radius, b.brush.Offset, field)
	copy(segs[0].Weights, field)
	copy(prev, field)

	for i := 1; i < len(segs); i++ {
		segs[i].Orig = b.grow(field, segs[i-1].Orig, nil, segLen)
		for v := range field {
			segs[i].Weights[v] = field[v] - prev[v]
		}
		copy(prev, field)
	}

	chain.initOriginsHeads(b.location)
	return chain
}
