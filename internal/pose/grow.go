package pose

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/posebrush/internal/parallel"
	"github.com/Faultbox/posebrush/internal/symmetry"
	"github.com/Faultbox/posebrush/pkg/math"
)

type growAccum struct {
	sum   math.Vec3
	count int
}

func joinGrowAccum(a, b growAccum) growAccum {
	return growAccum{sum: a.sum.Add(b.sum), count: a.count + b.count}
}

// growIteration raises every visible vertex of field to the highest value
// among its neighbors in prev. Raised canonical vertices on the pivot side of
// target are accumulated.
func (b *builder) growIteration(prev, field []float32, target math.Vec3) growAccum {
	nodes := b.surf.Nodes()
	b.tls.Reset()
	return parallel.Reduce(b.pool, len(nodes), growAccum{}, func(worker, i int, acc growAccum) growAccum {
		sc := b.tls.Get(worker)
		for _, v := range nodes[i].Verts {
			if b.surf.Hidden(v) {
				continue
			}
			sc.neighbors = b.topo.Neighbors(v, sc.neighbors[:0])
			var m float32
			for _, nb := range sc.neighbors {
				m = max(m, prev[nb])
			}
			if m <= prev[v] {
				continue
			}
			field[v] = m
			co := b.surf.Position(v)
			if canonical(b.surf, v) && symmetry.PivotSymmetric(co, target, b.symm) {
				acc.sum = acc.sum.Add(co)
				acc.count++
			}
		}
		return acc
	}, joinGrowAccum)
}

// grow expands field around target until the centroid of the growth front
// converges. With a reference origin, growth stops once the centroid stops
// approaching it. Without one, growth stops once the centroid is maxLen away
// from target and that centroid is returned as the new origin. In both cases
// the overshooting iteration is undone. If an iteration grows nothing on the
// pivot side, target is returned.
func (b *builder) grow(field []float32, target math.Vec3, refOrigin *math.Vec3, maxLen float32) math.Vec3 {
	prev := make([]float32, len(field))
	prevLen := math32.Inf(1)
	for {
		copy(prev, field)
		acc := b.growIteration(prev, field, target)
		if acc.count == 0 {
			return target
		}
		avg := acc.sum.Scale(1 / float32(acc.count))
		if refOrigin != nil {
			l := avg.Distance(*refOrigin)
			if l < prevLen {
				prevLen = l
				continue
			}
			copy(field, prev)
			return target
		}
		if avg.Distance(target) < maxLen {
			continue
		}
		copy(field, prev)
		return avg
	}
}
