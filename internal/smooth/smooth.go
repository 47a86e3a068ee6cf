// Package smooth blurs per-vertex scalar data over surface topology.
package smooth

import (
	"slices"

	"github.com/Faultbox/posebrush/internal/parallel"
	"github.com/Faultbox/posebrush/internal/surface"
)

type scratch struct {
	neighbors []int
	groups    []int
}

// Blur replaces every value of data with the average of its topological
// neighbors, iterations times. Coincident grid elements count as one neighbor
// so every representation of a shape blurs alike. Vertices without visible
// neighbors keep their value.
func Blur(pool *parallel.Pool, s surface.Surface, iterations int, data []float32) {
	if iterations <= 0 {
		return
	}
	nodes := s.Nodes()
	prev := make([]float32, len(data))
	tls := parallel.NewScratch(pool, func(sc *scratch) {
		sc.neighbors = sc.neighbors[:0]
		sc.groups = sc.groups[:0]
	})
	for range iterations {
		copy(prev, data)
		tls.Reset()
		pool.For(len(nodes), func(worker, i int) {
			sc := tls.Get(worker)
			for _, v := range nodes[i].Verts {
				data[v] = average(s, v, prev, sc)
			}
		})
	}
}

func average(s surface.Surface, v int, prev []float32, sc *scratch) float32 {
	sc.neighbors = s.Neighbors(v, sc.neighbors[:0])
	sc.groups = sc.groups[:0]
	self := s.Canonical(v)
	var sum float32
	for _, nb := range sc.neighbors {
		c := s.Canonical(nb)
		if c == self || slices.Contains(sc.groups, c) {
			continue
		}
		sc.groups = append(sc.groups, c)
		sum += prev[nb]
	}
	if len(sc.groups) == 0 {
		return prev[v]
	}
	return sum / float32(len(sc.groups))
}
