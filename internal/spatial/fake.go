package spatial

import (
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/Faultbox/posebrush/pkg/math"
)

// NoFakeNeighbor marks a vertex without a fake neighbor.
const NoFakeNeighbor = -1

// Topology is the connectivity needed to compute islands.
type Topology interface {
	VertexCount() int
	Position(v int) math.Vec3
	Neighbors(v int, dst []int) []int
	Hidden(v int) bool
}

// Islands labels every visible vertex with the id of its connected component.
// Hidden vertices get -1.
func Islands(t Topology) []int {
	n := t.VertexCount()
	g := simple.NewUndirectedGraph()
	var buf []int
	for v := 0; v < n; v++ {
		if t.Hidden(v) {
			continue
		}
		if g.Node(int64(v)) == nil {
			g.AddNode(simple.Node(v))
		}
		buf = t.Neighbors(v, buf[:0])
		for _, nb := range buf {
			if nb <= v || t.Hidden(nb) {
				continue
			}
			g.SetEdge(g.NewEdge(simple.Node(v), simple.Node(nb)))
		}
	}

	islands := make([]int, n)
	for i := range islands {
		islands[i] = -1
	}
	for id, comp := range topo.ConnectedComponents(g) {
		for _, node := range comp {
			islands[node.ID()] = id
		}
	}
	return islands
}

// FakeNeighbors pairs each visible vertex with the closest vertex of another
// island within maxDist. Pairs are symmetric and every vertex has at most one
// fake neighbor. Vertices without a partner hold NoFakeNeighbor.
func FakeNeighbors(t Topology, maxDist float32) []int {
	n := t.VertexCount()
	fake := make([]int, n)
	for i := range fake {
		fake[i] = NoFakeNeighbor
	}
	if maxDist <= 0 {
		return fake
	}

	islands := Islands(t)
	visible := make([]int, 0, n)
	for v := 0; v < n; v++ {
		if islands[v] >= 0 {
			visible = append(visible, v)
		}
	}
	index := NewIndex(visible, t.Position)

	for _, v := range visible {
		if fake[v] != NoFakeNeighbor {
			continue
		}
		for _, hit := range index.Within(t.Position(v), maxDist) {
			u := hit.ID
			if islands[u] == islands[v] || fake[u] != NoFakeNeighbor {
				continue
			}
			fake[v] = u
			fake[u] = v
			break
		}
	}
	return fake
}
