package surface

import (
	"fmt"
	"math"

	"github.com/Faultbox/posebrush/internal/spatial"
	gm "github.com/Faultbox/posebrush/pkg/math"
)

// Grids is a multiresolution surface: every base quad is subdivided into a
// square grid of GridSize x GridSize elements. Elements on shared base edges
// and corners are duplicated in every adjacent grid; they form coincident
// groups whose first member is canonical.
//
// Element index = grid*GridArea + y*GridSize + x.
type Grids struct {
	gridSize  int
	positions []gm.Vec3
	faceSets  []int // per grid
	hidden    []bool
	mask      []float32

	group   []int   // element -> group
	members [][]int // group -> elements, canonical first

	leafSize int
	nodes    []Node
}

// groupKey identifies a subdivision vertex independently of the grid that
// holds it.
type groupKey struct {
	kind    int // 0 corner, 1 edge, 2 interior
	a, b, k int
}

// NewGridsFromQuads subdivides each quad (corners in winding order) level
// times. Level 0 keeps only the quad corners.
func NewGridsFromQuads(base []gm.Vec3, quads [][4]int, level int) (*Grids, error) {
	if level < 0 {
		return nil, fmt.Errorf("subdivision level %d: %w", level, ErrDegenerate)
	}
	n := 1<<level + 1
	area := n * n
	g := &Grids{
		gridSize:  n,
		positions: make([]gm.Vec3, len(quads)*area),
		faceSets:  make([]int, len(quads)),
		hidden:    make([]bool, len(quads)*area),
		mask:      make([]float32, len(quads)*area),
		group:     make([]int, len(quads)*area),
		leafSize:  spatial.DefaultLeafSize,
	}
	groups := make(map[groupKey]int)
	last := float32(n - 1)

	for q, quad := range quads {
		for _, v := range quad {
			if v < 0 || v >= len(base) {
				return nil, fmt.Errorf("quad %d references vertex %d: %w", q, v, ErrVertexIndex)
			}
		}
		g.faceSets[q] = DefaultFaceSet
		a, b, c, d := quad[0], quad[1], quad[2], quad[3]
		for y := 0; y < n; y++ {
			for x := 0; x < n; x++ {
				key, pos := g.subdivVertex(base, q, a, b, c, d, x, y, last)
				e := q*area + y*n + x
				g.positions[e] = pos
				id, ok := groups[key]
				if !ok {
					id = len(g.members)
					groups[key] = id
					g.members = append(g.members, nil)
				}
				g.group[e] = id
				g.members[id] = append(g.members[id], e)
			}
		}
	}
	return g, nil
}

// subdivVertex returns the canonical key and position of element (x, y) of
// the grid built on quad (a, b, c, d). Shared vertices are evaluated from
// their canonical parameterization so duplicates are bitwise identical.
func (g *Grids) subdivVertex(base []gm.Vec3, q, a, b, c, d, x, y int, last float32) (groupKey, gm.Vec3) {
	n := g.gridSize - 1
	switch {
	case x == 0 && y == 0:
		return groupKey{kind: 0, a: a}, base[a]
	case x == n && y == 0:
		return groupKey{kind: 0, a: b}, base[b]
	case x == n && y == n:
		return groupKey{kind: 0, a: c}, base[c]
	case x == 0 && y == n:
		return groupKey{kind: 0, a: d}, base[d]
	case y == 0:
		return edgeVertex(base, a, b, x, n, last)
	case x == n:
		return edgeVertex(base, b, c, y, n, last)
	case y == n:
		return edgeVertex(base, d, c, x, n, last)
	case x == 0:
		return edgeVertex(base, a, d, y, n, last)
	}
	u, v := float32(x)/last, float32(y)/last
	pos := base[a].Scale((1 - u) * (1 - v)).
		Add(base[b].Scale(u * (1 - v))).
		Add(base[c].Scale(u * v)).
		Add(base[d].Scale((1 - u) * v))
	return groupKey{kind: 2, a: q, b: x, k: y}, pos
}

func edgeVertex(base []gm.Vec3, from, to, t, n int, last float32) (groupKey, gm.Vec3) {
	if from > to {
		from, to, t = to, from, n-t
	}
	s := float32(t) / last
	pos := base[from].Scale(1 - s).Add(base[to].Scale(s))
	return groupKey{kind: 1, a: from, b: to, k: t}, pos
}

func (g *Grids) surface() {}

// Kind returns KindGrids.
func (g *Grids) Kind() Kind { return KindGrids }

// GridSize returns the number of elements per grid side.
func (g *Grids) GridSize() int { return g.gridSize }

// GridArea returns the number of elements per grid.
func (g *Grids) GridArea() int { return g.gridSize * g.gridSize }

// GridCount returns the number of grids.
func (g *Grids) GridCount() int { return len(g.faceSets) }

// VertexCount returns the number of grid elements.
func (g *Grids) VertexCount() int { return len(g.positions) }

// Element returns the element index of (x, y) in grid.
func (g *Grids) Element(grid, x, y int) int {
	return grid*g.GridArea() + y*g.gridSize + x
}

// Position returns the position of element e.
func (g *Grids) Position(e int) gm.Vec3 { return g.positions[e] }

// GatherPositions copies the positions of every element of grids into dst in
// grid order.
func (g *Grids) GatherPositions(grids []int, dst []gm.Vec3) []gm.Vec3 {
	area := g.GridArea()
	dst = dst[:0]
	for _, grid := range grids {
		dst = append(dst, g.positions[grid*area:(grid+1)*area]...)
	}
	return dst
}

// GatherGrids copies per-element values of grids into dst in grid order.
func GatherGrids[T any](g *Grids, values []T, grids []int, dst []T) []T {
	area := g.GridArea()
	dst = dst[:0]
	for _, grid := range grids {
		dst = append(dst, values[grid*area:(grid+1)*area]...)
	}
	return dst
}

// ScatterGrids writes src, laid out in grid order, to the elements of grids in dst.
func ScatterGrids[T any](g *Grids, src []T, grids []int, dst []T) {
	area := g.GridArea()
	for i, grid := range grids {
		copy(dst[grid*area:(grid+1)*area], src[i*area:(i+1)*area])
	}
}

// ScatterPositions writes positions laid out in grid order back to grids.
func (g *Grids) ScatterPositions(positions []gm.Vec3, grids []int) {
	ScatterGrids(g, positions, grids, g.positions)
}

// Duplicates returns every element coincident with e, including e.
func (g *Grids) Duplicates(e int) []int { return g.members[g.group[e]] }

// Group returns the id of the coincident group of e. Group ids are dense and
// follow first appearance in element order.
func (g *Grids) Group(e int) int { return g.group[e] }

// GroupCount returns the number of distinct subdivision vertices.
func (g *Grids) GroupCount() int { return len(g.members) }

// Canonical returns the first element of the coincident group of e.
func (g *Grids) Canonical(e int) int { return g.members[g.group[e]][0] }

// Neighbors appends the grid neighbors of every duplicate of e, followed by
// the other duplicates of e themselves.
func (g *Grids) Neighbors(e int, dst []int) []int {
	area := g.GridArea()
	n := g.gridSize
	dups := g.Duplicates(e)
	for _, m := range dups {
		grid, off := m/area, m%area
		x, y := off%n, off/n
		for _, d := range [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
			nx, ny := x+d[0], y+d[1]
			if nx < 0 || ny < 0 || nx >= n || ny >= n {
				continue
			}
			nb := grid*area + ny*n + nx
			if !g.hidden[nb] {
				dst = appendUnique(dst, nb)
			}
		}
	}
	for _, m := range dups {
		if m != e && !g.hidden[m] {
			dst = appendUnique(dst, m)
		}
	}
	return dst
}

// Hidden reports whether element e is hidden.
func (g *Grids) Hidden(e int) bool { return g.hidden[e] }

// HideElement hides or reveals e and all its duplicates.
func (g *Grids) HideElement(e int, hidden bool) {
	for _, m := range g.Duplicates(e) {
		g.hidden[m] = hidden
	}
}

// Mask returns the sculpt mask of e.
func (g *Grids) Mask(e int) float32 { return g.mask[e] }

// SetMask sets the mask of e and all its duplicates.
func (g *Grids) SetMask(e int, value float32) {
	for _, m := range g.Duplicates(e) {
		g.mask[m] = value
	}
}

// SetFaceSet assigns face set id to grid.
func (g *Grids) SetFaceSet(grid, id int) error {
	if grid < 0 || grid >= len(g.faceSets) {
		return fmt.Errorf("grid %d: %w", grid, ErrFaceIndex)
	}
	g.faceSets[grid] = id
	return nil
}

// FaceSet returns the highest face set among the grids holding e.
func (g *Grids) FaceSet(e int) int {
	area := g.GridArea()
	fs := math.MinInt
	for _, m := range g.Duplicates(e) {
		fs = max(fs, g.faceSets[m/area])
	}
	return fs
}

// HasFaceSet reports whether any grid holding e belongs to id.
func (g *Grids) HasFaceSet(e, id int) bool {
	area := g.GridArea()
	for _, m := range g.Duplicates(e) {
		if g.faceSets[m/area] == id {
			return true
		}
	}
	return false
}

// HasUniqueFaceSet reports whether every grid holding e shares one face set.
func (g *Grids) HasUniqueFaceSet(e int) bool {
	area := g.GridArea()
	dups := g.Duplicates(e)
	first := g.faceSets[dups[0]/area]
	for _, m := range dups[1:] {
		if g.faceSets[m/area] != first {
			return false
		}
	}
	return true
}

// SetLeafSize sets the maximum number of grids per partition leaf.
func (g *Grids) SetLeafSize(n int) {
	g.leafSize = n
	g.nodes = nil
}

// Nodes returns the grid partition. Each node owns whole grids.
func (g *Grids) Nodes() []Node {
	if g.nodes != nil {
		return g.nodes
	}
	area := g.GridArea()
	items := make([]int, g.GridCount())
	for i := range items {
		items[i] = i
	}
	leafGrids := max(1, g.leafSize/area)
	center := func(grid int) gm.Vec3 {
		var sum gm.Vec3
		for e := grid * area; e < (grid+1)*area; e++ {
			sum = sum.Add(g.positions[e])
		}
		return sum.Scale(1 / float32(area))
	}
	for _, leaf := range spatial.Partition(items, center, leafGrids) {
		node := Node{Grids: leaf, Verts: make([]int, 0, len(leaf)*area)}
		for _, grid := range leaf {
			for e := grid * area; e < (grid+1)*area; e++ {
				node.Verts = append(node.Verts, e)
			}
		}
		g.nodes = append(g.nodes, node)
	}
	return g.nodes
}
