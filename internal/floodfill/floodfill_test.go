package floodfill

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/posebrush/internal/surface"
	"github.com/Faultbox/posebrush/internal/symmetry"
)

func TestStepsVisitEveryReachableVertexOnce(t *testing.T) {
	m, err := surface.Plane(3, 3, 3, 3).Mesh()
	require.NoError(t, err)

	f := New(m)
	f.AddInitial(0)
	seen := map[int]int{}
	for step := range f.Steps() {
		seen[step.To]++
		assert.False(t, step.Duplicate)
		step.Expand = true
	}
	assert.Len(t, seen, m.VertexCount()-1)
	for v, n := range seen {
		assert.Equal(t, 1, n, "vertex %d", v)
	}
	assert.NotContains(t, seen, 0)
}

func TestStepsStopWithoutExpand(t *testing.T) {
	m, err := surface.Plane(3, 3, 3, 3).Mesh()
	require.NoError(t, err)

	f := New(m)
	f.AddInitial(5)
	var reached []int
	for step := range f.Steps() {
		assert.Equal(t, 5, step.From)
		reached = append(reached, step.To)
	}
	assert.ElementsMatch(t, []int{1, 4, 6, 9}, reached)
}

func TestStepsBreak(t *testing.T) {
	m, err := surface.Plane(3, 3, 3, 3).Mesh()
	require.NoError(t, err)

	f := New(m)
	f.AddInitial(0)
	n := 0
	for step := range f.Steps() {
		n++
		step.Expand = true
		if n == 3 {
			break
		}
	}
	assert.Equal(t, 3, n)
}

func TestGridSeamDuplicates(t *testing.T) {
	g, err := surface.Plane(2, 1, 2, 1).Grids(1)
	require.NoError(t, err)

	f := New(g)
	f.AddInitial(g.Element(0, 0, 0))
	groups := map[int]bool{}
	for step := range f.Steps() {
		if step.Duplicate {
			assert.True(t, groups[g.Group(step.To)], "duplicate before its group")
		} else {
			assert.False(t, groups[g.Group(step.To)])
			groups[g.Group(step.To)] = true
		}
		step.Expand = true
	}
	// Every group except the seed's is reached exactly once as non-duplicate.
	assert.Len(t, groups, g.GroupCount()-1)
	for e := 0; e < g.VertexCount(); e++ {
		assert.True(t, f.Visited(e))
	}
}

func TestDuplicatesReachedTogether(t *testing.T) {
	g, err := surface.Plane(2, 2, 2, 2).Grids(1)
	require.NoError(t, err)

	f := New(g)
	f.AddInitial(g.Element(0, 1, 1))
	for step := range f.Steps() {
		step.Expand = step.From == g.Element(0, 1, 1)
	}
	for e := 0; e < g.VertexCount(); e++ {
		if !f.Visited(e) {
			continue
		}
		for _, d := range g.Duplicates(e) {
			assert.True(t, f.Visited(d), "element %d visited without its copy %d", e, d)
		}
	}
}

func TestAddInitialWithSymmetry(t *testing.T) {
	m, err := surface.Plane(4, 1, 4, 1).Mesh()
	require.NoError(t, err)
	// Vertex 0 is at x = -2, its X mirror is vertex 4 at x = 2.
	f := New(m)
	f.AddInitialWithSymmetry(0, 0.5, symmetry.X)
	assert.True(t, f.Visited(0))
	assert.True(t, f.Visited(4))
	assert.False(t, f.Visited(3))

	f = New(m)
	f.AddInitialWithSymmetry(0, 0, symmetry.X)
	assert.True(t, f.Visited(0))
	assert.False(t, f.Visited(4))

	f = New(m)
	f.AddInitialWithSymmetry(1, Unbounded, symmetry.X)
	assert.True(t, f.Visited(3))
}
