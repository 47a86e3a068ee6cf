package spatial

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/posebrush/pkg/math"
)

// line is a polyline topology: vertices on the X axis, connected in runs.
type line struct {
	pos    []math.Vec3
	breaks map[int]bool // no edge between v and v+1
}

func (l line) VertexCount() int         { return len(l.pos) }
func (l line) Position(v int) math.Vec3 { return l.pos[v] }
func (l line) Hidden(int) bool          { return false }
func (l line) Neighbors(v int, dst []int) []int {
	if v > 0 && !l.breaks[v-1] {
		dst = append(dst, v-1)
	}
	if v < len(l.pos)-1 && !l.breaks[v] {
		dst = append(dst, v+1)
	}
	return dst
}

func TestPartitionCoversEveryItemOnce(t *testing.T) {
	items := make([]int, 1000)
	pos := make([]math.Vec3, 1000)
	for i := range items {
		items[i] = i
		pos[i] = math.V3(float32(i%10), float32(i/10%10), float32(i/100))
	}
	leaves := Partition(items, func(i int) math.Vec3 { return pos[i] }, 64)

	var all []int
	for _, leaf := range leaves {
		assert.LessOrEqual(t, len(leaf), 64)
		all = append(all, leaf...)
	}
	slices.Sort(all)
	assert.Equal(t, items, all)
}

func TestPartitionSmall(t *testing.T) {
	assert.Nil(t, Partition(nil, nil, 8))
	leaves := Partition([]int{3, 1}, func(int) math.Vec3 { return math.Vec3{} }, 8)
	require.Len(t, leaves, 1)
	assert.ElementsMatch(t, []int{1, 3}, leaves[0])
}

func TestIndexNearest(t *testing.T) {
	pos := []math.Vec3{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 5, Y: 0, Z: 0}}
	ix := NewIndex([]int{0, 1, 2}, func(i int) math.Vec3 { return pos[i] })

	hit, ok := ix.Nearest(math.V3(4, 0, 0), -1)
	require.True(t, ok)
	assert.Equal(t, 2, hit.ID)
	assert.InDelta(t, 1, hit.Distance, 1e-6)

	_, ok = ix.Nearest(math.V3(3, 0, 0), 1.5)
	assert.False(t, ok)

	hits := ix.Within(math.V3(0.4, 0, 0), 1)
	require.Len(t, hits, 2)
	assert.Equal(t, 0, hits[0].ID)
	assert.Equal(t, 1, hits[1].ID)
}

func TestIndexEmpty(t *testing.T) {
	ix := NewIndex(nil, nil)
	_, ok := ix.Nearest(math.Vec3{}, -1)
	assert.False(t, ok)
	assert.Empty(t, ix.Within(math.Vec3{}, 1))
}

func TestIslands(t *testing.T) {
	l := line{pos: make([]math.Vec3, 6), breaks: map[int]bool{2: true}}
	islands := Islands(l)
	assert.Equal(t, islands[0], islands[2])
	assert.Equal(t, islands[3], islands[5])
	assert.NotEqual(t, islands[2], islands[3])
}

func TestFakeNeighbors(t *testing.T) {
	// Two runs separated by a gap of 0.5 between vertex 2 and 3.
	l := line{
		pos:    []math.Vec3{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 2, Y: 0, Z: 0}, {X: 2.5, Y: 0, Z: 0}, {X: 3.5, Y: 0, Z: 0}, {X: 4.5, Y: 0, Z: 0}},
		breaks: map[int]bool{2: true},
	}
	fake := FakeNeighbors(l, 0.6)
	assert.Equal(t, 3, fake[2])
	assert.Equal(t, 2, fake[3])
	for _, v := range []int{0, 1, 4, 5} {
		assert.Equal(t, NoFakeNeighbor, fake[v], "vertex %d", v)
	}

	none := FakeNeighbors(l, 0)
	for _, f := range none {
		assert.Equal(t, NoFakeNeighbor, f)
	}
}
