package smooth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/posebrush/internal/parallel"
	"github.com/Faultbox/posebrush/internal/surface"
)

func TestBlurAveragesNeighbors(t *testing.T) {
	m, err := surface.Plane(2, 2, 2, 2).Mesh()
	require.NoError(t, err)

	data := make([]float32, 9)
	data[4] = 1
	Blur(parallel.NewPool(2), m, 1, data)

	assert.InDelta(t, 0, data[4], 1e-6)
	assert.InDelta(t, 1.0/3, data[1], 1e-6) // neighbors 0, 2, 4
	assert.InDelta(t, 0, data[0], 1e-6)
}

func TestBlurZeroIterations(t *testing.T) {
	m, err := surface.Plane(2, 2, 2, 2).Mesh()
	require.NoError(t, err)
	data := []float32{0, 0, 0, 0, 1, 0, 0, 0, 0}
	Blur(parallel.NewPool(1), m, 0, data)
	assert.Equal(t, float32(1), data[4])
}

func TestBlurMatchesAcrossRepresentations(t *testing.T) {
	p := surface.Tube(4, 6, 1, 3, 1)
	g, err := p.Grids(1)
	require.NoError(t, err)
	flat, err := p.Subdivide(1)
	require.NoError(t, err)
	m, err := flat.Mesh()
	require.NoError(t, err)
	g.SetLeafSize(18)
	m.SetLeafSize(8)

	gridData := make([]float32, g.VertexCount())
	meshData := make([]float32, m.VertexCount())
	for e := range gridData {
		z := g.Position(e).Z
		gridData[e] = z * z
		meshData[g.Group(e)] = z * z
	}
	pool := parallel.NewPool(4)
	Blur(pool, g, 3, gridData)
	Blur(pool, m, 3, meshData)

	for e, value := range gridData {
		assert.InDelta(t, meshData[g.Group(e)], value, 1e-5, "element %d", e)
	}
}
