package surface

import (
	"fmt"
	"math"

	"github.com/Faultbox/posebrush/internal/spatial"
	gm "github.com/Faultbox/posebrush/pkg/math"
)

// Mesh is a static indexed polygon mesh. Faces are stored as offsets into a
// flat corner array.
type Mesh struct {
	positions   []gm.Vec3
	faceOffsets []int
	cornerVerts []int
	vertToFace  [][]int

	faceSets []int
	hideVert []bool
	hideFace []bool
	mask     []float32

	leafSize int
	nodes    []Node
}

// NewMesh builds a mesh from vertex positions and polygons given as vertex
// index lists.
func NewMesh(positions []gm.Vec3, faces [][]int) (*Mesh, error) {
	m := &Mesh{
		positions:   positions,
		faceOffsets: make([]int, 0, len(faces)+1),
		vertToFace:  make([][]int, len(positions)),
		faceSets:    make([]int, len(faces)),
		hideVert:    make([]bool, len(positions)),
		hideFace:    make([]bool, len(faces)),
		mask:        make([]float32, len(positions)),
		leafSize:    spatial.DefaultLeafSize,
	}
	for f, face := range faces {
		if len(face) < 3 {
			return nil, fmt.Errorf("face %d has %d corners: %w", f, len(face), ErrDegenerate)
		}
		m.faceOffsets = append(m.faceOffsets, len(m.cornerVerts))
		for _, v := range face {
			if v < 0 || v >= len(positions) {
				return nil, fmt.Errorf("face %d references vertex %d: %w", f, v, ErrVertexIndex)
			}
			m.cornerVerts = append(m.cornerVerts, v)
			m.vertToFace[v] = append(m.vertToFace[v], f)
		}
		m.faceSets[f] = DefaultFaceSet
	}
	m.faceOffsets = append(m.faceOffsets, len(m.cornerVerts))
	return m, nil
}

func (m *Mesh) surface() {}

// Kind returns KindMesh.
func (m *Mesh) Kind() Kind { return KindMesh }

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int { return len(m.positions) }

// FaceCount returns the number of faces.
func (m *Mesh) FaceCount() int { return len(m.faceOffsets) - 1 }

// Face returns the corner vertices of face f.
func (m *Mesh) Face(f int) []int {
	return m.cornerVerts[m.faceOffsets[f]:m.faceOffsets[f+1]]
}

// Position returns the position of v.
func (m *Mesh) Position(v int) gm.Vec3 { return m.positions[v] }

// Positions returns the position array. Writes through it deform the mesh.
func (m *Mesh) Positions() []gm.Vec3 { return m.positions }

// GatherPositions copies the positions of verts into dst.
func (m *Mesh) GatherPositions(verts []int, dst []gm.Vec3) []gm.Vec3 {
	return Gather(m.positions, verts, dst)
}

// ScatterPositions writes positions[i] to vertex verts[i].
func (m *Mesh) ScatterPositions(positions []gm.Vec3, verts []int) {
	Scatter(positions, verts, m.positions)
}

// Neighbors appends the vertices sharing an edge of a visible face with v.
func (m *Mesh) Neighbors(v int, dst []int) []int {
	for _, f := range m.vertToFace[v] {
		if m.hideFace[f] {
			continue
		}
		face := m.Face(f)
		for i, c := range face {
			if c != v {
				continue
			}
			prev := face[(i+len(face)-1)%len(face)]
			next := face[(i+1)%len(face)]
			if !m.hideVert[prev] {
				dst = appendUnique(dst, prev)
			}
			if !m.hideVert[next] {
				dst = appendUnique(dst, next)
			}
		}
	}
	return dst
}

// Canonical returns v: mesh vertices are never duplicated.
func (m *Mesh) Canonical(v int) int { return v }

// Duplicates returns nil.
func (m *Mesh) Duplicates(int) []int { return nil }

// Hidden reports whether v is hidden.
func (m *Mesh) Hidden(v int) bool { return m.hideVert[v] }

// Mask returns the sculpt mask of v.
func (m *Mesh) Mask(v int) float32 { return m.mask[v] }

// SetMask sets the sculpt mask of v.
func (m *Mesh) SetMask(v int, value float32) { m.mask[v] = value }

// HideVertex hides or reveals v together with its faces.
func (m *Mesh) HideVertex(v int, hidden bool) {
	m.hideVert[v] = hidden
	for _, f := range m.vertToFace[v] {
		m.hideFace[f] = hidden
	}
}

// SetFaceSet assigns face set id to face f.
func (m *Mesh) SetFaceSet(f, id int) error {
	if f < 0 || f >= m.FaceCount() {
		return fmt.Errorf("face %d: %w", f, ErrFaceIndex)
	}
	m.faceSets[f] = id
	return nil
}

// FaceSetOfFace returns the face set of face f.
func (m *Mesh) FaceSetOfFace(f int) int { return m.faceSets[f] }

// FaceSet returns the highest face set around v.
func (m *Mesh) FaceSet(v int) int {
	if len(m.vertToFace[v]) == 0 {
		return FaceSetNone
	}
	fs := math.MinInt
	for _, f := range m.vertToFace[v] {
		fs = max(fs, m.faceSets[f])
	}
	return fs
}

// HasFaceSet reports whether any face around v belongs to id.
func (m *Mesh) HasFaceSet(v, id int) bool {
	for _, f := range m.vertToFace[v] {
		if m.faceSets[f] == id {
			return true
		}
	}
	return false
}

// HasUniqueFaceSet reports whether every face around v shares one face set.
func (m *Mesh) HasUniqueFaceSet(v int) bool {
	faces := m.vertToFace[v]
	for _, f := range faces {
		if m.faceSets[f] != m.faceSets[faces[0]] {
			return false
		}
	}
	return true
}

// SetLeafSize sets the maximum partition leaf size.
func (m *Mesh) SetLeafSize(n int) {
	m.leafSize = n
	m.nodes = nil
}

// Nodes returns the vertex partition.
func (m *Mesh) Nodes() []Node {
	if m.nodes == nil {
		items := make([]int, len(m.positions))
		for i := range items {
			items[i] = i
		}
		for _, leaf := range spatial.Partition(items, m.Position, m.leafSize) {
			m.nodes = append(m.nodes, Node{Verts: leaf})
		}
	}
	return m.nodes
}
