package surface

import (
	"fmt"
	"math"
	"slices"

	"github.com/Faultbox/posebrush/internal/spatial"
	gm "github.com/Faultbox/posebrush/pkg/math"
)

// DynMesh is a mutable vertex/face graph. Elements live in arena tables and
// are addressed by stable integer ids; removing an element leaves a tombstone
// so ids are never reused while the mesh is alive. Removed vertices behave
// as hidden.
type DynMesh struct {
	verts []dynVert
	faces []dynFace

	leafSize int
	nodes    []Node
}

type dynVert struct {
	co      gm.Vec3
	mask    float32
	hidden  bool
	removed bool
	faces   []int
}

type dynFace struct {
	verts   []int
	faceSet int
	removed bool
}

// NewDynMesh builds a dynamic mesh from positions and polygons.
func NewDynMesh(positions []gm.Vec3, faces [][]int) (*DynMesh, error) {
	d := &DynMesh{leafSize: spatial.DefaultLeafSize}
	for _, co := range positions {
		d.AddVertex(co)
	}
	for _, f := range faces {
		if _, err := d.AddFace(f); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func (d *DynMesh) surface() {}

// Kind returns KindDynamic.
func (d *DynMesh) Kind() Kind { return KindDynamic }

// VertexCount returns the size of the vertex table, tombstones included.
func (d *DynMesh) VertexCount() int { return len(d.verts) }

// FaceCount returns the size of the face table, tombstones included.
func (d *DynMesh) FaceCount() int { return len(d.faces) }

// AddVertex appends a vertex and returns its id.
func (d *DynMesh) AddVertex(co gm.Vec3) int {
	d.verts = append(d.verts, dynVert{co: co})
	d.nodes = nil
	return len(d.verts) - 1
}

// AddFace appends a polygon over live vertices and returns its id. New faces
// get DefaultFaceSet.
func (d *DynMesh) AddFace(verts []int) (int, error) {
	f := len(d.faces)
	if len(verts) < 3 {
		return 0, fmt.Errorf("face %d has %d corners: %w", f, len(verts), ErrDegenerate)
	}
	for _, v := range verts {
		if !d.live(v) {
			return 0, fmt.Errorf("face %d references vertex %d: %w", f, v, ErrVertexIndex)
		}
	}
	d.faces = append(d.faces, dynFace{verts: slices.Clone(verts), faceSet: DefaultFaceSet})
	for _, v := range verts {
		d.verts[v].faces = append(d.verts[v].faces, f)
	}
	return f, nil
}

// RemoveFace tombstones f. Vertices left without faces are removed too.
func (d *DynMesh) RemoveFace(f int) error {
	if f < 0 || f >= len(d.faces) || d.faces[f].removed {
		return fmt.Errorf("face %d: %w", f, ErrFaceIndex)
	}
	d.faces[f].removed = true
	for _, v := range d.faces[f].verts {
		vert := &d.verts[v]
		vert.faces = slices.DeleteFunc(vert.faces, func(x int) bool { return x == f })
		if len(vert.faces) == 0 {
			vert.removed = true
			d.nodes = nil
		}
	}
	return nil
}

// SplitEdge inserts a vertex at the midpoint of edge (a, b) into every face
// using that edge and returns the new vertex id.
func (d *DynMesh) SplitEdge(a, b int) (int, error) {
	if !d.live(a) || !d.live(b) {
		return 0, fmt.Errorf("edge (%d, %d): %w", a, b, ErrVertexIndex)
	}
	var split []int
	for _, f := range d.verts[a].faces {
		if edgeIndex(d.faces[f].verts, a, b) >= 0 {
			split = append(split, f)
		}
	}
	if len(split) == 0 {
		return 0, fmt.Errorf("vertices %d and %d share no edge: %w", a, b, ErrDegenerate)
	}

	va, vb := d.verts[a], d.verts[b]
	m := d.AddVertex(va.co.Add(vb.co).Scale(0.5))
	d.verts[m].mask = (va.mask + vb.mask) / 2
	for _, f := range split {
		face := &d.faces[f]
		i := edgeIndex(face.verts, a, b)
		face.verts = slices.Insert(face.verts, i+1, m)
		d.verts[m].faces = append(d.verts[m].faces, f)
	}
	return m, nil
}

// edgeIndex returns the corner i such that (verts[i], verts[i+1]) is the
// undirected edge (a, b), or -1.
func edgeIndex(verts []int, a, b int) int {
	for i, v := range verts {
		next := verts[(i+1)%len(verts)]
		if (v == a && next == b) || (v == b && next == a) {
			return i
		}
	}
	return -1
}

func (d *DynMesh) live(v int) bool {
	return v >= 0 && v < len(d.verts) && !d.verts[v].removed
}

// Removed reports whether v has been removed.
func (d *DynMesh) Removed(v int) bool { return d.verts[v].removed }

// Face returns the corners of face f.
func (d *DynMesh) Face(f int) []int { return d.faces[f].verts }

// FaceRemoved reports whether f is a tombstone.
func (d *DynMesh) FaceRemoved(f int) bool { return d.faces[f].removed }

// Position returns the position of v.
func (d *DynMesh) Position(v int) gm.Vec3 { return d.verts[v].co }

// SetPosition moves v.
func (d *DynMesh) SetPosition(v int, co gm.Vec3) { d.verts[v].co = co }

// GatherPositions copies the positions of verts into dst.
func (d *DynMesh) GatherPositions(verts []int, dst []gm.Vec3) []gm.Vec3 {
	if cap(dst) < len(verts) {
		dst = make([]gm.Vec3, len(verts))
	}
	dst = dst[:len(verts)]
	for i, v := range verts {
		dst[i] = d.verts[v].co
	}
	return dst
}

// ScatterPositions writes positions[i] to vertex verts[i].
func (d *DynMesh) ScatterPositions(positions []gm.Vec3, verts []int) {
	for i, v := range verts {
		d.verts[v].co = positions[i]
	}
}

// Neighbors appends the live, visible vertices sharing a face edge with v.
func (d *DynMesh) Neighbors(v int, dst []int) []int {
	for _, f := range d.verts[v].faces {
		face := d.faces[f].verts
		for i, c := range face {
			if c != v {
				continue
			}
			for _, nb := range [2]int{face[(i+len(face)-1)%len(face)], face[(i+1)%len(face)]} {
				if !d.Hidden(nb) {
					dst = appendUnique(dst, nb)
				}
			}
		}
	}
	return dst
}

// Canonical returns v.
func (d *DynMesh) Canonical(v int) int { return v }

// Duplicates returns nil: dynamic vertices are never duplicated.
func (d *DynMesh) Duplicates(int) []int { return nil }

// Hidden reports whether v is hidden or removed.
func (d *DynMesh) Hidden(v int) bool { return d.verts[v].hidden || d.verts[v].removed }

// HideVertex hides or reveals v.
func (d *DynMesh) HideVertex(v int, hidden bool) { d.verts[v].hidden = hidden }

// Mask returns the sculpt mask of v.
func (d *DynMesh) Mask(v int) float32 { return d.verts[v].mask }

// SetMask sets the sculpt mask of v.
func (d *DynMesh) SetMask(v int, value float32) { d.verts[v].mask = value }

// SetFaceSet assigns face set id to face f.
func (d *DynMesh) SetFaceSet(f, id int) error {
	if f < 0 || f >= len(d.faces) || d.faces[f].removed {
		return fmt.Errorf("face %d: %w", f, ErrFaceIndex)
	}
	d.faces[f].faceSet = id
	return nil
}

// FaceSet returns the highest face set around v.
func (d *DynMesh) FaceSet(v int) int {
	faces := d.verts[v].faces
	if len(faces) == 0 {
		return FaceSetNone
	}
	fs := math.MinInt
	for _, f := range faces {
		fs = max(fs, d.faces[f].faceSet)
	}
	return fs
}

// HasFaceSet reports whether any face around v belongs to id.
func (d *DynMesh) HasFaceSet(v, id int) bool {
	for _, f := range d.verts[v].faces {
		if d.faces[f].faceSet == id {
			return true
		}
	}
	return false
}

// HasUniqueFaceSet reports whether every face around v shares one face set.
func (d *DynMesh) HasUniqueFaceSet(v int) bool {
	faces := d.verts[v].faces
	for _, f := range faces {
		if d.faces[f].faceSet != d.faces[faces[0]].faceSet {
			return false
		}
	}
	return true
}

// SetLeafSize sets the maximum partition leaf size.
func (d *DynMesh) SetLeafSize(n int) {
	d.leafSize = n
	d.nodes = nil
}

// Nodes returns the partition of live vertices. Adding or removing vertices
// invalidates it.
func (d *DynMesh) Nodes() []Node {
	if d.nodes != nil {
		return d.nodes
	}
	items := make([]int, 0, len(d.verts))
	for v := range d.verts {
		if !d.verts[v].removed {
			items = append(items, v)
		}
	}
	for _, leaf := range spatial.Partition(items, d.Position, d.leafSize) {
		d.nodes = append(d.nodes, Node{Verts: leaf})
	}
	return d.nodes
}
