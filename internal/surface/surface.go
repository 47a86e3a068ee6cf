// Package surface defines the deformable surface representations: a static
// indexed mesh, a multiresolution grid surface and a dynamic vertex graph.
//
// All three satisfy Surface. Code that needs representation-specific gather
// and scatter switches once on the concrete type.
package surface

import (
	"errors"

	"github.com/Faultbox/posebrush/pkg/math"
)

// Kind identifies a representation.
type Kind int

const (
	KindMesh Kind = iota
	KindGrids
	KindDynamic
)

func (k Kind) String() string {
	switch k {
	case KindMesh:
		return "mesh"
	case KindGrids:
		return "grids"
	case KindDynamic:
		return "dynamic"
	default:
		return "unknown"
	}
}

// Face set ids.
const (
	// FaceSetNone is never assigned to a face.
	FaceSetNone = 0
	// DefaultFaceSet is the face set of faces without an explicit assignment.
	DefaultFaceSet = 1
)

var (
	ErrVertexIndex = errors.New("surface: vertex index out of range")
	ErrFaceIndex   = errors.New("surface: face index out of range")
	ErrDegenerate  = errors.New("surface: degenerate face")
	ErrUnknownKind = errors.New("surface: unknown representation")
)

// Node is a leaf of the partition tree. Nodes never share vertices, so kernels
// may write to the vertices of different nodes concurrently.
type Node struct {
	// Verts are the vertices owned by the node.
	Verts []int
	// Grids are the grids owned by the node (grid surfaces only). Verts then
	// lists every element of these grids in grid order.
	Grids []int
}

// Surface is the capability set shared by every representation.
type Surface interface {
	Kind() Kind
	// VertexCount is the size of per-vertex arrays.
	VertexCount() int
	Position(v int) math.Vec3
	// Neighbors appends the visible topological neighbors of v to dst.
	Neighbors(v int, dst []int) []int
	// Canonical returns the representative of the coincident group of v.
	// Only grid seams produce groups with more than one member.
	Canonical(v int) int
	// Duplicates returns the coincident group of v, v included, or nil when
	// v is not duplicated.
	Duplicates(v int) []int
	Hidden(v int) bool
	Mask(v int) float32
	// FaceSet returns the highest face set among the faces around v.
	FaceSet(v int) int
	HasFaceSet(v, faceSet int) bool
	HasUniqueFaceSet(v int) bool
	// Nodes returns the partition leaves, building them when needed.
	Nodes() []Node
	// SetLeafSize sets the maximum leaf size and invalidates the partition.
	SetLeafSize(n int)

	surface()
}

// Gather copies values at verts into dst, resized to len(verts).
func Gather[T any](values []T, verts []int, dst []T) []T {
	if cap(dst) < len(verts) {
		dst = make([]T, len(verts))
	}
	dst = dst[:len(verts)]
	for i, v := range verts {
		dst[i] = values[v]
	}
	return dst
}

// Scatter writes src[i] to dst[verts[i]].
func Scatter[T any](src []T, verts []int, dst []T) {
	for i, v := range verts {
		dst[v] = src[i]
	}
}

// Positions returns a snapshot of every vertex position of s.
func Positions(s Surface) []math.Vec3 {
	out := make([]math.Vec3, s.VertexCount())
	for v := range out {
		out[v] = s.Position(v)
	}
	return out
}

func appendUnique(dst []int, v int) []int {
	for _, x := range dst {
		if x == v {
			return dst
		}
	}
	return append(dst, v)
}
