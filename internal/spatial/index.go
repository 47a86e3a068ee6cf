package spatial

import (
	gomath "math"
	"sort"

	"gonum.org/v1/gonum/spatial/kdtree"

	"github.com/Faultbox/posebrush/pkg/math"
)

// point is a kd-tree entry carrying the element it was built from.
type point struct {
	co [3]float64
	id int
}

func newPoint(p math.Vec3, id int) point {
	return point{co: [3]float64{float64(p.X), float64(p.Y), float64(p.Z)}, id: id}
}

// Compare returns the signed distance of p from the plane through c on dim.
func (p point) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	return p.co[d] - c.(point).co[d]
}

// Dims returns the number of dimensions.
func (p point) Dims() int { return 3 }

// Distance returns the squared Euclidean distance between p and c.
func (p point) Distance(c kdtree.Comparable) float64 {
	q := c.(point)
	dx, dy, dz := p.co[0]-q.co[0], p.co[1]-q.co[1], p.co[2]-q.co[2]
	return dx*dx + dy*dy + dz*dz
}

type points []point

func (p points) Index(i int) kdtree.Comparable         { return p[i] }
func (p points) Len() int                              { return len(p) }
func (p points) Slice(start, end int) kdtree.Interface { return p[start:end] }
func (p points) Pivot(d kdtree.Dim) int                { return plane{points: p, dim: d}.Pivot() }

// plane sorts points along a single dimension for median selection.
type plane struct {
	points
	dim kdtree.Dim
}

func (p plane) Less(i, j int) bool { return p.points[i].co[p.dim] < p.points[j].co[p.dim] }
func (p plane) Swap(i, j int)      { p.points[i], p.points[j] = p.points[j], p.points[i] }
func (p plane) Slice(start, end int) kdtree.SortSlicer {
	return plane{points: p.points[start:end], dim: p.dim}
}
func (p plane) Pivot() int { return kdtree.Partition(p, kdtree.MedianOfMedians(p)) }

// Hit is a query result.
type Hit struct {
	ID       int
	Distance float32
}

// Index answers nearest-point queries over a fixed set of elements.
type Index struct {
	tree *kdtree.Tree
	size int
}

// NewIndex builds an index over ids with positions given by pos.
func NewIndex(ids []int, pos func(id int) math.Vec3) *Index {
	pts := make(points, len(ids))
	for i, id := range ids {
		pts[i] = newPoint(pos(id), id)
	}
	ix := &Index{size: len(pts)}
	if len(pts) > 0 {
		ix.tree = kdtree.New(pts, false)
	}
	return ix
}

// Len returns the number of indexed elements.
func (ix *Index) Len() int { return ix.size }

// Nearest returns the element closest to p within radius. A negative radius
// means unbounded.
func (ix *Index) Nearest(p math.Vec3, radius float32) (Hit, bool) {
	if ix.tree == nil {
		return Hit{}, false
	}
	c, d2 := ix.tree.Nearest(newPoint(p, -1))
	if c == nil {
		return Hit{}, false
	}
	if radius >= 0 && d2 > float64(radius)*float64(radius) {
		return Hit{}, false
	}
	return Hit{ID: c.(point).id, Distance: float32(gomath.Sqrt(d2))}, true
}

// Within returns every element within radius of p ordered by distance.
func (ix *Index) Within(p math.Vec3, radius float32) []Hit {
	if ix.tree == nil {
		return nil
	}
	keep := kdtree.NewDistKeeper(float64(radius) * float64(radius))
	ix.tree.NearestSet(keep, newPoint(p, -1))
	hits := make([]Hit, 0, len(keep.Heap))
	for _, cd := range keep.Heap {
		if cd.Comparable == nil {
			continue
		}
		hits = append(hits, Hit{ID: cd.Comparable.(point).id, Distance: float32(gomath.Sqrt(cd.Dist))})
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Distance != hits[j].Distance {
			return hits[i].Distance < hits[j].Distance
		}
		return hits[i].ID < hits[j].ID
	})
	return hits
}
