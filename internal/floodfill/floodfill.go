// Package floodfill implements a seeded breadth-first traversal over surface
// topology. The traversal is exposed as a lazy sequence of steps; the consumer
// decides per step whether the fill continues from the reached vertex.
package floodfill

import (
	"iter"
	gomath "math"

	"github.com/Faultbox/posebrush/internal/bitvec"
	"github.com/Faultbox/posebrush/internal/spatial"
	"github.com/Faultbox/posebrush/internal/symmetry"
	"github.com/Faultbox/posebrush/pkg/math"
)

// Unbounded is the radius for symmetric seeds that accepts any distance.
const Unbounded = gomath.MaxFloat32

// Topology is the connectivity the fill walks.
type Topology interface {
	VertexCount() int
	Position(v int) math.Vec3
	Neighbors(v int, dst []int) []int
	Canonical(v int) int
	Duplicates(v int) []int
	Hidden(v int) bool
}

// Step is one traversal event from a queued vertex to an unvisited neighbor.
type Step struct {
	From, To int
	// Duplicate is set when To is coincident with an element visited before,
	// such as the copy of a grid seam vertex in the adjacent grid.
	Duplicate bool
	// Expand queues To so its own neighbors are visited later.
	Expand bool
}

// Fill is a single-use traversal. Seeds are added before ranging over Steps.
type Fill struct {
	topo    Topology
	visited *bitvec.V
	groups  *bitvec.V
	queue   []int
	head    int
	seeds   int
	index   *spatial.Index
}

// New returns an empty fill over t.
func New(t Topology) *Fill {
	n := t.VertexCount()
	return &Fill{
		topo:    t,
		visited: bitvec.New(n),
		groups:  bitvec.New(n),
	}
}

// AddInitial seeds the fill with v. Seeds are never reported as steps.
func (f *Fill) AddInitial(v int) {
	if v < 0 || v >= f.topo.VertexCount() || f.visited.IsSet(v) {
		return
	}
	f.visited.Set(v)
	f.groups.Set(f.topo.Canonical(v))
	f.queue = append(f.queue, v)
	f.seeds++
}

// AddInitialWithSymmetry seeds v and, for every other valid mirror pass of
// symm, the visible vertex nearest to the mirrored position of v within
// radius. A zero radius seeds only v.
func (f *Fill) AddInitialWithSymmetry(v int, radius float32, symm symmetry.Flags) {
	co := f.topo.Position(v)
	for _, pass := range symmetry.Passes(symm) {
		if pass == 0 {
			f.AddInitial(v)
			continue
		}
		if radius <= 0 {
			continue
		}
		r := radius
		if radius == Unbounded {
			r = -1
		}
		if hit, ok := f.nearest().Nearest(symmetry.Flip(co, pass), r); ok {
			f.AddInitial(hit.ID)
		}
	}
}

func (f *Fill) nearest() *spatial.Index {
	if f.index == nil {
		ids := make([]int, 0, f.topo.VertexCount())
		for v := 0; v < f.topo.VertexCount(); v++ {
			if !f.topo.Hidden(v) {
				ids = append(ids, v)
			}
		}
		f.index = spatial.NewIndex(ids, f.topo.Position)
	}
	return f.index
}

func (f *Fill) visit(step *Step, yield func(*Step) bool) bool {
	if !yield(step) {
		return false
	}
	if step.Expand {
		f.queue = append(f.queue, step.To)
	}
	return true
}

// Seeds returns the vertices the fill was seeded with.
func (f *Fill) Seeds() []int { return f.queue[:f.seeds:f.seeds] }

// Visited reports whether v has been reached or seeded.
func (f *Fill) Visited(v int) bool { return f.visited.IsSet(v) }

// Steps returns the traversal. It can be ranged over once; breaking out of
// the loop leaves the remaining queue unvisited.
func (f *Fill) Steps() iter.Seq[*Step] {
	return func(yield func(*Step) bool) {
		var nbs []int
		for f.head < len(f.queue) {
			from := f.queue[f.head]
			f.head++
			nbs = f.topo.Neighbors(from, nbs[:0])
			for _, to := range nbs {
				if f.visited.IsSet(to) {
					continue
				}
				f.visited.Set(to)
				c := f.topo.Canonical(to)
				step := Step{From: from, To: to, Duplicate: f.groups.IsSet(c)}
				f.groups.Set(c)
				if !f.visit(&step, yield) {
					return
				}
				// Coincident elements are reached together so a fill never
				// stops between copies of a seam vertex.
				for _, d := range f.topo.Duplicates(to) {
					if f.visited.IsSet(d) {
						continue
					}
					f.visited.Set(d)
					dup := Step{From: to, To: d, Duplicate: true}
					if !f.visit(&dup, yield) {
						return
					}
				}
			}
		}
	}
}
