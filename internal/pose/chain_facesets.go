package pose

import (
	"github.com/Faultbox/posebrush/internal/bitvec"
	"github.com/Faultbox/posebrush/internal/floodfill"
	"github.com/Faultbox/posebrush/internal/surface"
	"github.com/Faultbox/posebrush/internal/symmetry"
	"github.com/Faultbox/posebrush/pkg/math"
)

// faceSetWalk is the state of one face set flood of the face sets chain.
type faceSetWalk struct {
	b        *builder
	weights  []float32
	weighted *bitvec.V
	visited  map[int]struct{}
	initial  math.Vec3
	first    bool

	current int
	next    int
	nextV   int
	found   bool

	origin, fallback   math.Vec3
	originN, fallbackN int
	nbs                []int
}

func (w *faceSetWalk) weight(v int) bool {
	if w.weighted.IsSet(v) {
		return false
	}
	w.weights[v] = 1
	w.weighted.Set(v)
	return true
}

func (w *faceSetWalk) valid(v int) bool {
	s := w.b.surf
	if !w.first {
		return s.HasFaceSet(v, w.current)
	}
	for fs := range w.visited {
		if s.HasFaceSet(v, fs) {
			return true
		}
	}
	return false
}

func (w *faceSetWalk) visit(step *floodfill.Step) {
	s := w.b.surf
	v := step.To
	co := s.Position(v)
	symmetric := symmetry.PivotSymmetric(co, w.initial, w.b.symm) && !step.Duplicate

	// Until a face set is chosen the flood runs on topology and leaves the
	// brush radius through the face set the segment will use.
	if w.current == surface.FaceSetNone {
		w.weights[v] = 1
		w.weighted.Set(v)
		if symmetry.InsideRadius(co, w.initial, w.b.radius, w.b.symm) {
			w.visited[s.FaceSet(v)] = struct{}{}
		} else if symmetric {
			w.current = s.FaceSet(v)
			w.visited[w.current] = struct{}{}
		}
		step.Expand = true
		return
	}

	if !w.valid(v) {
		return
	}
	step.Expand = w.weight(v)

	if symmetric {
		w.fallback = w.fallback.Add(co)
		w.fallbackN++
	}
	if !symmetric || s.HasUniqueFaceSet(v) {
		return
	}

	boundary := false
	w.nbs = w.b.topo.Neighbors(v, w.nbs[:0])
	for _, nb := range w.nbs {
		fs := s.FaceSet(nb)
		if _, seen := w.visited[fs]; seen || !s.HasUniqueFaceSet(nb) {
			continue
		}
		if !w.found {
			w.next, w.nextV, w.found = fs, nb, true
		}
		boundary = true
	}
	if boundary {
		w.origin = w.origin.Add(co)
		w.originN++
	}
}

func (w *faceSetWalk) segmentOrigin() math.Vec3 {
	switch {
	case w.originN > 0:
		return w.origin.Scale(1 / float32(w.originN))
	case w.fallbackN > 0:
		return w.fallback.Scale(1 / float32(w.fallbackN))
	default:
		return math.Vec3{}
	}
}

// faceSetsChain assigns one face set to each segment, walking from the face
// set under the cursor into the next unvisited neighboring face set. The
// origin of a segment is the border with the face set of the next one.
func (b *builder) faceSetsChain() *Chain {
	n := b.surf.VertexCount()
	chain := newChain(b.brush.EffectiveSegments(), n)
	segs := chain.Segments

	weighted := bitvec.New(n)
	visited := map[int]struct{}{}
	current, vertex := surface.FaceSetNone, b.activeVertex

	for i := range segs {
		fill := floodfill.New(b.topo)
		fill.AddInitialWithSymmetry(vertex, floodfill.Unbounded, b.symm)
		visited[current] = struct{}{}

		w := &faceSetWalk{
			b:        b,
			weights:  segs[i].Weights,
			weighted: weighted,
			visited:  visited,
			initial:  b.surf.Position(vertex),
			first:    i == 0,
			current:  current,
		}
		for _, seed := range fill.Seeds() {
			w.weight(seed)
		}
		for step := range fill.Steps() {
			w.visit(step)
		}
		segs[i].Orig = w.segmentOrigin()

		if !w.found {
			// Out of face sets: the remaining segments stay still.
			for j := i + 1; j < len(segs); j++ {
				segs[j].Orig = segs[i].Orig
			}
			break
		}
		current, vertex = w.next, w.nextV
	}

	chain.initOriginsHeads(b.surf.Position(b.activeVertex))
	return chain
}
