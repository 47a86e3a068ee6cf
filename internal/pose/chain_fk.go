package pose

import (
	"github.com/Faultbox/posebrush/internal/floodfill"
	"github.com/Faultbox/posebrush/internal/surface"
	"github.com/Faultbox/posebrush/pkg/math"
)

// faceSetsFKChain builds a single segment that rotates the active face set
// around its border with the deepest neighboring face set. The head sits on
// the border with the first neighboring face set found, so dragging moves the
// limb like a forward kinematics joint.
func (b *builder) faceSetsFKChain() *Chain {
	s := b.surf
	n := s.VertexCount()
	active := b.activeFaceSet

	depth := make([]int, n)
	depth[b.activeVertex] = 1
	visited := map[int]struct{}{}
	masked, target := surface.FaceSetNone, surface.FaceSetNone
	maskedDepth := 0

	fill := floodfill.New(b.topo)
	fill.AddInitial(b.activeVertex)
	for step := range fill.Steps() {
		from, to := step.From, step.To
		depth[to] = depth[from]
		if !step.Duplicate {
			depth[to]++
		}
		fs := s.FaceSet(to)
		if _, seen := visited[fs]; !seen &&
			s.HasUniqueFaceSet(to) && !s.HasUniqueFaceSet(from) && s.HasFaceSet(from, fs) {
			visited[fs] = struct{}{}
			if depth[to] >= maskedDepth {
				masked, maskedDepth = fs, depth[to]
			}
			if target == surface.FaceSetNone {
				target = fs
			}
		}
		step.Expand = s.HasFaceSet(to, active)
	}

	border := func(other int) (math.Vec3, int) {
		var sum math.Vec3
		count := 0
		for v := 0; v < n; v++ {
			if depth[v] == 0 || !canonical(s, v) {
				continue
			}
			if s.HasFaceSet(v, active) && s.HasFaceSet(v, other) {
				sum = sum.Add(s.Position(v))
				count++
			}
		}
		if count == 0 {
			return math.Vec3{}, 0
		}
		return sum.Scale(1 / float32(count)), count
	}

	chain := newChain(1, n)
	seg := &chain.Segments[0]
	seg.Orig, _ = border(masked)
	seg.Head = b.location
	if target != masked {
		if head, count := border(target); count > 0 {
			seg.Head = head
			chain.GrabDeltaOffset = head.Sub(b.location)
		}
	}

	weights := floodfill.New(b.topo)
	weights.AddInitialWithSymmetry(b.activeVertex, b.radius, b.symm)
	for _, v := range weights.Seeds() {
		seg.Weights[v] = 1
	}
	for step := range weights.Steps() {
		seg.Weights[step.To] = 1
		step.Expand = !s.HasFaceSet(step.To, masked)
	}

	chain.initOriginsHeads(seg.Head)
	return chain
}
