package pose

import (
	"github.com/Faultbox/posebrush/internal/parallel"
	"github.com/Faultbox/posebrush/internal/spatial"
	"github.com/Faultbox/posebrush/internal/surface"
	"github.com/Faultbox/posebrush/internal/symmetry"
	"github.com/Faultbox/posebrush/pkg/math"
)

// topology is the surface connectivity extended by the optional fake
// neighbor table.
type topology struct {
	surface.Surface
	fake []int // nil when disabled
}

func (t *topology) Neighbors(v int, dst []int) []int {
	dst = t.Surface.Neighbors(v, dst)
	if t.fake != nil {
		if nb := t.fake[v]; nb != spatial.NoFakeNeighbor && !t.Surface.Hidden(nb) {
			dst = append(dst, nb)
		}
	}
	return dst
}

type neighborScratch struct {
	neighbors []int
}

// builder carries the inputs of one chain construction.
type builder struct {
	surf  surface.Surface
	topo  *topology
	pool  *parallel.Pool
	brush *Brush
	symm  symmetry.Flags

	location      math.Vec3
	radius        float32
	activeVertex  int
	activeFaceSet int

	tls *parallel.Scratch[neighborScratch]
}

func newBuilder(s surface.Surface, pool *parallel.Pool, brush *Brush, fake []int) *builder {
	return &builder{
		surf:  s,
		topo:  &topology{Surface: s, fake: fake},
		pool:  pool,
		brush: brush,
		symm:  brush.Symmetry,
		tls: parallel.NewScratch(pool, func(sc *neighborScratch) {
			sc.neighbors = sc.neighbors[:0]
		}),
	}
}

// build runs the configured strategy.
func (b *builder) build() *Chain {
	switch b.brush.Origin {
	case OriginFaceSets:
		return b.faceSetsChain()
	case OriginFaceSetsFK:
		return b.faceSetsFKChain()
	default:
		return b.topologyChain()
	}
}

// duplicates returns the elements coincident with v, v included.
func duplicates(s surface.Surface, v int) []int {
	if d := s.Duplicates(v); d != nil {
		return d
	}
	return []int{v}
}

// canonical reports whether v represents its coincident group. Centroids
// only count canonical vertices so grid seams are not weighted twice.
func canonical(s surface.Surface, v int) bool {
	return s.Canonical(v) == v
}

// nearestVertex returns the visible vertex closest to p.
func nearestVertex(s surface.Surface, p math.Vec3) (int, bool) {
	ids := make([]int, 0, s.VertexCount())
	for v := 0; v < s.VertexCount(); v++ {
		if !s.Hidden(v) {
			ids = append(ids, v)
		}
	}
	hit, ok := spatial.NewIndex(ids, s.Position).Nearest(p, -1)
	return hit.ID, ok
}
