package pose

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/posebrush/internal/parallel"
	"github.com/Faultbox/posebrush/internal/surface"
	"github.com/Faultbox/posebrush/internal/symmetry"
	"github.com/Faultbox/posebrush/pkg/math"
)

// applyScratch is the per-worker buffer set of the applicator.
type applyScratch struct {
	positions       []math.Vec3
	orig            []math.Vec3
	translations    []math.Vec3
	segTranslations []math.Vec3
	factors         []float32
	weights         []float32
}

// apply blends the transforms of every segment onto the surface, one
// partition node per task.
func (s *Session) apply() {
	nodes := s.surf.Nodes()
	s.tls.Reset()
	s.pool.For(len(nodes), func(worker, i int) {
		sc := s.tls.Get(worker)
		switch surf := s.surf.(type) {
		case *surface.Mesh:
			s.applyMesh(surf, &nodes[i], sc)
		case *surface.Grids:
			s.applyGrids(surf, &nodes[i], sc)
		case *surface.DynMesh:
			s.applyDyn(surf, &nodes[i], sc)
		}
	})
}

func (s *Session) applyMesh(m *surface.Mesh, node *surface.Node, sc *applyScratch) {
	verts := node.Verts
	sc.positions = m.GatherPositions(verts, sc.positions)
	sc.orig = surface.Gather(s.orig, verts, sc.orig)
	s.calcTranslations(verts, sc, func(values, dst []float32) []float32 {
		return surface.Gather(values, verts, dst)
	})

	switch s.brush.Target {
	case TargetGeometry:
		resetToOriginal(sc.translations, sc.positions, sc.orig)
		s.clipAndLock(sc.orig, sc.positions, sc.translations)
		addArrays(sc.positions, sc.translations)
		m.ScatterPositions(sc.positions, verts)
	case TargetCloth:
		addArrays(sc.translations, sc.orig)
		surface.Scatter(sc.translations, verts, s.cloth.DeformationPos)
	}
}

func (s *Session) applyGrids(g *surface.Grids, node *surface.Node, sc *applyScratch) {
	grids := node.Grids
	sc.positions = g.GatherPositions(grids, sc.positions)
	sc.orig = surface.GatherGrids(g, s.orig, grids, sc.orig)
	s.calcTranslations(node.Verts, sc, func(values, dst []float32) []float32 {
		return surface.GatherGrids(g, values, grids, dst)
	})

	switch s.brush.Target {
	case TargetGeometry:
		resetToOriginal(sc.translations, sc.positions, sc.orig)
		s.clipAndLock(sc.orig, sc.positions, sc.translations)
		addArrays(sc.positions, sc.translations)
		g.ScatterPositions(sc.positions, grids)
	case TargetCloth:
		addArrays(sc.translations, sc.orig)
		surface.ScatterGrids(g, sc.translations, grids, s.cloth.DeformationPos)
	}
}

func (s *Session) applyDyn(d *surface.DynMesh, node *surface.Node, sc *applyScratch) {
	verts := node.Verts
	sc.positions = d.GatherPositions(verts, sc.positions)
	sc.orig = surface.Gather(s.orig, verts, sc.orig)
	s.calcTranslations(verts, sc, func(values, dst []float32) []float32 {
		return surface.Gather(values, verts, dst)
	})

	switch s.brush.Target {
	case TargetGeometry:
		resetToOriginal(sc.translations, sc.positions, sc.orig)
		s.clipAndLock(sc.orig, sc.positions, sc.translations)
		addArrays(sc.positions, sc.translations)
		d.ScatterPositions(sc.positions, verts)
	case TargetCloth:
		addArrays(sc.translations, sc.orig)
		surface.Scatter(sc.translations, verts, s.cloth.DeformationPos)
	}
}

// calcTranslations sums the weighted translation of every segment for the
// reference positions in sc.orig and scales it by the vertex factors.
func (s *Session) calcTranslations(verts []int, sc *applyScratch, gather func(values, dst []float32) []float32) {
	n := len(sc.orig)
	sc.factors = parallel.Grow(sc.factors, n)
	s.strokeMask.Factors(verts, sc.factors)

	sc.translations = parallel.Grow(sc.translations, n)
	clear(sc.translations)
	sc.segTranslations = parallel.Grow(sc.segTranslations, n)

	for i := range s.chain.Segments {
		seg := &s.chain.Segments[i]
		segmentTranslations(sc.orig, seg, sc.segTranslations)
		sc.weights = gather(seg.Weights, sc.weights)
		scaleTranslations(sc.segTranslations, sc.weights)
		addArrays(sc.translations, sc.segTranslations)
	}
	scaleTranslations(sc.translations, sc.factors)
}

func segmentTranslations(positions []math.Vec3, seg *Segment, dst []math.Vec3) {
	for i, co := range positions {
		dst[i] = seg.transformVertex(co, symmetry.VertexArea(co))
	}
}

func scaleTranslations(translations []math.Vec3, factors []float32) {
	for i, f := range factors {
		translations[i] = translations[i].Scale(f)
	}
}

func addArrays(a, b []math.Vec3) {
	for i := range a {
		a[i] = a[i].Add(b[i])
	}
}

// resetToOriginal rebases translations computed from the reference positions
// onto the current ones, so each step replaces the previous displacement
// instead of adding to it.
func resetToOriginal(translations, positions, orig []math.Vec3) {
	for i := range translations {
		translations[i] = translations[i].Add(orig[i]).Sub(positions[i])
	}
}

// clipAndLock applies the mirror plane constraints. Locked axes never move.
// Vertices whose reference position lies on a clipped mirror plane stay on
// it.
func (s *Session) clipAndLock(orig, positions, translations []math.Vec3) {
	b := &s.brush
	for axis := range 3 {
		bit := symmetry.Flags(1 << axis)
		if b.Lock&bit != 0 {
			for i := range translations {
				translations[i] = translations[i].WithComponent(axis, 0)
			}
			continue
		}
		if b.Clip&bit == 0 {
			continue
		}
		for i := range translations {
			if math32.Abs(orig[i].Component(axis)) > b.ClipTolerance {
				continue
			}
			translations[i] = translations[i].WithComponent(axis, -positions[i].Component(axis))
		}
	}
}
