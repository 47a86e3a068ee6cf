package pose

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Faultbox/posebrush/internal/cloth"
	"github.com/Faultbox/posebrush/internal/config"
	"github.com/Faultbox/posebrush/internal/falloff"
	"github.com/Faultbox/posebrush/internal/parallel"
	"github.com/Faultbox/posebrush/internal/surface"
	"github.com/Faultbox/posebrush/internal/symmetry"
	"github.com/Faultbox/posebrush/pkg/math"
)

func newSession(t *testing.T, s surface.Surface, brush Brush, opts ...Option) *Session {
	t.Helper()
	opts = append([]Option{WithLogger(zap.NewNop()), WithPool(parallel.NewPool(4))}, opts...)
	sess, err := NewSession(s, brush, opts...)
	require.NoError(t, err)
	return sess
}

type zeroMask struct{}

func (zeroMask) Factors(_ []int, dst []float32) { clear(dst) }

func TestSessionErrors(t *testing.T) {
	m := tube(t, 5, 1)

	t.Run("no surface", func(t *testing.T) {
		_, err := NewSession(nil, DefaultBrush())
		assert.ErrorIs(t, err, ErrNoSurface)
	})

	t.Run("invalid brush", func(t *testing.T) {
		b := DefaultBrush()
		b.Segments = 0
		_, err := NewSession(m, b)
		assert.ErrorIs(t, err, ErrBrush)
	})

	t.Run("cloth without target", func(t *testing.T) {
		b := DefaultBrush()
		b.Target = TargetCloth
		_, err := NewSession(m, b)
		assert.ErrorIs(t, err, ErrMissingClothTarget)
	})

	t.Run("cloth target size", func(t *testing.T) {
		b := DefaultBrush()
		b.Target = TargetCloth
		sess := newSession(t, m, b, WithClothTarget(&cloth.Target{}))
		err := sess.Start(&Stroke{ActiveVertex: -1})
		assert.ErrorIs(t, err, cloth.ErrSize)
	})

	t.Run("step before start", func(t *testing.T) {
		sess := newSession(t, m, DefaultBrush())
		assert.ErrorIs(t, sess.Step(&Stroke{}), ErrNotStarted)
	})

	t.Run("vertex out of range", func(t *testing.T) {
		sess := newSession(t, m, DefaultBrush())
		assert.ErrorIs(t, sess.Start(&Stroke{ActiveVertex: 999}), ErrInvalidVertex)
	})

	t.Run("hidden vertex", func(t *testing.T) {
		hidden := tube(t, 5, 1)
		hidden.HideVertex(0, true)
		sess := newSession(t, hidden, DefaultBrush())
		assert.ErrorIs(t, sess.Start(&Stroke{ActiveVertex: 0}), ErrInvalidVertex)
	})

	t.Run("end clears the stroke", func(t *testing.T) {
		sess := newSession(t, m, DefaultBrush())
		require.NoError(t, sess.Start(&Stroke{Location: m.Position(0), ActiveVertex: -1}))
		require.NotNil(t, sess.Chain())
		sess.End()
		assert.Nil(t, sess.Chain())
		assert.ErrorIs(t, sess.Step(&Stroke{}), ErrNotStarted)
	})
}

func TestSessionRotate(t *testing.T) {
	m := tube(t, 11, 1)
	rest := surface.Positions(m)
	tipV := ringVertex(10, 0)
	tip := rest[tipV]

	sess := newSession(t, m, DefaultBrush())
	stroke := &Stroke{Location: tip, ActiveVertex: -1}
	require.NoError(t, sess.Start(stroke))
	stroke.GrabDelta = math.V3(1, 0, 0)
	require.NoError(t, sess.Step(stroke))

	assert.Greater(t, m.Position(tipV).X, tip.X+0.1)
	for s := range tubeSides {
		v := ringVertex(0, s)
		assertVec(t, rest[v], m.Position(v), "base vertex %d", v)
	}

	// Steps deform from the stroke start, never from the previous step.
	after := surface.Positions(m)
	require.NoError(t, sess.Step(stroke))
	for v, co := range after {
		assertVec(t, co, m.Position(v), "vertex %d", v)
	}
}

func TestSessionMirrorPassIsNoop(t *testing.T) {
	m := tube(t, 11, 1)
	rest := surface.Positions(m)

	sess := newSession(t, m, DefaultBrush())
	stroke := &Stroke{Location: rest[ringVertex(10, 0)], ActiveVertex: -1}
	require.NoError(t, sess.Start(stroke))
	stroke.GrabDelta = math.V3(1, 0, 0)
	stroke.MirrorPass = symmetry.X
	require.NoError(t, sess.Step(stroke))

	assert.Equal(t, rest, surface.Positions(m))
}

func TestSessionClothTarget(t *testing.T) {
	m := tube(t, 11, 1)
	rest := surface.Positions(m)
	tipV := ringVertex(10, 0)
	target := cloth.NewTarget(rest)

	brush := DefaultBrush()
	brush.Target = TargetCloth
	sess := newSession(t, m, brush, WithClothTarget(target))
	stroke := &Stroke{Location: rest[tipV], ActiveVertex: -1}
	require.NoError(t, sess.Start(stroke))
	stroke.GrabDelta = math.V3(1, 0, 0)
	require.NoError(t, sess.Step(stroke))

	assert.Equal(t, rest, surface.Positions(m), "geometry is untouched")
	assert.Greater(t, target.Displacement(tipV, rest[tipV]).X, float32(0.1))
	assertVec(t, math.Vec3{}, target.Displacement(ringVertex(0, 0), rest[ringVertex(0, 0)]))
}

func TestSessionClipAndLock(t *testing.T) {
	m, err := surface.Plane(4, 4, 2, 2).Mesh()
	require.NoError(t, err)
	rest := surface.Positions(m)
	// Vertex row y = 0 runs 10..14 from x = -1 to x = 1.
	const mirror, center, active = 11, 12, 13

	brush := DefaultBrush()
	brush.Deform = DeformScaleTranslate
	brush.SmoothIterations = 0
	brush.Symmetry = symmetry.X
	brush.Clip = symmetry.X
	brush.Lock = symmetry.Z

	sess := newSession(t, m, brush)
	stroke := &Stroke{Location: rest[active], ActiveVertex: -1, Radius: 0.6, Invert: true}
	require.NoError(t, sess.Start(stroke))
	stroke.GrabDelta = math.V3(0.3, 0, 0.3)
	require.NoError(t, sess.Step(stroke))

	assert.InDelta(t, 0.8, m.Position(active).X, tol)
	assert.InDelta(t, -0.8, m.Position(mirror).X, tol, "mirrored translation")
	assert.InDelta(t, 0, m.Position(center).X, tol, "clipped to the mirror plane")
	for v := range m.VertexCount() {
		assert.Zero(t, m.Position(v).Z, "vertex %d moved along a locked axis", v)
	}
}

func TestSessionMask(t *testing.T) {
	m := tube(t, 11, 1)
	rest := surface.Positions(m)

	sess := newSession(t, m, DefaultBrush(), WithMask(zeroMask{}))
	stroke := &Stroke{Location: rest[ringVertex(10, 0)], ActiveVertex: -1}
	require.NoError(t, sess.Start(stroke))
	stroke.GrabDelta = math.V3(1, 0, 0)
	require.NoError(t, sess.Step(stroke))

	for v, co := range rest {
		assertVec(t, co, m.Position(v), "vertex %d", v)
	}
}

func TestSessionMatchesAcrossRepresentations(t *testing.T) {
	p := surface.Tube(7, 6, 0.3, 2, 1)
	flat, err := p.Subdivide(1)
	require.NoError(t, err)
	m, err := flat.Mesh()
	require.NoError(t, err)
	d, err := flat.DynMesh()
	require.NoError(t, err)
	g, err := p.Grids(1)
	require.NoError(t, err)
	m.SetLeafSize(16)
	d.SetLeafSize(16)
	g.SetLeafSize(9)

	brush := DefaultBrush()
	brush.Segments = 2
	brush.SmoothIterations = 0
	tip := math.V3(0.3, 0, 2)

	for _, s := range []surface.Surface{m, d, g} {
		sess := newSession(t, s, brush)
		stroke := &Stroke{Location: tip, ActiveVertex: -1}
		require.NoError(t, sess.Start(stroke))
		stroke.GrabDelta = math.V3(0.5, 0.2, -0.3)
		require.NoError(t, sess.Step(stroke))
		sess.End()
	}

	const parity = 1e-3
	for v := range m.VertexCount() {
		assert.True(t, m.Position(v).ApproxEqual(d.Position(v), parity), "dyn vertex %d", v)
	}
	for e := range g.VertexCount() {
		assert.True(t, m.Position(g.Group(e)).ApproxEqual(g.Position(e), parity), "grid element %d", e)
	}
}

func TestBrushFromConfig(t *testing.T) {
	t.Run("default", func(t *testing.T) {
		b, err := BrushFromConfig(config.Default())
		require.NoError(t, err)
		assert.Equal(t, DefaultBrush(), b)
	})

	t.Run("unknown names", func(t *testing.T) {
		for _, mutate := range []func(*config.Config){
			func(c *config.Config) { c.Brush.Origin = "bones" },
			func(c *config.Config) { c.Brush.Deform = "melt" },
			func(c *config.Config) { c.Brush.Target = "gpu" },
			func(c *config.Config) { c.Brush.Curve = "wobbly" },
		} {
			cfg := config.Default()
			mutate(cfg)
			_, err := BrushFromConfig(cfg)
			assert.ErrorIs(t, err, ErrBrush)
		}
	})

	t.Run("custom", func(t *testing.T) {
		cfg := config.Default()
		cfg.Brush.Origin = "face_sets_fk"
		cfg.Brush.Deform = "squash_stretch"
		cfg.Brush.Curve = "custom"
		cfg.Brush.CurvePoints = [][2]float32{{0, 1}, {1, 0}}
		cfg.Brush.AutomaskFaceSets = true
		cfg.Symmetry.X = true
		cfg.Symmetry.Clip.X = true
		cfg.Symmetry.Lock.Z = true

		b, err := BrushFromConfig(cfg)
		require.NoError(t, err)
		assert.Equal(t, OriginFaceSetsFK, b.Origin)
		assert.Equal(t, DeformSquashStretch, b.Deform)
		assert.Equal(t, falloff.Custom, b.Curve.Preset)
		assert.Equal(t, []falloff.Point{{X: 0, Y: 1}, {X: 1, Y: 0}}, b.Curve.Points)
		assert.Equal(t, symmetry.X, b.Symmetry)
		assert.Equal(t, symmetry.X, b.Clip)
		assert.Equal(t, symmetry.Z, b.Lock)
		assert.NotZero(t, b.Automask)
	})
}

func TestEnumNames(t *testing.T) {
	assert.Equal(t, "face_sets", OriginFaceSets.String())
	assert.Equal(t, "squash_stretch", DeformSquashStretch.String())
	assert.Equal(t, "cloth_sim", TargetCloth.String())
	assert.Equal(t, "unknown", Deform(42).String())
}
