package pose

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/posebrush/internal/automask"
	"github.com/Faultbox/posebrush/internal/cloth"
	"github.com/Faultbox/posebrush/internal/logger"
	"github.com/Faultbox/posebrush/internal/parallel"
	"github.com/Faultbox/posebrush/internal/smooth"
	"github.com/Faultbox/posebrush/internal/spatial"
	"github.com/Faultbox/posebrush/internal/surface"
	"github.com/Faultbox/posebrush/pkg/math"
)

var (
	ErrNoSurface          = errors.New("pose: no surface")
	ErrInvalidVertex      = errors.New("pose: invalid active vertex")
	ErrNotStarted         = errors.New("pose: stroke not started")
	ErrMissingClothTarget = errors.New("pose: cloth target required")
)

// Session runs pose strokes on one surface. A stroke is Start, any number of
// Step calls and End. A session is not safe for concurrent use; the work of
// each call is spread over the pool.
type Session struct {
	surf  surface.Surface
	brush Brush
	pool  *parallel.Pool
	log   *zap.Logger
	mask  automask.Provider
	cloth *cloth.Target

	// Stroke state.
	chain      *Chain
	orig       []math.Vec3
	grab       math.Vec3
	strokeMask automask.Provider

	fake     []int
	fakeDist float32

	tls *parallel.Scratch[applyScratch]
}

// Option configures a Session.
type Option func(*Session)

// WithPool runs kernels on p instead of a GOMAXPROCS sized pool.
func WithPool(p *parallel.Pool) Option {
	return func(s *Session) { s.pool = p }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Session) { s.log = l }
}

// WithMask replaces the automasking derived from the brush.
func WithMask(p automask.Provider) Option {
	return func(s *Session) { s.mask = p }
}

// WithClothTarget sets the buffer written by TargetCloth brushes.
func WithClothTarget(t *cloth.Target) Option {
	return func(s *Session) { s.cloth = t }
}

// NewSession returns a session deforming surf with brush.
func NewSession(surf surface.Surface, brush Brush, opts ...Option) (*Session, error) {
	if surf == nil {
		return nil, ErrNoSurface
	}
	if err := brush.Validate(); err != nil {
		return nil, err
	}
	s := &Session{surf: surf, brush: brush}
	for _, opt := range opts {
		opt(s)
	}
	if s.pool == nil {
		s.pool = parallel.NewPool(0)
	}
	if s.log == nil {
		s.log = logger.Named("pose")
	}
	if brush.Target == TargetCloth && s.cloth == nil {
		return nil, ErrMissingClothTarget
	}
	s.tls = parallel.NewScratch(s.pool, func(sc *applyScratch) {
		sc.weights = sc.weights[:0]
	})
	return s, nil
}

// Brush returns the brush of the session.
func (s *Session) Brush() Brush { return s.brush }

// Chain returns the chain of the running stroke, or nil.
func (s *Session) Chain() *Chain { return s.chain }

// Start builds the chain for a stroke at stroke.Location and snapshots the
// reference positions every step deforms from.
func (s *Session) Start(stroke *Stroke) error {
	if s.cloth != nil && s.brush.Target == TargetCloth {
		if err := s.cloth.Check(s.surf.VertexCount()); err != nil {
			return fmt.Errorf("pose: %w", err)
		}
	}
	started := time.Now()

	b, err := s.newBuilder(stroke)
	if err != nil {
		return err
	}
	chain := b.build()
	for i := range chain.Segments {
		smooth.Blur(s.pool, s.surf, s.brush.SmoothIterations, chain.Segments[i].Weights)
	}

	s.strokeMask = s.mask
	if s.strokeMask == nil {
		s.strokeMask = automask.New(s.surf, automask.Options{
			Mode:         s.brush.Automask,
			ActiveVertex: b.activeVertex,
			Radius:       b.radius,
			Symmetry:     s.brush.Symmetry,
		})
	}
	s.chain = chain
	s.orig = surface.Positions(s.surf)
	s.grab = stroke.Location

	s.log.Info("chain built",
		zap.Stringer("surface", s.surf.Kind()),
		zap.Stringer("origin", s.brush.Origin),
		zap.Int("segments", len(chain.Segments)),
		zap.Int("active_vertex", b.activeVertex),
		zap.Duration("elapsed", time.Since(started)))
	return nil
}

// Step solves the chain for the current stroke input and deforms the
// surface, or the cloth target, from the reference positions.
func (s *Session) Step(stroke *Stroke) error {
	if s.chain == nil {
		return ErrNotStarted
	}
	// One step deforms every mirror.
	if stroke.MirrorPass != 0 {
		return nil
	}
	s.chain.solve(&s.brush, stroke)
	s.chain.buildTransforms(s.brush.Symmetry, s.brush.Deform, s.grab)
	s.apply()

	if ce := s.log.Check(zap.DebugLevel, "step"); ce != nil {
		seg := &s.chain.Segments[0]
		ce.Write(
			zap.Stringer("deform", s.brush.Deform),
			zap.Bool("invert", stroke.Invert),
			zap.Float32("head_x", seg.Head.X),
			zap.Float32("head_y", seg.Head.Y),
			zap.Float32("head_z", seg.Head.Z),
			zap.Float32("scale", seg.Scale.Z))
	}
	return nil
}

// End releases the stroke state. Deformed positions stay in place.
func (s *Session) End() {
	s.chain = nil
	s.orig = nil
	s.strokeMask = nil
}

// newBuilder resolves the active vertex, face set and radius of stroke.
func (s *Session) newBuilder(stroke *Stroke) (*builder, error) {
	n := s.surf.VertexCount()
	active := stroke.ActiveVertex
	if active < 0 {
		v, ok := nearestVertex(s.surf, stroke.Location)
		if !ok {
			return nil, fmt.Errorf("no visible vertex: %w", ErrInvalidVertex)
		}
		active = v
	}
	if active >= n || s.surf.Hidden(active) {
		return nil, fmt.Errorf("vertex %d of %d: %w", active, n, ErrInvalidVertex)
	}

	b := newBuilder(s.surf, s.pool, &s.brush, s.fakeNeighbors())
	b.location = stroke.Location
	b.radius = s.brush.Radius
	if stroke.Radius > 0 {
		b.radius = stroke.Radius
	}
	b.activeVertex = active
	b.activeFaceSet = stroke.ActiveFaceSet
	if b.activeFaceSet == surface.FaceSetNone {
		b.activeFaceSet = s.surf.FaceSet(active)
	}
	return b, nil
}

// fakeNeighbors returns the island bridging table, rebuilt when the maximum
// distance or the vertex count changed since the last stroke.
func (s *Session) fakeNeighbors() []int {
	if s.brush.ConnectedOnly {
		return nil
	}
	dist := s.brush.DisconnectedDistanceMax
	if s.fake == nil || s.fakeDist != dist || len(s.fake) != s.surf.VertexCount() {
		s.fake = spatial.FakeNeighbors(s.surf, dist)
		s.fakeDist = dist
	}
	return s.fake
}

// BuildPreview builds the chain a stroke at location would use, without
// deforming anything. The active vertex is the visible vertex nearest to
// location.
func BuildPreview(surf surface.Surface, brush Brush, location math.Vec3, radius float32) (*Preview, error) {
	s, err := NewSession(surf, brush, WithLogger(zap.NewNop()), WithClothTarget(&cloth.Target{}))
	if err != nil {
		return nil, err
	}
	b, err := s.newBuilder(&Stroke{Location: location, ActiveVertex: -1, Radius: radius})
	if err != nil {
		return nil, err
	}
	return b.build().preview(), nil
}
