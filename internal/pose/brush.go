package pose

import (
	"errors"
	"fmt"

	"github.com/Faultbox/posebrush/internal/automask"
	"github.com/Faultbox/posebrush/internal/config"
	"github.com/Faultbox/posebrush/internal/falloff"
	"github.com/Faultbox/posebrush/internal/symmetry"
	"github.com/Faultbox/posebrush/pkg/math"
)

// Origin selects how the chain is inferred from the surface.
type Origin int

const (
	// OriginTopology grows segments outward through topology.
	OriginTopology Origin = iota
	// OriginFaceSets uses one face set per segment.
	OriginFaceSets
	// OriginFaceSetsFK builds a single segment rotating the active face set
	// around its border with the deepest neighboring face set.
	OriginFaceSetsFK
)

// Deform selects what a stroke step solves for.
type Deform int

const (
	// DeformRotateTwist rotates toward the target, or twists when inverted.
	DeformRotateTwist Deform = iota
	// DeformScaleTranslate scales along the segment, or translates when inverted.
	DeformScaleTranslate
	// DeformSquashStretch scales the segment axis and preserves volume.
	DeformSquashStretch
)

// Target selects where deformed positions are written.
type Target int

const (
	TargetGeometry Target = iota
	TargetCloth
)

var (
	originNames = map[string]Origin{
		"topology":     OriginTopology,
		"face_sets":    OriginFaceSets,
		"face_sets_fk": OriginFaceSetsFK,
	}
	deformNames = map[string]Deform{
		"rotate_twist":    DeformRotateTwist,
		"scale_translate": DeformScaleTranslate,
		"squash_stretch":  DeformSquashStretch,
	}
	targetNames = map[string]Target{
		"geometry":  TargetGeometry,
		"cloth_sim": TargetCloth,
	}
)

func nameOf[K comparable](names map[string]K, k K) string {
	for name, v := range names {
		if v == k {
			return name
		}
	}
	return "unknown"
}

func (o Origin) String() string { return nameOf(originNames, o) }
func (d Deform) String() string { return nameOf(deformNames, d) }
func (t Target) String() string { return nameOf(targetNames, t) }

var ErrBrush = errors.New("pose: invalid brush")

// Brush is the per-stroke configuration.
type Brush struct {
	Origin   Origin
	Deform   Deform
	Segments int
	// Offset moves the first origin away from the click, in brush radii.
	Offset           float32
	SmoothIterations int
	// Anchored keeps the root of the chain in place.
	Anchored bool
	// LockRotation skips the rotation pre-pass of scale mode.
	LockRotation bool
	Target       Target
	// ConnectedOnly disables fake neighbors between islands.
	ConnectedOnly           bool
	DisconnectedDistanceMax float32
	// Curve shapes the twist along the chain.
	Curve    falloff.Curve
	Strength float32
	Radius   float32

	Symmetry      symmetry.Flags
	Clip          symmetry.Flags
	ClipTolerance float32
	Lock          symmetry.Flags
	Automask      automask.Mode
}

// DefaultBrush returns the brush all configuration starts from.
func DefaultBrush() Brush {
	return Brush{
		Origin:                  OriginTopology,
		Deform:                  DeformRotateTwist,
		Segments:                1,
		SmoothIterations:        4,
		DisconnectedDistanceMax: 0.1,
		Curve:                   falloff.Curve{Preset: falloff.Smooth},
		Strength:                1,
		Radius:                  0.5,
		ClipTolerance:           0.001,
	}
}

// Validate reports configuration a stroke cannot run with.
func (b Brush) Validate() error {
	if b.Segments < 1 {
		return fmt.Errorf("%d segments: %w", b.Segments, ErrBrush)
	}
	if b.SmoothIterations < 0 {
		return fmt.Errorf("%d smooth iterations: %w", b.SmoothIterations, ErrBrush)
	}
	if b.Origin < OriginTopology || b.Origin > OriginFaceSetsFK {
		return fmt.Errorf("origin %d: %w", b.Origin, ErrBrush)
	}
	if b.Deform < DeformRotateTwist || b.Deform > DeformSquashStretch {
		return fmt.Errorf("deform %d: %w", b.Deform, ErrBrush)
	}
	if err := b.Curve.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrBrush, err)
	}
	return nil
}

// EffectiveSegments returns the number of segments the chain is built with.
// Length-changing modes always use one segment: the solver cannot keep
// chained segments connected while their lengths change.
func (b Brush) EffectiveSegments() int {
	if b.Deform == DeformScaleTranslate || b.Deform == DeformSquashStretch {
		return 1
	}
	return max(b.Segments, 1)
}

// BrushFromConfig converts the brush and symmetry sections of the
// configuration.
func BrushFromConfig(cfg *config.Config) (Brush, error) {
	b := DefaultBrush()
	bc := cfg.Brush

	var ok bool
	if b.Origin, ok = originNames[bc.Origin]; !ok {
		return b, fmt.Errorf("origin %q: %w", bc.Origin, ErrBrush)
	}
	if b.Deform, ok = deformNames[bc.Deform]; !ok {
		return b, fmt.Errorf("deform %q: %w", bc.Deform, ErrBrush)
	}
	if b.Target, ok = targetNames[bc.Target]; !ok {
		return b, fmt.Errorf("target %q: %w", bc.Target, ErrBrush)
	}
	preset, err := falloff.ParsePreset(bc.Curve)
	if err != nil {
		return b, fmt.Errorf("%w: %w", ErrBrush, err)
	}
	b.Curve = falloff.Curve{Preset: preset}
	for _, p := range bc.CurvePoints {
		b.Curve.Points = append(b.Curve.Points, falloff.Point{X: p[0], Y: p[1]})
	}

	b.Segments = bc.Segments
	b.Offset = bc.Offset
	b.SmoothIterations = bc.SmoothIterations
	b.Anchored = bc.Anchored
	b.LockRotation = bc.LockRotation
	b.ConnectedOnly = bc.ConnectedOnly
	b.DisconnectedDistanceMax = bc.DisconnectedDistanceMax
	b.Strength = bc.Strength
	b.Radius = bc.Radius
	if bc.AutomaskFaceSets {
		b.Automask |= automask.FaceSets
	}
	if bc.AutomaskTopology {
		b.Automask |= automask.Topology
	}

	sc := cfg.Symmetry
	b.Symmetry = axes(sc.X, sc.Y, sc.Z)
	b.Clip = axes(sc.Clip.X, sc.Clip.Y, sc.Clip.Z)
	b.Lock = axes(sc.Lock.X, sc.Lock.Y, sc.Lock.Z)
	b.ClipTolerance = sc.ClipTolerance

	return b, b.Validate()
}

func axes(x, y, z bool) symmetry.Flags {
	var f symmetry.Flags
	if x {
		f |= symmetry.X
	}
	if y {
		f |= symmetry.Y
	}
	if z {
		f |= symmetry.Z
	}
	return f
}

// Stroke is the input of one stroke step. The caller owns and updates it.
type Stroke struct {
	// Location is the surface point under the cursor at stroke start.
	Location math.Vec3
	// GrabDelta is the drag from Location in object space.
	GrabDelta math.Vec3
	// Mouse and InitialMouse are screen positions in pixels.
	Mouse, InitialMouse [2]float32
	Invert              bool
	// ActiveVertex is the vertex under the cursor. A negative value picks the
	// visible vertex nearest to Location.
	ActiveVertex int
	// ActiveFaceSet overrides the face set of the active vertex when non-zero.
	ActiveFaceSet int
	// Radius overrides Brush.Radius when positive.
	Radius float32
	// MirrorPass is the symmetry pass the host is running. Every pass but the
	// first is a no-op since one step deforms all mirrors.
	MirrorPass symmetry.Flags
}
