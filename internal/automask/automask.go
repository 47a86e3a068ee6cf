// Package automask computes the per-vertex influence factors of a stroke:
// visibility, the sculpt mask and optional automasking.
package automask

import (
	"github.com/Faultbox/posebrush/internal/floodfill"
	"github.com/Faultbox/posebrush/internal/surface"
	"github.com/Faultbox/posebrush/internal/symmetry"
	"github.com/Faultbox/posebrush/pkg/math"
)

// Provider fills dst[i] with the factor of verts[i]. Zero means unaffected.
type Provider interface {
	Factors(verts []int, dst []float32)
}

// Mode is a set of automasking rules.
type Mode uint8

const (
	// FaceSets keeps only vertices in the face set of the active vertex.
	FaceSets Mode = 1 << iota
	// Topology keeps only vertices connected to the active vertex within the
	// brush radius.
	Topology
)

// Options configures a Cache.
type Options struct {
	Mode         Mode
	ActiveVertex int
	Radius       float32
	Symmetry     symmetry.Flags
}

// Cache holds the automasking factors of one stroke.
type Cache struct {
	surf surface.Surface
	auto []float32 // nil when no rule is enabled
}

// New evaluates the automasking rules of opts on s.
func New(s surface.Surface, opts Options) *Cache {
	c := &Cache{surf: s}
	if opts.Mode == 0 {
		return c
	}
	c.auto = make([]float32, s.VertexCount())
	for v := range c.auto {
		c.auto[v] = 1
	}
	if opts.Mode&FaceSets != 0 {
		fs := s.FaceSet(opts.ActiveVertex)
		for v := range c.auto {
			if !s.HasFaceSet(v, fs) {
				c.auto[v] = 0
			}
		}
	}
	if opts.Mode&Topology != 0 {
		c.floodTopology(opts)
	}
	return c
}

func (c *Cache) floodTopology(opts Options) {
	s := c.surf
	connected := make([]bool, s.VertexCount())
	connected[opts.ActiveVertex] = true
	center := s.Position(opts.ActiveVertex)

	fill := floodfill.New(s)
	fill.AddInitialWithSymmetry(opts.ActiveVertex, opts.Radius, opts.Symmetry)
	for v := range connected {
		if fill.Visited(v) {
			connected[v] = true
		}
	}
	for step := range fill.Steps() {
		connected[step.To] = true
		step.Expand = symmetry.InsideRadius(s.Position(step.To), center, opts.Radius, opts.Symmetry)
	}
	for v, ok := range connected {
		if !ok {
			c.auto[v] = 0
		}
	}
}

// Factor returns the factor of v.
func (c *Cache) Factor(v int) float32 {
	if c.surf.Hidden(v) {
		return 0
	}
	f := 1 - math.Clamp01(c.surf.Mask(v))
	if c.auto != nil {
		f *= c.auto[v]
	}
	return f
}

// Factors implements Provider.
func (c *Cache) Factors(verts []int, dst []float32) {
	for i, v := range verts {
		dst[i] = c.Factor(v)
	}
}
