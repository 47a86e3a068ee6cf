// Package falloff evaluates brush falloff curves.
package falloff

import (
	"errors"
	"fmt"
	"slices"

	"github.com/chewxy/math32"
)

// Preset selects the curve shape.
type Preset int

const (
	Smooth Preset = iota
	Smoother
	Sphere
	Root
	Sharp
	Linear
	Pow4
	InvSquare
	Constant
	Custom
)

var presetNames = [...]string{
	Smooth:    "smooth",
	Smoother:  "smoother",
	Sphere:    "sphere",
	Root:      "root",
	Sharp:     "sharp",
	Linear:    "linear",
	Pow4:      "pow4",
	InvSquare: "invsquare",
	Constant:  "constant",
	Custom:    "custom",
}

var (
	ErrUnknownPreset = errors.New("falloff: unknown preset")
	ErrCurvePoints   = errors.New("falloff: custom curve needs points sorted by distance")
)

func (p Preset) String() string {
	if p < 0 || int(p) >= len(presetNames) {
		return fmt.Sprintf("Preset(%d)", int(p))
	}
	return presetNames[p]
}

// ParsePreset returns the preset with the given name.
func ParsePreset(name string) (Preset, error) {
	if i := slices.Index(presetNames[:], name); i >= 0 {
		return Preset(i), nil
	}
	return 0, fmt.Errorf("%q: %w", name, ErrUnknownPreset)
}

// Point is a control point of a custom curve. X is the normalized distance
// from the center, Y the strength.
type Point struct {
	X, Y float32
}

// Curve is a falloff curve.
type Curve struct {
	Preset Preset
	// Points define the Custom preset, sorted by X.
	Points []Point
}

// Validate checks the custom control points.
func (c Curve) Validate() error {
	if c.Preset != Custom {
		return nil
	}
	if len(c.Points) == 0 {
		return ErrCurvePoints
	}
	if !slices.IsSortedFunc(c.Points, func(a, b Point) int {
		switch {
		case a.X < b.X:
			return -1
		case a.X > b.X:
			return 1
		}
		return 0
	}) {
		return ErrCurvePoints
	}
	return nil
}

// Strength returns the curve value at distance from the center of a brush of
// the given radius. Distances at or beyond the radius have zero strength.
func (c Curve) Strength(distance, radius float32) float32 {
	if distance >= radius {
		return 0
	}
	p := 1 - distance/radius
	switch c.Preset {
	case Custom:
		return c.custom(distance / radius)
	case Smooth:
		return 3*p*p - 2*p*p*p
	case Smoother:
		return p * p * p * (p*(p*6-15) + 10)
	case Sphere:
		return math32.Sqrt(2*p - p*p)
	case Root:
		return math32.Sqrt(p)
	case Sharp:
		return p * p
	case Linear:
		return p
	case Pow4:
		return p * p * p * p
	case InvSquare:
		return p * (2 - p)
	case Constant:
		return 1
	}
	return p
}

// custom interpolates the control points linearly, clamping outside them.
func (c Curve) custom(x float32) float32 {
	pts := c.Points
	if len(pts) == 0 {
		return 1 - x
	}
	if x <= pts[0].X {
		return pts[0].Y
	}
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		if x > b.X {
			continue
		}
		if b.X == a.X {
			return b.Y
		}
		t := (x - a.X) / (b.X - a.X)
		return a.Y + (b.Y-a.Y)*t
	}
	return pts[len(pts)-1].Y
}
