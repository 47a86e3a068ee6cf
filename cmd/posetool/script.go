package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/chewxy/math32"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/posebrush/internal/camera"
	"github.com/Faultbox/posebrush/internal/picking"
	"github.com/Faultbox/posebrush/internal/pose"
	"github.com/Faultbox/posebrush/internal/surface"
	"github.com/Faultbox/posebrush/pkg/math"
)

// Script is a recorded sequence of strokes.
type Script struct {
	View    *ViewScript    `yaml:"view,omitempty"`
	Strokes []StrokeScript `yaml:"strokes"`
}

// ViewScript places the camera cursor pixels refer to. A zero distance
// frames the whole surface.
type ViewScript struct {
	Width    float32     `yaml:"width"`
	Height   float32     `yaml:"height"`
	Distance float32     `yaml:"distance,omitempty"`
	Pitch    float32     `yaml:"pitch,omitempty"` // degrees
	Yaw      float32     `yaml:"yaw,omitempty"`   // degrees
	Fov      float32     `yaml:"fov,omitempty"`   // degrees
	Center   *[3]float32 `yaml:"center,omitempty"`
}

// StrokeScript is one stroke: where it starts and the input of every step.
// A ray or a cursor pixel, when given, replaces Location with the closest
// point it hits.
type StrokeScript struct {
	Location      [3]float32   `yaml:"location"`
	Ray           *RayScript   `yaml:"ray,omitempty"`
	Cursor        *[2]float32  `yaml:"cursor,omitempty"`
	ActiveVertex  *int         `yaml:"active_vertex,omitempty"`
	ActiveFaceSet int          `yaml:"active_face_set,omitempty"`
	Radius        float32      `yaml:"radius,omitempty"`
	Invert        bool         `yaml:"invert,omitempty"`
	InitialMouse  [2]float32   `yaml:"initial_mouse,omitempty"`
	Steps         []StepScript `yaml:"steps"`
}

// RayScript is a cursor ray in object space.
type RayScript struct {
	Origin    [3]float32 `yaml:"origin"`
	Direction [3]float32 `yaml:"direction"`
}

// StepScript is the input of one stroke step. Without a grab the delta is
// the drag from the initial mouse position projected through the view.
type StepScript struct {
	Grab  *[3]float32 `yaml:"grab,omitempty"`
	Mouse [2]float32  `yaml:"mouse,omitempty"`
}

var errScript = errors.New("invalid stroke script")

func (s *StrokeScript) stroke() pose.Stroke {
	st := pose.Stroke{
		Location:      vec(s.Location),
		ActiveVertex:  -1,
		ActiveFaceSet: s.ActiveFaceSet,
		Radius:        s.Radius,
		Invert:        s.Invert,
		InitialMouse:  s.InitialMouse,
		Mouse:         s.InitialMouse,
	}
	if s.ActiveVertex != nil {
		st.ActiveVertex = *s.ActiveVertex
	}
	return st
}

// resolve returns the stroke input at start, casting the ray or cursor
// against surf.
func (s *StrokeScript) resolve(surf surface.Surface, vp *picking.Viewport) (pose.Stroke, error) {
	st := s.stroke()
	var r picking.Ray
	switch {
	case s.Ray != nil:
		r = picking.NewRay(vec(s.Ray.Origin), vec(s.Ray.Direction))
	case s.Cursor != nil:
		if vp == nil {
			return st, fmt.Errorf("cursor without a view: %w", errScript)
		}
		r = vp.Ray(*s.Cursor)
		if s.InitialMouse == [2]float32{} {
			st.InitialMouse = *s.Cursor
			st.Mouse = *s.Cursor
		}
	default:
		return st, nil
	}
	hit, ok := picking.Cast(surf, r)
	if !ok {
		return st, fmt.Errorf("ray from %v misses the surface: %w", r.Origin, errScript)
	}
	st.Location = hit.Location
	if s.ActiveVertex == nil {
		st.ActiveVertex = hit.Vertex
	}
	return st, nil
}

func vec(a [3]float32) math.Vec3 { return math.V3(a[0], a[1], a[2]) }

func (s *StepScript) apply(st *pose.Stroke, vp *picking.Viewport) {
	st.Mouse = s.Mouse
	switch {
	case s.Grab != nil:
		st.GrabDelta = vec(*s.Grab)
	case vp != nil:
		st.GrabDelta = vp.GrabDelta(st.Location, st.InitialMouse, s.Mouse)
	default:
		st.GrabDelta = math.Vec3{}
	}
}

func radians(deg float32) float32 { return deg * math32.Pi / 180 }

// viewport returns the camera view of surf, or nil when the script has none.
func (s *Script) viewport(surf surface.Surface) *picking.Viewport {
	if s.View == nil {
		return nil
	}
	c := camera.NewOrbitCamera()
	c.Pitch = radians(s.View.Pitch)
	c.Yaw = radians(s.View.Yaw)
	if s.View.Fov > 0 {
		c.FovY = radians(s.View.Fov)
	}
	if b, ok := picking.Bounds(surf); ok {
		c.FitToBounds(b.Min, b.Max)
	}
	if s.View.Center != nil {
		c.Center = vec(*s.View.Center)
	}
	if s.View.Distance > 0 {
		c.Distance = s.View.Distance
	}
	return &picking.Viewport{Camera: c, Width: s.View.Width, Height: s.View.Height}
}

// LoadScript reads a stroke script from path.
func LoadScript(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open script: %w", err)
	}
	defer f.Close()
	return ParseScript(f)
}

// ParseScript decodes a stroke script. Unknown keys are rejected.
func ParseScript(r io.Reader) (*Script, error) {
	var s Script
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if v := s.View; v != nil && (v.Width <= 0 || v.Height <= 0) {
		return nil, fmt.Errorf("view size %vx%v: %w", v.Width, v.Height, errScript)
	}
	for i, st := range s.Strokes {
		if len(st.Steps) == 0 {
			return nil, fmt.Errorf("stroke %d has no steps: %w", i, errScript)
		}
		if st.Ray != nil && st.Ray.Direction == [3]float32{} {
			return nil, fmt.Errorf("stroke %d ray has no direction: %w", i, errScript)
		}
		if st.Cursor != nil && s.View == nil {
			return nil, fmt.Errorf("stroke %d has a cursor but the script no view: %w", i, errScript)
		}
		if st.Radius < 0 {
			return nil, fmt.Errorf("stroke %d radius %v: %w", i, st.Radius, errScript)
		}
	}
	return &s, nil
}

// defaultScript drags the free end of shape sideways in four steps.
func defaultScript(shape string) *Script {
	loc := [3]float32{tubeRadius, 0, tubeLength}
	if shape == "plane" {
		loc = [3]float32{0.5, 0, 0}
	}
	st := StrokeScript{Location: loc}
	for i := 1; i <= 4; i++ {
		d := 0.15 * float32(i)
		st.Steps = append(st.Steps, StepScript{Grab: &[3]float32{d, 0, -d / 2}})
	}
	return &Script{Strokes: []StrokeScript{st}}
}

const (
	tubeRings  = 17
	tubeSides  = 12
	tubeRadius = 0.25
	tubeLength = 2
	tubeBands  = 4
)

// buildSurface generates shape as kind. Grids subdivide to level; the other
// kinds are built from the same patch subdivided level times, so vertex k of
// either matches grid group k.
func buildSurface(shape string, kind surface.Kind, level int) (surface.Surface, error) {
	var p surface.QuadPatch
	switch shape {
	case "tube":
		p = surface.Tube(tubeRings, tubeSides, tubeRadius, tubeLength, tubeBands)
	case "plane":
		p = surface.Plane(16, 16, 2, 2)
	default:
		return nil, fmt.Errorf("unknown shape %q", shape)
	}
	if level < 0 {
		return nil, fmt.Errorf("negative level %d", level)
	}
	if kind == surface.KindGrids {
		return p.Build(kind, level)
	}
	if level > 0 {
		var err error
		if p, err = p.Subdivide(level); err != nil {
			return nil, err
		}
	}
	return p.Build(kind, 0)
}

type displacementStats struct {
	moved     int
	max, mean float32
}

// displacement compares current against rest over the visible canonical
// vertices of s.
func displacement(s surface.Surface, rest, current []math.Vec3) displacementStats {
	var (
		st    displacementStats
		sum   float32
		count int
	)
	for v := range rest {
		if s.Hidden(v) || s.Canonical(v) != v {
			continue
		}
		d := current[v].Distance(rest[v])
		count++
		sum += d
		st.max = max(st.max, d)
		if d > math.Epsilon {
			st.moved++
		}
	}
	if count > 0 {
		st.mean = sum / float32(count)
	}
	return st
}
