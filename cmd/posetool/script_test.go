package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/chewxy/math32"

	"github.com/Faultbox/posebrush/internal/surface"
	"github.com/Faultbox/posebrush/pkg/math"
)

func TestParseScript(t *testing.T) {
	src := `
strokes:
  - location: [0.25, 0, 2]
    radius: 0.4
    invert: true
    initial_mouse: [100, 20]
    steps:
      - grab: [0.1, 0, 0]
        mouse: [90, 20]
      - grab: [0.2, 0, 0]
  - location: [0, 0, 1]
    active_vertex: 7
    steps:
      - grab: [0, 0, 0.5]
`
	s, err := ParseScript(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseScript() error = %v", err)
	}
	if len(s.Strokes) != 2 {
		t.Fatalf("strokes = %d, want 2", len(s.Strokes))
	}

	first := s.Strokes[0].stroke()
	if first.ActiveVertex != -1 {
		t.Errorf("ActiveVertex = %d, want -1", first.ActiveVertex)
	}
	if first.Radius != 0.4 || !first.Invert {
		t.Errorf("stroke = %+v", first)
	}
	if first.Mouse != first.InitialMouse {
		t.Errorf("Mouse = %v, want initial %v", first.Mouse, first.InitialMouse)
	}
	s.Strokes[0].Steps[0].apply(&first, nil)
	if first.GrabDelta != math.V3(0.1, 0, 0) || first.Mouse != [2]float32{90, 20} {
		t.Errorf("after step: grab %v mouse %v", first.GrabDelta, first.Mouse)
	}

	second := s.Strokes[1].stroke()
	if second.ActiveVertex != 7 {
		t.Errorf("ActiveVertex = %d, want 7", second.ActiveVertex)
	}
}

func TestParseScriptInvalid(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"unknown key", "strokes:\n  - location: [0, 0, 0]\n    speed: 3\n    steps: [{grab: [0, 0, 0]}]\n"},
		{"no steps", "strokes:\n  - location: [0, 0, 0]\n"},
		{"negative radius", "strokes:\n  - location: [0, 0, 0]\n    radius: -1\n    steps: [{grab: [0, 0, 0]}]\n"},
		{"not yaml", "strokes: [\n"},
		{"cursor without view", "strokes:\n  - cursor: [10, 10]\n    steps: [{mouse: [20, 10]}]\n"},
		{"empty view", "view: {width: 0, height: 10}\nstrokes: []\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseScript(strings.NewReader(tt.src)); err == nil {
				t.Error("expected error")
			}
		})
	}

	_, err := ParseScript(strings.NewReader("strokes:\n  - location: [0, 0, 0]\n"))
	if !errors.Is(err, errScript) {
		t.Errorf("error = %v, want errScript", err)
	}
}

func TestParseScriptEmpty(t *testing.T) {
	s, err := ParseScript(strings.NewReader(""))
	if err != nil {
		t.Fatalf("ParseScript() error = %v", err)
	}
	if len(s.Strokes) != 0 {
		t.Errorf("strokes = %d, want 0", len(s.Strokes))
	}
}

func TestBuildSurface(t *testing.T) {
	base := tubeRings * tubeSides
	tests := []struct {
		kind  surface.Kind
		level int
		verts int
	}{
		{surface.KindMesh, 0, base},
		{surface.KindDynamic, 0, base},
		{surface.KindGrids, 1, tubeSides * (tubeRings - 1) * 9},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			s, err := buildSurface("tube", tt.kind, tt.level)
			if err != nil {
				t.Fatalf("buildSurface() error = %v", err)
			}
			if s.Kind() != tt.kind {
				t.Errorf("Kind() = %v, want %v", s.Kind(), tt.kind)
			}
			if s.VertexCount() != tt.verts {
				t.Errorf("VertexCount() = %d, want %d", s.VertexCount(), tt.verts)
			}
		})
	}

	if _, err := buildSurface("torus", surface.KindMesh, 0); err == nil {
		t.Error("expected error for unknown shape")
	}
}

func TestDefaultScriptHitsSurface(t *testing.T) {
	for _, shape := range []string{"tube", "plane"} {
		s, err := buildSurface(shape, surface.KindMesh, 0)
		if err != nil {
			t.Fatal(err)
		}
		loc := defaultScript(shape).Strokes[0].stroke().Location
		found := false
		for v := range s.VertexCount() {
			if s.Position(v).ApproxEqual(loc, 1e-5) {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("%s: default stroke location %v is not a vertex", shape, loc)
		}
	}
}

func TestDisplacement(t *testing.T) {
	m, err := surface.Plane(1, 1, 1, 1).Mesh()
	if err != nil {
		t.Fatal(err)
	}
	rest := surface.Positions(m)
	current := surface.Positions(m)
	current[0] = current[0].Add(math.V3(0, 0, 2))

	st := displacement(m, rest, current)
	if st.moved != 1 || st.max != 2 || st.mean != 0.5 {
		t.Errorf("displacement = %+v", st)
	}
}

func TestWriteOBJ(t *testing.T) {
	m, err := surface.Plane(1, 1, 1, 1).Mesh()
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := WriteOBJ(&buf, m); err != nil {
		t.Fatalf("WriteOBJ() error = %v", err)
	}
	out := buf.String()
	if n := strings.Count(out, "\nv "); n != 4 {
		t.Errorf("vertex lines = %d, want 4", n)
	}
	if !strings.Contains(out, "\nf 1 2 4 3\n") {
		t.Errorf("missing face line in:\n%s", out)
	}
}

func TestWriteOBJGrids(t *testing.T) {
	g, err := surface.Plane(1, 1, 1, 1).Grids(1)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := WriteOBJ(&buf, g); err != nil {
		t.Fatalf("WriteOBJ() error = %v", err)
	}
	cells := g.GridCount() * (g.GridSize() - 1) * (g.GridSize() - 1)
	if n := strings.Count(buf.String(), "\nf "); n != cells {
		t.Errorf("face lines = %d, want %d", n, cells)
	}
}

func TestResolveRay(t *testing.T) {
	s, err := buildSurface("plane", surface.KindMesh, 0)
	if err != nil {
		t.Fatal(err)
	}
	sc := StrokeScript{
		Ray:   &RayScript{Origin: [3]float32{0.49, 0.01, 2}, Direction: [3]float32{0, 0, -1}},
		Steps: []StepScript{{}},
	}
	st, err := sc.resolve(s, nil)
	if err != nil {
		t.Fatalf("resolve() error = %v", err)
	}
	if !st.Location.ApproxEqual(math.V3(0.49, 0.01, 0), 1e-5) {
		t.Errorf("Location = %v", st.Location)
	}
	if !s.Position(st.ActiveVertex).ApproxEqual(math.V3(0.5, 0, 0), 1e-5) {
		t.Errorf("ActiveVertex %d at %v", st.ActiveVertex, s.Position(st.ActiveVertex))
	}

	sc.Ray.Direction = [3]float32{0, 0, 1}
	if _, err := sc.resolve(s, nil); !errors.Is(err, errScript) {
		t.Errorf("missing ray: error = %v, want errScript", err)
	}
}

func TestViewportScript(t *testing.T) {
	s, err := buildSurface("plane", surface.KindMesh, 0)
	if err != nil {
		t.Fatal(err)
	}
	src := `
view: {width: 200, height: 200, pitch: 89}
strokes:
  - cursor: [100, 100]
    steps:
      - mouse: [120, 100]
      - grab: [0, 0, 1]
        mouse: [120, 100]
`
	sc, err := ParseScript(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseScript() error = %v", err)
	}
	vp := sc.viewport(s)
	if vp == nil {
		t.Fatal("viewport() = nil")
	}

	// Looking down at the center of the plane.
	st, err := sc.Strokes[0].resolve(s, vp)
	if err != nil {
		t.Fatalf("resolve() error = %v", err)
	}
	if !st.Location.ApproxEqual(math.Vec3{}, 1e-3) {
		t.Errorf("Location = %v, want the plane center", st.Location)
	}
	if st.InitialMouse != [2]float32{100, 100} {
		t.Errorf("InitialMouse = %v, want the cursor", st.InitialMouse)
	}

	sc.Strokes[0].Steps[0].apply(&st, vp)
	if st.GrabDelta.X <= 0 || math32.Abs(st.GrabDelta.Z) > 1e-3 {
		t.Errorf("dragged GrabDelta = %v, want +X in the plane", st.GrabDelta)
	}
	sc.Strokes[0].Steps[1].apply(&st, vp)
	if st.GrabDelta != math.V3(0, 0, 1) {
		t.Errorf("explicit GrabDelta = %v", st.GrabDelta)
	}

	if (&Script{}).viewport(s) != nil {
		t.Error("viewport() without a view should be nil")
	}
}
