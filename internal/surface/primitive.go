package surface

import (
	"fmt"

	"github.com/chewxy/math32"

	gm "github.com/Faultbox/posebrush/pkg/math"
)

// QuadPatch is a quad-dominant polygon soup used to build any of the three
// representations from the same shape.
type QuadPatch struct {
	Positions []gm.Vec3
	Quads     [][4]int
	// FaceSets holds one face set per quad. Empty means DefaultFaceSet.
	FaceSets []int
}

// Tube builds an open cylinder along +Z starting at the origin. rings is the
// number of vertex rings (at least 2), sides the vertices per ring. The quad
// rows are labeled with bands consecutive face sets starting at 1.
func Tube(rings, sides int, radius, length float32, bands int) QuadPatch {
	rings, sides, bands = max(rings, 2), max(sides, 3), max(bands, 1)
	var p QuadPatch
	for r := 0; r < rings; r++ {
		z := length * float32(r) / float32(rings-1)
		for s := 0; s < sides; s++ {
			sin, cos := math32.Sincos(2 * math32.Pi * float32(s) / float32(sides))
			p.Positions = append(p.Positions, gm.V3(radius*cos, radius*sin, z))
		}
	}
	rows := rings - 1
	for r := 0; r < rows; r++ {
		fs := 1 + r*bands/rows
		for s := 0; s < sides; s++ {
			a := r*sides + s
			b := r*sides + (s+1)%sides
			p.Quads = append(p.Quads, [4]int{a, b, b + sides, a + sides})
			p.FaceSets = append(p.FaceSets, fs)
		}
	}
	return p
}

// Plane builds a flat nx by ny quad grid of the given size in the XY plane,
// centered on the origin.
func Plane(nx, ny int, sizeX, sizeY float32) QuadPatch {
	nx, ny = max(nx, 1), max(ny, 1)
	var p QuadPatch
	for y := 0; y <= ny; y++ {
		for x := 0; x <= nx; x++ {
			p.Positions = append(p.Positions, gm.V3(
				sizeX*(float32(x)/float32(nx)-0.5),
				sizeY*(float32(y)/float32(ny)-0.5),
				0,
			))
		}
	}
	for y := 0; y < ny; y++ {
		for x := 0; x < nx; x++ {
			a := y*(nx+1) + x
			p.Quads = append(p.Quads, [4]int{a, a + 1, a + nx + 2, a + nx + 1})
			p.FaceSets = append(p.FaceSets, DefaultFaceSet)
		}
	}
	return p
}

// Translate returns a copy of p moved by offset.
func (p QuadPatch) Translate(offset gm.Vec3) QuadPatch {
	out := QuadPatch{
		Positions: make([]gm.Vec3, len(p.Positions)),
		Quads:     append([][4]int(nil), p.Quads...),
		FaceSets:  append([]int(nil), p.FaceSets...),
	}
	for i, co := range p.Positions {
		out.Positions[i] = co.Add(offset)
	}
	return out
}

// Merge appends other as a disconnected island.
func (p QuadPatch) Merge(other QuadPatch) QuadPatch {
	out := QuadPatch{
		Positions: append(append([]gm.Vec3(nil), p.Positions...), other.Positions...),
		Quads:     append([][4]int(nil), p.Quads...),
		FaceSets:  append(append([]int(nil), p.faceSets()...), other.faceSets()...),
	}
	base := len(p.Positions)
	for _, q := range other.Quads {
		out.Quads = append(out.Quads, [4]int{q[0] + base, q[1] + base, q[2] + base, q[3] + base})
	}
	return out
}

func (p QuadPatch) faceSets() []int {
	if len(p.FaceSets) == len(p.Quads) {
		return p.FaceSets
	}
	fs := make([]int, len(p.Quads))
	for i := range fs {
		fs[i] = DefaultFaceSet
	}
	return fs
}

// Subdivide returns the patch the Grids of the given level describe: one
// vertex per coincident group, in group order, one quad per grid cell.
func (p QuadPatch) Subdivide(level int) (QuadPatch, error) {
	g, err := p.Grids(level)
	if err != nil {
		return QuadPatch{}, err
	}
	out := QuadPatch{Positions: make([]gm.Vec3, g.GroupCount())}
	for e := 0; e < g.VertexCount(); e++ {
		out.Positions[g.Group(e)] = g.Position(e)
	}
	n := g.GridSize()
	for grid := 0; grid < g.GridCount(); grid++ {
		for y := 0; y < n-1; y++ {
			for x := 0; x < n-1; x++ {
				out.Quads = append(out.Quads, [4]int{
					g.Group(g.Element(grid, x, y)),
					g.Group(g.Element(grid, x+1, y)),
					g.Group(g.Element(grid, x+1, y+1)),
					g.Group(g.Element(grid, x, y+1)),
				})
				out.FaceSets = append(out.FaceSets, g.faceSets[grid])
			}
		}
	}
	return out, nil
}

func (p QuadPatch) polygons() [][]int {
	faces := make([][]int, len(p.Quads))
	for i, q := range p.Quads {
		faces[i] = q[:]
	}
	return faces
}

func (p QuadPatch) clonePositions() []gm.Vec3 {
	return append([]gm.Vec3(nil), p.Positions...)
}

// Mesh builds an indexed mesh of the patch.
func (p QuadPatch) Mesh() (*Mesh, error) {
	m, err := NewMesh(p.clonePositions(), p.polygons())
	if err != nil {
		return nil, err
	}
	for f, fs := range p.faceSets() {
		if err := m.SetFaceSet(f, fs); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Grids builds a multiresolution surface with one grid per quad.
func (p QuadPatch) Grids(level int) (*Grids, error) {
	g, err := NewGridsFromQuads(p.Positions, p.Quads, level)
	if err != nil {
		return nil, err
	}
	for q, fs := range p.faceSets() {
		if err := g.SetFaceSet(q, fs); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// DynMesh builds a dynamic mesh of the patch.
func (p QuadPatch) DynMesh() (*DynMesh, error) {
	d, err := NewDynMesh(p.Positions, p.polygons())
	if err != nil {
		return nil, err
	}
	for f, fs := range p.faceSets() {
		if err := d.SetFaceSet(f, fs); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// Build builds the representation named by kind. Grids use level; other
// kinds ignore it.
func (p QuadPatch) Build(kind Kind, level int) (Surface, error) {
	var (
		s   Surface
		err error
	)
	switch kind {
	case KindMesh:
		s, err = p.Mesh()
	case KindGrids:
		s, err = p.Grids(level)
	case KindDynamic:
		s, err = p.DynMesh()
	default:
		return nil, fmt.Errorf("surface kind %d: %w", kind, ErrUnknownKind)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// ParseKind parses "mesh", "grids" or "dyn".
func ParseKind(s string) (Kind, error) {
	switch s {
	case "mesh":
		return KindMesh, nil
	case "grids":
		return KindGrids, nil
	case "dyn", "dynamic":
		return KindDynamic, nil
	default:
		return 0, fmt.Errorf("surface kind %q: %w", s, ErrUnknownKind)
	}
}
