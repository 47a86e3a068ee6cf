package surface

import "iter"

// Faces yields the corners of every live polygon of s. Grid surfaces yield
// one quad per grid cell over element indices. The yielded slice is only
// valid until the next iteration.
func Faces(s Surface) iter.Seq[[]int] {
	return func(yield func([]int) bool) {
		switch s := s.(type) {
		case *Mesh:
			for f := range s.FaceCount() {
				if !yield(s.Face(f)) {
					return
				}
			}
		case *DynMesh:
			for f := range s.FaceCount() {
				if !s.FaceRemoved(f) && !yield(s.Face(f)) {
					return
				}
			}
		case *Grids:
			n := s.GridSize()
			var quad [4]int
			for g := range s.GridCount() {
				for y := 0; y < n-1; y++ {
					for x := 0; x < n-1; x++ {
						quad = [4]int{s.Element(g, x, y), s.Element(g, x+1, y), s.Element(g, x+1, y+1), s.Element(g, x, y+1)}
						if !yield(quad[:]) {
							return
						}
					}
				}
			}
		}
	}
}
