package main

import (
	"bufio"
	"fmt"
	"io"

	"github.com/Faultbox/posebrush/internal/surface"
)

// WriteOBJ writes the positions and polygons of s as Wavefront OBJ. Grid
// seam duplicates stay separate vertices.
func WriteOBJ(w io.Writer, s surface.Surface) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# posebrush %s, %d vertices\n", s.Kind(), s.VertexCount())
	for v := range s.VertexCount() {
		co := s.Position(v)
		fmt.Fprintf(bw, "v %g %g %g\n", co.X, co.Y, co.Z)
	}
	for corners := range surface.Faces(s) {
		bw.WriteString("f")
		for _, v := range corners {
			fmt.Fprintf(bw, " %d", v+1)
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
