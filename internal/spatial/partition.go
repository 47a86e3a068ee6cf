// Package spatial provides the spatial partition tree that batches elements
// into independent leaf nodes, nearest-point queries and the fake-neighbor
// table bridging disconnected islands.
package spatial

import (
	"cmp"
	"slices"

	"github.com/Faultbox/posebrush/pkg/math"
)

// DefaultLeafSize is the maximum number of elements per leaf.
const DefaultLeafSize = 128

// Partition splits items into spatially coherent leaves of at most leafSize
// elements by recursive median splits along the longest bounding box axis of
// the item centers. Every item ends up in exactly one leaf.
func Partition(items []int, center func(item int) math.Vec3, leafSize int) [][]int {
	if leafSize <= 0 {
		leafSize = DefaultLeafSize
	}
	if len(items) == 0 {
		return nil
	}
	work := slices.Clone(items)
	centers := make(map[int]math.Vec3, len(work))
	for _, it := range work {
		centers[it] = center(it)
	}

	var leaves [][]int
	var split func(part []int)
	split = func(part []int) {
		if len(part) <= leafSize {
			leaves = append(leaves, part)
			return
		}
		lo, hi := bounds(part, centers)
		ext := hi.Sub(lo)
		axis := 0
		if ext.Y > ext.X && ext.Y >= ext.Z {
			axis = 1
		} else if ext.Z > ext.X && ext.Z > ext.Y {
			axis = 2
		}
		slices.SortFunc(part, func(a, b int) int {
			return cmp.Or(
				cmp.Compare(centers[a].Component(axis), centers[b].Component(axis)),
				cmp.Compare(a, b),
			)
		})
		mid := len(part) / 2
		split(part[:mid:mid])
		split(part[mid:])
	}
	split(work)
	return leaves
}

func bounds(part []int, centers map[int]math.Vec3) (lo, hi math.Vec3) {
	lo = math.Splat(float32(1e30))
	hi = math.Splat(float32(-1e30))
	for _, it := range part {
		c := centers[it]
		lo = math.V3(min(lo.X, c.X), min(lo.Y, c.Y), min(lo.Z, c.Z))
		hi = math.V3(max(hi.X, c.X), max(hi.Y, c.Y), max(hi.Z, c.Z))
	}
	return lo, hi
}
