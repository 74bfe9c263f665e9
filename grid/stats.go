package grid

import "math"

// Stats holds per-channel minimum and maximum values of a grid's contents.
// Min and Max have one entry per channel of the element type.
type Stats struct {
	Min []float32
	Max []float32
}

// ComputeStats scans every element of the grid exactly once and reduces each
// channel independently to its minimum and maximum, starting from +Inf/-Inf
// sentinels. The scan runs in canonical order (x fastest, then y, then z) so
// running reductions are reproducible bit for bit across runs, though min/max
// is order-independent.
//
// Cost is O(Size()) with no auxiliary storage beyond the two accumulators.
func ComputeStats[T Field](g *Grid[T]) Stats {
	var zero T
	nc := zero.Channels()

	s := Stats{
		Min: make([]float32, nc),
		Max: make([]float32, nc),
	}
	for c := 0; c < nc; c++ {
		s.Min[c] = float32(math.Inf(1))
		s.Max[c] = float32(math.Inf(-1))
	}

	dims := [3]int{g.NumPoints(0), g.NumPoints(1), g.NumPoints(2)}
	numXY := dims[0] * dims[1]

	for iz := 0; iz < dims[2]; iz++ {
		offsetZ := numXY * iz
		for iy := 0; iy < dims[1]; iy++ {
			offsetYZ := dims[0]*iy + offsetZ
			for ix := 0; ix < dims[0]; ix++ {
				el := *g.At(ix + offsetYZ)
				for c := 0; c < nc; c++ {
					v := el.Channel(c)
					if v < s.Min[c] {
						s.Min[c] = v
					}
					if v > s.Max[c] {
						s.Max[c] = v
					}
				}
			}
		}
	}

	return s
}

// PositionBounds reduces the positions of a particle grid to their
// componentwise bounds. The bounds are informational (diagnostics, debug
// draws); encoding never consumes them.
func PositionBounds[T interface {
	Field
	Positioned
}](g *Grid[T]) (minPos, maxPos Vec3) {
	inf := float32(math.Inf(1))
	minPos = Vec3{inf, inf, inf}
	maxPos = minPos.Neg()

	for _, el := range g.Contents() {
		p := el.Pos()
		minPos = minPos.Min(p)
		maxPos = maxPos.Max(p)
	}

	return minPos, maxPos
}
