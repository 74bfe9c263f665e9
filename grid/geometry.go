package grid

import (
	"fmt"
	"math"

	"github.com/vgrid/brickvol/errs"
)

// nominalSpacing substitutes for cell spacing on a collapsed axis (a single
// layer of points) so index arithmetic never divides by zero.
const nominalSpacing float32 = 1

// Geometry describes the shape of a uniform grid: per-axis point counts, the
// world-space corners of the domain, and the derived cell spacing.
//
// A grid with N points along an axis has N-1 cells along that axis. An axis
// may collapse to a single layer (one point, zero cells); such an axis uses a
// nominal spacing of 1.
type Geometry struct {
	numPoints   [3]int
	domainMin   Vec3
	domainMax   Vec3
	cellSpacing Vec3
}

// NewGeometry computes a grid shape covering [domainMin, domainMax] with
// approximately numElements grid points in total.
//
// With matchAspect set, per-axis cell counts are chosen so cell spacing is
// equal on all axes: cells are near-cubes and the counts follow the domain's
// aspect ratio. The domain must then be non-degenerate (strictly positive
// extent on every axis). Without matchAspect, each axis receives the same
// point count (the cube root of numElements) and spacing varies per axis.
func NewGeometry(numElements int, domainMin, domainMax Vec3, matchAspect bool) (Geometry, error) {
	if numElements <= 0 {
		return Geometry{}, fmt.Errorf("%w: %d", errs.ErrInvalidElementCount, numElements)
	}

	extent := domainMax.Sub(domainMin)
	var numPoints [3]int

	if matchAspect {
		for axis := 0; axis < 3; axis++ {
			if extent.Axis(axis) <= 0 {
				return Geometry{}, fmt.Errorf("%w: axis %d has extent %g",
					errs.ErrDegenerateDomain, axis, extent.Axis(axis))
			}
		}

		// Choose a common cell side so that the cells tile the domain volume
		// into approximately numElements near-cubes.
		volume := float64(extent.X) * float64(extent.Y) * float64(extent.Z)
		cellSide := math.Cbrt(volume / float64(numElements))

		for axis := 0; axis < 3; axis++ {
			cells := int(math.Round(float64(extent.Axis(axis)) / cellSide))
			if cells < 1 {
				cells = 1
			}
			numPoints[axis] = cells + 1
		}
	} else {
		pointsPerAxis := int(math.Round(math.Cbrt(float64(numElements))))
		if pointsPerAxis < 2 {
			pointsPerAxis = 2
		}
		for axis := 0; axis < 3; axis++ {
			numPoints[axis] = pointsPerAxis
		}
	}

	return newGeometryChecked(numPoints, domainMin, domainMax)
}

// NewGeometryFromPoints builds a grid shape with explicit per-axis point
// counts. Counts must be at least 1; a count of 1 collapses the axis to a
// single layer. An axis with two or more points must have strictly positive
// extent.
func NewGeometryFromPoints(numPoints [3]int, domainMin, domainMax Vec3) (Geometry, error) {
	for axis := 0; axis < 3; axis++ {
		if numPoints[axis] < 1 {
			return Geometry{}, fmt.Errorf("%w: axis %d has %d points",
				errs.ErrInvalidPointCount, axis, numPoints[axis])
		}
	}

	return newGeometryChecked(numPoints, domainMin, domainMax)
}

func newGeometryChecked(numPoints [3]int, domainMin, domainMax Vec3) (Geometry, error) {
	extent := domainMax.Sub(domainMin)
	for axis := 0; axis < 3; axis++ {
		if numPoints[axis] > 1 && extent.Axis(axis) <= 0 {
			return Geometry{}, fmt.Errorf("%w: axis %d has %d points over extent %g",
				errs.ErrDegenerateDomain, axis, numPoints[axis], extent.Axis(axis))
		}
	}

	g := Geometry{
		numPoints: numPoints,
		domainMin: domainMin,
		domainMax: domainMax,
	}
	g.precomputeSpacing()

	return g, nil
}

// precomputeSpacing derives cellSpacing from the domain extent and cell
// counts. Collapsed axes receive the nominal spacing.
func (g *Geometry) precomputeSpacing() {
	extent := g.Extent()
	var spacing [3]float32
	for axis := 0; axis < 3; axis++ {
		cells := g.numPoints[axis] - 1
		if cells < 1 {
			spacing[axis] = nominalSpacing
			continue
		}
		spacing[axis] = extent.Axis(axis) / float32(cells)
	}
	g.cellSpacing = Vec3{spacing[0], spacing[1], spacing[2]}
}

// Decimated returns a coarser geometry over the same domain bounds whose
// per-axis cell count is the floor of the source's divided by factor. Cell
// spacing is re-derived from the unchanged bounds, so the coarse grid covers
// the full domain at reduced resolution. Contents are not resampled; the
// result describes geometry only.
func (g Geometry) Decimated(factor int) (Geometry, error) {
	if factor < 1 {
		return Geometry{}, fmt.Errorf("%w: %d", errs.ErrInvalidDecimationFactor, factor)
	}

	var numPoints [3]int
	for axis := 0; axis < 3; axis++ {
		numPoints[axis] = g.NumCells(axis)/factor + 1
	}

	d := Geometry{
		numPoints: numPoints,
		domainMin: g.domainMin,
		domainMax: g.domainMax,
	}
	d.precomputeSpacing()

	return d, nil
}

// NumPoints returns the number of grid points along the given axis.
func (g *Geometry) NumPoints(axis int) int { return g.numPoints[axis] }

// NumCells returns the number of cells along the given axis: NumPoints-1,
// or zero for a collapsed axis.
func (g *Geometry) NumCells(axis int) int {
	if g.numPoints[axis] < 1 {
		return 0
	}
	return g.numPoints[axis] - 1
}

// Size returns the total number of grid points.
func (g *Geometry) Size() int {
	return g.numPoints[0] * g.numPoints[1] * g.numPoints[2]
}

// DomainMin returns the minimal corner of the domain.
func (g *Geometry) DomainMin() Vec3 { return g.domainMin }

// DomainMax returns the maximal corner of the domain.
func (g *Geometry) DomainMax() Vec3 { return g.domainMax }

// Extent returns domainMax - domainMin.
func (g *Geometry) Extent() Vec3 { return g.domainMax.Sub(g.domainMin) }

// CellSpacing returns the per-axis cell size.
func (g *Geometry) CellSpacing() Vec3 { return g.cellSpacing }

// IndicesOfPosition maps a world-space position to the indices of the cell
// containing it. Each index is the floor of the position's offset from the
// domain minimum divided by the cell spacing, clamped to the valid range so
// a position exactly on the domain maximum resolves to the last index.
func (g *Geometry) IndicesOfPosition(pos Vec3) (ix, iy, iz int) {
	rel := pos.Sub(g.domainMin)
	var idx [3]int
	for axis := 0; axis < 3; axis++ {
		i := int(math.Floor(float64(rel.Axis(axis) / g.cellSpacing.Axis(axis))))
		if i < 0 {
			i = 0
		}
		if last := g.numPoints[axis] - 1; i > last {
			i = last
		}
		idx[axis] = i
	}

	return idx[0], idx[1], idx[2]
}

// OffsetOfIndices flattens 3-indices into the canonical linear offset
// ix + nx*(iy + ny*iz). Every accessor uses this single linearization.
func (g *Geometry) OffsetOfIndices(ix, iy, iz int) int {
	return ix + g.numPoints[0]*(iy+g.numPoints[1]*iz)
}

// OffsetOfPosition composes IndicesOfPosition with the canonical
// linearization.
func (g *Geometry) OffsetOfPosition(pos Vec3) int {
	ix, iy, iz := g.IndicesOfPosition(pos)
	return g.OffsetOfIndices(ix, iy, iz)
}

// IndicesFromOffset inverts the canonical linearization.
func (g *Geometry) IndicesFromOffset(offset int) (ix, iy, iz int) {
	nx, ny := g.numPoints[0], g.numPoints[1]
	ix = offset % nx
	iy = (offset / nx) % ny
	iz = offset / (nx * ny)

	return ix, iy, iz
}

// PositionFromIndices returns the minimal corner of the cell at the given
// indices: domainMin + indices * cellSpacing.
func (g *Geometry) PositionFromIndices(ix, iy, iz int) Vec3 {
	return Vec3{
		g.domainMin.X + float32(ix)*g.cellSpacing.X,
		g.domainMin.Y + float32(iy)*g.cellSpacing.Y,
		g.domainMin.Z + float32(iz)*g.cellSpacing.Z,
	}
}

// PositionFromOffset returns the minimal corner of the cell at the given
// flattened offset. For any position p strictly inside a cell,
// PositionFromOffset(OffsetOfPosition(p)) recovers that cell's minimal
// corner, not p itself.
func (g *Geometry) PositionFromOffset(offset int) Vec3 {
	ix, iy, iz := g.IndicesFromOffset(offset)
	return g.PositionFromIndices(ix, iy, iz)
}
