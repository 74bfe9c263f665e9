// Package grid implements the uniform grid spatial index for particle-based
// fluid simulation: a fixed-resolution 3-D lattice of field samples addressed
// interchangeably by world-space position, 3-index, or flattened offset.
//
// The container is generic over its element type. Scalar, Vec3, Mat33 and
// Vorton all satisfy the Field capability interface, so statistics reduction
// and downstream byte encoding are written once instead of per element type.
//
// # Basic Usage
//
//	geom, err := grid.NewGeometry(4096, domainMin, domainMax, true)
//	if err != nil {
//	    return err
//	}
//	g := grid.NewGrid[grid.Vec3](geom)
//	for _, p := range particles {
//	    *g.AtPosition(p.Position) = p.Velocity
//	}
//	stats := grid.ComputeStats(g)
//
// Grids are not safe for concurrent mutation; the backing store is
// exclusively owned by whichever frame or context holds the grid.
package grid

import (
	"fmt"

	"github.com/vgrid/brickvol/errs"
)

// Grid is a uniform lattice of T over a Geometry. The backing store is a
// single flattened slice in canonical scan order (x fastest, then y, then z);
// all three accessors resolve into the same slice, so mutation through any of
// them is visible through the others.
type Grid[T Field] struct {
	Geometry
	contents []T
}

// NewGrid creates a grid over the given geometry with its backing store
// allocated and zeroed.
func NewGrid[T Field](geom Geometry) *Grid[T] {
	g := &Grid[T]{Geometry: geom}
	g.contents = make([]T, geom.Size())

	return g
}

// NewGridShape creates a grid over the given geometry without allocating the
// backing store. Init must be called before element access. The split mirrors
// the construct-then-populate lifecycle of per-frame grids, where shape
// decisions (decimation, aspect matching) happen before memory is committed.
func NewGridShape[T Field](geom Geometry) *Grid[T] {
	return &Grid[T]{Geometry: geom}
}

// Init allocates the backing store sized to the point-count product. Calling
// Init on an already-initialized grid is an error; resize by constructing a
// new grid instead.
func (g *Grid[T]) Init() error {
	if g.contents != nil {
		return fmt.Errorf("%w: %d elements", errs.ErrAlreadyInitialized, len(g.contents))
	}
	g.contents = make([]T, g.Size())

	return nil
}

// Initialized reports whether the backing store has been allocated.
func (g *Grid[T]) Initialized() bool { return g.contents != nil }

// Capacity returns the allocated element count. Zero before Init.
func (g *Grid[T]) Capacity() int { return len(g.contents) }

// At returns a pointer to the element at the given flattened offset.
// Panics on an uninitialized grid or an out-of-range offset; offsets come
// from the grid's own transforms and an invalid one is a programming error,
// not an input condition.
func (g *Grid[T]) At(offset int) *T {
	if g.contents == nil {
		panic("grid: element access before Init")
	}

	return &g.contents[offset]
}

// AtIndices returns a pointer to the element at the given 3-index, resolved
// through the canonical linearization.
func (g *Grid[T]) AtIndices(ix, iy, iz int) *T {
	return g.At(g.OffsetOfIndices(ix, iy, iz))
}

// AtPosition returns a pointer to the element of the cell containing the
// given world-space position. For any position inside a cell, AtPosition,
// AtIndices of that cell, and At of its offset denote the same storage slot.
func (g *Grid[T]) AtPosition(pos Vec3) *T {
	return g.At(g.OffsetOfPosition(pos))
}

// Contents returns the backing store in canonical scan order. The slice
// aliases grid storage; it is not a copy.
func (g *Grid[T]) Contents() []T { return g.contents }

// Decimated builds a new, coarser grid from src by an integer reduction
// factor: same domain bounds, per-axis cell counts floor-divided by factor.
// The result is uninitialized and holds no resampled values; populating it is
// the caller's concern (typically by re-running the simulation fill at the
// lower resolution).
func Decimated[T Field](src *Grid[T], factor int) (*Grid[T], error) {
	geom, err := src.Geometry.Decimated(factor)
	if err != nil {
		return nil, err
	}

	return NewGridShape[T](geom), nil
}
