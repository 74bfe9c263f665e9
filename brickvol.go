// Package brickvol provides a uniform 3D grid spatial index for particle and
// field data, per-channel statistics, and a brick-of-bytes volumetric encoder
// for external visualization.
//
// It grew out of a vortex-particle fluid simulation: the simulation scatters
// vortons (vortex particles) and derived fields onto uniform grids, and each
// animation frame the grids are quantized into per-channel byte volumes that
// a volumetric viewer loads through a .ogle script manifest.
//
// # Core Features
//
//   - Uniform grid over an axis-aligned box with O(1) position/index/offset
//     transforms and a canonical x-fastest scan order
//   - Generic element types (Scalar, Vec3, Mat33, Vorton) behind small
//     capability interfaces
//   - Single-pass per-channel min/max statistics
//   - Geometry decimation for reduced-resolution output grids
//   - Brick-of-bytes encoding: one byte per grid point per channel, with a
//     derived magnitude channel for vector fields
//   - Lossless binary grid snapshots with optional compression (None, Zstd,
//     S2, LZ4) and xxHash64 payload checksums
//
// # Basic Usage
//
// Building a grid over a particle set and encoding it:
//
//	import "github.com/vgrid/brickvol"
//
//	// A grid sized to hold roughly one vorton per cell.
//	geom, _ := brickvol.NewGeometry(len(vortons), min, max, true)
//	g := brickvol.NewGrid[brickvol.Vorton](geom)
//	for _, v := range vortons {
//	    *g.AtPosition(v.Position) = v
//	}
//
//	// Byte volumes plus a .ogle manifest entry under outDir/Vols/.
//	enc, _ := brickvol.NewEncoder(brickvol.NewDirSink(outDir))
//	res, _ := brickvol.EncodeFrame(enc, g, "vorticity", frame)
//
// Saving and restoring the grid losslessly:
//
//	_ = brickvol.SaveGrid(w, g, snapshot.WithCompression(format.CompressionZstd))
//	g2, _ := brickvol.LoadGrid[brickvol.Vorton](r)
//
// # Package Structure
//
// This package re-exports the common entry points of the grid, vol, and
// snapshot packages. Use those packages directly for fine-grained control.
package brickvol

import (
	"io"

	"github.com/vgrid/brickvol/grid"
	"github.com/vgrid/brickvol/snapshot"
	"github.com/vgrid/brickvol/vol"
)

// Element types and geometry, re-exported from package grid.
type (
	Vec3     = grid.Vec3
	Scalar   = grid.Scalar
	Mat33    = grid.Mat33
	Vorton   = grid.Vorton
	Geometry = grid.Geometry
	Stats    = grid.Stats
)

// NewGeometry computes a grid shape covering [domainMin, domainMax] sized for
// approximately numElements grid points. See grid.NewGeometry.
func NewGeometry(numElements int, domainMin, domainMax Vec3, matchAspect bool) (Geometry, error) {
	return grid.NewGeometry(numElements, domainMin, domainMax, matchAspect)
}

// NewGrid allocates a grid of T over geom. See grid.NewGrid.
func NewGrid[T grid.Field](geom Geometry) *grid.Grid[T] {
	return grid.NewGrid[T](geom)
}

// ComputeStats computes per-channel min/max over g in one pass.
func ComputeStats[T grid.Field](g *grid.Grid[T]) Stats {
	return grid.ComputeStats(g)
}

// NewDirSink returns a vol.Sink writing beneath dir.
func NewDirSink(dir string) *vol.DirSink {
	return vol.NewDirSink(dir)
}

// NewEncoder creates a brick-of-bytes encoder writing through sink. See
// vol.NewEncoder for the available options.
func NewEncoder(sink vol.Sink, opts ...vol.EncoderOption) (*vol.Encoder, error) {
	return vol.NewEncoder(sink, opts...)
}

// EncodeFrame encodes every channel of g as byte volumes for one animation
// frame and appends the frame's manifest entry. See vol.Encode.
func EncodeFrame[T grid.Field](enc *vol.Encoder, g *grid.Grid[T], base string, frame uint32) (*vol.Result, error) {
	return vol.Encode(enc, g, base, frame)
}

// SaveGrid writes a lossless snapshot of g to w. See snapshot.Write for the
// available options.
func SaveGrid[T snapshot.Element](w io.Writer, g *grid.Grid[T], opts ...snapshot.Option) error {
	return snapshot.Write(w, g, opts...)
}

// LoadGrid reads a snapshot written by SaveGrid into a fresh grid of T.
func LoadGrid[T snapshot.Element, PT grid.ComponentPtr[T]](r io.Reader) (*grid.Grid[T], error) {
	return snapshot.Read[T, PT](r)
}
