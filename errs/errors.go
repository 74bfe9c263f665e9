// Package errs defines the sentinel errors shared by the brickvol packages.
//
// All exported errors can be matched with errors.Is after being wrapped with
// additional context via fmt.Errorf("%w: ...").
package errs

import "errors"

// Grid construction and access errors.
var (
	// ErrDegenerateDomain indicates the domain minimum is not strictly below
	// the domain maximum on every axis when aspect-ratio matching was requested.
	ErrDegenerateDomain = errors.New("degenerate domain bounds")

	// ErrInvalidPointCount indicates a per-axis point count of zero or less.
	ErrInvalidPointCount = errors.New("invalid grid point count")

	// ErrInvalidElementCount indicates a non-positive target element count.
	ErrInvalidElementCount = errors.New("invalid target element count")

	// ErrAlreadyInitialized indicates Init was called on a grid whose backing
	// store is already allocated.
	ErrAlreadyInitialized = errors.New("grid already initialized")

	// ErrNotInitialized indicates element access on a grid before Init.
	ErrNotInitialized = errors.New("grid not initialized")

	// ErrInvalidDecimationFactor indicates a decimation factor below 1.
	ErrInvalidDecimationFactor = errors.New("invalid decimation factor")

	// ErrOffsetOutOfRange indicates a flattened offset outside [0, Size()).
	ErrOffsetOutOfRange = errors.New("offset out of range")
)

// Volumetric byte encoder errors.
var (
	// ErrUnsupportedChannelCount indicates an element type whose channel count
	// has no brick-of-bytes layout (only 1- and 3-channel fields are encodable).
	ErrUnsupportedChannelCount = errors.New("unsupported channel count")

	// ErrEmptyGrid indicates an attempt to encode a grid with no elements.
	ErrEmptyGrid = errors.New("empty grid")

	// ErrSinkFailure indicates an output file could not be written. The encode
	// call it aborts is all-or-nothing: no manifest entry is appended and any
	// channel files already flushed are removed.
	ErrSinkFailure = errors.New("sink write failure")

	// ErrInvalidVolumeDir indicates an empty volume subdirectory option.
	ErrInvalidVolumeDir = errors.New("invalid volume directory")
)

// Snapshot format errors.
var (
	// ErrInvalidHeaderSize indicates snapshot header bytes of the wrong length.
	ErrInvalidHeaderSize = errors.New("invalid snapshot header size")

	// ErrInvalidMagicNumber indicates the snapshot flag word does not carry the
	// brickvol magic number.
	ErrInvalidMagicNumber = errors.New("invalid magic number")

	// ErrInvalidFieldKind indicates an unknown field kind in a snapshot header.
	ErrInvalidFieldKind = errors.New("invalid field kind")

	// ErrFieldKindMismatch indicates the element type requested by the reader
	// does not match the field kind recorded in the snapshot header.
	ErrFieldKindMismatch = errors.New("field kind mismatch")

	// ErrInvalidCompression indicates an unknown compression type.
	ErrInvalidCompression = errors.New("invalid compression type")

	// ErrChecksumMismatch indicates the payload checksum does not match the
	// header; the snapshot is corrupt.
	ErrChecksumMismatch = errors.New("payload checksum mismatch")

	// ErrTruncatedPayload indicates the payload is shorter than the header
	// promises.
	ErrTruncatedPayload = errors.New("truncated snapshot payload")
)
