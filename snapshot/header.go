package snapshot

import (
	"encoding/binary"
	"fmt"

	"github.com/vgrid/brickvol/endian"
	"github.com/vgrid/brickvol/errs"
	"github.com/vgrid/brickvol/format"
	"github.com/vgrid/brickvol/grid"
)

// HeaderSize is the fixed byte length of a snapshot header.
const HeaderSize = 48

const (
	// MagicNumber identifies a snapshot stream.
	MagicNumber uint16 = 0xB1C4
	// Version is the current header layout version.
	Version = 1
)

// Flag word layout. The flag word itself is always little-endian so readers
// can parse it before knowing the payload byte order.
const (
	flagMagicMask uint32 = 0x0000FFFF

	flagVersionShift = 16
	flagVersionMask  uint32 = 0xF << flagVersionShift

	flagLittleEndian uint32 = 1 << 20

	flagKindShift = 21
	flagKindMask  uint32 = 0xF << flagKindShift

	flagCompressionShift = 25
	flagCompressionMask  uint32 = 0xF << flagCompressionShift
)

// Header describes a snapshot stream: the grid shape and bounds, how the
// payload is laid out, and its integrity checksum.
type Header struct {
	Kind         format.FieldKind
	Compression  format.CompressionType
	LittleEndian bool
	NumPoints    [3]uint32
	DomainMin    grid.Vec3
	DomainMax    grid.Vec3
	// Checksum is the xxHash64 of the uncompressed payload.
	Checksum uint64
}

// engine returns the byte order engine the payload was written with.
func (h *Header) engine() endian.EndianEngine {
	if h.LittleEndian {
		return endian.GetLittleEndianEngine()
	}

	return endian.GetBigEndianEngine()
}

// encode serializes the header into a fresh HeaderSize byte slice.
func (h *Header) encode() []byte {
	flags := uint32(MagicNumber)
	flags |= uint32(Version) << flagVersionShift
	if h.LittleEndian {
		flags |= flagLittleEndian
	}
	flags |= uint32(h.Kind) << flagKindShift
	flags |= uint32(h.Compression) << flagCompressionShift

	buf := make([]byte, HeaderSize)
	binary.LittleEndian.PutUint32(buf[0:4], flags)

	eng := h.engine()
	for i, n := range h.NumPoints {
		eng.PutUint32(buf[4+4*i:], n)
	}
	putVec3(eng, buf[16:], h.DomainMin)
	putVec3(eng, buf[28:], h.DomainMax)
	eng.PutUint64(buf[40:48], h.Checksum)

	return buf
}

// decodeHeader parses and validates a HeaderSize byte slice.
func decodeHeader(buf []byte) (Header, error) {
	var h Header
	if len(buf) != HeaderSize {
		return h, fmt.Errorf("%w: got %d bytes, want %d", errs.ErrInvalidHeaderSize, len(buf), HeaderSize)
	}

	flags := binary.LittleEndian.Uint32(buf[0:4])
	if uint16(flags&flagMagicMask) != MagicNumber {
		return h, fmt.Errorf("%w: 0x%04X", errs.ErrInvalidMagicNumber, flags&flagMagicMask)
	}
	if v := (flags & flagVersionMask) >> flagVersionShift; v != Version {
		return h, fmt.Errorf("%w: unsupported version %d", errs.ErrInvalidHeaderSize, v)
	}

	h.LittleEndian = flags&flagLittleEndian != 0
	h.Kind = format.FieldKind((flags & flagKindMask) >> flagKindShift)
	h.Compression = format.CompressionType((flags & flagCompressionMask) >> flagCompressionShift)

	if !h.Kind.IsValid() {
		return h, fmt.Errorf("%w: 0x%X", errs.ErrInvalidFieldKind, uint8(h.Kind))
	}
	if !h.Compression.IsValid() {
		return h, fmt.Errorf("%w: 0x%X", errs.ErrInvalidCompression, uint8(h.Compression))
	}

	eng := h.engine()
	for i := range h.NumPoints {
		h.NumPoints[i] = eng.Uint32(buf[4+4*i:])
	}
	h.DomainMin = getVec3(eng, buf[16:])
	h.DomainMax = getVec3(eng, buf[28:])
	h.Checksum = eng.Uint64(buf[40:48])

	return h, nil
}

func putVec3(eng endian.EndianEngine, buf []byte, v grid.Vec3) {
	eng.PutUint32(buf[0:], float32bits(v.X))
	eng.PutUint32(buf[4:], float32bits(v.Y))
	eng.PutUint32(buf[8:], float32bits(v.Z))
}

func getVec3(eng endian.EndianEngine, buf []byte) grid.Vec3 {
	return grid.Vec3{
		X: float32frombits(eng.Uint32(buf[0:])),
		Y: float32frombits(eng.Uint32(buf[4:])),
		Z: float32frombits(eng.Uint32(buf[8:])),
	}
}
