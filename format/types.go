package format

type (
	FieldKind       uint8
	CompressionType uint8
)

const (
	KindScalar FieldKind = 0x1 // KindScalar is a single float32 per grid point.
	KindVector FieldKind = 0x2 // KindVector is a 3-vector per grid point.
	KindMatrix FieldKind = 0x3 // KindMatrix is a row-major 3x3 matrix per grid point.
	KindVorton FieldKind = 0x4 // KindVorton is a vortex particle record (position + vorticity).

	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
)

// Components returns the number of float32 storage components per element of
// the kind. Zero for unknown kinds.
func (k FieldKind) Components() int {
	switch k {
	case KindScalar:
		return 1
	case KindVector:
		return 3
	case KindMatrix:
		return 9
	case KindVorton:
		return 6
	default:
		return 0
	}
}

// IsValid reports whether k is a known field kind.
func (k FieldKind) IsValid() bool {
	return k.Components() != 0
}

// KindForComponents maps a per-element storage component count back to its
// field kind. Zero (an invalid kind) for counts no kind uses.
func KindForComponents(n int) FieldKind {
	switch n {
	case 1:
		return KindScalar
	case 3:
		return KindVector
	case 9:
		return KindMatrix
	case 6:
		return KindVorton
	default:
		return 0
	}
}

func (k FieldKind) String() string {
	switch k {
	case KindScalar:
		return "Scalar"
	case KindVector:
		return "Vector"
	case KindMatrix:
		return "Matrix"
	case KindVorton:
		return "Vorton"
	default:
		return "Unknown"
	}
}

// IsValid reports whether c is a known compression type.
func (c CompressionType) IsValid() bool {
	return c >= CompressionNone && c <= CompressionLZ4
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}
