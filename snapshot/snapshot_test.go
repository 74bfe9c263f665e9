package snapshot

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vgrid/brickvol/errs"
	"github.com/vgrid/brickvol/format"
	"github.com/vgrid/brickvol/grid"
)

func testGeometry(t *testing.T) grid.Geometry {
	t.Helper()
	geom, err := grid.NewGeometryFromPoints([3]int{6, 5, 4},
		grid.Vec3{X: -1, Y: -2, Z: 0}, grid.Vec3{X: 3, Y: 2, Z: 5})
	require.NoError(t, err)

	return geom
}

func requireSameGeometry(t *testing.T, want, got grid.Geometry) {
	t.Helper()
	for axis := 0; axis < 3; axis++ {
		require.Equal(t, want.NumPoints(axis), got.NumPoints(axis))
	}
	require.Equal(t, want.DomainMin(), got.DomainMin())
	require.Equal(t, want.DomainMax(), got.DomainMax())
}

func roundTrip[T Element, PT grid.ComponentPtr[T]](t *testing.T, g *grid.Grid[T], opts ...Option) *grid.Grid[T] {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, g, opts...))

	got, err := Read[T, PT](&buf)
	require.NoError(t, err)
	requireSameGeometry(t, g.Geometry, got.Geometry)
	require.Equal(t, g.Contents(), got.Contents())

	return got
}

func TestRoundTripScalar(t *testing.T) {
	g := grid.NewGrid[grid.Scalar](testGeometry(t))
	rng := rand.New(rand.NewSource(7))
	for off := 0; off < g.Size(); off++ {
		*g.At(off) = grid.Scalar(rng.Float32()*20 - 10)
	}

	for _, compression := range []format.CompressionType{
		format.CompressionNone,
		format.CompressionZstd,
		format.CompressionS2,
		format.CompressionLZ4,
	} {
		t.Run(compression.String(), func(t *testing.T) {
			roundTrip[grid.Scalar](t, g, WithCompression(compression))
		})
	}
}

func TestRoundTripVector(t *testing.T) {
	g := grid.NewGrid[grid.Vec3](testGeometry(t))
	rng := rand.New(rand.NewSource(11))
	for off := 0; off < g.Size(); off++ {
		*g.At(off) = grid.Vec3{X: rng.Float32(), Y: -rng.Float32(), Z: rng.Float32() * 100}
	}

	roundTrip[grid.Vec3](t, g, WithCompression(format.CompressionZstd))
}

func TestRoundTripMatrix(t *testing.T) {
	g := grid.NewGrid[grid.Mat33](testGeometry(t))
	rng := rand.New(rand.NewSource(13))
	for off := 0; off < g.Size(); off++ {
		for i := 0; i < 9; i++ {
			g.At(off)[i] = rng.Float32()
		}
	}

	roundTrip[grid.Mat33](t, g, WithCompression(format.CompressionS2))
}

func TestRoundTripVorton(t *testing.T) {
	g := grid.NewGrid[grid.Vorton](testGeometry(t))
	rng := rand.New(rand.NewSource(17))
	for off := 0; off < g.Size(); off++ {
		*g.At(off) = grid.Vorton{
			Position:  g.PositionFromOffset(off),
			Vorticity: grid.Vec3{X: rng.Float32() * 5, Y: rng.Float32() * 5, Z: rng.Float32() * 5},
		}
	}

	got := roundTrip[grid.Vorton](t, g, WithCompression(format.CompressionLZ4))

	// Both the particle position and its vorticity survive; the lossy vol
	// path would have kept only the vorticity.
	v := got.At(3)
	require.Equal(t, g.At(3).Position, v.Position)
	require.Equal(t, g.At(3).Vorticity, v.Vorticity)
}

func TestInspect(t *testing.T) {
	g := grid.NewGrid[grid.Vec3](testGeometry(t))
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, g, WithCompression(format.CompressionZstd)))

	h, err := Inspect(&buf)
	require.NoError(t, err)
	require.Equal(t, format.KindVector, h.Kind)
	require.Equal(t, format.CompressionZstd, h.Compression)
	require.Equal(t, [3]uint32{6, 5, 4}, h.NumPoints)
	require.Equal(t, grid.Vec3{X: -1, Y: -2, Z: 0}, h.DomainMin)
	require.Equal(t, grid.Vec3{X: 3, Y: 2, Z: 5}, h.DomainMax)
}

func TestWriteUninitialized(t *testing.T) {
	g := grid.NewGridShape[grid.Scalar](testGeometry(t))
	err := Write(&bytes.Buffer{}, g)
	require.ErrorIs(t, err, errs.ErrNotInitialized)
}

func TestWriteInvalidCompression(t *testing.T) {
	g := grid.NewGrid[grid.Scalar](testGeometry(t))
	err := Write(&bytes.Buffer{}, g, WithCompression(format.CompressionType(0x9)))
	require.ErrorIs(t, err, errs.ErrInvalidCompression)
}

func encodeValid(t *testing.T) []byte {
	t.Helper()
	g := grid.NewGrid[grid.Scalar](testGeometry(t))
	for off := 0; off < g.Size(); off++ {
		*g.At(off) = grid.Scalar(off)
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, g))

	return buf.Bytes()
}

func TestReadCorruption(t *testing.T) {
	t.Run("short header", func(t *testing.T) {
		data := encodeValid(t)
		_, err := Read[grid.Scalar](bytes.NewReader(data[:10]))
		require.ErrorIs(t, err, errs.ErrInvalidHeaderSize)
	})

	t.Run("bad magic", func(t *testing.T) {
		data := encodeValid(t)
		data[0] ^= 0xFF
		_, err := Read[grid.Scalar](bytes.NewReader(data))
		require.ErrorIs(t, err, errs.ErrInvalidMagicNumber)
	})

	t.Run("unknown kind", func(t *testing.T) {
		data := encodeValid(t)
		// Force the field kind flag bits to 0xF.
		data[2] |= 0xE0
		data[3] |= 0x01
		_, err := Read[grid.Scalar](bytes.NewReader(data))
		require.ErrorIs(t, err, errs.ErrInvalidFieldKind)
	})

	t.Run("kind mismatch", func(t *testing.T) {
		data := encodeValid(t)
		_, err := Read[grid.Vec3](bytes.NewReader(data))
		require.ErrorIs(t, err, errs.ErrFieldKindMismatch)
	})

	t.Run("flipped payload byte", func(t *testing.T) {
		data := encodeValid(t)
		data[HeaderSize+3] ^= 0x01
		_, err := Read[grid.Scalar](bytes.NewReader(data))
		require.ErrorIs(t, err, errs.ErrChecksumMismatch)
	})

	t.Run("truncated payload", func(t *testing.T) {
		data := encodeValid(t)
		_, err := Read[grid.Scalar](bytes.NewReader(data[:len(data)-8]))
		require.ErrorIs(t, err, errs.ErrTruncatedPayload)
	})
}
