package vol

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vgrid/brickvol/errs"
	"github.com/vgrid/brickvol/grid"
)

// memSink captures encoder output in memory and can be told to fail on a
// specific file name.
type memSink struct {
	files    map[string][]byte
	appended map[string][]string
	removed  []string

	failWrite  string
	failAppend bool
}

func newMemSink() *memSink {
	return &memSink{
		files:    make(map[string][]byte),
		appended: make(map[string][]string),
	}
}

func (s *memSink) WriteFile(name string, data []byte) error {
	if name == s.failWrite {
		return fmt.Errorf("injected write failure")
	}
	s.files[name] = append([]byte(nil), data...)

	return nil
}

func (s *memSink) AppendLines(name string, lines ...string) error {
	if s.failAppend {
		return fmt.Errorf("injected append failure")
	}
	s.appended[name] = append(s.appended[name], lines...)

	return nil
}

func (s *memSink) Remove(name string) error {
	delete(s.files, name)
	s.removed = append(s.removed, name)

	return nil
}

func mustGeometry(t *testing.T, numPoints [3]int, min, max grid.Vec3) grid.Geometry {
	t.Helper()
	geom, err := grid.NewGeometryFromPoints(numPoints, min, max)
	require.NoError(t, err)

	return geom
}

// dequantize inverts the byte mapping to the low edge of the byte's bucket.
func dequantize(b byte, min, max float32) float32 {
	return min + float32(b)/255*(max-min)
}

func TestEncodeScalarRamp(t *testing.T) {
	geom := mustGeometry(t, [3]int{4, 4, 4}, grid.Vec3{}, grid.Vec3{X: 1, Y: 1, Z: 1})
	g := grid.NewGrid[grid.Scalar](geom)
	for off := 0; off < g.Size(); off++ {
		*g.At(off) = grid.Scalar(off)
	}

	sink := newMemSink()
	enc, err := NewEncoder(sink)
	require.NoError(t, err)

	res, err := Encode(enc, g, "density", 7)
	require.NoError(t, err)
	require.Equal(t, []float32{0}, res.Min)
	require.Equal(t, []float32{63}, res.Max)
	require.Equal(t, []string{"Vols/density00007-4x4x4.dat"}, res.Files)

	data, ok := sink.files["Vols/density00007-4x4x4.dat"]
	require.True(t, ok)

	const trailer = "MIN 0 MAX 63\n"
	require.Equal(t, 64+len(trailer), len(data))
	require.Equal(t, trailer, string(data[64:]))

	bytes := data[:64]
	require.Equal(t, byte(0), bytes[0])
	require.Equal(t, byte(255), bytes[63])
	for i := 1; i < 64; i++ {
		require.Greater(t, bytes[i], bytes[i-1], "byte %d not strictly increasing", i)
	}

	lines := sink.appended["density.ogle"]
	require.Len(t, lines, 2)
	require.Equal(t, fmt.Sprintf("# density ranges: %9.7g to %9.7g", float32(0), float32(63)), lines[0])
	require.Equal(t, "4x4x4 Vols/density00007-4x4x4.dat", lines[1])
}

func TestEncodeScalarConstant(t *testing.T) {
	geom := mustGeometry(t, [3]int{3, 3, 3}, grid.Vec3{}, grid.Vec3{X: 1, Y: 1, Z: 1})
	g := grid.NewGrid[grid.Scalar](geom)
	for off := 0; off < g.Size(); off++ {
		*g.At(off) = 5
	}

	sink := newMemSink()
	enc, err := NewEncoder(sink)
	require.NoError(t, err)

	res, err := Encode(enc, g, "const", 0)
	require.NoError(t, err)
	require.Equal(t, float32(5), res.Min[0])
	require.Equal(t, float32(5), res.Max[0])

	data := sink.files[res.Files[0]]
	for i := 0; i < g.Size(); i++ {
		require.Equal(t, byte(0), data[i])
	}
}

func TestEncodeScalarSymmetric(t *testing.T) {
	geom := mustGeometry(t, [3]int{2, 2, 2}, grid.Vec3{}, grid.Vec3{X: 1, Y: 1, Z: 1})
	g := grid.NewGrid[grid.Scalar](geom)
	values := []float32{-2, -1, 0, 1, 0.5, -0.5, 2, 0}
	for off, v := range values {
		*g.At(off) = grid.Scalar(v)
	}

	sink := newMemSink()
	enc, err := NewEncoder(sink, WithSymmetricRange(true))
	require.NoError(t, err)

	res, err := Encode(enc, g, "sym", 1)
	require.NoError(t, err)
	require.Equal(t, float32(-2), res.Min[0])
	require.Equal(t, float32(2), res.Max[0])

	data := sink.files[res.Files[0]]
	for off, v := range values {
		b := data[off]
		switch {
		case v == 0:
			// Zero sits on the truncated midpoint.
			require.Equal(t, byte(127), b)
		case v > 0:
			require.Greater(t, b, byte(127))
		default:
			require.Less(t, b, byte(127))
		}
	}
	require.Equal(t, byte(0), data[0])
	require.Equal(t, byte(255), data[6])
}

func TestEncodeVector(t *testing.T) {
	geom := mustGeometry(t, [3]int{5, 4, 3}, grid.Vec3{}, grid.Vec3{X: 2, Y: 2, Z: 2})
	g := grid.NewGrid[grid.Vec3](geom)
	rng := rand.New(rand.NewSource(99))
	for off := 0; off < g.Size(); off++ {
		*g.At(off) = grid.Vec3{
			X: rng.Float32()*4 - 2,
			Y: rng.Float32()*10 - 5,
			Z: rng.Float32() * 3,
		}
	}

	sink := newMemSink()
	enc, err := NewEncoder(sink)
	require.NoError(t, err)

	res, err := Encode(enc, g, "velocity", 12)
	require.NoError(t, err)
	require.Len(t, res.Files, 4)
	require.Equal(t, "Vols/velocityX00012-5x4x3.dat", res.Files[0])
	require.Equal(t, "Vols/velocityY00012-5x4x3.dat", res.Files[1])
	require.Equal(t, "Vols/velocityZ00012-5x4x3.dat", res.Files[2])
	require.Equal(t, "Vols/velocityM00012-5x4x3.dat", res.Files[3])

	// Component bytes decode back to the source values within one
	// quantization step of the channel's spread.
	for c := 0; c < 3; c++ {
		data := sink.files[res.Files[c]]
		require.Len(t, data, g.Size()+len(fmt.Sprintf("MIN %.7g MAX %.7g\n", res.Min[c], res.Max[c])))
		step := (res.Max[c] - res.Min[c]) / 255
		for off := 0; off < g.Size(); off++ {
			want := g.At(off).Channel(c)
			got := dequantize(data[off], res.Min[c], res.Max[c])
			require.InDelta(t, want, got, float64(step)+1e-6, "channel %d offset %d", c, off)
		}
	}

	// Magnitude bytes decode against [0, MagnitudeMax].
	require.Zero(t, res.ClampedMagnitudes)
	magData := sink.files[res.Files[3]]
	magStep := res.MagnitudeMax / 255
	for off := 0; off < g.Size(); off++ {
		want := g.At(off).Magnitude()
		require.LessOrEqual(t, want, res.MagnitudeMax)
		got := dequantize(magData[off], 0, res.MagnitudeMax)
		require.InDelta(t, want, got, float64(magStep)+1e-6, "magnitude offset %d", off)
	}
	require.True(t, strings.HasSuffix(string(magData),
		fmt.Sprintf("MIN %.7g MAX %.7g\n", float32(0), res.MagnitudeMax)))

	// The manifest entry names the component files only.
	lines := sink.appended["velocity.ogle"]
	require.Len(t, lines, 2)
	require.True(t, strings.HasPrefix(lines[0], "# velocity ranges: {"))
	require.Equal(t,
		"5x4x3 Vols/velocityX00012-5x4x3.dat Vols/velocityY00012-5x4x3.dat Vols/velocityZ00012-5x4x3.dat",
		lines[1])
}

func TestEncodeVortonGrid(t *testing.T) {
	geom := mustGeometry(t, [3]int{3, 3, 3}, grid.Vec3{}, grid.Vec3{X: 1, Y: 1, Z: 1})
	g := grid.NewGrid[grid.Vorton](geom)
	for off := 0; off < g.Size(); off++ {
		g.At(off).Vorticity = grid.Vec3{X: float32(off), Y: -float32(off), Z: 1}
	}

	sink := newMemSink()
	enc, err := NewEncoder(sink)
	require.NoError(t, err)

	// Vortons encode their three vorticity channels like any vector field.
	res, err := Encode(enc, g, "vorticity", 3)
	require.NoError(t, err)
	require.Len(t, res.Files, 4)
	require.Equal(t, float32(26), res.Max[0])
	require.Equal(t, float32(-26), res.Min[1])
}

func TestEncodeUnsupportedChannels(t *testing.T) {
	geom := mustGeometry(t, [3]int{2, 2, 2}, grid.Vec3{}, grid.Vec3{X: 1, Y: 1, Z: 1})
	g := grid.NewGrid[grid.Mat33](geom)

	enc, err := NewEncoder(newMemSink())
	require.NoError(t, err)

	_, err = Encode(enc, g, "jacobian", 0)
	require.ErrorIs(t, err, errs.ErrUnsupportedChannelCount)
}

func TestEncodeUninitializedGrid(t *testing.T) {
	geom := mustGeometry(t, [3]int{2, 2, 2}, grid.Vec3{}, grid.Vec3{X: 1, Y: 1, Z: 1})
	g := grid.NewGridShape[grid.Scalar](geom)

	enc, err := NewEncoder(newMemSink())
	require.NoError(t, err)

	_, err = Encode(enc, g, "density", 0)
	require.ErrorIs(t, err, errs.ErrNotInitialized)
}

func TestEncodeSinkFailure(t *testing.T) {
	geom := mustGeometry(t, [3]int{2, 2, 2}, grid.Vec3{}, grid.Vec3{X: 1, Y: 1, Z: 1})
	g := grid.NewGrid[grid.Vec3](geom)
	for off := 0; off < g.Size(); off++ {
		*g.At(off) = grid.Vec3{X: float32(off)}
	}

	t.Run("channel write fails", func(t *testing.T) {
		sink := newMemSink()
		sink.failWrite = "Vols/velocityZ00001-2x2x2.dat"
		enc, err := NewEncoder(sink)
		require.NoError(t, err)

		_, err = Encode(enc, g, "velocity", 1)
		require.ErrorIs(t, err, errs.ErrSinkFailure)
		require.Empty(t, sink.files)
		require.Empty(t, sink.appended)
		require.ElementsMatch(t, []string{
			"Vols/velocityX00001-2x2x2.dat",
			"Vols/velocityY00001-2x2x2.dat",
		}, sink.removed)
	})

	t.Run("manifest append fails", func(t *testing.T) {
		sink := newMemSink()
		sink.failAppend = true
		enc, err := NewEncoder(sink)
		require.NoError(t, err)

		_, err = Encode(enc, g, "velocity", 1)
		require.ErrorIs(t, err, errs.ErrSinkFailure)
		require.Empty(t, sink.files)
		require.Empty(t, sink.appended)
		require.Len(t, sink.removed, 4)
	})
}

func TestEncoderOptions(t *testing.T) {
	t.Run("custom volume dir", func(t *testing.T) {
		geom := mustGeometry(t, [3]int{2, 2, 2}, grid.Vec3{}, grid.Vec3{X: 1, Y: 1, Z: 1})
		g := grid.NewGrid[grid.Scalar](geom)
		for off := 0; off < g.Size(); off++ {
			*g.At(off) = grid.Scalar(off)
		}

		sink := newMemSink()
		enc, err := NewEncoder(sink, WithVolumeDir("Bricks"))
		require.NoError(t, err)

		res, err := Encode(enc, g, "density", 0)
		require.NoError(t, err)
		require.Equal(t, []string{"Bricks/density00000-2x2x2.dat"}, res.Files)
	})

	t.Run("empty volume dir", func(t *testing.T) {
		_, err := NewEncoder(newMemSink(), WithVolumeDir(""))
		require.ErrorIs(t, err, errs.ErrInvalidVolumeDir)
	})
}

func TestDirSink(t *testing.T) {
	dir := t.TempDir()
	sink := NewDirSink(dir)

	require.NoError(t, sink.WriteFile("Vols/a.dat", []byte{1, 2, 3}))
	data, err := os.ReadFile(filepath.Join(dir, "Vols", "a.dat"))
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3}, data)

	require.NoError(t, sink.AppendLines("scene.ogle", "# comment", "2x2x2 Vols/a.dat"))
	require.NoError(t, sink.AppendLines("scene.ogle", "second"))
	manifest, err := os.ReadFile(filepath.Join(dir, "scene.ogle"))
	require.NoError(t, err)
	require.Equal(t, "# comment\n2x2x2 Vols/a.dat\nsecond\n", string(manifest))

	require.NoError(t, sink.Remove("Vols/a.dat"))
	_, err = os.Stat(filepath.Join(dir, "Vols", "a.dat"))
	require.True(t, os.IsNotExist(err))

	// Removing twice is fine.
	require.NoError(t, sink.Remove("Vols/a.dat"))
}
