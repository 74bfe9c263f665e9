package brickvol

import (
	"bytes"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vgrid/brickvol/format"
	"github.com/vgrid/brickvol/snapshot"
)

// End-to-end pass over the top-level API: scatter vortons onto a grid,
// encode a frame of byte volumes, and round-trip the grid through a
// snapshot.
func TestFrameWorkflow(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	min := Vec3{X: -1, Y: -1, Z: -1}
	max := Vec3{X: 1, Y: 1, Z: 1}

	vortons := make([]Vorton, 200)
	for i := range vortons {
		vortons[i] = Vorton{
			Position: Vec3{
				X: min.X + 2*rng.Float32(),
				Y: min.Y + 2*rng.Float32(),
				Z: min.Z + 2*rng.Float32(),
			},
			Vorticity: Vec3{X: rng.Float32(), Y: rng.Float32(), Z: rng.Float32()},
		}
	}

	geom, err := NewGeometry(len(vortons), min, max, true)
	require.NoError(t, err)

	g := NewGrid[Vorton](geom)
	for _, v := range vortons {
		*g.AtPosition(v.Position) = v
	}

	st := ComputeStats(g)
	require.Len(t, st.Min, 3)
	require.LessOrEqual(t, st.Min[0], st.Max[0])

	outDir := t.TempDir()
	enc, err := NewEncoder(NewDirSink(outDir))
	require.NoError(t, err)

	res, err := EncodeFrame(enc, g, "vorticity", 1)
	require.NoError(t, err)
	require.Len(t, res.Files, 4)
	for _, name := range res.Files {
		_, err := os.Stat(filepath.Join(outDir, filepath.FromSlash(name)))
		require.NoError(t, err)
	}

	manifest, err := os.ReadFile(filepath.Join(outDir, "vorticity.ogle"))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(manifest), "# vorticity ranges: {"))

	var buf bytes.Buffer
	require.NoError(t, SaveGrid(&buf, g, snapshot.WithCompression(format.CompressionZstd)))
	g2, err := LoadGrid[Vorton](&buf)
	require.NoError(t, err)
	require.Equal(t, g.Contents(), g2.Contents())
}
