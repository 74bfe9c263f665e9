package vol

import (
	"fmt"

	"github.com/vgrid/brickvol/errs"
	"github.com/vgrid/brickvol/grid"
	"github.com/vgrid/brickvol/internal/options"
	"github.com/vgrid/brickvol/internal/pool"
)

// Channel filename suffixes for vector fields, in flush order. Scalar
// fields use an empty suffix.
var vectorSuffixes = [4]string{"X", "Y", "Z", "M"}

// Encoder writes brick-of-bytes volumetric files through a Sink.
type Encoder struct {
	sink      Sink
	volDir    string
	symmetric bool
}

// EncoderOption configures an Encoder.
type EncoderOption = options.Option[*Encoder]

// WithSymmetricRange makes every channel normalize against a range that is
// symmetric about zero, so the zero value always lands on the encoded
// midpoint regardless of the field's actual min and max.
func WithSymmetricRange(enabled bool) EncoderOption {
	return options.NoError(func(e *Encoder) {
		e.symmetric = enabled
	})
}

// WithVolumeDir sets the subdirectory channel files are written under.
// The default is "Vols".
func WithVolumeDir(dir string) EncoderOption {
	return options.New(func(e *Encoder) error {
		if dir == "" {
			return errs.ErrInvalidVolumeDir
		}
		e.volDir = dir

		return nil
	})
}

// NewEncoder creates an Encoder that writes through sink.
func NewEncoder(sink Sink, opts ...EncoderOption) (*Encoder, error) {
	e := &Encoder{sink: sink, volDir: "Vols"}
	if err := options.Apply(e, opts...); err != nil {
		return nil, err
	}

	return e, nil
}

// Result reports what a single Encode call produced.
type Result struct {
	// Min and Max hold the per-channel range the bytes were normalized
	// against, after any symmetric adjustment.
	Min []float32
	Max []float32
	// MagnitudeMax is the upper bound used for the magnitude channel of
	// vector fields, zero for scalar fields.
	MagnitudeMax float32
	// ClampedMagnitudes counts grid points whose magnitude exceeded
	// MagnitudeMax and was clamped. The bound comes from the per-channel
	// extremes, which can undershoot the true magnitude maximum when the
	// extremes occur at different grid points.
	ClampedMagnitudes int
	// Files lists every channel file written, magnitude included, in
	// the order they were flushed.
	Files []string
}

// Encode quantizes every channel of g into byte volumes named after base and
// frame, then appends an entry for them to the "<base>.ogle" manifest. Scalar
// fields produce one file, three-channel fields produce X, Y, and Z files
// plus a magnitude file that the manifest entry does not reference.
func Encode[T grid.Field](e *Encoder, g *grid.Grid[T], base string, frame uint32) (*Result, error) {
	if !g.Initialized() {
		return nil, fmt.Errorf("%w: grid contents not populated", errs.ErrNotInitialized)
	}
	if g.Size() == 0 {
		return nil, errs.ErrEmptyGrid
	}

	var zero T
	switch zero.Channels() {
	case 1:
		return encodeScalar(e, g, base, frame)
	case 3:
		return encodeVector(e, g, base, frame)
	default:
		return nil, fmt.Errorf("%w: %d channels", errs.ErrUnsupportedChannelCount, zero.Channels())
	}
}

func (e *Encoder) channelFile(base, suffix string, frame uint32, pts [3]int) string {
	return fmt.Sprintf("%s/%s%s%05d-%dx%dx%d.dat", e.volDir, base, suffix, frame, pts[0], pts[1], pts[2])
}

func pointCounts[T grid.Field](g *grid.Grid[T]) [3]int {
	return [3]int{g.NumPoints(0), g.NumPoints(1), g.NumPoints(2)}
}

func encodeScalar[T grid.Field](e *Encoder, g *grid.Grid[T], base string, frame uint32) (*Result, error) {
	st := grid.ComputeStats(g)
	fMin, fMax := st.Min[0], st.Max[0]
	if e.symmetric {
		ext := max(fMax, -fMin)
		fMin, fMax = -ext, ext
	}
	spread := spreadOf(fMin, fMax)

	pts := pointCounts(g)
	name := e.channelFile(base, "", frame, pts)

	buf := pool.GetChannelBuffer()
	defer pool.PutChannelBuffer(buf)
	buf.Grow(g.Size() + 32)

	for _, el := range g.Contents() {
		_ = buf.WriteByte(quantize(el.Channel(0), fMin, spread))
	}
	fmt.Fprintf(buf, "MIN %.7g MAX %.7g\n", fMin, fMax)

	if err := e.sink.WriteFile(name, buf.Bytes()); err != nil {
		return nil, fmt.Errorf("%w: %s: %s", errs.ErrSinkFailure, name, err)
	}

	comment := fmt.Sprintf("# %s ranges: %9.7g to %9.7g", base, fMin, fMax)
	data := fmt.Sprintf("%dx%dx%d %s", pts[0], pts[1], pts[2], name)
	if err := e.sink.AppendLines(base+".ogle", comment, data); err != nil {
		_ = e.sink.Remove(name)
		return nil, fmt.Errorf("%w: manifest %s.ogle: %s", errs.ErrSinkFailure, base, err)
	}

	return &Result{
		Min:   []float32{fMin},
		Max:   []float32{fMax},
		Files: []string{name},
	}, nil
}

func encodeVector[T grid.Field](e *Encoder, g *grid.Grid[T], base string, frame uint32) (*Result, error) {
	st := grid.ComputeStats(g)

	// The magnitude bound is the distance from the origin to the extreme
	// corner of the per-channel bounding box. It can undershoot the true
	// magnitude maximum when channel extremes come from different grid
	// points, so out-of-bound magnitudes are clamped and counted.
	var fMin, fMax, spread [3]float32
	var magSq float32
	for c := 0; c < 3; c++ {
		ext := max(st.Max[c], -st.Min[c])
		magSq += ext * ext
		if e.symmetric {
			fMin[c], fMax[c] = -ext, ext
		} else {
			fMin[c], fMax[c] = st.Min[c], st.Max[c]
		}
		spread[c] = spreadOf(fMin[c], fMax[c])
	}
	magMax := sqrt32(magSq)
	if magMax < minNormal {
		magMax = minNormal
	}

	pts := pointCounts(g)

	var names [4]string
	var bufs [4]*pool.ByteBuffer
	for i, suffix := range vectorSuffixes {
		names[i] = e.channelFile(base, suffix, frame, pts)
		bufs[i] = pool.GetChannelBuffer()
		defer pool.PutChannelBuffer(bufs[i])
		bufs[i].Grow(g.Size() + 32)
	}

	clamped := 0
	for _, el := range g.Contents() {
		for c := 0; c < 3; c++ {
			_ = bufs[c].WriteByte(quantize(el.Channel(c), fMin[c], spread[c]))
		}
		mag := el.Magnitude()
		if mag > magMax {
			mag = magMax
			clamped++
		}
		_ = bufs[3].WriteByte(quantize(mag, 0, magMax))
	}

	for c := 0; c < 3; c++ {
		fmt.Fprintf(bufs[c], "MIN %.7g MAX %.7g\n", fMin[c], fMax[c])
	}
	fmt.Fprintf(bufs[3], "MIN %.7g MAX %.7g\n", float32(0), magMax)

	for i := range names {
		if err := e.sink.WriteFile(names[i], bufs[i].Bytes()); err != nil {
			for j := 0; j < i; j++ {
				_ = e.sink.Remove(names[j])
			}

			return nil, fmt.Errorf("%w: %s: %s", errs.ErrSinkFailure, names[i], err)
		}
	}

	comment := fmt.Sprintf("# %s ranges: {%9.7g,%9.7g,%9.7g} to {%9.7g,%9.7g,%9.7g}",
		base, fMin[0], fMin[1], fMin[2], fMax[0], fMax[1], fMax[2])
	// The magnitude file is deliberately absent from the manifest entry;
	// the viewer derives magnitude from the component volumes.
	data := fmt.Sprintf("%dx%dx%d %s %s %s", pts[0], pts[1], pts[2], names[0], names[1], names[2])
	if err := e.sink.AppendLines(base+".ogle", comment, data); err != nil {
		for i := range names {
			_ = e.sink.Remove(names[i])
		}

		return nil, fmt.Errorf("%w: manifest %s.ogle: %s", errs.ErrSinkFailure, base, err)
	}

	return &Result{
		Min:               fMin[:],
		Max:               fMax[:],
		MagnitudeMax:      magMax,
		ClampedMagnitudes: clamped,
		Files:             names[:],
	}, nil
}
