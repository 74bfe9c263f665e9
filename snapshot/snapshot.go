package snapshot

import (
	"fmt"
	"io"
	"math"

	"github.com/vgrid/brickvol/compress"
	"github.com/vgrid/brickvol/endian"
	"github.com/vgrid/brickvol/errs"
	"github.com/vgrid/brickvol/format"
	"github.com/vgrid/brickvol/grid"
	"github.com/vgrid/brickvol/internal/hash"
	"github.com/vgrid/brickvol/internal/options"
	"github.com/vgrid/brickvol/internal/pool"
)

// Element is what a grid element type must provide to be snapshotted.
type Element interface {
	grid.Field
	grid.Component
}

type writeConfig struct {
	compression format.CompressionType
}

// Option configures a Write call.
type Option = options.Option[*writeConfig]

// WithCompression selects the payload compression. The default is
// CompressionNone.
func WithCompression(c format.CompressionType) Option {
	return options.New(func(cfg *writeConfig) error {
		if !c.IsValid() {
			return fmt.Errorf("%w: 0x%X", errs.ErrInvalidCompression, uint8(c))
		}
		cfg.compression = c

		return nil
	})
}

// Write serializes g to w: a header followed by the element components as
// component-major float32 planes in canonical scan order, compressed per the
// options. Payload words use the host's native byte order; the header records
// which.
func Write[T Element](w io.Writer, g *grid.Grid[T], opts ...Option) error {
	if !g.Initialized() {
		return fmt.Errorf("%w: grid contents not populated", errs.ErrNotInitialized)
	}

	var zero T
	comps := zero.NumComponents()
	kind := format.KindForComponents(comps)
	if !kind.IsValid() {
		return fmt.Errorf("%w: no kind stores %d components", errs.ErrInvalidFieldKind, comps)
	}

	cfg := writeConfig{compression: format.CompressionNone}
	if err := options.Apply(&cfg, opts...); err != nil {
		return err
	}

	little := endian.IsNativeLittleEndian()
	eng := endian.GetBigEndianEngine()
	if little {
		eng = endian.GetLittleEndianEngine()
	}

	buf := pool.GetPayloadBuffer()
	defer pool.PutPayloadBuffer(buf)
	buf.Grow(g.Size() * comps * 4)

	for c := 0; c < comps; c++ {
		for _, el := range g.Contents() {
			buf.B = eng.AppendUint32(buf.B, math.Float32bits(el.Component(c)))
		}
	}

	codec, err := compress.GetCodec(cfg.compression)
	if err != nil {
		return fmt.Errorf("%w: %s", errs.ErrInvalidCompression, err)
	}
	payload, err := codec.Compress(buf.Bytes())
	if err != nil {
		return fmt.Errorf("compress payload: %w", err)
	}

	h := Header{
		Kind:         kind,
		Compression:  cfg.compression,
		LittleEndian: little,
		NumPoints: [3]uint32{
			uint32(g.NumPoints(0)),
			uint32(g.NumPoints(1)),
			uint32(g.NumPoints(2)),
		},
		DomainMin: g.DomainMin(),
		DomainMax: g.DomainMax(),
		Checksum:  hash.Checksum(buf.Bytes()),
	}

	if _, err := w.Write(h.encode()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("write payload: %w", err)
	}

	return nil
}

// Read deserializes a snapshot written by Write into a freshly allocated
// grid of element type T. The snapshot's recorded field kind must match T's
// component layout.
func Read[T Element, PT grid.ComponentPtr[T]](r io.Reader) (*grid.Grid[T], error) {
	headerBuf := make([]byte, HeaderSize)
	if _, err := io.ReadFull(r, headerBuf); err != nil {
		return nil, fmt.Errorf("%w: %s", errs.ErrInvalidHeaderSize, err)
	}

	h, err := decodeHeader(headerBuf)
	if err != nil {
		return nil, err
	}

	var zero T
	comps := zero.NumComponents()
	if want := format.KindForComponents(comps); h.Kind != want {
		return nil, fmt.Errorf("%w: snapshot holds %s, reader expects %s",
			errs.ErrFieldKindMismatch, h.Kind, want)
	}

	compressed, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}

	codec, err := compress.GetCodec(h.Compression)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errs.ErrInvalidCompression, err)
	}
	payload, err := codec.Decompress(compressed)
	if err != nil {
		return nil, fmt.Errorf("decompress payload: %w", err)
	}

	size := int(h.NumPoints[0]) * int(h.NumPoints[1]) * int(h.NumPoints[2])
	if want := size * comps * 4; len(payload) != want {
		return nil, fmt.Errorf("%w: got %d payload bytes, want %d",
			errs.ErrTruncatedPayload, len(payload), want)
	}
	if sum := hash.Checksum(payload); sum != h.Checksum {
		return nil, fmt.Errorf("%w: got %016x, want %016x", errs.ErrChecksumMismatch, sum, h.Checksum)
	}

	geom, err := grid.NewGeometryFromPoints(
		[3]int{int(h.NumPoints[0]), int(h.NumPoints[1]), int(h.NumPoints[2])},
		h.DomainMin, h.DomainMax)
	if err != nil {
		return nil, err
	}

	g := grid.NewGrid[T](geom)
	eng := h.engine()
	for c := 0; c < comps; c++ {
		plane := payload[c*size*4:]
		for off := 0; off < size; off++ {
			PT(g.At(off)).SetComponent(c, float32frombits(eng.Uint32(plane[off*4:])))
		}
	}

	return g, nil
}

// Inspect parses only the header of a snapshot stream, leaving r positioned
// at the start of the payload.
func Inspect(r io.Reader) (Header, error) {
	buf := make([]byte, HeaderSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return Header{}, fmt.Errorf("%w: %s", errs.ErrInvalidHeaderSize, err)
	}

	return decodeHeader(buf)
}

func float32bits(f float32) uint32     { return math.Float32bits(f) }
func float32frombits(b uint32) float32 { return math.Float32frombits(b) }
