package pool

import (
	"io"
	"sync"
)

const (
	// ChannelBufferDefaultSize covers one channel of a 32^3 preview grid.
	ChannelBufferDefaultSize = 32 * 1024
	// ChannelBufferMaxThreshold keeps one channel of a 64^3 production grid;
	// larger buffers are dropped instead of pooled to avoid memory bloat.
	ChannelBufferMaxThreshold = 512 * 1024

	// PayloadBufferDefaultSize covers a full float32 vector payload of a 32^3 grid.
	PayloadBufferDefaultSize = 512 * 1024
	// PayloadBufferMaxThreshold is the largest payload buffer worth pooling.
	PayloadBufferMaxThreshold = 8 * 1024 * 1024
)

// ByteBuffer is a growable byte slice with amortized allocation, pooled to
// keep per-frame encoding allocation-free after warmup.
type ByteBuffer struct {
	// B is the underlying byte slice.
	B []byte
}

// NewByteBuffer creates a new ByteBuffer with the specified initial capacity.
func NewByteBuffer(defaultSize int) *ByteBuffer {
	return &ByteBuffer{
		B: make([]byte, 0, defaultSize),
	}
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Reset resets the buffer to be empty, retaining allocated memory for reuse.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Len returns the length of the buffer.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// Cap returns the capacity of the buffer.
func (bb *ByteBuffer) Cap() int {
	return cap(bb.B)
}

// WriteByte appends a single byte, growing the buffer if necessary.
func (bb *ByteBuffer) WriteByte(c byte) error {
	bb.Grow(1)
	bb.B = append(bb.B, c)

	return nil
}

// WriteString appends the contents of s, growing the buffer as needed.
func (bb *ByteBuffer) WriteString(s string) (int, error) {
	bb.B = append(bb.B, s...)
	return len(s), nil
}

// Write appends the contents of data to the buffer, growing it as needed.
func (bb *ByteBuffer) Write(data []byte) (int, error) {
	bb.B = append(bb.B, data...)
	return len(data), nil
}

// WriteTo writes the contents of the buffer to w.
func (bb *ByteBuffer) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(bb.B)
	return int64(n), err
}

// Grow grows the buffer so it can hold requiredBytes more bytes without
// reallocating. If capacity already suffices, Grow does nothing.
//
// Small buffers grow by ChannelBufferDefaultSize to minimize reallocations;
// larger ones grow by 25% of current capacity.
func (bb *ByteBuffer) Grow(requiredBytes int) {
	available := cap(bb.B) - len(bb.B)
	if available >= requiredBytes {
		return
	}

	growBy := ChannelBufferDefaultSize
	if cap(bb.B) > 4*ChannelBufferDefaultSize {
		growBy = cap(bb.B) / 4
	}

	if growBy < requiredBytes {
		growBy = requiredBytes
	}

	newBuf := make([]byte, len(bb.B), len(bb.B)+growBy)
	copy(newBuf, bb.B)
	bb.B = newBuf
}

// ByteBufferPool is a pool of ByteBuffers backed by sync.Pool. Buffers whose
// capacity grew beyond the configured threshold are discarded instead of
// being returned, preventing one oversized grid from pinning memory.
type ByteBufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewByteBufferPool creates a pool handing out buffers of the given default size.
func NewByteBufferPool(defaultSize int, maxThreshold int) *ByteBufferPool {
	return &ByteBufferPool{
		pool: sync.Pool{
			New: func() any {
				return NewByteBuffer(defaultSize)
			},
		},
		maxThreshold: maxThreshold,
	}
}

// Get retrieves a ByteBuffer from the pool.
func (bbp *ByteBufferPool) Get() *ByteBuffer {
	bb, _ := bbp.pool.Get().(*ByteBuffer)
	return bb
}

// Put returns a ByteBuffer to the pool for reuse.
func (bbp *ByteBufferPool) Put(bb *ByteBuffer) {
	if bb == nil {
		return
	}

	if bbp.maxThreshold > 0 && cap(bb.B) > bbp.maxThreshold {
		return
	}

	bb.Reset()
	bbp.pool.Put(bb)
}

var (
	channelPool = NewByteBufferPool(ChannelBufferDefaultSize, ChannelBufferMaxThreshold)
	payloadPool = NewByteBufferPool(PayloadBufferDefaultSize, PayloadBufferMaxThreshold)
)

// GetChannelBuffer retrieves a buffer sized for one brick-of-bytes channel.
func GetChannelBuffer() *ByteBuffer {
	return channelPool.Get()
}

// PutChannelBuffer returns a channel buffer to its pool.
func PutChannelBuffer(bb *ByteBuffer) {
	channelPool.Put(bb)
}

// GetPayloadBuffer retrieves a buffer sized for a full snapshot payload.
func GetPayloadBuffer() *ByteBuffer {
	return payloadPool.Get()
}

// PutPayloadBuffer returns a payload buffer to its pool.
func PutPayloadBuffer(bb *ByteBuffer) {
	payloadPool.Put(bb)
}
