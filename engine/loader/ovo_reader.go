package loader

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/Carmen-Shannon/oxy-ovo/common"

	"github.com/go-gl/mathgl/mgl32"
)

// chunk is one decoded chunk header plus its raw payload.
type chunk struct {
	kind    ChunkType
	payload []byte
	offset  int64
}

// chunkReader splits an OVO stream into chunks.
type chunkReader struct {
	r      io.Reader
	offset int64
	buf    bytes.Buffer
}

func newChunkReader(r io.Reader) *chunkReader {
	return &chunkReader{r: r}
}

// next reads the following chunk. It returns io.EOF when the stream ends cleanly on a
// chunk boundary and ErrTruncatedStream when it ends anywhere else.
func (c *chunkReader) next() (chunk, error) {
	var header [chunkHeaderSize]byte
	n, err := io.ReadFull(c.r, header[:])
	switch {
	case err == io.EOF:
		return chunk{}, io.EOF
	case errors.Is(err, io.ErrUnexpectedEOF):
		return chunk{}, fmt.Errorf("%w: chunk header at offset %d has %d of %d bytes", ErrTruncatedStream, c.offset, n, chunkHeaderSize)
	case err != nil:
		return chunk{}, fmt.Errorf("read chunk header at offset %d: %w", c.offset, err)
	}

	ch := chunk{
		kind:   ChunkType(binary.LittleEndian.Uint32(header[0:4])),
		offset: c.offset,
	}
	length := binary.LittleEndian.Uint32(header[4:8])
	c.offset += chunkHeaderSize

	// the payload grows as bytes arrive, a corrupt length never reserves more than the stream holds
	c.buf.Reset()
	copied, err := io.CopyN(&c.buf, c.r, int64(length))
	c.offset += copied
	if err == io.EOF {
		return chunk{}, fmt.Errorf("%w: %s chunk at offset %d declares %d payload bytes, stream has %d", ErrTruncatedStream, ch.kind, ch.offset, length, copied)
	}
	if err != nil {
		return chunk{}, fmt.Errorf("read %s chunk payload at offset %d: %w", ch.kind, ch.offset, err)
	}
	ch.payload = bytes.Clone(c.buf.Bytes())
	return ch, nil
}

// payload is a bounds-checked little-endian cursor over a chunk payload. The first
// out-of-bounds read sets err and every later read returns zero values.
type payload struct {
	kind ChunkType
	data []byte
	off  int
	err  error
}

func newPayload(ch chunk) *payload {
	return &payload{kind: ch.kind, data: ch.payload}
}

func (p *payload) remaining() int {
	return len(p.data) - p.off
}

// take returns the next n bytes, or nil once the payload is exhausted.
func (p *payload) take(n int, what string) []byte {
	if p.err != nil {
		return nil
	}
	if n < 0 || n > p.remaining() {
		p.err = fmt.Errorf("%w: %s chunk: %s needs %d bytes at offset %d, payload has %d", ErrUnsupportedChunk, p.kind, what, n, p.off, len(p.data))
		return nil
	}
	b := p.data[p.off : p.off+n]
	p.off += n
	return b
}

func (p *payload) skip(n int, what string) {
	p.take(n, what)
}

// require checks that count records of size bytes remain, without consuming them.
func (p *payload) require(count uint64, size int, what string) bool {
	if p.err != nil {
		return false
	}
	need := count * uint64(size)
	if count != 0 && need/count != uint64(size) || need > uint64(p.remaining()) {
		p.err = fmt.Errorf("%w: %s chunk: %d %s need %d bytes at offset %d, payload has %d", ErrUnsupportedChunk, p.kind, count, what, need, p.off, len(p.data))
		return false
	}
	return true
}

// skipRecords skips count records of size bytes.
func (p *payload) skipRecords(count uint64, size int, what string) {
	if p.require(count, size, what) {
		p.off += int(count * uint64(size))
	}
}

func (p *payload) u8(what string) uint8 {
	b := p.take(1, what)
	if b == nil {
		return 0
	}
	return b[0]
}

func (p *payload) u32(what string) uint32 {
	b := p.take(4, what)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (p *payload) f32(what string) float32 {
	return math.Float32frombits(p.u32(what))
}

func (p *payload) vec3(what string) mgl32.Vec3 {
	return mgl32.Vec3{p.f32(what), p.f32(what), p.f32(what)}
}

// mat4 reads 16 column-major floats.
func (p *payload) mat4(what string) mgl32.Mat4 {
	var values [16]float32
	for i := range values {
		values[i] = p.f32(what)
	}
	return common.Mat4FromSlice(values[:])
}

// str reads a NUL-terminated string.
func (p *payload) str(what string) string {
	if p.err != nil {
		return ""
	}
	end := bytes.IndexByte(p.data[p.off:], 0)
	if end < 0 {
		p.err = fmt.Errorf("%w: %s chunk: %s at offset %d is not NUL-terminated", ErrUnsupportedChunk, p.kind, what, p.off)
		return ""
	}
	s := string(p.data[p.off : p.off+end])
	p.off += end + 1
	return s
}
