package stream

import (
	"fmt"
	"io"
	"time"
)

// MemoryStream is a growable in-memory Stream. The managed byte slice grows
// to the exact required size and never shrinks below its capacity. It is the
// canonical full-capability stream: readable, writable and seekable.
type MemoryStream struct {
	data   []byte
	pos    int64
	closed bool
}

// NewMemoryStream creates a MemoryStream holding data. The slice is used
// directly, not copied; the position starts at 0. A nil slice yields an
// empty stream.
func NewMemoryStream(data []byte) *MemoryStream {
	return &MemoryStream{data: data}
}

// Capabilities implements Stream.
func (m *MemoryStream) Capabilities() Capability {
	return CapRead | CapWrite | CapSeek
}

// Bytes returns the current contents. The slice is only valid until the next
// write or SetLength.
func (m *MemoryStream) Bytes() []byte {
	return m.data
}

// Read implements Stream.
func (m *MemoryStream) Read(p []byte) (int, error) {
	if m.closed {
		return 0, io.ErrClosedPipe
	}
	if m.pos >= int64(len(m.data)) {
		return 0, io.EOF
	}
	n := copy(p, m.data[m.pos:])
	m.pos += int64(n)
	return n, nil
}

// ReadByte implements Stream.
func (m *MemoryStream) ReadByte() (byte, error) {
	return readByteFrom(m)
}

// Write implements Stream. Writing beyond the current end grows the stream;
// a gap left by a forward seek is zero-filled.
func (m *MemoryStream) Write(p []byte) (int, error) {
	if m.closed {
		return 0, io.ErrClosedPipe
	}
	if end := m.pos + int64(len(p)); end > int64(len(m.data)) {
		m.grow(end)
	}
	n := copy(m.data[m.pos:], p)
	m.pos += int64(n)
	return n, nil
}

// WriteByte implements Stream.
func (m *MemoryStream) WriteByte(c byte) error {
	return writeByteTo(m, c)
}

// Seek implements Stream. Seeking beyond the end is allowed; the gap is
// zero-filled by a subsequent write.
func (m *MemoryStream) Seek(offset int64, whence int) (int64, error) {
	if m.closed {
		return 0, io.ErrClosedPipe
	}
	abs, err := resolveOffset(offset, whence, m.pos, int64(len(m.data)))
	if err != nil {
		return 0, err
	}
	if abs < 0 {
		return 0, fmt.Errorf("seek to %d: %w", abs, ErrOutOfRange)
	}
	m.pos = abs
	return abs, nil
}

// Length implements Stream.
func (m *MemoryStream) Length() (int64, error) {
	if m.closed {
		return 0, io.ErrClosedPipe
	}
	return int64(len(m.data)), nil
}

// Position implements Stream.
func (m *MemoryStream) Position() (int64, error) {
	if m.closed {
		return 0, io.ErrClosedPipe
	}
	return m.pos, nil
}

// SetLength implements Stream. Extending zero-fills; truncating below the
// current position clamps the position to the new end.
func (m *MemoryStream) SetLength(n int64) error {
	if m.closed {
		return io.ErrClosedPipe
	}
	if n < 0 {
		return fmt.Errorf("length %d: %w", n, ErrOutOfRange)
	}
	if n > int64(len(m.data)) {
		m.grow(n)
	} else {
		m.data = m.data[:n]
	}
	if m.pos > n {
		m.pos = n
	}
	return nil
}

// Flush implements Stream. A memory stream has nothing to flush.
func (m *MemoryStream) Flush() error {
	if m.closed {
		return io.ErrClosedPipe
	}
	return nil
}

// SetDeadline implements Stream. Memory streams never block.
func (m *MemoryStream) SetDeadline(t time.Time) error {
	return unsupported("set deadline on memory stream")
}

// Close implements Stream.
func (m *MemoryStream) Close() error {
	m.closed = true
	return nil
}

// grow extends the slice to length n, reallocating if needed.
func (m *MemoryStream) grow(n int64) {
	if n <= int64(cap(m.data)) {
		tail := m.data[len(m.data):n]
		for i := range tail {
			tail[i] = 0
		}
		m.data = m.data[:n]
		return
	}
	grown := make([]byte, n, n+n/2)
	copy(grown, m.data)
	m.data = grown
}
