package stream

import (
	"fmt"
	"io"
	"time"
)

// ioStream adapts a plain io.Reader, io.Writer or io.ReadWriter (e.g. a
// net.Conn) to the Stream interface. The wrapped value is probed for
// optional methods such as SetDeadline, Flush and Close, which are forwarded
// when present.
type ioStream struct {
	r      io.Reader
	w      io.Writer
	inner  interface{}
	caps   Capability
	closed bool
}

// NewReaderStream wraps an io.Reader as a read-only, non-seekable Stream.
func NewReaderStream(r io.Reader) (Stream, error) {
	if r == nil {
		return nil, fmt.Errorf("nil reader: %w", ErrInvalidArgument)
	}
	return newIOStream(r, nil, r), nil
}

// NewWriterStream wraps an io.Writer as a write-only, non-seekable Stream.
func NewWriterStream(w io.Writer) (Stream, error) {
	if w == nil {
		return nil, fmt.Errorf("nil writer: %w", ErrInvalidArgument)
	}
	return newIOStream(nil, w, w), nil
}

// NewConnStream wraps an io.ReadWriter, typically a net.Conn, as a
// non-seekable Stream. If the wrapped value has a SetDeadline method the
// stream reports the timeout capability.
func NewConnStream(rw io.ReadWriter) (Stream, error) {
	if rw == nil {
		return nil, fmt.Errorf("nil stream: %w", ErrInvalidArgument)
	}
	return newIOStream(rw, rw, rw), nil
}

func newIOStream(r io.Reader, w io.Writer, inner interface{}) *ioStream {
	s := &ioStream{r: r, w: w, inner: inner}
	if r != nil {
		s.caps |= CapRead
	}
	if w != nil {
		s.caps |= CapWrite
	}
	if _, ok := inner.(interface{ SetDeadline(t time.Time) error }); ok {
		s.caps |= CapTimeout
	}
	return s
}

func (s *ioStream) Capabilities() Capability {
	return s.caps
}

func (s *ioStream) Read(p []byte) (int, error) {
	if s.closed {
		return 0, io.ErrClosedPipe
	}
	if s.r == nil {
		return 0, unsupported("read from write-only stream")
	}
	return s.r.Read(p)
}

func (s *ioStream) ReadByte() (byte, error) {
	return readByteFrom(s)
}

func (s *ioStream) Write(p []byte) (int, error) {
	if s.closed {
		return 0, io.ErrClosedPipe
	}
	if s.w == nil {
		return 0, unsupported("write to read-only stream")
	}
	return s.w.Write(p)
}

func (s *ioStream) WriteByte(c byte) error {
	return writeByteTo(s, c)
}

func (s *ioStream) Seek(offset int64, whence int) (int64, error) {
	return 0, unsupported("seek")
}

func (s *ioStream) Length() (int64, error) {
	return 0, unsupported("length")
}

func (s *ioStream) Position() (int64, error) {
	return 0, unsupported("position")
}

func (s *ioStream) SetLength(n int64) error {
	return unsupported("set length")
}

// Flush forwards to the wrapped value's Flush method if it has one,
// otherwise it is a no-op.
func (s *ioStream) Flush() error {
	if s.closed {
		return io.ErrClosedPipe
	}
	if f, ok := s.inner.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}

// SetDeadline forwards to the wrapped value's SetDeadline method if it has
// one.
func (s *ioStream) SetDeadline(t time.Time) error {
	if d, ok := s.inner.(interface{ SetDeadline(t time.Time) error }); ok {
		return d.SetDeadline(t)
	}
	return unsupported("set deadline")
}

// Close closes the wrapped value if it has a Close method.
func (s *ioStream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if c, ok := s.inner.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
