package stream

import (
	"fmt"
	"io"
	"time"
)

// SectionConfig configures a SectionStream.
type SectionConfig struct {
	// Shared re-synchronizes the underlying stream's position to
	// start+position before every read, write and seek, tolerating other
	// code repositioning the same underlying stream between calls. Shared
	// use must still be serialized; the mode tolerates interleaving, not
	// simultaneous access. Requires a seekable underlying stream.
	Shared bool

	// Ownership decides whether closing the view closes the underlying
	// stream.
	Ownership Ownership
}

// SectionStream presents the range [start, start+length) of an underlying
// stream as a self-contained stream with its own 0-based position space,
// like io.SectionReader but writable and boundable.
type SectionStream struct {
	base      Stream
	start     int64
	length    int64
	pos       int64
	shared    bool
	seekable  bool
	ownership Ownership
	closed    bool
}

// NewSectionStream creates a view over [start, start+length) of base.
//
// If base is seekable, start is absolute from its beginning and the
// underlying position is set to start immediately, except in shared mode
// where positioning happens lazily before each operation. If base is
// unseekable, start is relative to its current position and is consumed by
// discarding that many bytes up front; unseekable streams cannot be used in
// shared mode.
func NewSectionStream(base Stream, start, length int64, conf *SectionConfig) (*SectionStream, error) {
	if base == nil {
		return nil, fmt.Errorf("nil underlying stream: %w", ErrInvalidArgument)
	}
	if start < 0 || length < 0 {
		return nil, fmt.Errorf("section start %d length %d: %w", start, length, ErrInvalidArgument)
	}
	if conf == nil {
		conf = &SectionConfig{}
	}
	seekable := base.Capabilities().Has(CapSeek)
	if conf.Shared && !seekable {
		return nil, fmt.Errorf("shared mode over unseekable stream: %w", ErrConflict)
	}

	s := &SectionStream{
		base:      base,
		start:     start,
		length:    length,
		shared:    conf.Shared,
		seekable:  seekable,
		ownership: conf.Ownership,
	}

	if seekable {
		if !conf.Shared {
			if _, err := base.Seek(start, io.SeekStart); err != nil {
				return nil, err
			}
		}
	} else if start > 0 {
		if _, err := io.CopyN(io.Discard, base, start); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Capabilities implements Stream. The view inherits the underlying stream's
// capabilities; an unseekable underlying stream yields an unseekable view.
func (s *SectionStream) Capabilities() Capability {
	return s.base.Capabilities()
}

// sync repositions the underlying stream in shared mode. In exclusive mode
// position bookkeeping is purely local and the underlying position is
// assumed untouched between calls.
func (s *SectionStream) sync() error {
	if !s.shared {
		return nil
	}
	_, err := s.base.Seek(s.start+s.pos, io.SeekStart)
	return err
}

// Read implements Stream. Reads are clamped to the view's end; reading at
// the end returns io.EOF without touching data outside the range.
func (s *SectionStream) Read(p []byte) (int, error) {
	if s.closed {
		return 0, io.ErrClosedPipe
	}
	if !s.base.Capabilities().Has(CapRead) {
		return 0, unsupported("read from section view")
	}
	remain := s.length - s.pos
	if remain <= 0 {
		return 0, io.EOF
	}
	if int64(len(p)) > remain {
		p = p[:remain]
	}
	if err := s.sync(); err != nil {
		return 0, err
	}
	n, err := s.base.Read(p)
	s.pos += int64(n)
	return n, err
}

// ReadByte implements Stream.
func (s *SectionStream) ReadByte() (byte, error) {
	return readByteFrom(s)
}

// Write implements Stream. Writing past the view's end fails; the view's
// length must first be extended with SetLength.
func (s *SectionStream) Write(p []byte) (int, error) {
	if s.closed {
		return 0, io.ErrClosedPipe
	}
	if !s.base.Capabilities().Has(CapWrite) {
		return 0, unsupported("write to section view")
	}
	if remain := s.length - s.pos; int64(len(p)) > remain {
		return 0, fmt.Errorf("write of %d bytes at position %d exceeds view length %d: %w",
			len(p), s.pos, s.length, ErrOutOfRange)
	}
	if err := s.sync(); err != nil {
		return 0, err
	}
	n, err := s.base.Write(p)
	s.pos += int64(n)
	return n, err
}

// WriteByte implements Stream.
func (s *SectionStream) WriteByte(c byte) error {
	return writeByteTo(s, c)
}

// Seek implements Stream. Origins resolve against the view's own length;
// results outside [0, length] are rejected.
func (s *SectionStream) Seek(offset int64, whence int) (int64, error) {
	if s.closed {
		return 0, io.ErrClosedPipe
	}
	if !s.seekable {
		return 0, unsupported("seek in view over unseekable stream")
	}
	abs, err := resolveOffset(offset, whence, s.pos, s.length)
	if err != nil {
		return 0, err
	}
	if abs < 0 || abs > s.length {
		return 0, fmt.Errorf("seek to %d in view of length %d: %w", abs, s.length, ErrOutOfRange)
	}
	if _, err := s.base.Seek(s.start+abs, io.SeekStart); err != nil {
		return 0, err
	}
	s.pos = abs
	return abs, nil
}

// Length implements Stream. The view's length is independent of the
// underlying stream's.
func (s *SectionStream) Length() (int64, error) {
	if s.closed {
		return 0, io.ErrClosedPipe
	}
	return s.length, nil
}

// Position implements Stream.
func (s *SectionStream) Position() (int64, error) {
	if s.closed {
		return 0, io.ErrClosedPipe
	}
	return s.pos, nil
}

// SetLength implements Stream. The underlying stream is resized to
// start+n; if the current position exceeds the new length it is clamped
// down to the new end.
func (s *SectionStream) SetLength(n int64) error {
	if s.closed {
		return io.ErrClosedPipe
	}
	if !s.base.Capabilities().Has(CapWrite) {
		return unsupported("set length on section view")
	}
	if n < 0 {
		return fmt.Errorf("length %d: %w", n, ErrOutOfRange)
	}
	if err := s.base.SetLength(s.start + n); err != nil {
		return err
	}
	s.length = n
	if s.pos > n {
		s.pos = n
		if !s.shared && s.seekable {
			if _, err := s.base.Seek(s.start+n, io.SeekStart); err != nil {
				return err
			}
		}
	}
	return nil
}

// Flush implements Stream.
func (s *SectionStream) Flush() error {
	if s.closed {
		return io.ErrClosedPipe
	}
	return s.base.Flush()
}

// SetDeadline implements Stream.
func (s *SectionStream) SetDeadline(t time.Time) error {
	if s.closed {
		return io.ErrClosedPipe
	}
	return s.base.SetDeadline(t)
}

// Close implements Stream.
func (s *SectionStream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if s.ownership == Own {
		return s.base.Close()
	}
	return nil
}
