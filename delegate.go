package stream

import (
	"fmt"
	"io"
	"time"
)

// DelegateStream forwards every operation unchanged to one underlying
// stream. It is the substrate the other single-stream adapters build on:
// they embed a DelegateStream and override only the operations whose
// semantics they change.
//
// The underlying stream is reachable only by adapters in this package, never
// by external callers.
type DelegateStream struct {
	base      Stream
	ownership Ownership
	closed    bool
}

// NewDelegateStream wraps base. Construction fails on a nil base. With Own,
// closing the delegate closes base; with Borrow, base is left open.
func NewDelegateStream(base Stream, ownership Ownership) (*DelegateStream, error) {
	if base == nil {
		return nil, fmt.Errorf("nil underlying stream: %w", ErrInvalidArgument)
	}
	return &DelegateStream{base: base, ownership: ownership}, nil
}

// Capabilities implements Stream.
func (d *DelegateStream) Capabilities() Capability {
	return d.base.Capabilities()
}

// Read implements Stream.
func (d *DelegateStream) Read(p []byte) (int, error) {
	if d.closed {
		return 0, io.ErrClosedPipe
	}
	return d.base.Read(p)
}

// ReadByte implements Stream.
func (d *DelegateStream) ReadByte() (byte, error) {
	if d.closed {
		return 0, io.ErrClosedPipe
	}
	return d.base.ReadByte()
}

// Write implements Stream.
func (d *DelegateStream) Write(p []byte) (int, error) {
	if d.closed {
		return 0, io.ErrClosedPipe
	}
	return d.base.Write(p)
}

// WriteByte implements Stream.
func (d *DelegateStream) WriteByte(c byte) error {
	if d.closed {
		return io.ErrClosedPipe
	}
	return d.base.WriteByte(c)
}

// Seek implements Stream.
func (d *DelegateStream) Seek(offset int64, whence int) (int64, error) {
	if d.closed {
		return 0, io.ErrClosedPipe
	}
	return d.base.Seek(offset, whence)
}

// Length implements Stream.
func (d *DelegateStream) Length() (int64, error) {
	if d.closed {
		return 0, io.ErrClosedPipe
	}
	return d.base.Length()
}

// Position implements Stream.
func (d *DelegateStream) Position() (int64, error) {
	if d.closed {
		return 0, io.ErrClosedPipe
	}
	return d.base.Position()
}

// SetLength implements Stream.
func (d *DelegateStream) SetLength(n int64) error {
	if d.closed {
		return io.ErrClosedPipe
	}
	return d.base.SetLength(n)
}

// Flush implements Stream.
func (d *DelegateStream) Flush() error {
	if d.closed {
		return io.ErrClosedPipe
	}
	return d.base.Flush()
}

// SetDeadline implements Stream.
func (d *DelegateStream) SetDeadline(t time.Time) error {
	if d.closed {
		return io.ErrClosedPipe
	}
	return d.base.SetDeadline(t)
}

// Close implements Stream. The underlying stream is closed iff the delegate
// owns it; repeated calls are no-ops.
func (d *DelegateStream) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	if d.ownership == Own {
		return d.base.Close()
	}
	return nil
}
