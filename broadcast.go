package stream

import (
	"errors"
	"fmt"
	"io"
	"time"
)

// BroadcastStream replicates one logical write-only sink to N writable
// constituent streams. Operations are applied to the constituents in list
// order; if a later constituent fails, earlier ones have already received
// the operation. There is no atomicity guarantee and no rollback — callers
// needing atomicity must coordinate externally.
type BroadcastStream struct {
	parts     []Stream
	ownership Ownership
	closed    bool
}

// NewBroadcastStream creates a broadcast over parts. Every constituent must
// be non-nil and writable.
func NewBroadcastStream(parts []Stream, ownership Ownership) (*BroadcastStream, error) {
	for i, part := range parts {
		if part == nil {
			return nil, fmt.Errorf("nil constituent at index %d: %w", i, ErrInvalidArgument)
		}
		if !part.Capabilities().Has(CapWrite) {
			return nil, fmt.Errorf("constituent %d is not writable: %w", i, ErrInvalidArgument)
		}
	}
	return &BroadcastStream{
		parts:     append([]Stream(nil), parts...),
		ownership: ownership,
	}, nil
}

// Capabilities implements Stream. Broadcast streams are fundamentally
// write-only and non-seekable.
func (b *BroadcastStream) Capabilities() Capability {
	return CapWrite
}

// Write implements Stream. On error the count reported is that of the
// failing constituent.
func (b *BroadcastStream) Write(p []byte) (int, error) {
	if b.closed {
		return 0, io.ErrClosedPipe
	}
	for _, part := range b.parts {
		n, err := part.Write(p)
		if err != nil {
			return n, err
		}
		if n < len(p) {
			return n, io.ErrShortWrite
		}
	}
	return len(p), nil
}

// WriteByte implements Stream.
func (b *BroadcastStream) WriteByte(c byte) error {
	if b.closed {
		return io.ErrClosedPipe
	}
	for _, part := range b.parts {
		if err := part.WriteByte(c); err != nil {
			return err
		}
	}
	return nil
}

// Read implements Stream.
func (b *BroadcastStream) Read(p []byte) (int, error) {
	return 0, unsupported("read from broadcast stream")
}

// ReadByte implements Stream.
func (b *BroadcastStream) ReadByte() (byte, error) {
	return 0, unsupported("read from broadcast stream")
}

// Seek implements Stream.
func (b *BroadcastStream) Seek(offset int64, whence int) (int64, error) {
	return 0, unsupported("seek in broadcast stream")
}

// Length implements Stream.
func (b *BroadcastStream) Length() (int64, error) {
	return 0, unsupported("length of broadcast stream")
}

// Position implements Stream.
func (b *BroadcastStream) Position() (int64, error) {
	return 0, unsupported("position of broadcast stream")
}

// SetLength implements Stream. Applied to every constituent in order.
func (b *BroadcastStream) SetLength(n int64) error {
	if b.closed {
		return io.ErrClosedPipe
	}
	for _, part := range b.parts {
		if err := part.SetLength(n); err != nil {
			return err
		}
	}
	return nil
}

// Flush implements Stream. Applied to every constituent in order.
func (b *BroadcastStream) Flush() error {
	if b.closed {
		return io.ErrClosedPipe
	}
	for _, part := range b.parts {
		if err := part.Flush(); err != nil {
			return err
		}
	}
	return nil
}

// SetDeadline implements Stream. Applied to every constituent in order.
func (b *BroadcastStream) SetDeadline(t time.Time) error {
	if b.closed {
		return io.ErrClosedPipe
	}
	for _, part := range b.parts {
		if err := part.SetDeadline(t); err != nil {
			return err
		}
	}
	return nil
}

// Close implements Stream. With Own, every constituent is closed; all closes
// are attempted even if an earlier one fails.
func (b *BroadcastStream) Close() error {
	if b.closed {
		return nil
	}
	b.closed = true
	if b.ownership != Own {
		return nil
	}
	var errs []error
	for _, part := range b.parts {
		errs = append(errs, part.Close())
	}
	return errors.Join(errs...)
}
