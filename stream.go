package stream

import (
	"fmt"
	"io"
	"time"
)

// Capability describes which operations a stream supports. Capabilities are
// derived from a stream's nature and constituents at construction time and
// never change afterwards.
type Capability uint8

const (
	// CapRead means Read and ReadByte are supported.
	CapRead Capability = 1 << iota

	// CapWrite means Write, WriteByte, SetLength and Flush are supported.
	CapWrite

	// CapSeek means Seek, Length and Position are supported.
	CapSeek

	// CapTimeout means SetDeadline is supported.
	CapTimeout
)

// Has returns whether c includes every capability in want.
func (c Capability) Has(want Capability) bool {
	return c&want == want
}

// Ownership controls whether closing an adapter cascades to the streams it
// wraps. An owning adapter closes its constituents exactly once on Close; a
// borrowing adapter leaves them open for the caller.
type Ownership int

const (
	// Borrow leaves constituent streams open when the adapter is closed.
	Borrow Ownership = iota

	// Own closes constituent streams when the adapter is closed.
	Own
)

// Stream is the contract shared by every adapter in this package. It extends
// the standard io interfaces with capability queries, length and position
// access, truncation and flushing.
//
// Operations outside a stream's capabilities fail with ErrUnsupported. Seek
// uses the standard io.SeekStart, io.SeekCurrent and io.SeekEnd origins.
// Close is idempotent: every call after the first returns nil without side
// effects, and any other operation on a closed stream fails with
// io.ErrClosedPipe.
type Stream interface {
	io.Reader
	io.Writer
	io.Seeker
	io.Closer
	io.ByteReader
	io.ByteWriter

	// Capabilities returns the operations this stream supports.
	Capabilities() Capability

	// Length returns the total length of the stream in bytes.
	Length() (int64, error)

	// Position returns the current position within the stream.
	Position() (int64, error)

	// SetLength truncates or extends the stream to n bytes.
	SetLength(n int64) error

	// Flush pushes buffered state to the underlying resource.
	Flush() error

	// SetDeadline sets the deadline for future blocking operations.
	SetDeadline(t time.Time) error
}

// unsupported wraps ErrUnsupported with the name of the offending operation.
func unsupported(op string) error {
	return fmt.Errorf("%s: %w", op, ErrUnsupported)
}

// readByteFrom implements ReadByte in terms of Read.
func readByteFrom(r io.Reader) (byte, error) {
	var b [1]byte
	for {
		n, err := r.Read(b[:])
		if n > 0 {
			return b[0], nil
		}
		if err != nil {
			return 0, err
		}
	}
}

// writeByteTo implements WriteByte in terms of Write.
func writeByteTo(w io.Writer, c byte) error {
	_, err := w.Write([]byte{c})
	return err
}

// writeFull writes all of p, converting short writes into errors.
func writeFull(w io.Writer, p []byte) error {
	n, err := w.Write(p)
	if err != nil {
		return err
	}
	if n < len(p) {
		return io.ErrShortWrite
	}
	return nil
}

// resolveOffset resolves a seek offset against a start/current/end origin.
// Validation against the valid range is left to the caller.
func resolveOffset(offset int64, whence int, pos, length int64) (int64, error) {
	switch whence {
	case io.SeekStart:
		return offset, nil
	case io.SeekCurrent:
		return pos + offset, nil
	case io.SeekEnd:
		return length + offset, nil
	default:
		return 0, fmt.Errorf("invalid seek origin %d: %w", whence, ErrInvalidArgument)
	}
}
