package stream

import (
	"errors"
	"fmt"
	"io"
	"time"
)

// TeeReadConfig configures a TeeReadStream.
type TeeReadConfig struct {
	// AutoFlush flushes the copy stream after every mirrored write.
	AutoFlush bool

	// BaseOwnership decides whether closing the adapter closes the base
	// stream.
	BaseOwnership Ownership

	// CopyOwnership decides whether closing the adapter closes the copy
	// stream. Independent of BaseOwnership.
	CopyOwnership Ownership
}

// TeeReadStream wraps a readable base stream and mirrors every byte actually
// read into a separate writable copy stream, e.g. for transparent logging of
// data consumed from an unseekable source. The bytes written to the copy
// stream are exactly the bytes obtained from the base stream, not the bytes
// requested.
type TeeReadStream struct {
	base Stream
	copy Stream
	conf TeeReadConfig

	closed bool
}

// NewTeeReadStream creates a tee over base, mirroring into copyTo. base must
// be readable and copyTo writable. A nil conf uses defaults: no auto-flush,
// both streams borrowed.
func NewTeeReadStream(base, copyTo Stream, conf *TeeReadConfig) (*TeeReadStream, error) {
	if base == nil {
		return nil, fmt.Errorf("nil base stream: %w", ErrInvalidArgument)
	}
	if copyTo == nil {
		return nil, fmt.Errorf("nil copy stream: %w", ErrInvalidArgument)
	}
	if !base.Capabilities().Has(CapRead) {
		return nil, fmt.Errorf("base stream is not readable: %w", ErrInvalidArgument)
	}
	if !copyTo.Capabilities().Has(CapWrite) {
		return nil, fmt.Errorf("copy stream is not writable: %w", ErrInvalidArgument)
	}
	t := &TeeReadStream{base: base, copy: copyTo}
	if conf != nil {
		t.conf = *conf
	}
	return t, nil
}

// Capabilities implements Stream. The tee is readable and inherits the base
// stream's seek and timeout capabilities; it is never writable.
func (t *TeeReadStream) Capabilities() Capability {
	return t.base.Capabilities() &^ CapWrite
}

// Read implements Stream.
func (t *TeeReadStream) Read(p []byte) (int, error) {
	if t.closed {
		return 0, io.ErrClosedPipe
	}
	n, err := t.base.Read(p)
	if n > 0 {
		if cerr := t.mirror(p[:n]); cerr != nil {
			return n, cerr
		}
	}
	return n, err
}

// ReadByte implements Stream.
func (t *TeeReadStream) ReadByte() (byte, error) {
	if t.closed {
		return 0, io.ErrClosedPipe
	}
	c, err := t.base.ReadByte()
	if err != nil {
		return 0, err
	}
	if cerr := t.mirror([]byte{c}); cerr != nil {
		return c, cerr
	}
	return c, nil
}

func (t *TeeReadStream) mirror(p []byte) error {
	if err := writeFull(t.copy, p); err != nil {
		return fmt.Errorf("copy stream: %w", err)
	}
	if t.conf.AutoFlush {
		if err := t.copy.Flush(); err != nil {
			return fmt.Errorf("copy stream: %w", err)
		}
	}
	return nil
}

// Write implements Stream.
func (t *TeeReadStream) Write(p []byte) (int, error) {
	return 0, unsupported("write to tee read stream")
}

// WriteByte implements Stream.
func (t *TeeReadStream) WriteByte(c byte) error {
	return unsupported("write to tee read stream")
}

// Seek implements Stream. Seeking repositions the base stream only; bytes
// already mirrored stay in the copy stream.
func (t *TeeReadStream) Seek(offset int64, whence int) (int64, error) {
	if t.closed {
		return 0, io.ErrClosedPipe
	}
	return t.base.Seek(offset, whence)
}

// Length implements Stream.
func (t *TeeReadStream) Length() (int64, error) {
	if t.closed {
		return 0, io.ErrClosedPipe
	}
	return t.base.Length()
}

// Position implements Stream.
func (t *TeeReadStream) Position() (int64, error) {
	if t.closed {
		return 0, io.ErrClosedPipe
	}
	return t.base.Position()
}

// SetLength implements Stream.
func (t *TeeReadStream) SetLength(n int64) error {
	return unsupported("set length on tee read stream")
}

// Flush implements Stream. Flushes the copy stream.
func (t *TeeReadStream) Flush() error {
	if t.closed {
		return io.ErrClosedPipe
	}
	return t.copy.Flush()
}

// SetDeadline implements Stream.
func (t *TeeReadStream) SetDeadline(d time.Time) error {
	if t.closed {
		return io.ErrClosedPipe
	}
	return t.base.SetDeadline(d)
}

// Close implements Stream. Base and copy streams are closed according to
// their independent ownership flags; both closes are attempted even if the
// first fails.
func (t *TeeReadStream) Close() error {
	if t.closed {
		return nil
	}
	t.closed = true
	var baseErr, copyErr error
	if t.conf.BaseOwnership == Own {
		baseErr = t.base.Close()
	}
	if t.conf.CopyOwnership == Own {
		copyErr = t.copy.Close()
	}
	return errors.Join(baseErr, copyErr)
}
