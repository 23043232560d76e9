package stream

import (
	"errors"
	"fmt"
	"io"
	"time"
)

// ConcatStream presents N read-only constituent streams as one continuous
// stream without copying. It is seekable iff every constituent is seekable,
// in which case its length is the sum of the constituent lengths.
// Constituent lengths are assumed stable for the adapter's lifetime;
// resizing a constituent while concatenated is undefined.
type ConcatStream struct {
	parts     []Stream
	ownership Ownership
	caps      Capability
	cur       int
	pos       int64
	closed    bool
}

// NewConcatStream concatenates parts in order. Every constituent must be
// non-nil and readable. An empty list yields a zero-length, immediately
// exhausted stream.
func NewConcatStream(parts []Stream, ownership Ownership) (*ConcatStream, error) {
	caps := CapRead | CapSeek
	for i, part := range parts {
		if part == nil {
			return nil, fmt.Errorf("nil constituent at index %d: %w", i, ErrInvalidArgument)
		}
		if !part.Capabilities().Has(CapRead) {
			return nil, fmt.Errorf("constituent %d is not readable: %w", i, ErrInvalidArgument)
		}
		if !part.Capabilities().Has(CapSeek) {
			caps &^= CapSeek
		}
	}
	return &ConcatStream{
		parts:     append([]Stream(nil), parts...),
		ownership: ownership,
		caps:      caps,
	}, nil
}

// Capabilities implements Stream.
func (c *ConcatStream) Capabilities() Capability {
	return c.caps
}

// Read implements Stream. Reading proceeds through the constituents in
// order: a constituent yielding zero bytes advances the cursor to the next
// one, which correctly spans boundaries including zero-length constituents.
func (c *ConcatStream) Read(p []byte) (int, error) {
	if c.closed {
		return 0, io.ErrClosedPipe
	}
	if len(p) == 0 {
		return 0, nil
	}
	for c.cur < len(c.parts) {
		n, err := c.parts[c.cur].Read(p)
		if n > 0 {
			c.pos += int64(n)
			return n, nil
		}
		if err != nil && err != io.EOF {
			return 0, err
		}
		c.cur++
	}
	return 0, io.EOF
}

// ReadByte implements Stream.
func (c *ConcatStream) ReadByte() (byte, error) {
	return readByteFrom(c)
}

// Write implements Stream. Concatenated streams are read-only.
func (c *ConcatStream) Write(p []byte) (int, error) {
	return 0, unsupported("write to concatenated stream")
}

// WriteByte implements Stream.
func (c *ConcatStream) WriteByte(b byte) error {
	return unsupported("write to concatenated stream")
}

// Seek implements Stream. The target offset must fall in [0, total length].
// The constituent containing the target is positioned at the local offset
// and becomes current; every constituent after it is rewound to position 0
// so a later forward read through it starts clean.
func (c *ConcatStream) Seek(offset int64, whence int) (int64, error) {
	if c.closed {
		return 0, io.ErrClosedPipe
	}
	if !c.caps.Has(CapSeek) {
		return 0, unsupported("seek in concatenated stream with unseekable constituent")
	}
	total, err := c.Length()
	if err != nil {
		return 0, err
	}
	abs, err := resolveOffset(offset, whence, c.pos, total)
	if err != nil {
		return 0, err
	}
	if abs < 0 || abs > total {
		return 0, fmt.Errorf("seek to %d in stream of length %d: %w", abs, total, ErrOutOfRange)
	}
	if len(c.parts) == 0 {
		c.pos = 0
		return 0, nil
	}

	idx := -1
	local := abs
	for i, part := range c.parts {
		l, err := part.Length()
		if err != nil {
			return 0, err
		}
		if local < l {
			idx = i
			break
		}
		local -= l
	}
	if idx < 0 {
		// abs == total: position the last constituent at its end.
		idx = len(c.parts) - 1
		if _, err := c.parts[idx].Seek(0, io.SeekEnd); err != nil {
			return 0, err
		}
	} else if _, err := c.parts[idx].Seek(local, io.SeekStart); err != nil {
		return 0, err
	}
	for j := idx + 1; j < len(c.parts); j++ {
		if _, err := c.parts[j].Seek(0, io.SeekStart); err != nil {
			return 0, err
		}
	}
	c.cur = idx
	c.pos = abs
	return abs, nil
}

// Length implements Stream. Requires every constituent to be seekable.
func (c *ConcatStream) Length() (int64, error) {
	if c.closed {
		return 0, io.ErrClosedPipe
	}
	if !c.caps.Has(CapSeek) {
		return 0, unsupported("length of concatenated stream with unseekable constituent")
	}
	var total int64
	for _, part := range c.parts {
		l, err := part.Length()
		if err != nil {
			return 0, err
		}
		total += l
	}
	return total, nil
}

// Position implements Stream.
func (c *ConcatStream) Position() (int64, error) {
	if c.closed {
		return 0, io.ErrClosedPipe
	}
	return c.pos, nil
}

// SetLength implements Stream. Concatenated streams are read-only.
func (c *ConcatStream) SetLength(n int64) error {
	return unsupported("set length on concatenated stream")
}

// Flush implements Stream. Concatenated streams are read-only.
func (c *ConcatStream) Flush() error {
	return unsupported("flush concatenated stream")
}

// SetDeadline implements Stream.
func (c *ConcatStream) SetDeadline(t time.Time) error {
	return unsupported("set deadline on concatenated stream")
}

// Close implements Stream. With Own, every constituent is closed; all closes
// are attempted even if an earlier one fails.
func (c *ConcatStream) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	if c.ownership != Own {
		return nil
	}
	var errs []error
	for _, part := range c.parts {
		errs = append(errs, part.Close())
	}
	return errors.Join(errs...)
}
