package stream

import (
	"errors"
)

// Error kinds reported by this package. Adapters wrap these sentinels with
// contextual detail, so callers should match with errors.Is. A closed stream
// reports io.ErrClosedPipe on further use.
var (
	// ErrUnsupported is returned when an operation is not supported by a
	// stream, e.g. writing to a read-only adapter or seeking a non-seekable
	// one. Unsupported operations fail immediately and are never silently
	// ignored.
	ErrUnsupported = errors.New("operation not supported")

	// ErrOutOfRange is returned when a seek target or length falls outside
	// the valid range of a stream.
	ErrOutOfRange = errors.New("offset out of range")

	// ErrInvalidArgument is returned for nil or missing required streams and
	// transformers, and for constituents lacking a required capability.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrConflict is returned for configurations that are individually valid
	// but cannot be combined, e.g. shared mode over an unseekable stream.
	ErrConflict = errors.New("conflicting configuration")
)
