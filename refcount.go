package stream

import (
	"fmt"
)

// RefCountStream shares one underlying stream across multiple consumers
// that each believe they exclusively own and must close it. The stream
// survives all but the last of the expected Close calls: constructed with
// count n, the underlying stream is closed exactly once, on the n-th Close,
// and further calls are no-ops. All other operations pass through
// unchanged.
type RefCountStream struct {
	*DelegateStream
	refs int
}

// NewRefCountStream wraps base, expecting count Close calls. count must be
// at least 1.
func NewRefCountStream(base Stream, count int) (*RefCountStream, error) {
	if count < 1 {
		return nil, fmt.Errorf("reference count %d, must be at least 1: %w", count, ErrInvalidArgument)
	}
	d, err := NewDelegateStream(base, Own)
	if err != nil {
		return nil, err
	}
	return &RefCountStream{DelegateStream: d, refs: count}, nil
}

// Refs returns the number of Close calls still expected.
func (r *RefCountStream) Refs() int {
	return r.refs
}

// Close implements Stream. Each call decrements the count; the underlying
// stream is closed when it first reaches zero and never again thereafter.
func (r *RefCountStream) Close() error {
	if r.refs == 0 {
		return nil
	}
	r.refs--
	if r.refs == 0 {
		return r.DelegateStream.Close()
	}
	return nil
}
