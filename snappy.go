package stream

import (
	"encoding/binary"
	"fmt"

	"github.com/golang/snappy"
)

// SnappyEncoder is a Transformer compressing data as a sequence of
// uvarint-length-prefixed snappy blocks, one block per call. The framing
// lets the decoder recover block boundaries from an arbitrarily chunked
// stream.
type SnappyEncoder struct {
	scratch []byte
}

// NewSnappyEncoder creates a SnappyEncoder.
func NewSnappyEncoder() *SnappyEncoder {
	return &SnappyEncoder{}
}

// Transform implements Transformer.
func (t *SnappyEncoder) Transform(dst, src []byte, flush bool) ([]byte, error) {
	out := dst[:0]
	if len(src) == 0 {
		return out, nil
	}
	t.scratch = snappy.Encode(t.scratch[:cap(t.scratch)], src)

	var lenBuf [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(lenBuf[:], uint64(len(t.scratch)))
	out = append(out, lenBuf[:n]...)
	out = append(out, t.scratch...)
	return out, nil
}

// MaxOutput implements Transformer.
func (t *SnappyEncoder) MaxOutput(n int) int {
	return snappy.MaxEncodedLen(n) + binary.MaxVarintLen64
}

// InPlace implements Transformer.
func (t *SnappyEncoder) InPlace() bool { return false }

// Reset implements Transformer.
func (t *SnappyEncoder) Reset() {}

// SnappyDecoder is the inverse of SnappyEncoder. Frames split across calls
// are reassembled internally; a partial frame left at flush time is reported
// as truncated input.
type SnappyDecoder struct {
	pending []byte
	scratch []byte
}

// NewSnappyDecoder creates a SnappyDecoder.
func NewSnappyDecoder() *SnappyDecoder {
	return &SnappyDecoder{}
}

// Transform implements Transformer.
func (t *SnappyDecoder) Transform(dst, src []byte, flush bool) ([]byte, error) {
	t.pending = append(t.pending, src...)
	out := dst[:0]

	for {
		blockLen, n := binary.Uvarint(t.pending)
		if n < 0 {
			return nil, fmt.Errorf("invalid snappy frame header: %w", ErrInvalidArgument)
		}
		if n == 0 || uint64(len(t.pending)-n) < blockLen {
			break
		}
		block := t.pending[n : n+int(blockLen)]
		decoded, err := snappy.Decode(t.scratch[:cap(t.scratch)], block)
		if err != nil {
			return nil, err
		}
		t.scratch = decoded
		out = append(out, decoded...)
		t.pending = t.pending[:copy(t.pending, t.pending[n+int(blockLen):])]
	}

	if flush && len(t.pending) > 0 {
		return nil, fmt.Errorf("truncated snappy frame, %d trailing bytes: %w", len(t.pending), ErrInvalidArgument)
	}
	return out, nil
}

// MaxOutput implements Transformer. Compression ratios are unknown up
// front; the estimate is coarse and the stream grows the buffer on demand.
func (t *SnappyDecoder) MaxOutput(n int) int {
	return 4*n + 64
}

// InPlace implements Transformer.
func (t *SnappyDecoder) InPlace() bool { return false }

// Reset implements Transformer.
func (t *SnappyDecoder) Reset() {
	t.pending = t.pending[:0]
}
