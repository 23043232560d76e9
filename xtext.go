package stream

import (
	"fmt"

	"golang.org/x/text/transform"
)

// XTextTransformer adapts a golang.org/x/text transform.Transformer to this
// package's Transformer contract. Input the wrapped transformer cannot
// consume yet, such as an incomplete rune at a chunk boundary, is carried to
// the next call.
type XTextTransformer struct {
	tr      transform.Transformer
	pending []byte
}

// NewXTextTransformer wraps tr. Construction fails on a nil transformer.
func NewXTextTransformer(tr transform.Transformer) (*XTextTransformer, error) {
	if tr == nil {
		return nil, fmt.Errorf("nil text transformer: %w", ErrInvalidArgument)
	}
	return &XTextTransformer{tr: tr}, nil
}

// Transform implements Transformer.
func (t *XTextTransformer) Transform(dst, src []byte, flush bool) ([]byte, error) {
	in := src
	if len(t.pending) > 0 {
		t.pending = append(t.pending, src...)
		in = t.pending
	}

	out := dst[:0]
	pos := 0
	for {
		if len(out) == cap(out) {
			out = growBuffer(out)
		}
		nDst, nSrc, err := t.tr.Transform(out[len(out):cap(out)], in[pos:], flush)
		out = out[:len(out)+nDst]
		pos += nSrc

		if err == nil {
			break
		}
		if err == transform.ErrShortDst {
			out = growBuffer(out)
			continue
		}
		if err == transform.ErrShortSrc {
			if flush {
				return nil, fmt.Errorf("incomplete input at end of stream: %w", ErrInvalidArgument)
			}
			break
		}
		return nil, err
	}

	// Carry unconsumed input; copy is overlap-safe when in aliases pending.
	rest := in[pos:]
	t.pending = append(t.pending[:0], rest...)
	return out, nil
}

// MaxOutput implements Transformer. Charset transforms rarely expand beyond
// a small factor; the estimate is advisory and the buffer grows on demand.
func (t *XTextTransformer) MaxOutput(n int) int {
	return 2*n + 32
}

// InPlace implements Transformer.
func (t *XTextTransformer) InPlace() bool { return false }

// Reset implements Transformer.
func (t *XTextTransformer) Reset() {
	t.tr.Reset()
	t.pending = t.pending[:0]
}

// growBuffer returns a buffer with the same contents and strictly larger
// capacity.
func growBuffer(b []byte) []byte {
	grown := make([]byte, len(b), 2*cap(b)+64)
	copy(grown, b)
	return grown
}
