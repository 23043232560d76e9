package stream

import (
	"encoding/base64"
	"fmt"
)

// Base64Encoder is a Transformer producing base64 text from raw bytes. Input
// that does not fill a 3-byte quantum is carried to the next call; the flush
// call encodes the remainder with padding.
type Base64Encoder struct {
	enc   *base64.Encoding
	carry [3]byte
	n     int
}

// NewBase64Encoder creates a Base64Encoder. A nil encoding means
// base64.StdEncoding.
func NewBase64Encoder(enc *base64.Encoding) *Base64Encoder {
	if enc == nil {
		enc = base64.StdEncoding
	}
	return &Base64Encoder{enc: enc}
}

// Transform implements Transformer.
func (t *Base64Encoder) Transform(dst, src []byte, flush bool) ([]byte, error) {
	out := dst[:0]
	i := 0

	if t.n > 0 {
		for t.n < 3 && i < len(src) {
			t.carry[t.n] = src[i]
			t.n++
			i++
		}
		if t.n == 3 {
			var quantum [4]byte
			t.enc.Encode(quantum[:], t.carry[:])
			out = append(out, quantum[:]...)
			t.n = 0
		}
	}

	if full := (len(src) - i) / 3 * 3; full > 0 {
		m := len(out)
		out = append(out, make([]byte, t.enc.EncodedLen(full))...)
		t.enc.Encode(out[m:], src[i:i+full])
		i += full
	}

	for ; i < len(src); i++ {
		t.carry[t.n] = src[i]
		t.n++
	}

	if flush && t.n > 0 {
		m := len(out)
		out = append(out, make([]byte, t.enc.EncodedLen(t.n))...)
		t.enc.Encode(out[m:], t.carry[:t.n])
		t.n = 0
	}

	return out, nil
}

// MaxOutput implements Transformer.
func (t *Base64Encoder) MaxOutput(n int) int {
	return t.enc.EncodedLen(n + 3)
}

// InPlace implements Transformer.
func (t *Base64Encoder) InPlace() bool { return false }

// Reset implements Transformer.
func (t *Base64Encoder) Reset() { t.n = 0 }

// Base64Decoder is a Transformer recovering raw bytes from base64 text.
// Input that does not fill a 4-byte quantum is carried to the next call; a
// remainder left at flush time is reported as truncated input.
type Base64Decoder struct {
	enc   *base64.Encoding
	carry [4]byte
	n     int
}

// NewBase64Decoder creates a Base64Decoder. A nil encoding means
// base64.StdEncoding.
func NewBase64Decoder(enc *base64.Encoding) *Base64Decoder {
	if enc == nil {
		enc = base64.StdEncoding
	}
	return &Base64Decoder{enc: enc}
}

// Transform implements Transformer.
func (t *Base64Decoder) Transform(dst, src []byte, flush bool) ([]byte, error) {
	out := dst[:0]
	i := 0

	if t.n > 0 {
		for t.n < 4 && i < len(src) {
			t.carry[t.n] = src[i]
			t.n++
			i++
		}
		if t.n == 4 {
			var quantum [3]byte
			n, err := t.enc.Decode(quantum[:], t.carry[:])
			if err != nil {
				return nil, err
			}
			out = append(out, quantum[:n]...)
			t.n = 0
		}
	}

	if full := (len(src) - i) / 4 * 4; full > 0 {
		m := len(out)
		out = append(out, make([]byte, t.enc.DecodedLen(full))...)
		n, err := t.enc.Decode(out[m:], src[i:i+full])
		if err != nil {
			return nil, err
		}
		out = out[:m+n]
		i += full
	}

	for ; i < len(src); i++ {
		t.carry[t.n] = src[i]
		t.n++
	}

	if flush && t.n > 0 {
		return nil, fmt.Errorf("truncated base64 input, %d trailing bytes: %w", t.n, ErrInvalidArgument)
	}

	return out, nil
}

// MaxOutput implements Transformer.
func (t *Base64Decoder) MaxOutput(n int) int {
	return t.enc.DecodedLen(n+4) + 3
}

// InPlace implements Transformer.
func (t *Base64Decoder) InPlace() bool { return false }

// Reset implements Transformer.
func (t *Base64Decoder) Reset() { t.n = 0 }
