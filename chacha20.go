package stream

import (
	"golang.org/x/crypto/chacha20"
)

// ChaCha20Transformer is a Transformer XORing data with a ChaCha20
// keystream. It is its own inverse: the same key and nonce encrypt and
// decrypt. The transform is 1:1, stateful across calls and in-place capable,
// and emits no trailing output on flush.
//
// Note: the keystream provides confidentiality only, no authentication.
type ChaCha20Transformer struct {
	key    []byte
	nonce  []byte
	cipher *chacha20.Cipher
}

// NewChaCha20Transformer creates a ChaCha20Transformer with a given key and
// nonce. The key must be 32 bytes; the nonce 12 or 24 bytes.
func NewChaCha20Transformer(key, nonce []byte) (*ChaCha20Transformer, error) {
	c, err := chacha20.NewUnauthenticatedCipher(key, nonce)
	if err != nil {
		return nil, err
	}
	return &ChaCha20Transformer{
		key:    append([]byte(nil), key...),
		nonce:  append([]byte(nil), nonce...),
		cipher: c,
	}, nil
}

// Transform implements Transformer.
func (t *ChaCha20Transformer) Transform(dst, src []byte, flush bool) ([]byte, error) {
	out := dst[:len(src)]
	t.cipher.XORKeyStream(out, src)
	return out, nil
}

// MaxOutput implements Transformer.
func (t *ChaCha20Transformer) MaxOutput(n int) int { return n }

// InPlace implements Transformer. XORKeyStream supports dst aliasing src.
func (t *ChaCha20Transformer) InPlace() bool { return true }

// Reset implements Transformer. The keystream restarts from the beginning.
func (t *ChaCha20Transformer) Reset() {
	// Key and nonce were validated at construction, so this cannot fail.
	t.cipher, _ = chacha20.NewUnauthenticatedCipher(t.key, t.nonce)
}
