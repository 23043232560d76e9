package stream

import (
	"fmt"
	"io"
	"time"
	"unicode/utf8"

	"github.com/imdario/mergo"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
)

// TextSource supplies text as UTF-8 bytes to a TextStream. Sources may grow
// between calls but must never shrink; behavior on a shrinking source is
// unspecified.
type TextSource interface {
	// ReadText copies up to len(p) bytes of UTF-8 text into p, advancing
	// the source cursor. It returns io.EOF when no text is currently
	// available past the cursor. A rune may be split across calls.
	ReadText(p []byte) (int, error)
}

// StringSource is a TextSource over an immutable string.
type StringSource struct {
	s   string
	pos int
}

// NewStringSource creates a source reading from s.
func NewStringSource(s string) *StringSource {
	return &StringSource{s: s}
}

// ReadText implements TextSource.
func (s *StringSource) ReadText(p []byte) (int, error) {
	if s.pos >= len(s.s) {
		return 0, io.EOF
	}
	n := copy(p, s.s[s.pos:])
	s.pos += n
	return n, nil
}

// TextBuffer is a growing text container, satisfied by *strings.Builder.
type TextBuffer interface {
	String() string
}

// BufferSource is a TextSource over a mutable text buffer that the owner
// may append to between reads.
type BufferSource struct {
	buf TextBuffer
	pos int
}

// NewBufferSource creates a source reading from buf, typically a
// *strings.Builder.
func NewBufferSource(buf TextBuffer) *BufferSource {
	return &BufferSource{buf: buf}
}

// ReadText implements TextSource. io.EOF means no text is available right
// now; a later call picks up content appended in the meantime.
func (b *BufferSource) ReadText(p []byte) (int, error) {
	s := b.buf.String()
	if b.pos >= len(s) {
		return 0, io.EOF
	}
	n := copy(p, s[b.pos:])
	b.pos += n
	return n, nil
}

// RuneSource is a TextSource over a pull-based rune reader.
type RuneSource struct {
	r   io.RuneReader
	eof bool
}

// NewRuneSource creates a source reading from r.
func NewRuneSource(r io.RuneReader) *RuneSource {
	return &RuneSource{r: r}
}

// ReadText implements TextSource.
func (r *RuneSource) ReadText(p []byte) (int, error) {
	if r.eof {
		return 0, io.EOF
	}
	n := 0
	for n+utf8.UTFMax <= len(p) {
		c, _, err := r.r.ReadRune()
		if err == io.EOF {
			r.eof = true
			if n == 0 {
				return 0, io.EOF
			}
			return n, nil
		}
		if err != nil {
			return n, err
		}
		n += utf8.EncodeRune(p[n:], c)
	}
	return n, nil
}

// TextConfig is the TextStream configuration.
type TextConfig struct {
	// Encoding converts text to bytes. If nil, default value (UTF-8) will
	// be used.
	Encoding encoding.Encoding

	// MinChunk and MaxChunk bound the number of text bytes pulled from the
	// source per refill. If zero, default values (16 and 4096) will be
	// used.
	MinChunk int
	MaxChunk int
}

// DefaultTextConfig returns the default config.
func DefaultTextConfig() *TextConfig {
	return &TextConfig{
		Encoding: unicode.UTF8,
		MinChunk: 16,
		MaxChunk: 4096,
	}
}

// Verify checks whether a config is valid.
func (config *TextConfig) Verify() error {
	if config == nil {
		return fmt.Errorf("nil config: %w", ErrInvalidArgument)
	}
	if config.Encoding == nil {
		return fmt.Errorf("Encoding should not be nil: %w", ErrInvalidArgument)
	}
	if config.MinChunk <= 0 || config.MaxChunk < config.MinChunk {
		return fmt.Errorf("chunk bounds %d..%d: %w", config.MinChunk, config.MaxChunk, ErrInvalidArgument)
	}
	return nil
}

// MergeTextConfig merges a given config with the default config. Any non
// zero value fields will override the default config.
func MergeTextConfig(base, conf *TextConfig) (*TextConfig, error) {
	merged := *base
	if conf != nil {
		err := mergo.Merge(&merged, conf, mergo.WithOverride)
		if err != nil {
			return nil, err
		}
	}
	return &merged, nil
}

// TextStream lazily produces the encoded byte sequence of a text source
// without materializing the whole result up front. It is read-only and not
// seekable.
type TextStream struct {
	src  TextSource
	tf   *XTextTransformer
	conf *TextConfig

	srcBuf      []byte
	encBuf      []byte
	staged      []byte
	stagedStart int
	closed      bool
}

// NewTextStream binds src to an encoder taken from the config. The encoder
// is reset at construction.
func NewTextStream(src TextSource, conf *TextConfig) (*TextStream, error) {
	if src == nil {
		return nil, fmt.Errorf("nil text source: %w", ErrInvalidArgument)
	}
	conf, err := MergeTextConfig(DefaultTextConfig(), conf)
	if err != nil {
		return nil, err
	}
	if err := conf.Verify(); err != nil {
		return nil, err
	}
	tf, err := NewXTextTransformer(conf.Encoding.NewEncoder())
	if err != nil {
		return nil, err
	}
	tf.Reset()
	return &TextStream{
		src:    src,
		tf:     tf,
		conf:   conf,
		srcBuf: make([]byte, conf.MaxChunk),
	}, nil
}

// NewStringStream creates a TextStream over an immutable string.
func NewStringStream(s string, conf *TextConfig) (*TextStream, error) {
	return NewTextStream(NewStringSource(s), conf)
}

// Capabilities implements Stream.
func (t *TextStream) Capabilities() Capability {
	return CapRead
}

// Read implements Stream. Staged bytes are served first; on exhaustion a
// chunk of text is pulled from the source, sized on the heuristic of
// roughly two output bytes per input character within the configured
// bounds, and encoded. The encode is flush-flagged only once the source is
// exhausted; if that call produces nothing, io.EOF is reported.
func (t *TextStream) Read(p []byte) (int, error) {
	if t.closed {
		return 0, io.ErrClosedPipe
	}
	if len(p) == 0 {
		return 0, nil
	}
	for t.stagedStart >= len(t.staged) {
		want := len(p) / 2
		if want < t.conf.MinChunk {
			want = t.conf.MinChunk
		}
		if want > t.conf.MaxChunk {
			want = t.conf.MaxChunk
		}
		n, err := t.src.ReadText(t.srcBuf[:want])
		if err != nil && err != io.EOF {
			return 0, err
		}
		flush := n == 0 && err == io.EOF
		if need := t.tf.MaxOutput(n); cap(t.encBuf) < need {
			t.encBuf = make([]byte, need)
		}
		out, err := t.tf.Transform(t.encBuf[:cap(t.encBuf)], t.srcBuf[:n], flush)
		if err != nil {
			return 0, err
		}
		t.staged, t.stagedStart = out, 0
		if flush && len(out) == 0 {
			return 0, io.EOF
		}
	}
	n := copy(p, t.staged[t.stagedStart:])
	t.stagedStart += n
	return n, nil
}

// ReadByte implements Stream.
func (t *TextStream) ReadByte() (byte, error) {
	return readByteFrom(t)
}

// Write implements Stream. Text streams are read-only.
func (t *TextStream) Write(p []byte) (int, error) {
	return 0, unsupported("write to text stream")
}

// WriteByte implements Stream.
func (t *TextStream) WriteByte(c byte) error {
	return unsupported("write to text stream")
}

// Seek implements Stream. Text streams are not seekable.
func (t *TextStream) Seek(offset int64, whence int) (int64, error) {
	return 0, unsupported("seek in text stream")
}

// Length implements Stream. The encoded length is unknown until the source
// is exhausted.
func (t *TextStream) Length() (int64, error) {
	return 0, unsupported("length of text stream")
}

// Position implements Stream.
func (t *TextStream) Position() (int64, error) {
	return 0, unsupported("position of text stream")
}

// SetLength implements Stream.
func (t *TextStream) SetLength(n int64) error {
	return unsupported("set length on text stream")
}

// Flush implements Stream.
func (t *TextStream) Flush() error {
	return unsupported("flush text stream")
}

// SetDeadline implements Stream.
func (t *TextStream) SetDeadline(d time.Time) error {
	return unsupported("set deadline on text stream")
}

// Close implements Stream. Text sources hold no releasable resources.
func (t *TextStream) Close() error {
	t.closed = true
	return nil
}
