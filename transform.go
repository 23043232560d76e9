package stream

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/imdario/mergo"
)

// Transformer is a stateful, incremental transform. A call consumes all of
// src and produces a variable number of output bytes; partial frames are
// carried internally across calls. flush is true only when no further input
// will arrive, allowing the transform to emit trailing output such as
// padding or to report truncated input.
//
// dst has at least MaxOutput(len(src)) bytes of capacity. The returned slice
// holds the produced output; it normally aliases dst, but an in-place
// transform called with dst sharing src's backing array may return a slice
// of that shared array.
type Transformer interface {
	// Transform consumes src and returns the produced output.
	Transform(dst, src []byte, flush bool) ([]byte, error)

	// MaxOutput returns an upper estimate of the output produced for n
	// input bytes plus any trailing state. It is only used to size buffers,
	// so overestimate is ok.
	MaxOutput(n int) int

	// InPlace reports whether the transform may write its output directly
	// into the buffer holding its input. In-place transforms never produce
	// more output than input in a single call.
	InPlace() bool

	// Reset returns the transform to its initial state.
	Reset()
}

// Identity is the pass-through Transformer.
type Identity struct{}

// Transform implements Transformer.
func (Identity) Transform(dst, src []byte, flush bool) ([]byte, error) {
	n := copy(dst[:len(src)], src)
	return dst[:n], nil
}

// MaxOutput implements Transformer.
func (Identity) MaxOutput(n int) int { return n }

// InPlace implements Transformer.
func (Identity) InPlace() bool { return true }

// Reset implements Transformer.
func (Identity) Reset() {}

// TransformConfig is the TransformStream configuration.
type TransformConfig struct {
	// ReadTransformer decodes data read from the underlying stream. Nil
	// means pass-through.
	ReadTransformer Transformer

	// WriteTransformer encodes data before it is written to the underlying
	// stream. Nil means pass-through.
	WriteTransformer Transformer

	// ChunkSize is the number of bytes pulled from the underlying stream
	// per refill and the max number of bytes encoded per transform call on
	// the write path. If zero, default value (32768) will be used.
	ChunkSize int

	// Ownership decides whether closing the adapter closes the underlying
	// stream.
	Ownership Ownership
}

// DefaultTransformConfig returns the default config.
func DefaultTransformConfig() *TransformConfig {
	return &TransformConfig{
		ChunkSize: 32768,
	}
}

// Verify checks whether a config is valid.
func (config *TransformConfig) Verify() error {
	if config == nil {
		return fmt.Errorf("nil config: %w", ErrInvalidArgument)
	}
	if config.ChunkSize <= 0 {
		return fmt.Errorf("ChunkSize should be greater than 0: %w", ErrInvalidArgument)
	}
	return nil
}

// MergeTransformConfig merges a given config with the default config. Any
// non zero value fields will override the default config.
func MergeTransformConfig(base, conf *TransformConfig) (*TransformConfig, error) {
	merged := *base
	if conf != nil {
		err := mergo.Merge(&merged, conf, mergo.WithOverride)
		if err != nil {
			return nil, err
		}
	}
	return &merged, nil
}

// TransformStream applies independent read-side and write-side incremental
// transforms to data flowing between the caller and an underlying stream.
// Data written is encoded before reaching the underlying stream; data read
// is decoded after leaving it. Transform streams are not seekable, and
// length and position are undefined unless both sides are pass-through.
type TransformStream struct {
	config *TransformConfig
	base   Stream

	readTF  Transformer
	writeTF Transformer

	readBuf     []byte // raw chunk pulled from the underlying stream
	decodeBuf   []byte // decode output for transforms that are not in-place
	staged      []byte // decoded but not yet delivered bytes
	stagedStart int
	baseEOF     bool
	readFlushed bool

	encodeBuf []byte
	wroteAny  bool
	finalized bool
	closed    bool
}

// NewTransformStream creates a TransformStream over base with the given
// config. Transformers are reset at construction.
func NewTransformStream(base Stream, conf *TransformConfig) (*TransformStream, error) {
	if base == nil {
		return nil, fmt.Errorf("nil underlying stream: %w", ErrInvalidArgument)
	}
	conf, err := MergeTransformConfig(DefaultTransformConfig(), conf)
	if err != nil {
		return nil, err
	}
	if err := conf.Verify(); err != nil {
		return nil, err
	}

	ts := &TransformStream{
		config:  conf,
		base:    base,
		readTF:  conf.ReadTransformer,
		writeTF: conf.WriteTransformer,
	}
	if ts.readTF != nil {
		ts.readTF.Reset()
		ts.readBuf = make([]byte, conf.ChunkSize)
	}
	if ts.writeTF != nil {
		ts.writeTF.Reset()
	}
	return ts, nil
}

// Capabilities implements Stream. Readability and writability follow the
// underlying stream; transform streams are never seekable.
func (ts *TransformStream) Capabilities() Capability {
	return ts.base.Capabilities() &^ CapSeek
}

func (ts *TransformStream) passThrough() bool {
	return ts.readTF == nil && ts.writeTF == nil
}

// Read implements Stream. Decoded bytes are staged internally; when the
// staging buffer runs dry a chunk is pulled from the underlying stream and
// decoded. Reaching the end of the underlying stream triggers one final
// flush-flagged transform call so a stateful transform can emit trailing
// output; if that call produces nothing, io.EOF is reported.
func (ts *TransformStream) Read(p []byte) (int, error) {
	if ts.closed {
		return 0, io.ErrClosedPipe
	}
	if !ts.base.Capabilities().Has(CapRead) {
		return 0, unsupported("read from transform stream over unreadable stream")
	}
	if ts.readTF == nil {
		return ts.base.Read(p)
	}
	for ts.stagedStart >= len(ts.staged) {
		if ts.readFlushed {
			return 0, io.EOF
		}
		if err := ts.refill(); err != nil {
			return 0, err
		}
	}
	n := copy(p, ts.staged[ts.stagedStart:])
	ts.stagedStart += n
	return n, nil
}

// refill pulls one chunk from the underlying stream and decodes it into the
// staging buffer.
func (ts *TransformStream) refill() error {
	n := 0
	for n == 0 && !ts.baseEOF {
		var err error
		n, err = ts.base.Read(ts.readBuf)
		if err == io.EOF {
			ts.baseEOF = true
		} else if err != nil {
			return err
		}
	}

	flush := ts.baseEOF
	var out []byte
	var err error
	if ts.readTF.InPlace() {
		out, err = ts.readTF.Transform(ts.readBuf, ts.readBuf[:n], flush)
	} else {
		if need := ts.readTF.MaxOutput(n); cap(ts.decodeBuf) < need {
			ts.decodeBuf = make([]byte, need)
		}
		out, err = ts.readTF.Transform(ts.decodeBuf[:cap(ts.decodeBuf)], ts.readBuf[:n], flush)
	}
	if err != nil {
		return err
	}
	ts.staged = out
	ts.stagedStart = 0
	ts.readFlushed = flush
	return nil
}

// ReadByte implements Stream.
func (ts *TransformStream) ReadByte() (byte, error) {
	return readByteFrom(ts)
}

// Write implements Stream. Every write is transformed immediately and the
// produced bytes are pushed to the underlying stream; only internal encoder
// state is held back between calls.
func (ts *TransformStream) Write(p []byte) (int, error) {
	if ts.closed {
		return 0, io.ErrClosedPipe
	}
	if !ts.base.Capabilities().Has(CapWrite) {
		return 0, unsupported("write to transform stream over unwritable stream")
	}
	if ts.writeTF == nil {
		return ts.base.Write(p)
	}
	if ts.finalized {
		return 0, fmt.Errorf("write after flush of encoder state: %w", ErrInvalidArgument)
	}
	ts.wroteAny = true

	written := 0
	for written < len(p) {
		n := len(p) - written
		if n > ts.config.ChunkSize {
			n = ts.config.ChunkSize
		}
		if err := ts.encode(p[written:written+n], false); err != nil {
			return written, err
		}
		written += n
	}
	return written, nil
}

// encode runs one transform call over src and pushes the output to the
// underlying stream.
func (ts *TransformStream) encode(src []byte, flush bool) error {
	if need := ts.writeTF.MaxOutput(len(src)); cap(ts.encodeBuf) < need {
		ts.encodeBuf = make([]byte, need)
	}
	out, err := ts.writeTF.Transform(ts.encodeBuf[:cap(ts.encodeBuf)], src, flush)
	if err != nil {
		return err
	}
	if len(out) == 0 {
		return nil
	}
	return writeFull(ts.base, out)
}

// WriteByte implements Stream.
func (ts *TransformStream) WriteByte(c byte) error {
	return writeByteTo(ts, c)
}

// Seek implements Stream. Transform streams are not seekable.
func (ts *TransformStream) Seek(offset int64, whence int) (int64, error) {
	return 0, unsupported("seek in transform stream")
}

// Length implements Stream. Only defined in pass-through mode.
func (ts *TransformStream) Length() (int64, error) {
	if ts.closed {
		return 0, io.ErrClosedPipe
	}
	if !ts.passThrough() {
		return 0, unsupported("length of transform stream")
	}
	return ts.base.Length()
}

// Position implements Stream. Only defined in pass-through mode.
func (ts *TransformStream) Position() (int64, error) {
	if ts.closed {
		return 0, io.ErrClosedPipe
	}
	if !ts.passThrough() {
		return 0, unsupported("position of transform stream")
	}
	return ts.base.Position()
}

// SetLength implements Stream.
func (ts *TransformStream) SetLength(n int64) error {
	return unsupported("set length on transform stream")
}

// Flush implements Stream. The first flush after writes performs one final
// zero-length, flush-flagged transform call to drain trailing encoder state;
// the encoded sequence is complete afterwards and further writes fail.
func (ts *TransformStream) Flush() error {
	if ts.closed {
		return io.ErrClosedPipe
	}
	if err := ts.drainEncoder(); err != nil {
		return err
	}
	return ts.base.Flush()
}

func (ts *TransformStream) drainEncoder() error {
	if ts.writeTF == nil || ts.finalized {
		return nil
	}
	ts.finalized = true
	return ts.encode(nil, true)
}

// SetDeadline implements Stream.
func (ts *TransformStream) SetDeadline(t time.Time) error {
	if ts.closed {
		return io.ErrClosedPipe
	}
	return ts.base.SetDeadline(t)
}

// Close implements Stream. If any write occurred and the encoder state was
// never flushed, it is drained first so the underlying stream always holds a
// complete encoded sequence.
func (ts *TransformStream) Close() error {
	if ts.closed {
		return nil
	}
	var flushErr error
	if ts.wroteAny && !ts.finalized {
		flushErr = ts.drainEncoder()
	}
	ts.closed = true
	var closeErr error
	if ts.config.Ownership == Own {
		closeErr = ts.base.Close()
	}
	return errors.Join(flushErr, closeErr)
}
