package stream

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

func TestTextStreamSingleByteEncoding(t *testing.T) {
	conf := &TextConfig{Encoding: charmap.ISO8859_1}

	// All at once.
	ts, err := NewStringStream("hello", conf)
	require.NoError(t, err)
	got, err := io.ReadAll(ts)
	require.NoError(t, err)
	require.Equal(t, []byte{'h', 'e', 'l', 'l', 'o'}, got)

	// One byte at a time yields the identical sequence.
	ts, err = NewStringStream("hello", conf)
	require.NoError(t, err)
	var single []byte
	for {
		b, err := ts.ReadByte()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		single = append(single, b)
	}
	require.Equal(t, got, single)
}

func TestTextStreamUTF16Encoding(t *testing.T) {
	utf16 := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
	ts, err := NewStringStream("hi", &TextConfig{Encoding: utf16})
	require.NoError(t, err)

	got, err := io.ReadAll(ts)
	require.NoError(t, err)
	require.Equal(t, []byte{0, 'h', 0, 'i'}, got)
}

func TestTextStreamLargeInput(t *testing.T) {
	text := strings.Repeat("lazy encoding of a long text ", 1000)
	ts, err := NewStringStream(text, &TextConfig{MinChunk: 8, MaxChunk: 64})
	require.NoError(t, err)

	got, err := io.ReadAll(ts)
	require.NoError(t, err)
	require.Equal(t, text, string(got))
}

func TestTextStreamEmptySource(t *testing.T) {
	ts, err := NewStringStream("", nil)
	require.NoError(t, err)
	_, err = ts.Read(make([]byte, 4))
	require.Equal(t, io.EOF, err)
}

func TestTextStreamGrowingBuffer(t *testing.T) {
	var b strings.Builder
	b.WriteString("first")
	ts, err := NewTextStream(NewBufferSource(&b), nil)
	require.NoError(t, err)

	got, err := io.ReadAll(ts)
	require.NoError(t, err)
	require.Equal(t, "first", string(got))

	// The owner appends after the stream drained; reads pick it up.
	b.WriteString(" second")
	got, err = io.ReadAll(ts)
	require.NoError(t, err)
	require.Equal(t, " second", string(got))
}

func TestTextStreamRuneReaderSource(t *testing.T) {
	ts, err := NewTextStream(NewRuneSource(strings.NewReader("déjà vu, 日本語")), nil)
	require.NoError(t, err)

	got, err := io.ReadAll(ts)
	require.NoError(t, err)
	require.Equal(t, "déjà vu, 日本語", string(got))
}

func TestTextStreamReadOnly(t *testing.T) {
	ts, err := NewStringStream("abc", nil)
	require.NoError(t, err)

	require.Equal(t, CapRead, ts.Capabilities())
	_, err = ts.Write([]byte("x"))
	require.ErrorIs(t, err, ErrUnsupported)
	_, err = ts.Seek(0, io.SeekStart)
	require.ErrorIs(t, err, ErrUnsupported)
	_, err = ts.Length()
	require.ErrorIs(t, err, ErrUnsupported)
}

func TestTextStreamRejectsNilSource(t *testing.T) {
	_, err := NewTextStream(nil, nil)
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = NewStringStream("x", &TextConfig{MinChunk: 10, MaxChunk: 5})
	require.ErrorIs(t, err, ErrInvalidArgument)
}
