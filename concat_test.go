package stream

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConcatStreamReadAll(t *testing.T) {
	a := randomData(t, 1000)
	b := randomData(t, 1)
	c := randomData(t, 4096)

	concat, err := NewConcatStream([]Stream{
		NewMemoryStream(a),
		NewMemoryStream(nil), // zero-length constituents span correctly
		NewMemoryStream(b),
		NewMemoryStream(c),
	}, Borrow)
	require.NoError(t, err)

	want := bytes.Join([][]byte{a, b, c}, nil)
	got, err := io.ReadAll(concat)
	require.NoError(t, err)
	require.Equal(t, want, got)

	length, err := concat.Length()
	require.NoError(t, err)
	require.EqualValues(t, len(want), length)
}

func TestConcatStreamEmpty(t *testing.T) {
	concat, err := NewConcatStream(nil, Borrow)
	require.NoError(t, err)

	length, err := concat.Length()
	require.NoError(t, err)
	require.EqualValues(t, 0, length)

	_, err = concat.Read(make([]byte, 8))
	require.Equal(t, io.EOF, err)

	pos, err := concat.Seek(0, io.SeekStart)
	require.NoError(t, err)
	require.EqualValues(t, 0, pos)
}

func TestConcatStreamSeekThenReadMatchesSkip(t *testing.T) {
	parts := [][]byte{
		randomData(t, 100),
		randomData(t, 50),
		{},
		randomData(t, 200),
	}
	want := bytes.Join(parts, nil)

	newConcat := func() *ConcatStream {
		streams := make([]Stream, len(parts))
		for i, p := range parts {
			streams[i] = NewMemoryStream(p)
		}
		concat, err := NewConcatStream(streams, Borrow)
		require.NoError(t, err)
		return concat
	}

	for _, k := range []int64{0, 1, 99, 100, 149, 150, 151, 349, 350} {
		concat := newConcat()
		pos, err := concat.Seek(k, io.SeekStart)
		require.NoError(t, err)
		require.Equal(t, k, pos)

		got, err := io.ReadAll(concat)
		require.NoError(t, err)
		require.Equal(t, want[k:], got, "seek to %d", k)
	}
}

func TestConcatStreamSeekBackwards(t *testing.T) {
	a := randomData(t, 64)
	b := randomData(t, 64)
	concat, err := NewConcatStream([]Stream{NewMemoryStream(a), NewMemoryStream(b)}, Borrow)
	require.NoError(t, err)

	// Read through the boundary, then rewind; the tail constituent must
	// start clean on the second pass.
	first, err := io.ReadAll(concat)
	require.NoError(t, err)

	_, err = concat.Seek(0, io.SeekStart)
	require.NoError(t, err)
	second, err := io.ReadAll(concat)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestConcatStreamSeekOutOfRange(t *testing.T) {
	concat, err := NewConcatStream([]Stream{NewMemoryStream(make([]byte, 10))}, Borrow)
	require.NoError(t, err)

	_, err = concat.Seek(-1, io.SeekStart)
	require.ErrorIs(t, err, ErrOutOfRange)
	_, err = concat.Seek(11, io.SeekStart)
	require.ErrorIs(t, err, ErrOutOfRange)
	_, err = concat.Seek(1, io.SeekEnd)
	require.ErrorIs(t, err, ErrOutOfRange)
}

func TestConcatStreamUnseekableConstituent(t *testing.T) {
	r, err := NewReaderStream(bytes.NewBufferString("abc"))
	require.NoError(t, err)
	concat, err := NewConcatStream([]Stream{NewMemoryStream([]byte("xy")), r}, Borrow)
	require.NoError(t, err)

	require.False(t, concat.Capabilities().Has(CapSeek))
	_, err = concat.Seek(0, io.SeekStart)
	require.ErrorIs(t, err, ErrUnsupported)
	_, err = concat.Length()
	require.ErrorIs(t, err, ErrUnsupported)

	got, err := io.ReadAll(concat)
	require.NoError(t, err)
	require.Equal(t, "xyabc", string(got))
}

func TestConcatStreamRejectsBadConstituents(t *testing.T) {
	_, err := NewConcatStream([]Stream{nil}, Borrow)
	require.ErrorIs(t, err, ErrInvalidArgument)

	var buf bytes.Buffer
	w, err := NewWriterStream(&buf)
	require.NoError(t, err)
	_, err = NewConcatStream([]Stream{w}, Borrow)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestConcatStreamReadOnly(t *testing.T) {
	concat, err := NewConcatStream([]Stream{NewMemoryStream([]byte("a"))}, Borrow)
	require.NoError(t, err)

	_, err = concat.Write([]byte("x"))
	require.ErrorIs(t, err, ErrUnsupported)
	require.ErrorIs(t, concat.SetLength(4), ErrUnsupported)
}

func TestConcatStreamOwnership(t *testing.T) {
	a := &closeCounter{MemoryStream: NewMemoryStream(nil)}
	b := &closeCounter{MemoryStream: NewMemoryStream(nil)}
	concat, err := NewConcatStream([]Stream{a, b}, Own)
	require.NoError(t, err)
	require.NoError(t, concat.Close())
	require.NoError(t, concat.Close())
	require.Equal(t, 1, a.closes)
	require.Equal(t, 1, b.closes)
}
