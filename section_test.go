package stream

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSectionStreamRead(t *testing.T) {
	base := NewMemoryStream([]byte("0123456789abcdefghij"))
	view, err := NewSectionStream(base, 5, 10, nil)
	require.NoError(t, err)

	length, err := view.Length()
	require.NoError(t, err)
	require.EqualValues(t, 10, length)

	got, err := io.ReadAll(view)
	require.NoError(t, err)
	require.Equal(t, "56789abcde", string(got))

	// Reading at the view's end never touches data outside the range.
	_, err = view.Read(make([]byte, 1))
	require.Equal(t, io.EOF, err)
}

func TestSectionStreamWriteAndExtend(t *testing.T) {
	underlying := make([]byte, 100)
	base := NewMemoryStream(underlying)
	view, err := NewSectionStream(base, 10, 20, nil)
	require.NoError(t, err)

	// Writing past the view's end fails until the length is extended.
	_, err = view.Write(make([]byte, 25))
	require.ErrorIs(t, err, ErrOutOfRange)

	require.NoError(t, view.SetLength(30))
	length, err := view.Length()
	require.NoError(t, err)
	require.EqualValues(t, 30, length)

	payload := bytes.Repeat([]byte{'x'}, 25)
	n, err := view.Write(payload)
	require.NoError(t, err)
	require.Equal(t, 25, n)

	baseLen, err := base.Length()
	require.NoError(t, err)
	require.GreaterOrEqual(t, baseLen, int64(40))
	require.Equal(t, payload, base.Bytes()[10:35])
}

func TestSectionStreamSetLengthClampsPosition(t *testing.T) {
	base := NewMemoryStream(make([]byte, 50))
	view, err := NewSectionStream(base, 0, 40, nil)
	require.NoError(t, err)

	_, err = view.Seek(0, io.SeekEnd)
	require.NoError(t, err)
	require.NoError(t, view.SetLength(10))

	pos, err := view.Position()
	require.NoError(t, err)
	require.EqualValues(t, 10, pos)
}

func TestSectionStreamSeekBounds(t *testing.T) {
	base := NewMemoryStream([]byte("0123456789"))
	view, err := NewSectionStream(base, 2, 6, nil)
	require.NoError(t, err)

	_, err = view.Seek(-1, io.SeekStart)
	require.ErrorIs(t, err, ErrOutOfRange)
	_, err = view.Seek(7, io.SeekStart)
	require.ErrorIs(t, err, ErrOutOfRange)
	_, err = view.Seek(1, io.SeekEnd)
	require.ErrorIs(t, err, ErrOutOfRange)

	pos, err := view.Seek(-2, io.SeekEnd)
	require.NoError(t, err)
	require.EqualValues(t, 4, pos)

	b, err := view.ReadByte()
	require.NoError(t, err)
	require.Equal(t, byte('6'), b)
}

func TestSectionStreamSharedMode(t *testing.T) {
	base := NewMemoryStream([]byte("0123456789"))
	view, err := NewSectionStream(base, 4, 4, &SectionConfig{Shared: true})
	require.NoError(t, err)

	// Another consumer repositions the underlying stream between calls;
	// shared mode re-synchronizes before each operation.
	_, err = base.Seek(0, io.SeekStart)
	require.NoError(t, err)

	b, err := view.ReadByte()
	require.NoError(t, err)
	require.Equal(t, byte('4'), b)

	_, err = base.Seek(9, io.SeekStart)
	require.NoError(t, err)

	b, err = view.ReadByte()
	require.NoError(t, err)
	require.Equal(t, byte('5'), b)
}

func TestSectionStreamSharedUnseekableRejected(t *testing.T) {
	r, err := NewReaderStream(bytes.NewBufferString("0123456789"))
	require.NoError(t, err)
	_, err = NewSectionStream(r, 2, 4, &SectionConfig{Shared: true})
	require.ErrorIs(t, err, ErrConflict)
}

func TestSectionStreamUnseekableDiscardsStart(t *testing.T) {
	r, err := NewReaderStream(bytes.NewBufferString("0123456789"))
	require.NoError(t, err)
	view, err := NewSectionStream(r, 3, 4, nil)
	require.NoError(t, err)

	got, err := io.ReadAll(view)
	require.NoError(t, err)
	require.Equal(t, "3456", string(got))

	_, err = view.Seek(0, io.SeekStart)
	require.ErrorIs(t, err, ErrUnsupported)
}

func TestSectionStreamInvalidBounds(t *testing.T) {
	base := NewMemoryStream(nil)
	_, err := NewSectionStream(base, -1, 5, nil)
	require.ErrorIs(t, err, ErrInvalidArgument)
	_, err = NewSectionStream(base, 0, -5, nil)
	require.ErrorIs(t, err, ErrInvalidArgument)
	_, err = NewSectionStream(nil, 0, 5, nil)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestSectionStreamOwnership(t *testing.T) {
	base := &closeCounter{MemoryStream: NewMemoryStream([]byte("abcdef"))}
	view, err := NewSectionStream(base, 0, 3, &SectionConfig{Ownership: Own})
	require.NoError(t, err)
	require.NoError(t, view.Close())
	require.NoError(t, view.Close())
	require.Equal(t, 1, base.closes)
}
