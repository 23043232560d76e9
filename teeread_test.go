package stream

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTeeReadStreamMirrorsBytesRead(t *testing.T) {
	data := randomData(t, 500)
	base := NewMemoryStream(data)
	mirror := NewMemoryStream(nil)
	tee, err := NewTeeReadStream(base, mirror, nil)
	require.NoError(t, err)

	// Request more than is available: only the bytes actually obtained are
	// mirrored, not the bytes requested.
	buf := make([]byte, 2000)
	n, err := tee.Read(buf)
	require.NoError(t, err)
	require.Equal(t, len(data), n)
	require.Equal(t, data, mirror.Bytes())

	b, err := tee.ReadByte()
	require.Equal(t, io.EOF, err)
	_ = b
}

func TestTeeReadStreamReadByte(t *testing.T) {
	base := NewMemoryStream([]byte("ab"))
	mirror := NewMemoryStream(nil)
	tee, err := NewTeeReadStream(base, mirror, nil)
	require.NoError(t, err)

	b, err := tee.ReadByte()
	require.NoError(t, err)
	require.Equal(t, byte('a'), b)
	require.Equal(t, "a", string(mirror.Bytes()))
}

func TestTeeReadStreamAutoFlush(t *testing.T) {
	base := NewMemoryStream([]byte("abcdef"))
	mirror := &flushCounter{MemoryStream: NewMemoryStream(nil)}
	tee, err := NewTeeReadStream(base, mirror, &TeeReadConfig{AutoFlush: true})
	require.NoError(t, err)

	_, err = io.ReadAll(tee)
	require.NoError(t, err)
	require.Greater(t, mirror.flushes, 0)
	require.Equal(t, "abcdef", string(mirror.Bytes()))
}

func TestTeeReadStreamIndependentOwnership(t *testing.T) {
	base := &closeCounter{MemoryStream: NewMemoryStream(nil)}
	mirror := &closeCounter{MemoryStream: NewMemoryStream(nil)}
	tee, err := NewTeeReadStream(base, mirror, &TeeReadConfig{CopyOwnership: Own})
	require.NoError(t, err)

	require.NoError(t, tee.Close())
	require.NoError(t, tee.Close())
	require.Equal(t, 0, base.closes)
	require.Equal(t, 1, mirror.closes)
}

func TestTeeReadStreamRejectsBadStreams(t *testing.T) {
	mem := NewMemoryStream(nil)
	_, err := NewTeeReadStream(nil, mem, nil)
	require.ErrorIs(t, err, ErrInvalidArgument)
	_, err = NewTeeReadStream(mem, nil, nil)
	require.ErrorIs(t, err, ErrInvalidArgument)

	bc, err := NewBroadcastStream(nil, Borrow)
	require.NoError(t, err)
	// A write-only base is rejected, as is a read-only copy stream.
	_, err = NewTeeReadStream(bc, mem, nil)
	require.ErrorIs(t, err, ErrInvalidArgument)
	concat, err := NewConcatStream(nil, Borrow)
	require.NoError(t, err)
	_, err = NewTeeReadStream(mem, concat, nil)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestTeeReadStreamWriteUnsupported(t *testing.T) {
	tee, err := NewTeeReadStream(NewMemoryStream(nil), NewMemoryStream(nil), nil)
	require.NoError(t, err)
	_, err = tee.Write([]byte("x"))
	require.ErrorIs(t, err, ErrUnsupported)
	require.False(t, tee.Capabilities().Has(CapWrite))
}
