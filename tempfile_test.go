package stream

import (
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTempFileStreamLifecycle(t *testing.T) {
	tf, err := NewTempFileStream(&TempFileConfig{Dir: t.TempDir()})
	require.NoError(t, err)

	_, err = os.Stat(tf.Path())
	require.NoError(t, err)

	err = writeFull(tf, []byte("scratch data"))
	require.NoError(t, err)
	_, err = tf.Seek(0, io.SeekStart)
	require.NoError(t, err)
	got, err := io.ReadAll(tf)
	require.NoError(t, err)
	require.Equal(t, "scratch data", string(got))

	path := tf.Path()
	require.NoError(t, tf.Close())
	require.NoError(t, tf.Close())
	_, err = os.Stat(path)
	require.True(t, os.IsNotExist(err))
}

func TestTempFileStreamInitialContent(t *testing.T) {
	tf, err := NewTempFileStream(&TempFileConfig{
		Dir:     t.TempDir(),
		Initial: NewMemoryStream([]byte("seeded")),
	})
	require.NoError(t, err)
	defer tf.Close()

	// Position is rewound to the start after the copy.
	got, err := io.ReadAll(tf)
	require.NoError(t, err)
	require.Equal(t, "seeded", string(got))
}

func TestTempFileStreamKeepPosition(t *testing.T) {
	tf, err := NewTempFileStream(&TempFileConfig{
		Dir:          t.TempDir(),
		Initial:      NewMemoryStream([]byte("seeded")),
		KeepPosition: true,
	})
	require.NoError(t, err)
	defer tf.Close()

	pos, err := tf.Position()
	require.NoError(t, err)
	require.EqualValues(t, 6, pos)
}

func TestTempFileStreamExplicitPath(t *testing.T) {
	path := t.TempDir() + "/explicit.tmp"
	tf, err := NewTempFileStream(&TempFileConfig{Path: path})
	require.NoError(t, err)
	require.Equal(t, path, tf.Path())

	err = writeFull(tf, []byte("x"))
	require.NoError(t, err)

	require.NoError(t, tf.Close())
	_, err = os.Stat(path)
	require.True(t, os.IsNotExist(err))
}

func TestTempFileStreamUniqueNames(t *testing.T) {
	dir := t.TempDir()
	a, err := NewTempFileStream(&TempFileConfig{Dir: dir})
	require.NoError(t, err)
	defer a.Close()
	b, err := NewTempFileStream(&TempFileConfig{Dir: dir})
	require.NoError(t, err)
	defer b.Close()

	require.NotEqual(t, a.Path(), b.Path())
}
