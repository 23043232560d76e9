package stream

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/imdario/mergo"
)

// TempFileConfig is the TempFileStream configuration.
type TempFileConfig struct {
	// Dir is the directory backing files are created in. If empty, default
	// value (os.TempDir()) will be used.
	Dir string

	// Path names an explicit backing file to create or reuse instead of
	// generating a fresh one under Dir.
	Path string

	// Initial is a stream whose entire remaining content is copied into the
	// backing file before use. May be nil.
	Initial Stream

	// KeepPosition leaves the position at the end of the copied initial
	// content instead of rewinding to the start.
	KeepPosition bool
}

// DefaultTempFileConfig returns the default config.
func DefaultTempFileConfig() *TempFileConfig {
	return &TempFileConfig{
		Dir: os.TempDir(),
	}
}

// MergeTempFileConfig merges a given config with the default config. Any
// non zero value fields will override the default config.
func MergeTempFileConfig(base, conf *TempFileConfig) (*TempFileConfig, error) {
	merged := *base
	if conf != nil {
		err := mergo.Merge(&merged, conf, mergo.WithOverride)
		if err != nil {
			return nil, err
		}
	}
	return &merged, nil
}

// TempFileStream is an ephemeral file-backed stream whose backing file is
// deleted on Close, regardless of how the close was triggered.
type TempFileStream struct {
	*FileStream
	path   string
	closed bool
}

// NewTempFileStream creates a temporary file stream. Unless conf names an
// explicit path, a fresh uniquely-named file is created under the configured
// directory, opened for exclusive read/write. If an initial content stream
// is configured its content is copied in, and the position is rewound to the
// start unless KeepPosition is set.
func NewTempFileStream(conf *TempFileConfig) (*TempFileStream, error) {
	conf, err := MergeTempFileConfig(DefaultTempFileConfig(), conf)
	if err != nil {
		return nil, err
	}

	path := conf.Path
	flag := os.O_RDWR | os.O_CREATE
	if path == "" {
		path = filepath.Join(conf.Dir, "stream-"+uuid.NewString()+".tmp")
		flag |= os.O_EXCL
	}
	f, err := os.OpenFile(path, flag, 0600)
	if err != nil {
		return nil, err
	}

	fs, err := NewFileStream(f)
	if err != nil {
		f.Close()
		os.Remove(path)
		return nil, err
	}
	t := &TempFileStream{FileStream: fs, path: path}

	if conf.Initial != nil {
		if _, err := io.Copy(f, conf.Initial); err != nil {
			t.Close()
			return nil, fmt.Errorf("copying initial content: %w", err)
		}
		if !conf.KeepPosition {
			if _, err := f.Seek(0, io.SeekStart); err != nil {
				t.Close()
				return nil, err
			}
		}
	}

	return t, nil
}

// Path returns the location of the backing file.
func (t *TempFileStream) Path() string {
	return t.path
}

// Close implements Stream. The backing file is always removed after the
// handle is closed; a deletion failure is the final reported error of the
// close path.
func (t *TempFileStream) Close() error {
	if t.closed {
		return nil
	}
	t.closed = true
	closeErr := t.FileStream.Close()
	removeErr := os.Remove(t.path)
	return errors.Join(closeErr, removeErr)
}
