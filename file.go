package stream

import (
	"fmt"
	"io"
	"os"
	"time"
)

// FileStream adapts an *os.File opened for reading and writing to the Stream
// interface. Length and SetLength use Stat and Truncate; the position is the
// file offset maintained by the OS.
type FileStream struct {
	file   *os.File
	closed bool
}

// NewFileStream wraps an open file. The file must be opened with read and
// write access; construction fails on a nil file.
func NewFileStream(f *os.File) (*FileStream, error) {
	if f == nil {
		return nil, fmt.Errorf("nil file: %w", ErrInvalidArgument)
	}
	return &FileStream{file: f}, nil
}

// OpenFileStream opens the named file with the given flags and wraps it.
func OpenFileStream(name string, flag int, perm os.FileMode) (*FileStream, error) {
	f, err := os.OpenFile(name, flag, perm)
	if err != nil {
		return nil, err
	}
	return &FileStream{file: f}, nil
}

// Capabilities implements Stream.
func (fs *FileStream) Capabilities() Capability {
	return CapRead | CapWrite | CapSeek
}

// Name returns the name of the backing file.
func (fs *FileStream) Name() string {
	return fs.file.Name()
}

// Read implements Stream.
func (fs *FileStream) Read(p []byte) (int, error) {
	if fs.closed {
		return 0, io.ErrClosedPipe
	}
	return fs.file.Read(p)
}

// ReadByte implements Stream.
func (fs *FileStream) ReadByte() (byte, error) {
	return readByteFrom(fs)
}

// Write implements Stream.
func (fs *FileStream) Write(p []byte) (int, error) {
	if fs.closed {
		return 0, io.ErrClosedPipe
	}
	return fs.file.Write(p)
}

// WriteByte implements Stream.
func (fs *FileStream) WriteByte(c byte) error {
	return writeByteTo(fs, c)
}

// Seek implements Stream.
func (fs *FileStream) Seek(offset int64, whence int) (int64, error) {
	if fs.closed {
		return 0, io.ErrClosedPipe
	}
	return fs.file.Seek(offset, whence)
}

// Length implements Stream.
func (fs *FileStream) Length() (int64, error) {
	if fs.closed {
		return 0, io.ErrClosedPipe
	}
	info, err := fs.file.Stat()
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// Position implements Stream.
func (fs *FileStream) Position() (int64, error) {
	if fs.closed {
		return 0, io.ErrClosedPipe
	}
	return fs.file.Seek(0, io.SeekCurrent)
}

// SetLength implements Stream. The file offset is left where it was, per OS
// truncate semantics.
func (fs *FileStream) SetLength(n int64) error {
	if fs.closed {
		return io.ErrClosedPipe
	}
	if n < 0 {
		return fmt.Errorf("length %d: %w", n, ErrOutOfRange)
	}
	return fs.file.Truncate(n)
}

// Flush implements Stream.
func (fs *FileStream) Flush() error {
	if fs.closed {
		return io.ErrClosedPipe
	}
	return fs.file.Sync()
}

// SetDeadline implements Stream. Deadlines on regular files are not
// supported.
func (fs *FileStream) SetDeadline(t time.Time) error {
	return unsupported("set deadline on file stream")
}

// Close implements Stream.
func (fs *FileStream) Close() error {
	if fs.closed {
		return nil
	}
	fs.closed = true
	return fs.file.Close()
}
