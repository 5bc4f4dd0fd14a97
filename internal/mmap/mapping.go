package mmap

import (
	"bytes"
	"errors"
	"math"
	"os"
	"sync/atomic"
)

var (
	// ErrClosed is returned by Reader after Close.
	ErrClosed = errors.New("mmap: mapping is closed")

	// ErrTooLarge is returned when the file does not fit the address space.
	ErrTooLarge = errors.New("mmap: file too large")
)

// Mapping is a read-only view of a whole file.
type Mapping struct {
	data   []byte
	closed atomic.Bool
	unmap  func([]byte) error
}

// Open maps the file at path. The file handle is closed before Open
// returns; the view stays valid until Close. Empty files yield an empty
// mapping without a system call.
func Open(path string) (*Mapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}

	size := fi.Size()
	if size == 0 {
		return &Mapping{}, nil
	}
	if size > math.MaxInt {
		return nil, ErrTooLarge
	}

	data, unmap, err := osMap(f, int(size))
	if err != nil {
		return nil, err
	}

	// Read-ahead is a hint; failing to set it does not affect correctness.
	_ = osAdviseSequential(data)

	return &Mapping{data: data, unmap: unmap}, nil
}

// Reader returns a reader over the whole file.
func (m *Mapping) Reader() (*bytes.Reader, error) {
	if m.closed.Load() {
		return nil, ErrClosed
	}
	return bytes.NewReader(m.data), nil
}

// Close unmaps the file. Calling Close more than once is a no-op.
func (m *Mapping) Close() error {
	if m.closed.Swap(true) || m.data == nil {
		return nil
	}
	return m.unmap(m.data)
}
