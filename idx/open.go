package idx

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/hupe1980/ocrknn/internal/mmap"
	"github.com/hupe1980/ocrknn/resource"
)

// Compression identifies the container format of a dataset file.
type Compression int

const (
	// CompressionAuto detects the format from the leading bytes of the file.
	CompressionAuto Compression = iota
	CompressionNone
	CompressionGzip
	CompressionZstd
	CompressionLZ4
)

func (c Compression) String() string {
	switch c {
	case CompressionAuto:
		return "auto"
	case CompressionNone:
		return "none"
	case CompressionGzip:
		return "gzip"
	case CompressionZstd:
		return "zstd"
	case CompressionLZ4:
		return "lz4"
	default:
		return fmt.Sprintf("Unknown(%d)", int(c))
	}
}

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	lz4Magic  = []byte{0x04, 0x22, 0x4d, 0x18}
)

// ParseCompression parses a compression name as returned by String.
// The empty string means auto detection.
func ParseCompression(s string) (Compression, error) {
	switch s {
	case "", "auto":
		return CompressionAuto, nil
	case "none":
		return CompressionNone, nil
	case "gzip":
		return CompressionGzip, nil
	case "zstd":
		return CompressionZstd, nil
	case "lz4":
		return CompressionLZ4, nil
	default:
		return CompressionAuto, fmt.Errorf("unknown compression %q", s)
	}
}

// DetectCompression identifies the compression format from the leading bytes of a file.
func DetectCompression(prefix []byte) Compression {
	switch {
	case bytes.HasPrefix(prefix, zstdMagic):
		return CompressionZstd
	case bytes.HasPrefix(prefix, lz4Magic):
		return CompressionLZ4
	case bytes.HasPrefix(prefix, gzipMagic):
		return CompressionGzip
	default:
		return CompressionNone
	}
}

// File is an opened dataset file yielding the decompressed IDX stream.
type File struct {
	io.Reader
	path        string
	compression Compression
	closers     []func() error
}

// Compression returns the detected compression of the file.
func (f *File) Compression() Compression {
	return f.compression
}

// Close releases the decompressor, the mapping and the file handle.
func (f *File) Close() error {
	var errs []error
	for i := len(f.closers) - 1; i >= 0; i-- {
		if err := f.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	f.closers = nil
	if err := errors.Join(errs...); err != nil {
		return &IOError{Op: "close", Path: f.path, Err: err}
	}
	return nil
}

// Open opens the dataset file at path. Compression is detected unless
// Options.Compression fixes it.
func Open(path string, optFns ...func(o *Options)) (*File, error) {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	f := &File{path: path}

	var src io.Reader
	if opts.Mmap {
		m, err := mmap.Open(path)
		if err != nil {
			return nil, &IOError{Op: "mmap", Path: path, Err: err}
		}
		f.closers = append(f.closers, m.Close)
		r, err := m.Reader()
		if err != nil {
			_ = f.Close()
			return nil, &IOError{Op: "mmap", Path: path, Err: err}
		}
		src = r
	} else {
		fh, err := os.Open(path)
		if err != nil {
			return nil, &IOError{Op: "open", Path: path, Err: err}
		}
		f.closers = append(f.closers, fh.Close)
		src = fh
	}

	if opts.Controller != nil {
		src = resource.NewRateLimitedReader(opts.Context, src, opts.Controller)
	}

	br := bufio.NewReader(src)
	f.compression = opts.Compression
	if f.compression == CompressionAuto {
		// A short file is left to the decoder, which reports it as truncated.
		prefix, _ := br.Peek(len(zstdMagic))
		f.compression = DetectCompression(prefix)
	}

	switch f.compression {
	case CompressionGzip:
		zr, err := gzip.NewReader(br)
		if err != nil {
			_ = f.Close()
			return nil, &IOError{Op: "gzip", Path: path, Err: err}
		}
		f.closers = append(f.closers, zr.Close)
		f.Reader = zr
	case CompressionZstd:
		zr, err := zstd.NewReader(br)
		if err != nil {
			_ = f.Close()
			return nil, &IOError{Op: "zstd", Path: path, Err: err}
		}
		rc := zr.IOReadCloser()
		f.closers = append(f.closers, rc.Close)
		f.Reader = rc
	case CompressionLZ4:
		f.Reader = lz4.NewReader(br)
	case CompressionNone:
		f.Reader = br
	default:
		_ = f.Close()
		return nil, fmt.Errorf("idx: %s: unknown compression %s", path, f.compression)
	}

	return f, nil
}

// ReadImages reads up to max images from the dataset file at path.
func ReadImages(path string, max int, optFns ...func(o *Options)) ([]Image, error) {
	f, err := Open(path, optFns...)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	images, err := NewDecoder(f, optFns...).Images(max)
	if err != nil {
		return nil, withPath(path, err)
	}
	return images, nil
}

// ReadLabels reads up to max labels from the dataset file at path.
func ReadLabels(path string, max int, optFns ...func(o *Options)) ([]Label, error) {
	f, err := Open(path, optFns...)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	labels, err := NewDecoder(f, optFns...).Labels(max)
	if err != nil {
		return nil, withPath(path, err)
	}
	return labels, nil
}

// withPath attaches path to a decode error.
func withPath(path string, err error) error {
	var ioe *IOError
	if errors.As(err, &ioe) && ioe.Path == "" {
		ioe.Path = path
		return err
	}
	return fmt.Errorf("idx: %s: %w", path, err)
}
