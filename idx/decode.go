package idx

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/hupe1980/ocrknn/internal/conv"
)

// Decoder reads IDX records from an io.Reader.
type Decoder struct {
	r       io.Reader
	reserve ReserveFunc
	header  Header
}

// NewDecoder creates a Decoder reading from r.
// Only the Reserve option is relevant to decoding.
func NewDecoder(r io.Reader, optFns ...func(o *Options)) *Decoder {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Decoder{r: r, reserve: opts.Reserve}
}

// Header returns the header read by the last Images or Labels call.
func (d *Decoder) Header() Header {
	return d.header
}

// Images decodes an image file. See the package documentation for max.
func (d *Decoder) Images(max int) ([]Image, error) {
	var buf [imageHeaderSize]byte
	if err := readFull(d.r, buf[:]); err != nil {
		return nil, fmt.Errorf("image header: %w", err)
	}

	d.header = Header{
		Magic: binary.BigEndian.Uint32(buf[0:4]),
		Count: binary.BigEndian.Uint32(buf[4:8]),
		Rows:  binary.BigEndian.Uint32(buf[8:12]),
		Cols:  binary.BigEndian.Uint32(buf[12:16]),
	}

	size := uint64(d.header.Rows) * uint64(d.header.Cols)
	if size > maxImageSize {
		return nil, fmt.Errorf("%w: %dx%d images", ErrInvalidHeader, d.header.Rows, d.header.Cols)
	}
	// Zero-sized records consume no input, so a bogus count could never be
	// caught as truncation.
	if size == 0 && d.header.Count > 0 {
		return nil, fmt.Errorf("%w: %d images of %dx%d", ErrInvalidHeader, d.header.Count, d.header.Rows, d.header.Cols)
	}

	n, err := capCount(d.header.Count, max)
	if err != nil {
		return nil, err
	}
	rows, cols := int(d.header.Rows), int(d.header.Cols)

	release, err := d.reserveBytes(int64(n) * int64(size))
	if err != nil {
		return nil, err
	}

	images := make([]Image, 0, min(n, 1<<16))
	for i := range n {
		pixels := make([]uint8, size)
		if err := readFull(d.r, pixels); err != nil {
			release()
			return nil, fmt.Errorf("image %d of %d: %w", i, n, err)
		}
		images = append(images, imageFrom(pixels, rows, cols))
	}

	return images, nil
}

// Labels decodes a label file. See the package documentation for max.
func (d *Decoder) Labels(max int) ([]Label, error) {
	var buf [labelHeaderSize]byte
	if err := readFull(d.r, buf[:]); err != nil {
		return nil, fmt.Errorf("label header: %w", err)
	}

	d.header = Header{
		Magic: binary.BigEndian.Uint32(buf[0:4]),
		Count: binary.BigEndian.Uint32(buf[4:8]),
	}

	n, err := capCount(d.header.Count, max)
	if err != nil {
		return nil, err
	}

	release, err := d.reserveBytes(int64(n))
	if err != nil {
		return nil, err
	}

	// CopyN grows the buffer as data arrives instead of trusting the header.
	var payload bytes.Buffer
	got, err := io.CopyN(&payload, d.r, int64(n))
	if got < int64(n) {
		release()
		if err == nil || errors.Is(err, io.EOF) {
			err = ErrTruncatedInput
		} else {
			err = &IOError{Op: "read", Err: err}
		}
		return nil, fmt.Errorf("label %d of %d: %w", got, n, err)
	}

	labels := make([]Label, n)
	for i, b := range payload.Bytes() {
		labels[i] = Label(b)
	}

	return labels, nil
}

func (d *Decoder) reserveBytes(n int64) (func(), error) {
	if d.reserve == nil {
		return func() {}, nil
	}
	release, err := d.reserve(n)
	if err != nil {
		return nil, err
	}
	if release == nil {
		release = func() {}
	}
	return release, nil
}

// DecodeImages decodes an image file from r.
func DecodeImages(r io.Reader, max int) ([]Image, error) {
	return NewDecoder(r).Images(max)
}

// DecodeLabels decodes a label file from r.
func DecodeLabels(r io.Reader, max int) ([]Label, error) {
	return NewDecoder(r).Labels(max)
}

// capCount returns min(max, count), or count when max is not positive.
func capCount(count uint32, max int) (int, error) {
	n, err := conv.Uint32ToInt(count)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidHeader, err)
	}
	if max > 0 && max < n {
		return max, nil
	}
	return n, nil
}

func readFull(r io.Reader, buf []byte) error {
	_, err := io.ReadFull(r, buf)
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return ErrTruncatedInput
	}
	if err != nil {
		return &IOError{Op: "read", Err: err}
	}
	return nil
}
