package idx

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/hupe1980/ocrknn/internal/conv"
)

// EncodeImages writes images in the IDX image format.
// All images must share the geometry of the first one.
func EncodeImages(w io.Writer, images []Image) error {
	var rows, cols int
	if len(images) > 0 {
		rows, cols = images[0].Rows, images[0].Cols
	}
	fields, err := headerFields(len(images), rows, cols)
	if err != nil {
		return fmt.Errorf("%d images of %dx%d: %w", len(images), rows, cols, err)
	}

	bw := bufio.NewWriter(w)

	var header [imageHeaderSize]byte
	binary.BigEndian.PutUint32(header[0:4], ImageMagic)
	binary.BigEndian.PutUint32(header[4:8], fields[0])
	binary.BigEndian.PutUint32(header[8:12], fields[1])
	binary.BigEndian.PutUint32(header[12:16], fields[2])
	if _, err := bw.Write(header[:]); err != nil {
		return err
	}

	for i, img := range images {
		if img.Rows != rows || img.Cols != cols || len(img.Pixels) != rows {
			return fmt.Errorf("image %d has shape %s, want %dx%d", i, img, rows, cols)
		}
		for r, row := range img.Pixels {
			if len(row) != cols {
				return fmt.Errorf("image %d row %d has %d columns, want %d", i, r, len(row), cols)
			}
			if _, err := bw.Write(row); err != nil {
				return err
			}
		}
	}

	return bw.Flush()
}

// EncodeLabels writes labels in the IDX label format.
func EncodeLabels(w io.Writer, labels []Label) error {
	fields, err := headerFields(len(labels))
	if err != nil {
		return fmt.Errorf("%d labels: %w", len(labels), err)
	}

	bw := bufio.NewWriter(w)

	var header [labelHeaderSize]byte
	binary.BigEndian.PutUint32(header[0:4], LabelMagic)
	binary.BigEndian.PutUint32(header[4:8], fields[0])
	if _, err := bw.Write(header[:]); err != nil {
		return err
	}

	for _, l := range labels {
		if err := bw.WriteByte(byte(l)); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// WriteImages writes images to an uncompressed IDX file at path.
func WriteImages(path string, images []Image) error {
	return writeFile(path, func(w io.Writer) error { return EncodeImages(w, images) })
}

// WriteLabels writes labels to an uncompressed IDX file at path.
func WriteLabels(path string, labels []Label) error {
	return writeFile(path, func(w io.Writer) error { return EncodeLabels(w, labels) })
}

func writeFile(path string, encode func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return &IOError{Op: "create", Path: path, Err: err}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = &IOError{Op: "close", Path: path, Err: cerr}
		}
	}()

	return encode(f)
}

// headerFields converts counts and dimensions to their on-disk width.
func headerFields(vals ...int) ([]uint32, error) {
	fields := make([]uint32, len(vals))
	for i, v := range vals {
		u, err := conv.IntToUint32(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidHeader, err)
		}
		fields[i] = u
	}
	return fields, nil
}
