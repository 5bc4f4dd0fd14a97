// Package feature turns decoded images into fixed-length feature vectors.
package feature

import (
	"fmt"

	"github.com/hupe1980/ocrknn/distance"
	"github.com/hupe1980/ocrknn/idx"
)

// Vector is a row-major flattening of an image's intensities.
type Vector []uint8

// MalformedImageError indicates an image whose pixel grid is not rows x cols.
type MalformedImageError struct {
	Index int // position of the image in its input sequence
	Row   int // offending row, or -1 if the row count itself is wrong
	Want  int
	Got   int
}

func (e *MalformedImageError) Error() string {
	if e.Row < 0 {
		return fmt.Sprintf("malformed image %d: %d rows, want %d", e.Index, e.Got, e.Want)
	}
	return fmt.Sprintf("malformed image %d: row %d has %d columns, want %d", e.Index, e.Row, e.Got, e.Want)
}

// Flatten returns the row-major feature vector of img.
func Flatten(img idx.Image) (Vector, error) {
	return flatten(0, img)
}

// Extract flattens every image, preserving order.
func Extract(images []idx.Image) ([]Vector, error) {
	vectors := make([]Vector, len(images))
	for i, img := range images {
		v, err := flatten(i, img)
		if err != nil {
			return nil, err
		}
		vectors[i] = v
	}
	return vectors, nil
}

func flatten(i int, img idx.Image) (Vector, error) {
	if img.Rows < 0 || img.Cols < 0 || len(img.Pixels) != img.Rows {
		return nil, &MalformedImageError{Index: i, Row: -1, Want: img.Rows, Got: len(img.Pixels)}
	}

	v := make(Vector, 0, img.Size())
	for r, row := range img.Pixels {
		if len(row) != img.Cols {
			return nil, &MalformedImageError{Index: i, Row: r, Want: img.Cols, Got: len(row)}
		}
		v = append(v, row...)
	}
	return v, nil
}

// CheckGeometry verifies that every reference and query vector has the
// length of the first reference vector.
func CheckGeometry(reference, queries []Vector) error {
	if len(reference) == 0 {
		return nil
	}
	dim := len(reference[0])
	for _, set := range [][]Vector{reference, queries} {
		for _, v := range set {
			if len(v) != dim {
				return &distance.DimensionMismatchError{Expected: dim, Actual: len(v)}
			}
		}
	}
	return nil
}
