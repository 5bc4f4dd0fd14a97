package knn

import "errors"

var (
	// ErrInvalidK is returned when k is not positive.
	ErrInvalidK = errors.New("k must be positive")

	// ErrEmptyReferenceSet is returned when there is nothing to compare against.
	ErrEmptyReferenceSet = errors.New("empty reference set")

	// ErrLabelCountMismatch is returned when vectors and labels are not aligned.
	ErrLabelCountMismatch = errors.New("vector and label counts differ")
)
