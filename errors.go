package ocrknn

import (
	"errors"
	"fmt"

	"github.com/hupe1980/ocrknn/dataset"
	"github.com/hupe1980/ocrknn/distance"
	"github.com/hupe1980/ocrknn/eval"
	"github.com/hupe1980/ocrknn/feature"
	"github.com/hupe1980/ocrknn/idx"
	"github.com/hupe1980/ocrknn/knn"
	"github.com/hupe1980/ocrknn/resource"
)

var (
	// ErrInvalidK is returned when k is not positive.
	ErrInvalidK = errors.New("k must be positive")

	// ErrEmptyReferenceSet is returned when classifying against no reference samples.
	ErrEmptyReferenceSet = errors.New("empty reference set")

	// ErrTruncatedInput is returned when a dataset file ends before its header says it should.
	ErrTruncatedInput = errors.New("truncated input")

	// ErrEmptyInput is returned when evaluating zero predictions.
	ErrEmptyInput = errors.New("empty input")

	// ErrLengthMismatch is returned when predictions and ground truth differ in length.
	ErrLengthMismatch = errors.New("length mismatch")

	// ErrLabelCountMismatch is returned when a dataset has a different number of images and labels.
	ErrLabelCountMismatch = errors.New("image and label counts differ")

	// ErrMemoryLimitExceeded is returned when a dataset does not fit the memory budget.
	ErrMemoryLimitExceeded = errors.New("memory limit exceeded")
)

// ErrDimensionMismatch indicates that reference and query images have different geometry.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
	cause    error
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

func (e *ErrDimensionMismatch) Unwrap() error { return e.cause }

// ErrMalformedImage indicates an image whose pixel grid is not rectangular.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrMalformedImage struct {
	Index int
	cause error
}

func (e *ErrMalformedImage) Error() string {
	return fmt.Sprintf("malformed image %d", e.Index)
}

func (e *ErrMalformedImage) Unwrap() error { return e.cause }

// ErrIO indicates that a dataset file could not be opened or read.
//
// The original underlying error can be accessed via errors.Unwrap, so
// errors.Is(err, fs.ErrNotExist) works as expected.
type ErrIO struct {
	Op    string
	Path  string
	cause error
}

func (e *ErrIO) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("io error: %s: %v", e.Op, e.cause)
	}
	return fmt.Sprintf("io error: %s %s: %v", e.Op, e.Path, e.cause)
}

func (e *ErrIO) Unwrap() error { return e.cause }

func translateError(err error) error {
	if err == nil {
		return nil
	}

	// Typed errors.
	var dm *distance.DimensionMismatchError
	if errors.As(err, &dm) {
		return &ErrDimensionMismatch{Expected: dm.Expected, Actual: dm.Actual, cause: err}
	}
	var mi *feature.MalformedImageError
	if errors.As(err, &mi) {
		return &ErrMalformedImage{Index: mi.Index, cause: err}
	}
	var ioe *idx.IOError
	if errors.As(err, &ioe) {
		return &ErrIO{Op: ioe.Op, Path: ioe.Path, cause: err}
	}

	// Sentinel unification.
	switch {
	case errors.Is(err, knn.ErrInvalidK):
		return fmt.Errorf("%w: %w", ErrInvalidK, err)
	case errors.Is(err, knn.ErrEmptyReferenceSet):
		return fmt.Errorf("%w: %w", ErrEmptyReferenceSet, err)
	case errors.Is(err, idx.ErrTruncatedInput):
		return fmt.Errorf("%w: %w", ErrTruncatedInput, err)
	case errors.Is(err, eval.ErrEmptyInput):
		return fmt.Errorf("%w: %w", ErrEmptyInput, err)
	case errors.Is(err, eval.ErrLengthMismatch):
		return fmt.Errorf("%w: %w", ErrLengthMismatch, err)
	case errors.Is(err, knn.ErrLabelCountMismatch), errors.Is(err, dataset.ErrLabelCountMismatch):
		return fmt.Errorf("%w: %w", ErrLabelCountMismatch, err)
	case errors.Is(err, resource.ErrMemoryLimitExceeded):
		return fmt.Errorf("%w: %w", ErrMemoryLimitExceeded, err)
	}

	return err
}
