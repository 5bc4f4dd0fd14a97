package distance

import (
	"fmt"
	"math"
)

// DimensionMismatchError indicates that two vectors of different length were compared.
type DimensionMismatchError struct {
	Expected int
	Actual   int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

// Check returns a *DimensionMismatchError unless a and b have the same length.
func Check(a, b []uint8) error {
	if len(a) != len(b) {
		return &DimensionMismatchError{Expected: len(a), Actual: len(b)}
	}
	return nil
}

// SquaredL2 calculates the squared Euclidean distance between two vectors.
// Assumes vectors are the same length (caller's responsibility).
func SquaredL2(a, b []uint8) uint64 {
	var sum uint64
	for i := range a {
		d := int64(a[i]) - int64(b[i])
		sum += uint64(d * d)
	}
	return sum
}

// Euclidean calculates the Euclidean distance between two vectors.
func Euclidean(a, b []uint8) (float64, error) {
	if err := Check(a, b); err != nil {
		return 0, err
	}
	return math.Sqrt(float64(SquaredL2(a, b))), nil
}
