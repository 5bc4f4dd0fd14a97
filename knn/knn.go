package knn

import (
	"container/heap"
	"fmt"
	"math"
	"slices"

	"github.com/hupe1980/ocrknn/distance"
	"github.com/hupe1980/ocrknn/feature"
	"github.com/hupe1980/ocrknn/idx"
)

// Sample is a labeled reference vector.
type Sample struct {
	Vector feature.Vector
	Label  idx.Label
}

// NewReferenceSet pairs vectors with their positionally aligned labels.
func NewReferenceSet(vectors []feature.Vector, labels []idx.Label) ([]Sample, error) {
	if len(vectors) != len(labels) {
		return nil, fmt.Errorf("%w: %d vectors, %d labels", ErrLabelCountMismatch, len(vectors), len(labels))
	}

	samples := make([]Sample, len(vectors))
	for i := range vectors {
		samples[i] = Sample{Vector: vectors[i], Label: labels[i]}
	}
	return samples, nil
}

// Neighbor is a reference sample selected as a candidate for a query.
type Neighbor struct {
	Index    int // position in the reference set
	Label    idx.Label
	Distance float64
}

// Neighbors returns the min(k, len(reference)) reference samples closest to
// query in ascending distance order. Equal distances keep reference order.
func Neighbors(reference []Sample, query feature.Vector, k int) ([]Neighbor, error) {
	if err := validate(reference, []feature.Vector{query}, k); err != nil {
		return nil, err
	}
	return nearest(reference, query, k), nil
}

// Vote returns the most frequent label. Among equally frequent labels the
// one occurring first in candidates wins. Vote returns 0 for no candidates.
func Vote(candidates []idx.Label) idx.Label {
	if len(candidates) == 0 {
		return 0
	}

	var counts [math.MaxUint8 + 1]int
	for _, l := range candidates {
		counts[l]++
	}

	best := candidates[0]
	for _, l := range candidates[1:] {
		if counts[l] > counts[best] {
			best = l
		}
	}
	return best
}

func validate(reference []Sample, queries []feature.Vector, k int) error {
	if k <= 0 {
		return ErrInvalidK
	}
	if len(reference) == 0 {
		return ErrEmptyReferenceSet
	}

	dim := len(reference[0].Vector)
	for _, s := range reference {
		if len(s.Vector) != dim {
			return &distance.DimensionMismatchError{Expected: dim, Actual: len(s.Vector)}
		}
	}
	for _, q := range queries {
		if len(q) != dim {
			return &distance.DimensionMismatchError{Expected: dim, Actual: len(q)}
		}
	}
	return nil
}

// nearest selects the k closest samples with a bounded max-heap.
// Callers must have validated the input.
func nearest(reference []Sample, query feature.Vector, k int) []Neighbor {
	k = min(k, len(reference))

	h := make(candidateHeap, 0, k)
	for i, s := range reference {
		c := candidate{index: i, dist: distance.SquaredL2(s.Vector, query)}
		if len(h) < k {
			heap.Push(&h, c)
			continue
		}
		if c.less(h[0]) {
			h[0] = c
			heap.Fix(&h, 0)
		}
	}

	slices.SortFunc(h, func(a, b candidate) int {
		switch {
		case a.less(b):
			return -1
		case b.less(a):
			return 1
		default:
			return 0
		}
	})

	neighbors := make([]Neighbor, len(h))
	for i, c := range h {
		neighbors[i] = Neighbor{
			Index:    c.index,
			Label:    reference[c.index].Label,
			Distance: math.Sqrt(float64(c.dist)),
		}
	}
	return neighbors
}

func predict(reference []Sample, query feature.Vector, k int) idx.Label {
	neighbors := nearest(reference, query, k)

	labels := make([]idx.Label, len(neighbors))
	for i, n := range neighbors {
		labels[i] = n.Label
	}
	return Vote(labels)
}
