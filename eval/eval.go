// Package eval scores predicted labels against ground truth.
package eval

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/ocrknn/idx"
)

var (
	// ErrLengthMismatch is returned when predictions and ground truth differ in length.
	ErrLengthMismatch = errors.New("length mismatch")

	// ErrEmptyInput is returned when there is nothing to score.
	ErrEmptyInput = errors.New("empty input")
)

// Accuracy returns the fraction of positions where predicted equals truth.
func Accuracy(predicted, truth []idx.Label) (float64, error) {
	if err := check(predicted, truth); err != nil {
		return 0, err
	}

	correct := 0
	for i := range predicted {
		if predicted[i] == truth[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(truth)), nil
}

// Report is a detailed evaluation of one run.
type Report struct {
	Total    int
	Correct  int
	Accuracy float64

	// Confusion counts (truth, predicted) pairs.
	Confusion *ConfusionMatrix

	// Misclassified holds the query positions whose prediction was wrong.
	Misclassified *roaring.Bitmap
}

// Evaluate scores predicted against truth.
func Evaluate(predicted, truth []idx.Label) (*Report, error) {
	if err := check(predicted, truth); err != nil {
		return nil, err
	}

	r := &Report{
		Total:         len(truth),
		Confusion:     NewConfusionMatrix(),
		Misclassified: roaring.New(),
	}

	for i := range predicted {
		r.Confusion.Add(truth[i], predicted[i])
		if predicted[i] == truth[i] {
			r.Correct++
		} else {
			r.Misclassified.Add(uint32(i))
		}
	}
	r.Accuracy = float64(r.Correct) / float64(r.Total)

	return r, nil
}

// MisclassifiedIndices returns the misclassified query positions in ascending order.
func (r *Report) MisclassifiedIndices() []int {
	out := make([]int, 0, r.Misclassified.GetCardinality())
	it := r.Misclassified.Iterator()
	for it.HasNext() {
		out = append(out, int(it.Next()))
	}
	return out
}

func check(predicted, truth []idx.Label) error {
	if len(predicted) != len(truth) {
		return fmt.Errorf("%w: %d predictions, %d labels", ErrLengthMismatch, len(predicted), len(truth))
	}
	if len(truth) == 0 {
		return ErrEmptyInput
	}
	return nil
}

type pair struct {
	truth, predicted idx.Label
}

// ConfusionMatrix counts how often each true label was predicted as each label.
type ConfusionMatrix struct {
	counts map[pair]int
	labels map[idx.Label]struct{}
}

// NewConfusionMatrix creates an empty matrix.
func NewConfusionMatrix() *ConfusionMatrix {
	return &ConfusionMatrix{
		counts: make(map[pair]int),
		labels: make(map[idx.Label]struct{}),
	}
}

// Add records one prediction.
func (m *ConfusionMatrix) Add(truth, predicted idx.Label) {
	m.counts[pair{truth, predicted}]++
	m.labels[truth] = struct{}{}
	m.labels[predicted] = struct{}{}
}

// Count returns how often truth was predicted as predicted.
func (m *ConfusionMatrix) Count(truth, predicted idx.Label) int {
	return m.counts[pair{truth, predicted}]
}

// Labels returns every label seen as truth or prediction, ascending.
func (m *ConfusionMatrix) Labels() []idx.Label {
	labels := make([]idx.Label, 0, len(m.labels))
	for l := range m.labels {
		labels = append(labels, l)
	}
	slices.Sort(labels)
	return labels
}

// Recall returns the fraction of samples of label truth that were predicted correctly.
// It returns 0 for a label that never occurs as truth.
func (m *ConfusionMatrix) Recall(truth idx.Label) float64 {
	total := 0
	for p, n := range m.counts {
		if p.truth == truth {
			total += n
		}
	}
	if total == 0 {
		return 0
	}
	return float64(m.Count(truth, truth)) / float64(total)
}

// String renders the matrix with truth labels as rows and predictions as columns.
func (m *ConfusionMatrix) String() string {
	labels := m.Labels()

	var sb strings.Builder
	sb.WriteString("truth\\pred")
	for _, p := range labels {
		fmt.Fprintf(&sb, "%6d", p)
	}
	sb.WriteByte('\n')
	for _, t := range labels {
		fmt.Fprintf(&sb, "%10d", t)
		for _, p := range labels {
			fmt.Fprintf(&sb, "%6d", m.Count(t, p))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
