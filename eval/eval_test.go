package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/ocrknn/idx"
	"github.com/hupe1980/ocrknn/testutil"
)

func TestAccuracy(t *testing.T) {
	tests := []struct {
		name      string
		predicted []idx.Label
		truth     []idx.Label
		want      float64
	}{
		{"AllCorrect", []idx.Label{1, 2, 3}, []idx.Label{1, 2, 3}, 1},
		{"NoneCorrect", []idx.Label{0, 0}, []idx.Label{1, 1}, 0},
		{"Half", []idx.Label{7, 2, 3, 4}, []idx.Label{7, 2, 0, 0}, 0.5},
		{"Single", []idx.Label{9}, []idx.Label{9}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Accuracy(tt.predicted, tt.truth)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestAccuracy_Errors(t *testing.T) {
	_, err := Accuracy([]idx.Label{1}, []idx.Label{1, 2})
	assert.ErrorIs(t, err, ErrLengthMismatch)

	_, err = Accuracy(nil, nil)
	assert.ErrorIs(t, err, ErrEmptyInput)

	_, err = Evaluate(nil, []idx.Label{})
	assert.ErrorIs(t, err, ErrEmptyInput)

	_, err = Evaluate([]idx.Label{1, 2}, []idx.Label{1})
	assert.ErrorIs(t, err, ErrLengthMismatch)
}

func TestAccuracy_Bounds(t *testing.T) {
	rng := testutil.NewRNG(11)

	for n := 1; n <= 50; n++ {
		truth := rng.Labels(n, 3)
		predicted := rng.Labels(n, 3)

		acc, err := Accuracy(predicted, truth)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, acc, 0.0)
		assert.LessOrEqual(t, acc, 1.0)

		allMatch := true
		for i := range truth {
			allMatch = allMatch && truth[i] == predicted[i]
		}
		assert.Equal(t, allMatch, acc == 1.0)

		acc, err = Accuracy(truth, truth)
		require.NoError(t, err)
		assert.Equal(t, 1.0, acc)
	}
}

func TestEvaluate(t *testing.T) {
	truth := []idx.Label{0, 1, 1, 2, 2, 2}
	predicted := []idx.Label{0, 1, 2, 2, 0, 2}

	r, err := Evaluate(predicted, truth)
	require.NoError(t, err)

	assert.Equal(t, 6, r.Total)
	assert.Equal(t, 4, r.Correct)
	assert.InDelta(t, 4.0/6.0, r.Accuracy, 1e-12)
	assert.Equal(t, []int{2, 4}, r.MisclassifiedIndices())
	assert.True(t, r.Misclassified.Contains(4))

	m := r.Confusion
	assert.Equal(t, []idx.Label{0, 1, 2}, m.Labels())
	assert.Equal(t, 1, m.Count(1, 2))
	assert.Equal(t, 1, m.Count(2, 0))
	assert.Equal(t, 2, m.Count(2, 2))
	assert.Zero(t, m.Count(0, 2))
	assert.InDelta(t, 0.5, m.Recall(1), 1e-12)
	assert.InDelta(t, 2.0/3.0, m.Recall(2), 1e-12)
	assert.Zero(t, m.Recall(9))

	acc, err := Accuracy(predicted, truth)
	require.NoError(t, err)
	assert.Equal(t, acc, r.Accuracy)
}

func TestConfusionMatrix_String(t *testing.T) {
	m := NewConfusionMatrix()
	m.Add(3, 3)
	m.Add(3, 5)

	s := m.String()
	assert.Contains(t, s, "truth\\pred")
	assert.Contains(t, s, "     3     5")
}
