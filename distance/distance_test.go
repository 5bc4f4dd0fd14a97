package distance

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSquaredL2(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []uint8
		expected uint64
	}{
		{"Simple", []uint8{1, 2, 3}, []uint8{4, 5, 6}, 27},
		{"Zero", []uint8{0, 0, 0}, []uint8{0, 0, 0}, 0},
		{"Identical", []uint8{9, 200, 3}, []uint8{9, 200, 3}, 0},
		{"Extremes", []uint8{0, 255}, []uint8{255, 0}, 2 * 255 * 255},
		{"Empty", []uint8{}, []uint8{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SquaredL2(tt.a, tt.b))
		})
	}
}

func TestSquaredL2_NoOverflow(t *testing.T) {
	a := make([]uint8, 28*28)
	b := make([]uint8, 28*28)
	for i := range b {
		b[i] = 255
	}
	assert.Equal(t, uint64(28*28*255*255), SquaredL2(a, b))
}

func TestEuclidean(t *testing.T) {
	d, err := Euclidean([]uint8{0, 0}, []uint8{3, 4})
	require.NoError(t, err)
	assert.InDelta(t, 5.0, d, 1e-12)

	d, err = Euclidean([]uint8{7, 7, 7}, []uint8{7, 7, 7})
	require.NoError(t, err)
	assert.Zero(t, d)
}

func TestEuclidean_DimensionMismatch(t *testing.T) {
	_, err := Euclidean([]uint8{1, 2, 3}, []uint8{1, 2})
	require.Error(t, err)

	var dm *DimensionMismatchError
	require.ErrorAs(t, err, &dm)
	assert.Equal(t, 3, dm.Expected)
	assert.Equal(t, 2, dm.Actual)
	assert.Equal(t, "dimension mismatch: expected 3, got 2", err.Error())
}

func TestEuclidean_Symmetry(t *testing.T) {
	vectors := [][]uint8{
		{0, 0, 0, 0},
		{255, 0, 128, 3},
		{12, 250, 7, 99},
		{1, 1, 1, 1},
	}

	for _, a := range vectors {
		self, err := Euclidean(a, a)
		require.NoError(t, err)
		assert.Zero(t, self)

		for _, b := range vectors {
			ab, err := Euclidean(a, b)
			require.NoError(t, err)
			ba, err := Euclidean(b, a)
			require.NoError(t, err)
			assert.Equal(t, ab, ba)
			assert.GreaterOrEqual(t, ab, 0.0)
		}
	}
}

func TestEuclidean_MonotoneInSquared(t *testing.T) {
	// Ordering by squared distance must agree with ordering by distance.
	prev := -1.0
	for sq := uint64(0); sq < 100000; sq += 7 {
		d := math.Sqrt(float64(sq))
		assert.Greater(t, d, prev)
		prev = d
	}
}

func BenchmarkSquaredL2(b *testing.B) {
	x := make([]uint8, 784)
	y := make([]uint8, 784)
	for i := range x {
		x[i] = uint8(i)
		y[i] = uint8(255 - i%256)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = SquaredL2(x, y)
	}
}
