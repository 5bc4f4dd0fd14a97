package knn

import (
	"context"
	"math"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/ocrknn/distance"
	"github.com/hupe1980/ocrknn/feature"
	"github.com/hupe1980/ocrknn/idx"
	"github.com/hupe1980/ocrknn/testutil"
)

// bruteForce orders the whole reference set with a stable sort and cuts at k.
func bruteForce(t *testing.T, reference []Sample, query feature.Vector, k int) []Neighbor {
	t.Helper()

	all := make([]Neighbor, len(reference))
	for i, s := range reference {
		d, err := distance.Euclidean(s.Vector, query)
		require.NoError(t, err)
		all[i] = Neighbor{Index: i, Label: s.Label, Distance: d}
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].Distance < all[j].Distance })
	return all[:min(k, len(all))]
}

func referenceSet(t *testing.T, vectors []feature.Vector, labels []idx.Label) []Sample {
	t.Helper()
	ref, err := NewReferenceSet(vectors, labels)
	require.NoError(t, err)
	return ref
}

func TestClassify_Scenario(t *testing.T) {
	// Distances from the query are 5, 1 and 2.
	reference := referenceSet(t,
		[]feature.Vector{{5, 0, 0, 0}, {1, 0, 0, 0}, {0, 2, 0, 0}},
		[]idx.Label{0, 1, 1},
	)
	query := feature.Vector{0, 0, 0, 0}

	neighbors, err := Neighbors(reference, query, 3)
	require.NoError(t, err)
	assert.Equal(t, []Neighbor{
		{Index: 1, Label: 1, Distance: 1},
		{Index: 2, Label: 1, Distance: 2},
		{Index: 0, Label: 0, Distance: 5},
	}, neighbors)

	pred, err := Classify(context.Background(), reference, []feature.Vector{query}, 3)
	require.NoError(t, err)
	assert.Equal(t, []idx.Label{1}, pred)

	pred, err = Classify(context.Background(), reference, []feature.Vector{query}, 1)
	require.NoError(t, err)
	assert.Equal(t, []idx.Label{1}, pred)
}

func TestClassify_KExceedsReferenceSet(t *testing.T) {
	reference := referenceSet(t,
		[]feature.Vector{{0}, {10}, {20}},
		[]idx.Label{4, 4, 2},
	)

	neighbors, err := Neighbors(reference, feature.Vector{19}, 50)
	require.NoError(t, err)
	assert.Len(t, neighbors, 3)

	pred, err := Classify(context.Background(), reference, []feature.Vector{{19}}, 50)
	require.NoError(t, err)
	assert.Equal(t, []idx.Label{4}, pred)
}

func TestClassify_TieBreak(t *testing.T) {
	tests := []struct {
		name    string
		vectors []feature.Vector
		labels  []idx.Label
		k       int
		want    idx.Label
	}{
		{
			// Candidates [7, 2, 2, 7]: 2 and 7 tie, 7 is closer.
			name:    "CloserLabelWinsVote",
			vectors: []feature.Vector{{4}, {2}, {1}, {3}},
			labels:  []idx.Label{7, 2, 7, 2},
			k:       4,
			want:    7,
		},
		{
			// Same distance: the earlier reference sample is closer.
			name:    "EqualDistanceUsesReferenceOrder",
			vectors: []feature.Vector{{3}, {3}},
			labels:  []idx.Label{6, 8},
			k:       1,
			want:    6,
		},
		{
			// Distances [2, 1, 2]: the cut at k=2 keeps index 0, not index 2.
			name:    "EqualDistanceAtCut",
			vectors: []feature.Vector{{2}, {1}, {2}},
			labels:  []idx.Label{4, 9, 6},
			k:       2,
			want:    9,
		},
		{
			name:    "MajorityBeatsCloser",
			vectors: []feature.Vector{{1}, {2}, {3}},
			labels:  []idx.Label{1, 5, 5},
			k:       3,
			want:    5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reference := referenceSet(t, tt.vectors, tt.labels)

			pred, err := Classify(context.Background(), reference, []feature.Vector{{0}}, tt.k)
			require.NoError(t, err)
			assert.Equal(t, []idx.Label{tt.want}, pred)
		})
	}
}

func TestNeighbors_EqualDistanceAtCutKeepsIndexOrder(t *testing.T) {
	reference := referenceSet(t,
		[]feature.Vector{{2}, {1}, {2}},
		[]idx.Label{4, 9, 6},
	)

	neighbors, err := Neighbors(reference, feature.Vector{0}, 2)
	require.NoError(t, err)
	require.Len(t, neighbors, 2)
	assert.Equal(t, 1, neighbors[0].Index)
	assert.Equal(t, 0, neighbors[1].Index)
}

func TestNeighbors_MatchesStableSort(t *testing.T) {
	rng := testutil.NewRNG(42)

	// Few intensity levels in few dimensions force many exact ties.
	vectors := rng.Vectors(200, 3, 3)
	labels := rng.Labels(200, 10)
	reference := referenceSet(t, vectors, labels)
	queries := rng.Vectors(50, 3, 3)

	for _, k := range []int{1, 3, 7, 25, 200, 500} {
		for _, q := range queries {
			got, err := Neighbors(reference, q, k)
			require.NoError(t, err)
			assert.Equal(t, bruteForce(t, reference, q, k), got)
		}
	}
}

func TestClassify_KOneMatchesOracle(t *testing.T) {
	rng := testutil.NewRNG(7)

	reference := referenceSet(t, rng.Vectors(100, 16, 256), rng.Labels(100, 10))
	queries := rng.Vectors(40, 16, 256)

	pred, err := Classify(context.Background(), reference, queries, 1)
	require.NoError(t, err)
	require.Len(t, pred, len(queries))

	for i, q := range queries {
		closest := bruteForce(t, reference, q, 1)[0]
		assert.Equal(t, closest.Label, pred[i], "query %d", i)
	}
}

func TestClassify_WorkersDoNotChangeResult(t *testing.T) {
	rng := testutil.NewRNG(99)

	reference := referenceSet(t, rng.Vectors(150, 8, 4), rng.Labels(150, 10))
	queries := rng.Vectors(80, 8, 4)

	serial, err := New(func(o *Options) { o.Workers = 1 }).Classify(context.Background(), reference, queries, 5)
	require.NoError(t, err)

	parallel := New(func(o *Options) { o.Workers = 8 })
	assert.Equal(t, 8, parallel.Workers())
	got, err := parallel.Classify(context.Background(), reference, queries, 5)
	require.NoError(t, err)
	assert.Equal(t, serial, got)
}

func TestClassify_Digits(t *testing.T) {
	rng := testutil.NewRNG(2024)

	images, labels := rng.Digits(300, 8, 8, 10, 0.05)
	vectors, err := feature.Extract(images)
	require.NoError(t, err)

	reference := referenceSet(t, vectors[50:], labels[50:])

	pred, err := Classify(context.Background(), reference, vectors[:50], 3)
	require.NoError(t, err)

	correct := 0
	for i, p := range pred {
		if p == labels[i] {
			correct++
		}
	}
	assert.GreaterOrEqual(t, correct, 48)
}

func TestClassify_Errors(t *testing.T) {
	reference := referenceSet(t, []feature.Vector{{1, 2}, {3, 4}}, []idx.Label{0, 1})
	ctx := context.Background()

	_, err := Classify(ctx, reference, []feature.Vector{{1, 2}}, 0)
	assert.ErrorIs(t, err, ErrInvalidK)

	_, err = Classify(ctx, nil, []feature.Vector{{1, 2}}, 3)
	assert.ErrorIs(t, err, ErrEmptyReferenceSet)

	var dm *distance.DimensionMismatchError
	_, err = Classify(ctx, reference, []feature.Vector{{1, 2}, {1, 2, 3}}, 1)
	require.ErrorAs(t, err, &dm)
	assert.Equal(t, 2, dm.Expected)
	assert.Equal(t, 3, dm.Actual)

	ragged := referenceSet(t, []feature.Vector{{1, 2}, {3}}, []idx.Label{0, 1})
	_, err = Classify(ctx, ragged, []feature.Vector{{1, 2}}, 1)
	assert.ErrorAs(t, err, &dm)

	_, err = Neighbors(nil, feature.Vector{1}, 1)
	assert.ErrorIs(t, err, ErrEmptyReferenceSet)
}

func TestClassify_EmptyQuerySet(t *testing.T) {
	reference := referenceSet(t, []feature.Vector{{1}}, []idx.Label{3})

	pred, err := Classify(context.Background(), reference, nil, 1)
	require.NoError(t, err)
	assert.Empty(t, pred)
}

func TestClassify_Canceled(t *testing.T) {
	rng := testutil.NewRNG(5)
	reference := referenceSet(t, rng.Vectors(10, 4, 256), rng.Labels(10, 10))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pred, err := Classify(ctx, reference, rng.Vectors(100, 4, 256), 3)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, pred)
}

func TestNewReferenceSet_Mismatch(t *testing.T) {
	_, err := NewReferenceSet([]feature.Vector{{1}, {2}}, []idx.Label{1})
	assert.ErrorIs(t, err, ErrLabelCountMismatch)
}

func TestVote(t *testing.T) {
	tests := []struct {
		name       string
		candidates []idx.Label
		want       idx.Label
	}{
		{"Empty", nil, 0},
		{"Single", []idx.Label{5}, 5},
		{"Majority", []idx.Label{3, 1, 1}, 1},
		{"TieFirstWins", []idx.Label{1, 2, 2, 1}, 1},
		{"TieAmongLater", []idx.Label{0, 4, 9, 9, 4}, 4},
		{"AllDistinct", []idx.Label{8, 6, 7}, 8},
		{"HighLabel", []idx.Label{255, 0, 255}, 255},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Vote(tt.candidates))
		})
	}
}

func TestNeighbors_DistanceIsEuclidean(t *testing.T) {
	reference := referenceSet(t, []feature.Vector{{3, 4}}, []idx.Label{1})

	neighbors, err := Neighbors(reference, feature.Vector{0, 0}, 1)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, neighbors[0].Distance, 1e-12)
	assert.False(t, math.IsNaN(neighbors[0].Distance))
}

func BenchmarkClassify(b *testing.B) {
	rng := testutil.NewRNG(1)
	reference, err := NewReferenceSet(rng.Vectors(2000, 784, 256), rng.Labels(2000, 10))
	require.NoError(b, err)
	queries := rng.Vectors(16, 784, 256)
	c := New()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = c.Classify(context.Background(), reference, queries, 7)
	}
}
