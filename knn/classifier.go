package knn

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/ocrknn/feature"
	"github.com/hupe1980/ocrknn/idx"
)

// Options contains configuration options for the classifier.
type Options struct {
	// Workers bounds the number of queries classified concurrently.
	// If <= 0, runtime.GOMAXPROCS(0) is used.
	Workers int
}

// DefaultOptions contains the default configuration options for the classifier.
var DefaultOptions = Options{}

// Classifier predicts labels by k-nearest-neighbor majority vote.
// It holds no state between calls and is safe for concurrent use.
type Classifier struct {
	opts Options
}

// New creates a new Classifier.
func New(optFns ...func(o *Options)) *Classifier {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	return &Classifier{opts: opts}
}

// Workers returns the effective worker count.
func (c *Classifier) Workers() int {
	return c.opts.Workers
}

// Classify predicts one label per query, in query order.
//
// The whole input is validated before any distance is computed. The first
// error aborts the run; no partial predictions are returned.
func (c *Classifier) Classify(ctx context.Context, reference []Sample, queries []feature.Vector, k int) ([]idx.Label, error) {
	if err := validate(reference, queries, k); err != nil {
		return nil, err
	}

	predictions := make([]idx.Label, len(queries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.Workers)

	scheduled := 0
	for i, q := range queries {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			predictions[i] = predict(reference, q, k)
			return nil
		})
		scheduled++
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if scheduled < len(queries) {
		return nil, ctx.Err()
	}

	return predictions, nil
}

// Classify predicts labels with a default Classifier.
func Classify(ctx context.Context, reference []Sample, queries []feature.Vector, k int) ([]idx.Label, error) {
	return New().Classify(ctx, reference, queries, k)
}
