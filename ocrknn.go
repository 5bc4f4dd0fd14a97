package ocrknn

import (
	"context"
	"fmt"
	"time"

	"github.com/hupe1980/ocrknn/dataset"
	"github.com/hupe1980/ocrknn/eval"
	"github.com/hupe1980/ocrknn/feature"
	"github.com/hupe1980/ocrknn/idx"
	"github.com/hupe1980/ocrknn/knn"
)

// Source names an image file, its label file and an optional record cap.
type Source = dataset.Source

// Set is a decoded dataset.
type Set = dataset.Set

// Result is the outcome of Run.
type Result struct {
	Train       *Set
	Test        *Set
	Predictions []idx.Label
	Report      *eval.Report
}

// Pipeline loads datasets, classifies queries against a training set and
// evaluates the predictions. It is safe for concurrent use.
type Pipeline struct {
	opts       options
	loader     *dataset.Loader
	classifier *knn.Classifier
	logger     *Logger
	metrics    MetricsCollector
}

// New creates a Pipeline.
func New(optFns ...Option) (*Pipeline, error) {
	opts := applyOptions(optFns)
	if opts.k <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidK, opts.k)
	}

	loader, err := dataset.NewLoader(func(o *dataset.Options) {
		if opts.cacheSize > 0 {
			o.CacheSize = opts.cacheSize
		}
		o.Mmap = opts.mmap
		o.Controller = opts.controller
		o.Compression = opts.compression
	})
	if err != nil {
		return nil, err
	}

	classifier := knn.New(func(o *knn.Options) {
		o.Workers = opts.workers
	})

	return &Pipeline{
		opts:       opts,
		loader:     loader,
		classifier: classifier,
		logger:     opts.logger.WithK(opts.k).WithWorkers(classifier.Workers()),
		metrics:    opts.metricsCollector,
	}, nil
}

// K returns the number of neighbors that vote on a label.
func (p *Pipeline) K() int {
	return p.opts.k
}

// Logger returns the pipeline's logger.
func (p *Pipeline) Logger() *Logger {
	return p.logger
}

// Load decodes the dataset named by src.
func (p *Pipeline) Load(ctx context.Context, src Source) (*Set, error) {
	start := time.Now()
	set, err := p.loader.Load(ctx, src)
	err = translateError(err)

	records := 0
	if set != nil {
		records = set.Len()
	}
	p.metrics.RecordLoad(records, time.Since(start), err)
	p.logger.LogLoad(ctx, src.Name, records, err)

	return set, err
}

// LoadPair decodes a training and a test dataset concurrently.
func (p *Pipeline) LoadPair(ctx context.Context, train, test Source) (*Set, *Set, error) {
	start := time.Now()
	trainSet, testSet, err := p.loader.LoadPair(ctx, train, test)
	err = translateError(err)
	if err != nil {
		p.metrics.RecordLoad(0, time.Since(start), err)
		p.logger.LogLoad(ctx, train.Name+","+test.Name, 0, err)
		return nil, nil, err
	}

	elapsed := time.Since(start)
	for _, set := range []*Set{trainSet, testSet} {
		p.metrics.RecordLoad(set.Len(), elapsed, nil)
		p.logger.LogLoad(ctx, set.Name, set.Len(), nil)
	}
	return trainSet, testSet, nil
}

// Predict labels each query image by a majority vote of its k nearest
// neighbors in train. Queries must have the geometry of the training images.
func (p *Pipeline) Predict(ctx context.Context, train *Set, queries []idx.Image) ([]idx.Label, error) {
	start := time.Now()
	predictions, references, err := p.predict(ctx, train, queries)
	err = translateError(err)

	p.metrics.RecordClassify(len(queries), p.opts.k, time.Since(start), err)
	p.logger.LogClassify(ctx, len(queries), references, p.opts.k, err)

	return predictions, err
}

func (p *Pipeline) predict(ctx context.Context, train *Set, queries []idx.Image) ([]idx.Label, int, error) {
	if train == nil {
		return nil, 0, knn.ErrEmptyReferenceSet
	}

	refVectors, err := feature.Extract(train.Images)
	if err != nil {
		return nil, 0, fmt.Errorf("reference images: %w", err)
	}
	queryVectors, err := feature.Extract(queries)
	if err != nil {
		return nil, 0, fmt.Errorf("query images: %w", err)
	}
	if err := feature.CheckGeometry(refVectors, queryVectors); err != nil {
		return nil, 0, err
	}

	reference, err := knn.NewReferenceSet(refVectors, train.Labels)
	if err != nil {
		return nil, 0, err
	}

	predictions, err := p.classifier.Classify(ctx, reference, queryVectors, p.opts.k)
	if err != nil {
		return nil, 0, err
	}
	return predictions, len(reference), nil
}

// Evaluate compares predictions with the ground truth.
func (p *Pipeline) Evaluate(ctx context.Context, predicted, truth []idx.Label) (*eval.Report, error) {
	start := time.Now()
	report, err := eval.Evaluate(predicted, truth)
	err = translateError(err)
	if err != nil {
		p.logger.LogEvaluate(ctx, 0, 0, 0, err)
		return nil, err
	}

	p.metrics.RecordEvaluate(report.Total, report.Correct, time.Since(start))
	p.logger.LogEvaluate(ctx, report.Total, report.Correct, report.Accuracy, nil)
	return report, nil
}

// Run loads both datasets, classifies every test image against the
// training set and evaluates the predictions against the test labels.
func (p *Pipeline) Run(ctx context.Context, train, test Source) (*Result, error) {
	trainSet, testSet, err := p.LoadPair(ctx, train, test)
	if err != nil {
		return nil, err
	}

	predictions, err := p.Predict(ctx, trainSet, testSet.Images)
	if err != nil {
		return nil, err
	}

	report, err := p.Evaluate(ctx, predictions, testSet.Labels)
	if err != nil {
		return nil, err
	}

	return &Result{
		Train:       trainSet,
		Test:        testSet,
		Predictions: predictions,
		Report:      report,
	}, nil
}

// Close releases cached datasets.
func (p *Pipeline) Close() error {
	return p.loader.Close()
}
