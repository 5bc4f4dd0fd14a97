package ocrknn

import (
	"log/slog"

	"github.com/hupe1980/ocrknn/idx"
	"github.com/hupe1980/ocrknn/resource"
)

// DefaultK is the number of neighbors consulted when WithK is not given.
const DefaultK = 7

type options struct {
	k                int
	workers          int
	controller       *resource.Controller
	cacheSize        int
	mmap             bool
	compression      idx.Compression
	metricsCollector MetricsCollector
	logger           *Logger
}

// Option configures a Pipeline.
type Option func(*options)

// WithK sets the number of nearest neighbors that vote on a label.
func WithK(k int) Option {
	return func(o *options) {
		o.k = k
	}
}

// WithWorkers sets the number of queries classified concurrently.
// If workers <= 0, runtime.GOMAXPROCS(0) is used.
func WithWorkers(workers int) Option {
	return func(o *options) {
		o.workers = workers
	}
}

// WithResourceController bounds dataset loading by the controller's memory
// budget, worker slots and IO rate.
//
// Example:
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes:   256 << 20,
//	    MaxWorkers:         2,
//	    IOLimitBytesPerSec: 64 << 20,
//	})
//	p, _ := ocrknn.New(ocrknn.WithResourceController(rc))
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.controller = rc
	}
}

// WithCacheSize sets how many decoded dataset files are kept in memory.
func WithCacheSize(n int) Option {
	return func(o *options) {
		o.cacheSize = n
	}
}

// WithMmap reads uncompressed dataset files through a read-only memory mapping.
func WithMmap(enabled bool) Option {
	return func(o *options) {
		o.mmap = enabled
	}
}

// WithCompression fixes the container format of dataset files instead of
// detecting it. Use idx.CompressionNone for plain files whose magic number
// starts with a compression signature.
func WithCompression(c idx.Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &ocrknn.BasicMetricsCollector{}
//	p, _ := ocrknn.New(ocrknn.WithMetricsCollector(metrics))
//	// ... use p ...
//	stats := metrics.GetStats()
//	fmt.Printf("Queries: %d, Accuracy: %.3f\n", stats.ClassifyQueries, stats.EvaluateAccuracy)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		k:                DefaultK,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.metricsCollector == nil {
		o.metricsCollector = NoopMetricsCollector{}
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	return o
}
