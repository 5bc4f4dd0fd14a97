package ocrknn

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordLoad is called after each dataset load.
	// records is the number of images loaded, err is nil if successful.
	RecordLoad(records int, duration time.Duration, err error)

	// RecordClassify is called after each classification run over a query set.
	RecordClassify(queries, k int, duration time.Duration, err error)

	// RecordEvaluate is called after each evaluation.
	RecordEvaluate(total, correct int, duration time.Duration)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordLoad(int, time.Duration, error)          {}
func (NoopMetricsCollector) RecordClassify(int, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordEvaluate(int, int, time.Duration)        {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	LoadCount          atomic.Int64
	LoadErrors         atomic.Int64
	LoadRecords        atomic.Int64
	LoadTotalNanos     atomic.Int64
	ClassifyCount      atomic.Int64
	ClassifyErrors     atomic.Int64
	ClassifyQueries    atomic.Int64
	ClassifyTotalNanos atomic.Int64
	EvaluateCount      atomic.Int64
	EvaluateTotal      atomic.Int64
	EvaluateCorrect    atomic.Int64
}

// RecordLoad implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLoad(records int, duration time.Duration, err error) {
	b.LoadCount.Add(1)
	b.LoadTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.LoadErrors.Add(1)
		return
	}
	b.LoadRecords.Add(int64(records))
}

// RecordClassify implements MetricsCollector.
func (b *BasicMetricsCollector) RecordClassify(queries, k int, duration time.Duration, err error) {
	b.ClassifyCount.Add(1)
	b.ClassifyTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.ClassifyErrors.Add(1)
		return
	}
	b.ClassifyQueries.Add(int64(queries))
}

// RecordEvaluate implements MetricsCollector.
func (b *BasicMetricsCollector) RecordEvaluate(total, correct int, duration time.Duration) {
	b.EvaluateCount.Add(1)
	b.EvaluateTotal.Add(int64(total))
	b.EvaluateCorrect.Add(int64(correct))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		LoadCount:        b.LoadCount.Load(),
		LoadErrors:       b.LoadErrors.Load(),
		LoadRecords:      b.LoadRecords.Load(),
		LoadAvgNanos:     avgNanos(b.LoadTotalNanos.Load(), b.LoadCount.Load()),
		ClassifyCount:    b.ClassifyCount.Load(),
		ClassifyErrors:   b.ClassifyErrors.Load(),
		ClassifyQueries:  b.ClassifyQueries.Load(),
		ClassifyAvgNanos: avgNanos(b.ClassifyTotalNanos.Load(), b.ClassifyCount.Load()),
		EvaluateCount:    b.EvaluateCount.Load(),
		EvaluateAccuracy: b.getAccuracy(),
	}
}

func (b *BasicMetricsCollector) getAccuracy() float64 {
	total := b.EvaluateTotal.Load()
	if total == 0 {
		return 0
	}
	return float64(b.EvaluateCorrect.Load()) / float64(total)
}

func avgNanos(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	LoadCount        int64
	LoadErrors       int64
	LoadRecords      int64
	LoadAvgNanos     int64
	ClassifyCount    int64
	ClassifyErrors   int64
	ClassifyQueries  int64
	ClassifyAvgNanos int64
	EvaluateCount    int64
	// EvaluateAccuracy is the pooled accuracy over every evaluation.
	EvaluateAccuracy float64
}
