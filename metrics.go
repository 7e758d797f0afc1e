package rvec

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordEval is called after each Eval. warnings is the number of
	// warnings raised during the evaluation.
	RecordEval(duration time.Duration, warnings int, err error)

	// RecordImport is called after each cross-context import.
	RecordImport(duration time.Duration, err error)

	// RecordInsert is called after each lazy-load insert.
	RecordInsert(duration time.Duration, err error)

	// RecordFetch is called after each lazy-load fetch.
	RecordFetch(duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordEval(time.Duration, int, error) {}
func (NoopMetricsCollector) RecordImport(time.Duration, error)    {}
func (NoopMetricsCollector) RecordInsert(time.Duration, error)    {}
func (NoopMetricsCollector) RecordFetch(time.Duration, error)     {}

// BasicMetricsCollector provides simple in-memory metrics collection.
type BasicMetricsCollector struct {
	EvalCount       atomic.Int64
	EvalErrors      atomic.Int64
	EvalWarnings    atomic.Int64
	EvalTotalNanos  atomic.Int64
	ImportCount     atomic.Int64
	ImportErrors    atomic.Int64
	InsertCount     atomic.Int64
	InsertErrors    atomic.Int64
	FetchCount      atomic.Int64
	FetchErrors     atomic.Int64
	FetchTotalNanos atomic.Int64
}

// RecordEval implements MetricsCollector.
func (b *BasicMetricsCollector) RecordEval(duration time.Duration, warnings int, err error) {
	b.EvalCount.Add(1)
	b.EvalWarnings.Add(int64(warnings))
	b.EvalTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.EvalErrors.Add(1)
	}
}

// RecordImport implements MetricsCollector.
func (b *BasicMetricsCollector) RecordImport(_ time.Duration, err error) {
	b.ImportCount.Add(1)
	if err != nil {
		b.ImportErrors.Add(1)
	}
}

// RecordInsert implements MetricsCollector.
func (b *BasicMetricsCollector) RecordInsert(_ time.Duration, err error) {
	b.InsertCount.Add(1)
	if err != nil {
		b.InsertErrors.Add(1)
	}
}

// RecordFetch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordFetch(duration time.Duration, err error) {
	b.FetchCount.Add(1)
	b.FetchTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.FetchErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		EvalCount:     b.EvalCount.Load(),
		EvalErrors:    b.EvalErrors.Load(),
		EvalWarnings:  b.EvalWarnings.Load(),
		EvalAvgNanos:  avg(b.EvalTotalNanos.Load(), b.EvalCount.Load()),
		ImportCount:   b.ImportCount.Load(),
		ImportErrors:  b.ImportErrors.Load(),
		InsertCount:   b.InsertCount.Load(),
		InsertErrors:  b.InsertErrors.Load(),
		FetchCount:    b.FetchCount.Load(),
		FetchErrors:   b.FetchErrors.Load(),
		FetchAvgNanos: avg(b.FetchTotalNanos.Load(), b.FetchCount.Load()),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	EvalCount     int64
	EvalErrors    int64
	EvalWarnings  int64
	EvalAvgNanos  int64
	ImportCount   int64
	ImportErrors  int64
	InsertCount   int64
	InsertErrors  int64
	FetchCount    int64
	FetchErrors   int64
	FetchAvgNanos int64
}
