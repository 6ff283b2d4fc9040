package dsopt

import (
	"sync/atomic"
	"time"

	"github.com/hupe1980/dsopt/monitor"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
// Every Measure call in the search, insert, delete and update categories is
// forwarded to the configured collector.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    searchHistogram prometheus.Histogram
//	}
//
//	func (p *PrometheusCollector) RecordSearch(duration time.Duration, err error) {
//	    p.searchHistogram.Observe(duration.Seconds())
//	}
type MetricsCollector = monitor.MetricsCollector

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordSearch(time.Duration, error) {}
func (NoopMetricsCollector) RecordInsert(time.Duration, error) {}
func (NoopMetricsCollector) RecordDelete(time.Duration, error) {}
func (NoopMetricsCollector) RecordUpdate(time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
// It is safe for concurrent use.
type BasicMetricsCollector struct {
	SearchCount      atomic.Int64
	SearchErrors     atomic.Int64
	SearchTotalNanos atomic.Int64
	InsertCount      atomic.Int64
	InsertErrors     atomic.Int64
	InsertTotalNanos atomic.Int64
	DeleteCount      atomic.Int64
	DeleteErrors     atomic.Int64
	DeleteTotalNanos atomic.Int64
	UpdateCount      atomic.Int64
	UpdateErrors     atomic.Int64
	UpdateTotalNanos atomic.Int64
}

// RecordSearch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSearch(duration time.Duration, err error) {
	record(&b.SearchCount, &b.SearchErrors, &b.SearchTotalNanos, duration, err)
}

// RecordInsert implements MetricsCollector.
func (b *BasicMetricsCollector) RecordInsert(duration time.Duration, err error) {
	record(&b.InsertCount, &b.InsertErrors, &b.InsertTotalNanos, duration, err)
}

// RecordDelete implements MetricsCollector.
func (b *BasicMetricsCollector) RecordDelete(duration time.Duration, err error) {
	record(&b.DeleteCount, &b.DeleteErrors, &b.DeleteTotalNanos, duration, err)
}

// RecordUpdate implements MetricsCollector.
func (b *BasicMetricsCollector) RecordUpdate(duration time.Duration, err error) {
	record(&b.UpdateCount, &b.UpdateErrors, &b.UpdateTotalNanos, duration, err)
}

func record(count, errs, nanos *atomic.Int64, duration time.Duration, err error) {
	count.Add(1)
	nanos.Add(duration.Nanoseconds())
	if err != nil {
		errs.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		SearchCount:    b.SearchCount.Load(),
		SearchErrors:   b.SearchErrors.Load(),
		SearchAvgNanos: avg(&b.SearchTotalNanos, &b.SearchCount),
		InsertCount:    b.InsertCount.Load(),
		InsertErrors:   b.InsertErrors.Load(),
		InsertAvgNanos: avg(&b.InsertTotalNanos, &b.InsertCount),
		DeleteCount:    b.DeleteCount.Load(),
		DeleteErrors:   b.DeleteErrors.Load(),
		DeleteAvgNanos: avg(&b.DeleteTotalNanos, &b.DeleteCount),
		UpdateCount:    b.UpdateCount.Load(),
		UpdateErrors:   b.UpdateErrors.Load(),
		UpdateAvgNanos: avg(&b.UpdateTotalNanos, &b.UpdateCount),
	}
}

func avg(total, count *atomic.Int64) int64 {
	n := count.Load()
	if n == 0 {
		return 0
	}
	return total.Load() / n
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	SearchCount    int64
	SearchErrors   int64
	SearchAvgNanos int64
	InsertCount    int64
	InsertErrors   int64
	InsertAvgNanos int64
	DeleteCount    int64
	DeleteErrors   int64
	DeleteAvgNanos int64
	UpdateCount    int64
	UpdateErrors   int64
	UpdateAvgNanos int64
}
