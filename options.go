package dsopt

import (
	"log/slog"
	"time"

	"github.com/hupe1980/dsopt/monitor"
	"github.com/hupe1980/dsopt/optimizer"
)

type options struct {
	logger           *Logger
	metricsCollector MetricsCollector
	monitorOpts      []monitor.Option
	optimizerOpts    []optimizer.Option
}

// Option configures an Engine.
type Option func(*options)

// WithLogger configures structured logging.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := dsopt.NewJSONLogger(slog.LevelInfo)
//	eng := dsopt.New(dsopt.WithLogger(logger))
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

// WithMetricsCollector configures a metrics collector that receives every
// measured operation.
//
// Example with BasicMetricsCollector:
//
//	metrics := &dsopt.BasicMetricsCollector{}
//	eng := dsopt.New(dsopt.WithMetricsCollector(metrics))
//	// ... measure operations ...
//	stats := metrics.GetStats()
//	fmt.Printf("Searches: %d, Avg latency: %dns\n", stats.SearchCount, stats.SearchAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithThreshold overrides the slow-operation threshold of a category.
func WithThreshold(category monitor.Category, d time.Duration) Option {
	return func(o *options) {
		o.monitorOpts = append(o.monitorOpts, monitor.WithThreshold(category, d))
	}
}

// WithWindowSize sets how many recent samples are kept per category.
func WithWindowSize(n int) Option {
	return func(o *options) {
		o.monitorOpts = append(o.monitorOpts, monitor.WithWindowSize(n))
	}
}

// WithSeverity replaces the breach-to-priority mapping.
func WithSeverity(fn monitor.SeverityFunc) Option {
	return func(o *options) {
		o.monitorOpts = append(o.monitorOpts, monitor.WithSeverity(fn))
	}
}

// WithMemoryCeiling sets the estimated memory ceiling in bytes.
func WithMemoryCeiling(bytes int64) Option {
	return func(o *options) {
		o.optimizerOpts = append(o.optimizerOpts, optimizer.WithMemoryCeiling(bytes))
	}
}

// WithMaxSuggestions bounds how many performance suggestions are retained.
func WithMaxSuggestions(n int) Option {
	return func(o *options) {
		o.monitorOpts = append(o.monitorOpts, monitor.WithMaxSuggestions(n))
	}
}

// WithMinRequests sets how many requests a cache must have served, exclusive,
// before its hit rate is judged.
func WithMinRequests(n uint64) Option {
	return func(o *options) {
		o.optimizerOpts = append(o.optimizerOpts, optimizer.WithMinRequests(n))
	}
}

// WithHitRateFloor sets the cache hit rate below which a busy cache is flagged.
func WithHitRateFloor(floor float64) Option {
	return func(o *options) {
		o.optimizerOpts = append(o.optimizerOpts, optimizer.WithHitRateFloor(floor))
	}
}

// WithClock replaces time.Now for timing and report timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.monitorOpts = append(o.monitorOpts, monitor.WithClock(now))
		o.optimizerOpts = append(o.optimizerOpts, optimizer.WithClock(now))
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	if o.metricsCollector == nil {
		o.metricsCollector = NoopMetricsCollector{}
	}
	return o
}
