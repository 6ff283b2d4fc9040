package monitor

import (
	"log/slog"
	"time"

	"github.com/hupe1980/dsopt/advice"
)

// DefaultWindowSize is the number of samples retained per category.
const DefaultWindowSize = 1000

// DefaultMaxSuggestions bounds the retained suggestion history.
const DefaultMaxSuggestions = 100

// DefaultThresholds returns the default per-category thresholds.
func DefaultThresholds() map[Category]time.Duration {
	return map[Category]time.Duration{
		Search: 10 * time.Millisecond,
		Insert: 5 * time.Millisecond,
		Delete: 5 * time.Millisecond,
		Update: 3 * time.Millisecond,
	}
}

// SeverityFunc maps a breach to a suggestion priority.
type SeverityFunc func(duration, threshold time.Duration) advice.Priority

// DefaultSeverity is MEDIUM for a breach and HIGH at twice the threshold or more.
func DefaultSeverity(duration, threshold time.Duration) advice.Priority {
	if duration >= 2*threshold {
		return advice.PriorityHigh
	}
	return advice.PriorityMedium
}

// MetricsCollector receives every measurement of the four standard categories.
type MetricsCollector interface {
	RecordSearch(duration time.Duration, err error)
	RecordInsert(duration time.Duration, err error)
	RecordDelete(duration time.Duration, err error)
	RecordUpdate(duration time.Duration, err error)
}

type options struct {
	windowSize     int
	maxSuggestions int
	thresholds     map[Category]time.Duration
	severity       SeverityFunc
	logger         *slog.Logger
	metrics        MetricsCollector
	now            func() time.Time
	logEvery       time.Duration
	logBurst       int
}

// Option configures a Monitor.
type Option func(*options)

// WithWindowSize sets the number of samples kept per category.
// Values <= 0 keep the default.
func WithWindowSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.windowSize = n
		}
	}
}

// WithMaxSuggestions bounds the retained suggestion history.
// Values <= 0 keep the default.
func WithMaxSuggestions(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxSuggestions = n
		}
	}
}

// WithThreshold overrides the threshold for one category.
// A non-positive threshold disables breach detection for it.
func WithThreshold(c Category, d time.Duration) Option {
	return func(o *options) {
		o.thresholds[c] = d
	}
}

// WithSeverity replaces DefaultSeverity.
func WithSeverity(fn SeverityFunc) Option {
	return func(o *options) {
		if fn != nil {
			o.severity = fn
		}
	}
}

// WithLogger sets the logger used for breach warnings.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetricsCollector forwards measurements to mc.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metrics = mc
	}
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithBreachLogRate limits breach warnings to burst lines, refilled once per
// interval. Suggestions are recorded for every breach regardless.
func WithBreachLogRate(interval time.Duration, burst int) Option {
	return func(o *options) {
		o.logEvery = interval
		o.logBurst = burst
	}
}
