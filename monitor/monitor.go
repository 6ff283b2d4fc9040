package monitor

import (
	"io"
	"log/slog"
	"maps"
	"slices"
	"time"

	"github.com/VividCortex/ewma"
	"github.com/hupe1980/dsopt/advice"
	"golang.org/x/time/rate"
)

// Category groups operations for timing.
type Category string

const (
	Search Category = "search"
	Insert Category = "insert"
	Delete Category = "delete"
	Update Category = "update"
)

// Categories returns the four standard categories.
func Categories() []Category {
	return []Category{Search, Insert, Delete, Update}
}

var suggestedActions = map[Category][]string{
	Search: {
		"cache results of frequent lookups",
		"use a prefix trie for prefix queries",
		"pre-check membership with a bloom filter",
	},
	Insert: {
		"batch inserts",
		"pre-size structures to avoid growth",
	},
	Delete: {
		"defer deletions and apply them in batches",
		"prefer lazy deletion with periodic compaction",
	},
	Update: {
		"update in place instead of delete and re-insert",
		"coalesce repeated updates to the same key",
	},
}

type series struct {
	samples  *window
	ewma     ewma.MovingAverage
	total    uint64
	errors   uint64
	breaches uint64
}

// Monitor measures operations per category.
type Monitor struct {
	opts        options
	series      map[Category]*series
	suggestions []advice.Suggestion
	limiter     *rate.Limiter
	suppressed  uint64
}

// New creates a Monitor.
func New(optFns ...Option) *Monitor {
	o := options{
		windowSize:     DefaultWindowSize,
		maxSuggestions: DefaultMaxSuggestions,
		thresholds:     DefaultThresholds(),
		severity:       DefaultSeverity,
		logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:            time.Now,
		logEvery:       time.Second,
		logBurst:       10,
	}
	for _, fn := range optFns {
		fn(&o)
	}

	m := &Monitor{
		opts:   o,
		series: make(map[Category]*series),
	}
	if o.logEvery > 0 && o.logBurst > 0 {
		m.limiter = rate.NewLimiter(rate.Every(o.logEvery), o.logBurst)
	}
	return m
}

// Measure runs fn and records its duration under category. fn's error is
// returned unchanged. If fn panics, the elapsed time is recorded and the panic
// continues.
func (m *Monitor) Measure(category Category, fn func() error) (err error) {
	start := m.opts.now()
	defer func() {
		m.Record(category, m.opts.now().Sub(start), err)
	}()
	return fn()
}

// MeasureValue is Measure for operations that return a value.
func MeasureValue[T any](m *Monitor, category Category, fn func() (T, error)) (T, error) {
	var v T
	err := m.Measure(category, func() error {
		var err error
		v, err = fn()
		return err
	})
	return v, err
}

// Record adds an externally timed sample. It returns the suggestion created for
// a threshold breach, or nil.
func (m *Monitor) Record(category Category, d time.Duration, err error) advice.Suggestion {
	s := m.seriesFor(category)
	ms := toMillis(d)
	s.samples.push(ms)
	s.ewma.Add(ms)
	s.total++
	if err != nil {
		s.errors++
	}
	m.forward(category, d, err)

	threshold := m.threshold(category)
	if threshold <= 0 || d <= threshold {
		return nil
	}

	s.breaches++
	sg := advice.PerformanceOptimization{
		Category:    string(category),
		Duration:    d,
		Threshold:   threshold,
		DurationMS:  ms,
		ThresholdMS: toMillis(threshold),
		Actions:     slices.Clone(suggestedActions[category]),
		Level:       m.opts.severity(d, threshold),
		At:          m.opts.now(),
	}
	m.addSuggestion(sg)
	m.logBreach(sg)
	return sg
}

// Stats returns statistics for one category.
func (m *Monitor) Stats(category Category) Stats {
	s, ok := m.series[category]
	if !ok {
		return Stats{Category: category, ThresholdMS: toMillis(m.threshold(category))}
	}
	return m.statsFor(category, s)
}

// AllStats returns statistics for the standard categories plus any custom
// category that has samples, in name order after the standard ones.
func (m *Monitor) AllStats() []Stats {
	cats := Categories()
	for _, c := range slices.Sorted(maps.Keys(m.series)) {
		if !slices.Contains(cats, c) {
			cats = append(cats, c)
		}
	}
	out := make([]Stats, 0, len(cats))
	for _, c := range cats {
		out = append(out, m.Stats(c))
	}
	return out
}

// Samples returns the retained durations for category in milliseconds,
// oldest first.
func (m *Monitor) Samples(category Category) []float64 {
	s, ok := m.series[category]
	if !ok {
		return nil
	}
	return s.samples.values()
}

// Suggestions returns the retained suggestions, oldest first.
func (m *Monitor) Suggestions() []advice.Suggestion {
	return slices.Clone(m.suggestions)
}

// ClearSuggestions drops the suggestion history.
func (m *Monitor) ClearSuggestions() {
	m.suggestions = nil
}

// Threshold returns the configured threshold for category, or 0 if none.
func (m *Monitor) Threshold(category Category) time.Duration {
	return m.threshold(category)
}

// SuppressedLogs returns how many breach warnings were dropped by the log
// rate limit.
func (m *Monitor) SuppressedLogs() uint64 { return m.suppressed }

// Reset drops all samples, counters and suggestions.
func (m *Monitor) Reset() {
	m.series = make(map[Category]*series)
	m.suggestions = nil
	m.suppressed = 0
}

func (m *Monitor) threshold(c Category) time.Duration {
	return m.opts.thresholds[c]
}

func (m *Monitor) seriesFor(c Category) *series {
	s, ok := m.series[c]
	if !ok {
		s = &series{
			samples: newWindow(m.opts.windowSize),
			ewma:    ewma.NewMovingAverage(),
		}
		m.series[c] = s
	}
	return s
}

func (m *Monitor) addSuggestion(sg advice.Suggestion) {
	if len(m.suggestions) >= m.opts.maxSuggestions {
		n := len(m.suggestions) - m.opts.maxSuggestions + 1
		m.suggestions = slices.Delete(m.suggestions, 0, n)
	}
	m.suggestions = append(m.suggestions, sg)
}

func (m *Monitor) logBreach(sg advice.PerformanceOptimization) {
	if m.limiter != nil && !m.limiter.AllowN(m.opts.now(), 1) {
		m.suppressed++
		return
	}
	m.opts.logger.Warn("operation exceeded threshold",
		"category", sg.Category,
		"duration_ms", sg.DurationMS,
		"threshold_ms", sg.ThresholdMS,
		"priority", sg.Level.String(),
	)
}

func (m *Monitor) forward(c Category, d time.Duration, err error) {
	if m.opts.metrics == nil {
		return
	}
	switch c {
	case Search:
		m.opts.metrics.RecordSearch(d, err)
	case Insert:
		m.opts.metrics.RecordInsert(d, err)
	case Delete:
		m.opts.metrics.RecordDelete(d, err)
	case Update:
		m.opts.metrics.RecordUpdate(d, err)
	}
}
