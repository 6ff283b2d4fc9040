package optimizer

import (
	"io"
	"log/slog"
	"time"
)

const (
	// DefaultMemoryCeiling is the estimated footprint above which a CRITICAL
	// memory suggestion is raised.
	DefaultMemoryCeiling int64 = 100 << 20
	// DefaultHitRateFloor is the hit rate below which a busy cache is flagged.
	DefaultHitRateFloor = 0.5
	// DefaultMinRequests is the request count a cache needs before it is judged.
	DefaultMinRequests uint64 = 100
)

type options struct {
	memoryCeiling int64
	hitRateFloor  float64
	minRequests   uint64
	logger        *slog.Logger
	now           func() time.Time
}

// Option configures an Optimizer.
type Option func(*options)

// WithMemoryCeiling sets the estimated memory ceiling in bytes.
// Values <= 0 keep the default.
func WithMemoryCeiling(bytes int64) Option {
	return func(o *options) {
		if bytes > 0 {
			o.memoryCeiling = bytes
		}
	}
}

// WithHitRateFloor sets the hit rate below which caches are flagged.
func WithHitRateFloor(floor float64) Option {
	return func(o *options) {
		o.hitRateFloor = floor
	}
}

// WithMinRequests sets how many requests a cache must have served before its
// hit rate is judged. A cache is flagged only when it has strictly more.
func WithMinRequests(n uint64) Option {
	return func(o *options) {
		o.minRequests = n
	}
}

// WithLogger sets the logger used by AutoOptimize.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithClock replaces time.Now for report timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

func defaultOptions() options {
	return options{
		memoryCeiling: DefaultMemoryCeiling,
		hitRateFloor:  DefaultHitRateFloor,
		minRequests:   DefaultMinRequests,
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:           time.Now,
	}
}
