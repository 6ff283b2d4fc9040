// Package advice defines the advisory suggestions produced by the monitor and
// the optimizer.
//
// Suggestion is a closed set: CacheOptimization, MemoryOptimization and
// PerformanceOptimization are its only implementations. Switch on the concrete
// type to access variant fields.
package advice

import (
	"cmp"
	"slices"
	"time"
)

// Priority ranks suggestions. Higher values are more urgent.
type Priority uint8

const (
	PriorityLow Priority = iota
	PriorityMedium
	PriorityHigh
	PriorityCritical
)

// String returns the upper-case priority name.
func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "LOW"
	case PriorityMedium:
		return "MEDIUM"
	case PriorityHigh:
		return "HIGH"
	case PriorityCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p Priority) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// Kind names a suggestion variant.
type Kind string

const (
	KindCacheOptimization       Kind = "CACHE_OPTIMIZATION"
	KindMemoryOptimization      Kind = "MEMORY_OPTIMIZATION"
	KindPerformanceOptimization Kind = "PERFORMANCE_OPTIMIZATION"
)

// Suggestion is an advisory record. It never implies that anything was changed.
type Suggestion interface {
	Kind() Kind
	Priority() Priority
	Message() string

	sealed()
}

// CacheOptimization flags a cache with a poor hit rate.
type CacheOptimization struct {
	Cache         string   `json:"cache"`
	HitRate       float64  `json:"hitRate"`
	TotalRequests uint64   `json:"totalRequests"`
	Capacity      int      `json:"capacity"`
	Actions       []string `json:"suggestedActions"`
	Level         Priority `json:"priority"`
}

// MemoryOptimization flags an estimated footprint above the configured ceiling.
type MemoryOptimization struct {
	EstimatedBytes int64    `json:"estimatedBytes"`
	CeilingBytes   int64    `json:"ceilingBytes"`
	Largest        string   `json:"largestStructure,omitempty"`
	Actions        []string `json:"suggestedActions"`
	Level          Priority `json:"priority"`
}

// PerformanceOptimization records an operation that exceeded its threshold.
type PerformanceOptimization struct {
	Category    string        `json:"category"`
	Duration    time.Duration `json:"-"`
	Threshold   time.Duration `json:"-"`
	DurationMS  float64       `json:"durationMs"`
	ThresholdMS float64       `json:"thresholdMs"`
	Actions     []string      `json:"suggestedActions"`
	Level       Priority      `json:"priority"`
	At          time.Time     `json:"timestamp"`
}

func (CacheOptimization) Kind() Kind       { return KindCacheOptimization }
func (MemoryOptimization) Kind() Kind      { return KindMemoryOptimization }
func (PerformanceOptimization) Kind() Kind { return KindPerformanceOptimization }

func (s CacheOptimization) Priority() Priority       { return s.Level }
func (s MemoryOptimization) Priority() Priority      { return s.Level }
func (s PerformanceOptimization) Priority() Priority { return s.Level }

func (s CacheOptimization) Message() string {
	return "cache " + s.Cache + " has a low hit rate"
}

func (s MemoryOptimization) Message() string {
	return "estimated memory usage exceeds the configured ceiling"
}

func (s PerformanceOptimization) Message() string {
	return s.Category + " operation exceeded its threshold"
}

func (CacheOptimization) sealed()       {}
func (MemoryOptimization) sealed()      {}
func (PerformanceOptimization) sealed() {}

// Envelope is the serialized form of a Suggestion: the variant kind next to the
// variant fields.
type Envelope struct {
	Kind    Kind       `json:"type"`
	Message string     `json:"message"`
	Detail  Suggestion `json:"detail"`
}

// Wrap converts suggestions into envelopes.
func Wrap(suggestions []Suggestion) []Envelope {
	out := make([]Envelope, len(suggestions))
	for i, s := range suggestions {
		out[i] = Envelope{Kind: s.Kind(), Message: s.Message(), Detail: s}
	}
	return out
}

// SortByPriority orders suggestions CRITICAL > HIGH > MEDIUM > LOW, keeping
// the relative order of equal priorities.
func SortByPriority(suggestions []Suggestion) {
	slices.SortStableFunc(suggestions, func(a, b Suggestion) int {
		return cmp.Compare(b.Priority(), a.Priority())
	})
}
