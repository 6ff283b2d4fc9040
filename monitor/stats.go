package monitor

import (
	"slices"
	"time"
)

// Stats summarizes the samples currently held for one category.
// Durations are in milliseconds.
type Stats struct {
	Category    Category `json:"category"`
	Samples     int      `json:"samples"`
	Total       uint64   `json:"totalOperations"`
	Errors      uint64   `json:"errors"`
	Breaches    uint64   `json:"thresholdBreaches"`
	ThresholdMS float64  `json:"thresholdMs"`
	MeanMS      float64  `json:"meanMs"`
	MedianMS    float64  `json:"medianMs"`
	P95MS       float64  `json:"p95Ms"`
	MaxMS       float64  `json:"maxMs"`
	EWMAMS      float64  `json:"ewmaMs"`
}

func (m *Monitor) statsFor(c Category, s *series) Stats {
	st := Stats{
		Category:    c,
		Total:       s.total,
		Errors:      s.errors,
		Breaches:    s.breaches,
		ThresholdMS: toMillis(m.threshold(c)),
		EWMAMS:      s.ewma.Value(),
	}

	vals := s.samples.values()
	if len(vals) == 0 {
		return st
	}
	slices.Sort(vals)

	var sum float64
	for _, v := range vals {
		sum += v
	}
	st.Samples = len(vals)
	st.MeanMS = sum / float64(len(vals))
	st.MedianMS = percentile(vals, 0.5)
	st.P95MS = percentile(vals, 0.95)
	st.MaxMS = vals[len(vals)-1]
	return st
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
