package cache

// Stats holds the monotonic cache counters.
type Stats struct {
	Hits          uint64 `json:"hits"`
	Misses        uint64 `json:"misses"`
	Evictions     uint64 `json:"evictions"`
	TotalRequests uint64 `json:"totalRequests"`
}

// HitRate returns Hits / TotalRequests, or 0 when no request was made.
func (s Stats) HitRate() float64 {
	if s.TotalRequests == 0 {
		return 0
	}
	return float64(s.Hits) / float64(s.TotalRequests)
}
