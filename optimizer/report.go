package optimizer

import (
	"time"

	"github.com/hupe1980/dsopt/advice"
	"github.com/hupe1980/dsopt/cache"
	"github.com/hupe1980/dsopt/monitor"
)

// Report is a plain, JSON-serializable snapshot of the engine's state.
type Report struct {
	GeneratedAt        time.Time         `json:"generatedAt"`
	Summary            Summary           `json:"summary"`
	MemoryAnalysis     MemoryAnalysis    `json:"memoryAnalysis"`
	PerformanceMetrics []monitor.Stats   `json:"performanceMetrics"`
	Structures         Inventory         `json:"structures"`
	Optimizations      []advice.Envelope `json:"optimizations"`
	Recommendations    []Recommendation  `json:"recommendations"`
}

// Summary holds headline counts.
type Summary struct {
	TotalStructures int     `json:"totalStructures"`
	Caches          int     `json:"caches"`
	Tries           int     `json:"tries"`
	Queues          int     `json:"queues"`
	Filters         int     `json:"filters"`
	TotalOperations uint64  `json:"totalOperations"`
	AverageHitRate  float64 `json:"averageCacheHitRate"`
	EstimatedBytes  int64   `json:"estimatedMemoryBytes"`
	Suggestions     int     `json:"suggestions"`
	Critical        int     `json:"critical"`
	High            int     `json:"high"`
	Medium          int     `json:"medium"`
}

// Inventory lists every registered structure by type.
type Inventory struct {
	Caches  []CacheInfo  `json:"caches"`
	Tries   []TrieInfo   `json:"tries"`
	Queues  []QueueInfo  `json:"queues"`
	Filters []FilterInfo `json:"filters"`
}

// CacheInfo describes one cache.
type CacheInfo struct {
	Name     string      `json:"name"`
	Len      int         `json:"size"`
	Capacity int         `json:"capacity"`
	HitRate  float64     `json:"hitRate"`
	Stats    cache.Stats `json:"stats"`
}

// TrieInfo describes one trie.
type TrieInfo struct {
	Name  string `json:"name"`
	Words int    `json:"wordCount"`
	Nodes int    `json:"nodeCount"`
}

// QueueInfo describes one priority queue.
type QueueInfo struct {
	Name string `json:"name"`
	Size int    `json:"size"`
}

// FilterInfo describes one Bloom filter.
type FilterInfo struct {
	Name                       string  `json:"name"`
	Bits                       uint64  `json:"bits"`
	HashFunctions              uint32  `json:"hashFunctions"`
	AddedElements              uint64  `json:"addedElements"`
	EstimatedFalsePositiveRate float64 `json:"estimatedFalsePositiveRate"`
}

// Report aggregates inventory, memory analysis, per-category timing statistics
// and every current suggestion into a single snapshot.
func (o *Optimizer) Report() Report {
	r := Report{
		GeneratedAt:        o.opts.now(),
		Structures:         o.inventory(),
		PerformanceMetrics: []monitor.Stats{},
	}

	var suggestions []advice.Suggestion
	suggestions = append(suggestions, o.ScanCaches()...)
	ma, memSg := o.EstimateMemory()
	if memSg != nil {
		suggestions = append(suggestions, memSg)
	}
	r.MemoryAnalysis = ma

	if o.mon != nil {
		r.PerformanceMetrics = o.mon.AllStats()
		suggestions = append(suggestions, o.mon.Suggestions()...)
	}
	advice.SortByPriority(suggestions)

	r.Optimizations = advice.Wrap(suggestions)
	r.Recommendations = recommend(suggestions)
	r.Summary = o.summarize(r, suggestions)
	return r
}

func (o *Optimizer) inventory() Inventory {
	inv := Inventory{
		Caches:  []CacheInfo{},
		Tries:   []TrieInfo{},
		Queues:  []QueueInfo{},
		Filters: []FilterInfo{},
	}
	for name, c := range o.reg.Caches() {
		inv.Caches = append(inv.Caches, CacheInfo{
			Name:     name,
			Len:      c.Len(),
			Capacity: c.Capacity(),
			HitRate:  c.HitRate(),
			Stats:    c.Stats(),
		})
	}
	for name, t := range o.reg.Tries() {
		inv.Tries = append(inv.Tries, TrieInfo{Name: name, Words: t.WordCount(), Nodes: t.NodeCount()})
	}
	for name, q := range o.reg.Queues() {
		inv.Queues = append(inv.Queues, QueueInfo{Name: name, Size: q.Size()})
	}
	for name, f := range o.reg.Filters() {
		inv.Filters = append(inv.Filters, FilterInfo{
			Name:                       name,
			Bits:                       f.Size(),
			HashFunctions:              f.HashFunctions(),
			AddedElements:              f.Count(),
			EstimatedFalsePositiveRate: f.EstimatedFalsePositiveRate(),
		})
	}
	return inv
}

func (o *Optimizer) summarize(r Report, suggestions []advice.Suggestion) Summary {
	s := Summary{
		Caches:         len(r.Structures.Caches),
		Tries:          len(r.Structures.Tries),
		Queues:         len(r.Structures.Queues),
		Filters:        len(r.Structures.Filters),
		EstimatedBytes: r.MemoryAnalysis.TotalBytes,
		Suggestions:    len(suggestions),
	}
	s.TotalStructures = s.Caches + s.Tries + s.Queues + s.Filters

	if s.Caches > 0 {
		var sum float64
		for _, c := range r.Structures.Caches {
			sum += c.HitRate
		}
		s.AverageHitRate = sum / float64(s.Caches)
	}
	for _, st := range r.PerformanceMetrics {
		s.TotalOperations += st.Total
	}
	for _, sg := range suggestions {
		switch sg.Priority() {
		case advice.PriorityCritical:
			s.Critical++
		case advice.PriorityHigh:
			s.High++
		case advice.PriorityMedium:
			s.Medium++
		}
	}
	return s
}
