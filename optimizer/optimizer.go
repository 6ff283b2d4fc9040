// Package optimizer inspects registered structures and monitor statistics and
// produces advisory reports.
//
// The optimizer only reads. Nothing it returns has been applied: callers decide
// whether to act on a suggestion.
package optimizer

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/hupe1980/dsopt/advice"
	"github.com/hupe1980/dsopt/monitor"
	"github.com/hupe1980/dsopt/registry"
)

var (
	cacheActions = []string{
		"increase the cache capacity",
		"review the key space for low reuse",
		"warm the cache with frequently requested keys",
	}
	memoryActions = []string{
		"reduce cache capacities",
		"size bloom filters for the real element count",
		"drain or bound long-lived priority queues",
	}
)

// Optimizer analyses a registry and a monitor. It is not safe for concurrent use.
type Optimizer struct {
	reg  *registry.Registry
	mon  *monitor.Monitor
	opts options
}

// New creates an Optimizer over reg and mon. mon may be nil, in which case
// reports carry no performance data.
func New(reg *registry.Registry, mon *monitor.Monitor, optFns ...Option) *Optimizer {
	o := defaultOptions()
	for _, fn := range optFns {
		fn(&o)
	}
	return &Optimizer{reg: reg, mon: mon, opts: o}
}

// ScanCaches flags every cache whose hit rate is below the floor after more
// than the minimum number of requests.
func (o *Optimizer) ScanCaches() []advice.Suggestion {
	var out []advice.Suggestion
	for name, c := range o.reg.Caches() {
		st := c.Stats()
		if st.TotalRequests <= o.opts.minRequests || st.HitRate() >= o.opts.hitRateFloor {
			continue
		}
		out = append(out, advice.CacheOptimization{
			Cache:         name,
			HitRate:       st.HitRate(),
			TotalRequests: st.TotalRequests,
			Capacity:      c.Capacity(),
			Actions:       slices.Clone(cacheActions),
			Level:         advice.PriorityHigh,
		})
	}
	return out
}

// EstimateMemory estimates the footprint of every registered structure. The
// suggestion is non-nil only when the estimate exceeds the ceiling.
func (o *Optimizer) EstimateMemory() (MemoryAnalysis, advice.Suggestion) {
	ma := o.analyzeMemory()
	if !ma.Exceeded {
		return ma, nil
	}

	sg := advice.MemoryOptimization{
		EstimatedBytes: ma.TotalBytes,
		CeilingBytes:   ma.CeilingBytes,
		Actions:        slices.Clone(memoryActions),
		Level:          advice.PriorityCritical,
	}
	if len(ma.Structures) > 0 {
		top := ma.Structures[0]
		sg.Largest = top.Kind + "/" + top.Name
	}
	return ma, sg
}

// Suggestions returns the union of the cache scan, the memory check and the
// monitor's retained suggestions, most urgent first.
func (o *Optimizer) Suggestions() []advice.Suggestion {
	out := o.ScanCaches()
	if _, sg := o.EstimateMemory(); sg != nil {
		out = append(out, sg)
	}
	if o.mon != nil {
		out = append(out, o.mon.Suggestions()...)
	}
	advice.SortByPriority(out)
	return out
}

// AutoOptimize runs every scan, logs the resulting suggestions and returns
// them. It does not modify any structure.
func (o *Optimizer) AutoOptimize() []advice.Suggestion {
	out := o.Suggestions()
	for _, sg := range out {
		o.opts.logger.Info("optimization suggested",
			"type", string(sg.Kind()),
			"priority", sg.Priority().String(),
			"message", sg.Message(),
		)
	}
	o.opts.logger.Info("auto-optimize completed", "suggestions", len(out))
	return out
}

// Recommendation is a condensed, prioritized action item.
type Recommendation struct {
	Priority advice.Priority `json:"priority"`
	Type     advice.Kind     `json:"type"`
	Subject  string          `json:"subject"`
	Message  string          `json:"message"`
	Count    int             `json:"occurrences"`
	Actions  []string        `json:"actions"`
}

// recommend groups suggestions per subject, keeping the highest priority seen,
// and orders the result CRITICAL > HIGH > MEDIUM > LOW.
func recommend(suggestions []advice.Suggestion) []Recommendation {
	type key struct {
		kind    advice.Kind
		subject string
	}
	index := make(map[key]int)
	var out []Recommendation

	for _, sg := range suggestions {
		var subject string
		var actions []string
		switch s := sg.(type) {
		case advice.CacheOptimization:
			subject, actions = s.Cache, s.Actions
		case advice.MemoryOptimization:
			subject, actions = "memory", s.Actions
		case advice.PerformanceOptimization:
			subject, actions = s.Category, s.Actions
		}

		k := key{sg.Kind(), subject}
		if i, ok := index[k]; ok {
			out[i].Count++
			out[i].Priority = max(out[i].Priority, sg.Priority())
			continue
		}
		index[k] = len(out)
		out = append(out, Recommendation{
			Priority: sg.Priority(),
			Type:     sg.Kind(),
			Subject:  subject,
			Message:  sg.Message(),
			Count:    1,
			Actions:  actions,
		})
	}

	for i := range out {
		if out[i].Type == advice.KindPerformanceOptimization && out[i].Count > 1 {
			out[i].Message = fmt.Sprintf("%s operations exceeded their threshold %d times", out[i].Subject, out[i].Count)
		}
	}

	slices.SortStableFunc(out, func(a, b Recommendation) int {
		return cmp.Compare(b.Priority, a.Priority)
	})
	return out
}
