package optimizer

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/hupe1980/dsopt/advice"
	"github.com/hupe1980/dsopt/monitor"
	"github.com/hupe1980/dsopt/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lowHitRateCache(t *testing.T, reg *registry.Registry, name string, requests int) {
	t.Helper()
	c, err := reg.Cache(name, 4)
	require.NoError(t, err)
	c.Put("hot", 1)
	for i := range requests {
		if i%4 == 0 {
			c.Get("hot")
		} else {
			c.Get(fmt.Sprintf("miss-%d", i))
		}
	}
}

func TestScanCaches(t *testing.T) {
	reg := registry.New()
	lowHitRateCache(t, reg, "cold", 200) // 25% hit rate, 200 requests
	lowHitRateCache(t, reg, "quiet", 100) // not enough requests

	good, err := reg.Cache("good", 4)
	require.NoError(t, err)
	good.Put("k", 1)
	for range 150 {
		good.Get("k")
	}

	opt := New(reg, nil)
	s := opt.ScanCaches()

	require.Len(t, s, 1)
	co, ok := s[0].(advice.CacheOptimization)
	require.True(t, ok)
	assert.Equal(t, "cold", co.Cache)
	assert.InDelta(t, 0.25, co.HitRate, 1e-9)
	assert.Equal(t, uint64(200), co.TotalRequests)
	assert.Equal(t, advice.PriorityHigh, co.Priority())
	assert.Equal(t, advice.KindCacheOptimization, co.Kind())
}

func TestEstimateMemory(t *testing.T) {
	reg := registry.New()

	c, err := reg.Cache("c", 8)
	require.NoError(t, err)
	c.Put("k1", "hello")

	reg.Trie("t").InsertWord("cat")
	reg.Queue("q", nil).Enqueue("x", 1)
	_, err = reg.Filter("f", 1000, 0.01)
	require.NoError(t, err)

	ma, sg := New(reg, nil).EstimateMemory()

	assert.Nil(t, sg)
	assert.Equal(t, int64(96+2+5), ma.ByKind["cache"])
	assert.Equal(t, int64(4*64), ma.ByKind["trie"])
	assert.Equal(t, int64(32+1), ma.ByKind["queue"])
	assert.Equal(t, int64(1200+48), ma.ByKind["filter"])
	assert.Equal(t, int64(103+256+33+1248), ma.TotalBytes)
	assert.False(t, ma.Exceeded)
	require.Len(t, ma.Structures, 4)
	assert.Equal(t, "filter", ma.Structures[0].Kind, "largest first")
}

func TestEstimateMemory_CeilingExceeded(t *testing.T) {
	reg := registry.New()
	_, err := reg.Filter("big", 100_000, 0.001)
	require.NoError(t, err)

	ma, sg := New(reg, nil, WithMemoryCeiling(1024)).EstimateMemory()

	require.NotNil(t, sg)
	mo, ok := sg.(advice.MemoryOptimization)
	require.True(t, ok)
	assert.Equal(t, advice.PriorityCritical, mo.Priority())
	assert.Equal(t, "filter/big", mo.Largest)
	assert.Equal(t, ma.TotalBytes, mo.EstimatedBytes)
	assert.Equal(t, int64(1024), mo.CeilingBytes)
	assert.True(t, ma.Exceeded)
	assert.Greater(t, ma.UsageRatio, 1.0)
}

func TestReport(t *testing.T) {
	reg := registry.New()
	lowHitRateCache(t, reg, "cold", 200)
	reg.Trie("words").Insert("sun", 3)
	reg.Queue("jobs", nil).Enqueue("j", 1)
	_, err := reg.Filter("seen", 1000, 0.01)
	require.NoError(t, err)

	mon := monitor.New()
	for i := 1; i <= 20; i++ {
		mon.Record(monitor.Search, time.Duration(i)*time.Millisecond, nil) // 10 breaches
	}
	mon.Record(monitor.Update, 10*time.Millisecond, nil) // HIGH

	now := time.Unix(1_700_000_000, 0).UTC()
	opt := New(reg, mon, WithMemoryCeiling(1024), WithClock(func() time.Time { return now }))
	r := opt.Report()

	assert.Equal(t, now, r.GeneratedAt)
	assert.Equal(t, 4, r.Summary.TotalStructures)
	assert.Equal(t, uint64(21), r.Summary.TotalOperations)
	assert.Equal(t, 1, r.Summary.Critical) // memory
	assert.Equal(t, 3, r.Summary.High)     // cache, update, search at 20ms
	assert.Equal(t, 9, r.Summary.Medium)   // search 11..19ms
	assert.Equal(t, r.Summary.Suggestions, len(r.Optimizations))

	require.Len(t, r.PerformanceMetrics, 4)
	search := r.PerformanceMetrics[0]
	assert.Equal(t, monitor.Search, search.Category)
	assert.Equal(t, 20, search.Samples)
	assert.InDelta(t, 11, search.MedianMS, 1e-9)
	assert.InDelta(t, 20, search.P95MS, 1e-9)

	require.Len(t, r.Structures.Caches, 1)
	assert.Equal(t, "cold", r.Structures.Caches[0].Name)
	require.Len(t, r.Structures.Tries, 1)
	assert.Equal(t, 1, r.Structures.Tries[0].Words)

	// Optimizations are ordered by priority.
	for i := 1; i < len(r.Optimizations); i++ {
		assert.GreaterOrEqual(t, r.Optimizations[i-1].Detail.Priority(), r.Optimizations[i].Detail.Priority())
	}

	// Recommendations group by subject and are ordered CRITICAL > HIGH > MEDIUM.
	require.Len(t, r.Recommendations, 4)
	assert.Equal(t, advice.PriorityCritical, r.Recommendations[0].Priority)
	assert.Equal(t, advice.KindMemoryOptimization, r.Recommendations[0].Type)
	for _, rec := range r.Recommendations[1:] {
		assert.Equal(t, advice.PriorityHigh, rec.Priority)
	}
	var searchRec Recommendation
	for _, rec := range r.Recommendations {
		if rec.Subject == "search" {
			searchRec = rec
		}
	}
	assert.Equal(t, 10, searchRec.Count)

	b, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"priority":"CRITICAL"`)
}

func TestReport_Empty(t *testing.T) {
	r := New(registry.New(), nil).Report()

	assert.Zero(t, r.Summary.TotalStructures)
	assert.Empty(t, r.Optimizations)
	assert.Empty(t, r.Recommendations)
	assert.NotNil(t, r.Structures.Caches)
	assert.NotNil(t, r.PerformanceMetrics)
}

func TestAutoOptimizeDoesNotMutate(t *testing.T) {
	reg := registry.New()
	lowHitRateCache(t, reg, "cold", 200)
	c, _ := reg.LookupCache("cold")
	before := c.Stats()
	lenBefore := c.Len()

	s := New(reg, monitor.New()).AutoOptimize()

	assert.Len(t, s, 1)
	assert.Equal(t, before, c.Stats())
	assert.Equal(t, lenBefore, c.Len())
}

func TestSuggestionsUnion(t *testing.T) {
	reg := registry.New()
	lowHitRateCache(t, reg, "cold", 200)
	mon := monitor.New()
	mon.Record(monitor.Insert, 6*time.Millisecond, nil)

	s := New(reg, mon, WithMemoryCeiling(1)).Suggestions()

	require.Len(t, s, 3)
	assert.Equal(t, advice.KindMemoryOptimization, s[0].Kind())
	assert.Equal(t, advice.KindCacheOptimization, s[1].Kind())
	assert.Equal(t, advice.KindPerformanceOptimization, s[2].Kind())
}
