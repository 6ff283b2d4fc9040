package advice

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortByPriority(t *testing.T) {
	s := []Suggestion{
		PerformanceOptimization{Category: "search", Level: PriorityMedium},
		CacheOptimization{Cache: "a", Level: PriorityHigh},
		MemoryOptimization{Level: PriorityCritical},
		PerformanceOptimization{Category: "insert", Level: PriorityHigh},
		PerformanceOptimization{Category: "update", Level: PriorityLow},
	}

	SortByPriority(s)

	var got []Priority
	for _, x := range s {
		got = append(got, x.Priority())
	}
	assert.Equal(t, []Priority{PriorityCritical, PriorityHigh, PriorityHigh, PriorityMedium, PriorityLow}, got)
	// stable among equals
	assert.Equal(t, "a", s[1].(CacheOptimization).Cache)
	assert.Equal(t, "insert", s[2].(PerformanceOptimization).Category)
}

func TestEnvelopeJSON(t *testing.T) {
	env := Wrap([]Suggestion{CacheOptimization{Cache: "users", HitRate: 0.25, TotalRequests: 200, Level: PriorityHigh}})

	b, err := json.Marshal(env)
	require.NoError(t, err)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(b, &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "CACHE_OPTIMIZATION", decoded[0]["type"])
	detail := decoded[0]["detail"].(map[string]any)
	assert.Equal(t, "users", detail["cache"])
	assert.Equal(t, "HIGH", detail["priority"])
}

func TestPriorityString(t *testing.T) {
	assert.Equal(t, "LOW", PriorityLow.String())
	assert.Equal(t, "MEDIUM", PriorityMedium.String())
	assert.Equal(t, "HIGH", PriorityHigh.String())
	assert.Equal(t, "CRITICAL", PriorityCritical.String())
	assert.Equal(t, "UNKNOWN", Priority(42).String())
}
