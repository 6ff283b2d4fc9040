package dsopt

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/hupe1980/dsopt/advice"
	"github.com/hupe1980/dsopt/monitor"
	"github.com/hupe1980/dsopt/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine(t *testing.T) {
	t.Run("IdempotentCreation", func(t *testing.T) {
		eng := New()

		a, err := eng.NewCache("X", 2)
		require.NoError(t, err)
		b, err := eng.NewCache("X", 2)
		require.NoError(t, err)
		assert.Same(t, a, b)

		a.Put("k", "v")
		v, ok := b.Get("k")
		assert.True(t, ok)
		assert.Equal(t, "v", v)

		assert.Same(t, eng.NewTrie("t"), eng.NewTrie("t"))
		assert.Same(t, eng.NewPriorityQueue("q", nil), eng.NewPriorityQueue("q", nil))
	})

	t.Run("ConstructionErrors", func(t *testing.T) {
		eng := New()

		_, err := eng.NewCache("bad", 0)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidCapacity)
		var ce *ErrConstruction
		require.True(t, errors.As(err, &ce))
		assert.Equal(t, "cache", ce.Kind)
		assert.Equal(t, "bad", ce.Name)

		_, err = eng.NewBloomFilter("bad", 10, 0)
		assert.ErrorIs(t, err, ErrInvalidParameters)
		_, err = eng.NewBloomFilter("bad", -1, 0.1)
		assert.ErrorIs(t, err, ErrInvalidParameters)
	})

	t.Run("LookupUnknown", func(t *testing.T) {
		eng := New()
		_, ok := eng.Cache("missing")
		assert.False(t, ok)
		_, ok = eng.Trie("missing")
		assert.False(t, ok)
		_, ok = eng.PriorityQueue("missing")
		assert.False(t, ok)
		_, ok = eng.BloomFilter("missing")
		assert.False(t, ok)
	})

	t.Run("MeasureAndReport", func(t *testing.T) {
		clock := testutil.NewClock(time.Unix(0, 0))
		metrics := &BasicMetricsCollector{}
		eng := New(
			WithClock(clock.Now),
			WithMetricsCollector(metrics),
			WithThreshold(monitor.Search, 10*time.Millisecond),
		)

		words := eng.NewTrie("words")
		err := eng.Measure(monitor.Insert, func() error {
			words.Insert("sun", 2)
			words.Insert("sun", 1)
			words.Insert("sunny", 1)
			return nil
		})
		require.NoError(t, err)

		var got []string
		err = eng.Measure(monitor.Search, func() error {
			clock.Advance(15 * time.Millisecond)
			got = words.Suggest("su", 5)
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"sun", "sunny"}, got)

		r := eng.Report()
		assert.Equal(t, 1, r.Summary.Tries)
		assert.Equal(t, uint64(2), r.Summary.TotalOperations)
		require.Len(t, r.Optimizations, 1)
		assert.Equal(t, advice.KindPerformanceOptimization, r.Optimizations[0].Kind)

		stats := metrics.GetStats()
		assert.Equal(t, int64(1), stats.SearchCount)
		assert.Equal(t, int64(1), stats.InsertCount)
		assert.Equal(t, (15 * time.Millisecond).Nanoseconds(), stats.SearchAvgNanos)
	})

	t.Run("CallerErrorPropagates", func(t *testing.T) {
		eng := New()
		want := errors.New("caller failure")
		err := eng.Measure(monitor.Delete, func() error { return want })
		assert.ErrorIs(t, err, want)
	})

	t.Run("MeasureValue", func(t *testing.T) {
		clock := testutil.NewClock(time.Unix(0, 0))
		eng := New(WithClock(clock.Now))

		v, err := MeasureValue(eng, monitor.Search, func() (string, error) {
			clock.Advance(2 * time.Millisecond)
			return "hit", nil
		})
		require.NoError(t, err)
		assert.Equal(t, "hit", v)
		st := eng.Monitor().Stats(monitor.Search)
		assert.Equal(t, 1, st.Samples)
		assert.InDelta(t, 2.0, st.MedianMS, 1e-9)
	})

	t.Run("AutoOptimizeLogs", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
		eng := New(WithLogger(logger), WithMemoryCeiling(1))

		f, err := eng.NewBloomFilter("seen", 1000, 0.01)
		require.NoError(t, err)
		f.Add("x")

		s := eng.AutoOptimize()
		require.Len(t, s, 1)
		assert.Equal(t, advice.PriorityCritical, s[0].Priority())
		assert.Contains(t, buf.String(), "level=ERROR")
		assert.Contains(t, buf.String(), "structure ready")
		assert.True(t, f.MightContain("x"), "auto-optimize must not touch structures")
	})

	t.Run("Reset", func(t *testing.T) {
		eng := New()
		_, _ = eng.NewCache("c", 1)
		_ = eng.Measure(monitor.Search, func() error { return nil })

		eng.Reset()

		assert.Zero(t, eng.Registry().Len())
		assert.Zero(t, eng.Monitor().Stats(monitor.Search).Total)
	})
}

func TestNilOptionsFallBack(t *testing.T) {
	eng := New(WithLogger(nil), WithMetricsCollector(nil), nil)
	require.NotNil(t, eng.Logger())
	assert.NoError(t, eng.Measure(monitor.Update, func() error { return nil }))
}
