package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWords(t *testing.T) {
	rng := NewRNG(4711)

	words := rng.Words(50, 3, 6)

	assert.Len(t, words, 50)
	for _, w := range words {
		assert.GreaterOrEqual(t, len(w), 3)
		assert.LessOrEqual(t, len(w), 6)
		for _, c := range w {
			assert.True(t, c >= 'a' && c <= 'z')
		}
	}
}

func TestZipfKeysAreSkewed(t *testing.T) {
	rng := NewRNG(42)

	keys := rng.ZipfKeys(5000, 100, 1.5)

	counts := make([]int, 100)
	for _, k := range keys {
		assert.GreaterOrEqual(t, k, 0)
		assert.Less(t, k, 100)
		counts[k]++
	}
	assert.Greater(t, counts[0], counts[50])
}

func TestReset(t *testing.T) {
	rng := NewRNG(4711)
	w1 := rng.Words(5, 4, 4)

	rng.Reset()
	w2 := rng.Words(5, 4, 4)

	assert.Equal(t, w1, w2)
	assert.Equal(t, int64(4711), rng.Seed())
}

func TestClock(t *testing.T) {
	start := time.Unix(100, 0)
	c := NewClock(start)

	assert.Equal(t, start, c.Now())
	c.Advance(15 * time.Millisecond)
	assert.Equal(t, 15*time.Millisecond, c.Now().Sub(start))
}
