package bloom

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptimalSize(t *testing.T) {
	tests := []struct {
		n     int
		p     float64
		wantM uint64
		wantK uint32
	}{
		{1000, 0.01, 9586, 7},
		{100, 0.001, 1438, 10},
		{1, 0.5, 2, 2},
		{1, 0.99, 1, 1},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("n=%d/p=%v", tt.n, tt.p), func(t *testing.T) {
			m, k, err := OptimalSize(tt.n, tt.p)
			require.NoError(t, err)
			assert.Equal(t, tt.wantM, m)
			assert.Equal(t, tt.wantK, k)
		})
	}
}

func TestNew_InvalidParameters(t *testing.T) {
	tests := []struct {
		name string
		n    int
		p    float64
	}{
		{"zero elements", 0, 0.01},
		{"negative elements", -5, 0.01},
		{"zero rate", 100, 0},
		{"rate one", 100, 1},
		{"negative rate", 100, -0.1},
		{"NaN rate", 100, math.NaN()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := New(tt.n, tt.p)
			assert.Nil(t, f)
			assert.ErrorIs(t, err, ErrInvalidParameters)
		})
	}
}

func TestFilter_NoFalseNegatives(t *testing.T) {
	params := []struct {
		n int
		p float64
	}{
		{10, 0.5},
		{100, 0.1},
		{1000, 0.01},
		{5000, 0.0001},
	}
	for _, pp := range params {
		f, err := New(pp.n, pp.p)
		require.NoError(t, err)

		// Overfill to make sure saturation never introduces false negatives.
		for i := range pp.n * 2 {
			f.Add(fmt.Sprintf("item-%d", i))
		}
		for i := range pp.n * 2 {
			require.True(t, f.MightContain(fmt.Sprintf("item-%d", i)), "n=%d p=%v item=%d", pp.n, pp.p, i)
		}
	}
}

func TestFilter_FalsePositiveConvergence(t *testing.T) {
	f, err := New(1000, 0.01)
	require.NoError(t, err)

	for i := range 1000 {
		f.Add(fmt.Sprintf("member-%d", i))
	}

	est := f.EstimatedFalsePositiveRate()
	assert.InDelta(t, 0.01, est, 0.01, "estimated rate %v should be within 2x of 0.01", est)
	assert.Equal(t, uint64(1000), f.Count())

	falsePositives := 0
	const probes = 20000
	for i := range probes {
		if f.MightContain(fmt.Sprintf("absent-%d", i)) {
			falsePositives++
		}
	}
	observed := float64(falsePositives) / probes
	assert.Less(t, observed, 0.03, "observed false positive rate %v", observed)
}

func TestFilter_EmptyAndClear(t *testing.T) {
	f, err := New(100, 0.01)
	require.NoError(t, err)

	assert.Zero(t, f.EstimatedFalsePositiveRate())
	assert.False(t, f.MightContain("anything"))

	f.Add("x")
	assert.True(t, f.MightContain("x"))
	assert.Greater(t, f.FillRatio(), 0.0)

	f.Clear()
	assert.False(t, f.MightContain("x"))
	assert.Zero(t, f.Count())
	assert.Zero(t, f.FillRatio())
}

func TestFilter_SizeBytesIsPacked(t *testing.T) {
	f, err := New(1000, 0.01)
	require.NoError(t, err)

	assert.Equal(t, uint64(9586), f.Size())
	assert.Equal(t, uint32(7), f.HashFunctions())
	assert.Equal(t, 1200, f.SizeBytes()) // 150 words of 64 bits
}
