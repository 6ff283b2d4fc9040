// Package bloom provides a Bloom filter sized from an expected element count
// and a target false positive rate.
//
// A Bloom filter can tell definitively that an element is NOT in the set, but
// may report false positives when it says an element IS in the set:
//   - MightContain == false → the element was never added
//   - MightContain == true  → the element was probably added
//
// Bits are stored packed, one bit per flag, and are never cleared by Add.
package bloom

import (
	"errors"
	"fmt"
	"math"

	"github.com/bits-and-blooms/bitset"
	"github.com/cespare/xxhash/v2"
)

// ErrInvalidParameters is returned by New for a non-positive element count or
// a false positive rate outside (0, 1).
var ErrInvalidParameters = errors.New("bloom: invalid parameters")

// Filter is a fixed-size Bloom filter. It is not safe for concurrent use.
type Filter struct {
	bits    *bitset.BitSet
	numBits uint64 // m
	k       uint32 // number of hash functions
	count   uint64 // number of Add calls
}

// OptimalSize computes the bit count m and hash function count k for n
// expected elements at false positive rate p:
//
//	m = ceil(-n * ln(p) / (ln 2)^2)
//	k = ceil(m * ln 2 / n)
//
// Both are at least 1.
func OptimalSize(expectedElements int, falsePositiveRate float64) (numBits uint64, k uint32, err error) {
	if expectedElements <= 0 {
		return 0, 0, fmt.Errorf("%w: expected elements must be > 0 but %d was requested", ErrInvalidParameters, expectedElements)
	}
	if math.IsNaN(falsePositiveRate) || falsePositiveRate <= 0 || falsePositiveRate >= 1 {
		return 0, 0, fmt.Errorf("%w: false positive rate must be in (0,1) but %v was requested", ErrInvalidParameters, falsePositiveRate)
	}

	n := float64(expectedElements)
	m := math.Ceil(-n * math.Log(falsePositiveRate) / (math.Ln2 * math.Ln2))
	numBits = max(uint64(m), 1)

	kf := math.Ceil(float64(numBits) * math.Ln2 / n)
	k = max(uint32(kf), 1)

	return numBits, k, nil
}

// New creates a filter for the expected element count and false positive rate.
func New(expectedElements int, falsePositiveRate float64) (*Filter, error) {
	numBits, k, err := OptimalSize(expectedElements, falsePositiveRate)
	if err != nil {
		return nil, err
	}

	return &Filter{
		bits:    bitset.New(uint(numBits)),
		numBits: numBits,
		k:       k,
	}, nil
}

// Add inserts item. After Add(x), MightContain(x) always returns true.
func (f *Filter) Add(item string) {
	h1, h2 := hashPair(item)
	for i := uint32(0); i < f.k; i++ {
		f.bits.Set(uint(f.index(h1, h2, i)))
	}
	f.count++
}

// MightContain reports whether item may have been added.
// A false result is definitive.
func (f *Filter) MightContain(item string) bool {
	h1, h2 := hashPair(item)
	for i := uint32(0); i < f.k; i++ {
		if !f.bits.Test(uint(f.index(h1, h2, i))) {
			return false
		}
	}
	return true
}

// EstimatedFalsePositiveRate returns (1 - e^(-k*n/m))^k for the n items added
// so far. It is informational only.
func (f *Filter) EstimatedFalsePositiveRate() float64 {
	if f.count == 0 {
		return 0
	}
	k := float64(f.k)
	return math.Pow(1-math.Exp(-k*float64(f.count)/float64(f.numBits)), k)
}

// Size returns the number of bits m.
func (f *Filter) Size() uint64 { return f.numBits }

// HashFunctions returns the number of hash functions k.
func (f *Filter) HashFunctions() uint32 { return f.k }

// Count returns the number of Add calls.
func (f *Filter) Count() uint64 { return f.count }

// FillRatio returns the fraction of bits set.
func (f *Filter) FillRatio() float64 {
	return float64(f.bits.Count()) / float64(f.numBits)
}

// SizeBytes returns the size of the packed bit vector in bytes.
func (f *Filter) SizeBytes() int {
	return int((f.numBits + 63) / 64 * 8)
}

// Clear resets the filter to the empty state, keeping its size.
func (f *Filter) Clear() {
	f.bits.ClearAll()
	f.count = 0
}

// index computes h_i = (h1 + i*h2) mod m (Kirsch–Mitzenmacher double hashing).
func (f *Filter) index(h1, h2 uint64, i uint32) uint64 {
	return (h1 + uint64(i)*h2) % f.numBits
}

// hashPair derives two hashes from one xxhash pass. The second hash is forced
// odd so consecutive probes never collapse onto the same bit.
func hashPair(s string) (h1, h2 uint64) {
	h1 = xxhash.Sum64String(s)
	h2 = splitmix64(h1^0x9e3779b97f4a7c15) | 1
	return h1, h2
}

func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}
