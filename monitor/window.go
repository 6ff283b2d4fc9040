package monitor

import "slices"

// window is a fixed-capacity FIFO of samples. Once full, each push overwrites
// the oldest sample.
type window struct {
	buf  []float64
	next int
	full bool
}

func newWindow(capacity int) *window {
	return &window{buf: make([]float64, capacity)}
}

func (w *window) push(v float64) {
	w.buf[w.next] = v
	w.next++
	if w.next == len(w.buf) {
		w.next = 0
		w.full = true
	}
}

// values returns the samples oldest first.
func (w *window) values() []float64 {
	if !w.full {
		return slices.Clone(w.buf[:w.next])
	}
	out := make([]float64, 0, len(w.buf))
	out = append(out, w.buf[w.next:]...)
	return append(out, w.buf[:w.next]...)
}

// percentile returns sorted[floor(p*n)] clamped to the last index.
// sorted must be ascending and non-empty.
func percentile(sorted []float64, p float64) float64 {
	idx := int(p * float64(len(sorted)))
	return sorted[min(idx, len(sorted)-1)]
}
