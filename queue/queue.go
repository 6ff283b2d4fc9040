// Package queue provides an array-backed binary heap priority queue.
package queue

import (
	"cmp"
	"iter"
)

// Item pairs a value with its priority.
type Item[T any, P any] struct {
	Value    T
	Priority P
}

// PriorityQueue is a binary heap ordered by a priority comparator.
// With the default comparator it is a min-heap: Dequeue returns the item with
// the smallest priority. Items with equal priority come out in unspecified order.
// It is not safe for concurrent use.
type PriorityQueue[T any, P any] struct {
	less  func(a, b P) bool
	items []Item[T, P]
}

// New creates a queue ordered by less. The root is always an item for which
// no other item compares less.
func New[T any, P any](less func(a, b P) bool) *PriorityQueue[T, P] {
	return &PriorityQueue[T, P]{less: less}
}

// NewOrdered creates a min-heap over an ordered priority type.
func NewOrdered[T any, P cmp.Ordered]() *PriorityQueue[T, P] {
	return New[T](cmp.Less[P])
}

// NewMax creates a max-heap over an ordered priority type.
func NewMax[T any, P cmp.Ordered]() *PriorityQueue[T, P] {
	return New[T](func(a, b P) bool { return cmp.Less(b, a) })
}

// Enqueue inserts item with the given priority.
func (pq *PriorityQueue[T, P]) Enqueue(item T, priority P) {
	pq.items = append(pq.items, Item[T, P]{Value: item, Priority: priority})
	pq.siftUp(len(pq.items) - 1)
}

// Dequeue removes and returns the root item.
func (pq *PriorityQueue[T, P]) Dequeue() (T, bool) {
	it, ok := pq.DequeueItem()
	return it.Value, ok
}

// DequeueItem removes and returns the root item together with its priority.
func (pq *PriorityQueue[T, P]) DequeueItem() (Item[T, P], bool) {
	n := len(pq.items)
	if n == 0 {
		return Item[T, P]{}, false
	}
	root := pq.items[0]
	last := pq.items[n-1]
	pq.items[n-1] = Item[T, P]{} // release references
	pq.items = pq.items[:n-1]
	if n-1 > 0 {
		pq.items[0] = last
		pq.siftDown(0)
	}
	return root, true
}

// Peek returns the root item without removing it.
func (pq *PriorityQueue[T, P]) Peek() (T, bool) {
	if len(pq.items) == 0 {
		var zero T
		return zero, false
	}
	return pq.items[0].Value, true
}

// PeekPriority returns the priority of the root item.
func (pq *PriorityQueue[T, P]) PeekPriority() (P, bool) {
	if len(pq.items) == 0 {
		var zero P
		return zero, false
	}
	return pq.items[0].Priority, true
}

// Size returns the number of queued items.
func (pq *PriorityQueue[T, P]) Size() int { return len(pq.items) }

// IsEmpty reports whether the queue holds no items.
func (pq *PriorityQueue[T, P]) IsEmpty() bool { return len(pq.items) == 0 }

// Items iterates the queued items in heap layout order, not priority order.
func (pq *PriorityQueue[T, P]) Items() iter.Seq[Item[T, P]] {
	return func(yield func(Item[T, P]) bool) {
		for _, it := range pq.items {
			if !yield(it) {
				return
			}
		}
	}
}

// Clear removes all items, keeping the backing array for reuse.
func (pq *PriorityQueue[T, P]) Clear() {
	clear(pq.items)
	pq.items = pq.items[:0]
}

func (pq *PriorityQueue[T, P]) lessAt(i, j int) bool {
	return pq.less(pq.items[i].Priority, pq.items[j].Priority)
}

func (pq *PriorityQueue[T, P]) siftUp(i int) {
	for i > 0 {
		p := (i - 1) / 2
		if !pq.lessAt(i, p) {
			return
		}
		pq.items[i], pq.items[p] = pq.items[p], pq.items[i]
		i = p
	}
}

func (pq *PriorityQueue[T, P]) siftDown(i int) {
	n := len(pq.items)
	for {
		l := 2*i + 1
		if l >= n {
			return
		}
		best := l
		if r := l + 1; r < n && pq.lessAt(r, l) {
			best = r
		}
		if !pq.lessAt(best, i) {
			return
		}
		pq.items[i], pq.items[best] = pq.items[best], pq.items[i]
		i = best
	}
}
