// Package registry owns named data structure instances.
//
// Caches, tries, queues and filters live in separate namespaces, so the same
// name may be used once per kind. Instances are created on first request and
// live until Reset. There is no per-entry deletion.
package registry

import (
	"cmp"
	"fmt"
	"iter"
	"maps"
	"slices"

	"github.com/hupe1980/dsopt/bloom"
	"github.com/hupe1980/dsopt/cache"
	"github.com/hupe1980/dsopt/queue"
	"github.com/hupe1980/dsopt/trie"
)

// Kind identifies a structure family.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindCache
	KindTrie
	KindQueue
	KindFilter
)

// String returns the lowercase family name.
func (k Kind) String() string {
	switch k {
	case KindCache:
		return "cache"
	case KindTrie:
		return "trie"
	case KindQueue:
		return "queue"
	case KindFilter:
		return "filter"
	default:
		return "unknown"
	}
}

// ParseKind maps a family name to its Kind.
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "cache":
		return KindCache, true
	case "trie":
		return KindTrie, true
	case "queue", "priority-queue":
		return KindQueue, true
	case "filter", "bloom":
		return KindFilter, true
	default:
		return KindUnknown, false
	}
}

type (
	// Cache is the cache type held by the registry.
	Cache = cache.LRU[string, any]
	// Queue is the priority queue type held by the registry.
	Queue = queue.PriorityQueue[any, float64]
)

// Registry holds named structures. It is not safe for concurrent use.
type Registry struct {
	caches  map[string]*Cache
	tries   map[string]*trie.Trie
	queues  map[string]*Queue
	filters map[string]*bloom.Filter
}

// New creates an empty Registry.
func New() *Registry {
	r := &Registry{}
	r.Reset()
	return r
}

// Cache returns the cache registered as name, creating it with capacity if it
// does not exist. capacity is ignored for an existing cache.
func (r *Registry) Cache(name string, capacity int) (*Cache, error) {
	if c, ok := r.caches[name]; ok {
		return c, nil
	}
	c, err := cache.New[string, any](capacity)
	if err != nil {
		return nil, err
	}
	r.caches[name] = c
	return c, nil
}

// Trie returns the trie registered as name, creating it if needed.
func (r *Registry) Trie(name string) *trie.Trie {
	if t, ok := r.tries[name]; ok {
		return t
	}
	t := trie.New()
	r.tries[name] = t
	return t
}

// Queue returns the queue registered as name, creating it if needed.
// A nil less orders priorities ascending. less is ignored for an existing queue.
func (r *Registry) Queue(name string, less func(a, b float64) bool) *Queue {
	if q, ok := r.queues[name]; ok {
		return q
	}
	if less == nil {
		less = cmp.Less[float64]
	}
	q := queue.New[any](less)
	r.queues[name] = q
	return q
}

// Filter returns the filter registered as name, creating it with the given
// sizing if needed. Sizing is ignored for an existing filter.
func (r *Registry) Filter(name string, expectedElements int, falsePositiveRate float64) (*bloom.Filter, error) {
	if f, ok := r.filters[name]; ok {
		return f, nil
	}
	f, err := bloom.New(expectedElements, falsePositiveRate)
	if err != nil {
		return nil, err
	}
	r.filters[name] = f
	return f, nil
}

// LookupCache returns the cache named name, if any.
func (r *Registry) LookupCache(name string) (*Cache, bool) {
	c, ok := r.caches[name]
	return c, ok
}

// LookupTrie returns the trie named name, if any.
func (r *Registry) LookupTrie(name string) (*trie.Trie, bool) {
	t, ok := r.tries[name]
	return t, ok
}

// LookupQueue returns the queue named name, if any.
func (r *Registry) LookupQueue(name string) (*Queue, bool) {
	q, ok := r.queues[name]
	return q, ok
}

// LookupFilter returns the filter named name, if any.
func (r *Registry) LookupFilter(name string) (*bloom.Filter, bool) {
	f, ok := r.filters[name]
	return f, ok
}

// Caches iterates caches in name order.
func (r *Registry) Caches() iter.Seq2[string, *Cache] { return sorted(r.caches) }

// Tries iterates tries in name order.
func (r *Registry) Tries() iter.Seq2[string, *trie.Trie] { return sorted(r.tries) }

// Queues iterates queues in name order.
func (r *Registry) Queues() iter.Seq2[string, *Queue] { return sorted(r.queues) }

// Filters iterates filters in name order.
func (r *Registry) Filters() iter.Seq2[string, *bloom.Filter] { return sorted(r.filters) }

// Counts returns the number of registered structures per kind.
func (r *Registry) Counts() map[Kind]int {
	return map[Kind]int{
		KindCache:  len(r.caches),
		KindTrie:   len(r.tries),
		KindQueue:  len(r.queues),
		KindFilter: len(r.filters),
	}
}

// Len returns the total number of registered structures.
func (r *Registry) Len() int {
	return len(r.caches) + len(r.tries) + len(r.queues) + len(r.filters)
}

// Reset drops every registered structure.
func (r *Registry) Reset() {
	r.caches = make(map[string]*Cache)
	r.tries = make(map[string]*trie.Trie)
	r.queues = make(map[string]*Queue)
	r.filters = make(map[string]*bloom.Filter)
}

// Args carries construction parameters for GetOrCreate. Fields not relevant to
// the requested kind are ignored.
type Args struct {
	Capacity          int
	Less              func(a, b float64) bool
	ExpectedElements  int
	FalsePositiveRate float64
}

// Handle is a tagged reference to a registered structure. Exactly one of the
// pointer fields is set, matching Kind.
type Handle struct {
	Kind   Kind
	Name   string
	Cache  *Cache
	Trie   *trie.Trie
	Queue  *Queue
	Filter *bloom.Filter
}

// GetOrCreate is the kind-dispatched form of Cache, Trie, Queue and Filter.
func (r *Registry) GetOrCreate(kind Kind, name string, args Args) (Handle, error) {
	h := Handle{Kind: kind, Name: name}
	var err error
	switch kind {
	case KindCache:
		h.Cache, err = r.Cache(name, args.Capacity)
	case KindTrie:
		h.Trie = r.Trie(name)
	case KindQueue:
		h.Queue = r.Queue(name, args.Less)
	case KindFilter:
		h.Filter, err = r.Filter(name, args.ExpectedElements, args.FalsePositiveRate)
	default:
		err = fmt.Errorf("registry: unknown kind %d", kind)
	}
	if err != nil {
		return Handle{}, err
	}
	return h, nil
}

// Lookup returns the structure of the given kind registered as name.
func (r *Registry) Lookup(kind Kind, name string) (Handle, bool) {
	h := Handle{Kind: kind, Name: name}
	var ok bool
	switch kind {
	case KindCache:
		h.Cache, ok = r.caches[name]
	case KindTrie:
		h.Trie, ok = r.tries[name]
	case KindQueue:
		h.Queue, ok = r.queues[name]
	case KindFilter:
		h.Filter, ok = r.filters[name]
	}
	if !ok {
		return Handle{}, false
	}
	return h, true
}

func sorted[V any](m map[string]V) iter.Seq2[string, V] {
	return func(yield func(string, V) bool) {
		for _, name := range slices.Sorted(maps.Keys(m)) {
			if !yield(name, m[name]) {
				return
			}
		}
	}
}
