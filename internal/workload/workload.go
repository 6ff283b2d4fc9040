// Package workload drives registered structures with a seeded synthetic mix of
// operations, timing each one through a monitor.
package workload

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/hupe1980/dsopt/monitor"
	"github.com/hupe1980/dsopt/registry"
	"github.com/hupe1980/dsopt/testutil"
)

// ErrNoStructures is returned by Run when the registry is empty.
var ErrNoStructures = errors.New("workload: no structures registered")

// Config shapes the generated operations.
type Config struct {
	// Seed makes runs reproducible.
	Seed int64
	// KeySpace is the number of distinct cache keys.
	KeySpace int
	// Skew is the Zipf exponent for cache keys. Higher is hotter.
	Skew float64
	// Vocabulary is the number of distinct words fed to tries and filters.
	Vocabulary int
}

// DefaultConfig returns a moderately skewed workload.
func DefaultConfig() Config {
	return Config{
		Seed:       1,
		KeySpace:   512,
		Skew:       1.1,
		Vocabulary: 2000,
	}
}

// Result counts what a run did. Each step counts once under its category;
// a cache miss additionally performs a timed read-through insert.
type Result struct {
	Ops         int                      `json:"ops"`
	ByCategory  map[monitor.Category]int `json:"byCategory"`
	ByKind      map[string]int           `json:"byKind"`
	CacheHits   int                      `json:"cacheHits"`
	CacheMisses int                      `json:"cacheMisses"`
}

// Runner executes operations against a registry.
type Runner struct {
	reg   *registry.Registry
	mon   *monitor.Monitor
	rng   *testutil.RNG
	cfg   Config
	words []string
}

// New creates a Runner. Zero fields in cfg fall back to DefaultConfig.
func New(reg *registry.Registry, mon *monitor.Monitor, cfg Config) *Runner {
	def := DefaultConfig()
	if cfg.KeySpace <= 0 {
		cfg.KeySpace = def.KeySpace
	}
	if cfg.Skew <= 0 {
		cfg.Skew = def.Skew
	}
	if cfg.Vocabulary <= 0 {
		cfg.Vocabulary = def.Vocabulary
	}

	rng := testutil.NewRNG(cfg.Seed)
	return &Runner{
		reg:   reg,
		mon:   mon,
		rng:   rng,
		cfg:   cfg,
		words: rng.Words(cfg.Vocabulary, 3, 9),
	}
}

// Run performs ops operations, each against a structure picked uniformly from
// the registry. It stops early when ctx is cancelled.
func (r *Runner) Run(ctx context.Context, ops int) (Result, error) {
	res := Result{
		ByCategory: make(map[monitor.Category]int),
		ByKind:     make(map[string]int),
	}

	targets := r.targets()
	if len(targets) == 0 {
		return res, ErrNoStructures
	}

	for i := range ops {
		if i%256 == 0 {
			if err := ctx.Err(); err != nil {
				return res, err
			}
		}

		h := targets[r.rng.Intn(len(targets))]
		category, err := r.step(h, &res)
		if err != nil {
			return res, fmt.Errorf("workload: %s %q: %w", h.Kind, h.Name, err)
		}
		res.Ops++
		res.ByCategory[category]++
		res.ByKind[h.Kind.String()]++
	}
	return res, nil
}

func (r *Runner) targets() []registry.Handle {
	var out []registry.Handle
	for name, c := range r.reg.Caches() {
		out = append(out, registry.Handle{Kind: registry.KindCache, Name: name, Cache: c})
	}
	for name, t := range r.reg.Tries() {
		out = append(out, registry.Handle{Kind: registry.KindTrie, Name: name, Trie: t})
	}
	for name, q := range r.reg.Queues() {
		out = append(out, registry.Handle{Kind: registry.KindQueue, Name: name, Queue: q})
	}
	for name, f := range r.reg.Filters() {
		out = append(out, registry.Handle{Kind: registry.KindFilter, Name: name, Filter: f})
	}
	return out
}

func (r *Runner) word() string {
	return r.words[r.rng.Intn(len(r.words))]
}

func (r *Runner) step(h registry.Handle, res *Result) (monitor.Category, error) {
	roll := r.rng.Float64()

	switch h.Kind {
	case registry.KindCache:
		key := "k" + strconv.Itoa(r.rng.Zipf(r.cfg.KeySpace, r.cfg.Skew))
		switch {
		case roll < 0.05:
			return monitor.Delete, r.mon.Measure(monitor.Delete, func() error {
				h.Cache.Delete(key)
				return nil
			})
		case roll < 0.15:
			return monitor.Update, r.mon.Measure(monitor.Update, func() error {
				h.Cache.Put(key, roll)
				return nil
			})
		default:
			var hit bool
			err := r.mon.Measure(monitor.Search, func() error {
				_, hit = h.Cache.Get(key)
				return nil
			})
			if hit {
				res.CacheHits++
				return monitor.Search, err
			}
			res.CacheMisses++
			// Read-through on miss.
			return monitor.Search, errors.Join(err, r.mon.Measure(monitor.Insert, func() error {
				h.Cache.Put(key, roll)
				return nil
			}))
		}

	case registry.KindTrie:
		w := r.word()
		if roll < 0.4 {
			return monitor.Insert, r.mon.Measure(monitor.Insert, func() error {
				h.Trie.Insert(w, uint32(1+r.rng.Intn(5)))
				return nil
			})
		}
		prefix := w[:min(len(w), 1+r.rng.Intn(3))]
		return monitor.Search, r.mon.Measure(monitor.Search, func() error {
			_ = h.Trie.Suggest(prefix, 10)
			return nil
		})

	case registry.KindQueue:
		if roll < 0.55 || h.Queue.IsEmpty() {
			p := r.rng.Float64() * 100
			return monitor.Insert, r.mon.Measure(monitor.Insert, func() error {
				h.Queue.Enqueue(r.word(), p)
				return nil
			})
		}
		if roll < 0.9 {
			return monitor.Delete, r.mon.Measure(monitor.Delete, func() error {
				_, _ = h.Queue.Dequeue()
				return nil
			})
		}
		return monitor.Search, r.mon.Measure(monitor.Search, func() error {
			_, _ = h.Queue.PeekPriority()
			return nil
		})

	case registry.KindFilter:
		w := r.word()
		if roll < 0.5 {
			return monitor.Insert, r.mon.Measure(monitor.Insert, func() error {
				h.Filter.Add(w)
				return nil
			})
		}
		return monitor.Search, r.mon.Measure(monitor.Search, func() error {
			_ = h.Filter.MightContain(w)
			return nil
		})
	}

	return "", fmt.Errorf("unsupported kind %s", h.Kind)
}
