package dsopt

import (
	"context"

	"github.com/hupe1980/dsopt/advice"
	"github.com/hupe1980/dsopt/bloom"
	"github.com/hupe1980/dsopt/monitor"
	"github.com/hupe1980/dsopt/optimizer"
	"github.com/hupe1980/dsopt/registry"
	"github.com/hupe1980/dsopt/trie"
)

// Engine ties a structure registry to an operation monitor and an optimizer.
//
// An Engine is not safe for concurrent use. Callers sharing one across
// goroutines must serialize access.
type Engine struct {
	reg    *registry.Registry
	mon    *monitor.Monitor
	opt    *optimizer.Optimizer
	logger *Logger
}

// New creates an Engine with an empty registry.
func New(optFns ...Option) *Engine {
	o := applyOptions(optFns)

	reg := registry.New()
	mon := monitor.New(append([]monitor.Option{
		monitor.WithLogger(o.logger.Logger),
		monitor.WithMetricsCollector(o.metricsCollector),
	}, o.monitorOpts...)...)
	opt := optimizer.New(reg, mon, append([]optimizer.Option{
		optimizer.WithLogger(o.logger.Logger),
	}, o.optimizerOpts...)...)

	return &Engine{
		reg:    reg,
		mon:    mon,
		opt:    opt,
		logger: o.logger,
	}
}

// NewCache returns the cache named name, creating it with capacity on first use.
func (e *Engine) NewCache(name string, capacity int) (*registry.Cache, error) {
	c, err := e.reg.Cache(name, capacity)
	if err != nil {
		err = &ErrConstruction{Kind: registry.KindCache.String(), Name: name, cause: err}
	}
	e.logger.LogCreate(context.Background(), registry.KindCache.String(), name, err)
	return c, err
}

// NewTrie returns the trie named name, creating it on first use.
func (e *Engine) NewTrie(name string) *trie.Trie {
	e.logger.LogCreate(context.Background(), registry.KindTrie.String(), name, nil)
	return e.reg.Trie(name)
}

// NewPriorityQueue returns the queue named name, creating it on first use.
// A nil less orders priorities ascending.
func (e *Engine) NewPriorityQueue(name string, less func(a, b float64) bool) *registry.Queue {
	e.logger.LogCreate(context.Background(), registry.KindQueue.String(), name, nil)
	return e.reg.Queue(name, less)
}

// NewBloomFilter returns the filter named name, creating it on first use.
func (e *Engine) NewBloomFilter(name string, expectedElements int, falsePositiveRate float64) (*bloom.Filter, error) {
	f, err := e.reg.Filter(name, expectedElements, falsePositiveRate)
	if err != nil {
		err = &ErrConstruction{Kind: registry.KindFilter.String(), Name: name, cause: err}
	}
	e.logger.LogCreate(context.Background(), registry.KindFilter.String(), name, err)
	return f, err
}

// Cache looks up a cache by name.
func (e *Engine) Cache(name string) (*registry.Cache, bool) { return e.reg.LookupCache(name) }

// Trie looks up a trie by name.
func (e *Engine) Trie(name string) (*trie.Trie, bool) { return e.reg.LookupTrie(name) }

// PriorityQueue looks up a priority queue by name.
func (e *Engine) PriorityQueue(name string) (*registry.Queue, bool) { return e.reg.LookupQueue(name) }

// BloomFilter looks up a Bloom filter by name.
func (e *Engine) BloomFilter(name string) (*bloom.Filter, bool) { return e.reg.LookupFilter(name) }

// Measure times fn under category. fn's error is returned unchanged.
func (e *Engine) Measure(category monitor.Category, fn func() error) error {
	return e.mon.Measure(category, fn)
}

// MeasureValue times fn under category and returns its result. It is the
// value-returning form of Engine.Measure.
func MeasureValue[T any](e *Engine, category monitor.Category, fn func() (T, error)) (T, error) {
	return monitor.MeasureValue(e.mon, category, fn)
}

// Report builds an optimization report.
func (e *Engine) Report() optimizer.Report {
	r := e.opt.Report()
	e.logger.LogReport(context.Background(), r)
	return r
}

// AutoOptimize runs every optimizer scan and returns the suggestions.
// Nothing is applied.
func (e *Engine) AutoOptimize() []advice.Suggestion {
	s := e.opt.AutoOptimize()
	e.logger.LogSuggestions(context.Background(), s)
	return s
}

// Registry returns the engine's registry.
func (e *Engine) Registry() *registry.Registry { return e.reg }

// Monitor returns the engine's monitor.
func (e *Engine) Monitor() *monitor.Monitor { return e.mon }

// Optimizer returns the engine's optimizer.
func (e *Engine) Optimizer() *optimizer.Optimizer { return e.opt }

// Logger returns the engine's logger.
func (e *Engine) Logger() *Logger { return e.logger }

// Reset drops every structure, sample and suggestion.
func (e *Engine) Reset() {
	e.reg.Reset()
	e.mon.Reset()
}
