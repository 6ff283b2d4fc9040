// Package dsopt provides a small set of instrumented data structures and an
// advisory optimizer that watches how they are used.
//
// The structures are a bounded LRU cache, a prefix trie with frequency-ranked
// suggestions, a binary-heap priority queue and a Bloom filter. An Engine keeps
// them by name, times operations per category and reports tuning suggestions.
//
// # Quick Start
//
//	eng := dsopt.New(dsopt.WithLogLevel(slog.LevelInfo))
//
//	users, _ := eng.NewCache("users", 1024)
//	words := eng.NewTrie("autocomplete")
//	seen, _ := eng.NewBloomFilter("seen", 100_000, 0.01)
//
//	_ = eng.Measure(monitor.Search, func() error {
//	    users.Get("alice")
//	    return nil
//	})
//
//	report := eng.Report()
//
// # Advisory Only
//
// Reports and suggestions are data. The engine never resizes, clears or evicts
// a structure on its own: a slow operation still completes, a cache with a
// poor hit rate keeps serving misses, and an estimate above the memory ceiling
// only produces a CRITICAL suggestion.
//
// # Suggestions
//
// Suggestions are one of advice.CacheOptimization, advice.MemoryOptimization
// or advice.PerformanceOptimization:
//
//	for _, s := range eng.AutoOptimize() {
//	    switch s := s.(type) {
//	    case advice.CacheOptimization:
//	        fmt.Println(s.Cache, s.HitRate)
//	    case advice.MemoryOptimization:
//	        fmt.Println(s.EstimatedBytes, s.CeilingBytes)
//	    case advice.PerformanceOptimization:
//	        fmt.Println(s.Category, s.Duration)
//	    }
//	}
//
// # Concurrency
//
// Nothing in dsopt starts goroutines or takes locks. Callers sharing an Engine
// or one of its structures across goroutines must serialize access.
package dsopt
