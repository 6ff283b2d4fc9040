// Package testutil provides testing utilities for dsopt.
//
// This package is intended for use in tests and benchmarks only.
//
// # Random Workloads
//
//	rng := testutil.NewRNG(seed)
//	keys := rng.ZipfKeys(10_000, 1_000, 1.1) // skewed cache keys
//	words := rng.Words(500, 3, 8)             // random lowercase words
//
// # Controlled Time
//
//	clock := testutil.NewClock(time.Unix(0, 0))
//	m := monitor.New(monitor.WithClock(clock.Now))
//	m.Measure(monitor.Search, func() error {
//	    clock.Advance(15 * time.Millisecond)
//	    return nil
//	})
package testutil
