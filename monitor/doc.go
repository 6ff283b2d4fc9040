// Package monitor times operations and turns slow ones into advisory
// suggestions.
//
// Every Measure call appends its wall-clock duration (milliseconds) to a
// per-category rolling window that holds the most recent samples, 1000 by
// default. When a duration exceeds the category threshold, the monitor records
// an advice.PerformanceOptimization. It never blocks, retries or rejects the
// measured operation: the operation's error is returned unchanged and a panic
// propagates after its elapsed time has been recorded.
//
// Default thresholds:
//
//	search  10ms
//	insert   5ms
//	delete   5ms
//	update   3ms
//
// A Monitor is not safe for concurrent use.
package monitor
