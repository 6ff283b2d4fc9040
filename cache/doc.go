// Package cache provides a capacity-bounded LRU cache with hit/miss accounting.
//
// # Eviction
//
// LRU keeps entries on a recency list. Get and Put move the touched entry to the
// most-recently-used end; when a Put would exceed the capacity, the
// least-recently-used entry is evicted first.
//
// # Statistics
//
// Every Get counts as a request and is either a hit or a miss. The counters are
// monotonic and only reset by Clear. HitRate is zero until the first request.
//
// LRU is not safe for concurrent use. Callers sharing an instance must
// serialize access themselves.
package cache
