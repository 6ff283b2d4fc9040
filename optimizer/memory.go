package optimizer

import (
	"cmp"
	"slices"

	"github.com/hupe1980/dsopt/registry"
)

// Rough per-element overheads in bytes. They approximate Go's runtime layout
// (map bucket share, list element, interface header) and are only meant for
// relative comparison.
const (
	cacheEntryOverhead = 96
	trieNodeOverhead   = 64
	queueItemOverhead  = 32
	filterOverhead     = 48
)

// StructureMemory is the estimate for one structure.
type StructureMemory struct {
	Kind  string `json:"type"`
	Name  string `json:"name"`
	Bytes int64  `json:"bytes"`
}

// MemoryAnalysis is the result of EstimateMemory.
type MemoryAnalysis struct {
	TotalBytes   int64             `json:"totalBytes"`
	CeilingBytes int64             `json:"ceilingBytes"`
	UsageRatio   float64           `json:"usageRatio"`
	Exceeded     bool              `json:"exceeded"`
	ByKind       map[string]int64  `json:"byType"`
	Structures   []StructureMemory `json:"structures"`
}

func (o *Optimizer) analyzeMemory() MemoryAnalysis {
	ma := MemoryAnalysis{
		CeilingBytes: o.opts.memoryCeiling,
		ByKind: map[string]int64{
			registry.KindCache.String():  0,
			registry.KindTrie.String():   0,
			registry.KindQueue.String():  0,
			registry.KindFilter.String(): 0,
		},
	}

	add := func(kind registry.Kind, name string, bytes int64) {
		ma.Structures = append(ma.Structures, StructureMemory{Kind: kind.String(), Name: name, Bytes: bytes})
		ma.ByKind[kind.String()] += bytes
		ma.TotalBytes += bytes
	}

	for name, c := range o.reg.Caches() {
		var bytes int64
		for k := range c.Keys() {
			v, _ := c.Peek(k)
			bytes += cacheEntryOverhead + int64(len(k)) + sizeOf(v)
		}
		add(registry.KindCache, name, bytes)
	}
	for name, t := range o.reg.Tries() {
		add(registry.KindTrie, name, int64(t.NodeCount())*trieNodeOverhead)
	}
	for name, q := range o.reg.Queues() {
		var bytes int64
		for it := range q.Items() {
			bytes += queueItemOverhead + sizeOf(it.Value)
		}
		add(registry.KindQueue, name, bytes)
	}
	for name, f := range o.reg.Filters() {
		add(registry.KindFilter, name, int64(f.SizeBytes())+filterOverhead)
	}

	slices.SortStableFunc(ma.Structures, func(a, b StructureMemory) int {
		return cmp.Compare(b.Bytes, a.Bytes)
	})

	if ma.CeilingBytes > 0 {
		ma.UsageRatio = float64(ma.TotalBytes) / float64(ma.CeilingBytes)
		ma.Exceeded = ma.TotalBytes > ma.CeilingBytes
	}
	return ma
}

// sizeOf estimates the payload size of a cached or queued value.
func sizeOf(v any) int64 {
	switch x := v.(type) {
	case nil:
		return 0
	case string:
		return int64(len(x))
	case []byte:
		return int64(len(x))
	case bool, int8, uint8:
		return 1
	case int16, uint16:
		return 2
	case int32, uint32, float32:
		return 4
	case int, int64, uint, uint64, uintptr, float64:
		return 8
	case complex128:
		return 16
	case []string:
		n := int64(len(x)) * 16
		for _, s := range x {
			n += int64(len(s))
		}
		return n
	case map[string]any:
		n := int64(len(x)) * 48
		for k, e := range x {
			n += int64(len(k)) + sizeOf(e)
		}
		return n
	default:
		return 64
	}
}
