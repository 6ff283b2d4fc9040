package codec

import (
	"fmt"
	"testing"
	"time"

	"github.com/hupe1980/dsopt/monitor"
	"github.com/hupe1980/dsopt/optimizer"
	"github.com/hupe1980/dsopt/registry"
)

func benchReport(b *testing.B) optimizer.Report {
	b.Helper()

	reg := registry.New()
	mon := monitor.New()
	for i := range 16 {
		c, err := reg.Cache(fmt.Sprintf("cache-%02d", i), 64)
		if err != nil {
			b.Fatal(err)
		}
		for k := range 128 {
			c.Put(fmt.Sprintf("k%d", k), k)
			c.Get(fmt.Sprintf("k%d", k/2))
		}
		reg.Trie(fmt.Sprintf("trie-%02d", i)).Insert("warmup", 1)
	}
	for i := range 500 {
		mon.Record(monitor.Search, time.Duration(i%40)*time.Millisecond, nil)
	}
	return optimizer.New(reg, mon).Report()
}

func benchmarkCodecMarshal(b *testing.B, c Codec, v any) {
	b.Helper()
	b.ReportAllocs()

	warm, err := c.Marshal(v)
	if err != nil {
		b.Fatal(err)
	}
	b.SetBytes(int64(len(warm)))

	var sink []byte
	b.ResetTimer()
	for b.Loop() {
		out, err := c.Marshal(v)
		if err != nil {
			b.Fatal(err)
		}
		sink = out
	}
	_ = sink
}

func benchmarkCodecUnmarshal[T any](b *testing.B, c Codec, data []byte) {
	b.Helper()
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))

	b.ResetTimer()
	for b.Loop() {
		var v T
		if err := c.Unmarshal(data, &v); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkCodec_Marshal_Report(b *testing.B) {
	r := benchReport(b)

	b.Run("stdlib", func(b *testing.B) { benchmarkCodecMarshal(b, JSON{}, r) })
	b.Run("go-json", func(b *testing.B) { benchmarkCodecMarshal(b, GoJSON{}, r) })
}

func BenchmarkCodec_Unmarshal_Report(b *testing.B) {
	data := MustMarshal(JSON{}, benchReport(b))

	// Suggestions are decoded generically; the sealed variants have no
	// unmarshal side.
	b.Run("stdlib", func(b *testing.B) { benchmarkCodecUnmarshal[map[string]any](b, JSON{}, data) })
	b.Run("go-json", func(b *testing.B) { benchmarkCodecUnmarshal[map[string]any](b, GoJSON{}, data) })
}
