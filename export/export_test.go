package export

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hupe1980/dsopt/codec"
	"github.com/hupe1980/dsopt/monitor"
	"github.com/hupe1980/dsopt/optimizer"
	"github.com/hupe1980/dsopt/registry"
	"github.com/hupe1980/dsopt/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testReport(t *testing.T) optimizer.Report {
	t.Helper()

	reg := registry.New()
	c, err := reg.Cache("sessions", 4)
	require.NoError(t, err)
	for i := range 200 {
		c.Get(strings.Repeat("k", i%7+1))
	}
	reg.Trie("words").Insert("hello", 3)

	mon := monitor.New()
	mon.Record(monitor.Search, 25*time.Millisecond, nil)

	at := time.Unix(1700000000, 42)
	return optimizer.New(reg, mon, optimizer.WithClock(func() time.Time { return at })).Report()
}

type failingSink struct{ calls atomic.Int32 }

func (f *failingSink) Name() string { return "failing" }

func (f *failingSink) Put(context.Context, string, []byte) error {
	f.calls.Add(1)
	return errors.New("bucket unavailable")
}

func TestCompressionRoundTrip(t *testing.T) {
	payload := []byte(strings.Repeat(`{"type":"CACHE_OPTIMIZATION","priority":"HIGH"},`, 200))

	for _, c := range []Compression{CompressionNone, CompressionLZ4, CompressionZSTD} {
		t.Run(c.String(), func(t *testing.T) {
			packed, err := compress(payload, c)
			require.NoError(t, err)
			if c != CompressionNone {
				assert.Less(t, len(packed), len(payload))
			}

			out, err := decompress(packed, c)
			require.NoError(t, err)
			assert.Equal(t, payload, out)
		})
	}
}

func TestCompressionLZ4Incompressible(t *testing.T) {
	rng := testutil.NewRNG(7)
	for _, size := range []int{1, 17, 256, 1024} {
		payload := make([]byte, size)
		for i := range payload {
			payload[i] = byte(rng.Intn(256))
		}

		packed, err := compress(payload, CompressionLZ4)
		require.NoError(t, err)

		out, err := decompress(packed, CompressionLZ4)
		require.NoError(t, err)
		assert.Equal(t, payload, out)
	}
}

func TestDecompressCorrupt(t *testing.T) {
	_, err := decompress([]byte{1, 2}, CompressionLZ4)
	assert.ErrorIs(t, err, ErrCorrupt)

	_, err = decompress([]byte("not zstd at all"), CompressionZSTD)
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestParseCompression(t *testing.T) {
	tests := []struct {
		in   string
		want Compression
		ext  string
	}{
		{"", CompressionNone, ""},
		{"none", CompressionNone, ""},
		{"lz4", CompressionLZ4, ".lz4"},
		{"zstd", CompressionZSTD, ".zst"},
	}
	for _, tt := range tests {
		got, err := ParseCompression(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
		assert.Equal(t, tt.ext, got.Extension())
	}

	_, err := ParseCompression("gzip")
	assert.Error(t, err)
}

func TestPublisher(t *testing.T) {
	ctx := context.Background()
	r := testReport(t)

	t.Run("NoSinks", func(t *testing.T) {
		_, err := NewPublisher(nil).Publish(ctx, r)
		assert.ErrorIs(t, err, ErrNoSinks)
	})

	t.Run("BlobName", func(t *testing.T) {
		at := time.Unix(0, 1234)
		assert.Equal(t, "reports/report-1234.json", NewPublisher(nil).BlobName(at))
		assert.Equal(t, "report-1234.json.zst",
			NewPublisher(nil, WithPrefix(""), WithCompression(CompressionZSTD)).BlobName(at))
		assert.Equal(t, "a/b/report-1234.json.lz4",
			NewPublisher(nil, WithPrefix("a/b"), WithCompression(CompressionLZ4)).BlobName(at))
	})

	for _, c := range []Compression{CompressionNone, CompressionLZ4, CompressionZSTD} {
		t.Run("FanOut/"+c.String(), func(t *testing.T) {
			mem := NewMemorySink()
			local := NewLocalSink(t.TempDir())
			p := NewPublisher([]Sink{mem, nil, local},
				WithCompression(c),
				WithCodec(codec.JSON{}),
				WithConcurrency(1),
			)
			require.Equal(t, 2, p.Sinks())

			name, err := p.Publish(ctx, r)
			require.NoError(t, err)
			assert.Equal(t, "reports/report-1700000000000000042.json"+c.Extension(), name)

			for _, rd := range []Reader{mem, local} {
				names, err := rd.List(ctx, "reports/")
				require.NoError(t, err)
				assert.Equal(t, []string{name}, names)

				var got map[string]any
				require.NoError(t, Fetch(ctx, rd, name, codec.JSON{}, &got))

				summary := got["summary"].(map[string]any)
				assert.EqualValues(t, 1, summary["caches"])
				assert.EqualValues(t, 1, summary["tries"])
				assert.EqualValues(t, 1, summary["totalOperations"])
			}
		})
	}

	t.Run("SinkFailure", func(t *testing.T) {
		bad := &failingSink{}
		p := NewPublisher([]Sink{bad})

		name, err := p.Publish(ctx, r)
		require.Error(t, err)
		assert.NotEmpty(t, name)

		var se *SinkError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, "failing", se.Sink)
		assert.Equal(t, name, se.Name)
		assert.Equal(t, int32(1), bad.calls.Load())
	})

	t.Run("ZeroTimestampUsesClock", func(t *testing.T) {
		mem := NewMemorySink()
		p := NewPublisher([]Sink{mem}, WithClock(func() time.Time { return time.Unix(0, 7) }))

		name, err := p.Publish(ctx, optimizer.Report{})
		require.NoError(t, err)
		assert.Equal(t, "reports/report-7.json", name)
	})
}

func TestMemorySink(t *testing.T) {
	ctx := context.Background()
	m := NewMemorySink()

	data := []byte("abc")
	require.NoError(t, m.Put(ctx, "x/1", data))
	data[0] = 'z'

	got, err := m.Get(ctx, "x/1")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), got)

	_, err = m.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, m.Put(cancelled, "x/2", nil), context.Canceled)
	assert.Equal(t, 1, m.Len())
}

func TestLocalSink(t *testing.T) {
	ctx := context.Background()
	s := NewLocalSink(t.TempDir())

	names, err := s.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, names)

	require.NoError(t, s.Put(ctx, "r/b.json", []byte("2")))
	require.NoError(t, s.Put(ctx, "r/a.json", []byte("1")))
	require.NoError(t, s.Put(ctx, "r/a.json", []byte("3")))
	require.NoError(t, s.Put(ctx, "other.json", []byte("4")))

	names, err = s.List(ctx, "r/")
	require.NoError(t, err)
	assert.Equal(t, []string{"r/a.json", "r/b.json"}, names)

	got, err := s.Get(ctx, "r/a.json")
	require.NoError(t, err)
	assert.Equal(t, "3", string(got))

	_, err = s.Get(ctx, "r/missing.json")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalSinkMissingRoot(t *testing.T) {
	s := NewLocalSink(t.TempDir() + "/not-created")
	names, err := s.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, names)
}
