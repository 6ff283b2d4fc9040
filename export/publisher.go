package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strconv"
	"time"

	"github.com/hupe1980/dsopt/codec"
	"github.com/hupe1980/dsopt/optimizer"
	"golang.org/x/sync/errgroup"
)

// ErrNoSinks is returned by Publish when no sink is configured.
var ErrNoSinks = errors.New("export: no sinks configured")

// SinkError reports a sink that rejected a blob.
type SinkError struct {
	Sink string
	Name string
	Err  error
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("export: sink %s: put %s: %v", e.Sink, e.Name, e.Err)
}

func (e *SinkError) Unwrap() error { return e.Err }

type options struct {
	codec       codec.Codec
	compression Compression
	prefix      string
	concurrency int
	logger      *slog.Logger
	now         func() time.Time
}

// Option configures a Publisher.
type Option func(*options)

// WithCodec sets the report codec. Defaults to codec.Default.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c != nil {
			o.codec = c
		}
	}
}

// WithCompression sets the blob compression. Defaults to CompressionNone.
func WithCompression(c Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

// WithPrefix sets the directory-like prefix of every blob name.
func WithPrefix(prefix string) Option {
	return func(o *options) {
		o.prefix = prefix
	}
}

// WithConcurrency bounds how many sinks are written at once.
// Values <= 0 mean unbounded.
func WithConcurrency(n int) Option {
	return func(o *options) {
		o.concurrency = n
	}
}

// WithLogger sets the logger for publish events.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithClock replaces time.Now when naming blobs.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// Publisher writes reports to a fixed set of sinks.
type Publisher struct {
	sinks []Sink
	opts  options
}

// NewPublisher creates a Publisher. Nil sinks are ignored.
func NewPublisher(sinks []Sink, optFns ...Option) *Publisher {
	o := options{
		codec:  codec.Default,
		prefix: "reports",
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    time.Now,
	}
	for _, fn := range optFns {
		fn(&o)
	}

	p := &Publisher{opts: o}
	for _, s := range sinks {
		if s != nil {
			p.sinks = append(p.sinks, s)
		}
	}
	return p
}

// Sinks returns the number of configured sinks.
func (p *Publisher) Sinks() int { return len(p.sinks) }

// BlobName returns the name a report generated at t is published under.
func (p *Publisher) BlobName(t time.Time) string {
	file := "report-" + strconv.FormatInt(t.UnixNano(), 10) + ".json" + p.opts.compression.Extension()
	if p.opts.prefix == "" {
		return file
	}
	return path.Join(p.opts.prefix, file)
}

// Encode serializes and compresses a report without publishing it.
func (p *Publisher) Encode(r optimizer.Report) ([]byte, error) {
	data, err := p.opts.codec.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("export: encode report with %s: %w", p.opts.codec.Name(), err)
	}
	return compress(data, p.opts.compression)
}

// Publish encodes r and writes it to every sink. The blob name is derived from
// r.GeneratedAt, or the current time if that is zero. The first sink failure
// cancels the writes still in flight and is returned as a *SinkError.
func (p *Publisher) Publish(ctx context.Context, r optimizer.Report) (string, error) {
	if len(p.sinks) == 0 {
		return "", ErrNoSinks
	}

	at := r.GeneratedAt
	if at.IsZero() {
		at = p.opts.now()
	}
	name := p.BlobName(at)

	data, err := p.Encode(r)
	if err != nil {
		return "", err
	}

	g, gctx := errgroup.WithContext(ctx)
	if p.opts.concurrency > 0 {
		g.SetLimit(p.opts.concurrency)
	}
	for _, s := range p.sinks {
		g.Go(func() error {
			start := p.opts.now()
			if err := s.Put(gctx, name, data); err != nil {
				p.opts.logger.ErrorContext(gctx, "report publish failed",
					"sink", s.Name(),
					"name", name,
					"error", err,
				)
				return &SinkError{Sink: s.Name(), Name: name, Err: err}
			}
			p.opts.logger.InfoContext(gctx, "report published",
				"sink", s.Name(),
				"name", name,
				"bytes", len(data),
				"duration", p.opts.now().Sub(start),
			)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return name, err
	}
	return name, nil
}

// Decode reverses compression and decoding for a blob written by a Publisher.
// The compression is inferred from name.
func Decode(name string, data []byte, c codec.Codec, v any) error {
	if c == nil {
		c = codec.Default
	}
	raw, err := decompress(data, compressionOf(name))
	if err != nil {
		return err
	}
	return c.Unmarshal(raw, v)
}

// Fetch reads and decodes a published blob from a sink that supports reads.
func Fetch(ctx context.Context, r Reader, name string, c codec.Codec, v any) error {
	data, err := r.Get(ctx, name)
	if err != nil {
		return err
	}
	return Decode(name, data, c, v)
}
