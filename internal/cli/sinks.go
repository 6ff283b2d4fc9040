package cli

import (
	"context"
	"fmt"

	"github.com/hupe1980/dsopt/codec"
	"github.com/hupe1980/dsopt/export"
	miniosink "github.com/hupe1980/dsopt/export/minio"
	s3sink "github.com/hupe1980/dsopt/export/s3"
	"github.com/hupe1980/dsopt/internal/config"
)

// newPublisher builds a publisher for every sink enabled in cfg.
func newPublisher(ctx context.Context, cfg config.ExportConfig, opts ...export.Option) (*export.Publisher, error) {
	var sinks []export.Sink

	if cfg.Local.Dir != "" {
		sinks = append(sinks, export.NewLocalSink(cfg.Local.Dir))
	}
	if cfg.S3.Bucket != "" {
		s, err := s3sink.New(ctx, cfg.S3.Bucket,
			s3sink.WithPrefix(cfg.S3.Prefix),
			s3sink.WithRegion(cfg.S3.Region),
			s3sink.WithEndpoint(cfg.S3.Endpoint),
		)
		if err != nil {
			return nil, fmt.Errorf("s3 sink: %w", err)
		}
		sinks = append(sinks, s)
	}
	if cfg.Minio.Endpoint != "" {
		s, err := miniosink.Dial(miniosink.Config{
			Endpoint:  cfg.Minio.Endpoint,
			AccessKey: cfg.Minio.AccessKey,
			SecretKey: cfg.Minio.SecretKey,
			Region:    cfg.Minio.Region,
			Bucket:    cfg.Minio.Bucket,
			Prefix:    cfg.Minio.Prefix,
			Secure:    cfg.Minio.Secure,
		})
		if err != nil {
			return nil, fmt.Errorf("minio sink: %w", err)
		}
		sinks = append(sinks, s)
	}

	if len(sinks) == 0 {
		return nil, export.ErrNoSinks
	}

	c, ok := codec.ByName(cfg.Codec)
	if !ok {
		return nil, fmt.Errorf("unknown codec %q", cfg.Codec)
	}
	compression, err := export.ParseCompression(cfg.Compression)
	if err != nil {
		return nil, err
	}

	return export.NewPublisher(sinks, append([]export.Option{
		export.WithCodec(c),
		export.WithCompression(compression),
		export.WithPrefix(cfg.Prefix),
		export.WithConcurrency(cfg.Concurrency),
	}, opts...)...), nil
}
