// Package export publishes optimization reports as immutable blobs.
//
// A Publisher encodes a report with a codec, optionally compresses it and
// writes the result to every configured Sink concurrently. Blob names have
// the form
//
//	<prefix>/report-<unix-nanos>.json[.lz4|.zst]
//
// # Built-in Sinks
//
//   - MemorySink: in-memory, for tests
//   - LocalSink: a directory on the local file system
//   - minio.Sink: MinIO and other S3-compatible storage
//   - s3.Sink: Amazon S3
//
// # Custom Sinks
//
// Implement the Sink interface to publish elsewhere:
//
//	type Sink interface {
//	    Name() string
//	    Put(ctx, name, data) error
//	}
package export
