// Package s3 provides an Amazon S3 implementation of export.Sink.
//
// # Usage
//
//	sink, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("dsopt/"),
//	    s3.WithRegion("us-east-1"),
//	)
//
//	pub := export.NewPublisher([]export.Sink{sink})
//
// # Features
//
//   - Multipart uploads for large reports via the transfer manager
//   - Automatic pagination for listing
//   - Configurable prefix for multi-tenant isolation
package s3
