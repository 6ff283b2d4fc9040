// Package minio provides an export.Sink backed by the MinIO client.
//
// It works with MinIO and other S3-compatible storage such as Ceph, Garage
// and SeaweedFS, without pulling in the AWS SDK.
//
// # Basic Usage
//
//	client, err := minio.New("localhost:9000", &minio.Options{
//	    Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
//	    Secure: false,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	sink := miniosink.New(client, "reports", "dsopt/")
//	pub := export.NewPublisher([]export.Sink{sink})
package minio
