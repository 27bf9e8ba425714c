// Package storage provides the object storage client used for migration media.
//
// Source dumps (LDIF or JSON-lines) and run reports may live in S3-compatible
// storage instead of the local filesystem. Such locations are written as
// s3://bucket/key and resolved through this package's Client, a thin
// wrapper around minio-go.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	bucket, key, ok := storage.ParseLocation("s3://dumps/packages.ldif")
//	r, err := client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
package storage
