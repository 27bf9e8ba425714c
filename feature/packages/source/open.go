package source

import (
	"context"
	"fmt"
	"io"
	"os"

	"package-migrator/core/storage"

	"github.com/minio/minio-go/v7"
)

// Open returns a reader for a local path or an s3://bucket/key location.
// client may be nil when only local paths are used.
func Open(ctx context.Context, client storage.Client, location string) (io.ReadCloser, error) {
	bucket, key, ok := storage.ParseLocation(location)
	if !ok {
		f, err := os.Open(location)
		if err != nil {
			return nil, err
		}
		return f, nil
	}

	if client == nil {
		return nil, fmt.Errorf("object storage is not configured for %s", location)
	}
	return client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
}
