package importer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"package-migrator/core/reconcile"
	"package-migrator/core/storage"

	gojson "github.com/goccy/go-json"
	"github.com/minio/minio-go/v7"
)

// MarshalReport renders the summary as indented JSON.
func MarshalReport(summary *reconcile.Summary) ([]byte, error) {
	data, err := gojson.MarshalIndent(summary, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode report: %w", err)
	}
	return append(data, '\n'), nil
}

// WriteReport stores the summary at location, a local path or s3://bucket/key.
// client may be nil for local paths.
func WriteReport(ctx context.Context, location string, summary *reconcile.Summary, client storage.Client) error {
	data, err := MarshalReport(summary)
	if err != nil {
		return err
	}

	bucket, key, ok := storage.ParseLocation(location)
	if !ok {
		if err := os.WriteFile(location, data, 0o644); err != nil {
			return fmt.Errorf("failed to write report %s: %w", location, err)
		}
		return nil
	}

	if client == nil {
		return fmt.Errorf("object storage is not configured for %s", location)
	}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		return fmt.Errorf("bucket %s does not exist", bucket)
	}

	_, err = client.PutObject(ctx, bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("failed to upload report %s: %w", location, err)
	}
	return nil
}

// PrintSummary writes the per-disposition counts in a fixed order.
func PrintSummary(w io.Writer, summary *reconcile.Summary) {
	mode := ""
	if summary.DryRun {
		mode = " (dry run)"
	}
	fmt.Fprintf(w, "Import summary for %s source%s\n", summary.Source, mode)
	fmt.Fprintf(w, "  %-18s %d\n", "total", summary.Total)
	for _, d := range reconcile.Dispositions {
		fmt.Fprintf(w, "  %-18s %d\n", d, summary.Count(d))
	}
	fmt.Fprintf(w, "  %-18s %s\n", "duration", summary.Duration().Round(time.Millisecond))
}
