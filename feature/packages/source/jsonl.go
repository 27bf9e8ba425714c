package source

import (
	"bytes"
	"context"
	"errors"
	"io"

	"package-migrator/core/storage"
	"package-migrator/feature/packages/models"

	gojson "github.com/goccy/go-json"
	"go.uber.org/zap"
)

// JSONLinesLoader reads one JSON object per line.
type JSONLinesLoader struct {
	location string
	client   storage.Client
	logger   *zap.Logger
}

// NewJSONLinesLoader creates a loader for location (path or s3://bucket/key).
func NewJSONLinesLoader(location string, client storage.Client, logger *zap.Logger) *JSONLinesLoader {
	return &JSONLinesLoader{location: location, client: client, logger: logger}
}

func (l *JSONLinesLoader) Name() string {
	return "json"
}

func (l *JSONLinesLoader) Load(ctx context.Context, out chan<- Entry) error {
	r, err := Open(ctx, l.client, l.location)
	if err != nil {
		return &Error{Loader: l.Name(), Op: "open " + l.location, Err: err}
	}
	defer r.Close()

	lines := newLineReader(r, maxLineSize)
	em := &emitter{out: out}
	lineNo := 0
	for {
		raw, tooLong, err := lines.next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return &Error{Loader: l.Name(), Op: "read " + l.location, Err: err}
		}
		lineNo++

		if tooLong {
			l.logger.Warn("Skipping oversized JSON line",
				zap.String("source", l.location),
				zap.Int("line", lineNo),
				zap.Int("max_bytes", maxLineSize),
			)
			continue
		}

		line := bytes.TrimSpace(raw)
		if len(line) == 0 {
			continue
		}

		var record map[string]any
		if err := gojson.Unmarshal(line, &record); err != nil || record == nil {
			l.logger.Warn("Skipping malformed JSON line",
				zap.String("source", l.location),
				zap.Int("line", lineNo),
				zap.Error(err),
			)
			continue
		}

		if err := em.emit(ctx, models.RawRecord(record)); err != nil {
			return err
		}
	}
}
