package importer

import (
	"context"
	"errors"

	"package-migrator/core/metrics"
	"package-migrator/core/reconcile"
	"package-migrator/feature/packages/models"
	"package-migrator/feature/packages/schema"
	"package-migrator/feature/packages/source"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrRecordsFailed is returned by Run when at least one record ended as failed.
// The summary is still complete.
var ErrRecordsFailed = errors.New("one or more records failed to import")

// Options controls one import run.
type Options struct {
	// DryRun validates without writing to the target.
	DryRun bool
	// Overwrite replaces existing packages instead of skipping them.
	Overwrite bool
	// Workers bounds concurrent writes.
	Workers int
}

// Importer runs package migrations against one target.
type Importer struct {
	adapter  *Adapter
	logger   *zap.Logger
	recorder *metrics.Recorder
}

// New creates an importer. target may be nil for dry runs and recorder may be
// nil when metrics are not collected.
func New(target Target, s *schema.Schema, logger *zap.Logger, recorder *metrics.Recorder) *Importer {
	return &Importer{
		adapter:  NewAdapter(target, s),
		logger:   logger,
		recorder: recorder,
	}
}

// Run streams loader into the reconciliation engine and waits for every
// record to reach an outcome.
//
// A source failure aborts the run and is returned as is; the summary then
// covers only the records that finished and must not be reported as complete.
// Otherwise the error is ErrRecordsFailed when any record failed, or nil.
func (im *Importer) Run(ctx context.Context, loader source.Loader, opts Options) (*reconcile.Summary, error) {
	g, gctx := errgroup.WithContext(ctx)

	workers := opts.Workers
	if workers <= 0 {
		workers = reconcile.DefaultWorkers
	}

	entries := make(chan source.Entry, workers)
	envelopes := make(chan reconcile.Envelope[models.Package], workers)

	g.Go(func() error {
		defer close(entries)
		return loader.Load(gctx, entries)
	})

	g.Go(func() error {
		defer close(envelopes)
		for entry := range entries {
			env := im.envelope(entry)
			select {
			case envelopes <- env:
			case <-gctx.Done():
				return nil
			}
		}
		return nil
	})

	im.logger.Info("Starting import",
		zap.String("source", loader.Name()),
		zap.Bool("dry_run", opts.DryRun),
		zap.Bool("overwrite", opts.Overwrite),
		zap.Int("workers", workers),
	)

	summary := reconcile.Run(gctx, envelopes, im.adapter, reconcile.Options{
		DryRun:    opts.DryRun,
		Overwrite: opts.Overwrite,
		Workers:   workers,
		OnOutcome: func(o reconcile.Outcome) { im.observe(loader.Name(), o) },
	})
	summary.Source = loader.Name()

	if err := g.Wait(); err != nil {
		return summary, err
	}
	// The parent context may have been cancelled without any loader error.
	if err := ctx.Err(); err != nil {
		return summary, err
	}

	if im.recorder != nil {
		im.recorder.RecordRun(loader.Name(), summary.Duration(), !summary.HasFailures())
	}

	if summary.HasFailures() {
		return summary, ErrRecordsFailed
	}
	return summary, nil
}

func (im *Importer) envelope(entry source.Entry) reconcile.Envelope[models.Package] {
	env := reconcile.Envelope[models.Package]{
		Position: entry.Position,
		Key:      entry.Package.UUID(),
		Item:     entry.Package,
	}
	for _, w := range entry.Warnings {
		im.logger.Warn("Decode warning",
			zap.String("uuid", env.Key),
			zap.Int("position", entry.Position),
			zap.String("field", w.Field),
			zap.String("message", w.Message),
		)
		env.Warnings = append(env.Warnings, w.String())
	}
	return env
}

func (im *Importer) observe(sourceName string, o reconcile.Outcome) {
	if im.recorder != nil {
		im.recorder.RecordOutcome(sourceName, string(o.Disposition))
	}

	fields := []zap.Field{
		zap.String("uuid", o.Key),
		zap.Int("position", o.Position),
		zap.String("disposition", string(o.Disposition)),
		zap.String("detail", o.Detail),
	}

	switch o.Disposition {
	case reconcile.Imported:
		im.logger.Debug("Package imported", append(fields, zap.Bool("simulated", o.Simulated))...)
	case reconcile.SkippedDuplicate:
		im.logger.Info("Package skipped", fields...)
	case reconcile.SkippedInvalid:
		im.logger.Warn("Package invalid", append(fields, zap.Strings("problems", o.Problems))...)
	case reconcile.Failed:
		im.logger.Error("Package failed", fields...)
	}
}
