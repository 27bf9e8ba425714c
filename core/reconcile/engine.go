package reconcile

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Run reconciles every envelope received on in until it is closed or ctx is
// cancelled, and returns the summary of what happened.
//
// Writes run on a fixed pool of opts.Workers goroutines. Keys are claimed in
// input order before any write starts, so a key repeated within the input is
// written at most once and every later occurrence is SkippedDuplicate.
//
// On cancellation no new record is started. Writes already in flight run to
// completion and are recorded; the caller decides whether the partial summary
// is meaningful.
func Run[T any](ctx context.Context, in <-chan Envelope[T], adapter Adapter[T], opts Options) *Summary {
	summary := &Summary{
		Source:    adapter.Name(),
		DryRun:    opts.DryRun,
		Overwrite: opts.Overwrite,
		StartedAt: time.Now(),
	}
	collector := NewCollector(opts.OnOutcome)

	numWorkers := opts.Workers
	if numWorkers <= 0 {
		numWorkers = DefaultWorkers
	}

	jobs := make(chan Envelope[T], numWorkers)

	var wg sync.WaitGroup
	wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go func() {
			defer wg.Done()
			for env := range jobs {
				if ctx.Err() != nil {
					continue // drain without starting new records
				}
				collector.Record(process(ctx, env, adapter, opts))
			}
		}()
	}

	dispatch(ctx, in, jobs, collector)
	close(jobs)
	wg.Wait()

	collector.Fill(summary)
	summary.FinishedAt = time.Now()
	return summary
}

// dispatch claims keys in input order and hands first occurrences to the pool.
func dispatch[T any](ctx context.Context, in <-chan Envelope[T], jobs chan<- Envelope[T], collector *Collector) {
	claimed := make(map[string]struct{})
	for {
		var (
			env Envelope[T]
			ok  bool
		)
		select {
		case <-ctx.Done():
			return
		case env, ok = <-in:
			if !ok {
				return
			}
		}

		if env.Key != "" {
			if _, dup := claimed[env.Key]; dup {
				collector.Record(Outcome{
					Position:    env.Position,
					Key:         env.Key,
					Disposition: SkippedDuplicate,
					Detail:      DetailDuplicateInput,
					Warnings:    env.Warnings,
				})
				continue
			}
			claimed[env.Key] = struct{}{}
		}

		select {
		case jobs <- env:
		case <-ctx.Done():
			return
		}
	}
}

// process takes one record to its terminal outcome.
func process[T any](ctx context.Context, env Envelope[T], adapter Adapter[T], opts Options) Outcome {
	outcome := Outcome{
		Position: env.Position,
		Key:      env.Key,
		Warnings: env.Warnings,
	}

	if problems := adapter.Validate(env.Item); len(problems) > 0 {
		outcome.Disposition = SkippedInvalid
		outcome.Detail = "validation failed"
		outcome.Problems = problems
		return outcome
	}

	if opts.DryRun {
		outcome.Disposition = Imported
		outcome.Detail = "dry run"
		outcome.Simulated = true
		return outcome
	}

	// A started write is allowed to finish even if the run is being aborted.
	writeCtx := context.WithoutCancel(ctx)

	if opts.Overwrite {
		created, err := adapter.Upsert(writeCtx, env.Key, env.Item)
		if err != nil {
			outcome.Disposition = Failed
			outcome.Detail = err.Error()
			return outcome
		}
		outcome.Disposition = Imported
		if created {
			outcome.Detail = "created"
		} else {
			outcome.Detail = "updated"
		}
		return outcome
	}

	err := adapter.Create(writeCtx, env.Key, env.Item)
	switch {
	case err == nil:
		outcome.Disposition = Imported
		outcome.Detail = "created"
	case errors.Is(err, ErrConflict):
		outcome.Disposition = SkippedDuplicate
		outcome.Detail = "already exists in target"
	default:
		outcome.Disposition = Failed
		outcome.Detail = err.Error()
	}
	return outcome
}
