// Package reconcile drives a bounded, one-shot reconciliation of keyed records
// into a target store.
//
// Records arrive on a channel as Envelopes, already decoded. The engine
// validates each one through an Adapter and then performs a single
// existence-aware write:
//
//   - create-only by default, where a conflict reported by the target becomes
//     SkippedDuplicate;
//   - upsert when Options.Overwrite is set, keeping immutable fields.
//
// Every input record ends with exactly one Outcome. Outcomes are gathered by a
// Collector and returned as a Summary ordered by input position, regardless of
// the order in which the workers finished.
//
// # Concurrency
//
// Writes run on a fixed worker pool (Options.Workers, default 8). A single
// dispatcher claims keys in input order, so two records with the same key
// never race: the first is written and the rest are skipped.
//
// # Usage Example
//
//	in := make(chan reconcile.Envelope[models.Package])
//	go produce(in)
//	summary := reconcile.Run(ctx, in, adapter, reconcile.Options{Workers: 8})
//	if summary.HasFailures() {
//	    // exit non-zero
//	}
package reconcile
