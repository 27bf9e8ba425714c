package reconcile

import (
	"errors"
	"time"
)

// Disposition is the terminal classification of one record.
type Disposition string

const (
	// Imported means the record was written, or would have been in a dry run.
	Imported Disposition = "imported"
	// SkippedDuplicate means the key already existed under create-only writes,
	// or appeared earlier in the same input.
	SkippedDuplicate Disposition = "skipped-duplicate"
	// SkippedInvalid means the record failed validation and the target was not contacted.
	SkippedInvalid Disposition = "skipped-invalid"
	// Failed means the target rejected the write for any reason other than a conflict.
	Failed Disposition = "failed"
)

// Dispositions lists every disposition in reporting order.
var Dispositions = []Disposition{Imported, SkippedDuplicate, SkippedInvalid, Failed}

// ErrConflict is returned (possibly wrapped) by Adapter.Create when the key
// is already present in the target.
var ErrConflict = errors.New("key already exists")

// DetailDuplicateInput is the detail attached to repeats of a key within one run.
const DetailDuplicateInput = "duplicate uuid within input"

// Envelope carries one decoded item into the engine.
type Envelope[T any] struct {
	// Position is the 0-based input index of the item.
	Position int
	// Key is the reconciliation key. An empty key is never claimed, so
	// validation decides what happens to the item.
	Key string
	// Item is the decoded record.
	Item T
	// Warnings are non-fatal decode notes carried into the outcome.
	Warnings []string
}

// Outcome is the result for exactly one input record. It is never modified
// after it has been recorded.
type Outcome struct {
	// Position is the input index of the record.
	Position int `json:"position"`
	// Key is the reconciliation key of the record.
	Key string `json:"uuid"`
	// Disposition is the terminal classification.
	Disposition Disposition `json:"disposition"`
	// Detail is a short human-readable explanation.
	Detail string `json:"detail,omitempty"`
	// Problems lists every validation failure, for skipped-invalid records.
	Problems []string `json:"problems,omitempty"`
	// Warnings lists decode warnings.
	Warnings []string `json:"warnings,omitempty"`
	// Simulated is set for dry-run imports.
	Simulated bool `json:"simulated,omitempty"`
}

// Options controls a reconciliation run.
type Options struct {
	// DryRun validates every record but never writes to the target.
	DryRun bool
	// Overwrite replaces existing records instead of skipping them.
	Overwrite bool
	// Workers bounds the number of concurrent target writes.
	Workers int
	// OnOutcome, if set, is called once per outcome as it is recorded.
	// It may be called from several goroutines at once.
	OnOutcome func(Outcome)
}

// DefaultWorkers is used when Options.Workers is not positive.
const DefaultWorkers = 8

// Summary aggregates the outcomes of one run.
type Summary struct {
	// Source names the loader the records came from.
	Source string `json:"source"`
	// DryRun and Overwrite echo the options of the run.
	DryRun    bool `json:"dry_run"`
	Overwrite bool `json:"overwrite"`
	// Total is the number of records that reached a terminal outcome.
	Total int `json:"total"`
	// Counts holds the number of outcomes per disposition.
	Counts map[Disposition]int `json:"counts"`
	// Outcomes holds every outcome, ordered by input position.
	Outcomes []Outcome `json:"outcomes"`
	// StartedAt and FinishedAt bound the run.
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// Count returns the number of outcomes with disposition d.
func (s *Summary) Count(d Disposition) int {
	return s.Counts[d]
}

// HasFailures reports whether any record ended as Failed.
func (s *Summary) HasFailures() bool {
	return s.Counts[Failed] > 0
}

// Duration returns the wall time of the run.
func (s *Summary) Duration() time.Duration {
	return s.FinishedAt.Sub(s.StartedAt)
}
