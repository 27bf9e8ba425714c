package reconcile

import "context"

// Adapter defines the record-specific side of a reconciliation.
// Implementations must be safe for concurrent use by the engine's workers.
type Adapter[T any] interface {
	// Name identifies the record kind in logs and reports (e.g., "packages").
	Name() string

	// Validate returns every shape problem of item, or nothing when the item
	// may be written. It must not contact the target.
	Validate(item T) []string

	// Create writes item under key only if key is absent. A conflict must be
	// reported as an error wrapping ErrConflict. Create is the authority on
	// duplicate detection; callers never probe first.
	Create(ctx context.Context, key string, item T) error

	// Upsert writes item under key, replacing an existing record while keeping
	// its immutable fields. created reports whether the key was new.
	Upsert(ctx context.Context, key string, item T) (created bool, err error)
}
