package importer

import (
	"context"
	"errors"
	"fmt"

	"package-migrator/core/reconcile"
	"package-migrator/feature/packages/models"
	"package-migrator/feature/packages/schema"
	"package-migrator/feature/packages/store"
)

// Target is the package store as seen by the importer. *store.Store implements it.
type Target interface {
	Create(ctx context.Context, pkg models.Package) error
	Upsert(ctx context.Context, pkg models.Package) error
	Exists(ctx context.Context, uuid string) (bool, error)
}

// Adapter reconciles packages against a Target.
type Adapter struct {
	target Target
	schema *schema.Schema
}

// NewAdapter creates an adapter. target may be nil for dry runs.
func NewAdapter(target Target, s *schema.Schema) *Adapter {
	return &Adapter{target: target, schema: s}
}

func (a *Adapter) Name() string {
	return "packages"
}

func (a *Adapter) Validate(pkg models.Package) []string {
	errs := schema.Validate(pkg, a.schema)
	if len(errs) == 0 {
		return nil
	}
	problems := make([]string, len(errs))
	for i, e := range errs {
		problems[i] = e.Error()
	}
	return problems
}

func (a *Adapter) Create(ctx context.Context, key string, pkg models.Package) error {
	if a.target == nil {
		return errors.New("no target store configured")
	}
	err := a.target.Create(ctx, pkg)
	if errors.Is(err, store.ErrAlreadyExists) {
		return fmt.Errorf("%w: %v", reconcile.ErrConflict, err)
	}
	return err
}

// Upsert probes for key only to label the outcome; the upsert itself is the
// single write.
func (a *Adapter) Upsert(ctx context.Context, key string, pkg models.Package) (bool, error) {
	if a.target == nil {
		return false, errors.New("no target store configured")
	}
	existed, err := a.target.Exists(ctx, key)
	if err != nil {
		return false, err
	}
	if err := a.target.Upsert(ctx, pkg); err != nil {
		return false, err
	}
	return !existed, nil
}
