package source

import (
	"context"

	"package-migrator/feature/packages/decode"
	"package-migrator/feature/packages/models"
)

// Entry is one decoded package together with its decode warnings.
type Entry struct {
	// Position is the 0-based index of the entry among those emitted by the loader.
	Position int
	// Package is the decoded record.
	Package models.Package
	// Warnings lists fields that were coerced with loss.
	Warnings []decode.Warning
}

// Loader streams decoded packages from one medium.
type Loader interface {
	// Name identifies the medium in logs, e.g. "ldif".
	Name() string
	// Load sends every decoded entry to out and returns when the medium is
	// exhausted. It does not close out.
	Load(ctx context.Context, out chan<- Entry) error
}

// emitter assigns positions and honours cancellation while sending.
type emitter struct {
	out  chan<- Entry
	next int
}

func (e *emitter) emit(ctx context.Context, raw models.RawRecord) error {
	pkg, warnings := decode.Decode(raw)
	return e.send(ctx, pkg, warnings)
}

func (e *emitter) send(ctx context.Context, pkg models.Package, warnings []decode.Warning) error {
	entry := Entry{Position: e.next, Package: pkg, Warnings: warnings}
	select {
	case e.out <- entry:
		e.next++
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
