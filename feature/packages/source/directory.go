package source

import (
	"context"

	"package-migrator/core/directory"
	"package-migrator/feature/packages/models"

	"go.uber.org/zap"
)

// DirectoryLoader streams package entries from the directory service.
// Entries are decoded as they arrive, while the search is still running.
type DirectoryLoader struct {
	cfg    directory.Config
	dial   directory.Dialer
	logger *zap.Logger
}

// NewDirectoryLoader creates a loader that opens sessions with dial.
func NewDirectoryLoader(cfg directory.Config, dial directory.Dialer, logger *zap.Logger) *DirectoryLoader {
	return &DirectoryLoader{cfg: cfg, dial: dial, logger: logger}
}

func (l *DirectoryLoader) Name() string {
	return "directory"
}

// Load connects, binds and streams the subtree search. A failure after some
// entries were already emitted is still returned as a *Error so the caller
// never mistakes a truncated stream for a complete one.
func (l *DirectoryLoader) Load(ctx context.Context, out chan<- Entry) error {
	session, err := l.dial(ctx, l.cfg)
	if err != nil {
		return &Error{Loader: l.Name(), Op: "connect " + l.cfg.URL, Err: err}
	}
	defer session.Close()

	l.logger.Info("Searching directory",
		zap.String("base_dn", l.cfg.BaseDN),
		zap.String("filter", l.cfg.Filter),
	)

	em := &emitter{out: out}
	cursor := session.Search(ctx, l.cfg.BaseDN, l.cfg.Filter)
	for cursor.Next() {
		entry := cursor.Entry()
		if entry == nil {
			continue
		}
		if err := em.emit(ctx, models.RawRecord(directory.Attributes(entry))); err != nil {
			return err
		}
	}

	if err := cursor.Err(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &Error{Loader: l.Name(), Op: "search", Err: err}
	}

	l.logger.Debug("Directory search complete", zap.Int("entries", em.next))
	return nil
}
