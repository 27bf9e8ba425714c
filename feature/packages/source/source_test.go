package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// collect runs loader.Load with a buffered channel and returns what it emitted.
func collect(t *testing.T, loader Loader) ([]Entry, error) {
	t.Helper()
	out := make(chan Entry, 128)
	err := loader.Load(context.Background(), out)
	close(out)

	var entries []Entry
	for e := range out {
		entries = append(entries, e)
	}
	return entries, err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func observedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return zap.New(core), logs
}
