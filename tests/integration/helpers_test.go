// Package integration exercises strata end to end: full workflows
// through the store API and through the CLI command tree.
package integration

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/strataworks/strata/internal/cli"
	"github.com/strataworks/strata/internal/store"
	"github.com/strataworks/strata/pkg/types"
)

// setupStore opens an SQLite-backed store in an isolated temp directory.
func setupStore(t *testing.T) *store.Store {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "strata.db")
	s, err := store.Open(context.Background(), types.Config{DSN: dsn})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// newDB returns a fresh database path for CLI invocations.
func newDB(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "strata.db")
}

// runCLI executes the command tree in-process against the given database
// and returns combined output.
func runCLI(t *testing.T, db string, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	root := cli.NewRootCmd()
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(append([]string{"--db", db}, args...))
	err := root.Execute()
	return buf.String(), err
}

// mustRunCLI fails the test on a CLI error.
func mustRunCLI(t *testing.T, db string, args ...string) string {
	t.Helper()
	out, err := runCLI(t, db, args...)
	require.NoError(t, err, "strata %v: %s", args, out)
	return out
}
