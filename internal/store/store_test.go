package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/strataworks/strata/pkg/types"
)

// setupStore opens a store backed by an SQLite file in an isolated temp
// directory. Each test gets its own database.
func setupStore(t *testing.T) *Store {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "strata.db")
	s, err := Open(context.Background(), types.Config{DSN: dsn})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// mustCreate creates an entity in the given layer and returns it.
func mustCreate(t *testing.T, s *Store, layer, title string) types.Entity {
	t.Helper()
	e, err := types.NewEntity(layer)
	require.NoError(t, err)
	e.Meta().Title = title
	require.NoError(t, s.Create(context.Background(), e))
	return e
}

func TestOpenCreatesSchema(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	// Every layer table must exist and be empty.
	for _, layer := range types.Layers {
		got, err := s.Where(ctx, layer, nil)
		require.NoError(t, err)
		require.Empty(t, got)
	}

	labels, err := s.Labels(ctx)
	require.NoError(t, err)
	require.Empty(t, labels)
}

func TestOpenIsIdempotent(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "strata.db")
	ctx := context.Background()

	s1, err := Open(ctx, types.Config{DSN: dsn})
	require.NoError(t, err)

	g := &types.Goal{}
	g.Title = "persists across opens"
	require.NoError(t, s1.Create(ctx, g))
	require.NoError(t, s1.Close())

	s2, err := Open(ctx, types.Config{DSN: dsn})
	require.NoError(t, err)
	defer s2.Close()

	got, err := s2.Find(ctx, types.LayerGoal, g.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "persists across opens", got.Meta().Title)
}

func TestCloseIsIdempotent(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "strata.db")
	s, err := Open(context.Background(), types.Config{DSN: dsn})
	require.NoError(t, err)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
}
