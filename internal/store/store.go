// Package store implements the relational store for the work-item
// hierarchy: twelve layer tables, labels, label join tables, and lazily
// created hierarchy pair tables. Every operation takes an explicit Store
// handle and a context; mutations run inside a single transaction.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/strataworks/strata/pkg/types"
)

// Store is a handle to one backing database. It is safe for concurrent
// readers; the system assumes a single logical writer per store.
type Store struct {
	db      *sql.DB
	cfg     types.Config
	dialect dialect
}

// Open connects to the store selected by the config DSN, creates the
// schema if missing, and returns a ready handle. A DSN starting with
// postgres:// opens a Postgres store via the pgx driver; anything else
// is an SQLite file path, whose parent directory is created on demand.
func Open(ctx context.Context, cfg types.Config) (*Store, error) {
	driver := cfg.Driver()
	dsn := cfg.EffectiveDSN()

	if driver == types.DriverSQLite {
		if dir := filepath.Dir(dsn); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, storeErr("create data directory", err)
			}
		}
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, storeErr("open database", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, storeErr("connect", err)
	}

	s := &Store{db: db, cfg: cfg, dialect: dialectFor(driver)}
	if err := s.createSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the database connection. Idempotent.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	if err != nil {
		return storeErr("close database", err)
	}
	return nil
}

// Config returns the configuration the store was opened with.
func (s *Store) Config() types.Config { return s.cfg }

// q rewrites placeholder syntax for the active dialect.
func (s *Store) q(query string) string { return s.dialect.rebind(query) }

// withTx runs fn inside a transaction. On error the transaction rolls
// back and the store returns to its pre-call state.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storeErr("begin transaction", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return storeErr("commit transaction", err)
	}
	return nil
}

// storeErr wraps a persistence failure so callers can branch on
// types.ErrStore while keeping the driver's message.
func storeErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", types.ErrStore, op, err)
}

// tableLayer maps table names back to layer names.
var tableLayer = func() map[string]string {
	m := make(map[string]string, len(types.Layers))
	for _, l := range types.Layers {
		t, err := types.TableName(l)
		if err != nil {
			panic(err)
		}
		m[t] = l
	}
	return m
}()

// mustTableName returns the table for a known-valid layer.
func mustTableName(layer string) string {
	t, err := types.TableName(layer)
	if err != nil {
		panic(err)
	}
	return t
}
