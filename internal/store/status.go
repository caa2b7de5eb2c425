package store

import (
	"context"
	"fmt"

	"github.com/strataworks/strata/pkg/types"
)

// TableCount is one table's row count in a status report.
type TableCount struct {
	Table string `json:"table" yaml:"table"`
	Rows  int64  `json:"rows" yaml:"rows"`
}

// StoreStatus summarizes the backing store: active driver, row counts
// for the fixed tables, and the hierarchy pair tables created so far.
type StoreStatus struct {
	Driver     string       `json:"driver" yaml:"driver"`
	Layers     []TableCount `json:"layers" yaml:"layers"`
	Labels     int64        `json:"labels" yaml:"labels"`
	PairTables []TableCount `json:"pair_tables" yaml:"pair_tables"`
}

// Status reports row counts across the store.
func (s *Store) Status(ctx context.Context) (*StoreStatus, error) {
	st := &StoreStatus{Driver: s.cfg.Driver()}

	for _, layer := range types.Layers {
		table := mustTableName(layer)
		n, err := s.countRows(ctx, table)
		if err != nil {
			return nil, err
		}
		st.Layers = append(st.Layers, TableCount{Table: table, Rows: n})
	}

	n, err := s.countRows(ctx, "labels")
	if err != nil {
		return nil, err
	}
	st.Labels = n

	pairs, err := s.listPairTables(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range pairs {
		name := pairTableName(p[0], p[1])
		n, err := s.countRows(ctx, name)
		if err != nil {
			return nil, err
		}
		st.PairTables = append(st.PairTables, TableCount{Table: name, Rows: n})
	}
	return st, nil
}

func (s *Store) countRows(ctx context.Context, table string) (int64, error) {
	var n int64
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", table)
	if err := s.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, storeErr("count "+table, err)
	}
	return n, nil
}
