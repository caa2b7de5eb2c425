package store

import (
	"context"
	"fmt"

	"github.com/strataworks/strata/pkg/types"
)

// baseColumnsDDL is the column set shared by all twelve layer tables.
// Timestamps are RFC 3339 text; extra_data is a JSON blob.
const baseColumnsDDL = `
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL,
    progress INTEGER NOT NULL DEFAULT 0,
    owner TEXT NOT NULL DEFAULT '',
    severity TEXT NOT NULL DEFAULT '',
    work_type TEXT NOT NULL DEFAULT '',
    assignee TEXT NOT NULL DEFAULT '',
    started_date TEXT,
    completion_date TEXT,
    extra_data TEXT NOT NULL DEFAULT '{}',
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL`

// commandColumnsDDL holds the command-layer extras: invocation details
// and produced artifacts. runtime_env and artifacts are JSON-encoded.
const commandColumnsDDL = `,
    cmd TEXT NOT NULL DEFAULT '',
    cmd_params TEXT NOT NULL DEFAULT '',
    runtime_env TEXT NOT NULL DEFAULT '{}',
    output TEXT NOT NULL DEFAULT '',
    artifacts TEXT NOT NULL DEFAULT '[]'`

// layerTableDDL builds the CREATE TABLE statement for one layer.
func (d dialect) layerTableDDL(layer, table string) string {
	cols := baseColumnsDDL
	if layer == types.LayerCommand {
		cols += commandColumnsDDL
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n    %s,%s\n)", table, d.pkColumn(), cols)
}

// labelsTableDDL builds the labels table. Names are globally unique.
func (d dialect) labelsTableDDL() string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS labels (
    %s,
    name TEXT NOT NULL UNIQUE,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
)`, d.pkColumn())
}

// labelJoinDDL builds the {layer_table}_labels join table. The composite
// primary key gives the association set semantics.
func labelJoinDDL(table string) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s_labels (
    entity_id BIGINT NOT NULL,
    label_id BIGINT NOT NULL,
    PRIMARY KEY (entity_id, label_id)
)`, table)
}

// pairTableDDL builds a hierarchy join table between a parent and a
// child layer table, named {parent_table}_{child_table}.
func pairTableDDL(name string) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
    parent_id BIGINT NOT NULL,
    child_id BIGINT NOT NULL,
    PRIMARY KEY (parent_id, child_id)
)`, name)
}

// createSchema creates the layer tables, the labels table, and the label
// join tables. Hierarchy pair tables are created lazily on first link.
func (s *Store) createSchema(ctx context.Context) error {
	var stmts []string
	for _, layer := range types.Layers {
		table := mustTableName(layer)
		stmts = append(stmts, s.dialect.layerTableDDL(layer, table))
	}
	stmts = append(stmts, s.dialect.labelsTableDDL())
	for _, layer := range types.Layers {
		stmts = append(stmts, labelJoinDDL(mustTableName(layer)))
	}
	for _, ddl := range stmts {
		if _, err := s.db.ExecContext(ctx, ddl); err != nil {
			return storeErr("create schema", err)
		}
	}
	return nil
}

// pairTableName returns the join table name for a parent/child layer
// pair, following the {table_a}_{table_b} convention.
func pairTableName(parentLayer, childLayer string) string {
	return mustTableName(parentLayer) + "_" + mustTableName(childLayer)
}

// listPairTables returns the hierarchy pair tables that exist, as
// [parentLayer, childLayer] pairs. Candidates are generated from the
// fixed layer set and matched against the catalog, which keeps names
// like requirements_acceptance_criteria unambiguous.
func (s *Store) listPairTables(ctx context.Context) ([][2]string, error) {
	rows, err := s.db.QueryContext(ctx, s.dialect.tableNamesQuery())
	if err != nil {
		return nil, storeErr("list tables", err)
	}
	defer rows.Close()

	existing := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, storeErr("scan table name", err)
		}
		existing[name] = true
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list tables", err)
	}

	var pairs [][2]string
	for _, parent := range types.Layers {
		for _, child := range types.Layers {
			if types.Rank(parent) >= types.Rank(child) {
				continue
			}
			if existing[pairTableName(parent, child)] {
				pairs = append(pairs, [2]string{parent, child})
			}
		}
	}
	return pairs, nil
}
