package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/strataworks/strata/pkg/types"
)

// Link adds a hierarchy edge from parent to child. The parent must sit
// strictly above the child in the layer order; same-layer edges are
// rejected. Adding an existing edge is a no-op. A child may carry any
// number of parents, and cycles across a chain of edges are the caller's
// responsibility: the store does not reject them.
func (s *Store) Link(ctx context.Context, parent, child types.Entity) error {
	if err := checkPair(parent, child); err != nil {
		return err
	}
	if err := s.requireEntity(ctx, parent.Layer(), parent.Meta().ID); err != nil {
		return err
	}
	if err := s.requireEntity(ctx, child.Layer(), child.Meta().ID); err != nil {
		return err
	}

	name := pairTableName(parent.Layer(), child.Layer())
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, pairTableDDL(name)); err != nil {
			return storeErr("create "+name, err)
		}
		query := fmt.Sprintf("INSERT INTO %s (parent_id, child_id) VALUES (?, ?) ON CONFLICT DO NOTHING", name)
		if _, err := tx.ExecContext(ctx, s.q(query), parent.Meta().ID, child.Meta().ID); err != nil {
			return storeErr("link "+name, err)
		}
		return nil
	})
}

// Unlink removes the hierarchy edge between parent and child. Removing
// an absent edge is a no-op.
func (s *Store) Unlink(ctx context.Context, parent, child types.Entity) error {
	if err := checkPair(parent, child); err != nil {
		return err
	}
	name := pairTableName(parent.Layer(), child.Layer())
	exists, err := s.tableExists(ctx, name)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		query := fmt.Sprintf("DELETE FROM %s WHERE parent_id = ? AND child_id = ?", name)
		if _, err := tx.ExecContext(ctx, s.q(query), parent.Meta().ID, child.Meta().ID); err != nil {
			return storeErr("unlink "+name, err)
		}
		return nil
	})
}

// ChildrenOf returns the entities in childLayer linked under e, ordered
// by id. No linked children yield an empty slice.
func (s *Store) ChildrenOf(ctx context.Context, e types.Entity, childLayer string) ([]types.Entity, error) {
	if !types.ValidLayer(childLayer) {
		return nil, fmt.Errorf("%w: %q", types.ErrUnknownLayer, childLayer)
	}
	if types.Rank(e.Layer()) >= types.Rank(childLayer) {
		return nil, fmt.Errorf("%w: %s is not below %s", types.ErrValidation, childLayer, e.Layer())
	}
	name := pairTableName(e.Layer(), childLayer)
	exists, err := s.tableExists(ctx, name)
	if err != nil {
		return nil, err
	}
	if !exists {
		return []types.Entity{}, nil
	}
	table := mustTableName(childLayer)
	query := fmt.Sprintf("SELECT %s FROM %s e JOIN %s j ON j.child_id = e.id WHERE j.parent_id = ? ORDER BY e.id",
		qualifyColumns(selectColumns(childLayer), "e"), table, name)
	return s.queryEntities(ctx, childLayer, query, e.Meta().ID)
}

// ParentsOf returns the entities in parentLayer linked above e, ordered
// by id. No linked parents yield an empty slice.
func (s *Store) ParentsOf(ctx context.Context, e types.Entity, parentLayer string) ([]types.Entity, error) {
	if !types.ValidLayer(parentLayer) {
		return nil, fmt.Errorf("%w: %q", types.ErrUnknownLayer, parentLayer)
	}
	if types.Rank(parentLayer) >= types.Rank(e.Layer()) {
		return nil, fmt.Errorf("%w: %s is not above %s", types.ErrValidation, parentLayer, e.Layer())
	}
	name := pairTableName(parentLayer, e.Layer())
	exists, err := s.tableExists(ctx, name)
	if err != nil {
		return nil, err
	}
	if !exists {
		return []types.Entity{}, nil
	}
	table := mustTableName(parentLayer)
	query := fmt.Sprintf("SELECT %s FROM %s e JOIN %s j ON j.parent_id = e.id WHERE j.child_id = ? ORDER BY e.id",
		qualifyColumns(selectColumns(parentLayer), "e"), table, name)
	return s.queryEntities(ctx, parentLayer, query, e.Meta().ID)
}

// HierarchyEdges returns every hierarchy edge in the store, ordered by
// layer pair, then parent and child id.
func (s *Store) HierarchyEdges(ctx context.Context) ([]types.Edge, error) {
	pairs, err := s.listPairTables(ctx)
	if err != nil {
		return nil, err
	}

	edges := []types.Edge{}
	for _, p := range pairs {
		parent, child := p[0], p[1]
		name := pairTableName(parent, child)
		query := fmt.Sprintf("SELECT parent_id, child_id FROM %s ORDER BY parent_id, child_id", name)
		rows, err := s.db.QueryContext(ctx, query)
		if err != nil {
			return nil, storeErr("query "+name, err)
		}
		for rows.Next() {
			var from, to int64
			if err := rows.Scan(&from, &to); err != nil {
				rows.Close()
				return nil, storeErr("scan "+name, err)
			}
			edges = append(edges, types.Edge{
				FromLayer: parent, FromID: from,
				ToLayer: child, ToID: to,
				Kind: types.EdgeKindHierarchy,
			})
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, storeErr("iterate "+name, err)
		}
		rows.Close()
	}
	return edges, nil
}

// LabelEdges returns every entity-to-label association, ordered by
// layer, then entity and label id.
func (s *Store) LabelEdges(ctx context.Context) ([]types.Edge, error) {
	edges := []types.Edge{}
	for _, layer := range types.Layers {
		table := mustTableName(layer)
		query := fmt.Sprintf("SELECT entity_id, label_id FROM %s_labels ORDER BY entity_id, label_id", table)
		rows, err := s.db.QueryContext(ctx, query)
		if err != nil {
			return nil, storeErr("query "+table+"_labels", err)
		}
		for rows.Next() {
			var from, to int64
			if err := rows.Scan(&from, &to); err != nil {
				rows.Close()
				return nil, storeErr("scan "+table+"_labels", err)
			}
			edges = append(edges, types.Edge{
				FromLayer: layer, FromID: from,
				ToLayer: "label", ToID: to,
				Kind: types.EdgeKindLabel,
			})
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, storeErr("iterate "+table+"_labels", err)
		}
		rows.Close()
	}
	return edges, nil
}

// tableExists reports whether a table is present in the catalog.
func (s *Store) tableExists(ctx context.Context, name string) (bool, error) {
	rows, err := s.db.QueryContext(ctx, s.dialect.tableNamesQuery())
	if err != nil {
		return false, storeErr("list tables", err)
	}
	defer rows.Close()
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return false, storeErr("scan table name", err)
		}
		if t == name {
			return true, nil
		}
	}
	return false, rows.Err()
}

// checkPair validates the layer relationship of a prospective edge.
func checkPair(parent, child types.Entity) error {
	rp, rc := types.Rank(parent.Layer()), types.Rank(child.Layer())
	if rp == rc {
		return fmt.Errorf("%w: cannot link two %s entities", types.ErrValidation, parent.Layer())
	}
	if rp > rc {
		return fmt.Errorf("%w: %s cannot parent %s", types.ErrValidation, parent.Layer(), child.Layer())
	}
	return nil
}
