package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/strataworks/strata/pkg/types"
)

// GetOrCreateLabel returns the label with the given name, creating it if
// absent. Duplicate-named creation is idempotent: the existing label is
// returned and no second row is produced.
func (s *Store) GetOrCreateLabel(ctx context.Context, name string) (*types.Label, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: label name must not be empty", types.ErrValidation)
	}

	if l, err := s.FindLabel(ctx, name); err != nil || l != nil {
		return l, err
	}

	l := &types.Label{Name: name}
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		now := time.Now().UTC().Format(timeFormat)
		query := s.q("INSERT INTO labels (name, created_at, updated_at) VALUES (?, ?, ?) RETURNING id")
		if err := tx.QueryRowContext(ctx, query, name, now, now).Scan(&l.ID); err != nil {
			return storeErr("insert label", err)
		}
		t, _ := time.Parse(timeFormat, now)
		l.CreatedAt = t
		l.UpdatedAt = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return l, nil
}

// FindLabel returns the label with the given name, or nil when absent.
func (s *Store) FindLabel(ctx context.Context, name string) (*types.Label, error) {
	row := s.db.QueryRowContext(ctx, s.q("SELECT id, name, created_at, updated_at FROM labels WHERE name = ?"), name)
	l, err := scanLabel(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("find label", err)
	}
	return l, nil
}

// AddLabel attaches the named label to the entity, creating the label if
// needed. Attaching an already attached label is a no-op. Returns
// ErrNotFound when the entity does not exist.
func (s *Store) AddLabel(ctx context.Context, e types.Entity, name string) (*types.Label, error) {
	b := e.Meta()
	if err := s.requireEntity(ctx, e.Layer(), b.ID); err != nil {
		return nil, err
	}
	label, err := s.GetOrCreateLabel(ctx, name)
	if err != nil {
		return nil, err
	}

	table := mustTableName(e.Layer())
	err = s.withTx(ctx, func(tx *sql.Tx) error {
		query := fmt.Sprintf("INSERT INTO %s_labels (entity_id, label_id) VALUES (?, ?) ON CONFLICT DO NOTHING", table)
		if _, err := tx.ExecContext(ctx, s.q(query), b.ID, label.ID); err != nil {
			return storeErr("attach label", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return label, nil
}

// RemoveLabel detaches the named label from the entity. Removing an
// absent association, or naming an unknown label, is a no-op.
func (s *Store) RemoveLabel(ctx context.Context, e types.Entity, name string) error {
	label, err := s.FindLabel(ctx, name)
	if err != nil {
		return err
	}
	if label == nil {
		return nil
	}
	table := mustTableName(e.Layer())
	return s.withTx(ctx, func(tx *sql.Tx) error {
		query := fmt.Sprintf("DELETE FROM %s_labels WHERE entity_id = ? AND label_id = ?", table)
		if _, err := tx.ExecContext(ctx, s.q(query), e.Meta().ID, label.ID); err != nil {
			return storeErr("detach label", err)
		}
		return nil
	})
}

// LabelsOf returns the labels attached to the entity, in label creation
// order. The result is never nil.
func (s *Store) LabelsOf(ctx context.Context, e types.Entity) ([]types.Label, error) {
	table := mustTableName(e.Layer())
	query := fmt.Sprintf(`SELECT l.id, l.name, l.created_at, l.updated_at
FROM labels l
JOIN %s_labels j ON j.label_id = l.id
WHERE j.entity_id = ?
ORDER BY l.id`, table)
	return s.queryLabels(ctx, query, e.Meta().ID)
}

// LabeledWith returns the entities in the layer carrying the named
// label, in insertion order.
func (s *Store) LabeledWith(ctx context.Context, layer, name string) ([]types.Entity, error) {
	table, err := types.TableName(layer)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT %s FROM %s e
JOIN %s_labels j ON j.entity_id = e.id
JOIN labels l ON l.id = j.label_id
WHERE l.name = ?
ORDER BY e.id`, qualifyColumns(selectColumns(layer), "e"), table, table)
	return s.queryEntities(ctx, layer, query, name)
}

// Labels returns every label in the store, in creation order.
func (s *Store) Labels(ctx context.Context) ([]types.Label, error) {
	return s.queryLabels(ctx, "SELECT id, name, created_at, updated_at FROM labels ORDER BY id")
}

func (s *Store) queryLabels(ctx context.Context, query string, args ...any) ([]types.Label, error) {
	rows, err := s.db.QueryContext(ctx, s.q(query), args...)
	if err != nil {
		return nil, storeErr("query labels", err)
	}
	defer rows.Close()

	labels := []types.Label{}
	for rows.Next() {
		l, err := scanLabel(rows)
		if err != nil {
			return nil, storeErr("scan label", err)
		}
		labels = append(labels, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterate labels", err)
	}
	return labels, nil
}

func scanLabel(row rowScanner) (*types.Label, error) {
	var l types.Label
	var created, updated string
	if err := row.Scan(&l.ID, &l.Name, &created, &updated); err != nil {
		return nil, err
	}
	var err error
	if l.CreatedAt, err = time.Parse(timeFormat, created); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if l.UpdatedAt, err = time.Parse(timeFormat, updated); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &l, nil
}

// requireEntity returns ErrNotFound when the entity id is absent from
// the layer table.
func (s *Store) requireEntity(ctx context.Context, layer string, id int64) error {
	e, err := s.Find(ctx, layer, id)
	if err != nil {
		return err
	}
	if e == nil {
		return fmt.Errorf("%w: %s id %d", types.ErrNotFound, layer, id)
	}
	return nil
}
