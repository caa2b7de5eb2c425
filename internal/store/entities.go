package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/strataworks/strata/pkg/types"
)

// timeFormat is the stored timestamp representation.
const timeFormat = time.RFC3339Nano

// baseColumns is the select list shared by all layer tables.
const baseColumns = "id, title, description, status, progress, owner, severity, work_type, assignee, started_date, completion_date, extra_data, created_at, updated_at"

// commandColumns extends baseColumns with the command-layer extras.
const commandColumns = baseColumns + ", cmd, cmd_params, runtime_env, output, artifacts"

// filterColumns lists the columns accepted as equality predicates by
// FindBy and Where.
var filterColumns = map[string]bool{
	"title":     true,
	"status":    true,
	"progress":  true,
	"owner":     true,
	"severity":  true,
	"work_type": true,
	"assignee":  true,
}

// dbtx is satisfied by both *sql.DB and *sql.Tx.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// selectColumns returns the select list for a layer.
func selectColumns(layer string) string {
	if layer == types.LayerCommand {
		return commandColumns
	}
	return baseColumns
}

// Create validates the entity, assigns defaults (status planned, fresh
// timestamps), and inserts it. The store-assigned id is written back to
// the entity. Nothing is persisted when validation fails.
func (s *Store) Create(ctx context.Context, e types.Entity) error {
	b := e.Meta()
	if b.Status == "" {
		b.Status = types.StatusPlanned
	}
	if err := b.Validate(); err != nil {
		return err
	}

	now := time.Now().UTC()
	b.CreatedAt = now
	b.UpdatedAt = now

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.insertEntity(ctx, tx, e, false)
	})
}

// Restore inserts an entity preserving its id and timestamps. Used by
// the import codec to rebuild a previously exported graph.
func (s *Store) Restore(ctx context.Context, e types.Entity) error {
	if err := e.Meta().Validate(); err != nil {
		return err
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.insertEntity(ctx, tx, e, true)
	})
}

// insertEntity writes one row. With keepID the entity's id is inserted
// as-is; otherwise the store assigns the next id and writes it back.
func (s *Store) insertEntity(ctx context.Context, tx dbtx, e types.Entity, keepID bool) error {
	b := e.Meta()
	table := mustTableName(e.Layer())

	extra, err := marshalMap(b.ExtraData)
	if err != nil {
		return fmt.Errorf("%w: extra_data not serializable: %v", types.ErrValidation, err)
	}

	cols := []string{"title", "description", "status", "progress", "owner", "severity", "work_type", "assignee", "started_date", "completion_date", "extra_data", "created_at", "updated_at"}
	args := []any{
		b.Title, b.Description, b.Status, b.Progress, b.Owner, b.Severity,
		b.WorkType, b.Assignee,
		formatOptionalTime(b.StartedDate), formatOptionalTime(b.CompletionDate),
		extra,
		b.CreatedAt.UTC().Format(timeFormat), b.UpdatedAt.UTC().Format(timeFormat),
	}

	if cmd, ok := e.(*types.Command); ok {
		env, err := marshalEnv(cmd.RuntimeEnv)
		if err != nil {
			return fmt.Errorf("%w: runtime_env not serializable: %v", types.ErrValidation, err)
		}
		artifacts, err := marshalArtifacts(cmd.Artifacts)
		if err != nil {
			return fmt.Errorf("%w: artifacts not serializable: %v", types.ErrValidation, err)
		}
		cols = append(cols, "cmd", "cmd_params", "runtime_env", "output", "artifacts")
		args = append(args, cmd.Cmd, cmd.CmdParams, env, cmd.Output, artifacts)
	}

	if keepID {
		cols = append([]string{"id"}, cols...)
		args = append([]any{b.ID}, args...)
		query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
			table, strings.Join(cols, ", "), placeholders(len(cols)))
		if _, err := tx.ExecContext(ctx, s.q(query), args...); err != nil {
			return storeErr("insert "+table, err)
		}
		return s.syncIDSequence(ctx, tx, table)
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING id",
		table, strings.Join(cols, ", "), placeholders(len(cols)))
	if err := tx.QueryRowContext(ctx, s.q(query), args...).Scan(&b.ID); err != nil {
		return storeErr("insert "+table, err)
	}
	return nil
}

// syncIDSequence advances the table's id sequence past explicitly
// inserted ids, so the next store-assigned id cannot collide with a
// restored row. SQLite's AUTOINCREMENT absorbs explicit ids on its own;
// Postgres sequences do not move on explicit inserts.
func (s *Store) syncIDSequence(ctx context.Context, tx dbtx, table string) error {
	if !s.dialect.postgres() {
		return nil
	}
	query := fmt.Sprintf(
		"SELECT setval(pg_get_serial_sequence('%s', 'id'), GREATEST((SELECT COALESCE(MAX(id), 1) FROM %s), 1))",
		table, table)
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return storeErr("sync id sequence for "+table, err)
	}
	return nil
}

// Find retrieves the entity with the given id from the layer. A miss is
// not an error: both return values are nil.
func (s *Store) Find(ctx context.Context, layer string, id int64) (types.Entity, error) {
	table, err := types.TableName(layer)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = ?", selectColumns(layer), table)
	row := s.db.QueryRowContext(ctx, s.q(query), id)
	e, err := scanEntity(layer, row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("find in "+table, err)
	}
	return e, nil
}

// Update validates and writes the entity's mutable fields. The id and
// created_at columns are never written; updated_at is refreshed.
// Returns ErrNotFound when no row with the entity's id exists.
func (s *Store) Update(ctx context.Context, e types.Entity) error {
	b := e.Meta()
	if err := b.Validate(); err != nil {
		return err
	}
	if b.Status == "" {
		return fmt.Errorf("%w: status must not be empty", types.ErrValidation)
	}

	table := mustTableName(e.Layer())
	b.UpdatedAt = time.Now().UTC()

	extra, err := marshalMap(b.ExtraData)
	if err != nil {
		return fmt.Errorf("%w: extra_data not serializable: %v", types.ErrValidation, err)
	}

	sets := []string{"title = ?", "description = ?", "status = ?", "progress = ?", "owner = ?", "severity = ?", "work_type = ?", "assignee = ?", "started_date = ?", "completion_date = ?", "extra_data = ?", "updated_at = ?"}
	args := []any{
		b.Title, b.Description, b.Status, b.Progress, b.Owner, b.Severity,
		b.WorkType, b.Assignee,
		formatOptionalTime(b.StartedDate), formatOptionalTime(b.CompletionDate),
		extra, b.UpdatedAt.Format(timeFormat),
	}

	if cmd, ok := e.(*types.Command); ok {
		env, err := marshalEnv(cmd.RuntimeEnv)
		if err != nil {
			return fmt.Errorf("%w: runtime_env not serializable: %v", types.ErrValidation, err)
		}
		artifacts, err := marshalArtifacts(cmd.Artifacts)
		if err != nil {
			return fmt.Errorf("%w: artifacts not serializable: %v", types.ErrValidation, err)
		}
		sets = append(sets, "cmd = ?", "cmd_params = ?", "runtime_env = ?", "output = ?", "artifacts = ?")
		args = append(args, cmd.Cmd, cmd.CmdParams, env, cmd.Output, artifacts)
	}

	args = append(args, b.ID)

	return s.withTx(ctx, func(tx *sql.Tx) error {
		query := fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", table, strings.Join(sets, ", "))
		res, err := tx.ExecContext(ctx, s.q(query), args...)
		if err != nil {
			return storeErr("update "+table, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return storeErr("update "+table, err)
		}
		if n == 0 {
			return fmt.Errorf("%w: %s id %d", types.ErrNotFound, e.Layer(), b.ID)
		}
		return nil
	})
}

// Delete removes the entity and every association row referencing it,
// in both the label join table and all hierarchy pair tables, in one
// transaction. Deleting a missing id is a no-op.
func (s *Store) Delete(ctx context.Context, layer string, id int64) error {
	table, err := types.TableName(layer)
	if err != nil {
		return err
	}
	pairs, err := s.listPairTables(ctx)
	if err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		q := fmt.Sprintf("DELETE FROM %s_labels WHERE entity_id = ?", table)
		if _, err := tx.ExecContext(ctx, s.q(q), id); err != nil {
			return storeErr("delete label associations", err)
		}
		for _, p := range pairs {
			parent, child := p[0], p[1]
			name := pairTableName(parent, child)
			if parent == layer {
				q := fmt.Sprintf("DELETE FROM %s WHERE parent_id = ?", name)
				if _, err := tx.ExecContext(ctx, s.q(q), id); err != nil {
					return storeErr("delete hierarchy associations", err)
				}
			}
			if child == layer {
				q := fmt.Sprintf("DELETE FROM %s WHERE child_id = ?", name)
				if _, err := tx.ExecContext(ctx, s.q(q), id); err != nil {
					return storeErr("delete hierarchy associations", err)
				}
			}
		}
		q = fmt.Sprintf("DELETE FROM %s WHERE id = ?", table)
		if _, err := tx.ExecContext(ctx, s.q(q), id); err != nil {
			return storeErr("delete from "+table, err)
		}
		return nil
	})
}

// FindBy returns the first entity in insertion order matching the
// AND-combined equality predicates, or nil when none match.
func (s *Store) FindBy(ctx context.Context, layer string, filter map[string]any) (types.Entity, error) {
	matches, err := s.where(ctx, layer, filter, 1)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, nil
	}
	return matches[0], nil
}

// Where returns all entities matching the AND-combined equality
// predicates, in insertion order. Zero matches yield an empty slice.
func (s *Store) Where(ctx context.Context, layer string, filter map[string]any) ([]types.Entity, error) {
	return s.where(ctx, layer, filter, 0)
}

func (s *Store) where(ctx context.Context, layer string, filter map[string]any, limit int) ([]types.Entity, error) {
	table, err := types.TableName(layer)
	if err != nil {
		return nil, err
	}

	var conds []string
	var args []any
	keys := make([]string, 0, len(filter))
	for k := range filter {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if !filterColumns[k] {
			return nil, fmt.Errorf("%w: unsupported filter column %q", types.ErrValidation, k)
		}
		conds = append(conds, k+" = ?")
		args = append(args, filter[k])
	}

	query := fmt.Sprintf("SELECT %s FROM %s", selectColumns(layer), table)
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY id"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	return s.queryEntities(ctx, layer, query, args...)
}

// queryEntities runs a select over one layer table and hydrates every
// row. The result is never nil.
func (s *Store) queryEntities(ctx context.Context, layer, query string, args ...any) ([]types.Entity, error) {
	rows, err := s.db.QueryContext(ctx, s.q(query), args...)
	if err != nil {
		return nil, storeErr("query "+layer, err)
	}
	defer rows.Close()

	results := []types.Entity{}
	for rows.Next() {
		e, err := scanEntity(layer, rows)
		if err != nil {
			return nil, storeErr("scan "+layer, err)
		}
		results = append(results, e)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterate "+layer, err)
	}
	return results, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanEntity hydrates one row into a concrete layer entity.
func scanEntity(layer string, row rowScanner) (types.Entity, error) {
	e, err := types.NewEntity(layer)
	if err != nil {
		return nil, err
	}
	b := e.Meta()

	var started, completion sql.NullString
	var extraRaw, createdRaw, updatedRaw string
	dest := []any{
		&b.ID, &b.Title, &b.Description, &b.Status, &b.Progress,
		&b.Owner, &b.Severity, &b.WorkType, &b.Assignee,
		&started, &completion, &extraRaw, &createdRaw, &updatedRaw,
	}

	var envRaw, artifactsRaw string
	cmd, isCommand := e.(*types.Command)
	if isCommand {
		dest = append(dest, &cmd.Cmd, &cmd.CmdParams, &envRaw, &cmd.Output, &artifactsRaw)
	}

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	if b.StartedDate, err = parseOptionalTime(started); err != nil {
		return nil, fmt.Errorf("parsing started_date: %w", err)
	}
	if b.CompletionDate, err = parseOptionalTime(completion); err != nil {
		return nil, fmt.Errorf("parsing completion_date: %w", err)
	}
	if b.CreatedAt, err = time.Parse(timeFormat, createdRaw); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if b.UpdatedAt, err = time.Parse(timeFormat, updatedRaw); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	if b.ExtraData, err = unmarshalMap(extraRaw); err != nil {
		return nil, fmt.Errorf("parsing extra_data: %w", err)
	}

	if isCommand {
		if cmd.RuntimeEnv, err = unmarshalEnv(envRaw); err != nil {
			return nil, fmt.Errorf("parsing runtime_env: %w", err)
		}
		if cmd.Artifacts, err = unmarshalArtifacts(artifactsRaw); err != nil {
			return nil, fmt.Errorf("parsing artifacts: %w", err)
		}
	}
	return e, nil
}

// placeholders returns "?, ?, ..." with n entries.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// qualifyColumns prefixes each column in a select list with a table
// alias, for joins.
func qualifyColumns(cols, alias string) string {
	parts := strings.Split(cols, ", ")
	for i, c := range parts {
		parts[i] = alias + "." + c
	}
	return strings.Join(parts, ", ")
}

func formatOptionalTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(timeFormat)
}

func parseOptionalTime(v sql.NullString) (*time.Time, error) {
	if !v.Valid || v.String == "" {
		return nil, nil
	}
	t, err := time.Parse(timeFormat, v.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func marshalMap(m map[string]any) (string, error) {
	if len(m) == 0 {
		return "{}", nil
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func unmarshalMap(raw string) (map[string]any, error) {
	if raw == "" || raw == "{}" || raw == "null" {
		return nil, nil
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, err
	}
	return m, nil
}

func marshalEnv(m map[string]string) (string, error) {
	if len(m) == 0 {
		return "{}", nil
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func unmarshalEnv(raw string) (map[string]string, error) {
	if raw == "" || raw == "{}" || raw == "null" {
		return nil, nil
	}
	var m map[string]string
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, err
	}
	return m, nil
}

func marshalArtifacts(a []string) (string, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	raw, err := json.Marshal(a)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func unmarshalArtifacts(raw string) ([]string, error) {
	if raw == "" || raw == "[]" || raw == "null" {
		return nil, nil
	}
	var a []string
	if err := json.Unmarshal([]byte(raw), &a); err != nil {
		return nil, err
	}
	return a, nil
}
