package codec

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/strataworks/strata/internal/store"
	"github.com/strataworks/strata/pkg/types"
)

// Import restores a document into the store. Entities and labels whose
// natural key already exists (same id within the same layer; same label
// name) are skipped and counted, never overwritten. Malformed records
// are collected in the result's Errors and the import continues; only
// store failures abort. Edges are re-created with get-or-create
// semantics, so importing the same document twice is idempotent.
func Import(ctx context.Context, s *store.Store, doc *types.Document) (*types.ImportResult, error) {
	res := &types.ImportResult{}

	for _, layer := range types.Layers {
		records, err := doc.RecordsFor(layer)
		if err != nil {
			return res, err
		}
		for _, r := range records {
			if err := importRecord(ctx, s, layer, r, res); err != nil {
				return res, err
			}
		}
	}

	if err := importLabels(ctx, s, doc, res); err != nil {
		return res, err
	}
	if err := importEdges(ctx, s, doc, res); err != nil {
		return res, err
	}
	return res, nil
}

// importRecord restores one entity. Validation problems are recorded;
// store failures are returned.
func importRecord(ctx context.Context, s *store.Store, layer string, r types.Record, res *types.ImportResult) error {
	e, err := fromRecord(layer, r)
	if err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("%s id %d: %v", layer, r.ID, err))
		return nil
	}

	existing, err := s.Find(ctx, layer, r.ID)
	if err != nil {
		return err
	}
	if existing != nil {
		res.Skipped++
		return nil
	}

	if err := s.Restore(ctx, e); err != nil {
		if errors.Is(err, types.ErrValidation) {
			res.Errors = append(res.Errors, fmt.Sprintf("%s id %d: %v", layer, r.ID, err))
			return nil
		}
		return err
	}
	res.Imported++
	return nil
}

// importLabels restores labels by name, counting existing names as
// skipped.
func importLabels(ctx context.Context, s *store.Store, doc *types.Document, res *types.ImportResult) error {
	for _, lr := range doc.Labels {
		if lr.Name == "" {
			res.Errors = append(res.Errors, fmt.Sprintf("label id %d: name must not be empty", lr.ID))
			continue
		}
		existing, err := s.FindLabel(ctx, lr.Name)
		if err != nil {
			return err
		}
		if existing != nil {
			res.Skipped++
			continue
		}
		if _, err := s.GetOrCreateLabel(ctx, lr.Name); err != nil {
			return err
		}
		res.Imported++
	}
	return nil
}

// importEdges re-creates association edges. Label edges are resolved
// through the document's labels list, since label ids may differ between
// stores; hierarchy edges reference entities by layer and id. Edges with
// missing endpoints are recorded as errors and skipped.
func importEdges(ctx context.Context, s *store.Store, doc *types.Document, res *types.ImportResult) error {
	labelNames := make(map[int64]string, len(doc.Labels))
	for _, lr := range doc.Labels {
		labelNames[lr.ID] = lr.Name
	}

	for _, edge := range doc.Associations {
		switch edge.Kind {
		case types.EdgeKindLabel:
			name := labelNames[edge.ToID]
			if name == "" {
				res.Errors = append(res.Errors, fmt.Sprintf("label edge from %s id %d: unknown label id %d", edge.FromLayer, edge.FromID, edge.ToID))
				continue
			}
			e, err := findEndpoint(ctx, s, edge.FromLayer, edge.FromID, res)
			if err != nil {
				return err
			}
			if e == nil {
				continue
			}
			if _, err := s.AddLabel(ctx, e, name); err != nil {
				return err
			}

		case types.EdgeKindHierarchy:
			parent, err := findEndpoint(ctx, s, edge.FromLayer, edge.FromID, res)
			if err != nil {
				return err
			}
			child, err := findEndpoint(ctx, s, edge.ToLayer, edge.ToID, res)
			if err != nil {
				return err
			}
			if parent == nil || child == nil {
				continue
			}
			if err := s.Link(ctx, parent, child); err != nil {
				if errors.Is(err, types.ErrValidation) {
					res.Errors = append(res.Errors, fmt.Sprintf("hierarchy edge %s id %d -> %s id %d: %v", edge.FromLayer, edge.FromID, edge.ToLayer, edge.ToID, err))
					continue
				}
				return err
			}

		default:
			res.Errors = append(res.Errors, fmt.Sprintf("edge %s id %d -> %s id %d: unknown kind %q", edge.FromLayer, edge.FromID, edge.ToLayer, edge.ToID, edge.Kind))
		}
	}
	return nil
}

// findEndpoint resolves an edge endpoint, recording a per-edge error
// when the layer is unknown or the entity is missing.
func findEndpoint(ctx context.Context, s *store.Store, layer string, id int64, res *types.ImportResult) (types.Entity, error) {
	if !types.ValidLayer(layer) {
		res.Errors = append(res.Errors, fmt.Sprintf("edge endpoint: unknown layer %q", layer))
		return nil, nil
	}
	e, err := s.Find(ctx, layer, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		res.Errors = append(res.Errors, fmt.Sprintf("edge endpoint: %s id %d not found", layer, id))
		return nil, nil
	}
	return e, nil
}

// fromRecord rebuilds a concrete entity from its document form,
// validating required fields and formats.
func fromRecord(layer string, r types.Record) (types.Entity, error) {
	e, err := types.NewEntity(layer)
	if err != nil {
		return nil, err
	}
	b := e.Meta()

	if r.Status == "" || !types.ValidStatus(r.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", types.ErrValidation, r.Status)
	}

	b.ID = r.ID
	b.Title = r.Title
	b.Description = r.Description
	b.Status = r.Status
	b.Progress = r.Progress
	b.Owner = r.Owner
	b.Severity = r.Severity
	b.WorkType = r.WorkType
	b.Assignee = r.Assignee
	b.ExtraData = r.ExtraData

	if b.StartedDate, err = parseOptional(r.StartedDate); err != nil {
		return nil, fmt.Errorf("%w: bad started_date: %v", types.ErrValidation, err)
	}
	if b.CompletionDate, err = parseOptional(r.CompletionDate); err != nil {
		return nil, fmt.Errorf("%w: bad completion_date: %v", types.ErrValidation, err)
	}
	if b.CreatedAt, err = parseRequired(r.CreatedAt); err != nil {
		return nil, fmt.Errorf("%w: bad created_at: %v", types.ErrValidation, err)
	}
	if b.UpdatedAt, err = parseRequired(r.UpdatedAt); err != nil {
		return nil, fmt.Errorf("%w: bad updated_at: %v", types.ErrValidation, err)
	}

	if err := b.Validate(); err != nil {
		return nil, err
	}

	if cmd, ok := e.(*types.Command); ok {
		cmd.Cmd = r.Cmd
		cmd.CmdParams = r.CmdParams
		cmd.RuntimeEnv = r.RuntimeEnv
		cmd.Output = r.Output
		cmd.Artifacts = r.Artifacts
	}
	return e, nil
}

func parseRequired(v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, fmt.Errorf("missing timestamp")
	}
	return time.Parse(time.RFC3339Nano, v)
}

func parseOptional(v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
