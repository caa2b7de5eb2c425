// Package codec serializes the full entity and association graph to a
// portable document (JSON or YAML) and restores it. Exports carry
// endpoint layer and id on every edge, so imports never depend on record
// order; imports skip records that already exist and collect per-record
// errors instead of aborting.
package codec

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/strataworks/strata/internal/store"
	"github.com/strataworks/strata/pkg/types"
)

// Export reads every entity, label, and association edge from the store
// into a Document. Layer lists are present even when empty, keeping the
// JSON and YAML renderings isomorphic.
func Export(ctx context.Context, s *store.Store) (*types.Document, error) {
	doc := &types.Document{
		SnapshotID: newSnapshotID(),
		ExportedAt: time.Now().UTC().Format(time.RFC3339Nano),

		Goals:              []types.Record{},
		Concepts:           []types.Record{},
		Contexts:           []types.Record{},
		Constraints:        []types.Record{},
		Requirements:       []types.Record{},
		AcceptanceCriteria: []types.Record{},
		InterfaceContracts: []types.Record{},
		Phases:             []types.Record{},
		Steps:              []types.Record{},
		Tasks:              []types.Record{},
		SubTasks:           []types.Record{},
		Commands:           []types.Record{},

		Labels:       []types.LabelRecord{},
		Associations: []types.Edge{},
	}

	for _, layer := range types.Layers {
		entities, err := s.Where(ctx, layer, nil)
		if err != nil {
			return nil, err
		}
		for _, e := range entities {
			if err := doc.AppendRecord(layer, toRecord(e)); err != nil {
				return nil, err
			}
		}
	}

	labels, err := s.Labels(ctx)
	if err != nil {
		return nil, err
	}
	for _, l := range labels {
		doc.Labels = append(doc.Labels, types.LabelRecord{
			ID:        l.ID,
			Name:      l.Name,
			CreatedAt: l.CreatedAt.Format(time.RFC3339Nano),
			UpdatedAt: l.UpdatedAt.Format(time.RFC3339Nano),
		})
	}

	labelEdges, err := s.LabelEdges(ctx)
	if err != nil {
		return nil, err
	}
	hierarchyEdges, err := s.HierarchyEdges(ctx)
	if err != nil {
		return nil, err
	}
	doc.Associations = append(doc.Associations, labelEdges...)
	doc.Associations = append(doc.Associations, hierarchyEdges...)

	return doc, nil
}

// newSnapshotID returns a UUID v7 string identifying one export.
func newSnapshotID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// toRecord flattens an entity into its document form.
func toRecord(e types.Entity) types.Record {
	b := e.Meta()
	r := types.Record{
		ID:          b.ID,
		Title:       b.Title,
		Description: b.Description,
		Status:      b.Status,
		Progress:    b.Progress,
		Owner:       b.Owner,
		Severity:    b.Severity,
		WorkType:    b.WorkType,
		Assignee:    b.Assignee,
		ExtraData:   b.ExtraData,
		CreatedAt:   b.CreatedAt.Format(time.RFC3339Nano),
		UpdatedAt:   b.UpdatedAt.Format(time.RFC3339Nano),
	}
	if b.StartedDate != nil {
		r.StartedDate = b.StartedDate.Format(time.RFC3339Nano)
	}
	if b.CompletionDate != nil {
		r.CompletionDate = b.CompletionDate.Format(time.RFC3339Nano)
	}
	if cmd, ok := e.(*types.Command); ok {
		r.Cmd = cmd.Cmd
		r.CmdParams = cmd.CmdParams
		r.RuntimeEnv = cmd.RuntimeEnv
		r.Output = cmd.Output
		r.Artifacts = cmd.Artifacts
	}
	return r
}
