package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strataworks/strata/pkg/types"
)

func TestGetOrCreateLabel(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	first, err := s.GetOrCreateLabel(ctx, "backend")
	require.NoError(t, err)
	assert.Positive(t, first.ID)

	// Asking again for the same name returns the existing label.
	second, err := s.GetOrCreateLabel(ctx, "backend")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	_, err = s.GetOrCreateLabel(ctx, "")
	require.ErrorIs(t, err, types.ErrValidation)
}

func TestAddLabel(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	task := mustCreate(t, s, types.LayerTask, "tagged")

	label, err := s.AddLabel(ctx, task, "urgent")
	require.NoError(t, err)
	assert.Equal(t, "urgent", label.Name)

	// Attaching the same label twice is a no-op.
	_, err = s.AddLabel(ctx, task, "urgent")
	require.NoError(t, err)

	labels, err := s.LabelsOf(ctx, task)
	require.NoError(t, err)
	require.Len(t, labels, 1)
	assert.Equal(t, "urgent", labels[0].Name)
}

func TestAddLabelMissingEntity(t *testing.T) {
	s := setupStore(t)

	ghost := &types.Goal{}
	ghost.ID = 999
	_, err := s.AddLabel(context.Background(), ghost, "urgent")
	require.ErrorIs(t, err, types.ErrNotFound)
}

func TestRemoveLabel(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	task := mustCreate(t, s, types.LayerTask, "tagged")
	_, err := s.AddLabel(ctx, task, "urgent")
	require.NoError(t, err)

	require.NoError(t, s.RemoveLabel(ctx, task, "urgent"))
	labels, err := s.LabelsOf(ctx, task)
	require.NoError(t, err)
	assert.Empty(t, labels)

	// The label itself survives detachment.
	l, err := s.FindLabel(ctx, "urgent")
	require.NoError(t, err)
	require.NotNil(t, l)

	// Removing an absent association or an unknown label is a no-op.
	require.NoError(t, s.RemoveLabel(ctx, task, "urgent"))
	require.NoError(t, s.RemoveLabel(ctx, task, "no-such-label"))
}

func TestLabeledWith(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	a := mustCreate(t, s, types.LayerTask, "first")
	b := mustCreate(t, s, types.LayerTask, "second")
	mustCreate(t, s, types.LayerTask, "unlabeled")

	_, err := s.AddLabel(ctx, a, "sprint-12")
	require.NoError(t, err)
	_, err = s.AddLabel(ctx, b, "sprint-12")
	require.NoError(t, err)

	got, err := s.LabeledWith(ctx, types.LayerTask, "sprint-12")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, a.Meta().ID, got[0].Meta().ID)
	assert.Equal(t, b.Meta().ID, got[1].Meta().ID)

	got, err = s.LabeledWith(ctx, types.LayerTask, "no-such-label")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLabelsSharedAcrossLayers(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	goal := mustCreate(t, s, types.LayerGoal, "g")
	cmd := mustCreate(t, s, types.LayerCommand, "c")

	l1, err := s.AddLabel(ctx, goal, "q3")
	require.NoError(t, err)
	l2, err := s.AddLabel(ctx, cmd, "q3")
	require.NoError(t, err)

	// One shared label row serves both layers.
	assert.Equal(t, l1.ID, l2.ID)

	all, err := s.Labels(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestDeleteEntityDetachesLabels(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	task := mustCreate(t, s, types.LayerTask, "doomed")
	_, err := s.AddLabel(ctx, task, "keepme")
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, types.LayerTask, task.Meta().ID))

	// The label outlives the entity; the association does not.
	l, err := s.FindLabel(ctx, "keepme")
	require.NoError(t, err)
	require.NotNil(t, l)

	got, err := s.LabeledWith(ctx, types.LayerTask, "keepme")
	require.NoError(t, err)
	assert.Empty(t, got)
}
