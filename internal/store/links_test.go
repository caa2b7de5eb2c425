package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strataworks/strata/pkg/types"
)

func TestLinkAndChildrenOf(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	goal := mustCreate(t, s, types.LayerGoal, "Launch Product")
	task := mustCreate(t, s, types.LayerTask, "Design UI")

	require.NoError(t, s.Link(ctx, goal, task))

	children, err := s.ChildrenOf(ctx, goal, types.LayerTask)
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, task.Meta().ID, children[0].Meta().ID)

	parents, err := s.ParentsOf(ctx, task, types.LayerGoal)
	require.NoError(t, err)
	require.Len(t, parents, 1)
	assert.Equal(t, goal.Meta().ID, parents[0].Meta().ID)
}

func TestLinkIsIdempotent(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	goal := mustCreate(t, s, types.LayerGoal, "g")
	task := mustCreate(t, s, types.LayerTask, "t")

	require.NoError(t, s.Link(ctx, goal, task))
	require.NoError(t, s.Link(ctx, goal, task))

	children, err := s.ChildrenOf(ctx, goal, types.LayerTask)
	require.NoError(t, err)
	assert.Len(t, children, 1)
}

func TestLinkRejectsSameLayer(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	a := mustCreate(t, s, types.LayerTask, "a")
	b := mustCreate(t, s, types.LayerTask, "b")

	err := s.Link(ctx, a, b)
	require.ErrorIs(t, err, types.ErrValidation)
}

func TestLinkRejectsInvertedRank(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	goal := mustCreate(t, s, types.LayerGoal, "g")
	task := mustCreate(t, s, types.LayerTask, "t")

	// Task sits below goal, so it cannot be a parent of one.
	err := s.Link(ctx, task, goal)
	require.ErrorIs(t, err, types.ErrValidation)
}

func TestLinkRequiresBothEndpoints(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	goal := mustCreate(t, s, types.LayerGoal, "g")
	ghost := &types.Task{}
	ghost.ID = 999

	err := s.Link(ctx, goal, ghost)
	require.ErrorIs(t, err, types.ErrNotFound)
}

func TestMultipleParents(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	g1 := mustCreate(t, s, types.LayerGoal, "g1")
	g2 := mustCreate(t, s, types.LayerGoal, "g2")
	task := mustCreate(t, s, types.LayerTask, "shared")

	require.NoError(t, s.Link(ctx, g1, task))
	require.NoError(t, s.Link(ctx, g2, task))

	parents, err := s.ParentsOf(ctx, task, types.LayerGoal)
	require.NoError(t, err)
	assert.Len(t, parents, 2)
}

func TestUnlink(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	goal := mustCreate(t, s, types.LayerGoal, "g")
	task := mustCreate(t, s, types.LayerTask, "t")
	require.NoError(t, s.Link(ctx, goal, task))

	require.NoError(t, s.Unlink(ctx, goal, task))
	children, err := s.ChildrenOf(ctx, goal, types.LayerTask)
	require.NoError(t, err)
	assert.Empty(t, children)

	// Removing an absent edge is a no-op, even before any edge ever
	// existed between the two layers.
	require.NoError(t, s.Unlink(ctx, goal, task))
	phase := mustCreate(t, s, types.LayerPhase, "p")
	require.NoError(t, s.Unlink(ctx, goal, phase))
}

func TestChildrenOfEmptyBeforeAnyLink(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	goal := mustCreate(t, s, types.LayerGoal, "g")
	children, err := s.ChildrenOf(ctx, goal, types.LayerSubTask)
	require.NoError(t, err)
	assert.Empty(t, children)
}

func TestChildrenOfRejectsBadLayer(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	task := mustCreate(t, s, types.LayerTask, "t")

	_, err := s.ChildrenOf(ctx, task, "epic")
	require.ErrorIs(t, err, types.ErrUnknownLayer)

	// The requested child layer must sit below the entity's layer.
	_, err = s.ChildrenOf(ctx, task, types.LayerGoal)
	require.ErrorIs(t, err, types.ErrValidation)
}

func TestDeleteRemovesEdgesKeepsOtherEndpoint(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	goal := mustCreate(t, s, types.LayerGoal, "Launch Product")
	task := mustCreate(t, s, types.LayerTask, "Design UI")
	require.NoError(t, s.Link(ctx, goal, task))

	require.NoError(t, s.Delete(ctx, types.LayerGoal, goal.Meta().ID))

	// The task survives; the edge does not.
	got, err := s.Find(ctx, types.LayerTask, task.Meta().ID)
	require.NoError(t, err)
	require.NotNil(t, got)

	parents, err := s.ParentsOf(ctx, task, types.LayerGoal)
	require.NoError(t, err)
	assert.Empty(t, parents)
}

func TestHierarchyEdges(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	goal := mustCreate(t, s, types.LayerGoal, "g")
	phase := mustCreate(t, s, types.LayerPhase, "p")
	task := mustCreate(t, s, types.LayerTask, "t")

	require.NoError(t, s.Link(ctx, goal, phase))
	require.NoError(t, s.Link(ctx, phase, task))

	edges, err := s.HierarchyEdges(ctx)
	require.NoError(t, err)
	require.Len(t, edges, 2)
	for _, e := range edges {
		assert.Equal(t, types.EdgeKindHierarchy, e.Kind)
	}
}

func TestLabelEdges(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	task := mustCreate(t, s, types.LayerTask, "t")
	label, err := s.AddLabel(ctx, task, "urgent")
	require.NoError(t, err)

	edges, err := s.LabelEdges(ctx)
	require.NoError(t, err)
	require.Len(t, edges, 1)
	assert.Equal(t, types.LayerTask, edges[0].FromLayer)
	assert.Equal(t, task.Meta().ID, edges[0].FromID)
	assert.Equal(t, "label", edges[0].ToLayer)
	assert.Equal(t, label.ID, edges[0].ToID)
	assert.Equal(t, types.EdgeKindLabel, edges[0].Kind)
}
