package integration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strataworks/strata/pkg/types"
)

// TestGoalTaskLifecycle walks the canonical flow: create a goal and a
// task, link them, navigate the hierarchy, move the task through its
// workflow, then delete the goal and verify the task survives without
// the edge.
func TestGoalTaskLifecycle(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	goal := &types.Goal{}
	goal.Title = "Launch Product"
	require.NoError(t, s.Create(ctx, goal))
	require.Equal(t, types.StatusPlanned, goal.Status)

	task := &types.Task{}
	task.Title = "Design UI"
	require.NoError(t, s.Create(ctx, task))

	require.NoError(t, s.Link(ctx, goal, task))

	children, err := s.ChildrenOf(ctx, goal, types.LayerTask)
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, "Design UI", children[0].Meta().Title)

	// Workflow: planned -> in_progress -> completed.
	require.NoError(t, task.Start())
	require.NoError(t, s.Update(ctx, task))
	require.NotNil(t, task.StartedDate)

	require.NoError(t, task.Complete())
	require.NoError(t, s.Update(ctx, task))

	got, err := s.Find(ctx, types.LayerTask, task.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, types.StatusCompleted, got.Meta().Status)
	assert.Equal(t, 100, got.Meta().Progress)
	assert.NotNil(t, got.Meta().CompletionDate)

	// Deleting the goal removes the edge but not the task.
	require.NoError(t, s.Delete(ctx, types.LayerGoal, goal.ID))

	got, err = s.Find(ctx, types.LayerTask, task.ID)
	require.NoError(t, err)
	require.NotNil(t, got)

	parents, err := s.ParentsOf(ctx, task, types.LayerGoal)
	require.NoError(t, err)
	assert.Empty(t, parents)
}

// TestBlockedDetour covers the block/unblock path and the guard against
// completing blocked work.
func TestBlockedDetour(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	step := &types.Step{}
	step.Title = "migrate data"
	require.NoError(t, s.Create(ctx, step))

	require.NoError(t, step.Start())
	require.NoError(t, step.Block())
	require.NoError(t, s.Update(ctx, step))

	require.ErrorIs(t, step.Complete(), types.ErrInvalidTransition)

	require.NoError(t, step.Unblock())
	require.NoError(t, step.Complete())
	require.NoError(t, s.Update(ctx, step))

	got, err := s.Find(ctx, types.LayerStep, step.ID)
	require.NoError(t, err)
	assert.Equal(t, types.StatusCompleted, got.Meta().Status)
}

// TestDeepChain links one entity per layer top to bottom and checks the
// chain is navigable from the goal down to the command.
func TestDeepChain(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	entities := make([]types.Entity, 0, len(types.Layers))
	for _, layer := range types.Layers {
		e, err := types.NewEntity(layer)
		require.NoError(t, err)
		e.Meta().Title = layer + " node"
		require.NoError(t, s.Create(ctx, e))
		entities = append(entities, e)
	}

	for i := 1; i < len(entities); i++ {
		require.NoError(t, s.Link(ctx, entities[i-1], entities[i]))
	}

	current := entities[0]
	for i := 1; i < len(entities); i++ {
		children, err := s.ChildrenOf(ctx, current, entities[i].Layer())
		require.NoError(t, err)
		require.Len(t, children, 1)
		current = children[0]
	}
	assert.Equal(t, types.LayerCommand, current.Layer())
	assert.Equal(t, "command node", current.Meta().Title)
}

// TestSkipLevelLinks verifies edges may skip intermediate layers, e.g.
// a goal directly over a command.
func TestSkipLevelLinks(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	goal := &types.Goal{}
	goal.Title = "g"
	require.NoError(t, s.Create(ctx, goal))

	cmd := &types.Command{Cmd: "true"}
	cmd.Title = "noop"
	require.NoError(t, s.Create(ctx, cmd))

	require.NoError(t, s.Link(ctx, goal, cmd))

	children, err := s.ChildrenOf(ctx, goal, types.LayerCommand)
	require.NoError(t, err)
	require.Len(t, children, 1)
}
