package codec

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strataworks/strata/internal/store"
	"github.com/strataworks/strata/pkg/types"
)

func setupStore(t *testing.T) *store.Store {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "strata.db")
	s, err := store.Open(context.Background(), types.Config{DSN: dsn})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// seedGraph populates a store with a small graph: a goal with a linked
// task, the task labeled urgent, and a command with extras.
func seedGraph(t *testing.T, s *store.Store) {
	t.Helper()
	ctx := context.Background()

	goal := &types.Goal{}
	goal.Title = "Launch Product"
	require.NoError(t, s.Create(ctx, goal))

	task := &types.Task{}
	task.Title = "Design UI"
	task.Owner = "alice"
	require.NoError(t, s.Create(ctx, task))

	cmd := &types.Command{
		Cmd:        "make",
		CmdParams:  "release",
		RuntimeEnv: map[string]string{"ENV": "prod"},
		Artifacts:  []string{"dist/app.tar.gz"},
	}
	cmd.Title = "cut release"
	require.NoError(t, s.Create(ctx, cmd))

	require.NoError(t, s.Link(ctx, goal, task))
	_, err := s.AddLabel(ctx, task, "urgent")
	require.NoError(t, err)
}

func TestExport(t *testing.T) {
	s := setupStore(t)
	seedGraph(t, s)

	doc, err := Export(context.Background(), s)
	require.NoError(t, err)

	assert.NotEmpty(t, doc.SnapshotID)
	assert.NotEmpty(t, doc.ExportedAt)
	require.Len(t, doc.Goals, 1)
	require.Len(t, doc.Tasks, 1)
	require.Len(t, doc.Commands, 1)
	assert.Empty(t, doc.Phases)
	assert.NotNil(t, doc.Phases, "empty layers keep an empty list, not null")

	assert.Equal(t, "Launch Product", doc.Goals[0].Title)
	assert.Equal(t, "make", doc.Commands[0].Cmd)
	assert.Equal(t, map[string]string{"ENV": "prod"}, doc.Commands[0].RuntimeEnv)

	require.Len(t, doc.Labels, 1)
	assert.Equal(t, "urgent", doc.Labels[0].Name)

	require.Len(t, doc.Associations, 2)
	kinds := map[string]int{}
	for _, e := range doc.Associations {
		kinds[e.Kind]++
	}
	assert.Equal(t, 1, kinds[types.EdgeKindLabel])
	assert.Equal(t, 1, kinds[types.EdgeKindHierarchy])
}

func TestRoundTrip(t *testing.T) {
	for _, format := range []string{FormatJSON, FormatYAML} {
		t.Run(format, func(t *testing.T) {
			src := setupStore(t)
			seedGraph(t, src)
			ctx := context.Background()

			doc, err := Export(ctx, src)
			require.NoError(t, err)

			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, doc, format))
			decoded, err := Decode(&buf, format)
			require.NoError(t, err)

			dst := setupStore(t)
			res, err := Import(ctx, dst, decoded)
			require.NoError(t, err)
			assert.Empty(t, res.Errors)
			// 3 entities + 1 label.
			assert.Equal(t, 4, res.Imported)
			assert.Zero(t, res.Skipped)

			// The graph survives: entity, edge, label, command extras.
			task, err := dst.FindBy(ctx, types.LayerTask, map[string]any{"title": "Design UI"})
			require.NoError(t, err)
			require.NotNil(t, task)
			assert.Equal(t, "alice", task.Meta().Owner)

			parents, err := dst.ParentsOf(ctx, task, types.LayerGoal)
			require.NoError(t, err)
			require.Len(t, parents, 1)

			labels, err := dst.LabelsOf(ctx, task)
			require.NoError(t, err)
			require.Len(t, labels, 1)
			assert.Equal(t, "urgent", labels[0].Name)

			cmd, err := dst.Find(ctx, types.LayerCommand, 1)
			require.NoError(t, err)
			require.NotNil(t, cmd)
			assert.Equal(t, []string{"dist/app.tar.gz"}, cmd.(*types.Command).Artifacts)
		})
	}
}

func TestImportIsIdempotent(t *testing.T) {
	s := setupStore(t)
	seedGraph(t, s)
	ctx := context.Background()

	doc, err := Export(ctx, s)
	require.NoError(t, err)

	// Re-importing into the same store skips everything.
	res, err := Import(ctx, s, doc)
	require.NoError(t, err)
	assert.Zero(t, res.Imported)
	assert.Equal(t, 4, res.Skipped)
	assert.Empty(t, res.Errors)

	tasks, err := s.Where(ctx, types.LayerTask, nil)
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
}

func TestImportCollectsRecordErrors(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	doc := &types.Document{
		Goals: []types.Record{
			{ID: 1, Title: "", Status: types.StatusPlanned, CreatedAt: "2026-01-02T03:04:05Z", UpdatedAt: "2026-01-02T03:04:05Z"},
			{ID: 2, Title: "good", Status: types.StatusPlanned, CreatedAt: "2026-01-02T03:04:05Z", UpdatedAt: "2026-01-02T03:04:05Z"},
			{ID: 3, Title: "bad status", Status: "done", CreatedAt: "2026-01-02T03:04:05Z", UpdatedAt: "2026-01-02T03:04:05Z"},
		},
	}

	res, err := Import(ctx, s, doc)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Imported)
	assert.Len(t, res.Errors, 2)

	// The valid record landed despite its malformed neighbors.
	got, err := s.Find(ctx, types.LayerGoal, 2)
	require.NoError(t, err)
	require.NotNil(t, got)
}

func TestImportReportsDanglingEdges(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	doc := &types.Document{
		Goals: []types.Record{
			{ID: 1, Title: "g", Status: types.StatusPlanned, CreatedAt: "2026-01-02T03:04:05Z", UpdatedAt: "2026-01-02T03:04:05Z"},
		},
		Associations: []types.Edge{
			{FromLayer: types.LayerGoal, FromID: 1, ToLayer: types.LayerTask, ToID: 99, Kind: types.EdgeKindHierarchy},
		},
	}

	res, err := Import(ctx, s, doc)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Imported)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "task id 99 not found")
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode(bytes.NewReader([]byte("{not json")), FormatJSON)
	require.Error(t, err)

	_, err = Decode(bytes.NewReader([]byte("\t: bad yaml")), FormatYAML)
	require.Error(t, err)

	_, err = Decode(bytes.NewReader(nil), "toml")
	require.ErrorIs(t, err, types.ErrValidation)
}

func TestFormatForPath(t *testing.T) {
	assert.Equal(t, FormatJSON, FormatForPath("dump.json"))
	assert.Equal(t, FormatJSON, FormatForPath("DUMP.JSON"))
	assert.Equal(t, FormatYAML, FormatForPath("dump.yaml"))
	assert.Equal(t, FormatYAML, FormatForPath("dump.yml"))
	assert.Equal(t, FormatYAML, FormatForPath("dump"))
}
