package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/strataworks/strata/pkg/types"
)

// layerAliases maps accepted spellings to canonical layer names.
var layerAliases = map[string]string{
	"goals":     types.LayerGoal,
	"concepts":  types.LayerConcept,
	"contexts":  types.LayerContext,
	"phases":    types.LayerPhase,
	"steps":     types.LayerStep,
	"tasks":     types.LayerTask,
	"subtasks":  types.LayerSubTask,
	"sub_task":  types.LayerSubTask,
	"commands":  types.LayerCommand,
	"criteria":  types.LayerAcceptanceCriteria,
	"contract":  types.LayerInterfaceContract,
	"contracts": types.LayerInterfaceContract,
}

// parseLayer normalizes a layer argument, accepting canonical names and
// common plural spellings.
func parseLayer(arg string) (string, error) {
	name := strings.ToLower(strings.TrimSpace(arg))
	if types.ValidLayer(name) {
		return name, nil
	}
	if canonical, ok := layerAliases[name]; ok {
		return canonical, nil
	}
	return "", fmt.Errorf("%w: %q (expected one of %s)", types.ErrUnknownLayer, arg, strings.Join(types.Layers, ", "))
}

// parseID parses an entity id argument.
func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid id %q", types.ErrValidation, arg)
	}
	return id, nil
}

// entityRef builds a bare entity carrying only its layer and id, for
// store operations that resolve existence themselves.
func entityRef(layer string, id int64) (types.Entity, error) {
	e, err := types.NewEntity(layer)
	if err != nil {
		return nil, err
	}
	e.Meta().ID = id
	return e, nil
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// renderEntityTable writes entities as a text table. withLayer adds a
// layer column for cross-layer listings such as search results.
func renderEntityTable(w io.Writer, entities []types.Entity, withLayer bool) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	header := table.Row{"ID", "Title", "Status", "Progress", "Owner", "Severity", "Assignee"}
	if withLayer {
		header = append(table.Row{"Layer"}, header...)
	}
	tw.AppendHeader(header)
	for _, e := range entities {
		b := e.Meta()
		row := table.Row{b.ID, b.Title, b.Status, b.Progress, b.Owner, b.Severity, b.Assignee}
		if withLayer {
			row = append(table.Row{e.Layer()}, row...)
		}
		tw.AppendRow(row)
	}
	tw.Render()
}

// printEntity writes one entity in detail, either as JSON or as
// key/value lines.
func printEntity(cmd *cobra.Command, e types.Entity, labels []types.Label) error {
	if flags.jsonMode {
		out := map[string]any{"layer": e.Layer(), "entity": e}
		if labels != nil {
			out["labels"] = labels
		}
		return printJSON(cmd.OutOrStdout(), out)
	}

	w := cmd.OutOrStdout()
	b := e.Meta()
	fmt.Fprintf(w, "Layer:       %s\n", e.Layer())
	fmt.Fprintf(w, "ID:          %d\n", b.ID)
	fmt.Fprintf(w, "Title:       %s\n", b.Title)
	if b.Description != "" {
		fmt.Fprintf(w, "Description: %s\n", b.Description)
	}
	fmt.Fprintf(w, "Status:      %s\n", b.Status)
	fmt.Fprintf(w, "Progress:    %d\n", b.Progress)
	if b.Owner != "" {
		fmt.Fprintf(w, "Owner:       %s\n", b.Owner)
	}
	if b.Severity != "" {
		fmt.Fprintf(w, "Severity:    %s\n", b.Severity)
	}
	if b.WorkType != "" {
		fmt.Fprintf(w, "Work type:   %s\n", b.WorkType)
	}
	if b.Assignee != "" {
		fmt.Fprintf(w, "Assignee:    %s\n", b.Assignee)
	}
	if b.StartedDate != nil {
		fmt.Fprintf(w, "Started:     %s\n", b.StartedDate.Format("2006-01-02 15:04:05"))
	}
	if b.CompletionDate != nil {
		fmt.Fprintf(w, "Completed:   %s\n", b.CompletionDate.Format("2006-01-02 15:04:05"))
	}
	if cc, ok := e.(*types.Command); ok {
		if cc.Cmd != "" {
			fmt.Fprintf(w, "Cmd:         %s %s\n", cc.Cmd, cc.CmdParams)
		}
		if len(cc.Artifacts) > 0 {
			fmt.Fprintf(w, "Artifacts:   %s\n", strings.Join(cc.Artifacts, ", "))
		}
	}
	if len(labels) > 0 {
		names := make([]string, len(labels))
		for i, l := range labels {
			names[i] = l.Name
		}
		fmt.Fprintf(w, "Labels:      %s\n", strings.Join(names, ", "))
	}
	fmt.Fprintf(w, "Created:     %s\n", b.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Updated:     %s\n", b.UpdatedAt.Format("2006-01-02 15:04:05"))
	return nil
}
