package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/strataworks/strata/pkg/types"
)

func newCreateCmd() *cobra.Command {
	var (
		description string
		owner       string
		severity    string
		workType    string
		assignee    string
		progress    int
		labels      []string
		cmdLine     string
		cmdParams   string
	)

	c := &cobra.Command{
		Use:   "create <layer> <title>",
		Short: "Create a work item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			layer, err := parseLayer(args[0])
			if err != nil {
				return err
			}

			e, err := types.NewEntity(layer)
			if err != nil {
				return err
			}
			b := e.Meta()
			b.Title = args[1]
			b.Description = description
			b.Owner = owner
			b.Severity = severity
			b.WorkType = workType
			b.Assignee = assignee
			b.Progress = progress
			if cc, ok := e.(*types.Command); ok {
				cc.Cmd = cmdLine
				cc.CmdParams = cmdParams
			}

			s, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.Create(cmd.Context(), e); err != nil {
				return err
			}
			for _, name := range labels {
				if _, err := s.AddLabel(cmd.Context(), e, name); err != nil {
					return err
				}
			}

			if flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), map[string]any{"layer": layer, "id": b.ID})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s %d\n", layer, b.ID)
			return nil
		},
	}

	c.Flags().StringVar(&description, "description", "", "item description")
	c.Flags().StringVar(&owner, "owner", "", "item owner")
	c.Flags().StringVar(&severity, "severity", "", "severity (low|med|medium|high|critical)")
	c.Flags().StringVar(&workType, "work-type", "", "work type")
	c.Flags().StringVar(&assignee, "assignee", "", "assignee")
	c.Flags().IntVar(&progress, "progress", 0, "progress 0-100")
	c.Flags().StringSliceVar(&labels, "label", nil, "attach a label (repeatable)")
	c.Flags().StringVar(&cmdLine, "cmd", "", "executable reference (command layer only)")
	c.Flags().StringVar(&cmdParams, "cmd-params", "", "command parameters (command layer only)")

	return c
}
