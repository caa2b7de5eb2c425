package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/strataworks/strata/pkg/types"
)

func newUpdateCmd() *cobra.Command {
	var (
		title       string
		description string
		status      string
		progress    int
		owner       string
		severity    string
		workType    string
		assignee    string
	)

	c := &cobra.Command{
		Use:   "update <layer> <id>",
		Short: "Update fields of a work item",
		Long: "Update writes the given fields directly. Status edits here bypass\n" +
			"the workflow helpers on purpose; use start/complete/block/unblock/\n" +
			"cancel for transitions with timestamp side effects.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			layer, err := parseLayer(args[0])
			if err != nil {
				return err
			}
			id, err := parseID(args[1])
			if err != nil {
				return err
			}

			s, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			e, err := s.Find(cmd.Context(), layer, id)
			if err != nil {
				return err
			}
			if e == nil {
				return fmt.Errorf("%w: %s id %d", types.ErrNotFound, layer, id)
			}

			b := e.Meta()
			if cmd.Flags().Changed("title") {
				b.Title = title
			}
			if cmd.Flags().Changed("description") {
				b.Description = description
			}
			if cmd.Flags().Changed("status") {
				b.Status = status
			}
			if cmd.Flags().Changed("progress") {
				b.Progress = progress
			}
			if cmd.Flags().Changed("owner") {
				b.Owner = owner
			}
			if cmd.Flags().Changed("severity") {
				b.Severity = severity
			}
			if cmd.Flags().Changed("work-type") {
				b.WorkType = workType
			}
			if cmd.Flags().Changed("assignee") {
				b.Assignee = assignee
			}

			if err := s.Update(cmd.Context(), e); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated %s %d\n", layer, id)
			return nil
		},
	}

	c.Flags().StringVar(&title, "title", "", "new title")
	c.Flags().StringVar(&description, "description", "", "new description")
	c.Flags().StringVar(&status, "status", "", "new status (direct edit)")
	c.Flags().IntVar(&progress, "progress", 0, "new progress 0-100")
	c.Flags().StringVar(&owner, "owner", "", "new owner")
	c.Flags().StringVar(&severity, "severity", "", "new severity")
	c.Flags().StringVar(&workType, "work-type", "", "new work type")
	c.Flags().StringVar(&assignee, "assignee", "", "new assignee")

	return c
}
