package cli

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newLabelCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "label",
		Short: "Manage labels on work items",
	}
	c.AddCommand(newLabelAddCmd(), newLabelRemoveCmd(), newLabelListCmd())
	return c
}

func newLabelAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <layer> <id> <name>",
		Short: "Attach a label to a work item, creating it if needed",
		Args:  cobra.ExactArgs(3),
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

			e, err := entityRef(layer, id)
			if err != nil {
				return err
			}
			if _, err := s.AddLabel(cmd.Context(), e, args[2]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "labeled %s %d with %q\n", layer, id, args[2])
			return nil
		},
	}
}

func newLabelRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <layer> <id> <name>",
		Short: "Detach a label from a work item",
		Args:  cobra.ExactArgs(3),
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

			e, err := entityRef(layer, id)
			if err != nil {
				return err
			}
			if err := s.RemoveLabel(cmd.Context(), e, args[2]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed label %q from %s %d\n", args[2], layer, id)
			return nil
		},
	}
}

func newLabelListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all labels",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			labels, err := s.Labels(cmd.Context())
			if err != nil {
				return err
			}
			if flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), labels)
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.AppendHeader(table.Row{"ID", "Name", "Created"})
			for _, l := range labels {
				t.AppendRow(table.Row{l.ID, l.Name, l.CreatedAt.Format("2006-01-02")})
			}
			t.Render()
			return nil
		},
	}
}
