package cli

import (
	"github.com/spf13/cobra"

	"github.com/strataworks/strata/pkg/types"
)

func newListCmd() *cobra.Command {
	var (
		status   string
		owner    string
		assignee string
		label    string
	)

	c := &cobra.Command{
		Use:   "list <layer>",
		Short: "List work items in a layer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			layer, err := parseLayer(args[0])
			if err != nil {
				return err
			}

			s, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			var entities []types.Entity
			if label != "" {
				entities, err = s.LabeledWith(cmd.Context(), layer, label)
			} else {
				filter := map[string]any{}
				if status != "" {
					filter["status"] = status
				}
				if owner != "" {
					filter["owner"] = owner
				}
				if assignee != "" {
					filter["assignee"] = assignee
				}
				entities, err = s.Where(cmd.Context(), layer, filter)
			}
			if err != nil {
				return err
			}

			if flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), entities)
			}
			renderEntityTable(cmd.OutOrStdout(), entities, false)
			return nil
		},
	}

	c.Flags().StringVar(&status, "status", "", "filter by status")
	c.Flags().StringVar(&owner, "owner", "", "filter by owner")
	c.Flags().StringVar(&assignee, "assignee", "", "filter by assignee")
	c.Flags().StringVar(&label, "label", "", "filter by label name")

	return c
}

func newSearchCmd() *cobra.Command {
	var layers []string

	c := &cobra.Command{
		Use:   "search <query>",
		Short: "Search items by id, title, or description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			selected := make([]string, 0, len(layers))
			for _, l := range layers {
				layer, err := parseLayer(l)
				if err != nil {
					return err
				}
				selected = append(selected, layer)
			}

			s, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			matches, err := s.Search(cmd.Context(), args[0], selected...)
			if err != nil {
				return err
			}

			if flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), matches)
			}
			renderEntityTable(cmd.OutOrStdout(), matches, true)
			return nil
		},
	}

	c.Flags().StringSliceVar(&layers, "layer", nil, "restrict to a layer (repeatable)")

	return c
}
