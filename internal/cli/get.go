package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/strataworks/strata/pkg/types"
)

func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <layer> <id>",
		Short: "Show a work item",
		Args:  cobra.ExactArgs(2),
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
			labels, err := s.LabelsOf(cmd.Context(), e)
			if err != nil {
				return err
			}
			return printEntity(cmd, e, labels)
		},
	}
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <layer> <id>",
		Short: "Delete a work item and its associations",
		Args:  cobra.ExactArgs(2),
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

			if err := s.Delete(cmd.Context(), layer, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s %d\n", layer, id)
			return nil
		},
	}
}
