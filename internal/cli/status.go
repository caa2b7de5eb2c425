package cli

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newDBStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "db-status",
		Short: "Show row counts for every table in the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			st, err := s.Status(cmd.Context())
			if err != nil {
				return err
			}
			if flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), st)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "driver: %s\n", st.Driver)

			t := table.NewWriter()
			t.SetOutputMirror(out)
			t.AppendHeader(table.Row{"Table", "Rows"})
			for _, tc := range st.Layers {
				t.AppendRow(table.Row{tc.Table, tc.Rows})
			}
			t.AppendRow(table.Row{"labels", st.Labels})
			for _, tc := range st.PairTables {
				t.AppendRow(table.Row{tc.Table, tc.Rows})
			}
			t.Render()
			return nil
		},
	}
}
