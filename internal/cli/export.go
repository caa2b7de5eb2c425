package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/strataworks/strata/internal/codec"
)

// newExportCmds builds export-yaml and export-json. Both snapshot the
// whole store; they differ only in encoding.
func newExportCmds() []*cobra.Command {
	return []*cobra.Command{
		newExportCmd("export-yaml", codec.FormatYAML),
		newExportCmd("export-json", codec.FormatJSON),
	}
}

func newExportCmd(use, format string) *cobra.Command {
	var outPath string

	c := &cobra.Command{
		Use:   use + " [file]",
		Short: "Export the full store as " + format,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			doc, err := codec.Export(cmd.Context(), s)
			if err != nil {
				return err
			}

			path := outPath
			if len(args) == 1 {
				path = args[0]
			}
			if path == "" || path == "-" {
				return codec.Encode(cmd.OutOrStdout(), doc, format)
			}

			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("create %s: %w", path, err)
			}
			defer f.Close()
			if err := codec.Encode(f, doc, format); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported snapshot %s to %s\n", doc.SnapshotID, path)
			return nil
		},
	}

	c.Flags().StringVarP(&outPath, "output", "o", "", "output file (default stdout)")
	return c
}
