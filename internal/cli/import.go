package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/strataworks/strata/internal/codec"
)

// newImportCmds builds import-yaml and import-json.
func newImportCmds() []*cobra.Command {
	return []*cobra.Command{
		newImportCmd("import-yaml", codec.FormatYAML),
		newImportCmd("import-json", codec.FormatJSON),
	}
}

func newImportCmd(use, format string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <file>",
		Short: "Import a " + format + " snapshot into the store",
		Long: "Import loads a snapshot file. Records whose layer and id already\n" +
			"exist are skipped, labels are matched by name, and malformed records\n" +
			"are reported without aborting the rest of the import.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader
			if args[0] == "-" {
				r = cmd.InOrStdin()
			} else {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("open %s: %w", args[0], err)
				}
				defer f.Close()
				r = f
			}

			doc, err := codec.Decode(r, format)
			if err != nil {
				return err
			}

			s, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			res, err := codec.Import(cmd.Context(), s, doc)
			if err != nil {
				return err
			}

			if flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), res)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "imported %d, skipped %d\n", res.Imported, res.Skipped)
			for _, msg := range res.Errors {
				fmt.Fprintf(out, "error: %s\n", msg)
			}
			return nil
		},
	}
}
