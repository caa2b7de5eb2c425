package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/strataworks/strata/internal/paths"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize strata storage",
		Long:  "Create the configuration directory and initialize the backing database schema.",
		Args:  cobra.NoArgs,
		RunE:  runInit,
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	configDir := paths.ResolveConfigDir(flags.configDir)
	if err := ensureConfigFile(configDir); err != nil {
		return err
	}

	s, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	if err := s.Close(); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "strata initialized")
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "strata v0.1.0")
		},
	}
}
