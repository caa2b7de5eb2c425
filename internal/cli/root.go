// Package cli implements the strata command-line interface: a thin
// wrapper mapping subcommands onto the store and codec operations.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/strataworks/strata/pkg/types"
)

// Exit codes. Validation and workflow errors are user errors; store and
// I/O failures are system errors.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	db        string
	jsonMode  bool
}

var flags rootFlags

// NewRootCmd creates the top-level "strata" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "strata",
		Short: "A hierarchical work-item tracker",
		Long: "Strata tracks project work as a twelve-layer hierarchy from goals\n" +
			"down to executable commands, with labels, workflow states, and\n" +
			"YAML/JSON import-export.",
		// Do not print usage on errors returned by subcommands.
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flags.configDir, "config-dir", "", "configuration directory (default: .strata)")
	root.PersistentFlags().StringVar(&flags.db, "db", "", "database location: file path or postgres:// URL (default: $STRATA_DB)")
	root.PersistentFlags().BoolVar(&flags.jsonMode, "json", false, "output in JSON format")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd())
	root.AddCommand(newCreateCmd())
	root.AddCommand(newGetCmd())
	root.AddCommand(newListCmd())
	root.AddCommand(newUpdateCmd())
	root.AddCommand(newDeleteCmd())
	root.AddCommand(newTransitionCmds()...)
	root.AddCommand(newLabelCmd())
	root.AddCommand(newLinkCmd())
	root.AddCommand(newUnlinkCmd())
	root.AddCommand(newTreeCmd())
	root.AddCommand(newSearchCmd())
	root.AddCommand(newExportCmds()...)
	root.AddCommand(newImportCmds()...)
	root.AddCommand(newDBStatusCmd())

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps error kinds to exit codes.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitSuccess
	case errors.Is(err, types.ErrValidation),
		errors.Is(err, types.ErrInvalidTransition),
		errors.Is(err, types.ErrNotFound),
		errors.Is(err, types.ErrUnknownLayer):
		return exitUserError
	default:
		return exitSysError
	}
}
