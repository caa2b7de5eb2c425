package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/strataworks/strata/pkg/types"
)

// newTransitionCmds builds the five workflow commands. Each loads the
// entity, applies the transition helper, and persists the result.
func newTransitionCmds() []*cobra.Command {
	specs := []struct {
		use   string
		short string
		apply func(*types.Base) error
	}{
		{"start", "Move a work item to in_progress", (*types.Base).Start},
		{"complete", "Mark a work item completed", (*types.Base).Complete},
		{"block", "Mark a work item blocked", (*types.Base).Block},
		{"unblock", "Return a blocked work item to in_progress", (*types.Base).Unblock},
		{"cancel", "Cancel a work item", (*types.Base).Cancel},
	}

	cmds := make([]*cobra.Command, 0, len(specs))
	for _, sp := range specs {
		sp := sp
		c := &cobra.Command{
			Use:   sp.use + " <layer> <id>",
			Short: sp.short,
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
				if err := sp.apply(e.Meta()); err != nil {
					return err
				}
				if err := s.Update(cmd.Context(), e); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %d is now %s\n", layer, id, e.Meta().Status)
				return nil
			},
		}
		cmds = append(cmds, c)
	}
	return cmds
}
