package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/strataworks/strata/internal/store"
	"github.com/strataworks/strata/pkg/types"
)

func newLinkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "link <parent-layer> <parent-id> <child-layer> <child-id>",
		Short: "Link a child work item under a parent",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			parent, child, err := parsePair(args)
			if err != nil {
				return err
			}

			s, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.Link(cmd.Context(), parent, child); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "linked %s %d -> %s %d\n",
				parent.Layer(), parent.Meta().ID, child.Layer(), child.Meta().ID)
			return nil
		},
	}
}

func newUnlinkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unlink <parent-layer> <parent-id> <child-layer> <child-id>",
		Short: "Remove the link between a parent and a child",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			parent, child, err := parsePair(args)
			if err != nil {
				return err
			}

			s, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.Unlink(cmd.Context(), parent, child); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "unlinked %s %d -> %s %d\n",
				parent.Layer(), parent.Meta().ID, child.Layer(), child.Meta().ID)
			return nil
		},
	}
}

// parsePair parses a parent/child argument quad into entity references.
func parsePair(args []string) (parent, child types.Entity, err error) {
	pl, err := parseLayer(args[0])
	if err != nil {
		return nil, nil, err
	}
	pid, err := parseID(args[1])
	if err != nil {
		return nil, nil, err
	}
	cl, err := parseLayer(args[2])
	if err != nil {
		return nil, nil, err
	}
	cid, err := parseID(args[3])
	if err != nil {
		return nil, nil, err
	}
	parent, err = entityRef(pl, pid)
	if err != nil {
		return nil, nil, err
	}
	child, err = entityRef(cl, cid)
	if err != nil {
		return nil, nil, err
	}
	return parent, child, nil
}

func newTreeCmd() *cobra.Command {
	var depth int

	c := &cobra.Command{
		Use:   "tree <layer> <id>",
		Short: "Print the hierarchy beneath a work item",
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

			root, err := s.Find(cmd.Context(), layer, id)
			if err != nil {
				return err
			}
			if root == nil {
				return fmt.Errorf("%w: %s id %d", types.ErrNotFound, layer, id)
			}

			p := treePrinter{
				store:    s,
				out:      cmd.OutOrStdout(),
				maxDepth: depth,
				seen:     map[string]bool{},
			}
			return p.print(cmd.Context(), root, 0)
		},
	}

	c.Flags().IntVar(&depth, "depth", 0, "limit tree depth (0 = unlimited)")
	return c
}

// treePrinter walks hierarchy edges depth-first. Since the store permits
// diamond shapes and cycles across chained edges, seen nodes are printed
// once and marked instead of revisited.
type treePrinter struct {
	store    *store.Store
	out      io.Writer
	maxDepth int
	seen     map[string]bool
}

func (p treePrinter) print(ctx context.Context, e types.Entity, depth int) error {
	b := e.Meta()
	key := e.Layer() + ":" + fmt.Sprint(b.ID)
	indent := strings.Repeat("  ", depth)
	if p.seen[key] {
		fmt.Fprintf(p.out, "%s%s %d (already shown)\n", indent, e.Layer(), b.ID)
		return nil
	}
	p.seen[key] = true

	fmt.Fprintf(p.out, "%s%s %d [%s] %s\n", indent, e.Layer(), b.ID, b.Status, b.Title)

	if p.maxDepth > 0 && depth+1 >= p.maxDepth {
		return nil
	}
	for _, childLayer := range types.Layers {
		if types.Rank(childLayer) <= types.Rank(e.Layer()) {
			continue
		}
		children, err := p.store.ChildrenOf(ctx, e, childLayer)
		if err != nil {
			return err
		}
		for _, c := range children {
			if err := p.print(ctx, c, depth+1); err != nil {
				return err
			}
		}
	}
	return nil
}
