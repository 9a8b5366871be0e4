package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCacheCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the AI response cache",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "prune",
		Short: "Remove expired cache entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cache := newCache(c.cfg)
			n, err := cache.Prune()
			if err != nil {
				return fmt.Errorf("prune %s: %w", cache.Dir(), err)
			}
			c.logger.Infof(cmd.Context(), "cache prune: dir=%s removed=%d", cache.Dir(), n)
			fmt.Fprintf(c.stdout, "Removed %d expired cache entries from %s\n", n, cache.Dir())
			return nil
		},
	})
	return cmd
}
