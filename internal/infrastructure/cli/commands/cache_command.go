package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewCacheCommand creates the cache command with its subcommands.
func NewCacheCommand(rt *Runtime) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect the classification cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := rt.Container(cmd.Context())
			if err != nil {
				return err
			}
			n, err := c.ResultCache.Len()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d cached results in %s\n", n, c.ResultCache.Dir())
			return nil
		},
	}
	cacheCmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete every cached result",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := rt.Container(cmd.Context())
			if err != nil {
				return err
			}
			if err := c.ResultCache.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), MsgCacheCleared)
			return nil
		},
	})
	return cacheCmd
}
