package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/doeshing/scrnstr/internal/domain"
	"github.com/doeshing/scrnstr/internal/infrastructure/cli/helpers"
)

// NewHistoryCommand creates the history command with its subcommands.
func NewHistoryCommand(rt *Runtime) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect recent intercepts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listHistory(cmd, rt)
		},
	}
	historyCmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List recent intercepts",
			RunE: func(cmd *cobra.Command, args []string) error {
				return listHistory(cmd, rt)
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Forget every intercept",
			RunE: func(cmd *cobra.Command, args []string) error {
				c, err := rt.Container(cmd.Context())
				if err != nil {
					return err
				}
				if err := c.HistoryStore.Clear(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), MsgHistoryCleared)
				return nil
			},
		},
	)
	return historyCmd
}

func listHistory(cmd *cobra.Command, rt *Runtime) error {
	ctx := cmd.Context()
	c, err := rt.Container(ctx)
	if err != nil {
		return err
	}
	now := c.Clock.Now()
	recent := func(category string) bool {
		return c.HistoryStore.RecentlySeen(ctx, category, domain.RecentCategoryWindow, now)
	}
	helpers.RenderHistory(cmd.OutOrStdout(), c.HistoryStore.List(ctx), now, recent)
	return nil
}
