package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/doeshing/scrnstr/internal/infrastructure/cli/terminal"
	"github.com/doeshing/scrnstr/internal/infrastructure/notify"
)

// NewActCommand creates the act command, which runs the action attached to
// a posted result notification.
func NewActCommand(rt *Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "act [trigger-id]",
		Short: "Run the action of a result notification (newest by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := rt.Container(ctx)
			if err != nil {
				return err
			}
			var id string
			if len(args) == 1 {
				id = args[0]
			}
			trigger, err := c.Board.Take(ctx, id)
			if errors.Is(err, notify.ErrNoTrigger) {
				fmt.Fprintln(cmd.OutOrStdout(), "No pending action.")
				return nil
			}
			if err != nil {
				return err
			}
			fields, err := trigger.DecodeFields()
			if err != nil {
				return err
			}
			c.NewDispatcher(terminal.NewOverlay(cmd.OutOrStdout())).Run(ctx, trigger.Category, fields, trigger.SourceRef)
			return nil
		},
	}
}
