package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/doeshing/scrnstr/internal/domain"
	"github.com/doeshing/scrnstr/internal/infrastructure/cli/helpers"
	"github.com/doeshing/scrnstr/internal/infrastructure/cli/terminal"
)

// NewNotificationsCommand creates the notifications command.
func NewNotificationsCommand(rt *Runtime) *cobra.Command {
	return &cobra.Command{
		Use:     "notifications",
		Aliases: []string{"notif"},
		Short:   "Show the current notification and pending actions",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := rt.Container(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			n, ok, err := c.Board.Current(domain.AnalysisNotificationID)
			if err != nil {
				return err
			}
			if ok {
				fmt.Fprintln(out, terminal.FormatNotification(n))
			} else {
				fmt.Fprintln(out, MsgNoNotification)
			}

			pending, err := c.Board.Pending(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(out)
			helpers.RenderPending(out, pending, c.Clock.Now())
			return nil
		},
	}
}
