package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/doeshing/scrnstr/internal/application/feedback"
	"github.com/doeshing/scrnstr/internal/infrastructure/cli/terminal"
)

// NewWatchCommand creates the watch command.
func NewWatchCommand(rt *Runtime) *cobra.Command {
	var noInput bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch screenshot folders and classify new captures",
		Long: "Watch the configured folders and classify every new screenshot.\n" +
			"While a result is shown: enter or 'a' runs the action, 'd' dismisses,\n" +
			"'s' nudges the card, 'o' taps outside it.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runWatch(ctx, cmd, rt, !noInput)
		},
	}
	cmd.Flags().BoolVar(&noInput, "no-input", false, "Do not read gestures from stdin")
	return cmd
}

func runWatch(ctx context.Context, cmd *cobra.Command, rt *Runtime, readInput bool) error {
	c, err := rt.Container(ctx)
	if err != nil {
		return err
	}
	classifier, err := c.Classifier(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	loop := feedback.NewLoop()
	presenter := c.NewPresenter(terminal.NewOverlay(out), terminal.NewNotifier(c.Board, out), loop)
	dispatcher := c.NewDispatcher(presenter)
	orchestrator := c.NewOrchestrator(classifier, presenter, dispatcher)

	events, err := c.NewWatcher().Subscribe(ctx)
	if err != nil {
		return fmt.Errorf("watch capture folders: %w", err)
	}
	fmt.Fprintf(out, "Watching %v (ctrl-c to stop)\n", c.Config.Capture.WatchDirs)

	loopCtx, stopLoop := context.WithCancel(context.WithoutCancel(ctx))
	g := new(errgroup.Group)
	g.Go(func() error {
		return loop.Run(loopCtx)
	})
	g.Go(func() error {
		defer stopLoop()
		err := orchestrator.Run(ctx, events)
		dispatcher.Wait()
		return err
	})
	if readInput {
		// Blocks on stdin; the process exits underneath it.
		go func() {
			_ = terminal.ReadGestures(ctx, cmd.InOrStdin(), presenter, c.Config.Feedback.SwipeThreshold)
		}()
	}

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
