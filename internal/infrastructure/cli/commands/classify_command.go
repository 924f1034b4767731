package commands

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doeshing/scrnstr/internal/application/feedback"
	"github.com/doeshing/scrnstr/internal/domain"
	"github.com/doeshing/scrnstr/internal/infrastructure/cli/helpers"
	"github.com/doeshing/scrnstr/internal/infrastructure/cli/terminal"
)

type classifyOptions struct {
	text   string
	latest bool
	act    bool
}

// NewClassifyCommand creates the classify command.
func NewClassifyCommand(rt *Runtime) *cobra.Command {
	var opts classifyOptions

	cmd := &cobra.Command{
		Use:   "classify [image]",
		Short: "Classify one screenshot or a piece of text",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := classifySource(cmd.Context(), rt, args, opts)
			if err != nil {
				return err
			}
			return runClassify(cmd.Context(), cmd.OutOrStdout(), rt, ref, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.text, "text", "t", "", "Classify this text instead of an image")
	cmd.Flags().BoolVarP(&opts.latest, "latest", "l", false, "Classify the newest capture in the watch folders")
	cmd.Flags().BoolVarP(&opts.act, "act", "a", false, "Run the suggested action right away")
	return cmd
}

func classifySource(ctx context.Context, rt *Runtime, args []string, opts classifyOptions) (domain.SourceRef, error) {
	switch {
	case len(args) == 1:
		abs, err := filepath.Abs(args[0])
		if err != nil {
			return "", err
		}
		return domain.SourceRef(abs), nil
	case opts.latest:
		c, err := rt.Container(ctx)
		if err != nil {
			return "", err
		}
		ref, ok, err := c.Index.Latest(ctx)
		if err != nil {
			return "", err
		}
		if !ok {
			return "", errors.New(ErrNoCaptureFound)
		}
		return ref, nil
	case strings.TrimSpace(opts.text) != "":
		return domain.EmptySourceRef, nil
	default:
		return "", errors.New(ErrTextOrImageRequired)
	}
}

func runClassify(ctx context.Context, out io.Writer, rt *Runtime, ref domain.SourceRef, opts classifyOptions) error {
	c, err := rt.Container(ctx)
	if err != nil {
		return err
	}
	classifier, err := c.Classifier(ctx)
	if err != nil {
		return err
	}

	overlay := terminal.NewOverlay(out)
	presenter := c.NewPresenter(overlay, terminal.NewNotifier(c.Board, out), &feedback.Inline{})
	dispatcher := c.NewDispatcher(presenter)
	orchestrator := c.NewOrchestrator(classifier, presenter, dispatcher)

	var result domain.ClassificationResult
	if ref.IsEmpty() {
		result, err = orchestrator.ClassifyText(ctx, opts.text)
	} else {
		result, err = orchestrator.ClassifyFile(ctx, ref)
	}
	if err != nil {
		return err
	}
	presenter.Dismiss(false)
	helpers.RenderResult(out, result)

	if !opts.act {
		return nil
	}
	c.NewDispatcher(overlay).Run(ctx, result.Category, result.Fields, ref)
	// The action consumed the result; withdraw its notification and trigger.
	return c.Board.Cancel(domain.AnalysisNotificationID)
}
