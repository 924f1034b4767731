// Package cli wires the cobra command tree.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/doeshing/scrnstr/internal/app"
	"github.com/doeshing/scrnstr/internal/infrastructure/cli/commands"
)

// Options holds CLI-level configuration.
type Options struct {
	Verbose    bool
	ConfigPath string
}

// NewRootCmd wires the cobra root command. The container is built by the
// first subcommand that needs it, after flags are parsed.
func NewRootCmd(ctx context.Context, opts Options) *cobra.Command {
	rt := commands.NewRuntime(app.Options{ConfigPath: opts.ConfigPath, Verbose: opts.Verbose})

	root := &cobra.Command{
		Use:   "scrnstr",
		Short: "scrnstr - screenshot interceptor",
		Long: "scrnstr watches for new screenshots, classifies them with a vision model\n" +
			"and offers a one-tap action for what it found.",
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return rt.Close()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetContext(ctx)
	root.PersistentFlags().StringVarP(&rt.Options.ConfigPath, "config", "c", opts.ConfigPath, "Config file (default ~/.scrnstr/config.yaml)")
	root.PersistentFlags().BoolVarP(&rt.Options.Verbose, "verbose", "v", opts.Verbose, "Enable debug logging")

	root.AddCommand(
		commands.NewWatchCommand(rt),
		commands.NewClassifyCommand(rt),
		commands.NewActCommand(rt),
		commands.NewHistoryCommand(rt),
		commands.NewNotificationsCommand(rt),
		commands.NewCacheCommand(rt),
		commands.NewDoctorCommand(rt),
		commands.NewConfigCommand(rt),
		commands.NewVersionCommand(),
	)
	return root
}
