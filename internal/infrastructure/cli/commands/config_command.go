package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/doeshing/scrnstr/internal/infrastructure/cli/helpers"
	configinfra "github.com/doeshing/scrnstr/internal/infrastructure/config"
)

// NewConfigCommand creates the config command. The subcommands work on the
// file directly so a broken config can still be inspected and repaired.
func NewConfigCommand(rt *Runtime) *cobra.Command {
	loader := func() *configinfra.FileLoader {
		return configinfra.NewFileLoader(rt.Options.ConfigPath)
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect scrnstr configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfiguration(cmd.Context(), cmd.OutOrStdout(), loader())
		},
	}

	var key string
	getCmd := &cobra.Command{
		Use:   "get",
		Short: "Get a specific configuration value",
		RunE: func(cmd *cobra.Command, args []string) error {
			if key == "" {
				return errors.New(ErrKeyRequired)
			}
			return getConfigurationValue(cmd.Context(), cmd.OutOrStdout(), loader(), key)
		},
	}
	getCmd.Flags().StringVar(&key, "key", "", "Key path (e.g., feedback.auto_dismiss_ms)")

	configCmd.AddCommand(
		&cobra.Command{
			Use:   "path",
			Short: "Print the configuration file path",
			RunE: func(cmd *cobra.Command, args []string) error {
				fmt.Fprintln(cmd.OutOrStdout(), loader().Path())
				return nil
			},
		},
		&cobra.Command{
			Use:   "show",
			Short: "Show full configuration",
			RunE: func(cmd *cobra.Command, args []string) error {
				return showConfiguration(cmd.Context(), cmd.OutOrStdout(), loader())
			},
		},
		getCmd,
		&cobra.Command{
			Use:   "set <key> <value>",
			Short: "Set a configuration value (value accepts YAML syntax)",
			Args:  cobra.MinimumNArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return setConfigurationValue(cmd.Context(), loader(), args[0], strings.Join(args[1:], " "))
			},
		},
		&cobra.Command{
			Use:   "edit",
			Short: "Edit configuration in $EDITOR",
			RunE: func(cmd *cobra.Command, args []string) error {
				return editConfiguration(cmd, loader())
			},
		},
		&cobra.Command{
			Use:   "validate",
			Short: "Validate configuration file",
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := loader().Load(cmd.Context())
				if err == nil {
					err = cfg.Validate()
				}
				if err != nil {
					return fmt.Errorf("configuration validation failed: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), MsgConfigurationValid)
				return nil
			},
		},
		&cobra.Command{
			Use:   "reset",
			Short: "Reset configuration to defaults",
			RunE: func(cmd *cobra.Command, args []string) error {
				l := loader()
				if _, err := os.Stat(l.Path()); err == nil {
					if _, err := l.Backup(); err != nil {
						return fmt.Errorf("failed to create configuration backup: %w", err)
					}
				}
				if _, err := l.Reset(); err != nil {
					return fmt.Errorf("failed to reset configuration: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Configuration reset at %s\n", l.Path())
				return nil
			},
		},
		&cobra.Command{
			Use:   "diff",
			Short: "Show diff versus default configuration",
			RunE: func(cmd *cobra.Command, args []string) error {
				current, err := loader().Load(cmd.Context())
				if err != nil {
					return fmt.Errorf("failed to load current configuration: %w", err)
				}
				diff := cmp.Diff(configinfra.DefaultConfig(), current)
				if diff == "" {
					fmt.Fprintln(cmd.OutOrStdout(), MsgNoDifferencesFromDefault)
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), diff)
				return nil
			},
		},
	)
	return configCmd
}

func showConfiguration(ctx context.Context, out io.Writer, loader *configinfra.FileLoader) error {
	cfg, err := loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal configuration: %w", err)
	}
	fmt.Fprint(out, string(data))
	return nil
}

func getConfigurationValue(ctx context.Context, out io.Writer, loader *configinfra.FileLoader, keyPath string) error {
	cfg, err := loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	tree, err := helpers.ConfigToMap(cfg)
	if err != nil {
		return err
	}
	value, found := helpers.TraverseNestedMap(tree, strings.Split(keyPath, "."))
	if !found {
		return fmt.Errorf("key %s not found in configuration", keyPath)
	}
	data, err := yaml.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}
	fmt.Fprint(out, string(data))
	return nil
}

func setConfigurationValue(ctx context.Context, loader *configinfra.FileLoader, keyPath, value string) error {
	cfg, err := loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	tree, err := helpers.ConfigToMap(cfg)
	if err != nil {
		return err
	}
	if !helpers.SetNestedMapValue(tree, strings.Split(keyPath, "."), helpers.ParseYAMLValue(value)) {
		return fmt.Errorf("unable to set key %s", keyPath)
	}
	updated, err := helpers.MapToConfig(tree)
	if err != nil {
		return err
	}
	return helpers.SaveConfigWithValidation(loader, updated)
}

func editConfiguration(cmd *cobra.Command, loader *configinfra.FileLoader) error {
	editor := os.Getenv(envKeyEditor)
	if editor == "" {
		editor = defaultEditor
	}
	c := exec.CommandContext(cmd.Context(), editor, loader.Path())
	c.Stdin = os.Stdin
	c.Stdout = cmd.OutOrStdout()
	c.Stderr = cmd.ErrOrStderr()
	if err := c.Run(); err != nil {
		return fmt.Errorf("failed to run editor %s: %w", editor, err)
	}
	return nil
}
