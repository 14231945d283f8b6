package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/raphi011/mrb/internal/config"
	"github.com/raphi011/mrb/internal/log"
	"github.com/raphi011/mrb/internal/output"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Short:   "Manage configuration",
		Aliases: []string{"cfg"},
		GroupID: GroupConfig,
		Long: `Manage mrb configuration.

Global config:  ~/.config/mrb/config.toml (or $MRB_CONFIG)
Project file:   .mrb.toml (in the directory above the repositories)`,
		Example: `  mrb config init          # Create default global config
  mrb config init --local  # Create a project file here
  mrb config show          # Show effective config`,
	}

	cmd.AddCommand(newConfigInitCmd(a))
	cmd.AddCommand(newConfigShowCmd(a))

	return cmd
}

func newConfigInitCmd(a *app) *cobra.Command {
	var (
		force  bool
		stdout bool
		local  bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create default config file",
		Args:  cobra.NoArgs,
		Long: `Create default config file.

Without flags, creates the global config.
With --local, creates a .mrb.toml project file in the working directory.`,
		Example: `  mrb config init           # Create global config
  mrb config init --local   # Create project file
  mrb config init -f        # Overwrite existing config
  mrb config init -s        # Print config to stdout`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			out := output.FromContext(ctx)

			if local {
				if stdout {
					out.Print(config.DefaultLocalConfig())
					return nil
				}
				path := filepath.Join(a.workDir, config.LocalConfigFileName)
				if !force {
					if _, err := os.Stat(path); err == nil {
						return errors.New("project file already exists: " + path)
					}
				}
				if err := os.WriteFile(path, []byte(config.DefaultLocalConfig()), 0644); err != nil {
					return err
				}
				l.Printf("Created project file: %s\n", path)
				return nil
			}

			if stdout {
				out.Print(config.DefaultConfig())
				return nil
			}
			path, err := config.Init(force)
			if err != nil {
				return err
			}
			l.Printf("Created config file: %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing config")
	cmd.Flags().BoolVarP(&stdout, "stdout", "s", false, "Print config to stdout")
	cmd.Flags().BoolVar(&local, "local", false, "Create a .mrb.toml project file instead of the global config")

	return cmd
}

func newConfigShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show effective configuration",
		Args:  cobra.NoArgs,
		Long: `Show the configuration in effect in the working directory: the global
config merged with the nearest project file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())

			local, err := config.FindLocal(a.workDir)
			if err != nil {
				return err
			}
			if local != nil {
				out.Printf("# project file: %s\n", filepath.Join(local.Dir, config.LocalConfigFileName))
			}
			if err := toml.NewEncoder(out.Writer()).Encode(config.MergeLocal(a.cfg, local)); err != nil {
				return fmt.Errorf("encode config: %w", err)
			}
			return nil
		},
	}
}
