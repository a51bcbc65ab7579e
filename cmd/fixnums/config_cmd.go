package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Nomadcxx/fixnums/internal/config"
	"github.com/Nomadcxx/fixnums/internal/ui"
)

func (a *app) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the fixnums configuration file",
		Long: `Commands for managing the fixnums configuration file.

The config file is stored at: ~/.config/fixnums/config.toml
($FIXNUMS_CONFIG or --config select another file.)

Examples:
  fixnums config init              # Create default config file
  fixnums config show              # Display the effective configuration
  fixnums config path              # Show config file path`,
	}

	cmd.AddCommand(a.configInitCmd())
	cmd.AddCommand(a.configShowCmd())
	cmd.AddCommand(a.configPathCmd())

	return cmd
}

func (a *app) configFilePath() (string, error) {
	if a.cfgFile != "" {
		return a.cfgFile, nil
	}
	return config.ConfigPath()
}

func (a *app) configInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := a.configFilePath()
			if err != nil {
				return err
			}
			if config.ConfigExists(path) && !force {
				return fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
			}

			cfg := config.DefaultConfig()
			if err := cfg.Save(path); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			ui.SuccessMsg("Created config file: %s", path)
			fmt.Fprintln(a.stdout, "\nNext steps:")
			fmt.Fprintln(a.stdout, "  1. Edit the template and strip tokens to taste")
			fmt.Fprintln(a.stdout, "  2. Run 'fixnums inspect' in a download folder to preview names")
			fmt.Fprintln(a.stdout, "  3. Run 'fixnums config show' to review settings")
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing config file")

	return cmd
}

func (a *app) configShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display the effective configuration (file plus flags)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig(cmd)
			if err != nil {
				return err
			}

			path, err := a.configFilePath()
			if err != nil {
				return err
			}
			source := path
			if !config.ConfigExists(path) {
				source = path + " (not found, using defaults)"
			}

			fmt.Fprintf(a.stdout, "# Config file: %s\n\n", source)
			fmt.Fprint(a.stdout, cfg.ToTOML())
			return nil
		},
	}
}

func (a *app) configPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show config file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := a.configFilePath()
			if err != nil {
				return err
			}
			fmt.Fprintln(a.stdout, path)
			return nil
		},
	}
}
