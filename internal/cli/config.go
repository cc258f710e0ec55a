package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/piwi3910/atlaspack/internal/model"
	"github.com/piwi3910/atlaspack/internal/project"
)

func newConfigCmd(root *rootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the atlaspack configuration file",
	}
	cmd.AddCommand(newConfigInitCmd(root))
	cmd.AddCommand(newConfigShowCmd(root))
	cmd.AddCommand(newConfigExportCmd(root))
	cmd.AddCommand(newConfigImportCmd(root))
	return cmd
}


func newConfigInitCmd(root *rootOpts) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with default values",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := root.effectiveConfigPath()
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return err
			}
			if err := project.SaveAppConfig(path, model.DefaultAppConfig()); err != nil {
				return err
			}
			loggerFromContext(cmd.Context()).Debug("config written", "path", path)
			printer{cmd.OutOrStdout()}.file(path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")
	return cmd
}

func newConfigShowCmd(root *rootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as TOML",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			return toml.NewEncoder(cmd.OutOrStdout()).Encode(cfg)
		},
	}
}

func newConfigExportCmd(root *rootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "export <backup.json>",
		Short: "Bundle the config and recent projects into a backup file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			n, err := project.ExportAllData(args[0], cfg)
			if err != nil {
				return err
			}
			p := printer{cmd.OutOrStdout()}
			p.success("Exported config and %d projects", n)
			p.file(args[0])
			return nil
		},
	}
}

func newConfigImportCmd(root *rootOpts) *cobra.Command {
	var (
		projectsDir string
		force       bool
	)

	cmd := &cobra.Command{
		Use:   "import <backup.json>",
		Short: "Restore the config, and optionally its projects, from a backup file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			backup, err := project.ImportAllData(args[0])
			if err != nil {
				return err
			}
			logger := loggerFromContext(cmd.Context())
			logger.Debug("backup", "version", backup.Version, "created", backup.CreatedAt, "projects", len(backup.Projects))

			path := root.effectiveConfigPath()
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}

			p := printer{cmd.OutOrStdout()}
			if projectsDir != "" {
				written, err := project.RestoreProjects(&backup, projectsDir, force)
				if err != nil {
					return err
				}
				for _, w := range written {
					p.file(w)
				}
			}
			if err := project.SaveAppConfig(path, backup.Config); err != nil {
				return err
			}
			p.success("Restored config from %s", args[0])
			p.file(path)
			return nil
		},
	}
	cmd.Flags().StringVar(&projectsDir, "projects-dir", "", "also write the bundled projects into this directory")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing config and project files")
	return cmd
}
