package cli

import (
	"context"
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/piwi3910/atlaspack/internal/model"
	"github.com/piwi3910/atlaspack/internal/project"
)

var (
	version string
	commit  string
	date    string
)

// SetVersion sets the version information displayed by --version.
// The main package calls it with values injected via ldflags.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// rootOpts holds the persistent flags shared by every command.
type rootOpts struct {
	verbose    bool
	configPath string
}

// loadConfig reads the TOML config named by --config, or the default
// location. A missing file yields defaults.
func (o *rootOpts) loadConfig() (model.AppConfig, error) {
	return project.LoadAppConfig(o.effectiveConfigPath())
}

func (o *rootOpts) effectiveConfigPath() string {
	if o.configPath != "" {
		return o.configPath
	}
	return project.DefaultConfigPath()
}

// recentConfigPath returns the config file that records recent projects:
// the --config path, or the default path when that file already exists.
func (o *rootOpts) recentConfigPath() string {
	if o.configPath != "" {
		return o.configPath
	}
	path := project.DefaultConfigPath()
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

// NewRootCommand builds the atlaspack command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOpts{}

	root := &cobra.Command{
		Use:          "atlaspack",
		Short:        "Pack images into a texture atlas",
		Long:         `atlaspack places rectangular images onto a fixed-size canvas with a shelf or guillotine allocator, and writes the atlas image with JSON metadata describing where each image landed.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if opts.verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(cmd.ErrOrStderr(), level))
			cmd.SetContext(ctx)
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("atlaspack %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default ~/.atlaspack/config.toml)")

	root.AddCommand(newGenerateCmd(opts))
	root.AddCommand(newPlanCmd(opts))
	root.AddCommand(newCompareCmd(opts))
	root.AddCommand(newConfigCmd(opts))

	return root
}

// Execute runs the CLI with ctx, which is canceled on interrupt by main.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}
