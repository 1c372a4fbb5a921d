// Package commands implements the CLI commands for the cbuild build tool.
package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.trai.ch/cbuild/internal/adapters/config"
	"go.trai.ch/cbuild/internal/build"
	"go.trai.ch/cbuild/internal/core/domain"
)

// CLI represents the command line interface for cbuild.
type CLI struct {
	app       Application
	rootCmd   *cobra.Command
	configDir string
}

// Application represents the application logic interface.
type Application interface {
	Build(ctx context.Context, targets []string, s domain.Settings) error
	Clean(ctx context.Context, s domain.Settings) error
	ShowCache(ctx context.Context, s domain.Settings) error
	ClearCache(ctx context.Context, s domain.Settings) error
	Configure(ctx context.Context, s domain.Settings) error
	ListOptions(ctx context.Context, s domain.Settings) error
	Watch(ctx context.Context, targets []string, s domain.Settings) error
}

// Option configures the CLI.
type Option func(*CLI)

// WithUserConfigDir reads the user config from <dir>/cbuild/config.yaml.
// An empty dir disables the user config.
func WithUserConfigDir(dir string) Option {
	return func(c *CLI) {
		c.configDir = dir
	}
}

// New creates a new CLI instance with the given app.
func New(a Application, opts ...Option) *CLI {
	rootCmd := &cobra.Command{
		Use:           "cbuild",
		Short:         "An incremental build tool for C and C++ projects",
		Long:          "cbuild compiles the units declared in " + domain.ProjectFileName + ", recompiling only sources that changed since the last run.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
		Args:          cobra.NoArgs,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringP(config.KeyVerbosity, "v", domain.DefaultVerbosity.String(),
		"Output verbosity: 0-5 or silence, minimal, little, average, detailed, debug")
	flags.StringP(config.KeyMode, "m", "", "Build mode for every unit: debug or release")
	flags.Bool(config.KeyJSON, false, "Log as JSON")
	flags.BoolP(config.KeyForceRebuild, "f", false, "Discard unit caches and recompile every source")
	flags.Bool(config.KeyClearCache, false, "Delete cache files before building")
	flags.String(config.KeyCacheDir, "", "Directory holding the cache files (default: current directory)")
	flags.StringArrayP(config.KeyOptions, "O", nil, "Toggle a build option: NAME, NAME=value or NAME=false (repeatable)")

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}
	if dir, err := os.UserConfigDir(); err == nil {
		c.configDir = dir
	}
	for _, opt := range opts {
		opt(c)
	}

	rootCmd.RunE = func(cmd *cobra.Command, _ []string) error {
		s, err := c.settings(cmd)
		if err != nil {
			return err
		}
		return c.app.Build(cmd.Context(), nil, s)
	}

	rootCmd.AddCommand(c.newBuildCmd())
	rootCmd.AddCommand(c.newCleanCmd())
	rootCmd.AddCommand(c.newCacheCmd())
	rootCmd.AddCommand(c.newConfigCmd())
	rootCmd.AddCommand(c.newWatchCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// settings layers the user config, environment and flags of cmd.
func (c *CLI) settings(cmd *cobra.Command) (domain.Settings, error) {
	loader := config.NewSettingsLoaderAt(c.configDir)
	if err := loader.BindFlags(cmd.Flags()); err != nil {
		return domain.Settings{}, err
	}
	return loader.Load()
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}
