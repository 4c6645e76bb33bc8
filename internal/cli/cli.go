// Package cli implements the cargo-tree-tui command-line interface.
//
// The root command resolves the workspace with `cargo metadata`, builds the
// dependency tree and opens it in the terminal UI. When stdout is not a
// terminal it prints the tree instead, so the command can be piped.
//
// # Commands
//
//   - (root): interactive tree
//   - print: static tree on stdout
//   - export: text, dot, svg, json or yaml output
//   - cache: manage the metadata cache
//   - completion, version
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context. While the UI runs, log output goes to a
// file under $XDG_STATE_HOME when -v is set and is discarded otherwise.
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cargotree/internal/config"
	"github.com/matzehuels/cargotree/pkg/buildinfo"
	"github.com/matzehuels/cargotree/pkg/cache"
	"github.com/matzehuels/cargotree/pkg/observability"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = config.AppName

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Stdout receives tree output; tests swap it for a buffer.
	Stdout io.Writer

	configPath string
	flags      *treeFlags
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Stdout: os.Stdout,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

func (c *CLI) verbose() bool {
	return c.Logger.GetLevel() <= log.DebugLevel
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	c.flags = &treeFlags{}
	root := &cobra.Command{
		Use:   "cargo-tree-tui",
		Short: "Browse the dependency tree of a Cargo workspace",
		Long: `cargo-tree-tui shows the resolved dependency graph of a Cargo workspace as a
collapsible tree. Dev and build dependencies are grouped under their own
headers, and every crate can be expanded, searched and navigated by key.

It also runs as a cargo subcommand: cargo tree-tui.`,
		Version:       buildinfo.Resolved(),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			hooks := &logHooks{logger: c.Logger}
			observability.SetProviderHooks(hooks)
			observability.SetCacheHooks(hooks)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInteractive(cmd)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/cargo-tree-tui/config.yaml)")
	c.flags.register(root)

	root.AddCommand(c.printCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())
	root.AddCommand(c.versionCommand())

	return root
}

// loadConfig reads the config file selected by --config.
func (c *CLI) loadConfig() (*config.Config, error) {
	return config.Load(c.configPath)
}

// =============================================================================
// Cache Factory
// =============================================================================

func newCache(enabled bool) (cache.Cache, error) {
	if !enabled {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/cargo-tree-tui/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// stateDir returns the state directory using XDG standard (~/.local/state/cargo-tree-tui/).
func stateDir() (string, error) {
	if stateHome := os.Getenv("XDG_STATE_HOME"); stateHome != "" {
		return filepath.Join(stateHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "state", appName), nil
}
