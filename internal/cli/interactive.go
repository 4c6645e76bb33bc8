package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cargotree/internal/tui"
	"github.com/matzehuels/cargotree/pkg/deptree"
	"github.com/matzehuels/cargotree/pkg/export"
)

// runInteractive loads the tree and opens the terminal UI. When stdout is
// not a terminal the tree is printed instead.
func (c *CLI) runInteractive(cmd *cobra.Command) error {
	ctx := cmd.Context()
	l, err := c.prepare(cmd)
	if err != nil {
		return err
	}
	s := l.settings
	tree, err := l.loadWithProgress(ctx)
	if err != nil {
		return err
	}

	if !c.interactiveOutput() {
		loggerFromContext(ctx).Debug("stdout is not a terminal, printing tree")
		return export.WriteText(c.Stdout, tree, export.Options{Depth: s.depth, Symbols: s.style.Symbols})
	}

	logger, closeLog, err := c.sessionLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	opts := tui.Options{
		Style:  s.style,
		Depth:  s.depth,
		Logger: logger,
	}
	if s.watch {
		paths := l.watchPaths()
		w, err := tui.NewWatcher(paths, tui.DefaultDebounce, func(err error) {
			logger.Warn("watch error", "error", err)
		})
		if err != nil {
			return err
		}
		logger.Debug("watching for changes", "paths", paths)
		opts.Watcher = w
		opts.Reload = func(rctx context.Context) (*deptree.Tree, error) {
			return l.load(withLogger(rctx, logger))
		}
	}
	return tui.Run(ctx, tree, opts)
}

// interactiveOutput reports whether the UI can take over the terminal.
func (c *CLI) interactiveOutput() bool {
	return c.Stdout == os.Stdout && isTerminal(os.Stdout) && isTerminal(os.Stdin)
}
