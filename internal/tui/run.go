package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/cargotree/pkg/deptree"
)

// Run shows tree on the alternate screen until the user quits or ctx is
// cancelled.
func Run(ctx context.Context, tree *deptree.Tree, opts Options) error {
	if opts.Watcher != nil {
		defer opts.Watcher.Close()
	}

	opts.Context = ctx
	p := tea.NewProgram(New(tree, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}
