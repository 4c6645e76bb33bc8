package export

import (
	"bufio"
	"io"

	"github.com/matzehuels/cargotree/pkg/deptree"
	"github.com/matzehuels/cargotree/pkg/navigator"
	"github.com/matzehuels/cargotree/pkg/render"
)

// WriteText prints the tree the way the TUI draws it, without toggles,
// expanded down to opts.Depth.
func WriteText(w io.Writer, tree *deptree.Tree, opts Options) error {
	state := navigator.New()
	if opts.Depth > 0 {
		state.OpenToDepth(tree, opts.Depth)
	} else {
		state.ExpandAll(tree)
	}

	style := render.Style{Symbols: opts.symbols()}
	bw := bufio.NewWriter(w)
	for _, v := range state.VisibleNodes(tree) {
		bw.WriteString(style.Line(tree, v.ID, true).String())
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
