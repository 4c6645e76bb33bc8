package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cargotree/pkg/deptree"
	"github.com/matzehuels/cargotree/pkg/errors"
	"github.com/matzehuels/cargotree/pkg/export"
)

// loadTree resolves flags and config, then loads the tree.
func (c *CLI) loadTree(cmd *cobra.Command) (*deptree.Tree, *settings, error) {
	l, err := c.prepare(cmd)
	if err != nil {
		return nil, nil, err
	}
	tree, err := l.loadWithProgress(cmd.Context())
	if err != nil {
		return nil, nil, err
	}
	return tree, l.settings, nil
}

// printCommand creates the print command.
func (c *CLI) printCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "print",
		Short: "Print the dependency tree without the interactive view",
		Long: `Print the dependency tree as text, expanded to --depth, using the same
layout as the interactive view.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, s, err := c.loadTree(cmd)
			if err != nil {
				return err
			}
			return export.WriteText(c.Stdout, tree, export.Options{Depth: s.depth, Symbols: s.style.Symbols})
		},
	}
}

// exportCommand creates the export command.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the dependency tree as text, DOT, SVG, JSON or YAML",
		Long: `Write the dependency tree in a machine-readable or graphical format.

The format defaults to the extension of --output, or text when writing to
stdout. --depth limits how many levels are written.`,
		Example: `  cargo-tree-tui export -o deps.svg
  cargo-tree-tui export --format json --depth 2
  cargo-tree-tui export --format dot | dot -Tpng > deps.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmtName := format
			if fmtName == "" {
				fmtName = formatFromPath(output)
			}
			fm, err := export.ParseFormat(fmtName)
			if err != nil {
				return err
			}

			tree, s, err := c.loadTree(cmd)
			if err != nil {
				return err
			}
			opts := export.Options{Depth: s.depth, Symbols: s.style.Symbols}

			if output == "" || output == "-" {
				return export.Write(c.Stdout, tree, fm, opts)
			}
			if err := export.ExportFile(tree, output, fm, opts); err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "export failed")
			}
			printSuccess(os.Stderr, "Exported %s", fm)
			printFile(os.Stderr, output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: "+strings.Join(formatNames(), ", "))
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	_ = cmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return formatNames(), cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

func formatNames() []string {
	names := make([]string, len(export.Formats))
	for i, f := range export.Formats {
		names[i] = string(f)
	}
	return names
}

// formatFromPath guesses the format from a file extension.
func formatFromPath(path string) string {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" || ext == "txt" {
		return string(export.FormatText)
	}
	return ext
}
