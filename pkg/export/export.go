package export

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/matzehuels/cargotree/pkg/deptree"
	"github.com/matzehuels/cargotree/pkg/errors"
	"github.com/matzehuels/cargotree/pkg/render"
)

// Format names an output format.
type Format string

// Supported formats.
const (
	FormatText Format = "text"
	FormatDOT  Format = "dot"
	FormatSVG  Format = "svg"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Formats lists every supported format in help order.
var Formats = []Format{FormatText, FormatDOT, FormatSVG, FormatJSON, FormatYAML}

// ParseFormat resolves a format name, case-insensitively. "yml" is accepted
// for YAML.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatDOT, FormatSVG, FormatJSON, FormatYAML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidFormat, "unknown format %q (want one of %s)", s, formatList())
	}
}

func formatList() string {
	names := make([]string, len(Formats))
	for i, f := range Formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

// Options configures every format.
type Options struct {
	// Depth keeps nodes above this level; 0 keeps all. Roots are level 1.
	Depth int
	// Symbols draws the text format. The zero value means Unicode.
	Symbols render.Symbols
}

func (o Options) symbols() render.Symbols {
	if o.Symbols == (render.Symbols{}) {
		return render.UnicodeSymbols
	}
	return o.Symbols
}

// keep reports whether a node at depth (0 for roots) is inside the limit.
func (o Options) keep(depth int) bool {
	return o.Depth <= 0 || depth < o.Depth
}

// Write encodes tree in format to w.
func Write(w io.Writer, tree *deptree.Tree, format Format, opts Options) error {
	switch format {
	case FormatText:
		return WriteText(w, tree, opts)
	case FormatDOT:
		_, err := io.WriteString(w, ToDOT(tree, opts))
		return err
	case FormatSVG:
		svg, err := RenderSVG(ToDOT(tree, opts))
		if err != nil {
			return err
		}
		_, err = w.Write(svg)
		return err
	case FormatJSON:
		return WriteJSON(w, tree, opts)
	case FormatYAML:
		return WriteYAML(w, tree, opts)
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unknown format %q", format)
	}
}

// ExportFile writes tree to the file at path.
func ExportFile(tree *deptree.Tree, path string, format Format, opts Options) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(f, tree, format, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
