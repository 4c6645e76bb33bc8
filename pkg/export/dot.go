package export

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/cargotree/pkg/deptree"
)

// ToDOT converts a tree to Graphviz DOT. Every tree node becomes its own
// graph node, so a crate reached through two parents appears twice, just as
// it does in the TUI. Dependency groups are drawn dashed.
func ToDOT(tree *deptree.Tree, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.2;\n")
	if tree.WorkspaceName != "" {
		fmt.Fprintf(&buf, "  label=%q;\n", tree.WorkspaceName)
		buf.WriteString("  labelloc=t;\n")
	}
	buf.WriteString("\n")

	var edges []string
	tree.Walk(func(id deptree.NodeID, depth int) bool {
		if !opts.keep(depth) {
			return false
		}
		n, _ := tree.Node(id)
		fmt.Fprintf(&buf, "  %s [%s];\n", dotID(id), strings.Join(fmtAttrs(n), ", "))
		if p := n.Parent(); p != deptree.None {
			edges = append(edges, fmt.Sprintf("  %s -> %s;\n", dotID(p), dotID(id)))
		}
		return true
	})

	if len(edges) > 0 {
		buf.WriteString("\n")
		for _, e := range edges {
			buf.WriteString(e)
		}
	}
	buf.WriteString("}\n")
	return buf.String()
}

func dotID(id deptree.NodeID) string {
	return "n" + strconv.Itoa(int(id))
}

func fmtLabel(n deptree.Node) string {
	c, ok := n.(*deptree.Crate)
	if !ok || c.Version == "" {
		return n.DisplayName()
	}
	return c.Name + "\nv" + c.Version
}

func fmtAttrs(n deptree.Node) []string {
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(n))}
	switch n := n.(type) {
	case *deptree.Group:
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey", "fontcolor=black")
	case *deptree.Crate:
		if n.ProcMacro {
			attrs = append(attrs, "fillcolor=lightyellow")
		}
		if n.ManifestDir != "" {
			attrs = append(attrs, "penwidth=2")
		}
	}
	return attrs
}

// RenderSVG lays out DOT source with Graphviz and returns the SVG.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element so the image scales from a
// zero origin at its natural size.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
