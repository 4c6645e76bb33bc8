package render

import (
	"github.com/mattn/go-runewidth"

	"github.com/matzehuels/cargotree/pkg/deptree"
)

// Crumbs returns the display names from the root down to id.
func Crumbs(tree *deptree.Tree, id deptree.NodeID) []string {
	path := tree.Ancestors(id)
	crumbs := make([]string, 0, len(path))
	for _, p := range path {
		n, _ := tree.Node(p)
		crumbs = append(crumbs, n.DisplayName())
	}
	return crumbs
}

// Elide shortens crumbs to fit width cells when joined with sep. The first
// and last crumbs are always kept; as many leading crumbs as fit follow the
// first, and the rest collapse into a single ellipsis. Trails of fewer than
// three crumbs are returned unchanged, as is any trail that already fits.
// If even "first sep ellipsis sep last" is too wide, that form is returned
// and the caller truncates.
func Elide(crumbs []string, width int, sep, ellipsis string) []string {
	if len(crumbs) <= 2 || joinedWidth(crumbs, sep) <= width {
		return crumbs
	}

	last := len(crumbs) - 1
	candidate := func(prefix int) []string {
		out := make([]string, 0, prefix+2)
		out = append(out, crumbs[:prefix]...)
		return append(out, ellipsis, crumbs[last])
	}

	prefix := 1
	for prefix+1 < last && joinedWidth(candidate(prefix+1), sep) <= width {
		prefix++
	}
	return candidate(prefix)
}

func joinedWidth(parts []string, sep string) int {
	if len(parts) == 0 {
		return 0
	}
	w := runewidth.StringWidth(sep) * (len(parts) - 1)
	for _, p := range parts {
		w += runewidth.StringWidth(p)
	}
	return w
}

// breadcrumbLine renders the trail to id, elided to width.
func breadcrumbLine(tree *deptree.Tree, id deptree.NodeID, width int, sym Symbols) Line {
	crumbs := Elide(Crumbs(tree, id), width, sym.Separator, sym.Ellipsis)

	line := Line{ID: deptree.None, Breadcrumb: true}
	for i, c := range crumbs {
		if i > 0 {
			line.Spans = append(line.Spans, Span{Text: sym.Separator, Role: RoleSeparator})
		}
		role := RoleCrumb
		if c == sym.Ellipsis && i > 0 && i == len(crumbs)-2 {
			role = RoleEllipsis
		}
		line.Spans = append(line.Spans, Span{Text: c, Role: role})
	}
	return line.Truncate(width)
}
