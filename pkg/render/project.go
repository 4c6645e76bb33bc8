package render

import (
	"strings"

	"github.com/matzehuels/cargotree/pkg/deptree"
	"github.com/matzehuels/cargotree/pkg/navigator"
)

// Area is the size of the window in terminal cells.
type Area struct {
	Width  int
	Height int
}

// Frame is everything needed to draw one window.
type Frame struct {
	// Lines holds at most Area.Height lines, top to bottom.
	Lines      []Line
	Viewport   Viewport
	TotalLines int
	Scrollbar  Scrollbar
}

// Project computes the lines visible in area. It records area.Height as the
// viewport height on state so page moves match the window. Lines are cut to
// area.Width; a width of zero or less disables truncation.
func Project(tree *deptree.Tree, state *navigator.State, area Area, style Style) Frame {
	state.SetViewportHeight(area.Height)

	visible := state.VisibleNodes(tree)
	total := len(visible)

	selected := deptree.None
	selectedLine := 0
	if pos, ok := state.SelectedPosition(tree); ok {
		selected = visible[pos].ID
		selectedLine = pos + 1
	}

	vp := NewViewport(area.Height, selectedLine, total)
	frame := Frame{
		Viewport:   vp,
		TotalLines: total,
		Scrollbar:  ScrollbarGeometry(vp.Offset, vp.MaxOffset, vp.Height, total),
	}
	if vp.Height == 0 || total == 0 {
		return frame
	}

	start, end := vp.Offset, min(vp.Offset+vp.Height, total)
	// Short windows would lose the selected line to the breadcrumb.
	if vp.Offset > 0 && vp.Height > 2 && selected != deptree.None {
		width := area.Width
		if width <= 0 {
			width = int(^uint(0) >> 1)
		}
		frame.Lines = append(frame.Lines, breadcrumbLine(tree, selected, width, style.Symbols))
		start++
	}

	for _, v := range visible[start:end] {
		line := style.Line(tree, v.ID, state.IsOpen(v.ID))
		line.Selected = v.ID == selected
		line.Match = state.IsMatch(v.ID)
		if area.Width > 0 {
			line = line.Truncate(area.Width)
		}
		frame.Lines = append(frame.Lines, line)
	}
	return frame
}

// Line builds the spans for one node without selection or match state.
func (s Style) Line(tree *deptree.Tree, id deptree.NodeID, open bool) Line {
	line := Line{ID: id}
	n, ok := tree.Node(id)
	if !ok {
		return line
	}
	lineage, _ := LineageOf(tree, id)

	for _, more := range lineage.Guides {
		guide := s.Symbols.Empty
		if more {
			guide = s.Symbols.Continuation
		}
		line.Spans = append(line.Spans, Span{Text: guide, Role: RoleGuide})
	}

	switch n := n.(type) {
	case *deptree.Group:
		line.Spans = append(line.Spans, Span{Text: n.Kind.Label(), Role: RoleGroup, Kind: n.Kind})
		return line

	case *deptree.Crate:
		if !lineage.Root {
			conn := s.Symbols.Branch
			if lineage.Last {
				conn = s.Symbols.LastBranch
			}
			line.Spans = append(line.Spans, Span{Text: conn, Role: RoleConnector, Kind: groupKind(tree, id)})
			if s.ShowToggles {
				line.Spans = append(line.Spans, Span{Text: s.toggle(tree, id, open), Role: RoleToggle})
			}
			line.Spans = append(line.Spans, Span{Text: " ", Role: RoleText})
		}
		line.Spans = append(line.Spans, Span{Text: n.Name, Role: RoleName})
		if n.Version != "" {
			line.Spans = append(line.Spans, Span{Text: " v" + n.Version, Role: RoleVersion})
		}
		if suffix := crateSuffix(n); suffix != "" {
			line.Spans = append(line.Spans, Span{Text: suffix, Role: RoleSuffix})
		}
	}
	return line
}

func (s Style) toggle(tree *deptree.Tree, id deptree.NodeID, open bool) string {
	switch {
	case !tree.HasChildren(id):
		return s.Symbols.Leaf
	case open:
		return s.Symbols.Open
	default:
		return s.Symbols.Closed
	}
}

// groupKind returns the kind of the group directly above id, or KindNormal.
func groupKind(tree *deptree.Tree, id deptree.NodeID) deptree.Kind {
	if g, ok := tree.Group(tree.Parent(id)); ok {
		return g.Kind
	}
	return deptree.KindNormal
}

func crateSuffix(c *deptree.Crate) string {
	var parts []string
	if c.ManifestDir != "" {
		parts = append(parts, c.ManifestDir)
	}
	if c.ProcMacro {
		parts = append(parts, "proc-macro")
	}
	if len(parts) == 0 {
		return ""
	}
	return " (" + strings.Join(parts, ", ") + ")"
}
