package render

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/matzehuels/cargotree/pkg/deptree"
)

// Role classifies a span for styling.
type Role int

const (
	RoleText Role = iota
	RoleGuide
	RoleConnector
	RoleToggle
	RoleName
	RoleVersion
	RoleSuffix
	RoleGroup
	RoleCrumb
	RoleSeparator
	RoleEllipsis
)

// Span is a run of text with one role.
type Span struct {
	Text string
	Role Role
	// Kind is the dependency kind the span belongs to, used to colour group
	// labels and the connectors below them.
	Kind deptree.Kind
}

// Line is one rendered row.
type Line struct {
	Spans []Span
	// ID is the node shown on the line, or deptree.None for the breadcrumb.
	ID         deptree.NodeID
	Selected   bool
	Match      bool
	Breadcrumb bool
}

// String returns the line without styling.
func (l Line) String() string {
	var b strings.Builder
	for _, s := range l.Spans {
		b.WriteString(s.Text)
	}
	return b.String()
}

// Width returns the display width of the line in terminal cells.
func (l Line) Width() int {
	w := 0
	for _, s := range l.Spans {
		w += runewidth.StringWidth(s.Text)
	}
	return w
}

// Truncate cuts the line to at most width cells.
func (l Line) Truncate(width int) Line {
	if width < 0 {
		width = 0
	}
	if l.Width() <= width {
		return l
	}

	out := l
	out.Spans = nil
	remaining := width
	for _, s := range l.Spans {
		w := runewidth.StringWidth(s.Text)
		if w > remaining {
			if s.Text = runewidth.Truncate(s.Text, remaining, ""); s.Text != "" {
				out.Spans = append(out.Spans, s)
			}
			break
		}
		out.Spans = append(out.Spans, s)
		remaining -= w
	}
	return out
}
