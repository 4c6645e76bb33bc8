package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/cargotree/pkg/deptree"
)

var (
	colorCyan    = lipgloss.Color("36")
	colorMagenta = lipgloss.Color("170")
	colorBlue    = lipgloss.Color("75")
	colorYellow  = lipgloss.Color("220")
	colorWhite   = lipgloss.Color("255")
	colorGray    = lipgloss.Color("245")
	colorDim     = lipgloss.Color("240")
	colorSelect  = lipgloss.Color("237")
)

// Theme holds the lipgloss styles applied per span role.
type Theme struct {
	Guide     lipgloss.Style
	Connector lipgloss.Style
	Toggle    lipgloss.Style
	Name      lipgloss.Style
	Version   lipgloss.Style
	Suffix    lipgloss.Style
	Crumb     lipgloss.Style
	Separator lipgloss.Style

	// Groups styles group labels and the connectors of their children.
	Groups map[deptree.Kind]lipgloss.Style

	// Selected is layered over every span of the selected line.
	Selected lipgloss.Style
	// Match is layered over the name of a search match.
	Match lipgloss.Style
}

// DefaultTheme returns the colour theme used by the TUI.
func DefaultTheme() Theme {
	return Theme{
		Guide:     lipgloss.NewStyle().Foreground(colorDim),
		Connector: lipgloss.NewStyle().Foreground(colorDim),
		Toggle:    lipgloss.NewStyle().Foreground(colorCyan),
		Name:      lipgloss.NewStyle().Foreground(colorWhite),
		Version:   lipgloss.NewStyle().Foreground(colorGray),
		Suffix:    lipgloss.NewStyle().Foreground(colorDim),
		Crumb:     lipgloss.NewStyle().Foreground(colorCyan),
		Separator: lipgloss.NewStyle().Foreground(colorDim),
		Groups: map[deptree.Kind]lipgloss.Style{
			deptree.KindDev:   lipgloss.NewStyle().Foreground(colorMagenta),
			deptree.KindBuild: lipgloss.NewStyle().Foreground(colorBlue),
		},
		Selected: lipgloss.NewStyle().Background(colorSelect).Bold(true),
		Match:    lipgloss.NewStyle().Foreground(colorYellow).Underline(true),
	}
}

// Style controls how lines are drawn.
type Style struct {
	Symbols     Symbols
	ShowToggles bool
	Theme       Theme
}

// DefaultStyle draws Unicode lines with toggles.
func DefaultStyle() Style {
	return Style{
		Symbols:     UnicodeSymbols,
		ShowToggles: true,
		Theme:       DefaultTheme(),
	}
}

// RenderLine applies the theme to line.
func (s Style) RenderLine(line Line) string {
	var b strings.Builder
	for _, span := range line.Spans {
		st := s.spanStyle(span)
		if span.Role == RoleName && line.Match {
			st = s.Theme.Match.Inherit(st)
		}
		if line.Selected {
			st = s.Theme.Selected.Inherit(st)
		}
		b.WriteString(st.Render(span.Text))
	}
	return b.String()
}

func (s Style) spanStyle(span Span) lipgloss.Style {
	switch span.Role {
	case RoleGuide:
		return s.Theme.Guide
	case RoleConnector:
		if st, ok := s.Theme.Groups[span.Kind]; ok {
			return st
		}
		return s.Theme.Connector
	case RoleToggle:
		return s.Theme.Toggle
	case RoleName:
		return s.Theme.Name
	case RoleVersion:
		return s.Theme.Version
	case RoleSuffix:
		return s.Theme.Suffix
	case RoleGroup:
		if st, ok := s.Theme.Groups[span.Kind]; ok {
			return st.Bold(true)
		}
		return s.Theme.Name
	case RoleCrumb:
		return s.Theme.Crumb
	case RoleSeparator, RoleEllipsis:
		return s.Theme.Separator
	default:
		return lipgloss.NewStyle()
	}
}
