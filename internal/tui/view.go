package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/cargotree/pkg/render"
)

const (
	scrollTrack = "┆"
	scrollThumb = "▐"
)

var (
	colorCyan  = lipgloss.Color("36")
	colorRed   = lipgloss.Color("167")
	colorGray  = lipgloss.Color("245")
	colorDim   = lipgloss.Color("240")
	colorBlack = lipgloss.Color("0")

	styleScrollbar = lipgloss.NewStyle().Foreground(colorDim)
	styleStatus    = lipgloss.NewStyle().Foreground(colorGray)
	styleError     = lipgloss.NewStyle().Foreground(colorRed)
	styleKey       = lipgloss.NewStyle().Bold(true)
	styleKeyLabel  = lipgloss.NewStyle().Bold(true).Foreground(colorBlack).Background(colorCyan)
	styleHelpTitle = lipgloss.NewStyle().Bold(true).Foreground(colorBlack).Background(colorCyan)
	styleHelpBox   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorCyan).
			Padding(0, 1)
)

// View draws the tree, the scrollbar, the status bar and, when open, the
// help overlay in the bottom-right corner.
func (m Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}

	height := m.treeHeight()
	treeWidth := max(0, m.width-1)
	style := m.opts.Style
	frame := render.Project(m.tree, m.state, render.Area{Width: treeWidth, Height: height}, style)
	bar := frame.Scrollbar.Column(height, scrollTrack, scrollThumb)

	var overlay []string
	if m.showHelp {
		box := m.helpBox()
		if lipgloss.Width(box) > treeWidth || lipgloss.Height(box) > height {
			box = lipgloss.NewStyle().MaxWidth(m.width).MaxHeight(height).Render(box)
			return lipgloss.Place(m.width, height, lipgloss.Left, lipgloss.Top, box) + "\n" + m.statusBar()
		}
		overlay = strings.Split(box, "\n")
	}
	overlayWidth := 0
	for _, l := range overlay {
		overlayWidth = max(overlayWidth, lipgloss.Width(l))
	}
	overlayTop := height - len(overlay)

	rows := make([]string, 0, m.height)
	for i := 0; i < height; i++ {
		var line render.Line
		if i < len(frame.Lines) {
			line = frame.Lines[i]
		}

		var b strings.Builder
		if len(overlay) > 0 && i >= overlayTop {
			left := treeWidth - overlayWidth
			line = line.Truncate(left)
			b.WriteString(style.RenderLine(line))
			b.WriteString(strings.Repeat(" ", left-line.Width()))
			b.WriteString(overlay[i-overlayTop])
		} else {
			b.WriteString(style.RenderLine(line))
			b.WriteString(strings.Repeat(" ", max(0, treeWidth-line.Width())))
		}
		b.WriteString(styleScrollbar.Render(bar[i]))
		rows = append(rows, b.String())
	}
	rows = append(rows, m.statusBar())
	return strings.Join(rows, "\n")
}

// helpBox renders the key bindings in a bordered box.
func (m Model) helpBox() string {
	title := styleHelpTitle.Render(" COMMANDS ")
	body := m.help.FullHelpView(m.keys.FullHelp())
	return styleHelpBox.Render(title + "\n\n" + body)
}

// statusBar shows the search bar or search summary on the left and the key
// hints on the right.
func (m Model) statusBar() string {
	var left string
	switch {
	case m.searching:
		left = m.input.View()
	case m.status != "":
		left = styleError.Render(m.status)
	case m.state.Query() != "":
		left = styleStatus.Render(m.searchSummary())
	default:
		left = styleStatus.Render(m.position())
	}

	right := styleKey.Render(" q ") + styleKeyLabel.Render(" QUIT ") +
		styleKey.Render(" ? ") + styleKeyLabel.Render(" HELP ") + " "

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return lipgloss.NewStyle().MaxWidth(m.width).Render(left)
	}
	return left + strings.Repeat(" ", gap) + right
}

// searchSummary reads like "/serde  2 of 5 matches".
func (m Model) searchSummary() string {
	matches := m.state.Matches()
	if len(matches) == 0 {
		return fmt.Sprintf("/%s  no matches", m.state.Query())
	}
	cur := 0
	for i, id := range matches {
		if id == m.state.Selected() {
			cur = i + 1
			break
		}
	}
	if cur == 0 {
		return fmt.Sprintf("/%s  %d matches", m.state.Query(), len(matches))
	}
	return fmt.Sprintf("/%s  %d of %d matches", m.state.Query(), cur, len(matches))
}

// position reads like "workspace  12/340".
func (m Model) position() string {
	total := len(m.state.VisibleNodes(m.tree))
	pos, ok := m.state.SelectedPosition(m.tree)
	if !ok {
		return m.tree.WorkspaceName
	}
	return fmt.Sprintf("%s  %d/%d", m.tree.WorkspaceName, pos+1, total)
}
