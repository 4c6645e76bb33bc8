package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap binds keys to navigation operations. Each binding triggers exactly
// one operation.
type KeyMap struct {
	Down         key.Binding
	Up           key.Binding
	Expand       key.Binding
	Collapse     key.Binding
	Toggle       key.Binding
	Parent       key.Binding
	NextSibling  key.Binding
	PrevSibling  key.Binding
	First        key.Binding
	Last         key.Binding
	PageDown     key.Binding
	PageUp       key.Binding
	HalfDown     key.Binding
	HalfUp       key.Binding
	Depth        key.Binding
	ExpandAll    key.Binding
	CollapseAll  key.Binding
	Search       key.Binding
	NextMatch    key.Binding
	PrevMatch    key.Binding
	ClearSearch  key.Binding
	Help         key.Binding
	Quit         key.Binding
	AcceptSearch key.Binding
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "next"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "previous"),
		),
		Expand: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "expand selected"),
		),
		Collapse: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "collapse selected"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "toggle expand/collapse"),
		),
		Parent: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "go to parent"),
		),
		NextSibling: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "next sibling"),
		),
		PrevSibling: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "previous sibling"),
		),
		First: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "first"),
		),
		Last: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "last"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "page down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "page up"),
		),
		HalfDown: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("^d", "half page down"),
		),
		HalfUp: key.NewBinding(
			key.WithKeys("ctrl+u"),
			key.WithHelp("^u", "half page up"),
		),
		Depth: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("1-9", "open to depth"),
		),
		ExpandAll: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "expand all"),
		),
		CollapseAll: key.NewBinding(
			key.WithKeys("E"),
			key.WithHelp("E", "collapse all"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		NextMatch: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "next match"),
		),
		PrevMatch: key.NewBinding(
			key.WithKeys("N"),
			key.WithHelp("N", "previous match"),
		),
		ClearSearch: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear search"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		AcceptSearch: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "keep search"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Down, k.Up, k.Expand, k.Collapse, k.Toggle, k.Parent, k.NextSibling, k.PrevSibling},
		{k.First, k.Last, k.PageDown, k.PageUp, k.HalfDown, k.HalfUp, k.Depth, k.ExpandAll, k.CollapseAll},
		{k.Search, k.NextMatch, k.PrevMatch, k.ClearSearch, k.Help, k.Quit},
	}
}
