// Package tui runs the interactive dependency tree in the terminal.
//
// The [Model] owns a tree and its navigation state and maps every key to a
// single navigation operation. Drawing goes through render.Project, so the
// lines shown always match the current window size.
package tui

import (
	"context"
	"io"
	"strconv"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/cargotree/pkg/deptree"
	"github.com/matzehuels/cargotree/pkg/errors"
	"github.com/matzehuels/cargotree/pkg/navigator"
	"github.com/matzehuels/cargotree/pkg/render"
)

// Loader produces a fresh tree, for reloads.
type Loader func(ctx context.Context) (*deptree.Tree, error)

// Options configures a Model.
type Options struct {
	Style render.Style
	// Depth is the initial expansion depth; 0 expands everything.
	Depth int
	// Reload rebuilds the tree when Watcher reports a change. Reloading is
	// off when either is nil.
	Reload  Loader
	Watcher *Watcher
	Logger  *log.Logger
	// Context bounds reloads. Run sets it to its own context.
	Context context.Context
}

// Model is the bubbletea model of the tree view.
type Model struct {
	tree  *deptree.Tree
	state *navigator.State
	opts  Options

	keys  KeyMap
	help  help.Model
	input textinput.Model

	searching bool
	showHelp  bool
	status    string

	// reloading is set while a reload runs; pending records changes seen
	// meanwhile, which trigger one more reload when it finishes.
	reloading bool
	pending   bool

	width  int
	height int
}

// treeLoadedMsg carries the result of a reload.
type treeLoadedMsg struct {
	tree *deptree.Tree
	err  error
}

// New returns a model showing tree, expanded to opts.Depth.
func New(tree *deptree.Tree, opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Style.Symbols == (render.Symbols{}) {
		opts.Style = render.DefaultStyle()
	}

	input := textinput.New()
	input.Prompt = "/"
	input.Placeholder = "search"

	m := Model{
		tree:  tree,
		state: navigator.New(),
		opts:  opts,
		keys:  DefaultKeyMap(),
		help:  help.New(),
		input: input,
	}
	m.applyDepth()
	return m
}

func (m *Model) applyDepth() {
	if m.opts.Depth > 0 {
		m.state.OpenToDepth(m.tree, m.opts.Depth)
	} else {
		m.state.ExpandAll(m.tree)
	}
}

// Tree returns the tree on display.
func (m Model) Tree() *deptree.Tree { return m.tree }

// State returns the navigation state.
func (m Model) State() *navigator.State { return m.state }

// Searching reports whether the search bar has focus.
func (m Model) Searching() bool { return m.searching }

// ShowingHelp reports whether the help overlay is open.
func (m Model) ShowingHelp() bool { return m.showHelp }

// Init starts watching for file changes when configured.
func (m Model) Init() tea.Cmd {
	if m.reloadable() {
		return WatchCmd(m.opts.Watcher)
	}
	return nil
}

func (m Model) reloadable() bool {
	return m.opts.Reload != nil && m.opts.Watcher != nil
}

// Update handles one message.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.state.SetViewportHeight(m.treeHeight())
		return m, nil

	case FileChangedMsg:
		if !m.reloadable() {
			return m, nil
		}
		if m.reloading {
			m.pending = true
			return m, WatchCmd(m.opts.Watcher)
		}
		return m, tea.Batch(m.startReload(), WatchCmd(m.opts.Watcher))

	case treeLoadedMsg:
		m.reloading = false
		if msg.err != nil {
			m.opts.Logger.Error("reload failed", "err", msg.err)
			m.status = "reload failed: " + errors.UserMessage(msg.err)
		} else {
			m.replaceTree(msg.tree)
			m.status = ""
		}
		if m.pending {
			m.pending = false
			return m, m.startReload()
		}
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

// startReload marks a reload in flight and returns the command running it.
// At most one reload runs at a time.
func (m *Model) startReload() tea.Cmd {
	m.reloading = true
	m.status = "reloading…"
	reload, ctx := m.opts.Reload, m.opts.Context
	return func() tea.Msg {
		tree, err := reload(ctx)
		return treeLoadedMsg{tree: tree, err: err}
	}
}

// replaceTree swaps in a rebuilt tree, keeping the selection, the open
// nodes and the search where the same paths still exist.
func (m *Model) replaceTree(tree *deptree.Tree) {
	path := render.Crumbs(m.tree, m.state.Selected())
	query := m.state.Query()
	var openPaths [][]string
	for _, id := range m.state.OpenNodes() {
		openPaths = append(openPaths, render.Crumbs(m.tree, id))
	}

	m.tree = tree
	m.state = navigator.New()
	m.state.SetViewportHeight(m.treeHeight())
	open := make([]deptree.NodeID, 0, len(openPaths))
	for _, p := range openPaths {
		if id, ok := tree.FindPath(p); ok {
			open = append(open, id)
		}
	}
	m.state.SetOpen(tree, open)
	if id, ok := tree.FindPath(path); ok {
		m.state.Select(tree, id)
	}
	if query != "" {
		m.state.SetQuery(tree, query)
	}
	m.opts.Logger.Debug("tree reloaded", "nodes", tree.Len())
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	tree, s := m.tree, m.state

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
	case key.Matches(msg, m.keys.ClearSearch):
		if m.showHelp {
			m.showHelp = false
		} else {
			s.ClearSearch()
		}
	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.input.SetValue(s.Query())
		m.input.CursorEnd()
		return m, m.input.Focus()

	case key.Matches(msg, m.keys.Down):
		s.SelectNext(tree)
	case key.Matches(msg, m.keys.Up):
		s.SelectPrevious(tree)
	case key.Matches(msg, m.keys.Expand):
		s.Expand(tree)
	case key.Matches(msg, m.keys.Collapse):
		s.Collapse(tree)
	case key.Matches(msg, m.keys.Toggle):
		s.Toggle(tree)
	case key.Matches(msg, m.keys.Parent):
		s.SelectParent(tree)
	case key.Matches(msg, m.keys.NextSibling):
		s.SelectNextSibling(tree)
	case key.Matches(msg, m.keys.PrevSibling):
		s.SelectPreviousSibling(tree)
	case key.Matches(msg, m.keys.First):
		s.SelectFirst(tree)
	case key.Matches(msg, m.keys.Last):
		s.SelectLast(tree)
	case key.Matches(msg, m.keys.PageDown):
		s.PageDown(tree)
	case key.Matches(msg, m.keys.PageUp):
		s.PageUp(tree)
	case key.Matches(msg, m.keys.HalfDown):
		s.HalfPageDown(tree)
	case key.Matches(msg, m.keys.HalfUp):
		s.HalfPageUp(tree)
	case key.Matches(msg, m.keys.Depth):
		if d, err := strconv.Atoi(msg.String()); err == nil {
			s.OpenToDepth(tree, d)
		}
	case key.Matches(msg, m.keys.ExpandAll):
		s.ExpandAll(tree)
	case key.Matches(msg, m.keys.CollapseAll):
		s.CollapseAll(tree)
	case key.Matches(msg, m.keys.NextMatch):
		s.NextMatch(tree)
	case key.Matches(msg, m.keys.PrevMatch):
		s.PreviousMatch(tree)
	}
	return m, nil
}

// updateSearch handles keys while the search bar has focus. Every edit
// re-runs the query.
func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit
	case key.Matches(msg, m.keys.ClearSearch):
		m.state.ClearSearch()
		m.closeSearch()
		return m, nil
	case key.Matches(msg, m.keys.AcceptSearch):
		m.closeSearch()
		return m, nil
	case msg.Type == tea.KeyBackspace && m.input.Value() == "":
		m.state.ClearSearch()
		m.closeSearch()
		return m, nil
	}

	var cmd tea.Cmd
	before := m.input.Value()
	m.input, cmd = m.input.Update(msg)
	if v := m.input.Value(); v != before {
		m.state.SetQuery(m.tree, v)
	}
	return m, cmd
}

func (m *Model) closeSearch() {
	m.searching = false
	m.input.Blur()
	m.input.Reset()
}

// treeHeight is the number of rows left for the tree above the status bar.
func (m Model) treeHeight() int {
	return max(0, m.height-1)
}
