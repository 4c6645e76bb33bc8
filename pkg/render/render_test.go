package render

import (
	"strings"
	"testing"

	"github.com/matzehuels/cargotree/pkg/deptree"
	"github.com/matzehuels/cargotree/pkg/navigator"
)

const none = deptree.None

// testNode describes one arena slot. A non-normal group kind makes a group
// node; the name is then ignored.
type testNode struct {
	name     string
	parent   deptree.NodeID
	children []deptree.NodeID
	group    deptree.Kind
}

func buildTree(nodes []testNode) *deptree.Tree {
	arena := make([]deptree.Node, len(nodes))
	var roots []deptree.NodeID
	for i, n := range nodes {
		if n.group != deptree.KindNormal {
			arena[i] = deptree.NewGroup(n.group, n.parent, n.children...)
		} else {
			arena[i] = deptree.NewCrate(n.name, "", n.parent, n.children...)
		}
		if n.parent == none {
			roots = append(roots, deptree.NodeID(i))
		}
	}
	return deptree.New("workspace", arena, roots)
}

// chainTree is root -> a -> b -> ... with one node per name.
func chainTree(names ...string) *deptree.Tree {
	nodes := make([]testNode, len(names))
	for i, name := range names {
		nodes[i] = testNode{name: name, parent: deptree.NodeID(i - 1)}
		if i+1 < len(names) {
			nodes[i].children = []deptree.NodeID{deptree.NodeID(i + 1)}
		}
	}
	return buildTree(nodes)
}

func plain(frame Frame) string {
	lines := make([]string, len(frame.Lines))
	for i, l := range frame.Lines {
		lines[i] = l.String()
	}
	return strings.Join(lines, "\n")
}

func renderExpanded(tree *deptree.Tree, style Style) string {
	state := navigator.New()
	state.ExpandAll(tree)
	return plain(Project(tree, state, Area{Width: 80, Height: 24}, style))
}

func TestProjectScenarioWithoutToggles(t *testing.T) {
	tree := buildTree([]testNode{
		{name: "root", parent: none, children: []deptree.NodeID{1, 2}},
		{name: "a", parent: 0, children: []deptree.NodeID{3}},
		{name: "b", parent: 0},
		{name: "c", parent: 1},
	})
	style := DefaultStyle()
	style.ShowToggles = false

	want := strings.Join([]string{
		"root",
		"├── a",
		"│  └── c",
		"└── b",
	}, "\n")
	if got := renderExpanded(tree, style); got != want {
		t.Errorf("render =\n%s\nwant\n%s", got, want)
	}
}

func TestProjectGolden(t *testing.T) {
	dev := deptree.KindDev

	tests := []struct {
		name  string
		nodes []testNode
		want  []string
	}{
		{
			name: "basic",
			nodes: []testNode{
				{name: "root", parent: none, children: []deptree.NodeID{1, 2}},
				{name: "a", parent: 0, children: []deptree.NodeID{3}},
				{name: "b", parent: 0},
				{name: "c", parent: 1},
			},
			want: []string{"root", "├──▾ a", "│  └──• c", "└──• b"},
		},
		{
			name: "root dev header",
			nodes: []testNode{
				{name: "root", parent: none, children: []deptree.NodeID{1}},
				{parent: 0, children: []deptree.NodeID{2}, group: dev},
				{name: "a", parent: 1},
			},
			want: []string{"root", "[dev-dependencies]", "└──• a"},
		},
		{
			name: "normal deps then dev header",
			nodes: []testNode{
				{name: "root", parent: none, children: []deptree.NodeID{1, 2}},
				{name: "a", parent: 0},
				{parent: 0, children: []deptree.NodeID{3}, group: dev},
				{name: "b", parent: 2},
			},
			want: []string{"root", "└──• a", "[dev-dependencies]", "└──• b"},
		},
		{
			name: "nested dev header",
			nodes: []testNode{
				{name: "root", parent: none, children: []deptree.NodeID{1}},
				{name: "a", parent: 0, children: []deptree.NodeID{2}},
				{parent: 1, children: []deptree.NodeID{3}, group: dev},
				{name: "b", parent: 2},
			},
			want: []string{"root", "└──▾ a", "   [dev-dependencies]", "   └──• b"},
		},
		{
			name: "nested header keeps guides",
			nodes: []testNode{
				{name: "root", parent: none, children: []deptree.NodeID{1, 2}},
				{name: "x", parent: 0},
				{name: "a", parent: 0, children: []deptree.NodeID{3}},
				{parent: 2, children: []deptree.NodeID{4}, group: dev},
				{name: "b", parent: 3},
			},
			want: []string{"root", "├──• x", "└──▾ a", "   [dev-dependencies]", "   └──• b"},
		},
		{
			name: "group with following sibling",
			nodes: []testNode{
				{name: "root", parent: none, children: []deptree.NodeID{1, 4}},
				{name: "x", parent: 0, children: []deptree.NodeID{2}},
				{parent: 1, children: []deptree.NodeID{3}, group: dev},
				{name: "b", parent: 2},
				{name: "a", parent: 0},
			},
			want: []string{"root", "├──▾ x", "│  [dev-dependencies]", "│  └──• b", "└──• a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := buildTree(tt.nodes)
			if err := tree.Validate(); err != nil {
				t.Fatalf("Validate() = %v", err)
			}
			want := strings.Join(tt.want, "\n")
			if got := renderExpanded(tree, DefaultStyle()); got != want {
				t.Errorf("render =\n%s\nwant\n%s", got, want)
			}
		})
	}
}

func TestProjectClosedToggleAndASCII(t *testing.T) {
	tree := buildTree([]testNode{
		{name: "root", parent: none, children: []deptree.NodeID{1, 2}},
		{name: "a", parent: 0, children: []deptree.NodeID{3}},
		{name: "b", parent: 0},
		{name: "c", parent: 1},
	})
	state := navigator.New()
	state.OpenToDepth(tree, 2)

	style := DefaultStyle()
	style.Symbols = ASCIISymbols

	got := plain(Project(tree, state, Area{Width: 80, Height: 24}, style))
	want := "root\n|--+ a\n`--* b"
	if got != want {
		t.Errorf("render =\n%s\nwant\n%s", got, want)
	}
}

func TestProjectCrateDetails(t *testing.T) {
	root := deptree.NewCrate("app", "0.1.0", none, 1)
	root.ManifestDir = "/w/app"
	macros := deptree.NewCrate("macros", "0.2.0", 0)
	macros.ManifestDir = "/w/macros"
	macros.ProcMacro = true
	tree := deptree.New("w", []deptree.Node{root, macros}, []deptree.NodeID{0})

	got := renderExpanded(tree, DefaultStyle())
	want := "app v0.1.0 (/w/app)\n└──• macros v0.2.0 (/w/macros, proc-macro)"
	if got != want {
		t.Errorf("render =\n%s\nwant\n%s", got, want)
	}
}

func TestProjectBreadcrumbWhenScrolled(t *testing.T) {
	tree := chainTree("root", "a", "b", "c", "d", "e", "f", "g")
	state := navigator.New()
	state.ExpandAll(tree)
	state.Select(tree, 7)

	frame := Project(tree, state, Area{Width: 100, Height: 5}, DefaultStyle())
	want := strings.Join([]string{
		"root → a → b → c → d → e → f → g",
		"         └──▾ d",
		"            └──▾ e",
		"               └──▾ f",
		"                  └──• g",
	}, "\n")
	if got := plain(frame); got != want {
		t.Errorf("render =\n%s\nwant\n%s", got, want)
	}
	if !frame.Lines[0].Breadcrumb {
		t.Error("Lines[0].Breadcrumb = false, want true")
	}
	if !frame.Lines[4].Selected {
		t.Error("Lines[4].Selected = false, want true")
	}
	if frame.Viewport.Offset != 3 || frame.Viewport.MaxOffset != 3 {
		t.Errorf("Viewport = %+v, want offset 3 of 3", frame.Viewport)
	}

	frame = Project(tree, state, Area{Width: 20, Height: 5}, DefaultStyle())
	if got, want := frame.Lines[0].String(), "root → a → b → … → g"; got != want {
		t.Errorf("breadcrumb = %q, want %q", got, want)
	}
}

func TestProjectShortWindowKeepsSelection(t *testing.T) {
	tree := chainTree("root", "a", "b", "c", "d", "e", "f", "g")
	state := navigator.New()
	state.ExpandAll(tree)
	state.Select(tree, 3)

	for _, height := range []int{1, 2} {
		frame := Project(tree, state, Area{Width: 80, Height: height}, DefaultStyle())
		if frame.Viewport.Offset == 0 {
			t.Fatalf("height %d: Offset = 0, want scrolled", height)
		}
		var selected int
		for _, l := range frame.Lines {
			if l.Breadcrumb {
				t.Errorf("height %d: breadcrumb shown", height)
			}
			if l.Selected {
				selected++
			}
		}
		if selected != 1 {
			t.Errorf("height %d: selected lines = %d, want 1", height, selected)
		}
	}
}

func TestProjectNoBreadcrumbAtTop(t *testing.T) {
	tree := chainTree("root", "a", "b", "c", "d", "e", "f", "g")
	state := navigator.New()
	state.ExpandAll(tree)

	frame := Project(tree, state, Area{Width: 80, Height: 5}, DefaultStyle())
	if frame.Viewport.Offset != 0 {
		t.Fatalf("Offset = %d, want 0", frame.Viewport.Offset)
	}
	if len(frame.Lines) != 5 || frame.Lines[0].String() != "root" {
		t.Errorf("Lines[0] = %q, want root", frame.Lines[0].String())
	}
	if !frame.Scrollbar.Visible || frame.Scrollbar.Position != 0 {
		t.Errorf("Scrollbar = %+v, want visible at 0", frame.Scrollbar)
	}
	if state.ViewportHeight() != 5 {
		t.Errorf("ViewportHeight() = %d, want 5", state.ViewportHeight())
	}
}

func TestProjectTruncatesAndEmpty(t *testing.T) {
	tree := chainTree("root", "averyveryverylongname")
	state := navigator.New()
	state.ExpandAll(tree)

	frame := Project(tree, state, Area{Width: 10, Height: 5}, DefaultStyle())
	for _, l := range frame.Lines {
		if l.Width() > 10 {
			t.Errorf("line %q is %d cells wide, want <= 10", l.String(), l.Width())
		}
	}

	empty := deptree.New("w", nil, nil)
	frame = Project(empty, navigator.New(), Area{Width: 10, Height: 5}, DefaultStyle())
	if len(frame.Lines) != 0 || frame.TotalLines != 0 {
		t.Errorf("empty frame = %+v, want no lines", frame)
	}

	frame = Project(tree, state, Area{Width: 10, Height: 0}, DefaultStyle())
	if len(frame.Lines) != 0 {
		t.Errorf("zero-height frame has %d lines, want 0", len(frame.Lines))
	}
}

func TestRenderLineKeepsText(t *testing.T) {
	tree := buildTree([]testNode{
		{name: "root", parent: none, children: []deptree.NodeID{1}},
		{parent: 0, children: []deptree.NodeID{2}, group: deptree.KindBuild},
		{name: "cc", parent: 1},
	})
	state := navigator.New()
	state.ExpandAll(tree)
	state.SetQuery(tree, "cc")

	style := DefaultStyle()
	frame := Project(tree, state, Area{Width: 80, Height: 10}, style)
	for _, l := range frame.Lines {
		for _, s := range l.Spans {
			if out := style.RenderLine(l); !strings.Contains(out, s.Text) {
				t.Errorf("RenderLine(%q) = %q, missing %q", l.String(), out, s.Text)
			}
		}
	}
	if !frame.Lines[2].Match || !frame.Lines[2].Selected {
		t.Errorf("cc line = %+v, want selected match", frame.Lines[2])
	}
}
