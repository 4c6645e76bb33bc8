package deptree

import (
	"fmt"
	"os"
	"testing"

	"pgregory.net/rapid"

	"github.com/matzehuels/cargotree/pkg/errors"
	"github.com/matzehuels/cargotree/pkg/metadata"
)

// graph is a compact description of cargo metadata for tests. Package ids
// are the package names.
type graph struct {
	members  []string
	packages []testPkg
	// unresolved lists packages without a resolve entry.
	unresolved []string
}

type testPkg struct {
	name      string
	local     bool
	procMacro bool
	deps      []testDep
}

type testDep struct {
	pkg   string
	kinds []string // "" means normal
}

func normal(pkg string) testDep { return testDep{pkg: pkg, kinds: []string{""}} }
func dev(pkg string) testDep    { return testDep{pkg: pkg, kinds: []string{"dev"}} }
func build(pkg string) testDep  { return testDep{pkg: pkg, kinds: []string{"build"}} }

func (g graph) metadata() *metadata.Metadata {
	m := &metadata.Metadata{WorkspaceMembers: g.members, Resolve: &metadata.Resolve{}, Version: 1}
	skip := map[string]bool{}
	for _, u := range g.unresolved {
		skip[u] = true
	}
	for _, p := range g.packages {
		pkg := metadata.Package{
			ID:           p.name,
			Name:         p.name,
			Version:      "1.0.0",
			ManifestPath: "/src/" + p.name + "/Cargo.toml",
		}
		if !p.local {
			src := "registry+https://github.com/rust-lang/crates.io-index"
			pkg.Source = &src
		}
		kind := "lib"
		if p.procMacro {
			kind = "proc-macro"
		}
		pkg.Targets = []metadata.Target{{Name: p.name, Kind: []string{kind}}}
		m.Packages = append(m.Packages, pkg)

		if skip[p.name] {
			continue
		}
		rn := metadata.ResolveNode{ID: p.name}
		for _, d := range p.deps {
			nd := metadata.NodeDep{Name: d.pkg, Pkg: d.pkg}
			for _, k := range d.kinds {
				info := metadata.DepKindInfo{}
				if k != "" {
					k := k
					info.Kind = &k
				}
				nd.DepKinds = append(nd.DepKinds, info)
			}
			rn.Deps = append(rn.Deps, nd)
		}
		m.Resolve.Nodes = append(m.Resolve.Nodes, rn)
	}
	if len(g.members) == 1 {
		root := g.members[0]
		m.Resolve.Root = &root
	}
	return m
}

func mustBuild(t testing.TB, g graph) *Tree {
	t.Helper()
	tree, err := Build(g.metadata())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if err := tree.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	return tree
}

// outline renders the tree as one "depth:name" entry per node in pre-order.
func outline(tree *Tree) []string {
	var out []string
	tree.Walk(func(id NodeID, depth int) bool {
		n, _ := tree.Node(id)
		out = append(out, fmt.Sprintf("%d:%s", depth, n.DisplayName()))
		return true
	})
	return out
}

func TestBuildErrors(t *testing.T) {
	if _, err := Build(nil); !errors.Is(err, errors.ErrCodeGraph) {
		t.Errorf("Build(nil) error = %v, want GRAPH_ERROR", err)
	}

	m := graph{members: []string{"a"}, packages: []testPkg{{name: "a"}}}.metadata()
	m.Resolve = nil
	if _, err := Build(m); !errors.Is(err, errors.ErrCodeGraph) {
		t.Errorf("Build(no resolve) error = %v, want GRAPH_ERROR", err)
	}
}

func TestBuildChildOrder(t *testing.T) {
	tree := mustBuild(t, graph{
		members: []string{"root"},
		packages: []testPkg{
			{name: "root", local: true, deps: []testDep{dev("d"), normal("a"), build("b"), normal("c")}},
			{name: "a"}, {name: "b"}, {name: "c"}, {name: "d"},
		},
	})

	want := []string{
		"0:root",
		"1:a",
		"1:c",
		"1:[dev-dependencies]",
		"2:d",
		"1:[build-dependencies]",
		"2:b",
	}
	got := outline(tree)
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("outline = %v, want %v", got, want)
	}
	if tree.WorkspaceName != "root" {
		t.Errorf("WorkspaceName = %q, want root", tree.WorkspaceName)
	}
}

func TestBuildSamePackageUnderDifferentParents(t *testing.T) {
	tree := mustBuild(t, graph{
		members: []string{"root"},
		packages: []testPkg{
			{name: "root", deps: []testDep{normal("serde"), normal("a")}},
			{name: "a", deps: []testDep{dev("serde")}},
			{name: "serde"},
		},
	})

	var serdes []NodeID
	for i, n := range tree.Nodes {
		if c, ok := n.(*Crate); ok && c.Name == "serde" {
			serdes = append(serdes, NodeID(i))
		}
	}
	if len(serdes) != 2 {
		t.Fatalf("serde nodes = %d, want 2", len(serdes))
	}

	root := tree.Roots()[0]
	if tree.Parent(serdes[0]) != root {
		t.Errorf("first serde parent = %d, want root %d", tree.Parent(serdes[0]), root)
	}
	group, ok := tree.Group(tree.Parent(serdes[1]))
	if !ok || group.Kind != KindDev {
		t.Fatalf("second serde should sit under a dev group")
	}
	if a, ok := tree.Crate(group.Parent()); !ok || a.Name != "a" {
		t.Errorf("dev group parent should be a")
	}
}

func TestBuildDiamondSharesNodePerParent(t *testing.T) {
	// root -> a -> c, root -> b -> c: c appears once under a and once under b.
	tree := mustBuild(t, graph{
		members: []string{"root"},
		packages: []testPkg{
			{name: "root", deps: []testDep{normal("a"), normal("b")}},
			{name: "a", deps: []testDep{normal("c")}},
			{name: "b", deps: []testDep{normal("c")}},
			{name: "c"},
		},
	})
	if tree.Len() != 5 {
		t.Errorf("Len() = %d, want 5", tree.Len())
	}
}

func TestBuildFirstRecognizedKindWins(t *testing.T) {
	tree := mustBuild(t, graph{
		members: []string{"root"},
		packages: []testPkg{
			{name: "root", deps: []testDep{
				{pkg: "x", kinds: []string{"weird", "build", ""}},
				{pkg: "y", kinds: []string{"unknown"}},
			}},
			{name: "x"}, {name: "y"},
		},
	})

	want := []string{"0:root", "1:[build-dependencies]", "2:x"}
	if got := outline(tree); fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("outline = %v, want %v", got, want)
	}
}

func TestBuildEdgeCases(t *testing.T) {
	tree := mustBuild(t, graph{
		members: []string{"app", "lonely"},
		packages: []testPkg{
			{name: "app", local: true, deps: []testDep{normal("ghost"), normal("derive")}},
			{name: "derive", procMacro: true},
			{name: "lonely", local: true},
		},
		unresolved: []string{"lonely"},
	})

	want := []string{"0:app", "1:derive", "0:lonely"}
	if got := outline(tree); fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("outline = %v, want %v", got, want)
	}

	app, _ := tree.Crate(tree.Roots()[0])
	if app.ManifestDir != "/src/app" {
		t.Errorf("app ManifestDir = %q, want /src/app", app.ManifestDir)
	}
	derive, _ := tree.Crate(app.Children()[0])
	if !derive.ProcMacro {
		t.Error("derive ProcMacro = false, want true")
	}
	if derive.ManifestDir != "" {
		t.Errorf("registry crate ManifestDir = %q, want empty", derive.ManifestDir)
	}
	if tree.WorkspaceName != "workspace" {
		t.Errorf("WorkspaceName = %q, want workspace", tree.WorkspaceName)
	}
}

func TestBuildTerminatesOnDevCycle(t *testing.T) {
	// a dev-depends on b, which depends on a again.
	tree := mustBuild(t, graph{
		members: []string{"a"},
		packages: []testPkg{
			{name: "a", local: true, deps: []testDep{dev("b")}},
			{name: "b", deps: []testDep{normal("a")}},
		},
	})

	want := []string{"0:a", "1:[dev-dependencies]", "2:b", "3:a"}
	if got := outline(tree); fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("outline = %v, want %v", got, want)
	}
}

func TestBuildFixture(t *testing.T) {
	data, err := os.ReadFile("../metadata/testdata/workspace.json")
	if err != nil {
		t.Fatal(err)
	}
	m, err := metadata.Parse(data)
	if err != nil {
		t.Fatal(err)
	}
	m.WorkspaceRoot = t.TempDir()
	tree, err := Build(m)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if err := tree.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	want := []string{
		"0:app",
		"1:macros",
		"2:serde",
		"1:serde",
		"1:[dev-dependencies]",
		"2:tokio",
		"1:[build-dependencies]",
		"2:cc",
		"0:macros",
		"1:serde",
	}
	if got := outline(tree); fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("outline = %v, want %v", got, want)
	}
}

func TestBuildProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		g := drawGraph(t)
		tree, err := Build(g.metadata())
		if err != nil {
			t.Fatalf("Build: %v", err)
		}
		if err := tree.Validate(); err != nil {
			t.Fatalf("Validate: %v", err)
		}

		members := map[string]bool{}
		for _, m := range g.members {
			members[m] = true
		}
		for _, r := range tree.Roots() {
			c, ok := tree.Crate(r)
			if !ok || !members[c.PackageID] {
				t.Fatalf("root %d is not a workspace member crate", r)
			}
		}

		seen := map[nodeKey]bool{}
		for i, n := range tree.Nodes {
			c, ok := n.(*Crate)
			if !ok {
				continue
			}
			key := nodeKey{pkg: c.PackageID, parent: c.Parent()}
			if seen[key] {
				t.Fatalf("package %s appears twice under parent %d (node %d)", c.PackageID, c.Parent(), i)
			}
			seen[key] = true
		}

		reachable := 0
		tree.Walk(func(NodeID, int) bool { reachable++; return true })
		if reachable != tree.Len() {
			t.Fatalf("reachable = %d, want every node (%d)", reachable, tree.Len())
		}
	})
}

// drawGraph generates small random workspaces including dangling edges,
// unknown kinds and dependency cycles.
func drawGraph(t *rapid.T) graph {
	n := rapid.IntRange(1, 7).Draw(t, "packages")
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("p%d", i)
	}
	targets := append(append([]string{}, names...), "ghost")
	kinds := []string{"", "dev", "build", "weird"}

	var g graph
	for i, name := range names {
		p := testPkg{name: name, local: i == 0}
		for _, target := range rapid.SliceOfNDistinct(rapid.SampledFrom(targets), 0, 3, func(s string) string { return s }).Draw(t, name+"-deps") {
			kind := rapid.SampledFrom(kinds).Draw(t, name+"-"+target+"-kind")
			p.deps = append(p.deps, testDep{pkg: target, kinds: []string{kind}})
		}
		g.packages = append(g.packages, p)
		if i == 0 || rapid.Bool().Draw(t, name+"-member") {
			g.members = append(g.members, name)
		}
	}
	return g
}
