package deptree

import (
	"fmt"
	"slices"
)

// NodeID is the index of a node in [Tree.Nodes].
type NodeID int

// None marks an absent node: the parent of a root, or no selection.
const None NodeID = -1

// Kind is the dependency kind of an edge.
type Kind int

const (
	KindNormal Kind = iota
	KindDev
	KindBuild
)

// Label returns the Cargo.toml table name of the kind.
func (k Kind) Label() string {
	switch k {
	case KindDev:
		return "[dev-dependencies]"
	case KindBuild:
		return "[build-dependencies]"
	default:
		return "[dependencies]"
	}
}

func (k Kind) String() string {
	switch k {
	case KindDev:
		return "dev"
	case KindBuild:
		return "build"
	default:
		return "normal"
	}
}

// Node is implemented by *Crate and *Group.
type Node interface {
	Parent() NodeID
	Children() []NodeID
	DisplayName() string
	node()
}

// Crate is a package in the tree.
type Crate struct {
	// PackageID is the cargo package id the node was built from.
	PackageID string
	Name      string
	Version   string
	// ManifestDir is set for path packages only.
	ManifestDir string
	ProcMacro   bool

	parent   NodeID
	children []NodeID
}

// Group collects the dev or build dependencies of its parent crate.
type Group struct {
	Kind Kind

	parent   NodeID
	children []NodeID
}

func (c *Crate) Parent() NodeID      { return c.parent }
func (c *Crate) Children() []NodeID  { return c.children }
func (c *Crate) DisplayName() string { return c.Name }
func (*Crate) node()                 {}

func (g *Group) Parent() NodeID      { return g.parent }
func (g *Group) Children() []NodeID  { return g.children }
func (g *Group) DisplayName() string { return g.Kind.Label() }
func (*Group) node()                 {}

// NewCrate returns a crate node attached to parent.
func NewCrate(name, version string, parent NodeID, children ...NodeID) *Crate {
	return &Crate{Name: name, Version: version, parent: parent, children: children}
}

// NewGroup returns a group node attached to parent.
func NewGroup(kind Kind, parent NodeID, children ...NodeID) *Group {
	return &Group{Kind: kind, parent: parent, children: children}
}

// Tree is the dependency forest of a workspace.
type Tree struct {
	WorkspaceName string
	Nodes         []Node
	roots         []NodeID
}

// New assembles a tree from an arena and its roots. It does not check the
// arena; call [Tree.Validate] for that.
func New(workspace string, nodes []Node, roots []NodeID) *Tree {
	return &Tree{WorkspaceName: workspace, Nodes: nodes, roots: roots}
}

// Len returns the number of nodes in the arena.
func (t *Tree) Len() int { return len(t.Nodes) }

// Roots returns the workspace member nodes in package order.
func (t *Tree) Roots() []NodeID { return t.roots }

// Node returns the node with the given id, or false for an unknown id.
func (t *Tree) Node(id NodeID) (Node, bool) {
	if t == nil || id < 0 || int(id) >= len(t.Nodes) {
		return nil, false
	}
	return t.Nodes[id], true
}

// Crate returns the node as a crate, if it is one.
func (t *Tree) Crate(id NodeID) (*Crate, bool) {
	n, ok := t.Node(id)
	if !ok {
		return nil, false
	}
	c, ok := n.(*Crate)
	return c, ok
}

// Group returns the node as a group, if it is one.
func (t *Tree) Group(id NodeID) (*Group, bool) {
	n, ok := t.Node(id)
	if !ok {
		return nil, false
	}
	g, ok := n.(*Group)
	return g, ok
}

// IsGroup reports whether id names a group node.
func (t *Tree) IsGroup(id NodeID) bool {
	_, ok := t.Group(id)
	return ok
}

// Parent returns the parent of id, or None for roots and unknown ids.
func (t *Tree) Parent(id NodeID) NodeID {
	n, ok := t.Node(id)
	if !ok {
		return None
	}
	return n.Parent()
}

// Children returns the children of id in insertion order.
func (t *Tree) Children(id NodeID) []NodeID {
	n, ok := t.Node(id)
	if !ok {
		return nil
	}
	return n.Children()
}

// HasChildren reports whether id has at least one child.
func (t *Tree) HasChildren(id NodeID) bool {
	return len(t.Children(id)) > 0
}

// Siblings returns the list id belongs to: its parent's children, or the
// root list for roots.
func (t *Tree) Siblings(id NodeID) []NodeID {
	n, ok := t.Node(id)
	if !ok {
		return nil
	}
	if p := n.Parent(); p != None {
		return t.Children(p)
	}
	return t.roots
}

// Ancestors returns the path from the root down to id, inclusive.
func (t *Tree) Ancestors(id NodeID) []NodeID {
	var path []NodeID
	for cur := id; cur != None; cur = t.Parent(cur) {
		if _, ok := t.Node(cur); !ok {
			break
		}
		path = append(path, cur)
		if len(path) > len(t.Nodes) {
			break
		}
	}
	slices.Reverse(path)
	return path
}

// Walk visits every node reachable from the roots in pre-order, passing the
// depth (0 for roots). Returning false from fn skips the node's children.
func (t *Tree) Walk(fn func(id NodeID, depth int) bool) {
	var visit func(id NodeID, depth int)
	visit = func(id NodeID, depth int) {
		if !fn(id, depth) {
			return
		}
		for _, c := range t.Children(id) {
			visit(c, depth+1)
		}
	}
	for _, r := range t.roots {
		visit(r, 0)
	}
}

// FindPath returns the node reached by following display names from a root
// downwards, as produced for breadcrumbs. The first matching child wins.
func (t *Tree) FindPath(names []string) (NodeID, bool) {
	if len(names) == 0 {
		return None, false
	}
	level := t.roots
	found := None
	for _, name := range names {
		found = None
		for _, id := range level {
			if n, ok := t.Node(id); ok && n.DisplayName() == name {
				found = id
				break
			}
		}
		if found == None {
			return None, false
		}
		level = t.Children(found)
	}
	return found, true
}

// Validate checks the structural invariants of the arena: every parent link
// is mirrored by a child link and vice versa, groups sit under crates with at
// most one group per kind, and roots are parentless crates.
func (t *Tree) Validate() error {
	for _, r := range t.roots {
		n, ok := t.Node(r)
		if !ok {
			return fmt.Errorf("root %d out of range", r)
		}
		if _, ok := n.(*Crate); !ok {
			return fmt.Errorf("root %d is not a crate", r)
		}
		if n.Parent() != None {
			return fmt.Errorf("root %d has parent %d", r, n.Parent())
		}
	}

	for i, n := range t.Nodes {
		id := NodeID(i)
		if p := n.Parent(); p != None {
			parent, ok := t.Node(p)
			if !ok {
				return fmt.Errorf("node %d has unknown parent %d", id, p)
			}
			if !slices.Contains(parent.Children(), id) {
				return fmt.Errorf("node %d missing from children of parent %d", id, p)
			}
		}
		if g, ok := n.(*Group); ok {
			if _, ok := t.Crate(g.parent); !ok {
				return fmt.Errorf("group %d is not under a crate", id)
			}
			if g.Kind == KindNormal {
				return fmt.Errorf("group %d has normal kind", id)
			}
			if len(g.children) == 0 {
				return fmt.Errorf("group %d is empty", id)
			}
		}

		seen := map[Kind]bool{}
		for _, c := range n.Children() {
			child, ok := t.Node(c)
			if !ok {
				return fmt.Errorf("node %d has unknown child %d", id, c)
			}
			if child.Parent() != id {
				return fmt.Errorf("child %d of node %d points to parent %d", c, id, child.Parent())
			}
			if g, ok := child.(*Group); ok {
				if seen[g.Kind] {
					return fmt.Errorf("node %d has two %s groups", id, g.Kind)
				}
				seen[g.Kind] = true
			}
		}
	}
	return nil
}
