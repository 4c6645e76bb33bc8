package render

import (
	"github.com/matzehuels/cargotree/pkg/deptree"
)

// Lineage describes the tree-drawing context of a node.
type Lineage struct {
	// Guides has one entry per drawn ancestor, top to bottom: true when the
	// ancestor has later siblings and a continuation line runs past it.
	// Roots and group nodes draw no guide.
	Guides []bool
	// Last reports whether no crate sibling follows the node. Group siblings
	// are ignored since they are drawn as headers, not branches.
	Last bool
	Root bool
}

// LineageOf computes the lineage of id.
func LineageOf(tree *deptree.Tree, id deptree.NodeID) (Lineage, bool) {
	n, ok := tree.Node(id)
	if !ok {
		return Lineage{}, false
	}

	l := Lineage{
		Root: n.Parent() == deptree.None,
		Last: !hasLaterCrateSibling(tree, id),
	}

	path := tree.Ancestors(id)
	for _, a := range path[:len(path)-1] {
		if tree.Parent(a) == deptree.None || tree.IsGroup(a) {
			continue
		}
		l.Guides = append(l.Guides, hasLaterCrateSibling(tree, a))
	}
	return l, true
}

func hasLaterCrateSibling(tree *deptree.Tree, id deptree.NodeID) bool {
	siblings := tree.Siblings(id)
	for i, s := range siblings {
		if s != id {
			continue
		}
		for _, later := range siblings[i+1:] {
			if !tree.IsGroup(later) {
				return true
			}
		}
		return false
	}
	return false
}
