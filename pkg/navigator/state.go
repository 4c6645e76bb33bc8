// Package navigator holds the interactive state of a dependency tree view:
// which nodes are expanded, which node is selected, the flattened list of
// visible nodes, and the current search.
//
// A [State] never modifies the [deptree.Tree] it navigates. Every operation
// takes the tree as an argument, so several states can share one tree.
// Operations never fail: an operation without a valid target leaves the
// state unchanged.
package navigator

import (
	"slices"

	"github.com/matzehuels/cargotree/pkg/deptree"
)

// Visible is one entry of the flattened tree.
type Visible struct {
	ID    deptree.NodeID
	Depth int
}

// State is the navigation state of one tree view.
type State struct {
	open     map[deptree.NodeID]struct{}
	selected deptree.NodeID

	visible []Visible
	dirty   bool

	// height is the last viewport height reported by the renderer.
	height int

	query    string
	matches  []deptree.NodeID
	matchSet map[deptree.NodeID]struct{}
}

// New returns a state with every node collapsed and nothing selected.
func New() *State {
	return &State{
		open:     make(map[deptree.NodeID]struct{}),
		selected: deptree.None,
		dirty:    true,
	}
}

// Selected returns the selected node, or deptree.None.
func (s *State) Selected() deptree.NodeID { return s.selected }

// IsOpen reports whether id is expanded.
func (s *State) IsOpen(id deptree.NodeID) bool {
	_, ok := s.open[id]
	return ok
}

// OpenCount returns the number of expanded nodes.
func (s *State) OpenCount() int { return len(s.open) }

// SetViewportHeight records the number of lines the renderer can show. It
// sizes page moves.
func (s *State) SetViewportHeight(h int) {
	if h < 0 {
		h = 0
	}
	s.height = h
}

// ViewportHeight returns the last reported viewport height.
func (s *State) ViewportHeight() int { return s.height }

// VisibleNodes returns the flattened pre-order list of nodes whose ancestors
// are all open. The slice is owned by the state and valid until the next
// mutating call.
func (s *State) VisibleNodes(tree *deptree.Tree) []Visible {
	if s.dirty {
		s.visible = s.visible[:0]
		for _, r := range tree.Roots() {
			s.visible = s.collect(tree, r, 0, s.visible)
		}
		s.dirty = false
	}
	return s.visible
}

// collect appends id and its visible descendants to out.
func (s *State) collect(tree *deptree.Tree, id deptree.NodeID, depth int, out []Visible) []Visible {
	if _, ok := tree.Node(id); !ok {
		return out
	}
	out = append(out, Visible{ID: id, Depth: depth})
	if !s.IsOpen(id) {
		return out
	}
	for _, c := range tree.Children(id) {
		out = s.collect(tree, c, depth+1, out)
	}
	return out
}

// indexOf returns the position of id in the visible list, or -1.
func (s *State) indexOf(tree *deptree.Tree, id deptree.NodeID) int {
	if id == deptree.None {
		return -1
	}
	for i, v := range s.VisibleNodes(tree) {
		if v.ID == id {
			return i
		}
	}
	return -1
}

// ensureSelection makes sure the selection names a visible node, falling
// back to the first visible node. It returns the selected position, or -1
// when nothing is visible.
func (s *State) ensureSelection(tree *deptree.Tree) int {
	visible := s.VisibleNodes(tree)
	if len(visible) == 0 {
		s.selected = deptree.None
		return -1
	}
	if i := s.indexOf(tree, s.selected); i >= 0 {
		return i
	}
	s.selected = visible[0].ID
	return 0
}

// SelectedPosition returns the index of the selection in the visible list.
func (s *State) SelectedPosition(tree *deptree.Tree) (int, bool) {
	i := s.ensureSelection(tree)
	return i, i >= 0
}

// Select moves the selection to id if it is visible.
func (s *State) Select(tree *deptree.Tree, id deptree.NodeID) {
	if s.indexOf(tree, id) >= 0 {
		s.selected = id
	}
}

// SelectNext moves one line down.
func (s *State) SelectNext(tree *deptree.Tree) { s.moveBy(tree, 1, false) }

// SelectPrevious moves one line up.
func (s *State) SelectPrevious(tree *deptree.Tree) { s.moveBy(tree, -1, false) }

// SelectFirst moves to the first visible node.
func (s *State) SelectFirst(tree *deptree.Tree) {
	if s.ensureSelection(tree) >= 0 {
		s.selected = s.visible[0].ID
	}
}

// SelectLast moves to the last visible node.
func (s *State) SelectLast(tree *deptree.Tree) {
	if s.ensureSelection(tree) >= 0 {
		s.selected = s.visible[len(s.visible)-1].ID
	}
}

// PageDown moves down by one viewport height.
func (s *State) PageDown(tree *deptree.Tree) { s.moveBy(tree, s.pageStep(), true) }

// PageUp moves up by one viewport height.
func (s *State) PageUp(tree *deptree.Tree) { s.moveBy(tree, -s.pageStep(), true) }

// HalfPageDown moves down by half a viewport height.
func (s *State) HalfPageDown(tree *deptree.Tree) { s.moveBy(tree, max(1, s.pageStep()/2), true) }

// HalfPageUp moves up by half a viewport height.
func (s *State) HalfPageUp(tree *deptree.Tree) { s.moveBy(tree, -max(1, s.pageStep()/2), true) }

func (s *State) pageStep() int {
	return max(1, s.height)
}

// moveBy moves the selection delta lines. Without clamping a move past
// either end is a no-op; with clamping it stops at the end.
func (s *State) moveBy(tree *deptree.Tree, delta int, clamp bool) {
	cur := s.ensureSelection(tree)
	if cur < 0 {
		return
	}
	next := cur + delta
	if next < 0 || next >= len(s.visible) {
		if !clamp {
			return
		}
		next = min(max(next, 0), len(s.visible)-1)
	}
	s.selected = s.visible[next].ID
}

// SelectParent moves to the parent of the selection. No-op on roots.
func (s *State) SelectParent(tree *deptree.Tree) {
	if s.ensureSelection(tree) < 0 {
		return
	}
	if p := tree.Parent(s.selected); p != deptree.None {
		s.selected = p
	}
}

// SelectNextSibling moves to the next entry of the selection's sibling
// list, whether or not the current node is expanded.
func (s *State) SelectNextSibling(tree *deptree.Tree) { s.siblingBy(tree, 1) }

// SelectPreviousSibling moves to the previous sibling.
func (s *State) SelectPreviousSibling(tree *deptree.Tree) { s.siblingBy(tree, -1) }

func (s *State) siblingBy(tree *deptree.Tree, delta int) {
	if s.ensureSelection(tree) < 0 {
		return
	}
	siblings := tree.Siblings(s.selected)
	for i, id := range siblings {
		if id != s.selected {
			continue
		}
		if j := i + delta; j >= 0 && j < len(siblings) {
			s.selected = siblings[j]
		}
		return
	}
}

// Expand opens the selection, or moves into its first child when it is
// already open. No-op on leaves.
func (s *State) Expand(tree *deptree.Tree) {
	if s.ensureSelection(tree) < 0 {
		return
	}
	children := tree.Children(s.selected)
	if len(children) == 0 {
		return
	}
	if s.IsOpen(s.selected) {
		s.selected = children[0]
		return
	}
	s.openNode(tree, s.selected)
}

// Collapse closes the selection, or moves to its parent when it is already
// closed.
func (s *State) Collapse(tree *deptree.Tree) {
	if s.ensureSelection(tree) < 0 {
		return
	}
	if s.IsOpen(s.selected) {
		s.closeNode(tree, s.selected)
		return
	}
	if p := tree.Parent(s.selected); p != deptree.None {
		s.selected = p
	}
}

// Toggle opens a closed selection or closes an open one. No-op on leaves.
func (s *State) Toggle(tree *deptree.Tree) {
	if s.ensureSelection(tree) < 0 {
		return
	}
	switch {
	case s.IsOpen(s.selected):
		s.closeNode(tree, s.selected)
	case tree.HasChildren(s.selected):
		s.openNode(tree, s.selected)
	}
}

// openNode marks id open and splices its newly visible descendants into
// the visible list right after id.
func (s *State) openNode(tree *deptree.Tree, id deptree.NodeID) {
	s.open[id] = struct{}{}

	start := s.indexOf(tree, id)
	if start < 0 {
		s.dirty = true
		return
	}
	depth := s.visible[start].Depth

	var sub []Visible
	for _, c := range tree.Children(id) {
		sub = s.collect(tree, c, depth+1, sub)
	}
	s.visible = slices.Insert(s.visible, start+1, sub...)
}

// closeNode marks id closed and removes the run of deeper entries that
// follows it in the visible list.
func (s *State) closeNode(tree *deptree.Tree, id deptree.NodeID) {
	delete(s.open, id)

	start := s.indexOf(tree, id)
	if start < 0 {
		s.dirty = true
		return
	}
	depth := s.visible[start].Depth

	end := start + 1
	for end < len(s.visible) && s.visible[end].Depth > depth {
		end++
	}
	s.visible = slices.Delete(s.visible, start+1, end)
}

// OpenToDepth resets the open set so that every node with children is open
// when it lies fewer than depth levels below the top, counting roots as
// level 1. OpenToDepth(1) therefore shows only the roots. Non-positive
// depths are ignored.
func (s *State) OpenToDepth(tree *deptree.Tree, depth int) {
	if depth <= 0 {
		return
	}
	clear(s.open)
	tree.Walk(func(id deptree.NodeID, d int) bool {
		level := d + 1
		if level >= depth || !tree.HasChildren(id) {
			return false
		}
		s.open[id] = struct{}{}
		return true
	})
	s.dirty = true
	s.ensureSelection(tree)
}

// ExpandAll opens every node that has children.
func (s *State) ExpandAll(tree *deptree.Tree) {
	clear(s.open)
	for i := range tree.Len() {
		id := deptree.NodeID(i)
		if tree.HasChildren(id) {
			s.open[id] = struct{}{}
		}
	}
	s.dirty = true
	s.ensureSelection(tree)
}

// CollapseAll closes every node, leaving only the roots visible.
func (s *State) CollapseAll(tree *deptree.Tree) {
	clear(s.open)
	s.dirty = true
	s.ensureSelection(tree)
}

// OpenNodes returns the open nodes in id order.
func (s *State) OpenNodes() []deptree.NodeID {
	ids := make([]deptree.NodeID, 0, len(s.open))
	for id := range s.open {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// SetOpen replaces the open set with the nodes of ids that have children.
func (s *State) SetOpen(tree *deptree.Tree, ids []deptree.NodeID) {
	clear(s.open)
	for _, id := range ids {
		if tree.HasChildren(id) {
			s.open[id] = struct{}{}
		}
	}
	s.dirty = true
	s.ensureSelection(tree)
}
