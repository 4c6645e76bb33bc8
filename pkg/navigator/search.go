package navigator

import (
	"strings"

	"github.com/matzehuels/cargotree/pkg/deptree"
)

// Query returns the active search query.
func (s *State) Query() string { return s.query }

// Matches returns every node whose name matches the query, in tree order.
// Matches inside collapsed subtrees are included.
func (s *State) Matches() []deptree.NodeID { return s.matches }

// IsMatch reports whether id matches the active query.
func (s *State) IsMatch(id deptree.NodeID) bool {
	_, ok := s.matchSet[id]
	return ok
}

// SetQuery searches node names for q, ignoring case, and moves the
// selection to the first visible match at or after the current line,
// wrapping around to the top. An empty query clears the search. Searching
// never expands nodes, so matches inside collapsed subtrees are counted but
// not selected.
func (s *State) SetQuery(tree *deptree.Tree, q string) {
	if q == "" {
		s.ClearSearch()
		return
	}

	s.query = q
	s.matches = nil
	s.matchSet = make(map[deptree.NodeID]struct{})

	needle := strings.ToLower(q)
	tree.Walk(func(id deptree.NodeID, _ int) bool {
		n, _ := tree.Node(id)
		if strings.Contains(strings.ToLower(n.DisplayName()), needle) {
			s.matches = append(s.matches, id)
			s.matchSet[id] = struct{}{}
		}
		return true
	})

	cur := s.ensureSelection(tree)
	if cur < 0 {
		return
	}
	s.jumpToMatch(cur, 1)
}

// NextMatch moves to the next visible match after the selection, wrapping.
func (s *State) NextMatch(tree *deptree.Tree) {
	if cur := s.ensureSelection(tree); cur >= 0 && len(s.matches) > 0 {
		s.jumpToMatch(cur+1, 1)
	}
}

// PreviousMatch moves to the previous visible match, wrapping.
func (s *State) PreviousMatch(tree *deptree.Tree) {
	if cur := s.ensureSelection(tree); cur >= 0 && len(s.matches) > 0 {
		s.jumpToMatch(cur-1, -1)
	}
}

// ClearSearch drops the query and its matches.
func (s *State) ClearSearch() {
	s.query = ""
	s.matches = nil
	s.matchSet = nil
}

// jumpToMatch scans the visible list from position from in direction dir,
// wrapping once, and selects the first match found.
func (s *State) jumpToMatch(from, dir int) {
	n := len(s.visible)
	if n == 0 || len(s.matchSet) == 0 {
		return
	}
	from = ((from % n) + n) % n
	for i := range n {
		v := s.visible[((from+dir*i)%n+n)%n]
		if s.IsMatch(v.ID) {
			s.selected = v.ID
			return
		}
	}
}
