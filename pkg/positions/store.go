// Package positions remembers where the user dragged nodes.
//
// A [Store] holds manual positions keyed by node id. They survive layout
// recompilation (expanding, collapsing, filtering) until the node leaves the
// visible layout, at which point [Store.Prune] drops them.
package positions

import (
	"maps"

	"github.com/matzehuels/canopy/pkg/grid"
	"github.com/matzehuels/canopy/pkg/layout"
)

// Store is an in-memory map of manual positions. It is not safe for
// concurrent use.
type Store struct {
	byID map[string]grid.Point
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{byID: make(map[string]grid.Point)}
}

// Set records a batch of positions in one update.
func (s *Store) Set(batch grid.Positions) {
	maps.Copy(s.byID, batch)
}

// Get returns the manual position of id.
func (s *Store) Get(id string) (grid.Point, bool) {
	p, ok := s.byID[id]
	return p, ok
}

// Len returns the number of stored positions.
func (s *Store) Len() int { return len(s.byID) }

// Snapshot returns a copy of all stored positions.
func (s *Store) Snapshot() grid.Positions {
	return grid.Positions(maps.Clone(s.byID))
}

// Prune drops every position whose id is not in ids and returns how many
// were removed.
func (s *Store) Prune(ids []string) int {
	keep := make(map[string]bool, len(ids))
	for _, id := range ids {
		keep[id] = true
	}
	removed := 0
	for id := range s.byID {
		if !keep[id] {
			delete(s.byID, id)
			removed++
		}
	}
	return removed
}

// Apply overlays the stored positions onto a compiled layout. Nodes are
// visited in layout order, parents before children: a node with a manual
// position takes it, any other node keeps its compiled offset from its
// parent so that children follow a moved parent.
func (s *Store) Apply(l layout.Layout) layout.Layout {
	if len(s.byID) == 0 {
		return l
	}
	compiled := l.Positions()
	final := make(grid.Positions, len(l.Nodes))
	for _, n := range l.Nodes {
		if p, ok := s.byID[n.ID]; ok {
			final[n.ID] = p
			continue
		}
		pos := n.Position
		if n.ParentID != "" {
			if pf, ok := final[n.ParentID]; ok {
				pos = pos.Add(pf.Sub(compiled[n.ParentID]))
			}
		}
		final[n.ID] = pos
	}
	return l.WithPositions(final)
}
