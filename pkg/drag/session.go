package drag

import (
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/canopy/pkg/grid"
	"github.com/matzehuels/canopy/pkg/tree"
)

// Session is the transient state of one gesture. It is created on the first
// move event and discarded when the gesture stops or is cancelled.
type Session struct {
	ID       string
	NodeID   string
	ParentID string // "" when the root is dragged
	Depth    int
	Scope    Scope
	Family   []string

	// InitialOffset is the dragged node's offset from its parent at start.
	InitialOffset grid.Point
	// Quadrant is the side of the parent the node was on in the last frame.
	Quadrant grid.Quadrant
	// Last is the last cursor position received.
	Last    grid.Point
	Frames  int
	Started time.Time

	start    grid.Positions // family positions at start
	baseline grid.Positions // every position at start
}

func newSession(idx *tree.Index, pos grid.Positions, id string) *Session {
	depth, _ := idx.Depth(id)
	parent, _ := idx.Parent(id)
	scope := ScopeOf(depth)
	s := &Session{
		ID:       uuid.NewString(),
		NodeID:   id,
		ParentID: parent,
		Depth:    depth,
		Scope:    scope,
		Family:   Family(idx, id, scope),
		Last:     pos[id],
		Started:  time.Now(),
		start:    make(grid.Positions),
		baseline: pos.Clone(),
	}
	for _, m := range s.Family {
		if p, ok := pos[m]; ok {
			s.start[m] = p
		}
	}
	if pp, ok := pos[parent]; ok && parent != "" {
		s.InitialOffset = pos[id].Sub(pp)
	}
	s.Quadrant = grid.QuadrantOf(s.InitialOffset.X, s.InitialOffset.Y)
	return s
}

// Start returns the position of a family member when the gesture began.
func (s *Session) Start(id string) (grid.Point, bool) {
	p, ok := s.start[id]
	return p, ok
}
