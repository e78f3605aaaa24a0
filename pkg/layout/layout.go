package layout

import (
	"errors"

	"github.com/matzehuels/canopy/pkg/grid"
	"github.com/matzehuels/canopy/pkg/tree"
)

// Sentinel errors returned by [Unmarshal] and [ReadFile].
var (
	// ErrEmptyLayout is returned when a layout contains no nodes.
	ErrEmptyLayout = errors.New("layout has no nodes")

	// ErrUnknownNode is returned when an edge references a node that is not
	// part of the layout.
	ErrUnknownNode = errors.New("edge references unknown node")
)

// Layout is the visible part of a tree with positions. Nodes are in
// depth-first pre-order; edges follow the same order by target.
type Layout struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Node is one positioned, visible tree node.
type Node struct {
	ID         string     `json:"id"`
	Name       string     `json:"name,omitempty"`
	ParentID   string     `json:"parent_id,omitempty"`
	Depth      int        `json:"depth"`
	Position   grid.Point `json:"position"`
	Width      float64    `json:"width"`
	Height     float64    `json:"height"`
	ChildCount int        `json:"child_count"`
	Expanded   bool       `json:"expanded"`
}

// Edge connects a visible parent to a visible child.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// IDs returns node ids in layout order.
func (l Layout) IDs() []string {
	ids := make([]string, len(l.Nodes))
	for i, n := range l.Nodes {
		ids[i] = n.ID
	}
	return ids
}

// Find returns the node with the given id.
func (l Layout) Find(id string) (Node, bool) {
	for _, n := range l.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// Positions returns a fresh id to position map.
func (l Layout) Positions() grid.Positions {
	ps := make(grid.Positions, len(l.Nodes))
	for _, n := range l.Nodes {
		ps[n.ID] = n.Position
	}
	return ps
}

// WithPositions returns a copy of l whose nodes take their position from ps
// where present.
func (l Layout) WithPositions(ps grid.Positions) Layout {
	out := Layout{Nodes: make([]Node, len(l.Nodes)), Edges: l.Edges}
	for i, n := range l.Nodes {
		if p, ok := ps[n.ID]; ok {
			n.Position = p
		}
		out.Nodes[i] = n
	}
	return out
}

// Index builds a tree index over the visible nodes.
func (l Layout) Index() *tree.Index {
	ids := make([]string, len(l.Nodes))
	parents := make(map[string]string, len(l.Nodes))
	for i, n := range l.Nodes {
		ids[i] = n.ID
		parents[n.ID] = n.ParentID
	}
	return tree.NewIndexFromParents(ids, parents)
}
