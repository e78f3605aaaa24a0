// Package visibility tracks which nodes are expanded, which nodes are
// visible as a result, and the user's custom sibling order.
//
// Both [Expansion] and [Order] are plain in-memory maps owned by one canvas.
// They are not safe for concurrent use.
package visibility

import "github.com/matzehuels/canopy/pkg/tree"

// Expander decides whether a node shows its children.
type Expander interface {
	IsExpanded(id string, depth, childCount int) bool
}

// Expansion stores explicit expanded/collapsed flags. Nodes without an entry
// are expanded when their depth is below the default maximum depth.
type Expansion struct {
	maxDepth int
	state    map[string]bool
}

// NewExpansion returns an empty expansion state. Nodes shallower than
// defaultMaxDepth start expanded.
func NewExpansion(defaultMaxDepth int) *Expansion {
	return &Expansion{maxDepth: defaultMaxDepth, state: make(map[string]bool)}
}

// IsExpanded reports the effective flag. A node without children is never
// expanded.
func (e *Expansion) IsExpanded(id string, depth, childCount int) bool {
	if childCount == 0 {
		return false
	}
	if v, ok := e.state[id]; ok {
		return v
	}
	return depth < e.maxDepth
}

// Toggle flips the effective flag, stores it explicitly and returns the new
// value. Toggling a node without children is a no-op that returns false.
func (e *Expansion) Toggle(id string, depth, childCount int) bool {
	if childCount == 0 {
		return false
	}
	v := !e.IsExpanded(id, depth, childCount)
	e.state[id] = v
	return v
}

// Set stores an explicit flag.
func (e *Expansion) Set(id string, expanded bool) {
	e.state[id] = expanded
}

// Explicit returns the stored flag for id, if any.
func (e *Expansion) Explicit(id string) (expanded, ok bool) {
	expanded, ok = e.state[id]
	return expanded, ok
}

// Len returns the number of stored entries.
func (e *Expansion) Len() int { return len(e.state) }

// Sync aligns the stored flags with a tree snapshot: parents seen for the
// first time get an entry holding their depth default, and entries for ids
// no longer in the tree are pruned. It returns the number of entries added
// and removed.
func (e *Expansion) Sync(idx *tree.Index) (added, pruned int) {
	for id := range e.state {
		if !idx.Contains(id) {
			delete(e.state, id)
			pruned++
		}
	}
	for _, id := range idx.IDs() {
		n := idx.ChildCount(id)
		if n == 0 {
			continue
		}
		if _, ok := e.state[id]; ok {
			continue
		}
		d, _ := idx.Depth(id)
		e.state[id] = d < e.maxDepth
		added++
	}
	return added, pruned
}

// ShowsChildren reports whether the children of a node are visible. The
// root always shows its children: integrations are always listed, their
// contents are opt-in.
func ShowsChildren(exp Expander, id string, depth, childCount int) bool {
	if childCount == 0 {
		return false
	}
	return depth == 0 || exp.IsExpanded(id, depth, childCount)
}

// ComputeVisible returns the ids reachable from root through expanded nodes.
// The root and its immediate children are always included.
func ComputeVisible(root *tree.Node, exp Expander) map[string]bool {
	visible := make(map[string]bool)
	if root == nil {
		return visible
	}
	var visit func(n *tree.Node, depth int)
	visit = func(n *tree.Node, depth int) {
		visible[n.ID] = true
		if !ShowsChildren(exp, n.ID, depth, len(n.Children)) {
			return
		}
		for _, c := range n.Children {
			visit(c, depth+1)
		}
	}
	visit(root, 0)
	return visible
}
