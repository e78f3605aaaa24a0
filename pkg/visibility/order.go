package visibility

import (
	"slices"

	"github.com/matzehuels/canopy/pkg/tree"
)

// Order stores custom sibling orders keyed by parent id. Entries are written
// when a drag gesture settles and re-validated whenever the tree changes.
type Order struct {
	byParent map[string][]string
}

// NewOrder returns an empty order store.
func NewOrder() *Order {
	return &Order{byParent: make(map[string][]string)}
}

// Get returns the stored order for parent.
func (o *Order) Get(parent string) ([]string, bool) {
	ids, ok := o.byParent[parent]
	return ids, ok
}

// Len returns the number of parents with a stored order.
func (o *Order) Len() int { return len(o.byParent) }

// Children returns children arranged by the stored order for parent. Stored
// ids that are not among children are dropped and children missing from the
// stored order are appended in their given order. Without a stored order
// children is returned unchanged.
func (o *Order) Children(parent string, children []string) []string {
	stored, ok := o.byParent[parent]
	if !ok {
		return children
	}
	return reconcile(stored, children)
}

// Reconcile filters every stored order to the parent's current children and
// appends missing children. Orders of parents that left the tree or lost all
// children are removed. It returns the number of removed entries.
func (o *Order) Reconcile(idx *tree.Index) int {
	removed := 0
	for parent, stored := range o.byParent {
		children := idx.Children(parent)
		if len(children) == 0 {
			delete(o.byParent, parent)
			removed++
			continue
		}
		o.byParent[parent] = reconcile(stored, children)
	}
	return removed
}

// Merge records a new visual order for parent. children is the parent's full
// child list and visible lists the currently visible children top to bottom.
// Hidden children keep their slot in the previous order; the visible slots
// are refilled in visual order.
func (o *Order) Merge(parent string, children, visible []string) []string {
	base := o.Children(parent, children)
	shown := make(map[string]bool, len(visible))
	vis := make([]string, 0, len(visible))
	for _, id := range visible {
		if !shown[id] && slices.Contains(base, id) {
			shown[id] = true
			vis = append(vis, id)
		}
	}

	merged := make([]string, 0, len(base))
	next := 0
	for _, id := range base {
		if shown[id] {
			id = vis[next]
			next++
		}
		merged = append(merged, id)
	}
	o.byParent[parent] = merged
	return merged
}

func reconcile(stored, children []string) []string {
	current := make(map[string]bool, len(children))
	for _, id := range children {
		current[id] = true
	}
	out := make([]string, 0, len(children))
	seen := make(map[string]bool, len(children))
	for _, id := range stored {
		if current[id] && !seen[id] {
			out = append(out, id)
			seen[id] = true
		}
	}
	for _, id := range children {
		if !seen[id] {
			out = append(out, id)
		}
	}
	return out
}
