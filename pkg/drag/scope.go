package drag

import (
	"slices"

	"github.com/matzehuels/canopy/pkg/tree"
)

// Scope selects which nodes move together with the dragged node.
type Scope uint8

const (
	// ScopeBranch moves the dragged node and its descendants.
	ScopeBranch Scope = iota
	// ScopeServiceFamily moves every node sharing the dragged node's top
	// ancestor, or the whole tree when the root is dragged.
	ScopeServiceFamily
)

// ScopeOf returns the scope for a node at depth.
func ScopeOf(depth int) Scope {
	if depth <= 1 {
		return ScopeServiceFamily
	}
	return ScopeBranch
}

func (s Scope) String() string {
	switch s {
	case ScopeBranch:
		return "branch"
	case ScopeServiceFamily:
		return "service"
	default:
		return "unknown"
	}
}

// Family returns the ids that move with id under scope, id first.
func Family(idx *tree.Index, id string, scope Scope) []string {
	if scope == ScopeBranch {
		return idx.Branch(id)
	}
	top, ok := idx.TopAncestor(id)
	if !ok {
		if id != idx.Root() {
			return nil
		}
		return slices.Clone(idx.IDs())
	}
	return idx.Branch(top)
}
