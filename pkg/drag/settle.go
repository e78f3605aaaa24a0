package drag

import (
	"cmp"
	"math"
	"slices"
	"time"

	"github.com/matzehuels/canopy/pkg/grid"
	"github.com/matzehuels/canopy/pkg/observability"
)

// settle turns the live arrangement of the active session into the final
// one: every node on the grid, every child clear of its parent and no two
// sibling branches of one quadrant overlapping.
func (e *Engine) settle() Result {
	s := e.session
	start := time.Now()
	res := Result{SessionID: s.ID, NodeID: s.NodeID, ParentID: s.ParentID, Scope: s.Scope}
	if _, ok := e.pos[s.NodeID]; !ok {
		return res
	}

	parent, hasParent := e.parentPos(s)
	if hasParent {
		e.resolveSiblings(s, parent)
	} else {
		e.pos[s.NodeID] = e.grid.SnapPoint(e.pos[s.NodeID])
	}
	e.placeFamily(s, e.pos[s.NodeID], parent, hasParent)

	if anc, anchor, ok := e.spacingLevel(s); ok {
		e.spaceBranches(anc, anchor, math.Inf(1))
	}
	e.separateDepths(s)
	e.grid.SnapAll(e.pos)
	moved := e.enforceInvariants()

	res.Positions = e.changedSince(s.baseline)
	if hasParent {
		res.Order = e.visualOrder(s.ParentID)
	}
	e.logger.Debug("drag settled",
		"node", s.NodeID,
		"frames", s.Frames,
		"changed", len(res.Positions),
		"tidied", moved,
		"duration", time.Since(s.Started))
	observability.Drag().OnDragStop(s.ID, s.NodeID, len(res.Positions), time.Since(start))
	return res
}

type resolved struct {
	id  string
	pos grid.Point
}

// resolveSiblings snaps the dragged node and each of its siblings against the
// parent gap, then keeps the rows of each quadrant at least one vertical gap
// apart, walking away from the parent. Each resolved delta moves the whole
// branch.
func (e *Engine) resolveSiblings(s *Session, parent grid.Point) {
	var targets []resolved
	for _, id := range e.idx.Children(s.ParentID) {
		p, ok := e.pos[id]
		if !ok {
			continue
		}
		rel := p.Sub(parent)
		var dir grid.Point
		if id == s.NodeID {
			dir.X = grid.ResolveDirection(rel.X, s.Quadrant.SignX(), s.InitialOffset.X)
			dir.Y = grid.ResolveDirection(rel.Y, s.Quadrant.SignY(), s.InitialOffset.Y)
		} else {
			own := e.startOffset(s, id)
			dir.X = grid.ResolveDirection(rel.X, own.X)
			dir.Y = grid.ResolveDirection(rel.Y, own.Y)
		}
		targets = append(targets, resolved{id: id, pos: e.resolveAgainst(p, parent, dir)})
	}

	movedDown := true
	if sp, ok := s.start[s.NodeID]; ok {
		for _, t := range targets {
			if t.id == s.NodeID {
				movedDown = t.pos.Y >= sp.Y
			}
		}
	}
	groups := make(map[grid.Quadrant][]int)
	for i, t := range targets {
		rel := t.pos.Sub(parent)
		q := grid.QuadrantOf(rel.X, rel.Y)
		groups[q] = append(groups[q], i)
	}
	for q, idx := range groups {
		slices.SortStableFunc(idx, func(a, b int) int {
			if c := cmp.Compare(targets[a].pos.Y, targets[b].pos.Y); c != 0 {
				return c
			}
			// a dragged node that moved down lands below its equals
			switch s.NodeID {
			case targets[a].id:
				return orderSign(movedDown)
			case targets[b].id:
				return -orderSign(movedDown)
			}
			return 0
		})
		e.spreadRows(targets, idx, q.SignY())
	}

	for _, t := range targets {
		d := t.pos.Sub(e.pos[t.id])
		e.pos.Translate(e.idx.Branch(t.id), d)
	}
}

func orderSign(after bool) int {
	if after {
		return 1
	}
	return -1
}

// spreadRows enforces one vertical gap between consecutive resolved rows of
// a quadrant group sorted by Y, moving rows away from the parent.
func (e *Engine) spreadRows(targets []resolved, idx []int, dir float64) {
	gap := e.cfg.VerticalGap
	if dir > 0 {
		for k := 1; k < len(idx); k++ {
			prev, cur := &targets[idx[k-1]], &targets[idx[k]]
			if cur.pos.Y < prev.pos.Y+gap-eps {
				cur.pos.Y = e.grid.SnapUp(prev.pos.Y + gap)
			}
		}
		return
	}
	for k := len(idx) - 2; k >= 0; k-- {
		next, cur := &targets[idx[k+1]], &targets[idx[k]]
		if cur.pos.Y > next.pos.Y-gap+eps {
			cur.pos.Y = e.grid.SnapDown(next.pos.Y - gap)
		}
	}
}

// resolveAgainst snaps p to the grid, keeping the minimum gap from parent on
// the dominant axis in direction dir.
func (e *Engine) resolveAgainst(p, parent, dir grid.Point) grid.Point {
	out := e.grid.SnapPoint(p)
	if e.horizontal(p.Sub(parent)) {
		out.X = e.grid.SnapWithMinimum(p.X, parent.X, e.cfg.HorizontalGap, dir.X)
	} else {
		out.Y = e.grid.SnapWithMinimum(p.Y, parent.Y, e.cfg.VerticalGap, dir.Y)
	}
	return out
}

// startOffset is id's offset from the session's parent when the gesture
// began, or zero if either was missing.
func (e *Engine) startOffset(s *Session, id string) grid.Point {
	p, ok := s.baseline[id]
	if !ok {
		return grid.Point{}
	}
	pp, ok := s.baseline[s.ParentID]
	if !ok {
		return grid.Point{}
	}
	return p.Sub(pp)
}

// separateDepths applies depth-wide vertical separation to every level below
// the services within the common ancestor's subtree.
func (e *Engine) separateDepths(s *Session) {
	scope := e.idx.Root()
	if anc, _, ok := e.spacingLevel(s); ok {
		scope = anc
	}
	levels := make(map[int][]string)
	maxDepth := 0
	for _, id := range e.idx.Branch(scope) {
		d, _ := e.idx.Depth(id)
		if d < 2 {
			continue
		}
		levels[d] = append(levels[d], id)
		maxDepth = max(maxDepth, d)
	}
	for d := 2; d <= maxDepth; d++ {
		e.grid.EnforceDepthVerticalSeparation(e.pos, levels[d], e.cfg.BranchPad, e.idx.Descendants)
	}
}

// changedSince returns every node whose position differs from before, plus
// all descendants of such nodes, at its current position.
func (e *Engine) changedSince(before grid.Positions) grid.Positions {
	out := make(grid.Positions)
	for _, id := range e.idx.IDs() {
		p, ok := e.pos[id]
		if !ok {
			continue
		}
		parent, hasParent := e.idx.Parent(id)
		_, parentChanged := out[parent]
		if b, ok := before[id]; !ok || b != p || (hasParent && parentChanged) {
			out[id] = p
		}
	}
	return out
}

// visualOrder lists the children of parent top to bottom, left to right.
func (e *Engine) visualOrder(parent string) []string {
	var ids []string
	for _, id := range e.idx.Children(parent) {
		if _, ok := e.pos[id]; ok {
			ids = append(ids, id)
		}
	}
	slices.SortStableFunc(ids, func(a, b string) int {
		pa, pb := e.pos[a], e.pos[b]
		if c := cmp.Compare(pa.Y, pb.Y); c != 0 {
			return c
		}
		return cmp.Compare(pa.X, pb.X)
	})
	return ids
}
