package drag

import (
	"cmp"
	"math"
	"slices"
	"time"

	"github.com/matzehuels/canopy/pkg/grid"
	"github.com/matzehuels/canopy/pkg/observability"
)

// frame runs one step of live constraint resolution for the latest move.
// Nudges of nodes other than the family are capped at the configured step
// so the preview does not jump.
func (e *Engine) frame(m Move) {
	s := e.session
	if s == nil || s.NodeID != m.NodeID {
		return
	}
	if _, ok := e.pos[s.NodeID]; !ok {
		return
	}
	start := time.Now()
	s.Last = m.Target

	target := m.Target
	parent, hasParent := e.parentPos(s)
	if hasParent {
		rel := target.Sub(parent)
		if s.Scope == ScopeBranch {
			rel = e.clampToParent(rel, s.InitialOffset)
			target = parent.Add(rel)
		}
		s.Quadrant = grid.QuadrantOf(rel.X, rel.Y)
	}
	e.placeFamily(s, target, parent, hasParent)

	if s.Depth == 1 && hasParent {
		e.containmentPush(s, parent)
	}
	stacked := e.stackSiblings(s, e.cfg.StepCap)
	if anc, anchor, ok := e.spacingLevel(s); ok && !(stacked && anc == s.ParentID) {
		e.spaceBranches(anc, anchor, e.cfg.StepCap)
	}
	if s.Depth == 1 {
		e.sweepServices(s)
	}

	s.Frames++
	observability.Drag().OnDragFrame(s.ID, time.Since(start))
}

// clampToParent widens rel to the minimum parent gap along its dominant
// axis. The side comes from rel itself, or from initial when rel is zero on
// that axis.
func (e *Engine) clampToParent(rel, initial grid.Point) grid.Point {
	if e.satisfiesGap(rel) {
		return rel
	}
	if e.horizontal(rel) {
		rel.X = grid.ResolveDirection(rel.X, initial.X) * e.cfg.HorizontalGap
	} else {
		rel.Y = grid.ResolveDirection(rel.Y, initial.Y) * e.cfg.VerticalGap
	}
	return rel
}

// containmentPush moves a service family away from the root when it drifts
// inside the minimum gap. The hysteresis band keeps a family resting on the
// boundary from jittering.
func (e *Engine) containmentPush(s *Session, root grid.Point) {
	rel := e.pos[s.NodeID].Sub(root)
	h := e.cfg.Hysteresis
	if math.Abs(rel.X) >= e.cfg.HorizontalGap-h || math.Abs(rel.Y) >= e.cfg.VerticalGap-h {
		return
	}
	var d grid.Point
	if e.horizontal(rel) {
		need := e.cfg.HorizontalGap - math.Abs(rel.X)
		d.X = grid.ResolveDirection(rel.X, s.InitialOffset.X) * min(need, e.cfg.StepCap)
	} else {
		need := e.cfg.VerticalGap - math.Abs(rel.Y)
		d.Y = grid.ResolveDirection(rel.Y, s.InitialOffset.Y) * min(need, e.cfg.StepCap)
	}
	e.pos.Translate(s.Family, d)
}

// stackSiblings nudges leaf siblings on the dragged node's side of the parent
// downward so that each sits at least one row below its predecessor. The
// dragged node is a fixed obstacle; siblings above it are left alone. It
// reports false, doing nothing, when any sibling has visible children.
func (e *Engine) stackSiblings(s *Session, limit float64) bool {
	parent, ok := e.parentPos(s)
	if !ok {
		return false
	}
	siblings := e.idx.Children(s.ParentID)
	if len(siblings) < 2 {
		return false
	}
	for _, id := range siblings {
		if id != s.NodeID && e.idx.ChildCount(id) > 0 {
			return false
		}
	}

	side := grid.Sign(e.pos[s.NodeID].X - parent.X)
	var group []string
	for _, id := range siblings {
		if p, ok := e.pos[id]; ok && grid.Sign(p.X-parent.X) == side {
			group = append(group, id)
		}
	}
	slices.SortStableFunc(group, func(a, b string) int {
		if c := cmp.Compare(e.pos[a].Y, e.pos[b].Y); c != 0 {
			return c
		}
		// the dragged node goes first among equals so it pushes the others
		switch s.NodeID {
		case a:
			return -1
		case b:
			return 1
		}
		return 0
	})

	i := slices.Index(group, s.NodeID)
	for j := i + 1; j < len(group); j++ {
		prev, cur := e.pos[group[j-1]], e.pos[group[j]]
		need := prev.Y + e.cfg.VerticalGap - cur.Y
		if need <= eps {
			continue
		}
		e.pos[group[j]] = grid.Point{X: cur.X, Y: cur.Y + min(e.grid.SnapUp(need), limit)}
	}
	return true
}

// sweepServices returns other services to the root quadrant they started in.
// Services whose starting branch already reached outside that quadrant are
// considered placed on purpose and left alone.
func (e *Engine) sweepServices(s *Session) {
	root, ok := e.pos[s.ParentID]
	if !ok {
		return
	}
	start, ok := s.baseline[s.ParentID]
	if !ok {
		return
	}
	for _, k := range e.idx.Children(s.ParentID) {
		kp, ok := s.baseline[k]
		if k == s.NodeID || !ok {
			continue
		}
		ids := e.idx.Branch(k)
		q := grid.QuadrantOf(kp.X-start.X, kp.Y-start.Y)
		if d := e.quadrantEscape(s.baseline, ids, start, q); d != (grid.Point{}) {
			continue
		}
		if d := e.quadrantEscape(e.pos, ids, root, q); d != (grid.Point{}) {
			e.pos.Translate(ids, d)
		}
	}
}

// quadrantEscape returns the grid-aligned translation that brings every node
// of ids back into quadrant q of origin: at least one horizontal gap away
// sideways and on the quadrant's side vertically. It is zero when all nodes
// are inside.
func (e *Engine) quadrantEscape(ps grid.Positions, ids []string, origin grid.Point, q grid.Quadrant) grid.Point {
	var dx, dy float64
	sx, sy := q.SignX(), q.SignY()
	for _, id := range ids {
		p, ok := ps[id]
		if !ok {
			continue
		}
		rel := p.Sub(origin)
		dx = max(dx, e.cfg.HorizontalGap-sx*rel.X)
		dy = max(dy, -sy*rel.Y)
	}
	var d grid.Point
	if dx > eps {
		d.X = sx * e.grid.SnapUp(dx)
	}
	if dy > eps {
		d.Y = sy * e.grid.SnapUp(dy)
	}
	return d
}
