package grid

import (
	"cmp"
	"math"
	"slices"
)

// Bounds is an axis-aligned box. Max is exclusive of any padding.
type Bounds struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// OverlapsX reports whether the horizontal extents of b and o intersect.
func (b Bounds) OverlapsX(o Bounds) bool {
	return b.MinX < o.MaxX-eps && o.MinX < b.MaxX-eps
}

// OverlapsY reports whether the vertical extents intersect once pad is
// added between them.
func (b Bounds) OverlapsY(o Bounds, pad float64) bool {
	return b.MinY < o.MaxY+pad-eps && o.MinY < b.MaxY+pad-eps
}

// Contains reports whether o lies entirely inside b.
func (b Bounds) Contains(o Bounds) bool {
	return o.MinX >= b.MinX-eps && o.MaxX <= b.MaxX+eps &&
		o.MinY >= b.MinY-eps && o.MaxY <= b.MaxY+eps
}

// Box returns the bounds of a single node at p.
func (g Grid) Box(p Point) Bounds {
	return Bounds{MinX: p.X, MinY: p.Y, MaxX: p.X + g.NodeWidth, MaxY: p.Y + g.NodeHeight}
}

// BranchBounds returns the box spanning every listed node that has a
// position, from the top of the topmost node to the bottom of the bottommost
// one, widened outward to grid points. It returns false when none of the ids
// has a position.
func (g Grid) BranchBounds(ps Positions, ids []string) (Bounds, bool) {
	b := Bounds{MinX: math.Inf(1), MinY: math.Inf(1), MaxX: math.Inf(-1), MaxY: math.Inf(-1)}
	found := false
	for _, id := range ids {
		p, ok := ps[id]
		if !ok {
			continue
		}
		found = true
		b.MinX = min(b.MinX, p.X)
		b.MinY = min(b.MinY, p.Y)
		b.MaxX = max(b.MaxX, p.X+g.NodeWidth)
		b.MaxY = max(b.MaxY, p.Y+g.NodeHeight)
	}
	if !found {
		return Bounds{}, false
	}
	return Bounds{
		MinX: g.SnapDown(b.MinX), MinY: g.SnapDown(b.MinY),
		MaxX: g.SnapUp(b.MaxX), MaxY: g.SnapUp(b.MaxY),
	}, true
}

// EnforceDepthVerticalSeparation walks the nodes of one depth level, sorted
// by current Y, and pushes down any node whose box starts less than pad below
// the bottom of an earlier node it overlaps horizontally. The pushed node's
// subtree (from desc) moves with it. ids lists the nodes at the level; ids
// without a position are skipped. It returns the number of nodes pushed.
//
// Only horizontally overlapping nodes compete for space, so a level that
// spans several columns or both sides of an ancestor is left alone where the
// columns do not collide.
func (g Grid) EnforceDepthVerticalSeparation(ps Positions, ids []string, pad float64, desc func(string) []string) int {
	level := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := ps[id]; ok {
			level = append(level, id)
		}
	}
	slices.SortStableFunc(level, func(a, b string) int {
		return cmp.Compare(ps[a].Y, ps[b].Y)
	})

	pushed := 0
	for i, id := range level {
		cur := g.Box(ps[id])
		need := math.Inf(-1)
		for _, prev := range level[:i] {
			pb := g.Box(ps[prev])
			if pb.OverlapsX(cur) {
				need = max(need, pb.MaxY+pad)
			}
		}
		if cur.MinY >= need-eps {
			continue
		}
		dy := g.SnapUp(need - cur.MinY)
		ps.Translate(append([]string{id}, desc(id)...), Point{Y: dy})
		pushed++
	}
	return pushed
}

// Shift returns b translated by d.
func (b Bounds) Shift(d Point) Bounds {
	return Bounds{MinX: b.MinX + d.X, MinY: b.MinY + d.Y, MaxX: b.MaxX + d.X, MaxY: b.MaxY + d.Y}
}
