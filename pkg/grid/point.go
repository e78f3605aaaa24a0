package grid

import "maps"

// Point is a position on the canvas.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Positions maps node ids to positions. It is the single piece of mutable
// state the drag engine owns.
type Positions map[string]Point

// Clone returns an independent copy.
func (ps Positions) Clone() Positions {
	return maps.Clone(ps)
}

// Translate moves every listed node that has a position by d. Unknown ids
// are skipped.
func (ps Positions) Translate(ids []string, d Point) {
	if d == (Point{}) {
		return
	}
	for _, id := range ids {
		if p, ok := ps[id]; ok {
			ps[id] = p.Add(d)
		}
	}
}

// SnapAll snaps every position to the grid.
func (g Grid) SnapAll(ps Positions) {
	for id, p := range ps {
		ps[id] = g.SnapPoint(p)
	}
}
