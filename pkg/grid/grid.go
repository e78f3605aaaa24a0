package grid

import (
	"math"

	"github.com/matzehuels/canopy/pkg/config"
)

// eps absorbs floating-point noise when comparing distances against gaps.
const eps = 1e-6

// Grid carries the snap unit and node box size.
type Grid struct {
	Size       float64
	NodeWidth  float64
	NodeHeight float64
}

// New returns the grid described by the layout configuration.
func New(l config.Layout) Grid {
	return Grid{Size: l.SnapSize, NodeWidth: l.NodeWidth, NodeHeight: l.NodeHeight}
}

// Snap rounds v to the nearest multiple of the grid size.
func (g Grid) Snap(v float64) float64 {
	return Snap(v, g.Size)
}

// SnapUp rounds v up to a multiple of the grid size.
func (g Grid) SnapUp(v float64) float64 {
	if g.Size <= 0 {
		return v
	}
	return clean(math.Ceil(v/g.Size-eps) * g.Size)
}

// SnapDown rounds v down to a multiple of the grid size.
func (g Grid) SnapDown(v float64) float64 {
	if g.Size <= 0 {
		return v
	}
	return clean(math.Floor(v/g.Size+eps) * g.Size)
}

// SnapPoint snaps both coordinates of p.
func (g Grid) SnapPoint(p Point) Point {
	return Point{X: g.Snap(p.X), Y: g.Snap(p.Y)}
}

// OnGrid reports whether v is a multiple of the grid size.
func (g Grid) OnGrid(v float64) bool {
	return math.Abs(g.Snap(v)-v) < eps
}

// Snap rounds v to the nearest multiple of size. A non-positive size returns
// v unchanged.
func Snap(v, size float64) float64 {
	if size <= 0 {
		return v
	}
	return clean(math.Round(v/size) * size)
}

// SnapWithMinimum returns a grid-aligned value whose distance from reference
// is at least minimum. When the nearest grid point already satisfies the
// minimum it is returned as is; otherwise the value moves to the first grid
// point at least minimum away from reference on the side given by dir
// (positive or negative; zero uses the side value is already on, defaulting
// to positive).
func (g Grid) SnapWithMinimum(value, reference, minimum, dir float64) float64 {
	s := g.Snap(value)
	if math.Abs(s-reference) >= minimum-eps {
		return s
	}
	if dir == 0 {
		dir = Sign(value - reference)
	}
	if dir > 0 {
		return g.SnapUp(reference + minimum)
	}
	return g.SnapDown(reference - minimum)
}

// ResolveDirection returns the sign of the first non-zero hint, or +1 when
// every hint is zero. Callers pass hints in priority order, typically the
// current drag displacement followed by the node's original offset.
func ResolveDirection(hints ...float64) float64 {
	for _, h := range hints {
		if math.Abs(h) > eps {
			return Sign(h)
		}
	}
	return 1
}

// Sign returns -1 for negative v and +1 otherwise. Zero counts as positive so
// that a node exactly level with its parent has a defined side.
func Sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}

// clean normalizes negative zero so serialized layouts stay byte-stable.
func clean(v float64) float64 {
	if v == 0 {
		return 0
	}
	return v
}
