package grid

// Quadrant is the sign pair of a node's offset from its parent. Y grows
// downward, so QuadrantSE means right of and below the parent.
type Quadrant uint8

// Quadrants. A zero offset on an axis counts as positive.
const (
	QuadrantSE Quadrant = iota // +x, +y
	QuadrantSW                 // -x, +y
	QuadrantNE                 // +x, -y
	QuadrantNW                 // -x, -y
)

// QuadrantOf returns the quadrant of the offset (dx, dy).
func QuadrantOf(dx, dy float64) Quadrant {
	var q Quadrant
	if dx < 0 {
		q |= 1
	}
	if dy < 0 {
		q |= 2
	}
	return q
}

// SignX returns the horizontal sign of q.
func (q Quadrant) SignX() float64 {
	if q&1 != 0 {
		return -1
	}
	return 1
}

// SignY returns the vertical sign of q.
func (q Quadrant) SignY() float64 {
	if q&2 != 0 {
		return -1
	}
	return 1
}

func (q Quadrant) String() string {
	switch q {
	case QuadrantSE:
		return "SE"
	case QuadrantSW:
		return "SW"
	case QuadrantNE:
		return "NE"
	case QuadrantNW:
		return "NW"
	default:
		return "?"
	}
}
