package drag

import (
	"cmp"
	"io"
	"math"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/canopy/pkg/config"
	"github.com/matzehuels/canopy/pkg/grid"
	"github.com/matzehuels/canopy/pkg/layout"
	"github.com/matzehuels/canopy/pkg/observability"
	"github.com/matzehuels/canopy/pkg/tree"
)

// eps absorbs floating-point noise in distance comparisons.
const eps = 1e-6

// Move is one pointer sample: the position the user is dragging id to.
type Move struct {
	NodeID string
	Target grid.Point
}

// Result describes a settled gesture.
type Result struct {
	SessionID string
	NodeID    string
	ParentID  string
	Scope     Scope
	// Positions holds every node that moved during the gesture, together with
	// all of its descendants, at its final position.
	Positions grid.Positions
	// Order lists the parent's visible children top to bottom.
	Order []string
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for debug output. The default discards.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// Engine owns node positions and resolves drag gestures against them.
type Engine struct {
	cfg    config.Layout
	grid   grid.Grid
	logger *log.Logger

	layout  layout.Layout
	idx     *tree.Index
	pos     grid.Positions
	session *Session
	moves   *Coalescer[Move]
}

// New returns an idle engine with no nodes.
func New(cfg config.Layout, opts ...Option) *Engine {
	e := &Engine{
		cfg:    cfg,
		grid:   grid.New(cfg),
		logger: log.New(io.Discard),
		idx:    tree.NewIndexFromParents(nil, nil),
		pos:    make(grid.Positions),
	}
	e.moves = NewCoalescer(e.frame)
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Load replaces all positions with those of l. An active session survives;
// its steps skip nodes that are no longer present.
func (e *Engine) Load(l layout.Layout) {
	e.layout = l
	e.idx = l.Index()
	e.pos = l.Positions()
}

// Positions returns a copy of the current positions.
func (e *Engine) Positions() grid.Positions { return e.pos.Clone() }

// Layout returns the loaded layout with current positions.
func (e *Engine) Layout() layout.Layout { return e.layout.WithPositions(e.pos) }

// Session returns the active session, or nil when idle. The session must not
// be modified.
func (e *Engine) Session() *Session { return e.session }

// Pending reports whether a move is waiting for the next frame.
func (e *Engine) Pending() bool { return e.moves.Pending() }

// Drag records a move event for id, starting a session if none is active for
// it. The move is applied on the next [Engine.Tick]. It returns false for
// unknown ids.
func (e *Engine) Drag(id string, target grid.Point) bool {
	if !e.idx.Contains(id) {
		return false
	}
	if e.session == nil || e.session.NodeID != id {
		e.begin(id)
	}
	e.moves.Push(Move{NodeID: id, Target: target})
	return true
}

// Tick runs one frame with the latest queued move and reports whether a
// frame ran.
func (e *Engine) Tick() bool { return e.moves.Tick() }

// Stop ends the gesture on id at target and settles it. A stop without a
// matching session is resolved from current positions. It returns false,
// discarding any session, when id is unknown.
func (e *Engine) Stop(id string, target grid.Point) (Result, bool) {
	if !e.idx.Contains(id) {
		e.moves.Cancel()
		e.session = nil
		return Result{}, false
	}
	if e.session == nil || e.session.NodeID != id {
		e.logger.Debug("drag stop without matching start", "node", id)
		e.begin(id)
	}
	e.moves.Push(Move{NodeID: id, Target: target})
	e.moves.Flush()

	res := e.settle()
	e.session = nil
	return res, true
}

// Cancel aborts the active gesture: the pending frame is dropped and nodes
// return to where they were when the gesture began.
func (e *Engine) Cancel() {
	e.moves.Cancel()
	if e.session == nil {
		return
	}
	for id, p := range e.session.baseline {
		if _, ok := e.pos[id]; ok {
			e.pos[id] = p
		}
	}
	e.logger.Debug("drag cancelled", "node", e.session.NodeID, "frames", e.session.Frames)
	e.session = nil
}

// Tidy snaps every node to the grid and restores the parent gap and sibling
// separation everywhere. It returns the number of branches moved.
func (e *Engine) Tidy() int {
	e.grid.SnapAll(e.pos)
	return e.enforceInvariants()
}

func (e *Engine) begin(id string) {
	e.moves.Cancel()
	s := newSession(e.idx, e.pos, id)
	e.session = s
	e.logger.Debug("drag start", "node", id, "scope", s.Scope, "family", len(s.Family), "session", s.ID)
	observability.Drag().OnDragStart(s.ID, id, s.Scope.String(), len(s.Family))
}

func (e *Engine) parentPos(s *Session) (grid.Point, bool) {
	if s.ParentID == "" {
		return grid.Point{}, false
	}
	p, ok := e.pos[s.ParentID]
	return p, ok
}

// horizontal reports whether x is the dominant axis of an offset from a
// parent, measured in units of the respective gap.
func (e *Engine) horizontal(rel grid.Point) bool {
	return math.Abs(rel.X)/e.cfg.HorizontalGap >= math.Abs(rel.Y)/e.cfg.VerticalGap
}

// satisfiesGap reports whether rel keeps the minimum distance from a parent.
func (e *Engine) satisfiesGap(rel grid.Point) bool {
	return math.Abs(rel.X) >= e.cfg.HorizontalGap-eps || math.Abs(rel.Y) >= e.cfg.VerticalGap-eps
}

// placeFamily puts the dragged node at target and positions the rest of the
// family from their start offsets, reflected on every axis where the
// dragged node is now on the other side of its parent.
func (e *Engine) placeFamily(s *Session, target, parent grid.Point, hasParent bool) {
	origin, ok := s.start[s.NodeID]
	if !ok {
		return
	}
	var flipX, flipY bool
	if hasParent {
		rel := target.Sub(parent)
		flipX = grid.Sign(rel.X) != grid.Sign(s.InitialOffset.X)
		flipY = grid.Sign(rel.Y) != grid.Sign(s.InitialOffset.Y)
	}
	for _, id := range s.Family {
		sp, ok := s.start[id]
		if !ok {
			continue
		}
		if _, live := e.pos[id]; !live {
			continue
		}
		off := sp.Sub(origin)
		if flipX {
			off.X = -off.X
		}
		if flipY {
			off.Y = -off.Y
		}
		e.pos[id] = target.Add(off)
	}
}

// spacingLevel returns the common ancestor whose child branches must keep
// apart during a drag of s, and the child of it containing the dragged node.
func (e *Engine) spacingLevel(s *Session) (ancestor, anchor string, ok bool) {
	switch {
	case s.ParentID == "":
		return "", "", false
	case s.Depth == 1:
		return s.ParentID, s.NodeID, true
	default:
		gp, ok := e.idx.Parent(s.ParentID)
		return gp, s.ParentID, ok
	}
}

type branch struct {
	id  string
	ids []string
	b   grid.Bounds
}

// branchesIn returns the child branches of parent in quadrant q, sorted by
// the top of their bounding box.
func (e *Engine) branchesIn(parent string, q grid.Quadrant) []branch {
	pp, ok := e.pos[parent]
	if !ok {
		return nil
	}
	var out []branch
	for _, k := range e.idx.Children(parent) {
		kp, ok := e.pos[k]
		if !ok || grid.QuadrantOf(kp.X-pp.X, kp.Y-pp.Y) != q {
			continue
		}
		ids := e.idx.Branch(k)
		b, ok := e.grid.BranchBounds(e.pos, ids)
		if !ok {
			continue
		}
		out = append(out, branch{id: k, ids: ids, b: b})
	}
	slices.SortStableFunc(out, func(a, b branch) int {
		return cmp.Compare(a.b.MinY, b.b.MinY)
	})
	return out
}

func (e *Engine) shift(br *branch, dy float64) {
	d := grid.Point{Y: dy}
	e.pos.Translate(br.ids, d)
	br.b = br.b.Shift(d)
}

// spaceBranches keeps the child branches of ancestor that share the anchor's
// quadrant at least the branch pad apart, moving branches away from the
// anchor by at most limit per call. It returns the number of moves.
func (e *Engine) spaceBranches(ancestor, anchor string, limit float64) int {
	ap, ok := e.pos[ancestor]
	if !ok {
		return 0
	}
	kp, ok := e.pos[anchor]
	if !ok {
		return 0
	}
	group := e.branchesIn(ancestor, grid.QuadrantOf(kp.X-ap.X, kp.Y-ap.Y))
	i := slices.IndexFunc(group, func(b branch) bool { return b.id == anchor })
	if i < 0 {
		return 0
	}
	pad := e.cfg.BranchPad
	moves := 0
	for j := i + 1; j < len(group); j++ {
		need := group[j-1].b.MaxY + pad - group[j].b.MinY
		if need <= eps {
			continue
		}
		e.shift(&group[j], min(e.grid.SnapUp(need), limit))
		moves++
	}
	for j := i - 1; j >= 0; j-- {
		need := group[j].b.MaxY + pad - group[j+1].b.MinY
		if need <= eps {
			continue
		}
		e.shift(&group[j], -min(e.grid.SnapUp(need), limit))
		moves++
	}
	return moves
}

// enforceInvariants restores, for every parent from the deepest up, the
// minimum gap to each child and the vertical separation of child branches
// within each quadrant. Branches only ever move away from their parent, so
// work done at deeper levels is carried along rigidly.
func (e *Engine) enforceInvariants() int {
	var parents []string
	for _, id := range e.idx.IDs() {
		if e.idx.ChildCount(id) > 0 {
			parents = append(parents, id)
		}
	}
	slices.SortStableFunc(parents, func(a, b string) int {
		da, _ := e.idx.Depth(a)
		db, _ := e.idx.Depth(b)
		return db - da
	})

	moved := 0
	for _, p := range parents {
		pp, ok := e.pos[p]
		if !ok {
			continue
		}
		for _, k := range e.idx.Children(p) {
			kp, ok := e.pos[k]
			if !ok || e.satisfiesGap(kp.Sub(pp)) {
				continue
			}
			ty := e.grid.Snap(pp.Y + grid.Sign(kp.Y-pp.Y)*e.cfg.VerticalGap)
			e.pos.Translate(e.idx.Branch(k), grid.Point{Y: ty - kp.Y})
			moved++
		}
		for _, q := range []grid.Quadrant{grid.QuadrantSE, grid.QuadrantSW, grid.QuadrantNE, grid.QuadrantNW} {
			moved += e.separate(e.branchesIn(p, q), q.SignY())
		}
	}
	return moved
}

// separate pushes overlapping branches of one quadrant group away from the
// parent: downward below it, upward above it.
func (e *Engine) separate(group []branch, dir float64) int {
	pad := e.cfg.BranchPad
	moved := 0
	if dir > 0 {
		for j := 1; j < len(group); j++ {
			if need := group[j-1].b.MaxY + pad - group[j].b.MinY; need > eps {
				e.shift(&group[j], e.grid.SnapUp(need))
				moved++
			}
		}
		return moved
	}
	for j := len(group) - 2; j >= 0; j-- {
		if need := group[j].b.MaxY + pad - group[j+1].b.MinY; need > eps {
			e.shift(&group[j], -e.grid.SnapUp(need))
			moved++
		}
	}
	return moved
}
