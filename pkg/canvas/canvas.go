// Package canvas wires the layout engine together for one view.
//
// A [Canvas] owns a tree snapshot and every piece of per-view state: the
// expansion flags, the custom sibling order, the manual position store and
// the drag engine. Input collaborators call [Canvas.OnDrag],
// [Canvas.OnDragStop] and [Canvas.OnToggle]; a frame clock calls
// [Canvas.Tick]; renderers read [Canvas.Snapshot].
//
// Whenever the tree or the expansion state changes the canvas recompiles the
// baseline layout, drops manual positions of nodes that are no longer
// visible, overlays the remaining ones and tidies the result.
//
// A Canvas is not safe for concurrent use. After [Canvas.Close] every method
// is a no-op.
package canvas

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/canopy/pkg/config"
	"github.com/matzehuels/canopy/pkg/drag"
	"github.com/matzehuels/canopy/pkg/grid"
	"github.com/matzehuels/canopy/pkg/layout"
	"github.com/matzehuels/canopy/pkg/positions"
	"github.com/matzehuels/canopy/pkg/tree"
	"github.com/matzehuels/canopy/pkg/visibility"
)

// Option configures a Canvas.
type Option func(*Canvas)

// WithLogger sets the logger for the canvas and its drag engine.
func WithLogger(l *log.Logger) Option {
	return func(c *Canvas) {
		if l != nil {
			c.logger = l
		}
	}
}

// Canvas is one interactive view of a folder tree.
type Canvas struct {
	cfg    config.Layout
	logger *log.Logger

	root   *tree.Node
	idx    *tree.Index
	exp    *visibility.Expansion
	order  *visibility.Order
	manual *positions.Store
	engine *drag.Engine
	closed bool
}

// New returns an empty canvas.
func New(cfg config.Layout, opts ...Option) *Canvas {
	c := &Canvas{
		cfg:    cfg,
		logger: log.New(io.Discard),
		idx:    tree.NewIndex(nil),
		exp:    visibility.NewExpansion(cfg.DefaultMaxDepth),
		order:  visibility.NewOrder(),
		manual: positions.NewStore(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.engine = drag.New(cfg, drag.WithLogger(c.logger))
	return c
}

// SetTree replaces the tree snapshot. Expansion flags and custom orders are
// re-validated against it before the layout is rebuilt.
func (c *Canvas) SetTree(root *tree.Node) {
	if c.closed {
		return
	}
	c.root = root
	c.idx = tree.NewIndex(root)
	added, pruned := c.exp.Sync(c.idx)
	orders := c.order.Reconcile(c.idx)
	c.logger.Debug("tree updated",
		"nodes", c.idx.Len(),
		"expansion_added", added,
		"expansion_pruned", pruned,
		"orders_removed", orders)
	c.rebuild()
}

// OnToggle flips the expansion of id and rebuilds the layout. It returns the
// new flag and whether id is part of the tree.
func (c *Canvas) OnToggle(id string) (expanded, ok bool) {
	if c.closed || !c.idx.Contains(id) {
		return false, false
	}
	depth, _ := c.idx.Depth(id)
	expanded = c.exp.Toggle(id, depth, c.idx.ChildCount(id))
	c.rebuild()
	return expanded, true
}

// OnDrag queues a move of id to p for the next frame.
func (c *Canvas) OnDrag(id string, p grid.Point) bool {
	if c.closed {
		return false
	}
	return c.engine.Drag(id, p)
}

// Tick runs one pending drag frame and reports whether one ran.
func (c *Canvas) Tick() bool {
	if c.closed {
		return false
	}
	return c.engine.Tick()
}

// OnDragStop settles the gesture on id, stores the moved positions and
// records the new sibling order of id's parent.
func (c *Canvas) OnDragStop(id string, p grid.Point) (drag.Result, bool) {
	if c.closed {
		return drag.Result{}, false
	}
	res, ok := c.engine.Stop(id, p)
	if !ok {
		return res, false
	}
	c.manual.Set(res.Positions)
	if res.ParentID != "" && len(res.Order) > 0 {
		c.order.Merge(res.ParentID, c.idx.Children(res.ParentID), res.Order)
	}
	return res, true
}

// Snapshot returns the visible layout at current positions.
func (c *Canvas) Snapshot() layout.Layout {
	return c.engine.Layout()
}

// Order returns the effective child order of parent.
func (c *Canvas) Order(parent string) []string {
	return c.order.Children(parent, c.idx.Children(parent))
}

// ManualPosition returns the remembered position of id, if any.
func (c *Canvas) ManualPosition(id string) (grid.Point, bool) {
	return c.manual.Get(id)
}

// Dragging reports whether a gesture is in progress.
func (c *Canvas) Dragging() bool {
	return c.engine.Session() != nil
}

// Close cancels any pending frame and gesture. Later calls are no-ops.
func (c *Canvas) Close() {
	if c.closed {
		return
	}
	c.engine.Cancel()
	c.closed = true
}

func (c *Canvas) rebuild() {
	l := layout.Compile(c.root, c.exp, c.order, c.cfg)
	pruned := c.manual.Prune(l.IDs())
	c.engine.Load(c.manual.Apply(l))
	tidied := c.engine.Tidy()
	c.logger.Debug("layout rebuilt",
		"visible", len(l.Nodes),
		"manual", c.manual.Len(),
		"manual_pruned", pruned,
		"tidied", tidied)
}
