package layout

import (
	"time"

	"github.com/matzehuels/canopy/pkg/config"
	"github.com/matzehuels/canopy/pkg/grid"
	"github.com/matzehuels/canopy/pkg/observability"
	"github.com/matzehuels/canopy/pkg/tree"
	"github.com/matzehuels/canopy/pkg/visibility"
)

// Orderer arranges the children of a parent. [visibility.Order] implements
// it.
type Orderer interface {
	Children(parent string, children []string) []string
}

// Compile places every visible node of root. A nil exp uses the depth
// defaults of cfg.DefaultMaxDepth; a nil order keeps tree order.
func Compile(root *tree.Node, exp visibility.Expander, order Orderer, cfg config.Layout) Layout {
	start := time.Now()
	if exp == nil {
		exp = visibility.NewExpansion(cfg.DefaultMaxDepth)
	}
	c := &compiler{exp: exp, order: order, cfg: cfg, grid: grid.New(cfg)}
	if root != nil {
		c.place(root, "", 0, 0, 0)
	}
	observability.Layout().OnCompile(len(c.out.Nodes), time.Since(start))
	return c.out
}

type compiler struct {
	exp   visibility.Expander
	order Orderer
	cfg   config.Layout
	grid  grid.Grid
	out   Layout
}

// place emits n at (x, y) and its visible subtree below it. It returns the Y
// of the deepest row the subtree occupies.
func (c *compiler) place(n *tree.Node, parent string, depth int, x, y float64) float64 {
	expanded := c.exp.IsExpanded(n.ID, depth, len(n.Children))
	c.out.Nodes = append(c.out.Nodes, Node{
		ID:         n.ID,
		Name:       n.Label(),
		ParentID:   parent,
		Depth:      depth,
		Position:   c.grid.SnapPoint(grid.Point{X: x, Y: y}),
		Width:      c.cfg.NodeWidth,
		Height:     c.cfg.NodeHeight,
		ChildCount: len(n.Children),
		Expanded:   expanded,
	})
	if parent != "" {
		c.out.Edges = append(c.out.Edges, Edge{Source: parent, Target: n.ID})
	}

	last := y
	if !visibility.ShowsChildren(c.exp, n.ID, depth, len(n.Children)) {
		return last
	}
	for _, child := range c.children(n) {
		last = c.place(child, n.ID, depth+1, x+c.cfg.HorizontalGap, last+c.cfg.VerticalGap)
	}
	return last
}

func (c *compiler) children(n *tree.Node) []*tree.Node {
	if c.order == nil {
		return n.Children
	}
	ids := make([]string, len(n.Children))
	byID := make(map[string]*tree.Node, len(n.Children))
	for i, ch := range n.Children {
		ids[i] = ch.ID
		byID[ch.ID] = ch
	}
	ordered := c.order.Children(n.ID, ids)
	out := make([]*tree.Node, 0, len(ordered))
	for _, id := range ordered {
		if ch, ok := byID[id]; ok {
			out = append(out, ch)
		}
	}
	return out
}
