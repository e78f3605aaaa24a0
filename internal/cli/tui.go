package cli

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/canopy/pkg/canvas"
	"github.com/matzehuels/canopy/pkg/grid"
	"github.com/matzehuels/canopy/pkg/layout"
)

// Terminal cell size in canvas pixels. With the default 160x40 node box a
// node is 16 columns wide and one row tall.
const (
	cellWidth      = 10.0
	cellHeight     = 40.0
	headerRows     = 2
	frameInterval  = time.Second / 60
	doubleClickGap = 400 * time.Millisecond
)

// Canvas styles
var (
	nodeExpandedStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	nodeCollapsedStyle = lipgloss.NewStyle().Foreground(colorWhite)
	nodeLeafStyle      = lipgloss.NewStyle().Foreground(colorGray)
	nodeDraggingStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorGreen)
	edgeStyle          = lipgloss.NewStyle().Foreground(colorDim)
)

// tuiCommand creates the interactive terminal canvas.
func (c *CLI) tuiCommand() *cobra.Command {
	var opts treeOpts

	cmd := &cobra.Command{
		Use:   "tui [tree.json|tree.yaml]...",
		Short: "Arrange the tree interactively in the terminal",
		Long: `Arrange the tree interactively in the terminal.

Drag nodes with the mouse, double-click a folder to expand or collapse it,
pan with the arrow keys and quit with q. Each cell is 10x40 canvas pixels.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTUI(cmd.Context(), args, opts)
		},
	}
	opts.register(cmd)

	return cmd
}

func (c *CLI) runTUI(ctx context.Context, inputs []string, opts treeOpts) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	cv, err := c.newCanvas(ctx, cfg, inputs, opts)
	if err != nil {
		return err
	}
	defer cv.Close()

	// The canvas logger would write over the alternate screen.
	level := c.Logger.GetLevel()
	c.Logger.SetLevel(log.FatalLevel)
	defer c.Logger.SetLevel(level)

	p := tea.NewProgram(newCanvasModel(cv), tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithContext(ctx))
	_, err = p.Run()
	return err
}

// =============================================================================
// canvasModel - Interactive canvas
// =============================================================================

type frameMsg time.Time

// canvasModel is the bubbletea model driving a [canvas.Canvas].
type canvasModel struct {
	cv     *canvas.Canvas
	width  int
	height int

	// screen cell of canvas point (0, 0)
	originX, originY int

	pressed  string     // node under the last left press
	grab     grid.Point // pointer offset inside the pressed node
	dragging bool

	lastClick   string
	lastClickAt time.Time
	status      string
	now         func() time.Time
}

func newCanvasModel(cv *canvas.Canvas) canvasModel {
	return canvasModel{
		cv:      cv,
		width:   80,
		height:  24,
		originX: 2,
		originY: headerRows + 1,
		now:     time.Now,
	}
}

func frame() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

func (m canvasModel) Init() tea.Cmd {
	return frame()
}

func (m canvasModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		m.cv.Tick()
		return m, frame()
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "left", "h":
			m.originX += 4
		case "right", "l":
			m.originX -= 4
		case "up", "k":
			m.originY++
		case "down", "j":
			m.originY--
		}
	case tea.MouseMsg:
		m = m.mouse(msg)
	}
	return m, nil
}

func (m canvasModel) mouse(msg tea.MouseMsg) canvasModel {
	p := m.toCanvas(msg.X, msg.Y)
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m
		}
		n, ok := m.hit(msg.X, msg.Y)
		if !ok {
			m.pressed = ""
			return m
		}
		m.pressed = n.ID
		m.grab = p.Sub(n.Position)
		m.dragging = false
	case tea.MouseActionMotion:
		if m.pressed == "" {
			return m
		}
		if m.cv.OnDrag(m.pressed, p.Sub(m.grab)) {
			m.dragging = true
		}
	case tea.MouseActionRelease:
		if m.pressed == "" {
			return m
		}
		id := m.pressed
		m.pressed = ""
		if m.dragging {
			m.dragging = false
			if res, ok := m.cv.OnDragStop(id, p.Sub(m.grab)); ok {
				m.status = fmt.Sprintf("moved %s (%d nodes)", id, len(res.Positions))
			}
			return m
		}
		m = m.click(id)
	}
	return m
}

// click toggles id on the second click within the double-click window.
func (m canvasModel) click(id string) canvasModel {
	now := m.now()
	if id == m.lastClick && now.Sub(m.lastClickAt) <= doubleClickGap {
		if expanded, ok := m.cv.OnToggle(id); ok {
			m.status = id + " collapsed"
			if expanded {
				m.status = id + " expanded"
			}
		}
		m.lastClick = ""
		return m
	}
	m.lastClick, m.lastClickAt = id, now
	return m
}

// toCanvas maps a screen cell to the canvas point at its top-left corner.
func (m canvasModel) toCanvas(col, row int) grid.Point {
	return grid.Point{
		X: float64(col-m.originX) * cellWidth,
		Y: float64(row-m.originY) * cellHeight,
	}
}

// toScreen maps a canvas point to the screen cell containing it.
func (m canvasModel) toScreen(p grid.Point) (col, row int) {
	return m.originX + int(math.Floor(p.X/cellWidth)), m.originY + int(math.Floor(p.Y/cellHeight))
}

func nodeCells(n layout.Node) (w, h int) {
	return max(1, int(n.Width/cellWidth)), max(1, int(n.Height/cellHeight))
}

// hit returns the topmost node covering a screen cell.
func (m canvasModel) hit(col, row int) (layout.Node, bool) {
	nodes := m.cv.Snapshot().Nodes
	for i := len(nodes) - 1; i >= 0; i-- {
		n := nodes[i]
		c0, r0 := m.toScreen(n.Position)
		w, h := nodeCells(n)
		if col >= c0 && col < c0+w && row >= r0 && row < r0+h {
			return n, true
		}
	}
	return layout.Node{}, false
}

func (m canvasModel) View() string {
	var b strings.Builder
	b.WriteString(StyleTitle.Render("canopy"))
	if m.status != "" {
		b.WriteString("  " + StyleDim.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("drag move  double-click expand/collapse  ←↑↓→ pan  q quit"))
	b.WriteString("\n")

	rows := m.height - headerRows
	if rows <= 0 || m.width <= 0 {
		return b.String()
	}
	sc := newScreen(m.width, rows)
	l := m.cv.Snapshot()

	pos := make(map[string]layout.Node, len(l.Nodes))
	for _, n := range l.Nodes {
		pos[n.ID] = n
	}
	for _, e := range l.Edges {
		src, dst := pos[e.Source], pos[e.Target]
		sc.edge(m, src, dst)
	}
	for _, n := range l.Nodes {
		style := nodeLeafStyle
		switch {
		case n.ID == m.pressed && m.dragging:
			style = nodeDraggingStyle
		case n.Expanded:
			style = nodeExpandedStyle
		case n.ChildCount > 0:
			style = nodeCollapsedStyle
		}
		sc.node(m, n, style)
	}
	b.WriteString(sc.String())
	return b.String()
}

// =============================================================================
// screen - styled cell buffer
// =============================================================================

type cell struct {
	r     rune
	style *lipgloss.Style
}

type screen struct {
	w, h  int
	cells [][]cell
}

func newScreen(w, h int) *screen {
	s := &screen{w: w, h: h, cells: make([][]cell, h)}
	for i := range s.cells {
		s.cells[i] = make([]cell, w)
		for j := range s.cells[i] {
			s.cells[i][j].r = ' '
		}
	}
	return s
}

func (s *screen) set(col, row int, r rune, style *lipgloss.Style) {
	row -= headerRows
	if row < 0 || row >= s.h || col < 0 || col >= s.w {
		return
	}
	s.cells[row][col] = cell{r: r, style: style}
}

// edge draws an elbow from below the parent's left edge to the child's row.
func (s *screen) edge(m canvasModel, parent, child layout.Node) {
	pc, pr := m.toScreen(parent.Position)
	cc, cr := m.toScreen(child.Position)
	x := pc + 1
	step := 1
	if cr < pr {
		step = -1
	}
	for r := pr + step; r != cr; r += step {
		s.set(x, r, '│', &edgeStyle)
	}
	corner := '└'
	if step < 0 {
		corner = '┌'
	}
	s.set(x, cr, corner, &edgeStyle)
	lo, hi := min(x, cc), max(x, cc)
	for c := lo + 1; c < hi; c++ {
		s.set(c, cr, '─', &edgeStyle)
	}
}

func (s *screen) node(m canvasModel, n layout.Node, style lipgloss.Style) {
	col, row := m.toScreen(n.Position)
	w, _ := nodeCells(n)
	label := n.Name
	if label == "" {
		label = n.ID
	}
	marker := ' '
	switch {
	case n.Expanded:
		marker = '▾'
	case n.ChildCount > 0:
		marker = '▸'
	}
	text := []rune(string(marker) + " " + label)
	for i := 0; i < w; i++ {
		r := ' '
		if i < len(text) {
			r = text[i]
		}
		if i == w-1 && len(text) > w {
			r = '…'
		}
		s.set(col+i, row, r, &style)
	}
}

// String renders rows, merging runs that share a style.
func (s *screen) String() string {
	var b strings.Builder
	for i, row := range s.cells {
		var run strings.Builder
		var cur *lipgloss.Style
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if cur != nil {
				b.WriteString(cur.Render(run.String()))
			} else {
				b.WriteString(run.String())
			}
			run.Reset()
		}
		for _, c := range row {
			if c.style != cur {
				flush()
				cur = c.style
			}
			run.WriteRune(c.r)
		}
		flush()
		if i < len(s.cells)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
