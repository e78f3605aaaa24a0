package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/canopy/pkg/layout"
)

// =============================================================================
// Palette & Styles
// =============================================================================

var (
	colorTeal  = lipgloss.Color("36")
	colorGreen = lipgloss.Color("35")
	colorAmber = lipgloss.Color("220")
	colorRed   = lipgloss.Color("167")
	colorBlue  = lipgloss.Color("75")
	colorWhite = lipgloss.Color("255")
	colorGray  = lipgloss.Color("245")
	colorDim   = lipgloss.Color("240")
)

var (
	// StyleTitle renders the TUI header.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorTeal)

	// StyleHighlight marks node ids and input paths.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorTeal)

	// StyleLink marks server URLs.
	StyleLink = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)

	// StyleDim is used for secondary text and canvas edges.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue marks written paths and key/value values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleWarning marks recoverable problems.
	StyleWarning = lipgloss.NewStyle().Foreground(colorAmber)
)

var (
	styleOK      = lipgloss.NewStyle().Foreground(colorGreen)
	styleFail    = lipgloss.NewStyle().Foreground(colorRed)
	styleMuted   = lipgloss.NewStyle().Foreground(colorGray)
	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
	styleKey     = lipgloss.NewStyle().Foreground(colorGray).Width(12)
)

const (
	iconOK    = "✓"
	iconFail  = "✗"
	iconWarn  = "!"
	iconInfo  = "›"
	iconArrow = "→"
)

// stdout receives all status output. Tests swap it for a buffer.
var stdout io.Writer = os.Stdout

// =============================================================================
// Status Lines
// =============================================================================

func writeLine(s string) { fmt.Fprintln(stdout, s) }

func printSuccess(format string, args ...any) {
	writeLine(styleOK.Render(iconOK) + " " + fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	writeLine(styleFail.Render(iconFail) + " " + fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	writeLine(StyleWarning.Render(iconWarn) + " " + StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	writeLine(styleMuted.Render(iconInfo) + " " + fmt.Sprintf(format, args...))
}

// printDetail prints an indented secondary line.
func printDetail(format string, args ...any) {
	writeLine("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a written output path.
func printFile(path string) {
	writeLine("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	writeLine(styleKey.Render(key) + " " + StyleValue.Render(value))
}

// printNextStep suggests a follow-up command.
func printNextStep(description, cmd string) {
	writeLine("\n" + StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

// =============================================================================
// Layout Summaries
// =============================================================================

// layoutStats summarises a layout for status output.
type layoutStats struct {
	nodes     int
	edges     int
	collapsed int // nodes hiding at least one child
	depth     int
}

func statsOf(l layout.Layout) layoutStats {
	s := layoutStats{nodes: len(l.Nodes), edges: len(l.Edges)}
	for _, n := range l.Nodes {
		if n.ChildCount > 0 && !n.Expanded {
			s.collapsed++
		}
		s.depth = max(s.depth, n.Depth)
	}
	return s
}

// printLayoutStats prints node, edge and collapse counts on one line. cached
// is nil when caching does not apply.
func printLayoutStats(l layout.Layout, cached *bool) {
	s := statsOf(l)
	parts := []string{
		fmt.Sprintf("%d nodes", s.nodes),
		fmt.Sprintf("%d edges", s.edges),
		fmt.Sprintf("depth %d", s.depth),
	}
	if s.collapsed > 0 {
		parts = append(parts, fmt.Sprintf("%d collapsed", s.collapsed))
	}
	line := StyleDim.Render(strings.Join(parts, " · "))
	if cached != nil {
		if *cached {
			line += StyleDim.Render(" · ") + styleOK.Render("cached")
		} else {
			line += StyleDim.Render(" · ") + styleMuted.Render("fresh")
		}
	}
	writeLine("  " + line)
}

// printStep reports one replayed gesture step.
func printStep(r stepResult) {
	switch r.Kind {
	case stepToggle:
		state := "collapsed"
		if r.Expanded {
			state = "expanded"
		}
		printInfo("toggle %s %s", StyleHighlight.Render(r.NodeID), StyleDim.Render(state))
	case stepDrag:
		printInfo("drag %s %s", StyleHighlight.Render(r.NodeID),
			StyleDim.Render(fmt.Sprintf("%s scope · %d frames · %d moved", r.Drag.Scope, r.Frames, len(r.Drag.Positions))))
		if len(r.Drag.Order) > 0 {
			printDetail("order under %s: %s", r.Drag.ParentID, strings.Join(r.Drag.Order, ", "))
		}
	}
}
