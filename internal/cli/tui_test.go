package cli

import (
	"slices"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/canopy/pkg/grid"
	"github.com/matzehuels/canopy/pkg/tree"
)

func send(t *testing.T, m canvasModel, msgs ...tea.Msg) canvasModel {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(canvasModel)
	}
	return m
}

func mouse(action tea.MouseAction, x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: action, Button: tea.MouseButtonLeft}
}

func TestScreenMapping(t *testing.T) {
	m := newCanvasModel(testCanvas(&tree.Node{ID: "A"}))

	col, row := m.toScreen(grid.Point{X: 200, Y: 80})
	if col != 22 || row != 5 {
		t.Errorf("toScreen(200,80) = (%d,%d), want (22,5)", col, row)
	}
	if p := m.toCanvas(col, row); p != (grid.Point{X: 200, Y: 80}) {
		t.Errorf("toCanvas(22,5) = %v", p)
	}
	if col, row := m.toScreen(grid.Point{X: -5, Y: -1}); col != 1 || row != 2 {
		t.Errorf("negative points should floor, got (%d,%d)", col, row)
	}

	if n, ok := m.hit(30, 5); !ok || n.ID != "A" {
		t.Errorf("hit(30,5) = %v, %v; want A", n.ID, ok)
	}
	if _, ok := m.hit(38, 5); ok {
		t.Error("hit past the node's right edge")
	}
}

func TestMouseDragReorders(t *testing.T) {
	cv := testCanvas(&tree.Node{ID: "A"}, &tree.Node{ID: "B"})
	m := newCanvasModel(cv)

	// A sits at cells (22..37, 5); grab it one column in and drop it at y=200
	m = send(t, m,
		mouse(tea.MouseActionPress, 23, 5),
		mouse(tea.MouseActionMotion, 23, 8),
		frameMsg(time.Now()),
		mouse(tea.MouseActionRelease, 23, 8),
	)

	if got := cv.Order("root"); !slices.Equal(got, []string{"B", "A"}) {
		t.Errorf("order = %v, want [B A]", got)
	}
	if !strings.HasPrefix(m.status, "moved A") {
		t.Errorf("status = %q", m.status)
	}
	if cv.Dragging() {
		t.Error("gesture still active after release")
	}
}

func TestDoubleClickToggles(t *testing.T) {
	cv := testCanvas(&tree.Node{ID: "S", Children: []*tree.Node{{ID: "X"}}})
	m := newCanvasModel(cv)
	clock := time.Unix(0, 0)
	m.now = func() time.Time { return clock }

	click := []tea.Msg{mouse(tea.MouseActionPress, 25, 5), mouse(tea.MouseActionRelease, 25, 5)}
	m = send(t, m, click...)
	if _, ok := cv.Snapshot().Find("X"); ok {
		t.Fatal("single click should not expand")
	}

	clock = clock.Add(100 * time.Millisecond)
	m = send(t, m, click...)
	if _, ok := cv.Snapshot().Find("X"); !ok {
		t.Fatal("double click should expand S")
	}
	if m.status != "S expanded" {
		t.Errorf("status = %q", m.status)
	}

	// slow clicks do not toggle back
	clock = clock.Add(time.Second)
	m = send(t, m, click...)
	clock = clock.Add(time.Second)
	send(t, m, click...)
	if _, ok := cv.Snapshot().Find("X"); !ok {
		t.Error("slow clicks collapsed S")
	}
}

func TestViewDrawsNodes(t *testing.T) {
	m := newCanvasModel(testCanvas(&tree.Node{ID: "S", Children: []*tree.Node{{ID: "X"}}}))
	m = send(t, m, tea.WindowSizeMsg{Width: 60, Height: 10})
	out := m.View()
	for _, want := range []string{"root", "▸ S"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q:\n%s", want, out)
		}
	}
}

func TestQuitKey(t *testing.T) {
	m := newCanvasModel(testCanvas())
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}
