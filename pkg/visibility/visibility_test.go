package visibility

import (
	"slices"
	"testing"

	"github.com/matzehuels/canopy/pkg/tree"
)

// sample builds a root with one service holding three collapsed folders,
// each with one file.
func sample() *tree.Node {
	folder := func(id string) *tree.Node {
		return &tree.Node{ID: id, Children: []*tree.Node{{ID: id + "/f"}}}
	}
	return &tree.Node{ID: "root", Children: []*tree.Node{
		{ID: "drive", Children: []*tree.Node{folder("a"), folder("b"), folder("c")}},
		{ID: "box"},
	}}
}

func TestIsExpanded(t *testing.T) {
	e := NewExpansion(1)
	tests := []struct {
		name     string
		id       string
		depth, n int
		want     bool
	}{
		{"leaf is never expanded", "f", 0, 0, false},
		{"root defaults open", "root", 0, 2, true},
		{"depth 1 defaults closed", "drive", 1, 3, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.IsExpanded(tt.id, tt.depth, tt.n); got != tt.want {
				t.Errorf("IsExpanded = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestToggle(t *testing.T) {
	e := NewExpansion(1)
	if !e.Toggle("drive", 1, 3) {
		t.Fatal("first toggle should expand")
	}
	if v, ok := e.Explicit("drive"); !ok || !v {
		t.Errorf("Explicit(drive) = %v, %v", v, ok)
	}
	if e.Toggle("drive", 1, 3) {
		t.Error("second toggle should collapse")
	}
	if e.Toggle("leaf", 1, 0) || e.Len() != 1 {
		t.Error("toggling a leaf should be a no-op")
	}
}

func TestSync(t *testing.T) {
	e := NewExpansion(1)
	e.Set("gone", true)
	added, pruned := e.Sync(tree.NewIndex(sample()))
	if pruned != 1 {
		t.Errorf("pruned = %d, want 1", pruned)
	}
	// root, drive, a, b, c have children
	if added != 5 {
		t.Errorf("added = %d, want 5", added)
	}
	if v, _ := e.Explicit("root"); !v {
		t.Error("root entry should hold its depth default (expanded)")
	}
	if v, ok := e.Explicit("a"); !ok || v {
		t.Errorf("a entry = %v, %v; want collapsed", v, ok)
	}

	// existing entries survive a second sync untouched
	e.Set("a", true)
	if added, pruned := e.Sync(tree.NewIndex(sample())); added != 0 || pruned != 0 {
		t.Errorf("second Sync = %d, %d", added, pruned)
	}
	if v, _ := e.Explicit("a"); !v {
		t.Error("Sync overwrote an explicit entry")
	}
}

func TestComputeVisibleExpandsOneLevel(t *testing.T) {
	e := NewExpansion(1)
	root := sample()

	visible := ComputeVisible(root, e)
	for _, id := range []string{"root", "drive", "box"} {
		if !visible[id] {
			t.Errorf("%s should always be visible", id)
		}
	}
	if visible["a"] {
		t.Error("children of a collapsed service should be hidden")
	}

	e.Toggle("drive", 1, 3)
	visible = ComputeVisible(root, e)
	for _, id := range []string{"a", "b", "c"} {
		if !visible[id] {
			t.Errorf("%s should be visible after expanding drive", id)
		}
		if visible[id+"/f"] {
			t.Errorf("grandchild %s/f should stay hidden", id)
		}
	}
	if len(visible) != 6 {
		t.Errorf("visible = %d nodes, want 6", len(visible))
	}
}

func TestOrderChildren(t *testing.T) {
	o := NewOrder()
	children := []string{"a", "b", "c"}
	if got := o.Children("p", children); !slices.Equal(got, children) {
		t.Errorf("no stored order: got %v", got)
	}

	o.Merge("p", children, []string{"b", "a", "c"})
	if got := o.Children("p", children); !slices.Equal(got, []string{"b", "a", "c"}) {
		t.Errorf("stored order: got %v", got)
	}

	// c removed and d added upstream
	if got := o.Children("p", []string{"a", "b", "d"}); !slices.Equal(got, []string{"b", "a", "d"}) {
		t.Errorf("reconciled order: got %v", got)
	}
}

func TestOrderMergeKeepsHiddenSlots(t *testing.T) {
	o := NewOrder()
	children := []string{"a", "b", "c", "d"}
	o.Merge("p", children, children)

	// b is hidden; the visible ones were reordered to d, a, c
	got := o.Merge("p", children, []string{"d", "a", "c"})
	want := []string{"d", "b", "a", "c"}
	if !slices.Equal(got, want) {
		t.Errorf("Merge = %v, want %v", got, want)
	}
}

func TestOrderReconcile(t *testing.T) {
	o := NewOrder()
	o.Merge("drive", []string{"a", "b", "c"}, []string{"c", "b", "a"})
	o.Merge("gone", []string{"x", "y"}, []string{"y", "x"})

	root := sample()
	root.Children[0].Children = root.Children[0].Children[:2] // drop c
	removed := o.Reconcile(tree.NewIndex(root))

	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	if got, _ := o.Get("drive"); !slices.Equal(got, []string{"b", "a"}) {
		t.Errorf("drive order = %v, want [b a]", got)
	}
	if _, ok := o.Get("gone"); ok {
		t.Error("order for a missing parent should be removed")
	}
}
