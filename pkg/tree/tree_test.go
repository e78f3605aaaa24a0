package tree

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

// sample builds:
//
//	root
//	├── drive
//	│   ├── docs
//	│   │   └── cv.pdf
//	│   └── photos
//	└── dropbox
func sample() *Node {
	return &Node{ID: "root", Name: "root", Children: []*Node{
		{ID: "drive", Name: "Drive", Children: []*Node{
			{ID: "docs", Name: "docs", Children: []*Node{{ID: "cv", Name: "cv.pdf"}}},
			{ID: "photos", Name: "photos"},
		}},
		{ID: "dropbox", Name: "Dropbox"},
	}}
}

func TestIndexLookups(t *testing.T) {
	idx := NewIndex(sample())

	if idx.Root() != "root" {
		t.Errorf("Root() = %q, want root", idx.Root())
	}
	if idx.Len() != 6 {
		t.Errorf("Len() = %d, want 6", idx.Len())
	}
	if p, ok := idx.Parent("cv"); !ok || p != "docs" {
		t.Errorf("Parent(cv) = %q, %v", p, ok)
	}
	if _, ok := idx.Parent("root"); ok {
		t.Error("root should have no parent")
	}
	if _, ok := idx.Parent("missing"); ok {
		t.Error("unknown id should have no parent")
	}
	if got := idx.Children("drive"); !slices.Equal(got, []string{"docs", "photos"}) {
		t.Errorf("Children(drive) = %v", got)
	}
	if got := len(idx.ChildNodes("drive")); got != 2 {
		t.Errorf("ChildNodes(drive) len = %d, want 2", got)
	}
	if d, _ := idx.Depth("cv"); d != 3 {
		t.Errorf("Depth(cv) = %d, want 3", d)
	}
}

func TestIndexDescendantsBreadthFirst(t *testing.T) {
	idx := NewIndex(sample())

	tests := []struct {
		id   string
		want []string
	}{
		{"root", []string{"drive", "dropbox", "docs", "photos", "cv"}},
		{"drive", []string{"docs", "photos", "cv"}},
		{"cv", nil},
		{"missing", nil},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			got := idx.Descendants(tt.id)
			if !slices.Equal(got, tt.want) {
				t.Errorf("Descendants(%s) = %v, want %v", tt.id, got, tt.want)
			}
			// memoized result is identical
			if again := idx.Descendants(tt.id); !slices.Equal(again, got) {
				t.Errorf("memoized Descendants(%s) = %v", tt.id, again)
			}
		})
	}
}

func TestIndexTopAncestor(t *testing.T) {
	idx := NewIndex(sample())

	tests := []struct {
		id     string
		want   string
		wantOK bool
	}{
		{"cv", "drive", true},
		{"drive", "drive", true},
		{"dropbox", "dropbox", true},
		{"root", "", false},
		{"nope", "", false},
	}
	for _, tt := range tests {
		got, ok := idx.TopAncestor(tt.id)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("TopAncestor(%s) = %q, %v; want %q, %v", tt.id, got, ok, tt.want, tt.wantOK)
		}
	}
	if !idx.IsAncestor("drive", "cv") || idx.IsAncestor("cv", "drive") {
		t.Error("IsAncestor mismatch")
	}
}

func TestNewIndexFromParents(t *testing.T) {
	ids := []string{"root", "a", "a1", "b"}
	parents := map[string]string{"root": "", "a": "root", "a1": "a", "b": "root"}
	idx := NewIndexFromParents(ids, parents)

	if got := idx.Children("root"); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("Children(root) = %v", got)
	}
	if d, _ := idx.Depth("a1"); d != 2 {
		t.Errorf("Depth(a1) = %d, want 2", d)
	}
	if idx.ChildNodes("root") != nil {
		t.Error("ChildNodes should be nil without payloads")
	}
	if got := idx.Branch("a"); !slices.Equal(got, []string{"a", "a1"}) {
		t.Errorf("Branch(a) = %v", got)
	}
}

func TestValidate(t *testing.T) {
	if err := Validate(sample()); err != nil {
		t.Fatalf("Validate(sample) = %v", err)
	}

	dup := sample()
	dup.Children[1].ID = "docs"
	if err := Validate(dup); !errors.Is(err, ErrDuplicateID) {
		t.Errorf("duplicate: got %v, want ErrDuplicateID", err)
	}

	empty := &Node{ID: "root", Children: []*Node{{}}}
	if err := Validate(empty); !errors.Is(err, ErrEmptyID) {
		t.Errorf("empty: got %v, want ErrEmptyID", err)
	}

	if err := Validate(nil); !errors.Is(err, ErrNilRoot) {
		t.Errorf("nil: got %v, want ErrNilRoot", err)
	}
}

func TestFilterDoesNotMutate(t *testing.T) {
	root := sample()
	out := Filter(root, func(s *Node) bool { return s.ID == "dropbox" })

	if len(out.Children) != 1 || out.Children[0].ID != "dropbox" {
		t.Errorf("Filter kept %v", out.Children)
	}
	if len(root.Children) != 2 {
		t.Error("Filter mutated its input")
	}
}

func TestParseDerivesIDs(t *testing.T) {
	data := []byte(`
name: drive
children:
  - name: docs
    children:
      - name: cv.pdf
        item: {size: 1024}
  - name: photos
`)
	root, err := Parse(data, FormatYAML)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	idx := NewIndex(root)
	for _, id := range []string{"drive", "drive/docs", "drive/docs/cv.pdf", "drive/photos"} {
		if !idx.Contains(id) {
			t.Errorf("missing derived id %q", id)
		}
	}
}

func TestLoadIntegrations(t *testing.T) {
	dir := t.TempDir()
	drive := filepath.Join(dir, "drive.json")
	box := filepath.Join(dir, "box.yaml")
	if err := os.WriteFile(drive, []byte(`{"id":"drive","name":"Drive","children":[{"name":"docs"}]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(box, []byte("id: box\nname: Box\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	root, err := LoadIntegrations(context.Background(), drive, box)
	if err != nil {
		t.Fatalf("LoadIntegrations: %v", err)
	}
	if root.ID != RootID {
		t.Errorf("root id = %q", root.ID)
	}
	if got := NewIndex(root).Children(RootID); !slices.Equal(got, []string{"drive", "box"}) {
		t.Errorf("services = %v, want [drive box]", got)
	}

	if _, err := LoadIntegrations(context.Background(), drive, filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
