package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/canopy/pkg/layout"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to svg", "", []string{"svg"}},
		{"single format", "svg", []string{"svg"}},
		{"multiple formats", "svg,pdf,png", []string{"svg", "pdf", "png"}},
		{"spaces and case", " SVG , dot ", []string{"svg", "dot"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseFormats(tt.input); !slices.Equal(got, tt.want) {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidateFormats(t *testing.T) {
	tests := []struct {
		name    string
		formats []string
		wantErr bool
	}{
		{"valid svg", []string{"svg"}, false},
		{"valid all", []string{"svg", "pdf", "png", "dot"}, false},
		{"json is not a render format", []string{"json"}, true},
		{"mixed valid invalid", []string{"svg", "invalid"}, true},
		{"empty slice", []string{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateFormats(tt.formats)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateFormats(%v) error = %v, wantErr %v", tt.formats, err, tt.wantErr)
			}
		})
	}
}

func TestLayoutThenRenderDOT(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	dir := t.TempDir()
	treePath := filepath.Join(dir, "drive.yaml")
	src := "id: drive\nname: Drive\nchildren:\n  - name: docs\n  - name: photos\n"
	if err := os.WriteFile(treePath, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	var logs bytes.Buffer
	c := New(&logs, log.InfoLevel)
	layoutPath := filepath.Join(dir, "out.layout.json")

	root := c.RootCommand()
	root.SetArgs([]string{"layout", treePath, "-o", layoutPath, "--expand", "drive"})
	if err := root.Execute(); err != nil {
		t.Fatalf("layout: %v", err)
	}
	l, err := layout.ReadFile(layoutPath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if got := l.IDs(); !slices.Equal(got, []string{"root", "drive", "drive/docs", "drive/photos"}) {
		t.Errorf("layout ids = %v", got)
	}

	root = c.RootCommand()
	root.SetArgs([]string{"render", layoutPath, "-f", "dot", "-o", filepath.Join(dir, "out")})
	if err := root.Execute(); err != nil {
		t.Fatalf("render: %v", err)
	}
	dot, err := os.ReadFile(filepath.Join(dir, "out.dot"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(dot), `"drive" -> "drive/docs";`) {
		t.Errorf("DOT missing edge:\n%s", dot)
	}
}

func TestRenderRejectsUnknownFormat(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	c := New(&bytes.Buffer{}, log.InfoLevel)
	root := c.RootCommand()
	root.SetArgs([]string{"render", "missing.json", "-f", "gif"})
	root.SetErr(&bytes.Buffer{})
	if err := root.Execute(); err == nil {
		t.Error("expected error for unsupported format")
	}
}
