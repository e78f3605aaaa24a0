package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/canopy/pkg/errors"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != Default() {
		t.Errorf("Load(missing) = %+v, want defaults", cfg)
	}
}

func TestLoadOverridesOnlyGivenKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[layout]
snap_size = 10
vertical_gap = 60

[server]
frame_rate = 30
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Layout.SnapSize != 10 || cfg.Layout.VerticalGap != 60 {
		t.Errorf("layout = %+v", cfg.Layout)
	}
	if cfg.Layout.HorizontalGap != DefaultHorizontalGap {
		t.Errorf("HorizontalGap = %v, want default", cfg.Layout.HorizontalGap)
	}
	if cfg.Server.FrameRate != 30 || cfg.Server.Addr != DefaultAddr {
		t.Errorf("server = %+v", cfg.Server)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[layout]\nsnap = 10\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("Load = %v, want INVALID_CONFIG", err)
	}
}

func TestLayoutValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Layout)
	}{
		{"zero snap", func(l *Layout) { l.SnapSize = 0 }},
		{"negative gap", func(l *Layout) { l.VerticalGap = -80 }},
		{"gap off grid", func(l *Layout) { l.HorizontalGap = 210 }},
		{"negative pad", func(l *Layout) { l.BranchPad = -1 }},
		{"zero step cap", func(l *Layout) { l.StepCap = 0 }},
		{"negative hysteresis", func(l *Layout) { l.Hysteresis = -1 }},
		{"negative depth", func(l *Layout) { l.DefaultMaxDepth = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := DefaultLayout()
			tt.mutate(&l)
			if err := l.Validate(); !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("Validate() = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestPathHonorsXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	p, err := Path()
	if err != nil {
		t.Fatal(err)
	}
	if p != filepath.Join("/tmp/xdg", "canopy", "config.toml") {
		t.Errorf("Path() = %q", p)
	}
}
