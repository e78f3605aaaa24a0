// Package config loads canopy configuration from TOML files.
//
// All layout thresholds (grid size, gaps, per-frame step caps, hysteresis)
// are tunable parameters rather than constants baked into the algorithms, so
// the same engine can be calibrated for different node sizes and input
// devices.
//
// # File Format
//
//	[layout]
//	snap_size = 20
//	horizontal_gap = 200
//	vertical_gap = 80
//
//	[server]
//	addr = "127.0.0.1:7070"
//	frame_rate = 60
//
// A missing file is not an error: [Load] returns [Default] in that case.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/canopy/pkg/errors"
)

const appName = "canopy"

// Default layout values.
const (
	DefaultSnapSize        = 20.0
	DefaultHorizontalGap   = 200.0
	DefaultVerticalGap     = 80.0
	DefaultNodeWidth       = 160.0
	DefaultNodeHeight      = 40.0
	DefaultBranchPad       = 0.0
	DefaultMaxDepth        = 1
	DefaultStepCap         = 40.0
	DefaultHysteresis      = 4.0
	DefaultAddr            = "127.0.0.1:7070"
	DefaultFrameRate       = 60
	DefaultRenderFormat    = "svg"
	DefaultRenderCache     = true
)

// Config is the top-level configuration.
type Config struct {
	Layout Layout `toml:"layout"`
	Server Server `toml:"server"`
	Render Render `toml:"render"`
}

// Layout holds the grid, spacing and drag-tuning parameters shared by the
// static compiler and the drag engine.
type Layout struct {
	SnapSize        float64 `toml:"snap_size"`
	HorizontalGap   float64 `toml:"horizontal_gap"`
	VerticalGap     float64 `toml:"vertical_gap"`
	NodeWidth       float64 `toml:"node_width"`
	NodeHeight      float64 `toml:"node_height"`
	BranchPad       float64 `toml:"branch_pad"`
	DefaultMaxDepth int     `toml:"default_max_depth"`
	StepCap         float64 `toml:"step_cap"`
	Hysteresis      float64 `toml:"hysteresis"`
}

// Server configures the HTTP boundary.
type Server struct {
	Addr      string `toml:"addr"`
	FrameRate int    `toml:"frame_rate"`
	Watch     bool   `toml:"watch"`
}

// Render configures node-link export.
type Render struct {
	Format string `toml:"format"`
	Cache  bool   `toml:"cache"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Layout: DefaultLayout(),
		Server: Server{Addr: DefaultAddr, FrameRate: DefaultFrameRate},
		Render: Render{Format: DefaultRenderFormat, Cache: DefaultRenderCache},
	}
}

// DefaultLayout returns the built-in layout parameters.
func DefaultLayout() Layout {
	return Layout{
		SnapSize:        DefaultSnapSize,
		HorizontalGap:   DefaultHorizontalGap,
		VerticalGap:     DefaultVerticalGap,
		NodeWidth:       DefaultNodeWidth,
		NodeHeight:      DefaultNodeHeight,
		BranchPad:       DefaultBranchPad,
		DefaultMaxDepth: DefaultMaxDepth,
		StepCap:         DefaultStepCap,
		Hysteresis:      DefaultHysteresis,
	}
}

// Load reads the TOML file at path on top of [Default]. An empty path uses
// [Path]; a missing file returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		p, err := Path()
		if err != nil {
			return cfg, nil
		}
		path = p
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "read config %s", path)
	}
	if err := Decode(data, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	return cfg, cfg.Validate()
}

// Decode parses TOML into cfg, keeping existing values for absent keys.
func Decode(data []byte, cfg *Config) error {
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("unknown key %q", undecoded[0].String())
	}
	return nil
}

// Validate checks that all parameters are usable.
func (c Config) Validate() error {
	if err := c.Layout.Validate(); err != nil {
		return err
	}
	if c.Server.FrameRate <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "server.frame_rate must be positive, got %d", c.Server.FrameRate)
	}
	return nil
}

// Validate checks the layout parameters. Gaps must be positive multiples of
// the grid so that compiled positions land on grid points.
func (l Layout) Validate() error {
	switch {
	case l.SnapSize <= 0:
		return errors.New(errors.ErrCodeInvalidConfig, "layout.snap_size must be positive")
	case l.HorizontalGap <= 0 || l.VerticalGap <= 0:
		return errors.New(errors.ErrCodeInvalidConfig, "layout gaps must be positive")
	case l.NodeWidth <= 0 || l.NodeHeight <= 0:
		return errors.New(errors.ErrCodeInvalidConfig, "layout node size must be positive")
	case l.BranchPad < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "layout.branch_pad must not be negative")
	case l.StepCap <= 0:
		return errors.New(errors.ErrCodeInvalidConfig, "layout.step_cap must be positive")
	case l.Hysteresis < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "layout.hysteresis must not be negative")
	case l.DefaultMaxDepth < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "layout.default_max_depth must not be negative")
	}
	if !onGrid(l.HorizontalGap, l.SnapSize) || !onGrid(l.VerticalGap, l.SnapSize) {
		return errors.New(errors.ErrCodeInvalidConfig, "layout gaps must be multiples of snap_size (%g)", l.SnapSize)
	}
	return nil
}

func onGrid(v, size float64) bool {
	q := v / size
	return q == float64(int64(q))
}

// Path returns the default config file location following XDG
// (~/.config/canopy/config.toml).
func Path() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}
