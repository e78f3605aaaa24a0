package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/canopy/pkg/buildinfo"
	"github.com/matzehuels/canopy/pkg/cache"
	"github.com/matzehuels/canopy/pkg/canvas"
	"github.com/matzehuels/canopy/pkg/config"
	"github.com/matzehuels/canopy/pkg/errors"
	"github.com/matzehuels/canopy/pkg/tree"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "canopy"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger     *log.Logger
	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Canopy lays out folder trees on an interactive grid canvas",
		Long:         `Canopy compiles a folder tree from one or more storage integrations into a grid-aligned cascade and lets you rearrange it by dragging, while keeping parent gaps and sibling separation intact.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/canopy/config.toml)")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.dragCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.tuiCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Shared Helpers
// =============================================================================

// loadConfig reads the --config file, or the default location.
func (c *CLI) loadConfig() (config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return cfg, err
	}
	c.Logger.Debug("config loaded", "path", c.configPath, "snap", cfg.Layout.SnapSize)
	return cfg, nil
}

// loadTree reads and aggregates the given integration files.
func loadTree(ctx context.Context, paths []string) (*tree.Node, error) {
	root, err := tree.LoadIntegrations(ctx, paths...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidTree, err, "load trees")
	}
	return root, nil
}

// treeOpts selects and prepares the tree shown on a canvas.
type treeOpts struct {
	services []string // keep only these top-level services (all when empty)
	expand   []string // node ids to toggle open after loading
}

func (o *treeOpts) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&o.services, "service", nil, "only show these services (repeatable)")
	cmd.Flags().StringSliceVarP(&o.expand, "expand", "e", nil, "expand these node ids (repeatable)")
}

// newCanvas loads the trees, applies the service filter and builds a canvas
// with the requested nodes expanded.
func (c *CLI) newCanvas(ctx context.Context, cfg config.Config, paths []string, opts treeOpts) (*canvas.Canvas, error) {
	root, err := loadTree(ctx, paths)
	if err != nil {
		return nil, err
	}
	if len(opts.services) > 0 {
		keep := make(map[string]bool, len(opts.services))
		for _, s := range opts.services {
			keep[s] = true
		}
		root = tree.Filter(root, func(s *tree.Node) bool { return keep[s.ID] || keep[s.Name] })
	}
	cv := canvas.New(cfg.Layout, canvas.WithLogger(loggerFromContext(ctx)))
	cv.SetTree(root)
	for _, id := range opts.expand {
		expanded, ok := cv.OnToggle(id)
		if !ok {
			return nil, errors.New(errors.ErrCodeNotFound, "cannot expand %q: not in tree", id)
		}
		if !expanded {
			c.Logger.Warn("node collapsed by --expand", "id", id)
		}
	}
	return cv, nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/canopy/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
