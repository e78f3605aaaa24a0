package cli

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/canopy/pkg/buildinfo"
	"github.com/matzehuels/canopy/pkg/cache"
	"github.com/matzehuels/canopy/pkg/errors"
	"github.com/matzehuels/canopy/pkg/layout"
	"github.com/matzehuels/canopy/pkg/render"
	"github.com/matzehuels/canopy/pkg/render/nodelink"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string   // output base path
	formats  []string // svg, pdf, png, dot
	detailed bool     // show id, depth and child count in labels
	noCache  bool
}

// renderCommand creates the render command for exporting node-link diagrams.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{}

	cmd := &cobra.Command{
		Use:   "render [layout.json]",
		Short: "Render a layout as a node-link diagram",
		Long: `Render a layout as a node-link diagram.

The input is a layout.json file produced by 'layout' or 'drag'. Nodes are
pinned at their canvas positions, so the diagram matches the canvas exactly.
Expanded folders are filled, collapsed folders with hidden children are
dashed.

Rendered artifacts are cached by layout content; use --no-cache to bypass.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("format") {
				formatsStr = cfg.Render.Format
			}
			if !cmd.Flags().Changed("no-cache") {
				opts.noCache = !cfg.Render.Cache
			}
			opts.formats = parseFormats(formatsStr)
			if err := validateFormats(opts.formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output base path (default: <input> without extension)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", render.FormatSVG, "output formats, comma separated: svg, pdf, png, dot")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include node id, depth and child count in labels")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, opts renderOpts) error {
	data, err := os.ReadFile(input)
	if err != nil {
		return errors.Wrap(errors.ErrCodeFileNotFound, err, "read layout %s", input)
	}
	l, err := layout.Unmarshal(data)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse layout %s", input)
	}

	store, err := newCache(opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}
	defer store.Close()
	keyer := cache.NewScopedKeyer(nil, buildinfo.Version+":")
	layoutHash := cache.Hash(data)

	base := opts.output
	if base == "" {
		base = defaultOutput(input, "")
	}

	printInfo("Rendering %s", StyleHighlight.Render(input))
	for _, format := range opts.formats {
		out, cached, err := c.renderFormat(ctx, store, keyer.RenderKey(layoutHash, cache.RenderKeyOpts{
			Format:   format,
			Detailed: opts.detailed,
		}), l, format, opts.detailed)
		if err != nil {
			return err
		}

		path := base + "." + format
		if err := os.WriteFile(path, out, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
		printLayoutStats(l, &cached)
	}
	printSuccess("Render complete")
	return nil
}

// renderFormat returns the artifact for one format, from cache when possible.
func (c *CLI) renderFormat(ctx context.Context, store cache.Cache, key string, l layout.Layout, format string, detailed bool) ([]byte, bool, error) {
	if data, ok, err := store.Get(ctx, key); err != nil {
		printWarning("cache read failed: %v", err)
	} else if ok {
		return data, true, nil
	}

	var out []byte
	err := withSpinner(ctx, os.Stderr, fmt.Sprintf("Rendering %s...", strings.ToUpper(format)), func() error {
		var err error
		out, err = nodelink.Render(ctx, l, format, nodelink.Options{Detailed: detailed})
		return err
	})
	if err != nil {
		printError("Render %s failed", format)
		return nil, false, fmt.Errorf("render %s: %w", format, err)
	}

	if err := store.Set(ctx, key, out, 0); err != nil {
		c.Logger.Warn("cache write failed", "err", err)
	}
	return out, false, nil
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{render.FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func validateFormats(formats []string) error {
	for _, f := range formats {
		if !slices.Contains(render.Formats, f) {
			return errors.New(errors.ErrCodeUnsupported, "unsupported format %q (want one of %s)", f, strings.Join(render.Formats, ", "))
		}
	}
	return nil
}
