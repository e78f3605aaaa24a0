package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/canopy/pkg/layout"
)

// layoutCommand creates the layout command for compiling tree files.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output string
		opts   treeOpts
	)

	cmd := &cobra.Command{
		Use:   "layout [tree.json|tree.yaml]...",
		Short: "Compile folder trees into a grid layout",
		Long: `Compile folder trees into a grid layout.

Each file holds the folder tree of one storage integration. With more than
one file the trees are placed as services under a shared root. The output is
a layout.json file with every visible node, its grid position and the
parent-child edges, which 'render' can turn into a diagram.

Only the root is expanded by default; use --expand to open more folders.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args, opts, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <first input>.layout.json)")
	opts.register(cmd)

	return cmd
}

// runLayout builds the canvas and writes its snapshot.
func (c *CLI) runLayout(ctx context.Context, inputs []string, opts treeOpts, output string) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	prog := newProgress(loggerFromContext(ctx))
	cv, err := c.newCanvas(ctx, cfg, inputs, opts)
	if err != nil {
		return err
	}
	defer cv.Close()
	l := cv.Snapshot()
	prog.done(fmt.Sprintf("Compiled %d visible nodes", len(l.Nodes)))

	outputPath := output
	if outputPath == "" {
		outputPath = defaultOutput(inputs[0], ".layout.json")
	}
	if err := layout.WriteFile(l, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printLayoutStats(l, nil)
	printNextStep("Render", appName+" render "+outputPath)
	return nil
}

// defaultOutput derives an output path next to input.
func defaultOutput(input, suffix string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + suffix
}
