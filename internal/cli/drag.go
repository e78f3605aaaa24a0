package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/canopy/pkg/layout"
	"github.com/matzehuels/canopy/pkg/render/nodelink"
)

// dragCommand creates the drag command, which replays a gesture script.
func (c *CLI) dragCommand() *cobra.Command {
	var (
		scriptPath string
		output     string
		dotOutput  string
		opts       treeOpts
	)

	cmd := &cobra.Command{
		Use:   "drag [tree.json|tree.yaml]... --script gestures.yaml",
		Short: "Replay drag and toggle gestures against a layout",
		Long: `Replay drag and toggle gestures against a layout.

The script lists steps, each either a toggle or a drag:

  steps:
    - toggle: drive
    - drag:
        node: drive
        path: [[200, 150], [200, 190]]
        frames: 1

Path points are fed to the canvas as pointer moves. A frame runs after
every 'frames' points (default 1) and the last point releases the node,
which settles it on the grid. The final layout is written as JSON.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDrag(cmd.Context(), args, opts, scriptPath, output, dotOutput)
		},
	}

	cmd.Flags().StringVarP(&scriptPath, "script", "s", "", "gesture script (YAML)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <first input>.dragged.json)")
	cmd.Flags().StringVar(&dotOutput, "dot", "", "also write the final layout as Graphviz DOT")
	opts.register(cmd)
	_ = cmd.MarkFlagRequired("script")

	return cmd
}

func (c *CLI) runDrag(ctx context.Context, inputs []string, opts treeOpts, scriptPath, output, dotOutput string) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	s, err := loadScript(scriptPath)
	if err != nil {
		return err
	}
	cv, err := c.newCanvas(ctx, cfg, inputs, opts)
	if err != nil {
		return err
	}
	defer cv.Close()

	prog := newProgress(loggerFromContext(ctx))
	results, err := replay(cv, s)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Replayed %d steps", len(results)))

	for _, r := range results {
		printStep(r)
	}

	l := cv.Snapshot()
	outputPath := output
	if outputPath == "" {
		outputPath = defaultOutput(inputs[0], ".dragged.json")
	}
	if err := layout.WriteFile(l, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Gestures applied")
	printFile(outputPath)
	if dotOutput != "" {
		if err := os.WriteFile(dotOutput, []byte(nodelink.ToDOT(l, nodelink.Options{})), 0o644); err != nil {
			return fmt.Errorf("write DOT %s: %w", dotOutput, err)
		}
		printFile(dotOutput)
	}
	return nil
}
