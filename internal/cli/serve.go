package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/canopy/internal/server"
)

// serveCommand creates the serve command exposing the canvas over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		frameRate int
		watch     bool
	)

	cmd := &cobra.Command{
		Use:   "serve [tree.json|tree.yaml]...",
		Short: "Serve the canvas over HTTP",
		Long: `Serve the canvas over HTTP for a browser front end.

Routes:
  GET  /healthz
  GET  /layout
  POST /drag        {"id": "...", "x": 0, "y": 0}
  POST /drag/stop   {"id": "...", "x": 0, "y": 0}
  POST /toggle      {"id": "..."}

Pointer moves are coalesced and applied once per frame at --frame-rate.
With --watch the tree files are reloaded when they change.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			if cmd.Flags().Changed("frame-rate") {
				cfg.Server.FrameRate = frameRate
			}
			if cmd.Flags().Changed("watch") {
				cfg.Server.Watch = watch
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			srv, err := server.New(cmd.Context(), cfg, args, server.WithLogger(loggerFromContext(cmd.Context())))
			if err != nil {
				return err
			}
			printInfo("Serving on %s", StyleLink.Render("http://"+cfg.Server.Addr))
			printKeyValue("frame rate", fmt.Sprintf("%d/s", cfg.Server.FrameRate))
			printKeyValue("trees", strings.Join(args, ", "))
			if cfg.Server.Watch {
				printKeyValue("watch", "on")
			}
			return srv.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().IntVar(&frameRate, "frame-rate", 0, "drag frames per second (default from config)")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "reload tree files on change")

	return cmd
}
