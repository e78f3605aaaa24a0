// Package server exposes one canvas over HTTP for a browser front end.
//
// All canvas access is serialized by a mutex. A frame clock ticking at
// the configured frame rate drives [canvas.Canvas.Tick], so move events
// posted between two frames are coalesced the same way a browser's
// animation frame would coalesce them.
//
// # Routes
//
//	GET  /healthz     liveness probe
//	GET  /layout      current visible layout
//	POST /drag        {"id", "x", "y"} pointer move
//	POST /drag/stop   {"id", "x", "y"} pointer release, returns the settle result
//	POST /toggle      {"id"} flip expansion
package server

import (
	"context"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/canopy/pkg/canvas"
	"github.com/matzehuels/canopy/pkg/config"
	"github.com/matzehuels/canopy/pkg/errors"
	"github.com/matzehuels/canopy/pkg/tree"
)

// shutdownTimeout bounds graceful shutdown of in-flight requests.
const shutdownTimeout = 5 * time.Second

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger. The canvas shares it.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// Server serves a single canvas built from one or more tree files.
type Server struct {
	cfg    config.Config
	paths  []string
	logger *log.Logger

	mu     sync.Mutex
	canvas *canvas.Canvas
}

// New loads the tree files and builds the canvas.
func New(ctx context.Context, cfg config.Config, paths []string, opts ...Option) (*Server, error) {
	if len(paths) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no tree files given")
	}
	s := &Server{
		cfg:    cfg,
		paths:  paths,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	root, err := tree.LoadIntegrations(ctx, paths...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidTree, err, "load trees")
	}
	s.canvas = canvas.New(cfg.Layout, canvas.WithLogger(s.logger))
	s.canvas.SetTree(root)
	return s, nil
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Get("/layout", s.handleLayout)
	r.Post("/drag", s.handleDrag)
	r.Post("/drag/stop", s.handleDragStop)
	r.Post("/toggle", s.handleToggle)
	return r
}

// Run serves on the configured address until ctx is cancelled. It also runs
// the frame clock and, when enabled, the tree file watcher.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		s.runFrames(ctx)
		return nil
	})
	if s.cfg.Server.Watch {
		g.Go(func() error {
			return s.watch(ctx)
		})
	}

	err := g.Wait()
	s.mu.Lock()
	s.canvas.Close()
	s.mu.Unlock()
	return err
}

// runFrames ticks the canvas at the configured frame rate.
func (s *Server) runFrames(ctx context.Context) {
	ticker := time.NewTicker(time.Second / time.Duration(s.cfg.Server.FrameRate))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick()
		}
	}
}

func (s *Server) tick() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.canvas.Tick()
}

// reload re-reads the tree files and swaps them into the canvas. A failed
// load keeps the previous tree.
func (s *Server) reload(ctx context.Context) error {
	root, err := tree.LoadIntegrations(ctx, s.paths...)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidTree, err, "reload trees")
	}
	s.mu.Lock()
	s.canvas.SetTree(root)
	s.mu.Unlock()
	return nil
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).Round(time.Microsecond),
			"request_id", middleware.GetReqID(r.Context()))
	})
}
