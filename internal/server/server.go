// Package server serves the output tree in live mode together with the live
// reload stream, a health check and optionally Prometheus metrics.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	derrors "git.home.luguber.info/inful/docpress/internal/foundation/errors"
	"git.home.luguber.info/inful/docpress/internal/logfields"
)

// Options configures the live server.
type Options struct {
	// Root is the directory served at /.
	Root string
	// Port to listen on; 0 picks a free port.
	Port int
	// Hub enables /livereload and /livereload.js when set.
	Hub *LiveReloadHub
	// Metrics is served at MetricsPath when set.
	Metrics     http.Handler
	MetricsPath string
	Logger      *slog.Logger
}

// Server is the live-mode HTTP server.
type Server struct {
	opts   Options
	srv    *http.Server
	ln     net.Listener
	logger *slog.Logger
}

// New creates a server for opts. It does not listen until Start.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.MetricsPath == "" {
		opts.MetricsPath = "/metrics"
	}
	return &Server{opts: opts, logger: logger}
}

// Handler returns the routed handler wrapped in logging and recovery.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	if s.opts.Hub != nil {
		mux.Handle("/livereload", s.opts.Hub)
		mux.HandleFunc("/livereload.js", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
			w.Header().Set("Cache-Control", "no-cache")
			_, _ = w.Write([]byte(LiveReloadScript))
		})
	}
	if s.opts.Metrics != nil {
		mux.Handle(s.opts.MetricsPath, s.opts.Metrics)
	}
	files := http.FileServer(http.Dir(s.opts.Root))
	mux.Handle("/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache")
		files.ServeHTTP(w, r)
	}))
	return chain(s.logger, mux)
}

// Start binds the port and serves in the background. Bind failures are
// returned immediately.
func (s *Server) Start(ctx context.Context) error {
	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", fmt.Sprintf(":%d", s.opts.Port))
	if err != nil {
		return derrors.WrapError(err, derrors.CategoryRuntime, "bind live server").
			WithContext("port", s.opts.Port).
			Fatal().
			Build()
	}
	s.ln = ln
	s.srv = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Live server error", logfields.Error(err))
		}
	}()
	s.logger.Info("Live server listening",
		slog.String("url", "http://localhost:"+portOf(ln.Addr())),
		logfields.Path(s.opts.Root))
	return nil
}

// Addr returns the bound address, or "" before Start.
func (s *Server) Addr() string {
	if s.ln == nil {
		return ""
	}
	return s.ln.Addr().String()
}

// Stop closes live reload clients and shuts the server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	if s.opts.Hub != nil {
		s.opts.Hub.Shutdown()
	}
	if s.srv == nil {
		return nil
	}
	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("live server shutdown: %w", err)
	}
	s.logger.Info("Live server stopped")
	return nil
}

func portOf(addr net.Addr) string {
	_, port, err := net.SplitHostPort(addr.String())
	if err != nil {
		return addr.String()
	}
	return port
}
