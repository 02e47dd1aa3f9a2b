package commands

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/docpress/internal/config"
	"git.home.luguber.info/inful/docpress/internal/engine"
	"git.home.luguber.info/inful/docpress/internal/metrics"
	"git.home.luguber.info/inful/docpress/internal/server"
	"git.home.luguber.info/inful/docpress/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Port    int  `short:"p" help:"Port for the live server (defaults to dev.port)"`
	NoServe bool `name:"no-serve" help:"Do not start the live server"`
}

func (w *WatchCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	if w.Port > 0 {
		cfg.Dev.Port = w.Port
	}
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return RunWatch(ctx, cfg, !w.NoServe)
}

// RunWatch performs the initial live run, then reconciles changes until ctx
// is done.
func RunWatch(ctx context.Context, cfg *config.Config, serve bool) error {
	logger := slog.Default()

	var (
		recorder metrics.Recorder = metrics.NoopRecorder{}
		registry *prom.Registry
	)
	if cfg.Metrics.Enabled {
		registry = prom.NewRegistry()
		recorder = metrics.NewPrometheusRecorder(registry)
	}

	e, err := engine.New(cfg,
		engine.WithLive(true),
		engine.WithRecorder(recorder),
		engine.WithLogger(logger))
	if err != nil {
		return err
	}
	bc, err := e.Build(ctx)
	if err != nil {
		return err
	}

	var hub *server.LiveReloadHub
	if cfg.Dev.LiveReload {
		hub = server.NewLiveReloadHub(logger, recorder)
	}

	opts := []watch.ReconcilerOption{watch.WithRecorder(recorder), watch.WithLogger(logger)}
	if hub != nil {
		opts = append(opts, watch.WithNotifier(hub))
	}
	rec := watch.NewReconciler(e, bc, opts...)

	watcher, err := watch.New(cfg.EntryDir(), rec, watch.DefaultDebounce, logger)
	if err != nil {
		return err
	}
	if dir := cfg.StaticDir(); dir != "" {
		if err := watcher.AddRoot(dir); err != nil {
			_ = watcher.Close()
			return err
		}
	}

	if serve {
		srvOpts := server.Options{
			Root:   cfg.OutputDir(),
			Port:   cfg.Dev.Port,
			Hub:    hub,
			Logger: logger,
		}
		if registry != nil {
			srvOpts.Metrics = metrics.HTTPHandler(registry)
			srvOpts.MetricsPath = cfg.Metrics.Path
		}
		srv := server.New(srvOpts)
		if err := srv.Start(ctx); err != nil {
			_ = watcher.Close()
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Stop(shutdownCtx); err != nil {
				logger.Warn("Live server shutdown error", slog.Any("error", err))
			}
		}()
	}

	err = watcher.Run(ctx)
	logger.Info("Watch stopped")
	return err
}
