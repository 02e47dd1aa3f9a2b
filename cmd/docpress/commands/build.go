package commands

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/docpress/internal/config"
	"git.home.luguber.info/inful/docpress/internal/engine"
)

// ModeLive selects live behaviour: output is never reset and pages carry the
// reload client.
const ModeLive = "live"

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Mode string `help:"Pipeline mode" enum:"build,live" default:"build" env:"DOCPRESS_MODE"`
}

func (b *BuildCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	return RunBuild(context.Background(), cfg, b.Mode == ModeLive)
}

// RunBuild performs one batch run.
func RunBuild(ctx context.Context, cfg *config.Config, live bool) error {
	slog.Info("Starting build",
		slog.String("entry", cfg.EntryDir()),
		slog.String("output", cfg.OutputDir()),
		slog.Bool("live", live))

	e, err := engine.New(cfg, engine.WithLive(live), engine.WithLogger(slog.Default()))
	if err != nil {
		return err
	}
	_, err = e.Build(ctx)
	return err
}
