package commands

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docpress/internal/config"
)

// Global context passed to subcommands.
type Global struct {
	Out io.Writer
}

func (g *Global) out() io.Writer {
	if g == nil || g.Out == nil {
		return os.Stdout
	}
	return g.Out
}

// CLI definition & global flags - used by commands that need access to root config.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"docpress.yaml" type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build    BuildCmd    `cmd:"" help:"Build the site once"`
	Watch    WatchCmd    `cmd:"" help:"Build, then rebuild incrementally on changes and serve the output"`
	Discover DiscoverCmd `cmd:"" help:"List discovered documents by category"`
	Init     InitCmd     `cmd:"" help:"Write an example configuration and starter templates"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := LogLevel(c.Verbose, os.Getenv("DOCPRESS_LOG_LEVEL"))
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// LogLevel picks the log level: an explicit override wins over the verbose flag.
func LogLevel(verbose bool, override string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(override)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

func loadConfig(root *CLI) (*config.Config, error) {
	return config.Load(root.Config)
}
