package plugin

import (
	"log/slog"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/docpress/internal/asset"
	"git.home.luguber.info/inful/docpress/internal/config"
	"git.home.luguber.info/inful/docpress/internal/logfields"
)

// BuildContext is passed to every plugin and hook callback. It owns the asset
// collection; callbacks borrow it for the duration of their invocation.
type BuildContext struct {
	// Config is read-only for the whole run.
	Config *config.Config

	// Assets is the shared mutable collection.
	Assets *asset.Collection

	// Hooks lets plugins tap points from Apply.
	Hooks *Hooks

	// Logger provides structured logging for plugin operations.
	Logger *slog.Logger

	// Live is set in watch mode: destructive output resets are suppressed.
	Live bool

	// RunID uniquely identifies this process run.
	RunID string

	// scope restricts Targets during a scoped firing; nil means the whole collection.
	scope []*asset.Asset
}

// NewBuildContext creates a build context with an empty collection and no taps.
func NewBuildContext(cfg *config.Config, logger *slog.Logger, live bool) *BuildContext {
	if logger == nil {
		logger = slog.Default()
	}
	runID := uuid.NewString()
	return &BuildContext{
		Config: cfg,
		Assets: asset.NewCollection(),
		Hooks:  NewHooks(),
		Logger: logger.With(logfields.RunID(runID)),
		Live:   live,
		RunID:  runID,
	}
}

// Targets returns the assets the current firing concerns.
func (bc *BuildContext) Targets() []*asset.Asset {
	if bc.scope == nil {
		return bc.Assets.All()
	}
	out := make([]*asset.Asset, len(bc.scope))
	copy(out, bc.scope)
	return out
}

// FullScope reports whether the current firing covers the whole collection.
// Aggregate plugins act only then.
func (bc *BuildContext) FullScope() bool {
	return bc.scope == nil
}

// Scope restricts Targets to assets until the returned function is called.
func (bc *BuildContext) Scope(assets ...*asset.Asset) (restore func()) {
	prev := bc.scope
	bc.scope = append([]*asset.Asset{}, assets...)
	return func() { bc.scope = prev }
}

