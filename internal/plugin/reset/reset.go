// Package reset clears the output root before emission in one-shot builds.
package reset

import (
	"context"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/docpress/internal/foundation/errors"
	"git.home.luguber.info/inful/docpress/internal/logfields"
	"git.home.luguber.info/inful/docpress/internal/plugin"
)

// Name is the registry name of the reset plugin.
const Name = "reset"

// Plugin deletes prior output on preEmission. In live mode it does nothing.
type Plugin struct{}

// New creates the reset plugin.
func New() *Plugin { return &Plugin{} }

func (p *Plugin) Metadata() plugin.PluginMetadata {
	return plugin.PluginMetadata{
		Name:        Name,
		Type:        plugin.PluginTypeOutput,
		Description: "Clears the output directory before emission",
	}
}

func (p *Plugin) Apply(_ context.Context, bc *plugin.BuildContext) error {
	bc.Hooks.Tap(plugin.PreEmission, Name, clearOutput)
	return nil
}

func clearOutput(_ context.Context, bc *plugin.BuildContext) error {
	if bc.Live {
		return nil
	}
	root := bc.Config.OutputDir()
	if err := bc.Config.CheckOutputDir(); err != nil {
		return errors.WrapError(err, errors.CategoryValidation, "refusing to clear output").
			WithContext("path", root).
			Fatal().
			Build()
	}
	entries, err := os.ReadDir(root)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "read output directory").
			WithContext("path", root).
			Fatal().
			Build()
	}
	for _, e := range entries {
		p := filepath.Join(root, e.Name())
		if err := os.RemoveAll(p); err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "clear output").
				WithContext("path", p).
				Fatal().
				Build()
		}
	}
	bc.Logger.Debug("Cleared output directory", logfields.Output(root))
	return nil
}
