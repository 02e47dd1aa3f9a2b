// Package minify reduces the markup of every targeted asset.
package minify

import (
	"context"

	"git.home.luguber.info/inful/docpress/internal/htmlmin"
	"git.home.luguber.info/inful/docpress/internal/plugin"
)

// Name is the registry name of the minify plugin.
const Name = "minify"

// Plugin replaces asset markup with a reduced equivalent on preEmission.
type Plugin struct {
	minifier htmlmin.Minifier
}

// New creates the minify plugin.
func New(m htmlmin.Minifier) *Plugin {
	return &Plugin{minifier: m}
}

func (p *Plugin) Metadata() plugin.PluginMetadata {
	return plugin.PluginMetadata{
		Name:        Name,
		Type:        plugin.PluginTypeTransform,
		Description: "Minifies rendered markup",
	}
}

func (p *Plugin) Apply(_ context.Context, bc *plugin.BuildContext) error {
	if !bc.Config.Minify.Enabled {
		bc.Logger.Debug("Minification disabled")
		return nil
	}
	bc.Hooks.Tap(plugin.PreEmission, Name, p.reduce)
	return nil
}

func (p *Plugin) reduce(_ context.Context, bc *plugin.BuildContext) error {
	for _, a := range bc.Targets() {
		out, err := p.minifier.Minify(a.Markup)
		if err != nil {
			return err
		}
		a.Markup = out
	}
	return nil
}
