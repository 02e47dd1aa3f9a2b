// Package livereload injects the reload client script into pages in live mode.
package livereload

import (
	"context"
	"strings"

	"git.home.luguber.info/inful/docpress/internal/plugin"
)

// Name is the registry name of the livereload plugin.
const Name = "livereload"

// ScriptTag is inserted before </body>.
const ScriptTag = `<script src="/livereload.js"></script>`

// Plugin injects ScriptTag on preEmission.
type Plugin struct{}

// New creates the livereload plugin.
func New() *Plugin { return &Plugin{} }

func (p *Plugin) Metadata() plugin.PluginMetadata {
	return plugin.PluginMetadata{
		Name:        Name,
		Type:        plugin.PluginTypeTransform,
		Description: "Injects the live reload client",
	}
}

func (p *Plugin) Apply(_ context.Context, bc *plugin.BuildContext) error {
	if !bc.Live {
		return nil
	}
	bc.Hooks.Tap(plugin.PreEmission, Name, func(_ context.Context, bc *plugin.BuildContext) error {
		for _, a := range bc.Targets() {
			a.Markup = Inject(a.Markup)
		}
		return nil
	})
	return nil
}

// Inject places ScriptTag before the last </body>, or appends it.
// Markup already carrying the tag is returned unchanged.
func Inject(markup string) string {
	if strings.Contains(markup, ScriptTag) {
		return markup
	}
	if i := strings.LastIndex(strings.ToLower(markup), "</body>"); i >= 0 {
		return markup[:i] + ScriptTag + markup[i:]
	}
	return markup + ScriptTag
}
