// Package layout wraps every targeted document asset in the page template.
package layout

import (
	"context"
	"html/template"

	"git.home.luguber.info/inful/docpress/internal/asset"
	"git.home.luguber.info/inful/docpress/internal/config"
	"git.home.luguber.info/inful/docpress/internal/plugin"
	"git.home.luguber.info/inful/docpress/internal/tmpl"
)

// Name is the registry name of the layout plugin.
const Name = "layout"

// FileCompiler compiles a template file.
type FileCompiler interface {
	CompileFile(path string) (tmpl.Func, error)
}

// Plugin applies the layout template on preEmission.
type Plugin struct {
	compiler FileCompiler
}

// New creates the layout plugin.
func New(compiler FileCompiler) *Plugin {
	return &Plugin{compiler: compiler}
}

func (p *Plugin) Metadata() plugin.PluginMetadata {
	return plugin.PluginMetadata{
		Name:        Name,
		Type:        plugin.PluginTypeTransform,
		Description: "Wraps document markup in the layout template",
	}
}

func (p *Plugin) Apply(_ context.Context, bc *plugin.BuildContext) error {
	bc.Hooks.Tap(plugin.PreEmission, Name, p.wrap)
	return nil
}

func (p *Plugin) wrap(_ context.Context, bc *plugin.BuildContext) error {
	// Compiled per firing so template edits show up in watch mode; the
	// compiler caches by source.
	fn, err := p.compiler.CompileFile(bc.Config.LayoutTemplate())
	if err != nil {
		return err
	}
	for _, a := range bc.Targets() {
		if a.Synthetic() {
			continue
		}
		out, err := fn(Vars(bc.Config, a))
		if err != nil {
			return err
		}
		a.Markup = out
	}
	return nil
}

// Vars builds the template variables for a: metadata first, then the fixed
// keys content, stylesheet, category and href, plus site-level name and author.
func Vars(cfg *config.Config, a *asset.Asset) map[string]any {
	vars := map[string]any{
		"name":   cfg.Name,
		"author": cfg.Author,
	}
	for k, v := range a.Metadata {
		vars[k] = v
	}
	vars["site"] = map[string]any{"name": cfg.Name, "author": cfg.Author}
	vars["content"] = template.HTML(a.Markup) //nolint:gosec // renderer output is trusted markup
	vars["stylesheet"] = cfg.StylesheetHref()
	vars["category"] = a.Category
	vars["href"] = a.Href()
	return vars
}
