package engine

import (
	"git.home.luguber.info/inful/docpress/internal/config"
	"git.home.luguber.info/inful/docpress/internal/htmlmin"
	"git.home.luguber.info/inful/docpress/internal/plugin"
	"git.home.luguber.info/inful/docpress/internal/plugin/homepage"
	"git.home.luguber.info/inful/docpress/internal/plugin/layout"
	"git.home.luguber.info/inful/docpress/internal/plugin/livereload"
	"git.home.luguber.info/inful/docpress/internal/plugin/minify"
	"git.home.luguber.info/inful/docpress/internal/plugin/reset"
	"git.home.luguber.info/inful/docpress/internal/plugin/static"
	"git.home.luguber.info/inful/docpress/internal/tmpl"
)

// DefaultPlugins returns the built-in extensions in registration order.
// Layout precedes minify so the laid-out page is what gets reduced, and the
// homepage is generated before both reload injection and minification.
func DefaultPlugins(cfg *config.Config, templates *tmpl.Engine) []plugin.Plugin {
	plugins := []plugin.Plugin{
		reset.New(),
		layout.New(templates),
		homepage.New(templates),
	}
	if cfg.Dev.LiveReload {
		plugins = append(plugins, livereload.New())
	}
	return append(plugins,
		minify.New(htmlmin.New(htmlmin.Options{
			RemoveComments:     cfg.Minify.RemoveComments,
			CollapseWhitespace: cfg.Minify.CollapseWhitespace,
		})),
		static.New(),
	)
}

// DefaultRegistry registers DefaultPlugins with a fresh template engine.
func DefaultRegistry(cfg *config.Config) (*plugin.Registry, error) {
	templates, err := tmpl.New(0)
	if err != nil {
		return nil, err
	}
	return plugin.NewRegistry().Use(DefaultPlugins(cfg, templates)...), nil
}
