// Package homepage synthesizes the index page grouping documents by category.
package homepage

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/docpress/internal/asset"
	"git.home.luguber.info/inful/docpress/internal/config"
	"git.home.luguber.info/inful/docpress/internal/logfields"
	"git.home.luguber.info/inful/docpress/internal/plugin"
	"git.home.luguber.info/inful/docpress/internal/render"
	"git.home.luguber.info/inful/docpress/internal/tmpl"
)

// Name is the registry name of the homepage plugin.
const Name = "homepage"

// FileName is the source-style name of the synthetic asset; it is emitted as index.html.
const FileName = "index.md"

// FileCompiler compiles a template file.
type FileCompiler interface {
	CompileFile(path string) (tmpl.Func, error)
}

// Plugin upserts the homepage asset on full-scope preEmission firings.
type Plugin struct {
	compiler FileCompiler
	now      func() time.Time
}

// New creates the homepage plugin.
func New(compiler FileCompiler) *Plugin {
	return &Plugin{compiler: compiler, now: time.Now}
}

func (p *Plugin) Metadata() plugin.PluginMetadata {
	return plugin.PluginMetadata{
		Name:        Name,
		Type:        plugin.PluginTypeGenerator,
		Description: "Generates the index page from all documents",
	}
}

func (p *Plugin) Apply(_ context.Context, bc *plugin.BuildContext) error {
	bc.Hooks.Tap(plugin.PreEmission, Name, p.generate)
	return nil
}

func (p *Plugin) generate(_ context.Context, bc *plugin.BuildContext) error {
	if !bc.FullScope() {
		return nil
	}
	fn, err := p.compiler.CompileFile(bc.Config.HomepageTemplate())
	if err != nil {
		return err
	}

	documents := bc.Assets.Documents()
	markup, err := fn(p.Vars(bc.Config, documents))
	if err != nil {
		return err
	}

	bc.Assets.Upsert(asset.NewSynthetic(asset.RootCategory, FileName, markup, render.Metadata{"title": bc.Config.Name}))
	bc.Logger.Debug("Generated homepage", logfields.Documents(len(documents)))
	return nil
}

// Item is one linked document on the homepage.
type Item = map[string]any

// Vars builds the homepage template variables from document assets.
func (p *Plugin) Vars(cfg *config.Config, documents []*asset.Asset) map[string]any {
	socials := make([]map[string]any, 0, len(cfg.SocialMedias))
	for _, sm := range cfg.SocialMedias {
		socials = append(socials, map[string]any{"key": sm.Key, "value": sm.Value})
	}
	return map[string]any{
		"name":         cfg.Name,
		"author":       cfg.Author,
		"socialMedias": socials,
		"categories":   Group(documents),
		"copyright":    Copyright(cfg.Author, firstYear(cfg, documents, p.now()), p.now()),
		"stylesheet":   cfg.StylesheetHref(),
	}
}

// Group returns categories sorted by name, each with items sorted by file name.
func Group(documents []*asset.Asset) []map[string]any {
	byCategory := make(map[string][]*asset.Asset)
	for _, a := range documents {
		byCategory[a.Category] = append(byCategory[a.Category], a)
	}
	names := make([]string, 0, len(byCategory))
	for name := range byCategory {
		names = append(names, name)
	}
	sort.Strings(names)

	caser := cases.Title(language.English)
	out := make([]map[string]any, 0, len(names))
	for _, name := range names {
		members := byCategory[name]
		sort.SliceStable(members, func(i, j int) bool { return members[i].Name < members[j].Name })
		items := make([]Item, 0, len(members))
		for _, a := range members {
			items = append(items, Item{"title": a.Title(), "href": a.Href()})
		}
		out = append(out, map[string]any{
			"name":  name,
			"title": caser.String(strings.NewReplacer("-", " ", "_", " ").Replace(name)),
			"items": items,
		})
	}
	return out
}

// Copyright renders "© first-current author", collapsing equal years.
func Copyright(author string, first int, now time.Time) string {
	current := now.Year()
	years := fmt.Sprintf("%d", current)
	if first > 0 && first < current {
		years = fmt.Sprintf("%d-%d", first, current)
	}
	return strings.TrimSpace("© " + years + " " + author)
}

// firstYear finds the earliest created year among documents.
func firstYear(cfg *config.Config, documents []*asset.Asset, now time.Time) int {
	layout := cfg.Datetime.Layout()
	first := now.Year()
	for _, a := range documents {
		created := a.Metadata.String("created")
		if created == "" {
			continue
		}
		t, err := time.ParseInLocation(layout, created, time.Local)
		if err != nil {
			continue
		}
		if t.Year() < first {
			first = t.Year()
		}
	}
	return first
}
