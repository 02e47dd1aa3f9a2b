package layout

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docpress/internal/asset"
	"git.home.luguber.info/inful/docpress/internal/config"
	"git.home.luguber.info/inful/docpress/internal/docs"
	"git.home.luguber.info/inful/docpress/internal/foundation/errors"
	"git.home.luguber.info/inful/docpress/internal/plugin"
	"git.home.luguber.info/inful/docpress/internal/render"
	"git.home.luguber.info/inful/docpress/internal/tmpl"
)

func setup(t *testing.T, layout string) *plugin.BuildContext {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Defaults()
	cfg.Name = "How To"
	cfg.SetBaseDir(dir)
	if layout != "" {
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "templates"), 0o755))
		require.NoError(t, os.WriteFile(cfg.LayoutTemplate(), []byte(layout), 0o600))
	}

	engine, err := tmpl.New(4)
	require.NoError(t, err)

	bc := plugin.NewBuildContext(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), false)
	reg := plugin.NewRegistry().Use(New(engine))
	require.NoError(t, reg.ApplyAll(context.Background(), bc))
	return bc
}

func TestLayoutWrapsDocuments(t *testing.T) {
	bc := setup(t, `<title>{{.title}} - {{.name}}</title><link href="{{.stylesheet}}"><main>{{.content}}</main>`)

	doc := asset.FromDocument(docs.NewDocument("/e/guides/setup.md"), render.Result{
		Markup:   "<p>body</p>",
		Metadata: render.Metadata{"title": "Setup"},
	})
	home := asset.NewSynthetic(asset.RootCategory, "index.md", "<p>home</p>", nil)
	bc.Assets.Append(doc)
	bc.Assets.Upsert(home)

	require.NoError(t, bc.Hooks.Fire(context.Background(), plugin.PreEmission, bc))

	assert.Equal(t, `<title>Setup - How To</title><link href="/assets/styles/default.css"><main><p>body</p></main>`, doc.Markup)
	assert.Equal(t, "<p>body</p>", doc.Body)
	assert.Equal(t, "<p>home</p>", home.Markup)
}

func TestLayoutOnlyTouchesTargets(t *testing.T) {
	bc := setup(t, `[{{.content}}]`)
	a := asset.FromDocument(docs.NewDocument("/e/a/x.md"), render.Result{Markup: "x"})
	b := asset.FromDocument(docs.NewDocument("/e/a/y.md"), render.Result{Markup: "y"})
	bc.Assets.Append(a)
	bc.Assets.Append(b)

	restore := bc.Scope(b)
	require.NoError(t, bc.Hooks.Fire(context.Background(), plugin.PreEmission, bc))
	restore()

	assert.Equal(t, "x", a.Markup)
	assert.Equal(t, "[y]", b.Markup)
}

func TestLayoutMissingTemplate(t *testing.T) {
	bc := setup(t, "")
	bc.Assets.Append(asset.FromDocument(docs.NewDocument("/e/a/x.md"), render.Result{Markup: "x"}))

	err := bc.Hooks.Fire(context.Background(), plugin.PreEmission, bc)
	require.Error(t, err)

	var pe *plugin.PluginError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, Name, pe.PluginName)
	assert.True(t, errors.HasCategory(err, errors.CategoryFileSystem))
}

func TestVars(t *testing.T) {
	cfg := config.Defaults()
	cfg.Author = "Ada"
	a := asset.FromDocument(docs.NewDocument("/e/guides/setup.md"), render.Result{
		Markup:   "<p>x</p>",
		Metadata: render.Metadata{"title": "Setup", "content": "ignored"},
	})

	vars := Vars(cfg, a)
	assert.Equal(t, "Setup", vars["title"])
	assert.Equal(t, "Ada", vars["author"])
	assert.Equal(t, "guides", vars["category"])
	assert.Equal(t, "/guides/setup.html", vars["href"])
	assert.EqualValues(t, "<p>x</p>", vars["content"])
}
