package homepage

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docpress/internal/asset"
	"git.home.luguber.info/inful/docpress/internal/config"
	"git.home.luguber.info/inful/docpress/internal/docs"
	"git.home.luguber.info/inful/docpress/internal/plugin"
	"git.home.luguber.info/inful/docpress/internal/render"
	"git.home.luguber.info/inful/docpress/internal/tmpl"
)

const indexTemplate = `<h1>{{.name}}</h1>` +
	`{{range .categories}}<h2>{{.title}}</h2><ul>{{range .items}}<li><a href="{{.href}}">{{.title}}</a></li>{{end}}</ul>{{end}}` +
	`<footer>{{.copyright}}</footer>`

func fixedNow() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.Local) }

func doc(path, title string) *asset.Asset {
	return asset.FromDocument(docs.NewDocument(path), render.Result{
		Markup:   "<p>" + title + "</p>",
		Metadata: render.Metadata{"title": title},
	})
}

func setup(t *testing.T) *plugin.BuildContext {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Defaults()
	cfg.Name = "How To"
	cfg.Author = "Ada"
	cfg.SetBaseDir(dir)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "templates"), 0o755))
	require.NoError(t, os.WriteFile(cfg.HomepageTemplate(), []byte(indexTemplate), 0o600))

	engine, err := tmpl.New(4)
	require.NoError(t, err)
	p := New(engine)
	p.now = fixedNow

	bc := plugin.NewBuildContext(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), false)
	require.NoError(t, plugin.NewRegistry().Use(p).ApplyAll(context.Background(), bc))
	return bc
}

func homepage(bc *plugin.BuildContext) (*asset.Asset, bool) {
	for _, a := range bc.Assets.All() {
		if a.Synthetic() && a.Name == FileName {
			return a, true
		}
	}
	return nil, false
}

func TestGeneratesOnFullScope(t *testing.T) {
	bc := setup(t)
	bc.Assets.Append(doc("/e/web-dev/routing.md", "Routing"))
	bc.Assets.Append(doc("/e/basics/intro.md", "Intro"))
	bc.Assets.Append(doc("/e/basics/advanced.md", "Advanced"))

	require.NoError(t, bc.Hooks.Fire(context.Background(), plugin.PreEmission, bc))

	home, ok := homepage(bc)
	require.True(t, ok)
	assert.Equal(t, asset.RootCategory, home.Category)
	assert.Equal(t, "/index.html", home.Href())
	assert.Equal(t, "How To", home.Title())
	assert.Equal(t, `<h1>How To</h1>`+
		`<h2>Basics</h2><ul><li><a href="/basics/advanced.html">Advanced</a></li><li><a href="/basics/intro.html">Intro</a></li></ul>`+
		`<h2>Web Dev</h2><ul><li><a href="/web-dev/routing.html">Routing</a></li></ul>`+
		`<footer>© 2024 Ada</footer>`, home.Markup)
}

func TestSkipsScopedFiring(t *testing.T) {
	bc := setup(t)
	a := doc("/e/basics/intro.md", "Intro")
	bc.Assets.Append(a)

	restore := bc.Scope(a)
	require.NoError(t, bc.Hooks.Fire(context.Background(), plugin.PreEmission, bc))
	restore()

	_, ok := homepage(bc)
	assert.False(t, ok)
}

func TestRegenerationReflectsRemovals(t *testing.T) {
	bc := setup(t)
	bc.Assets.Append(doc("/e/basics/intro.md", "Intro"))
	bc.Assets.Append(doc("/e/basics/gone.md", "Gone"))
	require.NoError(t, bc.Hooks.Fire(context.Background(), plugin.PreEmission, bc))

	require.True(t, bc.Assets.Remove("/e/basics/gone.md"))
	require.NoError(t, bc.Hooks.Fire(context.Background(), plugin.PreEmission, bc))

	home, ok := homepage(bc)
	require.True(t, ok)
	assert.NotContains(t, home.Markup, "Gone")
	assert.Contains(t, home.Markup, "Intro")
	assert.Equal(t, 2, bc.Assets.Len())
}

func TestGroupSortsCategories(t *testing.T) {
	groups := Group([]*asset.Asset{doc("/e/b/z.md", "Z"), doc("/e/a/y.md", "Y")})
	require.Len(t, groups, 2)
	assert.Equal(t, "a", groups[0]["name"])
	assert.Equal(t, "A", groups[0]["title"])
	assert.Equal(t, []Item{{"title": "Y", "href": "/a/y.html"}}, groups[0]["items"])
}

func TestCopyright(t *testing.T) {
	now := fixedNow()
	assert.Equal(t, "© 2020-2024 Ada", Copyright("Ada", 2020, now))
	assert.Equal(t, "© 2024 Ada", Copyright("Ada", 2024, now))
	assert.Equal(t, "© 2024", Copyright("", 0, now))
}

func TestFirstYearFromCreated(t *testing.T) {
	cfg := config.Defaults()
	old := doc("/e/a/old.md", "Old")
	old.Metadata["created"] = "2019/03/04 10:00:00"
	assert.Equal(t, 2019, firstYear(cfg, []*asset.Asset{old, doc("/e/a/new.md", "New")}, fixedNow()))
}
