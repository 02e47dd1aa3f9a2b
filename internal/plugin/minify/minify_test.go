package minify

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docpress/internal/asset"
	"git.home.luguber.info/inful/docpress/internal/config"
	"git.home.luguber.info/inful/docpress/internal/docs"
	"git.home.luguber.info/inful/docpress/internal/htmlmin"
	"git.home.luguber.info/inful/docpress/internal/plugin"
	"git.home.luguber.info/inful/docpress/internal/render"
)

type failing struct{}

func (failing) Minify(string) (string, error) { return "", errors.New("minifier crashed") }

func newContext(t *testing.T, enabled bool, m htmlmin.Minifier) *plugin.BuildContext {
	t.Helper()
	cfg := config.Defaults()
	cfg.Minify.Enabled = enabled
	bc := plugin.NewBuildContext(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), false)
	bc.Assets.Append(asset.FromDocument(docs.NewDocument("/e/a/x.md"), render.Result{Markup: "<p>  a   b  </p>\n<!-- c -->\n"}))
	require.NoError(t, plugin.NewRegistry().Use(New(m)).ApplyAll(context.Background(), bc))
	return bc
}

func TestMinifyTargets(t *testing.T) {
	bc := newContext(t, true, htmlmin.New(htmlmin.Options{RemoveComments: true, CollapseWhitespace: true}))
	require.NoError(t, bc.Hooks.Fire(context.Background(), plugin.PreEmission, bc))
	out := bc.Assets.All()[0].Markup
	assert.Contains(t, out, "a b")
	assert.NotContains(t, out, "<!--")
	assert.NotContains(t, out, "  ")
}

func TestMinifyDisabled(t *testing.T) {
	bc := newContext(t, false, failing{})
	assert.Empty(t, bc.Hooks.Names(plugin.PreEmission))
	require.NoError(t, bc.Hooks.Fire(context.Background(), plugin.PreEmission, bc))
}

func TestMinifyFailureAbortsFiring(t *testing.T) {
	bc := newContext(t, true, failing{})
	err := bc.Hooks.Fire(context.Background(), plugin.PreEmission, bc)
	require.Error(t, err)
	var pe *plugin.PluginError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, Name, pe.PluginName)
}
