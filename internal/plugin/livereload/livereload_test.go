package livereload

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docpress/internal/asset"
	"git.home.luguber.info/inful/docpress/internal/config"
	"git.home.luguber.info/inful/docpress/internal/plugin"
)

func TestInject(t *testing.T) {
	assert.Equal(t, "<body>x"+ScriptTag+"</body>", Inject("<body>x</body>"))
	assert.Equal(t, "<BODY>x"+ScriptTag+"</BODY>", Inject("<BODY>x</BODY>"))
	assert.Equal(t, "<p>x</p>"+ScriptTag, Inject("<p>x</p>"))

	once := Inject("<body></body>")
	assert.Equal(t, once, Inject(once))
}

func TestApplyOnlyInLiveMode(t *testing.T) {
	for _, live := range []bool{false, true} {
		bc := plugin.NewBuildContext(config.Defaults(), slog.New(slog.NewTextHandler(io.Discard, nil)), live)
		bc.Assets.Upsert(asset.NewSynthetic(asset.RootCategory, "index.md", "<body></body>", nil))
		require.NoError(t, plugin.NewRegistry().Use(New()).ApplyAll(context.Background(), bc))
		require.NoError(t, bc.Hooks.Fire(context.Background(), plugin.PreEmission, bc))

		markup := bc.Assets.All()[0].Markup
		if live {
			assert.Contains(t, markup, ScriptTag)
		} else {
			assert.NotContains(t, markup, ScriptTag)
		}
	}
}
