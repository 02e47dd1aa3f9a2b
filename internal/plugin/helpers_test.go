package plugin

import (
	"io"
	"log/slog"
	"testing"

	"git.home.luguber.info/inful/docpress/internal/asset"
	"git.home.luguber.info/inful/docpress/internal/config"
	"git.home.luguber.info/inful/docpress/internal/docs"
	"git.home.luguber.info/inful/docpress/internal/render"
)

func newTestContext(t *testing.T, paths ...string) *BuildContext {
	t.Helper()
	bc := NewBuildContext(config.Defaults(), slog.New(slog.NewTextHandler(io.Discard, nil)), false)
	for _, p := range paths {
		bc.Assets.Append(asset.FromDocument(docs.NewDocument(p), render.Result{Markup: "<p>" + p + "</p>"}))
	}
	return bc
}
