package tmpl

import (
	"html/template"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docpress/internal/foundation/errors"
)

func TestCompileAndExecute(t *testing.T) {
	e, err := New(8)
	require.NoError(t, err)

	fn, err := e.Compile(`<h1>{{.title}}</h1>{{.content}}<p>{{join .tags ", "}}</p>`)
	require.NoError(t, err)

	out, err := fn(map[string]any{
		"title":   "A & B",
		"content": template.HTML("<p>body</p>"),
		"tags":    []string{"go", "cli"},
	})
	require.NoError(t, err)
	assert.Equal(t, "<h1>A &amp; B</h1><p>body</p><p>go, cli</p>", out)
}

func TestCompileCachesBySource(t *testing.T) {
	e, err := New(8)
	require.NoError(t, err)

	_, err = e.Compile("{{.a}}")
	require.NoError(t, err)
	_, err = e.Compile("{{.a}}")
	require.NoError(t, err)
	assert.Equal(t, 1, e.Len())

	_, err = e.Compile("{{.b}}")
	require.NoError(t, err)
	assert.Equal(t, 2, e.Len())
}

func TestCompileEvicts(t *testing.T) {
	e, err := New(1)
	require.NoError(t, err)
	for _, src := range []string{"{{.a}}", "{{.b}}", "{{.c}}"} {
		_, err := e.Compile(src)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, e.Len())
}

func TestCompileError(t *testing.T) {
	e, err := New(0)
	require.NoError(t, err)

	_, err = e.Compile("{{.title")
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryTemplate))
}

func TestExecuteError(t *testing.T) {
	e, err := New(0)
	require.NoError(t, err)

	fn, err := e.Compile(`{{index .items 5}}`)
	require.NoError(t, err)
	_, err = fn(map[string]any{"items": []string{"x"}})
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryTemplate))
}

func TestCompileFile(t *testing.T) {
	e, err := New(0)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "layout.html")
	require.NoError(t, os.WriteFile(path, []byte("<b>{{.title}}</b>"), 0o600))

	fn, err := e.CompileFile(path)
	require.NoError(t, err)
	out, err := fn(map[string]any{"title": "x"})
	require.NoError(t, err)
	assert.Equal(t, "<b>x</b>", out)

	_, err = e.CompileFile(filepath.Join(t.TempDir(), "missing.html"))
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryFileSystem))
}
