package docs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	derrors "git.home.luguber.info/inful/docpress/internal/docs/errors"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		full := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o600))
	}
}

var sortDocs = cmpopts.SortSlices(func(a, b Document) bool { return a.Path < b.Path })

func TestDiscover(t *testing.T) {
	root := filepath.Join(t.TempDir(), "articles")
	writeTree(t, root, map[string]string{
		"guides/setup.md":           "# Setup",
		"guides/advanced/tuning.md": "# Tuning",
		"notes/todo.markdown":       "# Todo",
		"notes/image.png":           "png",
		"notes/.draft.md":           "# Hidden",
		"notes/scratch.md~":         "backup",
		".git/HEAD.md":              "ignored dir",
		"top.md":                    "# Top",
	})

	got, err := Discover(root)
	require.NoError(t, err)

	want := []Document{
		{Path: filepath.Join(root, "guides/setup.md"), Name: "setup.md", Category: "guides"},
		{Path: filepath.Join(root, "guides/advanced/tuning.md"), Name: "tuning.md", Category: "advanced"},
		{Path: filepath.Join(root, "notes/todo.markdown"), Name: "todo.markdown", Category: "notes"},
		{Path: filepath.Join(root, "top.md"), Name: "top.md", Category: "articles"},
	}
	if diff := cmp.Diff(want, got, sortDocs); diff != "" {
		t.Errorf("Discover() mismatch (-want +got):\n%s", diff)
	}
}

func TestDiscoverIsIdempotent(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a/one.md": "1",
		"b/two.md": "2",
		"b/c/3.md": "3",
	})

	first, err := Discover(root)
	require.NoError(t, err)
	second, err := Discover(root)
	require.NoError(t, err)

	if diff := cmp.Diff(first, second, sortDocs); diff != "" {
		t.Errorf("second discovery differs (-first +second):\n%s", diff)
	}
}

func TestDiscoverMissingRoot(t *testing.T) {
	got, err := Discover(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDocumentNames(t *testing.T) {
	d := NewDocument("/site/articles/guides/setup.md")
	assert.Equal(t, "guides", d.Category)
	assert.Equal(t, "setup", d.Stem())
	assert.Equal(t, "setup.html", d.OutputName())
}

func TestLoadContent(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a/x.md": "hello"})

	content, err := NewDocument(filepath.Join(root, "a/x.md")).LoadContent()
	require.NoError(t, err)
	assert.Equal(t, "hello", string(content))

	_, err = NewDocument(filepath.Join(root, "a/missing.md")).LoadContent()
	require.Error(t, err)
	assert.True(t, errors.Is(err, derrors.ErrFileReadFailed))
}

func TestIsIgnoredName(t *testing.T) {
	for _, name := range []string{".hidden.md", "#autosave#", "file.md~", "buf.swp", "x.tmp"} {
		assert.True(t, IsIgnoredName(name), name)
	}
	for _, name := range []string{"setup.md", "guides"} {
		assert.False(t, IsIgnoredName(name), name)
	}
}

func TestWithin(t *testing.T) {
	root := filepath.Join(string(filepath.Separator), "site", "articles")
	assert.True(t, Within(root, filepath.Join(root, "a", "b.md")))
	assert.True(t, Within(root, root))
	assert.False(t, Within(root, filepath.Join(root, "..", "other", "b.md")))
	assert.False(t, Within(root, filepath.Join(string(filepath.Separator), "elsewhere")))
	assert.True(t, Within(root, filepath.Join(root, "..articles", "x.md")))
}

func TestCountFiles(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a/one.md":  "1",
		"a/img.png": "2",
		"b/c/d.txt": "3",
	})

	n, err := CountFiles(root)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = CountFiles(filepath.Join(root, "missing"))
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestGroupByCategory(t *testing.T) {
	groups := GroupByCategory([]Document{
		NewDocument("/e/a/x.md"),
		NewDocument("/e/a/y.md"),
		NewDocument("/e/b/z.md"),
	})
	assert.Len(t, groups["a"], 2)
	assert.Len(t, groups["b"], 1)
}
