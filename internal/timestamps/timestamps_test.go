package timestamps

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docpress/internal/config"
	"git.home.luguber.info/inful/docpress/internal/render"
)

func commitFile(t *testing.T, repo *git.Repository, root, rel, content string, when time.Time) {
	t.Helper()
	full := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o600))

	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add(filepath.ToSlash(rel))
	require.NoError(t, err)
	_, err = wt.Commit("update "+rel, &git.CommitOptions{
		Author: &object.Signature{Name: "Test", Email: "test@example.com", When: when},
	})
	require.NoError(t, err)
}

func TestGitResolve(t *testing.T) {
	root := t.TempDir()
	repo, err := git.PlainInit(root, false)
	require.NoError(t, err)

	first := time.Date(2023, 3, 1, 10, 0, 0, 0, time.UTC)
	second := time.Date(2024, 6, 2, 12, 30, 0, 0, time.UTC)
	commitFile(t, repo, root, "articles/guides/setup.md", "v1", first)
	commitFile(t, repo, root, "articles/other/x.md", "x", first.Add(time.Hour))
	commitFile(t, repo, root, "articles/guides/setup.md", "v2", second)

	g, err := OpenGit(filepath.Join(root, "articles"))
	require.NoError(t, err)

	stamp, ok, err := g.Resolve(filepath.Join(root, "articles", "guides", "setup.md"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, stamp.Created.Equal(first), "created %s", stamp.Created)
	assert.True(t, stamp.Updated.Equal(second), "updated %s", stamp.Updated)

	// Untracked files have no history.
	untracked := filepath.Join(root, "articles", "guides", "new.md")
	require.NoError(t, os.WriteFile(untracked, []byte("new"), 0o600))
	_, ok, err = g.Resolve(untracked)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAutoFallsBackToFS(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.md")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))
	mtime := time.Date(2022, 1, 2, 3, 4, 5, 0, time.Local)
	require.NoError(t, os.Chtimes(path, mtime, mtime))

	r, err := New(config.DatetimeConfig{Source: config.TimestampAuto}, dir, nil)
	require.NoError(t, err)

	stamp, ok, err := r.Resolve(path)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, stamp.Created.Equal(mtime))
	assert.True(t, stamp.Updated.Equal(mtime))
}

func TestGitSourceRequiresRepository(t *testing.T) {
	_, err := New(config.DatetimeConfig{Source: config.TimestampGit}, t.TempDir(), nil)
	assert.Error(t, err)
}

func TestAnnotate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.md")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))
	mtime := time.Date(2022, 1, 2, 3, 4, 5, 0, time.Local)
	require.NoError(t, os.Chtimes(path, mtime, mtime))

	layout := config.MomentToLayout("YYYY/MM/DD HH:mm:ss")

	meta := render.Metadata{}
	require.NoError(t, Annotate(meta, path, FS{}, layout))
	assert.Equal(t, "2022/01/02 03:04:05", meta["created"])
	assert.Equal(t, "2022/01/02 03:04:05", meta["updated"])

	meta = render.Metadata{"date": "2020-05-06"}
	require.NoError(t, Annotate(meta, path, FS{}, layout))
	assert.Equal(t, "2020/05/06 00:00:00", meta["created"])
	assert.Equal(t, "2022/01/02 03:04:05", meta["updated"])
}

func TestChainReturnsFirstHit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.md")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))

	_, ok, err := Chain{FS{}}.Resolve(path)
	require.NoError(t, err)
	assert.True(t, ok)

	_, ok, err = Chain{FS{}}.Resolve(filepath.Join(dir, "missing.md"))
	assert.Error(t, err)
	assert.False(t, ok)
}
