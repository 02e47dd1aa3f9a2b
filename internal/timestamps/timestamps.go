// Package timestamps resolves created/updated times for source documents from
// git history or the filesystem.
package timestamps

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	lru "github.com/hashicorp/golang-lru/v2"

	"git.home.luguber.info/inful/docpress/internal/config"
	"git.home.luguber.info/inful/docpress/internal/logfields"
	"git.home.luguber.info/inful/docpress/internal/render"
)

// Stamp holds the two timestamps a page carries.
type Stamp struct {
	Created time.Time
	Updated time.Time
}

// Resolver returns timestamps for a document path. ok is false when the
// resolver has no information for path.
type Resolver interface {
	Resolve(path string) (stamp Stamp, ok bool, err error)
}

// Invalidator drops cached information for a path.
type Invalidator interface {
	Invalidate(path string)
}

// FS resolves both timestamps from the file modification time.
type FS struct{}

// Resolve implements Resolver.
func (FS) Resolve(path string) (Stamp, bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Stamp{}, false, fmt.Errorf("stat %s: %w", path, err)
	}
	mt := info.ModTime()
	return Stamp{Created: mt, Updated: mt}, true, nil
}

// Git resolves timestamps from the author dates of the oldest and newest
// commits touching a file.
type Git struct {
	repo  *git.Repository
	root  string
	cache *lru.Cache[string, Stamp]
}

// OpenGit opens the repository containing dir, searching parent directories.
func OpenGit(dir string) (*Git, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, err
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("open worktree: %w", err)
	}
	cache, err := lru.New[string, Stamp](1024)
	if err != nil {
		return nil, err
	}
	root, err := filepath.EvalSymlinks(wt.Filesystem.Root())
	if err != nil {
		root = wt.Filesystem.Root()
	}
	return &Git{repo: repo, root: root, cache: cache}, nil
}

// Resolve implements Resolver.
func (g *Git) Resolve(path string) (Stamp, bool, error) {
	if s, ok := g.cache.Get(path); ok {
		return s, true, nil
	}
	abs := path
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		abs = resolved
	}
	rel, err := filepath.Rel(g.root, abs)
	if err != nil || strings.HasPrefix(rel, "..") {
		return Stamp{}, false, nil
	}
	rel = filepath.ToSlash(rel)

	head, err := g.repo.Head()
	if err != nil {
		// Unborn branch: nothing committed yet.
		return Stamp{}, false, nil
	}
	iter, err := g.repo.Log(&git.LogOptions{From: head.Hash(), FileName: &rel})
	if err != nil {
		return Stamp{}, false, fmt.Errorf("git log %s: %w", rel, err)
	}
	defer iter.Close()

	var stamp Stamp
	found := false
	err = iter.ForEach(func(c *object.Commit) error {
		when := c.Author.When
		if !found {
			stamp.Updated = when
			found = true
		}
		stamp.Created = when
		return nil
	})
	if err != nil {
		return Stamp{}, false, fmt.Errorf("git log %s: %w", rel, err)
	}
	if !found {
		return Stamp{}, false, nil
	}
	g.cache.Add(path, stamp)
	return stamp, true, nil
}

// Invalidate implements Invalidator.
func (g *Git) Invalidate(path string) {
	g.cache.Remove(path)
}

// Chain tries each resolver in order and returns the first hit.
type Chain []Resolver

// Resolve implements Resolver.
func (c Chain) Resolve(path string) (Stamp, bool, error) {
	var firstErr error
	for _, r := range c {
		s, ok, err := r.Resolve(path)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if ok {
			return s, true, nil
		}
	}
	return Stamp{}, false, firstErr
}

// Invalidate implements Invalidator.
func (c Chain) Invalidate(path string) {
	for _, r := range c {
		if inv, ok := r.(Invalidator); ok {
			inv.Invalidate(path)
		}
	}
}

// New returns the resolver selected by cfg for documents under entryDir.
func New(cfg config.DatetimeConfig, entryDir string, logger *slog.Logger) (Resolver, error) {
	if logger == nil {
		logger = slog.Default()
	}
	switch cfg.Source {
	case config.TimestampFS:
		return FS{}, nil
	case config.TimestampGit:
		g, err := OpenGit(entryDir)
		if err != nil {
			return nil, fmt.Errorf("open git repository for %s: %w", entryDir, err)
		}
		return g, nil
	default:
		g, err := OpenGit(entryDir)
		if err != nil {
			logger.Debug("No git repository, using file times", logfields.Path(entryDir))
			return FS{}, nil
		}
		return Chain{g, FS{}}, nil
	}
}

// dateLayouts are accepted for a front matter date override.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.DateOnly,
	"2006/01/02 15:04:05",
	"2006/01/02",
}

// ParseDate parses a front matter date value.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Annotate sets "created" and "updated" on meta, formatted with layout.
// A front matter "date" overrides the created time.
func Annotate(meta render.Metadata, path string, r Resolver, layout string) error {
	stamp, ok, err := r.Resolve(path)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	if d, ok := ParseDate(meta.String("date")); ok {
		stamp.Created = d
	}
	meta["created"] = stamp.Created.Format(layout)
	meta["updated"] = stamp.Updated.Format(layout)
	return nil
}
