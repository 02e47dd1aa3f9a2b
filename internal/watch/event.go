// Package watch keeps the output tree in step with the entry directory in live
// mode: filesystem notifications are mapped to changed/renamed events,
// funneled through one serialized queue and reconciled against the asset
// collection.
package watch

import (
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/docpress/internal/docs"
)

// Kind is the event kind observed by the reconciler.
type Kind string

const (
	// Changed means the content of an existing file was modified.
	Changed Kind = "changed"
	// Renamed means a path was created or deleted.
	Renamed Kind = "renamed"
)

// Event is one notification for an absolute path.
type Event struct {
	Kind Kind
	Path string
}

// FromFSNotify maps a raw notification to an Event. Permission-only changes
// are dropped.
func FromFSNotify(ev fsnotify.Event) (Event, bool) {
	path := filepath.Clean(ev.Name)
	switch {
	case ev.Has(fsnotify.Create), ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		return Event{Kind: Renamed, Path: path}, true
	case ev.Has(fsnotify.Write):
		return Event{Kind: Changed, Path: path}, true
	default:
		return Event{}, false
	}
}

// shouldIgnoreEvent returns true for paths that never trigger reconciliation:
// hidden files, editor swap or temp files and OS lock files.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)
	if docs.IsIgnoredName(base) {
		return true
	}
	if strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#") {
		return true
	}
	return base == "Thumbs.db"
}

// hasIgnoredComponent reports whether any directory between root and path is
// hidden or otherwise ignored, e.g. events from inside a .git directory.
func hasIgnoredComponent(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return false
	}
	for _, part := range strings.Split(filepath.Dir(rel), string(filepath.Separator)) {
		if part != "." && docs.IsIgnoredName(part) {
			return true
		}
	}
	return false
}
