package docs

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	derrors "git.home.luguber.info/inful/docpress/internal/docs/errors"
	"git.home.luguber.info/inful/docpress/internal/logfields"
)

// TargetExt is the extension rendered documents are written with.
const TargetExt = ".html"

// Document identifies one source document. Immutable once discovered.
type Document struct {
	Path     string // Absolute path to the file
	Name     string // Base file name including extension
	Category string // Name of the immediate parent directory
}

// NewDocument builds the descriptor for path, deriving the category from its parent directory.
func NewDocument(path string) Document {
	return Document{
		Path:     path,
		Name:     filepath.Base(path),
		Category: filepath.Base(filepath.Dir(path)),
	}
}

// Stem returns the file name without its extension.
func (d Document) Stem() string {
	return strings.TrimSuffix(d.Name, filepath.Ext(d.Name))
}

// OutputName returns the file name with the source extension replaced by TargetExt.
func (d Document) OutputName() string {
	return d.Stem() + TargetExt
}

// LoadContent reads the raw document text.
func (d Document) LoadContent() ([]byte, error) {
	content, err := os.ReadFile(d.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", derrors.ErrFileReadFailed, d.Path, err)
	}
	return content, nil
}

// Discover walks root depth-first and returns every document below it.
// A missing root yields an empty result rather than an error.
func Discover(root string) ([]Document, error) {
	if _, err := os.Stat(root); os.IsNotExist(err) {
		slog.Warn("Entry directory not found", logfields.Path(root))
		return []Document{}, nil
	}

	docs := make([]Document, 0)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && IsIgnoredName(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !IsDocument(path) {
			return nil
		}
		doc := NewDocument(path)
		docs = append(docs, doc)
		slog.Debug("Discovered document", logfields.Path(path), logfields.Category(doc.Category))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", derrors.ErrDocsDirWalkFailed, root, err)
	}
	return docs, nil
}

// IsDocument reports whether path names a convertible document.
func IsDocument(path string) bool {
	name := filepath.Base(path)
	return isMarkdownFile(name) && !IsIgnoredName(name)
}

// IsIgnoredName reports hidden entries and editor swap or temp files.
func IsIgnoredName(name string) bool {
	switch {
	case name == "" || name == "." || name == "..":
		return false
	case strings.HasPrefix(name, "."), strings.HasPrefix(name, "#"):
		return true
	case strings.HasSuffix(name, "~"):
		return true
	}
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".swp" || ext == ".swx" || ext == ".tmp"
}

// isMarkdownFile checks if a file is a markdown file
func isMarkdownFile(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return ext == ".md" || ext == ".markdown" || ext == ".mdown" || ext == ".mkd"
}

// Within reports whether path resolves under root.
func Within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}

// GroupByCategory returns documents keyed by category.
func GroupByCategory(docs []Document) map[string][]Document {
	result := make(map[string][]Document)
	for _, d := range docs {
		result[d.Category] = append(result[d.Category], d)
	}
	return result
}
