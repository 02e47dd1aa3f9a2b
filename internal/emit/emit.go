// Package emit writes asset markup into the categorized output tree.
package emit

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"

	"git.home.luguber.info/inful/docpress/internal/asset"
	"git.home.luguber.info/inful/docpress/internal/foundation/errors"
)

const (
	dirPerms  = 0o755
	filePerms = 0o644
)

// OutputPath resolves <root>/<category>/<stem>.html, or <root>/<stem>.html for
// root-category assets.
func OutputPath(root string, a *asset.Asset) string {
	category := strings.Trim(a.Category, "/")
	if category == "" {
		return filepath.Join(root, a.OutputName())
	}
	return filepath.Join(root, category, a.OutputName())
}

// EmitOne writes a single asset, creating its directory on demand.
// Write failures are fatal filesystem errors.
func EmitOne(root string, a *asset.Asset) (string, error) {
	path := OutputPath(root, a)
	if err := os.MkdirAll(filepath.Dir(path), dirPerms); err != nil {
		return "", errors.WrapError(err, errors.CategoryFileSystem, "create output directory").
			WithContext("path", filepath.Dir(path)).
			Fatal().
			Build()
	}
	if err := atomic.WriteFile(path, strings.NewReader(a.Markup)); err != nil {
		return "", errors.WrapError(err, errors.CategoryFileSystem, "write output").
			WithContext("path", path).
			Fatal().
			Build()
	}
	// atomic.WriteFile doesn't set permissions for new files
	if err := os.Chmod(path, filePerms); err != nil {
		return "", errors.WrapError(err, errors.CategoryFileSystem, "set output permissions").
			WithContext("path", path).
			Fatal().
			Build()
	}
	return path, nil
}

// EmitAll writes assets in order and stops at the first failure. Assets
// written before the failure stay in place.
func EmitAll(root string, assets []*asset.Asset) ([]string, error) {
	written := make([]string, 0, len(assets))
	for _, a := range assets {
		path, err := EmitOne(root, a)
		if err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

// Remove deletes the emitted file of a, ignoring a file that is already gone.
func Remove(root string, a *asset.Asset) error {
	path := OutputPath(root, a)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.WrapError(err, errors.CategoryFileSystem, "remove output").
			WithContext("path", path).
			Fatal().
			Build()
	}
	return nil
}
