// Package static copies the configured static subtree into <output>/assets.
package static

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/docpress/internal/config"
	"git.home.luguber.info/inful/docpress/internal/docs"
	"git.home.luguber.info/inful/docpress/internal/foundation/errors"
	"git.home.luguber.info/inful/docpress/internal/logfields"
	"git.home.luguber.info/inful/docpress/internal/plugin"
)

// Name is the registry name of the static plugin.
const Name = "static"

// Subdir is the output subdirectory receiving static files.
const Subdir = "assets"

// Plugin copies static files on postEmission of full-scope firings.
type Plugin struct{}

// New creates the static plugin.
func New() *Plugin { return &Plugin{} }

func (p *Plugin) Metadata() plugin.PluginMetadata {
	return plugin.PluginMetadata{
		Name:        Name,
		Type:        plugin.PluginTypeOutput,
		Description: "Copies static assets into the output tree",
	}
}

func (p *Plugin) Apply(_ context.Context, bc *plugin.BuildContext) error {
	bc.Hooks.Tap(plugin.PostEmission, Name, copyStatic)
	return nil
}

func copyStatic(_ context.Context, bc *plugin.BuildContext) error {
	if !bc.FullScope() {
		return nil
	}
	src := bc.Config.StaticDir()
	if src == "" {
		return nil
	}
	if _, err := os.Stat(src); os.IsNotExist(err) {
		bc.Logger.Debug("Static directory not found", logfields.Path(src))
		return nil
	}
	dst := filepath.Join(bc.Config.OutputDir(), Subdir)
	if err := CopyDir(src, dst); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "copy static assets").
			WithContext("path", src).
			Fatal().
			Build()
	}
	bc.Logger.Debug("Copied static assets", logfields.Path(src), logfields.Output(dst))
	return nil
}

// Sync mirrors a single changed path of the static subtree into the output:
// files are copied, directories copied recursively and vanished paths removed.
func Sync(cfg *config.Config, path string) error {
	src := cfg.StaticDir()
	if src == "" || !docs.Within(src, path) {
		return fmt.Errorf("%s is not under the static directory", path)
	}
	rel, err := filepath.Rel(src, path)
	if err != nil {
		return err
	}
	dst := filepath.Join(cfg.OutputDir(), Subdir, rel)

	info, err := os.Stat(path)
	switch {
	case os.IsNotExist(err):
		return os.RemoveAll(dst)
	case err != nil:
		return err
	case info.IsDir():
		return CopyDir(path, dst)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	return copyFile(path, dst)
}

// CopyDir recursively copies a directory tree, skipping hidden entries.
func CopyDir(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dst, srcInfo.Mode().Perm()|0o700); err != nil {
		return err
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.Name()[0] == '.' {
			continue
		}
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		if entry.IsDir() {
			if err := CopyDir(srcPath, dstPath); err != nil {
				return err
			}
			continue
		}
		if err := copyFile(srcPath, dstPath); err != nil {
			return err
		}
	}
	return nil
}

// copyFile copies a single file from src to dst, preserving permissions.
func copyFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		_ = srcFile.Close()
	}()

	srcInfo, err := srcFile.Stat()
	if err != nil {
		return err
	}
	dstFile, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, srcInfo.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(dstFile, srcFile); err != nil {
		_ = dstFile.Close()
		return err
	}
	return dstFile.Close()
}
