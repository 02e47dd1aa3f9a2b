package config

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

//go:embed starter/*
var starterFS embed.FS

// Init creates a new configuration file with example content, plus starter
// templates, a stylesheet and an empty entry directory next to it.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	example := Defaults()
	example.Name = "How To"
	example.Author = "Your Name"
	example.Static = "assets"
	example.SocialMedias = []SocialMedia{
		{Key: "github", Value: "https://github.com/your-name"},
	}

	data, err := yaml.Marshal(example)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	starters := map[string]string{
		"starter/layout.html": filepath.Join(dir, example.Templates.Layout),
		"starter/index.html":  filepath.Join(dir, example.Templates.Homepage),
		"starter/default.css": filepath.Join(dir, example.Static, "styles", example.CSS),
	}
	for src, dst := range starters {
		if err := writeStarter(src, dst, force); err != nil {
			return err
		}
	}
	return os.MkdirAll(filepath.Join(dir, example.Entry), 0o755)
}

func writeStarter(src, dst string, force bool) error {
	if _, err := os.Stat(dst); err == nil && !force {
		return nil
	}
	content, err := starterFS.ReadFile(src)
	if err != nil {
		return fmt.Errorf("read starter %s: %w", src, err)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(dst), err)
	}
	if err := os.WriteFile(dst, content, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", dst, err)
	}
	return nil
}
