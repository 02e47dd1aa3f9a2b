package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docpress/internal/foundation/errors"
)

// DefaultPath is the configuration file looked up when none is given.
const DefaultPath = "docpress.yaml"

// Config represents the site configuration.
type Config struct {
	Entry        string         `yaml:"entry"`
	Output       string         `yaml:"output"`
	Name         string         `yaml:"name"`
	Author       string         `yaml:"author"`
	CSS          string         `yaml:"css"`
	Static       string         `yaml:"static,omitempty"`
	Templates    TemplateConfig `yaml:"templates"`
	SocialMedias []SocialMedia  `yaml:"social_medias,omitempty"`
	Datetime     DatetimeConfig `yaml:"datetime"`
	Dev          DevConfig      `yaml:"dev"`
	Markdown     MarkdownConfig `yaml:"markdown"`
	Minify       MinifyConfig   `yaml:"minify"`
	Metrics      MetricsConfig  `yaml:"metrics"`

	// baseDir is the directory containing the loaded file; relative paths resolve against it.
	baseDir string
	// path is the absolute location of the loaded file, empty for parsed configs.
	path string
}

// TemplateConfig holds the page template file paths.
type TemplateConfig struct {
	Homepage string `yaml:"homepage"`
	Layout   string `yaml:"layout"`
}

// SocialMedia is one homepage social link.
type SocialMedia struct {
	Key   string `yaml:"key"`
	Value string `yaml:"value"`
}

// TimestampSource selects where created/updated timestamps come from.
type TimestampSource string

const (
	TimestampAuto TimestampSource = "auto"
	TimestampGit  TimestampSource = "git"
	TimestampFS   TimestampSource = "fs"
)

// DatetimeConfig controls whether rendered pages carry timestamps.
type DatetimeConfig struct {
	Use    bool            `yaml:"use"`
	Format string          `yaml:"format"`
	Source TimestampSource `yaml:"source"`
}

// Layout returns the Go time layout for Format.
func (d DatetimeConfig) Layout() string {
	return MomentToLayout(d.Format)
}

// DevConfig configures live mode.
type DevConfig struct {
	Port       int  `yaml:"port"`
	LiveReload bool `yaml:"live_reload"`
}

// MarkdownConfig is the markdown engine options bag.
type MarkdownConfig struct {
	Tables          bool `yaml:"tables"`
	Strikethrough   bool `yaml:"strikethrough"`
	Tasklists       bool `yaml:"tasklists"`
	Autolink        bool `yaml:"autolink"`
	Typographer     bool `yaml:"typographer"`
	HardWraps       bool `yaml:"hard_wraps"`
	UnsafeHTML      bool `yaml:"unsafe_html"`
	HeadingIDs      bool `yaml:"heading_ids"`
	Footnotes       bool `yaml:"footnotes"`
	DefinitionLists bool `yaml:"definition_lists"`
}

// MinifyConfig holds minifier options.
type MinifyConfig struct {
	Enabled            bool `yaml:"enabled"`
	RemoveComments     bool `yaml:"remove_comments"`
	CollapseWhitespace bool `yaml:"collapse_whitespace"`
}

// MetricsConfig controls the Prometheus endpoint of the live server.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Defaults returns a configuration populated with every default value.
// Load unmarshals on top of it so omitted booleans keep their defaults.
func Defaults() *Config {
	return &Config{
		Entry:  "articles",
		Output: "docs",
		Name:   "docpress",
		CSS:    "default.css",
		Templates: TemplateConfig{
			Homepage: "templates/index.html",
			Layout:   "templates/layout.html",
		},
		Datetime: DatetimeConfig{
			Use:    true,
			Format: "YYYY/MM/DD HH:mm:ss",
			Source: TimestampAuto,
		},
		Dev: DevConfig{Port: 3000, LiveReload: true},
		Markdown: MarkdownConfig{
			Tables:        true,
			Strikethrough: true,
			Tasklists:     true,
			Autolink:      true,
			HardWraps:     true,
			UnsafeHTML:    true,
			HeadingIDs:    true,
		},
		Minify:  MinifyConfig{Enabled: true, RemoveComments: true, CollapseWhitespace: true},
		Metrics: MetricsConfig{Path: "/metrics"},
	}
}

// Load loads configuration from the specified file.
func Load(configPath string) (*Config, error) {
	loadEnvFiles(filepath.Dir(configPath))

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, errors.ConfigError("configuration file not found").
			WithContext("path", configPath).
			Build()
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to read config file").
			WithContext("path", configPath).
			Fatal().
			Build()
	}

	abs, err := filepath.Abs(configPath)
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}
	return parse(data, abs)
}

// Parse decodes configuration bytes, expanding ${VAR} references, then applies
// defaults and validation. Relative paths resolve against the working directory.
func Parse(data []byte) (*Config, error) {
	return parse(data, "")
}

func parse(data []byte, path string) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	cfg := Defaults()
	if path != "" {
		cfg.path = path
		cfg.baseDir = filepath.Dir(path)
	}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to unmarshal config").
			Fatal().
			Build()
	}

	if err := applyDefaults(cfg); err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to apply defaults").
			Fatal().
			Build()
	}

	if err := Validate(cfg); err != nil {
		return nil, errors.WrapError(err, errors.CategoryValidation, "configuration validation failed").
			Fatal().
			Build()
	}
	return cfg, nil
}

// Resolve returns p made absolute against the configuration file directory.
func (c *Config) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	if c.baseDir == "" {
		if abs, err := filepath.Abs(p); err == nil {
			return abs
		}
		return p
	}
	return filepath.Join(c.baseDir, p)
}

// EntryDir returns the absolute entry directory.
func (c *Config) EntryDir() string { return c.Resolve(c.Entry) }

// OutputDir returns the absolute output directory.
func (c *Config) OutputDir() string { return c.Resolve(c.Output) }

// StaticDir returns the absolute static subtree, or "" when none is configured.
func (c *Config) StaticDir() string { return c.Resolve(c.Static) }

// LayoutTemplate returns the absolute layout template path.
func (c *Config) LayoutTemplate() string { return c.Resolve(c.Templates.Layout) }

// HomepageTemplate returns the absolute homepage template path.
func (c *Config) HomepageTemplate() string { return c.Resolve(c.Templates.Homepage) }

// StylesheetHref is the site-relative stylesheet reference injected into pages.
func (c *Config) StylesheetHref() string {
	return "/assets/styles/" + c.CSS
}

// SetBaseDir overrides the directory relative paths resolve against.
func (c *Config) SetBaseDir(dir string) { c.baseDir = dir }
