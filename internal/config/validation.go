package config

import (
	"errors"
	"fmt"
	"strings"

	"git.home.luguber.info/inful/docpress/internal/docs"
)

// ErrOutputContainsSource is returned when the output directory would swallow
// the entry tree, a template, the static subtree or the config file.
var ErrOutputContainsSource = errors.New("output directory contains a source path")

// Validate validates the complete configuration structure.
func Validate(cfg *Config) error {
	return newConfigurationValidator(cfg).validate()
}

type configurationValidator struct {
	config *Config
}

func newConfigurationValidator(config *Config) *configurationValidator {
	return &configurationValidator{config: config}
}

func (cv *configurationValidator) validate() error {
	if err := cv.validatePaths(); err != nil {
		return err
	}
	if err := cv.validateDatetime(); err != nil {
		return err
	}
	if err := cv.validateDev(); err != nil {
		return err
	}
	return cv.validateSocialMedias()
}

func (cv *configurationValidator) validatePaths() error {
	if err := cv.config.CheckOutputDir(); err != nil {
		return err
	}
	if strings.ContainsAny(cv.config.CSS, `/\`) {
		return fmt.Errorf("css must be a file name, got %q", cv.config.CSS)
	}
	return nil
}

func (cv *configurationValidator) validateDatetime() error {
	switch cv.config.Datetime.Source {
	case TimestampAuto, TimestampGit, TimestampFS:
	default:
		return fmt.Errorf("invalid datetime source: %s (expected auto, git or fs)", cv.config.Datetime.Source)
	}
	return nil
}

func (cv *configurationValidator) validateDev() error {
	if p := cv.config.Dev.Port; p < 1 || p > 65535 {
		return fmt.Errorf("dev port out of range: %d", p)
	}
	return nil
}

func (cv *configurationValidator) validateSocialMedias() error {
	for i, sm := range cv.config.SocialMedias {
		if strings.TrimSpace(sm.Key) == "" {
			return fmt.Errorf("social_medias[%d]: %w", i, errors.New("key is required"))
		}
	}
	return nil
}

// CheckOutputDir fails when clearing the resolved output directory would
// delete an input. Paths are compared after resolution against the config
// directory, so "." and absolute spellings of the same directory are caught.
func (c *Config) CheckOutputDir() error {
	out := c.OutputDir()
	sources := []string{c.EntryDir(), c.LayoutTemplate(), c.HomepageTemplate(), c.StaticDir(), c.path}
	for _, src := range sources {
		if src == "" {
			continue
		}
		if docs.Within(out, src) {
			return fmt.Errorf("%w: %s contains %s", ErrOutputContainsSource, out, src)
		}
	}
	return nil
}
