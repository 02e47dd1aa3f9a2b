package config

import "strings"

// DefaultApplier applies defaults for a specific configuration domain.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config) error
	Domain() string
}

// SiteDefaultApplier fills empty site-level strings.
type SiteDefaultApplier struct{}

func (s *SiteDefaultApplier) Domain() string { return "site" }

func (s *SiteDefaultApplier) ApplyDefaults(cfg *Config) error {
	d := Defaults()
	if strings.TrimSpace(cfg.Entry) == "" {
		cfg.Entry = d.Entry
	}
	if strings.TrimSpace(cfg.Output) == "" {
		cfg.Output = d.Output
	}
	if cfg.Name == "" {
		cfg.Name = d.Name
	}
	if cfg.CSS == "" {
		cfg.CSS = d.CSS
	}
	if cfg.Templates.Homepage == "" {
		cfg.Templates.Homepage = d.Templates.Homepage
	}
	if cfg.Templates.Layout == "" {
		cfg.Templates.Layout = d.Templates.Layout
	}
	return nil
}

// DatetimeDefaultApplier normalizes the timestamp settings.
type DatetimeDefaultApplier struct{}

func (t *DatetimeDefaultApplier) Domain() string { return "datetime" }

func (t *DatetimeDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Datetime.Format == "" {
		cfg.Datetime.Format = Defaults().Datetime.Format
	}
	cfg.Datetime.Source = TimestampSource(strings.ToLower(strings.TrimSpace(string(cfg.Datetime.Source))))
	if cfg.Datetime.Source == "" {
		cfg.Datetime.Source = TimestampAuto
	}
	return nil
}

// DevDefaultApplier handles live mode defaults.
type DevDefaultApplier struct{}

func (d *DevDefaultApplier) Domain() string { return "dev" }

func (d *DevDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Dev.Port == 0 {
		cfg.Dev.Port = Defaults().Dev.Port
	}
	return nil
}

// MetricsDefaultApplier handles metrics endpoint defaults.
type MetricsDefaultApplier struct{}

func (m *MetricsDefaultApplier) Domain() string { return "metrics" }

func (m *MetricsDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = Defaults().Metrics.Path
	}
	if !strings.HasPrefix(cfg.Metrics.Path, "/") {
		cfg.Metrics.Path = "/" + cfg.Metrics.Path
	}
	return nil
}

// DefaultApplierChain runs every domain applier in order.
type DefaultApplierChain struct {
	appliers []DefaultApplier
}

// NewDefaultApplier returns the chain used by Load.
func NewDefaultApplier() *DefaultApplierChain {
	return &DefaultApplierChain{appliers: []DefaultApplier{
		&SiteDefaultApplier{},
		&DatetimeDefaultApplier{},
		&DevDefaultApplier{},
		&MetricsDefaultApplier{},
	}}
}

// ApplyDefaults applies every domain's defaults.
func (c *DefaultApplierChain) ApplyDefaults(cfg *Config) error {
	for _, a := range c.appliers {
		if err := a.ApplyDefaults(cfg); err != nil {
			return err
		}
	}
	return nil
}

func applyDefaults(cfg *Config) error {
	return NewDefaultApplier().ApplyDefaults(cfg)
}
