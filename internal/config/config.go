// Package config loads partaudit settings from defaults, an optional YAML
// file, PARTAUDIT_* environment variables and command line flags, in
// increasing order of precedence.
package config

import (
	"fmt"

	"partaudit/internal/domain"
)

// Config is the root configuration structure.
type Config struct {
	Log     LogConfig     `mapstructure:"log"`
	Audit   AuditConfig   `mapstructure:"audit"`
	FS      FSConfig      `mapstructure:"fs"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	UI      UIConfig      `mapstructure:"ui"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or console
	File   string `mapstructure:"file"`
}

// AuditConfig controls how streams are audited and how failures end the run.
type AuditConfig struct {
	BaseDirs    []string `mapstructure:"base_dirs"`
	Concurrency int      `mapstructure:"concurrency"`
	FailFast    bool     `mapstructure:"fail_fast"`
	Strict      bool     `mapstructure:"strict"`
	Ordering    string   `mapstructure:"ordering"`
	MaxDepth    int      `mapstructure:"max_depth"`
}

type FSConfig struct {
	// BasePath confines every audited path beneath it.
	BasePath string `mapstructure:"base_path"`
}

type MetricsConfig struct {
	// Textfile is written in Prometheus text format after each run.
	Textfile string `mapstructure:"textfile"`
}

type UIConfig struct {
	Interactive bool   `mapstructure:"interactive"`
	Theme       string `mapstructure:"theme"`
}

// Validate checks for configuration errors.
func (c *Config) Validate() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error: got %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("log.format must be json or console: got %q", c.Log.Format)
	}
	if c.Audit.Concurrency < 1 {
		return fmt.Errorf("audit.concurrency must be at least 1: got %d", c.Audit.Concurrency)
	}
	if c.Audit.MaxDepth < 1 {
		return fmt.Errorf("audit.max_depth must be at least 1: got %d", c.Audit.MaxDepth)
	}
	if _, err := domain.OrderingFor(domain.OrderingMode(c.Audit.Ordering)); err != nil {
		return fmt.Errorf("audit.ordering: %w", err)
	}
	if len(c.Audit.BaseDirs) == 0 {
		return fmt.Errorf("audit.base_dirs must not be empty")
	}
	switch c.UI.Theme {
	case ThemeDark, ThemeLight:
	default:
		return fmt.Errorf("ui.theme must be %s or %s: got %q", ThemeDark, ThemeLight, c.UI.Theme)
	}
	return nil
}

const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)
