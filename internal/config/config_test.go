package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate keeps the user's own configuration out of the test.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, []string{"streams", "streams_local"}, cfg.Audit.BaseDirs)
	assert.Equal(t, 1, cfg.Audit.Concurrency)
	assert.True(t, cfg.Audit.FailFast)
	assert.False(t, cfg.Audit.Strict)
	assert.Equal(t, "parent-name", cfg.Audit.Ordering)
	assert.Equal(t, 5, cfg.Audit.MaxDepth)
	assert.Equal(t, "", cfg.FS.BasePath)
	assert.False(t, cfg.UI.Interactive)
	assert.Equal(t, ThemeDark, cfg.UI.Theme)
}

func TestLoadConfigFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "audit.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log:
  level: debug
  format: json
audit:
  base_dirs: [landing]
  concurrency: 8
  fail_fast: false
  ordering: full-path
metrics:
  textfile: /var/lib/node_exporter/partaudit.prom
`), 0o644))

	flags := NewFlagSet("partaudit")
	require.NoError(t, flags.Parse([]string{"--config", path}))
	cfg, err := Load(flags)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, []string{"landing"}, cfg.Audit.BaseDirs)
	assert.Equal(t, 8, cfg.Audit.Concurrency)
	assert.False(t, cfg.Audit.FailFast)
	assert.Equal(t, "full-path", cfg.Audit.Ordering)
	assert.Equal(t, "/var/lib/node_exporter/partaudit.prom", cfg.Metrics.Textfile)
}

func TestLoadPrecedence(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "partaudit.yaml")
	require.NoError(t, os.WriteFile(path, []byte("audit:\n  concurrency: 2\n  max_depth: 6\n"), 0o644))
	t.Setenv("PARTAUDIT_AUDIT_CONCURRENCY", "4")
	t.Setenv("PARTAUDIT_AUDIT_BASE_DIRS", "a,b")
	t.Setenv("PARTAUDIT_LOG_LEVEL", "warn")

	flags := NewFlagSet("partaudit")
	require.NoError(t, flags.Parse([]string{"--config", path, "--log-level", "error", "--strict"}))
	cfg, err := Load(flags)
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Audit.Concurrency, "env overrides file")
	assert.Equal(t, 6, cfg.Audit.MaxDepth, "file overrides default")
	assert.Equal(t, []string{"a", "b"}, cfg.Audit.BaseDirs)
	assert.Equal(t, "error", cfg.Log.Level, "flag overrides env")
	assert.True(t, cfg.Audit.Strict)
}

func TestLoadErrors(t *testing.T) {
	isolate(t)

	t.Run("missing explicit file", func(t *testing.T) {
		flags := NewFlagSet("partaudit")
		require.NoError(t, flags.Parse([]string{"--config", filepath.Join(t.TempDir(), "nope.yaml")}))
		_, err := Load(flags)
		assert.Error(t, err)
	})

	t.Run("malformed file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("audit: [unclosed"), 0o644))
		flags := NewFlagSet("partaudit")
		require.NoError(t, flags.Parse([]string{"--config", path}))
		_, err := Load(flags)
		assert.ErrorContains(t, err, "read config")
	})

	t.Run("invalid value", func(t *testing.T) {
		flags := NewFlagSet("partaudit")
		require.NoError(t, flags.Parse([]string{"--ordering", "by-size"}))
		_, err := Load(flags)
		assert.ErrorContains(t, err, "audit.ordering")
	})
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Log:   LogConfig{Level: "info", Format: "console"},
			Audit: AuditConfig{BaseDirs: []string{"streams"}, Concurrency: 1, Ordering: "parent-name", MaxDepth: 5},
			UI:    UIConfig{Theme: ThemeLight},
		}
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
		errMsg string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "bad level", mutate: func(c *Config) { c.Log.Level = "trace" }, errMsg: "log.level"},
		{name: "bad format", mutate: func(c *Config) { c.Log.Format = "xml" }, errMsg: "log.format"},
		{name: "zero concurrency", mutate: func(c *Config) { c.Audit.Concurrency = 0 }, errMsg: "audit.concurrency"},
		{name: "zero depth", mutate: func(c *Config) { c.Audit.MaxDepth = 0 }, errMsg: "audit.max_depth"},
		{name: "no base dirs", mutate: func(c *Config) { c.Audit.BaseDirs = nil }, errMsg: "audit.base_dirs"},
		{name: "bad theme", mutate: func(c *Config) { c.UI.Theme = "neon" }, errMsg: "ui.theme"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.errMsg)
		})
	}
}
