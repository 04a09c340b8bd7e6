package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	configDirName  = "partaudit"
	configFileName = "partaudit"
	envPrefix      = "PARTAUDIT"
)

// Load resolves the configuration. flags may be nil; otherwise it must come
// from NewFlagSet and already be parsed.
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	configFile := ""
	if flags != nil {
		if f := flags.Lookup("config"); f != nil {
			configFile = f.Value.String()
		}
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(configFileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, configDirName))
		}
		v.AddConfigPath("/etc/partaudit")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// Log
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.file", "")

	// Audit
	v.SetDefault("audit.base_dirs", []string{"streams", "streams_local"})
	v.SetDefault("audit.concurrency", 1)
	v.SetDefault("audit.fail_fast", true)
	v.SetDefault("audit.strict", false)
	v.SetDefault("audit.ordering", "parent-name")
	v.SetDefault("audit.max_depth", 5)

	// Storage
	v.SetDefault("fs.base_path", "")

	// Metrics
	v.SetDefault("metrics.textfile", "")

	// UI
	v.SetDefault("ui.interactive", false)
	v.SetDefault("ui.theme", ThemeDark)
}
