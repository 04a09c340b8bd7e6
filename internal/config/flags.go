package config

import (
	"github.com/spf13/pflag"
)

// flagKeys maps each flag to the configuration key it overrides.
var flagKeys = map[string]string{
	"log-level":        "log.level",
	"log-format":       "log.format",
	"log-file":         "log.file",
	"concurrency":      "audit.concurrency",
	"fail-fast":        "audit.fail_fast",
	"strict":           "audit.strict",
	"ordering":         "audit.ordering",
	"max-depth":        "audit.max_depth",
	"base-path":        "fs.base_path",
	"metrics-textfile": "metrics.textfile",
	"interactive":      "ui.interactive",
	"theme":            "ui.theme",
}

// NewFlagSet declares the partaudit flags. Positional arguments are left to
// the caller.
func NewFlagSet(name string) *pflag.FlagSet {
	flags := pflag.NewFlagSet(name, pflag.ContinueOnError)
	flags.SortFlags = false

	flags.String("config", "", "Path to a partaudit.yaml configuration file")
	flags.String("log-level", "info", "Log level: debug, info, warn, error")
	flags.String("log-format", "console", "Log format: json or console")
	flags.String("log-file", "", "Write logs to this file instead of stderr")
	flags.Int("concurrency", 1, "Number of streams audited at once")
	flags.Bool("fail-fast", true, "Stop at the first stream failure")
	flags.Bool("strict", false, "Fail the run when any path issue was recovered")
	flags.String("ordering", "parent-name", "Partition ordering: parent-name or full-path")
	flags.Int("max-depth", 5, "Deepest directory level allowed beneath a stream")
	flags.String("base-path", "", "Confine every audited path beneath this directory")
	flags.String("metrics-textfile", "", "Write Prometheus metrics to this file after the run")
	flags.Bool("interactive", false, "Browse the result in a terminal UI")
	flags.String("theme", ThemeDark, "Color theme: dark or light")
	return flags
}
