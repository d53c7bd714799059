package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fyrsmithlabs/scribe/internal/config"
)

// Config holds the sink and redaction configuration. It is consumed once by
// NewRouter; the router never reads it again after construction, so mutating
// a Config after setup has no effect on live loggers.
type Config struct {
	Console     ConsoleConfig     `koanf:"console"`
	File        FileConfig        `koanf:"file"`
	Redaction   RedactionConfig   `koanf:"redaction"`
	Diagnostics DiagnosticsConfig `koanf:"diagnostics"`
}

// ConsoleConfig controls the human-facing sink.
type ConsoleConfig struct {
	Level string `koanf:"level"`
	// Width bounds each rendered line; longer lines are truncated.
	Width int `koanf:"width"`
	// Timestamps toggles the leading HH:MM:SS clock on console lines.
	Timestamps bool `koanf:"timestamps"`
}

// FileConfig controls the machine-facing sink. An empty Path disables file
// output entirely, regardless of level.
type FileConfig struct {
	Level string `koanf:"level"`
	Path  string `koanf:"path"`
}

// RedactionConfig controls the secret filter. When disabled the filter is
// still invoked and passes text through unchanged.
type RedactionConfig struct {
	Enabled bool `koanf:"enabled"`
}

// DiagnosticsConfig controls the router's own failure reporting.
type DiagnosticsConfig struct {
	// Interval bounds how often the router reports sink failures; within
	// one interval repeated failures are dropped so a dead destination
	// cannot cascade into a diagnostic flood.
	Interval config.Duration `koanf:"interval"`
}

// MinConsoleWidth is the narrowest usable console; marker plus prefix plus a
// few words of message.
const MinConsoleWidth = 40

// NewDefaultConfig returns production defaults: console at info, file at
// trace but disabled until a path is set, redaction on.
func NewDefaultConfig() *Config {
	return &Config{
		Console: ConsoleConfig{
			Level:      "info",
			Width:      120,
			Timestamps: false,
		},
		File: FileConfig{
			Level: "trace",
			Path:  "",
		},
		Redaction: RedactionConfig{
			Enabled: true,
		},
		Diagnostics: DiagnosticsConfig{
			Interval: config.Duration(10 * time.Second),
		},
	}
}

// LoadConfig builds a Config from defaults, an optional YAML file, and
// SCRIBE_* environment variables, then validates it. Configuration-time
// validation is the one place in this package where errors surface to the
// caller; a bad level name or width is a deployment error, not a runtime
// condition.
func LoadConfig(path string) (*Config, error) {
	cfg := NewDefaultConfig()
	if err := config.Load(path, "SCRIBE_", cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the config, failing fast on programming or deployment
// errors.
func (c *Config) Validate() error {
	if _, err := ParseLevel(c.Console.Level); err != nil {
		return fmt.Errorf("console level: %w", err)
	}
	if _, err := ParseLevel(c.File.Level); err != nil {
		return fmt.Errorf("file level: %w", err)
	}
	if c.Console.Width < MinConsoleWidth {
		return fmt.Errorf("console width must be >= %d, got %d", MinConsoleWidth, c.Console.Width)
	}
	if c.Diagnostics.Interval.Duration() <= 0 {
		return fmt.Errorf("diagnostics interval must be > 0, got %s", c.Diagnostics.Interval.Duration())
	}
	if c.File.Path != "" {
		dir := filepath.Dir(c.File.Path)
		info, err := os.Stat(dir)
		if err != nil {
			return fmt.Errorf("file sink directory %s: %w", dir, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("file sink parent %s is not a directory", dir)
		}
	}
	return nil
}
