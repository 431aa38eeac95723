// Package config holds slangc settings and loads them from defaults, a
// slangc.yaml file, SLANGC_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultSourceExt = ".sl"
	DefaultOutput    = "table"
	DefaultLogLevel  = "warn"
	DefaultLogFormat = "text"
	DefaultJobs      = 4

	EnvPrefix = "SLANGC_"
)

// FileNames are the config files looked up in the working directory, in order.
var FileNames = []string{"slangc.yaml", "slangc.yml"}

var (
	OutputFormats = []string{"table", "json", "yaml"}
	LogFormats    = []string{"text", "json"}
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	SourceExt     string `koanf:"source_ext" yaml:"source_ext"`
	Output        string `koanf:"output" yaml:"output"`
	Verbose       bool   `koanf:"verbose" yaml:"verbose"`
	LogLevel      string `koanf:"log_level" yaml:"log_level"`
	LogFormat     string `koanf:"log_format" yaml:"log_format"`
	FoldConstants bool   `koanf:"fold_constants" yaml:"fold_constants"`
	WarnShadowing bool   `koanf:"warn_shadowing" yaml:"warn_shadowing"`
	Jobs          int    `koanf:"jobs" yaml:"jobs"`
}

func Default() *Config {
	return &Config{
		SourceExt:     DefaultSourceExt,
		Output:        DefaultOutput,
		LogLevel:      DefaultLogLevel,
		LogFormat:     DefaultLogFormat,
		FoldConstants: true,
		WarnShadowing: true,
		Jobs:          DefaultJobs,
	}
}

// defaultMap is Default in the shape the confmap provider expects.
func defaultMap() map[string]any {
	d := Default()
	return map[string]any{
		"source_ext":     d.SourceExt,
		"output":         d.Output,
		"verbose":        d.Verbose,
		"log_level":      d.LogLevel,
		"log_format":     d.LogFormat,
		"fold_constants": d.FoldConstants,
		"warn_shadowing": d.WarnShadowing,
		"jobs":           d.Jobs,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if !strings.HasPrefix(c.SourceExt, ".") || len(c.SourceExt) < 2 {
		return fmt.Errorf("%w: source_ext %q must start with '.'", ErrInvalidConfig, c.SourceExt)
	}
	if !slices.Contains(OutputFormats, c.Output) {
		return fmt.Errorf("%w: output %q (want one of %s)", ErrInvalidConfig, c.Output, strings.Join(OutputFormats, ", "))
	}
	if !slices.Contains(LogFormats, c.LogFormat) {
		return fmt.Errorf("%w: log_format %q (want one of %s)", ErrInvalidConfig, c.LogFormat, strings.Join(LogFormats, ", "))
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if c.Jobs < 1 {
		return fmt.Errorf("%w: jobs must be at least 1, got %d", ErrInvalidConfig, c.Jobs)
	}
	return nil
}

// Level parses LogLevel. Verbose raises the level to debug.
func (c *Config) Level() (slog.Level, error) {
	if c.Verbose {
		return slog.LevelDebug, nil
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("%w: log_level %q", ErrInvalidConfig, c.LogLevel)
	}
	return lvl, nil
}

// Marshal renders c as a slangc.yaml document.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
