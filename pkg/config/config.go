// Package config provides configuration loading and management for codeclare.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/AreebJan/CoDeclare/pkg/ltlf"
)

// ModelPlaceholder is replaced by the model path in the synthesis command.
const ModelPlaceholder = "{model}"

// Config represents the complete codeclare configuration
type Config struct {
	Catalog   CatalogConfig   `yaml:"catalog"`
	Parser    ParserConfig    `yaml:"parser"`
	Log       LogConfig       `yaml:"log"`
	Output    OutputConfig    `yaml:"output"`
	Synthesis SynthesisConfig `yaml:"synthesis"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// CatalogConfig configures the template library
type CatalogConfig struct {
	// Dir holds catalog files overlaid on the built-in templates (empty = built-in only)
	Dir string `yaml:"dir"`
	// Watch reloads the catalog when files in Dir change
	Watch bool `yaml:"watch"`
}

// ParserConfig configures formula parsing
type ParserConfig struct {
	// Providers are tried in order; the first usable one is kept
	Providers []string `yaml:"providers"`
}

// LogConfig configures logging
type LogConfig struct {
	// Level is one of debug, info, warn, error
	Level string `yaml:"level"`
	// Format is text or json
	Format string `yaml:"format"`
}

// OutputConfig configures report output
type OutputConfig struct {
	// Format is text, json, or yaml
	Format string `yaml:"format"`
}

// SynthesisConfig configures the downstream synthesis hand-off
type SynthesisConfig struct {
	// Command is the argv of the synthesis process; ModelPlaceholder marks the model path
	Command []string `yaml:"command"`
	// Timeout bounds one synthesis run
	Timeout time.Duration `yaml:"timeout"`
}

// MetricsConfig configures metrics export
type MetricsConfig struct {
	// Textfile is where generation metrics are written (empty = disabled)
	Textfile string `yaml:"textfile"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Parser: ParserConfig{
			Providers: append([]string(nil), ltlf.DefaultProviderNames...),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Output: OutputConfig{
			Format: "text",
		},
		Synthesis: SynthesisConfig{
			Command: []string{"python3", "-m", "codeclare.main", "--in", ModelPlaceholder},
			Timeout: 10 * time.Minute,
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	switch c.Output.Format {
	case "text", "json", "yaml":
	default:
		return fmt.Errorf("output.format must be text, json, or yaml, got %q", c.Output.Format)
	}
	if c.Catalog.Watch && c.Catalog.Dir == "" {
		return fmt.Errorf("catalog.watch requires catalog.dir")
	}
	if len(c.Synthesis.Command) == 0 {
		return fmt.Errorf("synthesis.command is required")
	}
	if c.Synthesis.Timeout < 0 {
		return fmt.Errorf("synthesis.timeout must not be negative")
	}
	return nil
}

// SlogLevel parses Level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return level, fmt.Errorf("log.level %q: %w", l.Level, err)
	}
	return level, nil
}

// NewLogger builds a logger writing to w in the configured format and level.
func (l LogConfig) NewLogger(w io.Writer) (*slog.Logger, error) {
	level, err := l.SlogLevel()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(l.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := &Config{}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	if other.Catalog.Dir != "" {
		c.Catalog.Dir = other.Catalog.Dir
	}
	if other.Catalog.Watch {
		c.Catalog.Watch = true
	}

	if len(other.Parser.Providers) > 0 {
		c.Parser.Providers = other.Parser.Providers
	}

	if other.Log.Level != "" {
		c.Log.Level = other.Log.Level
	}
	if other.Log.Format != "" {
		c.Log.Format = other.Log.Format
	}

	if other.Output.Format != "" {
		c.Output.Format = other.Output.Format
	}

	if len(other.Synthesis.Command) > 0 {
		c.Synthesis.Command = other.Synthesis.Command
	}
	if other.Synthesis.Timeout != 0 {
		c.Synthesis.Timeout = other.Synthesis.Timeout
	}

	if other.Metrics.Textfile != "" {
		c.Metrics.Textfile = other.Metrics.Textfile
	}
}
