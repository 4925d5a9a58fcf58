package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if !reflect.DeepEqual(cfg.Parser.Providers, []string{"ltlf", "ltl"}) {
		t.Errorf("expected default providers [ltlf ltl], got %v", cfg.Parser.Providers)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("expected default log level info, got %s", cfg.Log.Level)
	}
	if cfg.Output.Format != "text" {
		t.Errorf("expected default output format text, got %s", cfg.Output.Format)
	}
	if cfg.Synthesis.Timeout != 10*time.Minute {
		t.Errorf("expected default timeout 10m, got %v", cfg.Synthesis.Timeout)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid default config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "bad log level",
			modify:  func(c *Config) { c.Log.Level = "loud" },
			wantErr: true,
		},
		{
			name:    "bad log format",
			modify:  func(c *Config) { c.Log.Format = "xml" },
			wantErr: true,
		},
		{
			name:    "bad output format",
			modify:  func(c *Config) { c.Output.Format = "csv" },
			wantErr: true,
		},
		{
			name:    "watch without dir",
			modify:  func(c *Config) { c.Catalog.Watch = true },
			wantErr: true,
		},
		{
			name:    "watch with dir",
			modify:  func(c *Config) { c.Catalog.Watch = true; c.Catalog.Dir = "templates" },
			wantErr: false,
		},
		{
			name:    "missing synthesis command",
			modify:  func(c *Config) { c.Synthesis.Command = nil },
			wantErr: true,
		},
		{
			name:    "negative timeout",
			modify:  func(c *Config) { c.Synthesis.Timeout = -time.Second },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSaveAndLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", ProjectConfigFile)

	cfg := DefaultConfig()
	cfg.Catalog.Dir = "templates"
	cfg.Synthesis.Timeout = 90 * time.Second
	if err := cfg.SaveToFile(path); err != nil {
		t.Fatalf("SaveToFile() error = %v", err)
	}

	loaded, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}
	if !reflect.DeepEqual(cfg, loaded) {
		t.Errorf("loaded config = %+v, want %+v", loaded, cfg)
	}
}

func TestLoadFromFileErrors(t *testing.T) {
	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("log: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFromFile(path); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestMerge(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Merge(&Config{
		Catalog: CatalogConfig{Dir: "custom", Watch: true},
		Parser:  ParserConfig{Providers: []string{"ltl"}},
		Log:     LogConfig{Level: "debug"},
		Metrics: MetricsConfig{Textfile: "out.prom"},
	})

	if cfg.Catalog.Dir != "custom" || !cfg.Catalog.Watch {
		t.Errorf("catalog not merged: %+v", cfg.Catalog)
	}
	if !reflect.DeepEqual(cfg.Parser.Providers, []string{"ltl"}) {
		t.Errorf("providers = %v", cfg.Parser.Providers)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "text" {
		t.Errorf("log = %+v", cfg.Log)
	}
	if cfg.Metrics.Textfile != "out.prom" {
		t.Errorf("metrics = %+v", cfg.Metrics)
	}
	if len(cfg.Synthesis.Command) == 0 {
		t.Error("zero-valued fields must not override defaults")
	}

	cfg.Merge(nil)
}

func TestLoaderFindsProjectConfigInParent(t *testing.T) {
	root := t.TempDir()
	child := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(child, 0755); err != nil {
		t.Fatal(err)
	}
	content := "output:\n  format: json\nsynthesis:\n  timeout: 30s\n"
	if err := os.WriteFile(filepath.Join(root, ProjectConfigFile), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := NewLoaderAt(nil, child).Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Output.Format != "json" {
		t.Errorf("Output.Format = %s, want json", cfg.Output.Format)
	}
	if cfg.Synthesis.Timeout != 30*time.Second {
		t.Errorf("Synthesis.Timeout = %v, want 30s", cfg.Synthesis.Timeout)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("defaults should survive merge, got level %s", cfg.Log.Level)
	}
}

func TestLoaderExplicitPath(t *testing.T) {
	dir := t.TempDir()
	explicit := filepath.Join(dir, "custom.yaml")
	if err := os.WriteFile(explicit, []byte("output:\n  format: yaml\n"), 0644); err != nil {
		t.Fatal(err)
	}

	loader := NewLoaderAt(slog.Default(), dir)
	cfg, err := loader.Load(explicit)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Output.Format != "yaml" {
		t.Errorf("Output.Format = %s, want yaml", cfg.Output.Format)
	}

	if _, err := loader.Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing explicit config")
	}

	invalid := filepath.Join(dir, "invalid.yaml")
	if err := os.WriteFile(invalid, []byte("output:\n  format: csv\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := loader.Load(invalid); err == nil {
		t.Error("expected validation error")
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := LogConfig{Level: "warn", Format: "json"}.NewLogger(&buf)
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}
	logger.Info("hidden")
	logger.Warn("shown", slog.String("template", "bogus"))

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info message should be filtered at warn level")
	}
	if !strings.Contains(out, `"template":"bogus"`) {
		t.Errorf("expected JSON output, got %s", out)
	}

	if _, err := (LogConfig{Level: "nope"}).NewLogger(&buf); err == nil {
		t.Error("expected error for bad level")
	}
}
