package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"

	"github.com/sdejongh/treediff/pkg/models"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() error = %v", err)
	}
	if cfg.Compare.OnTraversalError != "abort" {
		t.Errorf("OnTraversalError = %s, want abort", cfg.Compare.OnTraversalError)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{"ZeroWorkers", func(c *Config) { c.Compare.Workers = 0 }, "compare.workers"},
		{"ZeroQueue", func(c *Config) { c.Compare.QueueSize = 0 }, "compare.queue_size"},
		{"SmallBuffer", func(c *Config) { c.Compare.BufferSize = 512 }, "compare.buffer_size"},
		{"BadBandwidth", func(c *Config) { c.Compare.BandwidthLimit = "fast" }, "compare.bandwidth_limit"},
		{"BadPolicy", func(c *Config) { c.Compare.OnTraversalError = "ignore" }, "compare.on_traversal_error"},
		{"UpperCasePolicy", func(c *Config) { c.Compare.OnTraversalError = "Skip" }, "compare.on_traversal_error"},
		{"BadOutputFormat", func(c *Config) { c.Output.Format = "xml" }, "output.format"},
		{"BadLogFormat", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"BadLogLevel", func(c *Config) { c.Logging.Level = "trace" }, "logging.level"},
		{"NegativeRotation", func(c *Config) { c.Logging.MaxBackups = -1 }, "logging.max_size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)

			err := cfg.Validate()
			var verr *models.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() error = %v, want *ValidationError", err)
			}
			if verr.Field != tt.field {
				t.Errorf("Field = %s, want %s", verr.Field, tt.field)
			}
		})
	}
}

func TestValidate_BandwidthAccepted(t *testing.T) {
	for _, bw := range []string{"", "0", "512K", "10M", "1G"} {
		cfg := Default()
		cfg.Compare.BandwidthLimit = bw
		if err := cfg.Validate(); err != nil {
			t.Errorf("bandwidth %q rejected: %v", bw, err)
		}
	}
}

func TestParse_KeepsDefaultsForMissingKeys(t *testing.T) {
	cfg, err := Parse([]byte("compare:\n  workers: 12\noutput:\n  format: json\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cfg.Compare.Workers != 12 {
		t.Errorf("Workers = %d, want 12", cfg.Compare.Workers)
	}
	if cfg.Output.Format != "json" {
		t.Errorf("Format = %s, want json", cfg.Output.Format)
	}
	if cfg.Compare.BufferSize != 65536 {
		t.Errorf("BufferSize = %d, want default 65536", cfg.Compare.BufferSize)
	}
	if !cfg.Output.Progress {
		t.Error("Progress should keep its default")
	}
}

func TestSaveAndLoad(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "config-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	path := filepath.Join(tempDir, "nested", "config.yaml")

	cfg := Default()
	cfg.Compare.Workers = 3
	cfg.Compare.BandwidthLimit = "10M"
	cfg.Compare.OnTraversalError = "skip"
	cfg.Logging.Level = "debug"

	if err := SaveToFile(cfg, path); err != nil {
		t.Fatalf("SaveToFile() error = %v", err)
	}

	loaded, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}

	if *loaded != *cfg {
		t.Errorf("loaded config = %+v, want %+v", loaded, cfg)
	}
}

func TestSaveToFile_RejectsInvalid(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "config-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	cfg := Default()
	cfg.Compare.Workers = 0
	path := filepath.Join(tempDir, "config.yaml")

	if err := SaveToFile(cfg, path); err == nil {
		t.Error("SaveToFile() should reject an invalid config")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("no file should be written for an invalid config")
	}
}

func TestLoadFromFile_Errors(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "config-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	t.Run("Missing", func(t *testing.T) {
		if _, err := LoadFromFile(filepath.Join(tempDir, "absent.yaml")); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("Malformed", func(t *testing.T) {
		path := filepath.Join(tempDir, "bad.yaml")
		os.WriteFile(path, []byte("compare: [not, a, map"), 0644)
		if _, err := LoadFromFile(path); err == nil {
			t.Error("expected parse error")
		}
	})

	t.Run("Invalid", func(t *testing.T) {
		path := filepath.Join(tempDir, "invalid.yaml")
		os.WriteFile(path, []byte("compare:\n  workers: -2\n"), 0644)
		_, err := LoadFromFile(path)
		var verr *models.ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("error = %v, want wrapped *ValidationError", err)
		}
	})
}

func TestLoadDefault(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "config-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	oldHome := xdg.ConfigHome
	xdg.ConfigHome = tempDir
	defer func() { xdg.ConfigHome = oldHome }()

	path, err := DefaultConfigPath()
	if err != nil {
		t.Fatalf("DefaultConfigPath() error = %v", err)
	}
	if path != filepath.Join(tempDir, "treediff", "config.yaml") {
		t.Errorf("DefaultConfigPath() = %s", path)
	}

	cfg, err := LoadDefault()
	if err != nil {
		t.Fatalf("LoadDefault() without file error = %v", err)
	}
	if cfg.Compare.Workers != Default().Compare.Workers {
		t.Error("LoadDefault() without file should return defaults")
	}

	custom := Default()
	custom.Compare.Workers = 9
	if err := SaveToFile(custom, path); err != nil {
		t.Fatalf("SaveToFile() error = %v", err)
	}

	cfg, err = LoadDefault()
	if err != nil {
		t.Fatalf("LoadDefault() error = %v", err)
	}
	if cfg.Compare.Workers != 9 {
		t.Errorf("Workers = %d, want 9", cfg.Compare.Workers)
	}
}
