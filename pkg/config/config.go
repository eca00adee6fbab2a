package config

import (
	"github.com/sdejongh/treediff/pkg/compare"
	"github.com/sdejongh/treediff/pkg/models"
	"github.com/sdejongh/treediff/pkg/ratelimit"
	"github.com/sdejongh/treediff/pkg/reconcile"
)

// Config represents the application configuration
type Config struct {
	Compare CompareConfig `yaml:"compare"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
}

// CompareConfig holds comparison and performance settings
type CompareConfig struct {
	Workers          int    `yaml:"workers"`            // Workers per scan
	QueueSize        int    `yaml:"queue_size"`         // Paths buffered between walker and workers
	BufferSize       int    `yaml:"buffer_size"`        // Block size for content comparison
	BandwidthLimit   string `yaml:"bandwidth_limit"`    // e.g. "10M"; empty or "0" = unlimited
	OnTraversalError string `yaml:"on_traversal_error"` // "abort" or "skip"
}

// OutputConfig holds output-related settings
type OutputConfig struct {
	Format   string `yaml:"format"`   // "human" or "json"
	Progress bool   `yaml:"progress"` // Show progress on a terminal
	Quiet    bool   `yaml:"quiet"`    // Suppress the report on stdout
}

// LoggingConfig holds logging-related settings
type LoggingConfig struct {
	Format     string `yaml:"format"`      // "json" or "text"
	Level      string `yaml:"level"`       // "debug", "info", "warn", "error"
	File       string `yaml:"file"`        // Log file path (empty = no file)
	MaxSize    int64  `yaml:"max_size"`    // Rotate after this many bytes (0 = never)
	MaxBackups int    `yaml:"max_backups"` // Rotated files to keep
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Compare: CompareConfig{
			Workers:          5,
			QueueSize:        1000,
			BufferSize:       65536,
			BandwidthLimit:   "",
			OnTraversalError: "abort",
		},
		Output: OutputConfig{
			Format:   "human",
			Progress: true,
			Quiet:    false,
		},
		Logging: LoggingConfig{
			Format:     "text",
			Level:      "info",
			File:       "",
			MaxSize:    10 * 1024 * 1024,
			MaxBackups: 3,
		},
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Compare.Workers < 1 {
		return &models.ValidationError{
			Field:   "compare.workers",
			Message: "must be at least 1",
		}
	}

	if c.Compare.QueueSize < 1 {
		return &models.ValidationError{
			Field:   "compare.queue_size",
			Message: "must be at least 1",
		}
	}

	if c.Compare.BufferSize < compare.MinBufferSize {
		return &models.ValidationError{
			Field:   "compare.buffer_size",
			Message: "must be at least 4096 bytes",
		}
	}

	if _, err := ratelimit.ParseBandwidth(c.Compare.BandwidthLimit); err != nil {
		return &models.ValidationError{
			Field:   "compare.bandwidth_limit",
			Message: err.Error(),
		}
	}

	if _, err := reconcile.ParsePolicy(c.Compare.OnTraversalError); err != nil {
		return &models.ValidationError{
			Field:   "compare.on_traversal_error",
			Message: err.Error(),
		}
	}

	validFormats := map[string]bool{"human": true, "json": true}
	if !validFormats[c.Output.Format] {
		return &models.ValidationError{
			Field:   "output.format",
			Message: "must be 'human' or 'json'",
		}
	}

	validLogFormats := map[string]bool{"json": true, "text": true}
	if !validLogFormats[c.Logging.Format] {
		return &models.ValidationError{
			Field:   "logging.format",
			Message: "must be 'json' or 'text'",
		}
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return &models.ValidationError{
			Field:   "logging.level",
			Message: "must be 'debug', 'info', 'warn', or 'error'",
		}
	}

	if c.Logging.MaxSize < 0 || c.Logging.MaxBackups < 0 {
		return &models.ValidationError{
			Field:   "logging.max_size",
			Message: "rotation settings must not be negative",
		}
	}

	return nil
}
