package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sdejongh/treediff/internal/platform"
	"github.com/sdejongh/treediff/pkg/config"
	"github.com/sdejongh/treediff/pkg/logging"
)

// validateArgs requires exactly the two roots
func validateArgs(cmd *cobra.Command, args []string) error {
	if len(args) != 2 {
		return &UsageError{Err: fmt.Errorf("expected 2 arguments (LEFT RIGHT), got %d\nUsage: %s", len(args), cmd.UseLine())}
	}
	return nil
}

// validateRoots checks both roots are existing directories
func validateRoots(left, right string) error {
	for _, root := range []struct {
		name string
		path string
	}{
		{"left", left},
		{"right", right},
	} {
		if err := platform.ValidatePath(root.path); err != nil {
			return &UsageError{Err: fmt.Errorf("invalid %s directory: %w", root.name, err)}
		}

		info, err := os.Stat(root.path)
		if os.IsNotExist(err) {
			return &UsageError{Err: fmt.Errorf("%s directory doesn't exist: %s", root.name, root.path)}
		} else if err != nil {
			return &UsageError{Err: fmt.Errorf("failed to access %s directory: %w", root.name, err)}
		} else if !info.IsDir() {
			return &UsageError{Err: fmt.Errorf("%s path is not a directory: %s", root.name, root.path)}
		}
	}

	return nil
}

// loadConfig loads configuration from file or returns default
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromFile(path)
	}
	return config.LoadDefault()
}

// applyFlagsToConfig overrides config values with the flags set on the command line
func applyFlagsToConfig(cmd *cobra.Command, cfg *config.Config, global *GlobalFlags, flags *CompareFlags) {
	changed := cmd.Flags().Changed

	if changed("workers") {
		cfg.Compare.Workers = flags.Workers
	}
	if changed("queue-size") {
		cfg.Compare.QueueSize = flags.QueueSize
	}
	if changed("buffer-size") {
		cfg.Compare.BufferSize = flags.BufferSize
	}
	if changed("bandwidth") {
		cfg.Compare.BandwidthLimit = flags.Bandwidth
	}
	if changed("on-error") {
		cfg.Compare.OnTraversalError = flags.OnError
	}

	// Output format
	if changed("output") {
		cfg.Output.Format = flags.Output
	}
	if flags.NoProgress {
		cfg.Output.Progress = false
	}

	// Disable progress in quiet mode
	if global.Quiet {
		cfg.Output.Progress = false
		cfg.Output.Quiet = true
	}

	if changed("log-file") {
		cfg.Logging.File = flags.LogFile
	}
	if changed("log-format") {
		cfg.Logging.Format = flags.LogFormat
	}
	if changed("log-level") {
		cfg.Logging.Level = flags.LogLevel
	}
}

// createLogger creates a logger based on configuration.
// With no log file, --verbose logs to stderr at debug level; otherwise logging is off.
func createLogger(cfg config.LoggingConfig, verbose bool, stderr *os.File) (logging.Logger, error) {
	format := logging.ParseFormat(cfg.Format)

	if cfg.File != "" {
		level := logging.ParseLevel(cfg.Level)
		if verbose {
			level = logging.DebugLevel
		}
		return logging.NewFileLogger(logging.FileLoggerConfig{
			Path:       cfg.File,
			Format:     format,
			Level:      level,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
		})
	}

	if verbose {
		return logging.NewStreamLogger(stderr, format, logging.DebugLevel), nil
	}

	return logging.NewNullLogger(), nil
}
