package cli

import (
	"time"

	"github.com/spf13/cobra"
)

// GlobalFlags holds global flag values
type GlobalFlags struct {
	ConfigFile string
	Verbose    bool
	Quiet      bool
}

// CompareFlags holds the flags of the comparison command
type CompareFlags struct {
	Workers      int
	QueueSize    int
	BufferSize   int
	Bandwidth    string
	OnError      string
	Output       string
	ReportFile   string
	ReportFormat string
	Timeout      time.Duration
	NoProgress   bool
	// Logging flags
	LogFile   string
	LogFormat string
	LogLevel  string
}

// AddGlobalFlags adds global flags to the root command
func AddGlobalFlags(cmd *cobra.Command, flags *GlobalFlags) {
	cmd.PersistentFlags().StringVar(
		&flags.ConfigFile,
		"config",
		"",
		"config file (default is $XDG_CONFIG_HOME/treediff/config.yaml)",
	)
	cmd.PersistentFlags().BoolVarP(
		&flags.Verbose,
		"verbose",
		"v",
		false,
		"verbose output (debug logging to stderr)",
	)
	cmd.PersistentFlags().BoolVarP(
		&flags.Quiet,
		"quiet",
		"q",
		false,
		"suppress the report and progress; rely on the exit code",
	)
}

// AddCompareFlags adds the comparison flags to cmd
func AddCompareFlags(cmd *cobra.Command, flags *CompareFlags) {
	cmd.Flags().IntVarP(&flags.Workers, "workers", "p", 0, "number of parallel workers per tree (default: 5)")
	cmd.Flags().IntVar(&flags.QueueSize, "queue-size", 0, "paths buffered between the walker and the workers")
	cmd.Flags().IntVar(&flags.BufferSize, "buffer-size", 0, "comparison block size in bytes (minimum 4096)")
	cmd.Flags().StringVarP(&flags.Bandwidth, "bandwidth", "b", "", "read bandwidth limit (e.g., \"10M\", \"1G\")")
	cmd.Flags().StringVar(&flags.OnError, "on-error", "", "unreadable directories: abort, skip")
	cmd.Flags().StringVarP(&flags.Output, "output", "o", "", "output format: human, json")
	cmd.Flags().StringVar(&flags.ReportFile, "report-file", "", "also write the report to a file")
	cmd.Flags().StringVar(&flags.ReportFormat, "report-format", "", "report file format: human, json (default: output format)")
	cmd.Flags().DurationVar(&flags.Timeout, "timeout", 0, "abandon the comparison after this long (e.g., 30s, 5m)")
	cmd.Flags().BoolVar(&flags.NoProgress, "no-progress", false, "disable the progress display")

	// Logging flags
	cmd.Flags().StringVar(&flags.LogFile, "log-file", "", "write logs to file (enables logging)")
	cmd.Flags().StringVar(&flags.LogFormat, "log-format", "", "log format: text, json")
	cmd.Flags().StringVar(&flags.LogLevel, "log-level", "", "log level: debug, info, warn, error")
}
