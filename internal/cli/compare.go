package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sdejongh/treediff/pkg/compare"
	"github.com/sdejongh/treediff/pkg/logging"
	"github.com/sdejongh/treediff/pkg/models"
	"github.com/sdejongh/treediff/pkg/output"
	"github.com/sdejongh/treediff/pkg/ratelimit"
	"github.com/sdejongh/treediff/pkg/reconcile"
	"github.com/sdejongh/treediff/pkg/storage"
)

func runCompare(cmd *cobra.Command, args []string, global *GlobalFlags, flags *CompareFlags) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	leftRoot, rightRoot := args[0], args[1]
	if err := validateRoots(leftRoot, rightRoot); err != nil {
		return err
	}

	// Load configuration
	cfg, err := loadConfig(global.ConfigFile)
	if err != nil {
		return &UsageError{Err: fmt.Errorf("failed to load config: %w", err)}
	}

	// Override config with command-line flags
	applyFlagsToConfig(cmd, cfg, global, flags)
	if err := cfg.Validate(); err != nil {
		return &UsageError{Err: fmt.Errorf("invalid options: %w", err)}
	}

	reportFormat := cfg.Output.Format
	if flags.ReportFormat != "" {
		reportFormat = flags.ReportFormat
	}
	reporter, err := output.NewReporter(cfg.Output.Format)
	if err != nil {
		return &UsageError{Err: err}
	}
	if _, err := output.NewReporter(reportFormat); err != nil {
		return &UsageError{Err: fmt.Errorf("invalid report format: %w", err)}
	}

	policy, err := reconcile.ParsePolicy(cfg.Compare.OnTraversalError)
	if err != nil {
		return &UsageError{Err: err}
	}

	bandwidth, err := ratelimit.ParseBandwidth(cfg.Compare.BandwidthLimit)
	if err != nil {
		return &UsageError{Err: fmt.Errorf("invalid bandwidth: %w", err)}
	}

	// Create logger
	logger, err := createLogger(cfg.Logging, global.Verbose, os.Stderr)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Close()

	// Create storage backends
	left, err := storage.NewLocal(leftRoot)
	if err != nil {
		return fmt.Errorf("failed to open left tree: %w", err)
	}
	defer left.Close()

	right, err := storage.NewLocal(rightRoot)
	if err != nil {
		return fmt.Errorf("failed to open right tree: %w", err)
	}
	defer right.Close()

	// Create comparator, throttled when a bandwidth limit is set
	comparator := compare.NewBinaryComparator(cfg.Compare.BufferSize)
	if limiter := ratelimit.NewLimiter(bandwidth); limiter != nil {
		comparator.SetReaderWrapper(limiter.Wrap)
		logger.Info(ctx, "Bandwidth limit enabled", logging.Fields{"bytes_per_second": limiter.Rate()})
	}

	reconciler := reconcile.New(left, right, comparator, logger, reconcile.Options{
		Workers:   cfg.Compare.Workers,
		QueueSize: cfg.Compare.QueueSize,
		Policy:    policy,
	})

	stdout := cmd.OutOrStdout()
	if !cfg.Output.Quiet {
		if err := reporter.Start(stdout, left.Root(), right.Root()); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}

	var progress *output.Progress
	stderr := cmd.ErrOrStderr()
	if output.ProgressEnabled(stderr, cfg.Output.Progress, cfg.Output.Quiet) {
		progress = output.NewProgress(stderr)
		reconciler.SetObserver(progress)
		progress.Start()
	}

	if flags.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, flags.Timeout)
		defer cancel()
	}

	// Run comparison
	result, err := reconciler.Run(ctx)
	if progress != nil {
		progress.Finish()
	}
	if err != nil {
		status := models.StatusForError(err)
		if status == models.StatusCancelled {
			return &ExitError{Code: status.ExitCode(), Err: fmt.Errorf("comparison cancelled: %w", err)}
		}
		return &ExitError{Code: status.ExitCode(), Err: fmt.Errorf("comparison failed: %w", err)}
	}

	if !cfg.Output.Quiet {
		if err := reporter.Report(stdout, result); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}

	// Write report file if requested
	if flags.ReportFile != "" {
		if err := output.WriteReportFile(result, flags.ReportFile, reportFormat); err != nil {
			return fmt.Errorf("failed to write report file: %w", err)
		}
	}

	if code := result.Status.ExitCode(); code != models.ExitSuccess {
		return &ExitError{Code: code}
	}
	return nil
}
