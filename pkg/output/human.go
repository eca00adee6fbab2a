package output

import (
	"fmt"
	"io"
	"time"

	"github.com/sdejongh/treediff/pkg/models"
)

// HumanReporter writes the classic plain-text summary and file lists
type HumanReporter struct{}

// NewHumanReporter creates a new human-readable reporter
func NewHumanReporter() *HumanReporter {
	return &HumanReporter{}
}

// Start prints the roots being compared
func (r *HumanReporter) Start(w io.Writer, leftRoot, rightRoot string) error {
	_, err := fmt.Fprintf(w, "Comparing directories:\n    %s\n    %s\n", leftRoot, rightRoot)
	return err
}

// Report prints the summary followed by each outcome list
func (r *HumanReporter) Report(w io.Writer, result *models.RunResult) error {
	ew := &errWriter{w: w}

	ew.printf("== Summary == \n")
	ew.printf("Total left files: %d\n", result.LeftFiles)
	ew.printf("Total right files: %d\n", result.RightFiles)
	ew.printf("Left only: %d\n", len(result.LeftOnly))
	ew.printf("Different: %d\n", len(result.Different))
	ew.printf("Right only: %d\n", len(result.RightOnly))

	ew.printf("== Left only == \n")
	for _, rel := range sorted(result.LeftOnly) {
		ew.printf("%s\n", rel)
	}

	ew.printf("== Different == \n")
	for _, rel := range sorted(result.Different) {
		ew.printf("    %s\n", rel)
	}

	ew.printf("== Right only == \n")
	for _, rel := range sorted(result.RightOnly) {
		ew.printf("%s\n", rel)
	}

	if len(result.Errors) > 0 {
		ew.printf("== Errors == \n")
		for _, e := range sortedErrors(result.Errors) {
			ew.printf("%s (%s): %v\n", e.Path, e.Side, e.Err)
		}
	}

	if len(result.Skipped) > 0 {
		ew.printf("== Skipped == \n")
		for _, e := range sortedErrors(result.Skipped) {
			ew.printf("%s (%s): %v\n", e.Path, e.Side, e.Err)
		}
	}

	if result.Status != models.StatusSuccess {
		ew.printf("Status: %s (completed in %s)\n", result.Status, formatDuration(result.Duration))
	}

	return ew.err
}

// Name returns the reporter name
func (r *HumanReporter) Name() string {
	return "human"
}

// errWriter keeps the first write error and skips later writes
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...interface{}) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}

// formatDuration formats duration in human-readable format
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
}
