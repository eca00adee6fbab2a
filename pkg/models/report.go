package models

import (
	"context"
	"errors"
	"time"
)

// RunResult is the complete outcome of comparing two trees
type RunResult struct {
	// Run details
	ID        string
	LeftRoot  string
	RightRoot string

	// Timing
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration

	// Files yielded by each walk, whatever their classification
	LeftFiles  int64
	RightFiles int64

	// Classifications, in discovery order. Ordering is not stable across runs.
	LeftOnly  []string
	Different []string
	RightOnly []string

	// Files that could not be compared
	Errors []ScanError

	// Subtrees skipped under the skip traversal policy
	Skipped []ScanError

	// Overall status
	Status Status
}

// Identical reports whether the run found no drift at all
func (r *RunResult) Identical() bool {
	return len(r.LeftOnly) == 0 && len(r.Different) == 0 && len(r.RightOnly) == 0
}

// Outcomes returns the number of classified files
func (r *RunResult) Outcomes() int {
	return len(r.LeftOnly) + len(r.Different) + len(r.RightOnly)
}

// Finalize stamps the end time and derives the status from recorded errors
func (r *RunResult) Finalize(end time.Time) {
	r.EndTime = end
	r.Duration = end.Sub(r.StartTime)
	if len(r.Errors) > 0 || len(r.Skipped) > 0 {
		r.Status = StatusPartial
	} else {
		r.Status = StatusSuccess
	}
}

// Status represents the overall result
type Status string

const (
	// StatusSuccess indicates both scans completed and every file was classified
	StatusSuccess Status = "success"
	// StatusPartial indicates the scans completed but some paths could not be classified
	StatusPartial Status = "partial"
	// StatusFailed indicates the run was aborted
	StatusFailed Status = "failed"
	// StatusCancelled indicates the run was abandoned before completing
	StatusCancelled Status = "cancelled"
)

// StatusForError returns the status of a run that ended with err.
// Cancellation and timeouts are cancelled, anything else failed.
func StatusForError(err error) Status {
	switch {
	case err == nil:
		return StatusSuccess
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return StatusCancelled
	default:
		return StatusFailed
	}
}

// Exit codes shared with the CLI. ExitUsage is never derived from a Status.
const (
	ExitSuccess   = 0
	ExitUsage     = 1
	ExitFailed    = 2
	ExitPartial   = 3
	ExitCancelled = 4
)

// ExitCode returns the appropriate exit code for the status
func (s Status) ExitCode() int {
	switch s {
	case StatusSuccess:
		return ExitSuccess
	case StatusPartial:
		return ExitPartial
	case StatusFailed:
		return ExitFailed
	case StatusCancelled:
		return ExitCancelled
	default:
		return ExitFailed
	}
}
