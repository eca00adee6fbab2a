package cli

import (
	"errors"
	"fmt"

	"github.com/sdejongh/treediff/pkg/models"
)

// UsageError reports bad arguments, flags or configuration
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string {
	return e.Err.Error()
}

func (e *UsageError) Unwrap() error {
	return e.Err
}

// ExitError carries the process exit code of a finished command.
// Err is nil when the report already says everything.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode maps a command error to the process exit code
func ExitCode(err error) int {
	if err == nil {
		return models.ExitSuccess
	}

	var usageErr *UsageError
	if errors.As(err, &usageErr) {
		return models.ExitUsage
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	return models.StatusForError(err).ExitCode()
}
