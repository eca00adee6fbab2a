package models

import "fmt"

// ErrorKind distinguishes failures recorded during a run
type ErrorKind string

const (
	// ErrorComparison is a file that could not be stat'ed, opened or read while classifying it
	ErrorComparison ErrorKind = "comparison"
	// ErrorTraversal is a directory that could not be listed and was skipped
	ErrorTraversal ErrorKind = "traversal"
)

// ScanError records a path that could not be classified.
// Path is relative to the side's root for comparison errors and the
// absolute directory path for traversal errors.
type ScanError struct {
	Side Side
	Kind ErrorKind
	Path string
	Err  error
}

func (e ScanError) Error() string {
	return fmt.Sprintf("%s %s error on %s: %v", e.Side, e.Kind, e.Path, e.Err)
}

func (e ScanError) Unwrap() error {
	return e.Err
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
