package output

import (
	"fmt"
	"io"
	"sort"

	"github.com/sdejongh/treediff/pkg/models"
)

// Reporter presents a run result
// Implementations include human-readable and JSON reporters
type Reporter interface {
	// Start announces the two roots before the scans begin
	Start(w io.Writer, leftRoot, rightRoot string) error

	// Report writes the complete result
	Report(w io.Writer, result *models.RunResult) error

	// Name returns the reporter name
	Name() string
}

// NewReporter returns the reporter for a format name ("human" or "json")
func NewReporter(format string) (Reporter, error) {
	switch format {
	case "", "human":
		return NewHumanReporter(), nil
	case "json":
		return NewJSONReporter(), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (want human or json)", format)
	}
}

// sorted returns a sorted copy; list order carries no meaning
func sorted(paths []string) []string {
	out := make([]string, len(paths))
	copy(out, paths)
	sort.Strings(out)
	return out
}

// sortedErrors orders errors by side then path
func sortedErrors(errs []models.ScanError) []models.ScanError {
	out := append([]models.ScanError(nil), errs...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Side != out[j].Side {
			return out[i].Side < out[j].Side
		}
		return out[i].Path < out[j].Path
	})
	return out
}
