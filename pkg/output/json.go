package output

import (
	"encoding/json"
	"io"
	"time"

	"github.com/sdejongh/treediff/pkg/models"
)

// JSONReporter writes the result as a single JSON document for automation and scripting
type JSONReporter struct{}

// NewJSONReporter creates a new JSON reporter
func NewJSONReporter() *JSONReporter {
	return &JSONReporter{}
}

// JSONReport is the document written by JSONReporter
type JSONReport struct {
	ID         string          `json:"id"`
	Status     string          `json:"status"`
	LeftRoot   string          `json:"left_root"`
	RightRoot  string          `json:"right_root"`
	StartTime  time.Time       `json:"start_time"`
	EndTime    time.Time       `json:"end_time"`
	Duration   string          `json:"duration"`
	DurationMs int64           `json:"duration_ms"`
	LeftFiles  int64           `json:"left_files"`
	RightFiles int64           `json:"right_files"`
	LeftOnly   []string        `json:"left_only"`
	Different  []string        `json:"different"`
	RightOnly  []string        `json:"right_only"`
	Errors     []JSONErrorData `json:"errors,omitempty"`
	Skipped    []JSONErrorData `json:"skipped,omitempty"`
}

// JSONErrorData represents an unclassified path in JSON
type JSONErrorData struct {
	Side  string `json:"side"`
	Kind  string `json:"kind"`
	Path  string `json:"path"`
	Error string `json:"error"`
}

// Start writes nothing; the document is emitted whole by Report
func (r *JSONReporter) Start(w io.Writer, leftRoot, rightRoot string) error {
	return nil
}

// Report writes the result as indented JSON
func (r *JSONReporter) Report(w io.Writer, result *models.RunResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(NewJSONReport(result))
}

// Name returns the reporter name
func (r *JSONReporter) Name() string {
	return "json"
}

// NewJSONReport converts a result into its JSON document
func NewJSONReport(result *models.RunResult) JSONReport {
	return JSONReport{
		ID:         result.ID,
		Status:     string(result.Status),
		LeftRoot:   result.LeftRoot,
		RightRoot:  result.RightRoot,
		StartTime:  result.StartTime,
		EndTime:    result.EndTime,
		Duration:   result.Duration.String(),
		DurationMs: result.Duration.Milliseconds(),
		LeftFiles:  result.LeftFiles,
		RightFiles: result.RightFiles,
		LeftOnly:   sorted(result.LeftOnly),
		Different:  sorted(result.Different),
		RightOnly:  sorted(result.RightOnly),
		Errors:     toJSONErrors(result.Errors),
		Skipped:    toJSONErrors(result.Skipped),
	}
}

func toJSONErrors(errs []models.ScanError) []JSONErrorData {
	if len(errs) == 0 {
		return nil
	}
	out := make([]JSONErrorData, 0, len(errs))
	for _, e := range sortedErrors(errs) {
		msg := ""
		if e.Err != nil {
			msg = e.Err.Error()
		}
		out = append(out, JSONErrorData{
			Side:  string(e.Side),
			Kind:  string(e.Kind),
			Path:  e.Path,
			Error: msg,
		})
	}
	return out
}
