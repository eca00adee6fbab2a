package output

import (
	"fmt"
	"os"

	"github.com/sdejongh/treediff/pkg/models"
)

// WriteReportFile writes the report to a file
// Format can be "human" or "json"
func WriteReportFile(result *models.RunResult, path string, format string) error {
	reporter, err := NewReporter(format)
	if err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	if err := reporter.Start(file, result.LeftRoot, result.RightRoot); err != nil {
		return fmt.Errorf("failed to write report file: %w", err)
	}
	if err := reporter.Report(file, result); err != nil {
		return fmt.Errorf("failed to write report file: %w", err)
	}

	return file.Close()
}
