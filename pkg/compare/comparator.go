package compare

import (
	"context"
	"fmt"
	"io"

	"github.com/sdejongh/treediff/pkg/storage"
)

// Comparator defines the interface for file equality checks
type Comparator interface {
	// Compare reports whether the file at leftPath in left and the file at
	// rightPath in right hold identical content. Paths are absolute.
	Compare(ctx context.Context, left storage.Backend, leftPath string, right storage.Backend, rightPath string) (bool, error)

	// Name returns the name of the comparison method
	Name() string
}

// ReaderWrapper wraps the readers used while streaming file content
// (e.g., for rate limiting)
type ReaderWrapper func(ctx context.Context, r io.Reader) io.Reader

// ComparisonError is a comparison that could not reach a verdict.
// It is never folded into "same" or "different".
type ComparisonError struct {
	Op   string // "open", "stat" or "read"
	Path string
	Err  error
}

func (e *ComparisonError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *ComparisonError) Unwrap() error {
	return e.Err
}
