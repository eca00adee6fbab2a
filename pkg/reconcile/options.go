package reconcile

import (
	"fmt"

	"github.com/sdejongh/treediff/pkg/models"
)

// TraversalPolicy decides what happens when a directory cannot be listed
type TraversalPolicy string

const (
	// PolicyAbort cancels both scans and fails the run
	PolicyAbort TraversalPolicy = "abort"
	// PolicySkip records the subtree as skipped and carries on
	PolicySkip TraversalPolicy = "skip"
)

// ParsePolicy parses a lower-case traversal policy name. An empty name
// means abort.
func ParsePolicy(s string) (TraversalPolicy, error) {
	switch p := TraversalPolicy(s); p {
	case PolicyAbort, PolicySkip:
		return p, nil
	case "":
		return PolicyAbort, nil
	default:
		return "", fmt.Errorf("unknown traversal policy %q (want abort or skip)", s)
	}
}

// Options configures a Reconciler
type Options struct {
	// Workers is the number of classification goroutines per scan
	Workers int
	// QueueSize bounds the channel between the walker and the workers
	QueueSize int
	// Policy applies to unreadable directories
	Policy TraversalPolicy
}

// DefaultOptions returns sensible defaults
func DefaultOptions() Options {
	return Options{
		Workers:   5,
		QueueSize: 1000,
		Policy:    PolicyAbort,
	}
}

// Observer is notified as a run progresses. Calls arrive concurrently from
// both walkers and every worker.
type Observer interface {
	// FileScanned is called by the walker of side once for every file it
	// counts, before the file is queued. path is the walked path under the
	// side's root.
	FileScanned(side models.Side, path string)

	// OutcomeRecorded is called once for every classification
	OutcomeRecorded(o models.Outcome)
}

type nopObserver struct{}

func (nopObserver) FileScanned(models.Side, string) {}
func (nopObserver) OutcomeRecorded(models.Outcome)  {}
