package reconcile

import (
	"sync"
	"sync/atomic"

	"github.com/sdejongh/treediff/pkg/models"
)

// Aggregator collects outcomes and counters from concurrent workers.
// All methods are safe for concurrent use.
type Aggregator struct {
	mu        sync.Mutex
	leftOnly  []string
	different []string
	rightOnly []string
	errors    []models.ScanError
	skipped   []models.ScanError

	leftFiles  atomic.Int64
	rightFiles atomic.Int64
}

// NewAggregator creates an empty aggregator
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Record appends an outcome to its list
func (a *Aggregator) Record(o models.Outcome) {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch o.Kind {
	case models.OutcomeLeftOnly:
		a.leftOnly = append(a.leftOnly, o.RelativePath)
	case models.OutcomeDifferent:
		a.different = append(a.different, o.RelativePath)
	case models.OutcomeRightOnly:
		a.rightOnly = append(a.rightOnly, o.RelativePath)
	}
}

// RecordError records a file that could not be classified
func (a *Aggregator) RecordError(e models.ScanError) {
	a.mu.Lock()
	a.errors = append(a.errors, e)
	a.mu.Unlock()
}

// RecordSkipped records a subtree left out of the walk
func (a *Aggregator) RecordSkipped(e models.ScanError) {
	a.mu.Lock()
	a.skipped = append(a.skipped, e)
	a.mu.Unlock()
}

// IncrementCount adds one to the file counter of side
func (a *Aggregator) IncrementCount(side models.Side) {
	a.counter(side).Add(1)
}

// Count returns the current file counter of side
func (a *Aggregator) Count(side models.Side) int64 {
	return a.counter(side).Load()
}

func (a *Aggregator) counter(side models.Side) *atomic.Int64 {
	if side == models.SideRight {
		return &a.rightFiles
	}
	return &a.leftFiles
}

// Snapshot copies the accumulated data into a new result.
// Call it once both scans have quiesced.
func (a *Aggregator) Snapshot() *models.RunResult {
	a.mu.Lock()
	defer a.mu.Unlock()

	return &models.RunResult{
		LeftFiles:  a.leftFiles.Load(),
		RightFiles: a.rightFiles.Load(),
		LeftOnly:   append([]string(nil), a.leftOnly...),
		Different:  append([]string(nil), a.different...),
		RightOnly:  append([]string(nil), a.rightOnly...),
		Errors:     append([]models.ScanError(nil), a.errors...),
		Skipped:    append([]models.ScanError(nil), a.skipped...),
	}
}
