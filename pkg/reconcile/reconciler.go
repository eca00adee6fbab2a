// Package reconcile runs the two directional scans of a tree comparison.
//
// The left scan classifies every left file as left-only, different or
// identical. The right scan only looks for files missing on the left and
// never compares content. Both scans run at the same time, each as a walker
// feeding a bounded queue drained by a pool of workers.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/sdejongh/treediff/internal/platform"
	"github.com/sdejongh/treediff/pkg/compare"
	"github.com/sdejongh/treediff/pkg/logging"
	"github.com/sdejongh/treediff/pkg/models"
	"github.com/sdejongh/treediff/pkg/storage"
	"github.com/sdejongh/treediff/pkg/walk"
)

// Reconciler compares a left tree with a right tree
type Reconciler struct {
	left       storage.Backend
	right      storage.Backend
	comparator compare.Comparator
	logger     logging.Logger
	observer   Observer
	opts       Options
}

// New creates a reconciler. A nil logger disables logging.
func New(left, right storage.Backend, comparator compare.Comparator, logger logging.Logger, opts Options) *Reconciler {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.QueueSize < 1 {
		opts.QueueSize = opts.Workers
	}
	if opts.Policy == "" {
		opts.Policy = PolicyAbort
	}
	if logger == nil {
		logger = logging.NewNullLogger()
	}

	return &Reconciler{
		left:       left,
		right:      right,
		comparator: comparator,
		logger:     logger,
		observer:   nopObserver{},
		opts:       opts,
	}
}

// SetObserver installs an observer for progress reporting
func (r *Reconciler) SetObserver(o Observer) {
	if o == nil {
		o = nopObserver{}
	}
	r.observer = o
}

// Run performs both scans and returns the assembled result.
//
// A traversal error under PolicyAbort, or cancellation of ctx, returns a
// nil result and the error. Comparison failures never fail the run; they
// are listed in RunResult.Errors and mark the result partial.
func (r *Reconciler) Run(ctx context.Context) (*models.RunResult, error) {
	startTime := time.Now()
	runID := uuid.New().String()
	logger := r.logger.WithFields(logging.Fields{"run_id": runID})

	logger.Info(ctx, "Starting comparison", logging.Fields{
		"left":       r.left.Root(),
		"right":      r.right.Root(),
		"workers":    r.opts.Workers,
		"comparator": r.comparator.Name(),
		"on_error":   string(r.opts.Policy),
	})

	agg := NewAggregator()
	g, scanCtx := errgroup.WithContext(ctx)
	for _, side := range []models.Side{models.SideLeft, models.SideRight} {
		g.Go(func() error {
			return r.scan(scanCtx, logger, side, agg)
		})
	}

	// The first failure cancels the other scan, so Wait reports the cause
	// rather than the cancellation it triggered
	if err := g.Wait(); err != nil {
		logger.Error(ctx, "Comparison failed", err, nil)
		return nil, err
	}

	result := agg.Snapshot()
	result.ID = runID
	result.LeftRoot = r.left.Root()
	result.RightRoot = r.right.Root()
	result.StartTime = startTime
	result.Finalize(time.Now())

	logger.Info(ctx, "Comparison complete", logging.Fields{
		"status":      string(result.Status),
		"left_files":  result.LeftFiles,
		"right_files": result.RightFiles,
		"left_only":   len(result.LeftOnly),
		"different":   len(result.Different),
		"right_only":  len(result.RightOnly),
		"errors":      len(result.Errors),
		"skipped":     len(result.Skipped),
		"duration":    result.Duration.String(),
	})

	return result, nil
}

// scan walks one side and classifies each file against the other side
func (r *Reconciler) scan(ctx context.Context, logger logging.Logger, side models.Side, agg *Aggregator) error {
	own, other := r.left, r.right
	if side == models.SideRight {
		own, other = r.right, r.left
	}
	logger = logger.WithFields(logging.Fields{"side": string(side)})
	logger.Info(ctx, "Scanning tree", logging.Fields{"root": own.Root()})

	queue := make(chan string, r.opts.QueueSize)

	var workersWg sync.WaitGroup
	for i := 0; i < r.opts.Workers; i++ {
		workersWg.Add(1)
		go r.runWorker(ctx, logger, side, own, other, queue, agg, &workersWg)
	}

	err := r.produce(ctx, logger, side, own, queue, agg)

	close(queue)
	workersWg.Wait()

	if err != nil {
		return err
	}
	logger.Info(ctx, "Scan complete", logging.Fields{"files": agg.Count(side)})
	return nil
}

// produce feeds the queue from the walker and applies the traversal policy
func (r *Reconciler) produce(ctx context.Context, logger logging.Logger, side models.Side, own storage.Backend, queue chan<- string, agg *Aggregator) error {
	for path, err := range walk.Files(ctx, own) {
		if err != nil {
			var traversalErr *walk.TraversalError
			if !errors.As(err, &traversalErr) {
				return err
			}
			if r.opts.Policy != PolicySkip {
				return fmt.Errorf("%s scan aborted: %w", side, err)
			}

			agg.RecordSkipped(models.ScanError{
				Side: side,
				Kind: models.ErrorTraversal,
				Path: traversalErr.Dir,
				Err:  traversalErr.Err,
			})
			logger.Warn(ctx, "Skipping unreadable directory", logging.Fields{
				"dir":   traversalErr.Dir,
				"error": traversalErr.Err.Error(),
			})
			continue
		}

		agg.IncrementCount(side)
		r.observer.FileScanned(side, path)

		select {
		case queue <- path:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// runWorker classifies queued paths until the queue is closed
func (r *Reconciler) runWorker(ctx context.Context, logger logging.Logger, side models.Side, own, other storage.Backend, queue <-chan string, agg *Aggregator, wg *sync.WaitGroup) {
	defer wg.Done()

	for path := range queue {
		// Drain without working once cancelled so the producer never blocks
		if ctx.Err() != nil {
			continue
		}
		r.classify(ctx, logger, side, own, other, path, agg)
	}
}

func (r *Reconciler) classify(ctx context.Context, logger logging.Logger, side models.Side, own, other storage.Backend, path string, agg *Aggregator) {
	rel, err := platform.RelativeTo(own.Root(), path)
	if err != nil {
		r.recordError(ctx, logger, agg, side, path, err)
		return
	}

	candidate := platform.Candidate(other.Root(), rel)
	present, err := other.IsFile(ctx, candidate)
	if err != nil {
		r.recordError(ctx, logger, agg, side, rel, err)
		return
	}

	if side == models.SideRight {
		if !present {
			r.record(ctx, logger, agg, models.RightOnly(rel))
		}
		return
	}

	if !present {
		r.record(ctx, logger, agg, models.LeftOnly(rel))
		return
	}

	same, err := r.comparator.Compare(ctx, own, path, other, candidate)
	if err != nil {
		r.recordError(ctx, logger, agg, side, rel, err)
		return
	}
	if !same {
		r.record(ctx, logger, agg, models.Different(rel))
	}
}

func (r *Reconciler) record(ctx context.Context, logger logging.Logger, agg *Aggregator, o models.Outcome) {
	agg.Record(o)
	r.observer.OutcomeRecorded(o)
	logger.Debug(ctx, "Outcome", logging.Fields{
		"kind": string(o.Kind),
		"path": o.RelativePath,
	})
}

// recordError records a comparison failure. Failures caused by the run
// being cancelled are dropped.
func (r *Reconciler) recordError(ctx context.Context, logger logging.Logger, agg *Aggregator, side models.Side, rel string, err error) {
	if ctx.Err() != nil {
		return
	}
	agg.RecordError(models.ScanError{
		Side: side,
		Kind: models.ErrorComparison,
		Path: rel,
		Err:  err,
	})
	logger.Warn(ctx, "Could not compare file", logging.Fields{
		"path":  rel,
		"error": err.Error(),
	})
}
