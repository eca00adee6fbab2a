package output

import (
	"fmt"
	"io"
	"os"
	"sync/atomic"
	"time"

	"github.com/cheggaaa/pb/v3"
	"golang.org/x/term"

	"github.com/sdejongh/treediff/pkg/models"
)

const progressTemplate pb.ProgressBarTemplate = `{{cycle . "⠋" "⠙" "⠹" "⠸" "⠼" "⠴" "⠦" "⠧" "⠇" "⠏"}} {{string . "counts"}} {{etime . }}`

// Progress shows live scan counters on a terminal.
// It is safe for concurrent use by the reconciler's workers.
type Progress struct {
	bar *pb.ProgressBar

	left      atomic.Int64
	right     atomic.Int64
	leftOnly  atomic.Int64
	different atomic.Int64
	rightOnly atomic.Int64
}

// NewProgress creates a progress display writing to w
func NewProgress(w io.Writer) *Progress {
	bar := progressTemplate.New(0)
	bar.SetWriter(w)
	bar.SetRefreshRate(100 * time.Millisecond)

	p := &Progress{bar: bar}
	p.refresh()
	return p
}

// ProgressEnabled reports whether a progress display belongs on w.
// Only a terminal qualifies.
func ProgressEnabled(w io.Writer, enabled, quiet bool) bool {
	if !enabled || quiet {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Start begins rendering
func (p *Progress) Start() {
	p.bar.Start()
}

// FileScanned counts a file yielded by one of the walks
func (p *Progress) FileScanned(side models.Side, path string) {
	if side == models.SideRight {
		p.right.Add(1)
	} else {
		p.left.Add(1)
	}
	p.refresh()
}

// OutcomeRecorded counts a classification
func (p *Progress) OutcomeRecorded(o models.Outcome) {
	switch o.Kind {
	case models.OutcomeLeftOnly:
		p.leftOnly.Add(1)
	case models.OutcomeDifferent:
		p.different.Add(1)
	case models.OutcomeRightOnly:
		p.rightOnly.Add(1)
	}
	p.refresh()
}

// Finish stops rendering and leaves the final counters on screen
func (p *Progress) Finish() {
	p.refresh()
	p.bar.Finish()
}

// Counts returns the current display text
func (p *Progress) Counts() string {
	return fmt.Sprintf("left %d | right %d | left only %d | different %d | right only %d",
		p.left.Load(), p.right.Load(),
		p.leftOnly.Load(), p.different.Load(), p.rightOnly.Load())
}

func (p *Progress) refresh() {
	p.bar.Set("counts", p.Counts())
}
