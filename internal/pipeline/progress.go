package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/progress"
)

// ProgressReporter renders a batch as a terminal progress bar
type ProgressReporter struct {
	out     io.Writer
	writer  progress.Writer
	tracker *progress.Tracker
}

// NewProgressReporter creates a reporter writing to out
func NewProgressReporter(out io.Writer) *ProgressReporter {
	return &ProgressReporter{out: out}
}

// Start begins rendering a bar for total tickers
func (r *ProgressReporter) Start(total int) {
	pw := progress.NewWriter()
	pw.SetOutputWriter(r.out)
	pw.SetAutoStop(false)
	pw.SetTrackerLength(30)
	pw.SetUpdateFrequency(100 * time.Millisecond)
	pw.SetStyle(progress.StyleDefault)
	pw.Style().Visibility.ETA = true
	pw.Style().Visibility.Value = true

	r.tracker = &progress.Tracker{
		Message: "Processing tickers",
		Total:   int64(total),
		Units:   progress.UnitsDefault,
	}
	pw.AppendTracker(r.tracker)
	r.writer = pw

	go pw.Render()
	for !pw.IsRenderInProgress() {
		time.Sleep(time.Millisecond)
	}
}

// Step advances the bar by one ticker
func (r *ProgressReporter) Step(p Progress) {
	if r.tracker == nil {
		return
	}
	r.tracker.UpdateMessage(fmt.Sprintf("%s %s (about %s left)", p.Ticker, p.Status, p.Remaining.Round(time.Second)))
	r.tracker.Increment(1)
}

// Finish stops rendering and waits for the last frame
func (r *ProgressReporter) Finish(Result) {
	if r.writer == nil {
		return
	}
	r.tracker.MarkAsDone()
	r.writer.Stop()
	for r.writer.IsRenderInProgress() {
		time.Sleep(10 * time.Millisecond)
	}
}
