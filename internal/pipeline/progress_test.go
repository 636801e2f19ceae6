package pipeline

import (
	"bytes"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/trogers1052/finviz-tracker/internal/models"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestProgressReporter(t *testing.T) {
	out := &syncBuffer{}
	r := NewProgressReporter(out)

	r.Start(2)
	r.Step(Progress{Index: 1, Total: 2, Ticker: "AAPL", Status: models.StatusCompleted, Remaining: 5 * time.Second})
	r.Step(Progress{Index: 2, Total: 2, Ticker: "MSFT", Status: models.StatusError})
	r.Finish(Result{Requested: 2, Completed: 1, Failed: 1})

	assert.Contains(t, out.String(), "MSFT")
}

func TestProgressReporter_FinishWithoutStart(t *testing.T) {
	r := NewProgressReporter(&syncBuffer{})
	r.Step(Progress{Ticker: "AAPL"})
	r.Finish(Result{})
}
