package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"github.com/trogers1052/finviz-tracker/internal/models"
	"github.com/trogers1052/finviz-tracker/internal/ratelimit"
	"github.com/trogers1052/finviz-tracker/internal/scraper"
)

// ErrInvalidCount is returned when the requested batch size is outside 0..TODO count
var ErrInvalidCount = errors.New("invalid ticker count")

// Scraper fetches the quote details of one ticker
type Scraper interface {
	TickerDetails(ctx context.Context, ticker string) (*models.TickerDetails, error)
}

// Store is the subset of the database the pipeline reads and writes
type Store interface {
	CountTodo(ctx context.Context) (int, error)
	TodoTickers(ctx context.Context, k int) ([]string, error)
	UpdateFloat(ctx context.Context, ticker string, float decimal.NullDecimal) (int64, error)
	InsertNews(ctx context.Context, news []models.NewsItem) (int64, error)
	SetTrackerStatus(ctx context.Context, ticker string, status models.TrackerStatus) error
}

// Publisher emits the outcome of a processed ticker
type Publisher interface {
	PublishTickerEvent(ctx context.Context, event models.TickerEvent) error
}

// Progress describes one finished ticker within a batch
type Progress struct {
	Index     int
	Total     int
	Ticker    string
	Status    models.TrackerStatus
	Remaining time.Duration
}

// Result summarizes a batch run
type Result struct {
	Requested int
	Completed int
	Failed    int
	Elapsed   time.Duration
}

// Processed returns the number of tickers that reached a final status
func (r Result) Processed() int {
	return r.Completed + r.Failed
}

// Reporter receives batch progress
type Reporter interface {
	Start(total int)
	Step(p Progress)
	Finish(r Result)
}

// Pipeline processes TODO tickers one at a time
type Pipeline struct {
	store     Store
	scraper   Scraper
	limiter   ratelimit.Limiter
	publisher Publisher
	reporter  Reporter
}

// New creates a Pipeline. A nil limiter, publisher or reporter is replaced by a no-op.
func New(store Store, s Scraper, limiter ratelimit.Limiter, publisher Publisher, reporter Reporter) *Pipeline {
	if limiter == nil {
		limiter = ratelimit.Unlimited{}
	}
	if publisher == nil {
		publisher = nopPublisher{}
	}
	if reporter == nil {
		reporter = nopReporter{}
	}
	return &Pipeline{
		store:     store,
		scraper:   s,
		limiter:   limiter,
		publisher: publisher,
		reporter:  reporter,
	}
}

// Run processes the first k TODO tickers. k must be between 0 and the number
// of TODO tickers. A ticker failure marks it as error and the batch goes on.
func (p *Pipeline) Run(ctx context.Context, k int) (result Result, err error) {
	result.Requested = k

	todo, err := p.store.CountTodo(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to count todo tickers: %w", err)
	}
	if k < 0 || k > todo {
		return result, fmt.Errorf("%w: %d is not between 0 and %d", ErrInvalidCount, k, todo)
	}
	if k == 0 {
		return result, nil
	}

	tickers, err := p.store.TodoTickers(ctx, k)
	if err != nil {
		return result, fmt.Errorf("failed to load todo tickers: %w", err)
	}

	start := time.Now()
	p.reporter.Start(len(tickers))
	defer func() {
		result.Elapsed = time.Since(start)
		p.reporter.Finish(result)
	}()

	for i, ticker := range tickers {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("batch stopped before %s: %w", ticker, err)
		}
		if err := p.limiter.Wait(ctx); err != nil {
			return result, fmt.Errorf("batch stopped before %s: %w", ticker, err)
		}

		status, _ := p.ProcessTicker(ctx, ticker)
		if status == models.StatusCompleted {
			result.Completed++
		} else {
			result.Failed++
		}

		done := i + 1
		elapsed := time.Since(start)
		p.reporter.Step(Progress{
			Index:     done,
			Total:     len(tickers),
			Ticker:    ticker,
			Status:    status,
			Remaining: elapsed / time.Duration(done) * time.Duration(len(tickers)-done),
		})
	}

	slog.Info("batch finished",
		"completed", result.Completed,
		"failed", result.Failed,
		"elapsed", time.Since(start).Round(time.Millisecond))
	return result, nil
}

// ProcessTicker scrapes one ticker, stores its float and news and records the
// final tracker status. The returned error is the cause of an error status.
func (p *Pipeline) ProcessTicker(ctx context.Context, ticker string) (models.TrackerStatus, error) {
	status := models.StatusCompleted
	event := models.TickerEvent{Ticker: ticker}

	cause := p.scrapeAndStore(ctx, ticker, &event)
	if cause != nil {
		status = models.StatusError
		slog.Warn("ticker failed", "ticker", ticker, "error", cause)
	}

	if err := p.store.SetTrackerStatus(ctx, ticker, status); err != nil {
		slog.Error("failed to set tracker status", "ticker", ticker, "status", status, "error", err)
		status = models.StatusError
		cause = errors.Join(cause, err)
	}

	event.Status = status
	event.EventType = models.EventTickerCompleted
	if status == models.StatusError {
		event.EventType = models.EventTickerFailed
		event.Error = cause.Error()
	}
	event.Timestamp = time.Now()
	if err := p.publisher.PublishTickerEvent(ctx, event); err != nil {
		slog.Warn("failed to publish ticker event", "ticker", ticker, "error", err)
	}

	slog.Debug("ticker processed", "ticker", ticker, "status", status)
	return status, cause
}

func (p *Pipeline) scrapeAndStore(ctx context.Context, ticker string, event *models.TickerEvent) error {
	details, err := p.scraper.TickerDetails(ctx, ticker)
	if err != nil {
		return fmt.Errorf("failed to scrape: %w", err)
	}
	event.NewsCount = len(details.News)
	if details.Float != nil {
		event.Float = *details.Float
	}

	floatErr := p.storeFloat(ctx, ticker, details.Float)
	newsErr := p.storeNews(ctx, details.News)
	return errors.Join(floatErr, newsErr)
}

func (p *Pipeline) storeFloat(ctx context.Context, ticker string, raw *string) error {
	var float decimal.NullDecimal
	if raw != nil {
		parsed, err := scraper.ParseShares(*raw)
		if err != nil {
			return fmt.Errorf("failed to update float: %w", err)
		}
		float = parsed
	}

	affected, err := p.store.UpdateFloat(ctx, ticker, float)
	if err != nil {
		return fmt.Errorf("failed to update float: %w", err)
	}
	if affected == 0 {
		slog.Debug("no company row for float update", "ticker", ticker)
	}
	return nil
}

func (p *Pipeline) storeNews(ctx context.Context, news []models.NewsItem) error {
	if len(news) == 0 {
		return nil
	}
	if _, err := p.store.InsertNews(ctx, news); err != nil {
		return fmt.Errorf("failed to insert news: %w", err)
	}
	return nil
}

type nopPublisher struct{}

func (nopPublisher) PublishTickerEvent(context.Context, models.TickerEvent) error { return nil }

type nopReporter struct{}

func (nopReporter) Start(int)     {}
func (nopReporter) Step(Progress) {}
func (nopReporter) Finish(Result) {}
