package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/riskibarqy/dart-league-stats/internal/domain/scrapelog"
	"github.com/riskibarqy/dart-league-stats/internal/platform/logging"
	"github.com/sourcegraph/conc"
)

const defaultScrapeRunTimeout = 2 * time.Hour

// RunTracker starts scrape runs in the background and answers status queries
// from the run log.
type RunTracker struct {
	scraper *ScrapeService
	logs    scrapelog.Repository
	timeout time.Duration
	logger  *logging.Logger

	mu      sync.Mutex
	running map[string]context.CancelFunc
	workers conc.WaitGroup
}

func NewRunTracker(scraper *ScrapeService, logs scrapelog.Repository, timeout time.Duration, logger *logging.Logger) *RunTracker {
	if logger == nil {
		logger = logging.Default()
	}
	if timeout <= 0 {
		timeout = defaultScrapeRunTimeout
	}
	return &RunTracker{
		scraper: scraper,
		logs:    logs,
		timeout: timeout,
		logger:  logger.Named("run_tracker"),
		running: make(map[string]context.CancelFunc, 2),
	}
}

// Start records the run and returns once it is persisted as running. The run
// itself outlives the caller's context.
func (t *RunTracker) Start(ctx context.Context, input ScrapeInput) (scrapelog.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RunTracker.Start")
	defer span.End()

	entry, err := t.scraper.Begin(ctx, input)
	if err != nil {
		return scrapelog.Entry{}, err
	}
	input.RunID = entry.RunID

	runCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), t.timeout)
	t.mu.Lock()
	t.running[entry.RunID] = cancel
	t.mu.Unlock()

	t.workers.Go(func() {
		defer t.release(entry.RunID)
		if _, err := t.scraper.Execute(runCtx, entry, input); err != nil {
			t.logger.WarnContext(runCtx, "background scrape run failed", "run_id", entry.RunID, "error", err)
		}
	})
	return entry, nil
}

func (t *RunTracker) release(runID string) {
	t.mu.Lock()
	cancel, ok := t.running[runID]
	delete(t.running, runID)
	t.mu.Unlock()
	if ok {
		cancel()
	}
}

// Running lists run ids executing in this process.
func (t *RunTracker) Running() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, 0, len(t.running))
	for runID := range t.running {
		out = append(out, runID)
	}
	return out
}

func (t *RunTracker) Get(ctx context.Context, runID string) (scrapelog.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RunTracker.Get")
	defer span.End()

	runID = strings.TrimSpace(runID)
	if runID == "" {
		return scrapelog.Entry{}, fmt.Errorf("%w: run id is required", ErrInvalidInput)
	}
	entry, ok, err := t.logs.Get(ctx, runID)
	if err != nil {
		return scrapelog.Entry{}, fmt.Errorf("get scrape run %s: %w", runID, err)
	}
	if !ok {
		return scrapelog.Entry{}, fmt.Errorf("%w: scrape run %s", ErrNotFound, runID)
	}
	return entry, nil
}

func (t *RunTracker) Latest(ctx context.Context) (scrapelog.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RunTracker.Latest")
	defer span.End()

	entry, ok, err := t.logs.Latest(ctx)
	if err != nil {
		return scrapelog.Entry{}, fmt.Errorf("get latest scrape run: %w", err)
	}
	if !ok {
		return scrapelog.Entry{}, fmt.Errorf("%w: no scrape run recorded", ErrNotFound)
	}
	return entry, nil
}

// Shutdown cancels in-flight runs once ctx expires and waits for them to
// record their outcome.
func (t *RunTracker) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		defer close(done)
		if recovered := t.workers.WaitAndRecover(); recovered != nil {
			t.logger.Error("background scrape run panicked", "error", recovered.AsError())
		}
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
	}

	t.mu.Lock()
	for _, cancel := range t.running {
		cancel()
	}
	t.mu.Unlock()
	<-done
	return ctx.Err()
}
