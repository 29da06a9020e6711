package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/dart-league-stats/internal/domain/scrapelog"
)

type ScrapeLogRepository struct {
	mu      sync.RWMutex
	entries map[string]scrapelog.Entry
	order   []string
}

func NewScrapeLogRepository() *ScrapeLogRepository {
	return &ScrapeLogRepository{entries: make(map[string]scrapelog.Entry)}
}

func (r *ScrapeLogRepository) Record(_ context.Context, entry scrapelog.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[entry.RunID]; !ok {
		r.order = append(r.order, entry.RunID)
	}
	r.entries[entry.RunID] = entry
	return nil
}

func (r *ScrapeLogRepository) Get(_ context.Context, runID string) (scrapelog.Entry, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[runID]
	return entry, ok, nil
}

// Latest is the most recently started run.
func (r *ScrapeLogRepository) Latest(_ context.Context) (scrapelog.Entry, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.order) == 0 {
		return scrapelog.Entry{}, false, nil
	}
	return r.entries[r.order[len(r.order)-1]], true, nil
}
