package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/dart-league-stats/internal/domain/season"
)

type SeasonRepository struct {
	mu      sync.RWMutex
	seasons map[int64]season.Season
}

func NewSeasonRepository() *SeasonRepository {
	return &SeasonRepository{seasons: make(map[int64]season.Season)}
}

func (r *SeasonRepository) Upsert(_ context.Context, item season.Season) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.seasons[item.ID]; ok {
		item.LastScrapedAt = existing.LastScrapedAt
	} else {
		item.LastScrapedAt = nil
	}
	r.seasons[item.ID] = item
	return nil
}

func (r *SeasonRepository) List(_ context.Context) ([]season.Season, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]season.Season, 0, len(r.seasons))
	for _, item := range r.seasons {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *SeasonRepository) GetByID(_ context.Context, seasonID int64) (season.Season, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.seasons[seasonID]
	return item, ok, nil
}

func (r *SeasonRepository) MarkScraped(_ context.Context, seasonID int64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.seasons[seasonID]
	if !ok {
		return nil
	}
	at = at.UTC()
	item.LastScrapedAt = &at
	r.seasons[seasonID] = item
	return nil
}
