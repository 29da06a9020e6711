package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/dart-league-stats/internal/domain/playerstats"
	"github.com/riskibarqy/dart-league-stats/internal/domain/season"
)

type seasonStatKey struct {
	seasonID int64
	playerID int64
	phase    season.Phase
}

type weekStatKey struct {
	seasonStatKey
	week string
}

type PlayerStatsRepository struct {
	mu      sync.RWMutex
	seasons map[seasonStatKey]playerstats.SeasonStat
	weeks   map[weekStatKey]playerstats.WeekStat
}

func NewPlayerStatsRepository() *PlayerStatsRepository {
	return &PlayerStatsRepository{
		seasons: make(map[seasonStatKey]playerstats.SeasonStat),
		weeks:   make(map[weekStatKey]playerstats.WeekStat),
	}
}

func (r *PlayerStatsRepository) UpsertSeasonStats(_ context.Context, items []playerstats.SeasonStat) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range items {
		r.seasons[seasonStatKey{seasonID: item.SeasonID, playerID: item.PlayerID, phase: item.Phase}] = item
	}
	return nil
}

func (r *PlayerStatsRepository) UpsertWeekStats(_ context.Context, items []playerstats.WeekStat) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range items {
		key := weekStatKey{
			seasonStatKey: seasonStatKey{seasonID: item.SeasonID, playerID: item.PlayerID, phase: item.Phase},
			week:          item.WeekKey,
		}
		r.weeks[key] = item
	}
	return nil
}

func (r *PlayerStatsRepository) ListSeasonStats(_ context.Context, seasonID int64, phase season.Phase) ([]playerstats.SeasonStat, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]playerstats.SeasonStat, 0, 64)
	for key, item := range r.seasons {
		if key.seasonID == seasonID && key.phase == phase {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlayerID < out[j].PlayerID })
	return out, nil
}

func (r *PlayerStatsRepository) ListWeekStats(_ context.Context, seasonID int64, phase season.Phase) ([]playerstats.WeekStat, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]playerstats.WeekStat, 0, 256)
	for key, item := range r.weeks {
		if key.seasonID == seasonID && key.phase == phase {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PlayerID != out[j].PlayerID {
			return out[i].PlayerID < out[j].PlayerID
		}
		return out[i].WeekKey < out[j].WeekKey
	})
	return out, nil
}
