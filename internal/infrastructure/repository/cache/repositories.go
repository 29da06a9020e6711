package cache

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/riskibarqy/dart-league-stats/internal/domain/playerstats"
	"github.com/riskibarqy/dart-league-stats/internal/domain/scoringconfig"
	"github.com/riskibarqy/dart-league-stats/internal/domain/season"
	basecache "github.com/riskibarqy/dart-league-stats/internal/platform/cache"
)

const (
	scoringPrefix = "scoring:"
	statsPrefix   = "stats:"
)

// ScoringConfigRepository caches scope lookups; any write drops every entry.
type ScoringConfigRepository struct {
	next  scoringconfig.Repository
	cache *basecache.Store
}

func NewScoringConfigRepository(next scoringconfig.Repository, cache *basecache.Store) *ScoringConfigRepository {
	return &ScoringConfigRepository{next: next, cache: cache}
}

func (r *ScoringConfigRepository) ListByScopes(ctx context.Context, scopes []string) ([]scoringconfig.Entry, error) {
	sorted := append([]string(nil), scopes...)
	sort.Strings(sorted)
	key := scoringPrefix + strings.Join(sorted, ",")

	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListByScopes(ctx, scopes)
		if err != nil {
			return nil, err
		}
		return append([]scoringconfig.Entry(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]scoringconfig.Entry)
	return append([]scoringconfig.Entry(nil), items...), nil
}

func (r *ScoringConfigRepository) Upsert(ctx context.Context, entry scoringconfig.Entry) error {
	if err := r.next.Upsert(ctx, entry); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, scoringPrefix)
	return nil
}

// PlayerStatsRepository caches the read side. Writes for a season drop that
// season's cached lists.
type PlayerStatsRepository struct {
	next  playerstats.Repository
	cache *basecache.Store
}

func NewPlayerStatsRepository(next playerstats.Repository, cache *basecache.Store) *PlayerStatsRepository {
	return &PlayerStatsRepository{next: next, cache: cache}
}

func statsSeasonPrefix(seasonID int64) string {
	return statsPrefix + strconv.FormatInt(seasonID, 10) + ":"
}

func (r *PlayerStatsRepository) UpsertSeasonStats(ctx context.Context, items []playerstats.SeasonStat) error {
	if err := r.next.UpsertSeasonStats(ctx, items); err != nil {
		return err
	}
	r.invalidate(ctx, seasonIDsOf(items, func(item playerstats.SeasonStat) int64 { return item.SeasonID }))
	return nil
}

func (r *PlayerStatsRepository) UpsertWeekStats(ctx context.Context, items []playerstats.WeekStat) error {
	if err := r.next.UpsertWeekStats(ctx, items); err != nil {
		return err
	}
	r.invalidate(ctx, seasonIDsOf(items, func(item playerstats.WeekStat) int64 { return item.SeasonID }))
	return nil
}

func (r *PlayerStatsRepository) ListSeasonStats(ctx context.Context, seasonID int64, phase season.Phase) ([]playerstats.SeasonStat, error) {
	key := statsSeasonPrefix(seasonID) + "season:" + string(phase)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListSeasonStats(ctx, seasonID, phase)
		if err != nil {
			return nil, err
		}
		return append([]playerstats.SeasonStat(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]playerstats.SeasonStat)
	return append([]playerstats.SeasonStat(nil), items...), nil
}

func (r *PlayerStatsRepository) ListWeekStats(ctx context.Context, seasonID int64, phase season.Phase) ([]playerstats.WeekStat, error) {
	key := statsSeasonPrefix(seasonID) + "week:" + string(phase)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListWeekStats(ctx, seasonID, phase)
		if err != nil {
			return nil, err
		}
		return append([]playerstats.WeekStat(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]playerstats.WeekStat)
	return append([]playerstats.WeekStat(nil), items...), nil
}

func (r *PlayerStatsRepository) invalidate(ctx context.Context, seasonIDs []int64) {
	for _, id := range seasonIDs {
		r.cache.DeletePrefix(ctx, statsSeasonPrefix(id))
	}
}

func seasonIDsOf[T any](items []T, seasonID func(T) int64) []int64 {
	seen := make(map[int64]struct{}, 1)
	out := make([]int64, 0, 1)
	for _, item := range items {
		id := seasonID(item)
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
