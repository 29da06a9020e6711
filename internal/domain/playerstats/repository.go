package playerstats

import (
	"context"

	"github.com/riskibarqy/dart-league-stats/internal/domain/season"
)

type Repository interface {
	// UpsertSeasonStats replaces whole rows on (season, player, phase).
	UpsertSeasonStats(ctx context.Context, items []SeasonStat) error
	// UpsertWeekStats replaces whole rows on (season, player, week, phase).
	UpsertWeekStats(ctx context.Context, items []WeekStat) error
	ListSeasonStats(ctx context.Context, seasonID int64, phase season.Phase) ([]SeasonStat, error)
	ListWeekStats(ctx context.Context, seasonID int64, phase season.Phase) ([]WeekStat, error)
}
