package cache

import (
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/dart-league-stats/internal/domain/playerstats"
	"github.com/riskibarqy/dart-league-stats/internal/domain/scoringconfig"
	"github.com/riskibarqy/dart-league-stats/internal/domain/season"
	"github.com/riskibarqy/dart-league-stats/internal/infrastructure/repository/memory"
	basecache "github.com/riskibarqy/dart-league-stats/internal/platform/cache"
)

type countingScoring struct {
	scoringconfig.Repository
	lists int
}

func (c *countingScoring) ListByScopes(ctx context.Context, scopes []string) ([]scoringconfig.Entry, error) {
	c.lists++
	return c.Repository.ListByScopes(ctx, scopes)
}

func TestScoringConfigRepository_WriteInvalidates(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	next := &countingScoring{Repository: memory.NewScoringConfigRepository()}
	repo := NewScoringConfigRepository(next, basecache.NewStore(time.Minute))

	scopes := scoringconfig.Scopes(10)
	for range 3 {
		if _, err := repo.ListByScopes(ctx, scopes); err != nil {
			t.Fatalf("list scopes: %v", err)
		}
	}
	if next.lists != 1 {
		t.Fatalf("expected one backing read, got %d", next.lists)
	}

	if err := repo.Upsert(ctx, scoringconfig.Entry{Scope: scoringconfig.ScopeGlobal, Key: scoringconfig.KeyPoints501, Value: "2"}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	items, err := repo.ListByScopes(ctx, scopes)
	if err != nil {
		t.Fatalf("list scopes: %v", err)
	}
	if next.lists != 2 || len(items) != 1 {
		t.Fatalf("expected fresh read with 1 entry, got lists=%d items=%d", next.lists, len(items))
	}
}

func TestPlayerStatsRepository_WriteInvalidatesSeasonOnly(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewPlayerStatsRepository(memory.NewPlayerStatsRepository(), basecache.NewStore(time.Minute))

	write := func(seasonID int64, name string) {
		t.Helper()
		err := repo.UpsertSeasonStats(ctx, []playerstats.SeasonStat{{SeasonID: seasonID, PlayerID: int64(len(name)), PlayerName: name, Phase: season.PhaseRegular}})
		if err != nil {
			t.Fatalf("upsert: %v", err)
		}
	}

	write(1, "Al")
	write(2, "Bea")
	if items, _ := repo.ListSeasonStats(ctx, 1, season.PhaseRegular); len(items) != 1 {
		t.Fatalf("expected 1 row for season 1, got %d", len(items))
	}
	if items, _ := repo.ListSeasonStats(ctx, 2, season.PhaseRegular); len(items) != 1 {
		t.Fatalf("expected 1 row for season 2, got %d", len(items))
	}

	write(1, "Cass")
	if items, _ := repo.ListSeasonStats(ctx, 1, season.PhaseRegular); len(items) != 2 {
		t.Fatalf("expected season 1 cache dropped after write, got %d rows", len(items))
	}
}
