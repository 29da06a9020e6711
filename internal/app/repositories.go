package app

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/dart-league-stats/internal/config"
	"github.com/riskibarqy/dart-league-stats/internal/domain/division"
	"github.com/riskibarqy/dart-league-stats/internal/domain/match"
	"github.com/riskibarqy/dart-league-stats/internal/domain/player"
	"github.com/riskibarqy/dart-league-stats/internal/domain/playerstats"
	"github.com/riskibarqy/dart-league-stats/internal/domain/scoringconfig"
	"github.com/riskibarqy/dart-league-stats/internal/domain/scrapelog"
	"github.com/riskibarqy/dart-league-stats/internal/domain/season"
	"github.com/riskibarqy/dart-league-stats/internal/domain/team"
	cacherepo "github.com/riskibarqy/dart-league-stats/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/dart-league-stats/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/dart-league-stats/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/dart-league-stats/internal/platform/cache"
	"github.com/riskibarqy/dart-league-stats/internal/platform/logging"
)

type repositories struct {
	seasons   season.Repository
	divisions division.Repository
	teams     team.Repository
	players   player.Repository
	matches   match.Repository
	stats     playerstats.Repository
	scoring   scoringconfig.Repository
	logs      scrapelog.Repository
}

func buildRepositories(ctx context.Context, cfg config.Config, logger *logging.Logger) (repositories, *sqlx.DB, error) {
	var (
		repos repositories
		db    *sqlx.DB
	)

	if cfg.DBURL == "" {
		logger.Warn("DB_URL is empty, using in-memory repositories")
		repos = repositories{
			seasons:   memory.NewSeasonRepository(),
			divisions: memory.NewDivisionRepository(),
			teams:     memory.NewTeamRepository(),
			players:   memory.NewPlayerRepository(),
			matches:   memory.NewMatchRepository(),
			stats:     memory.NewPlayerStatsRepository(),
			scoring:   memory.NewScoringConfigRepository(),
			logs:      memory.NewScrapeLogRepository(),
		}
	} else {
		var err error
		db, err = openDB(ctx, cfg)
		if err != nil {
			return repositories{}, nil, err
		}
		repos = repositories{
			seasons:   postgres.NewSeasonRepository(db),
			divisions: postgres.NewDivisionRepository(db),
			teams:     postgres.NewTeamRepository(db),
			players:   postgres.NewPlayerRepository(db),
			matches:   postgres.NewMatchRepository(db),
			stats:     postgres.NewPlayerStatsRepository(db),
			scoring:   postgres.NewScoringConfigRepository(db),
			logs:      postgres.NewScrapeLogRepository(db),
		}
	}

	if cfg.CacheEnabled {
		store := cache.NewStore(cfg.CacheTTL)
		repos.stats = cacherepo.NewPlayerStatsRepository(repos.stats, store)
		repos.scoring = cacherepo.NewScoringConfigRepository(repos.scoring, store)
	}
	return repos, db, nil
}
