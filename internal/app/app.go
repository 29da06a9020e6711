package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/dart-league-stats/external/dartconnect"
	"github.com/riskibarqy/dart-league-stats/internal/config"
	"github.com/riskibarqy/dart-league-stats/internal/interfaces/httpapi"
	"github.com/riskibarqy/dart-league-stats/internal/platform/id"
	"github.com/riskibarqy/dart-league-stats/internal/platform/logging"
	"github.com/riskibarqy/dart-league-stats/internal/platform/resilience"
	"github.com/riskibarqy/dart-league-stats/internal/usecase"
)

// Container holds the wired services shared by the API and CLI binaries.
type Container struct {
	Scraper *usecase.ScrapeService
	Runs    *usecase.RunTracker
	Stats   *usecase.PlayerStatsService

	db *sqlx.DB
}

// Build wires repositories, the platform client and the usecases. An empty
// DB_URL keeps everything in process memory.
func Build(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Container, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if !cfg.ScrapeEnabled() {
		return nil, fmt.Errorf("%w: DART_LEAGUE_ID is required", usecase.ErrInvalidInput)
	}

	repos, db, err := buildRepositories(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	client := dartconnect.NewClient(dartconnect.ClientConfig{
		BaseURL:           cfg.DartBaseURL,
		LeaderboardURL:    cfg.DartLeaderboardURL,
		VenueScheduleURL:  cfg.DartVenueScheduleURL,
		LeagueID:          cfg.DartLeagueID,
		Timeout:           cfg.DartTimeout,
		MaxRetries:        cfg.DartMaxRetries,
		RequestsPerMinute: cfg.DartRequestsPerMinute,
		Logger:            logger.Named("dartconnect"),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.DartCircuitEnabled,
			FailureThreshold: cfg.DartCircuitFailureCount,
			OpenTimeout:      cfg.DartCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.DartCircuitHalfOpenMaxReq,
		},
	})

	reconcile := usecase.NewReconcileService(usecase.ReconcileRepositories{
		Seasons:   repos.seasons,
		Divisions: repos.divisions,
		Teams:     repos.teams,
		Players:   repos.players,
		Matches:   repos.matches,
		Stats:     repos.stats,
	}, logger)

	scraper := usecase.NewScrapeService(usecase.ScrapeDependencies{
		Provider:  client,
		Reconcile: reconcile,
		Seasons:   repos.seasons,
		Scoring:   repos.scoring,
		Logs:      repos.logs,
		IDs:       id.NewUUIDGenerator(),
		Logger:    logger,
	}, usecase.ScrapeConfig{
		MaxWorkers:    cfg.ScrapeMaxWorkers,
		SeasonWorkers: cfg.ScrapeSeasonWorkers,
	})

	return &Container{
		Scraper: scraper,
		Runs:    usecase.NewRunTracker(scraper, repos.logs, cfg.ScrapeRunTimeout, logger),
		Stats:   usecase.NewPlayerStatsService(repos.stats, repos.divisions, repos.scoring),
		db:      db,
	}, nil
}

// Close releases the database handle, if any.
func (c *Container) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// NewHTTPServer builds the API server around a wired container.
func NewHTTPServer(cfg config.Config, container *Container, logger *logging.Logger) (*http.Server, error) {
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	handler := httpapi.NewHandler(container.Runs, container.Stats, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	return &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}, nil
}
