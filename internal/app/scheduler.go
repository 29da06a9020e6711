package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/dart-league-stats/internal/config"
	"github.com/riskibarqy/dart-league-stats/internal/domain/scrapelog"
	"github.com/riskibarqy/dart-league-stats/internal/platform/logging"
	"github.com/riskibarqy/dart-league-stats/internal/usecase"
	"github.com/robfig/cron/v3"
)

type runStarter interface {
	Start(ctx context.Context, input usecase.ScrapeInput) (scrapelog.Entry, error)
}

// NewScrapeScheduler returns nil when SCRAPE_CRON is unset. The caller owns
// Start and Stop.
func NewScrapeScheduler(cfg config.Config, runs runStarter, logger *logging.Logger) (*cron.Cron, error) {
	schedule := strings.TrimSpace(cfg.ScrapeCron)
	if schedule == "" {
		return nil, nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	logger = logger.Named("scheduler")

	loc, err := time.LoadLocation(cfg.ScrapeCronTimezone)
	if err != nil {
		return nil, fmt.Errorf("load cron timezone %q: %w", cfg.ScrapeCronTimezone, err)
	}

	c := cron.New(cron.WithLocation(loc))
	_, err = c.AddFunc(schedule, func() {
		entry, err := runs.Start(context.Background(), usecase.ScrapeInput{Trigger: scrapelog.TriggerCron})
		if err != nil {
			logger.Warn("scheduled scrape not started", "error", err)
			return
		}
		logger.Info("scheduled scrape started", "run_id", entry.RunID, "mode", entry.Mode)
	})
	if err != nil {
		return nil, fmt.Errorf("parse SCRAPE_CRON %q: %w", schedule, err)
	}
	return c, nil
}
