package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	sonic "github.com/bytedance/sonic"
	"github.com/joho/godotenv"
	"github.com/riskibarqy/dart-league-stats/internal/app"
	"github.com/riskibarqy/dart-league-stats/internal/config"
	"github.com/riskibarqy/dart-league-stats/internal/domain/scrapelog"
	"github.com/riskibarqy/dart-league-stats/internal/platform/logging"
	"github.com/riskibarqy/dart-league-stats/internal/usecase"
	"github.com/spf13/cobra"
)

var errRunFailed = errors.New("scrape run failed")

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		seasonID int64
		all      bool
		force    bool
	)

	cmd := &cobra.Command{
		Use:           "scrape",
		Short:         "Scrape the dart league and rebuild player statistics",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if seasonID != 0 && all {
				return fmt.Errorf("--season and --all cannot be combined")
			}
			return run(cmd.Context(), usecase.ScrapeInput{
				SeasonID: seasonID,
				All:      all,
				Force:    force,
				Trigger:  scrapelog.TriggerCLI,
			})
		},
	}
	cmd.Flags().Int64Var(&seasonID, "season", 0, "scrape a single season by id")
	cmd.Flags().BoolVar(&all, "all", false, "scrape every season, not only the active ones")
	cmd.Flags().BoolVar(&force, "force", false, "re-fetch recaps that are already stored")
	return cmd
}

func run(ctx context.Context, input usecase.ScrapeInput) error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}

	logger := logging.NewJSONWriter(cfg.LogLevel, os.Stderr)
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	container, err := app.Build(ctx, cfg, logger)
	if err != nil {
		logger.Error("build app", "error", err)
		return err
	}
	defer func() { _ = container.Close() }()

	result, err := container.Scraper.Run(ctx, input)
	if err != nil {
		logger.Error("scrape run failed", "error", err)
		return err
	}

	out, err := sonic.ConfigStd.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	fmt.Println(string(out))

	if result.Status == scrapelog.StatusError {
		return errRunFailed
	}
	return nil
}
