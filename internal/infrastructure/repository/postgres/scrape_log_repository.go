package postgres

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/dart-league-stats/internal/domain/scrapelog"
	qb "github.com/riskibarqy/dart-league-stats/internal/platform/querybuilder"
)

const scrapeLogColumns = "run_id, trigger, mode, status, seasons_updated, players_updated, matches_updated, error_text, diagnostics, started_at, finished_at"

type ScrapeLogRepository struct {
	db *sqlx.DB
}

func NewScrapeLogRepository(db *sqlx.DB) *ScrapeLogRepository {
	return &ScrapeLogRepository{db: db}
}

func (r *ScrapeLogRepository) Record(ctx context.Context, entry scrapelog.Entry) error {
	diagnostics := "{}"
	if len(entry.Diagnostics) > 0 {
		encoded, err := sonic.MarshalString(entry.Diagnostics)
		if err != nil {
			return fmt.Errorf("encode scrape diagnostics run=%s: %w", entry.RunID, err)
		}
		diagnostics = encoded
	}

	query, args, err := qb.UpsertModel("scrape_logs", scrapeLogTableModel{
		RunID:          entry.RunID,
		Trigger:        string(entry.Trigger),
		Mode:           entry.Mode,
		Status:         string(entry.Status),
		SeasonsUpdated: entry.SeasonsUpdated,
		PlayersUpdated: entry.PlayersUpdated,
		MatchesUpdated: entry.MatchesUpdated,
		ErrorText:      nullableString(entry.ErrorText),
		Diagnostics:    diagnostics,
		StartedAt:      entry.StartedAt.UTC(),
		FinishedAt:     entry.FinishedAt,
	}, []string{"run_id"}, "trigger", "mode", "started_at")
	if err != nil {
		return fmt.Errorf("build record scrape log query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("record scrape log run=%s: %w", entry.RunID, err)
	}
	return nil
}

func (r *ScrapeLogRepository) Get(ctx context.Context, runID string) (scrapelog.Entry, bool, error) {
	query, args, err := qb.Select(scrapeLogColumns).From("scrape_logs").
		Where(qb.Eq("run_id", runID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return scrapelog.Entry{}, false, fmt.Errorf("build get scrape log query: %w", err)
	}
	return r.getOne(ctx, query, args)
}

func (r *ScrapeLogRepository) Latest(ctx context.Context) (scrapelog.Entry, bool, error) {
	query, args, err := qb.Select(scrapeLogColumns).From("scrape_logs").
		OrderBy("started_at DESC", "id DESC").
		Limit(1).
		ToSQL()
	if err != nil {
		return scrapelog.Entry{}, false, fmt.Errorf("build latest scrape log query: %w", err)
	}
	return r.getOne(ctx, query, args)
}

func (r *ScrapeLogRepository) getOne(ctx context.Context, query string, args []any) (scrapelog.Entry, bool, error) {
	var row scrapeLogTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return scrapelog.Entry{}, false, nil
		}
		return scrapelog.Entry{}, false, fmt.Errorf("get scrape log: %w", err)
	}

	entry := scrapelog.Entry{
		RunID:          row.RunID,
		Trigger:        scrapelog.Trigger(row.Trigger),
		Mode:           row.Mode,
		Status:         scrapelog.Status(row.Status),
		SeasonsUpdated: row.SeasonsUpdated,
		PlayersUpdated: row.PlayersUpdated,
		MatchesUpdated: row.MatchesUpdated,
		ErrorText:      stringValue(row.ErrorText),
		StartedAt:      row.StartedAt,
		FinishedAt:     row.FinishedAt,
	}
	if row.Diagnostics != "" {
		if err := sonic.UnmarshalString(row.Diagnostics, &entry.Diagnostics); err != nil {
			return scrapelog.Entry{}, false, fmt.Errorf("decode scrape diagnostics run=%s: %w", row.RunID, err)
		}
	}
	return entry, true, nil
}
