package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/dart-league-stats/internal/domain/season"
	qb "github.com/riskibarqy/dart-league-stats/internal/platform/querybuilder"
)

type SeasonRepository struct {
	db *sqlx.DB
}

func NewSeasonRepository(db *sqlx.DB) *SeasonRepository {
	return &SeasonRepository{db: db}
}

func (r *SeasonRepository) Upsert(ctx context.Context, item season.Season) error {
	query, args, err := qb.UpsertModel("seasons", seasonUpsertModel{
		ID:        item.ID,
		Name:      item.Name,
		StartDate: item.StartDate,
		Active:    item.Active,
	}, []string{"id"})
	if err != nil {
		return fmt.Errorf("build upsert season query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert season id=%d: %w", item.ID, err)
	}
	return nil
}

func (r *SeasonRepository) List(ctx context.Context) ([]season.Season, error) {
	query, args, err := qb.Select("id", "name", "start_date", "active", "last_scraped_at").
		From("seasons").
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select seasons query: %w", err)
	}

	var rows []seasonTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select seasons: %w", err)
	}

	out := make([]season.Season, 0, len(rows))
	for _, row := range rows {
		out = append(out, seasonFromRow(row))
	}
	return out, nil
}

func (r *SeasonRepository) GetByID(ctx context.Context, seasonID int64) (season.Season, bool, error) {
	query, args, err := qb.Select("id", "name", "start_date", "active", "last_scraped_at").
		From("seasons").
		Where(qb.Eq("id", seasonID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return season.Season{}, false, fmt.Errorf("build get season query: %w", err)
	}

	var row seasonTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return season.Season{}, false, nil
		}
		return season.Season{}, false, fmt.Errorf("get season id=%d: %w", seasonID, err)
	}
	return seasonFromRow(row), true, nil
}

func (r *SeasonRepository) MarkScraped(ctx context.Context, seasonID int64, at time.Time) error {
	query, args, err := qb.Update("seasons").
		Set("last_scraped_at", at.UTC()).
		Where(qb.Eq("id", seasonID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build mark season scraped query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("mark season scraped id=%d: %w", seasonID, err)
	}
	return nil
}

func seasonFromRow(row seasonTableModel) season.Season {
	return season.Season{
		ID:            row.ID,
		Name:          row.Name,
		StartDate:     row.StartDate,
		Active:        row.Active,
		LastScrapedAt: row.LastScrapedAt,
	}
}
