package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/riskibarqy/dart-league-stats/internal/domain/scoringconfig"
	qb "github.com/riskibarqy/dart-league-stats/internal/platform/querybuilder"
)

// ScoringConfigRepository stores the all-divisions row under an empty division.
type ScoringConfigRepository struct {
	db *sqlx.DB
}

func NewScoringConfigRepository(db *sqlx.DB) *ScoringConfigRepository {
	return &ScoringConfigRepository{db: db}
}

func (r *ScoringConfigRepository) ListByScopes(ctx context.Context, scopes []string) ([]scoringconfig.Entry, error) {
	if len(scopes) == 0 {
		return nil, nil
	}
	query, args, err := qb.Select("scope", "division", "config_key", "config_value").
		From("scoring_config").
		Where(qb.Expr("scope = ANY(?)", pq.Array(scopes))).
		OrderBy("scope", "division", "config_key").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select scoring config query: %w", err)
	}

	var rows []scoringConfigTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select scoring config: %w", err)
	}

	out := make([]scoringconfig.Entry, 0, len(rows))
	for _, row := range rows {
		out = append(out, scoringconfig.Entry{
			Scope:    row.Scope,
			Division: nullableString(row.Division),
			Key:      row.Key,
			Value:    row.Value,
		})
	}
	return out, nil
}

func (r *ScoringConfigRepository) Upsert(ctx context.Context, entry scoringconfig.Entry) error {
	query, args, err := qb.UpsertModel("scoring_config", scoringConfigTableModel{
		Scope:    strings.TrimSpace(entry.Scope),
		Division: strings.ToUpper(strings.TrimSpace(stringValue(entry.Division))),
		Key:      strings.TrimSpace(entry.Key),
		Value:    strings.TrimSpace(entry.Value),
	}, []string{"scope", "division", "config_key"})
	if err != nil {
		return fmt.Errorf("build upsert scoring config query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert scoring config scope=%s key=%s: %w", entry.Scope, entry.Key, err)
	}
	return nil
}
