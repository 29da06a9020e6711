package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/dart-league-stats/internal/domain/match"
	"github.com/riskibarqy/dart-league-stats/internal/domain/season"
	qb "github.com/riskibarqy/dart-league-stats/internal/platform/querybuilder"
)

const matchColumns = "id, season_id, division_id, round, home_team_id, away_team_id, home_team_name, away_team_name, scheduled_at, match_time, date_text, status, home_score, away_score, recap_guid, phase"

const scheduledConflictSuffix = `ON CONFLICT (id) DO UPDATE SET
	season_id = EXCLUDED.season_id,
	division_id = EXCLUDED.division_id,
	round = EXCLUDED.round,
	home_team_id = EXCLUDED.home_team_id,
	away_team_id = EXCLUDED.away_team_id,
	home_team_name = EXCLUDED.home_team_name,
	away_team_name = EXCLUDED.away_team_name,
	scheduled_at = EXCLUDED.scheduled_at,
	match_time = EXCLUDED.match_time,
	date_text = EXCLUDED.date_text,
	status = EXCLUDED.status,
	phase = EXCLUDED.phase,
	home_score = COALESCE(EXCLUDED.home_score, matches.home_score),
	away_score = COALESCE(EXCLUDED.away_score, matches.away_score),
	recap_guid = COALESCE(EXCLUDED.recap_guid, matches.recap_guid),
	updated_at = NOW()`

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

// UpsertScheduled moves a synthetic row for the same recap onto the schedule id
// in one transaction, carrying its score forward when the schedule has none.
func (r *MatchRepository) UpsertScheduled(ctx context.Context, item match.Match) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		model := matchModelFrom(item)
		if guid := strings.TrimSpace(item.RecapGUID); guid != "" {
			synthetic, found, err := selectSyntheticByGUID(ctx, tx, guid)
			if err != nil {
				return err
			}
			if found {
				if model.HomeScore == nil {
					model.HomeScore, model.AwayScore = intPtr(synthetic.HomeScore), intPtr(synthetic.AwayScore)
				}
				if _, err := tx.ExecContext(ctx, "DELETE FROM matches WHERE id = $1", synthetic.ID); err != nil {
					return fmt.Errorf("delete synthetic match id=%d: %w", synthetic.ID, err)
				}
			}
		}

		query, args, err := qb.InsertModel("matches", model, scheduledConflictSuffix)
		if err != nil {
			return fmt.Errorf("build upsert scheduled match query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert scheduled match id=%d: %w", item.ID, err)
		}
		return nil
	})
}

// UpsertDiscovered fills blanks on the row already holding the recap GUID, or
// inserts the synthetic row when none exists.
func (r *MatchRepository) UpsertDiscovered(ctx context.Context, item match.Match) error {
	guid := strings.TrimSpace(item.RecapGUID)
	if guid == "" {
		return fmt.Errorf("upsert discovered match: recap guid is required")
	}
	model := matchModelFrom(item)

	update, args, err := qb.Update("matches").
		SetExpr("round", "COALESCE(round, ?)", model.Round).
		SetExpr("scheduled_at", "COALESCE(scheduled_at, ?)", model.ScheduledAt).
		SetExpr("date_text", "COALESCE(NULLIF(date_text, ''), ?)", model.DateText).
		SetExpr("division_id", "COALESCE(division_id, ?)", model.DivisionID).
		SetExpr("home_team_id", "COALESCE(home_team_id, ?)", model.HomeTeamID).
		SetExpr("away_team_id", "COALESCE(away_team_id, ?)", model.AwayTeamID).
		SetExpr("home_team_name", "COALESCE(NULLIF(home_team_name, ''), ?)", model.HomeTeamName).
		SetExpr("away_team_name", "COALESCE(NULLIF(away_team_name, ''), ?)", model.AwayTeamName).
		SetExpr("status", "CASE WHEN id < 0 THEN ? ELSE status END", model.Status).
		SetExpr("phase", "CASE WHEN id < 0 THEN ? ELSE phase END", model.Phase).
		SetExpr("updated_at", "NOW()").
		Where(qb.Expr("lower(recap_guid) = lower(?)", guid)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update discovered match query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, update, args...)
	if err != nil {
		return fmt.Errorf("update discovered match guid=%s: %w", guid, err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected > 0 {
		return nil
	}

	insert, insertArgs, err := qb.InsertModel("matches", model, "ON CONFLICT DO NOTHING")
	if err != nil {
		return fmt.Errorf("build insert discovered match query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, insert, insertArgs...); err != nil {
		return fmt.Errorf("insert discovered match guid=%s: %w", guid, err)
	}
	return nil
}

func (r *MatchRepository) UpdateScore(ctx context.Context, recapGUID string, home, away int) error {
	query, args, err := qb.Update("matches").
		Set("home_score", home).
		Set("away_score", away).
		SetExpr("updated_at", "NOW()").
		Where(qb.Expr("lower(recap_guid) = lower(?)", strings.TrimSpace(recapGUID))).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update match score query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update match score guid=%s: %w", recapGUID, err)
	}
	return nil
}

func (r *MatchRepository) ListBySeason(ctx context.Context, seasonID int64) ([]match.Match, error) {
	query, args, err := qb.Select(matchColumns).From("matches").
		Where(qb.Eq("season_id", seasonID)).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select matches by season query: %w", err)
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select matches by season: %w", err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, matchFromRow(row))
	}
	return out, nil
}

func selectSyntheticByGUID(ctx context.Context, tx *sqlx.Tx, guid string) (matchTableModel, bool, error) {
	query, args, err := qb.Select(matchColumns).From("matches").
		Where(
			qb.Expr("lower(recap_guid) = lower(?)", guid),
			qb.Expr("id < 0"),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return matchTableModel{}, false, fmt.Errorf("build select synthetic match query: %w", err)
	}

	var row matchTableModel
	if err := tx.GetContext(ctx, &row, query+" FOR UPDATE", args...); err != nil {
		if isNotFound(err) {
			return matchTableModel{}, false, nil
		}
		return matchTableModel{}, false, fmt.Errorf("select synthetic match guid=%s: %w", guid, err)
	}
	return row, true, nil
}

func matchModelFrom(item match.Match) matchUpsertModel {
	return matchUpsertModel{
		ID:           item.ID,
		SeasonID:     item.SeasonID,
		DivisionID:   item.DivisionID,
		Round:        item.Round,
		HomeTeamID:   item.HomeTeamID,
		AwayTeamID:   item.AwayTeamID,
		HomeTeamName: item.HomeTeamName,
		AwayTeamName: item.AwayTeamName,
		ScheduledAt:  item.ScheduledAt,
		MatchTime:    item.MatchTime,
		DateText:     item.DateText,
		Status:       item.Status,
		HomeScore:    item.HomeScore,
		AwayScore:    item.AwayScore,
		RecapGUID:    nullableString(item.RecapGUID),
		Phase:        string(item.Phase),
	}
}

func matchFromRow(row matchTableModel) match.Match {
	return match.Match{
		ID:           row.ID,
		SeasonID:     row.SeasonID,
		DivisionID:   int64Ptr(row.DivisionID),
		Round:        intPtr(row.Round),
		HomeTeamID:   int64Ptr(row.HomeTeamID),
		AwayTeamID:   int64Ptr(row.AwayTeamID),
		HomeTeamName: row.HomeTeamName,
		AwayTeamName: row.AwayTeamName,
		ScheduledAt:  row.ScheduledAt,
		MatchTime:    row.MatchTime,
		DateText:     row.DateText,
		Status:       row.Status,
		HomeScore:    intPtr(row.HomeScore),
		AwayScore:    intPtr(row.AwayScore),
		RecapGUID:    row.RecapGUID.String,
		Phase:        season.Phase(row.Phase),
	}
}
