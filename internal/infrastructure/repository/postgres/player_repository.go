package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/riskibarqy/dart-league-stats/internal/domain/player"
	qb "github.com/riskibarqy/dart-league-stats/internal/platform/querybuilder"
)

type PlayerRepository struct {
	db *sqlx.DB
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func (r *PlayerRepository) UpsertByName(ctx context.Context, name, guid string) (player.Player, error) {
	query, args, err := qb.InsertInto("players").
		Columns("name", "guid").
		Values(name, nullableString(guid)).
		Suffix("ON CONFLICT (name) DO UPDATE SET guid = COALESCE(EXCLUDED.guid, players.guid), updated_at = NOW() RETURNING id, name, guid").
		ToSQL()
	if err != nil {
		return player.Player{}, fmt.Errorf("build upsert player query: %w", err)
	}

	var row playerTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return player.Player{}, fmt.Errorf("upsert player name=%s: %w", name, err)
	}
	return player.Player{ID: row.ID, Name: row.Name, GUID: row.GUID.String}, nil
}

func (r *PlayerRepository) ListByNames(ctx context.Context, names []string) ([]player.Player, error) {
	if len(names) == 0 {
		return nil, nil
	}
	cleaned := make([]string, 0, len(names))
	for _, name := range names {
		if name = strings.TrimSpace(name); name != "" {
			cleaned = append(cleaned, name)
		}
	}

	query, args, err := qb.Select("id", "name", "guid").From("players").
		Where(qb.Expr("name = ANY(?)", pq.Array(cleaned))).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select players by names query: %w", err)
	}

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select players by names: %w", err)
	}

	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, player.Player{ID: row.ID, Name: row.Name, GUID: row.GUID.String})
	}
	return out, nil
}

func (r *PlayerRepository) UpsertSeasonTeam(ctx context.Context, item player.SeasonTeam) error {
	query, args, err := qb.UpsertModel("player_season_teams", playerSeasonTeamModel{
		PlayerID:   item.PlayerID,
		SeasonID:   item.SeasonID,
		TeamID:     item.TeamID,
		DivisionID: item.DivisionID,
	}, []string{"player_id", "season_id"})
	if err != nil {
		return fmt.Errorf("build upsert player season team query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert player season team player=%d season=%d: %w", item.PlayerID, item.SeasonID, err)
	}
	return nil
}

func (r *PlayerRepository) ListSeasonTeams(ctx context.Context, seasonID int64) ([]player.SeasonTeam, error) {
	query, args, err := qb.Select("player_id", "season_id", "team_id", "division_id").
		From("player_season_teams").
		Where(qb.Eq("season_id", seasonID)).
		OrderBy("player_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select player season teams query: %w", err)
	}

	var rows []playerSeasonTeamModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select player season teams: %w", err)
	}

	out := make([]player.SeasonTeam, 0, len(rows))
	for _, row := range rows {
		out = append(out, player.SeasonTeam(row))
	}
	return out, nil
}
