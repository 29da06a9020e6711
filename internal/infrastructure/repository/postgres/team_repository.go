package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/dart-league-stats/internal/domain/division"
	"github.com/riskibarqy/dart-league-stats/internal/domain/team"
	qb "github.com/riskibarqy/dart-league-stats/internal/platform/querybuilder"
)

const teamColumns = "id, external_team_id, season_id, division_id, name, captain, venue_name, venue_address, venue_phone, standing_wins, standing_losses, standing_points"

// Venue, standing, division and captain survive a pass that did not scrape them.
const teamConflictSuffix = `ON CONFLICT (season_id, external_team_id) DO UPDATE SET
	name = EXCLUDED.name,
	division_id = COALESCE(EXCLUDED.division_id, teams.division_id),
	captain = COALESCE(EXCLUDED.captain, teams.captain),
	venue_name = COALESCE(EXCLUDED.venue_name, teams.venue_name),
	venue_address = COALESCE(EXCLUDED.venue_address, teams.venue_address),
	venue_phone = COALESCE(EXCLUDED.venue_phone, teams.venue_phone),
	standing_wins = COALESCE(EXCLUDED.standing_wins, teams.standing_wins),
	standing_losses = COALESCE(EXCLUDED.standing_losses, teams.standing_losses),
	standing_points = COALESCE(EXCLUDED.standing_points, teams.standing_points),
	updated_at = NOW()
RETURNING ` + teamColumns

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) Upsert(ctx context.Context, item team.Team) (team.Team, error) {
	model := teamUpsertModel{
		ExternalID: item.ExternalID,
		SeasonID:   item.SeasonID,
		DivisionID: item.DivisionID,
		Name:       item.Name,
		Captain:    nullableString(item.Captain),
	}
	if item.Venue != nil && !item.Venue.Empty() {
		model.VenueName = nullableString(item.Venue.Name)
		model.VenueAddress = nullableString(item.Venue.Address)
		model.VenuePhone = nullableString(item.Venue.Phone)
	}
	if item.Standing != nil {
		wins, losses, points := item.Standing.Wins, item.Standing.Losses, item.Standing.Points
		model.StandingWins, model.StandingLosses, model.StandingPoints = &wins, &losses, &points
	}

	query, args, err := qb.InsertModel("teams", model, teamConflictSuffix)
	if err != nil {
		return team.Team{}, fmt.Errorf("build upsert team query: %w", err)
	}

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return team.Team{}, fmt.Errorf("upsert team season=%d external=%d: %w", item.SeasonID, item.ExternalID, err)
	}
	return teamFromRow(row), nil
}

func (r *TeamRepository) ListBySeason(ctx context.Context, seasonID int64) ([]team.Team, error) {
	query, args, err := qb.Select(teamColumns).From("teams").
		Where(qb.Eq("season_id", seasonID)).
		OrderBy("external_team_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select teams by season query: %w", err)
	}

	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select teams by season: %w", err)
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, teamFromRow(row))
	}
	return out, nil
}

func teamFromRow(row teamTableModel) team.Team {
	out := team.Team{
		ID:         row.ID,
		ExternalID: row.ExternalID,
		SeasonID:   row.SeasonID,
		DivisionID: int64Ptr(row.DivisionID),
		Name:       row.Name,
		Captain:    row.Captain.String,
	}
	venue := team.Venue{Name: row.VenueName.String, Address: row.VenueAddress.String, Phone: row.VenuePhone.String}
	if !venue.Empty() {
		out.Venue = &venue
	}
	if row.StandingWins.Valid || row.StandingLosses.Valid || row.StandingPoints.Valid {
		out.Standing = &team.Standing{
			Wins:   int(row.StandingWins.Int32),
			Losses: int(row.StandingLosses.Int32),
			Points: row.StandingPoints.Float64,
		}
	}
	return out
}

type DivisionRepository struct {
	db *sqlx.DB
}

func NewDivisionRepository(db *sqlx.DB) *DivisionRepository {
	return &DivisionRepository{db: db}
}

// Ensure relies on the (season_id, lower(name)) unique index; the no-op update
// makes RETURNING yield the existing row on conflict.
func (r *DivisionRepository) Ensure(ctx context.Context, seasonID int64, name string) (division.Division, error) {
	name = strings.TrimSpace(name)
	query, args, err := qb.InsertInto("divisions").
		Columns("season_id", "name").
		Values(seasonID, name).
		Suffix("ON CONFLICT (season_id, lower(name)) DO UPDATE SET name = divisions.name RETURNING id, season_id, name").
		ToSQL()
	if err != nil {
		return division.Division{}, fmt.Errorf("build ensure division query: %w", err)
	}

	var row divisionTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return division.Division{}, fmt.Errorf("ensure division season=%d name=%s: %w", seasonID, name, err)
	}
	return division.Division{ID: row.ID, SeasonID: row.SeasonID, Name: row.Name}, nil
}

func (r *DivisionRepository) ListBySeason(ctx context.Context, seasonID int64) ([]division.Division, error) {
	query, args, err := qb.Select("id", "season_id", "name").From("divisions").
		Where(qb.Eq("season_id", seasonID)).
		OrderBy("name").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select divisions query: %w", err)
	}

	var rows []divisionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select divisions by season: %w", err)
	}

	out := make([]division.Division, 0, len(rows))
	for _, row := range rows {
		out = append(out, division.Division{ID: row.ID, SeasonID: row.SeasonID, Name: row.Name})
	}
	return out, nil
}
