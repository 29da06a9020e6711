package postgres

import "database/sql"

type divisionTableModel struct {
	ID       int64  `db:"id"`
	SeasonID int64  `db:"season_id"`
	Name     string `db:"name"`
}

type teamTableModel struct {
	ID             int64           `db:"id"`
	ExternalID     int64           `db:"external_team_id"`
	SeasonID       int64           `db:"season_id"`
	DivisionID     sql.NullInt64   `db:"division_id"`
	Name           string          `db:"name"`
	Captain        sql.NullString  `db:"captain"`
	VenueName      sql.NullString  `db:"venue_name"`
	VenueAddress   sql.NullString  `db:"venue_address"`
	VenuePhone     sql.NullString  `db:"venue_phone"`
	StandingWins   sql.NullInt32   `db:"standing_wins"`
	StandingLosses sql.NullInt32   `db:"standing_losses"`
	StandingPoints sql.NullFloat64 `db:"standing_points"`
}

type teamUpsertModel struct {
	ExternalID     int64    `db:"external_team_id"`
	SeasonID       int64    `db:"season_id"`
	DivisionID     *int64   `db:"division_id"`
	Name           string   `db:"name"`
	Captain        *string  `db:"captain"`
	VenueName      *string  `db:"venue_name"`
	VenueAddress   *string  `db:"venue_address"`
	VenuePhone     *string  `db:"venue_phone"`
	StandingWins   *int     `db:"standing_wins"`
	StandingLosses *int     `db:"standing_losses"`
	StandingPoints *float64 `db:"standing_points"`
}
