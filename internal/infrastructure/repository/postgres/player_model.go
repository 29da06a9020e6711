package postgres

import "database/sql"

type playerTableModel struct {
	ID   int64          `db:"id"`
	Name string         `db:"name"`
	GUID sql.NullString `db:"guid"`
}

type playerSeasonTeamModel struct {
	PlayerID   int64  `db:"player_id"`
	SeasonID   int64  `db:"season_id"`
	TeamID     int64  `db:"team_id"`
	DivisionID *int64 `db:"division_id"`
}
