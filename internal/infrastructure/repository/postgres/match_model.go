package postgres

import (
	"database/sql"
	"time"
)

type matchTableModel struct {
	ID           int64          `db:"id"`
	SeasonID     int64          `db:"season_id"`
	DivisionID   sql.NullInt64  `db:"division_id"`
	Round        sql.NullInt32  `db:"round"`
	HomeTeamID   sql.NullInt64  `db:"home_team_id"`
	AwayTeamID   sql.NullInt64  `db:"away_team_id"`
	HomeTeamName string         `db:"home_team_name"`
	AwayTeamName string         `db:"away_team_name"`
	ScheduledAt  *time.Time     `db:"scheduled_at"`
	MatchTime    string         `db:"match_time"`
	DateText     string         `db:"date_text"`
	Status       string         `db:"status"`
	HomeScore    sql.NullInt32  `db:"home_score"`
	AwayScore    sql.NullInt32  `db:"away_score"`
	RecapGUID    sql.NullString `db:"recap_guid"`
	Phase        string         `db:"phase"`
}

type matchUpsertModel struct {
	ID           int64      `db:"id"`
	SeasonID     int64      `db:"season_id"`
	DivisionID   *int64     `db:"division_id"`
	Round        *int       `db:"round"`
	HomeTeamID   *int64     `db:"home_team_id"`
	AwayTeamID   *int64     `db:"away_team_id"`
	HomeTeamName string     `db:"home_team_name"`
	AwayTeamName string     `db:"away_team_name"`
	ScheduledAt  *time.Time `db:"scheduled_at"`
	MatchTime    string     `db:"match_time"`
	DateText     string     `db:"date_text"`
	Status       string     `db:"status"`
	HomeScore    *int       `db:"home_score"`
	AwayScore    *int       `db:"away_score"`
	RecapGUID    *string    `db:"recap_guid"`
	Phase        string     `db:"phase"`
}
