package postgres

import "time"

type scrapeLogTableModel struct {
	RunID          string     `db:"run_id"`
	Trigger        string     `db:"trigger"`
	Mode           string     `db:"mode"`
	Status         string     `db:"status"`
	SeasonsUpdated int        `db:"seasons_updated"`
	PlayersUpdated int        `db:"players_updated"`
	MatchesUpdated int        `db:"matches_updated"`
	ErrorText      *string    `db:"error_text"`
	Diagnostics    string     `db:"diagnostics"`
	StartedAt      time.Time  `db:"started_at"`
	FinishedAt     *time.Time `db:"finished_at"`
}
