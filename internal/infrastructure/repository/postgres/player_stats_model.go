package postgres

import "database/sql"

// statLineModel holds the columns shared by season and week stat rows.
type statLineModel struct {
	Rank           int           `db:"rank"`
	Position       int           `db:"position"`
	Wins           int           `db:"wins"`
	Losses         int           `db:"losses"`
	OverallRecord  string        `db:"overall_record"`
	CricketRecord  string        `db:"cricket_record"`
	X601Record     string        `db:"x601_record"`
	X501Record     string        `db:"x501_record"`
	SOS            float64       `db:"sos"`
	HundredPlus    int           `db:"hundred_plus"`
	OneEighties    int           `db:"one_eighties"`
	HighOut        int           `db:"high_out"`
	NineMarks      int           `db:"nine_marks"`
	CricketRounds  int           `db:"cricket_rounds"`
	LowDartGame    sql.NullInt32 `db:"low_dart_game"`
	MPR            float64       `db:"mpr"`
	PPR            float64       `db:"ppr"`
	WinPct         float64       `db:"win_pct"`
	Points         float64       `db:"points"`
	Avg            float64       `db:"avg"`
	HotHand01      int           `db:"hot_hand_01"`
	HotHandCricket int           `db:"hot_hand_cricket"`
}

type seasonStatTableModel struct {
	SeasonID   int64         `db:"season_id"`
	PlayerID   int64         `db:"player_id"`
	PlayerName string        `db:"player_name"`
	TeamID     sql.NullInt64 `db:"team_id"`
	DivisionID sql.NullInt64 `db:"division_id"`
	Phase      string        `db:"phase"`
	statLineModel
}

type weekStatTableModel struct {
	SeasonID     int64  `db:"season_id"`
	PlayerID     int64  `db:"player_id"`
	PlayerName   string `db:"player_name"`
	WeekKey      string `db:"week_key"`
	Phase        string `db:"phase"`
	OpponentTeam string `db:"opponent_team"`
	statLineModel
}
