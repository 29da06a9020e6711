package playerstats

import "github.com/riskibarqy/dart-league-stats/internal/domain/season"

// Line is the derived stat block shared by season and week rows.
type Line struct {
	Rank           int
	Position       int
	Wins           int
	Losses         int
	OverallRecord  string
	CricketRecord  string
	X601Record     string
	X501Record     string
	SOS            float64
	HundredPlus    int
	OneEighties    int
	HighOut        int
	NineMarks      int
	CricketRounds  int
	LowDartGame    *int
	MPR            float64
	PPR            float64
	WinPct         float64
	Points         float64
	Avg            float64
	HotHand01      int
	HotHandCricket int
}

// SeasonStat is one row per (season, player, phase).
type SeasonStat struct {
	SeasonID   int64
	PlayerID   int64
	PlayerName string
	TeamID     *int64
	DivisionID *int64
	Phase      season.Phase
	Line
}

// WeekStat is one row per (season, player, week, phase).
type WeekStat struct {
	SeasonID     int64
	PlayerID     int64
	PlayerName   string
	WeekKey      string
	Phase        season.Phase
	OpponentTeam string
	Line
}
