// Package accumulation folds recap data (set, leg, turn) into per-player
// season and week statistics under a scoring policy.
package accumulation

import (
	"time"

	"github.com/riskibarqy/dart-league-stats/internal/domain/playerstats"
	"github.com/riskibarqy/dart-league-stats/internal/domain/recap"
	"github.com/riskibarqy/dart-league-stats/internal/domain/scoringconfig"
)

// RosterEntry is a canonical player name plus the platform's own rates, used
// when no per-match data exists for the player.
type RosterEntry struct {
	Name     string
	Team     string
	Division string
	Position int
	PPR      float64
	MPR      float64
}

// MatchInput is one played match. Players holds the platform's per-player
// aggregates for the match and may be empty.
type MatchInput struct {
	RecapGUID string
	Date      time.Time
	WeekKey   string
	Division  string
	HomeTeam  string
	AwayTeam  string
	Sets      []recap.Set
	Players   []recap.PlayerLine
}

// LeaderboardLine is a season-wide cricket aggregate from the public leaderboard.
type LeaderboardLine struct {
	Marks int
	Darts int
}

type Input struct {
	Roster      []RosterEntry
	Matches     []MatchInput
	Leaderboard map[string]LeaderboardLine
	Policy      scoringconfig.Policy
}

type PlayerSeason struct {
	Name     string
	Team     string
	Division string
	Line     playerstats.Line
}

type PlayerWeek struct {
	Name         string
	Division     string
	WeekKey      string
	OpponentTeam string
	Line         playerstats.Line
}

type Result struct {
	Seasons []PlayerSeason
	Weeks   []PlayerWeek
}
