// Package recap holds the canonical shape of a played match as read from the
// platform's recap pages.
package recap

import "github.com/riskibarqy/dart-league-stats/internal/domain/notation"

type Side string

const (
	SideHome Side = "home"
	SideAway Side = "away"
)

func (s Side) Opposite() Side {
	switch s {
	case SideHome:
		return SideAway
	case SideAway:
		return SideHome
	default:
		return ""
	}
}

// Set is a best-of-N group of legs of one game type.
type Set struct {
	GameName string
	GameType notation.GameType
	Legs     []Leg
}

// Leg indexes are 1-based; leg 3 of a 501/cricket set is the tiebreaker.
type Leg struct {
	Index  int
	Winner Side
	Home   LegSummary
	Away   LegSummary
	Turns  []Turn
}

func (l Leg) Summary(side Side) LegSummary {
	if side == SideAway {
		return l.Away
	}
	return l.Home
}

type LegSummary struct {
	PPR          string
	Darts        int
	EndingPoints int
}

type Turn struct {
	Home *TurnSide
	Away *TurnSide
}

func (t Turn) Side(side Side) *TurnSide {
	if side == SideAway {
		return t.Away
	}
	return t.Home
}

// TurnSide is one player's throw. Score is a number for 01 games and mark
// notation for cricket. Remaining is nil when the page omits it.
type TurnSide struct {
	Player    string
	Score     string
	Remaining *int
}

// Score is the platform's final per-side score for a match.
type Score struct {
	Home  int
	Away  int
	Round *int
	Date  string
}

// PlayerLine is the platform's per-player aggregate for one match.
type PlayerLine struct {
	Name         string
	Side         Side
	CricketMarks int
	CricketDarts int
	X01Points    int
	X01Darts     int
	MPR          float64
	PPR          float64
}

// Match bundles everything fetched for one recap GUID. Nil parts failed to load.
type Match struct {
	RecapGUID string
	Sets      []Set
	Score     *Score
	Players   []PlayerLine
}
