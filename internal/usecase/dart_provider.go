package usecase

import (
	"context"
	"net/http"
	"time"

	"github.com/riskibarqy/dart-league-stats/internal/domain/recap"
	"github.com/riskibarqy/dart-league-stats/internal/domain/season"
	"github.com/riskibarqy/dart-league-stats/internal/domain/team"
)

// DartProvider is the league platform as seen by the scrape pipeline.
type DartProvider interface {
	AcquireSession(ctx context.Context) (ExternalSession, error)
	FetchSeasons(ctx context.Context) (ExternalSeasonList, error)
	FetchStandings(ctx context.Context, seasonID int64) ([]ExternalTeam, error)
	FetchSchedule(ctx context.Context, session ExternalSession, seasonID int64) ([]ExternalScheduledMatch, error)
	FetchRoster(ctx context.Context, session ExternalSession, seasonID, teamID int64, phase season.Phase) ([]ExternalRosterRow, error)
	FetchTeamHistory(ctx context.Context, session ExternalSession, seasonID, teamID int64) ([]ExternalHistoryEntry, error)
	FetchSegments(ctx context.Context, recapGUID string) ([]recap.Set, error)
	FetchMatchScore(ctx context.Context, recapGUID string) (recap.Score, error)
	FetchMatchPlayers(ctx context.Context, recapGUID string) ([]recap.PlayerLine, error)
	FetchLeaderboard(ctx context.Context, leagueID string, seasonID int64, gameType string) ([]ExternalLeaderboardRow, error)
	// FetchVenues never fails; it returns an empty map when scraping goes wrong.
	FetchVenues(ctx context.Context) map[string]team.Venue
}

// ExternalSession carries the CSRF token and cookies for API POSTs.
type ExternalSession struct {
	CSRFToken string
	Cookies   []*http.Cookie
}

func (s ExternalSession) Valid() bool {
	return s.CSRFToken != ""
}

type ExternalSeason struct {
	ID        int64
	Name      string
	StartDate *time.Time
	Active    bool
}

type ExternalSeasonList struct {
	LeagueID string
	Seasons  []ExternalSeason
}

type ExternalTeam struct {
	ExternalID  int64
	Name        string
	Captain     string
	Division    string
	HasStanding bool
	Wins        int
	Losses      int
	Points      float64
}

type ExternalScheduledMatch struct {
	ExternalID   int64
	Round        *int
	Division     string
	HomeTeamID   int64
	AwayTeamID   int64
	HomeTeamName string
	AwayTeamName string
	Date         *time.Time
	DateText     string
	MatchTime    string
	Status       string
	HomeScore    *int
	AwayScore    *int
	RecapGUID    string
	Phase        season.Phase
}

type ExternalRosterRow struct {
	Name        string
	GUID        string
	SetsWon     int
	SetsPlayed  int
	HundredPlus int
	OneEighties int
	HighOut     int
	PPR         float64
	MPR         float64
}

type ExternalHistoryEntry struct {
	RecapGUID string
	DateText  string
	Date      *time.Time
	Opponent  string
	Side      recap.Side
	Outcome   string
	Phase     season.Phase
}

type ExternalLeaderboardRow struct {
	Name  string
	Marks int
	Darts int
}
