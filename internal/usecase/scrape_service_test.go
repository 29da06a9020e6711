package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/dart-league-stats/internal/domain/match"
	"github.com/riskibarqy/dart-league-stats/internal/domain/notation"
	"github.com/riskibarqy/dart-league-stats/internal/domain/playerstats"
	"github.com/riskibarqy/dart-league-stats/internal/domain/recap"
	"github.com/riskibarqy/dart-league-stats/internal/domain/scrapelog"
	"github.com/riskibarqy/dart-league-stats/internal/domain/season"
	"github.com/riskibarqy/dart-league-stats/internal/domain/team"
	"github.com/riskibarqy/dart-league-stats/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/dart-league-stats/internal/platform/id"
	"github.com/riskibarqy/dart-league-stats/internal/platform/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errFakeUnavailable = errors.New("fake platform unavailable")

func day(v string) *time.Time {
	parsed, err := time.Parse("2006-01-02", v)
	if err != nil {
		panic(err)
	}
	return &parsed
}

func intPtr(v int) *int { return &v }

// fakeSeason is everything the fake platform knows about one season.
type fakeSeason struct {
	standings    []ExternalTeam
	standingsErr error
	schedule     []ExternalScheduledMatch
	rosters      map[int64][]ExternalRosterRow
	histories    map[int64][]ExternalHistoryEntry
}

type fakeProvider struct {
	mu          sync.Mutex
	seasons     []ExternalSeason
	bySeason    map[int64]fakeSeason
	segments    map[string][]recap.Set
	scores      map[string]recap.Score
	players     map[string][]recap.PlayerLine
	leaderboard []ExternalLeaderboardRow
	venues      map[string]team.Venue
	calls       map[string]int
}

func (f *fakeProvider) count(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[name]++
}

func (f *fakeProvider) called(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeProvider) AcquireSession(context.Context) (ExternalSession, error) {
	f.count("session")
	return ExternalSession{CSRFToken: "token"}, nil
}

func (f *fakeProvider) FetchSeasons(context.Context) (ExternalSeasonList, error) {
	return ExternalSeasonList{LeagueID: "league-1", Seasons: f.seasons}, nil
}

func (f *fakeProvider) FetchStandings(_ context.Context, seasonID int64) ([]ExternalTeam, error) {
	item := f.bySeason[seasonID]
	return item.standings, item.standingsErr
}

func (f *fakeProvider) FetchSchedule(_ context.Context, session ExternalSession, seasonID int64) ([]ExternalScheduledMatch, error) {
	if !session.Valid() {
		return nil, ErrUnauthorized
	}
	return f.bySeason[seasonID].schedule, nil
}

func (f *fakeProvider) FetchRoster(_ context.Context, _ ExternalSession, seasonID, teamID int64, phase season.Phase) ([]ExternalRosterRow, error) {
	if phase != season.PhaseRegular {
		return nil, nil
	}
	return f.bySeason[seasonID].rosters[teamID], nil
}

func (f *fakeProvider) FetchTeamHistory(_ context.Context, _ ExternalSession, seasonID, teamID int64) ([]ExternalHistoryEntry, error) {
	return f.bySeason[seasonID].histories[teamID], nil
}

func (f *fakeProvider) FetchSegments(_ context.Context, guid string) ([]recap.Set, error) {
	f.count("segments:" + guid)
	sets, ok := f.segments[guid]
	if !ok {
		return nil, ErrRemoteShapeChanged
	}
	return sets, nil
}

func (f *fakeProvider) FetchMatchScore(_ context.Context, guid string) (recap.Score, error) {
	score, ok := f.scores[guid]
	if !ok {
		return recap.Score{}, errFakeUnavailable
	}
	return score, nil
}

func (f *fakeProvider) FetchMatchPlayers(_ context.Context, guid string) ([]recap.PlayerLine, error) {
	return f.players[guid], nil
}

func (f *fakeProvider) FetchLeaderboard(context.Context, string, int64, string) ([]ExternalLeaderboardRow, error) {
	f.count("leaderboard")
	return f.leaderboard, nil
}

func (f *fakeProvider) FetchVenues(context.Context) map[string]team.Venue {
	f.count("venues")
	return f.venues
}

// x01Set is a 501 set where winner takes two straight legs, scoring with
// the given visits.
func x01Set(home, away string, winner recap.Side, visits ...string) recap.Set {
	legs := make([]recap.Leg, 0, 2)
	for idx := 1; idx <= 2; idx++ {
		turns := make([]recap.Turn, 0, len(visits))
		for _, visit := range visits {
			turns = append(turns, recap.Turn{
				Home: &recap.TurnSide{Player: home, Score: visit},
				Away: &recap.TurnSide{Player: away, Score: "45"},
			})
		}
		legs = append(legs, recap.Leg{
			Index:  idx,
			Winner: winner,
			Home:   recap.LegSummary{Darts: 15},
			Away:   recap.LegSummary{Darts: 15},
			Turns:  turns,
		})
	}
	return recap.Set{GameName: "501", GameType: notation.Game501, Legs: legs}
}

type pipeline struct {
	provider *fakeProvider
	service  *ScrapeService
	seasons  *memory.SeasonRepository
	matches  *memory.MatchRepository
	stats    *memory.PlayerStatsRepository
	players  *memory.PlayerRepository
	teams    *memory.TeamRepository
	logs     *memory.ScrapeLogRepository
}

func newPipeline(provider *fakeProvider) *pipeline {
	p := &pipeline{
		provider: provider,
		seasons:  memory.NewSeasonRepository(),
		matches:  memory.NewMatchRepository(),
		stats:    memory.NewPlayerStatsRepository(),
		players:  memory.NewPlayerRepository(),
		teams:    memory.NewTeamRepository(),
		logs:     memory.NewScrapeLogRepository(),
	}
	reconcile := NewReconcileService(ReconcileRepositories{
		Seasons:   p.seasons,
		Divisions: memory.NewDivisionRepository(),
		Teams:     p.teams,
		Players:   p.players,
		Matches:   p.matches,
		Stats:     p.stats,
	}, logging.NewNop())
	p.service = NewScrapeService(ScrapeDependencies{
		Provider:  provider,
		Reconcile: reconcile,
		Seasons:   p.seasons,
		Scoring:   memory.NewScoringConfigRepository(),
		Logs:      p.logs,
		IDs:       &id.Sequence{Prefix: "run-"},
		Logger:    logging.NewNop(),
		Now:       func() time.Time { return time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC) },
	}, ScrapeConfig{MaxWorkers: 4, SeasonWorkers: 2})
	return p
}

// leagueFixture is one active season with a scheduled match, a history-only
// match two weeks earlier, a history-only match off the weekly grid and a
// match whose recap cannot be read.
func leagueFixture() *fakeProvider {
	return &fakeProvider{
		seasons: []ExternalSeason{
			{ID: 10, Name: "Fall 2026", Active: true},
			{ID: 9, Name: "Spring 2026"},
		},
		bySeason: map[int64]fakeSeason{
			10: {
				standings: []ExternalTeam{
					{ExternalID: 1, Name: "Bullseyes", Division: "A", HasStanding: true, Wins: 3, Losses: 1, Points: 7},
					{ExternalID: 2, Name: "Flights", Division: "A", HasStanding: true, Wins: 1, Losses: 3, Points: 3},
				},
				schedule: []ExternalScheduledMatch{{
					ExternalID: 100, Round: intPtr(6), Division: "A",
					HomeTeamID: 1, AwayTeamID: 2, HomeTeamName: "Bullseyes", AwayTeamName: "Flights",
					Date: day("2026-10-01"), Status: match.StatusCompleted, RecapGUID: "g-sched", Phase: season.PhaseRegular,
				}},
				rosters: map[int64][]ExternalRosterRow{
					1: {{Name: "Alice", GUID: "p-alice"}},
					2: {{Name: "Bob", GUID: "p-bob"}},
				},
				histories: map[int64][]ExternalHistoryEntry{
					1: {
						{RecapGUID: "g-sched", Date: day("2026-10-01"), Opponent: "Flights", Side: recap.SideHome, Phase: season.PhaseRegular},
						{RecapGUID: "g-hist", Date: day("2026-09-17"), Opponent: "Flights", Side: recap.SideHome, Phase: season.PhaseRegular},
						{RecapGUID: "g-odd", Date: day("2026-09-21"), Opponent: "Flights", Side: recap.SideAway, Phase: season.PhaseRegular},
						{RecapGUID: "g-missing", Date: day("2026-09-24"), Opponent: "Flights", Side: recap.SideHome, Phase: season.PhaseRegular},
					},
				},
			},
			9: {
				standings: []ExternalTeam{{ExternalID: 1, Name: "Bullseyes", Division: "B"}},
			},
		},
		segments: map[string][]recap.Set{
			"g-sched": {x01Set("Alice", "Bob", recap.SideHome, "180", "100")},
			"g-hist":  {x01Set("Alice", "Bob", recap.SideHome, "140")},
			"g-odd":   {x01Set("Bob", "Alice", recap.SideHome, "60")},
		},
		scores: map[string]recap.Score{
			"g-sched": {Home: 7, Away: 5},
		},
		venues: map[string]team.Venue{
			team.NameKey("Bullseyes"): {Name: "The Oche", Address: "1 Main St"},
		},
	}
}

func matchByGUID(t *testing.T, items []match.Match, guid string) match.Match {
	t.Helper()
	for _, item := range items {
		if item.RecapGUID == guid {
			return item
		}
	}
	t.Fatalf("match %s not stored", guid)
	return match.Match{}
}

func statByName(items []playerstats.SeasonStat, name string) (playerstats.SeasonStat, bool) {
	for _, item := range items {
		if item.PlayerName == name {
			return item, true
		}
	}
	return playerstats.SeasonStat{}, false
}

func TestScrapeService_Run_ActiveSeason(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	p := newPipeline(leagueFixture())

	result, err := p.service.Run(ctx, ScrapeInput{Trigger: scrapelog.TriggerCLI})
	require.NoError(t, err)
	assert.Equal(t, "run-1", result.RunID)
	assert.Equal(t, ScrapeModeActive, result.Mode)
	assert.Equal(t, scrapelog.StatusSuccess, result.Status)
	assert.Equal(t, 1, result.SeasonsUpdated)
	require.Len(t, result.Seasons, 1)
	assert.Equal(t, int64(10), result.Seasons[0].SeasonID)

	matches, err := p.matches.ListBySeason(ctx, 10)
	require.NoError(t, err)

	scheduled := matchByGUID(t, matches, "g-sched")
	assert.Equal(t, int64(100), scheduled.ID)
	require.NotNil(t, scheduled.HomeScore)
	assert.Equal(t, 7, *scheduled.HomeScore, "platform score overrides locally counted sets")
	assert.Equal(t, 5, *scheduled.AwayScore)

	history := matchByGUID(t, matches, "g-hist")
	assert.True(t, history.Synthetic())
	assert.Equal(t, match.SyntheticID("g-hist"), history.ID)
	require.NotNil(t, history.Round)
	assert.Equal(t, 4, *history.Round)
	require.NotNil(t, history.HomeScore)
	assert.Equal(t, 1, *history.HomeScore)
	assert.Equal(t, 0, *history.AwayScore)

	offGrid := matchByGUID(t, matches, "g-odd")
	assert.Nil(t, offGrid.Round)
	assert.Equal(t, "Flights", offGrid.HomeTeamName)
	assert.Equal(t, "Bullseyes", offGrid.AwayTeamName)

	stats, err := p.stats.ListSeasonStats(ctx, 10, season.PhaseRegular)
	require.NoError(t, err)
	alice, ok := statByName(stats, "Alice")
	require.True(t, ok)
	assert.Equal(t, 2, alice.Wins)
	assert.Equal(t, 1, alice.Losses)
	assert.Equal(t, 2, alice.OneEighties)
	assert.Equal(t, 1, alice.Rank)
	require.NotNil(t, alice.TeamID)
	bob, ok := statByName(stats, "Bob")
	require.True(t, ok)
	assert.Equal(t, 1, bob.Wins)
	assert.Equal(t, 2, bob.Losses)

	teams, err := p.teams.ListBySeason(ctx, 10)
	require.NoError(t, err)
	require.Len(t, teams, 2)
	require.NotNil(t, teams[0].Venue)
	assert.Equal(t, "The Oche", teams[0].Venue.Name)
	require.NotNil(t, teams[0].Standing)
	assert.Equal(t, 3, teams[0].Standing.Wins)

	stored, ok, err := p.seasons.GetByID(ctx, 10)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, stored.Scraped())

	entry, ok, err := p.logs.Get(ctx, "run-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, scrapelog.StatusSuccess, entry.Status)
	assert.Equal(t, scrapelog.TriggerCLI, entry.Trigger)
	require.NotNil(t, entry.FinishedAt)
	assert.Equal(t, 1, p.provider.called("venues"))
	assert.Equal(t, 1, p.provider.called("leaderboard"))
}

func TestScrapeService_Run_MissingRecapIsIsolated(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	p := newPipeline(leagueFixture())

	result, err := p.service.Run(ctx, ScrapeInput{})
	require.NoError(t, err)
	assert.Equal(t, scrapelog.StatusSuccess, result.Status)
	require.Len(t, result.Seasons[0].Phases, 1)
	assert.Equal(t, 1, result.Seasons[0].Phases[0].RecapFailures)

	failures, ok := result.Diagnostics["failures"].([]any)
	require.True(t, ok)
	kinds := make(map[string]string, len(failures))
	for _, raw := range failures {
		row := raw.(map[string]any)
		kinds[row["key"].(string)] = row["kind"].(string)
	}
	assert.Equal(t, "recap", kinds["g-missing"])
	assert.Equal(t, "match_score", kinds["g-hist"])

	matches, err := p.matches.ListBySeason(ctx, 10)
	require.NoError(t, err)
	missing := matchByGUID(t, matches, "g-missing")
	assert.Nil(t, missing.HomeScore, "a match without a recap keeps an empty score")
}

func TestScrapeService_Run_Idempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	p := newPipeline(leagueFixture())

	_, err := p.service.Run(ctx, ScrapeInput{})
	require.NoError(t, err)
	firstMatches, err := p.matches.ListBySeason(ctx, 10)
	require.NoError(t, err)
	firstStats, err := p.stats.ListSeasonStats(ctx, 10, season.PhaseRegular)
	require.NoError(t, err)
	firstWeeks, err := p.stats.ListWeekStats(ctx, 10, season.PhaseRegular)
	require.NoError(t, err)

	_, err = p.service.Run(ctx, ScrapeInput{})
	require.NoError(t, err)
	secondMatches, err := p.matches.ListBySeason(ctx, 10)
	require.NoError(t, err)
	secondStats, err := p.stats.ListSeasonStats(ctx, 10, season.PhaseRegular)
	require.NoError(t, err)
	secondWeeks, err := p.stats.ListWeekStats(ctx, 10, season.PhaseRegular)
	require.NoError(t, err)

	assert.Equal(t, firstMatches, secondMatches)
	assert.Equal(t, firstStats, secondStats)
	assert.Equal(t, firstWeeks, secondWeeks)
}

func TestScrapeService_Run_ScheduleAdoptsSyntheticMatch(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	provider := leagueFixture()
	p := newPipeline(provider)

	_, err := p.service.Run(ctx, ScrapeInput{})
	require.NoError(t, err)

	fixture := provider.bySeason[10]
	fixture.schedule = append(fixture.schedule, ExternalScheduledMatch{
		ExternalID: 98, Round: intPtr(4), Division: "A",
		HomeTeamID: 1, AwayTeamID: 2, HomeTeamName: "Bullseyes", AwayTeamName: "Flights",
		Date: day("2026-09-17"), Status: match.StatusCompleted, RecapGUID: "g-hist", Phase: season.PhaseRegular,
	})
	provider.bySeason[10] = fixture

	_, err = p.service.Run(ctx, ScrapeInput{})
	require.NoError(t, err)

	matches, err := p.matches.ListBySeason(ctx, 10)
	require.NoError(t, err)
	count := 0
	for _, item := range matches {
		if item.RecapGUID == "g-hist" {
			count++
			assert.Equal(t, int64(98), item.ID)
		}
	}
	assert.Equal(t, 1, count)
}

func TestScrapeService_Run_Modes(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("unknown season is fatal", func(t *testing.T) {
		t.Parallel()
		p := newPipeline(leagueFixture())
		result, err := p.service.Run(ctx, ScrapeInput{SeasonID: 77})
		require.ErrorIs(t, err, ErrNotFound)
		assert.Equal(t, scrapelog.StatusError, result.Status)

		entry, ok, err := p.logs.Latest(ctx)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, scrapelog.StatusError, entry.Status)
		assert.NotEmpty(t, entry.ErrorText)
	})

	t.Run("single season", func(t *testing.T) {
		t.Parallel()
		p := newPipeline(leagueFixture())
		result, err := p.service.Run(ctx, ScrapeInput{SeasonID: 9})
		require.NoError(t, err)
		require.Len(t, result.Seasons, 1)
		assert.Equal(t, int64(9), result.Seasons[0].SeasonID)
		assert.Equal(t, 0, p.provider.called("venues"), "venues only apply to active seasons")
	})

	t.Run("unscraped then forced", func(t *testing.T) {
		t.Parallel()
		p := newPipeline(leagueFixture())

		result, err := p.service.Run(ctx, ScrapeInput{All: true})
		require.NoError(t, err)
		assert.Equal(t, ScrapeModeUnscraped, result.Mode)
		assert.Len(t, result.Seasons, 2)

		result, err = p.service.Run(ctx, ScrapeInput{All: true})
		require.NoError(t, err)
		require.Len(t, result.Seasons, 1, "only the active season reruns")
		assert.Equal(t, int64(10), result.Seasons[0].SeasonID)

		result, err = p.service.Run(ctx, ScrapeInput{All: true, Force: true})
		require.NoError(t, err)
		assert.Equal(t, ScrapeModeForceAll, result.Mode)
		assert.Len(t, result.Seasons, 2)
	})

	t.Run("no seasons", func(t *testing.T) {
		t.Parallel()
		p := newPipeline(&fakeProvider{})
		_, err := p.service.Run(ctx, ScrapeInput{})
		require.ErrorIs(t, err, ErrNoSeasons)
	})
}

func TestScrapeService_Run_SeasonFailureIsIsolated(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	provider := leagueFixture()
	broken := provider.bySeason[9]
	broken.standingsErr = errFakeUnavailable
	provider.bySeason[9] = broken
	p := newPipeline(provider)

	result, err := p.service.Run(ctx, ScrapeInput{All: true, Force: true})
	require.NoError(t, err)
	assert.Equal(t, scrapelog.StatusPartial, result.Status)
	assert.Equal(t, 1, result.SeasonsUpdated)

	byID := make(map[int64]SeasonOutcome, len(result.Seasons))
	for _, item := range result.Seasons {
		byID[item.SeasonID] = item
	}
	assert.Equal(t, seasonStatusError, byID[9].Status)
	assert.Contains(t, byID[9].Error, errFakeUnavailable.Error())
	assert.Equal(t, seasonStatusSuccess, byID[10].Status)

	stored, ok, err := p.seasons.GetByID(ctx, 9)
	require.NoError(t, err)
	require.True(t, ok)
	assert.False(t, stored.Scraped())

	stats, err := p.stats.ListSeasonStats(ctx, 10, season.PhaseRegular)
	require.NoError(t, err)
	assert.NotEmpty(t, stats)
}

func TestScrapeService_Run_PostPhase(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	provider := leagueFixture()
	fixture := provider.bySeason[10]
	fixture.histories[2] = []ExternalHistoryEntry{
		{RecapGUID: "g-final", Date: day("2026-10-15"), Opponent: "Bullseyes", Side: recap.SideHome, Phase: season.PhasePost},
	}
	provider.bySeason[10] = fixture
	provider.segments["g-final"] = []recap.Set{x01Set("Bob", "Alice", recap.SideHome, "100")}
	p := newPipeline(provider)

	result, err := p.service.Run(ctx, ScrapeInput{})
	require.NoError(t, err)
	require.Len(t, result.Seasons[0].Phases, 2)
	assert.Equal(t, season.PhasePost, result.Seasons[0].Phases[1].Phase)

	matches, err := p.matches.ListBySeason(ctx, 10)
	require.NoError(t, err)
	final := matchByGUID(t, matches, "g-final")
	assert.Equal(t, season.PhasePost, final.Phase)
	assert.Equal(t, "Flights", final.HomeTeamName)

	regular, err := p.stats.ListWeekStats(ctx, 10, season.PhaseRegular)
	require.NoError(t, err)
	for _, item := range regular {
		assert.NotEqual(t, "2026-10-15", item.WeekKey, "postseason weeks stay out of the regular pass")
	}
	assert.Equal(t, 1, provider.called("leaderboard"), "the leaderboard only feeds the regular pass")
}
