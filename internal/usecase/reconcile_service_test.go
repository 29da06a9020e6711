package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/riskibarqy/dart-league-stats/internal/domain/recap"
	"github.com/riskibarqy/dart-league-stats/internal/domain/team"
	"github.com/riskibarqy/dart-league-stats/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/dart-league-stats/internal/platform/logging"
	"github.com/riskibarqy/dart-league-stats/internal/platform/resilience"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveScore(t *testing.T) {
	t.Parallel()

	home, away, ok := ResolveScore(ScoreUpdate{
		Authoritative: &recap.Score{Home: 8, Away: 4},
		LocalHome:     6, LocalAway: 4, HasLocal: true,
	})
	require.True(t, ok)
	assert.Equal(t, [2]int{8, 4}, [2]int{home, away}, "forfeited sets only show in the platform score")

	home, away, ok = ResolveScore(ScoreUpdate{LocalHome: 6, LocalAway: 4, HasLocal: true})
	require.True(t, ok)
	assert.Equal(t, [2]int{6, 4}, [2]int{home, away})

	_, _, ok = ResolveScore(ScoreUpdate{})
	assert.False(t, ok)
}

func TestLocalScore_SkipsUndecidedSets(t *testing.T) {
	t.Parallel()

	undecided := recap.Set{Legs: []recap.Leg{{Winner: recap.SideHome}, {Winner: recap.SideAway}}}
	home, away, ok := LocalScore([]recap.Set{
		x01Set("Alice", "Bob", recap.SideHome, "60"),
		x01Set("Alice", "Bob", recap.SideAway, "60"),
		x01Set("Alice", "Bob", recap.SideAway, "60"),
		undecided,
	})
	require.True(t, ok)
	assert.Equal(t, 1, home)
	assert.Equal(t, 2, away)

	_, _, ok = LocalScore([]recap.Set{undecided})
	assert.False(t, ok)
}

func TestReconcileService_SyncTeamsKeepsVenueWhenUnscraped(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	teams := memory.NewTeamRepository()
	svc := NewReconcileService(ReconcileRepositories{
		Divisions: memory.NewDivisionRepository(),
		Teams:     teams,
	}, logging.NewNop())

	standings := []ExternalTeam{{ExternalID: 4, Name: "Triple  Tops", Division: "c"}}
	schedule := []ExternalScheduledMatch{{HomeTeamID: 4, HomeTeamName: "Triple Tops", AwayTeamID: 5, AwayTeamName: "Shanghai", Division: "C"}}

	view, err := svc.SyncTeams(ctx, 3, standings, schedule, map[string]team.Venue{
		"triple tops": {Name: "Corner Pub"},
	})
	require.NoError(t, err)
	require.Len(t, view.List(), 2)

	found, ok := view.ByName("triple tops")
	require.True(t, ok)
	assert.Equal(t, "c", view.DivisionName(found))
	away, ok := view.ByExternalID(5)
	require.True(t, ok)
	assert.Equal(t, found.DivisionID, away.DivisionID, "division names match case-insensitively")

	_, err = svc.SyncTeams(ctx, 3, standings, nil, nil)
	require.NoError(t, err)
	stored, err := teams.ListBySeason(ctx, 3)
	require.NoError(t, err)
	require.NotNil(t, stored[0].Venue)
	assert.Equal(t, "Corner Pub", stored[0].Venue.Name)
}

func TestDiagnostics_RecordBatch(t *testing.T) {
	t.Parallel()

	diag := NewDiagnostics()
	RecordBatch(diag, 10, "recap", resilience.Settled[int]{Outcomes: []resilience.Outcome[int]{
		{Key: "g-2", Err: errors.New("timeout")},
		{Key: "g-1", Value: 1},
		{Key: "g-0", Err: errors.New("bad shape")},
	}})
	diag.Note("venues", 0)

	assert.Equal(t, 2, diag.FailureCount())
	failures := diag.Failures()
	assert.Equal(t, "g-0", failures[0].Key)

	rendered := diag.Map()
	batches := rendered["batches"].(map[string]any)
	assert.Equal(t, map[string]any{"succeeded": 1, "failed": 2}, batches["recap"])
	assert.Equal(t, 0, rendered["venues"])
}
