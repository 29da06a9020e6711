package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/dart-league-stats/internal/domain/scrapelog"
	scrapelogmock "github.com/riskibarqy/dart-league-stats/internal/mocks/domain/scrapelog"
	"github.com/riskibarqy/dart-league-stats/internal/platform/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRunTracker_StartRunsDetachedFromCaller(t *testing.T) {
	t.Parallel()

	p := newPipeline(leagueFixture())
	tracker := NewRunTracker(p.service, p.logs, time.Minute, logging.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	entry, err := tracker.Start(ctx, ScrapeInput{Trigger: scrapelog.TriggerManual})
	cancel()
	require.NoError(t, err)
	assert.Equal(t, "run-1", entry.RunID)
	assert.Equal(t, scrapelog.StatusRunning, entry.Status)

	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	require.NoError(t, tracker.Shutdown(shutdownCtx))
	assert.Empty(t, tracker.Running())

	got, err := tracker.Get(context.Background(), entry.RunID)
	require.NoError(t, err)
	assert.Equal(t, scrapelog.StatusSuccess, got.Status, "a cancelled request does not cancel the run")

	latest, err := tracker.Latest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, entry.RunID, latest.RunID)
}

func TestRunTracker_StartRejectsInvalidInput(t *testing.T) {
	t.Parallel()

	p := newPipeline(leagueFixture())
	tracker := NewRunTracker(p.service, p.logs, 0, logging.NewNop())

	_, err := tracker.Start(context.Background(), ScrapeInput{SeasonID: -1})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = tracker.Latest(context.Background())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRunTracker_GetUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	logs := scrapelogmock.NewRepository(t)
	tracker := NewRunTracker(nil, logs, time.Minute, logging.NewNop())

	finished := time.Date(2026, 10, 19, 13, 0, 0, 0, time.UTC)
	logs.
		On("Get", mock.Anything, "run-7").
		Return(scrapelog.Entry{RunID: "run-7", Status: scrapelog.StatusPartial, FinishedAt: &finished}, true, nil).
		Once()
	logs.
		On("Get", mock.Anything, "run-8").
		Return(scrapelog.Entry{}, false, nil).
		Once()
	logs.
		On("Get", mock.Anything, "run-9").
		Return(scrapelog.Entry{}, false, errors.New("connection reset")).
		Once()

	got, err := tracker.Get(ctx, " run-7 ")
	require.NoError(t, err)
	assert.True(t, got.Status.Finished())

	_, err = tracker.Get(ctx, "run-8")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = tracker.Get(ctx, "run-9")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)

	_, err = tracker.Get(ctx, "  ")
	require.ErrorIs(t, err, ErrInvalidInput)
}
