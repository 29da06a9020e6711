package app

import (
	"context"
	"sync"
	"testing"

	"github.com/riskibarqy/dart-league-stats/internal/config"
	"github.com/riskibarqy/dart-league-stats/internal/domain/scrapelog"
	"github.com/riskibarqy/dart-league-stats/internal/platform/logging"
	"github.com/riskibarqy/dart-league-stats/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingStarter struct {
	mu     sync.Mutex
	inputs []usecase.ScrapeInput
}

func (r *recordingStarter) Start(_ context.Context, input usecase.ScrapeInput) (scrapelog.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inputs = append(r.inputs, input)
	return scrapelog.Entry{RunID: "run-1", Mode: "active"}, nil
}

func TestNewScrapeScheduler_DisabledWithoutSpec(t *testing.T) {
	c, err := NewScrapeScheduler(config.Config{}, &recordingStarter{}, logging.NewNop())
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestNewScrapeScheduler_RejectsBadSpec(t *testing.T) {
	_, err := NewScrapeScheduler(config.Config{ScrapeCron: "every day", ScrapeCronTimezone: "UTC"}, &recordingStarter{}, logging.NewNop())
	require.Error(t, err)
}

func TestNewScrapeScheduler_JobTriggersCronRun(t *testing.T) {
	starter := &recordingStarter{}
	c, err := NewScrapeScheduler(config.Config{ScrapeCron: "0 6 * * *", ScrapeCronTimezone: "America/Chicago"}, starter, logging.NewNop())
	require.NoError(t, err)
	require.Len(t, c.Entries(), 1)
	assert.Equal(t, "America/Chicago", c.Location().String())

	c.Entries()[0].WrappedJob.Run()
	require.Len(t, starter.inputs, 1)
	assert.Equal(t, scrapelog.TriggerCron, starter.inputs[0].Trigger)
	assert.False(t, starter.inputs[0].All)
}
