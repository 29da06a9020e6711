package app

import (
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/dart-league-stats/internal/config"
	"github.com/riskibarqy/dart-league-stats/internal/platform/logging"
	"github.com/riskibarqy/dart-league-stats/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_RequiresRemoteSettings(t *testing.T) {
	_, err := Build(context.Background(), config.Config{}, logging.NewNop())
	require.ErrorIs(t, err, usecase.ErrInvalidInput)
}

func TestBuild_MemoryBackendServesHTTP(t *testing.T) {
	cfg := config.Config{
		HTTPAddr:            ":0",
		DartBaseURL:         "https://tv.example-darts.com",
		DartLeagueID:        "ABC123",
		ScrapeMaxWorkers:    2,
		ScrapeSeasonWorkers: 1,
		ScrapeRunTimeout:    time.Minute,
		CacheEnabled:        true,
		CacheTTL:            time.Minute,
	}
	require.True(t, cfg.ScrapeEnabled())

	container, err := Build(context.Background(), cfg, logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Close() })

	assert.NotNil(t, container.Scraper)
	assert.NotNil(t, container.Runs)
	assert.NotNil(t, container.Stats)

	srv, err := NewHTTPServer(cfg, container, logging.NewNop())
	require.NoError(t, err)
	assert.Equal(t, ":0", srv.Addr)
}
