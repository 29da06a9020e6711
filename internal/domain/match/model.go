package match

import (
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/riskibarqy/dart-league-stats/internal/domain/season"
)

const (
	StatusScheduled = "scheduled"
	StatusCompleted = "completed"
)

// Match is keyed by the schedule feed's id, or by a synthetic negative id
// derived from RecapGUID when only the history feed knows about it.
type Match struct {
	ID           int64
	SeasonID     int64
	DivisionID   *int64
	Round        *int
	HomeTeamID   *int64
	AwayTeamID   *int64
	HomeTeamName string
	AwayTeamName string
	ScheduledAt  *time.Time
	MatchTime    string
	DateText     string
	Status       string
	HomeScore    *int
	AwayScore    *int
	RecapGUID    string
	Phase        season.Phase
}

func (m Match) Synthetic() bool {
	return m.ID < 0
}

func (m Match) Completed() bool {
	return m.Status == StatusCompleted
}

// SyntheticID derives a stable negative id from a recap GUID. Schedule ids are
// always positive, so the two never collide.
func SyntheticID(recapGUID string) int64 {
	guid := strings.ToLower(strings.TrimSpace(recapGUID))
	if guid == "" {
		return 0
	}
	return -int64(xxhash.Sum64String(guid)>>12) - 1
}
