package season

import "time"

type Phase string

const (
	PhaseRegular Phase = "REGULAR"
	PhasePost    Phase = "POST"
)

func (p Phase) Valid() bool {
	return p == PhaseRegular || p == PhasePost
}

// Season is keyed by the platform's numeric season id.
type Season struct {
	ID            int64
	Name          string
	StartDate     *time.Time
	Active        bool
	LastScrapedAt *time.Time
}

func (s Season) Scraped() bool {
	return s.LastScrapedAt != nil && !s.LastScrapedAt.IsZero()
}
