package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/riskibarqy/dart-league-stats/internal/domain/match"
)

type MatchRepository struct {
	mu      sync.RWMutex
	matches map[int64]match.Match
}

func NewMatchRepository() *MatchRepository {
	return &MatchRepository{matches: make(map[int64]match.Match)}
}

func guidKey(guid string) string {
	return strings.ToLower(strings.TrimSpace(guid))
}

func (r *MatchRepository) findByGUID(guid string) (match.Match, bool) {
	key := guidKey(guid)
	if key == "" {
		return match.Match{}, false
	}
	for _, item := range r.matches {
		if guidKey(item.RecapGUID) == key {
			return item, true
		}
	}
	return match.Match{}, false
}

func (r *MatchRepository) UpsertScheduled(_ context.Context, item match.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if synthetic, ok := r.findByGUID(item.RecapGUID); ok && synthetic.Synthetic() {
		delete(r.matches, synthetic.ID)
		if item.HomeScore == nil {
			item.HomeScore, item.AwayScore = synthetic.HomeScore, synthetic.AwayScore
		}
	}
	if existing, ok := r.matches[item.ID]; ok {
		if item.HomeScore == nil {
			item.HomeScore, item.AwayScore = existing.HomeScore, existing.AwayScore
		}
		if item.RecapGUID == "" {
			item.RecapGUID = existing.RecapGUID
		}
	}
	r.matches[item.ID] = item
	return nil
}

func (r *MatchRepository) UpsertDiscovered(_ context.Context, item match.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.findByGUID(item.RecapGUID)
	if !ok {
		r.matches[item.ID] = item
		return nil
	}

	merged := existing
	if merged.Round == nil {
		merged.Round = item.Round
	}
	if merged.ScheduledAt == nil {
		merged.ScheduledAt = item.ScheduledAt
	}
	if merged.DateText == "" {
		merged.DateText = item.DateText
	}
	if merged.DivisionID == nil {
		merged.DivisionID = item.DivisionID
	}
	if merged.HomeTeamID == nil {
		merged.HomeTeamID = item.HomeTeamID
	}
	if merged.AwayTeamID == nil {
		merged.AwayTeamID = item.AwayTeamID
	}
	if merged.HomeTeamName == "" {
		merged.HomeTeamName = item.HomeTeamName
	}
	if merged.AwayTeamName == "" {
		merged.AwayTeamName = item.AwayTeamName
	}
	if merged.Synthetic() {
		merged.Status = item.Status
		merged.Phase = item.Phase
	}
	r.matches[merged.ID] = merged
	return nil
}

func (r *MatchRepository) UpdateScore(_ context.Context, recapGUID string, home, away int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := guidKey(recapGUID)
	for id, item := range r.matches {
		if guidKey(item.RecapGUID) != key {
			continue
		}
		h, a := home, away
		item.HomeScore, item.AwayScore = &h, &a
		r.matches[id] = item
	}
	return nil
}

func (r *MatchRepository) ListBySeason(_ context.Context, seasonID int64) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Match, 0, 64)
	for _, item := range r.matches {
		if item.SeasonID == seasonID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
