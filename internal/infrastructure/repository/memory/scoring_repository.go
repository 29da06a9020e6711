package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/riskibarqy/dart-league-stats/internal/domain/scoringconfig"
)

type ScoringConfigRepository struct {
	mu      sync.RWMutex
	entries []scoringconfig.Entry
}

func NewScoringConfigRepository(entries ...scoringconfig.Entry) *ScoringConfigRepository {
	return &ScoringConfigRepository{entries: append([]scoringconfig.Entry(nil), entries...)}
}

func (r *ScoringConfigRepository) ListByScopes(_ context.Context, scopes []string) ([]scoringconfig.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	wanted := make(map[string]struct{}, len(scopes))
	for _, scope := range scopes {
		wanted[strings.TrimSpace(scope)] = struct{}{}
	}
	out := make([]scoringconfig.Entry, 0, len(r.entries))
	for _, item := range r.entries {
		if _, ok := wanted[item.Scope]; ok {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *ScoringConfigRepository) Upsert(_ context.Context, entry scoringconfig.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for idx, item := range r.entries {
		if item.Scope == entry.Scope && item.Key == entry.Key && sameDivision(item.Division, entry.Division) {
			r.entries[idx] = entry
			return nil
		}
	}
	r.entries = append(r.entries, entry)
	return nil
}

func sameDivision(left, right *string) bool {
	if left == nil || right == nil {
		return left == nil && right == nil
	}
	return strings.EqualFold(strings.TrimSpace(*left), strings.TrimSpace(*right))
}
