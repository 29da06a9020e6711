package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/dart-league-stats/internal/domain/division"
	"github.com/riskibarqy/dart-league-stats/internal/domain/team"
)

type teamKey struct {
	seasonID   int64
	externalID int64
}

type TeamRepository struct {
	mu     sync.RWMutex
	nextID int64
	teams  map[teamKey]team.Team
}

func NewTeamRepository() *TeamRepository {
	return &TeamRepository{teams: make(map[teamKey]team.Team)}
}

func (r *TeamRepository) Upsert(_ context.Context, item team.Team) (team.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := teamKey{seasonID: item.SeasonID, externalID: item.ExternalID}
	if existing, ok := r.teams[key]; ok {
		item.ID = existing.ID
		if item.Venue == nil {
			item.Venue = existing.Venue
		}
		if item.Standing == nil {
			item.Standing = existing.Standing
		}
		if item.DivisionID == nil {
			item.DivisionID = existing.DivisionID
		}
		if item.Captain == "" {
			item.Captain = existing.Captain
		}
	} else {
		r.nextID++
		item.ID = r.nextID
	}
	r.teams[key] = item
	return item, nil
}

func (r *TeamRepository) ListBySeason(_ context.Context, seasonID int64) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]team.Team, 0, 16)
	for key, item := range r.teams {
		if key.seasonID == seasonID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExternalID < out[j].ExternalID })
	return out, nil
}

type DivisionRepository struct {
	mu        sync.RWMutex
	nextID    int64
	divisions []division.Division
}

func NewDivisionRepository() *DivisionRepository {
	return &DivisionRepository{}
}

func (r *DivisionRepository) Ensure(_ context.Context, seasonID int64, name string) (division.Division, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range r.divisions {
		if item.SeasonID == seasonID && item.Name == name {
			return item, nil
		}
	}
	r.nextID++
	item := division.Division{ID: r.nextID, SeasonID: seasonID, Name: name}
	r.divisions = append(r.divisions, item)
	return item, nil
}

func (r *DivisionRepository) ListBySeason(_ context.Context, seasonID int64) ([]division.Division, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]division.Division, 0, 4)
	for _, item := range r.divisions {
		if item.SeasonID == seasonID {
			out = append(out, item)
		}
	}
	return out, nil
}
