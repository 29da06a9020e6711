package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/riskibarqy/dart-league-stats/internal/domain/player"
)

type seasonPlayerKey struct {
	seasonID int64
	playerID int64
}

type PlayerRepository struct {
	mu          sync.RWMutex
	nextID      int64
	byName      map[string]player.Player
	seasonTeams map[seasonPlayerKey]player.SeasonTeam
}

func NewPlayerRepository() *PlayerRepository {
	return &PlayerRepository{
		byName:      make(map[string]player.Player),
		seasonTeams: make(map[seasonPlayerKey]player.SeasonTeam),
	}
}

func (r *PlayerRepository) UpsertByName(_ context.Context, name, guid string) (player.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name = strings.TrimSpace(name)
	guid = strings.TrimSpace(guid)
	item, ok := r.byName[name]
	if !ok {
		r.nextID++
		item = player.Player{ID: r.nextID, Name: name}
	}
	if guid != "" {
		item.GUID = guid
	}
	r.byName[name] = item
	return item, nil
}

func (r *PlayerRepository) ListByNames(_ context.Context, names []string) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]player.Player, 0, len(names))
	for _, name := range names {
		if item, ok := r.byName[strings.TrimSpace(name)]; ok {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *PlayerRepository) UpsertSeasonTeam(_ context.Context, item player.SeasonTeam) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seasonTeams[seasonPlayerKey{seasonID: item.SeasonID, playerID: item.PlayerID}] = item
	return nil
}

func (r *PlayerRepository) ListSeasonTeams(_ context.Context, seasonID int64) ([]player.SeasonTeam, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]player.SeasonTeam, 0, 32)
	for key, item := range r.seasonTeams {
		if key.seasonID == seasonID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlayerID < out[j].PlayerID })
	return out, nil
}
