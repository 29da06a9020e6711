package player

import "context"

type Repository interface {
	// UpsertByName updates GUID only when guid is non-empty.
	UpsertByName(ctx context.Context, name, guid string) (Player, error)
	ListByNames(ctx context.Context, names []string) ([]Player, error)
	UpsertSeasonTeam(ctx context.Context, item SeasonTeam) error
	ListSeasonTeams(ctx context.Context, seasonID int64) ([]SeasonTeam, error)
}
