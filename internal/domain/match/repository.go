package match

import "context"

type Repository interface {
	// UpsertScheduled is keyed by the external id and adopts any synthetic row
	// previously stored for the same recap GUID.
	UpsertScheduled(ctx context.Context, item Match) error
	// UpsertDiscovered is keyed by recap GUID and never overwrites a known
	// round, schedule teams or a scheduled date with empty values.
	UpsertDiscovered(ctx context.Context, item Match) error
	UpdateScore(ctx context.Context, recapGUID string, home, away int) error
	ListBySeason(ctx context.Context, seasonID int64) ([]Match, error)
}
