package division

import "context"

type Repository interface {
	// Ensure returns the division for (seasonID, name), creating it when missing.
	Ensure(ctx context.Context, seasonID int64, name string) (Division, error)
	ListBySeason(ctx context.Context, seasonID int64) ([]Division, error)
}
