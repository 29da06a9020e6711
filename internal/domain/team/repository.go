package team

import "context"

type Repository interface {
	// Upsert keeps existing venue/standing values when the incoming ones are nil.
	Upsert(ctx context.Context, item Team) (Team, error)
	ListBySeason(ctx context.Context, seasonID int64) ([]Team, error)
}
