package season

import (
	"context"
	"time"
)

type Repository interface {
	// Upsert writes metadata only; it never touches LastScrapedAt.
	Upsert(ctx context.Context, item Season) error
	List(ctx context.Context) ([]Season, error)
	GetByID(ctx context.Context, seasonID int64) (Season, bool, error)
	MarkScraped(ctx context.Context, seasonID int64, at time.Time) error
}
