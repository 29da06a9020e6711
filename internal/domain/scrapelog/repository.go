package scrapelog

import "context"

type Repository interface {
	// Record inserts the run or moves it to its latest status.
	Record(ctx context.Context, entry Entry) error
	Get(ctx context.Context, runID string) (Entry, bool, error)
	Latest(ctx context.Context) (Entry, bool, error)
}
