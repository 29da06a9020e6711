package scoringconfig

import "context"

type Repository interface {
	ListByScopes(ctx context.Context, scopes []string) ([]Entry, error)
	Upsert(ctx context.Context, entry Entry) error
}
