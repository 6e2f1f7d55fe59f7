package teamstats

import "context"

type Repository interface {
	// AppendMatch stores one match; stored records are never rewritten.
	AppendMatch(ctx context.Context, runID string, record MatchRecord) error
	ExistsMatch(ctx context.Context, key Key) (bool, error)
	ListByTeam(ctx context.Context, team string) ([]TeamStatRecord, error)
}
