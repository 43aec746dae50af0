package game

import "context"

// Repository is the relational gateway for fixture rows.
//
// UpsertBatch inserts prepared rows keyed by (match_date, home_team,
// away_team); rows already present get their mutable metric fields
// refreshed while result fields stay untouched. The whole batch runs in
// one transaction.
//
// Reconcile runs fn against a ResultStore scoped to one transaction, so
// a feed batch's probes and updates commit or roll back together.
type Repository interface {
	UpsertBatch(ctx context.Context, games []Game) (int, error)
	Reconcile(ctx context.Context, fn func(ResultStore) error) error
}

// ResultStore is the reconciler's write path: an exact update by key, a
// fuzzy candidate probe, and an update by row id once a probe is
// decisive. Implementations bind all three to the same transaction.
type ResultStore interface {
	UpdateResult(ctx context.Context, update ResultUpdate) (int64, error)
	FindCandidateIDs(ctx context.Context, matchDate, homePattern, awayPattern string) ([]int64, error)
	UpdateResultByID(ctx context.Context, id int64, update ResultUpdate) error
}
