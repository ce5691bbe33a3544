package leaderboard

import (
	"context"
	"time"
)

// Repository exposes the two aggregate projections.
//
// ApplyDelta and ApplyWeeklyDelta must be implemented as a single atomic
// upsert-with-increment at the storage layer, never as an application-level
// read-modify-write: two matches finishing near-simultaneously may both
// touch the same user's rows.
type Repository interface {
	ApplyDelta(ctx context.Context, userID string, delta Delta, at time.Time) error
	ApplyWeeklyDelta(ctx context.Context, userID string, weekStart time.Time, delta Delta, at time.Time) error

	TopAllTime(ctx context.Context, limit int) ([]Aggregate, error)
	TopWeekly(ctx context.Context, weekStart time.Time, limit int) ([]WeeklyAggregate, error)

	GetAllTime(ctx context.Context, userID string) (Aggregate, bool, error)
	GetWeekly(ctx context.Context, userID string, weekStart time.Time) (WeeklyAggregate, bool, error)

	CountAheadAllTime(ctx context.Context, row Aggregate) (int, error)
	CountAheadWeekly(ctx context.Context, row WeeklyAggregate) (int, error)

	// WeekStart evaluates the Tuesday week-bucket function inside the store
	// so every process agrees on bucket assignment regardless of clock skew.
	WeekStart(ctx context.Context, ts time.Time) (time.Time, error)
}
