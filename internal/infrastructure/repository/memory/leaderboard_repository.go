package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Marvel4tech/greenbal/internal/domain/leaderboard"
	"github.com/Marvel4tech/greenbal/internal/platform/temporal"
)

// LeaderboardRepository keeps both projections in maps. The single mutex
// makes every delta application atomic, matching the upsert-with-increment
// contract the SQL implementation satisfies per statement.
type LeaderboardRepository struct {
	mu      sync.RWMutex
	allTime map[string]leaderboard.Aggregate
	weekly  map[string]map[string]leaderboard.WeeklyAggregate
}

func NewLeaderboardRepository() *LeaderboardRepository {
	return &LeaderboardRepository{
		allTime: make(map[string]leaderboard.Aggregate),
		weekly:  make(map[string]map[string]leaderboard.WeeklyAggregate),
	}
}

func weekKey(weekStart time.Time) string {
	return weekStart.UTC().Format("2006-01-02")
}

func (r *LeaderboardRepository) ApplyDelta(_ context.Context, userID string, delta leaderboard.Delta, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	row, ok := r.allTime[userID]
	if !ok {
		row = leaderboard.Aggregate{UserID: userID}
	}
	row.PointsTotal += delta.Points
	row.CorrectTotal += delta.Correct
	row.PredictionsTotal += delta.Predictions
	row.UpdatedAt = at
	r.allTime[userID] = row

	return nil
}

func (r *LeaderboardRepository) ApplyWeeklyDelta(_ context.Context, userID string, weekStart time.Time, delta leaderboard.Delta, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := weekKey(weekStart)
	bucket, ok := r.weekly[key]
	if !ok {
		bucket = make(map[string]leaderboard.WeeklyAggregate)
		r.weekly[key] = bucket
	}
	row, ok := bucket[userID]
	if !ok {
		row = leaderboard.WeeklyAggregate{
			Aggregate: leaderboard.Aggregate{UserID: userID},
			WeekStart: weekStart.UTC(),
		}
	}
	row.PointsTotal += delta.Points
	row.CorrectTotal += delta.Correct
	row.PredictionsTotal += delta.Predictions
	row.UpdatedAt = at
	bucket[userID] = row

	return nil
}

func (r *LeaderboardRepository) TopAllTime(_ context.Context, limit int) ([]leaderboard.Aggregate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows := make([]leaderboard.Aggregate, 0, len(r.allTime))
	for _, row := range r.allTime {
		rows = append(rows, row)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return leaderboard.Less(rows[i], rows[j])
	})
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}

	return rows, nil
}

func (r *LeaderboardRepository) TopWeekly(_ context.Context, weekStart time.Time, limit int) ([]leaderboard.WeeklyAggregate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bucket := r.weekly[weekKey(weekStart)]
	rows := make([]leaderboard.WeeklyAggregate, 0, len(bucket))
	for _, row := range bucket {
		rows = append(rows, row)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return leaderboard.Less(rows[i].Aggregate, rows[j].Aggregate)
	})
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}

	return rows, nil
}

func (r *LeaderboardRepository) GetAllTime(_ context.Context, userID string) (leaderboard.Aggregate, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	row, ok := r.allTime[userID]

	return row, ok, nil
}

func (r *LeaderboardRepository) GetWeekly(_ context.Context, userID string, weekStart time.Time) (leaderboard.WeeklyAggregate, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	row, ok := r.weekly[weekKey(weekStart)][userID]

	return row, ok, nil
}

func (r *LeaderboardRepository) CountAheadAllTime(_ context.Context, row leaderboard.Aggregate) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, other := range r.allTime {
		if other.UserID == row.UserID {
			continue
		}
		if leaderboard.Less(other, row) {
			count++
		}
	}

	return count, nil
}

func (r *LeaderboardRepository) CountAheadWeekly(_ context.Context, row leaderboard.WeeklyAggregate) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, other := range r.weekly[weekKey(row.WeekStart)] {
		if other.UserID == row.UserID {
			continue
		}
		if leaderboard.Less(other.Aggregate, row.Aggregate) {
			count++
		}
	}

	return count, nil
}

func (r *LeaderboardRepository) WeekStart(_ context.Context, ts time.Time) (time.Time, error) {
	return temporal.WeekBucketStart(ts), nil
}
