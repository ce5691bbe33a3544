package leaderboard

import "time"

const (
	KindAllTime = "all_time"
	KindWeekly  = "weekly"
)

// Aggregate is one user's running all-time totals. Rows are created lazily
// on first contribution and only ever mutated through Delta application.
type Aggregate struct {
	UserID           string
	Username         string
	PointsTotal      int
	CorrectTotal     int
	PredictionsTotal int
	UpdatedAt        time.Time
}

// WeeklyAggregate is an Aggregate scoped to one Tuesday-anchored UTC week.
type WeeklyAggregate struct {
	Aggregate
	WeekStart time.Time
}

// Delta is a signed contribution applied atomically to an aggregate row.
type Delta struct {
	Points      int
	Correct     int
	Predictions int
}

// IsZero reports whether applying the delta would change nothing.
func (d Delta) IsZero() bool {
	return d.Points == 0 && d.Correct == 0 && d.Predictions == 0
}

func (d Delta) Add(other Delta) Delta {
	return Delta{
		Points:      d.Points + other.Points,
		Correct:     d.Correct + other.Correct,
		Predictions: d.Predictions + other.Predictions,
	}
}

// Less orders aggregates for ranking: points descending, then correct count,
// then predictions made, then earliest update. Earlier position means a
// better rank.
func Less(a, b Aggregate) bool {
	if a.PointsTotal != b.PointsTotal {
		return a.PointsTotal > b.PointsTotal
	}
	if a.CorrectTotal != b.CorrectTotal {
		return a.CorrectTotal > b.CorrectTotal
	}
	if a.PredictionsTotal != b.PredictionsTotal {
		return a.PredictionsTotal > b.PredictionsTotal
	}
	return a.UpdatedAt.Before(b.UpdatedAt)
}
