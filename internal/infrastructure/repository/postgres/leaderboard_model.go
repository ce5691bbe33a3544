package postgres

import (
	"time"

	"github.com/Marvel4tech/greenbal/internal/domain/leaderboard"
)

type leaderboardTableModel struct {
	UserID           string    `db:"user_id"`
	PointsTotal      int       `db:"points_total"`
	CorrectTotal     int       `db:"correct_total"`
	PredictionsTotal int       `db:"predictions_total"`
	UpdatedAt        time.Time `db:"updated_at"`
}

type leaderboardWeeklyTableModel struct {
	leaderboardTableModel
	WeekStart time.Time `db:"week_start"`
}

type leaderboardInsertModel struct {
	UserID           string    `db:"user_id"`
	PointsTotal      int       `db:"points_total"`
	CorrectTotal     int       `db:"correct_total"`
	PredictionsTotal int       `db:"predictions_total"`
	UpdatedAt        time.Time `db:"updated_at"`
}

func (m leaderboardTableModel) toDomain() leaderboard.Aggregate {
	return leaderboard.Aggregate{
		UserID:           m.UserID,
		PointsTotal:      m.PointsTotal,
		CorrectTotal:     m.CorrectTotal,
		PredictionsTotal: m.PredictionsTotal,
		UpdatedAt:        m.UpdatedAt.UTC(),
	}
}

func (m leaderboardWeeklyTableModel) toDomain() leaderboard.WeeklyAggregate {
	return leaderboard.WeeklyAggregate{
		Aggregate: m.leaderboardTableModel.toDomain(),
		WeekStart: m.WeekStart.UTC(),
	}
}
