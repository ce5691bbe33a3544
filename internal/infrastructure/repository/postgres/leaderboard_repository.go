package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Marvel4tech/greenbal/internal/domain/leaderboard"
	qb "github.com/Marvel4tech/greenbal/internal/platform/querybuilder"
)

// rankOrder is the board ordering shared by top pages and rank counting.
var rankOrder = []string{
	"points_total DESC",
	"correct_total DESC",
	"predictions_total DESC",
	"updated_at ASC",
}

// aheadExpr matches rows that order strictly before the given counters.
// Rows equal on every column do not match, so full ties share a rank.
const aheadExpr = `(points_total > ?
		OR (points_total = ? AND correct_total > ?)
		OR (points_total = ? AND correct_total = ? AND predictions_total > ?)
		OR (points_total = ? AND correct_total = ? AND predictions_total = ? AND updated_at < ?))`

type LeaderboardRepository struct {
	db *sqlx.DB
}

func NewLeaderboardRepository(db *sqlx.DB) *LeaderboardRepository {
	return &LeaderboardRepository{db: db}
}

// ApplyDelta upserts the user's all-time row in one statement. The
// increment happens inside the database so concurrent scoring runs never
// lose each other's contributions.
func (r *LeaderboardRepository) ApplyDelta(ctx context.Context, userID string, delta leaderboard.Delta, at time.Time) error {
	model := leaderboardInsertModel{
		UserID:           userID,
		PointsTotal:      delta.Points,
		CorrectTotal:     delta.Correct,
		PredictionsTotal: delta.Predictions,
		UpdatedAt:        at.UTC(),
	}
	query, args, err := qb.InsertModel("leaderboard_all_time", model, `ON CONFLICT (user_id) DO UPDATE SET
		points_total = leaderboard_all_time.points_total + EXCLUDED.points_total,
		correct_total = leaderboard_all_time.correct_total + EXCLUDED.correct_total,
		predictions_total = leaderboard_all_time.predictions_total + EXCLUDED.predictions_total,
		updated_at = EXCLUDED.updated_at`)
	if err != nil {
		return fmt.Errorf("build apply all-time delta query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("apply all-time delta: %w", err)
	}

	return nil
}

// ApplyWeeklyDelta goes through the leaderboard_weekly_apply_delta function
// so the increment and the week bucketing live with the schema.
func (r *LeaderboardRepository) ApplyWeeklyDelta(ctx context.Context, userID string, weekStart time.Time, delta leaderboard.Delta, at time.Time) error {
	const query = `SELECT leaderboard_weekly_apply_delta($1, $2, $3, $4, $5, $6)`
	if _, err := r.db.ExecContext(ctx, query,
		userID, weekStart.UTC(), delta.Points, delta.Correct, delta.Predictions, at.UTC(),
	); err != nil {
		return fmt.Errorf("apply weekly delta: %w", err)
	}

	return nil
}

func (r *LeaderboardRepository) TopAllTime(ctx context.Context, limit int) ([]leaderboard.Aggregate, error) {
	query, args, err := qb.Select("*").From("leaderboard_all_time").
		OrderBy(rankOrder...).
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build top all-time query: %w", err)
	}

	var rows []leaderboardTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select top all-time: %w", err)
	}

	out := make([]leaderboard.Aggregate, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *LeaderboardRepository) TopWeekly(ctx context.Context, weekStart time.Time, limit int) ([]leaderboard.WeeklyAggregate, error) {
	query, args, err := qb.Select("*").From("leaderboard_weekly").
		Where(qb.Eq("week_start", weekStart.UTC())).
		OrderBy(rankOrder...).
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build top weekly query: %w", err)
	}

	var rows []leaderboardWeeklyTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select top weekly: %w", err)
	}

	out := make([]leaderboard.WeeklyAggregate, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *LeaderboardRepository) GetAllTime(ctx context.Context, userID string) (leaderboard.Aggregate, bool, error) {
	query, args, err := qb.Select("*").From("leaderboard_all_time").
		Where(qb.Eq("user_id", userID)).
		ToSQL()
	if err != nil {
		return leaderboard.Aggregate{}, false, fmt.Errorf("build get all-time row query: %w", err)
	}

	var row leaderboardTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return leaderboard.Aggregate{}, false, nil
		}
		return leaderboard.Aggregate{}, false, fmt.Errorf("get all-time row: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *LeaderboardRepository) GetWeekly(ctx context.Context, userID string, weekStart time.Time) (leaderboard.WeeklyAggregate, bool, error) {
	query, args, err := qb.Select("*").From("leaderboard_weekly").
		Where(
			qb.Eq("user_id", userID),
			qb.Eq("week_start", weekStart.UTC()),
		).
		ToSQL()
	if err != nil {
		return leaderboard.WeeklyAggregate{}, false, fmt.Errorf("build get weekly row query: %w", err)
	}

	var row leaderboardWeeklyTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return leaderboard.WeeklyAggregate{}, false, nil
		}
		return leaderboard.WeeklyAggregate{}, false, fmt.Errorf("get weekly row: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *LeaderboardRepository) CountAheadAllTime(ctx context.Context, row leaderboard.Aggregate) (int, error) {
	query, args, err := qb.Select("COUNT(*)").From("leaderboard_all_time").
		Where(aheadCondition(row)).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count ahead all-time query: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count ahead all-time: %w", err)
	}

	return count, nil
}

func (r *LeaderboardRepository) CountAheadWeekly(ctx context.Context, row leaderboard.WeeklyAggregate) (int, error) {
	query, args, err := qb.Select("COUNT(*)").From("leaderboard_weekly").
		Where(
			qb.Eq("week_start", row.WeekStart.UTC()),
			aheadCondition(row.Aggregate),
		).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count ahead weekly query: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count ahead weekly: %w", err)
	}

	return count, nil
}

// WeekStart evaluates week_start_tuesday in the database so every process
// resolves the same bucket for a given instant.
func (r *LeaderboardRepository) WeekStart(ctx context.Context, ts time.Time) (time.Time, error) {
	const query = `SELECT week_start_tuesday($1)`

	var weekStart time.Time
	if err := r.db.GetContext(ctx, &weekStart, query, ts.UTC()); err != nil {
		return time.Time{}, fmt.Errorf("resolve week start: %w", err)
	}

	return weekStart.UTC(), nil
}

func aheadCondition(row leaderboard.Aggregate) qb.Condition {
	return qb.Expr(aheadExpr,
		row.PointsTotal,
		row.PointsTotal, row.CorrectTotal,
		row.PointsTotal, row.CorrectTotal, row.PredictionsTotal,
		row.PointsTotal, row.CorrectTotal, row.PredictionsTotal, row.UpdatedAt.UTC(),
	)
}
