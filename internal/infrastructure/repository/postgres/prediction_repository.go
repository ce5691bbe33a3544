package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Marvel4tech/greenbal/internal/domain/prediction"
	qb "github.com/Marvel4tech/greenbal/internal/platform/querybuilder"
)

type PredictionRepository struct {
	db *sqlx.DB
}

func NewPredictionRepository(db *sqlx.DB) *PredictionRepository {
	return &PredictionRepository{db: db}
}

// Create relies on the unique (user_id, match_id) index to reject a second
// pick, so racing submissions resolve in the database instead of the app.
func (r *PredictionRepository) Create(ctx context.Context, item prediction.Prediction) (prediction.Prediction, error) {
	model := predictionInsertModel{
		ID:        item.ID,
		UserID:    item.UserID,
		MatchID:   item.MatchID,
		Pick:      item.Pick,
		CreatedAt: item.CreatedAt.UTC(),
	}
	query, args, err := qb.InsertModel("predictions", model, "")
	if err != nil {
		return prediction.Prediction{}, fmt.Errorf("build insert prediction query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return prediction.Prediction{}, prediction.ErrDuplicate
		}
		return prediction.Prediction{}, fmt.Errorf("insert prediction: %w", err)
	}

	return item, nil
}

func (r *PredictionRepository) ListByMatch(ctx context.Context, matchID string) ([]prediction.Prediction, error) {
	query, args, err := qb.Select("*").From("predictions").
		Where(qb.Eq("match_id", matchID)).
		OrderBy("created_at DESC", "id DESC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list predictions by match query: %w", err)
	}

	var rows []predictionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list predictions by match: %w", err)
	}

	out := make([]prediction.Prediction, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *PredictionRepository) ListByUser(ctx context.Context, userID string, matchIDs []string) ([]prediction.Prediction, error) {
	conditions := []qb.Condition{qb.Eq("user_id", userID)}
	if len(matchIDs) > 0 {
		values := make([]any, 0, len(matchIDs))
		for _, id := range matchIDs {
			values = append(values, id)
		}
		conditions = append(conditions, qb.In("match_id", values))
	}

	query, args, err := qb.Select("*").From("predictions").
		Where(conditions...).
		OrderBy("created_at DESC", "id DESC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list predictions by user query: %w", err)
	}

	var rows []predictionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list predictions by user: %w", err)
	}

	out := make([]prediction.Prediction, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *PredictionRepository) ExistsForUserMatch(ctx context.Context, userID, matchID string) (bool, error) {
	query, args, err := qb.Select("COUNT(*)").From("predictions").
		Where(
			qb.Eq("user_id", userID),
			qb.Eq("match_id", matchID),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build prediction exists query: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return false, fmt.Errorf("check prediction exists: %w", err)
	}

	return count > 0, nil
}

func (r *PredictionRepository) UpdateScore(ctx context.Context, id string, points int, scoredAt time.Time) error {
	query, args, err := qb.Update("predictions").
		Set("points", points).
		Set("scored_at", scoredAt.UTC()).
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update prediction score query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update prediction score: %w", err)
	}

	return nil
}
