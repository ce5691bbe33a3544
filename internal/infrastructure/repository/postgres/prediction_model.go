package postgres

import (
	"database/sql"
	"time"

	"github.com/Marvel4tech/greenbal/internal/domain/prediction"
)

type predictionTableModel struct {
	ID        string        `db:"id"`
	UserID    string        `db:"user_id"`
	MatchID   string        `db:"match_id"`
	Pick      string        `db:"pick"`
	Points    sql.NullInt64 `db:"points"`
	ScoredAt  sql.NullTime  `db:"scored_at"`
	CreatedAt time.Time     `db:"created_at"`
}

type predictionInsertModel struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	MatchID   string    `db:"match_id"`
	Pick      string    `db:"pick"`
	CreatedAt time.Time `db:"created_at"`
}

func (m predictionTableModel) toDomain() prediction.Prediction {
	item := prediction.Prediction{
		ID:        m.ID,
		UserID:    m.UserID,
		MatchID:   m.MatchID,
		Pick:      m.Pick,
		CreatedAt: m.CreatedAt.UTC(),
	}
	if m.Points.Valid {
		points := int(m.Points.Int64)
		item.Points = &points
	}
	if m.ScoredAt.Valid {
		scoredAt := m.ScoredAt.Time.UTC()
		item.ScoredAt = &scoredAt
	}
	return item
}
