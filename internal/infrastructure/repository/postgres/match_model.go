package postgres

import (
	"database/sql"
	"time"

	"github.com/Marvel4tech/greenbal/internal/domain/match"
)

type matchTableModel struct {
	ID        string         `db:"id"`
	HomeTeam  string         `db:"home_team"`
	AwayTeam  string         `db:"away_team"`
	KickoffAt time.Time      `db:"kickoff_at"`
	Status    string         `db:"status"`
	Result    sql.NullString `db:"result"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}

type matchInsertModel struct {
	ID        string         `db:"id"`
	HomeTeam  string         `db:"home_team"`
	AwayTeam  string         `db:"away_team"`
	KickoffAt time.Time      `db:"kickoff_at"`
	Status    string         `db:"status"`
	Result    sql.NullString `db:"result"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}

func (m matchTableModel) toDomain() match.Match {
	item := match.Match{
		ID:        m.ID,
		HomeTeam:  m.HomeTeam,
		AwayTeam:  m.AwayTeam,
		KickoffAt: m.KickoffAt.UTC(),
		Status:    m.Status,
		CreatedAt: m.CreatedAt.UTC(),
		UpdatedAt: m.UpdatedAt.UTC(),
	}
	if m.Result.Valid {
		result := m.Result.String
		item.Result = &result
	}
	return item
}

func nullableResult(result *string) sql.NullString {
	if result == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *result, Valid: true}
}
