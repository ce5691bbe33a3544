package postgres

import (
	"time"

	"github.com/Marvel4tech/greenbal/internal/domain/profile"
)

type profileTableModel struct {
	UserID    string    `db:"user_id"`
	Username  string    `db:"username"`
	Email     string    `db:"email"`
	IsBanned  bool      `db:"is_banned"`
	CreatedAt time.Time `db:"created_at"`
}

func (m profileTableModel) toDomain() profile.Profile {
	return profile.Profile{
		UserID:    m.UserID,
		Username:  m.Username,
		Email:     m.Email,
		IsBanned:  m.IsBanned,
		CreatedAt: m.CreatedAt.UTC(),
	}
}
