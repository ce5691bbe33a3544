package profile

import (
	"context"
	"time"
)

// Profile is the slice of the user record this service needs: display data
// for leaderboard rows and the ban flag gating submissions.
type Profile struct {
	UserID    string
	Username  string
	Email     string
	IsBanned  bool
	CreatedAt time.Time
}

// Repository exposes profile reads. Profile management itself is owned by
// the account system; this service only consumes it.
type Repository interface {
	GetByUserID(ctx context.Context, userID string) (Profile, bool, error)
	ListByUserIDs(ctx context.Context, userIDs []string) ([]Profile, error)
}
