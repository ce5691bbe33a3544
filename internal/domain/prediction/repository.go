package prediction

import (
	"context"
	"errors"
	"time"
)

// ErrDuplicate reports a second submission for the same (user, match) pair.
var ErrDuplicate = errors.New("prediction already exists for user and match")

// Repository exposes prediction persistence operations.
//
// Create must enforce the (user, match) uniqueness invariant at the storage
// layer and report violations as ErrDuplicate so racing submissions cannot
// both land.
type Repository interface {
	Create(ctx context.Context, item Prediction) (Prediction, error)
	ListByMatch(ctx context.Context, matchID string) ([]Prediction, error)
	ListByUser(ctx context.Context, userID string, matchIDs []string) ([]Prediction, error)
	ExistsForUserMatch(ctx context.Context, userID, matchID string) (bool, error)
	UpdateScore(ctx context.Context, id string, points int, scoredAt time.Time) error
}
