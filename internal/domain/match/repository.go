package match

import (
	"context"
	"time"
)

// Repository exposes match persistence operations.
type Repository interface {
	GetByID(ctx context.Context, id string) (Match, bool, error)
	ListByKickoffWindow(ctx context.Context, start, end time.Time) ([]Match, error)
	ListFinishedWithResult(ctx context.Context) ([]Match, error)
	Create(ctx context.Context, item Match) (Match, error)
	Update(ctx context.Context, item Match) (Match, error)
	Delete(ctx context.Context, id string) error
}
