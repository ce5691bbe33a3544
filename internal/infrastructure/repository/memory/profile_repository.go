package memory

import (
	"context"
	"sync"

	"github.com/Marvel4tech/greenbal/internal/domain/profile"
)

type ProfileRepository struct {
	mu    sync.RWMutex
	items map[string]profile.Profile
}

func NewProfileRepository(profiles []profile.Profile) *ProfileRepository {
	items := make(map[string]profile.Profile, len(profiles))
	for _, p := range profiles {
		items[p.UserID] = p
	}

	return &ProfileRepository{items: items}
}

func (r *ProfileRepository) GetByUserID(_ context.Context, userID string) (profile.Profile, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.items[userID]
	if !ok {
		return profile.Profile{}, false, nil
	}

	return p, true, nil
}

func (r *ProfileRepository) ListByUserIDs(_ context.Context, userIDs []string) ([]profile.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]profile.Profile, 0, len(userIDs))
	for _, id := range userIDs {
		if p, ok := r.items[id]; ok {
			out = append(out, p)
		}
	}

	return out, nil
}

func (r *ProfileRepository) Upsert(_ context.Context, item profile.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[item.UserID] = item

	return nil
}
