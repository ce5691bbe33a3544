package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Marvel4tech/greenbal/internal/domain/prediction"
)

type PredictionRepository struct {
	mu     sync.RWMutex
	items  map[string]prediction.Prediction
	byPair map[string]string
}

func NewPredictionRepository() *PredictionRepository {
	return &PredictionRepository{
		items:  make(map[string]prediction.Prediction),
		byPair: make(map[string]string),
	}
}

func pairKey(userID, matchID string) string {
	return userID + "|" + matchID
}

func (r *PredictionRepository) Create(_ context.Context, item prediction.Prediction) (prediction.Prediction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := pairKey(item.UserID, item.MatchID)
	if _, exists := r.byPair[key]; exists {
		return prediction.Prediction{}, prediction.ErrDuplicate
	}

	r.items[item.ID] = item
	r.byPair[key] = item.ID

	return item, nil
}

func (r *PredictionRepository) ListByMatch(_ context.Context, matchID string) ([]prediction.Prediction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]prediction.Prediction, 0)
	for _, p := range r.items {
		if p.MatchID == matchID {
			out = append(out, p)
		}
	}
	sortPredictions(out)

	return out, nil
}

func (r *PredictionRepository) ListByUser(_ context.Context, userID string, matchIDs []string) ([]prediction.Prediction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var filter map[string]struct{}
	if len(matchIDs) > 0 {
		filter = make(map[string]struct{}, len(matchIDs))
		for _, id := range matchIDs {
			filter[id] = struct{}{}
		}
	}

	out := make([]prediction.Prediction, 0)
	for _, p := range r.items {
		if p.UserID != userID {
			continue
		}
		if filter != nil {
			if _, ok := filter[p.MatchID]; !ok {
				continue
			}
		}
		out = append(out, p)
	}
	sortPredictions(out)

	return out, nil
}

func (r *PredictionRepository) ExistsForUserMatch(_ context.Context, userID, matchID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.byPair[pairKey(userID, matchID)]

	return ok, nil
}

func (r *PredictionRepository) UpdateScore(_ context.Context, id string, points int, scoredAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.items[id]
	if !ok {
		return nil
	}
	p.Points = &points
	p.ScoredAt = &scoredAt
	r.items[id] = p

	return nil
}

// sortPredictions orders newest submission first, matching the SQL repos.
func sortPredictions(items []prediction.Prediction) {
	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return items[i].ID > items[j].ID
	})
}
