package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Marvel4tech/greenbal/internal/domain/leaderboard"
	"github.com/Marvel4tech/greenbal/internal/domain/match"
	"github.com/Marvel4tech/greenbal/internal/domain/prediction"
	"github.com/Marvel4tech/greenbal/internal/domain/profile"
	"github.com/Marvel4tech/greenbal/internal/platform/id"
)

// PredictionService handles pick submission and the user's own history.
type PredictionService struct {
	matchRepo       match.Repository
	predictionRepo  prediction.Repository
	leaderboardRepo leaderboard.Repository
	profileRepo     profile.Repository
	idGen           id.Generator
	now             func() time.Time
}

func NewPredictionService(
	matchRepo match.Repository,
	predictionRepo prediction.Repository,
	leaderboardRepo leaderboard.Repository,
	profileRepo profile.Repository,
	idGen id.Generator,
) *PredictionService {
	return &PredictionService{
		matchRepo:       matchRepo,
		predictionRepo:  predictionRepo,
		leaderboardRepo: leaderboardRepo,
		profileRepo:     profileRepo,
		idGen:           idGen,
		now:             time.Now,
	}
}

// Submit records a user's pick for a match. The submission window is
// [created, kickoff): a pick arriving at the kickoff instant is already
// late. The user's predictions_total counters move immediately on submit,
// independent of whether the pick is ever scored.
func (s *PredictionService) Submit(ctx context.Context, userID, matchID, pick string) (prediction.Prediction, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.Submit")
	defer span.End()

	if userID == "" {
		return prediction.Prediction{}, fmt.Errorf("%w: missing user id", ErrUnauthorized)
	}

	normalizedPick := match.NormalizeOutcome(pick)
	if !match.IsValidOutcome(normalizedPick) {
		return prediction.Prediction{}, fmt.Errorf("%w: pick %q is not a valid outcome", ErrInvalidInput, pick)
	}

	prof, exists, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return prediction.Prediction{}, fmt.Errorf("load profile: %w", err)
	}
	if !exists {
		return prediction.Prediction{}, fmt.Errorf("%w: profile %s", ErrNotFound, userID)
	}
	if prof.IsBanned {
		return prediction.Prediction{}, fmt.Errorf("%w: account is banned", ErrForbidden)
	}

	item, exists, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return prediction.Prediction{}, fmt.Errorf("get match: %w", err)
	}
	if !exists {
		return prediction.Prediction{}, fmt.Errorf("%w: match %s", ErrNotFound, matchID)
	}
	if item.Status == match.StatusFinished {
		return prediction.Prediction{}, fmt.Errorf("%w: match %s already finished", ErrMatchFinished, matchID)
	}

	now := s.now().UTC()
	if !now.Before(item.KickoffAt) {
		return prediction.Prediction{}, fmt.Errorf("%w: match %s kicked off at %s", ErrWindowClosed, matchID, item.KickoffAt.Format(time.RFC3339))
	}

	// Racing submissions that slip past this check are still rejected by
	// the unique (user_id, match_id) index in Create.
	alreadyPicked, err := s.predictionRepo.ExistsForUserMatch(ctx, userID, matchID)
	if err != nil {
		return prediction.Prediction{}, fmt.Errorf("check existing prediction: %w", err)
	}
	if alreadyPicked {
		return prediction.Prediction{}, fmt.Errorf("%w: user %s already picked match %s", ErrDuplicateSubmission, userID, matchID)
	}

	newID, err := s.idGen.NewID()
	if err != nil {
		return prediction.Prediction{}, fmt.Errorf("generate prediction id: %w", err)
	}

	p := prediction.Prediction{
		ID:        newID,
		UserID:    userID,
		MatchID:   matchID,
		Pick:      normalizedPick,
		CreatedAt: now,
	}
	p, err = s.predictionRepo.Create(ctx, p)
	if err != nil {
		if errors.Is(err, prediction.ErrDuplicate) {
			return prediction.Prediction{}, fmt.Errorf("%w: user %s already picked match %s", ErrDuplicateSubmission, userID, matchID)
		}
		return prediction.Prediction{}, fmt.Errorf("create prediction: %w", err)
	}

	// Participation counters bump on submit. Weekly first, then all-time,
	// mirroring the order results are read back in.
	weekStart, err := s.leaderboardRepo.WeekStart(ctx, item.KickoffAt)
	if err != nil {
		return prediction.Prediction{}, fmt.Errorf("resolve week bucket: %w", err)
	}
	delta := leaderboard.Delta{Predictions: 1}
	if err := s.leaderboardRepo.ApplyWeeklyDelta(ctx, userID, weekStart, delta, now); err != nil {
		return prediction.Prediction{}, fmt.Errorf("bump weekly predictions_total: %w", err)
	}
	if err := s.leaderboardRepo.ApplyDelta(ctx, userID, delta, now); err != nil {
		return prediction.Prediction{}, fmt.Errorf("bump all-time predictions_total: %w", err)
	}

	return p, nil
}

// ListForUser returns the user's predictions limited to the given matches;
// with no match filter it returns everything the user has ever submitted.
func (s *PredictionService) ListForUser(ctx context.Context, userID string, matchIDs []string) ([]prediction.Prediction, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.ListForUser")
	defer span.End()

	if userID == "" {
		return nil, fmt.Errorf("%w: missing user id", ErrUnauthorized)
	}
	preds, err := s.predictionRepo.ListByUser(ctx, userID, matchIDs)
	if err != nil {
		return nil, fmt.Errorf("list predictions: %w", err)
	}
	return preds, nil
}
