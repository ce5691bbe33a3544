package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/Marvel4tech/greenbal/internal/domain/leaderboard"
	"github.com/Marvel4tech/greenbal/internal/domain/match"
	"github.com/Marvel4tech/greenbal/internal/domain/prediction"
	"github.com/Marvel4tech/greenbal/internal/platform/cache"
	"github.com/Marvel4tech/greenbal/internal/platform/resilience"
)

const (
	pointsExactWin  = 3
	pointsExactDraw = 1
)

// ScoringService settles predictions when a match result becomes known.
// Scoring is delta-based: every prediction's new value is compared against
// what was previously awarded and only the difference flows into the
// aggregates, so repeating a run is a no-op and correcting a result nets
// out the old contribution.
type ScoringService struct {
	matchRepo        match.Repository
	predictionRepo   prediction.Repository
	leaderboardRepo  leaderboard.Repository
	leaderboardCache *cache.Store
	now              func() time.Time
	scoreFlight      resilience.SingleFlight
}

// ScoreResult summarizes one scoring run.
type ScoreResult struct {
	ScoredCount   int
	UsersAffected int
}

func NewScoringService(
	matchRepo match.Repository,
	predictionRepo prediction.Repository,
	leaderboardRepo leaderboard.Repository,
	leaderboardCache *cache.Store,
) *ScoringService {
	return &ScoringService{
		matchRepo:        matchRepo,
		predictionRepo:   predictionRepo,
		leaderboardRepo:  leaderboardRepo,
		leaderboardCache: leaderboardCache,
		now:              time.Now,
	}
}

// PointValue is the fixed scoring rule: 3 for a correct win pick, 1 for a
// correct draw pick, 0 for any miss. Total over all guess/outcome pairs.
func PointValue(pick, outcome string) int {
	if match.NormalizeOutcome(pick) != match.NormalizeOutcome(outcome) {
		return 0
	}
	if match.NormalizeOutcome(outcome) == match.OutcomeDraw {
		return pointsExactDraw
	}
	return pointsExactWin
}

// Score settles every prediction on the match against its declared result.
// Concurrent calls for the same match collapse into one run; re-running is
// always safe.
func (s *ScoringService) Score(ctx context.Context, matchID string) (ScoreResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.Score")
	defer span.End()

	result, err, _ := s.scoreFlight.Do("score:"+matchID, func() (any, error) {
		return s.scoreOnce(ctx, matchID)
	})
	if err != nil {
		return ScoreResult{}, err
	}
	return result.(ScoreResult), nil
}

func (s *ScoringService) scoreOnce(ctx context.Context, matchID string) (ScoreResult, error) {
	item, exists, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return ScoreResult{}, fmt.Errorf("get match for scoring: %w", err)
	}
	if !exists {
		return ScoreResult{}, fmt.Errorf("%w: match %s", ErrNotFound, matchID)
	}
	if !item.ReadyToScore() {
		return ScoreResult{}, fmt.Errorf("%w: match %s must be finished with a result", ErrNotReadyToScore, matchID)
	}
	outcome := match.NormalizeOutcome(*item.Result)

	// All predictions, not only unscored ones: a corrected result must
	// revisit rows that were already awarded points.
	preds, err := s.predictionRepo.ListByMatch(ctx, matchID)
	if err != nil {
		return ScoreResult{}, fmt.Errorf("list predictions for scoring: %w", err)
	}
	if len(preds) == 0 {
		return ScoreResult{}, nil
	}

	now := s.now().UTC()

	// Phase one: persist the new point value on every prediction. This
	// completes fully before any aggregate is touched, so a crash in
	// between leaves the ledger correct and the aggregates repairable by
	// re-running Score (at which point all deltas are zero).
	deltaByUser := make(map[string]leaderboard.Delta)
	for _, p := range preds {
		newPoints := PointValue(p.Pick, outcome)
		previous := p.CurrentPoints()

		if err := s.predictionRepo.UpdateScore(ctx, p.ID, newPoints, now); err != nil {
			return ScoreResult{}, fmt.Errorf("update prediction score id=%s: %w", p.ID, err)
		}

		// A user holds one prediction per match by invariant, but summing
		// keeps the math right regardless.
		deltaByUser[p.UserID] = deltaByUser[p.UserID].Add(leaderboard.Delta{
			Points:  newPoints - previous,
			Correct: boolToInt(newPoints > 0) - boolToInt(previous > 0),
		})
	}

	weekStart, err := s.leaderboardRepo.WeekStart(ctx, item.KickoffAt)
	if err != nil {
		return ScoreResult{}, fmt.Errorf("resolve week bucket for match %s: %w", matchID, err)
	}

	userIDs := make([]string, 0, len(deltaByUser))
	for userID := range deltaByUser {
		userIDs = append(userIDs, userID)
	}
	sort.Strings(userIDs)

	usersAffected := 0
	for _, userID := range userIDs {
		delta := deltaByUser[userID]
		if delta.IsZero() {
			continue
		}
		if err := s.leaderboardRepo.ApplyDelta(ctx, userID, delta, now); err != nil {
			return ScoreResult{}, fmt.Errorf("apply all-time delta user=%s: %w", userID, err)
		}
		if err := s.leaderboardRepo.ApplyWeeklyDelta(ctx, userID, weekStart, delta, now); err != nil {
			return ScoreResult{}, fmt.Errorf("apply weekly delta user=%s week=%s: %w", userID, weekStart.Format("2006-01-02"), err)
		}
		usersAffected++
	}

	if usersAffected > 0 && s.leaderboardCache != nil {
		s.leaderboardCache.DeletePrefix(ctx, leaderboardCachePrefix)
	}

	return ScoreResult{ScoredCount: len(preds), UsersAffected: usersAffected}, nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
