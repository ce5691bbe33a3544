package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/Marvel4tech/greenbal/internal/domain/match"
)

const (
	rescoreStatusSuccess = "success"
	rescoreStatusFailed  = "failed"

	defaultRescoreWorkers = 4
	maxRescoreWorkers     = 16
)

type RescoreInput struct {
	// MatchIDs narrows the sweep; empty means every finished match with a result.
	MatchIDs   []string
	MaxWorkers int
}

type RescoreResult struct {
	MatchCount   int                 `json:"match_count"`
	SuccessCount int                 `json:"success_count"`
	FailedCount  int                 `json:"failed_count"`
	WorkerCount  int                 `json:"worker_count"`
	Matches      []RescoreTaskResult `json:"matches"`
}

type RescoreTaskResult struct {
	MatchID       string `json:"match_id"`
	Status        string `json:"status"`
	ScoredCount   int    `json:"scored_count"`
	UsersAffected int    `json:"users_affected"`
	DurationMs    int64  `json:"duration_ms"`
	Message       string `json:"message,omitempty"`
}

// RescoreService sweeps finished matches through the scoring engine.
// Because scoring is delta-based the sweep is harmless on matches that are
// already settled and repairs any whose aggregate writes were interrupted.
type RescoreService struct {
	matchRepo match.Repository
	scoring   *ScoringService
}

func NewRescoreService(matchRepo match.Repository, scoring *ScoringService) *RescoreService {
	return &RescoreService{matchRepo: matchRepo, scoring: scoring}
}

func (s *RescoreService) Sweep(ctx context.Context, input RescoreInput) (RescoreResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RescoreService.Sweep")
	defer span.End()

	targets, err := s.resolveTargets(ctx, input.MatchIDs)
	if err != nil {
		return RescoreResult{}, err
	}

	workerCount := input.MaxWorkers
	if workerCount <= 0 {
		workerCount = defaultRescoreWorkers
	}
	if workerCount > maxRescoreWorkers {
		workerCount = maxRescoreWorkers
	}
	if workerCount > len(targets) && len(targets) > 0 {
		workerCount = len(targets)
	}

	result := RescoreResult{MatchCount: len(targets), WorkerCount: workerCount}
	if len(targets) == 0 {
		return result, nil
	}

	var successCount, failedCount atomic.Int64
	results := make(chan RescoreTaskResult, len(targets))

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return RescoreResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for _, matchID := range targets {
		matchID := matchID
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			start := time.Now()
			row := RescoreTaskResult{MatchID: matchID}

			score, err := s.scoring.Score(ctx, matchID)
			row.DurationMs = time.Since(start).Milliseconds()
			if err != nil {
				row.Status = rescoreStatusFailed
				row.Message = err.Error()
				failedCount.Add(1)
			} else {
				row.Status = rescoreStatusSuccess
				row.ScoredCount = score.ScoredCount
				row.UsersAffected = score.UsersAffected
				successCount.Add(1)
			}

			results <- row
		}); err != nil {
			workers.Done()
			return RescoreResult{}, fmt.Errorf("submit match to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(results)

	for row := range results {
		result.Matches = append(result.Matches, row)
	}
	sort.SliceStable(result.Matches, func(i, j int) bool {
		return result.Matches[i].MatchID < result.Matches[j].MatchID
	})

	result.SuccessCount = int(successCount.Load())
	result.FailedCount = int(failedCount.Load())
	return result, nil
}

func (s *RescoreService) resolveTargets(ctx context.Context, matchIDs []string) ([]string, error) {
	if len(matchIDs) > 0 {
		seen := make(map[string]struct{}, len(matchIDs))
		targets := make([]string, 0, len(matchIDs))
		for _, id := range matchIDs {
			if id == "" {
				return nil, fmt.Errorf("%w: empty match id in rescore request", ErrInvalidInput)
			}
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			targets = append(targets, id)
		}
		return targets, nil
	}

	finished, err := s.matchRepo.ListFinishedWithResult(ctx)
	if err != nil {
		return nil, fmt.Errorf("list finished matches: %w", err)
	}
	targets := make([]string, 0, len(finished))
	for _, m := range finished {
		targets = append(targets, m.ID)
	}
	return targets, nil
}
