package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/Marvel4tech/greenbal/internal/domain/match"
	"github.com/Marvel4tech/greenbal/internal/platform/id"
	"github.com/Marvel4tech/greenbal/internal/platform/logging"
	"github.com/Marvel4tech/greenbal/internal/platform/temporal"
)

// JobPublisher hands work to the deferred job queue. Used when synchronous
// scoring after a result update fails and must be retried out of band.
type JobPublisher interface {
	PublishRescore(ctx context.Context, matchID string) error
}

// CreateMatchInput carries the admin-supplied fields for a new fixture.
type CreateMatchInput struct {
	HomeTeam  string
	AwayTeam  string
	KickoffAt time.Time
	Status    string
}

// UpdateResultOutput reports what happened after a result was recorded.
// ScoringPending is true when scoring could not run inline and was queued.
type UpdateResultOutput struct {
	Match          match.Match
	Score          ScoreResult
	ScoringPending bool
}

// MatchService covers fixture administration and the public day listing.
type MatchService struct {
	matchRepo match.Repository
	scoring   *ScoringService
	jobs      JobPublisher
	idGen     id.Generator
	logger    *logging.Logger
	zone      *time.Location
	now       func() time.Time
}

func NewMatchService(
	matchRepo match.Repository,
	scoring *ScoringService,
	jobs JobPublisher,
	idGen id.Generator,
	logger *logging.Logger,
	zone *time.Location,
) *MatchService {
	if logger == nil {
		logger = logging.Default()
	}
	if zone == nil {
		zone = time.UTC
	}
	return &MatchService{
		matchRepo: matchRepo,
		scoring:   scoring,
		jobs:      jobs,
		idGen:     idGen,
		logger:    logger,
		zone:      zone,
		now:       time.Now,
	}
}

func (s *MatchService) Create(ctx context.Context, input CreateMatchInput) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Create")
	defer span.End()

	if input.HomeTeam == "" || input.AwayTeam == "" {
		return match.Match{}, fmt.Errorf("%w: both team names are required", ErrInvalidInput)
	}
	if input.HomeTeam == input.AwayTeam {
		return match.Match{}, fmt.Errorf("%w: a team cannot play itself", ErrInvalidInput)
	}
	if input.KickoffAt.IsZero() {
		return match.Match{}, fmt.Errorf("%w: kickoff time is required", ErrInvalidInput)
	}

	status := match.NormalizeStatus(input.Status)
	if status == "" {
		status = match.StatusScheduled
	}
	if !match.IsValidStatus(status) {
		return match.Match{}, fmt.Errorf("%w: status %q", ErrInvalidInput, input.Status)
	}

	newID, err := s.idGen.NewID()
	if err != nil {
		return match.Match{}, fmt.Errorf("generate match id: %w", err)
	}

	now := s.now().UTC()
	item := match.Match{
		ID:        newID,
		HomeTeam:  input.HomeTeam,
		AwayTeam:  input.AwayTeam,
		KickoffAt: input.KickoffAt.UTC(),
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	created, err := s.matchRepo.Create(ctx, item)
	if err != nil {
		return match.Match{}, fmt.Errorf("create match: %w", err)
	}
	return created, nil
}

func (s *MatchService) GetByID(ctx context.Context, matchID string) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.GetByID")
	defer span.End()

	item, exists, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return match.Match{}, fmt.Errorf("get match: %w", err)
	}
	if !exists {
		return match.Match{}, fmt.Errorf("%w: match %s", ErrNotFound, matchID)
	}
	return item, nil
}

// ListByDay returns matches kicking off on the given civil date in the
// service timezone. An empty date means the civil date now. Day bounds are
// the local midnights, which are not 24 hours apart on DST transitions.
func (s *MatchService) ListByDay(ctx context.Context, date string) ([]match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.ListByDay")
	defer span.End()

	if date == "" {
		date = temporal.CivilDate(s.now(), s.zone)
	}
	start, end, err := temporal.DayWindowUTC(date, s.zone.String())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	items, err := s.matchRepo.ListByKickoffWindow(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("list matches for %s: %w", date, err)
	}
	return items, nil
}

// UpdateResult records a match outcome and settles predictions. The match
// row is persisted before scoring starts, so a scoring failure leaves a
// finished match that any later re-run can settle; in that case the rescore
// job is queued and ScoringPending is reported instead of failing the call.
func (s *MatchService) UpdateResult(ctx context.Context, matchID, result string) (UpdateResultOutput, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.UpdateResult")
	defer span.End()

	outcome := match.NormalizeOutcome(result)
	if !match.IsValidOutcome(outcome) {
		return UpdateResultOutput{}, fmt.Errorf("%w: result %q is not a valid outcome", ErrInvalidInput, result)
	}

	item, exists, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return UpdateResultOutput{}, fmt.Errorf("get match: %w", err)
	}
	if !exists {
		return UpdateResultOutput{}, fmt.Errorf("%w: match %s", ErrNotFound, matchID)
	}

	item.Status = match.StatusFinished
	item.Result = &outcome
	item.UpdatedAt = s.now().UTC()
	updated, err := s.matchRepo.Update(ctx, item)
	if err != nil {
		return UpdateResultOutput{}, fmt.Errorf("update match result: %w", err)
	}

	score, err := s.scoring.Score(ctx, matchID)
	if err != nil {
		s.logger.ErrorContext(ctx, "inline scoring failed, deferring to rescore job",
			"match_id", matchID, "error", err)
		if s.jobs != nil {
			if pubErr := s.jobs.PublishRescore(ctx, matchID); pubErr != nil {
				return UpdateResultOutput{}, fmt.Errorf("score match and enqueue rescore both failed: %w", pubErr)
			}
		}
		return UpdateResultOutput{Match: updated, ScoringPending: true}, nil
	}

	return UpdateResultOutput{Match: updated, Score: score}, nil
}

// Delete removes a fixture. Aggregate contributions already applied from
// its predictions are left in place.
func (s *MatchService) Delete(ctx context.Context, matchID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Delete")
	defer span.End()

	_, exists, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return fmt.Errorf("get match: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: match %s", ErrNotFound, matchID)
	}
	if err := s.matchRepo.Delete(ctx, matchID); err != nil {
		return fmt.Errorf("delete match: %w", err)
	}
	return nil
}
