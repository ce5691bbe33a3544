package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Marvel4tech/greenbal/internal/domain/match"
	"github.com/Marvel4tech/greenbal/internal/domain/prediction"
	"github.com/Marvel4tech/greenbal/internal/infrastructure/repository/memory"
	"github.com/Marvel4tech/greenbal/internal/platform/logging"
)

type recordingJobPublisher struct {
	matchIDs []string
	err      error
}

func (p *recordingJobPublisher) PublishRescore(_ context.Context, matchID string) error {
	if p.err != nil {
		return p.err
	}
	p.matchIDs = append(p.matchIDs, matchID)
	return nil
}

type failingPredictionRepo struct {
	*memory.PredictionRepository
	listErr error
}

func (r *failingPredictionRepo) ListByMatch(ctx context.Context, matchID string) ([]prediction.Prediction, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	return r.PredictionRepository.ListByMatch(ctx, matchID)
}

func newMatchFixture(t *testing.T) (*MatchService, *memory.MatchRepository, *recordingJobPublisher, *memory.LeaderboardRepository, *memory.PredictionRepository) {
	t.Helper()

	matchRepo := memory.NewMatchRepository(nil)
	predictionRepo := memory.NewPredictionRepository()
	leaderboardRepo := memory.NewLeaderboardRepository()

	scoring := NewScoringService(matchRepo, predictionRepo, leaderboardRepo, nil)
	jobs := &recordingJobPublisher{}

	london, err := time.LoadLocation("Europe/London")
	if err != nil {
		t.Fatalf("load zone: %v", err)
	}

	svc := NewMatchService(matchRepo, scoring, jobs, &sequenceIDGenerator{}, logging.NewNop(), london)
	svc.now = func() time.Time {
		return time.Date(2026, time.September, 5, 9, 0, 0, 0, time.UTC)
	}

	return svc, matchRepo, jobs, leaderboardRepo, predictionRepo
}

func TestMatchService_Create(t *testing.T) {
	svc, _, _, _, _ := newMatchFixture(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateMatchInput{
		HomeTeam:  "Arsenal",
		AwayTeam:  "Chelsea",
		KickoffAt: time.Date(2026, time.September, 5, 15, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("id not assigned")
	}
	if created.Status != match.StatusScheduled {
		t.Fatalf("default status wrong: %q", created.Status)
	}

	cases := []struct {
		name  string
		input CreateMatchInput
	}{
		{name: "missing teams", input: CreateMatchInput{KickoffAt: time.Now()}},
		{name: "same team twice", input: CreateMatchInput{HomeTeam: "Arsenal", AwayTeam: "Arsenal", KickoffAt: time.Now()}},
		{name: "missing kickoff", input: CreateMatchInput{HomeTeam: "Arsenal", AwayTeam: "Chelsea"}},
		{name: "bad status", input: CreateMatchInput{HomeTeam: "Arsenal", AwayTeam: "Chelsea", KickoffAt: time.Now(), Status: "postponed"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, tc.input); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestMatchService_ListByDay(t *testing.T) {
	svc, matchRepo, _, _, _ := newMatchFixture(t)
	ctx := context.Background()

	// 2026-09-05 in London spans [2026-09-04 23:00 UTC, 2026-09-05 23:00 UTC).
	inWindow := time.Date(2026, time.September, 4, 23, 30, 0, 0, time.UTC)
	lateInWindow := time.Date(2026, time.September, 5, 22, 59, 0, 0, time.UTC)
	outBefore := time.Date(2026, time.September, 4, 22, 59, 0, 0, time.UTC)
	outAfter := time.Date(2026, time.September, 5, 23, 0, 0, 0, time.UTC)

	for i, kickoff := range []time.Time{inWindow, lateInWindow, outBefore, outAfter} {
		if _, err := matchRepo.Create(ctx, match.Match{
			ID:        []string{"in-early", "in-late", "out-before", "out-after"}[i],
			HomeTeam:  "Home",
			AwayTeam:  "Away",
			KickoffAt: kickoff,
			Status:    match.StatusScheduled,
		}); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	items, err := svc.ListByDay(ctx, "2026-09-05")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("unexpected matches in window: got=%d want=2", len(items))
	}
	if items[0].ID != "in-early" || items[1].ID != "in-late" {
		t.Fatalf("unexpected window contents: %+v", items)
	}

	// Empty date means today in the service timezone (now is 2026-09-05).
	items, err = svc.ListByDay(ctx, "")
	if err != nil {
		t.Fatalf("list today: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("today listing wrong: got=%d want=2", len(items))
	}

	if _, err := svc.ListByDay(ctx, "05-09-2026"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for malformed date, got %v", err)
	}
}

func TestMatchService_UpdateResult_ScoresInline(t *testing.T) {
	svc, matchRepo, jobs, leaderboardRepo, predictionRepo := newMatchFixture(t)
	ctx := context.Background()

	seedScheduledMatch(t, matchRepo, "m1", time.Date(2026, time.September, 5, 15, 0, 0, 0, time.UTC))
	seedPrediction(t, predictionRepo, "p1", "u1", "m1", match.OutcomeHomeWin)

	out, err := svc.UpdateResult(ctx, "m1", "homeWin")
	if err != nil {
		t.Fatalf("update result: %v", err)
	}
	if out.ScoringPending {
		t.Fatalf("inline scoring should have succeeded")
	}
	if out.Match.Status != match.StatusFinished || out.Match.Result == nil || *out.Match.Result != match.OutcomeHomeWin {
		t.Fatalf("match not finalized: %+v", out.Match)
	}
	if out.Score.ScoredCount != 1 || out.Score.UsersAffected != 1 {
		t.Fatalf("unexpected score result: %+v", out.Score)
	}
	if len(jobs.matchIDs) != 0 {
		t.Fatalf("no job should be queued on success")
	}

	row, ok, _ := leaderboardRepo.GetAllTime(ctx, "u1")
	if !ok || row.PointsTotal != 3 {
		t.Fatalf("aggregate not applied: ok=%v row=%+v", ok, row)
	}

	if _, err := svc.UpdateResult(ctx, "m1", "both"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.UpdateResult(ctx, "missing", "draw"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMatchService_UpdateResult_DefersToJobOnScoringFailure(t *testing.T) {
	matchRepo := memory.NewMatchRepository(nil)
	leaderboardRepo := memory.NewLeaderboardRepository()
	broken := &failingPredictionRepo{
		PredictionRepository: memory.NewPredictionRepository(),
		listErr:              errors.New("connection refused"),
	}

	scoring := NewScoringService(matchRepo, broken, leaderboardRepo, nil)
	jobs := &recordingJobPublisher{}
	svc := NewMatchService(matchRepo, scoring, jobs, &sequenceIDGenerator{}, logging.NewNop(), time.UTC)
	ctx := context.Background()

	seedScheduledMatch(t, matchRepo, "m1", time.Date(2026, time.September, 5, 15, 0, 0, 0, time.UTC))

	out, err := svc.UpdateResult(ctx, "m1", "draw")
	if err != nil {
		t.Fatalf("update result: %v", err)
	}
	if !out.ScoringPending {
		t.Fatalf("scoring failure must report pending")
	}
	// The result is persisted even though scoring failed, so the queued
	// job finds a scoreable match.
	item, exists, _ := matchRepo.GetByID(ctx, "m1")
	if !exists || !item.ReadyToScore() {
		t.Fatalf("match not persisted as finished: exists=%v item=%+v", exists, item)
	}
	if len(jobs.matchIDs) != 1 || jobs.matchIDs[0] != "m1" {
		t.Fatalf("rescore job not queued: %+v", jobs.matchIDs)
	}
}

func TestMatchService_Delete(t *testing.T) {
	svc, matchRepo, _, _, _ := newMatchFixture(t)
	ctx := context.Background()

	seedScheduledMatch(t, matchRepo, "m1", time.Date(2026, time.September, 5, 15, 0, 0, 0, time.UTC))

	if err := svc.Delete(ctx, "m1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, exists, _ := matchRepo.GetByID(ctx, "m1"); exists {
		t.Fatalf("match not deleted")
	}
	if err := svc.Delete(ctx, "m1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}
