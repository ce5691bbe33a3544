package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Marvel4tech/greenbal/internal/domain/match"
)

func TestRescoreService_Sweep_AllFinished(t *testing.T) {
	scoring, matchRepo, predictionRepo, leaderboardRepo := newScoringFixture(t)
	svc := NewRescoreService(matchRepo, scoring)
	ctx := context.Background()

	seedFinishedMatch(t, matchRepo, "m1", match.OutcomeHomeWin)
	seedFinishedMatch(t, matchRepo, "m2", match.OutcomeDraw)
	// Unfinished matches are not sweep targets.
	if _, err := matchRepo.Create(ctx, match.Match{
		ID:        "m3",
		HomeTeam:  "Everton",
		AwayTeam:  "West Ham United",
		KickoffAt: time.Date(2026, time.September, 6, 15, 0, 0, 0, time.UTC),
		Status:    match.StatusScheduled,
	}); err != nil {
		t.Fatalf("seed scheduled match: %v", err)
	}

	seedPrediction(t, predictionRepo, "p1", "u1", "m1", match.OutcomeHomeWin)
	seedPrediction(t, predictionRepo, "p2", "u1", "m2", match.OutcomeDraw)

	result, err := svc.Sweep(ctx, RescoreInput{})
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if result.MatchCount != 2 || result.SuccessCount != 2 || result.FailedCount != 0 {
		t.Fatalf("unexpected sweep result: %+v", result)
	}
	if len(result.Matches) != 2 || result.Matches[0].MatchID != "m1" || result.Matches[1].MatchID != "m2" {
		t.Fatalf("rows not sorted by match: %+v", result.Matches)
	}

	row, ok, _ := leaderboardRepo.GetAllTime(ctx, "u1")
	if !ok || row.PointsTotal != 4 || row.CorrectTotal != 2 {
		t.Fatalf("aggregates wrong after sweep: ok=%v row=%+v", ok, row)
	}

	// A second sweep is a pure no-op.
	again, err := svc.Sweep(ctx, RescoreInput{})
	if err != nil {
		t.Fatalf("second sweep: %v", err)
	}
	if again.SuccessCount != 2 {
		t.Fatalf("second sweep should still succeed: %+v", again)
	}
	row, _, _ = leaderboardRepo.GetAllTime(ctx, "u1")
	if row.PointsTotal != 4 {
		t.Fatalf("second sweep changed aggregates: %+v", row)
	}
}

func TestRescoreService_Sweep_ExplicitTargets(t *testing.T) {
	scoring, matchRepo, predictionRepo, _ := newScoringFixture(t)
	svc := NewRescoreService(matchRepo, scoring)
	ctx := context.Background()

	seedFinishedMatch(t, matchRepo, "m1", match.OutcomeHomeWin)
	seedPrediction(t, predictionRepo, "p1", "u1", "m1", match.OutcomeHomeWin)

	result, err := svc.Sweep(ctx, RescoreInput{MatchIDs: []string{"m1", "m1", "m-missing"}, MaxWorkers: 2})
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	// Duplicates collapse; the missing match is reported per row, not as
	// a sweep-level failure.
	if result.MatchCount != 2 {
		t.Fatalf("duplicate targets not collapsed: %+v", result)
	}
	if result.SuccessCount != 1 || result.FailedCount != 1 {
		t.Fatalf("unexpected counts: %+v", result)
	}
	for _, row := range result.Matches {
		if row.MatchID == "m-missing" && row.Status != rescoreStatusFailed {
			t.Fatalf("missing match must fail its row: %+v", row)
		}
	}

	if _, err := svc.Sweep(ctx, RescoreInput{MatchIDs: []string{""}}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty id, got %v", err)
	}
}

func TestRescoreService_Sweep_Empty(t *testing.T) {
	scoring, matchRepo, _, _ := newScoringFixture(t)
	svc := NewRescoreService(matchRepo, scoring)

	result, err := svc.Sweep(context.Background(), RescoreInput{})
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if result.MatchCount != 0 || len(result.Matches) != 0 {
		t.Fatalf("expected empty sweep, got %+v", result)
	}
}
