package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Marvel4tech/greenbal/internal/domain/match"
	"github.com/Marvel4tech/greenbal/internal/infrastructure/repository/memory"
)

type sequenceIDGenerator struct {
	n int
}

func (g *sequenceIDGenerator) NewID() (string, error) {
	g.n++
	return fmt.Sprintf("id-%04d", g.n), nil
}

func newPredictionFixture(t *testing.T, now time.Time) (*PredictionService, *memory.MatchRepository, *memory.LeaderboardRepository) {
	t.Helper()

	matchRepo := memory.NewMatchRepository(nil)
	predictionRepo := memory.NewPredictionRepository()
	leaderboardRepo := memory.NewLeaderboardRepository()
	profileRepo := memory.NewProfileRepository(memory.SeedProfiles())

	svc := NewPredictionService(matchRepo, predictionRepo, leaderboardRepo, profileRepo, &sequenceIDGenerator{})
	svc.now = func() time.Time { return now }

	return svc, matchRepo, leaderboardRepo
}

func seedScheduledMatch(t *testing.T, repo *memory.MatchRepository, id string, kickoff time.Time) {
	t.Helper()

	_, err := repo.Create(context.Background(), match.Match{
		ID:        id,
		HomeTeam:  "Arsenal",
		AwayTeam:  "Chelsea",
		KickoffAt: kickoff,
		Status:    match.StatusScheduled,
	})
	if err != nil {
		t.Fatalf("seed match: %v", err)
	}
}

func TestPredictionService_Submit(t *testing.T) {
	kickoff := time.Date(2026, time.September, 5, 15, 0, 0, 0, time.UTC)
	now := kickoff.Add(-time.Hour)
	svc, matchRepo, leaderboardRepo := newPredictionFixture(t, now)
	ctx := context.Background()

	seedScheduledMatch(t, matchRepo, "m1", kickoff)

	p, err := svc.Submit(ctx, "user-amara", "m1", "homeWin")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if p.Pick != match.OutcomeHomeWin {
		t.Fatalf("pick not normalized: got=%q", p.Pick)
	}
	if p.Points != nil {
		t.Fatalf("fresh prediction must be unscored")
	}

	// Participation counters move on submit, in both projections.
	row, ok, _ := leaderboardRepo.GetAllTime(ctx, "user-amara")
	if !ok || row.PredictionsTotal != 1 || row.PointsTotal != 0 {
		t.Fatalf("unexpected all-time row: ok=%v row=%+v", ok, row)
	}
	weekStart, _ := leaderboardRepo.WeekStart(ctx, kickoff)
	weekly, ok, _ := leaderboardRepo.GetWeekly(ctx, "user-amara", weekStart)
	if !ok || weekly.PredictionsTotal != 1 {
		t.Fatalf("unexpected weekly row: ok=%v row=%+v", ok, weekly)
	}
}

func TestPredictionService_Submit_Duplicate(t *testing.T) {
	kickoff := time.Date(2026, time.September, 5, 15, 0, 0, 0, time.UTC)
	svc, matchRepo, leaderboardRepo := newPredictionFixture(t, kickoff.Add(-time.Hour))
	ctx := context.Background()

	seedScheduledMatch(t, matchRepo, "m1", kickoff)

	if _, err := svc.Submit(ctx, "user-amara", "m1", "draw"); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	_, err := svc.Submit(ctx, "user-amara", "m1", "home_win")
	if !errors.Is(err, ErrDuplicateSubmission) {
		t.Fatalf("expected ErrDuplicateSubmission, got %v", err)
	}

	// The rejected duplicate must not bump counters again.
	row, _, _ := leaderboardRepo.GetAllTime(ctx, "user-amara")
	if row.PredictionsTotal != 1 {
		t.Fatalf("duplicate bumped counter: %+v", row)
	}
}

// racingPredictionRepo simulates a submission landing between the
// existence pre-check and the insert.
type racingPredictionRepo struct {
	*memory.PredictionRepository
}

func (r *racingPredictionRepo) ExistsForUserMatch(context.Context, string, string) (bool, error) {
	return false, nil
}

func TestPredictionService_Submit_DuplicateRace(t *testing.T) {
	kickoff := time.Date(2026, time.September, 5, 15, 0, 0, 0, time.UTC)
	ctx := context.Background()

	matchRepo := memory.NewMatchRepository(nil)
	predictionRepo := &racingPredictionRepo{PredictionRepository: memory.NewPredictionRepository()}
	leaderboardRepo := memory.NewLeaderboardRepository()
	profileRepo := memory.NewProfileRepository(memory.SeedProfiles())

	svc := NewPredictionService(matchRepo, predictionRepo, leaderboardRepo, profileRepo, &sequenceIDGenerator{})
	svc.now = func() time.Time { return kickoff.Add(-time.Hour) }

	seedScheduledMatch(t, matchRepo, "m1", kickoff)

	if _, err := svc.Submit(ctx, "user-amara", "m1", "draw"); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	_, err := svc.Submit(ctx, "user-amara", "m1", "home_win")
	if !errors.Is(err, ErrDuplicateSubmission) {
		t.Fatalf("expected ErrDuplicateSubmission from insert path, got %v", err)
	}

	row, _, _ := leaderboardRepo.GetAllTime(ctx, "user-amara")
	if row.PredictionsTotal != 1 {
		t.Fatalf("losing racer bumped counter: %+v", row)
	}
}

func TestPredictionService_Submit_WindowClosedAtKickoff(t *testing.T) {
	kickoff := time.Date(2026, time.September, 5, 15, 0, 0, 0, time.UTC)
	// Submitting at the exact kickoff instant is already too late.
	svc, matchRepo, _ := newPredictionFixture(t, kickoff)
	ctx := context.Background()

	seedScheduledMatch(t, matchRepo, "m1", kickoff)

	if _, err := svc.Submit(ctx, "user-amara", "m1", "draw"); !errors.Is(err, ErrWindowClosed) {
		t.Fatalf("expected ErrWindowClosed, got %v", err)
	}
}

func TestPredictionService_Submit_Rejections(t *testing.T) {
	kickoff := time.Date(2026, time.September, 5, 15, 0, 0, 0, time.UTC)
	svc, matchRepo, _ := newPredictionFixture(t, kickoff.Add(-time.Hour))
	ctx := context.Background()

	seedScheduledMatch(t, matchRepo, "m1", kickoff)

	finished := match.OutcomeDraw
	if _, err := matchRepo.Create(ctx, match.Match{
		ID:        "m-done",
		HomeTeam:  "Everton",
		AwayTeam:  "West Ham United",
		KickoffAt: kickoff.Add(-48 * time.Hour),
		Status:    match.StatusFinished,
		Result:    &finished,
	}); err != nil {
		t.Fatalf("seed finished match: %v", err)
	}

	cases := []struct {
		name    string
		userID  string
		matchID string
		pick    string
		want    error
	}{
		{name: "missing user", userID: "", matchID: "m1", pick: "draw", want: ErrUnauthorized},
		{name: "bad pick", userID: "user-amara", matchID: "m1", pick: "both_teams_score", want: ErrInvalidInput},
		{name: "unknown profile", userID: "user-ghost", matchID: "m1", pick: "draw", want: ErrNotFound},
		{name: "banned user", userID: "user-dayo", matchID: "m1", pick: "draw", want: ErrForbidden},
		{name: "unknown match", userID: "user-amara", matchID: "m-missing", pick: "draw", want: ErrNotFound},
		{name: "finished match", userID: "user-amara", matchID: "m-done", pick: "draw", want: ErrMatchFinished},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Submit(ctx, tc.userID, tc.matchID, tc.pick)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestPredictionService_ListForUser(t *testing.T) {
	kickoff := time.Date(2026, time.September, 5, 15, 0, 0, 0, time.UTC)
	svc, matchRepo, _ := newPredictionFixture(t, kickoff.Add(-2*time.Hour))
	ctx := context.Background()

	seedScheduledMatch(t, matchRepo, "m1", kickoff)
	seedScheduledMatch(t, matchRepo, "m2", kickoff.Add(time.Hour))

	if _, err := svc.Submit(ctx, "user-amara", "m1", "draw"); err != nil {
		t.Fatalf("submit m1: %v", err)
	}
	svc.now = func() time.Time { return kickoff.Add(-time.Hour) }
	if _, err := svc.Submit(ctx, "user-amara", "m2", "home_win"); err != nil {
		t.Fatalf("submit m2: %v", err)
	}
	if _, err := svc.Submit(ctx, "user-bayo", "m1", "away_win"); err != nil {
		t.Fatalf("submit as other user: %v", err)
	}

	all, err := svc.ListForUser(ctx, "user-amara", nil)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("unexpected history size: got=%d want=2", len(all))
	}
	// Newest submission first.
	if all[0].MatchID != "m2" || all[1].MatchID != "m1" {
		t.Fatalf("history not newest-first: got=[%s %s]", all[0].MatchID, all[1].MatchID)
	}

	filtered, err := svc.ListForUser(ctx, "user-amara", []string{"m2"})
	if err != nil {
		t.Fatalf("list filtered: %v", err)
	}
	if len(filtered) != 1 || filtered[0].MatchID != "m2" {
		t.Fatalf("unexpected filtered history: %+v", filtered)
	}

	if _, err := svc.ListForUser(ctx, "", nil); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}
