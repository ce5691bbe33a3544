package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/Marvel4tech/greenbal/internal/domain/leaderboard"
	"github.com/Marvel4tech/greenbal/internal/domain/profile"
	"github.com/Marvel4tech/greenbal/internal/platform/cache"
)

const (
	defaultLeaderboardLimit = 50
	maxLeaderboardLimit     = 200

	leaderboardCachePrefix = "leaderboard:"
)

// LeaderboardService reads the two aggregate projections. Top pages are
// cached briefly; any scoring run drops the whole cache prefix.
type LeaderboardService struct {
	leaderboardRepo leaderboard.Repository
	profileRepo     profile.Repository
	pageCache       *cache.Store
	defaultLimit    int
	now             func() time.Time
}

// Rank is a 1-based position; ties share a rank.
type Rank struct {
	Position int
	Row      leaderboard.Aggregate
}

// Page is a leaderboard slice plus the viewer's own rank when they appear
// in the projection at all (viewer is nil for users with no row yet).
type Page struct {
	Kind      string
	WeekStart *time.Time
	Rows      []leaderboard.Aggregate
	Viewer    *Rank
}

func NewLeaderboardService(
	leaderboardRepo leaderboard.Repository,
	profileRepo profile.Repository,
	pageCache *cache.Store,
	defaultLimit int,
) *LeaderboardService {
	if defaultLimit <= 0 {
		defaultLimit = defaultLeaderboardLimit
	}
	return &LeaderboardService{
		leaderboardRepo: leaderboardRepo,
		profileRepo:     profileRepo,
		pageCache:       pageCache,
		defaultLimit:    defaultLimit,
		now:             time.Now,
	}
}

func clampLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > maxLeaderboardLimit {
		return maxLeaderboardLimit
	}
	return limit
}

// TopN returns the ranked top of a board. For the weekly kind a zero
// weekStart means the bucket containing now, resolved by the store.
func (s *LeaderboardService) TopN(ctx context.Context, kind string, weekStart time.Time, limit int) ([]leaderboard.Aggregate, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.TopN")
	defer span.End()

	limit = clampLimit(limit, s.defaultLimit)

	switch kind {
	case leaderboard.KindAllTime:
		rows, err := s.cachedTop(ctx, fmt.Sprintf("%sall_time:top:%d", leaderboardCachePrefix, limit), func(ctx context.Context) ([]leaderboard.Aggregate, error) {
			return s.leaderboardRepo.TopAllTime(ctx, limit)
		})
		if err != nil {
			return nil, fmt.Errorf("top all-time: %w", err)
		}
		return rows, nil
	case leaderboard.KindWeekly:
		weekStart, err := s.resolveWeekStart(ctx, weekStart)
		if err != nil {
			return nil, err
		}
		key := fmt.Sprintf("%sweekly:%s:top:%d", leaderboardCachePrefix, weekStart.Format("2006-01-02"), limit)
		rows, err := s.cachedTop(ctx, key, func(ctx context.Context) ([]leaderboard.Aggregate, error) {
			weekly, err := s.leaderboardRepo.TopWeekly(ctx, weekStart, limit)
			if err != nil {
				return nil, err
			}
			rows := make([]leaderboard.Aggregate, len(weekly))
			for i, w := range weekly {
				rows[i] = w.Aggregate
			}
			return rows, nil
		})
		if err != nil {
			return nil, fmt.Errorf("top weekly: %w", err)
		}
		return rows, nil
	default:
		return nil, fmt.Errorf("%w: unknown leaderboard kind %q", ErrInvalidInput, kind)
	}
}

// RankOf computes the viewer's 1-based position: one plus the number of
// rows strictly ahead under the board ordering. Users without a row have
// no rank.
func (s *LeaderboardService) RankOf(ctx context.Context, kind, userID string, weekStart time.Time) (*Rank, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.RankOf")
	defer span.End()

	if userID == "" {
		return nil, fmt.Errorf("%w: missing user id", ErrUnauthorized)
	}

	switch kind {
	case leaderboard.KindAllTime:
		row, exists, err := s.leaderboardRepo.GetAllTime(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("get all-time row: %w", err)
		}
		if !exists {
			return nil, nil
		}
		ahead, err := s.leaderboardRepo.CountAheadAllTime(ctx, row)
		if err != nil {
			return nil, fmt.Errorf("count ahead all-time: %w", err)
		}
		return &Rank{Position: ahead + 1, Row: row}, nil
	case leaderboard.KindWeekly:
		weekStart, err := s.resolveWeekStart(ctx, weekStart)
		if err != nil {
			return nil, err
		}
		row, exists, err := s.leaderboardRepo.GetWeekly(ctx, userID, weekStart)
		if err != nil {
			return nil, fmt.Errorf("get weekly row: %w", err)
		}
		if !exists {
			return nil, nil
		}
		ahead, err := s.leaderboardRepo.CountAheadWeekly(ctx, row)
		if err != nil {
			return nil, fmt.Errorf("count ahead weekly: %w", err)
		}
		return &Rank{Position: ahead + 1, Row: row.Aggregate}, nil
	default:
		return nil, fmt.Errorf("%w: unknown leaderboard kind %q", ErrInvalidInput, kind)
	}
}

// PageFor assembles the board page for a viewer: the top rows and the
// viewer's own rank fetched concurrently, usernames filled from profiles.
// viewerID may be empty for anonymous reads.
func (s *LeaderboardService) PageFor(ctx context.Context, kind, viewerID string, weekStart time.Time, limit int) (Page, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.PageFor")
	defer span.End()

	var resolvedWeek *time.Time
	if kind == leaderboard.KindWeekly {
		ws, err := s.resolveWeekStart(ctx, weekStart)
		if err != nil {
			return Page{}, err
		}
		weekStart = ws
		resolvedWeek = &ws
	}

	var (
		rows   []leaderboard.Aggregate
		viewer *Rank
	)
	p := pool.New().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) error {
		var err error
		rows, err = s.TopN(ctx, kind, weekStart, limit)
		return err
	})
	if viewerID != "" {
		p.Go(func(ctx context.Context) error {
			var err error
			viewer, err = s.RankOf(ctx, kind, viewerID, weekStart)
			return err
		})
	}
	if err := p.Wait(); err != nil {
		return Page{}, err
	}

	if err := s.fillUsernames(ctx, rows, viewer); err != nil {
		return Page{}, err
	}

	return Page{Kind: kind, WeekStart: resolvedWeek, Rows: rows, Viewer: viewer}, nil
}

func (s *LeaderboardService) resolveWeekStart(ctx context.Context, weekStart time.Time) (time.Time, error) {
	if !weekStart.IsZero() {
		return weekStart, nil
	}
	ws, err := s.leaderboardRepo.WeekStart(ctx, s.now().UTC())
	if err != nil {
		return time.Time{}, fmt.Errorf("resolve current week bucket: %w", err)
	}
	return ws, nil
}

func (s *LeaderboardService) cachedTop(ctx context.Context, key string, load func(context.Context) ([]leaderboard.Aggregate, error)) ([]leaderboard.Aggregate, error) {
	if s.pageCache == nil {
		return load(ctx)
	}
	v, err := s.pageCache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		return load(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.([]leaderboard.Aggregate), nil
}

// fillUsernames backfills display names on rows whose projection predates
// the profile write, or whose store does not join profiles at all.
func (s *LeaderboardService) fillUsernames(ctx context.Context, rows []leaderboard.Aggregate, viewer *Rank) error {
	missing := make([]string, 0, len(rows))
	for _, row := range rows {
		if row.Username == "" {
			missing = append(missing, row.UserID)
		}
	}
	if viewer != nil && viewer.Row.Username == "" {
		missing = append(missing, viewer.Row.UserID)
	}
	if len(missing) == 0 {
		return nil
	}

	profiles, err := s.profileRepo.ListByUserIDs(ctx, missing)
	if err != nil {
		return fmt.Errorf("load profiles for leaderboard: %w", err)
	}
	names := make(map[string]string, len(profiles))
	for _, prof := range profiles {
		names[prof.UserID] = prof.Username
	}
	for i := range rows {
		if rows[i].Username == "" {
			rows[i].Username = names[rows[i].UserID]
		}
	}
	if viewer != nil && viewer.Row.Username == "" {
		viewer.Row.Username = names[viewer.Row.UserID]
	}
	return nil
}
