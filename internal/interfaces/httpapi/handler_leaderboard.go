package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Marvel4tech/greenbal/internal/domain/leaderboard"
	"github.com/Marvel4tech/greenbal/internal/platform/temporal"
	"github.com/Marvel4tech/greenbal/internal/usecase"
)

func leaderboardKindFromPath(r *http.Request) (string, error) {
	switch kind := r.PathValue("kind"); kind {
	case "all-time", leaderboard.KindAllTime:
		return leaderboard.KindAllTime, nil
	case leaderboard.KindWeekly:
		return leaderboard.KindWeekly, nil
	default:
		return "", fmt.Errorf("%w: unknown leaderboard kind %q", usecase.ErrInvalidInput, kind)
	}
}

func parseLeaderboardQuery(r *http.Request) (weekStart time.Time, limit int, err error) {
	if raw := strings.TrimSpace(r.URL.Query().Get("week_start")); raw != "" {
		weekStart, err = temporal.ParseDate(raw)
		if err != nil {
			return time.Time{}, 0, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err)
		}
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return time.Time{}, 0, fmt.Errorf("%w: limit must be a non-negative integer", usecase.ErrInvalidInput)
		}
	}
	return weekStart, limit, nil
}

// GetLeaderboard serves GET /v1/leaderboard/{kind}. Anonymous reads get the
// top rows; authenticated reads also get the viewer's own rank.
func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLeaderboard")
	defer span.End()

	kind, err := leaderboardKindFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	weekStart, limit, err := parseLeaderboardQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	viewerID := ""
	if principal, ok := principalFromContext(ctx); ok {
		viewerID = principal.UserID
	}

	page, err := h.leaderboardService.PageFor(ctx, kind, viewerID, weekStart, limit)
	if err != nil {
		h.logger.WarnContext(ctx, "get leaderboard failed", "kind", kind, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, leaderboardPageToDTO(page))
}

// GetMyRank serves GET /v1/leaderboard/{kind}/rank for the authenticated
// user. Users without an aggregate row get an empty data object.
func (h *Handler) GetMyRank(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMyRank")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	kind, err := leaderboardKindFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	weekStart, _, err := parseLeaderboardQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	rank, err := h.leaderboardService.RankOf(ctx, kind, principal.UserID, weekStart)
	if err != nil {
		h.logger.WarnContext(ctx, "get rank failed", "kind", kind, "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}
	if rank == nil {
		writeSuccess(ctx, w, http.StatusOK, struct{}{})
		return
	}

	writeSuccess(ctx, w, http.StatusOK, leaderboardRankDTO{
		Position: rank.Position,
		Row:      leaderboardRowToDTO(rank.Row),
	})
}
