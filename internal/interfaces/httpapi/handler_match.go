package httpapi

import (
	"net/http"
)

// ListMatches serves GET /v1/matches?date=YYYY-MM-DD. The date is a civil
// day in the service timezone; omitted means today.
func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatches")
	defer span.End()

	date := r.URL.Query().Get("date")
	items, err := h.matchService.ListByDay(ctx, date)
	if err != nil {
		h.logger.WarnContext(ctx, "list matches failed", "date", date, "error", err)
		writeError(ctx, w, err)
		return
	}

	dtos := make([]matchDTO, 0, len(items))
	for _, item := range items {
		dtos = append(dtos, matchToDTO(item))
	}

	writeSuccess(ctx, w, http.StatusOK, dtos)
}

// ListTodayMatches is the date-less alias the mobile client hits on launch.
func (h *Handler) ListTodayMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTodayMatches")
	defer span.End()

	items, err := h.matchService.ListByDay(ctx, "")
	if err != nil {
		h.logger.WarnContext(ctx, "list today matches failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	dtos := make([]matchDTO, 0, len(items))
	for _, item := range items {
		dtos = append(dtos, matchToDTO(item))
	}

	writeSuccess(ctx, w, http.StatusOK, dtos)
}

func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatch")
	defer span.End()

	matchID := r.PathValue("matchID")
	item, err := h.matchService.GetByID(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "get match failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(item))
}
