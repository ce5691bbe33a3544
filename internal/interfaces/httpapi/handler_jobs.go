package httpapi

import (
	"fmt"
	"net/http"

	sonic "github.com/bytedance/sonic"

	"github.com/Marvel4tech/greenbal/internal/usecase"
)

type rescoreJobRequest struct {
	MatchID string `json:"match_id" validate:"required"`
}

// RunRescoreJob is the queue-facing endpoint behind the internal job token.
// QStash delivers the payload queued when inline scoring failed; because
// scoring is delta-based, redelivery of an already-settled match is a no-op.
func (h *Handler) RunRescoreJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunRescoreJob")
	defer span.End()

	var req rescoreJobRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.rescoreService.Sweep(ctx, usecase.RescoreInput{MatchIDs: []string{req.MatchID}})
	if err != nil {
		h.logger.ErrorContext(ctx, "rescore job failed", "match_id", req.MatchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}
