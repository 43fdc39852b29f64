package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/riskibarqy/f1-fantasy/internal/usecase"
)

func (h *Handler) RunSeasonSyncJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSeasonSyncJob")
	defer span.End()

	if h.seasonSyncService == nil {
		writeError(ctx, w, fmt.Errorf("%w: season sync is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	var req seasonSyncRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	started := time.Now()
	result, err := h.seasonSyncService.Sync(ctx, req.Year)
	if err != nil {
		h.logFailure(ctx, "run season sync job failed", err,
			"year", req.Year,
			"duration_ms", time.Since(started).Milliseconds(),
		)
		writeError(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "season sync job completed",
		"year", result.Year,
		"races", result.Races,
		"results", result.Results,
		"duration_ms", time.Since(started).Milliseconds(),
	)
	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) RunAdvanceBotsJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunAdvanceBotsJob")
	defer span.End()

	picks, err := h.draftService.AdvanceBots(ctx)
	if err != nil {
		h.logFailure(ctx, "run advance bots job failed", err)
		writeError(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "advance bots job completed", "picks", len(picks))
	writeSuccess(ctx, w, http.StatusOK, picksToDTO(picks, 0))
}
