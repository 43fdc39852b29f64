package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/riskibarqy/f1-fantasy/internal/usecase"
)

func (h *Handler) GetDraft(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetDraft")
	defer span.End()

	state, err := h.draftService.GetDraftState(ctx)
	if err != nil {
		h.logFailure(ctx, "get draft state failed", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, draftStateToDTO(state))
}

func (h *Handler) CommitPick(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CommitPick")
	defer span.End()

	actor, err := h.requireActor(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req commitPickRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	req.AssetType = strings.ToLower(strings.TrimSpace(req.AssetType))
	req.AssetID = strings.TrimSpace(req.AssetID)
	req.TeamID = strings.TrimSpace(req.TeamID)
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.draftService.CommitPick(ctx, usecase.CommitPickInput{
		Actor:      actor,
		PickNumber: req.PickNumber,
		TeamID:     req.TeamID,
		AssetType:  req.AssetType,
		AssetID:    req.AssetID,
		Generation: req.Generation,
	})
	if err != nil {
		h.logFailure(ctx, "commit pick failed", err,
			"user_id", actor.UserID,
			"pick_number", req.PickNumber,
			"asset_type", req.AssetType,
			"asset_id", req.AssetID,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, commitPickDTO{
		Pick:     pickToDTO(result.Pick, 0),
		BotPicks: picksToDTO(result.BotPicks, 0),
	})
}

func (h *Handler) AutoPick(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AutoPick")
	defer span.End()

	actor, err := h.requireActor(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	pickNumber, err := strconv.Atoi(strings.TrimSpace(r.PathValue("pickNumber")))
	if err != nil || pickNumber < 1 {
		writeError(ctx, w, fmt.Errorf("%w: pickNumber must be a positive integer", usecase.ErrInvalidInput))
		return
	}

	pick, err := h.draftService.AutoPick(ctx, usecase.AutoPickInput{Actor: actor, PickNumber: pickNumber})
	if err != nil {
		h.logFailure(ctx, "auto pick failed", err, "user_id", actor.UserID, "pick_number", pickNumber)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, pickToDTO(pick, 0))
}

func (h *Handler) StartDraftRound(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.StartDraftRound")
	defer span.End()

	var req startRoundRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	archive := true
	if req.Archive != nil {
		archive = *req.Archive
	}

	result, err := h.draftService.StartNewDraftRound(ctx, usecase.StartRoundInput{
		TeamIDs: req.TeamIDs,
		Rounds:  req.Rounds,
		Archive: archive,
	})
	if err != nil {
		h.logFailure(ctx, "start draft round failed", err, "teams", len(req.TeamIDs), "rounds", req.Rounds)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, resetResultToDTO(result))
}

func (h *Handler) AdvanceBots(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AdvanceBots")
	defer span.End()

	picks, err := h.draftService.AdvanceBots(ctx)
	if err != nil {
		h.logFailure(ctx, "advance bots failed", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, picksToDTO(picks, 0))
}
