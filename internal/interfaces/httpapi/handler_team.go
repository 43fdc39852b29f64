package httpapi

import "net/http"

func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeams")
	defer span.End()

	teams, err := h.teamService.ListTeams(ctx)
	if err != nil {
		h.logFailure(ctx, "list teams failed", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamsToDTO(teams))
}

func (h *Handler) RegisterTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RegisterTeam")
	defer span.End()

	actor, err := h.requireActor(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	req, ok := h.decodeTeamName(w, r)
	if !ok {
		return
	}

	created, err := h.teamService.RegisterTeam(ctx, actor.UserID, req.Name)
	if err != nil {
		h.logFailure(ctx, "register team failed", err, "user_id", actor.UserID)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, teamToDTO(created))
}

func (h *Handler) RenameMyTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RenameMyTeam")
	defer span.End()

	actor, err := h.requireActor(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	req, ok := h.decodeTeamName(w, r)
	if !ok {
		return
	}

	updated, err := h.teamService.RenameTeam(ctx, actor.UserID, req.Name)
	if err != nil {
		h.logFailure(ctx, "rename team failed", err, "user_id", actor.UserID)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamToDTO(updated))
}

func (h *Handler) CreateBotTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateBotTeam")
	defer span.End()

	req, ok := h.decodeTeamName(w, r)
	if !ok {
		return
	}

	created, err := h.teamService.CreateBotTeam(ctx, req.Name)
	if err != nil {
		h.logFailure(ctx, "create bot team failed", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, teamToDTO(created))
}

func (h *Handler) decodeTeamName(w http.ResponseWriter, r *http.Request) (teamNameRequest, bool) {
	ctx := r.Context()

	var req teamNameRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(ctx, w, err)
		return req, false
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return req, false
	}
	return req, true
}
