package httpapi

import (
	"net/http"

	"github.com/riskibarqy/f1-fantasy/internal/usecase"
)

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, metrics http.Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if metrics != nil {
		mux.Handle("GET /metrics", metrics)
	}
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/draft", handler.GetDraft)
	mux.HandleFunc("GET /v1/draft/stream", handler.StreamDraft)
	mux.HandleFunc("GET /v1/teams", handler.ListTeams)
	mux.HandleFunc("GET /v1/standings", handler.GetStandings)
	mux.HandleFunc("GET /v1/standings/drivers", handler.GetDriverStandings)
	mux.HandleFunc("GET /v1/standings/constructors", handler.GetConstructorStandings)
	mux.HandleFunc("GET /v1/eras", handler.ListEras)
	mux.HandleFunc("GET /v1/eras/{eraID}/archive", handler.GetEraArchive)
	mux.HandleFunc("GET /v1/races", handler.ListRaces)
	mux.HandleFunc("GET /v1/races/next", handler.GetNextRace)
	mux.HandleFunc("GET /v1/races/{raceID}/results", handler.GetRaceResults)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier, admins usecase.AdminSet) {
	registerAuthorizedDraftRoutes(mux, handler, verifier, admins)
	registerAuthorizedTeamRoutes(mux, handler, verifier, admins)
	registerAdminRoutes(mux, handler, verifier, admins)
}

func registerAuthorizedDraftRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier, admins usecase.AdminSet) {
	mux.Handle("POST /v1/draft/picks", RequireAuth(verifier, admins, http.HandlerFunc(handler.CommitPick)))
	mux.Handle("POST /v1/draft/picks/{pickNumber}/auto", RequireAuth(verifier, admins, http.HandlerFunc(handler.AutoPick)))
}

func registerAuthorizedTeamRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier, admins usecase.AdminSet) {
	mux.Handle("POST /v1/teams", RequireAuth(verifier, admins, http.HandlerFunc(handler.RegisterTeam)))
	mux.Handle("PATCH /v1/teams/me", RequireAuth(verifier, admins, http.HandlerFunc(handler.RenameMyTeam)))
}

func registerAdminRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier, admins usecase.AdminSet) {
	admin := func(fn http.HandlerFunc) http.Handler {
		return RequireAuth(verifier, admins, RequireAdmin(fn))
	}
	mux.Handle("POST /v1/admin/draft/rounds", admin(handler.StartDraftRound))
	mux.Handle("POST /v1/admin/draft/advance-bots", admin(handler.AdvanceBots))
	mux.Handle("POST /v1/admin/teams/bots", admin(handler.CreateBotTeam))
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/season-sync", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunSeasonSyncJob)))
	mux.Handle("POST /v1/internal/jobs/advance-bots", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunAdvanceBotsJob)))
}
