package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/riskibarqy/f1-fantasy/internal/usecase"
)

func (h *Handler) GetStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetStandings")
	defer span.End()

	standings, err := h.standingsService.Standings(ctx)
	if err != nil {
		h.logFailure(ctx, "get standings failed", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, standingsToDTO(standings))
}

func (h *Handler) ListEras(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListEras")
	defer span.End()

	eras, err := h.seasonService.ListEras(ctx)
	if err != nil {
		h.logFailure(ctx, "list eras failed", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]eraDTO, 0, len(eras))
	for _, item := range eras {
		items = append(items, eraToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetEraArchive(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetEraArchive")
	defer span.End()

	eraID, err := strconv.ParseInt(strings.TrimSpace(r.PathValue("eraID")), 10, 64)
	if err != nil || eraID < 1 {
		writeError(ctx, w, fmt.Errorf("%w: eraID must be a positive integer", usecase.ErrInvalidInput))
		return
	}

	archive, err := h.seasonService.GetEraArchive(ctx, eraID)
	if err != nil {
		h.logFailure(ctx, "get era archive failed", err, "era_id", eraID)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, eraArchiveToDTO(archive))
}

func (h *Handler) ListRaces(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListRaces")
	defer span.End()

	year, err := yearParam(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	races, err := h.seasonService.ListRaces(ctx, year)
	if err != nil {
		h.logFailure(ctx, "list races failed", err, "year", year)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, racesToDTO(races))
}

func (h *Handler) GetDriverStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetDriverStandings")
	defer span.End()

	year, err := yearParam(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	rows, err := h.championshipService.DriverStandings(ctx, year)
	if err != nil {
		h.logFailure(ctx, "get driver standings failed", err, "year", year)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, driverStandingsToDTO(rows))
}

func (h *Handler) GetConstructorStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetConstructorStandings")
	defer span.End()

	year, err := yearParam(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	rows, err := h.championshipService.ConstructorStandings(ctx, year)
	if err != nil {
		h.logFailure(ctx, "get constructor standings failed", err, "year", year)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, constructorStandingsToDTO(rows))
}

func (h *Handler) GetRaceResults(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetRaceResults")
	defer span.End()

	raceID, err := strconv.ParseInt(strings.TrimSpace(r.PathValue("raceID")), 10, 64)
	if err != nil || raceID < 1 {
		writeError(ctx, w, fmt.Errorf("%w: raceID must be a positive integer", usecase.ErrInvalidInput))
		return
	}

	classification, err := h.championshipService.RaceResults(ctx, raceID)
	if err != nil {
		h.logFailure(ctx, "get race results failed", err, "race_id", raceID)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, raceClassificationToDTO(classification))
}

func (h *Handler) GetNextRace(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetNextRace")
	defer span.End()

	weekend, err := h.championshipService.NextRace(ctx)
	if err != nil {
		h.logFailure(ctx, "get next race failed", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, raceWeekendToDTO(weekend))
}

// yearParam reads the optional year query parameter. Missing means 0, the
// current season.
func yearParam(r *http.Request) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("year"))
	if raw == "" {
		return 0, nil
	}
	year, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: year must be an integer", usecase.ErrInvalidInput)
	}
	return year, nil
}
