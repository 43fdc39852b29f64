package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/f1-fantasy/internal/infrastructure/messaging/hub"
	"github.com/riskibarqy/f1-fantasy/internal/platform/logging"
	"github.com/riskibarqy/f1-fantasy/internal/platform/tracing"
	"github.com/riskibarqy/f1-fantasy/internal/usecase"
)

const maxRequestBodyBytes = 1 << 20

type Handler struct {
	draftService        *usecase.DraftService
	teamService         *usecase.TeamService
	standingsService    *usecase.StandingsService
	seasonService       *usecase.SeasonService
	championshipService *usecase.ChampionshipService
	seasonSyncService   *usecase.SeasonSyncService
	hub                 *hub.Hub
	streamOrigins       []string
	logger              *logging.Logger
	validator           *validator.Validate
}

type HandlerDeps struct {
	DraftService        *usecase.DraftService
	TeamService         *usecase.TeamService
	StandingsService    *usecase.StandingsService
	SeasonService       *usecase.SeasonService
	ChampionshipService *usecase.ChampionshipService
	SeasonSyncService   *usecase.SeasonSyncService
	// Hub feeds the draft stream. A nil hub disables the stream route.
	Hub *hub.Hub
	// StreamOrigins lists browser origins allowed to open the draft stream.
	StreamOrigins []string
	Logger        *logging.Logger
}

func NewHandler(deps HandlerDeps) *Handler {
	logger := deps.Logger
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		draftService:        deps.DraftService,
		teamService:         deps.TeamService,
		standingsService:    deps.StandingsService,
		seasonService:       deps.SeasonService,
		championshipService: deps.ChampionshipService,
		seasonSyncService:   deps.SeasonSyncService,
		hub:                 deps.Hub,
		streamOrigins:       deps.StreamOrigins,
		logger:              logger,
		validator:           validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

// decodeBody decodes an optional JSON body. An empty body leaves dst untouched.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fmt.Errorf("%w: request body exceeds %d bytes", usecase.ErrInvalidInput, tooLarge.Limit)
		}
		return fmt.Errorf("%w: read request body: %v", usecase.ErrInvalidInput, err)
	}
	if len(body) == 0 {
		return nil
	}
	if err := sonic.ConfigDefault.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("%w: invalid JSON body: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func (h *Handler) requireActor(ctx context.Context) (usecase.Actor, error) {
	actor, ok := actorFromContext(ctx)
	if !ok || actor.UserID == "" {
		return usecase.Actor{}, fmt.Errorf("%w: authentication required", usecase.ErrUnauthorized)
	}
	return actor, nil
}

// logFailure logs client errors at warn and everything else at error.
func (h *Handler) logFailure(ctx context.Context, msg string, err error, args ...any) {
	args = append(args, "error", err)
	if mapError(err).HTTPStatus >= http.StatusInternalServerError {
		tracing.Fail(ctx, err)
		h.logger.ErrorContext(ctx, msg, args...)
		return
	}
	h.logger.WarnContext(ctx, msg, args...)
}
