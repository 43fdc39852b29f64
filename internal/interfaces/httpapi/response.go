package httpapi

import (
	"context"
	"errors"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/f1-fantasy/internal/domain/draft"
	"github.com/riskibarqy/f1-fantasy/internal/usecase"
)

const (
	googleAPIVersion = "2.0"
	errorDomain      = "f1-fantasy"
)

type googleResponseEnvelope struct {
	APIVersion string           `json:"apiVersion"`
	Data       any              `json:"data,omitempty"`
	Error      *googleErrorBody `json:"error,omitempty"`
}

type googleErrorBody struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Status  string            `json:"status"`
	Errors  []googleErrorItem `json:"errors,omitempty"`
}

type googleErrorItem struct {
	Domain  string `json:"domain"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

type mappedError struct {
	HTTPStatus int
	Reason     string
	Status     string
}

// errorMappings is checked in order. Draft rejections come first so that a
// rejection wrapped in a generic sentinel keeps its specific reason.
var errorMappings = []struct {
	target error
	mapped mappedError
}{
	{draft.ErrStaleTurn, mappedError{http.StatusConflict, "staleTurn", "ABORTED"}},
	{draft.ErrNotYourTurn, mappedError{http.StatusForbidden, "notYourTurn", "PERMISSION_DENIED"}},
	{draft.ErrAssetAlreadyTaken, mappedError{http.StatusConflict, "assetAlreadyTaken", "ALREADY_EXISTS"}},
	{draft.ErrRosterCapExceeded, mappedError{http.StatusUnprocessableEntity, "rosterCapExceeded", "FAILED_PRECONDITION"}},
	{draft.ErrNoLegalMoves, mappedError{http.StatusUnprocessableEntity, "noLegalMoves", "FAILED_PRECONDITION"}},
	{draft.ErrInvalidDraftOrder, mappedError{http.StatusBadRequest, "invalidDraftOrder", "INVALID_ARGUMENT"}},
	{usecase.ErrInvalidInput, mappedError{http.StatusBadRequest, "invalidInput", "INVALID_ARGUMENT"}},
	{usecase.ErrNotFound, mappedError{http.StatusNotFound, "notFound", "NOT_FOUND"}},
	{usecase.ErrUnauthorized, mappedError{http.StatusUnauthorized, "unauthorized", "UNAUTHENTICATED"}},
	{usecase.ErrForbidden, mappedError{http.StatusForbidden, "forbidden", "PERMISSION_DENIED"}},
	{usecase.ErrConflict, mappedError{http.StatusConflict, "conflict", "ALREADY_EXISTS"}},
	{usecase.ErrDependencyUnavailable, mappedError{http.StatusServiceUnavailable, "dependencyUnavailable", "UNAVAILABLE"}},
}

var internalError = mappedError{http.StatusInternalServerError, "internalError", "INTERNAL"}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	_, span := startSpan(ctx, "httpapi.writeJSON")
	defer span.End()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = sonic.ConfigDefault.NewEncoder(w).Encode(payload)
}

func writeSuccess(ctx context.Context, w http.ResponseWriter, status int, data any) {
	writeJSON(ctx, w, status, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Data:       data,
	})
}

// writeError renders a classified error with its message. Unclassified errors
// get a generic message so storage details never leak.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	mapped := mapError(err)
	if mapped.HTTPStatus == http.StatusInternalServerError {
		writeInternalError(ctx, w)
		return
	}

	writeJSON(ctx, w, mapped.HTTPStatus, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Error: &googleErrorBody{
			Code:    mapped.HTTPStatus,
			Message: err.Error(),
			Status:  mapped.Status,
			Errors: []googleErrorItem{
				{
					Domain:  errorDomain,
					Reason:  mapped.Reason,
					Message: err.Error(),
				},
			},
		},
	})
}

func writeInternalError(ctx context.Context, w http.ResponseWriter) {
	const msg = "internal server error"

	writeJSON(ctx, w, http.StatusInternalServerError, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Error: &googleErrorBody{
			Code:    http.StatusInternalServerError,
			Message: msg,
			Status:  internalError.Status,
			Errors: []googleErrorItem{
				{
					Domain:  errorDomain,
					Reason:  internalError.Reason,
					Message: msg,
				},
			},
		},
	})
}

func mapError(err error) mappedError {
	for _, item := range errorMappings {
		if errors.Is(err, item.target) {
			return item.mapped
		}
	}
	return internalError
}
