package usecase

import (
	"errors"
	"fmt"
)

// Caller-facing failure classes. Adapters wrap these with %w and the HTTP
// layer maps each one to a status. Draft rejections (draft.ErrStaleTurn and
// friends) travel unwrapped and keep their own reasons.
var (
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound covers unknown teams, eras and races.
	ErrNotFound     = errors.New("resource not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	// ErrConflict is a state clash: a second team for one owner, or a board
	// whose era no longer exists.
	ErrConflict = errors.New("conflict")
	// ErrDependencyUnavailable is the account service, the results feed or an
	// unconfigured optional component.
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)

func notFound(kind string, id any) error {
	return fmt.Errorf("%w: %s=%v", ErrNotFound, kind, id)
}
