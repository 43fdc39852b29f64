package draft

import "errors"

var (
	ErrStaleTurn         = errors.New("stale turn")
	ErrNotYourTurn       = errors.New("not your turn")
	ErrAssetAlreadyTaken = errors.New("asset already taken")
	ErrRosterCapExceeded = errors.New("roster cap exceeded")
	ErrNoLegalMoves      = errors.New("no legal moves")
	ErrInvalidDraftOrder = errors.New("invalid draft order")
)

// RejectionReason names the draft error carried by err, or "" when err is not
// a draft rejection.
func RejectionReason(err error) string {
	switch {
	case errors.Is(err, ErrStaleTurn):
		return "stale_turn"
	case errors.Is(err, ErrNotYourTurn):
		return "not_your_turn"
	case errors.Is(err, ErrAssetAlreadyTaken):
		return "asset_already_taken"
	case errors.Is(err, ErrRosterCapExceeded):
		return "roster_cap_exceeded"
	case errors.Is(err, ErrNoLegalMoves):
		return "no_legal_moves"
	default:
		return ""
	}
}
