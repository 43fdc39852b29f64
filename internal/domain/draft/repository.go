package draft

import (
	"context"
	"time"

	"github.com/riskibarqy/f1-fantasy/internal/domain/era"
)

// ResetPlan describes one board regeneration.
type ResetPlan struct {
	Picks   []Pick
	Archive bool
	// CloseOn is the end date of the closed era when Archive is set.
	CloseOn time.Time
	// Today opens the first era when none exists yet.
	Today time.Time
	At    time.Time
}

// CommitResult is a resolved pick together with the generation of the board
// it was committed on.
type CommitResult struct {
	Pick       Pick
	Generation int64
}

type ResetResult struct {
	Era        era.Era
	ClosedEra  *era.Era
	TotalPicks int
	Archived   int
}

// Repository describes draft persistence needs from use cases.
type Repository interface {
	// ActiveBoard returns the board of the active era. ok is false when no era is open.
	ActiveBoard(ctx context.Context) (Board, bool, error)
	// Commit validates and resolves one pick atomically.
	Commit(ctx context.Context, c Commit, rules Rules, at time.Time) (CommitResult, error)
	Reset(ctx context.Context, plan ResetPlan) (ResetResult, error)
	ListArchive(ctx context.Context, eraID int64) ([]ArchivedPick, error)
}
