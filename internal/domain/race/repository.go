package race

import (
	"context"
	"time"
)

// Repository describes race persistence needs from use cases.
type Repository interface {
	// UpsertRaces inserts or updates races keyed by year and round and returns
	// the stored rows with their ids.
	UpsertRaces(ctx context.Context, items []Race) ([]Race, error)
	ListByYear(ctx context.Context, year int) ([]Race, error)
	GetByID(ctx context.Context, id int64) (Race, bool, error)
	// ListUpcoming returns up to limit races dated on or after day, soonest first.
	ListUpcoming(ctx context.Context, day time.Time, limit int) ([]Race, error)
	// LastCompletedOnOrBefore returns the latest completed race dated on or before day.
	LastCompletedOnOrBefore(ctx context.Context, day time.Time) (Race, bool, error)
	// UpsertResults inserts or updates results keyed by race, driver and session.
	UpsertResults(ctx context.Context, items []Result) error
	// ListResultsBetween returns results of races dated within [from, to].
	ListResultsBetween(ctx context.Context, from, to time.Time) ([]Result, error)
	// ListResultsByRace returns every session result of one race in classification order.
	ListResultsByRace(ctx context.Context, raceID int64) ([]Result, error)
}
