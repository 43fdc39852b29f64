package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/f1-fantasy/internal/domain/race"
)

type resultKey struct {
	raceID   int64
	driverID string
	session  race.Session
}

type RaceRepository struct {
	mu         sync.RWMutex
	races      map[race.Key]race.Race
	results    map[resultKey]race.Result
	nextRaceID int64
}

func NewRaceRepository(races []race.Race, results []race.Result) *RaceRepository {
	r := &RaceRepository{
		races:      make(map[race.Key]race.Race),
		results:    make(map[resultKey]race.Result),
		nextRaceID: 1,
	}
	_, _ = r.UpsertRaces(context.Background(), races)
	_ = r.UpsertResults(context.Background(), results)
	return r
}

func (r *RaceRepository) UpsertRaces(_ context.Context, items []race.Race) ([]race.Race, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]race.Race, 0, len(items))
	for _, item := range items {
		key := item.Key()
		if existing, ok := r.races[key]; ok {
			item.ID = existing.ID
			item.Completed = item.Completed || existing.Completed
		} else {
			if item.ID == 0 {
				item.ID = r.nextRaceID
			}
			if item.ID >= r.nextRaceID {
				r.nextRaceID = item.ID + 1
			}
		}
		r.races[key] = item
		out = append(out, item)
	}

	return out, nil
}

func (r *RaceRepository) ListByYear(_ context.Context, year int) ([]race.Race, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]race.Race, 0)
	for _, item := range r.races {
		if item.Year == year {
			out = append(out, item)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Round < out[j].Round
	})

	return out, nil
}

func (r *RaceRepository) GetByID(_ context.Context, id int64) (race.Race, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.races {
		if item.ID == id {
			return item, true, nil
		}
	}
	return race.Race{}, false, nil
}

func (r *RaceRepository) ListUpcoming(_ context.Context, day time.Time, limit int) ([]race.Race, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]race.Race, 0)
	for _, item := range r.races {
		if !item.Date.Before(day) {
			out = append(out, item)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}

func (r *RaceRepository) LastCompletedOnOrBefore(_ context.Context, day time.Time) (race.Race, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var (
		best  race.Race
		found bool
	)
	for _, item := range r.races {
		if !item.Completed || item.Date.After(day) {
			continue
		}
		if !found || item.Date.After(best.Date) {
			best = item
			found = true
		}
	}

	return best, found, nil
}

func (r *RaceRepository) UpsertResults(_ context.Context, items []race.Result) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range items {
		r.results[resultKey{raceID: item.RaceID, driverID: item.DriverID, session: item.Session}] = item
	}

	return nil
}

func (r *RaceRepository) ListResultsBetween(_ context.Context, from, to time.Time) ([]race.Result, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	dateByRace := make(map[int64]race.Race, len(r.races))
	for _, item := range r.races {
		dateByRace[item.ID] = item
	}

	out := make([]race.Result, 0)
	for _, item := range r.results {
		parent, ok := dateByRace[item.RaceID]
		if !ok || parent.Date.Before(from) || parent.Date.After(to) {
			continue
		}
		item.Year = parent.Year
		item.Round = parent.Round
		item.RaceDate = parent.Date
		out = append(out, item)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].RaceDate.Equal(out[j].RaceDate) {
			if out[i].Session != out[j].Session {
				return out[i].Session < out[j].Session
			}
			return out[i].Position < out[j].Position
		}
		return out[i].RaceDate.Before(out[j].RaceDate)
	})

	return out, nil
}

func (r *RaceRepository) ListResultsByRace(_ context.Context, raceID int64) ([]race.Result, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var parent race.Race
	for _, item := range r.races {
		if item.ID == raceID {
			parent = item
			break
		}
	}

	out := make([]race.Result, 0)
	for _, item := range r.results {
		if item.RaceID != raceID {
			continue
		}
		item.Year = parent.Year
		item.Round = parent.Round
		item.RaceDate = parent.Date
		out = append(out, item)
	}
	race.SortClassification(out)

	return out, nil
}
