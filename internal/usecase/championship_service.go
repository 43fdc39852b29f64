package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/riskibarqy/f1-fantasy/internal/domain/constructor"
	"github.com/riskibarqy/f1-fantasy/internal/domain/driver"
	"github.com/riskibarqy/f1-fantasy/internal/domain/race"
	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/otel/attribute"
)

const (
	championshipTopN = 10
	upcomingRaces    = 6
)

type DriverStanding struct {
	Rank            int
	Driver          driver.Driver
	ConstructorName string
	Points          float64
}

type ConstructorStanding struct {
	Rank        int
	Constructor constructor.Constructor
	Points      float64
}

type ClassifiedResult struct {
	Result          race.Result
	Driver          driver.Driver
	ConstructorName string
}

type RaceClassification struct {
	Race    race.Race
	Results []ClassifiedResult
}

// RaceWeekend is the next race on the calendar and the few after it.
type RaceWeekend struct {
	Next     race.Race
	Upcoming []race.Race
}

// ChampionshipService serves the real-world championship tables and race
// classifications that sit next to the fantasy league.
type ChampionshipService struct {
	raceRepo        race.Repository
	driverRepo      driver.Repository
	constructorRepo constructor.Repository
	now             func() time.Time
}

func NewChampionshipService(raceRepo race.Repository, driverRepo driver.Repository, constructorRepo constructor.Repository) *ChampionshipService {
	return &ChampionshipService{
		raceRepo:        raceRepo,
		driverRepo:      driverRepo,
		constructorRepo: constructorRepo,
		now:             time.Now,
	}
}

type catalogSnapshot struct {
	drivers          map[string]driver.Driver
	constructors     map[string]constructor.Constructor
	driverOrder      []driver.Driver
	constructorOrder []constructor.Constructor
}

// loadCatalog reads both catalogs concurrently with extra, which usually loads
// the results being labelled.
func (s *ChampionshipService) loadCatalog(ctx context.Context, extra func(ctx context.Context) error) (catalogSnapshot, error) {
	var snap catalogSnapshot
	p := pool.New().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) error {
		items, err := s.driverRepo.List(ctx)
		if err != nil {
			return fmt.Errorf("list drivers: %w", err)
		}
		snap.driverOrder = items
		return nil
	})
	p.Go(func(ctx context.Context) error {
		items, err := s.constructorRepo.List(ctx)
		if err != nil {
			return fmt.Errorf("list constructors: %w", err)
		}
		snap.constructorOrder = items
		return nil
	})
	p.Go(extra)
	if err := p.Wait(); err != nil {
		return catalogSnapshot{}, err
	}

	snap.drivers = make(map[string]driver.Driver, len(snap.driverOrder))
	for _, item := range snap.driverOrder {
		snap.drivers[item.ID] = item
	}
	snap.constructors = make(map[string]constructor.Constructor, len(snap.constructorOrder))
	for _, item := range snap.constructorOrder {
		snap.constructors[item.ID] = item
	}
	return snap, nil
}

func (c catalogSnapshot) driver(id string) driver.Driver {
	if item, ok := c.drivers[id]; ok {
		return item
	}
	return driver.Driver{ID: id}
}

func (c catalogSnapshot) constructor(id string) constructor.Constructor {
	if item, ok := c.constructors[id]; ok {
		return item
	}
	return constructor.Constructor{ID: id}
}

// seasonWindow spans the calendar year, or the current one when year is 0.
func (s *ChampionshipService) seasonWindow(year int) (time.Time, time.Time, error) {
	if year == 0 {
		year = s.now().UTC().Year()
	}
	if year < 1950 {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: year must be >= 1950", ErrInvalidInput)
	}
	return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC), time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC), nil
}

func (s *ChampionshipService) seasonResults(ctx context.Context, year int) ([]race.Result, catalogSnapshot, error) {
	from, to, err := s.seasonWindow(year)
	if err != nil {
		return nil, catalogSnapshot{}, err
	}

	var results []race.Result
	catalog, err := s.loadCatalog(ctx, func(ctx context.Context) error {
		var err error
		results, err = s.raceRepo.ListResultsBetween(ctx, from, to)
		if err != nil {
			return fmt.Errorf("list results of %d: %w", from.Year(), err)
		}
		return nil
	})
	if err != nil {
		return nil, catalogSnapshot{}, err
	}
	return results, catalog, nil
}

// DriverStandings returns the top ten drivers of year by points scored across
// every session. Ties keep catalog order.
func (s *ChampionshipService) DriverStandings(ctx context.Context, year int) ([]DriverStanding, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ChampionshipService.DriverStandings", attribute.Int("season.year", year))
	defer span.End()

	results, catalog, err := s.seasonResults(ctx, year)
	if err != nil {
		return nil, err
	}

	points := make(map[string]float64)
	for _, item := range results {
		points[item.DriverID] += item.Points
	}

	rows := make([]DriverStanding, 0, len(points))
	for _, item := range catalog.driverOrder {
		if total, ok := points[item.ID]; ok {
			rows = append(rows, DriverStanding{Driver: item, Points: total})
			delete(points, item.ID)
		}
	}
	// results whose driver is not in the catalog yet
	for _, id := range sortedKeys(points) {
		rows = append(rows, DriverStanding{Driver: catalog.driver(id), Points: points[id]})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Points > rows[j].Points
	})
	if len(rows) > championshipTopN {
		rows = rows[:championshipTopN]
	}
	for i := range rows {
		rows[i].Rank = i + 1
		rows[i].ConstructorName = catalog.constructor(rows[i].Driver.ConstructorID).Name
	}
	return rows, nil
}

// ConstructorStandings returns the top ten constructors of year by the points
// of every result carrying them.
func (s *ChampionshipService) ConstructorStandings(ctx context.Context, year int) ([]ConstructorStanding, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ChampionshipService.ConstructorStandings", attribute.Int("season.year", year))
	defer span.End()

	results, catalog, err := s.seasonResults(ctx, year)
	if err != nil {
		return nil, err
	}

	points := make(map[string]float64)
	for _, item := range results {
		if item.ConstructorID != "" {
			points[item.ConstructorID] += item.Points
		}
	}

	rows := make([]ConstructorStanding, 0, len(points))
	for _, item := range catalog.constructorOrder {
		if total, ok := points[item.ID]; ok {
			rows = append(rows, ConstructorStanding{Constructor: item, Points: total})
			delete(points, item.ID)
		}
	}
	for _, id := range sortedKeys(points) {
		rows = append(rows, ConstructorStanding{Constructor: catalog.constructor(id), Points: points[id]})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Points > rows[j].Points
	})
	if len(rows) > championshipTopN {
		rows = rows[:championshipTopN]
	}
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows, nil
}

// RaceResults returns the classification of one race, session by session, in
// finishing order.
func (s *ChampionshipService) RaceResults(ctx context.Context, raceID int64) (RaceClassification, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ChampionshipService.RaceResults", attribute.Int64("race.id", raceID))
	defer span.End()

	if raceID <= 0 {
		return RaceClassification{}, fmt.Errorf("%w: race id must be > 0", ErrInvalidInput)
	}

	item, ok, err := s.raceRepo.GetByID(ctx, raceID)
	if err != nil {
		return RaceClassification{}, fmt.Errorf("get race: %w", err)
	}
	if !ok {
		return RaceClassification{}, notFound("race", raceID)
	}

	var results []race.Result
	catalog, err := s.loadCatalog(ctx, func(ctx context.Context) error {
		var err error
		results, err = s.raceRepo.ListResultsByRace(ctx, raceID)
		if err != nil {
			return fmt.Errorf("list results of race %d: %w", raceID, err)
		}
		return nil
	})
	if err != nil {
		return RaceClassification{}, err
	}

	out := RaceClassification{Race: item, Results: make([]ClassifiedResult, 0, len(results))}
	for _, result := range results {
		out.Results = append(out.Results, ClassifiedResult{
			Result:          result,
			Driver:          catalog.driver(result.DriverID),
			ConstructorName: catalog.constructor(result.ConstructorID).Name,
		})
	}
	return out, nil
}

// NextRace returns the first race dated today or later together with the
// following ones.
func (s *ChampionshipService) NextRace(ctx context.Context) (RaceWeekend, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ChampionshipService.NextRace")
	defer span.End()

	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	items, err := s.raceRepo.ListUpcoming(ctx, today, upcomingRaces)
	if err != nil {
		return RaceWeekend{}, fmt.Errorf("list upcoming races: %w", err)
	}
	if len(items) == 0 {
		return RaceWeekend{}, fmt.Errorf("%w: no race on or after %s", ErrNotFound, today.Format(time.DateOnly))
	}
	return RaceWeekend{Next: items[0], Upcoming: items[1:]}, nil
}

func sortedKeys(m map[string]float64) []string {
	out := make([]string, 0, len(m))
	for key := range m {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}
