package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/f1-fantasy/internal/domain/constructor"
	"github.com/riskibarqy/f1-fantasy/internal/domain/driver"
	"github.com/riskibarqy/f1-fantasy/internal/domain/race"
	"github.com/riskibarqy/f1-fantasy/internal/platform/logging"
)

const (
	sessionStatusSuccess = "success"
	sessionStatusFailed  = "failed"
)

type SeasonSyncConfig struct {
	// DefaultYear overrides the current UTC year when a sync names no year.
	DefaultYear int
	Workers     int
}

type SessionSyncResult struct {
	Session    race.Session `json:"session"`
	Races      int          `json:"races"`
	Entries    int          `json:"entries"`
	Status     string       `json:"status"`
	Message    string       `json:"message,omitempty"`
	DurationMs int64        `json:"duration_ms"`
}

type SeasonSyncResult struct {
	Year         int                 `json:"year"`
	Constructors int                 `json:"constructors"`
	Drivers      int                 `json:"drivers"`
	Races        int                 `json:"races"`
	Results      int                 `json:"results"`
	Sessions     []SessionSyncResult `json:"sessions"`
}

// SeasonSyncService copies one season of the results feed into storage.
type SeasonSyncService struct {
	feed            race.SeasonFeed
	driverRepo      driver.Repository
	constructorRepo constructor.Repository
	raceRepo        race.Repository
	cfg             SeasonSyncConfig
	logger          *logging.Logger
	now             func() time.Time
}

func NewSeasonSyncService(
	feed race.SeasonFeed,
	driverRepo driver.Repository,
	constructorRepo constructor.Repository,
	raceRepo race.Repository,
	cfg SeasonSyncConfig,
	logger *logging.Logger,
) *SeasonSyncService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Workers <= 0 {
		cfg.Workers = len(race.Sessions())
	}

	return &SeasonSyncService{
		feed:            feed,
		driverRepo:      driverRepo,
		constructorRepo: constructorRepo,
		raceRepo:        raceRepo,
		cfg:             cfg,
		logger:          logger,
		now:             time.Now,
	}
}

type sessionFetch struct {
	session race.Session
	races   []race.FeedRace
	err     error
	result  SessionSyncResult
}

func (s *SeasonSyncService) Sync(ctx context.Context, year int) (SeasonSyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeasonSyncService.Sync")
	defer span.End()

	if s.feed == nil {
		return SeasonSyncResult{}, fmt.Errorf("%w: season feed is not configured", ErrDependencyUnavailable)
	}
	if year == 0 {
		year = s.cfg.DefaultYear
	}
	if year == 0 {
		year = s.now().UTC().Year()
	}
	if year < 1950 {
		return SeasonSyncResult{}, fmt.Errorf("%w: year must be >= 1950", ErrInvalidInput)
	}

	fetched, err := s.fetchSessions(ctx, year)
	if err != nil {
		return SeasonSyncResult{}, err
	}

	result := SeasonSyncResult{Year: year, Sessions: make([]SessionSyncResult, 0, len(fetched))}
	usable := make([]sessionFetch, 0, len(fetched))
	for _, item := range fetched {
		result.Sessions = append(result.Sessions, item.result)
		if item.err != nil {
			if item.session == race.SessionRace {
				return result, fmt.Errorf("fetch %s session year=%d: %w", item.session, year, item.err)
			}
			s.logger.WarnContext(ctx, "season sync session failed",
				"year", year,
				"session", item.session,
				"error", item.err,
			)
			continue
		}
		usable = append(usable, item)
	}

	constructors := collectConstructors(usable)
	if err := s.constructorRepo.Upsert(ctx, constructors); err != nil {
		return result, fmt.Errorf("upsert constructors: %w", err)
	}
	result.Constructors = len(constructors)

	drivers := collectDrivers(usable)
	if err := s.driverRepo.Upsert(ctx, drivers); err != nil {
		return result, fmt.Errorf("upsert drivers: %w", err)
	}
	result.Drivers = len(drivers)

	stored, err := s.raceRepo.UpsertRaces(ctx, collectRaces(usable))
	if err != nil {
		return result, fmt.Errorf("upsert races: %w", err)
	}
	result.Races = len(stored)

	raceIDs := make(map[race.Key]int64, len(stored))
	for _, item := range stored {
		raceIDs[item.Key()] = item.ID
	}
	results := collectResults(usable, raceIDs)
	if err := s.raceRepo.UpsertResults(ctx, results); err != nil {
		return result, fmt.Errorf("upsert results: %w", err)
	}
	result.Results = len(results)

	s.logger.InfoContext(ctx, "season sync finished",
		"year", year,
		"constructors", result.Constructors,
		"drivers", result.Drivers,
		"races", result.Races,
		"results", result.Results,
	)
	return result, nil
}

func (s *SeasonSyncService) fetchSessions(ctx context.Context, year int) ([]sessionFetch, error) {
	sessions := race.Sessions()
	out := make([]sessionFetch, len(sessions))

	pool, err := ants.NewPool(s.cfg.Workers)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for idx, session := range sessions {
		idx, session := idx, session
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			start := time.Now()
			races, err := s.feed.FetchSession(ctx, year, session)
			item := sessionFetch{
				session: session,
				races:   races,
				err:     err,
				result: SessionSyncResult{
					Session:    session,
					Races:      len(races),
					Status:     sessionStatusSuccess,
					DurationMs: time.Since(start).Milliseconds(),
				},
			}
			for _, r := range races {
				item.result.Entries += len(r.Entries)
			}
			if err != nil {
				item.result.Status = sessionStatusFailed
				item.result.Message = err.Error()
			}
			out[idx] = item
		}); err != nil {
			workers.Done()
			return nil, fmt.Errorf("submit task to worker pool: %w", err)
		}
	}
	workers.Wait()

	return out, nil
}

// catalogSeen is the round a catalog entry was last observed in. Later rounds win.
type catalogSeen struct {
	year  int
	round int
}

func (s catalogSeen) newerThan(r race.FeedRace) bool {
	return s.year > r.Year || (s.year == r.Year && s.round > r.Round)
}

// collectConstructors keys constructors by feed reference and keeps the name of
// their most recent race.
func collectConstructors(fetched []sessionFetch) []constructor.Constructor {
	type seen struct {
		catalogSeen
		item constructor.Constructor
	}
	byRef := make(map[string]seen)
	for _, item := range fetched {
		for _, r := range item.races {
			for _, entry := range r.Entries {
				ref := strings.TrimSpace(entry.ConstructorRef)
				name := strings.TrimSpace(entry.ConstructorName)
				if ref == "" || name == "" {
					continue
				}
				if existing, ok := byRef[ref]; ok && existing.newerThan(r) {
					continue
				}
				byRef[ref] = seen{
					catalogSeen: catalogSeen{year: r.Year, round: r.Round},
					item: constructor.Constructor{
						ID:          ref,
						Name:        name,
						Nationality: entry.ConstructorNat,
					},
				}
			}
		}
	}

	out := make([]constructor.Constructor, 0, len(byRef))
	for _, item := range byRef {
		out = append(out, item.item)
	}
	constructor.SortCatalog(out)
	return out
}

// collectDrivers keys drivers by feed reference and keeps the code and
// constructor of their most recent race.
func collectDrivers(fetched []sessionFetch) []driver.Driver {
	type seen struct {
		catalogSeen
		item driver.Driver
	}
	byRef := make(map[string]seen)
	for _, item := range fetched {
		for _, r := range item.races {
			for _, entry := range r.Entries {
				ref := strings.TrimSpace(entry.DriverRef)
				if ref == "" {
					continue
				}
				if existing, ok := byRef[ref]; ok && existing.newerThan(r) {
					continue
				}
				byRef[ref] = seen{
					catalogSeen: catalogSeen{year: r.Year, round: r.Round},
					item: driver.Driver{
						ID:              ref,
						Code:            driverCode(entry),
						GivenName:       entry.GivenName,
						FamilyName:      entry.FamilyName,
						Nationality:     entry.Nationality,
						ConstructorID:   strings.TrimSpace(entry.ConstructorRef),
						PermanentNumber: entry.PermanentNumber,
					},
				}
			}
		}
	}

	out := make([]driver.Driver, 0, len(byRef))
	for _, item := range byRef {
		out = append(out, item.item)
	}
	driver.SortCatalog(out)
	return out
}

// driverCode falls back to the first three letters of the reference when the
// feed has no code, e.g. "max_verstappen" becomes "MAX".
func driverCode(entry race.FeedEntry) string {
	code := strings.ToUpper(strings.TrimSpace(entry.DriverCode))
	if code != "" {
		return code
	}
	ref := []rune(strings.ToUpper(strings.TrimSpace(entry.DriverRef)))
	if len(ref) > 3 {
		ref = ref[:3]
	}
	return string(ref)
}

func collectRaces(fetched []sessionFetch) []race.Race {
	byKey := make(map[race.Key]race.Race)
	for _, item := range fetched {
		for _, r := range item.races {
			key := race.Key{Year: r.Year, Round: r.Round}
			existing, ok := byKey[key]
			if !ok {
				existing = race.Race{
					Year:    r.Year,
					Round:   r.Round,
					Name:    r.Name,
					Circuit: r.Circuit,
					Date:    r.Date,
				}
			}
			if item.session == race.SessionRace && len(r.Entries) > 0 {
				existing.Completed = true
			}
			byKey[key] = existing
		}
	}

	out := make([]race.Race, 0, len(byKey))
	for _, item := range byKey {
		out = append(out, item)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Round < out[j].Round
	})
	return out
}

func collectResults(fetched []sessionFetch, raceIDs map[race.Key]int64) []race.Result {
	out := make([]race.Result, 0)
	for _, item := range fetched {
		for _, r := range item.races {
			raceID, ok := raceIDs[race.Key{Year: r.Year, Round: r.Round}]
			if !ok {
				continue
			}
			for _, entry := range r.Entries {
				if strings.TrimSpace(entry.DriverRef) == "" {
					continue
				}
				out = append(out, race.Result{
					RaceID:        raceID,
					Year:          r.Year,
					Round:         r.Round,
					DriverID:      strings.TrimSpace(entry.DriverRef),
					ConstructorID: strings.TrimSpace(entry.ConstructorRef),
					Session:       item.session,
					Position:      entry.Position,
					Points:        entry.Points,
					Status:        entry.Status,
					RaceDate:      r.Date,
				})
			}
		}
	}
	return out
}
