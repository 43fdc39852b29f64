package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/f1-fantasy/internal/domain/race"
	"github.com/riskibarqy/f1-fantasy/internal/infrastructure/repository/memory"
	racemock "github.com/riskibarqy/f1-fantasy/internal/mocks/domain/race"
	"github.com/stretchr/testify/mock"
)

func feedRaces() []race.FeedRace {
	return []race.FeedRace{
		{
			Year:    2025,
			Round:   1,
			Name:    "Australian Grand Prix",
			Circuit: "Albert Park Grand Prix Circuit",
			Date:    time.Date(2025, 3, 16, 0, 0, 0, 0, time.UTC),
			Entries: []race.FeedEntry{
				{DriverRef: "norris", DriverCode: "NOR", GivenName: "Lando", FamilyName: "Norris", ConstructorRef: "mclaren", ConstructorName: "McLaren", Position: 1, Points: 25, Status: "Finished"},
				{DriverRef: "max_verstappen", DriverCode: "VER", GivenName: "Max", FamilyName: "Verstappen", ConstructorRef: "red_bull", ConstructorName: "Red Bull", Position: 2, Points: 18, Status: "Finished"},
			},
		},
		{
			Year:    2025,
			Round:   2,
			Name:    "Chinese Grand Prix",
			Circuit: "Shanghai International Circuit",
			Date:    time.Date(2025, 3, 23, 0, 0, 0, 0, time.UTC),
			Entries: []race.FeedEntry{
				{DriverRef: "max_verstappen", DriverCode: "VER", GivenName: "Max", FamilyName: "Verstappen", ConstructorRef: "red_bull", ConstructorName: "Red Bull", Position: 4, Points: 12, Status: "Finished"},
				{DriverRef: "lawson", DriverCode: "LAW", GivenName: "Liam", FamilyName: "Lawson", ConstructorRef: "rb", ConstructorName: "RB F1 Team", Position: 12, Points: 0, Status: "Finished"},
			},
		},
	}
}

func sprintRaces() []race.FeedRace {
	return []race.FeedRace{
		{
			Year:  2025,
			Round: 2,
			Name:  "Chinese Grand Prix",
			Date:  time.Date(2025, 3, 23, 0, 0, 0, 0, time.UTC),
			Entries: []race.FeedEntry{
				{DriverRef: "hamilton", DriverCode: "HAM", GivenName: "Lewis", FamilyName: "Hamilton", ConstructorRef: "ferrari", ConstructorName: "Ferrari", Position: 1, Points: 8, Status: "Finished"},
			},
		},
	}
}

func TestSeasonSyncService_Sync(t *testing.T) {
	t.Parallel()

	feed := racemock.NewSeasonFeed(t)
	feed.On("FetchSession", mock.Anything, 2025, race.SessionRace).Return(feedRaces(), nil).Once()
	feed.On("FetchSession", mock.Anything, 2025, race.SessionSprint).Return(sprintRaces(), nil).Once()
	feed.On("FetchSession", mock.Anything, 2025, race.SessionQualifying).Return(nil, errors.New("upstream timeout")).Once()

	drivers := memory.NewDriverRepository(nil)
	constructors := memory.NewConstructorRepository(nil)
	races := memory.NewRaceRepository(nil, nil)
	svc := NewSeasonSyncService(feed, drivers, constructors, races, SeasonSyncConfig{Workers: 2}, nil)

	result, err := svc.Sync(context.Background(), 2025)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if result.Year != 2025 || result.Constructors != 4 || result.Drivers != 4 || result.Races != 2 || result.Results != 5 {
		t.Fatalf("unexpected result: %+v", result)
	}

	failed := 0
	for _, item := range result.Sessions {
		if item.Status == sessionStatusFailed {
			failed++
			if item.Session != race.SessionQualifying {
				t.Fatalf("unexpected failed session: %s", item.Session)
			}
		}
	}
	if failed != 1 {
		t.Fatalf("expected one failed session, got %d", failed)
	}

	catalog, err := drivers.List(context.Background())
	if err != nil {
		t.Fatalf("list drivers: %v", err)
	}
	if catalog[0].ID != "hamilton" || catalog[1].ID != "lawson" {
		t.Fatalf("unexpected catalog order: %+v", catalog)
	}

	calendar, err := races.ListByYear(context.Background(), 2025)
	if err != nil {
		t.Fatalf("list races: %v", err)
	}
	if len(calendar) != 2 || !calendar[0].Completed || !calendar[1].Completed {
		t.Fatalf("unexpected calendar: %+v", calendar)
	}

	scored, err := races.ListResultsBetween(context.Background(), time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC), time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("list results: %v", err)
	}
	if len(scored) != 3 {
		t.Fatalf("expected 3 results for round 2, got %d", len(scored))
	}
}

func TestSeasonSyncService_RaceSessionFailureAborts(t *testing.T) {
	t.Parallel()

	feed := racemock.NewSeasonFeed(t)
	feed.On("FetchSession", mock.Anything, 2025, race.SessionRace).Return(nil, errors.New("circuit open")).Once()
	feed.On("FetchSession", mock.Anything, 2025, mock.Anything).Return(nil, nil)

	drivers := memory.NewDriverRepository(nil)
	svc := NewSeasonSyncService(feed, drivers, memory.NewConstructorRepository(nil), memory.NewRaceRepository(nil, nil), SeasonSyncConfig{}, nil)

	_, err := svc.Sync(context.Background(), 2025)
	if err == nil {
		t.Fatalf("expected error")
	}

	catalog, _ := drivers.List(context.Background())
	if len(catalog) != 0 {
		t.Fatalf("nothing may be written when the race session fails")
	}
}

func TestSeasonSyncService_DefaultYear(t *testing.T) {
	t.Parallel()

	feed := racemock.NewSeasonFeed(t)
	feed.On("FetchSession", mock.Anything, 2023, mock.Anything).Return(nil, nil).Times(3)

	svc := NewSeasonSyncService(feed, memory.NewDriverRepository(nil), memory.NewConstructorRepository(nil), memory.NewRaceRepository(nil, nil), SeasonSyncConfig{DefaultYear: 2023}, nil)
	result, err := svc.Sync(context.Background(), 0)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if result.Year != 2023 {
		t.Fatalf("unexpected year: %d", result.Year)
	}
}

func TestSeasonSyncService_RenamedConstructorKeepsItsID(t *testing.T) {
	t.Parallel()

	renamed := []race.FeedRace{
		{
			Year: 2024, Round: 1, Name: "Bahrain Grand Prix", Date: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC),
			Entries: []race.FeedEntry{
				{DriverRef: "tsunoda", DriverCode: "TSU", FamilyName: "Tsunoda", ConstructorRef: "rb", ConstructorName: "RB F1 Team", Position: 14, Status: "Finished"},
			},
		},
		{
			Year: 2024, Round: 2, Name: "Saudi Arabian Grand Prix", Date: time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC),
			Entries: []race.FeedEntry{
				{DriverRef: "tsunoda", DriverCode: "TSU", FamilyName: "Tsunoda", ConstructorRef: "rb", ConstructorName: "Racing Bulls", Position: 15, Status: "Finished"},
				{DriverRef: "bearman", FamilyName: "Bearman", ConstructorRef: "ferrari", ConstructorName: "Ferrari", Position: 7, Points: 6, Status: "Finished"},
			},
		},
	}

	feed := racemock.NewSeasonFeed(t)
	feed.On("FetchSession", mock.Anything, 2024, race.SessionRace).Return(renamed, nil).Once()
	feed.On("FetchSession", mock.Anything, 2024, mock.Anything).Return(nil, nil)

	drivers := memory.NewDriverRepository(memory.SeedDrivers())
	constructors := memory.NewConstructorRepository(memory.SeedConstructors())
	svc := NewSeasonSyncService(feed, drivers, constructors, memory.NewRaceRepository(nil, nil), SeasonSyncConfig{}, nil)

	result, err := svc.Sync(context.Background(), 2024)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if result.Constructors != 2 {
		t.Fatalf("expected two constructors in the feed, got %d", result.Constructors)
	}

	catalog, err := constructors.List(context.Background())
	if err != nil {
		t.Fatalf("list constructors: %v", err)
	}
	if len(catalog) != len(memory.SeedConstructors()) {
		t.Fatalf("rename must not add a row, got %d constructors", len(catalog))
	}
	rb, ok, err := constructors.GetByID(context.Background(), "rb")
	if err != nil || !ok || rb.Name != "Racing Bulls" {
		t.Fatalf("unexpected rb row: %+v ok=%v err=%v", rb, ok, err)
	}

	bearman, ok, err := drivers.GetByID(context.Background(), "bearman")
	if err != nil || !ok {
		t.Fatalf("bearman missing: ok=%v err=%v", ok, err)
	}
	if bearman.Code != "BEA" {
		t.Fatalf("expected fallback code BEA, got %q", bearman.Code)
	}
}

func TestDriverCodeFallback(t *testing.T) {
	t.Parallel()

	cases := map[string]race.FeedEntry{
		"VER": {DriverRef: "max_verstappen", DriverCode: " ver "},
		"MAX": {DriverRef: "max_verstappen"},
		"ZH":  {DriverRef: "zh"},
		"":    {},
	}
	for want, entry := range cases {
		if got := driverCode(entry); got != want {
			t.Fatalf("driverCode(%+v) = %q, want %q", entry, got, want)
		}
	}
}
