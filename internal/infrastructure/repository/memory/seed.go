package memory

import (
	"time"

	"github.com/riskibarqy/f1-fantasy/internal/domain/constructor"
	"github.com/riskibarqy/f1-fantasy/internal/domain/draft"
	"github.com/riskibarqy/f1-fantasy/internal/domain/driver"
	"github.com/riskibarqy/f1-fantasy/internal/domain/era"
	"github.com/riskibarqy/f1-fantasy/internal/domain/race"
	"github.com/riskibarqy/f1-fantasy/internal/domain/team"
)

const (
	SeedSeasonYear = 2024
	SeedEraID      = int64(1)
)

func SeedConstructors() []constructor.Constructor {
	return []constructor.Constructor{
		{ID: "red_bull", Name: "Red Bull", Nationality: "Austrian"},
		{ID: "mercedes", Name: "Mercedes", Nationality: "German"},
		{ID: "ferrari", Name: "Ferrari", Nationality: "Italian"},
		{ID: "mclaren", Name: "McLaren", Nationality: "British"},
		{ID: "aston_martin", Name: "Aston Martin", Nationality: "British"},
		{ID: "alpine", Name: "Alpine F1 Team", Nationality: "French"},
		{ID: "williams", Name: "Williams", Nationality: "British"},
		{ID: "rb", Name: "RB F1 Team", Nationality: "Italian"},
		{ID: "sauber", Name: "Sauber", Nationality: "Swiss"},
		{ID: "haas", Name: "Haas F1 Team", Nationality: "American"},
	}
}

func SeedDrivers() []driver.Driver {
	return []driver.Driver{
		{ID: "max_verstappen", Code: "VER", GivenName: "Max", FamilyName: "Verstappen", Nationality: "Dutch", ConstructorID: "red_bull", PermanentNumber: 33},
		{ID: "perez", Code: "PER", GivenName: "Sergio", FamilyName: "Pérez", Nationality: "Mexican", ConstructorID: "red_bull", PermanentNumber: 11},
		{ID: "hamilton", Code: "HAM", GivenName: "Lewis", FamilyName: "Hamilton", Nationality: "British", ConstructorID: "mercedes", PermanentNumber: 44},
		{ID: "russell", Code: "RUS", GivenName: "George", FamilyName: "Russell", Nationality: "British", ConstructorID: "mercedes", PermanentNumber: 63},
		{ID: "leclerc", Code: "LEC", GivenName: "Charles", FamilyName: "Leclerc", Nationality: "Monegasque", ConstructorID: "ferrari", PermanentNumber: 16},
		{ID: "sainz", Code: "SAI", GivenName: "Carlos", FamilyName: "Sainz", Nationality: "Spanish", ConstructorID: "ferrari", PermanentNumber: 55},
		{ID: "norris", Code: "NOR", GivenName: "Lando", FamilyName: "Norris", Nationality: "British", ConstructorID: "mclaren", PermanentNumber: 4},
		{ID: "piastri", Code: "PIA", GivenName: "Oscar", FamilyName: "Piastri", Nationality: "Australian", ConstructorID: "mclaren", PermanentNumber: 81},
		{ID: "alonso", Code: "ALO", GivenName: "Fernando", FamilyName: "Alonso", Nationality: "Spanish", ConstructorID: "aston_martin", PermanentNumber: 14},
		{ID: "stroll", Code: "STR", GivenName: "Lance", FamilyName: "Stroll", Nationality: "Canadian", ConstructorID: "aston_martin", PermanentNumber: 18},
		{ID: "gasly", Code: "GAS", GivenName: "Pierre", FamilyName: "Gasly", Nationality: "French", ConstructorID: "alpine", PermanentNumber: 10},
		{ID: "ocon", Code: "OCO", GivenName: "Esteban", FamilyName: "Ocon", Nationality: "French", ConstructorID: "alpine", PermanentNumber: 31},
		{ID: "albon", Code: "ALB", GivenName: "Alexander", FamilyName: "Albon", Nationality: "Thai", ConstructorID: "williams", PermanentNumber: 23},
		{ID: "sargeant", Code: "SAR", GivenName: "Logan", FamilyName: "Sargeant", Nationality: "American", ConstructorID: "williams", PermanentNumber: 2},
		{ID: "tsunoda", Code: "TSU", GivenName: "Yuki", FamilyName: "Tsunoda", Nationality: "Japanese", ConstructorID: "rb", PermanentNumber: 22},
		{ID: "ricciardo", Code: "RIC", GivenName: "Daniel", FamilyName: "Ricciardo", Nationality: "Australian", ConstructorID: "rb", PermanentNumber: 3},
		{ID: "bottas", Code: "BOT", GivenName: "Valtteri", FamilyName: "Bottas", Nationality: "Finnish", ConstructorID: "sauber", PermanentNumber: 77},
		{ID: "zhou", Code: "ZHO", GivenName: "Guanyu", FamilyName: "Zhou", Nationality: "Chinese", ConstructorID: "sauber", PermanentNumber: 24},
		{ID: "hulkenberg", Code: "HUL", GivenName: "Nico", FamilyName: "Hülkenberg", Nationality: "German", ConstructorID: "haas", PermanentNumber: 27},
		{ID: "kevin_magnussen", Code: "MAG", GivenName: "Kevin", FamilyName: "Magnussen", Nationality: "Danish", ConstructorID: "haas", PermanentNumber: 20},
	}
}

func SeedTeams() []team.Team {
	created := time.Date(2024, 2, 20, 0, 0, 0, 0, time.UTC)
	return []team.Team{
		{ID: "team-undercut", Name: "Undercut Merchants", OwnerID: "user-alpha", CreatedAt: created, UpdatedAt: created},
		{ID: "team-dirty-air", Name: "Dirty Air Collective", OwnerID: "user-bravo", CreatedAt: created, UpdatedAt: created},
		{ID: "team-bot-box", Name: "Box Box Bot", IsBot: true, CreatedAt: created, UpdatedAt: created},
		{ID: "team-bot-drs", Name: "DRS Train Bot", IsBot: true, CreatedAt: created, UpdatedAt: created},
	}
}

func SeedRaces() []race.Race {
	return []race.Race{
		{ID: 1, Year: SeedSeasonYear, Round: 1, Name: "Bahrain Grand Prix", Circuit: "Bahrain International Circuit", Date: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), Completed: true},
		{ID: 2, Year: SeedSeasonYear, Round: 2, Name: "Saudi Arabian Grand Prix", Circuit: "Jeddah Corniche Circuit", Date: time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)},
		{ID: 3, Year: SeedSeasonYear, Round: 3, Name: "Australian Grand Prix", Circuit: "Albert Park Grand Prix Circuit", Date: time.Date(2024, 3, 24, 0, 0, 0, 0, time.UTC)},
		{ID: 4, Year: SeedSeasonYear, Round: 4, Name: "Japanese Grand Prix", Circuit: "Suzuka Circuit", Date: time.Date(2024, 4, 7, 0, 0, 0, 0, time.UTC)},
	}
}

func SeedResults() []race.Result {
	classified := []struct {
		driverID      string
		constructorID string
		points        float64
	}{
		{"max_verstappen", "red_bull", 26},
		{"perez", "red_bull", 18},
		{"sainz", "ferrari", 15},
		{"leclerc", "ferrari", 12},
		{"russell", "mercedes", 10},
		{"norris", "mclaren", 8},
		{"hamilton", "mercedes", 6},
		{"piastri", "mclaren", 4},
		{"alonso", "aston_martin", 2},
		{"stroll", "aston_martin", 1},
	}

	out := make([]race.Result, 0, len(classified))
	for i, item := range classified {
		out = append(out, race.Result{
			RaceID:        1,
			DriverID:      item.driverID,
			ConstructorID: item.constructorID,
			Session:       race.SessionRace,
			Position:      i + 1,
			Points:        item.points,
			Status:        "Finished",
		})
	}
	return out
}

// SeedEras opens the first era at the start of the seeded season.
func SeedEras() []era.Era {
	return []era.Era{
		{
			ID:         SeedEraID,
			Label:      era.LabelFor(1),
			Year:       SeedSeasonYear,
			StartDate:  time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			Generation: 1,
		},
	}
}

// SeedBoard lays out a fresh four round board for the seeded teams.
func SeedBoard() []draft.Pick {
	teams := SeedTeams()
	teamIDs := make([]string, 0, len(teams))
	for _, item := range teams {
		teamIDs = append(teamIDs, item.ID)
	}

	picks, err := draft.GenerateSnakeOrder(teamIDs, draft.DefaultRules().RosterSize())
	if err != nil {
		return nil
	}
	for i := range picks {
		picks[i].EraID = SeedEraID
	}
	return picks
}
