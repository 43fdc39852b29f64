package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/f1-fantasy/internal/domain/draft"
	"github.com/riskibarqy/f1-fantasy/internal/domain/era"
	"github.com/riskibarqy/f1-fantasy/internal/domain/race"
	"github.com/riskibarqy/f1-fantasy/internal/domain/team"
	"github.com/riskibarqy/f1-fantasy/internal/infrastructure/repository/memory"
)

func TestScoreRosters(t *testing.T) {
	t.Parallel()

	picks, err := draft.GenerateSnakeOrder([]string{"a", "b", "c"}, 2)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	picks[0].DriverID = "ver"
	picks[1].DriverID = "nor"
	picks[2].ConstructorID = "red_bull"
	picks[3].DriverID = "per"
	board := draft.NewBoard(1, 1, picks)

	teams := []team.Team{
		{ID: "a", Name: "Alpha"},
		{ID: "b", Name: "Bravo"},
		{ID: "c", Name: "Charlie"},
	}
	results := []race.Result{
		{DriverID: "ver", ConstructorID: "red_bull", Session: race.SessionRace, Points: 25},
		{DriverID: "per", ConstructorID: "red_bull", Session: race.SessionRace, Points: 18},
		{DriverID: "nor", ConstructorID: "mclaren", Session: race.SessionRace, Points: 15},
		{DriverID: "nor", ConstructorID: "mclaren", Session: race.SessionSprint, Points: 8},
	}

	rows := ScoreRosters(board, teams, results)
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}

	want := []struct {
		teamID string
		points float64
	}{
		{"c", 61},
		{"a", 25},
		{"b", 23},
	}
	for i, w := range want {
		if rows[i].Team.ID != w.teamID || rows[i].Points != w.points || rows[i].Rank != i+1 {
			t.Fatalf("row %d: got team=%s points=%v rank=%d want team=%s points=%v", i, rows[i].Team.ID, rows[i].Points, rows[i].Rank, w.teamID, w.points)
		}
	}
}

func TestScoreRosters_TiesByName(t *testing.T) {
	t.Parallel()

	rows := ScoreRosters(draft.Board{}, []team.Team{{ID: "2", Name: "Zeta"}, {ID: "1", Name: "Alpha"}}, nil)
	if rows[0].Team.Name != "Alpha" || rows[1].Team.Name != "Zeta" {
		t.Fatalf("unexpected order: %+v", rows)
	}
}

func TestStandingsService_Standings(t *testing.T) {
	t.Parallel()

	draftRepo := memory.NewDraftRepository(memory.SeedEras(), memory.SeedBoard())
	rules := draft.DefaultRules()
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	if _, err := draftRepo.Commit(context.Background(), draft.Commit{PickNumber: 1, TeamID: "team-undercut", AssetType: draft.AssetDriver, AssetID: "max_verstappen"}, rules, at); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if _, err := draftRepo.Commit(context.Background(), draft.Commit{PickNumber: 2, TeamID: "team-dirty-air", AssetType: draft.AssetConstructor, AssetID: "ferrari"}, rules, at); err != nil {
		t.Fatalf("commit: %v", err)
	}

	svc := NewStandingsService(
		draftRepo,
		draftRepo,
		memory.NewTeamRepository(memory.SeedTeams()),
		memory.NewRaceRepository(memory.SeedRaces(), memory.SeedResults()),
		nil,
	)
	svc.now = func() time.Time { return time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC) }

	got, err := svc.Standings(context.Background())
	if err != nil {
		t.Fatalf("standings: %v", err)
	}
	if got.Era == nil || got.Era.ID != memory.SeedEraID {
		t.Fatalf("unexpected era: %+v", got.Era)
	}
	if len(got.Rows) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(got.Rows))
	}
	if got.Rows[0].Team.ID != "team-dirty-air" || got.Rows[0].Points != 27 {
		t.Fatalf("unexpected leader: %+v", got.Rows[0])
	}
	if got.Rows[1].Team.ID != "team-undercut" || got.Rows[1].Points != 26 {
		t.Fatalf("unexpected second: %+v", got.Rows[1])
	}
}

// rolledEras reports a newer active era than the board being scored, as seen
// when a new round starts between reads.
type rolledEras struct {
	era.Repository
	newer era.Era
}

func (r rolledEras) GetActive(context.Context) (era.Era, bool, error) {
	return r.newer, true, nil
}

func TestStandingsService_UsesEraOfBoard(t *testing.T) {
	t.Parallel()

	draftRepo := memory.NewDraftRepository(memory.SeedEras(), memory.SeedBoard())
	rules := draft.DefaultRules()
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	if _, err := draftRepo.Commit(context.Background(), draft.Commit{PickNumber: 1, TeamID: "team-undercut", AssetType: draft.AssetDriver, AssetID: "max_verstappen"}, rules, at); err != nil {
		t.Fatalf("commit: %v", err)
	}

	eras := rolledEras{
		Repository: draftRepo,
		newer:      era.Era{ID: memory.SeedEraID + 1, StartDate: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)},
	}
	svc := NewStandingsService(
		draftRepo,
		eras,
		memory.NewTeamRepository(memory.SeedTeams()),
		memory.NewRaceRepository(memory.SeedRaces(), memory.SeedResults()),
		nil,
	)
	svc.now = func() time.Time { return time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC) }

	got, err := svc.Standings(context.Background())
	if err != nil {
		t.Fatalf("standings: %v", err)
	}
	if got.Era == nil || got.Era.ID != memory.SeedEraID {
		t.Fatalf("standings must use the era of the board, got %+v", got.Era)
	}
	if got.Rows[0].Team.ID != "team-undercut" || got.Rows[0].Points != 26 {
		t.Fatalf("unexpected leader: %+v", got.Rows[0])
	}
}

type orphanBoard struct {
	draft.Repository
}

func (orphanBoard) ActiveBoard(context.Context) (draft.Board, bool, error) {
	return draft.NewBoard(404, 1, nil), true, nil
}

func TestStandingsService_BoardWithoutEra(t *testing.T) {
	t.Parallel()

	draftRepo := memory.NewDraftRepository(memory.SeedEras(), memory.SeedBoard())
	svc := NewStandingsService(orphanBoard{Repository: draftRepo}, draftRepo, memory.NewTeamRepository(memory.SeedTeams()), memory.NewRaceRepository(nil, nil), nil)

	if _, err := svc.Standings(context.Background()); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}
