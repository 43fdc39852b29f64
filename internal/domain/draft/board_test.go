package draft

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

var testTime = time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)

func newTestBoard(t *testing.T, teamIDs []string, rounds int) Board {
	t.Helper()

	picks, err := GenerateSnakeOrder(teamIDs, rounds)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	return NewBoard(1, 1, picks)
}

// apply validates c against b and returns the board with the pick resolved.
func apply(t *testing.T, b Board, c Commit, rules Rules) Board {
	t.Helper()

	if err := b.ValidateCommit(c, rules); err != nil {
		t.Fatalf("commit pick %d: %v", c.PickNumber, err)
	}
	picks := append([]Pick(nil), b.Picks...)
	for i := range picks {
		if picks[i].Number == c.PickNumber {
			picks[i] = c.Resolve(picks[i], testTime)
		}
	}
	return NewBoard(b.EraID, b.Generation, picks)
}

func TestBoardFourByFourScenario(t *testing.T) {
	t.Parallel()

	rules := DefaultRules()
	board := newTestBoard(t, []string{"A", "B", "C", "D"}, 4)

	current, ok := board.Current()
	if !ok || current.Number != 1 || current.TeamID != "A" {
		t.Fatalf("unexpected first pick: %+v", current)
	}
	upcoming := board.Upcoming(6)
	if len(upcoming) != 6 || upcoming[0].Number != 2 || upcoming[5].Number != 7 {
		t.Fatalf("unexpected upcoming window: %+v", upcoming)
	}

	board = apply(t, board, Commit{PickNumber: 1, TeamID: "A", AssetType: AssetDriver, AssetID: "d1"}, rules)
	current, _ = board.Current()
	if current.Number != 2 || current.TeamID != "B" {
		t.Fatalf("unexpected current after pick 1: %+v", current)
	}

	err := board.ValidateCommit(Commit{PickNumber: 2, TeamID: "B", AssetType: AssetDriver, AssetID: "d1"}, rules)
	if !errors.Is(err, ErrAssetAlreadyTaken) {
		t.Fatalf("expected ErrAssetAlreadyTaken, got %v", err)
	}
	err = board.ValidateCommit(Commit{PickNumber: 2, TeamID: "A", AssetType: AssetDriver, AssetID: "d2"}, rules)
	if !errors.Is(err, ErrNotYourTurn) {
		t.Fatalf("expected ErrNotYourTurn, got %v", err)
	}
	err = board.ValidateCommit(Commit{PickNumber: 1, TeamID: "A", AssetType: AssetDriver, AssetID: "d2"}, rules)
	if !errors.Is(err, ErrStaleTurn) {
		t.Fatalf("expected ErrStaleTurn, got %v", err)
	}

	// Team A picks 1, 8, 9 and 16.
	next := 2
	for ; next <= 7; next++ {
		pick, _ := board.Pick(next)
		board = apply(t, board, Commit{PickNumber: next, TeamID: pick.TeamID, AssetType: AssetDriver, AssetID: fmt.Sprintf("d%d", next)}, rules)
	}
	board = apply(t, board, Commit{PickNumber: 8, TeamID: "A", AssetType: AssetDriver, AssetID: "d8"}, rules)
	board = apply(t, board, Commit{PickNumber: 9, TeamID: "A", AssetType: AssetDriver, AssetID: "d9"}, rules)
	if got := board.Roster("A").Count(AssetDriver); got != 3 {
		t.Fatalf("team A should hold 3 drivers, got %d", got)
	}
	for next = 10; next <= 12; next++ {
		pick, _ := board.Pick(next)
		board = apply(t, board, Commit{PickNumber: next, TeamID: pick.TeamID, AssetType: AssetDriver, AssetID: fmt.Sprintf("d%d", next)}, rules)
	}
	for next = 13; next <= 15; next++ {
		pick, _ := board.Pick(next)
		board = apply(t, board, Commit{PickNumber: next, TeamID: pick.TeamID, AssetType: AssetConstructor, AssetID: fmt.Sprintf("c%d", next)}, rules)
	}

	current, _ = board.Current()
	if current.Number != 16 || current.TeamID != "A" {
		t.Fatalf("unexpected current pick: %+v", current)
	}
	err = board.ValidateCommit(Commit{PickNumber: 16, TeamID: "A", AssetType: AssetDriver, AssetID: "d16"}, rules)
	if !errors.Is(err, ErrRosterCapExceeded) {
		t.Fatalf("expected ErrRosterCapExceeded, got %v", err)
	}

	board = apply(t, board, Commit{PickNumber: 16, TeamID: "A", AssetType: AssetConstructor, AssetID: "c16"}, rules)
	if !board.Complete() {
		t.Fatalf("board should be complete")
	}
	if board.ResolvedCount() != 16 {
		t.Fatalf("unexpected resolved count: %d", board.ResolvedCount())
	}
	if _, ok := board.Current(); ok {
		t.Fatalf("complete board has no current pick")
	}
}

func TestValidateCommitCheckOrder(t *testing.T) {
	t.Parallel()

	rules := Rules{DriverCap: 1, ConstructorCap: 1}
	board := newTestBoard(t, []string{"A", "B"}, 3)
	board = apply(t, board, Commit{PickNumber: 1, TeamID: "A", AssetType: AssetDriver, AssetID: "d1"}, rules)
	board = apply(t, board, Commit{PickNumber: 2, TeamID: "B", AssetType: AssetDriver, AssetID: "d2"}, rules)
	board = apply(t, board, Commit{PickNumber: 3, TeamID: "B", AssetType: AssetConstructor, AssetID: "c1"}, rules)

	tests := []struct {
		name   string
		commit Commit
		want   error
	}{
		{
			name:   "stale wins over every other failure",
			commit: Commit{PickNumber: 1, TeamID: "B", AssetType: AssetDriver, AssetID: "d1"},
			want:   ErrStaleTurn,
		},
		{
			name:   "future pick is stale",
			commit: Commit{PickNumber: 5, TeamID: "A", AssetType: AssetDriver, AssetID: "d9"},
			want:   ErrStaleTurn,
		},
		{
			name:   "unknown pick is stale",
			commit: Commit{PickNumber: 99, TeamID: "A", AssetType: AssetDriver, AssetID: "d9"},
			want:   ErrStaleTurn,
		},
		{
			name:   "wrong generation is stale",
			commit: Commit{PickNumber: 4, TeamID: "A", AssetType: AssetDriver, AssetID: "d9", Generation: 2},
			want:   ErrStaleTurn,
		},
		{
			name:   "team wins over taken asset",
			commit: Commit{PickNumber: 4, TeamID: "B", AssetType: AssetConstructor, AssetID: "c1"},
			want:   ErrNotYourTurn,
		},
		{
			name:   "taken wins over cap",
			commit: Commit{PickNumber: 4, TeamID: "A", AssetType: AssetDriver, AssetID: "d2"},
			want:   ErrAssetAlreadyTaken,
		},
		{
			name:   "cap",
			commit: Commit{PickNumber: 4, TeamID: "A", AssetType: AssetDriver, AssetID: "d9"},
			want:   ErrRosterCapExceeded,
		},
		{
			name:   "valid with matching generation",
			commit: Commit{PickNumber: 4, TeamID: "A", AssetType: AssetConstructor, AssetID: "c2", Generation: 1},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := board.ValidateCommit(tc.commit, rules)
			if tc.want == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestCurrentPickIsMonotonic(t *testing.T) {
	t.Parallel()

	rules := DefaultRules()
	board := newTestBoard(t, []string{"A", "B", "C"}, 4)

	last := 0
	for i := 0; ; i++ {
		current, ok := board.Current()
		if !ok {
			break
		}
		if current.Number <= last {
			t.Fatalf("current pick went from %d to %d", last, current.Number)
		}
		last = current.Number

		assetType, assetID, err := board.SelectAuto(current.TeamID, rules, []string{"d1", "d2", "d3", "d4", "d5", "d6", "d7", "d8", "d9"}, []string{"c1", "c2", "c3"})
		if err != nil {
			t.Fatalf("select auto at pick %d: %v", current.Number, err)
		}
		board = apply(t, board, Commit{PickNumber: current.Number, TeamID: current.TeamID, AssetType: assetType, AssetID: assetID}, rules)
	}
	if last != 12 {
		t.Fatalf("expected to finish at pick 12, got %d", last)
	}
}

func TestSelectAuto(t *testing.T) {
	t.Parallel()

	rules := DefaultRules()
	drivers := []string{"alonso", "hamilton", "verstappen", "norris"}
	constructors := []string{"ferrari", "mclaren"}

	t.Run("first free driver in catalog order", func(t *testing.T) {
		t.Parallel()

		board := newTestBoard(t, []string{"A", "B"}, 4)
		board = apply(t, board, Commit{PickNumber: 1, TeamID: "A", AssetType: AssetDriver, AssetID: "alonso"}, rules)

		assetType, assetID, err := board.SelectAuto("B", rules, drivers, constructors)
		if err != nil {
			t.Fatalf("select auto: %v", err)
		}
		if assetType != AssetDriver || assetID != "hamilton" {
			t.Fatalf("got %s %s", assetType, assetID)
		}
	})

	t.Run("constructor once drivers are full", func(t *testing.T) {
		t.Parallel()

		board := newTestBoard(t, []string{"A"}, 4)
		for i := 1; i <= 3; i++ {
			board = apply(t, board, Commit{PickNumber: i, TeamID: "A", AssetType: AssetDriver, AssetID: drivers[i-1]}, rules)
		}

		assetType, assetID, err := board.SelectAuto("A", rules, drivers, constructors)
		if err != nil {
			t.Fatalf("select auto: %v", err)
		}
		if assetType != AssetConstructor || assetID != "ferrari" {
			t.Fatalf("got %s %s", assetType, assetID)
		}
	})

	t.Run("constructor when no driver is left", func(t *testing.T) {
		t.Parallel()

		board := newTestBoard(t, []string{"A", "B"}, 4)
		board = apply(t, board, Commit{PickNumber: 1, TeamID: "A", AssetType: AssetDriver, AssetID: "alonso"}, rules)

		assetType, assetID, err := board.SelectAuto("B", rules, []string{"alonso"}, constructors)
		if err != nil {
			t.Fatalf("select auto: %v", err)
		}
		if assetType != AssetConstructor || assetID != "ferrari" {
			t.Fatalf("got %s %s", assetType, assetID)
		}
	})

	t.Run("no legal moves", func(t *testing.T) {
		t.Parallel()

		board := newTestBoard(t, []string{"A", "B"}, 4)
		board = apply(t, board, Commit{PickNumber: 1, TeamID: "A", AssetType: AssetConstructor, AssetID: "ferrari"}, rules)

		_, _, err := board.SelectAuto("B", rules, nil, []string{"ferrari"})
		if !errors.Is(err, ErrNoLegalMoves) {
			t.Fatalf("expected ErrNoLegalMoves, got %v", err)
		}
	})
}

func TestRostersGroupByTeam(t *testing.T) {
	t.Parallel()

	rules := DefaultRules()
	board := newTestBoard(t, []string{"A", "B"}, 2)
	board = apply(t, board, Commit{PickNumber: 1, TeamID: "A", AssetType: AssetDriver, AssetID: "d1"}, rules)
	board = apply(t, board, Commit{PickNumber: 2, TeamID: "B", AssetType: AssetConstructor, AssetID: "c1"}, rules)
	board = apply(t, board, Commit{PickNumber: 3, TeamID: "B", AssetType: AssetDriver, AssetID: "d2"}, rules)

	rosters := board.Rosters()
	if len(rosters) != 2 {
		t.Fatalf("expected 2 rosters, got %d", len(rosters))
	}
	if got := rosters["A"].DriverIDs; len(got) != 1 || got[0] != "d1" {
		t.Fatalf("unexpected roster A: %+v", rosters["A"])
	}
	if rosters["B"].ConstructorID != "c1" || len(rosters["B"].DriverIDs) != 1 {
		t.Fatalf("unexpected roster B: %+v", rosters["B"])
	}
	if board.TeamCount() != 2 {
		t.Fatalf("unexpected team count: %d", board.TeamCount())
	}
}
