package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/f1-fantasy/internal/domain/constructor"
	"github.com/riskibarqy/f1-fantasy/internal/domain/draft"
	"github.com/riskibarqy/f1-fantasy/internal/domain/driver"
	"github.com/riskibarqy/f1-fantasy/internal/domain/era"
	"github.com/riskibarqy/f1-fantasy/internal/domain/team"
	"github.com/riskibarqy/f1-fantasy/internal/infrastructure/repository/memory"
	draftmock "github.com/riskibarqy/f1-fantasy/internal/mocks/domain/draft"
	"github.com/stretchr/testify/mock"
)

var draftTestNow = time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)

type recordingMetrics struct {
	mu        sync.Mutex
	committed map[draft.AssetType]int
	auto      int
	rejected  []string
	rounds    int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{committed: make(map[draft.AssetType]int)}
}

func (m *recordingMetrics) PickCommitted(assetType draft.AssetType, auto bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.committed[assetType]++
	if auto {
		m.auto++
	}
}

func (m *recordingMetrics) PickRejected(reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rejected = append(m.rejected, reason)
}

func (m *recordingMetrics) RoundStarted(int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rounds++
}

type draftFixture struct {
	svc       *DraftService
	draftRepo *memory.DraftRepository
	metrics   *recordingMetrics
}

func newDraftFixture(t *testing.T, publisher draft.EventPublisher, cfg DraftConfig) draftFixture {
	t.Helper()

	draftRepo := memory.NewDraftRepository(memory.SeedEras(), memory.SeedBoard())
	metrics := newRecordingMetrics()
	svc := NewDraftService(
		draftRepo,
		draftRepo,
		memory.NewTeamRepository(memory.SeedTeams()),
		memory.NewDriverRepository(memory.SeedDrivers()),
		memory.NewConstructorRepository(memory.SeedConstructors()),
		memory.NewRaceRepository(memory.SeedRaces(), memory.SeedResults()),
		publisher,
		metrics,
		cfg,
		nil,
	)
	svc.now = func() time.Time { return draftTestNow }

	return draftFixture{svc: svc, draftRepo: draftRepo, metrics: metrics}
}

func TestDraftService_GetDraftState_FreshBoard(t *testing.T) {
	t.Parallel()

	fx := newDraftFixture(t, nil, DraftConfig{})

	state, err := fx.svc.GetDraftState(context.Background())
	if err != nil {
		t.Fatalf("get draft state: %v", err)
	}
	if state.Era == nil || state.Era.Label != "Era 1" {
		t.Fatalf("unexpected era: %+v", state.Era)
	}
	if state.CurrentPick == nil || state.CurrentPick.Number != 1 || state.CurrentPick.TeamID != "team-undercut" {
		t.Fatalf("unexpected current pick: %+v", state.CurrentPick)
	}
	if len(state.UpcomingPicks) != 6 || state.UpcomingPicks[0].Number != 2 {
		t.Fatalf("unexpected upcoming picks: %+v", state.UpcomingPicks)
	}
	if state.TotalPicks != 16 || state.ResolvedPicks != 0 || state.Complete {
		t.Fatalf("unexpected counters: total=%d resolved=%d complete=%v", state.TotalPicks, state.ResolvedPicks, state.Complete)
	}
	if len(state.AvailableDrivers) != 20 || len(state.AvailableConstructors) != 10 {
		t.Fatalf("unexpected catalog sizes: drivers=%d constructors=%d", len(state.AvailableDrivers), len(state.AvailableConstructors))
	}

	wantOrder := []string{"Box Box Bot", "DRS Train Bot", "Dirty Air Collective", "Undercut Merchants"}
	if len(state.Rosters) != len(wantOrder) {
		t.Fatalf("unexpected roster count: %d", len(state.Rosters))
	}
	for i, name := range wantOrder {
		if state.Rosters[i].Team.Name != name {
			t.Fatalf("roster %d: got %s want %s", i, state.Rosters[i].Team.Name, name)
		}
	}
}

func TestDraftService_CommitPick_PublishesAndHidesTakenAsset(t *testing.T) {
	t.Parallel()

	publisher := draftmock.NewEventPublisher(t)
	publisher.
		On("PublishPickCommitted", mock.Anything, mock.MatchedBy(func(e draft.PickCommitted) bool {
			return e.PickNumber == 1 &&
				e.TeamID == "team-undercut" &&
				e.AssetType == draft.AssetDriver &&
				e.AssetID == "max_verstappen" &&
				e.Generation == 1 &&
				!e.Auto
		})).
		Return(nil).
		Once()

	fx := newDraftFixture(t, publisher, DraftConfig{})
	ctx := context.Background()

	result, err := fx.svc.CommitPick(ctx, CommitPickInput{
		Actor:      Actor{UserID: "user-alpha"},
		PickNumber: 1,
		AssetType:  "driver",
		AssetID:    "max_verstappen",
	})
	if err != nil {
		t.Fatalf("commit pick: %v", err)
	}
	if result.Pick.DriverID != "max_verstappen" || result.Pick.TeamID != "team-undercut" {
		t.Fatalf("unexpected pick: %+v", result.Pick)
	}
	if fx.metrics.committed[draft.AssetDriver] != 1 {
		t.Fatalf("expected one committed driver metric, got %+v", fx.metrics.committed)
	}

	state, err := fx.svc.GetDraftState(ctx)
	if err != nil {
		t.Fatalf("get draft state: %v", err)
	}
	if state.CurrentPick.Number != 2 {
		t.Fatalf("expected current pick 2, got %d", state.CurrentPick.Number)
	}
	for _, item := range state.AvailableDrivers {
		if item.ID == "max_verstappen" {
			t.Fatalf("drafted driver must not be available")
		}
	}
	for _, roster := range state.Rosters {
		if roster.Team.ID != "team-undercut" {
			continue
		}
		if len(roster.Drivers) != 1 || roster.Drivers[0].Name() != "Max Verstappen" {
			t.Fatalf("unexpected roster: %+v", roster)
		}
	}
}

func TestDraftService_CommitPick_Rejections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input CommitPickInput
		want  error
	}{
		{
			name:  "unknown asset type",
			input: CommitPickInput{Actor: Actor{UserID: "user-alpha"}, PickNumber: 1, AssetType: "engine", AssetID: "x"},
			want:  ErrInvalidInput,
		},
		{
			name:  "unknown driver",
			input: CommitPickInput{Actor: Actor{UserID: "user-alpha"}, PickNumber: 1, AssetType: "driver", AssetID: "schumacher"},
			want:  ErrInvalidInput,
		},
		{
			name:  "zero pick number",
			input: CommitPickInput{Actor: Actor{UserID: "user-alpha"}, AssetType: "driver", AssetID: "norris"},
			want:  ErrInvalidInput,
		},
		{
			name:  "caller without team",
			input: CommitPickInput{Actor: Actor{UserID: "user-zulu"}, PickNumber: 1, AssetType: "driver", AssetID: "norris"},
			want:  ErrNotFound,
		},
		{
			name:  "someone else's team",
			input: CommitPickInput{Actor: Actor{UserID: "user-bravo"}, PickNumber: 1, TeamID: "team-undercut", AssetType: "driver", AssetID: "norris"},
			want:  ErrForbidden,
		},
		{
			name:  "not your turn",
			input: CommitPickInput{Actor: Actor{UserID: "user-bravo"}, PickNumber: 1, AssetType: "driver", AssetID: "norris"},
			want:  draft.ErrNotYourTurn,
		},
		{
			name:  "admin on behalf of wrong team",
			input: CommitPickInput{Actor: Actor{UserID: "admin", Admin: true}, PickNumber: 1, TeamID: "team-bot-box", AssetType: "driver", AssetID: "norris"},
			want:  draft.ErrNotYourTurn,
		},
		{
			name:  "future pick",
			input: CommitPickInput{Actor: Actor{UserID: "user-bravo"}, PickNumber: 2, AssetType: "driver", AssetID: "norris"},
			want:  draft.ErrStaleTurn,
		},
		{
			name:  "outdated generation",
			input: CommitPickInput{Actor: Actor{UserID: "user-alpha"}, PickNumber: 1, AssetType: "driver", AssetID: "norris", Generation: 99},
			want:  draft.ErrStaleTurn,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			fx := newDraftFixture(t, nil, DraftConfig{})
			_, err := fx.svc.CommitPick(context.Background(), tc.input)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if reason := draft.RejectionReason(tc.want); reason != "" {
				if len(fx.metrics.rejected) != 1 || fx.metrics.rejected[0] != reason {
					t.Fatalf("expected rejection metric %s, got %+v", reason, fx.metrics.rejected)
				}
			}
		})
	}
}

func TestDraftService_CommitPick_RaceOnSamePick(t *testing.T) {
	t.Parallel()

	fx := newDraftFixture(t, nil, DraftConfig{})
	ctx := context.Background()

	assets := []string{"max_verstappen", "norris", "leclerc", "hamilton", "piastri", "russell"}
	errs := make(chan error, len(assets))
	var wg sync.WaitGroup
	for _, assetID := range assets {
		wg.Add(1)
		go func(assetID string) {
			defer wg.Done()
			_, err := fx.svc.CommitPick(ctx, CommitPickInput{
				Actor:      Actor{UserID: "user-alpha"},
				PickNumber: 1,
				AssetType:  "driver",
				AssetID:    assetID,
			})
			errs <- err
		}(assetID)
	}
	wg.Wait()
	close(errs)

	successes := 0
	for err := range errs {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, draft.ErrStaleTurn):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if successes != 1 {
		t.Fatalf("expected exactly one success, got %d", successes)
	}
}

func TestDraftService_AutoPick(t *testing.T) {
	t.Parallel()

	t.Run("human pick requires admin", func(t *testing.T) {
		t.Parallel()

		fx := newDraftFixture(t, nil, DraftConfig{})
		_, err := fx.svc.AutoPick(context.Background(), AutoPickInput{Actor: Actor{UserID: "user-bravo"}, PickNumber: 1})
		if !errors.Is(err, ErrForbidden) {
			t.Fatalf("expected ErrForbidden, got %v", err)
		}
	})

	t.Run("admin takes first driver in catalog order", func(t *testing.T) {
		t.Parallel()

		fx := newDraftFixture(t, nil, DraftConfig{})
		pick, err := fx.svc.AutoPick(context.Background(), AutoPickInput{Actor: Actor{UserID: "admin", Admin: true}, PickNumber: 1})
		if err != nil {
			t.Fatalf("auto pick: %v", err)
		}
		if pick.DriverID != "albon" {
			t.Fatalf("expected albon, got %+v", pick)
		}
		if fx.metrics.auto != 1 {
			t.Fatalf("expected auto metric, got %d", fx.metrics.auto)
		}
	})

	t.Run("stale pick number", func(t *testing.T) {
		t.Parallel()

		fx := newDraftFixture(t, nil, DraftConfig{})
		_, err := fx.svc.AutoPick(context.Background(), AutoPickInput{Actor: Actor{Admin: true}, PickNumber: 3})
		if !errors.Is(err, draft.ErrStaleTurn) {
			t.Fatalf("expected ErrStaleTurn, got %v", err)
		}
	})
}

func TestDraftService_AutoPick_NoLegalMoves(t *testing.T) {
	t.Parallel()

	teams := []team.Team{
		{ID: "a", Name: "A", OwnerID: "user-a"},
		{ID: "b", Name: "B", OwnerID: "user-b"},
		{ID: "c", Name: "C", IsBot: true},
	}
	picks, err := draft.GenerateSnakeOrder([]string{"a", "b", "c"}, 1)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	for i := range picks {
		picks[i].EraID = 1
	}
	draftRepo := memory.NewDraftRepository([]era.Era{{ID: 1, Label: "Era 1", Year: 2024, StartDate: draftTestNow, Generation: 1}}, picks)
	metrics := newRecordingMetrics()
	svc := NewDraftService(
		draftRepo,
		draftRepo,
		memory.NewTeamRepository(teams),
		memory.NewDriverRepository([]driver.Driver{{ID: "solo", Code: "SOL", FamilyName: "Solo"}}),
		memory.NewConstructorRepository([]constructor.Constructor{{ID: "only", Name: "Only"}}),
		memory.NewRaceRepository(nil, nil),
		nil,
		metrics,
		DraftConfig{},
		nil,
	)
	ctx := context.Background()

	if _, err := svc.CommitPick(ctx, CommitPickInput{Actor: Actor{UserID: "user-a"}, PickNumber: 1, AssetType: "driver", AssetID: "solo"}); err != nil {
		t.Fatalf("commit pick 1: %v", err)
	}
	if _, err := svc.CommitPick(ctx, CommitPickInput{Actor: Actor{UserID: "user-b"}, PickNumber: 2, AssetType: "constructor", AssetID: "only"}); err != nil {
		t.Fatalf("commit pick 2: %v", err)
	}

	_, err = svc.AutoPick(ctx, AutoPickInput{PickNumber: 3})
	if !errors.Is(err, draft.ErrNoLegalMoves) {
		t.Fatalf("expected ErrNoLegalMoves, got %v", err)
	}
	if len(metrics.rejected) != 1 || metrics.rejected[0] != "no_legal_moves" {
		t.Fatalf("unexpected rejection metrics: %+v", metrics.rejected)
	}
}

func TestDraftService_AdvanceBots(t *testing.T) {
	t.Parallel()

	fx := newDraftFixture(t, nil, DraftConfig{})
	ctx := context.Background()

	if _, err := fx.svc.CommitPick(ctx, CommitPickInput{Actor: Actor{UserID: "user-alpha"}, PickNumber: 1, AssetType: "driver", AssetID: "max_verstappen"}); err != nil {
		t.Fatalf("commit pick 1: %v", err)
	}
	if _, err := fx.svc.CommitPick(ctx, CommitPickInput{Actor: Actor{UserID: "user-bravo"}, PickNumber: 2, AssetType: "driver", AssetID: "norris"}); err != nil {
		t.Fatalf("commit pick 2: %v", err)
	}

	picks, err := fx.svc.AdvanceBots(ctx)
	if err != nil {
		t.Fatalf("advance bots: %v", err)
	}

	want := []struct {
		number int
		teamID string
		driver string
	}{
		{3, "team-bot-box", "albon"},
		{4, "team-bot-drs", "alonso"},
		{5, "team-bot-drs", "bottas"},
		{6, "team-bot-box", "gasly"},
	}
	if len(picks) != len(want) {
		t.Fatalf("expected %d bot picks, got %d", len(want), len(picks))
	}
	for i, w := range want {
		if picks[i].Number != w.number || picks[i].TeamID != w.teamID || picks[i].DriverID != w.driver {
			t.Fatalf("bot pick %d: got %+v want %+v", i, picks[i], w)
		}
	}

	state, err := fx.svc.GetDraftState(ctx)
	if err != nil {
		t.Fatalf("get draft state: %v", err)
	}
	if state.CurrentPick.Number != 7 || state.CurrentPick.TeamID != "team-dirty-air" {
		t.Fatalf("expected human pick 7 next, got %+v", state.CurrentPick)
	}
}

func TestDraftService_CommitPick_AutoAdvancesBots(t *testing.T) {
	t.Parallel()

	fx := newDraftFixture(t, nil, DraftConfig{AutoAdvanceBots: true})
	ctx := context.Background()

	if _, err := fx.svc.CommitPick(ctx, CommitPickInput{Actor: Actor{UserID: "user-alpha"}, PickNumber: 1, AssetType: "driver", AssetID: "max_verstappen"}); err != nil {
		t.Fatalf("commit pick 1: %v", err)
	}
	result, err := fx.svc.CommitPick(ctx, CommitPickInput{Actor: Actor{UserID: "user-bravo"}, PickNumber: 2, AssetType: "driver", AssetID: "norris"})
	if err != nil {
		t.Fatalf("commit pick 2: %v", err)
	}
	if len(result.BotPicks) != 4 {
		t.Fatalf("expected 4 bot picks, got %d", len(result.BotPicks))
	}
}

func TestDraftService_StartNewDraftRound(t *testing.T) {
	t.Parallel()

	publisher := draftmock.NewEventPublisher(t)
	publisher.On("PublishPickCommitted", mock.Anything, mock.Anything).Return(nil).Once()
	publisher.
		On("PublishRoundStarted", mock.Anything, mock.MatchedBy(func(e draft.RoundStarted) bool {
			return e.TotalPicks == 12 && e.Archived == 1 && e.Generation == 1
		})).
		Return(errors.New("broker down")).
		Once()

	fx := newDraftFixture(t, publisher, DraftConfig{})
	ctx := context.Background()

	if _, err := fx.svc.CommitPick(ctx, CommitPickInput{Actor: Actor{UserID: "user-alpha"}, PickNumber: 1, AssetType: "driver", AssetID: "max_verstappen"}); err != nil {
		t.Fatalf("commit pick: %v", err)
	}

	result, err := fx.svc.StartNewDraftRound(ctx, StartRoundInput{
		TeamIDs: []string{"team-bot-drs", "team-undercut", "team-dirty-air"},
		Archive: true,
	})
	if err != nil {
		t.Fatalf("start new draft round: %v", err)
	}

	if result.Era.Label != "Era 2" {
		t.Fatalf("unexpected era label: %s", result.Era.Label)
	}
	// Bahrain on 2024-03-02 is the last completed race before today.
	wantClose := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
	if result.ClosedEra == nil || !result.ClosedEra.EndDate.Equal(wantClose) {
		t.Fatalf("unexpected closed era: %+v", result.ClosedEra)
	}
	if !result.Era.StartDate.Equal(wantClose.AddDate(0, 0, 1)) {
		t.Fatalf("unexpected start date: %s", result.Era.StartDate)
	}
	if fx.metrics.rounds != 1 {
		t.Fatalf("expected round metric")
	}

	state, err := fx.svc.GetDraftState(ctx)
	if err != nil {
		t.Fatalf("get draft state: %v", err)
	}
	if state.TotalPicks != 12 || state.ResolvedPicks != 0 {
		t.Fatalf("unexpected board after reset: total=%d resolved=%d", state.TotalPicks, state.ResolvedPicks)
	}
	if state.CurrentPick.TeamID != "team-bot-drs" {
		t.Fatalf("unexpected first team: %s", state.CurrentPick.TeamID)
	}
	if len(state.AvailableDrivers) != 20 {
		t.Fatalf("archived picks must free the catalog, got %d drivers", len(state.AvailableDrivers))
	}

	archive, err := fx.draftRepo.ListArchive(ctx, result.ClosedEra.ID)
	if err != nil {
		t.Fatalf("list archive: %v", err)
	}
	if len(archive) != 1 || archive[0].DriverID != "max_verstappen" {
		t.Fatalf("unexpected archive: %+v", archive)
	}
}

func TestDraftService_StartNewDraftRound_InvalidOrder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input StartRoundInput
	}{
		{name: "empty", input: StartRoundInput{}},
		{name: "duplicate", input: StartRoundInput{TeamIDs: []string{"team-undercut", "team-undercut"}}},
		{name: "unknown", input: StartRoundInput{TeamIDs: []string{"team-undercut", "team-ghost"}}},
		{name: "negative rounds", input: StartRoundInput{TeamIDs: []string{"team-undercut"}, Rounds: -1}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			fx := newDraftFixture(t, nil, DraftConfig{})
			_, err := fx.svc.StartNewDraftRound(context.Background(), tc.input)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}

			state, err := fx.svc.GetDraftState(context.Background())
			if err != nil {
				t.Fatalf("get draft state: %v", err)
			}
			if state.TotalPicks != 16 || state.Generation != 1 {
				t.Fatalf("previous board must be intact, got total=%d generation=%d", state.TotalPicks, state.Generation)
			}
		})
	}
}
