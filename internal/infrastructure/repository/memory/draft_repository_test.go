package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/f1-fantasy/internal/domain/draft"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)

func newSeededDraftRepository(t *testing.T) *DraftRepository {
	t.Helper()
	return NewDraftRepository(SeedEras(), SeedBoard())
}

func TestDraftRepository_ConcurrentCommitsOnSamePick(t *testing.T) {
	t.Parallel()

	repo := newSeededDraftRepository(t)
	ctx := context.Background()
	rules := draft.DefaultRules()

	const clients = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		stale     int
	)
	for i := 0; i < clients; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			_, err := repo.Commit(ctx, draft.Commit{
				PickNumber: 1,
				TeamID:     "team-undercut",
				AssetType:  draft.AssetDriver,
				AssetID:    fmt.Sprintf("driver-%d", i),
			}, rules, testNow)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, draft.ErrStaleTurn):
				stale++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, clients-1, stale)

	board, ok, err := repo.ActiveBoard(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	current, _ := board.Current()
	assert.Equal(t, 2, current.Number)
}

func TestDraftRepository_BackToBackClients(t *testing.T) {
	t.Parallel()

	repo := newSeededDraftRepository(t)
	ctx := context.Background()
	rules := draft.DefaultRules()

	first := draft.Commit{PickNumber: 1, TeamID: "team-undercut", AssetType: draft.AssetDriver, AssetID: "max_verstappen"}
	got, err := repo.Commit(ctx, first, rules, testNow)
	require.NoError(t, err)
	assert.Equal(t, "max_verstappen", got.Pick.DriverID)
	assert.Equal(t, int64(1), got.Generation)
	require.NotNil(t, got.Pick.PickedAt)

	second := draft.Commit{PickNumber: 1, TeamID: "team-undercut", AssetType: draft.AssetDriver, AssetID: "norris"}
	_, err = repo.Commit(ctx, second, rules, testNow)
	require.ErrorIs(t, err, draft.ErrStaleTurn)

	board, _, err := repo.ActiveBoard(ctx)
	require.NoError(t, err)
	pick, _ := board.Pick(1)
	assert.Equal(t, "max_verstappen", pick.DriverID)
}

func TestDraftRepository_ResetArchivesAndRollsOver(t *testing.T) {
	t.Parallel()

	repo := newSeededDraftRepository(t)
	ctx := context.Background()
	rules := draft.DefaultRules()

	_, err := repo.Commit(ctx, draft.Commit{PickNumber: 1, TeamID: "team-undercut", AssetType: draft.AssetDriver, AssetID: "max_verstappen"}, rules, testNow)
	require.NoError(t, err)
	_, err = repo.Commit(ctx, draft.Commit{PickNumber: 2, TeamID: "team-dirty-air", AssetType: draft.AssetConstructor, AssetID: "mclaren"}, rules, testNow)
	require.NoError(t, err)

	picks, err := draft.GenerateSnakeOrder([]string{"team-bot-drs", "team-undercut", "team-dirty-air"}, 4)
	require.NoError(t, err)

	closeOn := time.Date(2024, 6, 9, 0, 0, 0, 0, time.UTC)
	result, err := repo.Reset(ctx, draft.ResetPlan{
		Picks:   picks,
		Archive: true,
		CloseOn: closeOn,
		Today:   testNow,
		At:      testNow,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Archived)
	assert.Equal(t, 12, result.TotalPicks)
	require.NotNil(t, result.ClosedEra)
	require.NotNil(t, result.ClosedEra.EndDate)
	assert.True(t, result.ClosedEra.EndDate.Equal(closeOn))
	assert.Equal(t, "Era 2", result.Era.Label)
	assert.Equal(t, 2024, result.Era.Year)
	assert.True(t, result.Era.StartDate.Equal(closeOn.AddDate(0, 0, 1)))
	assert.Equal(t, int64(1), result.Era.Generation)

	board, ok, err := repo.ActiveBoard(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, result.Era.ID, board.EraID)
	require.Len(t, board.Picks, 12)
	for i, pick := range board.Picks {
		assert.Equal(t, i+1, pick.Number)
		assert.False(t, pick.Resolved())
	}

	archived, err := repo.ListArchive(ctx, SeedEraID)
	require.NoError(t, err)
	require.Len(t, archived, 2)
	assert.Equal(t, "max_verstappen", archived[0].DriverID)
	assert.Equal(t, "mclaren", archived[1].ConstructorID)

	eras, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, eras, 2)
	assert.Equal(t, result.Era.ID, eras[0].ID)
	active := 0
	for _, item := range eras {
		if item.Active() {
			active++
		}
	}
	assert.Equal(t, 1, active)
}

func TestDraftRepository_ResetWithoutArchiveBumpsGeneration(t *testing.T) {
	t.Parallel()

	repo := newSeededDraftRepository(t)
	ctx := context.Background()

	picks, err := draft.GenerateSnakeOrder([]string{"team-undercut", "team-bot-box"}, 2)
	require.NoError(t, err)

	result, err := repo.Reset(ctx, draft.ResetPlan{Picks: picks, Today: testNow, At: testNow})
	require.NoError(t, err)
	assert.Nil(t, result.ClosedEra)
	assert.Equal(t, SeedEraID, result.Era.ID)
	assert.Equal(t, int64(2), result.Era.Generation)
	assert.Equal(t, 4, result.TotalPicks)

	_, err = repo.Commit(ctx, draft.Commit{
		PickNumber: 1,
		TeamID:     "team-undercut",
		AssetType:  draft.AssetDriver,
		AssetID:    "hamilton",
		Generation: 1,
	}, draft.DefaultRules(), testNow)
	require.ErrorIs(t, err, draft.ErrStaleTurn)
}

func TestDraftRepository_ResetOpensFirstEra(t *testing.T) {
	t.Parallel()

	repo := NewDraftRepository(nil, nil)
	ctx := context.Background()

	_, ok, err := repo.ActiveBoard(ctx)
	require.NoError(t, err)
	require.False(t, ok)

	_, err = repo.Commit(ctx, draft.Commit{PickNumber: 1, TeamID: "a", AssetType: draft.AssetDriver, AssetID: "d"}, draft.DefaultRules(), testNow)
	require.ErrorIs(t, err, draft.ErrStaleTurn)

	picks, err := draft.GenerateSnakeOrder([]string{"a", "b"}, 1)
	require.NoError(t, err)
	result, err := repo.Reset(ctx, draft.ResetPlan{Picks: picks, Archive: true, CloseOn: testNow, Today: testNow, At: testNow})
	require.NoError(t, err)
	assert.Equal(t, "Era 1", result.Era.Label)
	assert.Equal(t, 2024, result.Era.Year)
	assert.Nil(t, result.ClosedEra)
	assert.Equal(t, 0, result.Archived)
}
