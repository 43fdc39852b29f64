package postgres

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/f1-fantasy/internal/domain/draft"
	"github.com/riskibarqy/f1-fantasy/internal/infrastructure/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)

func TestDraftRepository_ConcurrentCommitsOnSamePick(t *testing.T) {
	repo := NewDraftRepository(newTestDB(t))
	ctx := t.Context()
	rules := draft.DefaultRules()

	drivers := memory.SeedDrivers()
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		stale     int
	)
	for _, item := range drivers[:8] {
		wg.Add(1)
		go func(driverID string) {
			defer wg.Done()

			_, err := repo.Commit(ctx, draft.Commit{
				PickNumber: 1,
				TeamID:     "team-undercut",
				AssetType:  draft.AssetDriver,
				AssetID:    driverID,
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
		}(item.ID)
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, 7, stale)

	board, ok, err := repo.ActiveBoard(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	current, _ := board.Current()
	assert.Equal(t, 2, current.Number)
	assert.Equal(t, 1, board.ResolvedCount())
}

func TestDraftRepository_CommitChecksRunInOrder(t *testing.T) {
	repo := NewDraftRepository(newTestDB(t))
	ctx := t.Context()
	rules := draft.DefaultRules()

	got, err := repo.Commit(ctx, draft.Commit{PickNumber: 1, TeamID: "team-undercut", AssetType: draft.AssetDriver, AssetID: "max_verstappen"}, rules, testNow)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Generation)
	require.NotNil(t, got.Pick.PickedAt)

	_, err = repo.Commit(ctx, draft.Commit{PickNumber: 1, TeamID: "team-undercut", AssetType: draft.AssetDriver, AssetID: "norris"}, rules, testNow)
	require.ErrorIs(t, err, draft.ErrStaleTurn)

	_, err = repo.Commit(ctx, draft.Commit{PickNumber: 2, TeamID: "team-undercut", AssetType: draft.AssetDriver, AssetID: "norris"}, rules, testNow)
	require.ErrorIs(t, err, draft.ErrNotYourTurn)

	current := draft.Commit{PickNumber: 2, TeamID: "team-dirty-air", AssetType: draft.AssetDriver, AssetID: "max_verstappen"}
	_, err = repo.Commit(ctx, current, rules, testNow)
	require.ErrorIs(t, err, draft.ErrAssetAlreadyTaken)

	current.Generation = 7
	current.AssetID = "norris"
	_, err = repo.Commit(ctx, current, rules, testNow)
	require.ErrorIs(t, err, draft.ErrStaleTurn)
}

func TestDraftRepository_ResetArchivesAndRollsOver(t *testing.T) {
	repo := NewDraftRepository(newTestDB(t))
	ctx := t.Context()
	rules := draft.DefaultRules()

	_, err := repo.Commit(ctx, draft.Commit{PickNumber: 1, TeamID: "team-undercut", AssetType: draft.AssetDriver, AssetID: "max_verstappen"}, rules, testNow)
	require.NoError(t, err)
	_, err = repo.Commit(ctx, draft.Commit{PickNumber: 2, TeamID: "team-dirty-air", AssetType: draft.AssetConstructor, AssetID: "mclaren"}, rules, testNow)
	require.NoError(t, err)

	picks, err := draft.GenerateSnakeOrder([]string{"team-bot-drs", "team-undercut", "team-dirty-air"}, 4)
	require.NoError(t, err)

	closeOn := time.Date(2024, 6, 9, 0, 0, 0, 0, time.UTC)
	result, err := repo.Reset(ctx, draft.ResetPlan{Picks: picks, Archive: true, CloseOn: closeOn, Today: testNow, At: testNow})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Archived)
	assert.Equal(t, 12, result.TotalPicks)
	require.NotNil(t, result.ClosedEra)
	assert.True(t, result.ClosedEra.EndDate.Equal(closeOn))
	assert.Equal(t, "Era 2", result.Era.Label)
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

	archived, err := repo.ListArchive(ctx, memory.SeedEraID)
	require.NoError(t, err)
	require.Len(t, archived, 2)
	assert.Equal(t, "max_verstappen", archived[0].DriverID)
	assert.Equal(t, "mclaren", archived[1].ConstructorID)

	eras, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, eras, 2)
	assert.Equal(t, result.Era.ID, eras[0].ID)
	assert.False(t, eras[1].Active())

	// a freed asset can be drafted again in the new era
	_, err = repo.Commit(ctx, draft.Commit{PickNumber: 1, TeamID: "team-bot-drs", AssetType: draft.AssetDriver, AssetID: "max_verstappen", Generation: 1}, rules, testNow)
	require.NoError(t, err)
}

func TestDraftRepository_ResetWithoutArchiveFencesOldBoard(t *testing.T) {
	repo := NewDraftRepository(newTestDB(t))
	ctx := t.Context()

	picks, err := draft.GenerateSnakeOrder([]string{"team-undercut", "team-bot-box"}, 2)
	require.NoError(t, err)

	result, err := repo.Reset(ctx, draft.ResetPlan{Picks: picks, Today: testNow, At: testNow})
	require.NoError(t, err)
	assert.Nil(t, result.ClosedEra)
	assert.Equal(t, memory.SeedEraID, result.Era.ID)
	assert.Equal(t, int64(2), result.Era.Generation)

	_, err = repo.Commit(ctx, draft.Commit{PickNumber: 1, TeamID: "team-undercut", AssetType: draft.AssetDriver, AssetID: "hamilton", Generation: 1}, draft.DefaultRules(), testNow)
	require.ErrorIs(t, err, draft.ErrStaleTurn)
}

func TestDraftRepository_ResetRollsBackOnFailure(t *testing.T) {
	repo := NewDraftRepository(newTestDB(t))
	ctx := t.Context()

	picks, err := draft.GenerateSnakeOrder([]string{"team-undercut", "team-missing"}, 1)
	require.NoError(t, err)

	_, err = repo.Reset(ctx, draft.ResetPlan{Picks: picks, Archive: true, CloseOn: testNow, Today: testNow, At: testNow})
	require.Error(t, err)

	board, ok, err := repo.ActiveBoard(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, memory.SeedEraID, board.EraID)
	assert.Equal(t, int64(1), board.Generation)
	assert.Len(t, board.Picks, 16)
}
