package memory

import (
	"context"
	"testing"

	"github.com/riskibarqy/f1-fantasy/internal/domain/constructor"
	"github.com/riskibarqy/f1-fantasy/internal/domain/driver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorRepository_RenameKeepsSingleRow(t *testing.T) {
	t.Parallel()

	repo := NewConstructorRepository(SeedConstructors())
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, []constructor.Constructor{{ID: "rb", Name: " Racing Bulls ", Nationality: "Italian"}}))

	items, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, items, len(SeedConstructors()))

	matches := 0
	for _, item := range items {
		if item.ID == "rb" {
			matches++
			assert.Equal(t, "Racing Bulls", item.Name)
		}
	}
	assert.Equal(t, 1, matches)
}

func TestDriverRepository_UpsertKeysByID(t *testing.T) {
	t.Parallel()

	repo := NewDriverRepository(SeedDrivers())
	ctx := context.Background()

	err := repo.Upsert(ctx, []driver.Driver{
		{ID: "max_verstappen", Code: "ver", FamilyName: "Verstappen", ConstructorID: "red_bull", PermanentNumber: 1},
		{ID: "mick_schumacher", Code: "MSC", FamilyName: "Schumacher"},
		{ID: "michael_schumacher", Code: "MSC", FamilyName: "Schumacher"},
		{ID: " ", Code: "NOP"},
	})
	require.NoError(t, err)

	got, ok, err := repo.GetByID(ctx, "max_verstappen")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "VER", got.Code)
	assert.Equal(t, 1, got.PermanentNumber)

	items, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, items, len(SeedDrivers())+2)
}
