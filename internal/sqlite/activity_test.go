package sqlite

import (
	"context"
	"testing"

	"github.com/rpggio/spacedesk/internal/domain/activity"
	"github.com/rpggio/spacedesk/internal/domain/entity"
	"github.com/rpggio/spacedesk/internal/repository"
	"github.com/stretchr/testify/require"
)

func TestActivityRepository_LogList(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewActivityRepository(db)

	entry1 := &activity.ActivityEntry{
		Actor:      "op-1",
		EntityType: entity.KindBuilding,
		EntityID:   "BLD25001",
		Type:       activity.TypeEntityCreated,
		Summary:    "Created building",
	}
	entry2 := &activity.ActivityEntry{
		EntityType: entity.KindCity,
		EntityID:   "CIT25001",
		Type:       activity.TypeStatisticsClamped,
		Summary:    "Clamped",
		Details:    `{"delta":{"totalBuildings":-1}}`,
	}

	require.NoError(t, repo.Log(ctx, entry1))
	require.NoError(t, repo.Log(ctx, entry2))
	require.NotZero(t, entry1.ID)
	require.Equal(t, activity.SystemActor, entry2.Actor)

	entries, err := repo.List(ctx, activity.ListActivityOptions{Limit: 10})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, activity.TypeStatisticsClamped, entries[0].Type)
	require.Equal(t, "op-1", entries[1].Actor)
}

func TestActivityRepository_Filters(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewActivityRepository(db)

	for _, id := range []string{"BLD25001", "BLD25002", "BLD25001"} {
		require.NoError(t, repo.Log(ctx, &activity.ActivityEntry{
			EntityType: entity.KindBuilding,
			EntityID:   id,
			Type:       activity.TypeEntityUpdated,
			Summary:    "updated",
		}))
	}

	entityID := "BLD25001"
	entries, err := repo.List(ctx, activity.ListActivityOptions{EntityID: &entityID})
	require.NoError(t, err)
	require.Len(t, entries, 2)

	typ := activity.TypeEntityDeleted
	entries, err = repo.List(ctx, activity.ListActivityOptions{Type: &typ})
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestAPIKeyRepository(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewAPIKeyRepository(db)

	token, err := repo.Generate(ctx, "op-1", "laptop")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	operator, err := repo.ResolveOperator(ctx, token)
	require.NoError(t, err)
	require.Equal(t, "op-1", operator)

	_, err = repo.ResolveOperator(ctx, "nope")
	require.ErrorIs(t, err, repository.ErrNotFound)

	var stored string
	require.NoError(t, db.QueryRow(`SELECT key_hash FROM api_keys`).Scan(&stored))
	require.Equal(t, HashKey(token), stored)
	require.NotEqual(t, token, stored)
}
