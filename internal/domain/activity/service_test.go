package activity_test

import (
	"context"
	"testing"

	"github.com/rpggio/spacedesk/internal/domain/activity"
	"github.com/rpggio/spacedesk/internal/domain/entity"
	"github.com/rpggio/spacedesk/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestActivityService_LogAndList(t *testing.T) {
	ctx := activity.WithActor(context.Background(), "op-1")

	repo := &mocks.ActivityRepository{}
	entry := &activity.ActivityEntry{
		EntityType: entity.KindBuilding,
		EntityID:   "BLD25001",
		Type:       activity.TypeEntityCreated,
		Summary:    "created",
	}

	repo.On("Log", ctx, entry).Return(nil)
	repo.On("List", ctx, activity.ListActivityOptions{Limit: 50}).Return([]activity.ActivityEntry{}, nil)

	svc := activity.NewService(repo, nil)
	require.NoError(t, svc.LogActivity(ctx, entry))
	require.Equal(t, "op-1", entry.Actor)
	require.False(t, entry.CreatedAt.IsZero())

	_, err := svc.GetRecentActivity(ctx, activity.ListActivityOptions{})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestActivityService_DefaultsToSystemActor(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ActivityRepository{}
	repo.On("Log", ctx, mock.Anything).Return(nil)

	svc := activity.NewService(repo, nil)
	entry := &activity.ActivityEntry{Type: activity.TypeStatisticsClamped}
	require.NoError(t, svc.LogActivity(ctx, entry))
	require.Equal(t, activity.SystemActor, entry.Actor)
}

func TestActivityService_RejectsNil(t *testing.T) {
	svc := activity.NewService(&mocks.ActivityRepository{}, nil)
	require.ErrorIs(t, svc.LogActivity(context.Background(), nil), activity.ErrInvalidInput)
}
