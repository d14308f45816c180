package space_test

import (
	"context"
	"testing"

	"github.com/rpggio/spacedesk/internal/domain/building"
	"github.com/rpggio/spacedesk/internal/domain/entity"
	"github.com/rpggio/spacedesk/internal/domain/space"
	"github.com/rpggio/spacedesk/internal/domain/stats"
	"github.com/rpggio/spacedesk/internal/domain/validation"
	"github.com/rpggio/spacedesk/internal/repository"
	"github.com/rpggio/spacedesk/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newService(repo *mocks.SpaceRepository, buildings *mocks.BuildingRepository, agg *mocks.Aggregator, ids *mocks.Allocator) *space.Service {
	bsvc := building.NewService(buildings, nil, nil, nil, validation.NewGate(), nil, nil)
	return space.NewService(repo, bsvc, agg, ids, validation.NewGate(), nil, nil)
}

func TestSpaceService_CreateInheritsBuilding(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.SpaceRepository{}
	buildings := &mocks.BuildingRepository{}
	agg := &mocks.Aggregator{}
	ids := &mocks.Allocator{}

	buildings.On("Get", ctx, "BLD25001").Return(&building.Building{ID: "BLD25001", CityID: "CIT25001", Brand: entity.BrandUnionSpace}, nil)
	ids.On("AllocateNow", ctx, entity.KindSpace).Return("SPC25001", nil)
	repo.On("Create", ctx, mock.Anything).Return(nil)
	agg.On("OnChildCreated", ctx, "CIT25001", stats.ChildSpace, true).Return(stats.Statistics{TotalSpaces: 1, ActiveSpaces: 1}, nil)

	sp, err := newService(repo, buildings, agg, ids).Create(ctx, space.Input{BuildingID: "BLD25001", Name: "Room A", Capacity: 8})
	require.NoError(t, err)
	require.Equal(t, "SPC25001", sp.ID)
	require.Equal(t, "CIT25001", sp.CityID)
	require.Equal(t, entity.BrandUnionSpace, sp.Brand)
	require.Equal(t, space.TypePrivateOffice, sp.Type)
	agg.AssertExpectations(t)
}

func TestSpaceService_CreateUnknownBuilding(t *testing.T) {
	ctx := context.Background()
	buildings := &mocks.BuildingRepository{}
	ids := &mocks.Allocator{}
	buildings.On("Get", ctx, "BLD99999").Return(nil, repository.ErrNotFound)

	_, err := newService(&mocks.SpaceRepository{}, buildings, &mocks.Aggregator{}, ids).
		Create(ctx, space.Input{BuildingID: "BLD99999", Name: "Room A", Capacity: 8})
	require.ErrorIs(t, err, building.ErrBuildingNotFound)
	ids.AssertNotCalled(t, "AllocateNow", mock.Anything, mock.Anything)
}

func TestSpaceService_CreateInvalid(t *testing.T) {
	_, err := newService(&mocks.SpaceRepository{}, &mocks.BuildingRepository{}, &mocks.Aggregator{}, &mocks.Allocator{}).
		Create(context.Background(), space.Input{BuildingID: "BLD25001", Name: "Hall", Capacity: 2000, Brand: "Acme"})

	fields, ok := validation.FieldErrors(err)
	require.True(t, ok)
	require.Len(t, fields, 2)
}

func TestSpaceService_ToggleAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.SpaceRepository{}
	buildings := &mocks.BuildingRepository{}
	agg := &mocks.Aggregator{}

	current := &space.Space{
		ID: "SPC25001", BuildingID: "BLD25001", CityID: "CIT25001", Name: "Room A",
		Brand: entity.BrandCoSpace, Type: space.TypeMeetingRoom, Capacity: 8, IsActive: true,
	}
	repo.On("Get", ctx, "SPC25001").Return(current, nil)
	repo.On("Update", ctx, mock.Anything, current).Return(nil)
	repo.On("Delete", ctx, "SPC25001").Return(&space.Space{ID: "SPC25001", CityID: "CIT25001", IsActive: false}, nil)
	buildings.On("Get", ctx, "BLD25001").Return(&building.Building{ID: "BLD25001", CityID: "CIT25001", Brand: entity.BrandCoSpace}, nil)
	agg.On("OnChildActiveChanged", ctx, "CIT25001", stats.ChildSpace, false).Return(stats.Statistics{TotalSpaces: 1}, nil)
	agg.On("OnChildDeleted", ctx, "CIT25001", stats.ChildSpace, false).Return(stats.Statistics{}, nil)

	svc := newService(repo, buildings, agg, &mocks.Allocator{})
	sp, err := svc.SetActive(ctx, "SPC25001", false)
	require.NoError(t, err)
	require.False(t, sp.IsActive)

	require.NoError(t, svc.Delete(ctx, "SPC25001"))
	agg.AssertExpectations(t)
}

func TestSpaceService_DeleteWithOrders(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.SpaceRepository{}
	agg := &mocks.Aggregator{}
	repo.On("Delete", ctx, "SPC25001").Return(nil, repository.ErrForeignKeyViolation)

	err := newService(repo, &mocks.BuildingRepository{}, agg, &mocks.Allocator{}).Delete(ctx, "SPC25001")
	require.ErrorIs(t, err, space.ErrHasOrders)
	agg.AssertNotCalled(t, "OnChildDeleted", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSpaceService_MoveBuildingAcrossCities(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.SpaceRepository{}
	buildings := &mocks.BuildingRepository{}
	agg := &mocks.Aggregator{}

	repo.On("Get", ctx, "SPC25001").Return(&space.Space{
		ID: "SPC25001", BuildingID: "BLD25001", CityID: "CIT25001", Name: "Desk 1",
		Brand: entity.BrandCoSpace, Type: space.TypeHotDesk, Capacity: 1, IsActive: false,
	}, nil)
	repo.On("Update", ctx, mock.Anything, mock.Anything).Return(nil)
	buildings.On("Get", ctx, "BLD25009").Return(&building.Building{ID: "BLD25009", CityID: "CIT25002", Brand: entity.BrandCoSpace}, nil)
	agg.On("OnChildDeleted", ctx, "CIT25001", stats.ChildSpace, false).Return(stats.Statistics{}, nil)
	agg.On("OnChildCreated", ctx, "CIT25002", stats.ChildSpace, false).Return(stats.Statistics{TotalSpaces: 1}, nil)

	target := "BLD25009"
	sp, err := newService(repo, buildings, agg, &mocks.Allocator{}).Patch(ctx, "SPC25001", space.Patch{BuildingID: &target})
	require.NoError(t, err)
	require.Equal(t, "CIT25002", sp.CityID)
	agg.AssertExpectations(t)
}

// The space was moved to another city between read and write; the retry counts the
// activation on the city it now belongs to.
func TestSpaceService_SetActiveAfterConcurrentMove(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.SpaceRepository{}
	buildings := &mocks.BuildingRepository{}
	agg := &mocks.Aggregator{}

	before := &space.Space{
		ID: "SPC25001", BuildingID: "BLD25001", CityID: "CIT25001", Name: "Room A",
		Brand: entity.BrandCoSpace, Type: space.TypeMeetingRoom, Capacity: 8, IsActive: false,
	}
	moved := *before
	moved.BuildingID = "BLD25009"
	moved.CityID = "CIT25002"

	repo.On("Get", ctx, "SPC25001").Return(before, nil).Once()
	repo.On("Update", ctx, mock.Anything, before).Return(repository.ErrStale).Once()
	repo.On("Get", ctx, "SPC25001").Return(&moved, nil).Once()
	repo.On("Update", ctx, mock.Anything, &moved).Return(nil).Once()
	buildings.On("Get", ctx, "BLD25001").Return(&building.Building{ID: "BLD25001", CityID: "CIT25001", Brand: entity.BrandCoSpace}, nil)
	buildings.On("Get", ctx, "BLD25009").Return(&building.Building{ID: "BLD25009", CityID: "CIT25002", Brand: entity.BrandCoSpace}, nil)
	agg.On("OnChildActiveChanged", ctx, "CIT25002", stats.ChildSpace, true).Return(stats.Statistics{TotalSpaces: 1, ActiveSpaces: 1}, nil).Once()

	sp, err := newService(repo, buildings, agg, &mocks.Allocator{}).SetActive(ctx, "SPC25001", true)
	require.NoError(t, err)
	require.Equal(t, "CIT25002", sp.CityID)
	repo.AssertExpectations(t)
	agg.AssertExpectations(t)
	agg.AssertNotCalled(t, "OnChildActiveChanged", ctx, "CIT25001", stats.ChildSpace, true)
}
