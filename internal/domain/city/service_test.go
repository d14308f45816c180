package city_test

import (
	"context"
	"testing"

	"github.com/rpggio/spacedesk/internal/domain/city"
	"github.com/rpggio/spacedesk/internal/domain/entity"
	"github.com/rpggio/spacedesk/internal/domain/stats"
	"github.com/rpggio/spacedesk/internal/domain/validation"
	"github.com/rpggio/spacedesk/internal/repository"
	"github.com/rpggio/spacedesk/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCityService_Create(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.CityRepository{}
	ids := &mocks.Allocator{}

	ids.On("AllocateNow", ctx, entity.KindCity).Return("CIT25001", nil)
	repo.On("Create", ctx, mock.AnythingOfType("*city.City")).Return(nil)

	svc := city.NewService(repo, ids, validation.NewGate(), nil, nil)
	c, err := svc.Create(ctx, city.Input{Name: " Bandung ", Province: "Jawa Barat"})
	require.NoError(t, err)
	require.Equal(t, "CIT25001", c.ID)
	require.Equal(t, "Bandung", c.Name)
	require.Equal(t, city.DefaultCountry, c.Country)
	require.True(t, c.IsActive)
	require.Equal(t, stats.Statistics{}, c.Statistics)
}

func TestCityService_CreateInvalidSkipsAllocation(t *testing.T) {
	ctx := context.Background()
	ids := &mocks.Allocator{}

	svc := city.NewService(&mocks.CityRepository{}, ids, validation.NewGate(), nil, nil)
	_, err := svc.Create(ctx, city.Input{Name: "", Province: ""})
	require.ErrorIs(t, err, validation.ErrInvalid)
	fields, ok := validation.FieldErrors(err)
	require.True(t, ok)
	require.Len(t, fields, 2)
	ids.AssertNotCalled(t, "AllocateNow", mock.Anything, mock.Anything)
}

func TestCityService_CreateDuplicate(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.CityRepository{}
	ids := &mocks.Allocator{}

	ids.On("AllocateNow", ctx, entity.KindCity).Return("CIT25002", nil)
	repo.On("Create", ctx, mock.Anything).Return(repository.ErrConflict)

	svc := city.NewService(repo, ids, validation.NewGate(), nil, nil)
	_, err := svc.Create(ctx, city.Input{Name: "Bandung", Province: "Jawa Barat"})
	require.ErrorIs(t, err, city.ErrDuplicateName)
}

func TestCityService_ResolveExisting(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.CityRepository{}
	repo.On("FindByName", ctx, "Medan").Return(&city.City{ID: "CIT25003", Name: "Medan"}, nil)

	svc := city.NewService(repo, &mocks.Allocator{}, validation.NewGate(), nil, nil)
	c, created, err := svc.Resolve(ctx, "Medan ", "Sumatera Utara")
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, "CIT25003", c.ID)
}

func TestCityService_ResolveCreates(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.CityRepository{}
	ids := &mocks.Allocator{}

	repo.On("FindByName", ctx, "Medan").Return(nil, repository.ErrNotFound)
	ids.On("AllocateNow", ctx, entity.KindCity).Return("CIT25004", nil)
	repo.On("Create", ctx, mock.Anything).Return(nil)

	svc := city.NewService(repo, ids, validation.NewGate(), nil, nil)
	c, created, err := svc.Resolve(ctx, "Medan", "Sumatera Utara")
	require.NoError(t, err)
	require.True(t, created)
	require.Equal(t, "CIT25004", c.ID)
	require.Equal(t, "Sumatera Utara", c.Province)
}

func TestCityService_ResolveLosesRace(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.CityRepository{}
	ids := &mocks.Allocator{}

	repo.On("FindByName", ctx, "Medan").Return(nil, repository.ErrNotFound).Once()
	ids.On("AllocateNow", ctx, entity.KindCity).Return("CIT25005", nil)
	repo.On("Create", ctx, mock.Anything).Return(repository.ErrConflict)
	repo.On("FindByName", ctx, "Medan").Return(&city.City{ID: "CIT25004", Name: "Medan"}, nil).Once()

	svc := city.NewService(repo, ids, validation.NewGate(), nil, nil)
	c, created, err := svc.Resolve(ctx, "Medan", "Sumatera Utara")
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, "CIT25004", c.ID)
}

func TestCityService_DeleteWithBuildings(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.CityRepository{}
	repo.On("Get", ctx, "CIT25001").Return(&city.City{ID: "CIT25001"}, nil)
	repo.On("CountBuildings", ctx, "CIT25001").Return(int64(2), nil)

	svc := city.NewService(repo, &mocks.Allocator{}, validation.NewGate(), nil, nil)
	err := svc.Delete(ctx, "CIT25001")
	require.ErrorIs(t, err, city.ErrHasBuildings)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestCityService_PatchKeepsStatistics(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.CityRepository{}
	current := &city.City{
		ID:         "CIT25001",
		Name:       "",
		Province:   "",
		Country:    city.DefaultCountry,
		IsActive:   true,
		Statistics: stats.Statistics{TotalBuildings: 2, ActiveBuildings: 1},
	}
	repo.On("Get", ctx, "CIT25001").Return(current, nil)
	repo.On("Update", ctx, mock.Anything).Return(nil)

	name, province := "Medan", "Sumatera Utara"
	svc := city.NewService(repo, &mocks.Allocator{}, validation.NewGate(), nil, nil)
	c, err := svc.Patch(ctx, "CIT25001", city.Patch{Name: &name, Province: &province})
	require.NoError(t, err)
	require.Equal(t, "Medan", c.Name)
	require.Equal(t, int64(2), c.Statistics.TotalBuildings)
}

func TestCityService_GetNotFound(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.CityRepository{}
	repo.On("Get", ctx, "CIT00000").Return(nil, repository.ErrNotFound)

	svc := city.NewService(repo, &mocks.Allocator{}, validation.NewGate(), nil, nil)
	_, err := svc.Get(ctx, "CIT00000")
	require.ErrorIs(t, err, city.ErrCityNotFound)
}
