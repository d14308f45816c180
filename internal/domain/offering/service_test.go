package offering_test

import (
	"context"
	"testing"

	"github.com/rpggio/spacedesk/internal/domain/entity"
	"github.com/rpggio/spacedesk/internal/domain/offering"
	"github.com/rpggio/spacedesk/internal/domain/validation"
	"github.com/rpggio/spacedesk/internal/repository"
	"github.com/rpggio/spacedesk/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestOfferingService_Create(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.OfferingRepository{}
	ids := &mocks.Allocator{}
	ids.On("AllocateNow", ctx, entity.KindService).Return("SRV25001", nil)
	repo.On("Create", ctx, mock.Anything).Return(nil)

	svc := offering.NewService(repo, ids, validation.NewGate(), nil, nil)
	o, err := svc.Create(ctx, offering.Input{Name: "Printing", Category: "office", Price: 2000, Unit: "page", TaxRate: 0.11})
	require.NoError(t, err)
	require.Equal(t, "SRV25001", o.ID)
	require.True(t, o.IsActive)
}

func TestOfferingService_CreateInvalidTaxRate(t *testing.T) {
	svc := offering.NewService(&mocks.OfferingRepository{}, &mocks.Allocator{}, validation.NewGate(), nil, nil)
	_, err := svc.Create(context.Background(), offering.Input{Name: "Printing", TaxRate: 1.5, Price: -1})

	fields, ok := validation.FieldErrors(err)
	require.True(t, ok)
	require.Len(t, fields, 2)
}

func TestOfferingService_PatchAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.OfferingRepository{}
	repo.On("Get", ctx, "SRV25001").Return(&offering.Offering{ID: "SRV25001", Name: "Parking", Price: 5000, IsActive: true}, nil)
	repo.On("Update", ctx, mock.Anything).Return(nil)
	repo.On("Delete", ctx, "SRV25001").Return(repository.ErrForeignKeyViolation)

	svc := offering.NewService(repo, &mocks.Allocator{}, validation.NewGate(), nil, nil)
	price := 7500.0
	o, err := svc.Patch(ctx, "SRV25001", offering.Patch{Price: &price})
	require.NoError(t, err)
	require.Equal(t, 7500.0, o.Price)
	require.Equal(t, "Parking", o.Name)

	require.ErrorIs(t, svc.Delete(ctx, "SRV25001"), offering.ErrInUse)
}
