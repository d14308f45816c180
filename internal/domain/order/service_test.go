package order_test

import (
	"context"
	"testing"

	"github.com/rpggio/spacedesk/internal/domain/entity"
	"github.com/rpggio/spacedesk/internal/domain/offering"
	"github.com/rpggio/spacedesk/internal/domain/order"
	"github.com/rpggio/spacedesk/internal/domain/space"
	"github.com/rpggio/spacedesk/internal/domain/validation"
	"github.com/rpggio/spacedesk/internal/repository"
	"github.com/rpggio/spacedesk/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	repo      *mocks.OrderRepository
	spaces    *mocks.SpaceRepository
	offerings *mocks.OfferingRepository
	ids       *mocks.Allocator
	svc       *order.Service
}

func newFixture() *fixture {
	f := &fixture{
		repo:      &mocks.OrderRepository{},
		spaces:    &mocks.SpaceRepository{},
		offerings: &mocks.OfferingRepository{},
		ids:       &mocks.Allocator{},
	}
	gate := validation.NewGate()
	spaces := space.NewService(f.spaces, nil, nil, nil, gate, nil, nil)
	offerings := offering.NewService(f.offerings, nil, gate, nil, nil)
	f.svc = order.NewService(f.repo, spaces, offerings, f.ids, gate, nil, nil)
	return f
}

func TestOrderService_CreateUsesOfferingDefaults(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.spaces.On("Get", ctx, "SPC25001").Return(&space.Space{ID: "SPC25001"}, nil)
	f.offerings.On("Get", ctx, "SRV25001").Return(&offering.Offering{ID: "SRV25001", Price: 100000, TaxRate: 0.11}, nil)
	f.ids.On("AllocateNow", ctx, entity.KindOrder).Return("ORD25001", nil)
	f.repo.On("Create", ctx, mock.Anything).Return(nil)

	o, err := f.svc.Create(ctx, order.Input{SpaceID: "SPC25001", ServiceID: "SRV25001", CustomerName: "Budi", Quantity: 2})
	require.NoError(t, err)
	require.Equal(t, "ORD25001", o.ID)
	require.Equal(t, order.StatusPending, o.Status)
	require.Equal(t, 100000.0, o.UnitPrice)
	require.Equal(t, 200000.0, o.Subtotal)
	require.Equal(t, 22000.0, o.Tax)
	require.Equal(t, 222000.0, o.Total)
}

func TestOrderService_CreateExplicitPriceWins(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.spaces.On("Get", ctx, "SPC25001").Return(&space.Space{ID: "SPC25001"}, nil)
	f.offerings.On("Get", ctx, "SRV25001").Return(&offering.Offering{ID: "SRV25001", Price: 100000, TaxRate: 0.11}, nil)
	f.ids.On("AllocateNow", ctx, entity.KindOrder).Return("ORD25002", nil)
	f.repo.On("Create", ctx, mock.Anything).Return(nil)

	price, tax := 50000.0, 0.0
	o, err := f.svc.Create(ctx, order.Input{SpaceID: "SPC25001", ServiceID: "SRV25001", CustomerName: "Budi", Quantity: 1, UnitPrice: &price, TaxRate: &tax})
	require.NoError(t, err)
	require.Equal(t, 50000.0, o.Total)
}

func TestOrderService_CreateMissingReferences(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.spaces.On("Get", ctx, "SPC99999").Return(nil, repository.ErrNotFound)
	f.spaces.On("Get", ctx, "SPC25001").Return(&space.Space{ID: "SPC25001"}, nil)
	f.offerings.On("Get", ctx, "SRV99999").Return(nil, repository.ErrNotFound)

	_, err := f.svc.Create(ctx, order.Input{SpaceID: "SPC99999", CustomerName: "Budi", Quantity: 1})
	require.ErrorIs(t, err, space.ErrSpaceNotFound)

	_, err = f.svc.Create(ctx, order.Input{SpaceID: "SPC25001", ServiceID: "SRV99999", CustomerName: "Budi", Quantity: 1})
	require.ErrorIs(t, err, offering.ErrOfferingNotFound)
	f.ids.AssertNotCalled(t, "AllocateNow", mock.Anything, mock.Anything)
}

func TestOrderService_CreateInvalid(t *testing.T) {
	f := newFixture()
	_, err := f.svc.Create(context.Background(), order.Input{Quantity: 0})

	fields, ok := validation.FieldErrors(err)
	require.True(t, ok)
	require.Len(t, fields, 3)
}

func TestOrderService_Transition(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.repo.On("Get", ctx, "ORD25001").Return(&order.Order{ID: "ORD25001", Status: order.StatusPending}, nil)
	f.repo.On("UpdateStatus", ctx, "ORD25001", order.StatusPending, order.StatusConfirmed).Return(nil)

	o, err := f.svc.Transition(ctx, "ORD25001", order.StatusConfirmed)
	require.NoError(t, err)
	require.Equal(t, order.StatusConfirmed, o.Status)

	_, err = f.svc.Transition(ctx, "ORD25001", order.StatusCompleted)
	require.ErrorIs(t, err, order.ErrInvalidTransition)
}

func TestOrderService_TransitionLostRace(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.repo.On("Get", ctx, "ORD25001").Return(&order.Order{ID: "ORD25001", Status: order.StatusPending}, nil)
	f.repo.On("UpdateStatus", ctx, "ORD25001", order.StatusPending, order.StatusCancelled).Return(repository.ErrConflict)

	_, err := f.svc.Transition(ctx, "ORD25001", order.StatusCancelled)
	require.ErrorIs(t, err, order.ErrInvalidTransition)
}

func TestOrderService_Delete(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.repo.On("Get", ctx, "ORD25001").Return(&order.Order{ID: "ORD25001", Status: order.StatusConfirmed}, nil)
	f.repo.On("Get", ctx, "ORD25002").Return(&order.Order{ID: "ORD25002", Status: order.StatusCancelled}, nil)
	f.repo.On("Delete", ctx, "ORD25002").Return(nil)

	require.ErrorIs(t, f.svc.Delete(ctx, "ORD25001"), order.ErrNotDeletable)
	require.NoError(t, f.svc.Delete(ctx, "ORD25002"))
	f.repo.AssertNotCalled(t, "Delete", ctx, "ORD25001")
}
