package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/spacedesk/internal/domain/entity"
	"github.com/rpggio/spacedesk/internal/domain/offering"
	"github.com/rpggio/spacedesk/internal/domain/order"
	"github.com/rpggio/spacedesk/internal/repository"
	"github.com/stretchr/testify/require"
)

func TestOfferingRepository_CRUD(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewOfferingRepository(db)
	now := time.Now().UTC()

	o := &offering.Offering{ID: "SRV25001", Name: "Printing", Category: "office", Price: 2000, Unit: "page", TaxRate: 0.11, IsActive: true, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repo.Create(ctx, o))
	require.ErrorIs(t, repo.Create(ctx, &offering.Offering{ID: "SRV25002", Name: "printing", CreatedAt: now, UpdatedAt: now}), repository.ErrConflict)

	list, total, err := repo.List(ctx, offering.ListOptions{Category: "Office", Page: entity.Page{Limit: 10}})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Equal(t, 0.11, list[0].TaxRate)

	o.Price = 2500
	require.NoError(t, repo.Update(ctx, o))
	got, err := repo.Get(ctx, "SRV25001")
	require.NoError(t, err)
	require.Equal(t, 2500.0, got.Price)

	require.NoError(t, repo.Delete(ctx, "SRV25001"))
	require.ErrorIs(t, repo.Delete(ctx, "SRV25001"), repository.ErrNotFound)
}

func TestOrderRepository_Lifecycle(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	require.NoError(t, NewBuildingRepository(db).Create(ctx, newBuilding("BLD25001", "CIT25001", "A")))
	require.NoError(t, NewSpaceRepository(db).Create(ctx, newSpace("SPC25001", "BLD25001", "CIT25001", "Room 1")))

	repo := NewOrderRepository(db)
	now := time.Now().UTC()
	o := &order.Order{
		ID: "ORD25001", SpaceID: "SPC25001", CustomerName: "Budi", Quantity: 2,
		UnitPrice: 100, TaxRate: 0.1, Status: order.StatusPending, CreatedAt: now, UpdatedAt: now,
	}
	o.Subtotal, o.Tax, o.Total = order.Amounts(o.Quantity, o.UnitPrice, o.TaxRate)
	require.NoError(t, repo.Create(ctx, o))

	bad := *o
	bad.ID = "ORD25002"
	bad.ServiceID = "SRV99999"
	require.ErrorIs(t, repo.Create(ctx, &bad), repository.ErrForeignKeyViolation)

	got, err := repo.Get(ctx, "ORD25001")
	require.NoError(t, err)
	require.Equal(t, 220.0, got.Total)
	require.Empty(t, got.ServiceID)

	require.NoError(t, repo.UpdateStatus(ctx, "ORD25001", order.StatusPending, order.StatusConfirmed))
	require.ErrorIs(t, repo.UpdateStatus(ctx, "ORD25001", order.StatusPending, order.StatusCancelled), repository.ErrConflict)
	require.ErrorIs(t, repo.UpdateStatus(ctx, "ORD99999", order.StatusPending, order.StatusCancelled), repository.ErrNotFound)

	list, total, err := repo.List(ctx, order.ListOptions{Status: order.StatusConfirmed, Page: entity.Page{Limit: 10}})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Equal(t, "ORD25001", list[0].ID)

	_, err = NewSpaceRepository(db).Delete(ctx, "SPC25001")
	require.ErrorIs(t, err, repository.ErrForeignKeyViolation)
}
