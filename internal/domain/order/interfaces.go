package order

import (
	"context"

	"github.com/rpggio/spacedesk/internal/domain/activity"
	"github.com/rpggio/spacedesk/internal/domain/entity"
	"github.com/rpggio/spacedesk/internal/domain/offering"
	"github.com/rpggio/spacedesk/internal/domain/space"
)

// Repository provides persistence for orders.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	Get(ctx context.Context, id string) (*Order, error)
	List(ctx context.Context, opts ListOptions) ([]Order, int, error)
	UpdateStatus(ctx context.Context, id string, from, to Status) error
	Delete(ctx context.Context, id string) error
}

// SpaceReader looks up the booked space.
type SpaceReader interface {
	Get(ctx context.Context, id string) (*space.Space, error)
}

// OfferingReader looks up the ordered service.
type OfferingReader interface {
	Get(ctx context.Context, id string) (*offering.Offering, error)
}

// IDAllocator issues sequence IDs.
type IDAllocator interface {
	AllocateNow(ctx context.Context, kind entity.Kind) (string, error)
}

// Validator checks payloads before persistence.
type Validator interface {
	Check(kind entity.Kind, payload any) error
}

// ActivityLogger records admin events.
type ActivityLogger interface {
	LogActivity(ctx context.Context, entry *activity.ActivityEntry) error
}
