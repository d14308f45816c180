package city

import (
	"context"

	"github.com/rpggio/spacedesk/internal/domain/activity"
	"github.com/rpggio/spacedesk/internal/domain/entity"
)

// Repository provides persistence for cities. Update never touches statistics.
type Repository interface {
	Create(ctx context.Context, c *City) error
	Get(ctx context.Context, id string) (*City, error)
	FindByName(ctx context.Context, name string) (*City, error)
	List(ctx context.Context, opts ListOptions) ([]City, int, error)
	Update(ctx context.Context, c *City) error
	Delete(ctx context.Context, id string) error
	CountBuildings(ctx context.Context, id string) (int64, error)
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
