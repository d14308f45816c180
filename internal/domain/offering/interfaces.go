package offering

import (
	"context"

	"github.com/rpggio/spacedesk/internal/domain/activity"
	"github.com/rpggio/spacedesk/internal/domain/entity"
)

// Repository provides persistence for offerings.
type Repository interface {
	Create(ctx context.Context, o *Offering) error
	Get(ctx context.Context, id string) (*Offering, error)
	List(ctx context.Context, opts ListOptions) ([]Offering, int, error)
	Update(ctx context.Context, o *Offering) error
	Delete(ctx context.Context, id string) error
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
