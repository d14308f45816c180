package space

import (
	"context"

	"github.com/rpggio/spacedesk/internal/domain/activity"
	"github.com/rpggio/spacedesk/internal/domain/building"
	"github.com/rpggio/spacedesk/internal/domain/entity"
	"github.com/rpggio/spacedesk/internal/domain/stats"
)

// Repository provides persistence for spaces.
type Repository interface {
	Create(ctx context.Context, sp *Space) error
	Get(ctx context.Context, id string) (*Space, error)
	List(ctx context.Context, opts ListOptions) ([]Space, int, error)
	// Update writes sp only while the stored city and active flag still match read.
	// A row that has moved on fails with repository.ErrStale.
	Update(ctx context.Context, sp *Space, read *Space) error
	// Delete returns the city and active flag the row had when removed.
	Delete(ctx context.Context, id string) (*Space, error)
}

// BuildingReader looks up the building a space belongs to.
type BuildingReader interface {
	Get(ctx context.Context, id string) (*building.Building, error)
}

// StatisticsAggregator receives space lifecycle events.
type StatisticsAggregator interface {
	OnChildCreated(ctx context.Context, cityID string, child stats.ChildType, isActive bool) (stats.Statistics, error)
	OnChildActiveChanged(ctx context.Context, cityID string, child stats.ChildType, isActive bool) (stats.Statistics, error)
	OnChildDeleted(ctx context.Context, cityID string, child stats.ChildType, wasActive bool) (stats.Statistics, error)
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
