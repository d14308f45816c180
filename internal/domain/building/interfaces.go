package building

import (
	"context"

	"github.com/rpggio/spacedesk/internal/domain/activity"
	"github.com/rpggio/spacedesk/internal/domain/city"
	"github.com/rpggio/spacedesk/internal/domain/entity"
	"github.com/rpggio/spacedesk/internal/domain/stats"
)

// Repository provides persistence for buildings.
type Repository interface {
	Create(ctx context.Context, b *Building) error
	Get(ctx context.Context, id string) (*Building, error)
	List(ctx context.Context, opts ListOptions) ([]Building, int, error)
	// Update writes b only while the stored city and active flag still match read.
	// A row that has moved on fails with repository.ErrStale.
	Update(ctx context.Context, b *Building, read *Building) error
	// Delete returns the city and active flag the row had when removed.
	Delete(ctx context.Context, id string) (*Building, error)
	CountSpaces(ctx context.Context, id string) (int64, error)
}

// CityResolver looks cities up by id or resolves them by name.
type CityResolver interface {
	Get(ctx context.Context, id string) (*city.City, error)
	Resolve(ctx context.Context, name, province string) (*city.City, bool, error)
}

// StatisticsAggregator receives building lifecycle events.
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
