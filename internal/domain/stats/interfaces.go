package stats

import (
	"context"

	"github.com/rpggio/spacedesk/internal/domain/activity"
)

// Repository applies deltas to city counters.
//
// Apply must, as one transaction: create a zeroed placeholder city when ev.CityID is
// unknown, skip the event when ev.ID was applied before, add d with the clamping rule of
// Statistics.Apply, and record the event. A busy store reports repository.ErrRetryable.
type Repository interface {
	Apply(ctx context.Context, ev Event, d Delta) (ApplyResult, error)
	Get(ctx context.Context, cityID string) (Statistics, error)
	Events(ctx context.Context, cityID string, limit int) ([]EventRecord, error)
}

// ActivityLogger records statistics warnings.
type ActivityLogger interface {
	LogActivity(ctx context.Context, entry *activity.ActivityEntry) error
}
