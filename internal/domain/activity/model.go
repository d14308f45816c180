package activity

import (
	"time"

	"github.com/rpggio/spacedesk/internal/domain/entity"
)

// ActivityType represents the type of activity event
type ActivityType string

const (
	TypeEntityCreated     ActivityType = "entity_created"
	TypeEntityUpdated     ActivityType = "entity_updated"
	TypeEntityDeleted     ActivityType = "entity_deleted"
	TypeActiveChanged     ActivityType = "active_changed"
	TypeStatusChanged     ActivityType = "status_changed"
	TypeCityAutoCreated   ActivityType = "city_auto_created"
	TypeStatisticsClamped ActivityType = "statistics_clamped"
	TypeStatisticsFailed  ActivityType = "statistics_failed"
)

// ActivityEntry represents an event in the activity log
type ActivityEntry struct {
	ID         int64        `json:"id"`
	Actor      string       `json:"actor"`
	EntityType entity.Kind  `json:"entityType"`
	EntityID   string       `json:"entityId"`
	Type       ActivityType `json:"type"`
	Summary    string       `json:"summary"`
	Details    string       `json:"details,omitempty"` // JSON string
	CreatedAt  time.Time    `json:"createdAt"`
}

// ListActivityOptions provides filtering options for listing activity.
type ListActivityOptions struct {
	EntityType *entity.Kind
	EntityID   *string
	Type       *ActivityType
	Since      *time.Time
	Limit      int
	Offset     int
}
