package sequence

import (
	"time"

	"github.com/rpggio/spacedesk/internal/domain/entity"
)

// Counter is the last issued sequence number for one (entity type, year) scope.
type Counter struct {
	EntityType   entity.Kind `json:"entityType"`
	Scope        int         `json:"scope"`
	LastSequence int64       `json:"lastSequence"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}
