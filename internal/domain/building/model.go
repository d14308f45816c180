package building

import (
	"time"

	"github.com/rpggio/spacedesk/internal/domain/entity"
)

// Building is a co-working site inside a city.
type Building struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Brand       entity.Brand    `json:"brand"`
	CityID      string          `json:"cityId"`
	Location    entity.Location `json:"location"`
	Description string          `json:"description,omitempty"`
	IsActive    bool            `json:"isActive"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// Input is the validated shape of a building write. When CityID is empty the
// city is resolved, and created if needed, from Location.City.
type Input struct {
	CityID      string          `json:"cityId,omitempty"`
	Name        string          `json:"name" validate:"notblank"`
	Brand       string          `json:"brand" validate:"required,brand"`
	Location    entity.Location `json:"location"`
	Description string          `json:"description,omitempty"`
	IsActive    *bool           `json:"isActive,omitempty"`
}

// EntityKind implements validation.Kinded.
func (Input) EntityKind() entity.Kind { return entity.KindBuilding }

// Patch carries the fields of a partial update. Location replaces the whole location.
type Patch struct {
	CityID      *string          `json:"cityId,omitempty"`
	Name        *string          `json:"name,omitempty"`
	Brand       *string          `json:"brand,omitempty"`
	Location    *entity.Location `json:"location,omitempty"`
	Description *string          `json:"description,omitempty"`
	IsActive    *bool            `json:"isActive,omitempty"`
}

// ListOptions filters building listings.
type ListOptions struct {
	CityID   string
	Brand    string
	Query    string
	IsActive *bool
	entity.Page
}
