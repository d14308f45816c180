package city

import (
	"time"

	"github.com/rpggio/spacedesk/internal/domain/entity"
	"github.com/rpggio/spacedesk/internal/domain/stats"
)

// DefaultCountry is applied when a city is created without a country.
const DefaultCountry = "Indonesia"

// City groups buildings and carries their denormalized counters.
type City struct {
	ID         string           `json:"id"`
	Name       string           `json:"name"`
	Province   string           `json:"province"`
	Country    string           `json:"country"`
	Latitude   *float64         `json:"latitude,omitempty"`
	Longitude  *float64         `json:"longitude,omitempty"`
	IsActive   bool             `json:"isActive"`
	Statistics stats.Statistics `json:"statistics"`
	CreatedAt  time.Time        `json:"createdAt"`
	UpdatedAt  time.Time        `json:"updatedAt"`
}

// Placeholder reports whether the city was created on demand and never named.
func (c *City) Placeholder() bool {
	return c.Name == ""
}

// Input is the validated shape of a city write.
type Input struct {
	Name      string   `json:"name" validate:"notblank"`
	Province  string   `json:"province" validate:"notblank"`
	Country   string   `json:"country,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty" validate:"omitempty,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude,omitempty" validate:"omitempty,gte=-180,lte=180"`
	IsActive  *bool    `json:"isActive,omitempty"`
}

// EntityKind implements validation.Kinded.
func (Input) EntityKind() entity.Kind { return entity.KindCity }

// Patch carries the fields of a partial update.
type Patch struct {
	Name      *string  `json:"name,omitempty"`
	Province  *string  `json:"province,omitempty"`
	Country   *string  `json:"country,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	IsActive  *bool    `json:"isActive,omitempty"`
}

// ListOptions filters city listings.
type ListOptions struct {
	Province string
	Query    string
	IsActive *bool
	entity.Page
}
