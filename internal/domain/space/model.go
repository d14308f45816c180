package space

import (
	"time"

	"github.com/rpggio/spacedesk/internal/domain/entity"
)

// Type is the kind of rentable unit.
type Type string

const (
	TypePrivateOffice Type = "private_office"
	TypeMeetingRoom   Type = "meeting_room"
	TypeHotDesk       Type = "hot_desk"
	TypeDedicatedDesk Type = "dedicated_desk"
	TypeEventSpace    Type = "event_space"
)

// MaxCapacity is the largest capacity a single space may declare.
const MaxCapacity = 1000

// Space is a rentable unit inside a building. CityID always follows the building.
type Space struct {
	ID           string       `json:"id"`
	BuildingID   string       `json:"buildingId"`
	CityID       string       `json:"cityId"`
	Name         string       `json:"name"`
	Brand        entity.Brand `json:"brand"`
	Type         Type         `json:"type"`
	Capacity     int          `json:"capacity"`
	PricePerHour float64      `json:"pricePerHour"`
	Description  string       `json:"description,omitempty"`
	IsActive     bool         `json:"isActive"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// Input is the validated shape of a space write. Empty Brand defaults to the
// building's brand, empty Type to private_office.
type Input struct {
	BuildingID   string  `json:"buildingId" validate:"notblank"`
	Name         string  `json:"name" validate:"notblank"`
	Brand        string  `json:"brand,omitempty" validate:"omitempty,brand"`
	Type         Type    `json:"type,omitempty" validate:"omitempty,oneof=private_office meeting_room hot_desk dedicated_desk event_space"`
	Capacity     int     `json:"capacity" validate:"gte=1,lte=1000"`
	PricePerHour float64 `json:"pricePerHour" validate:"gte=0"`
	Description  string  `json:"description,omitempty"`
	IsActive     *bool   `json:"isActive,omitempty"`
}

// EntityKind implements validation.Kinded.
func (Input) EntityKind() entity.Kind { return entity.KindSpace }

// Patch carries the fields of a partial update.
type Patch struct {
	BuildingID   *string  `json:"buildingId,omitempty"`
	Name         *string  `json:"name,omitempty"`
	Brand        *string  `json:"brand,omitempty"`
	Type         *Type    `json:"type,omitempty"`
	Capacity     *int     `json:"capacity,omitempty"`
	PricePerHour *float64 `json:"pricePerHour,omitempty"`
	Description  *string  `json:"description,omitempty"`
	IsActive     *bool    `json:"isActive,omitempty"`
}

// ListOptions filters space listings.
type ListOptions struct {
	BuildingID string
	CityID     string
	Type       Type
	IsActive   *bool
	Query      string
	entity.Page
}
