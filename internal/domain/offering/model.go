package offering

import (
	"time"

	"github.com/rpggio/spacedesk/internal/domain/entity"
)

// Offering is an entry of the services collection: something sold on top of a space,
// such as printing, parking or catering.
type Offering struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category,omitempty"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price"`
	Unit        string    `json:"unit,omitempty"`
	TaxRate     float64   `json:"taxRate"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Input is the validated shape of an offering write.
type Input struct {
	Name        string  `json:"name" validate:"notblank"`
	Category    string  `json:"category,omitempty"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price" validate:"gte=0"`
	Unit        string  `json:"unit,omitempty"`
	TaxRate     float64 `json:"taxRate" validate:"gte=0,lte=1"`
	IsActive    *bool   `json:"isActive,omitempty"`
}

// EntityKind implements validation.Kinded.
func (Input) EntityKind() entity.Kind { return entity.KindService }

// Patch carries the fields of a partial update.
type Patch struct {
	Name        *string  `json:"name,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Unit        *string  `json:"unit,omitempty"`
	TaxRate     *float64 `json:"taxRate,omitempty"`
	IsActive    *bool    `json:"isActive,omitempty"`
}

// ListOptions filters offering listings.
type ListOptions struct {
	Category string
	Query    string
	IsActive *bool
	entity.Page
}
