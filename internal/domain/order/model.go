package order

import (
	"math"
	"time"

	"github.com/rpggio/spacedesk/internal/domain/entity"
)

// Status is the lifecycle state of an order.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Order is a booking of a space, optionally for a service offering.
type Order struct {
	ID           string    `json:"id"`
	SpaceID      string    `json:"spaceId"`
	ServiceID    string    `json:"serviceId,omitempty"`
	CustomerName string    `json:"customerName"`
	Quantity     int       `json:"quantity"`
	UnitPrice    float64   `json:"unitPrice"`
	TaxRate      float64   `json:"taxRate"`
	Subtotal     float64   `json:"subtotal"`
	Tax          float64   `json:"tax"`
	Total        float64   `json:"total"`
	Status       Status    `json:"status"`
	Notes        string    `json:"notes,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Input is the validated shape of a new order. UnitPrice and TaxRate are taken from
// the service offering when left nil.
type Input struct {
	SpaceID      string   `json:"spaceId" validate:"notblank"`
	ServiceID    string   `json:"serviceId,omitempty"`
	CustomerName string   `json:"customerName" validate:"notblank"`
	Quantity     int      `json:"quantity" validate:"gte=1"`
	UnitPrice    *float64 `json:"unitPrice,omitempty" validate:"omitempty,gte=0"`
	TaxRate      *float64 `json:"taxRate,omitempty" validate:"omitempty,gte=0,lte=1"`
	Notes        string   `json:"notes,omitempty"`
}

// EntityKind implements validation.Kinded.
func (Input) EntityKind() entity.Kind { return entity.KindOrder }

// ListOptions filters order listings.
type ListOptions struct {
	Status  Status
	SpaceID string
	entity.Page
}

// Amounts computes subtotal, tax and total rounded to cents.
func Amounts(quantity int, unitPrice, taxRate float64) (subtotal, tax, total float64) {
	subtotal = round2(float64(quantity) * unitPrice)
	tax = round2(subtotal * taxRate)
	total = round2(subtotal + tax)
	return subtotal, tax, total
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
